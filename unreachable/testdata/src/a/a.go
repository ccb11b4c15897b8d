// This file covers the basic shapes: jumps, constant conditions,
// loops, switches and nested function literals.
package a

func afterReturn() int {
	x := 1
	return x
	x = 2 // want "unreachable code"
	return x
}

func constFalseBranch() {
	if false {
		println("never") // want "unreachable code"
	}
	println("after")
}

func constTrueElse() {
	if true {
		println("then")
	} else {
		println("else") // want "unreachable code"
	}
}

func infiniteLoop() {
	for {
		println("spin")
	}
	println("after") // want "unreachable code"
}

func loopWithBreak() {
	for {
		break
	}
	println("after")
}

func deadBreak() {
	for {
		if false {
			break // want "unreachable code"
		}
	}
	println("after") // want "unreachable code"
}

func gotoSkips() {
	goto done
	println("skipped") // want "unreachable code"
done:
	println("done")
}

func panicStops() {
	panic("boom")
	println("never") // want "unreachable code"
}

func switchAllTerminate(x int) int {
	switch x {
	case 1:
		return 1
	default:
		return 0
	}
	return -1 // want "unreachable code"
}

func switchWithLiveDefault(x int) {
	switch x {
	case 1:
		return
	default:
		println("fall through")
	}
	println("after")
}

func breakCutsClause(x int) {
	switch x {
	case 1:
		break
		println("one") // want "unreachable code"
	}
}

func selectForever() {
	select {}
	println("after") // want "unreachable code"
}

func deadCodeInLiteral() {
	f := func() {
		return
		println("inner") // want "unreachable code"
	}
	f()
}
