package ignored

func suppressedSameLine() {
	return
	println("never") //unreachcheck:ignore
}

func suppressedPrecedingLine() {
	return
	//unreachcheck:ignore - verified dead, kept for symmetry
	println("never")
}

func idleDirective() {
	//unreachcheck:ignore // want `unused unreachcheck:ignore directive`
	println("live")
}
