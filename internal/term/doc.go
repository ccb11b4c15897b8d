// Package term decides whether a statement can complete normally, that
// is, whether execution can reach the point immediately after it.
//
// # Relation to terminating statements
//
// The language definition of a terminating statement drives the
// compiler's missing-return check. This package follows that shape but
// widens it in two ways that matter for region analysis:
//
//   - break and continue also terminate. The language rule only cares
//     about falling off the end of a function, so a bare break does not
//     count there. For a region boundary the question is different:
//     execution of a break never reaches the point after the break, so
//     a region ending in one cannot complete normally.
//
//   - constant conditions fold. An if with a constant true condition
//     completes exactly as its then branch does, a for loop with a
//     constant false condition always completes, and a for loop whose
//     breaks are all provably unreachable never does. Folding uses the
//     evaluated constant values recorded in types.Info and matches the
//     reachability analysis in package reach, so the two never
//     disagree about the same statement.
//
// A range statement always counts as completing normally regardless of
// the ranged expression, mirroring the compiler.
//
// # Reachability filter
//
// CompletesNormallyIn threads a reachability predicate through the
// walk. A block whose trailing statements are dead completes according
// to its last live statement, and a dead break cannot rescue an
// otherwise infinite loop. Passing a nil predicate treats every
// statement as live, which reduces to the plain syntactic rule.
//
// All functions tolerate a nil types.Info: folding is skipped and
// panic calls are recognized by name only.
package term
