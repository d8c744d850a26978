// Package memo provides constrained memoization: a cache for
// otherwise-pure functions that stays valid across calls whose tracked
// arguments changed in ways the function never actually observed.
//
// A memoized function site owns one Cache[Out] and calls Memoize with a
// composite Input built from Hashed and tracked ArgSlots. Tracked types
// are hand-written wrappers embedding Handle[T] (see trackeddemo for
// worked examples); they route every surface method call through the
// attached Constraint, which records a replayable trace that later
// calls are validated against instead of their raw arguments.
package memo
