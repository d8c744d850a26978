//go:build !release

package digest

// StrictMode gates the impurity assertions in callseq.Sequence.Insert and
// calltree's non-determinism panic: debug builds (the default) fault
// loudly. Build with -tags release to silence them and degrade to a
// cache miss instead.
const StrictMode = true
