//go:build release

package digest

// StrictMode is false in release builds: impurity and non-determinism
// signals degrade to a silent cache miss instead of a panic.
const StrictMode = false
