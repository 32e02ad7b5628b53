//go:build noc2

package vmenum

// HasC2 reports whether the C2 compiler is part of this build.
const HasC2 = false
