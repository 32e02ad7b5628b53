//go:build !nog1

package vmenum

// HasG1 reports whether the G1 collector is part of this build.
const HasG1 = true
