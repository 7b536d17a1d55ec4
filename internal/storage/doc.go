// Package storage holds the raw memory of a variant: an aligned inline byte
// region shared by pointer-free alternatives, a box slot for pointer-bearing
// alternatives, and the discriminator naming the live alternative.
//
// Region does not run any lifecycle code. Callers reserve memory for an
// alternative, construct into it, and only then commit the discriminator.
// Destruction is the mirror image: detach first, destroy, then release.
//
// This package is internal to the module.
package storage
