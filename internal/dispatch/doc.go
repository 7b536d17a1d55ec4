// Package dispatch implements the lifecycle table of a variant.
//
// A Table holds one Entry per alternative index. Each entry carries
// type-erased operations over raw storage addresses: construct from a value,
// destroy, copy, move, and the optional in-place assignments. The table is
// built once when an alternative set is declared and indexed directly by the
// runtime discriminator.
//
// This package is internal to the module.
package dispatch
