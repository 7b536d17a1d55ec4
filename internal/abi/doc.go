// Package abi provides low-level arithmetic shared by the host layout and the
// canonical ABI binding.
//
// # Contents
//
//   - helpers.go: alignment, overflow-safe arithmetic and type names
//   - disc.go: discriminant sizing and float/char canonicalization
//
// This package is internal to the module.
package abi
