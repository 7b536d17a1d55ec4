// Package layout computes the host memory layout of an alternative list.
//
// Every alternative contributes its Go size and alignment. Alternatives whose
// type contains no Go pointers are stored inline: they share one byte region
// sized for the largest and aligned for the strictest of them. Alternatives
// holding pointers (strings, slices, maps, interfaces, pointers) are stored
// in a single box slot, since the collector needs a precise pointer map for
// every word it scans.
//
// # Usage
//
//	c := layout.NewCalculator()
//	r := c.Region(types)
//	// r.MaxSize, r.MaxAlign, r.InlineSize, r.InlineAlign, r.Slots[i].Inline
//
// This package is internal to the module.
package layout
