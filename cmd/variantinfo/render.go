package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	caseStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// paint applies style only for terminal output.
func paint(styled bool, style lipgloss.Style, s string) string {
	if !styled {
		return s
	}
	return style.Render(s)
}

func entryHeader(e entry, styled bool) string {
	return paint(styled, titleStyle, e.name) + " " + e.kind + " " + e.codec.Set().String()
}

// renderEntry prints the host and canonical layout of e, one row per case.
func renderEntry(e entry, styled bool, width int) string {
	var b strings.Builder

	b.WriteString(entryHeader(e, styled))
	b.WriteString("\n")

	s := e.codec.Set()
	cl := e.codec.Layout()
	fmt.Fprintf(&b, "  host:      size %d, align %d, inline %d/%d\n",
		s.MaxSize(), s.MaxAlign(), s.InlineSize(), s.InlineAlign())
	fmt.Fprintf(&b, "  canonical: size %d, align %d, disc %d, payload at %d\n",
		cl.Size, cl.Align, cl.DiscSize, cl.PayloadOffset)

	rule := min(width, 72)
	b.WriteString("  " + strings.Repeat("-", max(rule-2, 0)) + "\n")

	cases := e.codec.Cases()
	for i, a := range s.Alternatives() {
		c := cases[i]
		wt := c.WitType()
		if wt == "" {
			wt = "-"
		}
		slot := "inline"
		if !a.Inline() {
			slot = "boxed"
		}
		fmt.Fprintf(&b, "  %3d  %-20s %-8s %-10s %3d/%-2d %s\n",
			i,
			paint(styled, caseStyle, truncate(c.Name, 20)),
			wt,
			paint(styled, typeStyle, a.Type().String()),
			a.Size(), a.Align(), slot)
	}
	return b.String()
}

func renderResult(r *encodeResult, styled bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "value:  %s\n", paint(styled, resultStyle, r.value))
	fmt.Fprintf(&b, "bytes:  %s\n", hexBytes(r.bytes, r.layout.DiscSize, r.layout.PayloadOffset))
	if len(r.heap) > 0 {
		fmt.Fprintf(&b, "heap:   %s\n", hexBytes(r.heap, 0, 0))
	}
	fmt.Fprintf(&b, "lifted: %s", paint(styled, resultStyle, r.lifted))
	return b.String()
}

// hexBytes renders b with a bar between discriminant, padding and payload.
func hexBytes(b []byte, disc, payload uint32) string {
	var out strings.Builder
	for i, c := range b {
		if i > 0 {
			if disc > 0 && (uint32(i) == disc || uint32(i) == payload) {
				out.WriteString(" | ")
			} else {
				out.WriteByte(' ')
			}
		}
		fmt.Fprintf(&out, "%02x", c)
	}
	return out.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "~"
}
