package main

import (
	"fmt"
	"sort"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/variant/canon"
)

type entry struct {
	codec *canon.Codec
	name  string
	kind  string
}

// loadEntries compiles every variant-like type of the WIT JSON file at path
// and the ad hoc case list, keeping those whose name contains filter.
func loadEntries(path, cases, filter string) ([]entry, error) {
	var entries []entry

	if path != "" {
		res, err := wit.LoadJSON(path)
		if err != nil {
			return nil, fmt.Errorf("load wit: %w", err)
		}
		for _, td := range res.TypeDefs {
			kind := kindOf(td)
			if kind == "" {
				continue
			}
			c, err := canon.Compile(td)
			if err != nil {
				// payloads outside the primitive set are skipped
				continue
			}
			entries = append(entries, entry{codec: c, name: c.Name(), kind: kind})
		}
	}

	if cases != "" {
		td, err := parseCases(cases)
		if err != nil {
			return nil, err
		}
		c, err := canon.Compile(td)
		if err != nil {
			return nil, fmt.Errorf("compile cases: %w", err)
		}
		entries = append(entries, entry{codec: c, name: c.Name(), kind: "variant"})
	}

	if filter != "" {
		kept := entries[:0]
		for _, e := range entries {
			if strings.Contains(e.name, filter) {
				kept = append(kept, e)
			}
		}
		entries = kept
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	return entries, nil
}

func kindOf(td *wit.TypeDef) string {
	switch td.Kind.(type) {
	case *wit.Variant:
		return "variant"
	case *wit.Enum:
		return "enum"
	case *wit.Option:
		return "option"
	case *wit.Result:
		return "result"
	default:
		return ""
	}
}

// parseCases builds a WIT variant from "name[:type],..." where type is a
// primitive WIT type name.
func parseCases(s string) (*wit.TypeDef, error) {
	name := "cases"
	var cs []wit.Case
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		caseName, typStr, hasType := strings.Cut(part, ":")
		c := wit.Case{Name: strings.TrimSpace(caseName)}
		if c.Name == "" {
			return nil, fmt.Errorf("case %q has no name", part)
		}
		if hasType {
			t, err := wit.ParseType(strings.TrimSpace(typStr))
			if err != nil {
				return nil, fmt.Errorf("case %s: %w", c.Name, err)
			}
			c.Type = t
		}
		cs = append(cs, c)
	}
	if len(cs) == 0 {
		return nil, fmt.Errorf("no cases in %q", s)
	}
	return &wit.TypeDef{Name: &name, Kind: &wit.Variant{Cases: cs}}, nil
}
