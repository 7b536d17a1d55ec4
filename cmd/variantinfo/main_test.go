package main

import (
	"strings"
	"testing"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/variant/canon"
)

func compileCases(t *testing.T, s string) entry {
	t.Helper()
	td, err := parseCases(s)
	if err != nil {
		t.Fatalf("parseCases: %v", err)
	}
	c, err := canon.Compile(td)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return entry{codec: c, name: c.Name(), kind: "variant"}
}

func TestParseCases(t *testing.T) {
	td, err := parseCases("none, some:u32 ,label:string")
	if err != nil {
		t.Fatalf("parseCases: %v", err)
	}
	v, ok := td.Kind.(*wit.Variant)
	if !ok {
		t.Fatalf("kind: got %T, want *wit.Variant", td.Kind)
	}
	if len(v.Cases) != 3 {
		t.Fatalf("cases: got %d, want 3", len(v.Cases))
	}
	if v.Cases[0].Type != nil {
		t.Error("none should have no payload")
	}
	if _, ok := v.Cases[1].Type.(wit.U32); !ok {
		t.Errorf("some: got %T, want wit.U32", v.Cases[1].Type)
	}

	for _, bad := range []string{"", ",", ":u32", "x:not-a-type"} {
		if _, err := parseCases(bad); err == nil {
			t.Errorf("parseCases(%q) should fail", bad)
		}
	}
}

func TestParseValue(t *testing.T) {
	e := compileCases(t, "none,b:bool,n:s16,f:f32,c:char,s:string")
	cases := e.codec.Cases()

	tests := []struct {
		idx  int
		text string
		want any
		ok   bool
	}{
		{0, "", struct{}{}, true},
		{1, "true", true, true},
		{2, "-12", int16(-12), true},
		{2, "70000", nil, false},
		{3, "1.5", float32(1.5), true},
		{4, "é", 'é', true},
		{4, "ab", nil, false},
		{5, " hi ", "hi", true},
	}

	for _, tt := range tests {
		got, err := parseValue(cases[tt.idx], tt.text)
		if tt.ok {
			if err != nil || got != tt.want {
				t.Errorf("parseValue(%s, %q): got %v/%v, want %v", cases[tt.idx].Name, tt.text, got, err, tt.want)
			}
		} else if err == nil {
			t.Errorf("parseValue(%s, %q) should fail", cases[tt.idx].Name, tt.text)
		}
	}
}

func TestRenderEntry_Plain(t *testing.T) {
	e := compileCases(t, "none,some:u32,label:string")
	out := renderEntry(e, false, 80)

	for _, want := range []string{
		"cases variant variant<none, some, label>",
		"canonical: size 12, align 4, disc 1, payload at 4",
		"label",
		"boxed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("plain output must not contain escape sequences")
	}
}

func TestScratchEncode(t *testing.T) {
	s, err := newScratch()
	if err != nil {
		t.Fatalf("newScratch: %v", err)
	}
	defer s.close()

	e := compileCases(t, "none,some:u32,label:string")

	res, err := s.encode(e, "some=42")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := hexBytes(res.bytes, 1, 4); got != "01 | 00 00 00 | 2a 00 00 00 00 00 00 00" {
		t.Errorf("bytes: got %q", got)
	}
	if res.lifted != res.value {
		t.Errorf("lifted %q, want %q", res.lifted, res.value)
	}

	res, err = s.encode(e, "label=hey")
	if err != nil {
		t.Fatalf("encode(label): %v", err)
	}
	if string(res.heap) != "hey" {
		t.Errorf("heap: got %q, want hey", res.heap)
	}

	if _, err := s.encode(e, "missing=1"); err == nil {
		t.Error("unknown case should fail")
	}
	if _, err := s.encode(e, "some=x"); err == nil {
		t.Error("bad payload should fail")
	}
}

func TestLoadEntries_Filter(t *testing.T) {
	entries, err := loadEntries("", "a,b:u8", "nomatch")
	if err != nil {
		t.Fatalf("loadEntries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("filter: got %d entries, want 0", len(entries))
	}
	entries, _ = loadEntries("", "a,b:u8", "cases")
	if len(entries) != 1 {
		t.Errorf("filter: got %d entries, want 1", len(entries))
	}
}
