package subtitle

import (
	"testing"
	"time"
)

func TestStripLineFormatting(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"<i>italic</i>", "italic"},
		{"<FONT color=\"#ffff00\">yellow</FONT>", "yellow"},
		{"{\\an8}top", "top"},
		{"{\\i1}mixed{\\i0} <b>tags</b>", "mixed tags"},
		{"a < b", "a < b"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := StripLineFormatting(tt.input); got != tt.expected {
				t.Errorf("StripLineFormatting(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestStripFormatting(t *testing.T) {
	sub := &Subtitles{Elements: []Element{
		{Number: 1, From: 0, To: time.Second, Lines: []Line{
			{Text: "<i>Hello</i>", Source: SourceUpper},
			{Text: "{\\an8}", Source: SourceUpper},
		}},
		{Number: 2, From: time.Second, To: 2 * time.Second, Lines: []Line{
			{Text: "<i></i>", Source: SourceLower},
		}},
		{Number: 3, From: 2 * time.Second, To: 3 * time.Second, Lines: []Line{
			{Text: "Bye", Source: SourceLower},
		}},
	}}

	got := StripFormatting(sub)
	if len(got.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d: %+v", len(got.Elements), got.Elements)
	}
	if len(got.Elements[0].Lines) != 1 || got.Elements[0].Lines[0].Text != "Hello" {
		t.Errorf("element 0 lines: %+v", got.Elements[0].Lines)
	}
	if got.Elements[1].Number != 2 || got.Elements[1].Lines[0].Text != "Bye" {
		t.Errorf("element 1: %+v", got.Elements[1])
	}
	if got.Elements[1].Lines[0].Source != SourceLower {
		t.Errorf("source lost: %+v", got.Elements[1].Lines[0])
	}

	if sub.Elements[0].Lines[0].Text != "<i>Hello</i>" {
		t.Errorf("input was modified: %+v", sub.Elements[0].Lines)
	}
}
