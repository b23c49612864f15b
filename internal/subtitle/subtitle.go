package subtitle

import (
	"time"
)

// identifies which of the two merged tracks a line came from
type Source int

const (
	SourceUpper Source = iota
	SourceLower
)

func (s Source) String() string {
	switch s {
	case SourceUpper:
		return "upper"
	case SourceLower:
		return "lower"
	default:
		return "unknown"
	}
}

// the opposite track
func (s Source) Other() Source {
	if s == SourceUpper {
		return SourceLower
	}
	return SourceUpper
}

// single piece of caption text tagged with its track
type Line struct {
	Text   string
	Source Source
}

// represents single subtitle block (a cue)
type Element struct {
	Number int
	From   time.Duration
	To     time.Duration
	Lines  []Line
}

// represents complete subtitle track
type Subtitles struct {
	Elements []Element
}

// Sources returns the distinct sources present in the element, in line order.
func (e Element) Sources() []Source {
	var sources []Source
	for _, line := range e.Lines {
		seen := false
		for _, s := range sources {
			if s == line.Source {
				seen = true
				break
			}
		}
		if !seen {
			sources = append(sources, line.Source)
		}
	}
	return sources
}

// lines of the element that belong to source, in their original order
func (e Element) LinesFrom(source Source) []Line {
	var lines []Line
	for _, line := range e.Lines {
		if line.Source == source {
			lines = append(lines, line)
		}
	}
	return lines
}

// Clone returns a deep copy that shares no slices with s.
func (s *Subtitles) Clone() *Subtitles {
	if s == nil {
		return nil
	}
	out := &Subtitles{Elements: make([]Element, len(s.Elements))}
	for i, element := range s.Elements {
		out.Elements[i] = element
		out.Elements[i].Lines = append([]Line(nil), element.Lines...)
	}
	return out
}

// total size of the text, used to rank competing tracks
func (s *Subtitles) TextSize() int {
	if s == nil {
		return 0
	}
	size := 0
	for _, element := range s.Elements {
		for _, line := range element.Lines {
			size += len(line.Text)
		}
	}
	return size
}

// LinesEqual reports whether a and b hold the same lines in the same order.
// A nil slice and an empty slice are equal.
func LinesEqual(a, b []Line) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
