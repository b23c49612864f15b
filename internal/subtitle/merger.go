package subtitle

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrPrecondition marks inputs Merge cannot work with. These indicate a bug in
// the caller, not a problem with the subtitle files.
var ErrPrecondition = errors.New("merge precondition violated")

// Merge combines the upper and lower tracks into a single bilingual track.
//
// The merge runs in four passes: the shared timeline is cut at every start
// and end point of both tracks, single-language slivers produced by that cut
// are filled with the closest lines of the missing language, lines inside
// every block are ordered upper first, and finally adjacent identical blocks
// are glued back together. Neither input is modified.
func Merge(upper, lower *Subtitles) (*Subtitles, error) {
	sortedSources, err := sortedSources(upper, lower)
	if err != nil {
		return nil, err
	}

	result := makeInitialMerge(upper, lower)
	result, err = extendSubtitles(result, sortedSources)
	if err != nil {
		return nil, err
	}
	sortLines(result, sortedSources)
	result = combineSubtitles(result)

	return result, nil
}

func sortedSources(upper, lower *Subtitles) ([2]Source, error) {
	upperSource, err := trackSource("upper", upper)
	if err != nil {
		return [2]Source{}, err
	}
	lowerSource, err := trackSource("lower", lower)
	if err != nil {
		return [2]Source{}, err
	}
	if upperSource == lowerSource {
		return [2]Source{}, fmt.Errorf(
			"%w: both tracks are tagged %s",
			ErrPrecondition,
			upperSource,
		)
	}
	return [2]Source{upperSource, lowerSource}, nil
}

// source of the first line, checked against every other line of the track
func trackSource(name string, sub *Subtitles) (Source, error) {
	if sub == nil || len(sub.Elements) == 0 {
		return 0, fmt.Errorf("%w: %s track is empty", ErrPrecondition, name)
	}
	if len(sub.Elements[0].Lines) == 0 {
		return 0, fmt.Errorf(
			"%w: %s track block 1 has no lines",
			ErrPrecondition,
			name,
		)
	}

	source := sub.Elements[0].Lines[0].Source
	for i, element := range sub.Elements {
		if len(element.Lines) == 0 {
			return 0, fmt.Errorf(
				"%w: %s track block %d has no lines",
				ErrPrecondition,
				name,
				i+1,
			)
		}
		if !(element.From < element.To) {
			return 0, fmt.Errorf(
				"%w: %s track block %d does not end after it starts",
				ErrPrecondition,
				name,
				i+1,
			)
		}
		for _, line := range element.Lines {
			if line.Source != source {
				return 0, fmt.Errorf(
					"%w: %s track block %d mixes %s and %s lines",
					ErrPrecondition,
					name,
					i+1,
					source,
					line.Source,
				)
			}
		}
	}
	return source, nil
}

// Cuts the timeline at every point mentioned by either track and emits one
// element per slice that is covered by at least one of them.
func makeInitialMerge(upper, lower *Subtitles) *Subtitles {
	points := uniqueSortedPoints(upper, lower)
	result := &Subtitles{}

	number := 1
	for i := 0; i < len(points)-1; i++ {
		from := points[i]
		to := points[i+1]

		upperElement := findElementForPeriod(from, to, upper)
		lowerElement := findElementForPeriod(from, to, lower)
		if upperElement == nil && lowerElement == nil {
			continue
		}

		merged := Element{
			Number: number,
			From:   from,
			To:     to,
		}
		number++

		if upperElement != nil {
			merged.Lines = append(merged.Lines, upperElement.Lines...)
		}
		if lowerElement != nil {
			merged.Lines = append(merged.Lines, lowerElement.Lines...)
		}

		result.Elements = append(result.Elements, merged)
	}

	return result
}

func uniqueSortedPoints(tracks ...*Subtitles) []time.Duration {
	seen := make(map[time.Duration]struct{})
	var points []time.Duration
	for _, track := range tracks {
		for _, element := range track.Elements {
			for _, point := range []time.Duration{element.From, element.To} {
				if _, ok := seen[point]; ok {
					continue
				}
				seen[point] = struct{}{}
				points = append(points, point)
			}
		}
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i] < points[j]
	})
	return points
}

// first element of the track that fully covers [from, to]
func findElementForPeriod(from, to time.Duration, sub *Subtitles) *Element {
	for i := range sub.Elements {
		element := &sub.Elements[i]
		if element.From <= from && to <= element.To {
			return element
		}
	}
	return nil
}

// Removes "jumps": when the cut leaves a short slice where only one language
// is shown while the same lines appear together with the other language right
// before or after it, the slice borrows the closest lines of that other
// language. Lines that are never accompanied by the other language, such as
// sound descriptions present only in one track, are left alone.
//
// Every lookup reads the unmodified pass-1 elements by index.
func extendSubtitles(merged *Subtitles, sortedSources [2]Source) (*Subtitles, error) {
	result := &Subtitles{Elements: make([]Element, 0, len(merged.Elements))}

	for i, element := range merged.Elements {
		sources := element.Sources()
		if len(sources) != 1 && len(sources) != 2 {
			return nil, fmt.Errorf(
				"%w: block %d has lines from %d sources",
				ErrPrecondition,
				element.Number,
				len(sources),
			)
		}

		extended := Element{
			Number: element.Number,
			From:   element.From,
			To:     element.To,
			Lines:  append([]Line(nil), element.Lines...),
		}

		if len(sources) == 2 || linesAlwaysAlone(element.Lines, i, merged) {
			result.Elements = append(result.Elements, extended)
			continue
		}

		otherSource := sortedSources[0]
		if otherSource == sources[0] {
			otherSource = sortedSources[1]
		}

		closest, err := closestLinesFromSource(i, otherSource, merged)
		if err != nil {
			return nil, err
		}
		extended.Lines = append(extended.Lines, closest...)

		result.Elements = append(result.Elements, extended)
	}

	return result, nil
}

// Reports whether lines (all from one source) are shown without the other
// source everywhere they appear. The scan first rewinds to the earliest
// element that shows lines, otherwise an earlier pairing with the other
// source would be missed.
func linesAlwaysAlone(lines []Line, index int, sub *Subtitles) bool {
	source := lines[0].Source

	start := index
	for i := index; i >= 0; i-- {
		if !LinesEqual(sub.Elements[i].LinesFrom(source), lines) {
			break
		}
		start = i
	}

	for i := start; i < len(sub.Elements); i++ {
		current := sub.Elements[i]
		if LinesEqual(current.Lines, lines) {
			continue
		}
		// either the lines themselves changed, so they were alone all along,
		// or they are unchanged and the other source joined them
		return !LinesEqual(current.LinesFrom(source), lines)
	}

	return true
}

// Lines of source taken from the nearest element that has any. Forward wins
// only when it is strictly closer; ties go backward.
func closestLinesFromSource(index int, source Source, sub *Subtitles) ([]Line, error) {
	forward := -1
	for i := index + 1; i < len(sub.Elements); i++ {
		if len(sub.Elements[i].LinesFrom(source)) > 0 {
			forward = i
			break
		}
	}

	backward := -1
	for i := index - 1; i >= 0; i-- {
		if len(sub.Elements[i].LinesFrom(source)) > 0 {
			backward = i
			break
		}
	}

	var chosen int
	switch {
	case forward == -1 && backward == -1:
		return nil, fmt.Errorf(
			"%w: no block with %s lines around block %d",
			ErrPrecondition,
			source,
			sub.Elements[index].Number,
		)
	case forward != -1 && backward != -1:
		current := sub.Elements[index]
		forwardGap := sub.Elements[forward].From - current.To
		backwardGap := current.From - sub.Elements[backward].To
		if forwardGap < backwardGap {
			chosen = forward
		} else {
			chosen = backward
		}
	case forward != -1:
		chosen = forward
	default:
		chosen = backward
	}

	return sub.Elements[chosen].LinesFrom(source), nil
}

// orders the lines of every element by source precedence, keeping the
// relative order of lines from the same source
func sortLines(sub *Subtitles, sortedSources [2]Source) {
	for i := range sub.Elements {
		ordered := make([]Line, 0, len(sub.Elements[i].Lines))
		for _, source := range sortedSources {
			ordered = append(ordered, sub.Elements[i].LinesFrom(source)...)
		}
		sub.Elements[i].Lines = ordered
	}
}

// Glues together elements that follow each other without a gap and show
// exactly the same lines. Kept elements are renumbered from 1.
func combineSubtitles(sub *Subtitles) *Subtitles {
	result := &Subtitles{Elements: make([]Element, 0, len(sub.Elements))}

	for _, current := range sub.Elements {
		if n := len(result.Elements); n > 0 {
			last := &result.Elements[n-1]
			if LinesEqual(last.Lines, current.Lines) && last.To == current.From {
				last.To = current.To
				continue
			}
		}

		current.Number = len(result.Elements) + 1
		current.Lines = append([]Line(nil), current.Lines...)
		result.Elements = append(result.Elements, current)
	}

	return result
}
