package subtitle

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// matched by every error returned from Parse
var ErrFormat = errors.New("invalid subtitle format")

// describes why a block of SubRip text could not be parsed
type FormatError struct {
	Block  int // 1-based ordinal of the block in the input, 0 if not tied to a block
	Line   int // 1-based input line, 0 if unknown
	Reason string
}

func (e *FormatError) Error() string {
	if e.Block == 0 {
		return fmt.Sprintf("invalid subtitle format: %s", e.Reason)
	}
	return fmt.Sprintf(
		"invalid subtitle format: block %d (line %d): %s",
		e.Block,
		e.Line,
		e.Reason,
	)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

var timecodeRegex = regexp.MustCompile(
	`^(\d{2,}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2,}):(\d{2}):(\d{2}),(\d{3})$`,
)

type rawLine struct {
	number int
	text   string
}

// Parse converts SubRip text into subtitles, tagging every line with source.
// Block numbers are kept as written in the input.
func Parse(text string, source Source) (*Subtitles, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var blocks [][]rawLine
	var current []rawLine
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, rawLine{number: i + 1, text: line})
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}

	if len(blocks) == 0 {
		return nil, &FormatError{Reason: "no subtitle blocks"}
	}

	result := &Subtitles{Elements: make([]Element, 0, len(blocks))}
	for i, block := range blocks {
		element, err := parseBlock(i+1, block, source)
		if err != nil {
			return nil, err
		}
		result.Elements = append(result.Elements, element)
	}

	return result, nil
}

func parseBlock(ordinal int, block []rawLine, source Source) (Element, error) {
	number, err := strconv.Atoi(strings.TrimSpace(block[0].text))
	if err != nil || number <= 0 {
		return Element{}, &FormatError{
			Block:  ordinal,
			Line:   block[0].number,
			Reason: fmt.Sprintf("invalid index line %q", block[0].text),
		}
	}

	if len(block) < 2 {
		return Element{}, &FormatError{
			Block:  ordinal,
			Line:   block[0].number,
			Reason: "missing timecode line",
		}
	}

	from, to, err := parseTimecodeLine(strings.TrimSpace(block[1].text))
	if err != nil {
		return Element{}, &FormatError{
			Block:  ordinal,
			Line:   block[1].number,
			Reason: err.Error(),
		}
	}
	if from >= to {
		return Element{}, &FormatError{
			Block:  ordinal,
			Line:   block[1].number,
			Reason: fmt.Sprintf(
				"start %s is not before end %s",
				FormatTimestamp(from),
				FormatTimestamp(to),
			),
		}
	}

	if len(block) < 3 {
		return Element{}, &FormatError{
			Block:  ordinal,
			Line:   block[1].number,
			Reason: "block has no text lines",
		}
	}

	lines := make([]Line, 0, len(block)-2)
	for _, raw := range block[2:] {
		lines = append(lines, Line{Text: raw.text, Source: source})
	}

	return Element{
		Number: number,
		From:   from,
		To:     to,
		Lines:  lines,
	}, nil
}

func parseTimecodeLine(line string) (time.Duration, time.Duration, error) {
	matches := timecodeRegex.FindStringSubmatch(line)
	if len(matches) != 9 {
		return 0, 0, fmt.Errorf("invalid timecode line %q", line)
	}

	from, err := parseSRTTimestamp(
		matches[1], matches[2], matches[3], matches[4],
	)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start timestamp: %w", err)
	}
	to, err := parseSRTTimestamp(
		matches[5], matches[6], matches[7], matches[8],
	)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end timestamp: %w", err)
	}
	return from, to, nil
}

func parseSRTTimestamp(
	hours, minutes, seconds, millis string,
) (time.Duration, error) {
	h, err := strconv.Atoi(hours)
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, err
	}
	s, err := strconv.Atoi(seconds)
	if err != nil {
		return 0, err
	}
	ms, err := strconv.Atoi(millis)
	if err != nil {
		return 0, err
	}
	if m > 59 {
		return 0, fmt.Errorf("minutes out of range: %d", m)
	}
	if s > 59 {
		return 0, fmt.Errorf("seconds out of range: %d", s)
	}

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}
