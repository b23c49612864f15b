package video

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mgpai22/dualsub/internal/language"
)

const (
	TitleExternal  = "external"
	TitleUnknown   = "unknown"
	TitleUndefined = "undefined"
)

var mergedTitleRegex = regexp.MustCompile(
	`^merged-(external|unknown|undefined|[a-z]{3})-(external|unknown|undefined|[a-z]{3})$`,
)

// codecs ffmpeg can convert to SubRip
var textSubtitleCodecs = map[string]struct{}{
	"subrip":   {},
	"srt":      {},
	"ass":      {},
	"ssa":      {},
	"mov_text": {},
	"webvtt":   {},
	"text":     {},
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index       int // absolute index, used with -map 0:N
	CodecName   string
	CodecType   string
	Language    string // normalized ISO 639-2 code, "und" when missing
	LanguageTag string // raw tag value
	Title       string
	Default     bool

	// position among the subtitle streams, used with -metadata:s:s:N
	SubtitleIndex int
}

func (s Stream) IsSubtitle() bool {
	return strings.EqualFold(s.CodecType, "subtitle")
}

// Extractable reports whether the stream holds text subtitles.
func (s Stream) Extractable() bool {
	if !s.IsSubtitle() {
		return false
	}
	_, ok := textSubtitleCodecs[strings.ToLower(s.CodecName)]
	return ok
}

// Merged reports whether the stream was written by a previous merge.
func (s Stream) Merged() bool {
	return s.IsSubtitle() && mergedTitleRegex.MatchString(s.Title)
}

// Label names the stream in merged titles: its language code, "undefined"
// when it has no language tag and "unknown" when the tag is not recognized.
func (s Stream) Label() string {
	switch {
	case s.Language != "" && s.Language != language.Undetermined:
		return s.Language
	case s.LanguageTag == "" || s.LanguageTag == language.Undetermined:
		return TitleUndefined
	default:
		return TitleUnknown
	}
}

// MergedTitle builds the stream title for a merged track, each part being a
// language code or one of the external/unknown/undefined labels.
func MergedTitle(upper, lower string) string {
	return "merged-" + upper + "-" + lower
}

// ParseMergedTitle splits a merged stream title into its two labels.
func ParseMergedTitle(title string) (string, string, bool) {
	matches := mergedTitleRegex.FindStringSubmatch(title)
	if len(matches) != 3 {
		return "", "", false
	}
	return matches[1], matches[2], true
}

// SubtitleStreams returns the subtitle streams in container order.
func SubtitleStreams(streams []Stream) []Stream {
	var result []Stream
	for _, s := range streams {
		if s.IsSubtitle() {
			result = append(result, s)
		}
	}
	return result
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
}

type probeStream struct {
	Index       int               `json:"index"`
	CodecName   string            `json:"codec_name"`
	CodecType   string            `json:"codec_type"`
	Tags        map[string]string `json:"tags"`
	Disposition map[string]int    `json:"disposition"`
}

// Probe lists the streams of a video container.
func (p *Processor) Probe(ctx context.Context, path string) ([]Stream, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("ffprobe: empty path")
	}

	output, err := p.run(
		ctx,
		p.binaries.FFprobe,
		"-v", "error",
		"-hide_banner",
		"-show_streams",
		"-of", "json",
		"--", path,
	)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	streams, err := parseProbeOutput(output)
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	p.logger.Debugw("Probed video",
		"path", path,
		"streams", len(streams),
		"subtitle_streams", len(SubtitleStreams(streams)),
	)
	return streams, nil
}

func parseProbeOutput(output []byte) ([]Stream, error) {
	var parsed probeOutput
	if err := json.Unmarshal(output, &parsed); err != nil {
		return nil, fmt.Errorf("parse output: %w", err)
	}

	streams := make([]Stream, 0, len(parsed.Streams))
	subtitleIndex := 0
	for _, raw := range parsed.Streams {
		tag := language.ExtractFromTags(raw.Tags)
		stream := Stream{
			Index:         raw.Index,
			CodecName:     raw.CodecName,
			CodecType:     raw.CodecType,
			Language:      language.ToISO3(tag),
			LanguageTag:   tag,
			Title:         titleFromTags(raw.Tags),
			Default:       raw.Disposition["default"] == 1,
			SubtitleIndex: -1,
		}
		if stream.IsSubtitle() {
			stream.SubtitleIndex = subtitleIndex
			subtitleIndex++
		}
		streams = append(streams, stream)
	}
	return streams, nil
}

func titleFromTags(tags map[string]string) string {
	for _, key := range []string{"title", "TITLE", "Title"} {
		if value, ok := tags[key]; ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
