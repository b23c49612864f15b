package merge

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/mgpai22/dualsub/internal/language"
	"github.com/mgpai22/dualsub/internal/subtitle"
	"github.com/mgpai22/dualsub/internal/video"
)

// AutoStream selects the subtitle stream by configured language.
const AutoStream = -1

// TrackSource says where one side of the merge comes from: an external file,
// an explicit stream of the video or, by default, the best stream in the
// configured language.
type TrackSource struct {
	File   string
	Stream int
}

func Auto() TrackSource {
	return TrackSource{Stream: AutoStream}
}

func (t TrackSource) isAuto() bool {
	return t.File == "" && t.Stream < 0
}

// loaded side of a merge
type track struct {
	subtitles *subtitle.Subtitles
	label     string // language code or external/unknown/undefined
	language  string // ISO 639-2, "" when unknown
}

// candidate streams for one side, all sharing a label
type selection struct {
	file    string
	streams []video.Stream
	label   string
}

type cacheKey struct {
	path    string
	size    int64
	modTime int64
	stream  int
}

// Picks the stream(s) for one side without extracting anything yet, so the
// merged title is known before the expensive work starts.
func selectTrack(streams []video.Stream, src TrackSource, preferred string) (selection, error) {
	if src.File != "" {
		return selection{file: src.File, label: video.TitleExternal}, nil
	}

	if !src.isAuto() {
		for _, stream := range streams {
			if stream.Index != src.Stream {
				continue
			}
			if !stream.Extractable() {
				return selection{}, fmt.Errorf(
					"%w: stream %d is not a text subtitle stream",
					ErrNoMatchingStream,
					src.Stream,
				)
			}
			return selection{streams: []video.Stream{stream}, label: stream.Label()}, nil
		}
		return selection{}, fmt.Errorf("%w: video has no stream %d", ErrNoMatchingStream, src.Stream)
	}

	var candidates []video.Stream
	for _, stream := range video.SubtitleStreams(streams) {
		if !stream.Extractable() || stream.Merged() {
			continue
		}
		if language.Matches(stream.Language, preferred) {
			candidates = append(candidates, stream)
		}
	}
	if len(candidates) == 0 {
		return selection{}, fmt.Errorf(
			"%w: language %s",
			ErrNoMatchingStream,
			language.DisplayName(preferred),
		)
	}
	return selection{streams: candidates, label: candidates[0].Label()}, nil
}

func (s *Service) loadFile(path string, source subtitle.Source) (track, error) {
	file, err := subtitle.Open(path, source, subtitle.OpenOptions{
		Encoding:    s.opts.Encoding,
		MaxFileSize: s.opts.MaxFileSize,
	})
	if err != nil {
		return track{}, err
	}

	s.logger.Debugw("Loaded subtitle file",
		"path", path,
		"encoding", file.Encoding,
		"blocks", len(file.Subtitles.Elements),
		"language", file.Language,
	)
	return track{
		subtitles: file.Subtitles,
		label:     video.TitleExternal,
		language:  file.Language,
	}, nil
}

// Loads the selected side. Among several candidate streams the one with the
// most text wins, which skips forced and signs-only tracks.
func (s *Service) loadSelection(
	ctx context.Context,
	videoPath string,
	sel selection,
	source subtitle.Source,
) (track, error) {
	if sel.file != "" {
		return s.loadFile(sel.file, source)
	}

	type loaded struct {
		stream    video.Stream
		subtitles *subtitle.Subtitles
	}
	var tracks []loaded
	var lastErr error
	for _, stream := range sel.streams {
		text, err := s.streamText(ctx, videoPath, stream)
		if err != nil {
			if ctx.Err() != nil {
				return track{}, ctx.Err()
			}
			lastErr = err
			s.logger.Warnw("Skipping subtitle stream",
				"video", videoPath,
				"stream", stream.Index,
				"error", err,
			)
			continue
		}
		parsed, err := subtitle.Parse(text, source)
		if err != nil {
			lastErr = fmt.Errorf("stream %d: %w", stream.Index, err)
			s.logger.Warnw("Skipping unparsable subtitle stream",
				"video", videoPath,
				"stream", stream.Index,
				"error", err,
			)
			continue
		}
		tracks = append(tracks, loaded{stream: stream, subtitles: parsed})
	}

	if len(tracks) == 0 {
		return track{}, lastErr
	}

	sort.SliceStable(tracks, func(i, j int) bool {
		return tracks[i].subtitles.TextSize() > tracks[j].subtitles.TextSize()
	})
	best := tracks[0]

	s.logger.Debugw("Selected subtitle stream",
		"video", videoPath,
		"stream", best.stream.Index,
		"language", best.stream.Language,
		"candidates", len(sel.streams),
	)

	lang := ""
	if best.stream.Language != language.Undetermined {
		lang = best.stream.Language
	}
	return track{subtitles: best.subtitles, label: sel.label, language: lang}, nil
}

// decoded text of a stream, served from the cache while the video is unchanged
func (s *Service) streamText(ctx context.Context, videoPath string, stream video.Stream) (string, error) {
	info, err := os.Stat(videoPath)
	if err != nil {
		return "", fmt.Errorf("video file not found: %w", err)
	}
	key := cacheKey{
		path:    videoPath,
		size:    info.Size(),
		modTime: info.ModTime().UnixNano(),
		stream:  stream.Index,
	}
	if text, ok := s.cache.Get(key); ok {
		return text, nil
	}

	data, err := s.video.ExtractSubtitles(ctx, videoPath, stream)
	if err != nil {
		return "", err
	}
	text, _, err := subtitle.Decode(data, "")
	if err != nil {
		return "", fmt.Errorf("stream %d: %w", stream.Index, err)
	}

	s.cache.Add(key, text)
	return text, nil
}
