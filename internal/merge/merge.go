package merge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/dualsub/internal/config"
	"github.com/mgpai22/dualsub/internal/language"
	"github.com/mgpai22/dualsub/internal/subtitle"
	"github.com/mgpai22/dualsub/internal/video"
)

// VideoRequest describes one video to merge.
type VideoRequest struct {
	VideoPath string
	Upper     TrackSource
	Lower     TrackSource

	// sidecar path for separate_files mode, derived from the video when empty
	OutputPath string
}

// Merged is the outcome of merging two tracks.
type Merged struct {
	Subtitles  *subtitle.Subtitles
	UpperLabel string
	LowerLabel string
	Language   string // language tag for the merged track
}

// Title is the stream title recorded for the merged track.
func (m *Merged) Title() string {
	return video.MergedTitle(m.UpperLabel, m.LowerLabel)
}

// MergeFiles merges two external SubRip files.
func (s *Service) MergeFiles(ctx context.Context, upperPath, lowerPath string) (*Merged, error) {
	upper, err := s.loadFile(upperPath, subtitle.SourceUpper)
	if err != nil {
		return nil, fmt.Errorf("upper subtitles: %w", err)
	}
	lower, err := s.loadFile(lowerPath, subtitle.SourceLower)
	if err != nil {
		return nil, fmt.Errorf("lower subtitles: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.mergeTracks(upper, lower)
}

// MergeVideo merges two tracks of a video and writes the result according
// to the merge mode. The returned result is filled in even on error.
func (s *Service) MergeVideo(ctx context.Context, req VideoRequest) Result {
	result := Result{VideoPath: req.VideoPath}

	merged, output, err := s.mergeVideo(ctx, req)
	if merged != nil {
		result.UpperLabel = merged.UpperLabel
		result.LowerLabel = merged.LowerLabel
		if merged.Subtitles != nil {
			result.Blocks = len(merged.Subtitles.Elements)
		}
	}
	result.OutputPath = output
	result.Err = err
	result.Status = statusFor(err)

	switch result.Status {
	case StatusOK:
		s.logger.Infow("Merged subtitles",
			"video", req.VideoPath,
			"output", output,
			"upper", result.UpperLabel,
			"lower", result.LowerLabel,
			"blocks", result.Blocks,
		)
	case StatusFailed:
		s.logger.Warnw("Merge failed", "video", req.VideoPath, "error", err)
	default:
		s.logger.Infow("Video skipped",
			"video", req.VideoPath,
			"status", result.Status.String(),
			"reason", err,
		)
	}
	return result
}

func (s *Service) mergeVideo(ctx context.Context, req VideoRequest) (*Merged, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	streams, err := s.video.Probe(ctx, req.VideoPath)
	if err != nil {
		return nil, "", err
	}

	upperSel, err := selectTrack(streams, req.Upper, s.opts.UpperLanguage)
	if err != nil {
		return nil, "", fmt.Errorf("upper subtitles: %w", err)
	}
	lowerSel, err := selectTrack(streams, req.Lower, s.opts.LowerLanguage)
	if err != nil {
		return nil, "", fmt.Errorf("lower subtitles: %w", err)
	}
	labels := &Merged{UpperLabel: upperSel.label, LowerLabel: lowerSel.label}

	output := req.VideoPath
	if s.opts.MergeMode == config.MergeModeSeparateFiles {
		output = req.OutputPath
		if output == "" {
			output = SidecarPath(req.VideoPath, labels.UpperLabel, labels.LowerLabel)
		}
		if !s.opts.Force {
			if _, err := os.Stat(output); err == nil {
				return labels, output, fmt.Errorf("%w: %s", ErrOutputExists, output)
			}
		}
	} else if alreadyMerged(streams, labels.Title()) {
		return labels, output, fmt.Errorf("%w (%s)", ErrAlreadyMerged, labels.Title())
	}

	upper, err := s.loadSelection(ctx, req.VideoPath, upperSel, subtitle.SourceUpper)
	if err != nil {
		return labels, output, fmt.Errorf("upper subtitles: %w", err)
	}
	lower, err := s.loadSelection(ctx, req.VideoPath, lowerSel, subtitle.SourceLower)
	if err != nil {
		return labels, output, fmt.Errorf("lower subtitles: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return labels, output, err
	}

	merged, err := s.mergeTracks(upper, lower)
	if err != nil {
		return labels, output, err
	}

	text := subtitle.Write(merged.Subtitles)
	if s.opts.MergeMode == config.MergeModeSeparateFiles {
		if err := subtitle.WriteFile(merged.Subtitles, output); err != nil {
			return merged, output, fmt.Errorf("write merged subtitles: %w", err)
		}
		return merged, output, nil
	}

	err = s.video.InjectSubtitles(ctx, video.InjectRequest{
		VideoPath:         req.VideoPath,
		Subtitles:         text,
		Language:          merged.Language,
		Title:             merged.Title(),
		ExistingSubtitles: video.SubtitleStreams(streams),
		MakeDefault:       s.opts.MakeDefault,
	})
	if err != nil {
		return merged, output, err
	}
	return merged, output, nil
}

func (s *Service) mergeTracks(upper, lower track) (*Merged, error) {
	upperSubs, lowerSubs := upper.subtitles, lower.subtitles
	if s.opts.PlainText {
		upperSubs = subtitle.StripFormatting(upperSubs)
		lowerSubs = subtitle.StripFormatting(lowerSubs)
		if len(upperSubs.Elements) == 0 {
			return nil, fmt.Errorf("upper subtitles: %w", ErrEmptyTrack)
		}
		if len(lowerSubs.Elements) == 0 {
			return nil, fmt.Errorf("lower subtitles: %w", ErrEmptyTrack)
		}
	}

	merged, err := subtitle.Merge(upperSubs, lowerSubs)
	if err != nil {
		return nil, err
	}

	lang := upper.language
	if lang == "" {
		lang = lower.language
	}
	if lang == "" {
		lang = language.Undetermined
	}

	return &Merged{
		Subtitles:  merged,
		UpperLabel: upper.label,
		LowerLabel: lower.label,
		Language:   lang,
	}, nil
}

func alreadyMerged(streams []video.Stream, title string) bool {
	for _, stream := range video.SubtitleStreams(streams) {
		if stream.Title == title {
			return true
		}
	}
	return false
}

// SidecarPath returns <video without extension>.merged-<upper>-<lower>.srt.
func SidecarPath(videoPath, upperLabel, lowerLabel string) string {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	return base + "." + video.MergedTitle(upperLabel, lowerLabel) + ".srt"
}
