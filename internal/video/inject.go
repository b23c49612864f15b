package video

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const lockRetryDelay = 200 * time.Millisecond

// how long to wait for another process to release the video
var lockTimeout = 5 * time.Second

var (
	ErrVideoLocked    = errors.New("video is being processed by another dualsub instance")
	ErrOutputTooSmall = errors.New("ffmpeg output is not larger than the original video")
)

// containers that only accept mov_text subtitles
var movTextContainers = map[string]struct{}{
	".mp4": {},
	".m4v": {},
	".mov": {},
}

// InjectRequest describes a merged track to add to a video.
type InjectRequest struct {
	VideoPath string
	Subtitles string // SubRip text
	Language  string // ISO 639-2 code, empty when unknown
	Title     string

	// the subtitle streams already in the video, as returned by Probe
	ExistingSubtitles []Stream

	// mark the new stream default and clear the flag on the others
	MakeDefault bool
}

// InjectSubtitles adds the merged track as a new subtitle stream. The video
// is rewritten into a temporary file next to it, checked and then renamed
// over the original, so a failure never leaves a broken video behind.
func (p *Processor) InjectSubtitles(ctx context.Context, req InjectRequest) error {
	if strings.TrimSpace(req.VideoPath) == "" {
		return errors.New("video path is required")
	}
	if strings.TrimSpace(req.Subtitles) == "" {
		return errors.New("subtitles are empty")
	}

	original, err := os.Stat(req.VideoPath)
	if err != nil {
		return fmt.Errorf("video file not found: %w", err)
	}

	dir := filepath.Dir(req.VideoPath)
	base := filepath.Base(req.VideoPath)

	lock := flock.New(filepath.Join(dir, "."+base+".dualsub.lock"))
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	locked, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	cancel()
	if err != nil || !locked {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrVideoLocked
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	if err := os.MkdirAll(p.tempDir, 0o755); err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	id := uuid.NewString()
	subtitlePath := filepath.Join(p.tempDir, "dualsub-"+id+".srt")
	if err := os.WriteFile(subtitlePath, []byte(req.Subtitles), 0o644); err != nil {
		return fmt.Errorf("failed to write merged subtitles: %w", err)
	}
	defer func() { _ = os.Remove(subtitlePath) }()

	// keep the extension so ffmpeg picks the same muxer
	outputPath := filepath.Join(dir, ".dualsub-"+id+"-"+base)

	args := injectArgs(req, subtitlePath, outputPath)

	p.logger.Debugw("Injecting subtitles",
		"video", req.VideoPath,
		"title", req.Title,
		"language", req.Language,
		"subtitle_index", len(req.ExistingSubtitles),
	)

	if _, err := p.run(ctx, p.binaries.FFmpeg, args...); err != nil {
		_ = os.Remove(outputPath)
		return fmt.Errorf("ffmpeg injection failed: %w", err)
	}

	result, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("ffmpeg did not produce output file: %w", err)
	}
	if result.Size() <= original.Size() {
		_ = os.Remove(outputPath)
		return fmt.Errorf(
			"%w (%d <= %d bytes)",
			ErrOutputTooSmall,
			result.Size(),
			original.Size(),
		)
	}

	if err := replaceFile(outputPath, req.VideoPath, original.Mode().Perm()); err != nil {
		_ = os.Remove(outputPath)
		return err
	}

	p.logger.Infow("Subtitles injected",
		"video", req.VideoPath,
		"title", req.Title,
		"size_before", original.Size(),
		"size_after", result.Size(),
	)
	return nil
}

func injectArgs(req InjectRequest, subtitlePath, outputPath string) []string {
	index := len(req.ExistingSubtitles)

	metadata := []string{"title=" + req.Title}
	if req.Language != "" {
		metadata = append([]string{"language=" + req.Language}, metadata...)
	}

	kwargs := ffmpeg.KwArgs{
		"c":                    "copy",
		"max_interleave_delta": "0",
	}
	kwargs[fmt.Sprintf("metadata:s:s:%d", index)] = metadata

	ext := strings.ToLower(filepath.Ext(req.VideoPath))
	if _, ok := movTextContainers[ext]; ok {
		kwargs[fmt.Sprintf("c:s:%d", index)] = "mov_text"
	}

	if req.MakeDefault {
		kwargs[fmt.Sprintf("disposition:s:%d", index)] = "default"
		for _, existing := range req.ExistingSubtitles {
			if existing.Default {
				kwargs[fmt.Sprintf("disposition:s:%d", existing.SubtitleIndex)] = "0"
			}
		}
	}

	// two inputs make ffmpeg-go emit -map 0 -map 1
	inputs := []*ffmpeg.Stream{
		ffmpeg.Input(req.VideoPath, ffmpeg.KwArgs{"copy_unknown": ""}),
		ffmpeg.Input(subtitlePath),
	}
	return ffmpeg.Output(inputs, outputPath, kwargs).
		OverWriteOutput().
		GetArgs()
}

// moves src over dst and gives it the permissions dst had
func replaceFile(src, dst string, perm os.FileMode) error {
	if err := os.Chmod(src, perm); err != nil {
		return fmt.Errorf("failed to copy permissions: %w", err)
	}

	readOnly := perm&0o200 == 0
	if readOnly && runtime.GOOS == "windows" {
		if err := os.Chmod(dst, perm|0o200); err != nil {
			return fmt.Errorf("failed to make video writable: %w", err)
		}
	}

	if err := os.Rename(src, dst); err != nil {
		if readOnly && runtime.GOOS == "windows" {
			_ = os.Chmod(dst, perm)
		}
		return fmt.Errorf("failed to replace original video: %w", err)
	}
	return nil
}
