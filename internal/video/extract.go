package video

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

var ErrNotExtractable = errors.New("subtitle stream cannot be converted to SubRip")

// ExtractSubtitles converts a subtitle stream of the video to SubRip and
// returns the raw bytes written by ffmpeg.
func (p *Processor) ExtractSubtitles(ctx context.Context, videoPath string, stream Stream) ([]byte, error) {
	if !stream.Extractable() {
		return nil, fmt.Errorf("%w: stream %d (%s)", ErrNotExtractable, stream.Index, stream.CodecName)
	}
	if _, err := os.Stat(videoPath); err != nil {
		return nil, fmt.Errorf("video file not found: %w", err)
	}

	if err := os.MkdirAll(p.tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	outputPath := filepath.Join(p.tempDir, "dualsub-"+uuid.NewString()+".srt")
	defer func() { _ = os.Remove(outputPath) }()

	args := extractArgs(videoPath, stream.Index, outputPath)

	p.logger.Debugw("Extracting subtitles",
		"video", videoPath,
		"stream", stream.Index,
		"codec", stream.CodecName,
	)

	if _, err := p.run(ctx, p.binaries.FFmpeg, args...); err != nil {
		return nil, fmt.Errorf("ffmpeg extraction of stream %d failed: %w", stream.Index, err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read extracted subtitles: %w", err)
	}
	return data, nil
}

func extractArgs(videoPath string, streamIndex int, outputPath string) []string {
	return ffmpeg.Input(videoPath).
		Output(outputPath, ffmpeg.KwArgs{
			"map": fmt.Sprintf("0:%d", streamIndex),
			"f":   "srt",
		}).
		OverWriteOutput().
		GetArgs()
}
