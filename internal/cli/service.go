package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mgpai22/dualsub/internal/ffmpeg"
	"github.com/mgpai22/dualsub/internal/merge"
	"github.com/mgpai22/dualsub/internal/video"
	"github.com/spf13/cobra"
)

// finds and checks ffmpeg/ffprobe, then builds a processor around them
func newVideoProcessor(ctx context.Context) (*video.Processor, error) {
	binaries, err := ffmpeg.Locate(cfg.FFmpegPath, cfg.FFprobePath)
	if err != nil {
		return nil, err
	}
	if err := ffmpeg.Validate(ctx, binaries); err != nil {
		return nil, err
	}
	logger.Debugw("Using ffmpeg",
		"ffmpeg", binaries.FFmpeg,
		"ffprobe", binaries.FFprobe,
	)
	return video.NewProcessor(binaries, logger), nil
}

func newMergeService(cmd *cobra.Command, processor merge.VideoProcessor) (*merge.Service, error) {
	opts := merge.OptionsFromConfig(cfg)
	if flag := cmd.Flags().Lookup("force"); flag != nil {
		opts.Force, _ = cmd.Flags().GetBool("force")
	}
	if flag := cmd.Flags().Lookup("encoding"); flag != nil {
		opts.Encoding, _ = cmd.Flags().GetString("encoding")
	}
	return merge.NewService(processor, opts, logger)
}

// context cancelled on Ctrl+C or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func resultError(result merge.Result) error {
	switch result.Status {
	case merge.StatusOK:
		return nil
	case merge.StatusFailed:
		return fmt.Errorf("merge failed: %w", result.Err)
	default:
		return fmt.Errorf("%s: %w", result.Status, result.Err)
	}
}
