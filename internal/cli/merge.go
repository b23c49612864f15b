package cli

import (
	"fmt"
	"path/filepath"

	"github.com/mgpai22/dualsub/internal/ffmpeg"
	"github.com/mgpai22/dualsub/internal/subtitle"
	"github.com/mgpai22/dualsub/internal/video"
	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [upper.srt] [lower.srt]",
	Short: "Merge two external subtitle files",
	Long: `Merge two SubRip files into one. Lines of the first file are shown on
top, lines of the second at the bottom.

The result is printed to stdout unless --output is given.

Examples:
  dualsub merge movie.en.srt movie.ru.srt -o movie.en-ru.srt
  dualsub merge movie.en.srt movie.ru.srt --encoding windows-1251
  dualsub merge movie.en.srt movie.ru.srt --plain-text > merged.srt`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().
		StringP("encoding", "e", "", "Encoding of both files (default: detect)")
}

func runMerge(cmd *cobra.Command, args []string) error {
	upperPath, lowerPath := args[0], args[1]
	outputPath, _ := cmd.Flags().GetString("output")

	// external files never touch ffmpeg
	service, err := newMergeService(cmd, video.NewProcessor(ffmpeg.BinaryPaths{}, logger))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Infow("Merging subtitle files",
		"upper", upperPath,
		"lower", lowerPath,
		"plain_text", cfg.PlainText,
	)

	merged, err := service.MergeFiles(ctx, upperPath, lowerPath)
	if err != nil {
		return err
	}

	if outputPath == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), subtitle.Write(merged.Subtitles))
		return err
	}

	if err := subtitle.WriteFile(merged.Subtitles, outputPath); err != nil {
		return fmt.Errorf("write merged subtitles: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	logger.Infow("Merged subtitles written",
		"output", absOutput,
		"blocks", len(merged.Subtitles.Elements),
	)
	return nil
}
