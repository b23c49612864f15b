package cli

import (
	"github.com/mgpai22/dualsub/internal/merge"
	"github.com/spf13/cobra"
)

var videoCmd = &cobra.Command{
	Use:   "video [video_file]",
	Short: "Merge two subtitle tracks of a video",
	Long: `Merge two subtitle tracks of a video. Each side is taken from an
explicit stream, from an external file or, by default, from the largest
subtitle stream in the configured language.

In original_videos mode the merged track is added to the video itself. In
separate_files mode it is written next to the video as
<name>.merged-<upper>-<lower>.srt.

Examples:
  dualsub video movie.mkv
  dualsub video movie.mkv --upper-stream 3 --lower-stream 5
  dualsub video movie.mkv --lower-file movie.ru.srt
  dualsub video movie.mkv --mode separate_files --force`,
	Args: cobra.ExactArgs(1),
	RunE: runVideo,
}

func init() {
	rootCmd.AddCommand(videoCmd)

	videoCmd.Flags().
		Int("upper-stream", merge.AutoStream, "Stream index of the upper track")
	videoCmd.Flags().
		Int("lower-stream", merge.AutoStream, "Stream index of the lower track")
	videoCmd.Flags().String("upper-file", "", "External SRT file for the upper track")
	videoCmd.Flags().String("lower-file", "", "External SRT file for the lower track")
	videoCmd.Flags().
		StringP("encoding", "e", "", "Encoding of external files (default: detect)")
	videoCmd.Flags().
		StringP("mode", "m", "", "Output mode (original_videos, separate_files)")
	videoCmd.Flags().
		BoolP("force", "f", false, "Overwrite an existing merged subtitle file")
	videoCmd.Flags().
		Bool("no-default", false, "Do not make the merged track the default")
}

func runVideo(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")

	upper, err := trackSource(cmd, "upper")
	if err != nil {
		return err
	}
	lower, err := trackSource(cmd, "lower")
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	processor, err := newVideoProcessor(ctx)
	if err != nil {
		return err
	}
	service, err := newMergeService(cmd, processor)
	if err != nil {
		return err
	}

	result := service.MergeVideo(ctx, merge.VideoRequest{
		VideoPath:  videoPath,
		Upper:      upper,
		Lower:      lower,
		OutputPath: outputPath,
	})
	return resultError(result)
}
