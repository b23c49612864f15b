package cli

import (
	"fmt"
	"strconv"

	"github.com/mgpai22/dualsub/internal/language"
	"github.com/mgpai22/dualsub/internal/video"
	"github.com/spf13/cobra"
)

var streamsCmd = &cobra.Command{
	Use:   "streams [video_file]",
	Short: "List the subtitle streams of a video",
	Long: `List the subtitle streams of a video with their index, codec and
language. The index is what --upper-stream and --lower-stream expect.

Examples:
  dualsub streams movie.mkv`,
	Args: cobra.ExactArgs(1),
	RunE: runStreams,
}

func init() {
	rootCmd.AddCommand(streamsCmd)
}

func runStreams(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	processor, err := newVideoProcessor(ctx)
	if err != nil {
		return err
	}

	streams, err := processor.Probe(ctx, args[0])
	if err != nil {
		return err
	}

	subtitles := video.SubtitleStreams(streams)
	if len(subtitles) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No subtitle streams found.")
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), renderStreams(subtitles))
	return err
}

func renderStreams(streams []video.Stream) string {
	rows := make([][]string, 0, len(streams))
	for _, stream := range streams {
		lang := stream.LanguageTag
		if stream.Language != "" && stream.Language != language.Undetermined {
			lang = fmt.Sprintf("%s (%s)", language.DisplayName(stream.Language), stream.Language)
		}
		rows = append(rows, []string{
			strconv.Itoa(stream.Index),
			stream.CodecName,
			lang,
			stream.Title,
			yesNo(stream.Default),
			yesNo(stream.Extractable()),
			yesNo(stream.Merged()),
		})
	}
	return renderTable(
		[]string{"Index", "Codec", "Language", "Title", "Default", "Text", "Merged"},
		rows,
		[]columnAlignment{alignRight},
	)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
