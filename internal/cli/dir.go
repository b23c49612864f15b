package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/mgpai22/dualsub/internal/merge"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var dirCmd = &cobra.Command{
	Use:   "dir [directory]",
	Short: "Merge subtitles of every video in a directory",
	Long: `Merge the configured languages for every video in a directory. Tracks
are selected automatically and videos are processed concurrently.

Each video ends up as ok, already merged, not possible or failed; a summary
table is printed at the end.

Examples:
  dualsub dir ~/Videos/Series
  dualsub dir . --concurrency 4 --mode separate_files`,
	Args: cobra.ExactArgs(1),
	RunE: runDir,
}

func init() {
	rootCmd.AddCommand(dirCmd)

	dirCmd.Flags().
		IntP("concurrency", "c", 0, "Number of videos processed at once (default from config)")
	dirCmd.Flags().
		StringP("mode", "m", "", "Output mode (original_videos, separate_files)")
	dirCmd.Flags().
		BoolP("force", "f", false, "Overwrite existing merged subtitle files")
	dirCmd.Flags().
		Bool("no-default", false, "Do not make the merged tracks the default")
}

func runDir(cmd *cobra.Command, args []string) error {
	dir := args[0]

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

	videos, err := merge.FindVideos(dir)
	if err != nil {
		return err
	}
	if len(videos) == 0 {
		logger.Infow("No videos found", "dir", dir)
		return nil
	}

	var (
		bar      *progressbar.ProgressBar
		progress merge.ProgressFunc
	)
	if isTerminal(os.Stderr) {
		bar = progressbar.NewOptions(len(videos),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Merging"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		)
		progress = func(done, total int, result merge.Result) {
			bar.Describe(filepath.Base(result.VideoPath))
			_ = bar.Add(1)
		}
	}

	results, runErr := service.MergeDirectory(ctx, dir, progress)
	if bar != nil {
		// clears the bar before the table is printed
		_ = bar.Finish()
	}

	if len(results) > 0 {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), renderResults(results)); err != nil {
			return err
		}
	}
	printSummary(cmd.OutOrStdout(), results, len(videos))

	if runErr != nil {
		if errors.Is(runErr, ctx.Err()) {
			return fmt.Errorf("interrupted after %d of %d videos: %w", len(results), len(videos), runErr)
		}
		return runErr
	}
	if failed := merge.Summary(results)[merge.StatusFailed]; failed > 0 {
		return fmt.Errorf("%d of %d videos failed", failed, len(videos))
	}
	return nil
}

func renderResults(results []merge.Result) string {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		detail := ""
		switch {
		case result.Status == merge.StatusOK:
			detail = filepath.Base(result.OutputPath)
		case result.Err != nil:
			detail = result.Err.Error()
		}
		rows = append(rows, []string{
			filepath.Base(result.VideoPath),
			result.Status.String(),
			result.UpperLabel,
			result.LowerLabel,
			detail,
		})
	}
	return renderTable([]string{"Video", "Status", "Upper", "Lower", "Detail"}, rows, nil)
}

func printSummary(w io.Writer, results []merge.Result, total int) {
	counts := merge.Summary(results)
	fmt.Fprintf(w, "%d videos: %d ok, %d already merged, %d not possible, %d failed\n",
		total,
		counts[merge.StatusOK],
		counts[merge.StatusAlreadyMerged],
		counts[merge.StatusNotPossible],
		counts[merge.StatusFailed],
	)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
