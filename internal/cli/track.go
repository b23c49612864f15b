package cli

import (
	"fmt"

	"github.com/mgpai22/dualsub/internal/merge"
	"github.com/spf13/cobra"
)

// reads --<side>-stream and --<side>-file into a track source
func trackSource(cmd *cobra.Command, side string) (merge.TrackSource, error) {
	stream, _ := cmd.Flags().GetInt(side + "-stream")
	file, _ := cmd.Flags().GetString(side + "-file")

	if file != "" && cmd.Flags().Changed(side+"-stream") {
		return merge.TrackSource{}, fmt.Errorf(
			"--%s-stream and --%s-file are mutually exclusive",
			side,
			side,
		)
	}
	if file != "" {
		return merge.TrackSource{File: file, Stream: merge.AutoStream}, nil
	}
	if stream < merge.AutoStream {
		return merge.TrackSource{}, fmt.Errorf("--%s-stream must be a stream index, got %d", side, stream)
	}
	return merge.TrackSource{Stream: stream}, nil
}
