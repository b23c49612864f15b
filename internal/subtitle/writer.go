package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Write renders subtitles as SubRip text. Elements are emitted in order with
// their own numbers; the last block is terminated by a single newline.
func Write(sub *Subtitles) string {
	var sb strings.Builder
	for i, element := range sub.Elements {
		if i > 0 {
			sb.WriteString("\n")
		}

		sb.WriteString(fmt.Sprintf("%d\n", element.Number))

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			FormatTimestamp(element.From),
			FormatTimestamp(element.To)))

		for _, line := range element.Lines {
			sb.WriteString(line.Text)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// writes the subtitles to an SRT file
func WriteFile(sub *Subtitles, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(Write(sub)), 0644)
}

// FormatTimestamp formats d as HH:MM:SS,mmm. Hours widen past two digits
// instead of wrapping.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
