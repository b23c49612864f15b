package subtitle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultMaxFileSize bounds external subtitle files.
	DefaultMaxFileSize int64 = 10 * 1024 * 1024
	maxPathLength            = 4096
)

var (
	ErrNotSubtitleFile = errors.New("not a subtitle file")
	ErrFileTooBig      = errors.New("subtitle file is too big")
)

// options for loading an external subtitle file
type OpenOptions struct {
	Encoding    string // empty means detect
	MaxFileSize int64  // zero means DefaultMaxFileSize
}

// parsed external subtitle file
type File struct {
	Path      string
	Encoding  string
	Size      int64
	Language  string // detected ISO 639-2 code, may be empty
	Subtitles *Subtitles
}

// Open reads, decodes and parses an external SubRip file.
func Open(path string, source Source, opts OpenOptions) (*File, error) {
	data, err := readSubtitleFile(path, opts)
	if err != nil {
		return nil, err
	}

	text, encodingName, err := Decode(data, opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	sub, err := Parse(text, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s (encoding %s): %w", path, encodingName, err)
	}

	return &File{
		Path:      path,
		Encoding:  encodingName,
		Size:      int64(len(data)),
		Language:  DetectLanguage(sub),
		Subtitles: sub,
	}, nil
}

func readSubtitleFile(path string, opts OpenOptions) ([]byte, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("subtitle path is empty")
	}
	if len(path) > maxPathLength {
		return nil, fmt.Errorf("subtitle path is too long (%d characters)", len(path))
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".srt" {
		return nil, fmt.Errorf("%w: unsupported extension %q, expected .srt", ErrNotSubtitleFile, ext)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("subtitle file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat subtitle file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrNotSubtitleFile, path)
	}

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if info.Size() > maxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooBig, path, info.Size(), maxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}
	return data, nil
}
