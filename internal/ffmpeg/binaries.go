package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const (
	envFFmpegPath  = "DUALSUB_FFMPEG_PATH"
	envFFprobePath = "DUALSUB_FFPROBE_PATH"
)

var ErrNotFound = errors.New("ffmpeg binary not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

// overridden in tests
var lookPath = exec.LookPath

// Locate resolves ffmpeg and ffprobe. Explicit paths win, then the
// DUALSUB_FFMPEG_PATH / DUALSUB_FFPROBE_PATH environment, then PATH.
func Locate(ffmpegPath, ffprobePath string) (BinaryPaths, error) {
	ffmpegBin, err := resolve("ffmpeg", ffmpegPath, envFFmpegPath)
	if err != nil {
		return BinaryPaths{}, err
	}
	ffprobeBin, err := resolve("ffprobe", ffprobePath, envFFprobePath)
	if err != nil {
		return BinaryPaths{}, err
	}
	return BinaryPaths{FFmpeg: ffmpegBin, FFprobe: ffprobeBin}, nil
}

func resolve(name, configured, envKey string) (string, error) {
	candidate := strings.TrimSpace(configured)
	if candidate == "" {
		candidate = strings.TrimSpace(os.Getenv(envKey))
	}

	if candidate != "" {
		if !fileExists(candidate) {
			return "", fmt.Errorf("%w: %s does not exist at %s", ErrNotFound, name, candidate)
		}
		return candidate, nil
	}

	found, err := lookPath(name)
	if err != nil {
		return "", fmt.Errorf(
			"%w: %s is not on PATH (set %s or %s_path in the config)",
			ErrNotFound,
			name,
			envKey,
			name,
		)
	}
	return found, nil
}

// Validate runs both binaries with -version and checks they identify
// themselves, so a wrong file configured as ffmpeg fails early.
func Validate(ctx context.Context, paths BinaryPaths) error {
	if err := checkVersion(ctx, paths.FFmpeg, "ffmpeg"); err != nil {
		return err
	}
	return checkVersion(ctx, paths.FFprobe, "ffprobe")
}

func checkVersion(ctx context.Context, path, name string) error {
	out, err := exec.CommandContext(ctx, path, "-version").Output()
	if err != nil {
		return fmt.Errorf("run %s -version: %w", name, err)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(out)), name+" version") {
		return fmt.Errorf("%s is not a valid %s binary", path, name)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}
