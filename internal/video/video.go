package video

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/mgpai22/dualsub/internal/ffmpeg"
	"github.com/mgpai22/dualsub/internal/logging"
)

// runs an external binary and returns its stdout
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultCommandRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Processor probes video containers and moves subtitle streams in and out
// of them with ffprobe/ffmpeg.
type Processor struct {
	binaries ffmpeg.BinaryPaths
	logger   *logging.Logger
	run      commandRunner
	tempDir  string
}

type Option func(*Processor)

// WithCommandRunner replaces process execution, used by tests.
func WithCommandRunner(r commandRunner) Option {
	return func(p *Processor) {
		if r != nil {
			p.run = r
		}
	}
}

// directory for extracted and merged subtitle files, defaults to os.TempDir
func WithTempDir(dir string) Option {
	return func(p *Processor) {
		if dir != "" {
			p.tempDir = dir
		}
	}
}

func NewProcessor(binaries ffmpeg.BinaryPaths, logger *logging.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Processor{
		binaries: binaries,
		logger:   logger,
		run:      defaultCommandRunner,
		tempDir:  os.TempDir(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
