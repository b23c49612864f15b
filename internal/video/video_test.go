package video

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/mgpai22/dualsub/internal/ffmpeg"
)

var testBinaries = ffmpeg.BinaryPaths{FFmpeg: "/opt/ffmpeg", FFprobe: "/opt/ffprobe"}

type call struct {
	name string
	args []string
}

// records invocations and delegates to handle
type fakeRunner struct {
	mu     sync.Mutex
	calls  []call
	handle func(name string, args []string) ([]byte, error)
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{name: name, args: append([]string(nil), args...)})
	f.mu.Unlock()
	if f.handle == nil {
		return nil, nil
	}
	return f.handle(name, args)
}

// argument whose base name starts with prefix
func argWithPrefix(args []string, prefix string) string {
	for _, arg := range args {
		if strings.HasPrefix(filepath.Base(arg), prefix) {
			return arg
		}
	}
	return ""
}

func newTestProcessor(t *testing.T, runner *fakeRunner) *Processor {
	t.Helper()
	return NewProcessor(testBinaries, nil,
		WithCommandRunner(runner.run),
		WithTempDir(t.TempDir()),
	)
}

func writeVideo(t *testing.T, name string, size int, perm os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Repeat("v", size)), perm); err != nil {
		t.Fatalf("write video: %v", err)
	}
	return path
}
