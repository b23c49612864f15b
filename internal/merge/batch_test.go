package merge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mgpai22/dualsub/internal/video"
)

func TestFindVideos(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mkv", "a.MP4", "notes.txt", "movie.srt", ".hidden.mkv"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "season.mkv"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	videos, err := FindVideos(dir)
	if err != nil {
		t.Fatalf("FindVideos returned error: %v", err)
	}
	want := []string{filepath.Join(dir, "a.MP4"), filepath.Join(dir, "b.mkv")}
	if len(videos) != len(want) {
		t.Fatalf("expected %v, got %v", want, videos)
	}
	for i := range want {
		if videos[i] != want[i] {
			t.Errorf("video %d: expected %s, got %s", i, want[i], videos[i])
		}
	}

	if _, err := FindVideos(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestMergeDirectory(t *testing.T) {
	dir := t.TempDir()
	fake := newFakeVideo()

	standardVideo(t, fake, dir, "01.mkv")
	standardVideo(t, fake, dir, "02.mkv")
	fake.addVideo(t, dir, "03.mkv", video.Stream{Language: "eng", LanguageTag: "eng"})
	broken := standardVideo(t, fake, dir, "04.mkv")
	fake.probeErr[broken] = errors.New("invalid data found when processing input")
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write readme: %v", err)
	}

	opts := testOptions()
	opts.Concurrency = 3
	service := newTestService(t, fake, opts)

	var (
		mu    sync.Mutex
		calls []int
	)
	results, err := service.MergeDirectory(context.Background(), dir, func(done, total int, result Result) {
		mu.Lock()
		defer mu.Unlock()
		if total != 4 {
			t.Errorf("expected total 4, got %d", total)
		}
		calls = append(calls, done)
	})
	if err != nil {
		t.Fatalf("MergeDirectory returned error: %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	wantStatus := []Status{StatusOK, StatusOK, StatusNotPossible, StatusFailed}
	for i, result := range results {
		if result.Status != wantStatus[i] {
			t.Errorf("%s: expected %s, got %s (%v)",
				filepath.Base(result.VideoPath), wantStatus[i], result.Status, result.Err)
		}
	}
	if len(calls) != 4 {
		t.Errorf("expected 4 progress calls, got %d", len(calls))
	}
	for i, done := range calls {
		if done != i+1 {
			t.Errorf("progress call %d reported done=%d", i, done)
		}
	}
	if len(fake.injected) != 2 {
		t.Errorf("expected 2 injections, got %d", len(fake.injected))
	}

	counts := Summary(results)
	if counts[StatusOK] != 2 || counts[StatusNotPossible] != 1 || counts[StatusFailed] != 1 {
		t.Errorf("unexpected summary: %v", counts)
	}
}

func TestMergeDirectoryCancelled(t *testing.T) {
	dir := t.TempDir()
	fake := newFakeVideo()
	standardVideo(t, fake, dir, "01.mkv")
	standardVideo(t, fake, dir, "02.mkv")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := newTestService(t, fake, testOptions()).MergeDirectory(ctx, dir, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
	if len(fake.injected) != 0 {
		t.Errorf("nothing should be merged after cancellation")
	}
}

func TestMergeDirectoryEmpty(t *testing.T) {
	results, err := newTestService(t, newFakeVideo(), testOptions()).
		MergeDirectory(context.Background(), t.TempDir(), nil)
	if err != nil {
		t.Fatalf("MergeDirectory returned error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
