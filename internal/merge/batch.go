package merge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

var videoExtensions = map[string]struct{}{
	".mkv":  {},
	".mp4":  {},
	".m4v":  {},
	".mov":  {},
	".avi":  {},
	".webm": {},
	".ts":   {},
	".m2ts": {},
}

// IsVideoFile reports whether path has a known video container extension.
func IsVideoFile(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// FindVideos lists the video files directly inside dir, sorted by name.
func FindVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var videos []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if IsVideoFile(entry.Name()) {
			videos = append(videos, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(videos)
	return videos, nil
}

// ProgressFunc is called once per finished video with the number of
// videos done so far.
type ProgressFunc func(done, total int, result Result)

// MergeDirectory merges every video in dir using auto-selected tracks.
// Videos are processed concurrently; a failure of one video does not stop
// the others. When ctx is cancelled no new video is started and the results
// of the finished ones are returned together with the context error.
func (s *Service) MergeDirectory(ctx context.Context, dir string, progress ProgressFunc) ([]Result, error) {
	videos, err := FindVideos(dir)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("Merging directory",
		"dir", dir,
		"videos", len(videos),
		"concurrency", s.opts.Concurrency,
	)

	var (
		mu      sync.Mutex
		done    int
		results = make([]*Result, len(videos))
	)

	g := new(errgroup.Group)
	g.SetLimit(s.opts.Concurrency)

	for i, path := range videos {
		i, path := i, path // per-iteration copies (go1.21 loop semantics)
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			result := s.MergeVideo(ctx, VideoRequest{
				VideoPath: path,
				Upper:     Auto(),
				Lower:     Auto(),
			})
			if ctx.Err() != nil && result.Status == StatusFailed {
				// interrupted midway, not a verdict on the video
				return nil
			}

			mu.Lock()
			results[i] = &result
			done++
			if progress != nil {
				progress(done, len(videos), result)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	finished := make([]Result, 0, len(videos))
	for _, result := range results {
		if result != nil {
			finished = append(finished, *result)
		}
	}
	return finished, ctx.Err()
}

// Summary counts results per status.
func Summary(results []Result) map[Status]int {
	counts := make(map[Status]int, 4)
	for _, result := range results {
		counts[result.Status]++
	}
	return counts
}
