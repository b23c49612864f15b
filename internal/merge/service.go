package merge

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mgpai22/dualsub/internal/config"
	"github.com/mgpai22/dualsub/internal/logging"
	"github.com/mgpai22/dualsub/internal/video"
)

const defaultCacheSize = 64

var (
	ErrAlreadyMerged    = errors.New("video already has merged subtitles for this pair")
	ErrNoMatchingStream = errors.New("no subtitle stream matches")
	ErrOutputExists     = errors.New("output file already exists")
	ErrEmptyTrack       = errors.New("subtitle track has no text left")
)

// VideoProcessor is the subset of video.Processor the service needs.
type VideoProcessor interface {
	Probe(ctx context.Context, path string) ([]video.Stream, error)
	ExtractSubtitles(ctx context.Context, videoPath string, stream video.Stream) ([]byte, error)
	InjectSubtitles(ctx context.Context, req video.InjectRequest) error
}

// Options holds the merge preferences, usually built from the config file
// overridden by flags.
type Options struct {
	UpperLanguage string
	LowerLanguage string
	MergeMode     string // config.MergeModeOriginalVideos or config.MergeModeSeparateFiles
	MakeDefault   bool
	PlainText     bool
	Force         bool   // overwrite existing sidecar files
	Encoding      string // encoding of external files, empty means detect
	MaxFileSize   int64
	Concurrency   int
	CacheSize     int
}

// OptionsFromConfig maps the configuration file onto service options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		UpperLanguage: cfg.UpperLanguage,
		LowerLanguage: cfg.LowerLanguage,
		MergeMode:     cfg.MergeMode,
		MakeDefault:   cfg.MakeMergedDefault,
		PlainText:     cfg.PlainText,
		MaxFileSize:   cfg.MaxSubtitleSize(),
		Concurrency:   cfg.Concurrency,
		CacheSize:     cfg.CacheSize,
	}
}

// Service selects, loads, merges and writes subtitle tracks.
type Service struct {
	video  VideoProcessor
	opts   Options
	logger *logging.Logger

	// decoded text of extracted streams
	cache *lru.Cache[cacheKey, string]
}

func NewService(processor VideoProcessor, opts Options, logger *logging.Logger) (*Service, error) {
	if processor == nil {
		return nil, errors.New("video processor is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.MergeMode == "" {
		opts.MergeMode = config.MergeModeOriginalVideos
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.CacheSize < 1 {
		opts.CacheSize = defaultCacheSize
	}

	cache, err := lru.New[cacheKey, string](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create subtitle cache: %w", err)
	}

	return &Service{
		video:  processor,
		opts:   opts,
		logger: logger,
		cache:  cache,
	}, nil
}

func (s *Service) Options() Options {
	return s.opts
}
