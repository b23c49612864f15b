package config

const (
	MergeModeOriginalVideos = "original_videos"
	MergeModeSeparateFiles  = "separate_files"
)

const (
	defaultUpperLanguage     = "eng"
	defaultLowerLanguage     = "rus"
	defaultMergeMode         = MergeModeOriginalVideos
	defaultMakeMergedDefault = true
	defaultConcurrency       = 2
	defaultCacheSize         = 64
	defaultMaxSubtitleSizeMB = 10
	defaultLogFormat         = "console"
	maxConcurrency           = 32
)

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		UpperLanguage:     defaultUpperLanguage,
		LowerLanguage:     defaultLowerLanguage,
		MergeMode:         defaultMergeMode,
		MakeMergedDefault: defaultMakeMergedDefault,
		Concurrency:       defaultConcurrency,
		CacheSize:         defaultCacheSize,
		MaxSubtitleSizeMB: defaultMaxSubtitleSizeMB,
		LogFormat:         defaultLogFormat,
	}
}
