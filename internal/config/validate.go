package config

import (
	"errors"
	"fmt"

	"github.com/mgpai22/dualsub/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLanguages(); err != nil {
		return err
	}
	switch c.MergeMode {
	case MergeModeOriginalVideos, MergeModeSeparateFiles:
	default:
		return fmt.Errorf(
			"merge_mode must be %q or %q, got %q",
			MergeModeOriginalVideos,
			MergeModeSeparateFiles,
			c.MergeMode,
		)
	}
	if c.Concurrency < 1 || c.Concurrency > maxConcurrency {
		return fmt.Errorf("concurrency must be between 1 and %d", maxConcurrency)
	}
	if c.CacheSize < 1 {
		return errors.New("cache_size must be positive")
	}
	if c.MaxSubtitleSizeMB < 1 {
		return errors.New("max_subtitle_size_mb must be positive")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.LogFormat)
	}
	return nil
}

func (c *Config) validateLanguages() error {
	if !language.IsKnown(c.UpperLanguage) {
		return errors.New("upper_language must be a known ISO 639 language code")
	}
	if !language.IsKnown(c.LowerLanguage) {
		return errors.New("lower_language must be a known ISO 639 language code")
	}
	if language.Matches(c.UpperLanguage, c.LowerLanguage) {
		return fmt.Errorf("upper_language and lower_language are both %s", c.UpperLanguage)
	}
	return nil
}
