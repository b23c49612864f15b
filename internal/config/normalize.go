package config

import (
	"fmt"
	"strings"

	"github.com/mgpai22/dualsub/internal/language"
)

func (c *Config) normalize() error {
	c.UpperLanguage = language.ToISO3(c.UpperLanguage)
	c.LowerLanguage = language.ToISO3(c.LowerLanguage)

	c.MergeMode = strings.ToLower(strings.TrimSpace(c.MergeMode))
	if c.MergeMode == "" {
		c.MergeMode = defaultMergeMode
	}

	var err error
	if c.FFmpegPath, err = expandPath(strings.TrimSpace(c.FFmpegPath)); err != nil {
		return fmt.Errorf("ffmpeg_path: %w", err)
	}
	if c.FFprobePath, err = expandPath(strings.TrimSpace(c.FFprobePath)); err != nil {
		return fmt.Errorf("ffprobe_path: %w", err)
	}

	if c.Concurrency == 0 {
		c.Concurrency = defaultConcurrency
	}
	if c.CacheSize == 0 {
		c.CacheSize = defaultCacheSize
	}
	if c.MaxSubtitleSizeMB == 0 {
		c.MaxSubtitleSizeMB = defaultMaxSubtitleSizeMB
	}

	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat == "" {
		c.LogFormat = defaultLogFormat
	}
	return nil
}
