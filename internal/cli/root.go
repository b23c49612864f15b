package cli

import (
	"fmt"
	"strings"

	"github.com/mgpai22/dualsub/internal/config"
	"github.com/mgpai22/dualsub/internal/language"
	"github.com/mgpai22/dualsub/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "dualsub",
	Short: "Merge two subtitle tracks into one bilingual track",
	Long: `Dualsub combines two SubRip subtitle tracks, for example English and
Russian, into a single track that shows both languages at once.

Tracks can come from external .srt files or from the subtitle streams of
a video. The merged track is written back into the video or next to it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, path, exists, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := applyFlagOverrides(cmd, loaded); err != nil {
			return err
		}
		cfg = loaded

		logger, err = logging.New(logging.Options{
			Verbose: verbose,
			Format:  cfg.LogFormat,
			Output:  cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		logger.Debugw("Loaded configuration", "path", path, "exists", exists)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default ~/.config/dualsub/config.toml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		String("upper-lang", "", "Language shown on top (e.g., en, eng, fre)")
	rootCmd.PersistentFlags().
		String("lower-lang", "", "Language shown at the bottom (e.g., ru, rus)")
	rootCmd.PersistentFlags().
		Bool("plain-text", false, "Strip formatting tags from both tracks")
}

// flags given on the command line win over the config file
func applyFlagOverrides(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("upper-lang") {
		value, _ := flags.GetString("upper-lang")
		c.UpperLanguage = language.ToISO3(value)
	}
	if flags.Changed("lower-lang") {
		value, _ := flags.GetString("lower-lang")
		c.LowerLanguage = language.ToISO3(value)
	}
	if flags.Changed("plain-text") {
		c.PlainText, _ = flags.GetBool("plain-text")
	}
	if flags.Lookup("mode") != nil && flags.Changed("mode") {
		value, _ := flags.GetString("mode")
		c.MergeMode = strings.ToLower(strings.TrimSpace(value))
	}
	if flags.Lookup("concurrency") != nil && flags.Changed("concurrency") {
		c.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Lookup("no-default") != nil && flags.Changed("no-default") {
		noDefault, _ := flags.GetBool("no-default")
		c.MakeMergedDefault = !noDefault
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}
