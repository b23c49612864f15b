package cli

import (
	"github.com/mgpai22/dualsub/internal/config"
	"github.com/mgpai22/dualsub/internal/logging"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	// the config file may not exist or be broken yet
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(logging.Options{Verbose: verbose, Output: cmd.ErrOrStderr()})
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample configuration file",
	Long: `Write a commented sample configuration file to the default location,
or to the path given with --config.

Examples:
  dualsub config init
  dualsub config init --config ./dualsub.toml --force`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().
		BoolP("force", "f", false, "Overwrite an existing configuration file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultConfigPath()
		if err != nil {
			return err
		}
	}

	if err := config.CreateSample(path, force); err != nil {
		return err
	}
	logger.Infow("Configuration file written", "path", path)
	return nil
}
