package cmd

import (
	"fmt"
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"

	"github.com/kamusis/orbcat/internal/config"
)

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:          "orbcat",
	Short:        "Encode small-body orbital elements for GPU rendering",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `orbcat turns a tabular export of asteroid and comet orbital elements into
a fixed-stride float32 buffer plus a JSON sidecar for a client-side renderer.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultConfigFile, "Path to orbcat.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, applies ORBCAT_* overrides and the
// --log-level flag, and sets the log level for every subsystem.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w\nRun 'orbcat init' to write a fresh one.", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	lvl, err := logging.LevelFromString(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logging.SetAllLoggers(lvl)
	return cfg, nil
}
