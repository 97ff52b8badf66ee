package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamusis/orbcat/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default orbcat.yaml and the ~/.orbcat/.env template",
	Long: `Create orbcat.yaml (or the file named by --config) with default paths and
values, and a ~/.orbcat/.env template for ORBCAT_* overrides.

Existing files are left untouched.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	// ── 1. Write orbcat.yaml if missing ───────────────────────────────────────
	if _, err := os.Stat(flagConfig); os.IsNotExist(err) {
		if err := config.Save(flagConfig, config.DefaultConfig()); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("Config written: %s", flagConfig))
	} else if err != nil {
		return fmt.Errorf("cannot stat %s: %w", flagConfig, err)
	} else {
		printSkip("", fmt.Sprintf("Config already exists: %s", flagConfig))
	}

	// ── 2. Dotenv template ────────────────────────────────────────────────────
	envPath, err := config.DotEnvPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(envPath); err == nil {
		printSkip("", fmt.Sprintf("Env file already exists: %s", envPath))
	} else {
		if err := config.EnsureDotEnvTemplate(); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("Env template written: %s", envPath))
	}

	// ── 3. Validate the result ────────────────────────────────────────────────
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	printInfo("input", cfg.Input)
	printInfo("out_dir", cfg.OutDir)

	fmt.Println()
	fmt.Println("Next: run 'orbcat seed' if you have no input yet, then 'orbcat build'.")
	return nil
}
