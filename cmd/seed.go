package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamusis/orbcat/internal/seed"
)

var (
	flagSeedRows   int
	flagSeedSeed   uint64
	flagSeedOutput string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write a synthetic input table when no real export exists",
	Long: `Generate a placeholder orbital-elements CSV at the configured input path.
An existing file is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func init() {
	d := seed.DefaultOptions()
	seedCmd.Flags().IntVar(&flagSeedRows, "rows", d.Rows, "Number of rows to generate")
	seedCmd.Flags().Uint64Var(&flagSeedSeed, "seed", d.Seed, "Random seed")
	seedCmd.Flags().StringVar(&flagSeedOutput, "output", "", "Output CSV path (defaults to the configured input)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyPathFlags(cfg, flagSeedOutput, ""); err != nil {
		return err
	}
	if flagSeedRows < 0 {
		return fmt.Errorf("--rows must not be negative: %d", flagSeedRows)
	}

	opts := seed.Options{Rows: flagSeedRows, Seed: flagSeedSeed, Epoch: cfg.EpochDefault()}
	if err := seed.WriteFile(cfg.Input, opts); err != nil {
		if errors.Is(err, seed.ErrExists) {
			printSkip("", fmt.Sprintf("Input already exists: %s", cfg.Input))
			return nil
		}
		return err
	}
	printOK("", fmt.Sprintf("Synthetic input written: %s (%d rows)", cfg.Input, opts.Rows))
	return nil
}

