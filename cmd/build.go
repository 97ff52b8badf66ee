package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kamusis/orbcat/internal/config"
	"github.com/kamusis/orbcat/internal/ingest"
	"github.com/kamusis/orbcat/internal/pipeline"
)

var (
	flagBuildInput        string
	flagBuildOutDir       string
	flagBuildUnknownClass string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Encode the input table into the binary catalog and metadata sidecar",
	Long: `Read the orbital-elements table, drop rows missing a required element,
convert angles to radians, assign class ids in first-seen order, and write
<out_dir>/asteroids.bin and <out_dir>/metadata.json.

Existing outputs are replaced. When the input cannot be read nothing is written.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&flagBuildInput, "input", "", "Input CSV path (overrides config)")
	buildCmd.Flags().StringVar(&flagBuildOutDir, "out-dir", "", "Output directory (overrides config)")
	buildCmd.Flags().StringVar(&flagBuildUnknownClass, "unknown-class", "", "Label for rows without a class (overrides config)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyPathFlags(cfg, flagBuildInput, flagBuildOutDir); err != nil {
		return err
	}
	if s := strings.TrimSpace(flagBuildUnknownClass); s != "" {
		cfg.UnknownClass = s
	}

	printSection("orbcat build")
	printInfo("input", cfg.Input)

	res, err := pipeline.Run(cmd.Context(), pipeline.OptionsFromConfig(cfg))
	if err != nil {
		if errors.Is(err, ingest.ErrInputMissing) {
			printMiss("input", cfg.Input)
			return fmt.Errorf("%w\nRun 'orbcat seed' to generate a synthetic input.", err)
		}
		printErr("", err.Error())
		return err
	}

	st := res.Stats
	printOK("rows", fmt.Sprintf("%s kept of %s", humanize.Comma(int64(st.Kept)), humanize.Comma(int64(st.Rows))))
	if st.Dropped > 0 {
		printWarn("rows", fmt.Sprintf("%s dropped (missing or unparseable orbital elements)", humanize.Comma(int64(st.Dropped))))
	}
	for _, c := range st.MissingColumns {
		printWarn("schema", fmt.Sprintf("column %q absent; default applied to every row", c))
	}
	if n := st.DiameterDefaulted; n > 0 {
		printInfo("diameter", fmt.Sprintf("%s rows defaulted to %g", humanize.Comma(int64(n)), cfg.DiameterDefault()))
	}
	if n := st.EpochDefaulted; n > 0 {
		printInfo("epoch", fmt.Sprintf("%s rows defaulted to %g", humanize.Comma(int64(n)), cfg.EpochDefault()))
	}
	if n := st.ClassDefaulted; n > 0 {
		printInfo("class", fmt.Sprintf("%s rows labeled %q", humanize.Comma(int64(n)), cfg.UnknownClass))
	}
	printOK("classes", strings.Join(res.Classes, ", "))
	printOK("binary", fmt.Sprintf("%s (%s)", cfg.BinaryPath(), humanize.Bytes(uint64(res.Sizes.Binary))))
	printOK("metadata", fmt.Sprintf("%s (%s)", cfg.MetadataPath(), humanize.Bytes(uint64(res.Sizes.Metadata))))
	return nil
}

// applyPathFlags overrides the config's input and output directory with
// non-empty flag values.
func applyPathFlags(cfg *config.Config, input, outDir string) error {
	if input != "" {
		p, err := config.ExpandPath(input)
		if err != nil {
			return err
		}
		cfg.Input = p
	}
	if outDir != "" {
		p, err := config.ExpandPath(outDir)
		if err != nil {
			return err
		}
		cfg.OutDir = p
	}
	return nil
}
