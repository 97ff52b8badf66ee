package cmd

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kamusis/orbcat/internal/catalog"
)

var flagInspectOutDir string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Decode and verify an existing binary catalog and metadata sidecar",
	Long: `Load <out_dir>/asteroids.bin and <out_dir>/metadata.json the way the
renderer does, verify that they agree, and print the class legend and
per-element statistics.

Example:
  orbcat inspect
  orbcat inspect --out-dir public/data`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&flagInspectOutDir, "out-dir", "", "Output directory to inspect (overrides config)")
	rootCmd.AddCommand(inspectCmd)
}

// angularFields are stored in radians and also reported in degrees.
var angularFields = map[string]bool{"i": true, "om": true, "w": true, "ma": true}

func runInspect(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyPathFlags(cfg, "", flagInspectOutDir); err != nil {
		return err
	}

	printSection("orbcat inspect")

	binPath, metaPath := cfg.BinaryPath(), cfg.MetadataPath()
	for _, p := range []string{binPath, metaPath} {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			printMiss("", p)
			return fmt.Errorf("catalog output not found: %s\nRun 'orbcat build' first.", p)
		}
	}

	cat, err := catalog.Load(binPath, metaPath)
	if err != nil {
		printErr("", err.Error())
		return err
	}
	st, err := os.Stat(binPath)
	if err != nil {
		return err
	}
	printOK("binary", fmt.Sprintf("%s: %s records, %s (stride %d)", binPath,
		humanize.Comma(int64(cat.Len())), humanize.Bytes(uint64(st.Size())), catalog.Stride))
	printOK("metadata", fmt.Sprintf("%s: %d classes, ids and names aligned", metaPath, len(cat.Classes)))

	sum := catalog.Summarize(cat)

	printBullet("Classes:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, c := range sum.Classes {
		fmt.Fprintf(w, "  %d\t%s\t%s\n", c.ID, c.Label, humanize.Comma(int64(c.Count)))
	}
	_ = w.Flush()

	if len(sum.Fields) == 0 {
		printSkip("", "no records, statistics skipped")
		return nil
	}
	printBullet("Elements:")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  field\tmin\tmean\tmax\n")
	for _, f := range sum.Fields {
		fmt.Fprintf(w, "  %s\t%.6g\t%.6g\t%.6g\n", f.Name, f.Min, f.Mean, f.Max)
		if angularFields[f.Name] {
			fmt.Fprintf(w, "  %s (deg)\t%.6g\t%.6g\t%.6g\n", f.Name, deg(f.Min), deg(f.Mean), deg(f.Max))
		}
	}
	_ = w.Flush()
	return nil
}

func deg(rad float64) float64 { return rad * 180 / math.Pi }
