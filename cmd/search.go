package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamusis/orbcat/internal/catalog"
	"github.com/kamusis/orbcat/internal/search"
)

var (
	flagSearchK      int
	flagSearchOutDir string
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find catalog objects by name or id",
	Long: `Search the encoded catalog by name or identifier. Every query word must
match (case-insensitive). Results are listed in record order.

Example:
  orbcat search ceres
  orbcat search 2003 ub313`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&flagSearchK, "k", 10, "Number of results to show (0 for all)")
	searchCmd.Flags().StringVar(&flagSearchOutDir, "out-dir", "", "Catalog directory (overrides config)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyPathFlags(cfg, "", flagSearchOutDir); err != nil {
		return err
	}
	cat, err := catalog.Load(cfg.BinaryPath(), cfg.MetadataPath())
	if err != nil {
		return fmt.Errorf("cannot load catalog: %w\nRun 'orbcat build' first.", err)
	}

	query := strings.Join(args, " ")
	printSearchResults(query, search.Find(cat, query, flagSearchK))
	return nil
}

func printSearchResults(query string, results []search.Result) {
	fmt.Printf("\norbcat search %q\n\n", query)
	fmt.Printf("Results (%d found):\n", len(results))
	if len(results) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, r := range results {
		fmt.Fprintf(w, "  %d.\t%s\t%s\t%s\n", r.Position, r.ID, r.Class, r.Name)
	}
	_ = w.Flush()
}
