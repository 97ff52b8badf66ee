package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kamusis/orbcat/internal/catalog"
	"github.com/kamusis/orbcat/internal/config"
	"github.com/kamusis/orbcat/internal/ingest"
	"github.com/kamusis/orbcat/internal/pipeline"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run pre-flight checks on config, input and outputs",
	Long: `Check that orbcat's config, input table and output directory are usable,
and that any existing output pair is consistent.
Run this command when a build or the renderer misbehaves.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.AddCommand(doctorFixCmd)
	rootCmd.AddCommand(doctorCmd)
}

var doctorFixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Automatically fix detected issues",
	Long: `Fix detected issues in the output directory.

Currently fixes:
  - Inconsistent output pair: removes asteroids.bin and metadata.json when
    they disagree or only one of them exists, so that 'orbcat build' starts clean

Run 'orbcat doctor' first to see what will be fixed.`,
	RunE: runDoctorFix,
}

func runDoctorFix(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	printSection("orbcat doctor fix")

	fmt.Println("\n[ Output pair ]")
	if err := checkOutputs(cfg); err == nil || errors.Is(err, errNoOutputs) {
		printOK("", "output pair is consistent or absent — nothing to fix")
		return nil
	}

	unlock, err := pipeline.AcquireLock(cmd.Context(), cfg.OutDir, pipeline.DefaultLockTimeout)
	if err != nil {
		return err
	}
	defer unlock()

	// Re-check under the lock; a build may have just completed the pair.
	err = checkOutputs(cfg)
	switch {
	case err == nil || errors.Is(err, errNoOutputs):
		printOK("", "output pair is consistent or absent — nothing to fix")
		return nil
	case !isInconsistent(err):
		printErr("", err.Error())
		return fmt.Errorf("cannot verify output pair, nothing removed: %w", err)
	}
	printWarn("", err.Error())

	var failed int
	for _, p := range []string{cfg.BinaryPath(), cfg.MetadataPath()} {
		err := os.Remove(p)
		switch {
		case os.IsNotExist(err):
			printMiss("", p)
		case err != nil:
			printErr("", fmt.Sprintf("cannot delete %s: %v", p, err))
			failed++
		default:
			printOK("", fmt.Sprintf("removed %s", p))
		}
	}

	fmt.Println()
	if failed > 0 {
		return fmt.Errorf("%d file(s) could not be deleted", failed)
	}
	fmt.Println("  ✓  Inconsistent outputs removed. Run 'orbcat build' to regenerate them.")
	return nil
}

// errNoOutputs reports that neither artifact exists yet.
var errNoOutputs = errors.New("no outputs")

// isInconsistent reports whether err shows the two artifacts disagree, as
// opposed to an I/O failure while reading them.
func isInconsistent(err error) bool {
	return errors.Is(err, catalog.ErrStrideMismatch) ||
		errors.Is(err, catalog.ErrMetadataMismatch) ||
		errors.Is(err, catalog.ErrClassOutOfRange)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	printSection("orbcat doctor")
	fmt.Println()

	// ── Check 1: config ───────────────────────────────────────────────────────
	fmt.Println("[ " + filepath.Base(flagConfig) + " ]")
	if _, err := os.Stat(flagConfig); os.IsNotExist(err) {
		printWarn("", fmt.Sprintf("%s not found — using defaults (run 'orbcat init' to write one)", flagConfig))
	}
	cfg, loadErr := loadConfig(cmd)
	if loadErr != nil {
		failD("%v", loadErr)
		cfg = config.DefaultConfig()
	} else {
		printOK("", fmt.Sprintf("valid — input %s, out_dir %s", cfg.Input, cfg.OutDir))
	}
	fmt.Println()

	// ── Check 2: input table ──────────────────────────────────────────────────
	fmt.Println("[ Input ]")
	recs, st, err := ingest.ReadFile(cfg.Input, ingest.Options{
		DefaultDiameter: cfg.DiameterDefault(),
		DefaultEpoch:    cfg.EpochDefault(),
		UnknownClass:    cfg.UnknownClass,
	})
	if err != nil {
		failD("%v — run 'orbcat seed' for a synthetic table", err)
	} else {
		printOK("", fmt.Sprintf("%s readable: %s of %s rows valid",
			cfg.Input, humanize.Comma(int64(len(recs))), humanize.Comma(int64(st.Rows))))
		for _, c := range st.MissingColumns {
			printWarn("", fmt.Sprintf("optional column %q absent", c))
		}
		if st.Rows > 0 && st.Kept == 0 {
			failD("no row carries all six orbital elements")
		}
	}
	fmt.Println()

	// ── Check 3: output directory writable ────────────────────────────────────
	fmt.Println("[ Output directory ]")
	if err := checkWritable(cfg.OutDir); err != nil {
		failD("%s is not writable: %v", cfg.OutDir, err)
	} else {
		printOK("", fmt.Sprintf("writable: %s", cfg.OutDir))
	}
	fmt.Println()

	// ── Check 4: existing output pair ─────────────────────────────────────────
	fmt.Println("[ Output pair ]")
	switch err := checkOutputs(cfg); {
	case err == nil:
		printOK("", "binary and metadata agree")
	case errors.Is(err, errNoOutputs):
		printMiss("", "no outputs yet (run 'orbcat build')")
	default:
		failD("%v — run 'orbcat doctor fix' then 'orbcat build'", err)
	}
	fmt.Println()

	// ── Check 5: dotenv ───────────────────────────────────────────────────────
	fmt.Println("[ Environment ]")
	if p, err := config.DotEnvPath(); err != nil {
		printWarn("", err.Error())
	} else if _, err := os.Stat(p); os.IsNotExist(err) {
		printSkip("", fmt.Sprintf("%s not present", p))
	} else if _, err := config.LoadDotEnv(); err != nil {
		failD("%v", err)
	} else {
		printOK("", fmt.Sprintf("%s parsed", p))
	}
	fmt.Println()

	// ── Summary ───────────────────────────────────────────────────────────────
	fmt.Println("===================")
	if allOK {
		fmt.Println("✓  All checks passed. orbcat is ready to build.")
	} else {
		fmt.Fprintln(os.Stderr, "✗  One or more checks failed. See details above.")
		return fmt.Errorf("doctor found issues")
	}
	return nil
}

// checkWritable probes dir (or its nearest existing parent) with a
// throwaway file.
func checkWritable(dir string) error {
	for {
		if _, err := os.Stat(dir); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return fmt.Errorf("no existing parent directory")
		}
		dir = parent
	}
	f, err := os.CreateTemp(dir, ".orbcat-doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// checkOutputs verifies the existing output pair. It returns errNoOutputs
// when neither file exists.
func checkOutputs(cfg *config.Config) error {
	binPath, metaPath := cfg.BinaryPath(), cfg.MetadataPath()
	_, binErr := os.Stat(binPath)
	_, metaErr := os.Stat(metaPath)
	switch {
	case os.IsNotExist(binErr) && os.IsNotExist(metaErr):
		return errNoOutputs
	case os.IsNotExist(binErr):
		return fmt.Errorf("%w: %s missing", catalog.ErrMetadataMismatch, binPath)
	case os.IsNotExist(metaErr):
		return fmt.Errorf("%w: %s missing", catalog.ErrMetadataMismatch, metaPath)
	}
	_, err := catalog.Load(binPath, metaPath)
	return err
}
