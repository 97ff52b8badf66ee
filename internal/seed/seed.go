// Package seed writes a synthetic orbital-elements table for local use when
// no real catalog export is available.
package seed

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	logging "github.com/ipfs/go-log/v2"

	"github.com/kamusis/orbcat/internal/ingest"
)

var log = logging.Logger("seed")

// ErrExists is returned when the target file is already present.
var ErrExists = errors.New("seed target already exists")

// Classes are the orbit classes drawn for synthetic rows.
var Classes = []string{"MBA", "APO", "ATE", "TNO", "CEN"}

// Options controls generation.
type Options struct {
	Rows  int
	Seed  uint64
	Epoch float64
}

// DefaultOptions returns 2000 rows at epoch 59000 with a fixed seed.
func DefaultOptions() Options {
	return Options{Rows: 2000, Seed: 1, Epoch: 59000}
}

// WriteFile creates path and fills it with synthetic rows. An existing file is
// never overwritten.
func WriteFile(path string, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create dir for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	if err := Write(f, opts); err != nil {
		_ = f.Close()
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Infof("wrote %d synthetic rows to %s", opts.Rows, path)
	return nil
}

// Write emits a header row followed by opts.Rows synthetic rows to w. The
// same seed always produces the same output.
func Write(w io.Writer, opts Options) error {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)

	if err := cw.Write(ingest.Columns); err != nil {
		return err
	}
	for k := 0; k < opts.Rows; k++ {
		if err := cw.Write(row(rng, k, opts.Epoch)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

func row(rng *rand.Rand, k int, epoch float64) []string {
	diameter := ""
	if rng.Float64() > 0.5 {
		diameter = ftoa(uniform(rng, 1, 100))
	}
	vals := map[string]string{
		ingest.ColSPKID:    fmt.Sprintf("200%04d", k),
		ingest.ColFullName: fmt.Sprintf("Asteroid %d", k),
		ingest.ColDiameter: diameter,
		ingest.ColClass:    Classes[rng.IntN(len(Classes))],
		ingest.ColE:        ftoa(uniform(rng, 0, 0.5)),
		ingest.ColQ:        ftoa(uniform(rng, 0.5, 40)),
		ingest.ColI:        ftoa(uniform(rng, 0, 40)),
		ingest.ColOM:       ftoa(uniform(rng, 0, 360)),
		ingest.ColW:        ftoa(uniform(rng, 0, 360)),
		ingest.ColMA:       ftoa(uniform(rng, 0, 360)),
		ingest.ColEpoch:    ftoa(epoch),
	}
	out := make([]string, len(ingest.Columns))
	for i, c := range ingest.Columns {
		out[i] = vals[c]
	}
	return out
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
