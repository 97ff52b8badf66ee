// Package pipeline runs one build: read and validate the input table, encode
// it, and write the binary buffer and sidecar under an output-directory lock.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	logging "github.com/ipfs/go-log/v2"

	"github.com/kamusis/orbcat/internal/catalog"
	"github.com/kamusis/orbcat/internal/config"
	"github.com/kamusis/orbcat/internal/ingest"
	"github.com/kamusis/orbcat/internal/transform"
)

var log = logging.Logger("pipeline")

// LockFile is the name of the lock file created next to the outputs.
const LockFile = ".orbcat.lock"

// DefaultLockTimeout bounds how long Run waits for a concurrent build.
const DefaultLockTimeout = 30 * time.Second

// Options controls a single build.
type Options struct {
	Input        string
	BinaryPath   string
	MetadataPath string
	Ingest       ingest.Options
	LockTimeout  time.Duration
}

// OptionsFromConfig derives build options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Input:        cfg.Input,
		BinaryPath:   cfg.BinaryPath(),
		MetadataPath: cfg.MetadataPath(),
		Ingest: ingest.Options{
			DefaultDiameter: cfg.DiameterDefault(),
			DefaultEpoch:    cfg.EpochDefault(),
			UnknownClass:    cfg.UnknownClass,
		},
		LockTimeout: DefaultLockTimeout,
	}
}

// Result summarizes a completed build.
type Result struct {
	Stats   ingest.Stats
	Classes []string
	Sizes   catalog.Sizes
}

// Run executes the build. Input problems are reported before anything is
// created on disk.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Input == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if opts.BinaryPath == "" || opts.MetadataPath == "" {
		return nil, fmt.Errorf("output paths are required")
	}

	rows, st, err := ingest.ReadFile(opts.Input, opts.Ingest)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		log.Warnf("no valid rows in %s; writing an empty catalog", opts.Input)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cat := transform.Transform(rows)

	unlock, err := AcquireLock(ctx, filepath.Dir(opts.BinaryPath), opts.LockTimeout)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sz, err := catalog.Write(opts.BinaryPath, opts.MetadataPath, cat)
	if err != nil {
		return nil, err
	}
	return &Result{Stats: st, Classes: cat.Classes, Sizes: sz}, nil
}

// AcquireLock takes the exclusive output lock in dir, waiting up to timeout
// for a concurrent holder. The returned func releases it.
func AcquireLock(ctx context.Context, dir string, timeout time.Duration) (func(), error) {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return func() {}, fmt.Errorf("cannot create output dir %s: %w", dir, err)
	}
	lockPath := filepath.Join(dir, LockFile)
	l := flock.New(lockPath)
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return func() {}, fmt.Errorf("cannot acquire build lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return func() {}, fmt.Errorf("another build is in progress (lock: %s)", lockPath)
		}
		select {
		case <-ctx.Done():
			return func() {}, ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
}
