package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"github.com/kamusis/orbcat/internal/catalog"
	"github.com/kamusis/orbcat/internal/config"
	"github.com/kamusis/orbcat/internal/ingest"
)

func setup(t *testing.T, csv string) Options {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "orbital_elements.csv")
	if err := os.WriteFile(in, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.Input = in
	cfg.OutDir = filepath.Join(dir, "out")
	opts := OptionsFromConfig(cfg)
	opts.LockTimeout = time.Second
	return opts
}

func run(t *testing.T, opts Options) (*Result, *catalog.Catalog) {
	t.Helper()
	res, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	cat, err := catalog.Load(opts.BinaryPath, opts.MetadataPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return res, cat
}

func TestRun_DropsInvalidRows(t *testing.T) {
	opts := setup(t, "spkid,full_name,diameter,class,e,q,i,om,w,ma,epoch\n"+
		"1,a,10,MBA,0.1,2,3,4,5,6,59000\n"+
		"2,b,10,MBA,,2,3,4,5,6,59000\n"+
		"3,c,10,APO,0.2,1,3,4,5,6,59000\n")

	res, cat := run(t, opts)
	st, err := os.Stat(opts.BinaryPath)
	if err != nil {
		t.Fatal(err)
	}
	if st.Size() != 72 {
		t.Fatalf("binary size: got %d want 72", st.Size())
	}
	if len(cat.IDs) != 2 || len(cat.Names) != 2 {
		t.Fatalf("ids=%d names=%d, want 2", len(cat.IDs), len(cat.Names))
	}
	if res.Stats.Dropped != 1 || res.Sizes.Binary != 72 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestRun_AbsentDiameterColumnDefaults(t *testing.T) {
	opts := setup(t, "spkid,full_name,class,e,q,i,om,w,ma,epoch\n"+
		"1,a,MBA,0.1,2,3,4,5,6,59000\n"+
		"2,b,TNO,0.1,40,3,4,5,6,59000\n")

	_, cat := run(t, opts)
	for k, r := range cat.Records {
		if r[catalog.FieldDiameter] != 1.0 {
			t.Fatalf("record %d diameter %v, want 1.0", k, r[catalog.FieldDiameter])
		}
	}
}

func TestRun_NonContiguousClassSharesID(t *testing.T) {
	opts := setup(t, "spkid,full_name,class,e,q,i,om,w,ma\n"+
		"1,a,MBA,0.1,2,3,4,5,6\n"+
		"2,b,APO,0.1,1,3,4,5,6\n"+
		"3,c,MBA,0.1,2,3,4,5,6\n")

	_, cat := run(t, opts)
	n := 0
	for _, c := range cat.Classes {
		if c == "MBA" {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("MBA appears %d times in %v", n, cat.Classes)
	}
	if cat.Records[0][catalog.FieldClassID] != cat.Records[2][catalog.FieldClassID] {
		t.Fatalf("rows 0 and 2 have different class ids")
	}
}

func TestRun_InclinationInRadians(t *testing.T) {
	opts := setup(t, "spkid,full_name,class,e,q,i,om,w,ma\n1,a,MBA,0.1,2,180,0,0,0\n")

	_, cat := run(t, opts)
	if got := float64(cat.Records[0][catalog.FieldI]); math.Abs(got-math.Pi) > 1e-6 {
		t.Fatalf("i_rad = %v, want π", got)
	}
}

func TestRun_MissingInputWritesNothing(t *testing.T) {
	opts := setup(t, "")
	opts.Input = filepath.Join(filepath.Dir(opts.Input), "absent.csv")

	_, err := Run(context.Background(), opts)
	if !errors.Is(err, ingest.ErrInputMissing) {
		t.Fatalf("expected ErrInputMissing, got %v", err)
	}
	if _, err := os.Stat(filepath.Dir(opts.BinaryPath)); !os.IsNotExist(err) {
		t.Fatalf("output dir should not exist after a failed read")
	}
}

func TestRun_ZeroValidRowsWritesEmptyCatalog(t *testing.T) {
	opts := setup(t, "spkid,full_name,class,e,q,i,om,w,ma\n1,a,MBA,x,2,3,4,5,6\n")

	res, cat := run(t, opts)
	if cat.Len() != 0 || res.Sizes.Binary != 0 {
		t.Fatalf("expected empty catalog, got %d records", cat.Len())
	}
	b, err := os.ReadFile(opts.MetadataPath)
	if err != nil {
		t.Fatal(err)
	}
	var m catalog.Metadata
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if m.Classes == nil || len(m.Classes) != 0 {
		t.Fatalf("classes should be an empty array: %s", b)
	}
}

func TestRun_ReplacesPreviousOutputs(t *testing.T) {
	opts := setup(t, "spkid,full_name,class,e,q,i,om,w,ma\n1,a,MBA,0.1,2,3,4,5,6\n2,b,MBA,0.1,2,3,4,5,6\n")
	run(t, opts)

	if err := os.WriteFile(opts.Input, []byte("spkid,full_name,class,e,q,i,om,w,ma\n9,z,CEN,0.1,9,3,4,5,6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, cat := run(t, opts)
	if cat.Len() != 1 || cat.IDs[0] != "9" || strings.Join(cat.Classes, ",") != "CEN" {
		t.Fatalf("outputs not replaced: %+v", cat)
	}
}

func TestRun_WaitsForBuildLock(t *testing.T) {
	opts := setup(t, "spkid,full_name,class,e,q,i,om,w,ma\n1,a,MBA,0.1,2,3,4,5,6\n")
	opts.LockTimeout = 300 * time.Millisecond
	dir := filepath.Dir(opts.BinaryPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	held := flock.New(filepath.Join(dir, LockFile))
	if ok, err := held.TryLock(); err != nil || !ok {
		t.Fatalf("cannot hold lock: %v", err)
	}
	defer func() { _ = held.Unlock() }()

	_, err := Run(context.Background(), opts)
	if err == nil || !strings.Contains(err.Error(), "another build is in progress") {
		t.Fatalf("expected lock contention error, got %v", err)
	}
	if _, err := os.Stat(opts.BinaryPath); !os.IsNotExist(err) {
		t.Fatalf("binary written while lock was held")
	}
}

func TestRun_CanceledContext(t *testing.T) {
	opts := setup(t, "spkid,full_name,class,e,q,i,om,w,ma\n1,a,MBA,0.1,2,3,4,5,6\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, opts); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
