package seed

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kamusis/orbcat/internal/ingest"
)

func TestWrite_RowsPassValidation(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Options{Rows: 250, Seed: 7, Epoch: 59000}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	recs, st, err := ingest.Read(&buf, ingest.DefaultOptions())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(recs) != 250 || st.Dropped != 0 {
		t.Fatalf("expected 250 kept rows, got %d (stats %+v)", len(recs), st)
	}
	if recs[0].SPKID != "2000000" || recs[249].SPKID != "2000249" || recs[3].FullName != "Asteroid 3" {
		t.Fatalf("unexpected identifiers: %+v %+v", recs[0], recs[249])
	}
	for _, r := range recs {
		if r.E < 0 || r.E >= 0.5 || r.Q < 0.5 || r.Q >= 40 || r.I < 0 || r.I >= 40 {
			t.Fatalf("element out of range: %+v", r)
		}
		if r.OM < 0 || r.OM >= 360 || r.W < 0 || r.W >= 360 || r.MA < 0 || r.MA >= 360 {
			t.Fatalf("angle out of range: %+v", r)
		}
		if r.Diameter < 1 || r.Diameter > 100 {
			t.Fatalf("diameter out of range: %+v", r)
		}
	}
	if st.DiameterDefaulted == 0 || st.DiameterDefaulted == 250 {
		t.Fatalf("expected a mix of present and empty diameters, defaulted=%d", st.DiameterDefaulted)
	}
}

func TestWrite_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	opts := Options{Rows: 20, Seed: 42, Epoch: 59000}
	if err := Write(&a, opts); err != nil {
		t.Fatal(err)
	}
	if err := Write(&b, opts); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("same seed produced different output")
	}
}

func TestWriteFile_NeverOverwrites(t *testing.T) {
	p := filepath.Join(t.TempDir(), "data", "orbital_elements.csv")
	if err := WriteFile(p, Options{Rows: 3, Seed: 1, Epoch: 59000}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	before, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	err = WriteFile(p, Options{Rows: 10, Seed: 2, Epoch: 59000})
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	after, _ := os.ReadFile(p)
	if !bytes.Equal(before, after) {
		t.Fatalf("existing file was modified")
	}
}
