package catalog

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func sample() *Catalog {
	return &Catalog{
		Records: []Record{
			{0.0785, 2.55, 0.185, 1.40, 1.28, 5.08, 60600, 939.4, 0},
			{0.256, 1.98, 0.225, 2.96, 4.32, 2.18, 60600, 246.6, 1},
			{0.1, 40, 0.01, 0.02, 0.03, 0.04, 59000, 1, 0},
		},
		Classes: []string{"MBA", "TNO"},
		IDs:     []string{"2000001", "2000003", "2000004"},
		Names:   []string{"1 Ceres", "3 Juno", "4 Vesta"},
	}
}

func TestWriteBinary_LayoutIsLittleEndianFloat32(t *testing.T) {
	cat := sample()
	var buf bytes.Buffer
	if err := WriteBinary(&buf, cat.Records[:2]); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
	b := buf.Bytes()
	if len(b) != 2*Stride || len(b) != 72 {
		t.Fatalf("expected 72 bytes, got %d", len(b))
	}
	for k := 0; k < 2; k++ {
		for f := 0; f < NumFields; f++ {
			off := k*Stride + f*4
			got := math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4]))
			if got != cat.Records[k][f] {
				t.Fatalf("record %d field %s: got %v want %v", k, FieldNames[f], got, cat.Records[k][f])
			}
		}
	}
}

func TestWriteLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "out", "asteroids.bin")
	meta := filepath.Join(dir, "out", "metadata.json")

	sz, err := Write(bin, meta, sample())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if sz.Binary != 3*Stride {
		t.Fatalf("binary size: got %d want %d", sz.Binary, 3*Stride)
	}
	st, err := os.Stat(bin)
	if err != nil {
		t.Fatal(err)
	}
	if st.Size() != sz.Binary {
		t.Fatalf("on-disk size %d differs from reported %d", st.Size(), sz.Binary)
	}

	got, err := Load(bin, meta)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Len() != 3 || got.IDs[2] != "2000004" || got.Names[1] != "3 Juno" {
		t.Fatalf("unexpected catalog: %+v", got)
	}
	for k, want := range []string{"MBA", "TNO", "MBA"} {
		label, err := got.Label(k)
		if err != nil || label != want {
			t.Fatalf("Label(%d) = %q, %v; want %q", k, label, err, want)
		}
	}
}

func TestWrite_EmptyCatalogHasArrays(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "a.bin")
	meta := filepath.Join(dir, "m.json")
	if _, err := Write(bin, meta, &Catalog{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	st, err := os.Stat(bin)
	if err != nil {
		t.Fatal(err)
	}
	if st.Size() != 0 {
		t.Fatalf("expected empty binary, got %d bytes", st.Size())
	}
	b, err := os.ReadFile(meta)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"classes", "ids", "names"} {
		if string(raw[k]) != "[]" {
			t.Fatalf("%s: got %s want []", k, raw[k])
		}
	}
}

func TestWrite_RejectsMisalignedCatalog(t *testing.T) {
	cat := sample()
	cat.Names = cat.Names[:2]
	dir := t.TempDir()
	_, err := Write(filepath.Join(dir, "a.bin"), filepath.Join(dir, "m.json"), cat)
	if !errors.Is(err, ErrMetadataMismatch) {
		t.Fatalf("expected ErrMetadataMismatch, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.bin")); !os.IsNotExist(err) {
		t.Fatalf("binary should not be written for an invalid catalog")
	}
}

func TestWrite_UnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Write(filepath.Join(blocker, "a.bin"), filepath.Join(dir, "m.json"), sample())
	if !errors.Is(err, ErrOutputWrite) {
		t.Fatalf("expected ErrOutputWrite, got %v", err)
	}
}

func TestLoad_StrideMismatch(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "a.bin")
	meta := filepath.Join(dir, "m.json")
	if _, err := Write(bin, meta, sample()); err != nil {
		t.Fatal(err)
	}
	f, err := os.OpenFile(bin, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.Write([]byte{0, 0, 0, 0})
	_ = f.Close()

	if _, err := Load(bin, meta); !errors.Is(err, ErrStrideMismatch) {
		t.Fatalf("expected ErrStrideMismatch, got %v", err)
	}
}

func TestLoad_MetadataMismatch(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "a.bin")
	meta := filepath.Join(dir, "m.json")
	if _, err := Write(bin, meta, sample()); err != nil {
		t.Fatal(err)
	}
	mb, _ := json.Marshal(Metadata{Classes: []string{"MBA", "TNO"}, IDs: []string{"1"}, Names: []string{"a"}})
	if err := os.WriteFile(meta, mb, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bin, meta); !errors.Is(err, ErrMetadataMismatch) {
		t.Fatalf("expected ErrMetadataMismatch, got %v", err)
	}
}

func TestValidate_ClassOutOfRange(t *testing.T) {
	cat := sample()
	cat.Records[1][FieldClassID] = 5
	if err := cat.Validate(); !errors.Is(err, ErrClassOutOfRange) {
		t.Fatalf("expected ErrClassOutOfRange, got %v", err)
	}
	cat.Records[1][FieldClassID] = 0.5
	if err := cat.Validate(); !errors.Is(err, ErrClassOutOfRange) {
		t.Fatalf("expected ErrClassOutOfRange for fractional id, got %v", err)
	}
}

func TestValidate_HugeClassIDIsOutOfRange(t *testing.T) {
	cat := sample()
	cat.Records[1][FieldClassID] = 1e20
	if err := cat.Validate(); !errors.Is(err, ErrClassOutOfRange) {
		t.Fatalf("expected ErrClassOutOfRange, got %v", err)
	}
	if _, err := cat.Label(1); !errors.Is(err, ErrClassOutOfRange) {
		t.Fatalf("Label: expected ErrClassOutOfRange, got %v", err)
	}
}

func TestLoad_HugeClassIDIsOutOfRange(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "a.bin")
	meta := filepath.Join(dir, "m.json")
	if _, err := Write(bin, meta, sample()); err != nil {
		t.Fatal(err)
	}
	recs := sample().Records
	recs[2][FieldClassID] = 1e20
	f, err := os.Create(bin)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteBinary(f, recs); err != nil {
		_ = f.Close()
		t.Fatal(err)
	}
	_ = f.Close()

	if _, err := Load(bin, meta); !errors.Is(err, ErrClassOutOfRange) {
		t.Fatalf("expected ErrClassOutOfRange, got %v", err)
	}
}

func TestLoad_InvalidMetadataJSON(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "a.bin")
	meta := filepath.Join(dir, "m.json")
	if _, err := Write(bin, meta, sample()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(meta, []byte(`{"classes": [`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bin, meta); !errors.Is(err, ErrMetadataMismatch) {
		t.Fatalf("expected ErrMetadataMismatch, got %v", err)
	}
}

func TestValidate_UnusedClass(t *testing.T) {
	cat := sample()
	cat.Classes = append(cat.Classes, "APO")
	if err := cat.Validate(); !errors.Is(err, ErrMetadataMismatch) {
		t.Fatalf("expected ErrMetadataMismatch, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sample())
	if s.Records != 3 {
		t.Fatalf("records: %d", s.Records)
	}
	if len(s.Classes) != 2 || s.Classes[0].Count != 2 || s.Classes[1].Count != 1 || s.Classes[1].Label != "TNO" {
		t.Fatalf("unexpected class counts: %+v", s.Classes)
	}
	var q FieldStats
	for _, f := range s.Fields {
		if f.Name == "q" {
			q = f
		}
	}
	if q.Min != float64(float32(1.98)) || q.Max != 40 {
		t.Fatalf("unexpected q stats: %+v", q)
	}
	if len(Summarize(&Catalog{}).Fields) != 0 {
		t.Fatalf("empty catalog should have no field stats")
	}
}
