package catalog

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Load reads a binary buffer and its sidecar and checks that they agree.
func Load(binPath, metaPath string) (*Catalog, error) {
	m, err := loadMetadata(metaPath)
	if err != nil {
		return nil, err
	}
	recs, err := loadRecords(binPath)
	if err != nil {
		return nil, err
	}
	cat := &Catalog{Records: recs, Classes: m.Classes, IDs: m.IDs, Names: m.Names}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func loadMetadata(path string) (Metadata, error) {
	var m Metadata
	b, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("cannot read metadata %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("%w: invalid metadata JSON %s: %v", ErrMetadataMismatch, path, err)
	}
	return m, nil
}

func loadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open binary %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("cannot stat binary %s: %w", path, err)
	}
	if st.Size()%Stride != 0 {
		return nil, fmt.Errorf("%w: %s is %d bytes, stride %d", ErrStrideMismatch, path, st.Size(), Stride)
	}

	out := make([]Record, st.Size()/Stride)
	if err := binary.Read(bufio.NewReader(io.LimitReader(f, st.Size())), binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("cannot read records from %s: %w", path, err)
	}
	return out, nil
}
