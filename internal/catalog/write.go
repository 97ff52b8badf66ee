package catalog

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sizes reports the byte sizes of the written artifacts.
type Sizes struct {
	Binary   int64
	Metadata int64
}

// WriteBinary writes recs to w as consecutive little-endian float32 values
// with no header or padding.
func WriteBinary(w io.Writer, recs []Record) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, recs); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteMetadata writes the sidecar document for cat to w.
func WriteMetadata(w io.Writer, cat *Catalog) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(cat.Metadata())
}

// Write writes the binary buffer to binPath, then the sidecar to metaPath.
// Parent directories are created as needed. Files written before a failure
// are left in place.
func Write(binPath, metaPath string, cat *Catalog) (Sizes, error) {
	var sz Sizes
	if err := cat.Validate(); err != nil {
		return sz, err
	}

	n, err := writeFile(binPath, int64(len(cat.Records))*Stride, func(w io.Writer) error {
		return WriteBinary(w, cat.Records)
	})
	if err != nil {
		return sz, fmt.Errorf("%w: binary %s: %v", ErrOutputWrite, binPath, err)
	}
	sz.Binary = n

	n, err = writeFile(metaPath, 0, func(w io.Writer) error {
		return WriteMetadata(w, cat)
	})
	if err != nil {
		return sz, fmt.Errorf("%w: metadata %s: %v", ErrOutputWrite, metaPath, err)
	}
	sz.Metadata = n

	log.Infof("wrote %d records to %s (%d bytes) and %s (%d bytes)", len(cat.Records), binPath, sz.Binary, metaPath, sz.Metadata)
	return sz, nil
}

func writeFile(path string, sizeHint int64, fill func(io.Writer) error) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("cannot create dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	if sizeHint > 0 {
		if err := preallocate(f, sizeHint); err != nil {
			log.Debugf("preallocate %s: %v", path, err)
		}
	}
	if err := fill(f); err != nil {
		_ = f.Close()
		return 0, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, err
	}
	return st.Size(), nil
}
