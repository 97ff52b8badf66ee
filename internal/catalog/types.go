// Package catalog defines the on-disk contract between the encoder and the
// rendering client: a headerless little-endian float32 buffer with a fixed
// stride, and a JSON sidecar aligned with it by position.
package catalog

import (
	"fmt"
	"math"
)

// Field positions inside a Record.
const (
	FieldE = iota
	FieldQ
	FieldI
	FieldOM
	FieldW
	FieldMA
	FieldEpoch
	FieldDiameter
	FieldClassID

	// NumFields is the number of float32 values per record.
	NumFields
)

// Stride is the size in bytes of one encoded record.
const Stride = NumFields * 4

// FieldNames are the element names in record order.
var FieldNames = [NumFields]string{"e", "q", "i", "om", "w", "ma", "epoch", "diameter", "class_id"}

// Record is one encoded catalog entry:
// [e, q, i_rad, om_rad, w_rad, ma_rad, epoch, diameter, class_id].
type Record [NumFields]float32

// ClassID decodes the class id. ok is false when the stored value is not a
// non-negative integer no larger than math.MaxInt32.
func (r Record) ClassID() (int, bool) {
	v := float64(r[FieldClassID])
	if math.IsNaN(v) || v < 0 || v > math.MaxInt32 || v != math.Trunc(v) {
		return 0, false
	}
	return int(v), true
}

// Metadata is the JSON sidecar. Classes is indexed by class id; IDs and Names
// are indexed by record position.
type Metadata struct {
	Classes []string `json:"classes"`
	IDs     []string `json:"ids"`
	Names   []string `json:"names"`
}

// Catalog is a complete output snapshot.
type Catalog struct {
	Records []Record
	Classes []string
	IDs     []string
	Names   []string
}

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.Records) }

// Metadata returns the sidecar view of c. Nil slices become empty so the JSON
// document always carries three arrays.
func (c *Catalog) Metadata() Metadata {
	return Metadata{
		Classes: nonNil(c.Classes),
		IDs:     nonNil(c.IDs),
		Names:   nonNil(c.Names),
	}
}

// Label returns the class label of record k.
func (c *Catalog) Label(k int) (string, error) {
	if k < 0 || k >= len(c.Records) {
		return "", fmt.Errorf("record %d out of range [0, %d)", k, len(c.Records))
	}
	id, ok := c.Records[k].ClassID()
	if !ok || id >= len(c.Classes) {
		return "", fmt.Errorf("%w: record %d has class id %v with %d classes", ErrClassOutOfRange, k, c.Records[k][FieldClassID], len(c.Classes))
	}
	return c.Classes[id], nil
}

// Validate checks the alignment and class-id invariants.
func (c *Catalog) Validate() error {
	n := len(c.Records)
	if len(c.IDs) != n || len(c.Names) != n {
		return fmt.Errorf("%w: records=%d ids=%d names=%d", ErrMetadataMismatch, n, len(c.IDs), len(c.Names))
	}
	if len(c.Classes) > n {
		return fmt.Errorf("%w: %d classes for %d records", ErrMetadataMismatch, len(c.Classes), n)
	}
	used := make([]bool, len(c.Classes))
	for k := range c.Records {
		id, ok := c.Records[k].ClassID()
		if !ok || id >= len(c.Classes) {
			return fmt.Errorf("%w: record %d has class id %v with %d classes", ErrClassOutOfRange, k, c.Records[k][FieldClassID], len(c.Classes))
		}
		used[id] = true
	}
	for id, u := range used {
		if !u {
			return fmt.Errorf("%w: class %d (%q) is not used by any record", ErrMetadataMismatch, id, c.Classes[id])
		}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
