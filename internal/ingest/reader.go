package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var log = logging.Logger("ingest")

// ErrInputMissing reports that the tabular input does not exist or cannot be read.
var ErrInputMissing = errors.New("input missing or unreadable")

// ReadFile reads and validates the input file at path.
//
// Nothing is written anywhere; a failure here leaves prior outputs untouched.
func ReadFile(path string, opts Options) ([]RawRecord, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: cannot open %s: %v", ErrInputMissing, path, err)
	}
	defer f.Close()

	recs, st, err := Read(f, opts)
	if err != nil {
		return nil, st, fmt.Errorf("%s: %w", path, err)
	}
	log.Infof("read %s: rows=%d kept=%d dropped=%d", path, st.Rows, st.Kept, st.Dropped)
	return recs, st, nil
}

// Read parses comma-separated input with a header row from r. A leading
// UTF-8 or UTF-16 byte order mark is honored and stripped.
func Read(r io.Reader, opts Options) ([]RawRecord, Stats, error) {
	var st Stats

	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(dec)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, st, fmt.Errorf("%w: empty input, no header row", ErrInputMissing)
		}
		return nil, st, fmt.Errorf("%w: cannot read header: %v", ErrInputMissing, err)
	}
	cols := indexHeader(header)

	for _, c := range []string{ColDiameter, ColEpoch, ColClass} {
		if _, ok := cols[c]; !ok {
			st.MissingColumns = append(st.MissingColumns, c)
		}
	}
	for _, c := range st.MissingColumns {
		log.Warnf("column %q absent from input; every row gets the default", c)
	}
	for _, c := range RequiredColumns {
		if _, ok := cols[c]; !ok {
			log.Warnf("required column %q absent from input; every row will be dropped", c)
		}
	}

	out := make([]RawRecord, 0, 1024)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, st, fmt.Errorf("%w: cannot read row: %v", ErrInputMissing, err)
		}
		st.Rows++

		row := rowView{cols: cols, record: record}
		rec, bad, ok := validate(row, opts, &st)
		if !ok {
			st.Dropped++
			line, _ := reader.FieldPos(0)
			log.Debugf("line %d dropped: %s is absent or not numeric", line, bad)
			continue
		}
		out = append(out, rec)
	}
	st.Kept = len(out)
	if st.Dropped > 0 {
		log.Warnf("dropped %d of %d rows missing a required orbital element", st.Dropped, st.Rows)
	}
	return out, st, nil
}

// validate turns one row into a RawRecord. On failure it returns the first
// required column that was absent or not numeric.
func validate(row rowView, opts Options, st *Stats) (RawRecord, string, bool) {
	var req [6]float64
	for i, c := range RequiredColumns {
		v, outcome := ParseRequired(row.get(c))
		if outcome == Invalid {
			return RawRecord{}, c, false
		}
		req[i] = v
	}

	rec := RawRecord{
		E:  req[0],
		Q:  req[1],
		I:  req[2],
		OM: req[3],
		W:  req[4],
		MA: req[5],
	}
	rec.SPKID, _ = row.get(ColSPKID)
	rec.FullName, _ = row.get(ColFullName)

	var outcome Outcome
	raw, present := row.get(ColDiameter)
	if rec.Diameter, outcome = ParseOptional(raw, present, opts.DefaultDiameter); outcome == Defaulted {
		st.DiameterDefaulted++
	}
	raw, present = row.get(ColEpoch)
	if rec.Epoch, outcome = ParseOptional(raw, present, opts.DefaultEpoch); outcome == Defaulted {
		st.EpochDefaulted++
	}
	raw, present = row.get(ColClass)
	if rec.Class, outcome = ParseLabel(raw, present, opts.UnknownClass); outcome == Defaulted {
		st.ClassDefaulted++
	}
	return rec, "", true
}

// indexHeader maps normalized column names to their position. The first
// occurrence of a duplicated name wins.
func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[key]; dup {
			continue
		}
		cols[key] = i
	}
	return cols
}

type rowView struct {
	cols   map[string]int
	record []string
}

// get returns the cell for column name and whether the row carries it at all.
func (r rowView) get(name string) (string, bool) {
	i, ok := r.cols[name]
	if !ok || i >= len(r.record) {
		return "", false
	}
	return r.record[i], true
}
