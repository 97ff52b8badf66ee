// Package transform converts validated rows into catalog records: angles go
// from degrees to radians and class labels become first-seen integer ids.
package transform

import (
	"math"

	logging "github.com/ipfs/go-log/v2"

	"github.com/kamusis/orbcat/internal/catalog"
	"github.com/kamusis/orbcat/internal/ingest"
)

var log = logging.Logger("transform")

// DegToRad is the exact conversion factor applied to every angular element.
const DegToRad = math.Pi / 180.0

// below2Pi is the largest float32 strictly less than 2π.
var below2Pi = math.Nextafter32(float32(2*math.Pi), 0)

// Transform encodes rows in input order. Record k of the result corresponds to
// rows[k]; ids and names are copied alongside.
func Transform(rows []ingest.RawRecord) *catalog.Catalog {
	var classes ClassTable
	cat := &catalog.Catalog{
		Records: make([]catalog.Record, 0, len(rows)),
		IDs:     make([]string, 0, len(rows)),
		Names:   make([]string, 0, len(rows)),
	}
	for _, r := range rows {
		cat.Records = append(cat.Records, Encode(r, classes.ID(r.Class)))
		cat.IDs = append(cat.IDs, r.SPKID)
		cat.Names = append(cat.Names, r.FullName)
	}
	cat.Classes = classes.Labels()
	log.Debugf("encoded %d records across %d classes", len(cat.Records), classes.Len())
	return cat
}

// Encode packs one row into the fixed record layout using classID.
func Encode(r ingest.RawRecord, classID int) catalog.Record {
	var rec catalog.Record
	rec[catalog.FieldE] = float32(r.E)
	rec[catalog.FieldQ] = float32(r.Q)
	rec[catalog.FieldI] = Radians(r.I)
	rec[catalog.FieldOM] = Radians(r.OM)
	rec[catalog.FieldW] = Radians(r.W)
	rec[catalog.FieldMA] = Radians(r.MA)
	rec[catalog.FieldEpoch] = float32(r.Epoch)
	rec[catalog.FieldDiameter] = float32(r.Diameter)
	rec[catalog.FieldClassID] = float32(classID)
	return rec
}

// Radians converts deg to single-precision radians. Inputs in [0, 360) stay
// in [0, 2π) after rounding to float32.
func Radians(deg float64) float32 {
	v := float32(deg * DegToRad)
	if deg >= 0 && deg < 360 && v > below2Pi {
		v = below2Pi
	}
	return v
}
