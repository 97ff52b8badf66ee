// Package ingest reads the tabular orbital-element input and validates each row
// into a RawRecord. Rows missing a required element are dropped, never fatal.
package ingest

// Input column names. Order in the file is irrelevant; names are fixed.
const (
	ColSPKID    = "spkid"
	ColFullName = "full_name"
	ColDiameter = "diameter"
	ColClass    = "class"
	ColE        = "e"
	ColQ        = "q"
	ColI        = "i"
	ColOM       = "om"
	ColW        = "w"
	ColMA       = "ma"
	ColEpoch    = "epoch"
)

// Columns lists the full input schema in its canonical order.
var Columns = []string{
	ColSPKID, ColFullName, ColDiameter, ColClass,
	ColE, ColQ, ColI, ColOM, ColW, ColMA, ColEpoch,
}

// RequiredColumns are the orbital elements a row must carry to survive validation.
var RequiredColumns = []string{ColE, ColQ, ColI, ColOM, ColW, ColMA}

// RawRecord is one validated input row. Angles are still in degrees.
// Diameter and Epoch already hold their defaults when the source had none.
type RawRecord struct {
	SPKID    string
	FullName string
	Class    string

	E  float64 // eccentricity
	Q  float64 // perihelion distance, AU
	I  float64 // inclination, deg
	OM float64 // longitude of ascending node, deg
	W  float64 // argument of perihelion, deg
	MA float64 // mean anomaly, deg

	Epoch    float64 // MJD
	Diameter float64 // km
}

// Options controls defaults applied during validation.
type Options struct {
	DefaultDiameter float64
	DefaultEpoch    float64
	UnknownClass    string
}

// DefaultOptions returns the stock defaults: diameter 1.0, epoch MJD 59000, class "UNK".
func DefaultOptions() Options {
	return Options{
		DefaultDiameter: 1.0,
		DefaultEpoch:    59000.0,
		UnknownClass:    "UNK",
	}
}

// Stats describes what validation did to the input.
type Stats struct {
	Rows              int // data rows read, header excluded
	Kept              int
	Dropped           int
	DiameterDefaulted int
	EpochDefaulted    int
	ClassDefaulted    int

	// MissingColumns lists optional schema columns absent from the header.
	MissingColumns []string
}
