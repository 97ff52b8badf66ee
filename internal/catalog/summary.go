package catalog

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ClassCount is the number of records carrying one class label.
type ClassCount struct {
	ID    int
	Label string
	Count int
}

// FieldStats summarizes one record field across the catalog.
type FieldStats struct {
	Name string
	Min  float64
	Mean float64
	Max  float64
}

// Summary is a per-class and per-field overview of a catalog.
type Summary struct {
	Records int
	Classes []ClassCount
	Fields  []FieldStats
}

// summaryFields are the fields reported by Summarize.
var summaryFields = []int{FieldE, FieldQ, FieldI, FieldEpoch, FieldDiameter}

// Summarize computes class counts in id order and min/mean/max for the
// eccentricity, perihelion distance, inclination, epoch and diameter fields.
// Fields are omitted when the catalog is empty.
func Summarize(cat *Catalog) Summary {
	s := Summary{Records: len(cat.Records)}

	counts := make([]int, len(cat.Classes))
	for _, r := range cat.Records {
		if id, ok := r.ClassID(); ok && id < len(counts) {
			counts[id]++
		}
	}
	for id, label := range cat.Classes {
		s.Classes = append(s.Classes, ClassCount{ID: id, Label: label, Count: counts[id]})
	}

	if len(cat.Records) == 0 {
		return s
	}
	col := make([]float64, len(cat.Records))
	for _, f := range summaryFields {
		for k, r := range cat.Records {
			col[k] = float64(r[f])
		}
		s.Fields = append(s.Fields, FieldStats{
			Name: FieldNames[f],
			Min:  floats.Min(col),
			Mean: stat.Mean(col, nil),
			Max:  floats.Max(col),
		})
	}
	return s
}
