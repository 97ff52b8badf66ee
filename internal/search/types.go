// Package search finds catalog objects by name or identifier.
package search

// Result is one matched catalog record.
type Result struct {
	Position int
	ID       string
	Name     string
	Class    string
	// Score is the number of query tokens that matched a whole word.
	Score int
}
