package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"

	"github.com/kamusis/orbcat/internal/catalog"
)

// Find returns records whose name or id contains every query token,
// compared case-insensitively. Records where more tokens match a whole word
// (such as the number in "4 Vesta") rank first; ties keep record order.
// A limit of zero or less returns all hits.
func Find(cat *catalog.Catalog, query string, limit int) []Result {
	fold := cases.Fold()
	tokens := tokenize(fold.String(query))
	if len(tokens) == 0 {
		return []Result{}
	}

	out := []Result{}
	for k := range cat.Records {
		var id, name string
		if k < len(cat.IDs) {
			id = cat.IDs[k]
		}
		if k < len(cat.Names) {
			name = cat.Names[k]
		}
		blob := fold.String(id + "\n" + name)
		ok := true
		for _, tok := range tokens {
			if !strings.Contains(blob, tok) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		label, _ := cat.Label(k)
		out = append(out, Result{
			Position: k,
			ID:       id,
			Name:     strings.TrimSpace(name),
			Class:    label,
			Score:    wholeWordMatches(blob, tokens),
		})
	}

	sortResults(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func tokenize(q string) []string {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}
	return strings.Fields(q)
}

// wholeWordMatches counts tokens equal to a complete word of blob.
func wholeWordMatches(blob string, tokens []string) int {
	words := map[string]struct{}{}
	for _, w := range strings.FieldsFunc(blob, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = struct{}{}
	}
	n := 0
	for _, tok := range tokens {
		if _, ok := words[tok]; ok {
			n++
		}
	}
	return n
}
