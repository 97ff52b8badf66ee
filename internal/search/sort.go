package search

import "sort"

// sortResults orders results by score (descending), then by record position.
func sortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return results[i].Position < results[j].Position
		}
		return results[i].Score > results[j].Score
	})
}
