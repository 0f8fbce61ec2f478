// Package neighbor holds the result type of a vector neighbor lookup.
package neighbor

// Match is one neighbor returned by top_k, with its similarity score (higher is closer).
type Match struct {
	ID    string
	Score float64
}

// Scores indexes matches by id. The first occurrence of an id wins.
func Scores(matches []Match) map[string]float64 {
	out := make(map[string]float64, len(matches))
	for _, m := range matches {
		if _, ok := out[m.ID]; !ok {
			out[m.ID] = m.Score
		}
	}
	return out
}

// IDs returns match ids in order.
func IDs(matches []Match) []string {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return ids
}
