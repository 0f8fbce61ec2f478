package facet

import (
	"slices"
	"time"
)

// DateHierarchy is a year -> month -> day count tree.
// Every node's count equals the sum of its children's counts.
type DateHierarchy struct {
	Years []YearNode `json:"years"`
}

// YearNode counts records captured in one year.
type YearNode struct {
	Value  int         `json:"value"`
	Count  int         `json:"count"`
	Months []MonthNode `json:"months"`
}

// MonthNode counts records captured in one month.
type MonthNode struct {
	Value int       `json:"value"`
	Count int       `json:"count"`
	Days  []DayNode `json:"days"`
}

// DayNode counts records captured on one day.
type DayNode struct {
	Value int `json:"value"`
	Count int `json:"count"`
}

// Total returns the number of records in the tree.
func (h DateHierarchy) Total() int {
	n := 0
	for _, y := range h.Years {
		n += y.Count
	}
	return n
}

// BuildDateHierarchy groups capture instants by UTC (year, month, day).
// Parents are derived from the day counts, so the tree is conserved by construction.
func BuildDateHierarchy(times []time.Time) DateHierarchy {
	type ymd struct{ y, m, d int }
	days := make(map[ymd]int)
	for _, t := range times {
		if t.IsZero() {
			continue
		}
		y, m, d := t.UTC().Date()
		days[ymd{y, int(m), d}]++
	}

	keys := make([]ymd, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b ymd) int {
		if a.y != b.y {
			return a.y - b.y
		}
		if a.m != b.m {
			return a.m - b.m
		}
		return a.d - b.d
	})

	h := DateHierarchy{Years: []YearNode{}}
	for _, k := range keys {
		n := days[k]
		if len(h.Years) == 0 || h.Years[len(h.Years)-1].Value != k.y {
			h.Years = append(h.Years, YearNode{Value: k.y, Months: []MonthNode{}})
		}
		year := &h.Years[len(h.Years)-1]
		if len(year.Months) == 0 || year.Months[len(year.Months)-1].Value != k.m {
			year.Months = append(year.Months, MonthNode{Value: k.m, Days: []DayNode{}})
		}
		month := &year.Months[len(year.Months)-1]
		month.Days = append(month.Days, DayNode{Value: k.d, Count: n})
		month.Count += n
		year.Count += n
	}
	return h
}
