// Package facet defines the closed set of facet kinds and their results.
package facet

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
)

// Kind identifies a facet computation.
type Kind string

// Facet kinds. Adding a kind means extending Result and the engine's compute mapping.
const (
	KindDate       Kind = "date"
	KindTags       Kind = "tags"
	KindPeople     Kind = "people"
	KindDuplicates Kind = "duplicates"
)

// Kinds lists every facet kind in response order.
func Kinds() []Kind {
	return []Kind{KindDate, KindTags, KindPeople, KindDuplicates}
}

// ValueCount is one entry of a simple count facet.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// DuplicateStats counts duplicate groups (groups with more than one member).
type DuplicateStats struct {
	Exact int `json:"exact"`
	Near  int `json:"near"`
}

// Result is the tagged union of facet outputs. Exactly one payload matches Kind.
type Result struct {
	Kind       Kind            `json:"kind"`
	Date       *DateHierarchy  `json:"date,omitempty"`
	Values     []ValueCount    `json:"values,omitempty"`
	Duplicates *DuplicateStats `json:"duplicates,omitempty"`
}

// NewDate wraps a date hierarchy.
func NewDate(h DateHierarchy) Result { return Result{Kind: KindDate, Date: &h} }

// NewValues wraps a simple count facet, sorted by count desc.
func NewValues(kind Kind, values []ValueCount) Result {
	return Result{Kind: kind, Values: SortValueCounts(values)}
}

// NewDuplicates wraps duplicate statistics.
func NewDuplicates(s DuplicateStats) Result { return Result{Kind: KindDuplicates, Duplicates: &s} }

// Empty returns the zero-valued result for a kind.
func Empty(kind Kind) Result {
	switch kind {
	case KindDate:
		return NewDate(DateHierarchy{Years: []YearNode{}})
	case KindDuplicates:
		return NewDuplicates(DuplicateStats{})
	default:
		return Result{Kind: kind, Values: []ValueCount{}}
	}
}

// Set is the facet section of a search response.
type Set struct {
	Date       DateHierarchy
	Tags       []ValueCount
	People     []ValueCount
	Duplicates DuplicateStats
}

// EmptySet returns a set with every facet zero-valued.
func EmptySet() Set {
	return Set{
		Date:   DateHierarchy{Years: []YearNode{}},
		Tags:   []ValueCount{},
		People: []ValueCount{},
	}
}

// Apply stores a result in the matching slot of the set.
func (s *Set) Apply(r Result) {
	switch r.Kind {
	case KindDate:
		if r.Date != nil {
			s.Date = *r.Date
		}
	case KindTags:
		s.Tags = nonNil(r.Values)
	case KindPeople:
		s.People = nonNil(r.Values)
	case KindDuplicates:
		if r.Duplicates != nil {
			s.Duplicates = *r.Duplicates
		}
	}
}

// SortValueCounts orders by count desc, then value asc. Empty values are dropped.
func SortValueCounts(values []ValueCount) []ValueCount {
	out := make([]ValueCount, 0, len(values))
	for _, v := range values {
		if v.Value == "" || v.Count <= 0 {
			continue
		}
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b ValueCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Value, b.Value)
	})
	return out
}

// CacheKey identifies a facet computation over an id set, independent of id order.
func CacheKey(kind Kind, ids []string) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	h := sha256.New()
	for _, id := range sorted {
		h.Write([]byte(id))
		h.Write([]byte{0})
	}
	return string(kind) + ":" + hex.EncodeToString(h.Sum(nil))
}

func nonNil(v []ValueCount) []ValueCount {
	if v == nil {
		return []ValueCount{}
	}
	return v
}
