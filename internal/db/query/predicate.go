package query

import "time"

// Predicate is a node of the filter tree. The set of node types is closed.
type Predicate interface {
	isPredicate()
}

// And matches when every term matches. An empty And matches everything.
type And struct{ Terms []Predicate }

// Or matches when any term matches. An empty Or matches nothing.
type Or struct{ Terms []Predicate }

// In is set membership. An empty value set matches nothing.
// Fold compares lower-cased values; a NULL column never matches.
type In struct {
	Field  Field
	Values []string
	Fold   bool
}

// TimeRange is an inclusive instant range; either bound may be nil.
// A NULL column never matches.
type TimeRange struct {
	Field    Field
	From, To *time.Time
}

// IntRange is the half-open interval [Lo, Hi).
type IntRange struct {
	Field  Field
	Lo, Hi int64
}

// Exists matches when the related relation has a row for the record
// satisfying Where. A nil Where accepts any row.
type Exists struct {
	Relation Relation
	Where    Predicate
}

// Contains is a case-insensitive substring match. Pattern is matched literally.
type Contains struct {
	Field   Field
	Pattern string
}

// After is the keyset continuation on (coalesced shot_ts, id): strictly after
// the position in the given direction.
type After struct {
	Desc bool
	TS   time.Time
	ID   string
}

func (And) isPredicate()       {}
func (Or) isPredicate()        {}
func (In) isPredicate()        {}
func (TimeRange) isPredicate() {}
func (IntRange) isPredicate()  {}
func (Exists) isPredicate()    {}
func (Contains) isPredicate()  {}
func (After) isPredicate()     {}

// All matches every record.
func All() Predicate { return And{} }

// Conj appends terms to p, flattening nested conjunctions.
func Conj(p Predicate, terms ...Predicate) Predicate {
	out := make([]Predicate, 0, len(terms)+1)
	for _, t := range append([]Predicate{p}, terms...) {
		if t == nil {
			continue
		}
		if a, ok := t.(And); ok {
			out = append(out, a.Terms...)
			continue
		}
		out = append(out, t)
	}
	if len(out) == 1 {
		return out[0]
	}
	return And{Terms: out}
}

// Restrict narrows p to the given media ids.
func Restrict(p Predicate, ids []string) Predicate {
	return Conj(p, In{Field: MediaID, Values: ids})
}

// NullTS is the instant a missing capture timestamp sorts as.
var NullTS = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
