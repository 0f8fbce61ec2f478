package order

import "fmt"

// Field is the primary sort field.
type Field string

// Sort fields.
const (
	ShotTS Field = "shot_ts"
	// Relevance is a placeholder until a scoring engine exists; it orders like ShotTS desc.
	Relevance Field = "relevance"
)

// Direction is the sort direction. The id tie-break always follows it.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Spec is a sort field and direction.
type Spec struct {
	Field     Field
	Direction Direction
}

// Default returns shot_ts desc.
func Default() Spec { return Spec{Field: ShotTS, Direction: Desc} }

// New validates a sort order. Empty values fall back to shot_ts and desc.
func New(field Field, dir Direction) (Spec, error) {
	if field == "" {
		field = ShotTS
	}
	if dir == "" {
		dir = Desc
	}
	if field != ShotTS && field != Relevance {
		return Spec{}, fmt.Errorf("invalid sort field: %q", field)
	}
	if dir != Asc && dir != Desc {
		return Spec{}, fmt.Errorf("invalid sort direction: %q", dir)
	}
	return Spec{Field: field, Direction: dir}, nil
}

// Effective returns the ordering actually applied: relevance degrades to shot_ts desc.
func (s Spec) Effective() Spec {
	if s.Field == Relevance {
		return Default()
	}
	return s
}

// Descending reports whether the effective ordering is descending.
func (s Spec) Descending() bool { return s.Effective().Direction == Desc }
