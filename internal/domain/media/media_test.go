package media

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestNewHit_DeduplicatesPeople(t *testing.T) {
	rec := Record{ID: "p1", Ext: "HEIC"}
	faces := []Face{
		{PersonID: strPtr("ines")},
		{PersonID: strPtr("ines")},
		{PersonID: nil},
		{PersonID: strPtr("john")},
	}

	hit := NewHit(rec, []string{"beach"}, faces)

	if hit.Ext != "heic" {
		t.Errorf("expected lower-cased ext, got %q", hit.Ext)
	}
	if len(hit.People) != 2 || hit.People[0] != "ines" || hit.People[1] != "john" {
		t.Errorf("unexpected people: %v", hit.People)
	}
	if len(hit.Faces) != 4 {
		t.Errorf("expected raw faces preserved, got %d", len(hit.Faces))
	}
}

func TestNewHit_EmptyCollections(t *testing.T) {
	hit := NewHit(Record{ID: "p1"}, nil, nil)
	if hit.Tags == nil || hit.People == nil || hit.Faces == nil {
		t.Fatal("expected non-nil empty slices")
	}
}

func TestRecord_SortTS(t *testing.T) {
	var r Record
	if !r.SortTS().IsZero() {
		t.Error("expected zero instant for missing capture time")
	}

	loc := time.FixedZone("plus5", 5*3600)
	ts := time.Date(2020, 6, 1, 15, 0, 0, 0, loc)
	r.ShotTS = &ts
	got := r.SortTS()
	if got.Location() != time.UTC || got.Hour() != 10 {
		t.Errorf("expected UTC 10:00, got %v", got)
	}
}

func TestRecord_SortTSDropsSubMicroseconds(t *testing.T) {
	ts := time.Date(2020, 6, 1, 12, 0, 0, 1_500, time.UTC)
	r := Record{ShotTS: &ts}
	want := time.Date(2020, 6, 1, 12, 0, 0, 1_000, time.UTC)
	if got := r.SortTS(); !got.Equal(want) {
		t.Errorf("SortTS() = %v, want %v", got, want)
	}
	if got := NormalizeTS(ts); !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("NormalizeTS() = %v, want %v", got, want)
	}
}
