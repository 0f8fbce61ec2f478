package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/photosearch/internal/domain"
	"github.com/kailas-cloud/photosearch/internal/domain/search/order"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New(Params{}, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Limit() != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", r.Limit(), DefaultLimit)
	}
	if r.Sort() != order.Default() {
		t.Errorf("Sort() = %+v, want shot_ts desc", r.Sort())
	}
	if r.Cursor() != "" {
		t.Errorf("Cursor() = %q", r.Cursor())
	}
	if r.Vector() != nil {
		t.Errorf("Vector() = %v, want nil", r.Vector())
	}
}

func TestNew_LimitCapped(t *testing.T) {
	r, err := New(Params{Limit: 5000}, Limits{MaxLimit: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Limit() != 100 {
		t.Errorf("Limit() = %d, want 100", r.Limit())
	}
}

func TestNew_DefaultLimitNeverExceedsMax(t *testing.T) {
	r, err := New(Params{}, Limits{DefaultLimit: 80, MaxLimit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Limit() != 20 {
		t.Errorf("Limit() = %d, want 20", r.Limit())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"negative limit", Params{Limit: -1}},
		{"query too long", Params{Query: strings.Repeat("x", DefaultMaxQueryLength+1)}},
		{"bad sort field", Params{SortBy: "size"}},
		{"bad sort dir", Params{SortDir: "sideways"}},
		{"dim mismatch", Params{Vector: &Vector{Dim: 3, Values: []float32{1, 2}}}},
		{"empty vector", Params{Vector: &Vector{Dim: 0}}},
		{"negative k", Params{SimilarityK: -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.p, Limits{})
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestNew_Vector(t *testing.T) {
	r, err := New(Params{
		Vector:      &Vector{Dim: 2, Values: []float32{0.5, 0.25}},
		SimilarityK: 7,
	}, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Vector()) != 2 || r.SimilarityK() != 7 {
		t.Errorf("vector=%v k=%d", r.Vector(), r.SimilarityK())
	}
}

func TestNew_RelevanceKeepsRequestedSpec(t *testing.T) {
	r, err := New(Params{SortBy: order.Relevance, SortDir: order.Asc}, Limits{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Sort().Field != order.Relevance {
		t.Errorf("Sort().Field = %q", r.Sort().Field)
	}
	if r.Sort().Effective() != order.Default() {
		t.Errorf("Effective() = %+v, want shot_ts desc", r.Sort().Effective())
	}
}
