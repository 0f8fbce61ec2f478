package neighbors

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/photosearch/internal/db"
	"github.com/kailas-cloud/photosearch/internal/db/memory"
	"github.com/kailas-cloud/photosearch/internal/domain"
)

type stubSearcher struct {
	res   *db.SearchResult
	err   error
	calls int
	last  *db.KNNQuery
}

func (s *stubSearcher) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	s.calls++
	s.last = q
	return s.res, s.err
}

func TestTopK_Memory(t *testing.T) {
	st := memory.New()
	st.AddVector("a", []float32{1, 0})
	st.AddVector("b", []float32{0.8, 0.6})
	st.AddVector("c", []float32{0, 1})

	r := New(st, "media")
	got, err := r.TopK(context.Background(), []float32{1, 0}, 2, nil)
	if err != nil {
		t.Fatalf("TopK: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("unexpected matches: %+v", got)
	}
	if got[0].Score < 0.999 || got[1].Score < 0.79 || got[1].Score > 0.81 {
		t.Errorf("unexpected scores: %+v", got)
	}

	scoped, err := r.TopK(context.Background(), []float32{1, 0}, 5, []string{"c"})
	if err != nil {
		t.Fatalf("TopK: %v", err)
	}
	if len(scoped) != 1 || scoped[0].ID != "c" {
		t.Errorf("scoped matches: %+v", scoped)
	}
}

func TestTopK_EmptyScopeSkipsLookup(t *testing.T) {
	s := &stubSearcher{}
	got, err := New(s, "media").TopK(context.Background(), []float32{1}, 10, []string{})
	if err != nil || len(got) != 0 || got == nil {
		t.Fatalf("got %v, %v", got, err)
	}
	if s.calls != 0 {
		t.Errorf("expected no lookup, got %d", s.calls)
	}
}

func TestTopK_PassesQueryAndDedups(t *testing.T) {
	s := &stubSearcher{res: &db.SearchResult{Entries: []db.SearchEntry{
		{Key: "a", Score: 0.9},
		{Key: "a", Score: 0.1},
		{Key: "", Score: 0.5},
		{Key: "b", Score: 0.4},
		{Key: "c", Score: 0.3},
	}}}
	got, err := New(s, "media:vectors").TopK(context.Background(), []float32{1, 2}, 2, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("TopK: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[0].Score != 0.9 || got[1].ID != "b" {
		t.Errorf("unexpected matches: %+v", got)
	}
	if s.last.IndexName != "media:vectors" || s.last.K != 2 || len(s.last.Scope) != 3 {
		t.Errorf("unexpected query: %+v", s.last)
	}
}

func TestTopK_WrapsBackendError(t *testing.T) {
	s := &stubSearcher{err: errors.New("index missing")}
	_, err := New(s, "media").TopK(context.Background(), []float32{1}, 3, nil)
	if !errors.Is(err, domain.ErrNeighborLookup) {
		t.Errorf("expected ErrNeighborLookup, got %v", err)
	}
}
