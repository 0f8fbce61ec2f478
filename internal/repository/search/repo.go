// Package search is the search repository: it compiles filters, runs the
// keyset page against a session and hydrates the hits.
package search

import (
	"context"
	"fmt"
	"slices"

	"github.com/kailas-cloud/photosearch/internal/db"
	"github.com/kailas-cloud/photosearch/internal/db/query"
	"github.com/kailas-cloud/photosearch/internal/domain/media"
	"github.com/kailas-cloud/photosearch/internal/domain/search/cursor"
	"github.com/kailas-cloud/photosearch/internal/domain/search/filter"
	"github.com/kailas-cloud/photosearch/internal/domain/search/neighbor"
	"github.com/kailas-cloud/photosearch/internal/domain/search/order"
	"github.com/kailas-cloud/photosearch/internal/domain/search/result"
)

// Session is the consumer interface for one request's reads (ISP).
type Session interface {
	CountMedia(ctx context.Context, p query.Predicate) (int, error)
	ListMedia(ctx context.Context, p query.Predicate, dir order.Direction, limit int) ([]media.Record, error)
	MediaIDs(ctx context.Context, p query.Predicate) ([]string, error)
	TagsFor(ctx context.Context, ids []string) (map[string][]string, error)
	FacesFor(ctx context.Context, ids []string) (map[string][]media.Face, error)
}

var _ Session = (db.Session)(nil)

// Params is the input of one search.
type Params struct {
	Filters filter.Filters
	Text    string
	Sort    order.Spec
	Limit   int
	Cursor  string
}

// Plan is a compiled search. Building one performs no I/O.
type Plan struct {
	filtered query.Predicate
	after    *cursor.Position
	sort     order.Spec
	limit    int
	scores   map[string]float64
}

// Restrict narrows the plan to neighbor matches and attaches their scores as relevance.
func (p *Plan) Restrict(matches []neighbor.Match) {
	p.scores = neighbor.Scores(matches)
	p.filtered = query.Restrict(p.filtered, neighbor.IDs(matches))
}

// Predicate returns the filter predicate without the keyset clause.
func (p *Plan) Predicate() query.Predicate { return p.filtered }

// Repo implements the search repository.
type Repo struct {
	compiler query.Compiler
}

// New creates a search repository.
func New(c query.Compiler) *Repo {
	return &Repo{compiler: c}
}

// Plan validates filters and decodes the cursor. It fails with
// domain.ErrFilterTooLarge or domain.ErrMalformedCursor before any query runs.
func (r *Repo) Plan(p Params) (*Plan, error) {
	pred, err := r.compiler.Compile(p.Filters, p.Text)
	if err != nil {
		return nil, fmt.Errorf("compile filters: %w", err)
	}
	pos, err := cursor.Parse(p.Cursor)
	if err != nil {
		return nil, err
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 1
	}
	return &Plan{filtered: pred, after: pos, sort: p.Sort.Effective(), limit: limit}, nil
}

// Search counts the filtered set, fetches one keyset page and hydrates it.
// The cursor is set only when more records follow the page.
func (r *Repo) Search(ctx context.Context, s Session, pl *Plan) (result.Page, error) {
	total, err := s.CountMedia(ctx, pl.filtered)
	if err != nil {
		return result.Page{}, fmt.Errorf("count media: %w", err)
	}

	pred := pl.filtered
	if pl.after != nil {
		pred = query.Conj(pred, query.After{
			Desc: pl.sort.Descending(),
			TS:   pl.after.TS,
			ID:   pl.after.ID,
		})
	}

	records, err := s.ListMedia(ctx, pred, pl.sort.Direction, pl.limit+1)
	if err != nil {
		return result.Page{}, fmt.Errorf("list media: %w", err)
	}
	more := len(records) > pl.limit
	if more {
		records = records[:pl.limit]
	}

	items, err := r.hydrate(ctx, s, records, pl.scores)
	if err != nil {
		return result.Page{}, err
	}

	page := result.Page{Total: total, Items: items}
	if more {
		last := records[len(records)-1]
		next := cursor.Encode(last.SortTS(), last.ID)
		page.Cursor = &next
	}
	return page, nil
}

// FilteredIDs returns every id matching the plan, ignoring the page window.
func (r *Repo) FilteredIDs(ctx context.Context, s Session, pl *Plan) ([]string, error) {
	ids, err := s.MediaIDs(ctx, pl.filtered)
	if err != nil {
		return nil, fmt.Errorf("filtered ids: %w", err)
	}
	return ids, nil
}

func (r *Repo) hydrate(
	ctx context.Context, s Session, records []media.Record, scores map[string]float64,
) ([]media.Hit, error) {
	items := make([]media.Hit, 0, len(records))
	if len(records) == 0 {
		return items, nil
	}

	ids := make([]string, len(records))
	for i := range records {
		ids[i] = records[i].ID
	}

	tags, err := s.TagsFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate tags: %w", err)
	}
	faces, err := s.FacesFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate faces: %w", err)
	}

	for _, rec := range records {
		hit := media.NewHit(rec, slices.Clone(tags[rec.ID]), faces[rec.ID])
		if score, ok := scores[rec.ID]; ok {
			hit.Relevance = &score
		}
		items = append(items, hit)
	}
	return items, nil
}
