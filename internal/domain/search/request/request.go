package request

import (
	"fmt"

	"github.com/kailas-cloud/photosearch/internal/domain"
	"github.com/kailas-cloud/photosearch/internal/domain/search/filter"
	"github.com/kailas-cloud/photosearch/internal/domain/search/order"
)

// Default search parameter limits.
const (
	DefaultLimit          = 50
	MaxLimit              = 200
	DefaultMaxQueryLength = 1024
)

// Limits bounds request parameters. Zero fields fall back to package defaults.
type Limits struct {
	DefaultLimit   int
	MaxLimit       int
	MaxQueryLength int
}

func (l Limits) withDefaults() Limits {
	if l.DefaultLimit <= 0 {
		l.DefaultLimit = DefaultLimit
	}
	if l.MaxLimit <= 0 {
		l.MaxLimit = MaxLimit
	}
	if l.DefaultLimit > l.MaxLimit {
		l.DefaultLimit = l.MaxLimit
	}
	if l.MaxQueryLength <= 0 {
		l.MaxQueryLength = DefaultMaxQueryLength
	}
	return l
}

// Vector is a query embedding forwarded to the neighbor lookup.
type Vector struct {
	Dim    int
	Values []float32
}

// Params is the raw, unvalidated search input.
type Params struct {
	Query       string
	Filters     filter.Filters
	SortBy      order.Field
	SortDir     order.Direction
	Limit       int
	Cursor      string
	Vector      *Vector
	SimilarityK int
}

// Request is a validated search query.
type Request struct {
	query       string
	filters     filter.Filters
	sort        order.Spec
	limit       int
	cursor      string
	vector      []float32
	similarityK int
}

// New validates and normalizes search parameters.
// Limit defaults to l.DefaultLimit and is capped at l.MaxLimit.
// Filter cardinality is checked by the filter compiler, not here.
func New(p Params, l Limits) (Request, error) {
	l = l.withDefaults()

	if len(p.Query) > l.MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, l.MaxQueryLength)
	}
	s, err := order.New(p.SortBy, p.SortDir)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	limit := p.Limit
	if limit < 0 {
		return Request{}, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidRequest)
	}
	if limit == 0 {
		limit = l.DefaultLimit
	}
	if limit > l.MaxLimit {
		limit = l.MaxLimit
	}
	if p.SimilarityK < 0 {
		return Request{}, fmt.Errorf("%w: similarity_k must be positive", domain.ErrInvalidRequest)
	}

	var vec []float32
	if p.Vector != nil {
		if len(p.Vector.Values) == 0 {
			return Request{}, fmt.Errorf("%w: vector values are required", domain.ErrInvalidRequest)
		}
		if p.Vector.Dim != len(p.Vector.Values) {
			return Request{}, fmt.Errorf("%w: vector dim %d does not match %d values",
				domain.ErrInvalidRequest, p.Vector.Dim, len(p.Vector.Values))
		}
		vec = p.Vector.Values
	}

	return Request{
		query:       p.Query,
		filters:     p.Filters,
		sort:        s,
		limit:       limit,
		cursor:      p.Cursor,
		vector:      vec,
		similarityK: p.SimilarityK,
	}, nil
}

// Query returns the free-text query.
func (r *Request) Query() string { return r.query }

// Filters returns the filter dimensions.
func (r *Request) Filters() filter.Filters { return r.filters }

// Sort returns the requested sort.
func (r *Request) Sort() order.Spec { return r.sort }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }

// Cursor returns the opaque continuation token ("" for the first page).
func (r *Request) Cursor() string { return r.cursor }

// Vector returns the query embedding, nil if absent.
func (r *Request) Vector() []float32 { return r.vector }

// SimilarityK returns the requested neighbor count (0 = backend default).
func (r *Request) SimilarityK() int { return r.similarityK }
