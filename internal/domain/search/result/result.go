package result

import (
	"github.com/kailas-cloud/photosearch/internal/domain/media"
	"github.com/kailas-cloud/photosearch/internal/domain/search/facet"
)

// Page is one keyset page of hits.
type Page struct {
	Total  int
	Items  []media.Hit
	Cursor *string
}

// EmptyPage returns a page with no items and no continuation.
func EmptyPage() Page {
	return Page{Items: []media.Hit{}}
}

// HasMore reports whether a continuation cursor is present.
func (p *Page) HasMore() bool { return p.Cursor != nil }

// Response is the full search answer: one page plus facets over the filtered set.
type Response struct {
	Hits   Page
	Facets facet.Set
}

// Empty returns the response for a filter that matches nothing.
func Empty() Response {
	return Response{Hits: EmptyPage(), Facets: facet.EmptySet()}
}
