package photosearch

import (
	"github.com/kailas-cloud/photosearch/internal/domain/media"
	"github.com/kailas-cloud/photosearch/internal/domain/search/filter"
	"github.com/kailas-cloud/photosearch/internal/domain/search/order"
	"github.com/kailas-cloud/photosearch/internal/domain/search/request"
	"github.com/kailas-cloud/photosearch/internal/domain/search/result"
)

func toParams(r *Request) request.Params {
	p := request.Params{
		Query:       r.Query,
		Filters:     toFilters(&r.Filters),
		SortBy:      order.Field(r.SortBy),
		SortDir:     order.Direction(r.SortDir),
		Limit:       r.Limit,
		Cursor:      r.Cursor,
		SimilarityK: r.SimilarityK,
	}
	if r.Vector != nil {
		p.Vector = &request.Vector{Dim: len(r.Vector), Values: r.Vector}
	}
	return p
}

func toFilters(f *Filters) filter.Filters {
	out := filter.Filters{
		CameraMakes:  f.CameraMakes,
		Extensions:   f.Extensions,
		Orientations: f.Orientations,
		Filesize:     filter.FilesizeRange(f.Filesize),
		HasFaces:     f.HasFaces,
		Tags:         f.Tags,
		People:       f.People,
	}
	if f.DateFrom != nil || f.DateTo != nil {
		out.Date = &filter.DateRange{From: f.DateFrom, To: f.DateTo}
	}
	return out
}

func fromResponse(resp *result.Response) Response {
	hits := make([]Hit, len(resp.Hits.Items))
	for i := range resp.Hits.Items {
		hits[i] = fromHit(&resp.Hits.Items[i])
	}
	out := Response{
		Total: resp.Hits.Total,
		Hits:  hits,
		Facets: Facets{
			Date:       resp.Facets.Date,
			Tags:       resp.Facets.Tags,
			People:     resp.Facets.People,
			Duplicates: resp.Facets.Duplicates,
		},
	}
	if resp.Hits.Cursor != nil {
		out.Cursor = *resp.Hits.Cursor
	}
	return out
}

func fromHit(h *media.Hit) Hit {
	faces := make([]Face, len(h.Faces))
	for i, f := range h.Faces {
		faces[i] = Face{PersonID: f.PersonID}
	}
	out := Hit{
		ID:          h.ID,
		Path:        h.Path,
		Ext:         h.Ext,
		CameraMake:  h.CameraMake,
		Orientation: h.Orientation,
		Filesize:    h.Filesize,
		Tags:        h.Tags,
		People:      h.People,
		Faces:       faces,
		Relevance:   h.Relevance,
	}
	if h.ShotTS != nil {
		ts := h.ShotTS.UTC()
		out.ShotTS = &ts
	}
	return out
}
