package chi

import (
	"fmt"

	"github.com/kailas-cloud/photosearch/internal/domain/media"
	"github.com/kailas-cloud/photosearch/internal/domain/search/cursor"
	"github.com/kailas-cloud/photosearch/internal/domain/search/facet"
	"github.com/kailas-cloud/photosearch/internal/domain/search/filter"
	"github.com/kailas-cloud/photosearch/internal/domain/search/order"
	"github.com/kailas-cloud/photosearch/internal/domain/search/request"
	"github.com/kailas-cloud/photosearch/internal/domain/search/result"
)

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Q           string     `json:"q,omitempty"`
	Filters     FiltersDTO `json:"filters"`
	Sort        SortDTO    `json:"sort"`
	Page        PageDTO    `json:"page"`
	Vector      *VectorDTO `json:"vector,omitempty"`
	SimilarityK *int       `json:"similarity_k,omitempty"`
}

// FiltersDTO mirrors filter.Filters on the wire.
type FiltersDTO struct {
	Date          *DateRangeDTO `json:"date,omitempty"`
	CameraMake    []string      `json:"camera_make,omitempty"`
	Extension     []string      `json:"extension,omitempty"`
	Orientation   []string      `json:"orientation,omitempty"`
	FilesizeRange *string       `json:"filesize_range,omitempty"`
	HasFaces      *bool         `json:"has_faces,omitempty"`
	Tags          []string      `json:"tags,omitempty"`
	People        []string      `json:"people,omitempty"`
}

// DateRangeDTO carries YYYY-MM-DD bounds.
type DateRangeDTO struct {
	From *string `json:"from,omitempty"`
	To   *string `json:"to,omitempty"`
}

// SortDTO selects the ordering.
type SortDTO struct {
	By  string `json:"by,omitempty"`
	Dir string `json:"dir,omitempty"`
}

// PageDTO selects the page window.
type PageDTO struct {
	Limit  *int    `json:"limit,omitempty"`
	Cursor *string `json:"cursor,omitempty"`
}

// VectorDTO is a query embedding.
type VectorDTO struct {
	Dim    int       `json:"dim"`
	Values []float32 `json:"values"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Hits   HitsDTO   `json:"hits"`
	Facets FacetsDTO `json:"facets"`
}

// HitsDTO is one page of hits.
type HitsDTO struct {
	Total  int      `json:"total"`
	Items  []HitDTO `json:"items"`
	Cursor *string  `json:"cursor"`
}

// HitDTO is one media record.
type HitDTO struct {
	PhotoID     string    `json:"photo_id"`
	Path        string    `json:"path"`
	Ext         string    `json:"ext"`
	CameraMake  *string   `json:"camera_make,omitempty"`
	Orientation *string   `json:"orientation,omitempty"`
	ShotTS      *string   `json:"shot_ts,omitempty"`
	Filesize    int64     `json:"filesize"`
	Tags        []string  `json:"tags"`
	People      []string  `json:"people"`
	Faces       []FaceDTO `json:"faces"`
	Relevance   *float64  `json:"relevance,omitempty"`
}

// FaceDTO is one face annotation.
type FaceDTO struct {
	PersonID *string `json:"person_id,omitempty"`
}

// FacetsDTO is the facet section.
type FacetsDTO struct {
	Date       facet.DateHierarchy  `json:"date"`
	Tags       []facet.ValueCount   `json:"tags"`
	People     []facet.ValueCount   `json:"people"`
	Duplicates facet.DuplicateStats `json:"duplicates"`
}

// ErrorResponse is the body of every error.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Params converts the wire request into raw request parameters.
func (r *SearchRequest) Params() (request.Params, error) {
	filters, err := r.Filters.toDomain()
	if err != nil {
		return request.Params{}, err
	}

	p := request.Params{
		Query:   r.Q,
		Filters: filters,
		SortBy:  order.Field(r.Sort.By),
		SortDir: order.Direction(r.Sort.Dir),
	}
	if r.Page.Limit != nil {
		p.Limit = *r.Page.Limit
	}
	if r.Page.Cursor != nil {
		p.Cursor = *r.Page.Cursor
	}
	if r.Vector != nil {
		p.Vector = &request.Vector{Dim: r.Vector.Dim, Values: r.Vector.Values}
	}
	if r.SimilarityK != nil {
		p.SimilarityK = *r.SimilarityK
	}
	return p, nil
}

func (f *FiltersDTO) toDomain() (filter.Filters, error) {
	out := filter.Filters{
		CameraMakes:  f.CameraMake,
		Extensions:   f.Extension,
		Orientations: f.Orientation,
		HasFaces:     f.HasFaces,
		Tags:         f.Tags,
		People:       f.People,
	}
	if f.FilesizeRange != nil {
		out.Filesize = filter.FilesizeRange(*f.FilesizeRange)
	}
	if f.Date != nil {
		var dr filter.DateRange
		if f.Date.From != nil {
			t, err := filter.ParseDate(*f.Date.From)
			if err != nil {
				return filter.Filters{}, fmt.Errorf("filters.date.from: %w", err)
			}
			dr.From = &t
		}
		if f.Date.To != nil {
			t, err := filter.ParseDate(*f.Date.To)
			if err != nil {
				return filter.Filters{}, fmt.Errorf("filters.date.to: %w", err)
			}
			dr.To = &t
		}
		out.Date = &dr
	}
	return out, nil
}

// NewSearchResponse converts a search response to its wire form.
func NewSearchResponse(resp *result.Response) SearchResponse {
	items := make([]HitDTO, len(resp.Hits.Items))
	for i := range resp.Hits.Items {
		items[i] = hitToDTO(&resp.Hits.Items[i])
	}
	return SearchResponse{
		Hits: HitsDTO{
			Total:  resp.Hits.Total,
			Items:  items,
			Cursor: resp.Hits.Cursor,
		},
		Facets: FacetsDTO{
			Date:       resp.Facets.Date,
			Tags:       resp.Facets.Tags,
			People:     resp.Facets.People,
			Duplicates: resp.Facets.Duplicates,
		},
	}
}

func hitToDTO(h *media.Hit) HitDTO {
	faces := make([]FaceDTO, len(h.Faces))
	for i, f := range h.Faces {
		faces[i] = FaceDTO{PersonID: f.PersonID}
	}

	var shot *string
	if h.ShotTS != nil {
		s := cursor.FormatTS(*h.ShotTS)
		shot = &s
	}

	return HitDTO{
		PhotoID:     h.ID,
		Path:        h.Path,
		Ext:         h.Ext,
		CameraMake:  h.CameraMake,
		Orientation: h.Orientation,
		ShotTS:      shot,
		Filesize:    h.Filesize,
		Tags:        h.Tags,
		People:      h.People,
		Faces:       faces,
		Relevance:   h.Relevance,
	}
}
