package photosearch

import (
	"time"

	"github.com/kailas-cloud/photosearch/internal/domain/search/facet"
)

// SortField selects the ordering key.
type SortField string

// Sort fields. Relevance currently orders like ShotTS descending.
const (
	SortShotTS    SortField = "shot_ts"
	SortRelevance SortField = "relevance"
)

// SortDirection is ascending or descending.
type SortDirection string

// Sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// FilesizeRange is a named half-open size bucket.
type FilesizeRange string

// Filesize buckets: small [0, 1MB), medium [1MB, 5MB), large [5MB, 10GB).
const (
	FilesizeSmall  FilesizeRange = "small"
	FilesizeMedium FilesizeRange = "medium"
	FilesizeLarge  FilesizeRange = "large"
)

// Filters constrains a search. Zero-valued fields are unconstrained.
// Values within a list are ORed, fields are ANDed.
type Filters struct {
	// DateFrom and DateTo bound the capture day (UTC), both inclusive.
	// Only the calendar date of each bound is used.
	DateFrom *time.Time
	DateTo   *time.Time

	CameraMakes  []string
	Extensions   []string // case-insensitive
	Orientations []string
	Filesize     FilesizeRange
	// HasFaces true keeps only media with at least one face; false is unconstrained.
	HasFaces *bool
	Tags     []string
	People   []string
}

// Request is one search call. Zero values pick the defaults:
// shot_ts descending, the configured page size, first page.
type Request struct {
	Query   string
	Filters Filters
	SortBy  SortField
	SortDir SortDirection
	Limit   int
	// Cursor continues from a previous Response.Cursor.
	Cursor string
	// Vector restricts results to its nearest neighbors when a neighbor
	// backend is configured; ignored otherwise.
	Vector      []float32
	SimilarityK int
}

// Face is a detected face. PersonID is nil for unidentified faces.
type Face struct {
	PersonID *string
}

// Hit is one media record with its tags and people.
type Hit struct {
	ID          string
	Path        string
	Ext         string // lower-cased
	CameraMake  *string
	Orientation *string
	ShotTS      *time.Time
	Filesize    int64
	Tags        []string
	People      []string // distinct identified people, in face order
	Faces       []Face
	// Relevance is the neighbor similarity, set only for vector searches.
	Relevance *float64
}

// Facet payloads, shared with the wire format.
type (
	DateHierarchy  = facet.DateHierarchy
	YearCount      = facet.YearNode
	MonthCount     = facet.MonthNode
	DayCount       = facet.DayNode
	ValueCount     = facet.ValueCount
	DuplicateStats = facet.DuplicateStats
)

// Facets summarize the whole filtered set, not only the returned page.
type Facets struct {
	Date       DateHierarchy
	Tags       []ValueCount
	People     []ValueCount
	Duplicates DuplicateStats
}

// Response is one page of hits plus facets.
type Response struct {
	// Total counts every match, across all pages.
	Total int
	Hits  []Hit
	// Cursor fetches the next page; empty on the last page.
	Cursor string
	Facets Facets
}

// HasMore reports whether another page follows.
func (r *Response) HasMore() bool { return r.Cursor != "" }
