package facet

import (
	"context"
	"time"

	domfacet "github.com/kailas-cloud/photosearch/internal/domain/search/facet"
)

// DateSource returns capture instants of an id set.
type DateSource interface {
	CaptureTimes(ctx context.Context, ids []string) ([]time.Time, error)
}

// TagCounter counts distinct records per tag.
type TagCounter interface {
	CountTags(ctx context.Context, ids []string) ([]domfacet.ValueCount, error)
}

// PeopleCounter counts distinct records per identified person.
type PeopleCounter interface {
	CountPeople(ctx context.Context, ids []string) ([]domfacet.ValueCount, error)
}

// DuplicateCounter counts exact and near duplicate groups.
type DuplicateCounter interface {
	CountDuplicateGroups(ctx context.Context, ids []string) (domfacet.DuplicateStats, error)
}

// Reader is everything the engine reads.
type Reader interface {
	DateSource
	TagCounter
	PeopleCounter
	DuplicateCounter
}

// Cache stores facet results per (kind, id set). Implementations never fail loudly.
type Cache interface {
	Get(ctx context.Context, kind domfacet.Kind, ids []string) (domfacet.Result, bool)
	Put(ctx context.Context, kind domfacet.Kind, ids []string, res domfacet.Result)
}
