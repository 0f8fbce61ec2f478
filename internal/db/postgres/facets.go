package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/kailas-cloud/photosearch/internal/db"
	"github.com/kailas-cloud/photosearch/internal/domain/search/facet"
)

// The facet readers below query the pool, not the request's read-only
// session: the four facets run concurrently and a session owns one
// connection. Under concurrent writes their counts may therefore come from a
// later snapshot than the page total.

// CaptureTimes returns the non-null capture instants of the given records.
func (s *Store) CaptureTimes(ctx context.Context, ids []string) ([]time.Time, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT shot_ts FROM media WHERE id = ANY($1) AND shot_ts IS NOT NULL`, pq.Array(ids))
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		out = append(out, t.UTC())
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}

// CountTags counts distinct records per tag.
func (s *Store) CountTags(ctx context.Context, ids []string) ([]facet.ValueCount, error) {
	return s.valueCounts(ctx, `
		SELECT tag, COUNT(DISTINCT media_id)
		FROM tag_associations
		WHERE media_id = ANY($1) AND tag <> ''
		GROUP BY tag
		ORDER BY 2 DESC, 1`, ids)
}

// CountPeople counts distinct records per identified person. Several faces
// of one person on one record count once.
func (s *Store) CountPeople(ctx context.Context, ids []string) ([]facet.ValueCount, error) {
	return s.valueCounts(ctx, `
		SELECT person_id, COUNT(DISTINCT media_id)
		FROM face_annotations
		WHERE media_id = ANY($1) AND person_id IS NOT NULL AND person_id <> ''
		GROUP BY person_id
		ORDER BY 2 DESC, 1`, ids)
}

func (s *Store) valueCounts(ctx context.Context, stmt string, ids []string) ([]facet.ValueCount, error) {
	if len(ids) == 0 {
		return []facet.ValueCount{}, nil
	}
	rows, err := s.db.QueryContext(ctx, stmt, pq.Array(ids))
	if err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}
	defer rows.Close()

	out := []facet.ValueCount{}
	for rows.Next() {
		var vc facet.ValueCount
		if err := rows.Scan(&vc.Value, &vc.Count); err != nil {
			return nil, &db.Error{Op: db.OpAggregate, Err: err}
		}
		out = append(out, vc)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpAggregate, Err: err}
	}
	return facet.SortValueCounts(out), nil
}

// CountDuplicateGroups counts content-hash and perceptual-hash groups with
// more than one member. Records without a hash belong to no group.
func (s *Store) CountDuplicateGroups(ctx context.Context, ids []string) (facet.DuplicateStats, error) {
	var st facet.DuplicateStats
	if len(ids) == 0 {
		return st, nil
	}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM (
				SELECT sha256 FROM media
				WHERE id = ANY($1) AND sha256 IS NOT NULL AND sha256 <> ''
				GROUP BY sha256 HAVING COUNT(*) > 1) e),
			(SELECT COUNT(*) FROM (
				SELECT phash FROM media
				WHERE id = ANY($1) AND phash IS NOT NULL AND phash <> ''
				GROUP BY phash HAVING COUNT(*) > 1) n)`,
		pq.Array(ids)).Scan(&st.Exact, &st.Near)
	if err != nil {
		return facet.DuplicateStats{}, &db.Error{Op: db.OpAggregate, Err: err}
	}
	return st, nil
}
