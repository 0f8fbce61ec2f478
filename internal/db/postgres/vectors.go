package postgres

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/kailas-cloud/photosearch/internal/db"
)

// SearchKNN ranks media_vectors by cosine distance; Score is 1 - distance, floored at 0.
// IndexName is ignored: embeddings live in one table.
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if len(q.Vector) == 0 {
		return nil, errors.New("vector is required")
	}
	if q.K <= 0 {
		return nil, errors.New("k must be positive")
	}
	if q.Scope != nil && len(q.Scope) == 0 {
		return &db.SearchResult{}, nil
	}

	vec := pgvector.NewVector(q.Vector)
	stmt := `SELECT media_id, embedding <=> $1::vector AS distance FROM media_vectors`
	args := []any{vec, q.K}
	if q.Scope != nil {
		stmt += ` WHERE media_id = ANY($3)`
		args = append(args, pq.Array(q.Scope))
	}
	stmt += ` ORDER BY distance, media_id COLLATE "C" LIMIT $2`

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpKNN, Err: err}
	}
	defer rows.Close()

	res := &db.SearchResult{}
	for rows.Next() {
		var (
			id       string
			distance float64
		)
		if err := rows.Scan(&id, &distance); err != nil {
			return nil, &db.Error{Op: db.OpKNN, Err: err}
		}
		res.Entries = append(res.Entries, db.SearchEntry{Key: id, Score: max(0, 1-distance)})
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpKNN, Err: err}
	}
	res.Total = len(res.Entries)
	return res, nil
}

// ScanVectors streams every stored embedding in media id order.
func (s *Store) ScanVectors(ctx context.Context, fn func(db.VectorItem) error) error {
	rows, err := s.db.QueryContext(ctx, `SELECT media_id, embedding FROM media_vectors ORDER BY media_id`)
	if err != nil {
		return &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  string
			vec pgvector.Vector
		)
		if err := rows.Scan(&id, &vec); err != nil {
			return &db.Error{Op: db.OpSelect, Err: err}
		}
		if err := fn(db.VectorItem{MediaID: id, Vector: vec.Slice()}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return &db.Error{Op: db.OpSelect, Err: err}
	}
	return nil
}
