package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/photosearch/internal/db"
)

// PutVectors stores embeddings as hashes under the vector prefix in a single DoMulti round-trip.
func (s *Store) PutVectors(ctx context.Context, items []db.VectorItem) error {
	if len(items) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, len(items))
	for i, item := range items {
		cmds[i] = s.b().Hset().Key(s.vectorPrefix+item.MediaID).FieldValue().
			FieldValue(db.VectorFieldMediaID, item.MediaID).
			FieldValue(db.VectorFieldEmbedding, vectorToBytes(item.Vector)).
			Build()
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("media %s: %w", items[i].MediaID, err)}
		}
	}
	return nil
}
