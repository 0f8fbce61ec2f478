package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/photosearch/internal/db"
)

var syncVectorsCmd = &cobra.Command{
	Use:   "sync-vectors",
	Short: "Copy media embeddings from the catalog into the Redis vector index",
	Long: `Stream every row of media_vectors from the catalog and write it as an
embedding hash under redis.key_prefix, where the FT index created by
"photosearch migrate" picks it up. Existing hashes are overwritten.`,
	RunE: runSyncVectors,
}

func init() {
	rootCmd.AddCommand(syncVectorsCmd)
	syncVectorsCmd.Flags().Int("batch", 256, "Embeddings written per round-trip")
}

func runSyncVectors(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	batch, _ := cmd.Flags().GetInt("batch")

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if a.redis == nil {
		return errors.New("sync-vectors requires redis.addrs")
	}
	src, ok := a.store.(db.VectorScanner)
	if !ok {
		return fmt.Errorf("database driver %q cannot stream embeddings", a.cfg.Database.Driver)
	}

	n, err := syncVectors(ctx, src, a.redis, batch)
	if err != nil {
		return fmt.Errorf("sync vectors after %d: %w", n, err)
	}
	a.logger.Info("Vectors synced", zap.Int("count", n), zap.String("prefix", a.redis.VectorPrefix()))
	fmt.Printf("Synced %d embeddings\n", n)
	return nil
}

// syncVectors copies embeddings in batches and returns how many were written.
func syncVectors(ctx context.Context, src db.VectorScanner, dst db.VectorWriter, batch int) (int, error) {
	if batch <= 0 {
		batch = 256
	}

	written := 0
	buf := make([]db.VectorItem, 0, batch)
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := dst.PutVectors(ctx, buf); err != nil {
			return err
		}
		written += len(buf)
		buf = buf[:0]
		return nil
	}

	err := src.ScanVectors(ctx, func(item db.VectorItem) error {
		buf = append(buf, item)
		if len(buf) < batch {
			return nil
		}
		return flush()
	})
	if err != nil {
		return written, err
	}
	return written, flush()
}
