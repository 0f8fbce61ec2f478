package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/photosearch/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply catalog migrations and create the vector index",
	Long: `Apply pending PostgreSQL migrations (media, face_annotations,
tag_associations, media_vectors). When neighbors.driver is redis, also
create the FT vector index over embedding hashes if it does not exist.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	applied, err := a.migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if len(applied) == 0 {
		fmt.Println("Catalog schema is up to date")
	}
	for _, v := range applied {
		fmt.Printf("Applied %s\n", v)
	}

	if a.cfg.Neighbors.Driver != "redis" {
		return nil
	}

	def, err := db.NewVectorIndex(a.cfg.Neighbors.Index, a.redis.VectorPrefix(), a.cfg.Neighbors.Dim)
	if err != nil {
		return fmt.Errorf("vector index definition: %w", err)
	}
	exists, err := a.redis.IndexExists(ctx, def.Name)
	if err != nil {
		return fmt.Errorf("probe vector index: %w", err)
	}
	if exists {
		fmt.Printf("Vector index %s already exists\n", def.Name)
		return nil
	}

	// A concurrent migrate may win the race between the probe and FT.CREATE.
	if err := a.redis.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create vector index: %w", err)
	}
	a.logger.Info("Vector index created", zap.Stringer("definition", def))
	fmt.Printf("Created vector index %s (dim %d)\n", def.Name, a.cfg.Neighbors.Dim)
	return nil
}
