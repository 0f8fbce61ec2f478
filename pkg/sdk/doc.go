// Package photosearch provides an in-process Go client for the photosearch
// engine: filtered, keyset-paginated media search with date, tag, people and
// duplicate facets.
//
// The client wires the same stack as the photosearch server. The catalog is
// PostgreSQL, or an embedded in-memory store loaded from a JSON fixtures
// document. Redis is optional and serves the facet cache and the vector
// neighbor index.
//
// # Catalog-backed client
//
//	client, _ := photosearch.New(ctx,
//	    photosearch.WithPostgres("postgres://localhost/photos?sslmode=disable"),
//	    photosearch.WithRedis("localhost:6379", ""),
//	    photosearch.WithFacetCache(5*time.Minute),
//	)
//	defer client.Close()
//
//	resp, _ := client.Search(ctx, photosearch.Request{
//	    Filters: photosearch.Filters{Tags: []string{"beach"}},
//	    Limit:   50,
//	})
//	for resp.Cursor != "" {
//	    resp, _ = client.Search(ctx, photosearch.Request{Cursor: resp.Cursor})
//	}
//
// # Embedded client
//
//	f, _ := os.Open("fixtures.json")
//	client, _ := photosearch.New(ctx, photosearch.WithEmbedded(f))
package photosearch
