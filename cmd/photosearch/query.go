package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/photosearch/internal/domain/search/request"
	chiTransport "github.com/kailas-cloud/photosearch/internal/transport/chi"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run one search and print the JSON response",
	Long: `Run a single search against the configured catalog. The request body uses
the same JSON shape as POST /api/v1/search. Use "-f -" to read from stdin.`,
	Example: `  photosearch query -f request.json
  echo '{"filters":{"tags":["beach"]}}' | photosearch query -f -`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringP("file", "f", "-", "Request JSON file")
	queryCmd.Flags().Bool("compact", false, "Print compact JSON")
}

func runQuery(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	file, _ := cmd.Flags().GetString("file")
	compact, _ := cmd.Flags().GetBool("compact")

	body, err := readRequestBody(cmd.InOrStdin(), file)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	req, err := parseSearchRequest(body, a.limits())
	if err != nil {
		return err
	}

	resp, err := a.searcher().Search(ctx, &req)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(chiTransport.NewSearchResponse(&resp))
}

func readRequestBody(stdin io.Reader, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(stdin)
	}
	body, err := os.ReadFile(filepath.Clean(file))
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	return body, nil
}

// parseSearchRequest decodes a wire request and validates it against limits.
func parseSearchRequest(body []byte, limits request.Limits) (request.Request, error) {
	var wire chiTransport.SearchRequest
	if err := json.Unmarshal(body, &wire); err != nil {
		return request.Request{}, fmt.Errorf("decode request: %w", err)
	}
	params, err := wire.Params()
	if err != nil {
		return request.Request{}, err
	}
	return request.New(params, limits)
}
