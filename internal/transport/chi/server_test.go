package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/photosearch/internal/db/memory"
	"github.com/kailas-cloud/photosearch/internal/db/query"
	"github.com/kailas-cloud/photosearch/internal/domain/media"
	"github.com/kailas-cloud/photosearch/internal/domain/search/request"
	"github.com/kailas-cloud/photosearch/internal/domain/search/result"
	searchrepo "github.com/kailas-cloud/photosearch/internal/repository/search"
	facetuc "github.com/kailas-cloud/photosearch/internal/usecase/facet"
	healthuc "github.com/kailas-cloud/photosearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/photosearch/internal/usecase/search"
)

// --- Mocks ---

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type failingSearcher struct{ err error }

func (f *failingSearcher) Search(_ context.Context, _ *request.Request) (result.Response, error) {
	return result.Response{}, f.err
}

// --- Helpers ---

func shot(s string) *time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	st := memory.New()
	make1 := "Canon"
	st.AddMedia(
		media.Record{ID: "p1", Path: "/a.jpg", Ext: "JPG", ShotTS: shot("2020-06-01T08:30:00Z"), Filesize: 10, CameraMake: &make1},
		media.Record{ID: "p2", Path: "/b.jpg", Ext: "jpg", ShotTS: shot("2020-06-02T08:30:00.25Z"), Filesize: 10},
		media.Record{ID: "p3", Path: "/c.jpg", Ext: "jpg", ShotTS: shot("2020-07-01T08:30:00Z"), Filesize: 10},
		media.Record{ID: "p4", Path: "/undated.png", Ext: "png", Filesize: 10},
	)
	st.AddFace("p1", "ines")
	st.AddFace("p1", "")
	st.AddTags("p1", "beach")

	engine := facetuc.New(st, nil, facetuc.Metrics{}, zap.NewNop())
	repo := searchrepo.New(query.Compiler{MaxValues: 3})
	svc := searchuc.New(st, repo, engine, nil, searchuc.NeighborLimits{}, zap.NewNop())
	server := NewServer(svc, healthuc.New(st, nil), request.Limits{}, zap.NewNop())
	return NewRouter(server, nil, zap.NewNop())
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/search", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

// --- Tests ---

func TestSearch_PagesThroughScenario(t *testing.T) {
	h := newTestRouter(t)

	rr := post(t, h, `{"filters":{"extension":["jpg"]},"page":{"limit":2}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	page1 := decode[SearchResponse](t, rr)
	if page1.Hits.Total != 3 || len(page1.Hits.Items) != 2 || page1.Hits.Cursor == nil {
		t.Fatalf("page 1 = %+v", page1.Hits)
	}
	if page1.Hits.Items[0].PhotoID != "p3" || page1.Hits.Items[1].PhotoID != "p2" {
		t.Errorf("page 1 order = %s, %s", page1.Hits.Items[0].PhotoID, page1.Hits.Items[1].PhotoID)
	}
	if got := *page1.Hits.Items[1].ShotTS; got != "2020-06-02T08:30:00.250000Z" {
		t.Errorf("shot_ts = %q", got)
	}
	if y := page1.Facets.Date.Years; len(y) != 1 || y[0].Count != 3 {
		t.Errorf("date facet = %+v", page1.Facets.Date)
	}

	rr = post(t, h, `{"filters":{"extension":["JPG"]},"page":{"limit":2,"cursor":"`+*page1.Hits.Cursor+`"}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	page2 := decode[SearchResponse](t, rr)
	if len(page2.Hits.Items) != 1 || page2.Hits.Items[0].PhotoID != "p1" || page2.Hits.Cursor != nil {
		t.Errorf("page 2 = %+v", page2.Hits)
	}

	hit := page2.Hits.Items[0]
	if hit.Ext != "jpg" || hit.CameraMake == nil || *hit.CameraMake != "Canon" {
		t.Errorf("hit = %+v", hit)
	}
	if len(hit.People) != 1 || len(hit.Faces) != 2 || hit.Faces[1].PersonID != nil {
		t.Errorf("people=%v faces=%+v", hit.People, hit.Faces)
	}
}

func TestSearch_WireShape(t *testing.T) {
	h := newTestRouter(t)

	rr := post(t, h, `{"filters":{"tags":["nothing"]}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		`"total":0`, `"items":[]`, `"cursor":null`,
		`"date":{"years":[]}`, `"tags":[]`, `"people":[]`, `"duplicates":{"exact":0,"near":0}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("response missing %s: %s", want, body)
		}
	}
}

func TestSearch_UndatedHitOmitsShotTS(t *testing.T) {
	h := newTestRouter(t)

	rr := post(t, h, `{"filters":{"extension":["png"]}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), `"shot_ts"`) {
		t.Errorf("expected shot_ts to be omitted: %s", rr.Body.String())
	}
}

func TestSearch_Errors(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"malformed cursor", `{"page":{"cursor":"@@@"}}`, http.StatusBadRequest, CodeInvalidCursor},
		{"cursor without separator", `{"page":{"cursor":"bm9zZXBhcmF0b3I="}}`, http.StatusBadRequest, CodeInvalidCursor},
		{"filter too large", `{"filters":{"people":["a","b","c","d"]}}`, http.StatusBadRequest, CodeFilterTooLarge},
		{"bad json", `{"filters":`, http.StatusUnprocessableEntity, CodeValidationFailed},
		{"unknown field", `{"limit":5}`, http.StatusUnprocessableEntity, CodeValidationFailed},
		{"bad sort", `{"sort":{"by":"size"}}`, http.StatusUnprocessableEntity, CodeValidationFailed},
		{"bad date", `{"filters":{"date":{"from":"June"}}}`, http.StatusUnprocessableEntity, CodeValidationFailed},
		{"bad filesize", `{"filters":{"filesize_range":"huge"}}`, http.StatusUnprocessableEntity, CodeValidationFailed},
		{"negative limit", `{"page":{"limit":-1}}`, http.StatusUnprocessableEntity, CodeValidationFailed},
		{"vector dim mismatch", `{"vector":{"dim":3,"values":[1,2]}}`, http.StatusUnprocessableEntity, CodeValidationFailed},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := post(t, h, tc.body)
			if rr.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tc.wantCode, rr.Body.String())
			}
			errResp := decode[ErrorResponse](t, rr)
			if errResp.Code != tc.wantErr {
				t.Errorf("code = %q, want %q", errResp.Code, tc.wantErr)
			}
			if strings.Contains(errResp.Message, "plan search") {
				t.Errorf("message leaks internal wrapping: %q", errResp.Message)
			}
		})
	}
}

func TestSearch_InternalErrorIsOpaque(t *testing.T) {
	server := NewServer(
		&failingSearcher{err: errors.New("pq: connection reset by peer")},
		healthuc.New(&mockPinger{}, nil), request.Limits{}, zap.NewNop(),
	)
	h := NewRouter(server, nil, zap.NewNop())

	rr := post(t, h, `{}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	errResp := decode[ErrorResponse](t, rr)
	if errResp.Code != CodeInternalError || errResp.Message != "internal error" {
		t.Errorf("unexpected error body: %+v", errResp)
	}
}

func TestHealthz(t *testing.T) {
	tests := []struct {
		name       string
		db, cache  error
		wantCode   int
		wantStatus string
	}{
		{"healthy", nil, nil, http.StatusOK, "ok"},
		{"cache down", nil, errors.New("down"), http.StatusOK, "degraded"},
		{"database down", errors.New("down"), nil, http.StatusServiceUnavailable, "error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := NewServer(nil, healthuc.New(&mockPinger{err: tc.db}, &mockPinger{err: tc.cache}),
				request.Limits{}, zap.NewNop())
			h := NewRouter(server, []string{"secret"}, zap.NewNop())

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest("GET", "/healthz", http.NoBody))

			if rr.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantCode)
			}
			resp := decode[HealthResponse](t, rr)
			if resp.Status != tc.wantStatus || resp.Checks["database"] == "" || resp.Checks["cache"] == "" {
				t.Errorf("unexpected body: %+v", resp)
			}
		})
	}
}

func TestRouter_RequestIDAndNotFound(t *testing.T) {
	h := newTestRouter(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/nope", http.NoBody))
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := JSONRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if errResp := decode[ErrorResponse](t, rr); errResp.Code != CodeInternalError {
		t.Errorf("code = %q", errResp.Code)
	}
}
