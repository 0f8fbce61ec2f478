package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/kailas-cloud/photosearch/internal/db"
	"github.com/kailas-cloud/photosearch/internal/db/query"
)

const fixturesJSON = `{
  "media": [
    {"id": "a", "path": "/x/a.jpg", "ext": "jpg", "camera_make": "Canon",
     "shot_ts": "2021-03-04T05:06:07Z", "filesize": 10, "content_hash": "h"},
    {"id": "b", "path": "/x/b.png", "ext": "png", "filesize": 20, "content_hash": "h"}
  ],
  "faces": [{"media_id": "a", "person_id": "alice"}, {"media_id": "b", "person_id": ""}],
  "tags": [{"media_id": "b", "tag": "pets"}],
  "vectors": [{"media_id": "a", "vector": [1, 0]}]
}`

func TestLoadFixtures(t *testing.T) {
	s := New()
	if err := s.LoadFixtures(strings.NewReader(fixturesJSON)); err != nil {
		t.Fatalf("LoadFixtures: %v", err)
	}

	// b has no shot_ts and sorts as the zero instant.
	got := ids(t, s, query.And{})
	if !equal(got, []string{"b", "a"}) {
		t.Errorf("ids = %v, want [b a]", got)
	}

	ctx := context.Background()
	dups, err := s.CountDuplicateGroups(ctx, []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if dups.Exact != 1 {
		t.Errorf("exact groups = %d, want 1", dups.Exact)
	}

	people, err := s.CountPeople(ctx, []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(people) != 1 || people[0].Value != "alice" {
		t.Errorf("people = %v, want [alice]", people)
	}

	res, err := s.SearchKNN(ctx, &db.KNNQuery{IndexName: "idx", Vector: []float32{1, 0}, K: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Entries) != 1 || res.Entries[0].Key != "a" {
		t.Errorf("knn = %+v, want [a]", res.Entries)
	}
}

func TestLoadFixtures_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", "{"},
		{"unknown field", `{"albums": []}`},
		{"missing id", `{"media": [{"path": "/x"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := New().LoadFixtures(strings.NewReader(tt.doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
