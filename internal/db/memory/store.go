// Package memory is an in-process catalog that evaluates query predicates
// directly. It backs tests, fixtures and the SDK's embedded mode.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kailas-cloud/photosearch/internal/db"
	"github.com/kailas-cloud/photosearch/internal/db/query"
	"github.com/kailas-cloud/photosearch/internal/domain/media"
	"github.com/kailas-cloud/photosearch/internal/domain/search/facet"
	"github.com/kailas-cloud/photosearch/internal/domain/search/order"
)

// Compile-time checks.
var (
	_ db.Store          = (*Store)(nil)
	_ db.KVStore        = (*Store)(nil)
	_ db.VectorSearcher = (*Store)(nil)
	_ db.VectorScanner  = (*Store)(nil)
)

// FaceRow is one face annotation.
type FaceRow struct {
	MediaID  string
	PersonID *string
}

// TagRow is one tag association.
type TagRow struct {
	MediaID string
	Tag     string
}

type kvEntry struct {
	value   []byte
	expires time.Time
}

// Store holds the three catalog relations plus optional embeddings and a KV map.
type Store struct {
	mu      sync.RWMutex
	media   []media.Record
	faces   []FaceRow
	tags    []TagRow
	vectors map[string][]float32
	kv      map[string]kvEntry
	now     func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		vectors: make(map[string][]float32),
		kv:      make(map[string]kvEntry),
		now:     time.Now,
	}
}

// AddMedia inserts records. Capture instants are stored in UTC at
// media.TimePrecision, the resolution cursors carry.
func (s *Store) AddMedia(records ...media.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if r.ShotTS != nil {
			ts := media.NormalizeTS(*r.ShotTS)
			r.ShotTS = &ts
		}
		s.media = append(s.media, r)
	}
}

// AddFace inserts a face annotation; personID "" means unidentified.
func (s *Store) AddFace(mediaID, personID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := FaceRow{MediaID: mediaID}
	if personID != "" {
		row.PersonID = &personID
	}
	s.faces = append(s.faces, row)
}

// AddTags associates tags with a record.
func (s *Store) AddTags(mediaID string, tags ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tags {
		s.tags = append(s.tags, TagRow{MediaID: mediaID, Tag: t})
	}
}

// AddVector stores an embedding for a record.
func (s *Store) AddVector(mediaID string, v []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors[mediaID] = slices.Clone(v)
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// WaitForReady returns immediately.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// BeginSession opens a session. Each call takes the store's read lock.
func (s *Store) BeginSession(ctx context.Context) (db.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &session{s: s}, nil
}

type session struct {
	s      *Store
	closed atomic.Bool
}

func (ss *session) Close() error {
	ss.closed.Store(true)
	return nil
}

// lock checks the session and takes the read lock; callers must RUnlock.
func (ss *session) lock(ctx context.Context) error {
	if ss.closed.Load() {
		return db.ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	ss.s.mu.RLock()
	return nil
}

func (ss *session) CountMedia(ctx context.Context, p query.Predicate) (int, error) {
	if err := ss.lock(ctx); err != nil {
		return 0, err
	}
	defer ss.s.mu.RUnlock()
	n := 0
	for i := range ss.s.media {
		if ss.s.eval(p, &ss.s.media[i]) {
			n++
		}
	}
	return n, nil
}

func (ss *session) ListMedia(
	ctx context.Context, p query.Predicate, dir order.Direction, limit int,
) ([]media.Record, error) {
	if err := ss.lock(ctx); err != nil {
		return nil, err
	}
	defer ss.s.mu.RUnlock()
	var out []media.Record
	for i := range ss.s.media {
		if ss.s.eval(p, &ss.s.media[i]) {
			out = append(out, ss.s.media[i])
		}
	}
	desc := dir == order.Desc
	slices.SortFunc(out, func(a, b media.Record) int {
		c := compareKey(a.SortTS(), a.ID, b.SortTS(), b.ID)
		if desc {
			return -c
		}
		return c
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (ss *session) MediaIDs(ctx context.Context, p query.Predicate) ([]string, error) {
	if err := ss.lock(ctx); err != nil {
		return nil, err
	}
	defer ss.s.mu.RUnlock()
	ids := []string{}
	for i := range ss.s.media {
		if ss.s.eval(p, &ss.s.media[i]) {
			ids = append(ids, ss.s.media[i].ID)
		}
	}
	return ids, nil
}

func (ss *session) TagsFor(ctx context.Context, ids []string) (map[string][]string, error) {
	if err := ss.lock(ctx); err != nil {
		return nil, err
	}
	defer ss.s.mu.RUnlock()
	want := toSet(ids)
	out := make(map[string][]string)
	for _, t := range ss.s.tags {
		if _, ok := want[t.MediaID]; ok {
			out[t.MediaID] = append(out[t.MediaID], t.Tag)
		}
	}
	for id := range out {
		slices.Sort(out[id])
	}
	return out, nil
}

func (ss *session) FacesFor(ctx context.Context, ids []string) (map[string][]media.Face, error) {
	if err := ss.lock(ctx); err != nil {
		return nil, err
	}
	defer ss.s.mu.RUnlock()
	want := toSet(ids)
	out := make(map[string][]media.Face)
	for _, f := range ss.s.faces {
		if _, ok := want[f.MediaID]; ok {
			out[f.MediaID] = append(out[f.MediaID], media.Face{PersonID: f.PersonID})
		}
	}
	return out, nil
}

// CaptureTimes returns the capture instants of the given records that have one.
func (s *Store) CaptureTimes(ctx context.Context, ids []string) ([]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := toSet(ids)
	var out []time.Time
	for i := range s.media {
		r := &s.media[i]
		if _, ok := want[r.ID]; ok && r.ShotTS != nil {
			out = append(out, r.ShotTS.UTC())
		}
	}
	return out, nil
}

// CountTags counts distinct records per tag.
func (s *Store) CountTags(ctx context.Context, ids []string) ([]facet.ValueCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := toSet(ids)
	pairs := make(map[[2]string]struct{})
	for _, t := range s.tags {
		if _, ok := want[t.MediaID]; ok && t.Tag != "" {
			pairs[[2]string{t.Tag, t.MediaID}] = struct{}{}
		}
	}
	return countPairs(pairs), nil
}

// CountPeople counts distinct records per person.
func (s *Store) CountPeople(ctx context.Context, ids []string) ([]facet.ValueCount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := toSet(ids)
	pairs := make(map[[2]string]struct{})
	for _, f := range s.faces {
		if f.PersonID == nil || *f.PersonID == "" {
			continue
		}
		if _, ok := want[f.MediaID]; ok {
			pairs[[2]string{*f.PersonID, f.MediaID}] = struct{}{}
		}
	}
	return countPairs(pairs), nil
}

// CountDuplicateGroups counts content and perceptual hash groups with more than one member.
func (s *Store) CountDuplicateGroups(ctx context.Context, ids []string) (facet.DuplicateStats, error) {
	if err := ctx.Err(); err != nil {
		return facet.DuplicateStats{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := toSet(ids)
	exact := make(map[string]int)
	near := make(map[string]int)
	for i := range s.media {
		r := &s.media[i]
		if _, ok := want[r.ID]; !ok {
			continue
		}
		if r.ContentHash != "" {
			exact[r.ContentHash]++
		}
		if r.PerceptualHash != "" {
			near[r.PerceptualHash]++
		}
	}
	return facet.DuplicateStats{Exact: groupsOver1(exact), Near: groupsOver1(near)}, nil
}

func countPairs(pairs map[[2]string]struct{}) []facet.ValueCount {
	counts := make(map[string]int)
	for p := range pairs {
		counts[p[0]]++
	}
	out := make([]facet.ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, facet.ValueCount{Value: v, Count: n})
	}
	return facet.SortValueCounts(out)
}

func groupsOver1(groups map[string]int) int {
	n := 0
	for _, c := range groups {
		if c > 1 {
			n++
		}
	}
	return n
}

func toSet(ids []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func compareKey(ats time.Time, aid string, bts time.Time, bid string) int {
	if c := ats.Compare(bts); c != 0 {
		return c
	}
	return strings.Compare(aid, bid)
}
