package memory

import (
	"strings"
	"time"

	"github.com/kailas-cloud/photosearch/internal/db/query"
	"github.com/kailas-cloud/photosearch/internal/domain/media"
)

// row is a tuple of one relation, addressed by field descriptor.
type row interface {
	text(f query.Field) (string, bool)
	instant(f query.Field) (time.Time, bool)
	integer(f query.Field) (int64, bool)
}

type mediaRow struct{ r *media.Record }

func (m mediaRow) text(f query.Field) (string, bool) {
	switch f {
	case query.MediaID:
		return m.r.ID, true
	case query.MediaPath:
		return m.r.Path, true
	case query.MediaExt:
		return m.r.Ext, true
	case query.MediaCameraMake:
		return deref(m.r.CameraMake)
	case query.MediaOrientation:
		return deref(m.r.Orientation)
	case query.MediaContentHash:
		return m.r.ContentHash, true
	case query.MediaPerceptualHash:
		return m.r.PerceptualHash, true
	}
	return "", false
}

func (m mediaRow) instant(f query.Field) (time.Time, bool) {
	if f == query.MediaShotTS && m.r.ShotTS != nil {
		return m.r.ShotTS.UTC(), true
	}
	return time.Time{}, false
}

func (m mediaRow) integer(f query.Field) (int64, bool) {
	if f == query.MediaFilesize {
		return m.r.Filesize, true
	}
	return 0, false
}

type faceRow struct{ f *FaceRow }

func (r faceRow) text(f query.Field) (string, bool) {
	switch f {
	case query.FaceMediaID:
		return r.f.MediaID, true
	case query.FacePersonID:
		return deref(r.f.PersonID)
	}
	return "", false
}

func (faceRow) instant(query.Field) (time.Time, bool) { return time.Time{}, false }
func (faceRow) integer(query.Field) (int64, bool)     { return 0, false }

type tagRow struct{ t *TagRow }

func (r tagRow) text(f query.Field) (string, bool) {
	switch f {
	case query.TagMediaID:
		return r.t.MediaID, true
	case query.TagValue:
		return r.t.Tag, true
	}
	return "", false
}

func (tagRow) instant(query.Field) (time.Time, bool) { return time.Time{}, false }
func (tagRow) integer(query.Field) (int64, bool)     { return 0, false }

// eval reports whether a media record satisfies p. Callers hold s.mu.
func (s *Store) eval(p query.Predicate, r *media.Record) bool {
	return s.evalRow(p, mediaRow{r}, r)
}

func (s *Store) evalRow(p query.Predicate, rw row, r *media.Record) bool {
	switch n := p.(type) {
	case nil:
		return true
	case query.And:
		for _, t := range n.Terms {
			if !s.evalRow(t, rw, r) {
				return false
			}
		}
		return true
	case query.Or:
		for _, t := range n.Terms {
			if s.evalRow(t, rw, r) {
				return true
			}
		}
		return false
	case query.In:
		v, ok := rw.text(n.Field)
		if !ok {
			return false
		}
		if n.Fold {
			v = strings.ToLower(v)
		}
		for _, want := range n.Values {
			if v == want {
				return true
			}
		}
		return false
	case query.TimeRange:
		ts, ok := rw.instant(n.Field)
		if !ok {
			return false
		}
		if n.From != nil && ts.Before(*n.From) {
			return false
		}
		if n.To != nil && ts.After(*n.To) {
			return false
		}
		return true
	case query.IntRange:
		v, ok := rw.integer(n.Field)
		return ok && v >= n.Lo && v < n.Hi
	case query.Contains:
		v, ok := rw.text(n.Field)
		return ok && strings.Contains(strings.ToLower(v), strings.ToLower(n.Pattern))
	case query.Exists:
		return s.exists(n, r)
	case query.After:
		c := compareKey(r.SortTS(), r.ID, n.TS.UTC(), n.ID)
		if n.Desc {
			return c < 0
		}
		return c > 0
	}
	return false
}

func (s *Store) exists(n query.Exists, r *media.Record) bool {
	switch n.Relation.Name {
	case query.FaceRelation:
		for i := range s.faces {
			if s.faces[i].MediaID == r.ID && s.evalRow(n.Where, faceRow{&s.faces[i]}, r) {
				return true
			}
		}
	case query.TagRelation:
		for i := range s.tags {
			if s.tags[i].MediaID == r.ID && s.evalRow(n.Where, tagRow{&s.tags[i]}, r) {
				return true
			}
		}
	}
	return false
}

func deref(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}
