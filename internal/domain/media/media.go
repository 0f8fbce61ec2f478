// Package media holds the read models of the media library: records,
// face annotations and hydrated search hits.
package media

import (
	"strings"
	"time"
)

// Record is a media file row. The engine only reads records.
type Record struct {
	ID             string
	Path           string
	Ext            string
	CameraMake     *string
	Orientation    *string
	ShotTS         *time.Time // nil when the capture time is unknown
	Filesize       int64
	ContentHash    string
	PerceptualHash string
}

// TimePrecision is the resolution of capture instants: the catalog column
// (timestamptz) and cursor tokens both stop at microseconds.
const TimePrecision = time.Microsecond

// NormalizeTS converts t to UTC at TimePrecision.
func NormalizeTS(t time.Time) time.Time {
	return t.UTC().Truncate(TimePrecision)
}

// SortTS returns the capture instant used for ordering and cursors.
// Records without a capture time sort as the zero instant (0001-01-01 UTC).
func (r *Record) SortTS() time.Time {
	if r.ShotTS == nil {
		return time.Time{}
	}
	return NormalizeTS(*r.ShotTS)
}

// Face is a detected face. A nil PersonID means the face is not identified.
type Face struct {
	PersonID *string
}

// Hit is a record hydrated with its tags, distinct people and raw faces.
type Hit struct {
	Record
	Tags      []string
	People    []string
	Faces     []Face
	Relevance *float64
}

// NewHit hydrates a record. People are de-duplicated in face order and
// unidentified faces only appear in Faces.
func NewHit(r Record, tags []string, faces []Face) Hit {
	r.Ext = strings.ToLower(r.Ext)

	seen := make(map[string]struct{}, len(faces))
	people := make([]string, 0, len(faces))
	for _, f := range faces {
		if f.PersonID == nil || *f.PersonID == "" {
			continue
		}
		if _, ok := seen[*f.PersonID]; ok {
			continue
		}
		seen[*f.PersonID] = struct{}{}
		people = append(people, *f.PersonID)
	}

	if tags == nil {
		tags = []string{}
	}
	if faces == nil {
		faces = []Face{}
	}
	return Hit{Record: r, Tags: tags, People: people, Faces: faces}
}
