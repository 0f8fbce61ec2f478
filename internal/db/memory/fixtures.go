package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kailas-cloud/photosearch/internal/domain/media"
)

// Fixtures is the JSON document accepted by LoadFixtures.
type Fixtures struct {
	Media []struct {
		ID             string     `json:"id"`
		Path           string     `json:"path"`
		Ext            string     `json:"ext"`
		CameraMake     *string    `json:"camera_make"`
		Orientation    *string    `json:"orientation"`
		ShotTS         *time.Time `json:"shot_ts"`
		Filesize       int64      `json:"filesize"`
		ContentHash    string     `json:"content_hash"`
		PerceptualHash string     `json:"perceptual_hash"`
	} `json:"media"`
	Faces []struct {
		MediaID  string `json:"media_id"`
		PersonID string `json:"person_id"`
	} `json:"faces"`
	Tags []struct {
		MediaID string `json:"media_id"`
		Tag     string `json:"tag"`
	} `json:"tags"`
	Vectors []struct {
		MediaID string    `json:"media_id"`
		Vector  []float32 `json:"vector"`
	} `json:"vectors"`
}

// LoadFixtures decodes a fixtures document and appends its rows to the store.
func (s *Store) LoadFixtures(r io.Reader) error {
	var fx Fixtures
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fx); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	for i, m := range fx.Media {
		if m.ID == "" {
			return fmt.Errorf("media[%d]: id is required", i)
		}
		s.AddMedia(media.Record{
			ID:             m.ID,
			Path:           m.Path,
			Ext:            m.Ext,
			CameraMake:     m.CameraMake,
			Orientation:    m.Orientation,
			ShotTS:         m.ShotTS,
			Filesize:       m.Filesize,
			ContentHash:    m.ContentHash,
			PerceptualHash: m.PerceptualHash,
		})
	}
	for _, f := range fx.Faces {
		s.AddFace(f.MediaID, f.PersonID)
	}
	for _, t := range fx.Tags {
		s.AddTags(t.MediaID, t.Tag)
	}
	for _, v := range fx.Vectors {
		s.AddVector(v.MediaID, v.Vector)
	}
	return nil
}

// LoadFixturesFile reads fixtures from a JSON file.
func (s *Store) LoadFixturesFile(path string) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("open fixtures: %w", err)
	}
	defer func() { _ = f.Close() }()
	return s.LoadFixtures(f)
}
