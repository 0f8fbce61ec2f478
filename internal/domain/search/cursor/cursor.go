// Package cursor encodes keyset pagination continuation tokens.
//
// A token is the URL-safe base64 encoding of "<ISO-8601 UTC>|<id>". The
// timestamp carries a trailing "Z" and a microsecond fraction only when the
// fraction is non-zero.
package cursor

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/photosearch/internal/domain"
	"github.com/kailas-cloud/photosearch/internal/domain/media"
)

const separator = "|"

const (
	layoutSeconds = "2006-01-02T15:04:05Z"
	layoutMicros  = "2006-01-02T15:04:05.000000Z"
)

// FormatTS renders an instant as ISO-8601 UTC with a "Z" suffix.
// Sub-microsecond precision is truncated (media.NormalizeTS).
func FormatTS(t time.Time) string {
	t = media.NormalizeTS(t)
	if t.Nanosecond() == 0 {
		return t.Format(layoutSeconds)
	}
	return t.Format(layoutMicros)
}

// Encode builds the opaque token for the last item of a page.
func Encode(ts time.Time, id string) string {
	payload := FormatTS(ts) + separator + id
	return base64.URLEncoding.EncodeToString([]byte(payload))
}

// Decode parses a token into its UTC instant and id.
// Padded and unpadded encodings are both accepted.
func Decode(token string) (time.Time, string, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		raw, err = base64.RawURLEncoding.DecodeString(token)
	}
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: invalid encoding", domain.ErrMalformedCursor)
	}

	tsPart, id, ok := strings.Cut(string(raw), separator)
	if !ok {
		return time.Time{}, "", fmt.Errorf("%w: missing separator", domain.ErrMalformedCursor)
	}
	if id == "" {
		return time.Time{}, "", fmt.Errorf("%w: empty id", domain.ErrMalformedCursor)
	}

	ts, err := time.Parse(time.RFC3339Nano, tsPart)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: invalid timestamp %q", domain.ErrMalformedCursor, tsPart)
	}
	return ts.UTC(), id, nil
}

// Position is a decoded keyset position.
type Position struct {
	TS time.Time
	ID string
}

// Parse decodes an optional token. An empty token means the first page (nil position).
func Parse(token string) (*Position, error) {
	if token == "" {
		return nil, nil
	}
	ts, id, err := Decode(token)
	if err != nil {
		return nil, err
	}
	return &Position{TS: ts, ID: id}, nil
}
