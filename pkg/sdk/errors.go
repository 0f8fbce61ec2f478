package photosearch

import (
	"errors"

	"github.com/kailas-cloud/photosearch/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrMalformedCursor = domain.ErrMalformedCursor
	ErrFilterTooLarge  = domain.ErrFilterTooLarge
	ErrInvalidRequest  = domain.ErrInvalidRequest
	ErrNeighborLookup  = domain.ErrNeighborLookup
)

// FilterTooLargeError names the dimension over its cap. Use errors.As.
type FilterTooLargeError = domain.FilterTooLargeError

// IsRequestError reports whether err was caused by the request itself
// rather than by a backend. Such errors are never worth retrying.
func IsRequestError(err error) bool {
	return errors.Is(err, ErrMalformedCursor) ||
		errors.Is(err, ErrFilterTooLarge) ||
		errors.Is(err, ErrInvalidRequest)
}
