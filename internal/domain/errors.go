package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedCursor signals a pagination cursor that cannot be decoded.
	ErrMalformedCursor = errors.New("malformed cursor")
	// ErrFilterTooLarge signals a multi-value filter over its cardinality cap.
	ErrFilterTooLarge = errors.New("filter too large")
	// ErrFacetComputationFailed signals a single facet failure (never surfaced to clients).
	ErrFacetComputationFailed = errors.New("facet computation failed")
	// ErrInvalidRequest signals a request that fails shape validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNeighborLookup signals a failure of the vector neighbor backend.
	ErrNeighborLookup = errors.New("neighbor lookup failed")
)

// FilterTooLargeError wraps ErrFilterTooLarge with the offending dimension.
type FilterTooLargeError struct {
	Dimension string
	Size      int
	Max       int
}

func (e *FilterTooLargeError) Error() string {
	return fmt.Sprintf("%s: %s has %d values (max %d)", ErrFilterTooLarge.Error(), e.Dimension, e.Size, e.Max)
}

func (e *FilterTooLargeError) Unwrap() error { return ErrFilterTooLarge }

// NewFilterTooLarge creates a filter cardinality error.
func NewFilterTooLarge(dimension string, size, maxValues int) error {
	return &FilterTooLargeError{Dimension: dimension, Size: size, Max: maxValues}
}

// FacetError wraps ErrFacetComputationFailed with the facet name.
type FacetError struct {
	Facet string
	Err   error
}

func (e *FacetError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrFacetComputationFailed.Error(), e.Facet, e.Err)
}

// Is matches ErrFacetComputationFailed.
func (e *FacetError) Is(target error) bool { return target == ErrFacetComputationFailed }

func (e *FacetError) Unwrap() error { return e.Err }
