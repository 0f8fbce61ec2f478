package filter

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/photosearch/internal/domain"
)

// DefaultMaxValues is the default cardinality cap for multi-value dimensions.
const DefaultMaxValues = 100

// DateLayout is the wire layout of date bounds.
const DateLayout = "2006-01-02"

// Dimension names a filter dimension.
type Dimension string

// Filter dimensions.
const (
	DimDate        Dimension = "date"
	DimCameraMake  Dimension = "camera_make"
	DimExtension   Dimension = "extension"
	DimOrientation Dimension = "orientation"
	DimFilesize    Dimension = "filesize_range"
	DimHasFaces    Dimension = "has_faces"
	DimTags        Dimension = "tags"
	DimPeople      Dimension = "people"
)

// DateRange bounds the capture date at day granularity (UTC). Either side may be nil.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// ParseDate parses a YYYY-MM-DD date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q (want YYYY-MM-DD)", domain.ErrInvalidRequest, s)
	}
	return t, nil
}

// Lower returns the inclusive lower instant: From at 00:00:00 UTC.
func (d DateRange) Lower() *time.Time {
	if d.From == nil {
		return nil
	}
	y, m, day := d.From.Date()
	t := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return &t
}

// Upper returns the inclusive upper instant: To at 23:59:59 UTC.
func (d DateRange) Upper() *time.Time {
	if d.To == nil {
		return nil
	}
	y, m, day := d.To.Date()
	t := time.Date(y, m, day, 23, 59, 59, 0, time.UTC)
	return &t
}

// IsEmpty reports whether neither bound is set.
func (d DateRange) IsEmpty() bool { return d.From == nil && d.To == nil }

// Filters is the conjunction of optional filter dimensions.
// A nil or empty dimension is unconstrained; values within a dimension are ORed.
type Filters struct {
	Date         *DateRange
	CameraMakes  []string
	Extensions   []string
	Orientations []string
	Filesize     FilesizeRange
	HasFaces     *bool
	Tags         []string
	People       []string
}

// Validate checks the filesize enum and the cardinality of list dimensions.
// maxValues <= 0 means DefaultMaxValues.
func (f *Filters) Validate(maxValues int) error {
	if maxValues <= 0 {
		maxValues = DefaultMaxValues
	}
	lists := []struct {
		dim    Dimension
		values []string
	}{
		{DimCameraMake, f.CameraMakes},
		{DimExtension, f.Extensions},
		{DimOrientation, f.Orientations},
		{DimTags, f.Tags},
		{DimPeople, f.People},
	}
	for _, l := range lists {
		if len(l.values) > maxValues {
			return domain.NewFilterTooLarge(string(l.dim), len(l.values), maxValues)
		}
	}
	if f.Filesize != "" && !f.Filesize.IsValid() {
		return fmt.Errorf("%w: unknown filesize_range %q", domain.ErrInvalidRequest, f.Filesize)
	}
	return nil
}

// Active lists the dimensions that constrain the result, in declaration order.
func (f *Filters) Active() []Dimension {
	var dims []Dimension
	if f.Date != nil && !f.Date.IsEmpty() {
		dims = append(dims, DimDate)
	}
	if len(f.CameraMakes) > 0 {
		dims = append(dims, DimCameraMake)
	}
	if len(f.Extensions) > 0 {
		dims = append(dims, DimExtension)
	}
	if len(f.Orientations) > 0 {
		dims = append(dims, DimOrientation)
	}
	if f.Filesize != "" {
		dims = append(dims, DimFilesize)
	}
	if f.HasFaces != nil && *f.HasFaces {
		dims = append(dims, DimHasFaces)
	}
	if len(f.Tags) > 0 {
		dims = append(dims, DimTags)
	}
	if len(f.People) > 0 {
		dims = append(dims, DimPeople)
	}
	return dims
}
