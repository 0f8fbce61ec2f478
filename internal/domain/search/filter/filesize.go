package filter

// FilesizeRange is a named half-open filesize interval [lo, hi).
type FilesizeRange string

// Filesize buckets. Bounds are contiguous.
const (
	Small  FilesizeRange = "small"
	Medium FilesizeRange = "medium"
	Large  FilesizeRange = "large"
)

var filesizeBounds = map[FilesizeRange][2]int64{
	Small:  {0, 1_000_000},
	Medium: {1_000_000, 5_000_000},
	Large:  {5_000_000, 10_000_000_000},
}

// IsValid checks if the range is one of the supported buckets.
func (r FilesizeRange) IsValid() bool {
	_, ok := filesizeBounds[r]
	return ok
}

// Bounds returns the inclusive lower and exclusive upper bound.
func (r FilesizeRange) Bounds() (lo, hi int64) {
	b := filesizeBounds[r]
	return b[0], b[1]
}

// Contains reports whether size falls in [lo, hi).
func (r FilesizeRange) Contains(size int64) bool {
	lo, hi := r.Bounds()
	return r.IsValid() && size >= lo && size < hi
}

// ClassifyFilesize returns the bucket containing size.
func ClassifyFilesize(size int64) (FilesizeRange, bool) {
	for _, r := range []FilesizeRange{Small, Medium, Large} {
		if r.Contains(size) {
			return r, true
		}
	}
	return "", false
}
