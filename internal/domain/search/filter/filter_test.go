package filter

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/photosearch/internal/domain"
)

func TestClassifyFilesize_Boundaries(t *testing.T) {
	tests := []struct {
		size int64
		want FilesizeRange
	}{
		{0, Small},
		{999_999, Small},
		{1_000_000, Medium},
		{4_999_999, Medium},
		{5_000_000, Large},
		{9_999_999_999, Large},
	}
	for _, tt := range tests {
		got, ok := ClassifyFilesize(tt.size)
		if !ok {
			t.Fatalf("size %d not classified", tt.size)
		}
		if got != tt.want {
			t.Errorf("ClassifyFilesize(%d) = %s, want %s", tt.size, got, tt.want)
		}
	}

	if _, ok := ClassifyFilesize(10_000_000_000); ok {
		t.Error("expected size at the large upper bound to be unclassified")
	}
	if _, ok := ClassifyFilesize(-1); ok {
		t.Error("expected negative size to be unclassified")
	}
}

func TestFilesizeRange_ContiguousBounds(t *testing.T) {
	_, smallHi := Small.Bounds()
	mediumLo, mediumHi := Medium.Bounds()
	largeLo, _ := Large.Bounds()
	if smallHi != mediumLo || mediumHi != largeLo {
		t.Errorf("bounds not contiguous: small.hi=%d medium=[%d,%d) large.lo=%d",
			smallHi, mediumLo, mediumHi, largeLo)
	}
}

func TestDateRange_Bounds(t *testing.T) {
	from, err := ParseDate("2020-01-01")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	to, err := ParseDate("2020-12-31")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	d := DateRange{From: &from, To: &to}

	wantLo := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	wantHi := time.Date(2020, 12, 31, 23, 59, 59, 0, time.UTC)
	if !d.Lower().Equal(wantLo) {
		t.Errorf("Lower() = %v, want %v", d.Lower(), wantLo)
	}
	if !d.Upper().Equal(wantHi) {
		t.Errorf("Upper() = %v, want %v", d.Upper(), wantHi)
	}

	open := DateRange{To: &to}
	if open.Lower() != nil {
		t.Error("expected nil lower bound")
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "2020-13-01", "01/02/2020", "2020-01-01T00:00:00Z"} {
		if _, err := ParseDate(s); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("ParseDate(%q): expected ErrInvalidRequest, got %v", s, err)
		}
	}
}

func TestValidate_TooManyValues(t *testing.T) {
	tags := make([]string, 101)
	for i := range tags {
		tags[i] = "t"
	}
	f := Filters{Tags: tags}

	err := f.Validate(100)
	if !errors.Is(err, domain.ErrFilterTooLarge) {
		t.Fatalf("expected ErrFilterTooLarge, got %v", err)
	}
	var ftl *domain.FilterTooLargeError
	if !errors.As(err, &ftl) || ftl.Dimension != "tags" {
		t.Errorf("expected tags dimension, got %+v", ftl)
	}

	f.Tags = tags[:100]
	if err := f.Validate(100); err != nil {
		t.Errorf("expected 100 values to pass, got %v", err)
	}
}

func TestValidate_DefaultCap(t *testing.T) {
	people := make([]string, DefaultMaxValues+1)
	f := Filters{People: people}
	if err := f.Validate(0); !errors.Is(err, domain.ErrFilterTooLarge) {
		t.Errorf("expected default cap to apply, got %v", err)
	}
}

func TestValidate_UnknownFilesize(t *testing.T) {
	f := Filters{Filesize: "huge"}
	if err := f.Validate(0); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestActive(t *testing.T) {
	yes, no := true, false
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		f    Filters
		want []Dimension
	}{
		{"empty", Filters{}, nil},
		{"empty lists are absent", Filters{Tags: []string{}, People: []string{}}, nil},
		{"has_faces false is unconstrained", Filters{HasFaces: &no}, nil},
		{"empty date range", Filters{Date: &DateRange{}}, nil},
		{
			"all",
			Filters{
				Date:         &DateRange{From: &from},
				CameraMakes:  []string{"Apple"},
				Extensions:   []string{"jpg"},
				Orientations: []string{"portrait"},
				Filesize:     Small,
				HasFaces:     &yes,
				Tags:         []string{"beach"},
				People:       []string{"ines"},
			},
			[]Dimension{
				DimDate, DimCameraMake, DimExtension, DimOrientation,
				DimFilesize, DimHasFaces, DimTags, DimPeople,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.f.Active()
			if len(got) != len(tt.want) {
				t.Fatalf("Active() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Active()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}
