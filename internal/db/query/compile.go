package query

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/photosearch/internal/domain/search/filter"
)

// Compiler turns search filters and a text query into a Predicate.
type Compiler struct {
	// MaxValues caps every list dimension; <= 0 means filter.DefaultMaxValues.
	MaxValues int
}

// Compile validates f and builds the conjunction of its present dimensions.
// Values within a dimension are ORed; dimensions are ANDed.
func (c Compiler) Compile(f filter.Filters, text string) (Predicate, error) {
	if err := f.Validate(c.MaxValues); err != nil {
		return nil, err
	}

	var terms []Predicate

	if f.Date != nil && !f.Date.IsEmpty() {
		terms = append(terms, TimeRange{Field: MediaShotTS, From: f.Date.Lower(), To: f.Date.Upper()})
	}
	if len(f.CameraMakes) > 0 {
		terms = append(terms, In{Field: MediaCameraMake, Values: f.CameraMakes})
	}
	if len(f.Extensions) > 0 {
		terms = append(terms, In{Field: MediaExt, Values: lowerAll(f.Extensions), Fold: true})
	}
	if len(f.Orientations) > 0 {
		terms = append(terms, In{Field: MediaOrientation, Values: f.Orientations})
	}
	if f.Filesize != "" {
		lo, hi := f.Filesize.Bounds()
		terms = append(terms, IntRange{Field: MediaFilesize, Lo: lo, Hi: hi})
	}
	if f.HasFaces != nil && *f.HasFaces {
		terms = append(terms, Exists{Relation: Faces})
	}
	if len(f.People) > 0 {
		terms = append(terms, Exists{Relation: Faces, Where: In{Field: FacePersonID, Values: f.People}})
	}
	if len(f.Tags) > 0 {
		terms = append(terms, Exists{Relation: Tags, Where: In{Field: TagValue, Values: f.Tags}})
	}
	if p := textPredicate(text); p != nil {
		terms = append(terms, p)
	}

	return And{Terms: terms}, nil
}

// Tokenize lower-cases the query and splits it on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(cases.Lower(language.Und).String(text))
}

// textPredicate matches records whose path contains the first token or that
// carry a tag containing any token.
func textPredicate(text string) Predicate {
	toks := Tokenize(text)
	if len(toks) == 0 {
		return nil
	}
	tagTerms := make([]Predicate, len(toks))
	for i, t := range toks {
		tagTerms[i] = Contains{Field: TagValue, Pattern: t}
	}
	return Or{Terms: []Predicate{
		Contains{Field: MediaPath, Pattern: toks[0]},
		Exists{Relation: Tags, Where: Or{Terms: tagTerms}},
	}}
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
