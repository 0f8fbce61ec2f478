package db

import (
	"errors"
	"testing"
)

func TestNewVectorIndex(t *testing.T) {
	def, err := NewVectorIndex("media:vectors", "media:vec:", 512)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(def.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(def.Fields))
	}
	if def.Fields[0].Name != VectorFieldMediaID || !def.Fields[0].TagCaseSensitive {
		t.Errorf("unexpected tag field: %+v", def.Fields[0])
	}
	if def.Fields[1].VectorDim != 512 || def.Fields[1].VectorDistance != DistanceCosine {
		t.Errorf("unexpected vector field: %+v", def.Fields[1])
	}
	want := "FT.CREATE media:vectors ON HASH PREFIX media:vec: SCHEMA media_id TAG embedding VECTOR HNSW"
	if got := def.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestNewVectorIndex_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		index string
		dim   int
	}{
		{"empty name", "", 8},
		{"bad name", "media vectors", 8},
		{"zero dim", "media:vectors", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewVectorIndex(tt.index, "p:", tt.dim); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestIndexDefinition_DuplicateFields(t *testing.T) {
	def := IndexDefinition{
		Name:   "idx",
		Fields: []IndexField{{Name: "a"}, {Name: "a"}},
	}
	if err := def.Validate(); err == nil {
		t.Error("expected duplicate field error")
	}
}

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"abc", "media:vectors", "a-b_c:1"}
	for _, s := range valid {
		if !IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = false", s)
		}
	}
	invalid := []string{"", "a b", "a.b", "ü"}
	for _, s := range invalid {
		if IsValidIdentifier(s) {
			t.Errorf("IsValidIdentifier(%q) = true", s)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &Error{Op: OpSelect, Err: inner}
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to match inner error")
	}
	if err.Error() != "SELECT: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}
