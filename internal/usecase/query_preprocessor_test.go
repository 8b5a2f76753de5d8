package usecase

import (
	"errors"
	"reflect"
	"testing"

	"github.com/fragrancefinder/backend/internal/domain"
)

func TestNewQueryPreprocessor(t *testing.T) {
	t.Run("uses provided limit", func(t *testing.T) {
		p := NewQueryPreprocessor(5, false)
		if p.MaxAccords() != 5 {
			t.Errorf("MaxAccords() = %d, want 5", p.MaxAccords())
		}
	})

	t.Run("uses default limit when zero", func(t *testing.T) {
		p := NewQueryPreprocessor(0, true)
		if p.MaxAccords() != 3 {
			t.Errorf("MaxAccords() = %d, want 3 (default)", p.MaxAccords())
		}
		if !p.enableDebugLogging {
			t.Error("expected debug logging to be enabled")
		}
	})
}

func TestPreprocessAccords(t *testing.T) {
	p := NewQueryPreprocessor(3, false)

	testCases := []struct {
		name     string
		selected []string
		want     []string
		wantErr  error
	}{
		{
			name:     "lower cases and trims",
			selected: []string{" Floral ", "WOODY"},
			want:     []string{"floral", "woody"},
		},
		{
			name:     "keeps selection order",
			selected: []string{"woody", "citrus", "floral"},
			want:     []string{"woody", "citrus", "floral"},
		},
		{
			name:     "drops duplicates and blanks",
			selected: []string{"floral", "Floral", "", "   "},
			want:     []string{"floral"},
		},
		{
			name:     "splits comma separated entries",
			selected: []string{"floral, woody"},
			want:     []string{"floral", "woody"},
		},
		{
			name:     "collapses inner whitespace",
			selected: []string{"white   floral"},
			want:     []string{"white floral"},
		},
		{
			name:     "normalizes composed characters",
			selected: []string{"Fe\u0300ve"},
			want:     []string{"f\u00e8ve"},
		},
		{
			name:     "empty selection",
			selected: nil,
			want:     []string{},
		},
		{
			name:     "duplicates do not count towards the limit",
			selected: []string{"floral", "woody", "citrus", "FLORAL"},
			want:     []string{"floral", "woody", "citrus"},
		},
		{
			name:     "rejects more than three",
			selected: []string{"floral", "woody", "citrus", "musky"},
			wantErr:  domain.ErrTooManyAccords,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.PreprocessAccords(tc.selected)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("PreprocessAccords() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("PreprocessAccords() unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("PreprocessAccords() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPreprocessName(t *testing.T) {
	p := NewQueryPreprocessor(3, false)

	testCases := []struct {
		input string
		want  string
	}{
		{"  Sauvage ", "Sauvage"},
		{"No 5", "No 5"},
		{"Eau de Ce\u0300dre", "Eau de C\u00e8dre"},
		{"   ", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if got := p.PreprocessName(tc.input); got != tc.want {
				t.Errorf("PreprocessName(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestCacheKeys(t *testing.T) {
	if a, b := accordCacheKey([]string{"woody", "floral"}), accordCacheKey([]string{"floral", "woody"}); a != b {
		t.Errorf("accordCacheKey should ignore order: %q != %q", a, b)
	}
	if got := accordCacheKey([]string{"woody", "floral"}); got != "accords:floral|woody" {
		t.Errorf("accordCacheKey() = %q, want accords:floral|woody", got)
	}
	if got := similarCacheKey("No 5"); got != "similar:No 5" {
		t.Errorf("similarCacheKey() = %q, want similar:No 5", got)
	}
}

func TestAccordDocument(t *testing.T) {
	if got := AccordDocument([]string{"floral", "woody"}); got != "floral, woody" {
		t.Errorf("AccordDocument() = %q, want %q", got, "floral, woody")
	}
}
