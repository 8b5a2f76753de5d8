package catalogue

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fragrancefinder/backend/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// Catalogue column names
const (
	ColumnBrand       = "brand"
	ColumnPerfume     = "perfume"
	ColumnNotes       = "notes"
	ColumnMainAccords = "main_accords"
	ColumnImage       = "image"
)

// RequiredColumns must be present in every catalogue source
var RequiredColumns = []string{ColumnBrand, ColumnPerfume, ColumnNotes, ColumnMainAccords}

// missingMarkers are cell values that mean "no data" in exported tables
var missingMarkers = map[string]bool{
	"":     true,
	"nan":  true,
	"NaN":  true,
	"null": true,
	"NULL": true,
}

// columnIndex maps a column name to its position in a row
type columnIndex map[string]int

// MapToPerfume converts one catalogue row into a domain Perfume.
// Absent cells are coerced to the empty string.
func MapToPerfume(index int, row []string, cols columnIndex) domain.Perfume {
	return domain.Perfume{
		Index:       index,
		Brand:       cell(row, cols, ColumnBrand),
		Name:        cell(row, cols, ColumnPerfume),
		Notes:       cell(row, cols, ColumnNotes),
		MainAccords: cell(row, cols, ColumnMainAccords),
		Image:       cell(row, cols, ColumnImage),
	}
}

func cell(row []string, cols columnIndex, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return coerce(row[i])
}

func coerce(s string) string {
	s = strings.TrimSpace(s)
	if missingMarkers[s] {
		return ""
	}
	return s
}

// SplitAccords splits a comma separated accord list, dropping empty entries
func SplitAccords(s string) []string {
	parts := strings.Split(s, ",")
	accords := make([]string, 0, len(parts))
	for _, p := range parts {
		p = coerce(p)
		if p != "" {
			accords = append(accords, p)
		}
	}
	return accords
}

// NormalizeAccord puts an accord in canonical form: NFC, lower case and
// single spaces. Selections and the option list both go through it.
func NormalizeAccord(s string) string {
	s = norm.NFC.String(s)
	// A Caser is stateful, so one is created per call
	s = cases.Lower(language.Und).String(s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// UniqueAccords returns every distinct normalized accord of the catalogue, sorted
func UniqueAccords(perfumes []domain.Perfume) []string {
	seen := make(map[string]bool)
	for _, p := range perfumes {
		for _, a := range SplitAccords(p.MainAccords) {
			if a = NormalizeAccord(a); a != "" {
				seen[a] = true
			}
		}
	}

	accords := make([]string, 0, len(seen))
	for a := range seen {
		accords = append(accords, a)
	}
	sort.Strings(accords)
	return accords
}
