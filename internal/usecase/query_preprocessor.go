package usecase

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/fragrancefinder/backend/internal/domain"
	"github.com/fragrancefinder/backend/internal/infrastructure/catalogue"
	"golang.org/x/text/unicode/norm"
)

// QueryPreprocessor normalizes and validates user queries before ranking
type QueryPreprocessor struct {
	maxAccords         int
	enableDebugLogging bool
}

// NewQueryPreprocessor creates a new query preprocessor. maxAccords <= 0 means 3.
func NewQueryPreprocessor(maxAccords int, enableDebugLogging bool) *QueryPreprocessor {
	if maxAccords <= 0 {
		maxAccords = 3
	}
	return &QueryPreprocessor{
		maxAccords:         maxAccords,
		enableDebugLogging: enableDebugLogging,
	}
}

// MaxAccords returns the largest accepted selection
func (p *QueryPreprocessor) MaxAccords() int { return p.maxAccords }

// PreprocessAccords normalizes the selected accords: NFC, lower case, collapsed
// whitespace, duplicates removed with the user's order kept. Entries holding a
// comma separated list are split. More than MaxAccords distinct accords is an
// ErrTooManyAccords; an empty selection returns an empty slice.
func (p *QueryPreprocessor) PreprocessAccords(selected []string) ([]string, error) {
	seen := make(map[string]bool, len(selected))
	accords := make([]string, 0, len(selected))

	for _, entry := range selected {
		for _, raw := range strings.Split(entry, ",") {
			accord := p.normalize(raw)
			if accord == "" || seen[accord] {
				continue
			}
			seen[accord] = true
			accords = append(accords, accord)
		}
	}

	if p.enableDebugLogging {
		log.Printf("[PREPROCESS] Accords: %q → %q", selected, accords)
	}

	if len(accords) > p.maxAccords {
		return nil, fmt.Errorf("%w: %d selected, at most %d allowed", domain.ErrTooManyAccords, len(accords), p.maxAccords)
	}

	return accords, nil
}

// PreprocessName trims a perfume name and applies NFC. Case is preserved
// because names are matched exactly.
func (p *QueryPreprocessor) PreprocessName(name string) string {
	return strings.TrimSpace(norm.NFC.String(name))
}

// normalize lower-cases s, applies NFC and collapses whitespace
func (p *QueryPreprocessor) normalize(s string) string {
	return catalogue.NormalizeAccord(s)
}

// AccordDocument joins accords into the synthetic query document
func AccordDocument(accords []string) string {
	return strings.Join(accords, ", ")
}

// accordCacheKey is independent of selection order, which TF-IDF ignores.
// Format: "accords:{a}|{b}|{c}"
func accordCacheKey(accords []string) string {
	sorted := append([]string(nil), accords...)
	sort.Strings(sorted)
	return "accords:" + strings.Join(sorted, "|")
}

// similarCacheKey format: "similar:{name}"
func similarCacheKey(name string) string {
	return "similar:" + name
}
