package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/fragrancefinder/backend/internal/domain"
	"github.com/fragrancefinder/backend/internal/infrastructure/tfidf"
)

// Default result sizes
const (
	defaultAccordLimit = 5
	defaultNameLimit   = 10
)

// RankConfig holds configuration for the ranking service
type RankConfig struct {
	AccordLimit        int
	NameLimit          int
	EnableDebugLogging bool
}

// RankingService ranks catalogue items against an accord selection or a reference perfume
type RankingService struct {
	accordLimit        int
	nameLimit          int
	enableDebugLogging bool
}

// scored is a catalogue index with its score
type scored struct {
	index int
	score float64
}

// NewRankingService creates a new ranking service with the given configuration
func NewRankingService(config RankConfig) *RankingService {
	accordLimit := config.AccordLimit
	if accordLimit <= 0 {
		accordLimit = defaultAccordLimit
	}

	nameLimit := config.NameLimit
	if nameLimit <= 0 {
		nameLimit = defaultNameLimit
	}

	return &RankingService{
		accordLimit:        accordLimit,
		nameLimit:          nameLimit,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// RankByAccords returns the catalogue items closest, by Euclidean distance
// between TF-IDF vectors, to the document made of the given accords. The
// accord corpus is fitted jointly with that document. Accords are expected to
// be preprocessed; an empty selection or a query with no usable terms yields
// an empty result.
func (s *RankingService) RankByAccords(
	ctx context.Context,
	index *CatalogueIndex,
	accords []string,
) ([]domain.Recommendation, error) {
	if index == nil {
		return nil, domain.ErrIndexNotReady
	}
	if len(accords) == 0 {
		return []domain.Recommendation{}, nil
	}

	query := AccordDocument(accords)
	model := index.accordCorpus.FitWith(query)
	queryIndex := index.Len()
	queryVec := model.Vector(queryIndex)

	if queryVec.IsZero() {
		if s.enableDebugLogging {
			log.Printf("[RANK] Accord query %q has no usable terms", query)
		}
		return []domain.Recommendation{}, nil
	}

	candidates := make([]scored, 0, index.Len())
	for i := 0; i < index.Len(); i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if i == queryIndex {
			continue
		}
		candidates = append(candidates, scored{
			index: i,
			score: tfidf.EuclideanDistance(queryVec, model.Vector(i)),
		})
	}

	// Closest first; equal distances keep catalogue order
	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score < candidates[b].score
		}
		return candidates[a].index < candidates[b].index
	})

	results := s.project(index, candidates, s.accordLimit)

	if s.enableDebugLogging {
		log.Printf("[RANK] Accords %q → %v", query, names(results))
	}

	return results, nil
}

// RankByName returns the catalogue items whose notes are most similar, by
// cosine similarity, to those of the first perfume named exactly name. An
// unknown name is an ErrPerfumeNotFound; a perfume without usable notes
// yields an empty result.
func (s *RankingService) RankByName(
	ctx context.Context,
	index *CatalogueIndex,
	name string,
) ([]domain.Recommendation, error) {
	if index == nil {
		return nil, domain.ErrIndexNotReady
	}

	target, ok := index.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrPerfumeNotFound, name)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Without notes every score is 0 and the ranking would be catalogue order
	if !index.HasNotes(target) {
		if s.enableDebugLogging {
			log.Printf("[RANK] %q (row %d) has no usable notes", name, target)
		}
		return []domain.Recommendation{}, nil
	}

	matrix := index.Similarity()
	candidates := make([]scored, 0, matrix.Len())
	for j := 0; j < matrix.Len(); j++ {
		// The reference perfume itself is excluded by index, so an item with
		// identical notes still counts as a recommendation.
		if j == target {
			continue
		}
		candidates = append(candidates, scored{index: j, score: matrix.At(target, j)})
	}

	// Most similar first; equal scores keep catalogue order
	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		return candidates[a].index < candidates[b].index
	})

	results := s.project(index, candidates, s.nameLimit)

	if s.enableDebugLogging {
		log.Printf("[RANK] Similar to %q (row %d) → %v", name, target, names(results))
	}

	return results, nil
}

// project keeps the first limit candidates as 1-based ranked recommendations
func (s *RankingService) project(index *CatalogueIndex, candidates []scored, limit int) []domain.Recommendation {
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]domain.Recommendation, len(candidates))
	for k, c := range candidates {
		p := index.Perfume(c.index)
		results[k] = domain.Recommendation{
			Rank:    k + 1,
			Index:   c.index,
			Brand:   p.Brand,
			Perfume: p.Name,
			Notes:   p.Notes,
			Score:   c.score,
		}
	}
	return results
}

func names(recs []domain.Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Perfume
	}
	return out
}
