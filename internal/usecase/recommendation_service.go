package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/fragrancefinder/backend/internal/domain"
)

const defaultCacheTTL = 24 * time.Hour

// RecommendationServiceConfig holds configuration for the recommendation service
type RecommendationServiceConfig struct {
	CacheTTL           time.Duration
	MaxAccords         int
	AccordLimit        int
	NameLimit          int
	EnableDebugLogging bool
}

// RecommendationService answers recommendation queries against the catalogue index,
// memoizing results in the cache. The cache may be nil.
type RecommendationService struct {
	index          *CatalogueIndex
	cache          domain.CacheRepository
	rankingService *RankingService
	preprocessor   *QueryPreprocessor
	cacheTTL       time.Duration
	debug          bool
}

// NewRecommendationService creates a new recommendation service with dependencies
func NewRecommendationService(
	index *CatalogueIndex,
	cache domain.CacheRepository,
	config RecommendationServiceConfig,
) *RecommendationService {
	rankingService := NewRankingService(RankConfig{
		AccordLimit:        config.AccordLimit,
		NameLimit:          config.NameLimit,
		EnableDebugLogging: config.EnableDebugLogging,
	})

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &RecommendationService{
		index:          index,
		cache:          cache,
		rankingService: rankingService,
		preprocessor:   NewQueryPreprocessor(config.MaxAccords, config.EnableDebugLogging),
		cacheTTL:       cacheTTL,
		debug:          config.EnableDebugLogging,
	}
}

// RecommendByAccords ranks perfumes against a selection of accords.
// Flow: validate -> check cache -> rank -> cache -> return.
// An empty selection is "no query" and returns an empty result without error.
func (s *RecommendationService) RecommendByAccords(
	ctx context.Context,
	request *domain.AccordRequest,
) (*domain.RecommendationResult, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}

	accords, err := s.preprocessor.PreprocessAccords(request.Accords)
	if err != nil {
		return nil, err
	}

	result := &domain.RecommendationResult{
		Query:           AccordDocument(accords),
		Metric:          domain.MetricEuclidean,
		Recommendations: []domain.Recommendation{},
	}
	if len(accords) == 0 {
		return result, nil
	}

	key := accordCacheKey(accords)
	if cached, err := s.getFromCache(ctx, key); err == nil {
		cached.Query = result.Query
		return cached, nil
	}

	recs, err := s.rankingService.RankByAccords(ctx, s.index, accords)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoRecommendations, result.Query)
	}

	result.Recommendations = recs
	result.Source = "Ranker"
	s.setInCache(ctx, key, result)

	return result, nil
}

// RecommendSimilar ranks perfumes by similarity of notes to a reference perfume.
// An unknown perfume is an ErrPerfumeNotFound.
func (s *RecommendationService) RecommendSimilar(
	ctx context.Context,
	request *domain.SimilarRequest,
) (*domain.RecommendationResult, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}

	name := s.preprocessor.PreprocessName(request.Perfume)
	if name == "" {
		return nil, domain.ErrInvalidRequest
	}

	key := similarCacheKey(name)
	if cached, err := s.getFromCache(ctx, key); err == nil {
		return cached, nil
	}

	recs, err := s.rankingService.RankByName(ctx, s.index, name)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoRecommendations, name)
	}

	result := &domain.RecommendationResult{
		Query:           name,
		Metric:          domain.MetricCosine,
		Recommendations: recs,
		Source:          "Ranker",
	}
	s.setInCache(ctx, key, result)

	return result, nil
}

// Accords returns every accord that can be selected
func (s *RecommendationService) Accords() []string {
	if s.index == nil {
		return nil
	}
	return s.index.Accords()
}

// MaxAccords returns the largest accepted accord selection
func (s *RecommendationService) MaxAccords() int {
	return s.preprocessor.MaxAccords()
}

// IndexStats reports the size of the catalogue index
func (s *RecommendationService) IndexStats() IndexStats {
	if s.index == nil {
		return IndexStats{}
	}
	return s.index.Stats()
}

// CacheStats reports cache usage when the cache counts it
func (s *RecommendationService) CacheStats() (domain.CacheStats, bool) {
	reporter, ok := s.cache.(domain.CacheStatsReporter)
	if !ok {
		return domain.CacheStats{}, false
	}
	return reporter.Stats(), true
}

// getFromCache retrieves a recommendation result from cache
func (s *RecommendationService) getFromCache(ctx context.Context, key string) (*domain.RecommendationResult, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var result domain.RecommendationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, domain.ErrCacheMiss
	}
	result.Source = "Cache"
	return &result, nil
}

// setInCache stores a recommendation result. Failures are logged, never returned.
func (s *RecommendationService) setInCache(ctx context.Context, key string, result *domain.RecommendationResult) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(result)
	if err == nil {
		err = s.cache.Set(ctx, key, data, s.cacheTTL)
	}
	if err != nil && s.debug {
		log.Printf("[CACHE] Failed to store %q: %v", key, err)
	}
}
