package main

import (
	"context"
	"fmt"
	"log"

	"github.com/fragrancefinder/backend/config"
	"github.com/fragrancefinder/backend/internal/domain"
	"github.com/fragrancefinder/backend/internal/infrastructure/catalogue"
	"github.com/fragrancefinder/backend/internal/usecase"
)

// loadIndex reads the configured catalogue and builds the ranking index
func loadIndex(ctx context.Context, cfg *config.Config) (*usecase.CatalogueIndex, error) {
	source, err := catalogue.NewSource(cfg.Catalogue.Source, cfg.Catalogue.Path, cfg.Catalogue.Table)
	if err != nil {
		return nil, err
	}

	perfumes, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", source.Name(), err)
	}

	index, err := usecase.BuildIndex(ctx, perfumes, usecase.IndexConfig{
		Workers:   cfg.Recommend.Workers,
		StopWords: cfg.Recommend.StopWords,
	})
	if err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}

	stats := index.Stats()
	log.Printf("Catalogue: %s (%d perfumes, %d accords, %d note terms)",
		source.Name(), stats.Perfumes, stats.Accords, stats.NoteTerms)

	return index, nil
}

// newService wires the recommendation service. resultCache may be nil.
func newService(cfg *config.Config, index *usecase.CatalogueIndex, resultCache domain.CacheRepository) *usecase.RecommendationService {
	return usecase.NewRecommendationService(
		index,
		resultCache,
		usecase.RecommendationServiceConfig{
			CacheTTL:           cfg.Cache.TTL,
			MaxAccords:         cfg.Recommend.MaxAccords,
			AccordLimit:        cfg.Recommend.AccordLimit,
			NameLimit:          cfg.Recommend.NameLimit,
			EnableDebugLogging: cfg.Recommend.EnableDebugLogging,
		},
	)
}
