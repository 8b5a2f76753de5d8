package domain

import "errors"

var (
	// ErrCatalogueLoad is returned when the perfume catalogue cannot be read or is missing required columns
	ErrCatalogueLoad = errors.New("failed to load perfume catalogue")

	// ErrTooManyAccords is returned when more accords are selected than the ranker accepts
	ErrTooManyAccords = errors.New("too many accords selected")

	// ErrNoRecommendations is returned when a ranking produced no rows
	ErrNoRecommendations = errors.New("no matching perfumes found")

	// ErrPerfumeNotFound is returned when a reference perfume is not in the catalogue
	ErrPerfumeNotFound = errors.New("perfume not found in catalogue")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrIndexNotReady is returned when a ranking is attempted before the catalogue index is built
	ErrIndexNotReady = errors.New("catalogue index not built")
)
