package domain

// Perfume is one row of the catalogue. Identity is its row position.
type Perfume struct {
	Index       int    `json:"index"`
	Brand       string `json:"brand"`
	Name        string `json:"perfume"`
	Notes       string `json:"notes"`
	MainAccords string `json:"mainAccords,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Metric names the score carried by a recommendation
type Metric string

const (
	MetricEuclidean Metric = "euclidean" // lower is closer
	MetricCosine    Metric = "cosine"    // higher is closer
)

// Recommendation is a single ranked catalogue row
type Recommendation struct {
	Rank    int     `json:"rank"` // 1-based
	Index   int     `json:"index"`
	Brand   string  `json:"brand"`
	Perfume string  `json:"perfume"`
	Notes   string  `json:"notes"`
	Score   float64 `json:"score"`
}

// AccordRequest asks for perfumes matching a set of accords
type AccordRequest struct {
	Accords []string `json:"accords" form:"accords"`
}

// SimilarRequest asks for perfumes similar to a reference perfume
type SimilarRequest struct {
	Perfume string `json:"perfume" form:"perfume" binding:"required"`
}

// RecommendationResult is the outcome of one ranking call
type RecommendationResult struct {
	Query           string           `json:"query"`
	Metric          Metric           `json:"metric"`
	Recommendations []Recommendation `json:"recommendations"`
	Source          string           `json:"source"` // "Ranker" or "Cache"
}

// Empty reports whether the ranking produced no rows
func (r *RecommendationResult) Empty() bool {
	return r == nil || len(r.Recommendations) == 0
}

// Names returns the perfume names in ranked order
func (r *RecommendationResult) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.Recommendations))
	for i, rec := range r.Recommendations {
		names[i] = rec.Perfume
	}
	return names
}
