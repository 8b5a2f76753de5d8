package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/fragrancefinder/backend/config"
	"github.com/fragrancefinder/backend/internal/domain"
	"github.com/fragrancefinder/backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "fragrance-finder"
	serviceVersion = "1.0.0"

	imageURL = "/static/fragrance.png"
)

// Messages shown to users
const (
	msgTooManyAccords   = "Please select up to three accords."
	msgNoMatches        = "Sorry! We can't find any perfumes that match the selected accords. Please try again."
	msgPerfumeNotFound  = "Sorry! We can't find that perfume in the catalogue. Please check the name and try again."
	msgEnterPerfumeName = "Please enter a perfume name."
	msgNoSimilar        = "Sorry! We can't find any perfumes similar to that one."
	msgNotConfigured    = "Recommendation service not configured"
	msgInternal         = "Something went wrong. Please try again."
)

// RecommendationService is what the handlers need from the usecase layer
type RecommendationService interface {
	RecommendByAccords(ctx context.Context, request *domain.AccordRequest) (*domain.RecommendationResult, error)
	RecommendSimilar(ctx context.Context, request *domain.SimilarRequest) (*domain.RecommendationResult, error)
	Accords() []string
	MaxAccords() int
	IndexStats() usecase.IndexStats
	CacheStats() (domain.CacheStats, bool)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service RecommendationService
	ui      config.UIConfig
}

// NewHandler creates a new HTTP handler. service may be nil, in which case
// recommendation endpoints answer 503.
func NewHandler(service RecommendationService, ui config.UIConfig) *Handler {
	return &Handler{
		service: service,
		ui:      ui,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	response := gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	}
	if h.service != nil {
		response["catalogue"] = h.service.IndexStats()
		if stats, ok := h.service.CacheStats(); ok {
			response["cache"] = stats
		}
	}
	c.JSON(http.StatusOK, response)
}

// ListAccords returns every selectable accord, sorted
func (h *Handler) ListAccords(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgNotConfigured})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accords":    h.service.Accords(),
		"maxAccords": h.service.MaxAccords(),
	})
}

// RecommendByAccords handles accord recommendation requests
func (h *Handler) RecommendByAccords(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgNotConfigured})
		return
	}

	var request domain.AccordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result, err := h.service.RecommendByAccords(c.Request.Context(), &request)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RecommendSimilar handles named perfume recommendation requests
func (h *Handler) RecommendSimilar(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgNotConfigured})
		return
	}

	var request domain.SimilarRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	result, err := h.service.RecommendSimilar(c.Request.Context(), &request)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// writeError maps usecase errors to JSON error responses
func (h *Handler) writeError(c *gin.Context, err error) {
	status, message := classifyError(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed (request %s): %v", c.Request.Method, c.Request.URL.Path, c.GetString(requestIDKey), err)
	}
	c.JSON(status, gin.H{"error": message})
}

// classifyError returns the status code and user message for err
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, domain.ErrTooManyAccords):
		return http.StatusBadRequest, msgTooManyAccords
	case errors.Is(err, domain.ErrPerfumeNotFound):
		return http.StatusNotFound, msgPerfumeNotFound
	case errors.Is(err, domain.ErrNoRecommendations):
		return http.StatusNotFound, msgNoMatches
	case errors.Is(err, domain.ErrIndexNotReady):
		return http.StatusServiceUnavailable, msgNotConfigured
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, msgInternal
	default:
		return http.StatusInternalServerError, msgInternal
	}
}
