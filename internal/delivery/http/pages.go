package http

import (
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"

	"github.com/fragrancefinder/backend/internal/domain"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// loadTemplates parses the embedded page templates
func loadTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
}

// pageData is rendered by both pages
type pageData struct {
	Title        string
	ImageURL     string
	Options      []string
	Selected     map[string]bool
	Query        string
	Submitted    bool
	SidebarError string
	ResultError  string
	Result       *domain.RecommendationResult
}

func (h *Handler) accordPage() pageData {
	data := pageData{
		Title:    h.ui.Title,
		Selected: map[string]bool{},
	}
	if h.ui.ImagePath != "" {
		data.ImageURL = imageURL
	}
	if h.service != nil {
		data.Options = h.service.Accords()
	}
	return data
}

func (h *Handler) similarPage() pageData {
	return pageData{
		Title:    h.ui.SimilarTitle,
		Selected: map[string]bool{},
	}
}

// AccordsPage renders the accord selection form
func (h *Handler) AccordsPage(c *gin.Context) {
	c.HTML(http.StatusOK, "accords.tmpl", h.accordPage())
}

// SubmitAccords runs the accord ranking for a form submission
func (h *Handler) SubmitAccords(c *gin.Context) {
	data := h.accordPage()

	var request domain.AccordRequest
	if err := c.ShouldBind(&request); err != nil {
		data.SidebarError = "Invalid form submission."
		c.HTML(http.StatusBadRequest, "accords.tmpl", data)
		return
	}
	for _, accord := range request.Accords {
		data.Selected[accord] = true
	}

	if h.service == nil {
		data.SidebarError = msgNotConfigured
		c.HTML(http.StatusServiceUnavailable, "accords.tmpl", data)
		return
	}

	result, err := h.service.RecommendByAccords(c.Request.Context(), &request)
	switch {
	case errors.Is(err, domain.ErrTooManyAccords):
		data.SidebarError = msgTooManyAccords
		c.HTML(http.StatusBadRequest, "accords.tmpl", data)
		return
	case err != nil:
		status, message := classifyError(err)
		if status >= http.StatusInternalServerError {
			log.Printf("[HTTP] Accord page failed: %v", err)
		}
		data.Submitted = true
		data.ResultError = message
		c.HTML(status, "accords.tmpl", data)
		return
	}

	data.Submitted = true
	data.Query = result.Query
	data.Result = result
	if result.Empty() {
		data.ResultError = msgNoMatches
	}
	c.HTML(http.StatusOK, "accords.tmpl", data)
}

// SimilarPage renders the perfume name form
func (h *Handler) SimilarPage(c *gin.Context) {
	c.HTML(http.StatusOK, "similar.tmpl", h.similarPage())
}

// SubmitSimilar runs the named perfume ranking for a form submission
func (h *Handler) SubmitSimilar(c *gin.Context) {
	data := h.similarPage()
	data.Query = c.PostForm("perfume")

	if h.service == nil {
		data.SidebarError = msgNotConfigured
		c.HTML(http.StatusServiceUnavailable, "similar.tmpl", data)
		return
	}

	result, err := h.service.RecommendSimilar(c.Request.Context(), &domain.SimilarRequest{Perfume: data.Query})
	if err != nil {
		status, message := classifyError(err)
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			data.SidebarError = msgEnterPerfumeName
		case errors.Is(err, domain.ErrNoRecommendations):
			data.Submitted = true
			data.ResultError = msgNoSimilar
		default:
			if status >= http.StatusInternalServerError {
				log.Printf("[HTTP] Similar page failed: %v", err)
			}
			data.Submitted = true
			data.ResultError = message
		}
		c.HTML(status, "similar.tmpl", data)
		return
	}

	data.Submitted = true
	data.Result = result
	c.HTML(http.StatusOK, "similar.tmpl", data)
}
