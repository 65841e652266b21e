package handlers

import (
	"errors"
	"log"
	"net/http"

	"pilates-studio/internal/models"
	"pilates-studio/internal/services"
	"pilates-studio/web/templates/pages"

	"github.com/go-chi/chi/v5"
)

// ClassesHandler serves the class catalogue
type ClassesHandler struct {
	content services.ContentServiceInterface
}

// NewClassesHandler creates a new classes handler
func NewClassesHandler(content services.ContentServiceInterface) *ClassesHandler {
	return &ClassesHandler{content: content}
}

// ListClasses renders every class
func (h *ClassesHandler) ListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.content.GetClasses(r.Context())
	if err != nil {
		log.Printf("Error fetching classes: %v", err)
		http.Error(w, "Failed to load classes", http.StatusInternalServerError)
		return
	}

	render(w, r, http.StatusOK, pages.ClassesPage(classes))
}

// ClassDetail renders a single class by slug
func (h *ClassesHandler) ClassDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	class, err := h.content.GetClassBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, models.ErrClassNotFound) || models.IsNotFound(err) {
			render(w, r, http.StatusNotFound, pages.NotFoundPage("That class could not be found."))
			return
		}
		log.Printf("Error fetching class %q: %v", slug, err)
		http.Error(w, "Failed to load class", http.StatusInternalServerError)
		return
	}

	render(w, r, http.StatusOK, pages.ClassDetailPage(class))
}
