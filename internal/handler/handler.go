// Package handler provides HTTP request handlers and HTML rendering.
package handler

import (
	"encoding/json"
	"net/http"
)

// Handler serves the pages that need no domain service.
type Handler struct {
	views *Views
}

// New creates a new Handler instance.
func New(views *Views) *Handler {
	return &Handler{views: views}
}

// Index renders the landing page.
// GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, pageIndex, PageData{})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.views.ErrorPage(w, r, http.StatusNotFound)
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.views.ErrorPage(w, r, http.StatusMethodNotAllowed)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
