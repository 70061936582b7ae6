package adaptor

import (
	"net/http"
)

type HomeHandler struct {
	*presenter
}

func NewHomeHandler(p *presenter) *HomeHandler {
	return &HomeHandler{presenter: p}
}

// Default handles GET / and GET /homepage/default
func (h *HomeHandler) Default(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "homepage", h.config.App.Name, nil)
}

// NotFound renders the error page for unknown routes.
func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.errorPage(w, r, http.StatusNotFound, "The page you are looking for does not exist.")
}
