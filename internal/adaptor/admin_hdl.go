package adaptor

import (
	"net/http"

	"backoffice/internal/data/entity"
	"backoffice/internal/usecase"
	"backoffice/internal/view"
	"backoffice/pkg/utils"

	"go.uber.org/zap"
)

type AdminHandler struct {
	*presenter
	grid *userGrid
}

func NewAdminHandler(g *userGrid) *AdminHandler {
	return &AdminHandler{
		presenter: g.presenter,
		grid:      g,
	}
}

// Default handles GET /administrator/admin/default
// AJAX requests only get the grid redrawn for the new state.
func (h *AdminHandler) Default(w http.ResponseWriter, r *http.Request) {
	if utils.IsAjax(r) {
		payload := &Payload{}
		if err := h.grid.snippet(r, h.grid.state(r.URL.Query()), payload); err != nil {
			h.serverError(w, r, err, "render grid")
			return
		}
		if err := h.withFlashes(r, payload); err != nil {
			h.serverError(w, r, err, "render flashes")
			return
		}
		h.sendPayload(w, payload)
		return
	}

	h.renderDashboard(w, r, h.dashboard.Random())
}

func (h *AdminHandler) renderDashboard(w http.ResponseWriter, r *http.Request, random int) {
	gridView, err := h.grid.build(r, h.grid.state(r.URL.Query()))
	if err != nil {
		h.serverError(w, r, err, "list users")
		return
	}

	content := &view.Dashboard{
		Board:      h.dashboard.InfoBoard(r.Context()),
		Grid:       gridView,
		Random:     random,
		RandomLink: AdminPath + "/random",
		SlowLink:   AdminPath + "/slow",
	}
	if identity, ok := utils.GetIdentityFromContext(r.Context()); ok &&
		h.grid.acl.IsAllowed(identity.Role, usecase.ResourceUsers, usecase.PrivilegeEdit) {
		content.CreateLink = AdminPath + "/edit"
	}

	h.render(w, r, http.StatusOK, "dashboard", "Dashboard", content)
}

// Search handles GET /administrator/admin/search
func (h *AdminHandler) Search(w http.ResponseWriter, r *http.Request) {
	word := r.URL.Query().Get("word")
	h.flash(r, entity.FlashDanger, "Looking for: "+word)
	h.flash(r, entity.FlashInfo, "Looking for: "+word)
	h.renderDashboard(w, r, h.dashboard.Random())
}

// Random handles GET /administrator/admin/random
func (h *AdminHandler) Random(w http.ResponseWriter, r *http.Request) {
	n := h.dashboard.Random()
	if !utils.IsAjax(r) {
		h.renderDashboard(w, r, n)
		return
	}

	html, err := h.renderer.Snippet("random", n)
	if err != nil {
		h.serverError(w, r, err, "render random")
		return
	}
	payload := &Payload{}
	payload.AddSnippet("random", html)
	h.sendPayload(w, payload)
}

// Slow handles GET /administrator/admin/slow, the lazily loaded panel.
func (h *AdminHandler) Slow(w http.ResponseWriter, r *http.Request) {
	if err := h.dashboard.WaitSlow(r.Context()); err != nil {
		if r.Context().Err() != nil {
			h.log.Debug("Slow panel request abandoned", zap.String("path", r.URL.Path))
			return
		}
		h.serverError(w, r, err, "wait for slow panel")
		return
	}

	delay := h.config.Dashboard.SlowPanelDelay.String()
	if !utils.IsAjax(r) {
		h.render(w, r, http.StatusOK, "slow", "Slow component", delay)
		return
	}

	html, err := h.renderer.Snippet("slow", delay)
	if err != nil {
		h.serverError(w, r, err, "render slow panel")
		return
	}
	payload := &Payload{}
	payload.AddSnippet("slow", html)
	h.sendPayload(w, payload)
}

// Alert handles GET /administrator/admin/alert, the signed links of the
// header panels.
func (h *AdminHandler) Alert(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if h.verifySec(r, "alert", text) {
		h.flash(r, entity.FlashInfo, text)
	} else {
		h.flash(r, entity.FlashDanger, "Invalid security token")
	}
	h.redirect(w, r, h.back(r))
}

// Secured handles GET /administrator/admin/secured, a signal that only
// runs with a link signed for the current session.
func (h *AdminHandler) Secured(w http.ResponseWriter, r *http.Request) {
	if !h.verifySec(r, "secured") {
		h.errorPage(w, r, http.StatusForbidden, "Invalid security token")
		return
	}
	h.flash(r, entity.FlashSuccess, "Secured signal received")
	h.redirect(w, r, DashboardPath)
}
