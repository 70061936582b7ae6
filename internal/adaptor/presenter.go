package adaptor

import (
	"bytes"
	"net/http"
	"net/url"

	"backoffice/internal/data/entity"
	"backoffice/internal/flash"
	"backoffice/internal/usecase"
	"backoffice/internal/view"
	"backoffice/pkg/utils"

	"go.uber.org/zap"
)

const (
	AdminPath     = "/administrator/admin"
	DashboardPath = AdminPath + "/default"
	HomePath      = "/homepage/default"

	secParam = "_sec"
)

// presenter carries what every page handler needs: templates, flash
// messages, the header panels and signed links.
type presenter struct {
	renderer  *view.Renderer
	flashes   flash.Store
	dashboard usecase.DashboardService
	config    *utils.Config
	log       *zap.Logger
}

func (p *presenter) flash(r *http.Request, kind entity.FlashType, message string) {
	id, ok := utils.GetFlashIDFromContext(r.Context())
	if !ok {
		return
	}
	if err := p.flashes.Add(r.Context(), id, entity.FlashMessage{Type: kind, Message: message}); err != nil {
		p.log.Warn("Failed to store flash message", zap.Error(err))
	}
}

func (p *presenter) popFlashes(r *http.Request) []entity.FlashMessage {
	id, ok := utils.GetFlashIDFromContext(r.Context())
	if !ok {
		return nil
	}
	messages, err := p.flashes.Pop(r.Context(), id)
	if err != nil {
		p.log.Warn("Failed to load flash messages", zap.Error(err))
		return nil
	}
	return messages
}

func (p *presenter) newPage(r *http.Request, title string, content any) *view.Page {
	page := &view.Page{
		AppName:      p.config.App.Name,
		Title:        title,
		Flashes:      p.popFlashes(r),
		SearchAction: AdminPath + "/search",
		Content:      content,
	}
	if identity, ok := utils.GetIdentityFromContext(r.Context()); ok {
		page.Identity = identity
		page.Panels = p.dashboard.Panels(func(text string) string {
			return p.alertLink(r, text)
		})
		page.SignOutToken = p.secToken(r, "sign-out")
	}
	return page
}

// render writes a page with the given status. ?no_layout=1 drops the
// surrounding layout so the page can be embedded.
func (p *presenter) render(w http.ResponseWriter, r *http.Request, status int, name, title string, content any) {
	layout := r.URL.Query().Get("no_layout") == ""

	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, name, p.newPage(r, title, content), layout); err != nil {
		p.log.Error("Failed to render page", zap.String("page", name), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// errorPage answers AJAX callers with JSON and browsers with the error page.
func (p *presenter) errorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	if utils.IsAjax(r) {
		utils.ResponseError(w, r, status, message)
		return
	}
	p.render(w, r, status, "error", http.StatusText(status), &view.Error{
		Code:    status,
		Title:   http.StatusText(status),
		Message: message,
	})
}

func (p *presenter) serverError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	p.log.Error("Failed to "+operation, zap.Error(err), zap.String("path", r.URL.Path))
	p.errorPage(w, r, http.StatusInternalServerError, "Internal server error")
}

// redirect sends browsers a 303 and AJAX callers a payload with the target.
func (p *presenter) redirect(w http.ResponseWriter, r *http.Request, target string) {
	if utils.IsAjax(r) {
		p.sendPayload(w, &Payload{Redirect: target})
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// back is the local page the request came from, falling back to the dashboard.
func (p *presenter) back(r *http.Request) string {
	return utils.LocalRedirect(r.FormValue("back"), utils.LocalRedirect(r.Referer(), DashboardPath))
}

func (p *presenter) sendPayload(w http.ResponseWriter, payload *Payload) {
	utils.WriteJSON(w, http.StatusOK, payload)
}

// withFlashes moves pending flash messages into the payload's flashes snippet.
func (p *presenter) withFlashes(r *http.Request, payload *Payload) error {
	html, err := p.renderer.Snippet("flashes", p.popFlashes(r))
	if err != nil {
		return err
	}
	payload.AddSnippet("flashes", html)
	return nil
}

func (p *presenter) secToken(r *http.Request, action string, params ...string) string {
	session, _ := utils.GetTokenFromContext(r.Context())
	return utils.SecuredToken(p.config.Session.Secret, session, action, params...)
}

func (p *presenter) verifySec(r *http.Request, action string, params ...string) bool {
	session, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		return false
	}
	return utils.VerifySecuredToken(r.FormValue(secParam), p.config.Session.Secret, session, action, params...)
}

func (p *presenter) alertLink(r *http.Request, text string) string {
	q := url.Values{}
	q.Set("text", text)
	q.Set(secParam, p.secToken(r, "alert", text))
	return AdminPath + "/alert?" + q.Encode()
}
