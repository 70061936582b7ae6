package adaptor

import (
	"errors"
	"net/http"
	"time"

	"backoffice/internal/data/entity"
	"backoffice/internal/dto/request"
	"backoffice/internal/usecase"
	"backoffice/internal/view"
	"backoffice/pkg/middleware"
	"backoffice/pkg/utils"

	"github.com/go-playground/form/v4"
	"go.uber.org/zap"
)

const AdministratorPath = "/administrator"

type AuthHandler struct {
	*presenter
	service usecase.AuthService
	decoder *form.Decoder
}

func NewAuthHandler(p *presenter, service usecase.AuthService, decoder *form.Decoder) *AuthHandler {
	return &AuthHandler{
		presenter: p,
		service:   service,
		decoder:   decoder,
	}
}

// SignInForm handles GET /sign/in
func (h *AuthHandler) SignInForm(w http.ResponseWriter, r *http.Request) {
	backlink := utils.LocalRedirect(r.URL.Query().Get("backlink"), AdministratorPath)
	if _, ok := utils.GetIdentityFromContext(r.Context()); ok {
		http.Redirect(w, r, backlink, http.StatusSeeOther)
		return
	}
	h.renderSignIn(w, r, http.StatusOK, &request.SignInRequest{}, nil, backlink)
}

// SignIn handles POST /sign/in
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errorPage(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}

	var req request.SignInRequest
	if err := h.decoder.Decode(&req, r.PostForm); err != nil {
		h.log.Warn("Failed to decode sign-in form", zap.Error(err))
		h.errorPage(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}
	backlink := utils.LocalRedirect(r.PostForm.Get("backlink"), AdministratorPath)

	client := usecase.ClientInfo{
		UserAgent: r.UserAgent(),
		IPAddress: middleware.ClientIP(r),
	}
	session, err := h.service.SignIn(r.Context(), &req, client)
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		h.renderSignIn(w, r, http.StatusOK, &req, verr.Fields, backlink)
		return
	case errors.Is(err, usecase.ErrInvalidCredentials):
		h.flash(r, entity.FlashDanger, "The username or password you entered is incorrect.")
		h.renderSignIn(w, r, http.StatusOK, &req, nil, backlink)
		return
	case errors.Is(err, usecase.ErrAccountInactive):
		h.flash(r, entity.FlashDanger, "Your account has been deactivated.")
		h.renderSignIn(w, r, http.StatusOK, &req, nil, backlink)
		return
	case err != nil:
		h.serverError(w, r, err, "sign in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.config.Session.CookieName,
		Value:    session.Token.String(),
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.config.Session.SecureCookie || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, backlink, http.StatusSeeOther)
}

func (h *AuthHandler) renderSignIn(w http.ResponseWriter, r *http.Request, status int, values *request.SignInRequest, errs map[string]string, backlink string) {
	values.Password = ""
	h.render(w, r, status, "sign_in", "Sign in", &view.SignIn{
		Action:   middleware.SignInPath,
		Backlink: backlink,
		Values:   values,
		Errors:   errs,
	})
}

// SignOut handles POST /sign/out
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, middleware.SignInPath, http.StatusSeeOther)
		return
	}
	if !h.verifySec(r, "sign-out") {
		h.flash(r, entity.FlashDanger, "Invalid security token")
		http.Redirect(w, r, h.back(r), http.StatusSeeOther)
		return
	}

	if err := h.service.SignOut(r.Context(), token); err != nil {
		h.serverError(w, r, err, "sign out")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.config.Session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.Session.SecureCookie || r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	h.flash(r, entity.FlashInfo, "You have been signed out.")
	http.Redirect(w, r, middleware.SignInPath, http.StatusSeeOther)
}
