package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"backoffice/internal/data/entity"
	"backoffice/internal/flash"
	"backoffice/internal/usecase"
	"backoffice/pkg/utils"

	"go.uber.org/zap"
)

const SignInPath = "/sign/in"

// Authenticator resolves a session token into the signed-in identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*utils.Identity, error)
}

// Session loads the identity behind the session cookie into the request
// context. Requests without a valid session pass through anonymously.
func Session(auth Authenticator, cookieName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := auth.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, usecase.ErrInvalidSession) {
					logger.Error("Failed to validate session", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := utils.SetIdentityContext(r.Context(), identity)
			ctx = utils.SetTokenContext(ctx, cookie.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireIdentity sends anonymous visitors to the sign-in page with a flash
// and a backlink to where they were going.
func RequireIdentity(flashes flash.Store, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := utils.GetIdentityFromContext(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			if id, ok := utils.GetFlashIDFromContext(r.Context()); ok {
				msg := entity.FlashMessage{Type: entity.FlashWarning, Message: "Please sign in"}
				if err := flashes.Add(r.Context(), id, msg); err != nil {
					logger.Warn("Failed to store flash message", zap.Error(err))
				}
			}

			target := SignInPath + "?backlink=" + url.QueryEscape(r.URL.RequestURI())
			if utils.IsAjax(r) {
				utils.WriteJSON(w, http.StatusUnauthorized, map[string]string{"redirect": target})
				return
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
		})
	}
}

// Allow rejects identities whose role lacks privilege on resource.
func Allow(acl *usecase.ACL, resource usecase.Resource, privilege usecase.Privilege, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := utils.GetIdentityFromContext(r.Context())
			if !ok || !acl.IsAllowed(identity.Role, resource, privilege) {
				fields := []zap.Field{
					zap.String("resource", string(resource)),
					zap.String("privilege", string(privilege)),
					zap.String("path", r.URL.Path),
				}
				if ok {
					fields = append(fields, zap.String("user_id", identity.UserID.String()), zap.String("role", identity.Role))
				}
				logger.Warn("Access denied", fields...)
				utils.ResponseForbidden(w, r, "Permission denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
