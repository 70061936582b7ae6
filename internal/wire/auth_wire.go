package wire

import (
	"backoffice/internal/adaptor"
	"backoffice/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, limiter *middleware.RateLimiter) {
	r.Get(middleware.SignInPath, authHandler.SignInForm)
	// Only credential attempts are throttled.
	r.With(limiter.Middleware).Post(middleware.SignInPath, authHandler.SignIn)
	r.Post("/sign/out", authHandler.SignOut)
}
