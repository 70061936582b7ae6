package middleware

import (
	"net/http"

	"backoffice/pkg/utils"

	"github.com/google/uuid"
)

const FlashCookie = "flash_id"

// FlashID gives every browser a stable id under which flash messages are kept.
func FlashID(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(FlashCookie); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					id = c.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     FlashCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(utils.SetFlashIDContext(r.Context(), id)))
		})
	}
}
