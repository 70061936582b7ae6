package wire

import (
	"net/http"

	"backoffice/internal/adaptor"
	"backoffice/internal/flash"
	"backoffice/internal/usecase"
	"backoffice/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireAdmin mounts the administration. Every page needs a signed-in
// identity allowed to view the dashboard; editing needs users:edit.
// Deleting is checked per user by the service so that a refused delete
// still answers with a flash and a redrawn grid.
func wireAdmin(
	r chi.Router,
	admin *adaptor.AdminHandler,
	users *adaptor.UserHandler,
	acl *usecase.ACL,
	flashes flash.Store,
	log *zap.Logger,
) {
	toDashboard := func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, adaptor.DashboardPath, http.StatusSeeOther)
	}

	r.Route(adaptor.AdministratorPath, func(r chi.Router) {
		r.Use(middleware.RequireIdentity(flashes, log))
		r.Use(middleware.Allow(acl, usecase.ResourceDashboard, usecase.PrivilegeView, log))

		r.Get("/", toDashboard)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/", toDashboard)
			r.Get("/default", admin.Default)
			r.Get("/search", admin.Search)
			r.Get("/random", admin.Random)
			r.Get("/slow", admin.Slow)
			r.Get("/alert", admin.Alert)
			r.Get("/secured", admin.Secured)

			r.Get("/delete/{id}", users.Delete)
			r.Post("/delete/{id}", users.Delete)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Allow(acl, usecase.ResourceUsers, usecase.PrivilegeEdit, log))

				r.Get("/edit", users.Edit)
				r.Post("/edit", users.Save)
				r.Get("/edit/{id}", users.Edit)
				r.Post("/edit/{id}", users.Save)

				r.Get("/inline/{id}", users.InlineEdit)
				r.Post("/inline/{id}", users.InlineSave)
				r.Get("/inline/{id}/cancel", users.InlineCancel)
			})
		})
	})
}
