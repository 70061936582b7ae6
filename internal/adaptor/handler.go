package adaptor

import (
	"backoffice/internal/flash"
	"backoffice/internal/usecase"
	"backoffice/internal/view"
	"backoffice/pkg/utils"

	"github.com/go-playground/form/v4"
	"go.uber.org/zap"
)

type Handler struct {
	Home  *HomeHandler
	Auth  *AuthHandler
	Admin *AdminHandler
	User  *UserHandler
}

func NewHandler(service *usecase.Service, renderer *view.Renderer, flashes flash.Store, config *utils.Config, log *zap.Logger) *Handler {
	p := &presenter{
		renderer:  renderer,
		flashes:   flashes,
		dashboard: service.Dashboard,
		config:    config,
		log:       log,
	}
	g := &userGrid{
		presenter: p,
		users:     service.User,
		acl:       service.ACL,
	}
	decoder := form.NewDecoder()

	return &Handler{
		Home:  NewHomeHandler(p),
		Auth:  NewAuthHandler(p, service.Auth, decoder),
		Admin: NewAdminHandler(g),
		User:  NewUserHandler(g, decoder),
	}
}
