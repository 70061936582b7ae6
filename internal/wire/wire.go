package wire

import (
	"net/http"

	"backoffice/internal/adaptor"
	"backoffice/internal/data/repository"
	"backoffice/internal/flash"
	"backoffice/internal/usecase"
	"backoffice/internal/view"
	"backoffice/pkg/middleware"
	"backoffice/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the wired router plus what the background jobs need.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
	Limiter *middleware.RateLimiter
}

// Wiring builds services, handlers and routes.
func Wiring(repo *repository.Repository, flashes flash.Store, config *utils.Config, logger *zap.Logger) (*App, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, renderer, flashes, config, logger)
	limiter := middleware.NewRateLimiter(config.Security.LoginRatePerMinute, config.Security.LoginBurst, logger)

	router := setupRouter(handler, service, flashes, limiter, config, logger)

	return &App{
		Router:  router,
		Service: service,
		Limiter: limiter,
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	flashes flash.Store,
	limiter *middleware.RateLimiter,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	if config.Security.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.FlashID(config.Session.SecureCookie))
	r.Use(middleware.Session(service.Auth, config.Session.CookieName, logger))

	r.NotFound(handler.Home.NotFound)

	wireHome(r, handler.Home)
	wireAuth(r, handler.Auth, limiter)
	wireAdmin(r, handler.Admin, handler.User, service.ACL, flashes, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

func wireHome(r chi.Router, home *adaptor.HomeHandler) {
	r.Get("/", home.Default)
	r.Get(adaptor.HomePath, home.Default)
}
