package routes

import (
	"legalai/legalai/config"
	"legalai/legalai/controllers"
	"legalai/legalai/middlewares"
	"legalai/legalai/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Controllers struct {
	Pages  *controllers.PagesController
	Auth   *controllers.AuthController
	Client *controllers.ClientController
	Admin  *controllers.AdminController
	Health *controllers.HealthController
}

// NewRouter mounts every area of the site.
func NewRouter(c Controllers, guard *middlewares.Guard, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogging)
	r.Use(middleware.Recoverer)

	r.Mount("/health", HealthRoutes(c.Health))
	r.Mount("/client", ClientRoutes(c.Client, guard, cfg))
	r.Mount("/admin", AdminRoutes(c.Admin, guard, cfg))
	r.Mount("/", PageRoutes(c.Pages, c.Auth, guard))
	return r
}
