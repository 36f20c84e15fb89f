package routes

import (
	"time"

	"legalai/legalai/auth"
	"legalai/legalai/config"
	"legalai/legalai/controllers"
	"legalai/legalai/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func AdminRoutes(ctrl *controllers.AdminController, guard *middlewares.Guard, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Timeout(cfg.BackendTimeout + 10*time.Second))

	r.Get("/", guard.Require(auth.RoleAdmin, ctrl.Dashboard))
	r.Post("/ingest", guard.Require(auth.RoleAdmin, ctrl.Ingest))
	return r
}
