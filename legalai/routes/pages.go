package routes

import (
	"time"

	"legalai/legalai/controllers"
	"legalai/legalai/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func PageRoutes(ctrl *controllers.PagesController, authCtrl *controllers.AuthController, guard *middlewares.Guard) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/", guard.Optional(ctrl.Landing))
	r.Get("/about", guard.Optional(ctrl.About))
	r.Get("/faq", guard.Optional(ctrl.FAQ))
	r.Get("/contact", guard.Optional(ctrl.Contact))
	r.Post("/contact", guard.Optional(ctrl.SubmitContact))
	r.Get("/unauthorized", guard.Optional(ctrl.Unauthorized))
	authRoutes(r, authCtrl, guard)
	return r
}
