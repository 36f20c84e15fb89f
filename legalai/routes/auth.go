package routes

import (
	"legalai/legalai/controllers"
	"legalai/legalai/middlewares"

	"github.com/go-chi/chi/v5"
)

// authRoutes registers the sign-in pages on the public router.
func authRoutes(r chi.Router, ctrl *controllers.AuthController, guard *middlewares.Guard) {
	r.Get("/login", guard.Optional(ctrl.Login))
	r.Get("/signup", guard.Optional(ctrl.Signup))
	r.Get("/logout", ctrl.Logout)
	r.Post("/logout", ctrl.Logout)
}
