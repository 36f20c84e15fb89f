package controllers

import (
	"net/http"

	"legalai/legalai/auth"
	"legalai/legalai/config"
	"legalai/legalai/web"
)

// AuthController serves the pages around the hosted sign-in. Tokens are
// issued by the identity provider; this server only reads them.
type AuthController struct {
	renderer *web.Renderer
	cfg      config.IdentityConfig
}

func NewAuthController(renderer *web.Renderer, cfg config.IdentityConfig) *AuthController {
	return &AuthController{renderer: renderer, cfg: cfg}
}

type AuthLinks struct {
	SignInURL string
	SignUpURL string
}

func (c *AuthController) links() AuthLinks {
	return AuthLinks{SignInURL: c.cfg.SignInURL, SignUpURL: c.cfg.SignUpURL}
}

// HomeFor is where a signed-in visitor lands after login.
func HomeFor(role auth.Role) string {
	if role == auth.RoleAdmin {
		return "/admin"
	}
	return "/client"
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request, s auth.State) {
	if s.SignedIn() {
		http.Redirect(w, r, HomeFor(auth.ResolveRole(s)), http.StatusFound)
		return
	}
	c.renderer.Render(w, http.StatusOK, "login", page(s, "Login", c.links()))
}

// Signup hands off to the provider's hosted sign-up. Whatever role the
// provider lets the visitor pick there lands in unsafe metadata and is
// ignored for access decisions.
func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request, s auth.State) {
	if s.SignedIn() {
		http.Redirect(w, r, HomeFor(auth.ResolveRole(s)), http.StatusFound)
		return
	}
	c.renderer.Render(w, http.StatusOK, "signup", page(s, "Sign up", c.links()))
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.cfg.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
