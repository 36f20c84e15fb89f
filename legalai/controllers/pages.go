package controllers

import (
	"net/http"
	"net/mail"
	"strings"

	"legalai/legalai/auth"
	"legalai/legalai/utils/logging"
	"legalai/legalai/utils/types"
	"legalai/legalai/web"

	"go.uber.org/zap"
)

// page fills in the navbar state every template needs.
func page(s auth.State, title string, data interface{}) web.Page {
	return web.Page{
		Title:    title,
		SignedIn: s.SignedIn(),
		Role:     string(auth.ResolveRole(s)),
		Data:     data,
	}
}

type PagesController struct {
	renderer *web.Renderer
}

func NewPagesController(renderer *web.Renderer) *PagesController {
	return &PagesController{renderer: renderer}
}

func (c *PagesController) Landing(w http.ResponseWriter, r *http.Request, s auth.State) {
	c.renderer.Render(w, http.StatusOK, "landing", page(s, "", nil))
}

func (c *PagesController) About(w http.ResponseWriter, r *http.Request, s auth.State) {
	c.renderer.Render(w, http.StatusOK, "about", page(s, "About", nil))
}

func (c *PagesController) FAQ(w http.ResponseWriter, r *http.Request, s auth.State) {
	c.renderer.Render(w, http.StatusOK, "faq", page(s, "FAQ", nil))
}

type ContactData struct {
	Form   types.ContactRequest
	Errors map[string]string
	Sent   bool
}

func (c *PagesController) Contact(w http.ResponseWriter, r *http.Request, s auth.State) {
	c.renderer.Render(w, http.StatusOK, "contact", page(s, "Contact", ContactData{}))
}

// SubmitContact validates the form and logs it. Nothing is sent anywhere.
func (c *PagesController) SubmitContact(w http.ResponseWriter, r *http.Request, s auth.State) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	req := types.ContactRequest{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Email:   strings.TrimSpace(r.PostFormValue("email")),
		Message: strings.TrimSpace(r.PostFormValue("message")),
	}
	if errs := ValidateContact(req); len(errs) > 0 {
		c.renderer.Render(w, http.StatusUnprocessableEntity, "contact", page(s, "Contact", ContactData{Form: req, Errors: errs}))
		return
	}
	logging.AppLogger.Info("contact form submitted",
		zap.String("name", req.Name),
		zap.String("email", req.Email),
		zap.Int("message_len", len(req.Message)),
	)
	c.renderer.Render(w, http.StatusOK, "contact", page(s, "Contact", ContactData{Sent: true}))
}

func ValidateContact(req types.ContactRequest) map[string]string {
	errs := map[string]string{}
	if req.Name == "" {
		errs["name"] = "Please enter your name."
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		errs["email"] = "Please enter a valid email address."
	}
	if req.Message == "" {
		errs["message"] = "Please enter a message."
	}
	return errs
}

func (c *PagesController) Unauthorized(w http.ResponseWriter, r *http.Request, s auth.State) {
	c.renderer.Render(w, http.StatusForbidden, "unauthorized", page(s, "Unauthorized", nil))
}
