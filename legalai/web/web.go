// Package web renders the server-side pages from embedded templates.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"os"

	"legalai/legalai/utils/logging"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed content.yaml
var defaultContent []byte

// Pages that can be rendered. Each is parsed together with base.html.
var pageNames = []string{
	"landing", "about", "faq", "contact",
	"login", "signup", "unauthorized", "loading",
	"client", "admin",
}

type Value struct {
	Name string `yaml:"name"`
	Text string `yaml:"text"`
}

type FAQItem struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// Content is the copy shown on the marketing pages.
type Content struct {
	Brand      string `yaml:"brand"`
	Disclaimer string `yaml:"disclaimer"`
	Landing    struct {
		Title   string   `yaml:"title"`
		Tagline string   `yaml:"tagline"`
		Badges  []string `yaml:"badges"`
	} `yaml:"landing"`
	About struct {
		Title      string   `yaml:"title"`
		Paragraphs []string `yaml:"paragraphs"`
		Values     []Value  `yaml:"values"`
		Why        string   `yaml:"why"`
		Disclaimer string   `yaml:"disclaimer"`
	} `yaml:"about"`
	FAQ struct {
		Intro    string    `yaml:"intro"`
		Items    []FAQItem `yaml:"items"`
		Followup string    `yaml:"followup"`
	} `yaml:"faq"`
	Contact struct {
		Title    string `yaml:"title"`
		Intro    string `yaml:"intro"`
		Thanks   string `yaml:"thanks"`
		Footnote string `yaml:"footnote"`
	} `yaml:"contact"`
}

// LoadContent reads the page copy from path, or the embedded default when
// path is empty.
func LoadContent(path string) (*Content, error) {
	data := defaultContent
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read content file: %w", err)
		}
		data = b
	}
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	return &c, nil
}

// Page is what every template receives.
type Page struct {
	Title    string
	SignedIn bool
	Role     string
	Content  *Content
	Data     interface{}
}

type Renderer struct {
	content *Content
	pages   map[string]*template.Template
}

func NewRenderer(content *Content) (*Renderer, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{content: content, pages: pages}, nil
}

func (r *Renderer) Content() *Content {
	return r.content
}

// Render writes page name with status. The page is executed into a buffer
// first so a template error never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) {
	t, ok := r.pages[name]
	if !ok {
		logging.ErrorLogger.Error("unknown page", zap.String("page", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if p.Content == nil {
		p.Content = r.content
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", p); err != nil {
		logging.ErrorLogger.Error("template execution failed", zap.String("page", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// Handler serves a fixed page with no visitor state.
func (r *Renderer) Handler(name, title string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.Render(w, http.StatusOK, name, Page{Title: title})
	})
}
