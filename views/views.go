package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"microblog/dto"
	"microblog/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"index",
	"register",
	"login",
	"favorites",
	"profile",
	"edit_profile",
	"users",
	"not_found",
}

// Page is the data every template receives. Handlers fill in the fields
// their page uses.
type Page struct {
	Title       string
	CurrentUser *models.User
	Flashes     []string
	Messages    []dto.MessageDTO
	User        *models.User
	Users       []models.User
	Next        string
	Form        map[string]string
}

// IsCurrentUser reports whether u is the logged-in user.
func (p Page) IsCurrentUser(u *models.User) bool {
	return p.CurrentUser != nil && u != nil && p.CurrentUser.ID == u.ID
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"timestamp": func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04")
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

// New parses every page together with the shared layout.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the named page into a buffer and only then writes the
// status and body, so a template failure never leaves a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
