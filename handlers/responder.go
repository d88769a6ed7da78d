package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"microblog/auth"
	"microblog/views"
)

// Responder holds what every handler needs to answer a request: the
// session (for flashes) and the page renderer.
type Responder struct {
	sessions *auth.Sessions
	views    *views.Renderer
}

func NewResponder(sessions *auth.Sessions, renderer *views.Renderer) *Responder {
	return &Responder{sessions: sessions, views: renderer}
}

func (rs *Responder) page(r *http.Request, title string) views.Page {
	return views.Page{Title: title, CurrentUser: auth.CurrentUser(r.Context())}
}

func (rs *Responder) flash(r *http.Request, message string) {
	rs.sessions.AddFlash(r, message)
}

func (rs *Responder) saveSession(w http.ResponseWriter, r *http.Request) {
	if err := rs.sessions.Save(w, r); err != nil {
		logrus.WithError(err).Error("Failed to save session")
	}
}

// render pops the pending flashes into the page and writes it.
func (rs *Responder) render(w http.ResponseWriter, r *http.Request, status int, name string, page views.Page) {
	page.Flashes = rs.sessions.Flashes(r)
	rs.saveSession(w, r)
	if err := rs.views.Render(w, status, name, page); err != nil {
		rs.serverError(w, r, err)
	}
}

func (rs *Responder) redirect(w http.ResponseWriter, r *http.Request, url string) {
	rs.saveSession(w, r)
	http.Redirect(w, r, url, http.StatusFound)
}

func (rs *Responder) notFound(w http.ResponseWriter, r *http.Request) {
	rs.render(w, r, http.StatusNotFound, "not_found", rs.page(r, "Not Found"))
}

func (rs *Responder) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logrus.WithError(err).WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error("Request failed")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
