package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"microblog/models"
	"microblog/repositories"
)

// LoginRequiredMessage is flashed when an anonymous request hits a guarded route.
const LoginRequiredMessage = "Please log in to access this page."

type contextKey struct{}

// CurrentUser returns the logged-in user, or nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(contextKey{}).(*models.User)
	return user
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// LoadUser resolves the session's user id into the request context. An id
// whose user no longer exists leaves the request anonymous.
func LoadUser(s *Sessions, users repositories.UserRepository) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := s.UserID(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.FindByID(r.Context(), id)
			switch {
			case errors.Is(err, repositories.ErrNotFound):
				s.Logout(r)
			case err != nil:
				logrus.WithError(err).WithField("user_id", id).Error("Failed to load session user")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			default:
				r = r.WithContext(WithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireLogin redirects anonymous requests to the login page. GET requests
// carry their path in ?next= so login can send the user back.
func RequireLogin(s *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if CurrentUser(r.Context()) != nil {
				next.ServeHTTP(w, r)
				return
			}

			s.AddFlash(r, LoginRequiredMessage)
			if err := s.Save(w, r); err != nil {
				logrus.WithError(err).Error("Failed to save session")
			}

			target := "/login"
			if r.Method == http.MethodGet {
				target += "?next=" + url.QueryEscape(r.URL.RequestURI())
			}
			http.Redirect(w, r, target, http.StatusFound)
		})
	}
}

// SafeNext returns next when it is a path on this site and "/" otherwise.
// Browsers drop tabs and newlines and read backslashes as slashes, so any
// of those could turn a local path into //host.
func SafeNext(next string) string {
	if next == "" || strings.ContainsRune(next, '\\') || strings.IndexFunc(next, unicode.IsControl) >= 0 {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return "/"
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
