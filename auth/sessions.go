package auth

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"microblog/models"
)

const (
	sessionName = "microblog-session"
	userIDKey   = "user_id"
)

// Sessions keeps the logged-in user id and pending flash messages in a
// signed cookie. Changes are written by Save.
type Sessions struct {
	store sessions.Store
}

func NewSessions(secretKey string, maxAge time.Duration, secure bool) *Sessions {
	store := sessions.NewCookieStore([]byte(secretKey))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(int(maxAge / time.Second))
	return &Sessions{store: store}
}

// session returns the request's session. A cookie that fails verification
// (tampered, expired, signed with another key) yields a fresh one.
func (s *Sessions) session(r *http.Request) *sessions.Session {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		logrus.WithError(err).Debug("Discarding invalid session cookie")
	}
	return session
}

func (s *Sessions) Login(r *http.Request, user *models.User) {
	s.session(r).Values[userIDKey] = user.ID
}

func (s *Sessions) Logout(r *http.Request) {
	delete(s.session(r).Values, userIDKey)
}

// UserID returns the id stored by Login, if any.
func (s *Sessions) UserID(r *http.Request) (uint64, bool) {
	id, ok := s.session(r).Values[userIDKey].(uint64)
	return id, ok && id != 0
}

func (s *Sessions) AddFlash(r *http.Request, message string) {
	s.session(r).AddFlash(message)
}

// Flashes pops the pending flash messages.
func (s *Sessions) Flashes(r *http.Request) []string {
	var messages []string
	for _, f := range s.session(r).Flashes() {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

// Save writes the session cookie. It must run before the response header.
func (s *Sessions) Save(w http.ResponseWriter, r *http.Request) error {
	return s.session(r).Save(r, w)
}
