package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"microblog/models"
	"microblog/repositories"
)

const testSecret = "development-key"

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestSessions_LoginRoundTrip(t *testing.T) {
	s := NewSessions(testSecret, time.Hour, false)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rr := httptest.NewRecorder()
	s.Login(req, &models.User{ID: 42})
	require.NoError(t, s.Save(rr, req))

	cookie := sessionCookie(t, rr)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 3600, cookie.MaxAge)

	// the cookie is signed with the secret key
	values := make(map[interface{}]interface{})
	require.NoError(t, securecookie.New([]byte(testSecret), nil).Decode(sessionName, cookie.Value, &values))
	assert.Equal(t, uint64(42), values[userIDKey])

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookie)
	id, ok := s.UserID(next)
	assert.True(t, ok)
	assert.Equal(t, uint64(42), id)

	s.Logout(next)
	_, ok = s.UserID(next)
	assert.False(t, ok)
}

func TestSessions_RejectsForeignSignature(t *testing.T) {
	s := NewSessions(testSecret, time.Hour, false)
	other := NewSessions("another-key", time.Hour, false)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rr := httptest.NewRecorder()
	other.Login(req, &models.User{ID: 1})
	require.NoError(t, other.Save(rr, req))

	forged := httptest.NewRequest(http.MethodGet, "/", nil)
	forged.AddCookie(sessionCookie(t, rr))
	_, ok := s.UserID(forged)
	assert.False(t, ok)
}

func TestSessions_FlashesArePoppedOnce(t *testing.T) {
	s := NewSessions(testSecret, time.Hour, false)

	req := httptest.NewRequest(http.MethodPost, "/create_post", nil)
	rr := httptest.NewRecorder()
	s.AddFlash(req, "first")
	s.AddFlash(req, "second")
	require.NoError(t, s.Save(rr, req))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(sessionCookie(t, rr))
	assert.Equal(t, []string{"first", "second"}, s.Flashes(next))
	assert.Empty(t, s.Flashes(next))
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/favorites", SafeNext("/favorites"))
	assert.Equal(t, "/profile/alice?x=1", SafeNext("/profile/alice?x=1"))
	assert.Equal(t, "/", SafeNext(""))
	assert.Equal(t, "/", SafeNext("https://evil.example"))
	assert.Equal(t, "/", SafeNext("//evil.example"))
	assert.Equal(t, "/", SafeNext("/\\evil.example"))
	assert.Equal(t, "/", SafeNext("/\t/evil.example"))
	assert.Equal(t, "/", SafeNext("/\n/evil.example"))
	assert.Equal(t, "/", SafeNext("/\r/evil.example"))
	assert.Equal(t, "/", SafeNext("/profile\\..\\..\\evil"))
	assert.Equal(t, "/", SafeNext("javascript:alert(1)"))
	assert.Equal(t, "/", SafeNext("favorites"))
	assert.Equal(t, "/", SafeNext("/%zz"))
}

func loggedInRequest(t *testing.T, s *Sessions, id uint64) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	s.Login(req, &models.User{ID: id})
	require.NoError(t, s.Save(rr, req))

	next := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	next.AddCookie(sessionCookie(t, rr))
	return next
}

func TestLoadUser(t *testing.T) {
	s := NewSessions(testSecret, time.Hour, false)
	repo := new(mockUserRepository)
	alice := &models.User{ID: 1, Username: "alice"}
	repo.On("FindByID", mock.Anything, uint64(1)).Return(alice, nil)
	repo.On("FindByID", mock.Anything, uint64(2)).Return(nil, repositories.ErrNotFound)
	repo.On("FindByID", mock.Anything, uint64(3)).Return(nil, errors.New("db down"))

	var seen *models.User
	h := LoadUser(s, repo)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CurrentUser(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), loggedInRequest(t, s, 1))
	require.NotNil(t, seen)
	assert.Equal(t, "alice", seen.Username)

	seen = nil
	h.ServeHTTP(httptest.NewRecorder(), loggedInRequest(t, s, 2))
	assert.Nil(t, seen)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Nil(t, seen)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, loggedInRequest(t, s, 3))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRequireLogin(t *testing.T) {
	s := NewSessions(testSecret, time.Hour, false)
	called := false
	h := RequireLogin(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/favorites", nil))
	assert.False(t, called)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login?next=%2Ffavorites", rr.Header().Get("Location"))

	next := httptest.NewRequest(http.MethodGet, "/login", nil)
	next.AddCookie(sessionCookie(t, rr))
	assert.Equal(t, []string{LoginRequiredMessage}, s.Flashes(next))

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/create_post", nil))
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/favorites", nil)
	req = req.WithContext(WithUser(context.Background(), &models.User{ID: 1}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, called)
}
