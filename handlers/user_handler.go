package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"

	"microblog/auth"
	"microblog/monitoring"
	"microblog/repositories"
)

// UserHandler serves registration, login and profile pages.
type UserHandler struct {
	*Responder
	users    repositories.UserRepository
	messages repositories.MessageRepository
	auth     *auth.Authenticator
}

func NewUserHandler(rs *Responder, users repositories.UserRepository, messages repositories.MessageRepository, authenticator *auth.Authenticator) *UserHandler {
	return &UserHandler{Responder: rs, users: users, messages: messages, auth: authenticator}
}

func (h *UserHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, "register", h.page(r, "Register"))
		return
	}

	form := registerForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	if msg := problem(form); msg != "" {
		monitoring.RegisterFailure.WithLabelValues("invalid_form").Inc()
		h.flash(r, msg)
		h.redirect(w, r, "/register")
		return
	}

	_, err := h.auth.Register(r.Context(), form.Username, form.Email, form.Password)
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		monitoring.RegisterFailure.WithLabelValues("email_taken").Inc()
		h.flash(r, "Email address already exists")
		h.redirect(w, r, "/register")
	case errors.Is(err, auth.ErrUsernameTaken):
		monitoring.RegisterFailure.WithLabelValues("username_taken").Inc()
		h.flash(r, "Username already exists")
		h.redirect(w, r, "/register")
	case err != nil:
		h.serverError(w, r, err)
	default:
		monitoring.RegisterSuccess.Inc()
		h.flash(r, "Congratulations, you are now a registered user!")
		h.redirect(w, r, "/login")
	}
}

func (h *UserHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	page := h.page(r, "Log in")
	page.Next = r.URL.Query().Get("next")
	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, "login", page)
		return
	}

	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	page.Form = map[string]string{"email": form.Email}
	if problem(form) != "" {
		monitoring.LoginFailure.WithLabelValues("invalid_form").Inc()
		h.flash(r, "Email and password are required.")
		h.render(w, r, http.StatusBadRequest, "login", page)
		return
	}

	user, err := h.auth.Authenticate(r.Context(), form.Email, form.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		monitoring.LoginFailure.WithLabelValues("invalid_credentials").Inc()
		h.flash(r, "Invalid email or password")
		h.render(w, r, http.StatusUnauthorized, "login", page)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	monitoring.LoginSuccess.Inc()
	h.sessions.Login(r, user)
	h.redirect(w, r, auth.SafeNext(page.Next))
}

func (h *UserHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r)
	h.redirect(w, r, "/")
}

func (h *UserHandler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.FindByUsername(r.Context(), mux.Vars(r)["username"])
	if errors.Is(err, repositories.ErrNotFound) {
		h.notFound(w, r)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	messages, err := h.messages.ByAuthor(r.Context(), user.ID, auth.CurrentUser(r.Context()).ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	page := h.page(r, user.Name())
	page.User = user
	page.Messages = messages
	h.render(w, r, http.StatusOK, "profile", page)
}

// EditProfileHandler only lets users edit their own profile. Anyone else is
// sent back to the profile with a flash.
func (h *UserHandler) EditProfileHandler(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	profileURL := "/profile/" + url.PathEscape(username)

	current := auth.CurrentUser(r.Context())
	if current.Username != username {
		h.flash(r, "You can only edit your own profile.")
		h.redirect(w, r, profileURL)
		return
	}

	page := h.page(r, "Edit profile")
	page.User = current
	if r.Method != http.MethodPost {
		page.Form = map[string]string{
			"display_name": deref(current.DisplayName),
			"bio":          deref(current.Bio),
		}
		h.render(w, r, http.StatusOK, "edit_profile", page)
		return
	}

	form := profileForm{
		DisplayName: strings.TrimSpace(r.PostFormValue("display_name")),
		Bio:         r.PostFormValue("bio"),
	}
	if msg := problem(form); msg != "" {
		page.Form = map[string]string{"display_name": form.DisplayName, "bio": form.Bio}
		h.flash(r, msg)
		h.render(w, r, http.StatusBadRequest, "edit_profile", page)
		return
	}

	if err := h.users.UpdateProfile(r.Context(), current.ID, form.DisplayName, form.Bio); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.flash(r, "Your profile has been updated.")
	h.redirect(w, r, profileURL)
}

func (h *UserHandler) UsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListByUsername(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	page := h.page(r, "Users")
	page.Users = users
	h.render(w, r, http.StatusOK, "users", page)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
