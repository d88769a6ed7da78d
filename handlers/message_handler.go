package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"microblog/auth"
	"microblog/models"
	"microblog/monitoring"
	"microblog/repositories"
)

// FeedLimit is how many messages the feed shows.
const FeedLimit = 20

// MessageHandler serves the feed, posting and favorites.
type MessageHandler struct {
	*Responder
	messages  repositories.MessageRepository
	favorites repositories.FavoriteRepository
}

func NewMessageHandler(rs *Responder, messages repositories.MessageRepository, favorites repositories.FavoriteRepository) *MessageHandler {
	return &MessageHandler{Responder: rs, messages: messages, favorites: favorites}
}

// FeedHandler renders the latest messages on GET and posts one on POST.
func (h *MessageHandler) FeedHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		h.CreatePostHandler(w, r)
		return
	}

	messages, err := h.messages.Latest(r.Context(), auth.CurrentUser(r.Context()).ID, FeedLimit)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	page := h.page(r, "Feed")
	page.Messages = messages
	h.render(w, r, http.StatusOK, "index", page)
}

// CreatePostHandler stores 1 to 200 characters of content. Anything else
// is flashed back to the feed and never reaches the store.
func (h *MessageHandler) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	form := postForm{Content: r.PostFormValue("content")}
	if msg := form.contentProblem(); msg != "" {
		h.flash(r, msg)
		h.redirect(w, r, "/")
		return
	}

	current := auth.CurrentUser(r.Context())
	message := &models.Message{UserID: current.ID, Content: form.Content}
	if err := h.messages.Create(r.Context(), message); err != nil {
		h.serverError(w, r, err)
		return
	}

	monitoring.MessagesPosted.Inc()
	logrus.WithFields(logrus.Fields{"user_id": current.ID, "message_id": message.ID}).Info("Message posted")
	h.flash(r, "Your message has been posted!")
	h.redirect(w, r, "/")
}

func (h *MessageHandler) FavoriteHandler(w http.ResponseWriter, r *http.Request) {
	message, ok := h.lookupMessage(w, r)
	if !ok {
		return
	}

	added, err := h.favorites.Add(r.Context(), auth.CurrentUser(r.Context()).ID, message.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if added {
		monitoring.FavoritesAdded.Inc()
		h.flash(r, "Message added to favorites!")
	}
	h.redirect(w, r, "/")
}

func (h *MessageHandler) UnfavoriteHandler(w http.ResponseWriter, r *http.Request) {
	message, ok := h.lookupMessage(w, r)
	if !ok {
		return
	}

	removed, err := h.favorites.Remove(r.Context(), auth.CurrentUser(r.Context()).ID, message.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if removed {
		monitoring.FavoritesRemoved.Inc()
		h.flash(r, "Message removed from favorites!")
	}
	h.redirect(w, r, "/")
}

func (h *MessageHandler) FavoritesHandler(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messages.FavoritedBy(r.Context(), auth.CurrentUser(r.Context()).ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	page := h.page(r, "Favorites")
	page.Messages = messages
	h.render(w, r, http.StatusOK, "favorites", page)
}

// lookupMessage resolves the {message_id} path variable, answering 404 for
// ids that do not exist.
func (h *MessageHandler) lookupMessage(w http.ResponseWriter, r *http.Request) (*models.Message, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["message_id"], 10, 64)
	if err != nil {
		h.notFound(w, r)
		return nil, false
	}

	message, err := h.messages.FindByID(r.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		h.notFound(w, r)
		return nil, false
	}
	if err != nil {
		h.serverError(w, r, err)
		return nil, false
	}
	return message, true
}
