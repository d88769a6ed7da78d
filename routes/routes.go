package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"microblog/auth"
	"microblog/handlers"
	"microblog/logger"
	"microblog/monitoring"
	"microblog/repositories"
)

// SetupRoutes initializes all the application routes
// The routing logic is isolated here
func SetupRoutes(
	sessions *auth.Sessions,
	users repositories.UserRepository,
	userHandler *handlers.UserHandler,
	messageHandler *handlers.MessageHandler,
	systemHandler *handlers.SystemHandler,
) http.Handler {
	router := mux.NewRouter()
	loadUser := auth.LoadUser(sessions, users)
	router.Use(monitoring.InstrumentHandler, loadUser)

	loginRequired := auth.RequireLogin(sessions)
	protected := func(h http.HandlerFunc) http.Handler {
		return loginRequired(h)
	}

	// User routes
	router.HandleFunc("/register", userHandler.RegisterHandler).Methods("GET", "POST")
	router.HandleFunc("/login", userHandler.LoginHandler).Methods("GET", "POST")
	router.Handle("/logout", protected(userHandler.LogoutHandler)).Methods("GET")
	router.HandleFunc("/users", userHandler.UsersHandler).Methods("GET")
	router.Handle("/profile/{username}", protected(userHandler.ProfileHandler)).Methods("GET")
	router.Handle("/profile/{username}/edit", protected(userHandler.EditProfileHandler)).Methods("GET", "POST")

	// Message routes
	router.Handle("/", protected(messageHandler.FeedHandler)).Methods("GET", "POST")
	router.Handle("/create_post", protected(messageHandler.CreatePostHandler)).Methods("POST")
	router.Handle("/favorite/{message_id:[0-9]+}", protected(messageHandler.FavoriteHandler)).Methods("POST")
	router.Handle("/unfavorite/{message_id:[0-9]+}", protected(messageHandler.UnfavoriteHandler)).Methods("POST")
	router.Handle("/favorites", protected(messageHandler.FavoritesHandler)).Methods("GET")

	// System routes
	router.HandleFunc("/healthz", systemHandler.HealthHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.NotFoundHandler = loadUser(http.HandlerFunc(systemHandler.NotFoundHandler))

	return logger.Middleware(router)
}
