package main

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"microblog/auth"
	"microblog/config"
	"microblog/database"
	"microblog/handlers"
	"microblog/logger"
	"microblog/repositories"
	"microblog/routes"
	"microblog/views"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	logger.InitLogger(cfg.LogLevel, cfg.LogFile)
	if cfg.UsesFallbackSecret() {
		logrus.Warn("SECRET_KEY is not set, signing sessions with the development key")
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	renderer, err := views.New()
	if err != nil {
		logrus.Fatalf("Failed to parse templates: %v", err)
	}

	userRepo := repositories.NewUserRepository(db.DB)
	messageRepo := repositories.NewMessageRepository(db.DB)
	favoriteRepo := repositories.NewFavoriteRepository(db.DB)

	sessions := auth.NewSessions(cfg.SecretKey, cfg.SessionMaxAge, cfg.SecureCookies)
	responder := handlers.NewResponder(sessions, renderer)

	router := routes.SetupRoutes(
		sessions,
		userRepo,
		handlers.NewUserHandler(responder, userRepo, messageRepo, auth.NewAuthenticator(userRepo)),
		handlers.NewMessageHandler(responder, messageRepo, favoriteRepo),
		handlers.NewSystemHandler(responder, db),
	)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logrus.WithField("addr", server.Addr).Info("Server started")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.Fatalf("Server stopped: %v", err)
	}
}
