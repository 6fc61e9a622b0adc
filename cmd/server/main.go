package main

import (
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/tripfolio/tripfolio/internal/auth"
	"github.com/tripfolio/tripfolio/internal/config"
	"github.com/tripfolio/tripfolio/internal/server"
	"github.com/tripfolio/tripfolio/internal/storage/sqlite"
	"github.com/tripfolio/tripfolio/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	srv := server.New(store, authenticator, jwtManager)

	// h2c allows HTTP/2 without TLS for deployments behind a TLS-terminating
	// proxy.
	handler := h2c.NewHandler(srv.Router(), &http2.Server{})

	slog.Info("Server starting", "address", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
