package main

import (
	"context"
	"log"
	"net/http"

	"securenotes/internal/api"
	"securenotes/internal/auth"
	"securenotes/internal/config"
	"securenotes/internal/router"
	"securenotes/internal/sanitize"
	"securenotes/internal/seed"
	"securenotes/internal/store/sqlstore"
	"securenotes/internal/web"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.FromEnv()

	logger, err := newLogger(cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	st, err := sqlstore.New(cfg.DBDriver, cfg.DBConn)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer st.Close()

	sanitizer := sanitize.New(cfg.Flag, seed.AdminUserID)
	authMgr := auth.NewManager(cfg.CookieSecret)

	// All writes happen here, before the server accepts traffic.
	seeder := seed.New(st, cfg.Flag, sanitizer, bcrypt.DefaultCost, logger)
	if err := seeder.Run(context.Background()); err != nil {
		logger.Fatal("fixture seeding failed", zap.Error(err))
	}

	webHandlers := web.NewHandlers(st, sanitizer, authMgr, logger)
	apiHandlers := api.NewHandlers(st, cfg.Flag, logger)
	handler := router.New(webHandlers, apiHandlers, authMgr, logger)

	// The challenge must be solvable or the server refuses to start.
	if err := seeder.Verify(handler); err != nil {
		logger.Fatal("challenge verification failed", zap.Error(err))
	}

	logger.Info("server started", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(format string) (*zap.Logger, error) {
	if format == "console" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
