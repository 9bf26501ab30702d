// kotoba-engine is the backend for a Japanese-language learning app:
// sentence translation with grammatical breakdowns via an external model,
// Google sign-in, and per-user saved vocabulary.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/kotoba-app/kotoba-engine/pkg/auth"
	"github.com/kotoba-app/kotoba-engine/pkg/config"
	"github.com/kotoba-app/kotoba-engine/pkg/database"
	"github.com/kotoba-app/kotoba-engine/pkg/handlers"
	"github.com/kotoba-app/kotoba-engine/pkg/llm"
	"github.com/kotoba-app/kotoba-engine/pkg/middleware"
	"github.com/kotoba-app/kotoba-engine/pkg/repositories"
	"github.com/kotoba-app/kotoba-engine/pkg/services"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "kotoba-engine: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(Version)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var logger *zap.Logger
	if cfg.Env == "local" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("starting kotoba-engine",
		zap.String("version", cfg.Version),
		zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Migrations run over database/sql; the pgx stdlib driver shares the
	// connection settings with the pool below.
	migrationDB, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	if err := database.RunMigrations(migrationDB, cfg.MigrationsPath, logger); err != nil {
		migrationDB.Close()
		return err
	}
	migrationDB.Close()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.URL(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	// The model client is optional: without a credential the translate
	// endpoint reports a configuration error and everything else works.
	var generator llm.TextGenerator
	client, err := llm.NewClient(&llm.Config{
		APIKey:    cfg.Anthropic.APIKey,
		Model:     cfg.Anthropic.Model,
		MaxTokens: cfg.Anthropic.MaxTokens,
		Timeout:   cfg.Anthropic.Timeout(),
	}, logger)
	if err != nil {
		logger.Warn("translation disabled", zap.Error(err))
	} else {
		generator = client
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, 24*time.Hour)
	authMiddleware := auth.NewMiddleware(tokens, logger)

	vocabularyRepo := repositories.NewVocabularyRepository(db.Pool)

	translationSvc := services.NewTranslationService(generator, logger)
	vocabularySvc := services.NewVocabularyService(vocabularyRepo, logger)
	oauthSvc := services.NewOAuthService(&cfg.OAuth, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg.Version).RegisterRoutes(mux)
	handlers.NewTranslateHandler(translationSvc, cfg.Anthropic.Timeout(), logger).RegisterRoutes(mux)
	handlers.NewVocabularyHandler(vocabularySvc, authMiddleware, logger).RegisterRoutes(mux)
	handlers.NewOAuthHandler(oauthSvc, tokens, cfg.FrontendURL, logger).RegisterRoutes(mux)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
