// @title NoteHub Backend API
// @version 1.0
// @description NoteHub Backend API for notes with AI summarization

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-auth-token

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"go.uber.org/zap"

	_ "NOTEHUB_BACK-END/docs" // This is required for swagger
	"NOTEHUB_BACK-END/internal/config"
	"NOTEHUB_BACK-END/internal/handlers"
	"NOTEHUB_BACK-END/internal/migrate"
	"NOTEHUB_BACK-END/internal/repository/postgres"
	"NOTEHUB_BACK-END/internal/routes"
	"NOTEHUB_BACK-END/internal/summarize"
	"NOTEHUB_BACK-END/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	dsn := cfg.GetDSN()

	// Apply schema migrations before opening the pool.
	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := migrate.Up(ctx, dsn); err != nil {
			logger.Fatal("run migrations", zap.Error(err))
		}
	}

	// pgxpool + simple protocol (needed when connecting through PgBouncer)
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Fatal("parse dsn", zap.Error(err))
	}
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	poolCfg.ConnConfig.RuntimeParams["application_name"] = "notehub-backend"
	poolCfg.ConnConfig.RuntimeParams["statement_timeout"] = "30000" // 30s
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	defer pool.Close()

	// Ping on boot so misconfiguration fails fast.
	{
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("ping database", zap.Error(err))
		}
	}

	db := postgres.New(pool)
	userRepo := postgres.NewUserRepo(db)
	noteRepo := postgres.NewNoteRepo(db)
	verificationRepo := postgres.NewVerificationRepo(db)

	emailService := utils.NewEmailService(&cfg.Email)
	aiClient := summarize.NewClient(&cfg.AI)

	h := routes.Handlers{
		Auth:           handlers.NewAuthHandler(userRepo, &cfg.JWT, logger),
		Notes:          handlers.NewNotesHandler(noteRepo, logger),
		AI:             handlers.NewAIHandler(aiClient, logger),
		Health:         handlers.NewHealthHandler(pool),
		GoogleAuth:     handlers.NewGoogleAuthHandler(userRepo, &cfg.GoogleOAuth, &cfg.JWT, logger),
		ForgotPassword: handlers.NewForgotPasswordHandler(userRepo, verificationRepo, emailService, &cfg.JWT, logger),
	}

	mux := http.NewServeMux()
	routes.SetupRoutes(mux, h, &cfg.JWT)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(mux),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen and serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("Server stopped.")
}
