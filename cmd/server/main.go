package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ekoshkina/webshop/internal/config"
	"github.com/ekoshkina/webshop/internal/db"
	"github.com/ekoshkina/webshop/internal/es"
	"github.com/ekoshkina/webshop/internal/events"
	"github.com/ekoshkina/webshop/internal/httpserver"
	"github.com/ekoshkina/webshop/internal/logging"
	loggingmw "github.com/ekoshkina/webshop/internal/middleware/logging"
	"github.com/ekoshkina/webshop/internal/repo"
	"github.com/ekoshkina/webshop/internal/service"
	"github.com/ekoshkina/webshop/internal/service/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.RefreshSecret, "REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx := context.Background()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
	}

	r := repo.New(database)

	deps := &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			Svc:      &service.AuthService{Repo: r, JWTSecret: cfg.JWTSecret, RefreshSecret: cfg.RefreshSecret},
			Producer: eventPublisher(producer),
		},
		CartHandler: &httpserver.CartHTTP{
			Svc:      &service.CartService{Repo: r},
			Producer: eventPublisher(producer),
		},
		CatalogHandler: &httpserver.CatalogHTTP{
			Svc:      &service.CatalogService{Repo: r},
			ESIndex:  cfg.ESIndex,
			Producer: eventPublisher(producer),
		},
		SearchHandler: &httpserver.SearchHTTP{Index: cfg.ESIndex},
		TokenService:  &token.TokenService{Repo: r, JWTSecret: cfg.JWTSecret, RefreshSecret: cfg.RefreshSecret},
	}

	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("es init: %v", err)
		}
		deps.CatalogHandler.ES = esClient
		deps.SearchHandler.ES = esClient
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// eventPublisher keeps a nil *events.Producer from becoming a non-nil
// interface value in the handlers.
func eventPublisher(p *events.Producer) httpserver.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}
