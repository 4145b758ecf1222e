package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Tri-omph/backend/internal/config"
	"github.com/Tri-omph/backend/internal/es"
	"github.com/Tri-omph/backend/internal/events"
	"github.com/Tri-omph/backend/internal/handlers"
	"github.com/Tri-omph/backend/internal/logging"
	"github.com/Tri-omph/backend/internal/scancache"
	"github.com/Tri-omph/backend/internal/seed"
	"github.com/Tri-omph/backend/internal/service/gamification"
	"github.com/Tri-omph/backend/internal/service/roles"
	"github.com/Tri-omph/backend/internal/service/search"
	"github.com/Tri-omph/backend/internal/service/token"
	"github.com/Tri-omph/backend/internal/service/warning"
	httpserver "github.com/Tri-omph/backend/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LogLevel)
	slog.SetDefault(logger)
	ctx := logging.IntoContext(context.Background(), logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	if err := seed.EnsureMainAdmin(ctx, db, configuration.MAIN_ADMIN_EMAIL, configuration.MAIN_ADMIN_PASSWORD); err != nil {
		log.Fatalf("seeding main admin failed: %v", err)
	}
	if err := seed.EnsureCatalog(ctx, db); err != nil {
		log.Fatalf("seeding catalog failed: %v", err)
	}

	prod := events.NewProducer([]string{configuration.KAFKA_ADDRESS})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatalf("elasticsearch init failed: %v", err)
	}

	tokens := &token.Service{
		DB:            db,
		JWTSecret:     []byte(configuration.JWT_SECRET),
		RefreshSecret: []byte(configuration.REFRESH_SECRET),
	}
	warnings := warning.NewService(db, scancache.NewTracker())
	points := gamification.NewService(db)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logger)))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		Tokens:       tokens,
		Auth:         &handlers.AuthHandler{DB: db, Tokens: tokens, Producer: prod},
		Users:        &handlers.UserHandler{DB: db},
		Admin:        &handlers.AdminHandler{Roles: roles.NewService(db), Producer: prod},
		Scan:         &handlers.ScanHandler{DB: db, Warnings: warnings, Producer: prod, ScanThreshold: configuration.ScanThreshold},
		Sorting:      &handlers.SortingHandler{DB: db, Points: points, Producer: prod},
		Gamification: &handlers.GamificationHandler{Points: points},
		History:      &handlers.HistoryHandler{DB: db},
		Metrics:      &handlers.MetricsHandler{DB: db},
		Warnings:     &handlers.WarningHandler{DB: db, Warnings: warnings},
		Items:        &handlers.ItemHandler{DB: db, ES: esClient, Index: search.Index, Producer: prod},
		Search:       &handlers.SearchHandler{ES: esClient, Index: search.Index},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
