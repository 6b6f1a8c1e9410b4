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

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/online_store/internal/config"
	"github.com/Skotchmaster/online_store/internal/db"
	"github.com/Skotchmaster/online_store/internal/events"
	"github.com/Skotchmaster/online_store/internal/httpserver"
	"github.com/Skotchmaster/online_store/internal/logging"
	"github.com/Skotchmaster/online_store/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/online_store/internal/middleware/logging"
	"github.com/Skotchmaster/online_store/internal/repo"
	"github.com/Skotchmaster/online_store/internal/search"
	"github.com/Skotchmaster/online_store/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if cfg.DBAutoMigrate {
		if err := db.AutoMigrate(gdb); err != nil {
			log.Fatalf("db migrate: %v", err)
		}
	}

	store := repo.New(gdb)

	var itemEvents, cartEvents events.Publisher = events.Nop{}, events.Nop{}
	var producers []*events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		ip := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaItemTopic)
		cp := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaCartTopic)
		producers = append(producers, ip, cp)
		itemEvents, cartEvents = ip, cp
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	catalog := &service.CatalogService{
		Repo:   store,
		Events: itemEvents,
		Policy: service.DeletePolicy(cfg.DeletePolicy),
	}
	if cfg.ESURL != "" {
		client, err := search.NewClient(initCtx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("search_disabled", "error", err)
		} else {
			idx := &search.ESIndex{Client: client, Index: cfg.ESIndex}
			if err := idx.EnsureIndex(initCtx); err != nil {
				logger.Warn("search_index_unavailable", "error", err)
			}
			catalog.Index = idx
			if n, err := catalog.Reindex(initCtx); err != nil {
				logger.Warn("search_reindex_failed", "indexed", n, "error", err)
			} else {
				logger.Info("search_reindexed", "items", n)
			}
		}
	}

	auth := &service.AuthService{Repo: store, JWTSecret: cfg.JWTSecret, TokenTTL: cfg.TokenTTL}
	if cfg.AdminUsername != "" {
		if err := auth.EnsureAdmin(initCtx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Fatalf("bootstrap admin: %v", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.BodyLimit(cfg.BodyLimit))
	e.Use(echomw.ContextTimeout(cfg.RequestTimeout))
	e.Use(echomw.CORS())
	e.Use(echomw.Secure())
	if cfg.CSRFEnabled {
		e.Use(csrf.Middleware(csrf.Config{
			Secure:            cfg.CookieSecure,
			EnforceSameOrigin: true,
			SkipPaths:         []string{"/api/auth/login", "/api/auth/register"},
		}))
	}

	httpserver.Register(e, &httpserver.Deps{
		ItemHandler: &httpserver.ItemHTTP{Svc: catalog},
		CartHandler: &httpserver.CartHTTP{
			Svc:     &service.CartService{Repo: store, Events: cartEvents},
			Users:   &service.UserService{Repo: store},
			Catalog: catalog,
		},
		AuthHandler:   &httpserver.AuthHTTP{Svc: auth},
		HealthHandler: &httpserver.HealthHTTP{DB: gdb},
		JWTSecret:     cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("server_stopping")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	for _, p := range producers {
		if err := p.Close(); err != nil {
			logger.Warn("kafka_close_failed", "topic", p.Topic(), "error", err)
		}
	}
	if err := db.Close(gdb); err != nil {
		logger.Warn("db_close_failed", "error", err)
	}

	logger.Info("server_stopped")
}
