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
	"github.com/redis/go-redis/v9"

	"dinehub/internal/cart"
	"dinehub/internal/catalog"
	"dinehub/internal/config"
	"dinehub/internal/es"
	"dinehub/internal/handlers"
	authhdl "dinehub/internal/handlers/auth"
	carthdl "dinehub/internal/handlers/cart"
	"dinehub/internal/logging"
	"dinehub/internal/mykafka"
	"dinehub/internal/notify"
	"dinehub/internal/qr"
	"dinehub/internal/session"
	httpserver "dinehub/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	prod, err := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
	if err != nil {
		log.Fatal(err)
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Printf("elasticsearch unavailable, search disabled: %v", err)
		esClient = nil
	}

	var cache *redis.Client
	if configuration.REDIS_ADDR != "" {
		cache = redis.NewClient(&redis.Options{Addr: configuration.REDIS_ADDR})
	}

	rootCtx, rootCancel := context.WithCancel(logging.IntoContext(context.Background(), logger))
	defer rootCancel()

	cartStore := cart.NewStore()
	catalogSvc := &catalog.Service{DB: db, Cache: cache}
	sessions := session.NewManager(session.JWTVerifier{Secret: jwtSecret})
	center := notify.NewCenter(notify.NewClient(configuration.NOTIFY_URL), notify.DefaultInterval, logger)
	center.Start(rootCtx)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		Sessions: sessions,
		AuthHandler: &authhdl.AuthHandler{
			DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod,
		},
		CatalogHandler: &handlers.CatalogHandler{
			Catalog: catalogSvc, Producer: prod, ES: esClient, ESIndex: "menu_items",
		},
		CartHandler: &carthdl.CartHandler{
			Store: cartStore, Catalog: catalogSvc, Producer: prod,
		},
		OrderHandler: &handlers.OrderHandler{
			DB: db, Store: cartStore, Producer: prod,
		},
		ReservationHandler: &handlers.ReservationHandler{
			DB: db, Producer: prod, QR: qr.Generator{BaseURL: configuration.PUBLIC_URL},
		},
		NotificationHandler: &handlers.NotificationHandler{Center: center},
		SearchHandler:       &handlers.SearchHandler{ES: esClient, Index: "menu_items"},
		AdminHandler:        &handlers.AdminHandler{DB: db},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":8080",
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
	rootCancel()
	center.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}
	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}
	if cache != nil {
		if err := cache.Close(); err != nil {
			log.Printf("redis close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
