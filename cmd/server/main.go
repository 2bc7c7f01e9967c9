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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/luxeshop/internal/config"
	"github.com/Skotchmaster/luxeshop/internal/dispatch"
	"github.com/Skotchmaster/luxeshop/internal/es"
	"github.com/Skotchmaster/luxeshop/internal/events"
	"github.com/Skotchmaster/luxeshop/internal/handlers"
	"github.com/Skotchmaster/luxeshop/internal/logging"
	loggingmw "github.com/Skotchmaster/luxeshop/internal/middleware/logging"
	"github.com/Skotchmaster/luxeshop/internal/seed"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	if err := seed.EnsureAdmin(db, configuration.ADMIN_EMAIL, configuration.ADMIN_PASSWORD); err != nil {
		log.Fatalf("seed error: %v", err)
	}
	if err := seed.Products(db); err != nil {
		log.Fatalf("seed error: %v", err)
	}

	topics := []string{
		events.TopicUserEvents,
		events.TopicProductEvents,
		events.TopicCartEvents,
		events.TopicOrderEvents,
	}
	prod, err := events.NewProducer([]string{configuration.KAFKA_ADDRESS}, topics)
	if err != nil {
		log.Fatalf("kafka init error: %v", err)
	}

	deps := handlers.Deps{
		DB:        db,
		Producer:  prod,
		ESIndex:   "products",
		JWTSecret: []byte(configuration.JWT_SECRET),
	}
	if configuration.ES_URL != "" {
		client, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		deps.ES = client
	}

	d := dispatch.New([]byte(configuration.JWT_SECRET))
	handlers.Register(d, deps)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	e.POST("/api", d.Handle)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "OK", "timestamp": time.Now().Unix()})
	})

	srv := &http.Server{
		Addr:         ":" + configuration.HTTP_PORT,
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
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
