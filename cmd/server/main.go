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

	"shop-backend/internal/config"
	"shop-backend/internal/es"
	"shop-backend/internal/handlers"
	"shop-backend/internal/logging"
	loggingmw "shop-backend/internal/middleware/logging"
	"shop-backend/internal/mykafka"
	"shop-backend/internal/repo"
	"shop-backend/internal/service"
	"shop-backend/internal/storage"
	"shop-backend/internal/token"
	httpserver "shop-backend/internal/transport/http"
	"shop-backend/internal/upload"
	"shop-backend/internal/ws"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LogLevel).With("service", "shop-backend")
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	var store storage.Store
	uploadDir := ""
	if configuration.S3Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		s3store, err := storage.NewS3Store(ctx, configuration.S3Bucket, configuration.S3Region, configuration.S3Endpoint)
		cancel()
		if err != nil {
			log.Fatalf("s3 init: %v", err)
		}
		store = s3store
	} else {
		disk, err := storage.NewDiskStore(configuration.UploadDir)
		if err != nil {
			log.Fatalf("upload dir: %v", err)
		}
		store = disk
		uploadDir = configuration.UploadDir
	}

	ingestor := upload.NewIngestor(store, configuration.BaseURL, configuration.UploadMaxBytes, configuration.UploadAllowedTypes)

	var producer *mykafka.Producer
	if len(configuration.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(configuration.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka init: %v", err)
		}
	}

	esClient, err := es.NewClient(configuration, logger)
	if err != nil {
		logger.Warn("elasticsearch unavailable, search falls back to database", "error", err)
	}

	hub := ws.NewHub(configuration.AllowedOrigin, logger.With("component", "ws"))

	tokens := &token.Service{Secret: configuration.JWT_SECRET}
	repository := &repo.GormRepo{DB: db}

	deps := httpserver.Deps{
		AuthHandler: &handlers.AuthHandler{Svc: &service.AuthService{
			Repo:       repository,
			Tokens:     tokens,
			BcryptCost: configuration.BcryptCost,
			Producer:   producer,
		}},
		ProductHandler: &handlers.ProductHandler{Svc: &service.ProductService{
			Repo:     repository,
			Uploads:  ingestor,
			Producer: producer,
			Hub:      hub,
			ES:       esClient,
			ESIndex:  configuration.ES_INDEX,
		}},
		PhotoHandler: &handlers.PhotoHandler{Svc: &service.PhotoService{
			Repo:     repository,
			Uploads:  ingestor,
			Producer: producer,
		}},
		Tokens:        tokens,
		Hub:           hub,
		PublicCatalog: configuration.PublicCatalog,
		UploadDir:     uploadDir,
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{configuration.AllowedOrigin},
	}))
	// Cap the whole request body a little above the upload ceiling so the
	// multipart framing itself fits; the ingestor enforces the exact limit.
	// The unit must be binary (Ki = 1024): with the decimal K a 5 MiB
	// ceiling would yield a request cap below the ceiling itself.
	e.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		Limit: httpserver.BodyLimit(configuration.UploadMaxBytes),
	}))

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", configuration.ServerPort),
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
	logger.Info("listening", "addr", srv.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	hub.Close()

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
