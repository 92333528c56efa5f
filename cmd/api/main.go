package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/snappy-loop/dearme/internal/auth"
	"github.com/snappy-loop/dearme/internal/config"
	"github.com/snappy-loop/dearme/internal/database"
	"github.com/snappy-loop/dearme/internal/handlers"
	"github.com/snappy-loop/dearme/internal/kafka"
	"github.com/snappy-loop/dearme/internal/llm"
	"github.com/snappy-loop/dearme/internal/localstore"
	"github.com/snappy-loop/dearme/internal/logging"
	"github.com/snappy-loop/dearme/internal/notify"
	"github.com/snappy-loop/dearme/internal/processor"
	"github.com/snappy-loop/dearme/internal/services"
	"github.com/snappy-loop/dearme/internal/settings"
	"github.com/snappy-loop/dearme/internal/storage"
	"github.com/snappy-loop/dearme/migrations"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogJSON)

	log.Info().Str("storage_backend", cfg.StorageBackend).Msg("Starting Dear Me studio API")

	ctx := context.Background()

	var (
		projectRepo   services.ProjectRepository
		settingsStore settings.Store
		health        handlers.HealthFunc
	)
	if cfg.UsePostgres() {
		db, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		if err := migrations.Run(ctx, db.DB); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		projectRepo = database.NewProjectRepository(db)
		settingsStore = database.NewSettingsRepository(db)
		health = db.Health
	} else {
		kv, err := localstore.Open(cfg.LocalStorePath)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open local store")
		}
		projectRepo = services.NewLocalProjectRepository(kv)
		settingsStore = settings.NewLocalStore(kv)
	}

	var assets services.AssetStore
	if cfg.ExportEnabled() {
		storageClient, err := storage.NewClient(ctx, storage.Options{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize storage client")
		}
		assets = storageClient
	} else {
		log.Info().Msg("S3_BUCKET not set, asset export disabled")
	}

	var events processor.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicEvents)
		defer producer.Close()
		events = producer
	}

	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("No ambient Gemini API key; Gemini calls need a key in settings")
	}
	router := llm.NewRouter(llm.Options{
		GeminiAPIKey:      cfg.GeminiAPIKey,
		GeminiAPIEndpoint: cfg.GeminiAPIEndpoint,
		GeminiModelImage:  cfg.GeminiModelImage,
		GeminiModelTTS:    cfg.GeminiModelTTS,
		GeminiTTSVoice:    cfg.GeminiTTSVoice,
	})

	hub := notify.NewHub(cfg.NotifyBufferSize)
	projectService := services.NewProjectService(projectRepo, assets)
	episodes := processor.NewEpisodeProcessor(projectService, settingsStore, router, hub, events)

	h := handlers.NewHandler(projectService, episodes, settingsStore, hub, health)
	authService := auth.NewService(cfg.APIKeyHash)

	r := mux.NewRouter()
	api := r.PathPrefix("/v1").Subrouter()
	api.Use(authService.Middleware)
	h.Register(r, api)

	srv := &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// Generation blocks until every provider call settles.
		WriteTimeout: 5 * time.Minute,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down API...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("API exited")
}
