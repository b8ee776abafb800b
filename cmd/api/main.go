package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"crayon/internal/adapter/repo"
	"crayon/internal/http/handlers"
	httpapi "crayon/internal/http/httpapi"
	"crayon/internal/infra"
	"crayon/internal/infra/geoip"
	"crayon/internal/pipeline"
	"crayon/internal/providers/openai"
	"crayon/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	records := repo.NewImageRecordRepository(infra.NewSQLRunner(dbpool, logger))
	if err := records.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare schema")
	}

	uploads, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare upload dir")
	}
	outputs, err := storage.NewFileStore(cfg.OutputDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare output dir")
	}

	client, err := openai.NewClient(cfg.OpenAIOptions(&logger))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build openai client")
	}
	pipe, err := pipeline.New(pipeline.Deps{
		Vision: client,
		Text:   client,
		Images: client,
		Store:  outputs,
		Logger: &logger,
	}, cfg.PipelineOptions())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build pipeline")
	}

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer geo.Close()

	app := &handlers.App{
		Logger:         logger,
		Pipeline:       pipe,
		Records:        records,
		Uploads:        uploads,
		Outputs:        outputs,
		MaxUploadBytes: cfg.UploadMaxBytes,
		MaxFiles:       cfg.MaxFilesPerRequest,
	}
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:         logger,
		Country:        geo.Country,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("uploads", uploads.BasePath()).
			Str("outputs", outputs.BasePath()).
			Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
