package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/octobees/storefront-insights/internal/cache"
	"github.com/octobees/storefront-insights/internal/config"
	"github.com/octobees/storefront-insights/internal/database"
	"github.com/octobees/storefront-insights/internal/handler"
	"github.com/octobees/storefront-insights/internal/llm"
	middlewarepkg "github.com/octobees/storefront-insights/internal/middleware"
	"github.com/octobees/storefront-insights/internal/repository"
	"github.com/octobees/storefront-insights/internal/router"
	"github.com/octobees/storefront-insights/internal/scraper"
	"github.com/octobees/storefront-insights/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	if cfg.MigrateOnStart {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	var modelOpts []llm.Option
	if cfg.RedisURL != "" {
		llmCache, err := cache.NewLLMCache(ctx, cfg.RedisURL, cfg.LLM.CacheTTL)
		if err != nil {
			log.Warn().Err(err).Msg("llm cache disabled")
		} else {
			defer llmCache.Close()
			modelOpts = append(modelOpts, llm.WithCache(llmCache))
		}
	}

	var model scraper.LanguageModel
	chat, err := llm.NewModel(cfg.LLM, modelOpts...)
	switch {
	case err == nil:
		model = chat
		log.Info().Str("model", chat.Name()).Msg("language model fallbacks enabled")
	case errors.Is(err, llm.ErrNotConfigured):
		log.Warn().Msg("OPENAI_API_KEY not set; language model fallbacks and competitor discovery disabled")
	default:
		log.Fatal().Err(err).Msg("failed to configure language model")
	}

	fetcher := scraper.NewFetcher(nil, cfg.Scraper.FetchTimeout, cfg.Scraper.UserAgent)
	storefronts := scraper.New(fetcher,
		scraper.WithLanguageModel(model),
		scraper.WithPhoneRegion(cfg.Scraper.PhoneRegion),
		scraper.WithEmailSuffixBlocklist(cfg.Scraper.EmailSuffixBlocklist),
	)

	brandsRepo := repository.NewPGXBrandsRepository(pool)
	insightsService := service.NewInsightsService(storefronts, brandsRepo)
	competitorService := service.NewCompetitorService(model, storefronts)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(middlewarepkg.Metrics())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, router.Handlers{
		Insights: handler.NewInsightsHandler(insightsService, competitorService),
		Brands:   handler.NewBrandsHandler(insightsService),
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.DefaultContextLogger = &log.Logger

	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		return
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
