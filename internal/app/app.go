package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/match-predictor/external/openai"
	"github.com/riskibarqy/match-predictor/external/soccerapi"
	"github.com/riskibarqy/match-predictor/external/weather"
	"github.com/riskibarqy/match-predictor/internal/config"
	"github.com/riskibarqy/match-predictor/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/match-predictor/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/match-predictor/internal/platform/cache"
	idgen "github.com/riskibarqy/match-predictor/internal/platform/id"
	"github.com/riskibarqy/match-predictor/internal/platform/logging"
	"github.com/riskibarqy/match-predictor/internal/platform/resilience"
	"github.com/riskibarqy/match-predictor/internal/usecase"
)

// App is the assembled service: the HTTP server plus the background fixture
// refresher that feeds it.
type App struct {
	Server   *http.Server
	Fixtures *usecase.FixtureCacheService

	refreshInterval time.Duration
	logger          *logging.Logger
	db              *sqlx.DB
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	predictionRepo, rosterRepo, db, err := newRepositories(cfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := usecase.NewMetrics(registry)

	soccerClient := soccerapi.NewClient(soccerapi.ClientConfig{
		BaseURL: cfg.SoccerAPIBaseURL,
		Token:   cfg.SoccerAPIToken,
		Timeout: cfg.SoccerAPITimeout,
		Logger:  logger.Named("soccerapi"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SoccerAPICircuitEnabled,
			FailureThreshold: cfg.SoccerAPICircuitFailureCount,
			OpenTimeout:      cfg.SoccerAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SoccerAPICircuitHalfOpenMaxReq,
		},
	})
	weatherClient := weather.NewClient(weather.ClientConfig{
		BaseURL: cfg.WeatherAPIBaseURL,
		APIKey:  cfg.WeatherAPIKey,
		Timeout: cfg.WeatherAPITimeout,
		Logger:  logger.Named("weather"),
	})
	modelClient := openai.NewClient(openai.ClientConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.OpenAITimeout,
		Logger:  logger.Named("openai"),
	})

	var soccer usecase.SoccerDataProvider = soccerClient
	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		soccer = cache.NewSoccerDataProvider(soccerClient, store)
		rosterRepo = cache.NewRosterRepository(rosterRepo, store)
	}

	aggregator := usecase.NewContextAggregator(soccer, weatherClient, rosterRepo, usecase.ContextAggregatorConfig{
		ProfileConcurrency: cfg.PlayerProfileConcurrency,
		Logger:             logger.Named("aggregator"),
		Metrics:            metrics,
	})
	predictions := usecase.NewPredictionService(
		aggregator,
		usecase.NewPromptCompiler(),
		modelClient,
		predictionRepo,
		idgen.NewRandomGenerator("run_"),
		usecase.PredictionServiceConfig{
			ModelName: modelClient.Model(),
			Logger:    logger.Named("prediction"),
			Metrics:   metrics,
		},
	)
	fixtures := usecase.NewFixtureCacheService(soccerClient, usecase.FixtureCacheConfig{
		Logger:  logger.Named("fixtures"),
		Metrics: metrics,
	})

	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	}

	handler := httpapi.NewHandler(predictions, fixtures, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, metricsHandler)

	return &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		Fixtures:        fixtures,
		refreshInterval: cfg.FixtureRefreshInterval,
		logger:          logger,
		db:              db,
	}, nil
}

// StartFixtureRefresher loads the fixture cache once and keeps refreshing it
// until ctx is cancelled. A failed first load leaves the cache empty.
func (a *App) StartFixtureRefresher(ctx context.Context) {
	if err := a.Fixtures.Refresh(ctx); err != nil {
		a.logger.WarnContext(ctx, "initial fixture cache load failed", "error", err)
	}
	go a.Fixtures.Run(ctx, a.refreshInterval)
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
