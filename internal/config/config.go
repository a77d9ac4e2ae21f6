package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/match-predictor/internal/platform/logging"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                         string
	ServiceName                    string
	ServiceVersion                 string
	HTTPAddr                       string
	ReadTimeout                    time.Duration
	WriteTimeout                   time.Duration
	CORSAllowedOrigins             []string
	LogLevel                       logging.Level
	StoreDriver                    string
	DBURL                          string
	DBDisablePreparedBinary        bool
	CacheEnabled                   bool
	CacheTTL                       time.Duration
	SoccerAPIBaseURL               string
	SoccerAPIToken                 string
	SoccerAPITimeout               time.Duration
	SoccerAPICircuitEnabled        bool
	SoccerAPICircuitFailureCount   int
	SoccerAPICircuitOpenTimeout    time.Duration
	SoccerAPICircuitHalfOpenMaxReq int
	WeatherAPIBaseURL              string
	WeatherAPIKey                  string
	WeatherAPITimeout              time.Duration
	OpenAIAPIKey                   string
	OpenAIBaseURL                  string
	OpenAIModel                    string
	OpenAITimeout                  time.Duration
	FixtureRefreshInterval         time.Duration
	PlayerProfileConcurrency       int
	MetricsEnabled                 bool
	UptraceEnabled                 bool
	UptraceDSN                     string
	PyroscopeEnabled               bool
	PyroscopeServerAddress         string
	PyroscopeAppName               string
	PyroscopeAuthToken             string
	PyroscopeUploadRate            time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("SERVICE_NAME", "match-predictor-api"),
		ServiceVersion:     getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           logging.ParseLevel(getEnv("LOG_LEVEL", "info")),
		DBURL:              strings.TrimSpace(getEnv("DB_URL", "")),
		SoccerAPIBaseURL:   strings.TrimSpace(getEnv("SOCCER_API_BASE_URL", "")),
		SoccerAPIToken:     strings.TrimSpace(getEnv("SOCCER_API_TOKEN", "")),
		WeatherAPIBaseURL:  strings.TrimSpace(getEnv("WEATHER_API_BASE_URL", "")),
		WeatherAPIKey:      strings.TrimSpace(getEnv("WEATHER_API_KEY", "")),
		OpenAIAPIKey:       strings.TrimSpace(getEnv("OPENAI_API_KEY", "")),
		OpenAIBaseURL:      strings.TrimSpace(getEnv("OPENAI_BASE_URL", "")),
		OpenAIModel:        strings.TrimSpace(getEnv("OPENAI_MODEL", "gpt-4o-2024-08-06")),
		PyroscopeAuthToken: strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	if cfg.ReadTimeout, err = positiveDuration("HTTP_READ_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = positiveDuration("HTTP_WRITE_TIMEOUT", "90s"); err != nil {
		return Config{}, err
	}

	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(getEnv("STORE_DRIVER", StoreMemory)))
	switch cfg.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if cfg.DBURL == "" {
			return Config{}, fmt.Errorf("DB_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("invalid STORE_DRIVER %q: valid values are %s, %s", cfg.StoreDriver, StoreMemory, StorePostgres)
	}
	if cfg.DBDisablePreparedBinary, err = parseBool("DB_DISABLE_PREPARED_BINARY_RESULT", "false"); err != nil {
		return Config{}, err
	}

	if cfg.CacheEnabled, err = parseBool("CACHE_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = positiveDuration("CACHE_TTL", "10m"); err != nil {
		return Config{}, err
	}

	if cfg.SoccerAPIToken == "" {
		return Config{}, fmt.Errorf("SOCCER_API_TOKEN is required")
	}
	if cfg.SoccerAPITimeout, err = positiveDuration("SOCCER_API_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.SoccerAPICircuitEnabled, err = parseBool("SOCCER_API_CIRCUIT_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.SoccerAPICircuitFailureCount, err = positiveInt("SOCCER_API_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return Config{}, err
	}
	if cfg.SoccerAPICircuitOpenTimeout, err = positiveDuration("SOCCER_API_CIRCUIT_OPEN_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}
	if cfg.SoccerAPICircuitHalfOpenMaxReq, err = positiveInt("SOCCER_API_CIRCUIT_HALF_OPEN_MAX_REQ", 2); err != nil {
		return Config{}, err
	}

	if cfg.WeatherAPITimeout, err = positiveDuration("WEATHER_API_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}

	if cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.OpenAITimeout, err = positiveDuration("OPENAI_TIMEOUT", "60s"); err != nil {
		return Config{}, err
	}

	if cfg.FixtureRefreshInterval, err = positiveDuration("FIXTURE_CACHE_REFRESH_INTERVAL", "15m"); err != nil {
		return Config{}, err
	}
	if cfg.PlayerProfileConcurrency, err = positiveInt("PLAYER_PROFILE_CONCURRENCY", 8); err != nil {
		return Config{}, err
	}
	if cfg.MetricsEnabled, err = parseBool("METRICS_ENABLED", "true"); err != nil {
		return Config{}, err
	}

	if cfg.UptraceEnabled, err = parseBool("UPTRACE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = parseBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeUploadRate, err = positiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func parseBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func positiveDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func positiveInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
