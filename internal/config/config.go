package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the Carly Compare backend.
type Config struct {
	Port      int
	Version   string
	Inference InferenceConfig
	Baseline  BaselineConfig
	Market    MarketConfig
	Store     StoreConfig
	Telemetry TelemetryConfig
}

// InferenceConfig selects and configures the text-generation driver.
type InferenceConfig struct {
	// Provider is "openai" or "gemini".
	Provider string
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// BaselineConfig points at the appraisal catalog endpoints.
type BaselineConfig struct {
	StylesURL    string
	AppraisalURL string
	Timeout      time.Duration
}

// MarketConfig points at the live-listing search service.
type MarketConfig struct {
	SearchURL string
	APIKey    string
	Radius    int
	Rows      int
	Timeout   time.Duration
}

// StoreConfig controls snapshot persistence.
type StoreConfig struct {
	DataDir  string
	TraceTTL time.Duration
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envInt("CARLY_PORT", 5000),
		Version: envStr("CARLY_VERSION", "0.2.0"),
		Inference: InferenceConfig{
			Provider: envStr("CARLY_INFERENCE_PROVIDER", "openai"),
			Endpoint: envStr("CARLY_INFERENCE_ENDPOINT", ""),
			APIKey:   envStr("OPENAI_API_KEY", ""),
			Model:    envStr("CARLY_INFERENCE_MODEL", "gpt-4o"),
			Timeout:  envDur("CARLY_INFERENCE_TIMEOUT", 60*time.Second),
		},
		Baseline: BaselineConfig{
			StylesURL:    envStr("CARLY_BASELINE_STYLES_URL", ""),
			AppraisalURL: envStr("CARLY_BASELINE_APPRAISAL_URL", ""),
			Timeout:      envDur("CARLY_BASELINE_TIMEOUT", 10*time.Second),
		},
		Market: MarketConfig{
			SearchURL: envStr("CARLY_MARKET_SEARCH_URL", ""),
			APIKey:    envStr("MARKETCHECK_API_KEY", ""),
			Radius:    envInt("CARLY_MARKET_RADIUS", 100),
			Rows:      envInt("CARLY_MARKET_ROWS", 50),
			Timeout:   envDur("CARLY_MARKET_TIMEOUT", 10*time.Second),
		},
		Store: StoreConfig{
			DataDir:  envStr("CARLY_DATA_DIR", defaultDataDir()),
			TraceTTL: envDur("CARLY_TRACE_TTL", 7*24*time.Hour),
		},
		Telemetry: TelemetryConfig{
			Enabled:      envBool("OTEL_ENABLED", false),
			OTLPEndpoint: envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:  envStr("OTEL_SERVICE_NAME", "carlycompare-backend"),
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.carlycompare"
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
