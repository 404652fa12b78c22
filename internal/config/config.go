package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	HTTPPort           string
	DatabaseURL        string
	AdminAPIKey        string
	CORSAllowedOrigins []string

	ToleranceUSD decimal.Decimal

	EthRPCURL            string
	EthRPCRetryMax       int
	EthRPCRetryBaseDelay time.Duration

	CoinGeckoURL      string
	CoinGeckoDelay    time.Duration
	CoinGeckoRetryMax int
	PriceCacheTTL     time.Duration

	SideShiftURL         string
	SideShiftSecret      string
	SideShiftAffiliateID string

	QuoteWorkerInterval time.Duration
	PlanWorkerInterval  time.Duration
	WatchAddress        string
	WatchTargets        string

	GoogleSheetID         string
	GoogleCredentialsJSON string

	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		HTTPPort:           envOrDefault("HTTP_PORT", "8080"),
		DatabaseURL:        envOrDefaultWarn("DATABASE_URL", ""),
		AdminAPIKey:        envOrDefault("ADMIN_API_KEY", ""),
		CORSAllowedOrigins: envOrDefaultList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		ToleranceUSD: envOrDefaultDecimal("REBALANCE_TOLERANCE_USD", decimal.NewFromInt(1)),

		EthRPCURL:            envOrDefault("ETH_RPC_URL", "https://eth.drpc.org"),
		EthRPCRetryMax:       envOrDefaultInt("ETH_RPC_RETRY_MAX", 5),
		EthRPCRetryBaseDelay: envOrDefaultDuration("ETH_RPC_RETRY_BASE_DELAY", 2*time.Second),

		CoinGeckoURL:      envOrDefault("COINGECKO_URL", "https://api.coingecko.com/api/v3"),
		CoinGeckoDelay:    envOrDefaultDuration("COINGECKO_DELAY", 6*time.Second),
		CoinGeckoRetryMax: envOrDefaultInt("COINGECKO_RETRY_MAX", 5),
		PriceCacheTTL:     envOrDefaultDuration("PRICE_CACHE_TTL", 5*time.Minute),

		SideShiftURL:         envOrDefault("SIDESHIFT_URL", "https://sideshift.ai/api/v2"),
		SideShiftSecret:      envOrDefault("SIDESHIFT_SECRET", ""),
		SideShiftAffiliateID: envOrDefault("SIDESHIFT_AFFILIATE_ID", ""),

		QuoteWorkerInterval: envOrDefaultDuration("QUOTE_WORKER_INTERVAL", 10*time.Minute),
		PlanWorkerInterval:  envOrDefaultDuration("PLAN_WORKER_INTERVAL", 1*time.Hour),
		WatchAddress:        envOrDefault("WATCH_ADDRESS", ""),
		WatchTargets:        envOrDefault("WATCH_TARGETS", ""),

		GoogleSheetID:         envOrDefault("GOOGLE_SHEET_ID", ""),
		GoogleCredentialsJSON: envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),

		KafkaBrokers: envOrDefaultList("KAFKA_BROKERS", nil),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "rebalance-plans"),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("env var not set", "key", key)
	}
	return v
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}

func envOrDefaultDecimal(key string, defaultVal decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			slog.Warn("invalid decimal env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}

// envOrDefaultList splits a comma-separated value, dropping empty items.
func envOrDefaultList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
