package config

import (
	"math"
	"os"
	"strconv"

	"panelestimator/services"
)

// DefaultExchangeRate is the IDR per USD rate used when none is configured.
const DefaultExchangeRate = 16000

type Config struct {
	Server  ServerConfig
	Logger  LoggerConfig
	Pricing services.PricingConfig
}

type ServerConfig struct {
	AppEnv  string
	DataDir string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

// LoadEnv builds the configuration from environment variables. Values that
// fail to parse fall back to their defaults.
func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:  getEnv("APP_ENV", "dev"),
			DataDir: getEnv("PB_DATA_DIR", "./pb_data"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "info"),
			Encoding:          getEnv("LOGGER_ENCODING", "json"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Pricing: services.PricingConfig{
			ExchangeRate: exchangeRate(getEnvFloat("EXCHANGE_RATE_USD_IDR", DefaultExchangeRate)),
		},
	}
}

// exchangeRate replaces a non-positive or non-finite rate with DefaultExchangeRate.
func exchangeRate(rate float64) float64 {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return DefaultExchangeRate
	}
	return rate
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
