package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Имена расчётных маршрутов для лимитов и метрик
const (
	RouteCalculate = "calculate"
	RouteCompare   = "compare"
)

// Config содержит конфигурацию сервиса
type Config struct {
	Port                      int
	MaxPrice                  float64
	MaxTermYears              int
	MaxRate                   float64
	MaxExtraPayment           float64
	MaxOneTimePayments        int
	ScheduleMargin            int
	RateLimitPerMinute        int
	CompareRateLimitPerMinute int
	OTELEndpoint              string
	OTELServiceName           string
	LogLevel                  string
	LogFormat                 string
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	cfg := &Config{
		Port:                      getEnvInt("PORT", 8000),
		MaxPrice:                  getEnvFloat("MAX_PRICE", 1e10),
		MaxTermYears:              getEnvInt("MAX_TERM_YEARS", 50),
		MaxRate:                   getEnvFloat("MAX_RATE", 100),
		MaxExtraPayment:           getEnvFloat("MAX_EXTRA_PAYMENT", 1e9),
		MaxOneTimePayments:        getEnvInt("MAX_ONE_TIME_PAYMENTS", 1200),
		ScheduleMargin:            getEnvInt("SCHEDULE_MARGIN", 0),
		RateLimitPerMinute:        getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		CompareRateLimitPerMinute: getEnvInt("COMPARE_RATE_LIMIT_PER_MINUTE", 60),
		OTELEndpoint:              getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName:           getEnvString("OTEL_SERVICE_NAME", "mortgage-calculator"),
		LogLevel:                  getEnvString("LOG_LEVEL", "INFO"),
		LogFormat:                 getEnvString("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность лимитов
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be in [1; 65535], got %d", c.Port)
	}
	if c.MaxTermYears <= 0 {
		return fmt.Errorf("MAX_TERM_YEARS must be positive, got %d", c.MaxTermYears)
	}
	if c.MaxPrice <= 0 || c.MaxRate <= 0 || c.MaxExtraPayment <= 0 {
		return fmt.Errorf("MAX_PRICE, MAX_RATE and MAX_EXTRA_PAYMENT must be positive")
	}
	if c.MaxOneTimePayments < 0 {
		return fmt.Errorf("MAX_ONE_TIME_PAYMENTS must not be negative, got %d", c.MaxOneTimePayments)
	}
	if c.ScheduleMargin < 0 {
		return fmt.Errorf("SCHEDULE_MARGIN must not be negative, got %d", c.ScheduleMargin)
	}
	if c.RateLimitPerMinute < 0 || c.CompareRateLimitPerMinute < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}
	return nil
}

// RouteLimits лимиты запросов в минуту на клиента по маршрутам.
// /compare строит два графика, поэтому лимитируется отдельно; 0 снимает лимит.
func (c *Config) RouteLimits() map[string]int {
	return map[string]int{
		RouteCalculate: c.RateLimitPerMinute,
		RouteCompare:   c.CompareRateLimitPerMinute,
	}
}

// Addr адрес HTTP-сервера
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
