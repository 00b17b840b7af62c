// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aristath/cppi/internal/domain"
	"github.com/aristath/cppi/pkg/formulas"
)

// Config holds application configuration
type Config struct {
	LogLevel     string
	LogPretty    bool
	Port         int
	DevMode      bool
	OutputDir    string // Where run artifacts are written (always absolute)
	RiskyFile    string // CSV of daily risky-asset returns
	RiskFreeFile string // CSV of daily risk-free returns
	SplitByYear  bool   // Simulate each calendar year as its own period
	ParamsFile   string // Optional YAML file with strategy parameters
	RateLimit    float64
	RateBurst    int
	MaxPathCount int // Largest path_count the HTTP API accepts
	Strategy     domain.Parameters
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	outputDir, err := filepath.Abs(getEnv("CPPI_OUTPUT_DIR", "out"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output directory path: %w", err)
	}

	paramsFile := getEnv("CPPI_PARAMS_FILE", "")
	strategy, err := loadStrategy(paramsFile)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogPretty:    getEnvAsBool("LOG_PRETTY", true),
		Port:         getEnvAsInt("CPPI_PORT", 8080),
		DevMode:      getEnvAsBool("CPPI_DEV_MODE", false),
		OutputDir:    outputDir,
		RiskyFile:    getEnv("CPPI_RISKY_FILE", ""),
		RiskFreeFile: getEnv("CPPI_RISK_FREE_FILE", ""),
		SplitByYear:  getEnvAsBool("CPPI_SPLIT_BY_YEAR", false),
		ParamsFile:   paramsFile,
		RateLimit:    getEnvAsFloat("CPPI_RATE_LIMIT", 5),
		RateBurst:    getEnvAsInt("CPPI_RATE_BURST", 10),
		MaxPathCount: getEnvAsInt("CPPI_MAX_PATH_COUNT", 10000),
		Strategy:     strategy,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadStrategy layers the strategy file (if any) and then CPPI_* environment
// variables on the default parameters
func loadStrategy(paramsFile string) (domain.Parameters, error) {
	p := domain.DefaultParameters()
	if paramsFile != "" {
		var err error
		if p, err = LoadStrategyFile(paramsFile, p); err != nil {
			return p, err
		}
	}

	rateType, err := formulas.ParseRateConvention(getEnv("CPPI_RATE_TYPE", p.RateType.String()))
	if err != nil {
		return p, fmt.Errorf("CPPI_RATE_TYPE: %w", err)
	}
	p.RateType = rateType
	p.TradingYears = getEnvAsInt("CPPI_TRADING_YEARS", p.TradingYears)
	p.TradingDaysPerYear = getEnvAsInt("CPPI_TRADING_DAYS_PER_YEAR", p.TradingDaysPerYear)
	p.RiskFreeAnnualRate = getEnvAsFloat("CPPI_RISK_FREE_RATE", p.RiskFreeAnnualRate)
	p.InitialNAV = getEnvAsFloat("CPPI_INITIAL_NAV", p.InitialNAV)
	p.RebalancePeriod = getEnvAsInt("CPPI_REBALANCE_PERIOD", p.RebalancePeriod)
	p.GuaranteeRatio = getEnvAsFloat("CPPI_GUARANTEE_RATIO", p.GuaranteeRatio)
	p.RiskMultiplier = getEnvAsFloat("CPPI_RISK_MULTIPLIER", p.RiskMultiplier)
	p.RiskFeeRate = getEnvAsFloat("CPPI_RISK_FEE_RATE", p.RiskFeeRate)
	p.PathCount = getEnvAsInt("CPPI_PATH_COUNT", p.PathCount)
	return p, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %v", c.RateLimit)
	}
	if c.MaxPathCount < 1 {
		return fmt.Errorf("max path count must be >= 1, got %d", c.MaxPathCount)
	}
	if err := c.Strategy.Validate(); err != nil {
		return err
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
