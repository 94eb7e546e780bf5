package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// Config carries the environment configuration for the API process.
type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	SQLitePath string

	RedisAddr     string
	RedisPassword string

	// ReferenceTokenID is the token whose smallest unit is the reference
	// unit for TVL; OracleRates maps other token ids to reference units
	// per smallest unit.
	ReferenceTokenID uint
	OracleRates      map[uint]decimal.Decimal
}

// Load reads configuration from the environment. Call godotenv.Load first
// if a .env file should be honored.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		DBHost:        os.Getenv("DB_HOST"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBPort:        getenv("DB_PORT", "5432"),
		SQLitePath:    getenv("SQLITE_PATH", "dex.db"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		OracleRates:   map[uint]decimal.Decimal{},
	}

	if raw := os.Getenv("REFERENCE_TOKEN_ID"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid REFERENCE_TOKEN_ID %q: %w", raw, err)
		}
		cfg.ReferenceTokenID = uint(id)
	}

	// ORACLE_RATES is a JSON object of token id -> decimal rate string,
	// e.g. {"2":"0.5","3":"1200"}.
	if raw := os.Getenv("ORACLE_RATES"); raw != "" {
		var rates map[string]string
		if err := json.Unmarshal([]byte(raw), &rates); err != nil {
			return nil, fmt.Errorf("invalid ORACLE_RATES: %w", err)
		}
		for idStr, rateStr := range rates {
			id, err := strconv.ParseUint(idStr, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid ORACLE_RATES token id %q: %w", idStr, err)
			}
			rate, err := decimal.NewFromString(rateStr)
			if err != nil {
				return nil, fmt.Errorf("invalid ORACLE_RATES rate %q: %w", rateStr, err)
			}
			cfg.OracleRates[uint(id)] = rate
		}
	}

	return cfg, nil
}

// UsePostgres reports whether a postgres DSN is configured; without one
// the service falls back to local sqlite.
func (c *Config) UsePostgres() bool {
	return c.DBHost != ""
}

// PostgresDSN builds the gorm postgres DSN
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
