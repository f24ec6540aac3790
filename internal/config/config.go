package config

import (
	"strings" // String manipulation
	"time"    // Durations for token and cache lifetimes

	"github.com/joho/godotenv" // For loading .env files
	"github.com/spf13/viper"   // Environment binding with defaults
)

// Config holds the application configuration
type Config struct {
	AppPort         string        // Application port
	DBDriver        string        // Database driver: mysql, postgres or sqlite
	DBUser          string        // Database user
	DBPassword      string        // Database password
	DBHost          string        // Database host
	DBPort          string        // Database port
	DBName          string        // Database name
	DBPath          string        // SQLite file path (sqlite driver only)
	JWTSecret       string        // JWT secret key
	TokenTTL        time.Duration // Lifetime of issued tokens
	RedisAddr       string        // Redis server address, empty disables caching
	RedisPass       string        // Redis password
	RedisDB         int           // Redis database number
	CacheTTL        time.Duration // TTL for cached balances and catalog
	StartingBalance int64         // Wallet balance granted at signup
	IsProd          bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "taskagotchi")
	v.SetDefault("DB_PATH", "taskagotchi.db")
	v.SetDefault("TOKEN_TTL", "4h")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "60s")
	v.SetDefault("STARTING_BALANCE", 9000)
	v.SetDefault("IS_PROD", false)

	return &Config{
		AppPort:         v.GetString("APP_PORT"),
		DBDriver:        strings.ToLower(v.GetString("DB_DRIVER")),
		DBUser:          v.GetString("DB_USER"),
		DBPassword:      v.GetString("DB_PASSWORD"),
		DBHost:          v.GetString("DB_HOST"),
		DBPort:          v.GetString("DB_PORT"),
		DBName:          v.GetString("DB_NAME"),
		DBPath:          v.GetString("DB_PATH"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		TokenTTL:        v.GetDuration("TOKEN_TTL"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPass:       v.GetString("REDIS_PASS"),
		RedisDB:         v.GetInt("REDIS_DB"),
		CacheTTL:        v.GetDuration("CACHE_TTL"),
		StartingBalance: v.GetInt64("STARTING_BALANCE"),
		IsProd:          v.GetBool("IS_PROD"),
	}
}
