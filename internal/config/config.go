package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Log      LogConfig
	Redis    RedisConfig
	Workbook WorkbookConfig
	Server   ServerConfig
}

// LogConfig selects the zap encoder and level
type LogConfig struct {
	Level  string
	Format string
}

// RedisConfig holds the metadata store connection. An empty Addr keeps
// metadata in memory.
type RedisConfig struct {
	Addr    string
	DB      int
	Prefix  string
	Timeout time.Duration
}

// WorkbookConfig names the default export target and layout override
type WorkbookConfig struct {
	Path   string
	Layout string
}

// ServerConfig holds HTTP settings
type ServerConfig struct {
	Port        int
	CORSOrigins []string
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Log: LogConfig{
			Level:  getEnv("PHPPKIT_LOG_LEVEL", "info"),
			Format: getEnv("PHPPKIT_LOG_FORMAT", "console"),
		},
		Redis: RedisConfig{
			Addr:    getEnv("PHPPKIT_REDIS_ADDR", ""),
			DB:      getEnvInt("PHPPKIT_REDIS_DB", 0),
			Prefix:  getEnv("PHPPKIT_REDIS_PREFIX", "phppkit"),
			Timeout: getEnvDuration("PHPPKIT_REDIS_TIMEOUT", 2*time.Second),
		},
		Workbook: WorkbookConfig{
			Path:   getEnv("PHPPKIT_WORKBOOK", ""),
			Layout: getEnv("PHPPKIT_LAYOUT", ""),
		},
		Server: ServerConfig{
			Port:        getEnvInt("PHPPKIT_PORT", 3000),
			CORSOrigins: getEnvStringSlice("PHPPKIT_CORS_ORIGINS", []string{"*"}),
		},
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return nil, fmt.Errorf("PHPPKIT_LOG_FORMAT %q: want console or json", cfg.Log.Format)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("PHPPKIT_PORT %d out of range", cfg.Server.Port)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		var out []string
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return defaultValue
}
