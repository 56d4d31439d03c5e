package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Log       LogConfig       `koanf:"log"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
}

type ServerConfig struct {
	Port    int `koanf:"port" validate:"min=1,max=65535"`
	Timeout struct {
		ReadHeader time.Duration `koanf:"readheader" validate:"gt=0"`
		Shutdown   time.Duration `koanf:"shutdown" validate:"gt=0"`
	} `koanf:"timeout"`
}

// DatabaseConfig selects the store. An empty URL keeps products in memory.
type DatabaseConfig struct {
	URL     string `koanf:"url"`
	Migrate bool   `koanf:"migrate"`
}

type CatalogConfig struct {
	Seed bool `koanf:"seed"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Token   string `koanf:"token"`
}

// RateLimitConfig caps requests per client IP. Zero requests disables it.
type RateLimitConfig struct {
	Requests int           `koanf:"requests" validate:"min=0"`
	Window   time.Duration `koanf:"window" validate:"gt=0"`
}

func defaults() map[string]any {
	return map[string]any{
		"server.port":               8082,
		"server.timeout.readheader": "5s",
		"server.timeout.shutdown":   "10s",
		"database.url":              "",
		"database.migrate":          true,
		"catalog.seed":              true,
		"log.level":                 "info",
		"metrics.enabled":           true,
		"metrics.token":             "",
		"ratelimit.requests":        0,
		"ratelimit.window":          "1s",
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("\n--- Server ---\n")
	fmt.Fprintf(&b, "  server.port: %d\n", c.Server.Port)
	fmt.Fprintf(&b, "  server.timeout.readheader: %v\n", c.Server.Timeout.ReadHeader)
	fmt.Fprintf(&b, "  server.timeout.shutdown: %v\n", c.Server.Timeout.Shutdown)

	b.WriteString("\n--- Store ---\n")
	fmt.Fprintf(&b, "  database.url: %s\n", maskURL(c.Database.URL))
	fmt.Fprintf(&b, "  database.migrate: %t\n", c.Database.Migrate)
	fmt.Fprintf(&b, "  catalog.seed: %t\n", c.Catalog.Seed)

	b.WriteString("\n--- Observability ---\n")
	fmt.Fprintf(&b, "  log.level: %s\n", c.Log.Level)
	fmt.Fprintf(&b, "  metrics.enabled: %t\n", c.Metrics.Enabled)
	fmt.Fprintf(&b, "  ratelimit.requests: %d per %v\n", c.RateLimit.Requests, c.RateLimit.Window)

	return b.String()
}

func maskURL(url string) string {
	if url == "" {
		return "<in-memory>"
	}
	if _, host, ok := strings.Cut(url, "@"); ok {
		return "****@" + host
	}
	return "****"
}
