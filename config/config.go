package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Catalog sources.
const (
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
	SourceGraphQL  = "graphql"
)

// Config holds the server settings read from the environment.
type Config struct {
	Port               string
	CatalogSource      string
	DatabaseURL        string
	GraphQLEndpoint    string
	GraphQLToken       string
	OptionsFile        string
	RefreshInterval    time.Duration
	RefreshConcurrency int
	AllowedOrigins     []string
	CartMaxSessions    int
	CartIdleTimeout    time.Duration
	LogLevel           string
	LogPretty          bool
}

var defaultOrigins = []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:5174"}

// Load reads .env (if present) and then the process environment.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, falling back to defaults for missing or
// malformed values.
func FromEnv(getenv func(string) string) Config {
	c := Config{
		Port:               getenv("PORT"),
		CatalogSource:      strings.ToLower(getenv("CATALOG_SOURCE")),
		DatabaseURL:        getenv("DATABASE_URL"),
		GraphQLEndpoint:    getenv("GRAPHQL_ENDPOINT"),
		GraphQLToken:       getenv("GRAPHQL_TOKEN"),
		OptionsFile:        getenv("OPTIONS_FILE"),
		RefreshInterval:    30 * time.Second,
		RefreshConcurrency: 8,
		AllowedOrigins:     defaultOrigins,
		CartMaxSessions:    10000,
		CartIdleTimeout:    30 * time.Minute,
		LogLevel:           getenv("LOG_LEVEL"),
		LogPretty:          getenv("LOG_PRETTY") == "true",
	}

	if c.Port == "" {
		c.Port = "3003"
	}
	if c.CatalogSource == "" {
		c.CatalogSource = SourcePostgres
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if v := getenv("REFRESH_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.RefreshInterval = d
		} else {
			log.Warn().Str("value", v).Msg("Invalid REFRESH_INTERVAL, using default")
		}
	}
	if v := getenv("REFRESH_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.RefreshConcurrency = n
		} else {
			log.Warn().Str("value", v).Msg("Invalid REFRESH_CONCURRENCY, using default")
		}
	}
	if v := getenv("CART_MAX_SESSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.CartMaxSessions = n
		} else {
			log.Warn().Str("value", v).Msg("Invalid CART_MAX_SESSIONS, using default")
		}
	}
	if v := getenv("CART_IDLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.CartIdleTimeout = d
		} else {
			log.Warn().Str("value", v).Msg("Invalid CART_IDLE_TIMEOUT, using default")
		}
	}
	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			c.AllowedOrigins = origins
		}
	}

	return c
}
