package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Supported question store backends.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"trivia-api"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`
	StoreDriver             string        `env:"STORE_DRIVER" envDefault:"postgres"`
	MigrateOnStart          bool          `env:"MIGRATE_ON_START" envDefault:"false"`

	Postgres Postgres
	Redis    Redis
	Trivia   Trivia
	Events   Events
	Import   Import
	CORS     CORS
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST" envDefault:"localhost"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER"`
	Password string `env:"PG_PASSWORD"`
	Database string `env:"PG_DATABASE"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// ConnString renders a keyword/value connection string for a single pgx connection.
func (p Postgres) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// DSN is ConnString plus the pgxpool sizing parameter.
func (p Postgres) DSN() string {
	return fmt.Sprintf("%s pool_max_conns=%d", p.ConnString(), p.MaxConns)
}

// Redis holds the pub/sub connection. An empty address disables change events.
type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Trivia groups question bank behaviour.
type Trivia struct {
	PageSize   int    `env:"PAGE_SIZE" envDefault:"10"`
	RandomSeed uint64 `env:"QUIZ_RANDOM_SEED" envDefault:"0"`
}

// Events configures question change notifications.
type Events struct {
	Channel string `env:"EVENTS_CHANNEL" envDefault:"trivia:questions"`
}

// Import configures the external question importer.
type Import struct {
	OpenTDBBaseURL   string        `env:"OPENTDB_BASE_URL" envDefault:"https://opentdb.com"`
	TriviaAPIBaseURL string        `env:"TRIVIA_API_BASE_URL" envDefault:"https://the-trivia-api.com/api"`
	TriviaAPIKey     string        `env:"TRIVIA_API_KEY"`
	HTTPTimeout      time.Duration `env:"OPENTDB_HTTP_TIMEOUT" envDefault:"5s"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,PUT,POST,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other.
func (c *App) Validate() error {
	switch c.StoreDriver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.Database == "" {
			return fmt.Errorf("PG_USER, PG_PASSWORD and PG_DATABASE must be set for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.Trivia.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.Trivia.PageSize)
	}
	return nil
}
