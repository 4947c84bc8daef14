package conf

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Runtime modes.
const (
	RuntimeHosted = "hosted"
	RuntimeLocal  = "local"
)

// Config holds all application configuration.
type Config struct {
	Env         string        `env:"ENV" envDefault:"development"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	Port        int           `env:"PORT" envDefault:"8080"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"5s"`

	PostgresURL string `env:"POSTGRES_URL,required,notEmpty"`

	RedisAddr       string `env:"REDIS_ADDR"` // empty selects the in-process cache
	RedisPassword   string `env:"REDIS_PASSWORD"`
	MemoryCacheSize int    `env:"MEMORY_CACHE_SIZE" envDefault:"100000"`

	ClickHouseAddr     string `env:"CLICKHOUSE_ADDR" envDefault:"localhost:9000"`
	ClickHouseDB       string `env:"CLICKHOUSE_DB" envDefault:"default"`
	ClickHouseUser     string `env:"CLICKHOUSE_USER" envDefault:"default"`
	ClickHousePassword string `env:"CLICKHOUSE_PASSWORD"`

	RuntimeMode string `env:"RUNTIME_MODE" envDefault:"local"`
	GeoIPDBPath string `env:"GEOIP_DB_PATH"`
	EdgeRegion  string `env:"EDGE_REGION"`

	NoTrackHeader string        `env:"NO_TRACK_HEADER" envDefault:"dub-no-track"`
	NoTrackParam  string        `env:"NO_TRACK_PARAM" envDefault:"dub-no-track"`
	DedupTTL      time.Duration `env:"DEDUP_TTL" envDefault:"1h"`
	RecordTimeout time.Duration `env:"RECORD_TIMEOUT" envDefault:"10s"`
	TagFilterMode string        `env:"TAG_FILTER_MODE" envDefault:"drop-missing"`

	TrackRateLimit int `env:"TRACK_RATE_LIMIT" envDefault:"600"` // requests per minute per IP

	WebhookQueueURL string        `env:"WEBHOOK_QUEUE_URL"` // empty logs deliveries instead
	AWSRegion       string        `env:"AWS_REGION"`
	FanoutTimeout   time.Duration `env:"FANOUT_TIMEOUT" envDefault:"15s"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	switch c.RuntimeMode {
	case RuntimeHosted, RuntimeLocal:
	default:
		return fmt.Errorf("RUNTIME_MODE must be %q or %q, got %q", RuntimeHosted, RuntimeLocal, c.RuntimeMode)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	return nil
}

// HTTPAddr is the listen address of the HTTP server.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
