package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// Config is read from the environment (SERVER_PORT, DATA_CSV_FILE, ...) and
// then overridden by any keys set in viper (config file or CLI flags).
type Config struct {
	Server   ServerConfig   `envconfig:"SERVER"`
	Data     DataConfig     `envconfig:"DATA"`
	Cache    CacheConfig    `envconfig:"CACHE"`
	Logger   LoggerConfig   `envconfig:"LOG"`
	Security SecurityConfig `envconfig:"SECURITY"`
}

type ServerConfig struct {
	Host            string        `envconfig:"HOST" default:"localhost" validate:"required"`
	Port            int           `envconfig:"PORT" default:"8084" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"10s" validate:"gt=0"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s" validate:"gt=0"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s" validate:"gt=0"`
}

type DataConfig struct {
	CSVFile string `envconfig:"CSV_FILE" default:"data/flash_sale_data.csv" validate:"required"`
	// SnapshotDir holds parsed-dataset snapshots; empty disables them.
	SnapshotDir string        `envconfig:"SNAPSHOT_DIR" default:".cache"`
	LoadTimeout time.Duration `envconfig:"LOAD_TIMEOUT" default:"5m" validate:"gt=0"`
	Workers     int           `envconfig:"WORKERS" default:"8" validate:"min=1,max=256"`
}

// CacheConfig points at the Redis instance caching dashboards. An empty
// RedisAddr disables the cache.
type CacheConfig struct {
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0" validate:"min=0"`
	TTL           time.Duration `envconfig:"TTL" default:"5m" validate:"gt=0"`
}

type LoggerConfig struct {
	Level  string `envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format string `envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
}

type SecurityConfig struct {
	EnableRateLimit bool     `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	RateLimitRPS    int      `envconfig:"RATE_LIMIT_RPS" default:"100" validate:"min=1"`
	RateLimitBurst  int      `envconfig:"RATE_LIMIT_BURST" default:"20" validate:"min=1"`
	AdminRateLimit  int      `envconfig:"ADMIN_RATE_LIMIT" default:"30" validate:"min=1"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8084"`
	TrustedProxies  []string `envconfig:"TRUSTED_PROXIES" default:"127.0.0.1"`
	// Development relaxes HSTS and host checks for local runs.
	Development bool `envconfig:"DEVELOPMENT" default:"false"`
}

// Load reads the environment, applies overrides from v (which may be nil) and
// validates the result.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if v != nil {
		applyOverrides(v, &cfg)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyOverrides copies every key set in v onto cfg. Keys mirror the YAML
// layout: server.port, data.csv_file, log.level and so on.
func applyOverrides(v *viper.Viper, cfg *Config) {
	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}
	integer := func(key string, dst *int) {
		if v.IsSet(key) {
			*dst = v.GetInt(key)
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v.IsSet(key) {
			*dst = v.GetDuration(key)
		}
	}
	boolean := func(key string, dst *bool) {
		if v.IsSet(key) {
			*dst = v.GetBool(key)
		}
	}
	list := func(key string, dst *[]string) {
		if v.IsSet(key) {
			*dst = v.GetStringSlice(key)
		}
	}

	str("server.host", &cfg.Server.Host)
	integer("server.port", &cfg.Server.Port)
	duration("server.read_timeout", &cfg.Server.ReadTimeout)
	duration("server.write_timeout", &cfg.Server.WriteTimeout)
	duration("server.idle_timeout", &cfg.Server.IdleTimeout)
	duration("server.shutdown_timeout", &cfg.Server.ShutdownTimeout)

	str("data.csv_file", &cfg.Data.CSVFile)
	str("data.snapshot_dir", &cfg.Data.SnapshotDir)
	duration("data.load_timeout", &cfg.Data.LoadTimeout)
	integer("data.workers", &cfg.Data.Workers)

	str("cache.redis_addr", &cfg.Cache.RedisAddr)
	str("cache.redis_password", &cfg.Cache.RedisPassword)
	integer("cache.redis_db", &cfg.Cache.RedisDB)
	duration("cache.ttl", &cfg.Cache.TTL)

	str("log.level", &cfg.Logger.Level)
	str("log.format", &cfg.Logger.Format)

	boolean("security.rate_limit_enabled", &cfg.Security.EnableRateLimit)
	integer("security.rate_limit_rps", &cfg.Security.RateLimitRPS)
	integer("security.rate_limit_burst", &cfg.Security.RateLimitBurst)
	integer("security.admin_rate_limit", &cfg.Security.AdminRateLimit)
	list("security.allowed_origins", &cfg.Security.AllowedOrigins)
	list("security.trusted_proxies", &cfg.Security.TrustedProxies)
	boolean("security.development", &cfg.Security.Development)
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
