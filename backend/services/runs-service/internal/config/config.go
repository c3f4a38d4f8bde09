package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	libconfig "hotfire/backend/libs/config"
)

const (
	defaultPort    = "3000"
	defaultDataDir = "../../data"
	defaultTTL     = 600
)

// Data backends.
const (
	BackendFS = "fs"
	BackendS3 = "s3"
)

// HTTPConfig holds the listener settings.
type HTTPConfig struct {
	Port      string `yaml:"port" env:"HOTFIRE_HTTP_PORT,PORT"`
	StaticDir string `yaml:"staticDir" env:"HOTFIRE_STATIC_DIR"`
}

// DataConfig selects where run files live.
type DataConfig struct {
	Backend string `yaml:"backend" env:"HOTFIRE_DATA_BACKEND"`
	Dir     string `yaml:"dir" env:"HOTFIRE_DATA_DIR"`
}

// S3Config configures the object storage backend.
type S3Config struct {
	Endpoint  string `yaml:"endpoint" env:"HOTFIRE_S3_ENDPOINT"`
	AccessKey string `yaml:"accessKey" env:"HOTFIRE_S3_ACCESS_KEY"`
	SecretKey string `yaml:"secretKey" env:"HOTFIRE_S3_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"HOTFIRE_S3_BUCKET"`
	Prefix    string `yaml:"prefix" env:"HOTFIRE_S3_PREFIX"`
	Secure    bool   `yaml:"secure" env:"HOTFIRE_S3_SECURE"`
}

// RedisConfig configures the record cache. An empty Addr disables it.
type RedisConfig struct {
	Addr       string `yaml:"addr" env:"HOTFIRE_REDIS_ADDR"`
	Password   string `yaml:"password" env:"HOTFIRE_REDIS_PASSWORD"`
	DB         int    `yaml:"db" env:"HOTFIRE_REDIS_DB"`
	TTLSeconds int    `yaml:"ttlSeconds" env:"HOTFIRE_REDIS_TTL_SECONDS"`
}

// Config defines runs service configuration.
type Config struct {
	HTTP     HTTPConfig  `yaml:"http"`
	Data     DataConfig  `yaml:"data"`
	S3       S3Config    `yaml:"s3"`
	Redis    RedisConfig `yaml:"redis"`
	Database struct {
		DSN string `yaml:"dsn" env:"HOTFIRE_POSTGRES_DSN"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret string `yaml:"jwtSecret" env:"HOTFIRE_JWT_SECRET"`
	} `yaml:"auth"`
	Catalog struct {
		File string `yaml:"file" env:"HOTFIRE_CATALOG_FILE"`
	} `yaml:"catalog"`
	Normalize struct {
		Sentinel string `yaml:"sentinel" env:"HOTFIRE_SENTINEL"`
	} `yaml:"normalize"`
	Watch struct {
		Enabled bool `yaml:"enabled" env:"HOTFIRE_WATCH"`
	} `yaml:"watch"`
}

func defaults() *Config {
	cfg := &Config{
		HTTP:  HTTPConfig{Port: defaultPort},
		Data:  DataConfig{Backend: BackendFS, Dir: defaultDataDir},
		Redis: RedisConfig{TTLSeconds: defaultTTL},
	}
	cfg.Watch.Enabled = true
	return cfg
}

// Load configuration using shared helper. The YAML file named by CONFIG_FILE
// is optional.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile is Load with an explicit YAML path.
func LoadFile(path string) (*Config, error) {
	cfg := defaults()
	if err := libconfig.LoadConfigFile(path, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	c.Data.Backend = strings.ToLower(strings.TrimSpace(c.Data.Backend))
	switch c.Data.Backend {
	case "", BackendFS:
		c.Data.Backend = BackendFS
		if strings.TrimSpace(c.Data.Dir) == "" {
			return errors.New("config: data dir required")
		}
	case BackendS3:
		if strings.TrimSpace(c.S3.Endpoint) == "" {
			return errors.New("config: s3 endpoint required")
		}
		if strings.TrimSpace(c.S3.Bucket) == "" {
			return errors.New("config: s3 bucket required")
		}
	default:
		return fmt.Errorf("config: unknown data backend %q", c.Data.Backend)
	}
	if c.Redis.TTLSeconds < 0 {
		return errors.New("config: redis ttl must not be negative")
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = defaultPort
	}
	if strings.Contains(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// RedisTTL returns the record cache lifetime.
func (c *Config) RedisTTL() time.Duration {
	if c.Redis.TTLSeconds <= 0 {
		return defaultTTL * time.Second
	}
	return time.Duration(c.Redis.TTLSeconds) * time.Second
}

// WatchEnabled reports whether the data directory should be watched.
func (c *Config) WatchEnabled() bool {
	return c.Watch.Enabled && c.Data.Backend == BackendFS
}
