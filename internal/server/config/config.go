// Package config holds the server configuration: built-in defaults layered
// with an optional YAML/JSON file, STUDYLOG_* environment variables and
// command-line flags.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds runtime settings for the studylog server.
type Config struct {
	HTTPAddr        string        `koanf:"http_addr" validate:"required"`
	Database        Database      `koanf:"database"`
	SecretKey       string        `koanf:"secret_key" validate:"required"`
	AccessTokenTTL  time.Duration `koanf:"access_token_ttl" validate:"gt=0"`
	RefreshTokenTTL time.Duration `koanf:"refresh_token_ttl" validate:"gt=0"`
	CacheTTL        time.Duration `koanf:"cache_ttl" validate:"gte=0"`
	CacheSize       int           `koanf:"cache_size" validate:"gt=0"`
	Timezone        string        `koanf:"timezone" validate:"required"`
	Log             Log           `koanf:"log"`
	S3              S3            `koanf:"s3"`
}

type Database struct {
	Driver          string        `koanf:"driver" validate:"oneof=postgres sqlite"`
	DSN             string        `koanf:"dsn" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"gte=0"`
	ConnectRetries  uint64        `koanf:"connect_retries"`
}

type Log struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text"`
}

// S3 configures the S3-compatible bucket used for exports. Credentials are
// only required when exports are enabled.
type S3 struct {
	Enabled    bool          `koanf:"enabled"`
	User       string        `koanf:"user" validate:"required_if=Enabled true"`
	Password   string        `koanf:"password" validate:"required_if=Enabled true"`
	Bucket     string        `koanf:"bucket" validate:"required_if=Enabled true"`
	Region     string        `koanf:"region"`
	Endpoint   string        `koanf:"endpoint"`
	PresignTTL time.Duration `koanf:"presign_ttl" validate:"gte=0"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key and S3 credentials are insecure and must be overridden.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.Database = Database{
		Driver:          "sqlite",
		DSN:             "file:studylog.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnectRetries:  5,
	}
	c.SecretKey = "secretKey"
	c.AccessTokenTTL = 15 * time.Minute
	c.RefreshTokenTTL = 7 * 24 * time.Hour
	c.CacheTTL = 2 * time.Minute
	c.CacheSize = 1024
	c.Timezone = "UTC"
	c.Log = Log{Level: "info", Format: "json"}
	c.S3 = S3{
		User:       "admin",
		Password:   "secretpassword",
		Bucket:     "studylog",
		Region:     "us-east-1",
		Endpoint:   "http://127.0.0.1:9000/",
		PresignTTL: 15 * time.Minute,
	}
}

// Validate checks struct constraints and that Timezone names a known zone.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
