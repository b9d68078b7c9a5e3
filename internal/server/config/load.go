package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is stripped from environment variables. A double underscore
// separates nesting levels: STUDYLOG_DATABASE__DSN sets database.dsn.
const EnvPrefix = "STUDYLOG_"

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"http-addr":          "http_addr",
	"db-driver":          "database.driver",
	"db-dsn":             "database.dsn",
	"db-connect-retries": "database.connect_retries",
	"secret-key":         "secret_key",
	"access-token-ttl":   "access_token_ttl",
	"refresh-token-ttl":  "refresh_token_ttl",
	"cache-ttl":          "cache_ttl",
	"timezone":           "timezone",
	"log-level":          "log.level",
	"log-format":         "log.format",
	"s3-enabled":         "s3.enabled",
	"s3-bucket":          "s3.bucket",
	"s3-endpoint":        "s3.endpoint",
}

// RegisterFlags declares the server flags on fs. Flag defaults are only
// informational; unset flags never override other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP("config", "c", "", "path to a YAML or JSON config file")
	fs.StringP("http-addr", "a", d.HTTPAddr, "HTTP listen address")
	fs.String("db-driver", d.Database.Driver, "database backend (postgres|sqlite)")
	fs.StringP("db-dsn", "d", d.Database.DSN, "database DSN")
	fs.Uint64("db-connect-retries", d.Database.ConnectRetries, "ping retries on startup")
	fs.StringP("secret-key", "s", d.SecretKey, "HMAC secret for access tokens")
	fs.Duration("access-token-ttl", d.AccessTokenTTL, "access token lifetime")
	fs.Duration("refresh-token-ttl", d.RefreshTokenTTL, "refresh token lifetime")
	fs.Duration("cache-ttl", d.CacheTTL, "report cache lifetime")
	fs.String("timezone", d.Timezone, "IANA zone used to decide what \"today\" is")
	fs.String("log-level", d.Log.Level, "log level (debug|info|warn|error)")
	fs.String("log-format", d.Log.Format, "log format (json|text)")
	fs.Bool("s3-enabled", d.S3.Enabled, "enable CSV exports to S3")
	fs.String("s3-bucket", d.S3.Bucket, "S3 bucket for exports")
	fs.String("s3-endpoint", d.S3.Endpoint, "S3 base endpoint")
}

// LoadConfig builds a Config from defaults, then the --config file, then
// the environment, then flags explicitly set on fs. fs may be nil.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	k := koanf.New(".")

	if fs != nil {
		if path, _ := fs.GetString("config"); path != "" {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("read config file %s: %w", path, err)
			}
		}
	}

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		return strings.ReplaceAll(key, "__", "."), value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if fs != nil {
		err = k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(fs, f)
		}), nil)
		if err != nil {
			return nil, fmt.Errorf("read flags: %w", err)
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
