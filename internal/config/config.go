// Package config loads accountd's configuration.
//
// Sources are layered with koanf, later ones overriding earlier ones:
// built-in defaults, an optional YAML file, ACCOUNTD_ environment
// variables, then explicit overrides (usually CLI flags).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the environment variable prefix. A double underscore
// separates nesting levels: ACCOUNTD_AUTH__TOKEN_SECRET is auth.token_secret.
const EnvPrefix = "ACCOUNTD_"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// minSecretLength mirrors auth.MinSecretLength.
const minSecretLength = 32

// Config is the fully resolved configuration.
type Config struct {
	HTTP      HTTPConfig      `koanf:"http" json:"http"`
	Database  DatabaseConfig  `koanf:"database" json:"database"`
	Auth      AuthConfig      `koanf:"auth" json:"auth"`
	RateLimit RateLimitConfig `koanf:"ratelimit" json:"ratelimit"`
	Log       LogConfig       `koanf:"log" json:"log"`
}

type HTTPConfig struct {
	Addr              string        `koanf:"addr" json:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout" json:"read_header_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout" json:"idle_timeout"`
}

type DatabaseConfig struct {
	Driver string `koanf:"driver" json:"driver"`
	Path   string `koanf:"path" json:"path"`
	DSN    string `koanf:"dsn" json:"dsn"`
}

type AuthConfig struct {
	TokenSecret   string        `koanf:"token_secret" json:"token_secret"`
	TokenLifetime time.Duration `koanf:"token_lifetime" json:"token_lifetime"`
	TokenIssuer   string        `koanf:"token_issuer" json:"token_issuer"`
	BcryptCost    int           `koanf:"bcrypt_cost" json:"bcrypt_cost"`
}

type RateLimitConfig struct {
	Rate  float64 `koanf:"rate" json:"rate"`
	Burst int     `koanf:"burst" json:"burst"`
}

type LogConfig struct {
	Level  string `koanf:"level" json:"level"`
	Format string `koanf:"format" json:"format"`
}

func defaults() map[string]any {
	return map[string]any{
		"http": map[string]any{
			"addr":                ":8080",
			"read_header_timeout": "10s",
			"idle_timeout":        "120s",
		},
		"database": map[string]any{
			"driver": DriverSQLite,
			"path":   "accountd.db",
			"dsn":    "",
		},
		"auth": map[string]any{
			"token_secret":   "",
			"token_lifetime": "24h",
			"token_issuer":   "accountd",
			"bcrypt_cost":    12,
		},
		"ratelimit": map[string]any{
			"rate":  1.0,
			"burst": 5,
		},
		"log": map[string]any{
			"level":  "info",
			"format": "text",
		},
	}
}

// Load resolves the configuration from defaults, the YAML file at path
// (skipped when empty), the environment and overrides, then validates it.
// Override keys are dotted paths such as "http.addr".
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(mapProvider(defaults()), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	for key, value := range overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set %s: %w", key, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps ACCOUNTD_AUTH__TOKEN_SECRET to auth.token_secret.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	err := errors.Join(
		section("http", validation.ValidateStruct(&c.HTTP,
			validation.Field(&c.HTTP.Addr, validation.Required),
			validation.Field(&c.HTTP.ReadHeaderTimeout, validation.Min(time.Duration(0))),
			validation.Field(&c.HTTP.IdleTimeout, validation.Min(time.Duration(0))),
		)),
		section("database", validation.ValidateStruct(&c.Database,
			validation.Field(&c.Database.Driver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
			validation.Field(&c.Database.Path, validation.By(requiredFor(c.Database.Driver, DriverSQLite))),
			validation.Field(&c.Database.DSN, validation.By(requiredFor(c.Database.Driver, DriverPostgres))),
		)),
		section("auth", validation.ValidateStruct(&c.Auth,
			validation.Field(&c.Auth.TokenSecret,
				validation.Required.Error("is required (set ACCOUNTD_AUTH__TOKEN_SECRET)"),
				validation.By(minBytes(minSecretLength)),
			),
			validation.Field(&c.Auth.TokenLifetime, validation.Required, validation.Min(time.Second)),
			validation.Field(&c.Auth.BcryptCost, validation.Min(4), validation.Max(14)),
		)),
		section("ratelimit", validation.ValidateStruct(&c.RateLimit,
			validation.Field(&c.RateLimit.Rate, validation.Min(0.0)),
			validation.Field(&c.RateLimit.Burst, validation.Required, validation.Min(1)),
		)),
		section("log", validation.ValidateStruct(&c.Log,
			validation.Field(&c.Log.Level, validation.In("debug", "info", "warn", "error")),
			validation.Field(&c.Log.Format, validation.In("text", "json")),
		)),
	)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func section(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

func minBytes(n int) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != "" && len(s) < n {
			return fmt.Errorf("must be at least %d bytes", n)
		}
		return nil
	}
}

// requiredFor makes a string field mandatory only for the given driver.
func requiredFor(driver, want string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if driver == want && strings.TrimSpace(s) == "" {
			return fmt.Errorf("is required for the %s driver", want)
		}
		return nil
	}
}
