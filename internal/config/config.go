package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/adanyl0v/taskd/internal/auth"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

var (
	ErrUnknownEnv           = errors.New("unknown env")
	ErrUnknownStorageDriver = errors.New("unknown storage driver")
	ErrInvalidJWTSecret     = errors.New("invalid jwt secret")
	ErrInvalidJWTExpiration = errors.New("invalid jwt expiration")
)

type Config struct {
	Env           string `env:"ENV" env-default:"local" yaml:"env" toml:"env" json:"env"`
	StorageDriver string `env:"STORAGE_DRIVER" env-default:"sqlite" yaml:"storage_driver" toml:"storage_driver" json:"storage_driver"`

	HTTP     HTTPConfig     `yaml:"http" toml:"http" json:"http"`
	Postgres PostgresConfig `yaml:"postgres" toml:"postgres" json:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite" toml:"sqlite" json:"sqlite"`
	JWT      JWTConfig      `yaml:"jwt" toml:"jwt" json:"jwt"`
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0" yaml:"host" toml:"host" json:"host"`
	Port            string        `env:"HTTP_PORT" env-default:"8080" yaml:"port" toml:"port" json:"port"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s" yaml:"read_timeout" toml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s" yaml:"write_timeout" toml:"write_timeout" json:"write_timeout"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s" yaml:"idle_timeout" toml:"idle_timeout" json:"idle_timeout"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s" yaml:"shutdown_timeout" toml:"shutdown_timeout" json:"shutdown_timeout"`
}

type PostgresConfig struct {
	Host           string        `env:"POSTGRES_HOST" env-default:"localhost" yaml:"host" toml:"host" json:"host"`
	Port           int           `env:"POSTGRES_PORT" env-default:"5432" yaml:"port" toml:"port" json:"port"`
	Username       string        `env:"POSTGRES_USERNAME" env-default:"postgres" yaml:"username" toml:"username" json:"username"`
	Password       string        `env:"POSTGRES_PASSWORD" yaml:"password" toml:"password" json:"password"`
	Database       string        `env:"POSTGRES_DATABASE" env-default:"taskd" yaml:"database" toml:"database" json:"database"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE" env-default:"disable" yaml:"ssl_mode" toml:"ssl_mode" json:"ssl_mode"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT" env-default:"10s" yaml:"connect_timeout" toml:"connect_timeout" json:"connect_timeout"`
	PingTimeout    time.Duration `env:"POSTGRES_PING_TIMEOUT" env-default:"10s" yaml:"ping_timeout" toml:"ping_timeout" json:"ping_timeout"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH" env-default:"taskd.db" yaml:"path" toml:"path" json:"path"`
}

type JWTConfig struct {
	// Secret is base64 encoded.
	Secret       string `env:"JWT_SECRET" env-required:"true" yaml:"secret" toml:"secret" json:"secret"`
	ExpirationMS int64  `env:"JWT_EXPIRATION_MS" env-default:"86400000" yaml:"expiration_ms" toml:"expiration_ms" json:"expiration_ms"`
}

// Validate checks values that the struct tags cannot express.
func (c Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEnv, c.Env)
	}

	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverSQLite:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownStorageDriver, c.StorageDriver)
	}

	if _, err := c.JWT.SigningKey(); err != nil {
		return err
	}
	if c.JWT.TokenLifetime() < auth.MinLifetime {
		return fmt.Errorf("%w: %d", ErrInvalidJWTExpiration, c.JWT.ExpirationMS)
	}
	return nil
}

// SigningKey decodes the secret. Standard and URL-safe alphabets are both
// accepted, with or without padding.
func (c JWTConfig) SigningKey() ([]byte, error) {
	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	for _, enc := range encodings {
		key, err := enc.DecodeString(c.Secret)
		if err != nil {
			continue
		}
		if len(key) < auth.MinSigningKeyLength {
			return nil, fmt.Errorf("%w: decoded key is %d bytes, need at least %d",
				ErrInvalidJWTSecret, len(key), auth.MinSigningKeyLength)
		}
		return key, nil
	}
	return nil, fmt.Errorf("%w: not base64", ErrInvalidJWTSecret)
}

func (c JWTConfig) TokenLifetime() time.Duration {
	return time.Duration(c.ExpirationMS) * time.Millisecond
}

// URL builds a connection URL for pgx.
func (c PostgresConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}
