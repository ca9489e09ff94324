package config

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testSecret(n int) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", n)))
}

func TestEnvReaderDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret(32))

	cfg, err := NewEnvReader().Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if cfg.Env != EnvLocal || cfg.StorageDriver != StorageDriverSQLite {
		t.Fatalf("env = %q, driver = %q", cfg.Env, cfg.StorageDriver)
	}
	if cfg.HTTP.Port != "8080" || cfg.HTTP.ShutdownTimeout != 5*time.Second {
		t.Fatalf("http = %+v", cfg.HTTP)
	}
	if got := cfg.JWT.TokenLifetime(); got != 24*time.Hour {
		t.Fatalf("token lifetime = %v, want 24h", got)
	}

	key, err := cfg.JWT.SigningKey()
	if err != nil {
		t.Fatalf("signing key: %v", err)
	}
	if len(key) != 32 {
		t.Fatalf("key length = %d", len(key))
	}
}

func TestEnvReaderOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret(48))
	t.Setenv("JWT_EXPIRATION_MS", "60000")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("ENV", "prod")

	cfg, err := NewEnvReader().Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if cfg.JWT.TokenLifetime() != time.Minute {
		t.Fatalf("token lifetime = %v", cfg.JWT.TokenLifetime())
	}
	if cfg.StorageDriver != StorageDriverPostgres || cfg.Env != EnvProd {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestEnvReaderRequiresSecret(t *testing.T) {
	if _, ok := os.LookupEnv("JWT_SECRET"); ok {
		t.Skip("JWT_SECRET is set in the environment")
	}
	if _, err := NewEnvReader().Read(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestEnvReaderRejectsInvalidValues(t *testing.T) {
	cases := map[string]struct {
		env  map[string]string
		want error
	}{
		"short secret": {
			env:  map[string]string{"JWT_SECRET": testSecret(16)},
			want: ErrInvalidJWTSecret,
		},
		"not base64": {
			env:  map[string]string{"JWT_SECRET": "!!! not base64 !!!"},
			want: ErrInvalidJWTSecret,
		},
		"unknown driver": {
			env:  map[string]string{"JWT_SECRET": testSecret(32), "STORAGE_DRIVER": "mysql"},
			want: ErrUnknownStorageDriver,
		},
		"unknown env": {
			env:  map[string]string{"JWT_SECRET": testSecret(32), "ENV": "staging"},
			want: ErrUnknownEnv,
		},
		"negative expiration": {
			env:  map[string]string{"JWT_SECRET": testSecret(32), "JWT_EXPIRATION_MS": "-1"},
			want: ErrInvalidJWTExpiration,
		},
		"sub-second expiration": {
			env:  map[string]string{"JWT_SECRET": testSecret(32), "JWT_EXPIRATION_MS": "500"},
			want: ErrInvalidJWTExpiration,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := NewEnvReader().Read()
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSigningKeyAcceptsURLAlphabet(t *testing.T) {
	raw := make([]byte, 33)
	for i := range raw {
		raw[i] = 0xfb
	}
	cfg := JWTConfig{Secret: base64.RawURLEncoding.EncodeToString(raw)}

	key, err := cfg.SigningKey()
	if err != nil {
		t.Fatalf("signing key: %v", err)
	}
	if len(key) != len(raw) {
		t.Fatalf("key length = %d", len(key))
	}
}

func TestFileReader(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret(32))

	path := filepath.Join(t.TempDir(), "taskd.yaml")
	content := `
env: dev
storage_driver: sqlite
http:
  port: "9090"
sqlite:
  path: /var/lib/taskd/data.db
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewFileReader(path).Read()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if cfg.Env != EnvDev || cfg.HTTP.Port != "9090" || cfg.SQLite.Path != "/var/lib/taskd/data.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestNewReaderHonorsConfigPath(t *testing.T) {
	t.Setenv(PathEnv, "/etc/taskd/config.yaml")
	if _, ok := NewReader().(FileReader); !ok {
		t.Fatal("expected FileReader when CONFIG_PATH is set")
	}
}

func TestPostgresURLEscapesCredentials(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db",
		Port:     5432,
		Username: "taskd",
		Password: "p@ss/word",
		Database: "tasks",
		SSLMode:  "disable",
	}
	want := "postgres://taskd:p%40ss%2Fword@db:5432/tasks?sslmode=disable"
	if got := cfg.URL(); got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}
}
