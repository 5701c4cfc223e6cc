package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("expected memory backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Auth.JWTTTL != 2*time.Hour {
		t.Errorf("expected 2h token ttl, got %s", cfg.Auth.JWTTTL)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("expected redis disabled by default, got %q", cfg.Redis.Addr)
	}
	if cfg.Redis.LockTTL != 5*time.Second {
		t.Errorf("expected 5s lock ttl, got %s", cfg.Redis.LockTTL)
	}
	if cfg.IsProduction() {
		t.Error("expected development environment")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "s3cret",
		"JWT_TTL":         "15m",
		"STORAGE_BACKEND": " Postgres ",
		"POSTGRES_DSN":    "postgres://localhost/customers",
		"ENV":             "production",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage.Backend != BackendPostgres {
		t.Errorf("expected postgres backend, got %q", cfg.Storage.Backend)
	}
	if cfg.Auth.JWTTTL != 15*time.Minute {
		t.Errorf("expected 15m, got %s", cfg.Auth.JWTTTL)
	}
	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing secret",
			env:  map[string]string{},
			want: "JWT_SECRET is required",
		},
		{
			name: "postgres without dsn",
			env:  map[string]string{"JWT_SECRET": "x", "STORAGE_BACKEND": "postgres"},
			want: "POSTGRES_DSN is required",
		},
		{
			name: "orm without dsn",
			env:  map[string]string{"JWT_SECRET": "x", "STORAGE_BACKEND": "orm"},
			want: "POSTGRES_DSN is required",
		},
		{
			name: "unknown backend",
			env:  map[string]string{"JWT_SECRET": "x", "STORAGE_BACKEND": "cassandra"},
			want: `unknown STORAGE_BACKEND "cassandra"`,
		},
		{
			name: "non-positive ttl",
			env:  map[string]string{"JWT_SECRET": "x", "JWT_TTL": "0s"},
			want: "JWT_TTL must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(context.Background(), envconfig.MapLookuper(tt.env))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}
