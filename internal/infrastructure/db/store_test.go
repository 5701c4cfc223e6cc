package db

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/customer-directory/customer-api/internal/infrastructure/config"
	"github.com/customer-directory/customer-api/internal/infrastructure/db/memory"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Backend: config.BackendMemory}}

	store, err := Open(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.Customers.(*memory.CustomerRepository); !ok {
		t.Fatalf("expected memory repository, got %T", store.Customers)
	}
	if err := store.Customers.Ping(context.Background()); err != nil {
		t.Errorf("ping: %v", err)
	}
	if err := store.Close(context.Background()); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Backend: "cassandra"}}

	if _, err := Open(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
