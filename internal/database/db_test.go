package database

import (
	"context"
	"io/fs"
	"strings"
	"testing"
)

func TestConnect_Validation(t *testing.T) {
	if _, err := Connect(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty dsn")
	}

	if _, err := Connect(context.Background(), "invalid-dsn"); err == nil {
		t.Fatalf("expected error for invalid dsn")
	}
}

func TestMigrate_Validation(t *testing.T) {
	if err := Migrate(""); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	ups, downs := 0, 0
	for _, entry := range entries {
		switch {
		case strings.HasSuffix(entry.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(entry.Name(), ".down.sql"):
			downs++
		}
	}
	if ups == 0 || ups != downs {
		t.Fatalf("expected paired up/down migrations, got %d up and %d down", ups, downs)
	}
}

func TestNewMigratorLoadsEmbeddedSource(t *testing.T) {
	data, err := fs.ReadFile(migrationsFS, "migrations/000001_create_brands.up.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if !strings.Contains(string(data), "brand_insights") {
		t.Fatalf("expected brand_insights table in initial migration")
	}
}
