package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BrianJCal99/project-bunnings/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"GOOGLE_PLACES_NEW_API_KEY", "MONGO_URI", "S3_ARTIFACT_BUCKET", "AUTH_JWT_SECRET", "PLACES_TIMEOUT", "API_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := config.Load()
	if cfg.PlacesBaseURL != "https://places.googleapis.com/v1" {
		t.Fatalf("base url = %s", cfg.PlacesBaseURL)
	}
	if cfg.QueryTemplate != "Bunnings {suburb}, Australia" {
		t.Fatalf("template = %s", cfg.QueryTemplate)
	}
	if cfg.PlacesTimeout != 10*time.Second {
		t.Fatalf("timeout = %s", cfg.PlacesTimeout)
	}
	if cfg.MongoEnabled() || cfg.ArtifactsEnabled() || cfg.AuthEnabled() {
		t.Fatal("optional integrations must be disabled by default")
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PLACES_TIMEOUT", "3s")
	t.Setenv("API_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("AUTH_JWT_ISSUER", "issuer-x")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg := config.Load()
	if cfg.PlacesTimeout != 3*time.Second {
		t.Fatalf("timeout = %s", cfg.PlacesTimeout)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	if !cfg.AuthEnabled() || cfg.JWTConfigs[0].Issuer != "issuer-x" || string(cfg.JWTConfigs[0].Secret) != "s3cret" {
		t.Fatalf("jwt = %+v", cfg.JWTConfigs)
	}
	if !cfg.MongoEnabled() {
		t.Fatal("mongo should be enabled")
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("PLACES_TIMEOUT", "soon")
	if got := config.Load().PlacesTimeout; got != 10*time.Second {
		t.Fatalf("timeout = %s", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := config.LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing file: %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("STORES_DIR=from-file\nOUTPUT_DIR=from-file\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("STORES_DIR", "")
	os.Unsetenv("STORES_DIR")
	t.Setenv("OUTPUT_DIR", "from-env")

	if err := config.LoadEnvFile(path); err != nil {
		t.Fatalf("load env: %v", err)
	}
	cfg := config.Load()
	if cfg.StoresDir != "from-file" {
		t.Fatalf("stores dir = %s", cfg.StoresDir)
	}
	if cfg.OutputDir != "from-env" {
		t.Fatalf("existing env must win, got %s", cfg.OutputDir)
	}
}
