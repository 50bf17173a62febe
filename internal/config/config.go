package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// JWTConfig defines issuer/secret pair for auth verification.
type JWTConfig struct {
	Issuer string
	Secret []byte
}

// Config holds runtime configuration shared across the CLI and the API server.
type Config struct {
	PlacesAPIKey   string
	PlacesBaseURL  string
	PlacesTimeout  time.Duration
	QueryTemplate  string
	StoresDir      string
	OutputDir      string
	DataDir        string
	MongoURI       string
	MongoDatabase  string
	RunCollection  string
	RowCollection  string
	Timeout        time.Duration
	ArtifactBucket string
	AWSRegion      string
	Addr           string
	AllowedOrigins []string
	JWTConfigs     []JWTConfig
	JWTAudience    string
	ServerLog      *log.Logger
}

// MongoEnabled reports whether run persistence is configured.
func (c Config) MongoEnabled() bool { return c.MongoURI != "" }

// ArtifactsEnabled reports whether artifacts should be uploaded to S3.
func (c Config) ArtifactsEnabled() bool { return c.ArtifactBucket != "" }

// AuthEnabled reports whether API requests must carry a bearer token.
func (c Config) AuthEnabled() bool { return len(c.JWTConfigs) > 0 }

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables already set win over the file. A missing file is not an error.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	var jwtConfigs []JWTConfig
	if secret := strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET")); secret != "" {
		jwtConfigs = append(jwtConfigs, JWTConfig{
			Issuer: envOrDefault("AUTH_JWT_ISSUER", "bunnings-auth"),
			Secret: []byte(secret),
		})
	}

	cfg := Config{
		PlacesAPIKey:   strings.TrimSpace(os.Getenv("GOOGLE_PLACES_NEW_API_KEY")),
		PlacesBaseURL:  envOrDefault("PLACES_BASE_URL", "https://places.googleapis.com/v1"),
		PlacesTimeout:  parseDuration("PLACES_TIMEOUT", 10*time.Second),
		QueryTemplate:  envOrDefault("SEARCH_QUERY_TEMPLATE", "Bunnings {suburb}, Australia"),
		StoresDir:      envOrDefault("STORES_DIR", "stores"),
		OutputDir:      envOrDefault("OUTPUT_DIR", "output"),
		DataDir:        envOrDefault("DATA_DIR", "data"),
		MongoURI:       strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase:  envOrDefault("MONGO_DB", "bunnings"),
		RunCollection:  envOrDefault("RUN_COLLECTION", "runs"),
		RowCollection:  envOrDefault("ROW_COLLECTION", "stores"),
		Timeout:        parseDuration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		ArtifactBucket: strings.TrimSpace(os.Getenv("S3_ARTIFACT_BUCKET")),
		AWSRegion:      envOrDefault("AWS_REGION", "ap-southeast-2"),
		Addr:           envOrDefault("HTTP_ADDR", ":8080"),
		AllowedOrigins: parseList("API_ALLOWED_ORIGINS", []string{"*"}),
		JWTConfigs:     jwtConfigs,
		JWTAudience:    strings.TrimSpace(os.Getenv("AUTH_JWT_AUDIENCE")),
		ServerLog:      log.New(os.Stdout, "[bunnings] ", log.LstdFlags),
	}

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
