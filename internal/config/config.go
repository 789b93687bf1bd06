// Package config reads server settings from FACETS_* environment variables.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/alfredjeanlab/facets/internal/pagination"
)

// Config holds the server settings.
type Config struct {
	DatabaseURL string // FACETS_DATABASE_URL (required)
	GRPCAddr    string // FACETS_GRPC_ADDR (default ":9090")
	HTTPAddr    string // FACETS_HTTP_ADDR (default ":8080")
	NATSURL     string // FACETS_NATS_URL (optional, empty = no events)
	AuthToken   string // FACETS_AUTH_TOKEN (optional, empty = auth disabled)

	FieldsFile   string // FACETS_FIELDS_FILE (optional, empty = built-in field set)
	DefaultLimit int    // FACETS_DEFAULT_LIMIT (default 20; must be an allowed page size)

	// Sync settings
	SyncInterval   time.Duration // FACETS_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // FACETS_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // FACETS_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // FACETS_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // FACETS_SYNC_S3_KEY (default "facets/views.jsonl")
	SyncGitRepo    string        // FACETS_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile    string        // FACETS_SYNC_GIT_FILE (default "views.jsonl")
	SyncGitBranch  string        // FACETS_SYNC_GIT_BRANCH (default "main")
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:    os.Getenv("FACETS_DATABASE_URL"),
		GRPCAddr:       envOrDefault("FACETS_GRPC_ADDR", ":9090"),
		HTTPAddr:       envOrDefault("FACETS_HTTP_ADDR", ":8080"),
		NATSURL:        os.Getenv("FACETS_NATS_URL"),
		AuthToken:      os.Getenv("FACETS_AUTH_TOKEN"),
		FieldsFile:     os.Getenv("FACETS_FIELDS_FILE"),
		SyncS3Bucket:   os.Getenv("FACETS_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("FACETS_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("FACETS_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("FACETS_SYNC_S3_KEY", "facets/views.jsonl"),
		SyncGitRepo:    os.Getenv("FACETS_SYNC_GIT_REPO"),
		SyncGitFile:    envOrDefault("FACETS_SYNC_GIT_FILE", "views.jsonl"),
		SyncGitBranch:  envOrDefault("FACETS_SYNC_GIT_BRANCH", "main"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("FACETS_DATABASE_URL is required")
	}

	limit, err := strconv.Atoi(envOrDefault("FACETS_DEFAULT_LIMIT", strconv.Itoa(pagination.DefaultLimit)))
	if err != nil {
		return nil, fmt.Errorf("FACETS_DEFAULT_LIMIT: %w", err)
	}
	if !slices.Contains(pagination.DefaultAllowedLimits, limit) {
		return nil, fmt.Errorf("FACETS_DEFAULT_LIMIT: %d is not one of %v", limit, pagination.DefaultAllowedLimits)
	}
	c.DefaultLimit = limit

	intervalStr := envOrDefault("FACETS_SYNC_INTERVAL", "3m")
	if intervalStr != "" {
		d, err := time.ParseDuration(intervalStr)
		if err != nil {
			return nil, fmt.Errorf("FACETS_SYNC_INTERVAL: %w", err)
		}
		c.SyncInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
