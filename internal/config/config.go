package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string        // TASKBOARD_DATABASE_URL (Postgres; empty = SQLite)
	SQLitePath  string        // TASKBOARD_SQLITE_PATH (default "taskboard.db")
	RedisURL    string        // TASKBOARD_REDIS_URL (optional board cache)
	RedisTTL    time.Duration // TASKBOARD_REDIS_TTL (default 10m)
	GRPCAddr    string        // TASKBOARD_GRPC_ADDR (default ":9090")
	HTTPAddr    string        // TASKBOARD_HTTP_ADDR (default ":8080")
	NATSURL     string        // TASKBOARD_NATS_URL (optional, empty = no events)
	AuthToken   string        // TASKBOARD_AUTH_TOKEN (optional, empty = auth disabled)

	Location         *time.Location // TASKBOARD_TIMEZONE (default "Local")
	IDStyle          string         // TASKBOARD_ID_STYLE (nanoid|uuid, default nanoid)
	TopLabels        int            // TASKBOARD_TOP_LABELS (default 5)
	ReminderInterval time.Duration  // TASKBOARD_REMINDER_INTERVAL (default 1h; 0 = disabled)

	// Sync settings
	SyncInterval   time.Duration // TASKBOARD_SYNC_INTERVAL (default 3m; 0 = disabled)
	SyncS3Bucket   string        // TASKBOARD_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // TASKBOARD_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // TASKBOARD_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // TASKBOARD_SYNC_S3_KEY (default "taskboard/backup.jsonl")
	SyncGitRepo    string        // TASKBOARD_SYNC_GIT_REPO (enables git when set; path to clone)
	SyncGitFile    string        // TASKBOARD_SYNC_GIT_FILE (default "taskboard.jsonl")
	SyncGitBranch  string        // TASKBOARD_SYNC_GIT_BRANCH (default "main")
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:    os.Getenv("TASKBOARD_DATABASE_URL"),
		SQLitePath:     envOrDefault("TASKBOARD_SQLITE_PATH", "taskboard.db"),
		RedisURL:       os.Getenv("TASKBOARD_REDIS_URL"),
		GRPCAddr:       envOrDefault("TASKBOARD_GRPC_ADDR", ":9090"),
		HTTPAddr:       envOrDefault("TASKBOARD_HTTP_ADDR", ":8080"),
		NATSURL:        os.Getenv("TASKBOARD_NATS_URL"),
		AuthToken:      os.Getenv("TASKBOARD_AUTH_TOKEN"),
		IDStyle:        envOrDefault("TASKBOARD_ID_STYLE", "nanoid"),
		SyncS3Bucket:   os.Getenv("TASKBOARD_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("TASKBOARD_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("TASKBOARD_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("TASKBOARD_SYNC_S3_KEY", "taskboard/backup.jsonl"),
		SyncGitRepo:    os.Getenv("TASKBOARD_SYNC_GIT_REPO"),
		SyncGitFile:    envOrDefault("TASKBOARD_SYNC_GIT_FILE", "taskboard.jsonl"),
		SyncGitBranch:  envOrDefault("TASKBOARD_SYNC_GIT_BRANCH", "main"),
	}

	switch c.IDStyle {
	case "nanoid", "uuid":
	default:
		return nil, fmt.Errorf("TASKBOARD_ID_STYLE: unknown style %q", c.IDStyle)
	}

	loc, err := time.LoadLocation(envOrDefault("TASKBOARD_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("TASKBOARD_TIMEZONE: %w", err)
	}
	c.Location = loc

	c.TopLabels, err = strconv.Atoi(envOrDefault("TASKBOARD_TOP_LABELS", "5"))
	if err != nil || c.TopLabels < 1 {
		return nil, fmt.Errorf("TASKBOARD_TOP_LABELS: must be a positive integer")
	}

	for _, d := range []struct {
		key, fallback string
		dst           *time.Duration
	}{
		{"TASKBOARD_REDIS_TTL", "10m", &c.RedisTTL},
		{"TASKBOARD_REMINDER_INTERVAL", "1h", &c.ReminderInterval},
		{"TASKBOARD_SYNC_INTERVAL", "3m", &c.SyncInterval},
	} {
		v, err := time.ParseDuration(envOrDefault(d.key, d.fallback))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.key, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("%s: must not be negative", d.key)
		}
		*d.dst = v
	}

	return c, nil
}

// SyncEnabled reports whether any backup destination is configured.
func (c *Config) SyncEnabled() bool {
	return c.SyncInterval > 0 && (c.SyncS3Bucket != "" || c.SyncGitRepo != "")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
