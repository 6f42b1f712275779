// Package config loads runtime configuration. Precedence: environment
// variables override the optional TOML file, which overrides defaults. A
// .env file in the working directory is folded into the environment first.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	DataDir     string `toml:"data_dir"`     // KEEL_DATA_DIR (default "./data")
	Store       string `toml:"store"`        // KEEL_STORE ("sqlite" or "postgres", default "sqlite")
	DatabaseURL string `toml:"database_url"` // KEEL_DATABASE_URL (required when store = postgres)
	GRPCAddr    string `toml:"grpc_addr"`    // KEEL_GRPC_ADDR (default ":9090")
	NATSURL     string `toml:"nats_url"`     // KEEL_NATS_URL (optional, empty = no relay)

	ActorCacheSize int           `toml:"actor_cache_size"` // KEEL_ACTOR_CACHE_SIZE (default 1024)
	CommandTimeout time.Duration `toml:"-"`                // KEEL_COMMAND_TIMEOUT (default 30s)

	// Archive settings
	ArchiveInterval   time.Duration `toml:"-"`                   // KEEL_ARCHIVE_INTERVAL (0 = disabled)
	ArchiveS3Bucket   string        `toml:"archive_s3_bucket"`   // KEEL_ARCHIVE_S3_BUCKET (enables S3 when set)
	ArchiveS3Endpoint string        `toml:"archive_s3_endpoint"` // KEEL_ARCHIVE_S3_ENDPOINT (custom endpoint for MinIO)
	ArchiveS3Region   string        `toml:"archive_s3_region"`   // KEEL_ARCHIVE_S3_REGION (default "us-east-1")
	ArchiveS3Key      string        `toml:"archive_s3_key"`      // KEEL_ARCHIVE_S3_KEY (default "keel/events.jsonl")
	ArchiveFile       string        `toml:"archive_file"`        // KEEL_ARCHIVE_FILE (local JSONL path)

	// Raw duration strings from the TOML file, parsed in finish().
	CommandTimeoutRaw  string `toml:"command_timeout"`
	ArchiveIntervalRaw string `toml:"archive_interval"`
}

// Load builds the configuration from .env, the optional TOML file named by
// KEEL_CONFIG (default keel.toml when present), and the environment.
func Load() (*Config, error) {
	// Missing .env is fine; only malformed files are reported.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c := &Config{
		DataDir:         "./data",
		Store:           "sqlite",
		GRPCAddr:        ":9090",
		ActorCacheSize:  1024,
		ArchiveS3Region: "us-east-1",
		ArchiveS3Key:    "keel/events.jsonl",
	}

	if path := configFile(); path != "" {
		if _, err := toml.DecodeFile(path, c); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	applyEnv(c)
	if err := c.finish(); err != nil {
		return nil, err
	}
	return c, nil
}

func configFile() string {
	if path := os.Getenv("KEEL_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat("keel.toml"); err == nil {
		return "keel.toml"
	}
	return ""
}

func applyEnv(c *Config) {
	setString(&c.DataDir, "KEEL_DATA_DIR")
	setString(&c.Store, "KEEL_STORE")
	setString(&c.DatabaseURL, "KEEL_DATABASE_URL")
	setString(&c.GRPCAddr, "KEEL_GRPC_ADDR")
	setString(&c.NATSURL, "KEEL_NATS_URL")
	setString(&c.CommandTimeoutRaw, "KEEL_COMMAND_TIMEOUT")
	setString(&c.ArchiveIntervalRaw, "KEEL_ARCHIVE_INTERVAL")
	setString(&c.ArchiveS3Bucket, "KEEL_ARCHIVE_S3_BUCKET")
	setString(&c.ArchiveS3Endpoint, "KEEL_ARCHIVE_S3_ENDPOINT")
	setString(&c.ArchiveS3Region, "KEEL_ARCHIVE_S3_REGION")
	setString(&c.ArchiveS3Key, "KEEL_ARCHIVE_S3_KEY")
	setString(&c.ArchiveFile, "KEEL_ARCHIVE_FILE")

	if v := os.Getenv("KEEL_ACTOR_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ActorCacheSize = n
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// finish parses duration strings and checks cross-field constraints.
func (c *Config) finish() error {
	c.CommandTimeout = 30 * time.Second
	if c.CommandTimeoutRaw != "" {
		d, err := time.ParseDuration(c.CommandTimeoutRaw)
		if err != nil {
			return fmt.Errorf("KEEL_COMMAND_TIMEOUT: %w", err)
		}
		c.CommandTimeout = d
	}

	if c.ArchiveIntervalRaw != "" {
		d, err := time.ParseDuration(c.ArchiveIntervalRaw)
		if err != nil {
			return fmt.Errorf("KEEL_ARCHIVE_INTERVAL: %w", err)
		}
		c.ArchiveInterval = d
	}

	switch c.Store {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("KEEL_DATABASE_URL is required when KEEL_STORE=postgres")
		}
	default:
		return fmt.Errorf("KEEL_STORE: unknown backend %q", c.Store)
	}

	if c.ActorCacheSize < 1 {
		return fmt.Errorf("KEEL_ACTOR_CACHE_SIZE must be positive, got %d", c.ActorCacheSize)
	}

	return nil
}
