package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/riskibarqy/draft-state/internal/platform/logging"
)

// Config stores runtime configuration shared by the draftops commands.
// It is built once at process start and passed by reference; none of the
// reconciliation or validation logic reads ambient state.
type Config struct {
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	LocalSnapshotDir  string
	SyncPrefixes      []string
	SyncDryRun        bool
	SyncMaxWorkers    int
	SyncContinueOnErr bool
	MaxValidPlayerID  int64
	InvalidPlayerIDs  []int64
	LogLevel          logging.Level
}

func Load() (Config, error) {
	bucket := strings.TrimSpace(getEnv("DRAFT_S3_BUCKET", ""))
	if bucket == "" {
		bucket = strings.TrimSpace(getEnv("AWS_S3_BUCKET", ""))
	}

	region := strings.TrimSpace(getEnv("AWS_REGION", ""))
	if region == "" {
		region = strings.TrimSpace(getEnv("AWS_DEFAULT_REGION", "us-east-1"))
	}

	dryRun, err := strconv.ParseBool(getEnv("SYNC_DRY_RUN", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_DRY_RUN: %w", err)
	}

	continueOnErr, err := strconv.ParseBool(getEnv("SYNC_CONTINUE_ON_ERROR", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_CONTINUE_ON_ERROR: %w", err)
	}

	maxWorkers, err := getEnvAsInt("SYNC_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_MAX_WORKERS: %w", err)
	}
	if maxWorkers < 1 {
		return Config{}, fmt.Errorf("SYNC_MAX_WORKERS must be >= 1")
	}

	maxValidID, err := getEnvAsInt("MAX_VALID_PLAYER_ID", 1000)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_VALID_PLAYER_ID: %w", err)
	}
	if maxValidID < 1 {
		return Config{}, fmt.Errorf("MAX_VALID_PLAYER_ID must be >= 1")
	}

	denylist, err := parseIDList(getEnv("INVALID_PLAYER_IDS", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse INVALID_PLAYER_IDS: %w", err)
	}

	cfg := Config{
		S3Bucket:          bucket,
		S3Region:          region,
		S3Endpoint:        strings.TrimSpace(getEnv("AWS_ENDPOINT_URL", "")),
		S3AccessKeyID:     strings.TrimSpace(getEnv("AWS_ACCESS_KEY_ID", "")),
		S3SecretAccessKey: strings.TrimSpace(getEnv("AWS_SECRET_ACCESS_KEY", "")),
		LocalSnapshotDir:  getEnv("LOCAL_LINEUPS_DIR", "/app/lineups"),
		SyncPrefixes:      splitCSV(getEnv("SYNC_PREFIXES", "GW1")),
		SyncDryRun:        dryRun,
		SyncMaxWorkers:    maxWorkers,
		SyncContinueOnErr: continueOnErr,
		MaxValidPlayerID:  int64(maxValidID),
		InvalidPlayerIDs:  denylist,
		LogLevel:          parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}

	if len(cfg.SyncPrefixes) == 0 {
		return Config{}, fmt.Errorf("SYNC_PREFIXES cannot be empty")
	}

	return cfg, nil
}

// Denylist converts the configured invalid ids into set form.
func (c Config) Denylist() map[int64]struct{} {
	out := make(map[int64]struct{}, len(c.InvalidPlayerIDs))
	for _, id := range c.InvalidPlayerIDs {
		out[id] = struct{}{}
	}
	return out
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseIDList(raw string) ([]int64, error) {
	out := make([]int64, 0)
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		id, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", item, err)
		}
		out = append(out, id)
	}
	return out, nil
}
