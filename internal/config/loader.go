package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the scheduler service.
type Config struct {
	HTTPPort         int
	SQLiteDSN        string
	AccessPassword   string
	SessionTTL       time.Duration
	NotifierEndpoint string
	NotifierCC       string
	NotifierTimeout  time.Duration
	RateLimitPerMin  int
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// required values and reporting localized error messages for missing entries.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:        8080,
		SQLiteDSN:       "file:scheduler.db?_foreign_keys=on",
		SessionTTL:      24 * time.Hour,
		NotifierTimeout: 10 * time.Second,
		RateLimitPerMin: 120,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("SCHEDULER_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "SCHEDULER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("SCHEDULER_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if password := strings.TrimSpace(os.Getenv("SCHEDULER_ACCESS_PASSWORD")); password == "" {
		missing = append(missing, "SCHEDULER_ACCESS_PASSWORD")
	} else {
		cfg.AccessPassword = password
	}

	if ttlValue := strings.TrimSpace(os.Getenv("SCHEDULER_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "SCHEDULER_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	cfg.NotifierEndpoint = strings.TrimSpace(os.Getenv("SCHEDULER_NOTIFIER_ENDPOINT"))
	cfg.NotifierCC = strings.TrimSpace(os.Getenv("SCHEDULER_NOTIFIER_CC"))

	if timeoutValue := strings.TrimSpace(os.Getenv("SCHEDULER_NOTIFIER_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "SCHEDULER_NOTIFIER_TIMEOUT")
		} else {
			cfg.NotifierTimeout = timeout
		}
	}

	if rateValue := strings.TrimSpace(os.Getenv("SCHEDULER_RATE_LIMIT_PER_MIN")); rateValue != "" {
		limit, err := strconv.Atoi(rateValue)
		if err != nil || limit <= 0 {
			invalid = append(invalid, "SCHEDULER_RATE_LIMIT_PER_MIN")
		} else {
			cfg.RateLimitPerMin = limit
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("必須の環境変数が設定されていません: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("環境変数の値が不正です: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
