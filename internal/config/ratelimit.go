package config

import (
    "os"
    "strconv"
    "time"
)

// RateLimitConfig controls the Redis fixed-window limiter applied to
// the public booking endpoint.  Limit requests are allowed per Window
// per client IP; further requests receive 429 until the window rolls.
type RateLimitConfig struct {
    Enabled bool
    Limit   int
    Window  time.Duration
    Prefix  string
}

// LoadRateLimitConfig reads the rate limiter settings from the
// environment, applying sane defaults when variables are unset.
func LoadRateLimitConfig() RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled: getenv("RATE_LIMIT_ENABLED", "true") == "true",
        Limit:   atoiDefault(getenv("RATE_LIMIT_LIMIT", "20"), 20),
        Window:  parseDur(getenv("RATE_LIMIT_WINDOW", "1m"), time.Minute),
        Prefix:  getenv("RATE_LIMIT_PREFIX", "rl"),
    }
    if cfg.Limit < 1 {
        cfg.Limit = 1
    }
    return cfg
}

func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func atoiDefault(s string, def int) int {
    n, err := strconv.Atoi(s)
    if err != nil {
        return def
    }
    return n
}

func parseDur(s string, def time.Duration) time.Duration {
    d, err := time.ParseDuration(s)
    if err != nil || d <= 0 {
        return def
    }
    return d
}
