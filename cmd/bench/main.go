// README: Smoke-check runner; verifies the daemon, backend, DB, and Redis are reachable and behaving.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	runner := NewRunner(cfg)
	results := runner.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	pass, fail, skipped := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case "PASS":
			pass++
		case "FAIL":
			fail++
		case "SKIP":
			skipped++
		}
	}
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", pass, fail, skipped)

	if fail > 0 {
		os.Exit(1)
	}
}

type Config struct {
	DaemonURL  string
	BackendURL string
	DSN        string
	RedisAddr  string
	Timeout    time.Duration
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.DaemonURL, "daemon-url", envOrDefault("COURIERD_BENCH_DAEMON_URL", "http://localhost:8090"), "courierd base URL")
	flag.StringVar(&cfg.BackendURL, "backend-url", envOrDefault("COURIERD_BENCH_BACKEND_URL", ""), "delivery backend base URL (optional)")
	flag.StringVar(&cfg.DSN, "dsn", envOrDefault("COURIERD_BENCH_DSN", ""), "Postgres DSN (optional)")
	flag.StringVar(&cfg.RedisAddr, "redis", envOrDefault("COURIERD_BENCH_REDIS_ADDR", ""), "Redis address (optional)")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("COURIERD_BENCH_TIMEOUT", 60*time.Second), "Total timeout")
	flag.Parse()
	cfg.DaemonURL = strings.TrimRight(cfg.DaemonURL, "/")
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
