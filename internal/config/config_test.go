package config

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/podlens/pkg/cache"
	perrors "github.com/matzehuels/podlens/pkg/errors"
)

// clearEnv isolates tests from the caller's environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PODLENS_CACHE_TTL", "PODLENS_CACHE_MAX_SIZE", "PODLENS_CACHE_BACKEND",
		"PODLENS_REDIS_ADDR", "PODLENS_MONGO_URI", "PODLENS_LISTEN", "GITHUB_TOKEN",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Cache.TTL.Duration() != 24*time.Hour {
		t.Errorf("TTL = %v, want 24h", cfg.Cache.TTL.Duration())
	}
	if cfg.Cache.MaxSize != 1000 {
		t.Errorf("MaxSize = %d, want 1000", cfg.Cache.MaxSize)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Backend = %q, want %q", cfg.Cache.Backend, BackendFile)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("Listen = %q, want :8080", cfg.Server.Listen)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[cache]
ttl = "10m"
max_size = 50
sweep_interval = "30s"
backend = "memory"
http_ttl = "1h"

[github]
token = "ghp_file"
rate = 2.5

[server]
listen = "127.0.0.1:9000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := cfg.Cache.TTL.Duration(); got != 10*time.Minute {
		t.Errorf("TTL = %v, want 10m", got)
	}
	if cfg.Cache.MaxSize != 50 {
		t.Errorf("MaxSize = %d, want 50", cfg.Cache.MaxSize)
	}
	if got := cfg.Cache.SweepInterval.Duration(); got != 30*time.Second {
		t.Errorf("SweepInterval = %v, want 30s", got)
	}
	if cfg.Cache.Backend != BackendMemory {
		t.Errorf("Backend = %q", cfg.Cache.Backend)
	}
	if cfg.GitHub.Token.Value() != "ghp_file" {
		t.Errorf("Token = %q", cfg.GitHub.Token.Value())
	}
	if cfg.GitHub.Rate != 2.5 {
		t.Errorf("Rate = %g, want 2.5", cfg.GitHub.Rate)
	}
	if cfg.Server.Listen != "127.0.0.1:9000" {
		t.Errorf("Listen = %q", cfg.Server.Listen)
	}
	// Untouched sections keep their defaults.
	if cfg.Mongo.Collection != "http_cache" {
		t.Errorf("Mongo.Collection = %q, want default", cfg.Mongo.Collection)
	}
}

func TestLoadDefaultPath(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "podlens"), 0o755); err != nil {
		t.Fatal(err)
	}
	body := "[cache]\nmax_size = 7\n"
	if err := os.WriteFile(filepath.Join(dir, "podlens", "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Cache.MaxSize != 7 {
		t.Errorf("MaxSize = %d, want 7", cfg.Cache.MaxSize)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[cache]\nttl = \"10m\"\nmax_size = 50\n")

	t.Setenv("PODLENS_CACHE_TTL", "90s")
	t.Setenv("PODLENS_CACHE_MAX_SIZE", "5")
	t.Setenv("PODLENS_CACHE_BACKEND", "redis")
	t.Setenv("PODLENS_REDIS_ADDR", "localhost:6379")
	t.Setenv("PODLENS_LISTEN", ":7000")
	t.Setenv("GITHUB_TOKEN", "ghp_env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := cfg.Cache.TTL.Duration(); got != 90*time.Second {
		t.Errorf("TTL = %v, want 90s", got)
	}
	if cfg.Cache.MaxSize != 5 {
		t.Errorf("MaxSize = %d, want 5", cfg.Cache.MaxSize)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("redis = %q %q", cfg.Cache.Backend, cfg.Redis.Addr)
	}
	if cfg.Server.Listen != ":7000" {
		t.Errorf("Listen = %q", cfg.Server.Listen)
	}
	if cfg.GitHub.Token.Value() != "ghp_env" {
		t.Errorf("Token = %q", cfg.GitHub.Token.Value())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "bad toml", body: "[cache\n"},
		{name: "unknown key", body: "[cache]\nsize = 3\n"},
		{name: "negative duration", body: "[cache]\nttl = \"-1m\"\n"},
		{name: "negative max size", body: "[cache]\nmax_size = -1\n"},
		{name: "unknown backend", body: "[cache]\nbackend = \"etcd\"\n"},
		{name: "redis without addr", body: "[cache]\nbackend = \"redis\"\n"},
		{name: "mongo without uri", body: "[cache]\nbackend = \"mongo\"\n"},
		{name: "negative rate", body: "[github]\nrate = -1.0\n"},
		{name: "bad env int", env: map[string]string{"PODLENS_CACHE_MAX_SIZE": "lots"}},
		{name: "bad env duration", env: map[string]string{"PODLENS_CACHE_TTL": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !perrors.Is(err, perrors.ErrCodeInvalidConfig) {
				t.Errorf("code = %q, want INVALID_CONFIG (%v)", perrors.GetCode(err), err)
			}
		})
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !perrors.Is(err, perrors.ErrCodeInvalidConfig) {
		t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
	}
}

func TestSecretRedacted(t *testing.T) {
	s := Secret("ghp_secret")
	for _, got := range []string{s.String(), s.GoString()} {
		if strings.Contains(got, "ghp_secret") {
			t.Errorf("secret leaked: %q", got)
		}
	}
	if Secret("").String() != "" {
		t.Error("empty secret should print empty")
	}
	if !s.IsSet() || s.Value() != "ghp_secret" {
		t.Error("Value/IsSet mismatch")
	}
}

func TestDefaultCacheDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	got, err := DefaultCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "podlens"); got != want {
		t.Errorf("DefaultCacheDir() = %q, want %q", got, want)
	}
}

func TestResultCache(t *testing.T) {
	cfg := Default()
	cfg.Cache.TTL = Duration(time.Minute)
	cfg.Cache.MaxSize = 3

	rc := cfg.ResultCache()
	if rc.TTL != time.Minute || rc.MaxSize != 3 || rc.SweepInterval != time.Minute {
		t.Errorf("ResultCache() = %+v", rc)
	}
}

func TestOpenCache(t *testing.T) {
	logger := log.New(io.Discard)
	mr := miniredis.RunT(t)

	tests := []struct {
		name   string
		mutate func(*Config)
		check  func(*testing.T, cache.Cache)
	}{
		{
			name:   "none",
			mutate: func(c *Config) { c.Cache.Backend = BackendNone },
			check: func(t *testing.T, c cache.Cache) {
				if _, ok := c.(*cache.NullCache); !ok {
					t.Errorf("got %T, want *cache.NullCache", c)
				}
			},
		},
		{
			name:   "memory",
			mutate: func(c *Config) { c.Cache.Backend = BackendMemory },
			check: func(t *testing.T, c cache.Cache) {
				if _, ok := c.(*cache.MemoryCache); !ok {
					t.Errorf("got %T, want *cache.MemoryCache", c)
				}
			},
		},
		{
			name: "file",
			mutate: func(c *Config) {
				c.Cache.Backend = BackendFile
				c.Cache.Dir = filepath.Join(t.TempDir(), "http")
			},
			check: func(t *testing.T, c cache.Cache) {
				fc, ok := c.(*cache.FileCache)
				if !ok {
					t.Fatalf("got %T, want *cache.FileCache", c)
				}
				if _, err := os.Stat(fc.Dir()); err != nil {
					t.Errorf("cache dir not created: %v", err)
				}
			},
		},
		{
			name: "redis",
			mutate: func(c *Config) {
				c.Cache.Backend = BackendRedis
				c.Redis.Addr = mr.Addr()
			},
			check: func(t *testing.T, c cache.Cache) {
				ctx := context.Background()
				if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
					t.Fatalf("Set() error: %v", err)
				}
				if !mr.Exists("podlens:k") {
					t.Error("expected key with podlens: prefix in redis")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			c, err := OpenCache(context.Background(), cfg, logger)
			if err != nil {
				t.Fatalf("OpenCache() error: %v", err)
			}
			defer c.Close()
			tt.check(t, c)
		})
	}
}

func TestOpenCacheUnknownBackend(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = "etcd"
	_, err := OpenCache(context.Background(), cfg, log.New(io.Discard))
	if !perrors.Is(err, perrors.ErrCodeInvalidConfig) {
		t.Errorf("OpenCache() error = %v, want INVALID_CONFIG", err)
	}
}
