// Package config loads podlens settings from a TOML file and the environment.
//
// Values are resolved in three layers: built-in defaults, the config file
// (missing files are fine), then environment variables. [Config.Validate]
// runs last and reports the first invalid setting.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	perrors "github.com/matzehuels/podlens/pkg/errors"
)

const appName = "podlens"

// Backend names accepted by [CacheConfig.Backend].
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Config is the complete podlens configuration.
type Config struct {
	Cache     CacheConfig     `toml:"cache"`
	Redis     RedisConfig     `toml:"redis"`
	Mongo     MongoConfig     `toml:"mongo"`
	GitHub    GitHubConfig    `toml:"github"`
	CocoaPods CocoaPodsConfig `toml:"cocoapods"`
	Server    ServerConfig    `toml:"server"`
}

// CacheConfig controls both the parsed-result cache and the HTTP byte cache.
type CacheConfig struct {
	TTL           Duration `toml:"ttl"`
	MaxSize       int      `toml:"max_size"`
	SweepInterval Duration `toml:"sweep_interval"`
	Backend       string   `toml:"backend"`
	HTTPTTL       Duration `toml:"http_ttl"`
	Dir           string   `toml:"dir"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password Secret `toml:"password"`
	DB       int    `toml:"db"`
}

type MongoConfig struct {
	URI        Secret `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type GitHubConfig struct {
	Token Secret `toml:"token"`
	// Rate is the GitHub API request rate in requests per second.
	Rate float64 `toml:"rate"`
	// BaseURL overrides the API root, e.g. for GitHub Enterprise.
	BaseURL string `toml:"base_url"`
}

type CocoaPodsConfig struct {
	// BaseURL overrides the trunk API root.
	BaseURL string `toml:"base_url"`
}

type ServerConfig struct {
	Listen string `toml:"listen"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Cache: CacheConfig{
			TTL:           Duration(24 * time.Hour),
			MaxSize:       1000,
			SweepInterval: Duration(time.Minute),
			Backend:       BackendFile,
			HTTPTTL:       Duration(24 * time.Hour),
		},
		Mongo: MongoConfig{
			Database:   appName,
			Collection: "http_cache",
		},
		GitHub: GitHubConfig{Rate: 10},
		Server: ServerConfig{Listen: ":8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/podlens/config.toml, falling back to
// ~/.config/podlens/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/podlens, falling back to
// ~/.cache/podlens.
func DefaultCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Load reads path (or [DefaultPath] when empty), applies environment
// overrides and validates the result. An explicit path that does not exist
// is an error; a missing default file is not.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "resolve config path")
		}
		path = p
	}

	if err := cfg.loadFile(path); err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case errors.Is(err, fs.ErrNotExist):
			return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "config file %s", path)
		default:
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return perrors.New(perrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) applyEnv() error {
	var err error
	if c.Cache.TTL, err = envDuration("PODLENS_CACHE_TTL", c.Cache.TTL); err != nil {
		return err
	}
	if c.Cache.MaxSize, err = envInt("PODLENS_CACHE_MAX_SIZE", c.Cache.MaxSize); err != nil {
		return err
	}
	c.Cache.Backend = envString("PODLENS_CACHE_BACKEND", c.Cache.Backend)
	c.Redis.Addr = envString("PODLENS_REDIS_ADDR", c.Redis.Addr)
	c.Mongo.URI = Secret(envString("PODLENS_MONGO_URI", c.Mongo.URI.Value()))
	c.Server.Listen = envString("PODLENS_LISTEN", c.Server.Listen)
	c.GitHub.Token = Secret(envString("GITHUB_TOKEN", c.GitHub.Token.Value()))
	return nil
}

// Validate reports the first invalid setting as an INVALID_CONFIG error.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return perrors.New(perrors.ErrCodeInvalidConfig, format, args...)
	}

	if c.Cache.MaxSize < 0 {
		return invalid("cache.max_size must be >= 0, got %d", c.Cache.MaxSize)
	}
	switch c.Cache.Backend {
	case BackendFile, BackendMemory, BackendNone:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return invalid("cache.backend %q requires redis.addr", c.Cache.Backend)
		}
		if c.Redis.DB < 0 {
			return invalid("redis.db must be >= 0, got %d", c.Redis.DB)
		}
	case BackendMongo:
		if !c.Mongo.URI.IsSet() {
			return invalid("cache.backend %q requires mongo.uri", c.Cache.Backend)
		}
		if c.Mongo.Database == "" || c.Mongo.Collection == "" {
			return invalid("mongo.database and mongo.collection must be set")
		}
	default:
		return invalid("unknown cache.backend %q (want file, memory, redis, mongo or none)", c.Cache.Backend)
	}
	if c.GitHub.Rate < 0 {
		return invalid("github.rate must be >= 0, got %g", c.GitHub.Rate)
	}
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "%s=%q", key, v)
	}
	return n, nil
}

func envDuration(key string, fallback Duration) (Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	var d Duration
	if err := d.UnmarshalText([]byte(v)); err != nil {
		return 0, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "%s=%q", key, v)
	}
	return d, nil
}
