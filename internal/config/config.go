// Package config loads the server configuration.
//
// Settings are layered: built-in defaults, then an optional TOML file, then
// TRANSPORT_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the complete server configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Solver SolverConfig `toml:"solver"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	ReadTimeout    Duration `toml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout"`
	IdleTimeout    Duration `toml:"idle_timeout"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn or error
}

// StoreConfig selects where tasks are kept.
type StoreConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	TTL           Duration `toml:"ttl"`    // 0 keeps the per-result defaults
	Prefix        string   `toml:"prefix"` // key namespace for shared caches
}

// SolverConfig tunes the optimizer.
type SolverConfig struct {
	// MaxRounds overrides the stepping-stone round limit; 0 keeps 2·n·m.
	MaxRounds int `toml:"max_rounds"`
}

// Duration is a time.Duration read from TOML strings such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration: an in-memory store, no cache,
// and CORS open to the local front-end dev server.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8000",
			ReadTimeout:    Duration{15 * time.Second},
			WriteTimeout:   Duration{60 * time.Second},
			IdleTimeout:    Duration{120 * time.Second},
			AllowedOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		},
		Log:   LogConfig{Level: "info"},
		Store: StoreConfig{Backend: StoreMemory, MongoDatabase: "transport"},
		Cache: CacheConfig{Backend: CacheNone, RedisAddr: "localhost:6379"},
	}
}

// Load returns the defaults overlaid with the TOML file at path (when path
// is not empty) and then with environment overrides. The result is
// validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv applies TRANSPORT_* overrides.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("TRANSPORT_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := lookup("TRANSPORT_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup("TRANSPORT_STORE"); ok {
		c.Store.Backend = v
	}
	if v, ok := lookup("TRANSPORT_MONGO_URI"); ok {
		c.Store.MongoURI = v
	}
	if v, ok := lookup("TRANSPORT_REDIS_ADDR"); ok {
		c.Cache.RedisAddr = v
	}
	if v, ok := lookup("TRANSPORT_CACHE"); ok {
		c.Cache.Backend = v
	}
	if v, ok := lookup("TRANSPORT_MAX_ROUNDS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TRANSPORT_MAX_ROUNDS: %w", err)
		}
		c.Solver.MaxRounds = n
	}
	if v, ok := lookup("TRANSPORT_ALLOWED_ORIGINS"); ok {
		c.Server.AllowedOrigins = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks backends and required addresses.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	switch c.Store.Backend {
	case StoreMemory, StoreFile:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("store.mongo_uri is required for the mongo backend")
		}
	default:
		return fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Solver.MaxRounds < 0 {
		return fmt.Errorf("solver.max_rounds must not be negative")
	}
	return nil
}

// CacheDir returns the cache directory, defaulting to ~/.cache/transport.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "transport"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".cache", "transport"), nil
}
