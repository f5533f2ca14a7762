// Package config loads ghostleg configuration.
// Values come from built-in defaults, then a TOML file, then environment
// variables, each layer overriding the previous one.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ghostleg/pkg/cache"
	"github.com/matzehuels/ghostleg/pkg/ladder"
)

// Store backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Environment variables that override file settings.
const (
	EnvStore     = "GHOSTLEG_STORE"
	EnvStoreDir  = "GHOSTLEG_STORE_DIR"
	EnvRedisAddr = "GHOSTLEG_REDIS_ADDR"
	EnvMongoURI  = "GHOSTLEG_MONGO_URI"
	EnvAddr      = "GHOSTLEG_ADDR"
	EnvSeed      = "GHOSTLEG_SEED"
)

const appName = "ghostleg"

// Config contains all ghostleg settings.
type Config struct {
	// Ladder contains generation parameters. Zero fields use the engine defaults.
	Ladder ladder.Options `toml:"ladder"`

	// Store selects where rounds are kept.
	Store StoreConfig `toml:"store"`

	// Server configures the HTTP API.
	Server ServerConfig `toml:"server"`

	// Render configures drawings.
	Render RenderConfig `toml:"render"`

	// Seed fixes every round's ladder when nonzero. Intended for demos and tests.
	Seed uint64 `toml:"seed"`
}

// StoreConfig selects and configures the round store.
type StoreConfig struct {
	// Backend is one of file, redis, mongo, memory, or none.
	Backend string `toml:"backend"`

	// Dir is the file backend directory. Empty means $XDG_CACHE_HOME/ghostleg.
	Dir string `toml:"dir"`

	// TTL is how long rounds are kept. Zero uses the store default.
	TTL time.Duration `toml:"ttl"`

	// Prefix scopes every key, letting several classes share one backend.
	Prefix string `toml:"prefix"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// String redacts the password.
func (c RedisConfig) String() string {
	pw := ""
	if c.Password != "" {
		pw = "(set)"
	}
	return fmt.Sprintf("RedisConfig{Addr:%s, Password:%s, DB:%d}", c.Addr, pw, c.DB)
}

// MongoConfig configures the mongo backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// RenderConfig configures drawings.
type RenderConfig struct {
	// Width is the target drawing width in pixels.
	Width float64 `toml:"width"`

	// Paths overlays descents on ladder drawings by default.
	Paths bool `toml:"paths"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Ladder: ladder.DefaultOptions(),
		Store: StoreConfig{
			Backend: BackendFile,
			TTL:     cache.TTLRound,
			Redis:   RedisConfig{Addr: "localhost:6379"},
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   appName,
				Collection: "rounds",
			},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
		},
		Render: RenderConfig{Width: 800},
	}
}

// Load reads configuration from path, then applies environment overrides.
// An empty path reads [DefaultPath] if it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		switch {
		case err == nil:
			cfg = fileCfg
		case !explicit && errors.Is(err, fs.ErrNotExist):
			// no config file; defaults apply
		default:
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile decodes a TOML file on top of the defaults.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/ghostleg/config.toml, falling back
// to ~/.config/ghostleg/config.toml.
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

// DefaultStoreDir returns the file store directory using the XDG cache
// convention (~/.cache/ghostleg/).
func DefaultStoreDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.Ladder.Validate(); err != nil {
		return fmt.Errorf("[ladder]: %w", err)
	}
	switch c.Store.Backend {
	case BackendFile, BackendRedis, BackendMongo, BackendMemory, BackendNone:
	default:
		return fmt.Errorf("invalid store backend: %q (valid: file, redis, mongo, memory, none)", c.Store.Backend)
	}
	if c.Store.TTL < 0 {
		return fmt.Errorf("store ttl must be non-negative, got %v", c.Store.TTL)
	}
	if c.Store.Backend == BackendRedis && c.Store.Redis.Addr == "" {
		return errors.New("store.redis.addr is required for the redis backend")
	}
	if c.Store.Backend == BackendMongo && c.Store.Mongo.URI == "" {
		return errors.New("store.mongo.uri is required for the mongo backend")
	}
	if c.Render.Width < 0 {
		return fmt.Errorf("render width must be non-negative, got %g", c.Render.Width)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(c *Config) error {
	if v := os.Getenv(EnvStore); v != "" {
		c.Store.Backend = strings.ToLower(v)
	}
	if v := os.Getenv(EnvStoreDir); v != "" {
		c.Store.Dir = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Store.Redis.Addr = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Store.Mongo.URI = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.Seed = seed
	}
	return nil
}
