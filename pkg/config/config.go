// Package config loads cornerstone settings.
//
// Settings are resolved in three layers, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/cornerstone/config.toml
//  3. CORNERSTONE_* variables from the process environment, falling back
//     to a .env file in the working directory
//
// Example config.toml:
//
//	catalog = "catalogs/prod.toml"
//
//	[cache]
//	backend = "redis"
//	ttl = "24h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	cerrors "github.com/matzehuels/cornerstone/pkg/errors"
)

const appName = "cornerstone"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Backends lists the valid cache.backend values.
var Backends = []string{BackendFile, BackendRedis, BackendNone}

// Config is the resolved configuration.
type Config struct {
	// Catalog is a catalog file path or the name of a builtin catalog.
	Catalog string       `toml:"catalog"`
	Cache   CacheConfig  `toml:"cache"`
	Server  ServerConfig `toml:"server"`
	Verify  VerifyConfig `toml:"verify"`
}

type CacheConfig struct {
	Backend   string      `toml:"backend"`
	Dir       string      `toml:"dir"`
	TTL       Duration    `toml:"ttl"`
	Namespace string      `toml:"namespace"`
	Redis     RedisConfig `toml:"redis"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// VerifyConfig bounds the subset sizes swept by verify. Zero means the
// full range.
type VerifyConfig struct {
	MinSize int `toml:"min_size"`
	MaxSize int `toml:"max_size"`
}

// Duration is a time.Duration written as a string ("90s", "24h") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Catalog: "default",
		Cache: CacheConfig{
			Backend:   BackendFile,
			TTL:       Duration{7 * 24 * time.Hour},
			Namespace: appName + ":",
			Redis:     RedisConfig{Addr: "localhost:6379"},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration{10 * time.Second},
			WriteTimeout:    Duration{30 * time.Second},
			ShutdownTimeout: Duration{5 * time.Second},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/cornerstone/config.toml, or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// DefaultCacheDir returns $XDG_CACHE_HOME/cornerstone, or the platform
// equivalent.
func DefaultCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// Load resolves the configuration using the process environment and a
// .env file in the working directory. An empty path means [DefaultPath],
// which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	return LoadWith(Sources{Path: path, DotEnv: ".env", Getenv: os.LookupEnv})
}

// Sources names where LoadWith reads from.
type Sources struct {
	Path   string
	DotEnv string
	Getenv func(string) (string, bool)
}

// LoadWith resolves the configuration from explicit sources.
func LoadWith(src Sources) (*Config, error) {
	cfg := Default()

	path, explicit := src.Path, src.Path != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	env, err := readDotEnv(src.DotEnv)
	if err != nil {
		return nil, err
	}
	getenv := src.Getenv
	if getenv == nil {
		getenv = func(string) (string, bool) { return "", false }
	}
	lookup := func(key string) (string, bool) {
		if v, ok := getenv(key); ok {
			return v, true
		}
		v, ok := env[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if cfg.Cache.Dir == "" {
		if dir, err := DefaultCacheDir(); err == nil {
			cfg.Cache.Dir = dir
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config %s: %w", path, err)
		}
		return cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cerrors.New(cerrors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks value ranges and enums.
func (c *Config) Validate() error {
	if !slices.Contains(Backends, c.Cache.Backend) {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "cache.backend must be one of %s, got %q",
			strings.Join(Backends, ", "), c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.Redis.Addr == "" {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "cache.redis.addr is required for the redis backend")
	}
	if c.Cache.TTL.Duration < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	if c.Verify.MinSize < 0 || c.Verify.MaxSize < 0 {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "verify sizes must not be negative")
	}
	if c.Verify.MaxSize > 0 && c.Verify.MinSize > c.Verify.MaxSize {
		return cerrors.New(cerrors.ErrCodeInvalidInput, "verify.min_size %d exceeds verify.max_size %d",
			c.Verify.MinSize, c.Verify.MaxSize)
	}
	return nil
}
