package config

import (
	"errors"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	cerrors "github.com/matzehuels/cornerstone/pkg/errors"
)

// Environment variables recognized by Load.
const (
	EnvCatalog       = "CORNERSTONE_CATALOG"
	EnvCacheBackend  = "CORNERSTONE_CACHE_BACKEND"
	EnvCacheDir      = "CORNERSTONE_CACHE_DIR"
	EnvCacheTTL      = "CORNERSTONE_CACHE_TTL"
	EnvRedisAddr     = "CORNERSTONE_REDIS_ADDR"
	EnvRedisPassword = "CORNERSTONE_REDIS_PASSWORD"
	EnvRedisDB       = "CORNERSTONE_REDIS_DB"
	EnvServerAddr    = "CORNERSTONE_SERVER_ADDR"
	EnvVerifyMin     = "CORNERSTONE_VERIFY_MIN"
	EnvVerifyMax     = "CORNERSTONE_VERIFY_MAX"
)

// readDotEnv parses a .env file without touching the process
// environment. A missing file yields an empty map.
func readDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "dotenv %s", path)
	}
	return env, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "%s", key)
		}
		*dst = n
		return nil
	}
	dur := func(key string, dst *Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return cerrors.Wrap(cerrors.ErrCodeInvalidInput, err, "%s", key)
		}
		dst.Duration = d
		return nil
	}

	str(EnvCatalog, &c.Catalog)
	str(EnvCacheBackend, &c.Cache.Backend)
	str(EnvCacheDir, &c.Cache.Dir)
	str(EnvRedisAddr, &c.Cache.Redis.Addr)
	str(EnvRedisPassword, &c.Cache.Redis.Password)
	str(EnvServerAddr, &c.Server.Addr)

	for _, err := range []error{
		dur(EnvCacheTTL, &c.Cache.TTL),
		num(EnvRedisDB, &c.Cache.Redis.DB),
		num(EnvVerifyMin, &c.Verify.MinSize),
		num(EnvVerifyMax, &c.Verify.MaxSize),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}
