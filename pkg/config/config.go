// Package config loads crackfree settings from a TOML file.
//
// Settings are resolved in three layers: built-in defaults ([Default]), the
// config file, then command-line flags applied by the CLI. A missing file at
// the default location is not an error. An example file:
//
//	width = 32
//	height = 10
//	workers = 0
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	max_width = 36
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	apperr "github.com/matzehuels/crackfree/pkg/errors"
)

const appName = "crackfree"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config holds every setting the CLI and server read.
type Config struct {
	Width   int `toml:"width"`
	Height  int `toml:"height"`
	Workers int `toml:"workers"` // 0 means one per CPU

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`    // file backend; empty means the XDG cache dir
	Prefix        string `toml:"prefix"` // key namespace for shared backends
	RedisAddr     string `toml:"redis_addr"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServerConfig configures `crackfree serve`.
type ServerConfig struct {
	Addr           string        `toml:"addr"`
	MaxWidth       int           `toml:"max_width"`
	MaxHeight      int           `toml:"max_height"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// Default returns the built-in settings: the reference wall W(32,10), a
// file cache and a server bounded to walls that count in well under a
// second.
func Default() Config {
	return Config{
		Width:  32,
		Height: 10,
		Cache: CacheConfig{
			Backend:       BackendFile,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxWidth:       36,
			MaxHeight:      64,
			RequestTimeout: 30 * time.Second,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/crackfree/config.toml, falling back
// to ~/.config/crackfree/config.toml.
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

// Load reads the config file at path over the defaults. An empty path means
// [DefaultPath], where a missing file yields the defaults; an explicitly
// named file must exist. Unknown keys are rejected so typos do not pass
// silently.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, apperr.New(apperr.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	return cfg, cfg.Validate()
}

// Validate checks value ranges and the cache backend name.
func (c Config) Validate() error {
	if err := apperr.ValidateWidth(c.Width); err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "width")
	}
	if err := apperr.ValidateHeight(c.Height); err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidConfig, err, "height")
	}
	if c.Workers < 0 {
		return apperr.New(apperr.ErrCodeInvalidConfig, "workers must be non-negative, got %d", c.Workers)
	}

	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return apperr.New(apperr.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	case BackendMongo:
		if c.Cache.MongoURI == "" || c.Cache.MongoDatabase == "" {
			return apperr.New(apperr.ErrCodeInvalidConfig, "cache.mongo_uri and cache.mongo_database are required for the mongo backend")
		}
	default:
		return apperr.New(apperr.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of: file, redis, mongo, none)", c.Cache.Backend)
	}

	if c.Server.MaxWidth < 0 || c.Server.MaxHeight < 0 {
		return apperr.New(apperr.ErrCodeInvalidConfig, "server limits must be non-negative")
	}
	if c.Server.RequestTimeout < 0 {
		return apperr.New(apperr.ErrCodeInvalidConfig, "server.request_timeout must be non-negative")
	}
	return nil
}

// CacheDir returns the file cache directory: cache.dir when set, else
// $XDG_CACHE_HOME/crackfree, else ~/.cache/crackfree.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
