// Package config loads threadmap settings from a TOML file and the
// environment.
//
// # Sources
//
// Settings are merged in this order, later sources winning:
//
//  1. Built-in defaults ([Default])
//  2. The TOML file at [DefaultPath] or an explicit path
//  3. THREADMAP_* environment variables ([EnvVars])
//
// The merged result is validated before it is returned, so callers never see
// a half-valid config.
//
// # Example
//
//	[layout]
//	topic_radius = 140
//
//	[cache]
//	backend = "redis"
//	prefix = "staging:"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	cors_origins = ["http://localhost:5173"]
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/threadmap/pkg/cache"
	"github.com/matzehuels/threadmap/pkg/core/layout"
	"github.com/matzehuels/threadmap/pkg/errors"
	"github.com/matzehuels/threadmap/pkg/pipeline"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// DefaultAddr is the HTTP listen address of the serve command.
const DefaultAddr = ":8080"

// Config is the complete threadmap configuration.
type Config struct {
	Layout layout.Params `toml:"layout"`
	Cache  CacheConfig   `toml:"cache"`
	Server ServerConfig  `toml:"server"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend string `toml:"backend" validate:"oneof=file redis mongo none"`
	// Dir overrides the file cache directory.
	Dir string `toml:"dir"`
	// Prefix namespaces every cache key, whatever the backend.
	Prefix string `toml:"prefix"`

	Redis *cache.RedisConfig `toml:"redis" validate:"required_if=Backend redis"`
	Mongo *cache.MongoConfig `toml:"mongo" validate:"required_if=Backend mongo"`

	// BreakerFailures is how many consecutive remote failures open the
	// circuit. Zero uses the breaker default.
	BreakerFailures uint32 `toml:"breaker_failures"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string   `toml:"addr" validate:"required"`
	CORSOrigins []string `toml:"cors_origins" validate:"dive,required"`
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64         `toml:"max_body_bytes" validate:"gt=0"`
	ReadTimeout  time.Duration `toml:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `toml:"write_timeout" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: layout.DefaultParams(),
		Cache:  CacheConfig{Backend: BackendFile},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			CORSOrigins:  []string{"http://localhost:5173"},
			MaxBodyBytes: 8 << 20,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/threadmap/config.toml, falling back to
// the OS user config directory.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "threadmap", "config.toml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "threadmap", "config.toml"), nil
}

// Load reads the config file at path, applies environment overrides and
// validates the result. An empty path means [DefaultPath], which may be
// absent; an explicit path must exist.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		err := decodeFile(path, &cfg)
		if err != nil && (explicit || !errors.Is(err, errors.ErrCodeFileNotFound)) {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks every constraint on the merged config.
func (c *Config) Validate() error {
	if err := pipeline.ValidateStruct(errors.ErrCodeInvalidConfig, c); err != nil {
		return err
	}
	if c.Cache.Backend == BackendMongo {
		if err := errors.ValidateURL(c.Cache.Mongo.URI, "mongodb", "mongodb+srv"); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache.mongo.uri")
		}
	}
	return nil
}

// =============================================================================
// Environment Overrides
// =============================================================================

// EnvVars lists the recognized environment variables.
var EnvVars = []string{
	"THREADMAP_CACHE_BACKEND",
	"THREADMAP_CACHE_DIR",
	"THREADMAP_CACHE_PREFIX",
	"THREADMAP_REDIS_ADDR",
	"THREADMAP_REDIS_PASSWORD",
	"THREADMAP_REDIS_DB",
	"THREADMAP_MONGO_URI",
	"THREADMAP_MONGO_DATABASE",
	"THREADMAP_SERVER_ADDR",
	"THREADMAP_CORS_ORIGINS",
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	redis := func() *cache.RedisConfig {
		if cfg.Cache.Redis == nil {
			cfg.Cache.Redis = &cache.RedisConfig{}
		}
		return cfg.Cache.Redis
	}
	mongo := func() *cache.MongoConfig {
		if cfg.Cache.Mongo == nil {
			cfg.Cache.Mongo = &cache.MongoConfig{}
		}
		return cfg.Cache.Mongo
	}

	for _, name := range EnvVars {
		v, ok := lookup(name)
		if !ok {
			continue
		}
		switch name {
		case "THREADMAP_CACHE_BACKEND":
			cfg.Cache.Backend = v
		case "THREADMAP_CACHE_DIR":
			cfg.Cache.Dir = v
		case "THREADMAP_CACHE_PREFIX":
			cfg.Cache.Prefix = v
		case "THREADMAP_REDIS_ADDR":
			redis().Addr = v
		case "THREADMAP_REDIS_PASSWORD":
			redis().Password = v
		case "THREADMAP_REDIS_DB":
			db, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", name)
			}
			redis().DB = db
		case "THREADMAP_MONGO_URI":
			mongo().URI = v
		case "THREADMAP_MONGO_DATABASE":
			mongo().Database = v
		case "THREADMAP_SERVER_ADDR":
			cfg.Server.Addr = v
		case "THREADMAP_CORS_ORIGINS":
			cfg.Server.CORSOrigins = splitList(v)
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// =============================================================================
// Cache Construction
// =============================================================================

// Open builds the configured cache. Remote backends are wrapped in a circuit
// breaker, and every backend reports to the observability cache hooks.
func (c CacheConfig) Open(ctx context.Context, logger *log.Logger) (cache.Cache, error) {
	var inner cache.Cache
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendFile, "":
		dir := c.Dir
		if dir == "" {
			d, err := cache.DefaultDir()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeCacheUnavailable, err, "cache dir")
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCacheUnavailable, err, "file cache %s", dir)
		}
		return cache.NewInstrumented(fc), nil
	case BackendRedis:
		if c.Redis == nil {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "cache.redis is required for the redis backend")
		}
		rc, err := cache.NewRedisCache(ctx, *c.Redis)
		if err != nil {
			return nil, err
		}
		inner = rc
	case BackendMongo:
		if c.Mongo == nil {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "cache.mongo is required for the mongo backend")
		}
		mc, err := cache.NewMongoCache(ctx, *c.Mongo)
		if err != nil {
			return nil, err
		}
		inner = mc
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Backend)
	}

	cfg := cache.DefaultBreakerConfig(c.Backend)
	if c.BreakerFailures > 0 {
		cfg.ConsecutiveFailures = c.BreakerFailures
	}
	return cache.NewInstrumented(cache.NewBreakerCache(inner, cfg, logger)), nil
}

// Keyer returns the key builder for the configured prefix.
func (c CacheConfig) Keyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Prefix)
}

// String renders the config as TOML.
func (c Config) String() string {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return sb.String()
}
