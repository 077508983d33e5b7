// Package config loads the mnrl configuration file.
//
// The file is TOML, read from $XDG_CONFIG_HOME/mnrl/config.toml (or
// ~/.config/mnrl/config.toml) unless a path is given explicitly. Every key
// is optional; missing keys keep the values of [Default]. Unknown keys and
// out-of-range values are rejected with INVALID_INPUT.
//
//	[log]
//	level = "debug"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//
//	[render]
//	format = "svg"
//	ports = true
//
//	[serve]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	merrors "github.com/matzehuels/mnrl/pkg/errors"
)

// AppName names the configuration and cache directories.
const AppName = "mnrl"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the complete configuration.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Cache  CacheConfig  `toml:"cache"`
	Schema SchemaConfig `toml:"schema"`
	Render RenderConfig `toml:"render"`
	Serve  ServeConfig  `toml:"serve"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend string `toml:"backend" validate:"oneof=file redis none"`
	// Dir overrides the file cache directory.
	Dir       string        `toml:"dir"`
	RedisURL  string        `toml:"redis_url" validate:"required_if=Backend redis"`
	Namespace string        `toml:"namespace" validate:"max=64"`
	TTL       time.Duration `toml:"ttl" validate:"gte=0"`
}

// SchemaConfig points at a schema to use instead of the embedded one.
type SchemaConfig struct {
	Path string `toml:"path" validate:"omitempty,file"`
}

// RenderConfig holds the defaults of the render command.
type RenderConfig struct {
	Format    string `toml:"format" validate:"oneof=dot svg png"`
	Direction string `toml:"direction" validate:"oneof=LR TB"`
	Ports     bool   `toml:"ports"`
	Detailed  bool   `toml:"detailed"`
}

// ServeConfig configures the HTTP validation service.
type ServeConfig struct {
	Addr         string        `toml:"addr" validate:"hostname_port"`
	MaxBodyBytes int64         `toml:"max_body_bytes" validate:"gt=0"`
	ReadTimeout  time.Duration `toml:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `toml:"write_timeout" validate:"gt=0"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info"},
		Cache:  CacheConfig{Backend: BackendFile, TTL: 7 * 24 * time.Hour},
		Render: RenderConfig{Format: "svg", Direction: "LR"},
		Serve: ServeConfig{
			Addr:         ":8080",
			MaxBodyBytes: 8 << 20,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Load reads the configuration at path. An empty path means [DefaultPath];
// a missing file at the default path yields [Default], while a missing
// explicit path fails with FILE_NOT_FOUND.
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

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if explicit {
				return Default(), merrors.Wrap(merrors.ErrCodeFileNotFound, err, "config %s", path).WithSubject(path)
			}
			return Default(), nil
		}
		return Default(), merrors.Wrap(merrors.ErrCodeInvalidInput, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Default(), merrors.New(merrors.ErrCodeInvalidInput, "config %s: unknown key %q", path, undecoded[0].String()).
			WithSubject(undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field against its constraints and reports the
// first violation by its TOML key, e.g. "cache.backend".
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return merrors.Wrap(merrors.ErrCodeInternal, err, "validate config")
	}
	e := verrs[0]
	key := strings.TrimPrefix(e.Namespace(), "Config.")
	var msg string
	switch e.Tag() {
	case "oneof":
		msg = fmt.Sprintf("must be one of [%s], got %q", e.Param(), e.Value())
	case "required_if":
		msg = "is required when " + strings.Replace(e.Param(), " ", " is ", 1)
	case "file":
		msg = fmt.Sprintf("file %q does not exist", e.Value())
	case "hostname_port":
		msg = fmt.Sprintf("must be host:port, got %q", e.Value())
	case "gt", "gte":
		msg = fmt.Sprintf("must be %s %s", map[string]string{"gt": ">", "gte": ">="}[e.Tag()], e.Param())
	default:
		msg = fmt.Sprintf("validation failed (%s)", e.Tag())
	}
	return merrors.New(merrors.ErrCodeInvalidInput, "%s %s", key, msg).WithSubject(key)
}

// DefaultPath returns the configuration file location following XDG.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/mnrl/).
// A configured cache.dir takes precedence.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
