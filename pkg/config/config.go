// Package config loads lightbox settings from a TOML file.
//
// Every section has working defaults, so a missing file is not an error
// when loading from the default location:
//
//	[grid]
//	width = 1200
//	gutter = 16
//
//	[carousel]
//	expanded_height = 540
//	duration = "350ms"
//	easing = "ease-out"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	namespace = "lisbon"
//
// Command-line flags override file values.
package config

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lightbox/pkg/anim"
	"github.com/matzehuels/lightbox/pkg/aspect"
	"github.com/matzehuels/lightbox/pkg/cache"
	"github.com/matzehuels/lightbox/pkg/carousel"
	"github.com/matzehuels/lightbox/pkg/errors"
	"github.com/matzehuels/lightbox/pkg/packer"
	"github.com/matzehuels/lightbox/pkg/rowgrid"
)

// FileName is the config file name inside the config directory.
const FileName = "config.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendNone  = "none"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Config is the full lightbox configuration.
type Config struct {
	Grid     Grid     `toml:"grid"`
	Carousel Carousel `toml:"carousel"`
	Rows     Rows     `toml:"rows"`
	Server   Server   `toml:"server"`
	Cache    Cache    `toml:"cache"`
}

// Grid configures masonry packing.
type Grid struct {
	// Columns fixes the column count. Zero picks one from Breakpoints.
	Columns int `toml:"columns"`

	Width     float64 `toml:"width"`
	Gutter    float64 `toml:"gutter"`
	Tolerance float64 `toml:"tolerance"`

	// Breakpoints is the responsive column policy.
	Breakpoints packer.Responsive `toml:"breakpoints"`
}

// Carousel configures the zoomable strip.
type Carousel struct {
	BaseHeight     float64  `toml:"base_height"`
	ExpandedHeight float64  `toml:"expanded_height"`
	Gap            float64  `toml:"gap"`
	Padding        float64  `toml:"padding"`
	Breakpoint     float64  `toml:"breakpoint"`
	Duration       Duration `toml:"duration"`
	Easing         string   `toml:"easing"`
}

// Rows configures the row-expansion grid.
type Rows struct {
	Tolerance     float64  `toml:"tolerance"`
	MaxPasses     int      `toml:"max_passes"`
	FallbackDelay Duration `toml:"fallback_delay"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend string `toml:"backend"`

	// Dir overrides the file backend's directory.
	Dir string `toml:"dir"`

	// Namespace prefixes every cache key, so several galleries can share
	// one redis or mongo backend without seeing each other's entries.
	Namespace string `toml:"namespace"`

	RedisURL    string `toml:"redis_url"`
	RedisPrefix string `toml:"redis_prefix"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Duration is a time.Duration written as a Go duration string ("350ms").
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

// Default returns the built-in configuration.
func Default() Config {
	cc := carousel.DefaultConfig()
	return Config{
		Grid: Grid{
			Width:       960,
			Gutter:      12,
			Tolerance:   aspect.DefaultTolerance,
			Breakpoints: slices.Clone(packer.DefaultResponsive),
		},
		Carousel: Carousel{
			BaseHeight:     cc.BaseHeight,
			ExpandedHeight: cc.ExpandedHeight,
			Gap:            cc.Gap,
			Padding:        cc.Padding,
			Breakpoint:     cc.Breakpoint,
			Duration:       Duration{cc.Duration},
			Easing:         "ease-in-out",
		},
		Rows: Rows{
			Tolerance:     rowgrid.DefaultTolerance,
			MaxPasses:     rowgrid.DefaultMaxPasses,
			FallbackDelay: Duration{rowgrid.DefaultFallbackDelay},
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
			MaxBodyBytes: 1 << 20,
		},
		Cache: Cache{
			Backend:         BackendFile,
			MongoDatabase:   cache.DefaultMongoDatabase,
			MongoCollection: cache.DefaultMongoCollection,
		},
	}
}

// DefaultPath returns the config file location under XDG_CONFIG_HOME
// (or ~/.config).
func DefaultPath(app string) (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, app, FileName), nil
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := errors.ValidatePath(path); err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}
	return Decode(data)
}

// LoadDefault loads the config at DefaultPath, falling back to Default when
// the file does not exist.
func LoadDefault(app string) (Config, error) {
	path, err := DefaultPath(app)
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Decode parses TOML data over the defaults and validates the result.
func Decode(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if c.Grid.Columns < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid.columns must not be negative, got %d", c.Grid.Columns)
	}
	if c.Grid.Width <= 0 || c.Grid.Gutter < 0 || c.Grid.Tolerance < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid: width must be positive, gutter and tolerance must not be negative")
	}
	for _, bp := range c.Grid.Breakpoints {
		if bp.Columns <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "grid.breakpoints: columns must be positive at min_width %g", bp.MinWidth)
		}
	}
	if err := c.Carousel.ControllerConfig().Validate(); err != nil {
		return err
	}
	switch c.Carousel.Easing {
	case "", "linear", "ease-out", "ease-in-out":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "carousel.easing %q (want linear, ease-out or ease-in-out)", c.Carousel.Easing)
	}
	if c.Rows.Tolerance < 0 || c.Rows.MaxPasses < 0 || c.Rows.FallbackDelay.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "rows: tolerance, max_passes and fallback_delay must not be negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body_bytes must not be negative")
	}
	return c.Cache.Validate()
}

// ControllerConfig converts the section into a carousel.Config.
func (c Carousel) ControllerConfig() carousel.Config {
	return carousel.Config{
		BaseHeight:     c.BaseHeight,
		ExpandedHeight: c.ExpandedHeight,
		Gap:            c.Gap,
		Padding:        c.Padding,
		Breakpoint:     c.Breakpoint,
		Duration:       c.Duration.Duration,
		Easing:         anim.EasingByName(c.Easing),
	}
}

// ControllerOptions converts the section into rowgrid options.
func (r Rows) ControllerOptions() []rowgrid.Option {
	var opts []rowgrid.Option
	if r.Tolerance > 0 {
		opts = append(opts, rowgrid.WithTolerance(r.Tolerance))
	}
	if r.MaxPasses > 0 {
		opts = append(opts, rowgrid.WithMaxPasses(r.MaxPasses))
	}
	if r.FallbackDelay.Duration > 0 {
		opts = append(opts, rowgrid.WithFallbackDelay(r.FallbackDelay.Duration))
	}
	return opts
}

// Validate checks that the selected backend has what it needs.
func (c Cache) Validate() error {
	switch c.Backend {
	case BackendFile, BackendNone, "":
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (want file, none, redis or mongo)", c.Backend)
	}
	return nil
}

// Keyer returns the key builder for the configured namespace.
func (c Cache) Keyer() cache.Keyer {
	if c.Namespace == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Namespace+":")
}

// Open connects the configured backend. The file backend lives under
// DefaultDir(app) unless Dir is set.
func (c Cache) Open(ctx context.Context, app string) (cache.Cache, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		var opts []cache.RedisOption
		if c.RedisPrefix != "" {
			opts = append(opts, cache.WithRedisPrefix(c.RedisPrefix))
		}
		return cache.NewRedisCache(ctx, c.RedisURL, opts...)
	case BackendMongo:
		return cache.NewMongoCache(ctx, c.MongoURI, c.MongoDatabase, c.MongoCollection)
	default:
		dir := c.Dir
		if dir == "" {
			var err error
			if dir, err = cache.DefaultDir(app); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	}
}
