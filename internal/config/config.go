// Package config resolves server settings. Values start from defaults, are
// overlaid by an optional YAML file and finally by command line flags.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formdemo/internal/statestore"
)

// Default values.
const (
	DefaultAddr     = ":8383"
	DefaultGrace    = 5 * time.Second
	DefaultStateTTL = 5 * time.Minute
	DefaultTheme    = "light"
	maxSubmitDelay  = 30 * time.Second
)

// ErrInvalidConfig wraps validation failures.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds the server settings.
type Config struct {
	Addr         string        `yaml:"addr"`
	Grace        time.Duration `yaml:"grace"`
	StateBackend string        `yaml:"state_backend"`
	StateTTL     time.Duration `yaml:"state_ttl"`
	StateDir     string        `yaml:"state_dir"`
	SubmitDelay  time.Duration `yaml:"submit_delay"`
	Theme        string        `yaml:"theme"`
	CookieSecure bool          `yaml:"cookie_secure"`
	Site         string        `yaml:"site"`
	Debug        bool          `yaml:"debug"`
}

type OptionFn func(*Config)

func DefaultConfig() Config {
	return Config{
		Addr:         DefaultAddr,
		Grace:        DefaultGrace,
		StateBackend: statestore.BackendMemory,
		StateTTL:     DefaultStateTTL,
		Theme:        DefaultTheme,
	}
}

// New applies fns over the defaults and normalises the result.
func New(fns ...OptionFn) (Config, error) {
	cfg := DefaultConfig()
	return apply(cfg, fns...)
}

// Load resolves the configuration from command line args. A -config flag
// names a YAML file whose values sit between the defaults and the other
// flags. fns run last.
func Load(args []string, output io.Writer, fns ...OptionFn) (Config, error) {
	parsed := DefaultConfig()
	fs := flag.NewFlagSet("formdemo", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	configPath := fs.String("config", "", "YAML configuration file")
	bindFlags(fs, &parsed)
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("config: parse flags: %w", err)
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		if err := ReadFile(*configPath, &cfg); err != nil {
			return Config{}, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		if set, ok := flagSetters[f.Name]; ok {
			set(&cfg, parsed)
		}
	})
	return apply(cfg, fns...)
}

// ReadFile decodes the YAML document at path over cfg. Unknown keys are
// rejected; an empty file leaves cfg untouched.
func ReadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

func bindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.DurationVar(&cfg.Grace, "grace", cfg.Grace, "Shutdown grace period")
	fs.StringVar(&cfg.StateBackend, "state-backend", cfg.StateBackend, "Validation state store (memory or badger)")
	fs.DurationVar(&cfg.StateTTL, "state-ttl", cfg.StateTTL, "How long a failed submission is kept for the next page load")
	fs.StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "Badger directory (in-memory when empty)")
	fs.DurationVar(&cfg.SubmitDelay, "submit-delay", cfg.SubmitDelay, "Artificial delay before validating a submission")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "Default theme variant")
	fs.BoolVar(&cfg.CookieSecure, "cookie-secure", cfg.CookieSecure, "Mark cookies Secure")
	fs.StringVar(&cfg.Site, "site", cfg.Site, "Site definition YAML (embedded default when empty)")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")
}

var flagSetters = map[string]func(dst *Config, src Config){
	"addr":          func(dst *Config, src Config) { dst.Addr = src.Addr },
	"grace":         func(dst *Config, src Config) { dst.Grace = src.Grace },
	"state-backend": func(dst *Config, src Config) { dst.StateBackend = src.StateBackend },
	"state-ttl":     func(dst *Config, src Config) { dst.StateTTL = src.StateTTL },
	"state-dir":     func(dst *Config, src Config) { dst.StateDir = src.StateDir },
	"submit-delay":  func(dst *Config, src Config) { dst.SubmitDelay = src.SubmitDelay },
	"theme":         func(dst *Config, src Config) { dst.Theme = src.Theme },
	"cookie-secure": func(dst *Config, src Config) { dst.CookieSecure = src.CookieSecure },
	"site":          func(dst *Config, src Config) { dst.Site = src.Site },
	"debug":         func(dst *Config, src Config) { dst.Debug = src.Debug },
}

func apply(cfg Config, fns ...OptionFn) (Config, error) {
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&cfg)
	}
	return cfg.normalize()
}

func (c Config) normalize() (Config, error) {
	c.Addr = strings.TrimSpace(c.Addr)
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Grace <= 0 {
		c.Grace = DefaultGrace
	}
	if c.StateTTL <= 0 {
		c.StateTTL = DefaultStateTTL
	}
	if c.SubmitDelay < 0 {
		c.SubmitDelay = 0
	}
	if c.SubmitDelay > maxSubmitDelay {
		c.SubmitDelay = maxSubmitDelay
	}
	c.Theme = strings.TrimSpace(c.Theme)
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	c.StateBackend = strings.ToLower(strings.TrimSpace(c.StateBackend))
	switch c.StateBackend {
	case "":
		c.StateBackend = statestore.BackendMemory
	case statestore.BackendMemory, statestore.BackendBadger:
	default:
		return Config{}, fmt.Errorf("%w: unknown state_backend %q", ErrInvalidConfig, c.StateBackend)
	}
	return c, nil
}

// StoreOptions translates the state settings into statestore options.
func (c Config) StoreOptions() []statestore.OptionFn {
	return []statestore.OptionFn{
		statestore.WithBackend(c.StateBackend),
		statestore.WithTTL(c.StateTTL),
		statestore.WithDir(c.StateDir),
	}
}

func WithAddr(addr string) OptionFn {
	return func(c *Config) {
		if c == nil {
			return
		}
		c.Addr = addr
	}
}

func WithSubmitDelay(delay time.Duration) OptionFn {
	return func(c *Config) {
		if c == nil {
			return
		}
		c.SubmitDelay = delay
	}
}

func WithStateBackend(backend string) OptionFn {
	return func(c *Config) {
		if c == nil {
			return
		}
		c.StateBackend = backend
	}
}
