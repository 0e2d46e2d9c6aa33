package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"collegefinder/internal/catalog"
	"collegefinder/internal/eventbus"
)

// Defaults for a portal running locally
const (
	DefaultBaseURL = "http://localhost:5000/api"
	DefaultSiteURL = "http://localhost:5173"
)

// Config represents the application configuration
type Config struct {
	Version int             `toml:"version"`
	API     APISettings     `toml:"api"`
	Browse  BrowseSettings  `toml:"browse"`
	Log     LogSettings     `toml:"log"`
	UI      UISettings      `toml:"ui"`
	Metrics MetricsSettings `toml:"metrics"`
	Links   []catalog.Link  `toml:"links,omitempty"`
}

// APISettings configures the portal client
type APISettings struct {
	BaseURL   string   `toml:"base_url"`
	Token     string   `toml:"token,omitempty"`
	Timeout   Duration `toml:"timeout"`    // 0 leaves requests unbounded
	RateLimit float64  `toml:"rate_limit"` // requests per second, 0 disables
	Burst     int      `toml:"burst"`
}

// BrowseSettings tunes the listing
type BrowseSettings struct {
	PageSize int      `toml:"page_size"`
	MaxPages int      `toml:"max_pages"`
	Debounce Duration `toml:"debounce"`
}

// LogSettings configures the log file
type LogSettings struct {
	Level  string `toml:"level"`
	File   string `toml:"file,omitempty"` // empty disables logging
	Format string `toml:"format"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	SiteURL          string `toml:"site_url"` // prefix of shareable links
	RestoreLastQuery bool   `toml:"restore_last_query"`
	LastQuery        string `toml:"last_query,omitempty"`
}

// MetricsSettings configures the optional Prometheus endpoint
type MetricsSettings struct {
	Addr string `toml:"addr,omitempty"`
}

// Duration is a time.Duration written as "300ms" in TOML
type Duration time.Duration

// Std returns the duration as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", b, err)
	}
	*d = Duration(v)
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultPath returns $XDG_CONFIG_HOME/collegefinder/config.toml
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "collegefinder", "config.toml")
}

// NewConfigService creates a config service for path; empty means DefaultPath
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service that persists the last
// viewed query whenever a ConfigChanged event is published
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	bus.Subscribe(eventbus.EventConfigChanged, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.ConfigChangedEvent); ok {
			cs.recordLastQuery(ev.LastQuery)
		}
	})
	return cs
}

func (cs *configService) recordLastQuery(query string) {
	cfg, err := cs.Load()
	if err != nil {
		cs.bus.Publish(eventbus.FetchFailedEvent{Op: "config", Err: err})
		return
	}
	if cfg.UI.LastQuery == query {
		return
	}
	cfg.UI.LastQuery = query
	if err := cs.Save(cfg); err != nil {
		cs.bus.Publish(eventbus.FetchFailedEvent{Op: "config", Err: err})
	}
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration file; a missing file yields the defaults
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Unset fields keep
// their defaults.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("failed to parse config: %s", strict.String())
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	// Ensure config directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// token may live here
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects settings the application cannot run with
func (c *Config) Validate() error {
	switch {
	case c.API.BaseURL == "":
		return errors.New("config: api.base_url is required")
	case c.API.Timeout < 0:
		return errors.New("config: api.timeout must not be negative")
	case c.API.RateLimit < 0:
		return errors.New("config: api.rate_limit must not be negative")
	case c.Browse.PageSize < 1:
		return errors.New("config: browse.page_size must be positive")
	case c.Browse.MaxPages < 1:
		return errors.New("config: browse.max_pages must be positive")
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		API: APISettings{
			BaseURL:   DefaultBaseURL,
			RateLimit: 5,
			Burst:     10,
		},
		Browse: BrowseSettings{
			PageSize: 20,
			MaxPages: 5,
			Debounce: Duration(300 * time.Millisecond),
		},
		Log: LogSettings{
			Level:  "info",
			Format: "console",
		},
		UI: UISettings{
			SiteURL:          DefaultSiteURL,
			RestoreLastQuery: true,
		},
	}
}
