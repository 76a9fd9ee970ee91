package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"sonar/internal/domain"
	"sonar/internal/eventbus"
)

// Default values applied when the config file is missing or a field is unset.
const (
	DefaultBaseURL        = "http://localhost:8000"
	DefaultTimeoutSeconds = 60
	DefaultK              = 6
	DefaultHistoryLimit   = 50
	DefaultBubbleCount    = 40
)

// Environment variables recognized on top of the config file.
const (
	EnvAPIBase  = "SONAR_API_BASE"
	EnvDefaultK = "SONAR_DEFAULT_K"
)

// Config represents the application configuration
type Config struct {
	Version int             `toml:"version"`
	API     APISettings     `toml:"api"`
	Search  SearchSettings  `toml:"search"`
	History HistorySettings `toml:"history"`
	UI      UISettings      `toml:"ui"`
}

// APISettings configures how the backend is reached
type APISettings struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// SearchSettings configures search request defaults
type SearchSettings struct {
	DefaultK int `toml:"default_k"`
}

// HistorySettings configures the local search history
type HistorySettings struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`  // empty means the default location next to the config file
	Limit   int    `toml:"limit"` // max entries listed in the UI
}

// UISettings represents UI-related configuration
type UISettings struct {
	Animation   bool `toml:"animation"`
	BubbleCount int  `toml:"bubble_count"`
	Diagnostics bool `toml:"diagnostics"` // show the diagnostics panel on startup
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

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	return &configService{filePath: defaultPath()}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// defaultPath returns the per-user config file location
func defaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "sonar", "config.toml")
}

// Path returns the file the service loads from and saves to
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from the default file
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cs.publishLoaded(cfg)
		return cfg, nil
	}

	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		return nil, err
	}

	cs.publishLoaded(cfg)
	return cfg, nil
}

// Save saves the configuration to the default file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.normalize()
	return &cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (cs *configService) publishLoaded(cfg *Config) {
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			BaseURL:  cfg.API.BaseURL,
			DefaultK: cfg.Search.DefaultK,
		})
	}
}

// ApplyEnv overrides config fields from the environment. Unparseable
// values are ignored so a bad environment never blocks startup.
func (c *Config) ApplyEnv() {
	if base := os.Getenv(EnvAPIBase); base != "" {
		c.API.BaseURL = base
	}
	if raw := os.Getenv(EnvDefaultK); raw != "" {
		if k, err := strconv.Atoi(raw); err == nil {
			c.Search.DefaultK = k
		}
	}
	c.normalize()
}

// normalize substitutes defaults for unset or out-of-range fields
func (c *Config) normalize() {
	if c.Version == 0 {
		c.Version = 1
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = DefaultTimeoutSeconds
	}
	c.Search.DefaultK = domain.ClampK(c.Search.DefaultK, DefaultK)
	if c.History.Limit <= 0 {
		c.History.Limit = DefaultHistoryLimit
	}
	if c.UI.BubbleCount <= 0 {
		c.UI.BubbleCount = DefaultBubbleCount
	}
}

// HistoryPath resolves where the history database lives
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(filepath.Dir(defaultPath()), "history.db")
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		API: APISettings{
			BaseURL:        DefaultBaseURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Search: SearchSettings{
			DefaultK: DefaultK,
		},
		History: HistorySettings{
			Enabled: true,
			Limit:   DefaultHistoryLimit,
		},
		UI: UISettings{
			Animation:   true,
			BubbleCount: DefaultBubbleCount,
		},
	}
}
