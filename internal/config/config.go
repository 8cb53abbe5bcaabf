package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/backtrail-dev/backtrail/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "backtrail.json"

	// DefaultPort is the default bridge server port.
	DefaultPort = 4600

	// DefaultHost is the default bridge server host.
	DefaultHost = "localhost"

	// DefaultNamespace is the default Prometheus metrics namespace.
	DefaultNamespace = "backtrail"

	// DefaultUpdateRate is the default inbound update budget per second
	// per connection.
	DefaultUpdateRate = 20.0

	// DefaultUpdateBurst is the default inbound update burst size.
	DefaultUpdateBurst = 40
)

// Config represents the complete backtrail.json configuration.
type Config struct {
	// Name is the application name.
	Name string `json:"name,omitempty"`

	// Version is the application version.
	Version string `json:"version,omitempty"`

	// Server contains bridge server settings.
	Server ServerConfig `json:"server,omitempty"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Bridge contains per-connection protocol settings.
	Bridge BridgeConfig `json:"bridge,omitempty"`

	// Routes are standalone route definitions, matched in order before
	// groups.
	Routes []RouteDef `json:"routes,omitempty"`

	// Groups are named route groups; routes in the same group swap
	// without animation.
	Groups []GroupDef `json:"groups,omitempty"`

	// Tabs configures the tab navigation classifier.
	Tabs TabsConfig `json:"tabs,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains bridge server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// AllowedOrigins restricts WebSocket origins. Empty allows all.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled controls whether metrics middleware is installed.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`

	// Subsystem is the metrics subsystem.
	Subsystem string `json:"subsystem,omitempty"`
}

// BridgeConfig contains per-connection protocol settings.
type BridgeConfig struct {
	// UpdateRate is the sustained inbound update budget per second.
	UpdateRate float64 `json:"updateRate,omitempty"`

	// UpdateBurst is the inbound update burst size.
	UpdateBurst int `json:"updateBurst,omitempty"`
}

// RouteDef declares one route pattern.
type RouteDef struct {
	// Pattern is the path pattern (":param" and "*catchall" segments).
	Pattern string `json:"pattern"`

	// Exact requires the pathname to match the full pattern length.
	Exact bool `json:"exact,omitempty"`

	// Name labels the route; defaults to the pattern.
	Name string `json:"name,omitempty"`
}

// GroupDef declares a named group of routes.
type GroupDef struct {
	// Name is the group name.
	Name string `json:"name"`

	// Routes are the group's members.
	Routes []RouteDef `json:"routes"`
}

// TabsConfig configures the tab navigation classifier.
type TabsConfig struct {
	// Patterns are the patterns belonging to the tab group.
	Patterns []string `json:"patterns,omitempty"`

	// Index is the tab group's index pattern.
	Index string `json:"index,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Version: "0.1.0",
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Bridge: BridgeConfig{
			UpdateRate:  DefaultUpdateRate,
			UpdateBurst: DefaultUpdateBurst,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for backtrail.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigInvalid).
				WithDetail("No backtrail.json found in " + filepath.Dir(path)).
				WithSuggestion("Create backtrail.json or pass an explicit --config path")
		}
		return nil, errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetail("Failed to parse backtrail.json: " + err.Error()).
			WithSuggestion("Check that backtrail.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Bridge.UpdateRate == 0 {
		c.Bridge.UpdateRate = DefaultUpdateRate
	}
	if c.Bridge.UpdateBurst == 0 {
		c.Bridge.UpdateBurst = DefaultUpdateBurst
	}
	for i := range c.Routes {
		if c.Routes[i].Name == "" {
			c.Routes[i].Name = c.Routes[i].Pattern
		}
	}
	for g := range c.Groups {
		for i := range c.Groups[g].Routes {
			if c.Groups[g].Routes[i].Name == "" {
				c.Groups[g].Routes[i].Name = c.Groups[g].Routes[i].Pattern
			}
		}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("Port must be between 0 and 65535")
	}
	if c.Bridge.UpdateRate < 0 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("bridge.updateRate must not be negative")
	}
	if c.Bridge.UpdateBurst < 0 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("bridge.updateBurst must not be negative")
	}
	for _, r := range c.Routes {
		if r.Pattern == "" {
			return errors.New(errors.CodeConfigInvalid).
				WithDetail("route with empty pattern")
		}
	}
	for _, g := range c.Groups {
		if g.Name == "" {
			return errors.New(errors.CodeConfigInvalid).
				WithDetail("group with empty name")
		}
		for _, r := range g.Routes {
			if r.Pattern == "" {
				return errors.New(errors.CodeConfigInvalid).
					WithDetail("group " + g.Name + " has a route with empty pattern")
			}
		}
	}
	if c.Tabs.Index != "" && !contains(c.Tabs.Patterns, c.Tabs.Index) {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("tabs.index " + c.Tabs.Index + " is not listed in tabs.patterns")
	}
	return nil
}

// Address returns the listen address for the bridge server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing backtrail.json, or an error if not
// found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigInvalid).
				WithDetail("No backtrail.json found in " + startDir + " or any parent directory").
				WithSuggestion("Create backtrail.json at the project root")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working
// directory or the nearest parent containing backtrail.json.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}
	return Load(root)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
