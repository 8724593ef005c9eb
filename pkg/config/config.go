package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"avaneesh/ddc-go/pkg/ddc"
)

// EnvPrefix prefixes environment overrides, e.g. DDC_HTTP_LISTEN
const EnvPrefix = "DDC"

// Config represents the application configuration
type Config struct {
	Logging  ddc.LogConfig   `mapstructure:"logging"`
	Displays []ddc.BusConfig `mapstructure:"displays"`
	HTTP     HTTPConfig      `mapstructure:"http"`
	Agent    AgentConfig     `mapstructure:"agent"`
	Cache    CacheConfig     `mapstructure:"cache"`
}

// HTTPConfig represents the control API server
type HTTPConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Listen       string        `mapstructure:"listen"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Mode         string        `mapstructure:"mode"` // gin mode: debug, release or test
}

// AgentConfig represents the bus tunnel agent. The agent exports a local
// bus, it does not talk DDC/CI itself.
type AgentConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	QUICListen string        `mapstructure:"quic_listen"`
	TCPListen  string        `mapstructure:"tcp_listen"`
	CertFile   string        `mapstructure:"cert_file"`
	KeyFile    string        `mapstructure:"key_file"`
	Bus        ddc.BusConfig `mapstructure:"bus"`
}

// CacheConfig represents the capability cache
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads the configuration. An explicit path must exist; without one
// ddc.yaml is searched in the working directory and the user config
// directory, and defaults apply when none is found.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("ddc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "ddc"))
		}
	}

	// Environment variable support
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)

	// HTTP defaults
	v.SetDefault("http.enabled", true)
	v.SetDefault("http.listen", "127.0.0.1:8484")
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("http.mode", "release")

	// Agent defaults
	v.SetDefault("agent.enabled", false)
	v.SetDefault("agent.quic_listen", ":4740")
	v.SetDefault("agent.tcp_listen", "")
	v.SetDefault("agent.bus.id", "agent")
	v.SetDefault("agent.bus.transport", ddc.TransportI2C)
	v.SetDefault("agent.bus.baud_rate", 9600)

	// Cache defaults
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", defaultCachePath())
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "ddc", "capabilities.toml")
}

var validTransports = []string{
	ddc.TransportI2C,
	ddc.TransportSerial,
	ddc.TransportTCP,
	ddc.TransportQUIC,
	ddc.TransportSimulator,
}

// validate validates the configuration
func validate(config *Config) error {
	validLevels := []string{"debug", "info", "warn", "warning", "error"}
	if !contains(validLevels, strings.ToLower(config.Logging.Level)) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	seen := make(map[string]bool, len(config.Displays))
	for i := range config.Displays {
		d := &config.Displays[i]
		if d.ID == "" {
			return fmt.Errorf("displays[%d].id is required", i)
		}
		if seen[d.ID] {
			return fmt.Errorf("displays[%d].id %q is duplicated", i, d.ID)
		}
		seen[d.ID] = true

		if d.Transport == "" {
			d.Transport = ddc.TransportI2C
		}
		if !contains(validTransports, d.Transport) {
			return fmt.Errorf("displays[%d].transport must be one of: %v", i, validTransports)
		}
		if d.Device == "" && d.Transport != ddc.TransportSimulator {
			return fmt.Errorf("displays[%d].device is required for transport %s", i, d.Transport)
		}
	}

	if config.HTTP.Enabled && config.HTTP.Listen == "" {
		return fmt.Errorf("http.listen is required")
	}

	if config.Agent.Enabled {
		if config.Agent.QUICListen == "" && config.Agent.TCPListen == "" {
			return fmt.Errorf("agent.quic_listen or agent.tcp_listen is required")
		}
		if (config.Agent.CertFile == "") != (config.Agent.KeyFile == "") {
			return fmt.Errorf("agent.cert_file and agent.key_file must be set together")
		}
		switch config.Agent.Bus.Transport {
		case ddc.TransportI2C, ddc.TransportSerial, ddc.TransportSimulator:
		default:
			return fmt.Errorf("agent.bus.transport must be a local bus, got %q", config.Agent.Bus.Transport)
		}
	}

	if config.Cache.Enabled && config.Cache.Path == "" {
		return fmt.Errorf("cache.path is required")
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// Display returns the display configuration with the given ID
func (c *Config) Display(id string) (ddc.BusConfig, bool) {
	for _, d := range c.Displays {
		if d.ID == id {
			return d, true
		}
	}
	return ddc.BusConfig{}, false
}
