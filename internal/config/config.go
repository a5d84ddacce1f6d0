package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cjeanneret/irshutter/internal/hw/carrier"
	"github.com/cjeanneret/irshutter/internal/ir/protocol"
	"gopkg.in/yaml.v3"
)

// CameraConfig selects the remote protocol and the IR emitter pin.
type CameraConfig struct {
	Brand string `yaml:"brand"` // e.g., "nikon", "canon_wldc100"
	Pin   int    `yaml:"pin"`   // BCM number of the pin driving the IR LED
}

// TransmitterConfig describes how the carrier is produced.
type TransmitterConfig struct {
	Backend string `yaml:"backend"`       // "bitbang" (any pin) or "pwm" (BCM 12, 13, 18, 19)
	CPU     *int   `yaml:"cpu,omitempty"` // pin bit-bang transmissions to this CPU (Linux only)
}

// LogConfig is optional file logging with rotation.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DebugLevel int  `yaml:"debug_level"` // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	MockGPIO   bool `yaml:"mock_gpio"`   // use mock GPIO (true=dev/test, false=real Raspberry Pi)
}

// MaxConfigFileBytes bounds the size of a config file.
const MaxConfigFileBytes = 64 << 10

// Config aggregates all application configuration.
type Config struct {
	Camera      CameraConfig      `yaml:"camera"`
	Transmitter TransmitterConfig `yaml:"transmitter"`
	Log         LogConfig         `yaml:"log"`
	Defaults    DefaultsConfig    `yaml:"defaults"`
}

// ValidateConfigPath accepts only .yaml files located directly in a
// "configs" directory.
func ValidateConfigPath(path string) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) && strings.HasPrefix(clean, "..") {
		return fmt.Errorf("config path %q escapes the working directory", path)
	}
	if filepath.Ext(clean) != ".yaml" {
		return fmt.Errorf("config path %q must have a .yaml extension", path)
	}
	if filepath.Base(filepath.Dir(clean)) != "configs" {
		return fmt.Errorf("config path %q must be inside a configs/ directory", path)
	}
	return nil
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if len(data) > MaxConfigFileBytes {
		return nil, fmt.Errorf("config file %s is larger than %d bytes", path, MaxConfigFileBytes)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	// Basic validation
	if cfg.Camera.Brand == "" {
		return nil, fmt.Errorf("camera.brand is required")
	}
	if _, err := protocol.ParseBrand(cfg.Camera.Brand); err != nil {
		return nil, fmt.Errorf("camera.brand: %w", err)
	}
	if cfg.Camera.Pin < 0 {
		return nil, fmt.Errorf("camera.pin must be >= 0, got %d", cfg.Camera.Pin)
	}
	switch cfg.Transmitter.Backend {
	case "":
		cfg.Transmitter.Backend = carrier.KindBitBang
	case carrier.KindBitBang, carrier.KindPWM:
	default:
		return nil, fmt.Errorf("transmitter.backend must be %q or %q, got %q",
			carrier.KindBitBang, carrier.KindPWM, cfg.Transmitter.Backend)
	}
	if cfg.Transmitter.CPU != nil && *cfg.Transmitter.CPU < 0 {
		return nil, fmt.Errorf("transmitter.cpu must be >= 0, got %d", *cfg.Transmitter.CPU)
	}
	if cfg.Defaults.DebugLevel < 0 || cfg.Defaults.DebugLevel > 4 {
		return nil, fmt.Errorf("debug_level must be between 0 and 4, got %d", cfg.Defaults.DebugLevel)
	}

	// Default values for log rotation
	if cfg.Log.MaxSizeMB <= 0 {
		cfg.Log.MaxSizeMB = 10
	}
	if cfg.Log.MaxBackups <= 0 {
		cfg.Log.MaxBackups = 3
	}

	return &cfg, nil
}

// Brand returns the parsed camera brand.
func (c *Config) Brand() (protocol.Brand, error) {
	return protocol.ParseBrand(c.Camera.Brand)
}

// CPU returns the CPU bit-bang transmissions are pinned to, or -1.
func (c *Config) CPU() int {
	if c.Transmitter.CPU == nil {
		return -1
	}
	return *c.Transmitter.CPU
}
