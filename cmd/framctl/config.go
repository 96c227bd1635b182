package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rabidaudio/mb85rc/fram"
	"github.com/rabidaudio/mb85rc/i2cdev"
	"gopkg.in/yaml.v3"
)

// Config describes how the chip is wired. It can be loaded from a YAML
// profile:
//
//	bus: 1
//	address: 0x50
//	variant: mb85rc256
//	wp_pin: 17
type Config struct {
	Bus     string `yaml:"bus"`     // bus number or device node
	Address uint8  `yaml:"address"` // 7-bit bus address
	Variant string `yaml:"variant"`
	WPPin   *uint8 `yaml:"wp_pin"` // BCM GPIO driving WP, if wired
}

// DefaultConfig matches a breakout board on a Raspberry Pi's primary bus.
func DefaultConfig() Config {
	return Config{
		Bus:     "1",
		Address: fram.DefaultAddress,
		Variant: fram.MB85RC256.Name,
	}
}

// ConfigError is returned when a profile cannot be loaded.
type ConfigError struct {
	File    string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return "framctl: " + msg
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// ParseConfig overlays a YAML profile onto the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse YAML", Cause: err}
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadConfig reads a profile from a file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), &ConfigError{File: path, Message: "failed to read file", Cause: err}
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		if ce, ok := err.(*ConfigError); ok {
			ce.File = path
		}
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the address and variant.
func (c Config) Validate() error {
	if c.Address == 0 || c.Address > 0x7F {
		return &ConfigError{Message: fmt.Sprintf("invalid bus address %#02x", c.Address)}
	}
	if _, err := fram.VariantByName(c.Variant); err != nil {
		return &ConfigError{Message: "invalid variant", Cause: err}
	}
	return nil
}

// DevicePath resolves Bus to an i2c-dev node.
func (c Config) DevicePath() string {
	if n, err := strconv.Atoi(c.Bus); err == nil {
		return i2cdev.Path(n)
	}
	return c.Bus
}
