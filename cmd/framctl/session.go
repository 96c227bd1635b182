package main

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/rabidaudio/mb85rc/fram"
	"github.com/rabidaudio/mb85rc/i2cdev"
	"github.com/rabidaudio/mb85rc/stream"
	"github.com/rabidaudio/mb85rc/wp"
)

// BusCloser is an open bus.
type BusCloser interface {
	fram.Bus
	io.Closer
}

// Protector guards writes with the chip's WP pin.
type Protector interface {
	Unprotected(fn func() error) error
	Close() error
}

// Globals are the flags shared by every command. Zero values mean "use the
// profile".
type Globals struct {
	Config  string `help:"YAML profile with bus, address, variant and wp_pin." type:"path" short:"c"`
	Bus     string `help:"I2C bus number or i2c-dev node (default 1)."`
	Address string `help:"7-bit bus address of the chip (default 0x50)."`
	Variant string `help:"Chip variant: mb85rc16, mb85rc64, mb85rc256, mb85rc512." short:"t"`
	WPPin   int    `help:"BCM GPIO driving the WP pin, -1 if not wired." name:"wp-pin" default:"-1"`
	Verbose bool   `help:"Log every bus transaction to stderr." short:"v"`
}

// Hardware hooks, replaced in tests.
var (
	openBus = func(path string) (BusCloser, error) {
		bus, err := i2cdev.OpenPath(path)
		if err != nil {
			return nil, err
		}
		return bus, nil
	}
	openGuard = func(pin uint8) (Protector, error) {
		guard, err := wp.Open(pin)
		if err != nil {
			return nil, err
		}
		return guard, nil
	}
)

// Resolve merges the profile and flags.
func (g *Globals) Resolve() (Config, error) {
	cfg := DefaultConfig()
	if g.Config != "" {
		var err error
		if cfg, err = LoadConfig(g.Config); err != nil {
			return cfg, err
		}
	}
	if g.Bus != "" {
		cfg.Bus = g.Bus
	}
	if g.Address != "" {
		a, err := strconv.ParseUint(g.Address, 0, 8)
		if err != nil {
			return cfg, &ConfigError{Message: "invalid --address", Cause: err}
		}
		cfg.Address = uint8(a)
	}
	if g.Variant != "" {
		cfg.Variant = g.Variant
	}
	if g.WPPin > math.MaxUint8 {
		return cfg, &ConfigError{Message: fmt.Sprintf("invalid --wp-pin %d", g.WPPin)}
	}
	if g.WPPin >= 0 {
		pin := uint8(g.WPPin)
		cfg.WPPin = &pin
	}
	return cfg, cfg.Validate()
}

type session struct {
	bus     BusCloser
	dev     *fram.Device
	variant fram.Variant
	guard   Protector
}

func (g *Globals) open() (*session, error) {
	cfg, err := g.Resolve()
	if err != nil {
		return nil, err
	}
	variant, err := fram.VariantByName(cfg.Variant)
	if err != nil {
		return nil, err
	}

	bus, err := openBus(cfg.DevicePath())
	if err != nil {
		return nil, err
	}
	s := &session{bus: bus, dev: fram.New(bus, cfg.Address), variant: variant}
	if g.Verbose {
		s.dev.LogMode = fram.LogModeStdErr
	}

	if cfg.WPPin != nil {
		s.guard, err = openGuard(*cfg.WPPin)
		if err != nil {
			bus.Close()
			return nil, err
		}
	}
	return s, nil
}

// Stream returns a new stream over the whole chip.
func (s *session) Stream() *stream.Stream {
	return stream.ForVariant(s.dev, s.variant)
}

// Writable runs fn with the write protect pin released, if one is wired.
func (s *session) Writable(fn func() error) error {
	if s.guard == nil {
		return fn()
	}
	return s.guard.Unprotected(fn)
}

func (s *session) Close() error {
	if s.guard != nil {
		if err := s.guard.Close(); err != nil {
			s.bus.Close()
			return err
		}
	}
	return s.bus.Close()
}
