// Package wp drives the write protect pin of an MB85RC chip from a
// Raspberry Pi GPIO.
//
// WP is active high: while the pin is high the chip acknowledges writes
// but leaves memory unchanged.
package wp

import (
	rpio "github.com/stianeikeland/go-rpio/v4"
)

// Pin is the subset of rpio.Pin a Guard uses.
type Pin interface {
	Output()
	High()
	Low()
	Read() rpio.State
}

var _ Pin = rpio.Pin(0)

// Guard holds the chip's WP pin. It starts out protected.
type Guard struct {
	pin     Pin
	closefn func() error
}

// Open maps GPIO memory and takes over the BCM numbered pin.
// Be sure to Close() the Guard after use.
func Open(pin uint8) (*Guard, error) {
	err := rpio.Open()
	if err != nil {
		return nil, err
	}
	g := New(rpio.Pin(pin))
	g.closefn = rpio.Close
	return g, nil
}

// New configures pin as an output and drives it high.
func New(pin Pin) *Guard {
	pin.Output()
	pin.High()
	return &Guard{pin: pin}
}

// Protect drives WP high.
func (g *Guard) Protect() {
	g.pin.High()
}

// Unprotect drives WP low so writes reach the memory array.
func (g *Guard) Unprotect() {
	g.pin.Low()
}

// Protected reports whether WP is high.
func (g *Guard) Protected() bool {
	return g.pin.Read() == rpio.High
}

// Unprotected runs fn with writes enabled and protects the chip again
// afterwards, even if fn fails.
func (g *Guard) Unprotected(fn func() error) error {
	g.Unprotect()
	defer g.Protect()
	return fn()
}

// Close leaves the chip protected and unmaps GPIO memory.
func (g *Guard) Close() error {
	g.Protect()
	if g.closefn != nil {
		return g.closefn()
	}
	return nil
}
