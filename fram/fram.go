// Package fram drives Fujitsu MB85RC series I2C ferroelectric RAM chips.
//
// The chip has a flat 16-bit memory address space reached through explicit
// address-plus-length bus transactions. A [Device] issues the five chip
// level operations: device ID query, byte write, page write, random read
// and sequential read. Cursor tracking and stream semantics live in the
// cursor and stream packages.
//
// Multi-byte transactions rely on the chip's internal address pointer: it
// auto-increments during a transfer and rolls over from the last address
// back to 0x0000. Device never splits a transaction at that boundary.
//
// Transport errors from the [Bus] are returned unchanged and never retried.
package fram

import (
	"encoding/binary"
	"fmt"
	"log"
	"os"
)

// Bus is a two-wire serial bus. Addresses are 7-bit values without the R/W bit.
//
// Write sends w to the device at addr in one transaction. WriteRead sends w
// and then, after a repeated start, reads len(r) bytes into r.
type Bus interface {
	Write(addr uint8, w []byte) error
	WriteRead(addr uint8, w, r []byte) error
}

const (
	// DefaultAddress is the bus address with A0..A2 tied low.
	DefaultAddress uint8 = 0x50

	// DeviceIDAddress is the reserved slave ID (F9h) shared by the device
	// family, shifted right to drop the R/W bit.
	DeviceIDAddress uint8 = 0x7C

	// DeviceIDCommand is the device address word sent to the reserved slave
	// ID. The R/W code is "don't care" for this command.
	DeviceIDCommand byte = 0xA0

	// MaxPageSize is the largest data payload sent in a single page write.
	MaxPageSize = 32000
)

// ErrPageTooLarge is returned by WritePage for payloads over MaxPageSize.
var ErrPageTooLarge = fmt.Errorf("fram: page write exceeds %d bytes", MaxPageSize)

// Address is a [high, low] memory address.
type Address [2]byte

// AddressOf encodes a 16-bit memory address.
func AddressOf(a uint16) Address {
	var addr Address
	binary.BigEndian.PutUint16(addr[:], a)
	return addr
}

// Uint16 decodes the address.
func (a Address) Uint16() uint16 {
	return binary.BigEndian.Uint16(a[:])
}

func (a Address) String() string {
	return fmt.Sprintf("%04Xh", a.Uint16())
}

// LogMode configures the destination for debug logs.
type LogMode int

const (
	LogModeSilent LogMode = 0 // disable logs
	LogModeStdErr LogMode = 1 // log to stderr
	LogModeLogger LogMode = 2 // log to the supplied log.Logger instance
)

// Device is an MB85RC chip at a fixed bus address. It owns the bus handle
// exclusively; sharing a physical bus between devices is the bus
// implementation's concern.
//
// Debug logging of bus transactions can be enabled by specifying LogMode.
// For [LogModeLogger], supply a [log.Logger] instance to Logger.
type Device struct {
	LogMode LogMode     // direct the driver logs
	Logger  *log.Logger // if LogMode == LogModeLogger, the log.Logger to use

	bus     Bus
	address uint8
}

var stderrLogger = log.New(os.Stderr, "fram: ", log.LstdFlags)

// New returns a Device for the chip at the given 7-bit bus address.
func New(bus Bus, address uint8) *Device {
	return &Device{bus: bus, address: address & 0x7F}
}

// Address returns the bus address of the chip.
func (d *Device) Address() uint8 {
	return d.address
}

// DeviceID reads the 3 byte manufacturer and product ID. The query goes to
// the reserved DeviceIDAddress, not to the chip's own bus address.
func (d *Device) DeviceID() (Identity, error) {
	var id Identity
	err := d.bus.WriteRead(DeviceIDAddress, []byte{DeviceIDCommand}, id[:])
	d.logf("device id\t%02X\t%v", id[:], err)
	if err != nil {
		return Identity{}, err
	}
	return id, nil
}

// ByteWrite writes one byte at the memory address.
func (d *Device) ByteWrite(addr Address, data byte) error {
	err := d.bus.Write(d.address, []byte{addr[0], addr[1], data})
	d.logf("byte write\t%v\t%05d\t%v", addr, 1, err)
	return err
}

// WritePage writes data starting at the memory address in one transaction.
// The chip auto-increments its address, rolling over to 0000h at the end of
// the address space, so a payload larger than the chip overwrites the start
// of what was written.
func (d *Device) WritePage(addr Address, data []byte) error {
	if len(data) > MaxPageSize {
		return ErrPageTooLarge
	}
	payload := make([]byte, 2+len(data))
	payload[0] = addr[0]
	payload[1] = addr[1]
	copy(payload[2:], data)
	err := d.bus.Write(d.address, payload)
	d.logf("page write\t%v\t%05d\t%v", addr, len(data), err)
	return err
}

// RandomRead reads the byte at the memory address.
func (d *Device) RandomRead(addr Address) (byte, error) {
	var buf [1]byte
	err := d.bus.WriteRead(d.address, addr[:], buf[:])
	d.logf("random read\t%v\t%05d\t%v", addr, 1, err)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// SequentialRead fills buf starting at the memory address. Past the last
// address the chip continues reading from 0000h.
func (d *Device) SequentialRead(addr Address, buf []byte) error {
	err := d.bus.WriteRead(d.address, addr[:], buf)
	d.logf("seq read\t%v\t%05d\t%v", addr, len(buf), err)
	return err
}

func (d *Device) logf(format string, v ...any) {
	switch d.LogMode {
	case LogModeStdErr:
		stderrLogger.Printf(format, v...)
	case LogModeLogger:
		if d.Logger != nil {
			d.Logger.Printf(format, v...)
		}
	}
}
