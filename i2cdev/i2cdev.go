// Package i2cdev talks to I2C devices through the Linux i2c-dev interface
// (/dev/i2c-N). A Bus implements fram.Bus.
//
// Each call is one combined I2C_RDWR transaction, so a write followed by a
// read uses a repeated start and no other master can get in between.
// Timeouts and retries are left to the kernel adapter driver.
package i2cdev

import (
	"fmt"
)

// ErrMessageTooLong is returned for transfers the kernel cannot express in
// a single message.
var ErrMessageTooLong = fmt.Errorf("i2cdev: message longer than %d bytes", maxMessageLen)

// ErrUnsupported is returned by Open on platforms without i2c-dev.
var ErrUnsupported = fmt.Errorf("i2cdev: only supported on linux")

const maxMessageLen = 0xFFFF // i2c_msg.len is a __u16

// Error is returned when a transfer fails.
type Error struct {
	Op   string // "write" or "write-read"
	Path string
	Addr uint8
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("i2cdev: %v %v@%02Xh: %v", e.Op, e.Path, e.Addr, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Path returns the device node for bus number n.
func Path(n int) string {
	return fmt.Sprintf("/dev/i2c-%d", n)
}

// Open opens bus number n.
func Open(n int) (*Bus, error) {
	return OpenPath(Path(n))
}

// Write sends w to the device at addr.
func (b *Bus) Write(addr uint8, w []byte) error {
	if err := b.transfer(addr, w, nil); err != nil {
		return &Error{Op: "write", Path: b.path, Addr: addr, Err: err}
	}
	return nil
}

// WriteRead sends w to the device at addr, then reads len(r) bytes after a
// repeated start.
func (b *Bus) WriteRead(addr uint8, w, r []byte) error {
	if err := b.transfer(addr, w, r); err != nil {
		return &Error{Op: "write-read", Path: b.path, Addr: addr, Err: err}
	}
	return nil
}
