//go:build linux

package i2cdev

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// i2c-dev ioctl request and message flags, from <linux/i2c-dev.h> and
// <linux/i2c.h>.
const (
	ioctlRdwr = 0x0707 // I2C_RDWR
	flagRead  = 0x0001 // I2C_M_RD
)

// message must match the kernel's struct i2c_msg layout.
type message struct {
	addr  uint16         // 7-bit slave address
	flags uint16         // I2C_M_* flags
	len   uint16         // buffer length
	buf   unsafe.Pointer // data buffer
}

// rdwrData must match the kernel's struct i2c_rdwr_ioctl_data layout.
type rdwrData struct {
	msgs  *message // message array
	nmsgs uint32   // number of messages
}

// Bus is an open /dev/i2c-N device node.
type Bus struct {
	fd   int
	path string
}

// OpenPath opens an i2c-dev device node, e.g. /dev/i2c-1.
func OpenPath(path string) (*Bus, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("i2cdev: open %v: %w", path, err)
	}
	return &Bus{fd: fd, path: path}, nil
}

// Close releases the device node.
func (b *Bus) Close() error {
	return unix.Close(b.fd)
}

func bufferPointer(p []byte) unsafe.Pointer {
	if len(p) == 0 {
		return nil
	}
	return unsafe.Pointer(&p[0])
}

// buildMessages returns the write message and, if r is non-empty, the read
// message of a combined transaction.
func buildMessages(addr uint8, w, r []byte) ([]message, error) {
	if len(w) > maxMessageLen || len(r) > maxMessageLen {
		return nil, ErrMessageTooLong
	}
	msgs := []message{{
		addr: uint16(addr),
		len:  uint16(len(w)),
		buf:  bufferPointer(w),
	}}
	if len(r) > 0 {
		msgs = append(msgs, message{
			addr:  uint16(addr),
			flags: flagRead,
			len:   uint16(len(r)),
			buf:   bufferPointer(r),
		})
	}
	return msgs, nil
}

func (b *Bus) transfer(addr uint8, w, r []byte) error {
	msgs, err := buildMessages(addr, w, r)
	if err != nil {
		return err
	}
	data := rdwrData{
		msgs:  &msgs[0],
		nmsgs: uint32(len(msgs)),
	}
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		uintptr(b.fd),
		ioctlRdwr,
		uintptr(unsafe.Pointer(&data)),
	)
	if errno != 0 {
		return errno
	}
	return nil
}
