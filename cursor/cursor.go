// Package cursor tracks a read/write position within a linear address space
// and converts it into the 2 byte big-endian memory address used on the wire.
//
// A cursor is either unbounded, in which case the logical end of the space is
// [math.MaxUint64], or bounded by a capacity N, in which case the legal
// positions are 0 through N inclusive. Seeking outside the legal span fails
// with [ErrOutOfRange] and leaves the position untouched. Advancing never
// fails: it saturates at the end of the space instead.
package cursor

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ErrOutOfRange is returned when a seek would move the cursor before 0 or
// past the end of its address space.
var ErrOutOfRange = fmt.Errorf("cursor: position out of range")

// AddressSpace is the number of positions reachable with a 2 byte memory
// address.
const AddressSpace = math.MaxUint16 + 1

// Cursor is a movable read/write head. The zero value is an unbounded cursor
// at position 0.
type Cursor struct {
	pos      uint64
	capacity uint64
	bounded  bool
}

// New returns an unbounded cursor at position 0.
func New() Cursor {
	return Cursor{}
}

// NewBounded returns a cursor at position 0 whose legal positions are
// 0 through capacity inclusive.
func NewBounded(capacity uint64) Cursor {
	return Cursor{capacity: capacity, bounded: true}
}

// Position returns the current offset.
func (c Cursor) Position() uint64 {
	return c.pos
}

// Capacity returns the last legal position and whether the cursor is bounded.
func (c Cursor) Capacity() (uint64, bool) {
	return c.capacity, c.bounded
}

func (c Cursor) end() uint64 {
	if c.bounded {
		return c.capacity
	}
	return math.MaxUint64
}

// Seek moves the cursor using the io.Seeker whence constants.
// A negative offset relative to the start is out of range.
func (c *Cursor) Seek(offset int64, whence int) (uint64, error) {
	switch whence {
	case io.SeekStart:
		if offset < 0 {
			return c.pos, ErrOutOfRange
		}
		return c.SeekStart(uint64(offset))
	case io.SeekCurrent:
		return c.SeekCurrent(offset)
	case io.SeekEnd:
		return c.SeekEnd(offset)
	default:
		return c.pos, fmt.Errorf("%w: invalid whence %d", ErrOutOfRange, whence)
	}
}

// SeekStart moves the cursor to offset.
func (c *Cursor) SeekStart(offset uint64) (uint64, error) {
	if offset > c.end() {
		return c.pos, ErrOutOfRange
	}
	c.pos = offset
	return c.pos, nil
}

// SeekEnd moves the cursor offset bytes back from the end of the space.
// Only offsets <= 0 are legal.
func (c *Cursor) SeekEnd(offset int64) (uint64, error) {
	if offset > 0 {
		return c.pos, ErrOutOfRange
	}
	back := magnitude(offset)
	end := c.end()
	if back > end {
		return c.pos, ErrOutOfRange
	}
	c.pos = end - back
	return c.pos, nil
}

// SeekCurrent moves the cursor relative to its current position.
func (c *Cursor) SeekCurrent(offset int64) (uint64, error) {
	d := magnitude(offset)
	if offset >= 0 {
		if d > c.end()-c.pos {
			return c.pos, ErrOutOfRange
		}
		c.pos += d
		return c.pos, nil
	}
	if d > c.pos {
		return c.pos, ErrOutOfRange
	}
	c.pos -= d
	return c.pos, nil
}

// Advance moves the cursor forward after a completed transfer of n bytes.
// It saturates at the end of the space.
func (c *Cursor) Advance(n uint64) {
	end := c.end()
	if n > end-c.pos {
		c.pos = end
		return
	}
	c.pos += n
}

// MemoryAddress returns the position as a [high, low] memory address.
// ok is false when the position does not fit in 16 bits.
func (c Cursor) MemoryAddress() (addr [2]byte, ok bool) {
	if c.pos > math.MaxUint16 {
		return addr, false
	}
	binary.BigEndian.PutUint16(addr[:], uint16(c.pos))
	return addr, true
}

// magnitude returns |n| without overflowing on math.MinInt64.
func magnitude(n int64) uint64 {
	if n >= 0 {
		return uint64(n)
	}
	return uint64(-(n + 1)) + 1
}
