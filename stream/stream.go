// Package stream presents an MB85RC chip as a seekable byte stream.
//
// A Stream tracks its position with a cursor and turns each Read or Write
// into a bus transaction at the cursor's memory address. Only positions
// 0000h through FFFFh have a memory address; reading or writing anywhere
// else fails with [ErrInvalidPosition] before the bus is touched.
//
// A Stream over a bounded cursor ends at the cursor's capacity: reads stop
// short there and return io.EOF once the end is reached, and writes that
// would run past it are cut off. With an unbounded cursor, transfers that
// run past FFFFh are not split: the chip rolls its internal pointer over to
// 0000h, so a long read or write wraps around exactly as it would on the
// bus. The cursor is not wrapped.
package stream

import (
	"io"
	"math"

	"github.com/rabidaudio/mb85rc/cursor"
	"github.com/rabidaudio/mb85rc/fram"
)

// Driver issues the chip operations a Stream needs. *fram.Device implements it.
type Driver interface {
	ByteWrite(addr fram.Address, data byte) error
	WritePage(addr fram.Address, data []byte) error
	SequentialRead(addr fram.Address, buf []byte) error
}

var _ Driver = (*fram.Device)(nil)

// Stream is an io.ReadWriteSeeker over a chip. Each Stream owns its cursor;
// two Streams over the same Device track independent positions but share
// the chip contents.
type Stream struct {
	dev Driver
	cur cursor.Cursor
}

// ensure interface conformation
var _ io.ReadWriteSeeker = (*Stream)(nil)

// New returns a Stream positioned by cur.
func New(dev Driver, cur cursor.Cursor) *Stream {
	return &Stream{dev: dev, cur: cur}
}

// ForVariant returns a Stream at position 0 bounded by the size of the chip,
// so the stream ends at the last byte of the chip instead of rolling over.
func ForVariant(dev Driver, v fram.Variant) *Stream {
	return New(dev, cursor.NewBounded(v.Size()))
}

// Position returns the current cursor position.
func (s *Stream) Position() uint64 {
	return s.cur.Position()
}

func (s *Stream) invalid(op string, err error) error {
	return &Error{Op: op, Kind: KindInvalidPosition, Pos: s.cur.Position(), Err: err}
}

func (s *Stream) busError(op string, err error) error {
	return &Error{Op: op, Kind: KindBus, Pos: s.cur.Position(), Err: err}
}

// remaining returns how many of n bytes fit before the end of a bounded
// cursor.
func (s *Stream) remaining(n int) int {
	capacity, bounded := s.cur.Capacity()
	if !bounded {
		return n
	}
	return int(min(uint64(n), capacity-s.cur.Position()))
}

// Read fills p with a single sequential read from the cursor position and
// advances the cursor by the number of bytes read. On a bounded stream the
// read stops at the capacity, and a read at the capacity returns io.EOF.
func (s *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	p = p[:s.remaining(len(p))]
	if len(p) == 0 {
		return 0, io.EOF
	}
	addr, ok := s.cur.MemoryAddress()
	if !ok {
		return 0, s.invalid("read", nil)
	}
	if err := s.dev.SequentialRead(fram.Address(addr), p); err != nil {
		return 0, s.busError("read", err)
	}
	s.cur.Advance(uint64(len(p)))
	return len(p), nil
}

// Write stores p at the cursor position. A single byte goes out as a byte
// write; anything longer is sent as page writes of at most
// fram.MaxPageSize bytes, advancing the cursor after each one. If a page
// fails, n is the number of bytes committed by the pages before it.
//
// On a bounded stream only the bytes before the capacity are written; the
// rest fail with ErrInvalidPosition wrapping io.ErrShortWrite.
func (s *Stream) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	fits := s.remaining(len(p))
	n, err = s.write(p[:fits])
	if err == nil && fits < len(p) {
		err = s.invalid("write", io.ErrShortWrite)
	}
	return n, err
}

func (s *Stream) write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(p) == 1 {
		addr, ok := s.cur.MemoryAddress()
		if !ok {
			return 0, s.invalid("write", nil)
		}
		if err := s.dev.ByteWrite(fram.Address(addr), p[0]); err != nil {
			return 0, s.busError("write", err)
		}
		s.cur.Advance(1)
		return 1, nil
	}
	for len(p) > 0 {
		addr, ok := s.cur.MemoryAddress()
		if !ok {
			return n, s.invalid("write", nil)
		}
		page := p[:min(len(p), fram.MaxPageSize)]
		if err := s.dev.WritePage(fram.Address(addr), page); err != nil {
			return n, s.busError("write", err)
		}
		s.cur.Advance(uint64(len(page)))
		n += len(page)
		p = p[len(page):]
	}
	return n, nil
}

// Seek moves the cursor. Positions that the cursor rejects, or that do not
// fit in an int64, fail with ErrInvalidPosition and leave the cursor where
// it was.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	c := s.cur
	pos, err := c.Seek(offset, whence)
	if err != nil {
		return int64(min(s.cur.Position(), math.MaxInt64)), s.invalid("seek", err)
	}
	if pos > math.MaxInt64 {
		return int64(min(s.cur.Position(), math.MaxInt64)), s.invalid("seek", cursor.ErrOutOfRange)
	}
	s.cur = c
	return int64(pos), nil
}

// SeekPosition is Seek without the int64 limit on the resulting position.
func (s *Stream) SeekPosition(offset int64, whence int) (uint64, error) {
	pos, err := s.cur.Seek(offset, whence)
	if err != nil {
		return pos, s.invalid("seek", err)
	}
	return pos, nil
}

// Flush does nothing. Every write is committed by the chip as soon as its
// bus transaction completes.
func (s *Stream) Flush() error {
	return nil
}
