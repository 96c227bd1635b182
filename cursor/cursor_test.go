package cursor

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreate(t *testing.T) {
	c := New()
	assert.Equal(t, uint64(0), c.Position())
	_, bounded := c.Capacity()
	assert.False(t, bounded)

	var zero Cursor
	assert.Equal(t, c, zero, "zero value is an unbounded cursor")

	b := NewBounded(0x7FFF)
	capacity, bounded := b.Capacity()
	assert.True(t, bounded)
	assert.Equal(t, uint64(0x7FFF), capacity)
	assert.Equal(t, uint64(0), b.Position())
}

func TestSeekStart(t *testing.T) {
	c := New()
	pos, err := c.Seek(1337, io.SeekStart)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1337), pos)
	assert.Equal(t, uint64(1337), c.Position())

	pos, err = c.SeekStart(math.MaxUint64)
	assert.NoError(t, err, "unbounded seek from start always succeeds")
	assert.Equal(t, uint64(math.MaxUint64), pos)
}

func TestSeekStartRoundTrip(t *testing.T) {
	c := NewBounded(math.MaxUint16)
	for _, x := range []uint64{0, 1, 255, 256, 0x7FFF, math.MaxUint16} {
		pos, err := c.SeekStart(x)
		assert.NoError(t, err)
		assert.Equal(t, x, pos)
		assert.Equal(t, x, c.Position())
	}
}

func TestSeekStartBounded(t *testing.T) {
	c := NewBounded(100)
	_, err := c.SeekStart(50)
	assert.NoError(t, err)

	pos, err := c.SeekStart(101)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, uint64(50), pos, "failed seek leaves the position unchanged")
	assert.Equal(t, uint64(50), c.Position())

	pos, err = c.SeekStart(100)
	assert.NoError(t, err, "capacity itself is a legal position")
	assert.Equal(t, uint64(100), pos)
}

func TestSeekStartNegative(t *testing.T) {
	c := New()
	_, err := c.Seek(-1, io.SeekStart)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, uint64(0), c.Position())
}

func TestSeekCurrentForward(t *testing.T) {
	c := New()
	_, _ = c.SeekStart(1337)

	pos, err := c.Seek(3, io.SeekCurrent)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1340), pos)
}

func TestSeekCurrentBack(t *testing.T) {
	c := New()
	_, _ = c.SeekStart(1337)

	pos, err := c.SeekCurrent(3)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1340), pos)

	pos, err = c.SeekCurrent(-337)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1003), pos)

	pos, err = c.SeekCurrent(-3)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1000), pos)
}

func TestSeekCurrentZero(t *testing.T) {
	for _, c := range []Cursor{New(), NewBounded(2000), NewBounded(1337)} {
		_, _ = c.SeekStart(1337)
		pos, err := c.SeekCurrent(0)
		assert.NoError(t, err)
		assert.Equal(t, uint64(1337), pos)
	}

	c := New()
	_, _ = c.SeekStart(math.MaxUint64)
	pos, err := c.SeekCurrent(0)
	assert.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), pos)
}

func TestSeekEnd(t *testing.T) {
	c := New()
	pos, err := c.Seek(-10, io.SeekEnd)
	assert.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64-10), pos)

	pos, err = c.SeekEnd(0)
	assert.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), pos)

	pos, err = c.SeekEnd(math.MinInt64)
	assert.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64)-uint64(1<<63), pos)
}

func TestSeekEndBounded(t *testing.T) {
	c := NewBounded(math.MaxUint16)
	pos, err := c.SeekEnd(-10)
	assert.NoError(t, err)
	assert.Equal(t, uint64(65525), pos)

	_, err = c.SeekEnd(10)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, uint64(65525), c.Position())
}

func TestSeekEndPastStart(t *testing.T) {
	c := NewBounded(10)
	_, err := c.SeekEnd(-11)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, uint64(0), c.Position())

	pos, err := c.SeekEnd(-10)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), pos)
}

func TestSeekEndPositive(t *testing.T) {
	for _, d := range []int64{1, 10, math.MaxInt64} {
		c := New()
		_, err := c.SeekEnd(d)
		assert.ErrorIs(t, err, ErrOutOfRange)

		b := NewBounded(100)
		_, err = b.SeekEnd(d)
		assert.ErrorIs(t, err, ErrOutOfRange)
	}
}

func TestSeekInvalidOverflow(t *testing.T) {
	c := New()
	_, _ = c.SeekStart(math.MaxUint64 - 5)

	_, err := c.SeekCurrent(10)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, uint64(math.MaxUint64-5), c.Position())

	pos, err := c.SeekCurrent(5)
	assert.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), pos)
}

func TestSeekInvalidOverflowBounded(t *testing.T) {
	c := NewBounded(math.MaxUint16)
	_, err := c.SeekStart(65530)
	assert.NoError(t, err)

	_, err = c.SeekCurrent(10)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, uint64(65530), c.Position())

	pos, err := c.SeekCurrent(5)
	assert.NoError(t, err)
	assert.Equal(t, uint64(65535), pos)
}

func TestSeekInvalidUnderflow(t *testing.T) {
	c := New()
	_, err := c.SeekCurrent(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, _ = c.SeekStart(5)
	_, err = c.SeekCurrent(-6)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, uint64(5), c.Position())

	_, err = c.SeekCurrent(math.MinInt64)
	assert.ErrorIs(t, err, ErrOutOfRange)

	pos, err := c.SeekCurrent(-5)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), pos)
}

func TestSeekInvalidWhence(t *testing.T) {
	c := New()
	_, err := c.Seek(0, 42)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestAdvance(t *testing.T) {
	c := New()
	c.Advance(10)
	assert.Equal(t, uint64(10), c.Position())
	c.Advance(0)
	assert.Equal(t, uint64(10), c.Position())

	c.Advance(math.MaxUint64)
	assert.Equal(t, uint64(math.MaxUint64), c.Position(), "saturates instead of wrapping")
	c.Advance(1)
	assert.Equal(t, uint64(math.MaxUint64), c.Position())
}

func TestAdvanceBounded(t *testing.T) {
	c := NewBounded(100)
	c.Advance(60)
	assert.Equal(t, uint64(60), c.Position())
	c.Advance(60)
	assert.Equal(t, uint64(100), c.Position(), "clamped to capacity")

	_, err := c.SeekCurrent(1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestConvertZero(t *testing.T) {
	addr, ok := New().MemoryAddress()
	assert.True(t, ok)
	assert.Equal(t, [2]byte{0, 0}, addr)
}

func TestConvert1Byte(t *testing.T) {
	c := New()
	_, _ = c.SeekStart(50)
	addr, ok := c.MemoryAddress()
	assert.True(t, ok)
	assert.Equal(t, [2]byte{0, 50}, addr)
}

func TestConvert2Bytes(t *testing.T) {
	c := New()
	_, _ = c.SeekStart(260)
	addr, ok := c.MemoryAddress()
	assert.True(t, ok)
	assert.Equal(t, [2]byte{1, 4}, addr)
}

func TestConvertLast(t *testing.T) {
	c := New()
	_, _ = c.SeekStart(math.MaxUint16)
	addr, ok := c.MemoryAddress()
	assert.True(t, ok)
	assert.Equal(t, [2]byte{0xFF, 0xFF}, addr)
}

func TestConvertInvalid(t *testing.T) {
	c := New()
	_, _ = c.SeekStart(AddressSpace)
	_, ok := c.MemoryAddress()
	assert.False(t, ok)

	_, _ = c.SeekEnd(0)
	_, ok = c.MemoryAddress()
	assert.False(t, ok)
}

func TestConvertIgnoresCapacity(t *testing.T) {
	c := NewBounded(1 << 20)
	_, _ = c.SeekStart(AddressSpace - 1)
	_, ok := c.MemoryAddress()
	assert.True(t, ok)

	c.Advance(1)
	_, ok = c.MemoryAddress()
	assert.False(t, ok, "the chip address bus is 16 bits regardless of capacity")
}
