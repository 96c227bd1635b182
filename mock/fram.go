// Package mock provides an in-memory MB85RC chip on a simulated I2C bus,
// for testing code that talks to [fram.Bus] without hardware.
package mock

import (
	"fmt"

	"github.com/rabidaudio/mb85rc/fram"
)

// ErrNack is returned for transactions to addresses nothing answers on.
var ErrNack = fmt.Errorf("mock: address not acknowledged")

// Transaction records one bus transaction.
type Transaction struct {
	Addr  uint8
	Write []byte
	Read  int  // number of bytes requested, 0 for plain writes
	Stop  bool // true for Write, false for WriteRead
}

// FRAM simulates an MB85RC chip. Memory addresses are truncated to the
// chip size and the internal pointer rolls over at the end of Mem, like the
// real chip.
//
// If Err is set, every transaction after the first ErrAfter ones fails
// with Err and has no effect.
type FRAM struct {
	Address      uint8
	ID           fram.Identity
	Mem          []byte
	Err          error
	ErrAfter     int
	Transactions []Transaction

	pointer int
}

var _ fram.Bus = (*FRAM)(nil)

// New returns a zero-filled chip of the given variant at fram.DefaultAddress.
func New(v fram.Variant) *FRAM {
	return &FRAM{
		Address: fram.DefaultAddress,
		ID:      fram.Identity{0x00, 0xA0 | v.Density, 0x10},
		Mem:     make([]byte, v.Size()),
	}
}

func (m *FRAM) record(t Transaction) error {
	t.Write = append([]byte(nil), t.Write...)
	m.Transactions = append(m.Transactions, t)
	if m.Err != nil && len(m.Transactions) > m.ErrAfter {
		return m.Err
	}
	return nil
}

func (m *FRAM) setPointer(w []byte) {
	m.pointer = (int(w[0])<<8 | int(w[1])) % len(m.Mem)
}

func (m *FRAM) Write(addr uint8, w []byte) error {
	if err := m.record(Transaction{Addr: addr, Write: w, Stop: true}); err != nil {
		return err
	}
	if addr != m.Address {
		return ErrNack
	}
	if len(w) < 2 {
		return fmt.Errorf("mock: write of %d bytes has no memory address", len(w))
	}
	m.setPointer(w)
	for _, b := range w[2:] {
		m.Mem[m.pointer] = b
		m.pointer = (m.pointer + 1) % len(m.Mem)
	}
	return nil
}

func (m *FRAM) WriteRead(addr uint8, w, r []byte) error {
	if err := m.record(Transaction{Addr: addr, Write: w, Read: len(r)}); err != nil {
		return err
	}
	switch addr {
	case fram.DeviceIDAddress:
		if len(w) != 1 {
			return ErrNack
		}
		copy(r, m.ID[:])
		return nil
	case m.Address:
	default:
		return ErrNack
	}
	switch len(w) {
	case 0: // current address read
	case 2:
		m.setPointer(w)
	default:
		return fmt.Errorf("mock: read preceded by %d byte write", len(w))
	}
	for i := range r {
		r[i] = m.Mem[m.pointer]
		m.pointer = (m.pointer + 1) % len(m.Mem)
	}
	return nil
}

// Fill sets every byte of memory to b.
func (m *FRAM) Fill(b byte) {
	for i := range m.Mem {
		m.Mem[i] = b
	}
}

// Reset clears the transaction log and any injected error.
func (m *FRAM) Reset() {
	m.Transactions = nil
	m.Err = nil
	m.ErrAfter = 0
}
