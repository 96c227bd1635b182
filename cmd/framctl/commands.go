package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/rabidaudio/mb85rc/fram"
	"github.com/sigurn/crc16"
)

// transferSize bounds a single bus read issued by whole-chip commands.
const transferSize = 4096

var (
	stdout io.Writer = os.Stdout

	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed, color.Bold)

	crcTable = crc16.MakeTable(crc16.CRC16_XMODEM)
)

func parseAddress(s string, size uint64) (uint64, error) {
	a, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("framctl: invalid address %q: %w", s, err)
	}
	if a >= size {
		return 0, fmt.Errorf("framctl: address %#04x outside %d byte chip", a, size)
	}
	return a, nil
}

func parseHex(words []string) ([]byte, error) {
	s := strings.Join(words, "")
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("framctl: invalid hex data: %w", err)
	}
	return data, nil
}

// readChip reads n bytes from the start of the chip.
func readChip(s *session, n int) ([]byte, error) {
	st := s.Stream()
	data := make([]byte, n)
	for off := 0; off < n; off += transferSize {
		if _, err := io.ReadFull(st, data[off:min(off+transferSize, n)]); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// writeChip stores data at addr with the write protect pin released.
func writeChip(s *session, addr uint64, data []byte) error {
	size := s.variant.Size()
	if uint64(len(data)) > size-addr {
		return fmt.Errorf("framctl: %d bytes at %#04x overrun %d byte chip", len(data), addr, size)
	}
	return s.Writable(func() error {
		st := s.Stream()
		if _, err := st.Seek(int64(addr), io.SeekStart); err != nil {
			return err
		}
		_, err := st.Write(data)
		return err
	})
}

type IDCmd struct{}

func (c *IDCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.dev.DeviceID()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "device id: %X (%v)\n", id[:], id)
	v, err := fram.VariantOf(id)
	if err != nil {
		warnColor.Fprintf(stdout, "unrecognized chip, configured as %v\n", s.variant)
		return nil
	}
	if v != s.variant {
		warnColor.Fprintf(stdout, "chip is %v but configured as %v\n", v, s.variant)
		return nil
	}
	okColor.Fprintf(stdout, "%v, %d bytes\n", v, v.Size())
	return nil
}

type ReadCmd struct {
	Addr   string `arg:"" help:"Memory address, e.g. 0x100."`
	Length int    `arg:"" optional:"" default:"16" help:"Number of bytes to read."`
}

func (c *ReadCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.Close()

	addr, err := parseAddress(c.Addr, s.variant.Size())
	if err != nil {
		return err
	}
	if c.Length <= 0 || c.Length > transferSize {
		return fmt.Errorf("framctl: length must be 1..%d", transferSize)
	}
	st := s.Stream()
	if _, err := st.Seek(int64(addr), io.SeekStart); err != nil {
		return err
	}
	buf := make([]byte, c.Length)
	if _, err := st.Read(buf); err != nil {
		return err
	}
	return hexdump(stdout, addr, buf)
}

type WriteCmd struct {
	Addr string   `arg:"" help:"Memory address, e.g. 0x100."`
	Data []string `arg:"" help:"Hex bytes, e.g. deadbeef or de ad be ef."`
}

func (c *WriteCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.Close()

	addr, err := parseAddress(c.Addr, s.variant.Size())
	if err != nil {
		return err
	}
	data, err := parseHex(c.Data)
	if err != nil {
		return err
	}
	if err := writeChip(s, addr, data); err != nil {
		return err
	}
	okColor.Fprintf(stdout, "wrote %d bytes at %04X\n", len(data), addr)
	return nil
}

type DumpCmd struct {
	File string `arg:"" type:"path" help:"Image file to create."`
}

func (c *DumpCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.Close()

	data, err := readChip(s, int(s.variant.Size()))
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.File, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%v: %d bytes, crc16 %04X\n", c.File, len(data), crc16.Checksum(data, crcTable))
	return nil
}

type LoadCmd struct {
	File   string `arg:"" type:"existingfile" help:"Image file to write."`
	Offset string `default:"0" help:"Memory address to start writing at."`
}

func (c *LoadCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.Close()

	addr, err := parseAddress(c.Offset, s.variant.Size())
	if err != nil {
		return err
	}
	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	if err := writeChip(s, addr, data); err != nil {
		return err
	}

	readback, err := readChip(s, int(addr)+len(data))
	if err != nil {
		return err
	}
	want, got := crc16.Checksum(data, crcTable), crc16.Checksum(readback[addr:], crcTable)
	if want != got {
		failColor.Fprintf(stdout, "verify failed: crc16 %04X, chip has %04X\n", want, got)
		return fmt.Errorf("framctl: verify failed")
	}
	okColor.Fprintf(stdout, "loaded %d bytes at %04X, crc16 %04X\n", len(data), addr, got)
	return nil
}

type VerifyCmd struct {
	File string `arg:"" type:"existingfile" help:"Image file to compare against."`
}

func (c *VerifyCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.Close()

	want, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}
	if uint64(len(want)) > s.variant.Size() {
		return fmt.Errorf("framctl: %v is larger than the %d byte chip", c.File, s.variant.Size())
	}
	got, err := readChip(s, len(want))
	if err != nil {
		return err
	}
	if !bytes.Equal(want, got) {
		i := 0
		for want[i] == got[i] {
			i++
		}
		failColor.Fprintf(stdout, "mismatch at %04X: file %02X, chip %02X\n", i, want[i], got[i])
		return fmt.Errorf("framctl: verify failed")
	}
	okColor.Fprintf(stdout, "match: %d bytes, crc16 %04X\n", len(got), crc16.Checksum(got, crcTable))
	return nil
}

type FillCmd struct {
	Value string `arg:"" help:"Byte to fill the chip with, e.g. 0xFF."`
}

func (c *FillCmd) Run(g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.Close()

	b, err := strconv.ParseUint(c.Value, 0, 8)
	if err != nil {
		return fmt.Errorf("framctl: invalid fill byte %q: %w", c.Value, err)
	}
	data := bytes.Repeat([]byte{byte(b)}, int(s.variant.Size()))
	if err := writeChip(s, 0, data); err != nil {
		return err
	}
	okColor.Fprintf(stdout, "filled %d bytes with %02X\n", len(data), b)
	return nil
}
