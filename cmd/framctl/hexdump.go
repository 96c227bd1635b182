package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const bytesPerRow = 16

var (
	addrColor  = color.New(color.FgCyan)
	blankColor = color.New(color.Faint)
)

// formatRow renders up to 16 bytes as "0010: 00 01 .. |..|".
// colorize is applied to each hex byte.
func formatRow(addr uint64, row []byte, colorize func(b byte, s string) string) string {
	var sb strings.Builder
	sb.WriteString(addrColor.Sprintf("%04X", addr))
	sb.WriteString(": ")
	for i := 0; i < bytesPerRow; i++ {
		if i == bytesPerRow/2 {
			sb.WriteByte(' ')
		}
		if i < len(row) {
			sb.WriteString(colorize(row[i], fmt.Sprintf("%02X", row[i])))
		} else {
			sb.WriteString("  ")
		}
		sb.WriteByte(' ')
	}
	sb.WriteByte('|')
	for _, b := range row {
		if b >= 0x20 && b < 0x7F {
			sb.WriteByte(b)
		} else {
			sb.WriteByte('.')
		}
	}
	sb.WriteByte('|')
	return sb.String()
}

// dimBlank fades erased (00h and FFh) bytes.
func dimBlank(b byte, s string) string {
	if b == 0x00 || b == 0xFF {
		return blankColor.Sprint(s)
	}
	return s
}

// hexdump writes data as rows starting at address base.
func hexdump(w io.Writer, base uint64, data []byte) error {
	for off := 0; off < len(data); off += bytesPerRow {
		row := data[off:min(off+bytesPerRow, len(data))]
		if _, err := fmt.Fprintln(w, formatRow(base+uint64(off), row, dimBlank)); err != nil {
			return err
		}
	}
	return nil
}
