// Command framctl reads and writes an MB85RC FRAM chip on a Linux I2C bus.
//
// Usage:
//
//	framctl [flags] <command> [args]
//
// Examples:
//
//	# Identify the chip
//	framctl id
//
//	# Hexdump 64 bytes at 0x100
//	framctl read 0x100 64
//
//	# Back up and restore the whole chip
//	framctl dump backup.bin
//	framctl --wp-pin 17 load backup.bin
//
//	# Browse the chip interactively
//	framctl view
package main

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Globals

	ID     IDCmd     `cmd:"" name:"id" help:"Read the device ID."`
	Read   ReadCmd   `cmd:"" help:"Hexdump bytes from the chip."`
	Write  WriteCmd  `cmd:"" help:"Write hex bytes to the chip."`
	Dump   DumpCmd   `cmd:"" help:"Copy the whole chip to a file."`
	Load   LoadCmd   `cmd:"" help:"Copy a file onto the chip and verify it."`
	Verify VerifyCmd `cmd:"" help:"Compare the chip with a file."`
	Fill   FillCmd   `cmd:"" help:"Set every byte of the chip."`
	View   ViewCmd   `cmd:"" help:"Browse the chip in an interactive hex viewer."`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("framctl"),
		kong.Description("Read and write MB85RC I2C FRAM chips."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
