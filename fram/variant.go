package fram

import (
	"fmt"
	"strings"
)

// ManufacturerFujitsu is the manufacturer ID reported by MB85RC chips.
const ManufacturerFujitsu = 0x00A

// Identity is the raw 3 byte device ID: 12 bits of manufacturer ID followed
// by a 4 bit density code and an 8 bit product ID.
type Identity [3]byte

// Manufacturer returns the 12-bit manufacturer ID.
func (id Identity) Manufacturer() uint16 {
	return uint16(id[0])<<4 | uint16(id[1])>>4
}

// Density returns the 4-bit density code.
func (id Identity) Density() uint8 {
	return id[1] & 0x0F
}

// Product returns the product ID byte.
func (id Identity) Product() uint8 {
	return id[2]
}

func (id Identity) String() string {
	return fmt.Sprintf("manufacturer=%03Xh density=%Xh product=%02Xh", id.Manufacturer(), id.Density(), id.Product())
}

// Variant describes how much of the 16-bit address space a chip backs.
// The wire format is the same for all variants; smaller chips ignore the
// unused high address bits.
type Variant struct {
	Name        string
	AddressBits uint
	Density     uint8 // density code from the device ID, 0 if the chip has no ID
}

// Size returns the number of bytes of storage.
func (v Variant) Size() uint64 {
	return 1 << v.AddressBits
}

func (v Variant) String() string {
	return v.Name
}

var (
	MB85RC16  = Variant{Name: "MB85RC16", AddressBits: 11}
	MB85RC64  = Variant{Name: "MB85RC64", AddressBits: 13, Density: 0x3}
	MB85RC256 = Variant{Name: "MB85RC256", AddressBits: 15, Density: 0x5}
	MB85RC512 = Variant{Name: "MB85RC512", AddressBits: 16, Density: 0x6}
)

// Variants lists the supported chips from smallest to largest.
var Variants = []Variant{MB85RC16, MB85RC64, MB85RC256, MB85RC512}

// ErrUnknownVariant is returned for chip names or IDs that are not supported.
var ErrUnknownVariant = fmt.Errorf("fram: unknown chip variant")

// VariantByName looks up a variant case-insensitively, e.g. "mb85rc256".
func VariantByName(name string) (Variant, error) {
	for _, v := range Variants {
		if strings.EqualFold(v.Name, name) {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// VariantOf maps a device ID to a variant.
func VariantOf(id Identity) (Variant, error) {
	if id.Manufacturer() != ManufacturerFujitsu {
		return Variant{}, fmt.Errorf("%w: %v", ErrUnknownVariant, id)
	}
	for _, v := range Variants {
		if v.Density != 0 && v.Density == id.Density() {
			return v, nil
		}
	}
	return Variant{}, fmt.Errorf("%w: %v", ErrUnknownVariant, id)
}
