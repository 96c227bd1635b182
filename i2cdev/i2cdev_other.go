//go:build !linux

package i2cdev

// Bus is unavailable outside linux; every method fails with ErrUnsupported.
type Bus struct {
	path string
}

// OpenPath always fails with ErrUnsupported.
func OpenPath(path string) (*Bus, error) {
	return nil, ErrUnsupported
}

// Close does nothing.
func (b *Bus) Close() error {
	return nil
}

func (b *Bus) transfer(addr uint8, w, r []byte) error {
	return ErrUnsupported
}
