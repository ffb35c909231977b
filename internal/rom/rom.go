// Package rom loads iNES cartridge images from disk or from an arbitrary
// reader, keeping that I/O concern out of the core emulation packages.
package rom

import (
	"io"

	"gones/internal/cartridge"
)

// Load reads an iNES ROM from path and constructs a ready-to-use cartridge.
// It delegates to the cartridge package, which owns iNES header parsing.
func Load(path string) (*cartridge.Cartridge, error) {
	return cartridge.LoadFromFile(path)
}

// LoadReader reads an iNES ROM from r and constructs a ready-to-use
// cartridge.
func LoadReader(r io.Reader) (*cartridge.Cartridge, error) {
	return cartridge.LoadFromReader(r)
}
