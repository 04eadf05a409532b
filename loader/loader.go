// Package loader reads and validates raw cartridge images.
package loader

import (
	"errors"
	"fmt"
	"os"
)

// Cartridge header layout. The header occupies the first 192 bytes of
// the image; the complement byte checks the slice from the title
// through the fixed-value byte.
const (
	HeaderSize = 0xC0
	MaxSize    = 32 * 1024 * 1024

	titleOff      = 0xA0
	titleLen      = 12
	gameCodeOff   = 0xAC
	gameCodeLen   = 4
	makerCodeOff  = 0xB0
	makerCodeLen  = 2
	fixedByteOff  = 0xB2
	fixedByteVal  = 0x96
	checksumFrom  = 0xA0
	checksumTo    = 0xBD // exclusive
	complementOff = 0xBD
)

// Validation failures wrap one of these sentinels.
var (
	ErrTooSmall    = errors.New("image smaller than the cartridge header")
	ErrTooLarge    = errors.New("image exceeds the cartridge window")
	ErrBadFixed    = errors.New("fixed header byte mismatch")
	ErrBadChecksum = errors.New("header checksum mismatch")
)

// Cartridge is a validated image together with the identifying fields
// from its header.
type Cartridge struct {
	Title     string
	GameCode  string
	MakerCode string
	Data      []byte
}

// Load reads a cartridge image from path and validates its header.
func Load(path string) (*Cartridge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cartridge image: %w", err)
	}
	cart, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cart, nil
}

// Parse validates a cartridge image held in memory.
func Parse(data []byte) (*Cartridge, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooSmall, len(data))
	}
	if len(data) > MaxSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}
	if data[fixedByteOff] != fixedByteVal {
		return nil, fmt.Errorf("%w: got 0x%02X, want 0x%02X",
			ErrBadFixed, data[fixedByteOff], fixedByteVal)
	}
	if got, want := Checksum(data), data[complementOff]; got != want {
		return nil, fmt.Errorf("%w: computed 0x%02X, header says 0x%02X",
			ErrBadChecksum, got, want)
	}

	return &Cartridge{
		Title:     trimPadding(data[titleOff : titleOff+titleLen]),
		GameCode:  trimPadding(data[gameCodeOff : gameCodeOff+gameCodeLen]),
		MakerCode: trimPadding(data[makerCodeOff : makerCodeOff+makerCodeLen]),
		Data:      data,
	}, nil
}

// Checksum computes the header complement byte over data, which must
// be at least HeaderSize long.
func Checksum(data []byte) uint8 {
	var sum uint8
	for _, b := range data[checksumFrom:checksumTo] {
		sum -= b
	}
	return sum - 0x19
}

// trimPadding drops the zero padding from a fixed-width header field.
func trimPadding(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
