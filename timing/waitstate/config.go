package waitstate

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the per-region memory access costs in cycles. The
// values are category-level: they fold the first-access wait states
// into a single figure and do not distinguish sequential from
// non-sequential access.
type Config struct {
	// BIOS is the cost of a read from the boot region. Default: 1.
	BIOS uint64 `json:"bios"`

	// IWRAM is the cost of an access to the fast on-chip work RAM.
	// Default: 1.
	IWRAM uint64 `json:"iwram"`

	// EWRAM is the cost of a 16-bit access to the external work RAM.
	// Word accesses pay it twice. Default: 3.
	EWRAM uint64 `json:"ewram"`

	// IO is the cost of a memory-mapped register access. Default: 1.
	IO uint64 `json:"io"`

	// Palette is the cost of a palette RAM access. Default: 1.
	Palette uint64 `json:"palette"`

	// VRAM is the cost of a video RAM access. Default: 1.
	VRAM uint64 `json:"vram"`

	// OAM is the cost of an object attribute access. Default: 1.
	OAM uint64 `json:"oam"`

	// ROM is the cost of a 16-bit cartridge read. Word accesses pay
	// it twice. Default: 5.
	ROM uint64 `json:"rom"`

	// SRAM is the cost of a cartridge save RAM access. Default: 5.
	SRAM uint64 `json:"sram"`
}

// DefaultConfig returns the costs of the stock cartridge wait-state
// programming.
func DefaultConfig() *Config {
	return &Config{
		BIOS:    1,
		IWRAM:   1,
		EWRAM:   3,
		IO:      1,
		Palette: 1,
		VRAM:    1,
		OAM:     1,
		ROM:     5,
		SRAM:    5,
	}
}

// LoadConfig loads a Config from a JSON file. Fields absent from the
// file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read wait-state config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse wait-state config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize wait-state config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write wait-state config file: %w", err)
	}

	return nil
}

// Validate checks that every cost is non-zero.
func (c *Config) Validate() error {
	named := []struct {
		name string
		v    uint64
	}{
		{"bios", c.BIOS},
		{"iwram", c.IWRAM},
		{"ewram", c.EWRAM},
		{"io", c.IO},
		{"palette", c.Palette},
		{"vram", c.VRAM},
		{"oam", c.OAM},
		{"rom", c.ROM},
		{"sram", c.SRAM},
	}
	for _, f := range named {
		if f.v == 0 {
			return fmt.Errorf("%s must be > 0", f.name)
		}
	}
	return nil
}
