package romset

import (
	"fmt"
	"io/fs"
	"strconv"

	"github.com/BurntSushi/toml"
)

// ManifestName is the name of the manifest file at the root of a ROM set.
const ManifestName = "roms.toml"

// LoadMode tells how the bytes of a file are laid out in its region.
type LoadMode string

const (
	LoadLinear LoadMode = ""
	LoadEven   LoadMode = "even" // upper byte of 16-bit words
	LoadOdd    LoadMode = "odd"  // lower byte of 16-bit words
)

// File is a ROM dump loaded into a region.
type File struct {
	Name   string   `toml:"name"`
	Region string   `toml:"region"`
	Offset int      `toml:"offset"`
	Size   int      `toml:"size"`
	Load   LoadMode `toml:"load"`
	CRC    CRC      `toml:"crc"`
}

// CRC is a crc32 written as a hexadecimal string in the manifest. Zero
// disables the check.
type CRC uint32

func (c *CRC) UnmarshalText(text []byte) error {
	v, err := strconv.ParseUint(string(text), 0, 32)
	if err != nil {
		return fmt.Errorf("invalid crc %q: %w", text, err)
	}
	*c = CRC(v)
	return nil
}

func (c CRC) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("0x%08x", uint32(c))), nil
}

// Manifest lists the files of a ROM set.
//
//	game = "batman"
//
//	[[file]]
//	name = "136085-2030.10r"
//	region = "cpu1"
//	offset = 0x00000
//	load = "even"
//	crc = "0x1234abcd"
type Manifest struct {
	Game  string `toml:"game"`
	Files []File `toml:"file"`
}

func ReadManifest(fsys fs.FS) (*Manifest, error) {
	buf, err := fs.ReadFile(fsys, ManifestName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rom manifest: %w", err)
	}
	var m Manifest
	md, err := toml.Decode(string(buf), &m)
	if err != nil {
		return nil, fmt.Errorf("failed to decode rom manifest: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("rom manifest: unknown keys %v", undec)
	}
	for i, f := range m.Files {
		switch {
		case f.Name == "":
			return nil, fmt.Errorf("rom manifest: file #%d has no name", i)
		case f.Region == "":
			return nil, fmt.Errorf("rom manifest: %s has no region", f.Name)
		}
		switch f.Load {
		case LoadLinear, LoadEven, LoadOdd:
		default:
			return nil, fmt.Errorf("rom manifest: %s: unknown load mode %q", f.Name, f.Load)
		}
	}
	return &m, nil
}
