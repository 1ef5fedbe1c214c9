// Package romset loads the named memory regions of a game from a ROM set: a
// directory or a zip archive holding the ROM chip dumps and a manifest
// describing where each dump goes.
package romset

import (
	"archive/zip"
	"fmt"
	"hash/crc32"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Region describes a memory region expected by a game.
type Region struct {
	Name   string
	Size   int
	Fill   byte // content of the bytes no file covers
	Invert bool // graphics stored with inverted bits
}

// Set is a loaded ROM set: region name to content.
type Set map[string][]byte

// Region returns a region, or an error when it is missing.
func (s Set) Region(name string) ([]byte, error) {
	buf, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("missing region %q", name)
	}
	return buf, nil
}

// Open returns the file system of the ROM set at path: a directory, or a
// zip archive. Close the returned closer once loaded.
func Open(path string) (fs.FS, func() error, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	if fi.IsDir() {
		return os.DirFS(path), func() error { return nil }, nil
	}
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return nil, nil, fmt.Errorf("%s: not a directory nor a zip archive", path)
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open rom archive: %w", err)
	}
	return zr, zr.Close, nil
}

// Load reads the manifest of fsys and builds the regions. Files are read
// concurrently; the first error aborts the load. Files of a region must
// not overlap.
func Load(fsys fs.FS, regions []Region) (Set, error) {
	m, err := ReadManifest(fsys)
	if err != nil {
		return nil, err
	}

	set := make(Set, len(regions))
	for _, r := range regions {
		buf := make([]byte, r.Size)
		if r.Fill != 0 {
			for i := range buf {
				buf[i] = r.Fill
			}
		}
		set[r.Name] = buf
	}

	for _, f := range m.Files {
		if _, ok := set[f.Region]; !ok {
			return nil, fmt.Errorf("%s: unknown region %q", f.Name, f.Region)
		}
	}

	datas := make([][]byte, len(m.Files))
	var g errgroup.Group
	for i, f := range m.Files {
		g.Go(func() error {
			data, err := f.read(fsys)
			datas[i] = data
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	used := make(map[string][]bool)
	for i, f := range m.Files {
		dst := set[f.Region]
		if used[f.Region] == nil {
			used[f.Region] = make([]bool, len(dst))
		}
		if err := f.place(dst, used[f.Region], datas[i]); err != nil {
			return nil, err
		}
	}

	for _, r := range regions {
		if r.Invert {
			buf := set[r.Name]
			for i := range buf {
				buf[i] ^= 0xFF
			}
		}
	}
	return set, nil
}

func (f File) read(fsys fs.FS) ([]byte, error) {
	data, err := fs.ReadFile(fsys, f.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to read rom: %w", err)
	}
	if f.Size != 0 && len(data) != f.Size {
		return nil, fmt.Errorf("%s: size is %d bytes, want %d", f.Name, len(data), f.Size)
	}
	if f.CRC != 0 {
		if sum := CRC(crc32.ChecksumIEEE(data)); sum != f.CRC {
			return nil, fmt.Errorf("%s: bad crc %08x, want %08x", f.Name, uint32(sum), uint32(f.CRC))
		}
	}
	return data, nil
}

// place copies data into dst. used tracks the bytes of dst already written
// by other files of the region; a file overlapping them is rejected.
func (f File) place(dst []byte, used []bool, data []byte) error {
	step, start := 1, f.Offset
	switch f.Load {
	case LoadEven:
		step = 2
	case LoadOdd:
		step, start = 2, f.Offset+1
	}
	if end := start + (len(data)-1)*step; start < 0 || end >= len(dst) {
		return fmt.Errorf("%s: does not fit in region %q (%#x bytes)", f.Name, f.Region, len(dst))
	}
	for i := range data {
		if used[start+i*step] {
			return fmt.Errorf("%s: overlaps another file at %#x in region %q", f.Name, start+i*step, f.Region)
		}
	}
	for i, b := range data {
		dst[start+i*step] = b
		used[start+i*step] = true
	}
	return nil
}

// Info describes a file of a ROM set, as checked against its manifest.
type Info struct {
	File
	Actual  CRC // crc of the file content
	Present bool
	Err     error
}

// Check verifies every file of the manifest without building regions.
func Check(fsys fs.FS) (*Manifest, []Info, error) {
	m, err := ReadManifest(fsys)
	if err != nil {
		return nil, nil, err
	}

	infos := make([]Info, len(m.Files))
	var g errgroup.Group
	for i, f := range m.Files {
		g.Go(func() error {
			info := Info{File: f}
			data, err := fs.ReadFile(fsys, f.Name)
			switch {
			case err != nil:
				info.Err = err
			default:
				info.Present = true
				info.Actual = CRC(crc32.ChecksumIEEE(data))
				if f.CRC != 0 && info.Actual != f.CRC {
					info.Err = fmt.Errorf("bad crc")
				}
			}
			infos[i] = info
			return nil
		})
	}
	_ = g.Wait()
	return m, infos, nil
}
