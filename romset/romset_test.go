package romset

import (
	"archive/zip"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func crcOf(b []byte) string {
	return fmt.Sprintf("0x%08x", crc32.ChecksumIEEE(b))
}

func testFS(manifest string) fstest.MapFS {
	return fstest.MapFS{
		ManifestName: {Data: []byte(manifest)},
		"hi.bin":     {Data: []byte{0x11, 0x33}},
		"lo.bin":     {Data: []byte{0x22, 0x44}},
		"gfx.bin":    {Data: []byte{0x0F, 0xF0}},
	}
}

func TestLoad(t *testing.T) {
	fsys := testFS(`
game = "test"

[[file]]
name = "hi.bin"
region = "cpu1"
load = "even"
crc = "` + crcOf([]byte{0x11, 0x33}) + `"

[[file]]
name = "lo.bin"
region = "cpu1"
load = "odd"

[[file]]
name = "gfx.bin"
region = "gfx1"
offset = 2
size = 2
`)
	set, err := Load(fsys, []Region{
		{Name: "cpu1", Size: 6, Fill: 0xFF},
		{Name: "gfx1", Size: 4, Invert: true},
	})
	if err != nil {
		t.Fatal(err)
	}

	want := Set{
		"cpu1": {0x11, 0x22, 0x33, 0x44, 0xFF, 0xFF},
		"gfx1": {0xFF, 0xFF, 0xF0, 0x0F},
	}
	if diff := cmp.Diff(want, set); diff != "" {
		t.Errorf("regions (-want +got):\n%s", diff)
	}
	if _, err := set.Region("sound1"); err == nil {
		t.Errorf("missing region found")
	}
}

func TestLoadErrors(t *testing.T) {
	regions := []Region{{Name: "cpu1", Size: 2}}
	tests := []struct {
		name     string
		manifest string
		errstr   string
	}{
		{"bad crc", "[[file]]\nname = \"hi.bin\"\nregion = \"cpu1\"\ncrc = \"0x12345678\"", "bad crc"},
		{"bad size", "[[file]]\nname = \"hi.bin\"\nregion = \"cpu1\"\nsize = 4", "size is 2 bytes"},
		{"overflow", "[[file]]\nname = \"hi.bin\"\nregion = \"cpu1\"\nload = \"odd\"", "does not fit"},
		{"unknown region", "[[file]]\nname = \"hi.bin\"\nregion = \"gfx9\"", "unknown region"},
		{"missing file", "[[file]]\nname = \"nope.bin\"\nregion = \"cpu1\"", "failed to read rom"},
		{"bad mode", "[[file]]\nname = \"hi.bin\"\nregion = \"cpu1\"\nload = \"nibble\"", "unknown load mode"},
		{"unknown key", "[[file]]\nname = \"hi.bin\"\nregion = \"cpu1\"\nbank = 3", "unknown keys"},
		{"no region", "[[file]]\nname = \"hi.bin\"", "has no region"},
		{"overlap", "[[file]]\nname = \"hi.bin\"\nregion = \"cpu1\"\n[[file]]\nname = \"lo.bin\"\nregion = \"cpu1\"\n", "overlaps another file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(testFS(tt.manifest), regions)
			if err == nil {
				t.Fatalf("Load succeeded")
			}
			if !strings.Contains(err.Error(), tt.errstr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.errstr)
			}
		})
	}

	if _, err := Load(fstest.MapFS{}, regions); err == nil {
		t.Errorf("Load without manifest succeeded")
	}
}

func TestCheck(t *testing.T) {
	fsys := testFS(`
game = "test"

[[file]]
name = "hi.bin"
region = "cpu1"
crc = "` + crcOf([]byte{0x11, 0x33}) + `"

[[file]]
name = "lo.bin"
region = "cpu1"
crc = "0xdeadbeef"

[[file]]
name = "gone.bin"
region = "cpu1"
`)
	m, infos, err := Check(fsys)
	if err != nil {
		t.Fatal(err)
	}
	if m.Game != "test" {
		t.Errorf("game = %q", m.Game)
	}

	type summary struct {
		Name    string
		Present bool
		OK      bool
	}
	var got []summary
	for _, info := range infos {
		got = append(got, summary{info.Name, info.Present, info.Err == nil})
	}
	want := []summary{
		{"hi.bin", true, true},
		{"lo.bin", true, false},
		{"gone.bin", false, false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("infos (-want +got):\n%s", diff)
	}
	if got, want := infos[1].Actual, CRC(crc32.ChecksumIEEE([]byte{0x22, 0x44})); got != want {
		t.Errorf("lo.bin crc = %08x, want %08x", uint32(got), uint32(want))
	}
}

func TestOpenZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "set.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	for name, data := range map[string]string{
		ManifestName: "[[file]]\nname = \"a.bin\"\nregion = \"cpu1\"\n",
		"a.bin":      "\x01\x02",
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(data)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	fsys, closer, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer closer()

	set, err := Load(fsys, []Region{{Name: "cpu1", Size: 2}})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{1, 2}, set["cpu1"]); diff != "" {
		t.Errorf("cpu1 (-want +got):\n%s", diff)
	}

	if _, _, err := Open(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Errorf("Open of a missing path succeeded")
	}
}
