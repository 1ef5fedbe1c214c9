package emu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), cfgFilename)
	want := DefaultConfig()
	want.General.RomDir = "/roms"
	want.Video.Scale = 3
	want.Audio.DisableAudio = true
	want.Emulation.Frames = 120

	if err := saveConfig(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigDefaultsAndCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), cfgFilename)
	doc := `
[video]
scale = 42

[emulation]
frames = -5
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.Emulation.Frames = 0
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigErrors(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml")); !os.IsNotExist(err) {
		t.Errorf("missing file: err = %v, want not exist", err)
	}
	path := filepath.Join(t.TempDir(), cfgFilename)
	if err := os.WriteFile(path, []byte("[video\nscale = "), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Errorf("invalid toml loaded")
	}
}

func TestGeneralPaths(t *testing.T) {
	g := GeneralConfig{RomDir: "/a", NVRAMDir: "/b"}
	if g.RomPath() != "/a" || g.NVRAMPath() != "/b" {
		t.Errorf("paths = %q %q", g.RomPath(), g.NVRAMPath())
	}
}
