package emu

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"atarihw/emu/log"
	"atarihw/hw/games"
	"atarihw/hw/hwdefs"
	"atarihw/hw/hwio"
	"atarihw/romset"
)

type sampleSink struct{ n int }

func (s *sampleSink) QueueSamples(samples []int16) { s.n += len(samples) }

func blankSet(desc *games.GameDesc) romset.Set {
	set := romset.Set{}
	for _, r := range desc.Regions {
		set[r.Name] = make([]byte, r.Size)
	}
	return set
}

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.General.NVRAMDir = t.TempDir()
	return cfg
}

func launch(t *testing.T, desc *games.GameDesc, cfg Config) *Emulator {
	t.Helper()
	log.Disable()
	e, err := Launch(desc, blankSet(desc), games.Env{}, nil, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestRunFrames(t *testing.T) {
	sink := &sampleSink{}
	e, err := Launch(&games.Blasteroids, blankSet(&games.Blasteroids), games.Env{}, sink, testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	e.Run(3)
	if e.Frame() != 3 {
		t.Errorf("Frame() = %d, want 3", e.Frame())
	}
	// About 735 samples per frame at 44.1kHz.
	if sink.n < 3*700 || sink.n > 3*770 {
		t.Errorf("%d samples queued, want about %d", sink.n, 3*735)
	}

	e.Stop()
	e.Run(0)
	if e.Frame() != 3 {
		t.Errorf("stopped emulator ran frames: %d", e.Frame())
	}
}

func TestNullHostLines(t *testing.T) {
	host := NewNullHost()
	set := blankSet(&games.EPRoM)
	e, err := Launch(&games.EPRoM, set, games.Env{Host: host, PCs: host}, nil, testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	if !host.InReset[hwdefs.ExtraCPU] {
		t.Errorf("extra cpu not held in reset")
	}
	e.Machine.Bus(hwdefs.MainCPU).Write16(0x360010, 0x0001, hwio.MaskWord)
	if host.InReset[hwdefs.ExtraCPU] {
		t.Errorf("extra cpu still in reset after latch write")
	}
}

func TestSoundDisabledMessage(t *testing.T) {
	tests := []struct {
		name string
		skip bool
		want bool
	}{
		{"shown", false, true},
		{"skipped", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Audio.DisableAudio = true
			cfg.Emulation.SkipSoundMessage = tt.skip
			e := launch(t, &games.Batman, cfg)
			if e.Mixer != nil {
				t.Errorf("mixer created with audio disabled")
			}
			e.RunOneFrame()
			if got := len(e.Messages()) > 0; got != tt.want {
				t.Errorf("message shown = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestReset(t *testing.T) {
	e := launch(t, &games.Batman, testConfig(t))
	bus := e.Machine.Bus(hwdefs.MainCPU)
	bus.Write16(0x2A0000, 0, hwio.MaskWord)
	if e.Machine.Watchdog() != 1 {
		t.Fatalf("watchdog write not counted")
	}
	e.Reset()
	e.Run(1)
	if e.Machine.Watchdog() != 0 {
		t.Errorf("watchdog = %d after reset, want 0", e.Machine.Watchdog())
	}
}

func TestNVRAM(t *testing.T) {
	cfg := testConfig(t)
	e := launch(t, &games.Batman, cfg)

	// No file yet: defaults are kept.
	if err := e.LoadNVRAM(); err != nil {
		t.Fatal(err)
	}
	eeprom := e.Machine.Platform().EEPROM
	eeprom.Data[1] = 0x5A
	if err := e.SaveNVRAM(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(cfg.General.NVRAMDir, "batman.nv")); err != nil {
		t.Fatal(err)
	}

	e2 := launch(t, &games.Batman, cfg)
	if err := e2.LoadNVRAM(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(eeprom.Data, e2.Machine.Platform().EEPROM.Data); diff != "" {
		t.Errorf("eeprom mismatch (-want +got):\n%s", diff)
	}

	if err := os.WriteFile(filepath.Join(cfg.General.NVRAMDir, "batman.nv"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := e2.LoadNVRAM(); err == nil {
		t.Errorf("empty nvram file loaded")
	}
}

func TestScreenshot(t *testing.T) {
	e := launch(t, &games.SkullXBones, testConfig(t))
	e.RunOneFrame()

	img := e.Screenshot(1)
	if got := img.Bounds().Dx(); got != 336 {
		t.Errorf("width = %d, want 336", got)
	}
	big := e.Screenshot(3)
	if got, want := big.Bounds().Size(), img.Bounds().Size().Mul(3); got != want {
		t.Fatalf("scaled size = %v, want %v", got, want)
	}
	for _, p := range [][2]int{{0, 0}, {100, 50}, {335, 239}} {
		x, y := p[0], p[1]
		if got, want := big.RGBAAt(x*3+2, y*3+1), img.RGBAAt(x, y); got != want {
			t.Errorf("pixel %d,%d = %v, want %v", x, y, got, want)
		}
	}

	path := filepath.Join(t.TempDir(), "shot.png")
	if err := e.SaveScreenshot(path, 2); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("screenshot not written: %v", err)
	}
}

func TestSaveLoadState(t *testing.T) {
	cfg := testConfig(t)
	e := launch(t, &games.OffTheWall, cfg)
	e.Run(2)
	bus := e.Machine.Bus(hwdefs.MainCPU)
	bus.Write16(0x3F8100, 0x1234, hwio.MaskWord)

	path := filepath.Join(t.TempDir(), "offtwall.state")
	if err := e.SaveState(path); err != nil {
		t.Fatal(err)
	}

	e2 := launch(t, &games.OffTheWall, cfg)
	if err := e2.LoadState(path); err != nil {
		t.Fatal(err)
	}
	if e2.Frame() != 2 {
		t.Errorf("Frame() = %d, want 2", e2.Frame())
	}
	if got := e2.Machine.Bus(hwdefs.MainCPU).Read16(0x3F8100); got != 0x1234 {
		t.Errorf("ram = %#04x, want 0x1234", got)
	}

	other := launch(t, &games.Batman, cfg)
	if err := other.LoadState(path); err == nil {
		t.Errorf("state of another game loaded")
	}
}
