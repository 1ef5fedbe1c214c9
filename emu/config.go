package emu

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/kirsle/configdir"

	"atarihw/emu/log"
)

type Config struct {
	General   GeneralConfig   `toml:"general"`
	Video     VideoConfig     `toml:"video"`
	Audio     AudioConfig     `toml:"audio"`
	Emulation EmulationConfig `toml:"emulation"`
}

// GeneralConfig holds paths. Empty paths are subdirectories of ConfigDir.
type GeneralConfig struct {
	RomDir   string `toml:"rom_dir"`
	NVRAMDir string `toml:"nvram_dir"`
}

func (g GeneralConfig) RomPath() string {
	if g.RomDir != "" {
		return g.RomDir
	}
	return filepath.Join(ConfigDir(), "roms")
}

func (g GeneralConfig) NVRAMPath() string {
	if g.NVRAMDir != "" {
		return g.NVRAMDir
	}
	return filepath.Join(ConfigDir(), "nvram")
}

type VideoConfig struct {
	Scale int `toml:"scale"`
}

type AudioConfig struct {
	DisableAudio bool   `toml:"disable_audio"`
	SampleRate   uint32 `toml:"sample_rate"`
}

type EmulationConfig struct {
	// Frames is the number of frames run by a headless session.
	Frames int `toml:"frames"`

	// SkipSoundMessage hides the warning shown when audio is disabled.
	SkipSoundMessage bool `toml:"skip_sound_message"`
}

const (
	defaultScale      = 2
	defaultSampleRate = 44100
	defaultFrames     = 600
)

// DefaultConfig returns the configuration used when none is saved.
func DefaultConfig() Config {
	return Config{
		Video:     VideoConfig{Scale: defaultScale},
		Audio:     AudioConfig{SampleRate: defaultSampleRate},
		Emulation: EmulationConfig{Frames: defaultFrames},
	}
}

// Check fixes out of range values.
func (cfg *Config) Check() {
	if cfg.Video.Scale < 1 || cfg.Video.Scale > 8 {
		log.ModEmu.Warnf("Invalid video scale %d, fallback to %d", cfg.Video.Scale, defaultScale)
		cfg.Video.Scale = defaultScale
	}
	if cfg.Audio.SampleRate == 0 {
		cfg.Audio.SampleRate = defaultSampleRate
	}
	if cfg.Emulation.Frames < 0 {
		cfg.Emulation.Frames = 0
	}
}

// ConfigDir returns the atarihw configuration directory, creating it if
// needed.
var ConfigDir = sync.OnceValue(func() string {
	dir := configdir.LocalConfig("atarihw")
	if err := configdir.MakePath(dir); err != nil {
		log.ModEmu.Fatalf("failed to create directory %s: %v", dir, err)
	}
	return dir
})

const cfgFilename = "config.toml"

// LoadConfigOrDefault loads the configuration from the atarihw config
// directory, or provides a default one.
func LoadConfigOrDefault() Config {
	cfg, err := loadConfig(filepath.Join(ConfigDir(), cfgFilename))
	if err != nil {
		if !os.IsNotExist(err) {
			log.ModEmu.WarnZ("Failed to load config, using defaults").Error("err", err).End()
		}
		return DefaultConfig()
	}
	return cfg
}

func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	cfg.Check()
	return cfg, nil
}

// SaveConfig into atarihw config directory.
func SaveConfig(cfg Config) error {
	return saveConfig(filepath.Join(ConfigDir(), cfgFilename), cfg)
}

func saveConfig(path string, cfg Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
