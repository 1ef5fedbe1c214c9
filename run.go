package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"

	"atarihw/emu"
	"atarihw/emu/log"
	"atarihw/hw/games"
	"atarihw/romset"
)

// runMain runs a game headless for a number of frames.
func runMain(args Run) {
	cfg := emu.LoadConfigOrDefault()
	if args.NoAudio {
		cfg.Audio.DisableAudio = true
	}
	if args.Frames > 0 {
		cfg.Emulation.Frames = args.Frames
	}
	if args.Scale > 0 {
		cfg.Video.Scale = args.Scale
	}

	desc, err := games.Lookup(args.Game)
	checkf(err, "invalid game")

	path := args.RomPath
	if path == "" {
		path = filepath.Join(cfg.General.RomPath(), desc.Name)
	}
	roms, err := loadRoms(desc, path)
	checkf(err, "failed to load rom set %s", path)

	emulator, err := emu.Launch(desc, roms, games.Env{}, nil, cfg)
	checkf(err, "failed to start emulator")
	checkf(emulator.LoadNVRAM(), "failed to load nvram")

	if args.State != "" {
		checkf(emulator.LoadState(args.State), "failed to load state")
	}

	if args.CPUProfile != "" {
		f, err := os.Create(args.CPUProfile)
		checkf(err, "failed to create cpu profile file")
		checkf(pprof.StartCPUProfile(f), "failed to start cpu profile")
		defer func() {
			pprof.StopCPUProfile()
			f.Close()
			fmt.Println("CPU profile written to", args.CPUProfile)
		}()
	}

	emulator.Run(cfg.Emulation.Frames)

	if args.Screenshot != "" {
		checkf(emulator.SaveScreenshot(args.Screenshot, cfg.Video.Scale), "failed to save screenshot")
	}
	if args.SaveState != "" {
		checkf(emulator.SaveState(args.SaveState), "failed to save state")
	}
	if err := emulator.SaveNVRAM(); err != nil {
		log.ModEmu.WarnZ("Failed to save nvram").Error("err", err).End()
	}
}

func loadRoms(desc *games.GameDesc, path string) (romset.Set, error) {
	fsys, closer, err := romset.Open(path)
	if err != nil {
		return nil, err
	}
	defer closer()
	return romset.Load(fsys, desc.Regions)
}
