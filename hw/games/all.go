// Package games implements the five Atari raster games: their memory maps,
// hardware quirks, scanline updates and video compositors, on top of the
// shared atarigen services and the JSA audio board.
package games

import (
	"fmt"
	"slices"

	"atarihw/emu/log"
	"atarihw/hw/atarigen"
	"atarihw/hw/hwdefs"
	"atarihw/hw/jsa"
	"atarihw/romset"
)

var (
	modGame  = log.NewModule("game")
	modQuirk = log.NewModule("quirk")
)

// GameDesc describes a game: its hardware configuration and how to build
// its driver.
type GameDesc struct {
	Name     string
	FullName string
	Year     int

	Screen atarigen.Screen
	CPUs   []hwdefs.CPU
	JSA    jsa.Variant
	Chips  []hwdefs.Chip

	IRQPolicy atarigen.IRQPolicy

	EEPROMSize    int
	EEPROMDefault []uint16
	Regions       []romset.Region

	// Speedup is the idle loop of the sound program, nil when unknown.
	Speedup *atarigen.Speedup

	Load func(*base) (driver, error)
}

// All lists the supported games by name.
var All = map[string]*GameDesc{
	Batman.Name:      &Batman,
	Blasteroids.Name: &Blasteroids,
	EPRoM.Name:       &EPRoM,
	OffTheWall.Name:  &OffTheWall,
	SkullXBones.Name: &SkullXBones,
}

// Names returns the sorted names of all games.
func Names() []string {
	names := make([]string, 0, len(All))
	for name := range All {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the game with the given name.
func Lookup(name string) (*GameDesc, error) {
	desc, ok := All[name]
	if !ok {
		return nil, fmt.Errorf("unknown game %q", name)
	}
	return desc, nil
}

// HasChip reports whether the game's audio board carries a chip.
func (d *GameDesc) HasChip(chip hwdefs.Chip) bool {
	return slices.Contains(d.Chips, chip)
}
