package atarigen

import (
	"fmt"

	"atarihw/hw/gfx"
	"atarihw/hw/hwio"
)

// PFState is the scroll state of a playfield for a range of scanlines.
type PFState struct {
	HScroll, VScroll int
	Param            [2]int
}

type pfEntry struct {
	PFState
	scanline int
}

// TileRect is a range of tile coordinates, inclusive. Coordinates are not
// wrapped: callers mask them with the tilemap size.
type TileRect struct {
	MinX, MinY, MaxX, MaxY int
}

// Playfield tracks a tilemap: the cached bitmap of its tiles, which tiles
// changed since they were drawn, and the scroll state list of the frame.
type Playfield struct {
	Name         string
	TileW, TileH int
	Cols, Rows   int
	ColMajor     bool // tile index is x*Rows+y instead of y*Cols+x

	Bitmap *gfx.Bitmap

	dirty   *hwio.Bitset
	screenH int
	state   PFState
	list    []pfEntry
}

func NewPlayfield(name string, cols, rows, tileW, tileH int, colMajor bool, screenH int) *Playfield {
	if cols&(cols-1) != 0 || rows&(rows-1) != 0 {
		panic(fmt.Sprintf("playfield %s: %dx%d is not a power of two", name, cols, rows))
	}
	pf := &Playfield{
		Name:     name,
		TileW:    tileW,
		TileH:    tileH,
		Cols:     cols,
		Rows:     rows,
		ColMajor: colMajor,
		Bitmap:   gfx.NewBitmap(cols*tileW, rows*tileH),
		dirty:    hwio.NewBitset(uint(cols * rows)),
		screenH:  screenH,
	}
	pf.MarkAllDirty()
	pf.ResetList()
	return pf
}

// Tiles returns the number of tiles.
func (pf *Playfield) Tiles() int { return pf.Cols * pf.Rows }

// Index returns the tile index of tile (x, y), wrapping coordinates.
func (pf *Playfield) Index(x, y int) int {
	x &= pf.Cols - 1
	y &= pf.Rows - 1
	if pf.ColMajor {
		return x*pf.Rows + y
	}
	return y*pf.Cols + x
}

// XY returns the tile coordinates of an index.
func (pf *Playfield) XY(index int) (x, y int) {
	if pf.ColMajor {
		return index / pf.Rows, index % pf.Rows
	}
	return index % pf.Cols, index / pf.Cols
}

func (pf *Playfield) checkIndex(index int) {
	if index < 0 || index >= pf.Tiles() {
		panic(fmt.Sprintf("playfield %s: tile %d out of range", pf.Name, index))
	}
}

func (pf *Playfield) MarkDirty(index int) {
	pf.checkIndex(index)
	pf.dirty.Set(uint(index))
}

func (pf *Playfield) MarkAllDirty() {
	pf.dirty.SetAll()
}

func (pf *Playfield) Dirty(index int) bool {
	pf.checkIndex(index)
	return pf.dirty.Test(uint(index))
}

func (pf *Playfield) ClearDirty(index int) {
	pf.dirty.Clear(uint(index))
}

func (pf *Playfield) DirtyCount() int {
	return pf.dirty.Count()
}

// TrackWrite is a memory write callback marking the tile of a word that
// changed content. It fits playfield RAM with one word per tile.
func (pf *Playfield) TrackWrite(off uint32, old, cur uint16) {
	if old != cur {
		pf.MarkDirty(int(off/2) % pf.Tiles())
	}
}

// State returns the latest scroll state.
func (pf *Playfield) State() PFState { return pf.state }

// ResetList starts a new frame: the list restarts with the current state at
// scanline 0.
func (pf *Playfield) ResetList() {
	pf.list = append(pf.list[:0], pfEntry{PFState: pf.state})
}

// Update records a new scroll state starting at scanline. Unchanged states
// are ignored; a second update on the same scanline replaces the first.
func (pf *Playfield) Update(st PFState, scanline int) {
	pf.state = st
	last := &pf.list[len(pf.list)-1]
	if last.PFState == st {
		return
	}
	if last.scanline >= scanline {
		last.PFState = st
		return
	}
	pf.list = append(pf.list, pfEntry{PFState: st, scanline: scanline})
}

// Bands returns the number of scroll bands of the frame.
func (pf *Playfield) Bands() int { return len(pf.list) }

// Process calls fn for each scroll band of the frame intersecting clip, with
// the band clip rectangle and the tiles it covers once scrolled.
func (pf *Playfield) Process(clip gfx.Rect, fn func(band gfx.Rect, tiles TileRect, st PFState)) {
	for i, e := range pf.list {
		band := clip
		band.MinY = max(band.MinY, e.scanline)
		if i+1 < len(pf.list) {
			band.MaxY = min(band.MaxY, pf.list[i+1].scanline-1)
		} else {
			band.MaxY = min(band.MaxY, pf.screenH-1)
		}
		if band.Empty() {
			continue
		}
		tiles := TileRect{
			MinX: floorDiv(band.MinX+e.HScroll, pf.TileW),
			MaxX: floorDiv(band.MaxX+e.HScroll, pf.TileW),
			MinY: floorDiv(band.MinY+e.VScroll, pf.TileH),
			MaxY: floorDiv(band.MaxY+e.VScroll, pf.TileH),
		}
		fn(band, tiles, e.PFState)
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
