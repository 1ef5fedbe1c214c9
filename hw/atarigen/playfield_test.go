package atarigen

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"atarihw/hw/gfx"
)

func TestPlayfieldIndex(t *testing.T) {
	row := NewPlayfield("row", 64, 32, 16, 8, false, 240)
	col := NewPlayfield("col", 64, 64, 8, 8, true, 240)

	if got := row.Index(3, 2); got != 2*64+3 {
		t.Errorf("row-major index = %d", got)
	}
	if got := col.Index(3, 2); got != 3*64+2 {
		t.Errorf("col-major index = %d", got)
	}
	if got := col.Index(-1, 64); got != 63*64 {
		t.Errorf("wrapped index = %d", got)
	}
	if x, y := row.XY(2*64 + 3); x != 3 || y != 2 {
		t.Errorf("XY = %d,%d", x, y)
	}
	if x, y := col.XY(3*64 + 2); x != 3 || y != 2 {
		t.Errorf("XY = %d,%d", x, y)
	}
}

func TestPlayfieldDirty(t *testing.T) {
	pf := NewPlayfield("pf", 64, 64, 8, 8, true, 240)
	if pf.DirtyCount() != 64*64 {
		t.Fatalf("playfield should start all dirty")
	}
	for i := range pf.Tiles() {
		pf.ClearDirty(i)
	}

	pf.TrackWrite(0x10, 0x1234, 0x1234)
	if pf.Dirty(8) {
		t.Errorf("unchanged write marked the tile dirty")
	}
	pf.TrackWrite(0x10, 0x1234, 0x1235)
	if !pf.Dirty(8) || pf.DirtyCount() != 1 {
		t.Errorf("changed write should mark exactly one tile")
	}

	defer func() {
		if recover() == nil {
			t.Errorf("out of range tile should panic")
		}
	}()
	pf.MarkDirty(64 * 64)
}

func TestPlayfieldStateList(t *testing.T) {
	pf := NewPlayfield("pf", 64, 64, 8, 8, true, 240)

	pf.Update(PFState{HScroll: 4}, 0)  // replaces the initial entry
	pf.Update(PFState{HScroll: 4}, 50) // unchanged
	pf.Update(PFState{HScroll: 8}, 100)
	pf.Update(PFState{HScroll: 12}, 100) // same scanline
	pf.Update(PFState{HScroll: 12, VScroll: 3}, 200)

	type band struct {
		Band  gfx.Rect
		Tiles TileRect
		St    PFState
	}
	var got []band
	pf.Process(gfx.NewRect(0, 0, 336, 240), func(b gfx.Rect, tiles TileRect, st PFState) {
		got = append(got, band{b, tiles, st})
	})
	want := []band{
		{gfx.Rect{MaxX: 335, MaxY: 99}, TileRect{MinX: 0, MaxX: 42, MinY: 0, MaxY: 12}, PFState{HScroll: 4}},
		{gfx.Rect{MinY: 100, MaxX: 335, MaxY: 199}, TileRect{MinX: 1, MaxX: 43, MinY: 12, MaxY: 24}, PFState{HScroll: 12}},
		{gfx.Rect{MinY: 200, MaxX: 335, MaxY: 239}, TileRect{MinX: 1, MaxX: 43, MinY: 25, MaxY: 30}, PFState{HScroll: 12, VScroll: 3}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bands mismatch (-want +got):\n%s", diff)
	}

	pf.ResetList()
	if pf.Bands() != 1 || pf.State().VScroll != 3 {
		t.Errorf("reset should restart from the current state")
	}
}
