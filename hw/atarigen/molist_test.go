package atarigen

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"atarihw/hw/gfx"
	"atarihw/hw/hwio"
)

// 4-word entries, link in word 3.
var testMODesc = MODesc{
	MaxCount:   8,
	EntryWords: 4,
	EntrySkip:  8,
	WordSkip:   2,
	IgnoreWord: -1,
	LinkWord:   3,
	LinkMask:   7,
}

func moRAM(entries ...[4]uint16) []byte {
	ram := make([]byte, 8*8)
	for i, e := range entries {
		for w, v := range e {
			hwio.WriteWord(ram, uint32(i*8+w*2), v)
		}
	}
	return ram
}

type moCall struct {
	Code uint16
	Clip gfx.Rect
}

func collect(mo *MOList, clip gfx.Rect) []moCall {
	var calls []moCall
	mo.Process(clip, func(e []uint16, c gfx.Rect) {
		calls = append(calls, moCall{e[0], c})
	})
	return calls
}

func TestMOListWalk(t *testing.T) {
	ram := moRAM(
		[4]uint16{0xA0, 0, 0, 2},
		[4]uint16{0xA1, 0, 0, 0},
		[4]uint16{0xA2, 0, 0, 1},
	)
	mo := NewMOList(testMODesc, 240)
	mo.Update(ram, 0, 0)

	clip := gfx.NewRect(0, 0, 336, 240)
	want := []moCall{{0xA0, clip}, {0xA2, clip}, {0xA1, clip}}
	if diff := cmp.Diff(want, collect(mo, clip)); diff != "" {
		t.Fatalf("walk mismatch (-want +got):\n%s", diff)
	}

	desc := testMODesc
	desc.Reverse = true
	rev := NewMOList(desc, 240)
	rev.Update(ram, 0, 0)
	want = []moCall{{0xA1, clip}, {0xA2, clip}, {0xA0, clip}}
	if diff := cmp.Diff(want, collect(rev, clip)); diff != "" {
		t.Fatalf("reverse walk mismatch (-want +got):\n%s", diff)
	}
}

func TestMOListIgnoreAndSequential(t *testing.T) {
	desc := testMODesc
	desc.MaxCount = 3
	desc.LinkWord = -1
	desc.IgnoreWord = 1

	ram := moRAM(
		[4]uint16{0xB0, 0, 0, 0},
		[4]uint16{0xB1, 0xFFFF, 0, 0},
		[4]uint16{0xB2, 0, 0, 0},
	)
	mo := NewMOList(desc, 240)
	mo.Update(ram, 1, 0)

	clip := gfx.NewRect(0, 0, 336, 240)
	want := []moCall{{0xB2, clip}, {0xB0, clip}}
	if diff := cmp.Diff(want, collect(mo, clip)); diff != "" {
		t.Fatalf("walk mismatch (-want +got):\n%s", diff)
	}
}

func TestMOListBands(t *testing.T) {
	ram := moRAM([4]uint16{0xC0, 0, 0, 0})
	mo := NewMOList(testMODesc, 240)

	mo.Update(ram, 0, 0)
	mo.Update(ram, 0, 8) // identical list: merged
	hwio.WriteWord(ram, 0, 0xC1)
	mo.Update(ram, 0, 100)
	if mo.Bands() != 2 {
		t.Fatalf("bands = %d, want 2", mo.Bands())
	}

	clip := gfx.NewRect(0, 50, 336, 100)
	want := []moCall{
		{0xC0, gfx.Rect{MinY: 50, MaxX: 335, MaxY: 99}},
		{0xC1, gfx.Rect{MinY: 100, MaxX: 335, MaxY: 149}},
	}
	if diff := cmp.Diff(want, collect(mo, clip)); diff != "" {
		t.Fatalf("bands mismatch (-want +got):\n%s", diff)
	}

	mo.Reset()
	if mo.Bands() != 0 {
		t.Errorf("reset should drop all bands")
	}
}

func TestMOListSlip(t *testing.T) {
	desc := testMODesc
	ram := moRAM(
		[4]uint16{0xD0, 0, 0, 0}, // self-link: single entry lists
		[4]uint16{0xD1, 0, 0, 1},
	)
	slips := make([]byte, 128)
	hwio.WriteWord(slips, 2*2, 0) // row 2
	hwio.WriteWord(slips, 3*2, 1) // row 3

	mo := NewMOList(desc, 240)
	mo.UpdateSlip512(ram, 16, 0, slips) // aligned: row 2 only
	mo.UpdateSlip512(ram, 20, 8, slips) // straddles rows 3 and 4
	mo.UpdateSlip512(ram, 4, 16, slips) // straddles rows 2 and 3

	clip := gfx.NewRect(0, 0, 336, 24)
	want := []moCall{
		{0xD0, gfx.Rect{MaxX: 335, MaxY: 7}},
		{0xD1, gfx.Rect{MinY: 8, MaxX: 335, MaxY: 15}},
		{0xD0, gfx.Rect{MinY: 8, MaxX: 335, MaxY: 15}},
		{0xD0, gfx.Rect{MinY: 16, MaxX: 335, MaxY: 23}},
		{0xD1, gfx.Rect{MinY: 16, MaxX: 335, MaxY: 23}},
	}
	if diff := cmp.Diff(want, collect(mo, clip)); diff != "" {
		t.Fatalf("slip bands mismatch (-want +got):\n%s", diff)
	}
}

func TestMODescValidation(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("invalid descriptor should panic")
		}
	}()
	NewMOList(MODesc{MaxCount: 4, EntryWords: 2, LinkWord: 3}, 240)
}
