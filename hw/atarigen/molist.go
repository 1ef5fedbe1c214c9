package atarigen

import (
	"fmt"
	"slices"

	"atarihw/hw/gfx"
	"atarihw/hw/hwio"
)

// MODesc describes the layout of a motion object list in sprite RAM.
type MODesc struct {
	MaxCount   int  // entries in the list
	EntryWords int  // words read per entry
	EntrySkip  int  // bytes between consecutive entries
	WordSkip   int  // bytes between the words of an entry
	IgnoreWord int  // entries whose word equals 0xFFFF are skipped, -1 for none
	LinkWord   int  // word holding the link to the next entry, -1 for sequential
	LinkShift  uint // position of the link in its word
	LinkMask   int
	Reverse    bool // draw the list back to front
}

type moBand struct {
	scanline int
	entries  [][]uint16
}

// MOList caches the motion object list as seen by the hardware at each
// update point of the frame.
type MOList struct {
	desc    MODesc
	screenH int
	bands   []moBand
	visited *hwio.Bitset
}

func NewMOList(desc MODesc, screenH int) *MOList {
	if desc.MaxCount <= 0 || desc.EntryWords <= 0 || desc.IgnoreWord >= desc.EntryWords || desc.LinkWord >= desc.EntryWords {
		panic(fmt.Sprintf("invalid motion object descriptor %+v", desc))
	}
	return &MOList{
		desc:    desc,
		screenH: screenH,
		visited: hwio.NewBitset(uint(desc.MaxCount)),
	}
}

func (mo *MOList) Desc() MODesc { return mo.desc }

// Reset forgets the lists of the previous frame.
func (mo *MOList) Reset() {
	mo.bands = mo.bands[:0]
}

// Bands returns the number of distinct lists recorded in the frame.
func (mo *MOList) Bands() int { return len(mo.bands) }

func (mo *MOList) entry(base []byte, index int) []uint16 {
	d := mo.desc
	words := make([]uint16, d.EntryWords)
	off := index * d.EntrySkip
	for i := range words {
		o := off + i*d.WordSkip
		if o+1 < len(base) {
			words[i] = hwio.ReadWord(base, uint32(o))
		}
	}
	return words
}

// walk appends the entries reachable from link, visiting each at most once.
func (mo *MOList) walk(base []byte, link int, out [][]uint16) [][]uint16 {
	d := mo.desc
	link %= d.MaxCount
	for !mo.visited.TestAndSet(uint(link)) {
		words := mo.entry(base, link)
		if d.IgnoreWord < 0 || words[d.IgnoreWord] != 0xFFFF {
			out = append(out, words)
		}
		if d.LinkWord < 0 {
			link = (link + 1) % d.MaxCount
		} else {
			link = (int(words[d.LinkWord]>>d.LinkShift) & d.LinkMask) % d.MaxCount
		}
	}
	return out
}

// Update reads the list starting at link and records it for the scanlines
// from scanline on.
func (mo *MOList) Update(base []byte, link, scanline int) {
	mo.visited.Reset()
	mo.record(scanline, mo.walk(base, link, nil))
}

// UpdateSlip512 records the list of the 8-line band starting at scanline,
// for hardware that starts the walk from a per-row link table (SLIP) of a
// 512-line playfield. When the band straddles two rows both lists are used.
func (mo *MOList) UpdateSlip512(base []byte, scroll, scanline int, slips []byte) {
	mo.visited.Reset()
	pos := (scanline + scroll) & 0x1FF
	row := pos / 8

	var entries [][]uint16
	for _, r := range []int{row, (row + 1) & 63} {
		off := uint32(r * 2)
		if int(off)+1 >= len(slips) {
			break
		}
		link := int(hwio.ReadWord(slips, off)) & mo.desc.LinkMask
		entries = mo.walk(base, link, entries)
		if pos&7 == 0 {
			break
		}
	}
	mo.record(scanline, entries)
}

func (mo *MOList) record(scanline int, entries [][]uint16) {
	if n := len(mo.bands); n > 0 {
		last := &mo.bands[n-1]
		if last.scanline >= scanline {
			last.entries = entries
			return
		}
		if slices.EqualFunc(last.entries, entries, slices.Equal[[]uint16]) {
			return
		}
	}
	mo.bands = append(mo.bands, moBand{scanline: scanline, entries: entries})
}

// Process calls fn for every entry of every band, clipped to the band's
// scanlines and to clip.
func (mo *MOList) Process(clip gfx.Rect, fn func(entry []uint16, clip gfx.Rect)) {
	for i, b := range mo.bands {
		band := clip
		band.MinY = max(band.MinY, b.scanline)
		if i+1 < len(mo.bands) {
			band.MaxY = min(band.MaxY, mo.bands[i+1].scanline-1)
		} else {
			band.MaxY = min(band.MaxY, mo.screenH-1)
		}
		if band.Empty() {
			continue
		}
		if mo.desc.Reverse {
			for j := len(b.entries) - 1; j >= 0; j-- {
				fn(b.entries[j], band)
			}
		} else {
			for _, e := range b.entries {
				fn(e, band)
			}
		}
	}
}
