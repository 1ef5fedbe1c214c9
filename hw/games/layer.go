package games

import (
	"atarihw/hw/atarigen"
	"atarihw/hw/gfx"
	"atarihw/hw/hwio"
)

// tileInfo is a decoded playfield tile.
type tileInfo struct {
	code, color int
	flipx       bool
	group       int // priority group, game specific
}

// layer is a tilemap cached in its playfield bitmap. Only tiles whose RAM
// changed, or whose pens changed color, are redrawn.
type layer struct {
	pf          *atarigen.Playfield
	el          *gfx.Element
	tile        func(index int) tileInfo
	transparent bool // pixel 0 shows what is below
}

// markPens marks the pens of the tiles visible in clip.
func (l *layer) markPens(pal *gfx.Palette, clip gfx.Rect) {
	l.pf.Process(clip, func(_ gfx.Rect, tr atarigen.TileRect, _ atarigen.PFState) {
		for ty := tr.MinY; ty <= tr.MaxY; ty++ {
			for tx := tr.MinX; tx <= tr.MaxX; tx++ {
				t := l.tile(l.pf.Index(tx, ty))
				usage := l.el.PenUsage[t.code%l.el.Total]
				if l.transparent {
					usage &^= 1
				}
				pal.MarkUsed(int(l.el.Pen(t.color, 0)), usage)
			}
		}
	})
}

// update redraws the dirty tiles into the playfield bitmap and returns how
// many were drawn.
func (l *layer) update(d gfx.Drawer) int {
	pf := l.pf
	bounds := pf.Bitmap.Bounds()
	n := 0
	for i := range pf.Tiles() {
		if !pf.Dirty(i) {
			continue
		}
		x, y := pf.XY(i)
		sx, sy := x*pf.TileW, y*pf.TileH
		t := l.tile(i)
		if l.transparent {
			d.FillRect(pf.Bitmap, gfx.NewRect(sx, sy, pf.TileW, pf.TileH), gfx.TransparentPen)
			d.DrawTile(pf.Bitmap, l.el, t.code, t.color, t.flipx, false, sx, sy, bounds, gfx.TransPen, 0)
		} else {
			d.DrawTile(pf.Bitmap, l.el, t.code, t.color, t.flipx, false, sx, sy, bounds, gfx.Opaque, 0)
		}
		pf.ClearDirty(i)
		n++
	}
	return n
}

// draw copies the scrolled playfield bitmap into dst, band by band.
func (l *layer) draw(d gfx.Drawer, dst *gfx.Bitmap, clip gfx.Rect) {
	mode, pen := gfx.Opaque, uint16(0)
	if l.transparent {
		mode, pen = gfx.TransPen, gfx.TransparentPen
	}
	l.pf.Process(clip, func(band gfx.Rect, _ atarigen.TileRect, st atarigen.PFState) {
		d.CopyScrolled(dst, l.pf.Bitmap, []int{st.HScroll}, []int{st.VScroll}, band, mode, pen)
	})
}

// overdraw draws into dst the tiles within clip for which covers returns
// true, at their scrolled screen position. It reports whether any tile was
// drawn.
func (l *layer) overdraw(d gfx.Drawer, dst *gfx.Bitmap, clip gfx.Rect, covers func(tileInfo) bool) bool {
	mode := gfx.Opaque
	if l.transparent {
		mode = gfx.TransPen
	}
	drawn := false
	l.pf.Process(clip, func(band gfx.Rect, tr atarigen.TileRect, st atarigen.PFState) {
		for ty := tr.MinY; ty <= tr.MaxY; ty++ {
			for tx := tr.MinX; tx <= tr.MaxX; tx++ {
				t := l.tile(l.pf.Index(tx, ty))
				if !covers(t) {
					continue
				}
				sx := tx*l.pf.TileW - st.HScroll
				sy := ty*l.pf.TileH - st.VScroll
				d.DrawTile(dst, l.el, t.code, t.color, t.flipx, false, sx, sy, band, mode, 0)
				drawn = true
			}
		}
	})
	return drawn
}

// moInfo is a decoded motion object.
type moInfo struct {
	code, color  int
	x, y         int
	w, h         int // in tiles
	flipx, flipy bool
	group        int // priority group, game specific
}

// footprint returns the screen area covered by a motion object.
func (mo moInfo) footprint(el *gfx.Element) gfx.Rect {
	return gfx.NewRect(mo.x, mo.y, mo.w*el.Width, mo.h*el.Height)
}

// markMOPens marks the pens of a motion object.
func markMOPens(pal *gfx.Palette, el *gfx.Element, mo moInfo) {
	for i := range mo.w * mo.h {
		usage := el.PenUsage[(mo.code+i)%el.Total] &^ 1
		pal.MarkUsed(int(el.Pen(mo.color, 0)), usage)
	}
}

// drawMO draws a motion object, its tiles stored column by column. Pixel 0
// is transparent.
func drawMO(d gfx.Drawer, dst *gfx.Bitmap, el *gfx.Element, mo moInfo, clip gfx.Rect) {
	for tx := range mo.w {
		sx := mo.x + tx*el.Width
		if mo.flipx {
			sx = mo.x + (mo.w-1-tx)*el.Width
		}
		for ty := range mo.h {
			sy := mo.y + ty*el.Height
			if mo.flipy {
				sy = mo.y + (mo.h-1-ty)*el.Height
			}
			d.DrawTile(dst, el, mo.code+tx*mo.h+ty, mo.color, mo.flipx, mo.flipy, sx, sy, clip, gfx.TransPen, 0)
		}
	}
}

// overrender draws back, over the footprint of a motion object, the tiles of
// l that dominate it. The tiles are drawn into the scratch bitmap first,
// then copied onto dst through the transparent pen, so that empty pixels
// leave the motion object visible.
func (b *base) overrender(dst *gfx.Bitmap, foot gfx.Rect, l *layer, covers func(tileInfo) bool) bool {
	foot = foot.Intersect(dst.Bounds())
	if foot.Empty() {
		return false
	}
	d := b.drawer
	d.FillRect(b.scratch, foot, gfx.TransparentPen)
	if !l.overdraw(d, b.scratch, foot, covers) {
		return false
	}
	d.CopyBitmap(dst, b.scratch, false, false, 0, 0, foot, gfx.TransPen, gfx.TransparentPen)
	return true
}

// alphaLayer is the fixed text layer drawn over everything. It is not
// cached.
type alphaLayer struct {
	ram        []byte
	cols, rows int
	el         *gfx.Element
	decode     func(w uint16) (t tileInfo, opaque bool)
}

func (a *alphaLayer) tiles(clip gfx.Rect, fn func(sx, sy int, t tileInfo, opaque bool)) {
	for ty := max(clip.MinY/a.el.Height, 0); ty < a.rows && ty*a.el.Height <= clip.MaxY; ty++ {
		for tx := max(clip.MinX/a.el.Width, 0); tx < a.cols && tx*a.el.Width <= clip.MaxX; tx++ {
			w := hwio.ReadWord(a.ram, uint32((ty*a.cols+tx)*2))
			t, opaque := a.decode(w)
			fn(tx*a.el.Width, ty*a.el.Height, t, opaque)
		}
	}
}

func (a *alphaLayer) markPens(pal *gfx.Palette, clip gfx.Rect) {
	a.tiles(clip, func(_, _ int, t tileInfo, opaque bool) {
		usage := a.el.PenUsage[t.code%a.el.Total]
		if !opaque {
			usage &^= 1
		}
		pal.MarkUsed(int(a.el.Pen(t.color, 0)), usage)
	})
}

func (a *alphaLayer) draw(d gfx.Drawer, dst *gfx.Bitmap, clip gfx.Rect) {
	a.tiles(clip, func(sx, sy int, t tileInfo, opaque bool) {
		mode := gfx.TransPen
		if opaque {
			mode = gfx.Opaque
		}
		d.DrawTile(dst, a.el, t.code, t.color, t.flipx, false, sx, sy, clip, mode, 0)
	})
}
