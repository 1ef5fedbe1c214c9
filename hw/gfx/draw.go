package gfx

// Mode selects how source pixels are composited onto the destination.
type Mode uint8

const (
	// Opaque writes every source pixel.
	Opaque Mode = iota
	// TransPen skips source pixels equal to the mode pen. For tiles the raw
	// pixel value is compared, for bitmaps the source pen.
	TransPen
	// Through writes source pixels only where the destination holds the mode
	// pen.
	Through
)

func (m Mode) String() string {
	switch m {
	case Opaque:
		return "opaque"
	case TransPen:
		return "transpen"
	case Through:
		return "through"
	}
	return "mode?"
}

// Drawer is the set of blitting primitives used by the compositors.
type Drawer interface {
	DrawTile(dst *Bitmap, el *Element, code, color int, flipx, flipy bool, sx, sy int, clip Rect, mode Mode, pen uint16)
	CopyBitmap(dst, src *Bitmap, flipx, flipy bool, sx, sy int, clip Rect, mode Mode, pen uint16)
	CopyScrolled(dst, src *Bitmap, rowScroll, colScroll []int, clip Rect, mode Mode, pen uint16)
	FillRect(dst *Bitmap, r Rect, pen uint16)
}

// Direct draws straight into the destination bitmaps.
type Direct struct{}

func (Direct) DrawTile(dst *Bitmap, el *Element, code, color int, flipx, flipy bool, sx, sy int, clip Rect, mode Mode, pen uint16) {
	clip = clip.Intersect(dst.Bounds()).Intersect(NewRect(sx, sy, el.Width, el.Height))
	if clip.Empty() {
		return
	}
	tile := el.Tile(code)
	for y := clip.MinY; y <= clip.MaxY; y++ {
		ty := y - sy
		if flipy {
			ty = el.Height - 1 - ty
		}
		src := tile[ty*el.Width : (ty+1)*el.Width]
		row := dst.Row(y)
		for x := clip.MinX; x <= clip.MaxX; x++ {
			tx := x - sx
			if flipx {
				tx = el.Width - 1 - tx
			}
			v := src[tx]
			switch mode {
			case TransPen:
				if uint16(v) == pen {
					continue
				}
			case Through:
				if row[x] != pen {
					continue
				}
			}
			row[x] = el.Pen(color, v)
		}
	}
}

func (Direct) CopyBitmap(dst, src *Bitmap, flipx, flipy bool, sx, sy int, clip Rect, mode Mode, pen uint16) {
	clip = clip.Intersect(dst.Bounds()).Intersect(NewRect(sx, sy, src.W, src.H))
	for y := clip.MinY; y <= clip.MaxY; y++ {
		ty := y - sy
		if flipy {
			ty = src.H - 1 - ty
		}
		srow, drow := src.Row(ty), dst.Row(y)
		for x := clip.MinX; x <= clip.MaxX; x++ {
			tx := x - sx
			if flipx {
				tx = src.W - 1 - tx
			}
			copyPixel(drow, x, srow[tx], mode, pen)
		}
	}
}

// CopyScrolled copies a wrapping source bitmap, scrolled by per-row (or
// per-column) offsets. Destination pixel (x, y) comes from source pixel
// (x+scrollx, y+scrolly), modulo the source size. The rows (or columns) of
// the source are split evenly among the scroll values; a nil slice means no
// scroll on that axis.
func (Direct) CopyScrolled(dst, src *Bitmap, rowScroll, colScroll []int, clip Rect, mode Mode, pen uint16) {
	clip = clip.Intersect(dst.Bounds())
	for y := clip.MinY; y <= clip.MaxY; y++ {
		drow := dst.Row(y)
		for x := clip.MinX; x <= clip.MaxX; x++ {
			sy := y
			if len(colScroll) > 0 {
				sy += colScroll[wrap(x, src.W)*len(colScroll)/src.W]
			}
			sy = wrap(sy, src.H)
			sx := x
			if len(rowScroll) > 0 {
				sx += rowScroll[sy*len(rowScroll)/src.H]
			}
			sx = wrap(sx, src.W)
			copyPixel(drow, x, src.Pix[sy*src.W+sx], mode, pen)
		}
	}
}

func (Direct) FillRect(dst *Bitmap, r Rect, pen uint16) {
	dst.FillRect(r, pen)
}

func copyPixel(row []uint16, x int, v uint16, mode Mode, pen uint16) {
	switch mode {
	case TransPen:
		if v == pen {
			return
		}
	case Through:
		if row[x] != pen {
			return
		}
	}
	row[x] = v
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
