// Package gfx implements the pen-indexed bitmaps, tile graphics and palettes
// used by the video compositors.
package gfx

// TransparentPen is a pen value that no palette entry ever uses. It marks
// scratch pixels that were not drawn.
const TransparentPen uint16 = 0xFFFF

// Rect is a rectangle with inclusive bounds.
type Rect struct {
	MinX, MinY, MaxX, MaxY int
}

func NewRect(x, y, w, h int) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w - 1, MaxY: y + h - 1}
}

func (r Rect) Empty() bool { return r.MinX > r.MaxX || r.MinY > r.MaxY }
func (r Rect) Width() int  { return r.MaxX - r.MinX + 1 }
func (r Rect) Height() int { return r.MaxY - r.MinY + 1 }

func (r Rect) Contains(x, y int) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		MinX: max(r.MinX, o.MinX),
		MinY: max(r.MinY, o.MinY),
		MaxX: min(r.MaxX, o.MaxX),
		MaxY: min(r.MaxY, o.MaxY),
	}
}

func (r Rect) Overlaps(o Rect) bool {
	return !r.Intersect(o).Empty()
}

// Bitmap is a 2D array of pens (palette indices).
type Bitmap struct {
	W, H int
	Pix  []uint16
}

func NewBitmap(w, h int) *Bitmap {
	return &Bitmap{W: w, H: h, Pix: make([]uint16, w*h)}
}

func (b *Bitmap) Bounds() Rect {
	return Rect{MaxX: b.W - 1, MaxY: b.H - 1}
}

func (b *Bitmap) At(x, y int) uint16 {
	return b.Pix[y*b.W+x]
}

func (b *Bitmap) Set(x, y int, pen uint16) {
	b.Pix[y*b.W+x] = pen
}

func (b *Bitmap) Row(y int) []uint16 {
	return b.Pix[y*b.W : (y+1)*b.W]
}

func (b *Bitmap) Fill(pen uint16) {
	for i := range b.Pix {
		b.Pix[i] = pen
	}
}

func (b *Bitmap) FillRect(r Rect, pen uint16) {
	r = r.Intersect(b.Bounds())
	for y := r.MinY; y <= r.MaxY; y++ {
		row := b.Row(y)[r.MinX : r.MaxX+1]
		for i := range row {
			row[i] = pen
		}
	}
}
