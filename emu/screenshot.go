package emu

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"atarihw/hw/gfx"
)

// Screenshot returns the last rendered frame, scaled by an integer factor.
func (e *Emulator) Screenshot(scale int) *image.RGBA {
	m := e.Machine
	scr := m.Desc().Screen
	img := m.Palette().ToImage(m.Screen, gfx.NewRect(0, 0, scr.Width, scr.Height))
	return scaleImage(img, scale)
}

// scaleImage enlarges img with nearest neighbour sampling, keeping pixels
// sharp.
func scaleImage(img *image.RGBA, scale int) *image.RGBA {
	if scale <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// SaveScreenshot writes the last rendered frame as a PNG file.
func (e *Emulator) SaveScreenshot(path string, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to save screenshot: %w", err)
	}
	if err := png.Encode(f, e.Screenshot(scale)); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode screenshot: %w", err)
	}
	return f.Close()
}
