// Package libimg decodes source rasters into fixed-stride 4-channel buffers.
// LDR formats (PNG, JPEG, BMP) decode to RgbaLdr, Radiance HDR panoramas decode
// to RgbaHdr.
package libimg

import (
	"image"
	"image/color"
)

type RgbaLdr struct {
	// Pix holds the image's pixels, in R, G, B, A order. The pixel at
	// (x, y) starts at Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*4].
	Pix []uint8
	// Stride is the Pix stride (in bytes) between vertically adjacent pixels.
	Stride int
	// Rect is the image's bounds.
	Rect image.Rectangle
}

func (p *RgbaLdr) ColorModel() color.Model { return color.RGBAModel }

func (p *RgbaLdr) Bounds() image.Rectangle { return p.Rect }

func (p *RgbaLdr) At(x, y int) (c [4]uint8) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return c
	}
	i := p.PixOffset(x, y)
	copy(c[:], p.Pix[i:i+4])
	return c
}

// PixOffset returns the index of the first element of Pix that corresponds to
// the pixel at (x, y).
func (p *RgbaLdr) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*4
}

type RgbaHdr struct {
	// Pix holds the image's pixels, in R, G, B, A order. The pixel at
	// (x, y) starts at Pix[(y-Rect.Min.Y)*Stride + (x-Rect.Min.X)*4].
	Pix []float32
	// Stride is the Pix stride (in floats) between vertically adjacent pixels.
	Stride int
	// Rect is the image's bounds.
	Rect image.Rectangle
}

func (p *RgbaHdr) ColorModel() color.Model { return color.RGBAModel }

func (p *RgbaHdr) Bounds() image.Rectangle { return p.Rect }

func (p *RgbaHdr) At(x, y int) (c [4]float32) {
	if !(image.Point{x, y}.In(p.Rect)) {
		return c
	}
	i := p.PixOffset(x, y)
	copy(c[:], p.Pix[i:i+4])
	return c
}

// PixOffset returns the index of the first element of Pix that corresponds to
// the pixel at (x, y).
func (p *RgbaHdr) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*4
}
