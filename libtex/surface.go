// Package libtex models decoded texture data on its way to compression: the
// per-channel float surfaces, the texture classes the compiler understands,
// the profile-to-format policy and the mip chain machinery.
package libtex

import (
	"texc/libbc"
)

// Surface is a logical image at one mip level, either a standalone 2D image
// or one face of a cube map. Channels are stored as separate float planes in
// [0,1] (LDR) or open range (HDR).
type Surface struct {
	Width  int
	Height int
	Chans  [4][]float32

	// WrapRepeat marks the sampling wrap mode for downstream consumers.
	WrapRepeat bool
	// HasAlpha marks channel 3 as meaningful transparency.
	HasAlpha bool
	// NormalMap marks a tangent-space vector map: signed values packed into
	// unsigned channels. Mip building renormalizes such surfaces.
	NormalMap bool
}

func NewSurface(w, h int) *Surface {
	s := &Surface{Width: w, Height: h, WrapRepeat: true}
	for c := range s.Chans {
		s.Chans[c] = make([]float32, w*h)
	}
	return s
}

// NewSurfaceFromBytes builds a surface from an interleaved 8-bit RGBA buffer.
func NewSurfaceFromBytes(w, h int, pix []uint8) *Surface {
	s := NewSurface(w, h)
	for i := 0; i < w*h; i++ {
		s.Chans[0][i] = float32(pix[i*4+0]) / 255
		s.Chans[1][i] = float32(pix[i*4+1]) / 255
		s.Chans[2][i] = float32(pix[i*4+2]) / 255
		s.Chans[3][i] = float32(pix[i*4+3]) / 255
	}
	return s
}

// NewSurfaceFromHalves builds a surface from an interleaved RGBA16F buffer,
// the layout GPU readbacks produce.
func NewSurfaceFromHalves(w, h int, pix []uint16) *Surface {
	s := NewSurface(w, h)
	for i := 0; i < w*h; i++ {
		s.Chans[0][i] = libbc.HalfToFloat32(pix[i*4+0])
		s.Chans[1][i] = libbc.HalfToFloat32(pix[i*4+1])
		s.Chans[2][i] = libbc.HalfToFloat32(pix[i*4+2])
		s.Chans[3][i] = libbc.HalfToFloat32(pix[i*4+3])
	}
	return s
}

// NewSurfaceFromFloats builds a surface from an interleaved float RGBA buffer.
func NewSurfaceFromFloats(w, h int, pix []float32) *Surface {
	s := NewSurface(w, h)
	for i := 0; i < w*h; i++ {
		s.Chans[0][i] = pix[i*4+0]
		s.Chans[1][i] = pix[i*4+1]
		s.Chans[2][i] = pix[i*4+2]
		s.Chans[3][i] = pix[i*4+3]
	}
	return s
}

func (s *Surface) Clone() *Surface {
	c := &Surface{
		Width:      s.Width,
		Height:     s.Height,
		WrapRepeat: s.WrapRepeat,
		HasAlpha:   s.HasAlpha,
		NormalMap:  s.NormalMap,
	}
	for i := range s.Chans {
		c.Chans[i] = make([]float32, len(s.Chans[i]))
		copy(c.Chans[i], s.Chans[i])
	}
	return c
}
