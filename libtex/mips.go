package libtex

import (
	"github.com/chewxy/math32"

	"texc/libutil"
)

// CountMips returns the length of the mip chain of a square size down to 1x1.
func CountMips(size int) int {
	count := 1
	for size > 1 {
		size /= 2
		count++
	}
	return count
}

// CountMips2D returns the chain length over the larger dimension.
func CountMips2D(w, h int) int {
	return CountMips(libutil.MaxI(w, h))
}

// MipSize returns a dimension at the given mip index, clamped to 1.
func MipSize(d, mip int) int {
	d >>= uint(mip)
	if d < 1 {
		return 1
	}
	return d
}

// BuildNextMip replaces the surface contents with the next mip level,
// produced by a 2x2 box filter. Vector maps are unpacked, renormalized and
// repacked afterwards so the z reconstruction stays consistent at every
// level.
func (s *Surface) BuildNextMip() {
	nw := libutil.MaxI(s.Width/2, 1)
	nh := libutil.MaxI(s.Height/2, 1)
	if nw == s.Width && nh == s.Height {
		return
	}

	sx := s.Width / nw
	sy := s.Height / nh
	inv := 1 / float32(sx*sy)

	for c := range s.Chans {
		src := s.Chans[c]
		dst := src[:nw*nh]
		for y := 0; y < nh; y++ {
			for x := 0; x < nw; x++ {
				var sum float32
				for dy := 0; dy < sy; dy++ {
					for dx := 0; dx < sx; dx++ {
						sum += src[(y*sy+dy)*s.Width+x*sx+dx]
					}
				}
				dst[y*nw+x] = sum * inv
			}
		}
		s.Chans[c] = dst
	}

	s.Width = nw
	s.Height = nh

	if s.NormalMap {
		s.renormalize()
	}
}

func (s *Surface) renormalize() {
	for i := 0; i < s.Width*s.Height; i++ {
		x := s.Chans[0][i]*2 - 1
		y := s.Chans[1][i]*2 - 1
		z := s.Chans[2][i]*2 - 1
		l := math32.Sqrt(x*x + y*y + z*z)
		if l == 0 {
			x, y, z = 0, 0, 1
		} else {
			x, y, z = x/l, y/l, z/l
		}
		s.Chans[0][i] = x*0.5 + 0.5
		s.Chans[1][i] = y*0.5 + 0.5
		s.Chans[2][i] = z*0.5 + 0.5
	}
}
