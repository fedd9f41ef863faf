package ibl

import (
	"errors"
	"fmt"
	"io"

	"github.com/chewxy/math32"
)

// Shared exponent pixel packing in the Radiance tradition: one byte per
// color component plus a common exponent byte. Both directions work on
// fixed size chunks so callers can stream arbitrarily large cube maps.

func encodeRgbeChunk(components int, data []float32, buf []byte) int {
	pixels := len(data) / components
	for i := 0; i < pixels; i++ {
		r := data[i*components+0]
		g := data[i*components+1]
		b := data[i*components+2]

		max := r
		if g > max {
			max = g
		}
		if b > max {
			max = b
		}

		o := i * 4
		if max < 1e-32 {
			buf[o+0], buf[o+1], buf[o+2], buf[o+3] = 0, 0, 0, 0
			continue
		}

		frac, exp := math32.Frexp(max)
		scale := frac * 256.0 / max
		buf[o+0] = byte(r * scale)
		buf[o+1] = byte(g * scale)
		buf[o+2] = byte(b * scale)
		buf[o+3] = byte(exp + 128)
	}
	return pixels * 4
}

func decodeRgbeChunk(components int, data []byte, buf []float32) (n int) {
	pixels := len(data) / 4
	for i := 0; i < pixels; i++ {
		o := i * 4
		exp := data[o+3]

		j := i * components
		if exp == 0 {
			buf[j+0], buf[j+1], buf[j+2] = 0, 0, 0
		} else {
			f := math32.Ldexp(1, int(exp)-(128+8))
			buf[j+0] = float32(data[o+0]) * f
			buf[j+1] = float32(data[o+1]) * f
			buf[j+2] = float32(data[o+2]) * f
		}
		if components == 4 {
			buf[j+3] = 1
		}
	}
	return pixels * components
}

// rgbeChunkPixels is the number of pixels encoded or decoded per pass.
const rgbeChunkPixels = 4096

func EncodeRgbe(w io.Writer, data []float32, hasAlpha bool) error {
	components := 3
	if hasAlpha {
		components = 4
	}
	if len(data)%components != 0 {
		return fmt.Errorf("pixel data not a multiple of %d floats", components)
	}

	buf := make([]byte, rgbeChunkPixels*4)
	step := rgbeChunkPixels * components
	for start := 0; start < len(data); start += step {
		end := start + step
		if end > len(data) {
			end = len(data)
		}
		n := encodeRgbeChunk(components, data[start:end], buf)
		if _, err := w.Write(buf[:n]); err != nil {
			return err
		}
	}
	return nil
}

func DecodeRgbe(r io.Reader, hasAlpha bool) ([]float32, error) {
	components := 3
	if hasAlpha {
		components = 4
	}

	buf := make([]byte, rgbeChunkPixels*4)
	scratch := make([]float32, rgbeChunkPixels*components)
	var out []float32
	for {
		n, err := io.ReadFull(r, buf)
		if n%4 != 0 {
			return nil, fmt.Errorf("pixel stream not a multiple of 4 bytes")
		}
		if n > 0 {
			m := decodeRgbeChunk(components, buf[:n], scratch)
			out = append(out, scratch[:m]...)
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
