package libimg

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/chewxy/math32"
)

// Radiance picture files store one shared exponent per pixel (RGBE). The
// loader handles both flat pixel data and the adaptive run-length encoding
// written by current tools.

func (conf *Configuration) LoadHdr(r io.Reader) (*RgbaHdr, error) {
	br := bufio.NewReader(r)

	magic, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("cannot read radiance signature: %w", err)
	}
	if !strings.HasPrefix(magic, "#?") {
		return nil, fmt.Errorf("not a radiance picture")
	}

	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("unexpected end of radiance header: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		// header variables (FORMAT, EXPOSURE, ...) are not needed
	}

	var w, h int
	resolution, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("cannot read radiance resolution: %w", err)
	}
	if _, err := fmt.Sscanf(resolution, "-Y %d +X %d", &h, &w); err != nil {
		return nil, fmt.Errorf("unsupported radiance orientation %q", strings.TrimSpace(resolution))
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid radiance size %dx%d", w, h)
	}

	pix := make([]float32, w*h*4)
	scanline := make([]byte, w*4)

	for y := 0; y < h; y++ {
		if err := readRadianceScanline(br, scanline, w); err != nil {
			return nil, fmt.Errorf("scanline %d: %w", y, err)
		}

		row := y
		if conf.FlipVertically {
			row = h - 1 - y
		}
		out := pix[row*w*4:]
		for x := 0; x < w; x++ {
			r, g, b := rgbeToFloat(scanline[x*4], scanline[x*4+1], scanline[x*4+2], scanline[x*4+3])
			out[x*4+0] = r
			out[x*4+1] = g
			out[x*4+2] = b
			out[x*4+3] = 1
		}
	}

	return &RgbaHdr{
		Pix:    pix,
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}, nil
}

func (conf *Configuration) LoadHdrBytes(b []byte) (*RgbaHdr, error) {
	return conf.LoadHdr(bytes.NewReader(b))
}

// readRadianceScanline fills dst with w interleaved RGBE pixels.
func readRadianceScanline(br *bufio.Reader, dst []byte, w int) error {
	head := make([]byte, 4)
	if _, err := io.ReadFull(br, head); err != nil {
		return err
	}

	if head[0] == 2 && head[1] == 2 && int(head[2])<<8|int(head[3]) == w && w >= 8 {
		// adaptive RLE, components stored separately
		comp := make([]byte, w)
		for c := 0; c < 4; c++ {
			for x := 0; x < w; {
				n, err := br.ReadByte()
				if err != nil {
					return err
				}
				if n > 128 {
					v, err := br.ReadByte()
					if err != nil {
						return err
					}
					run := int(n) - 128
					if x+run > w {
						return fmt.Errorf("rle run overflows scanline")
					}
					for i := 0; i < run; i++ {
						comp[x+i] = v
					}
					x += run
				} else {
					if x+int(n) > w {
						return fmt.Errorf("rle literal overflows scanline")
					}
					if _, err := io.ReadFull(br, comp[x:x+int(n)]); err != nil {
						return err
					}
					x += int(n)
				}
			}
			for x := 0; x < w; x++ {
				dst[x*4+c] = comp[x]
			}
		}
		return nil
	}

	// flat RGBE pixels
	copy(dst, head)
	if w > 1 {
		if _, err := io.ReadFull(br, dst[4:w*4]); err != nil {
			return err
		}
	}
	for i := 0; i < w; i++ {
		p := dst[i*4 : i*4+4]
		if p[0] == 1 && p[1] == 1 && p[2] == 1 {
			return fmt.Errorf("old style rle scanlines are not supported")
		}
	}
	return nil
}

func rgbeToFloat(r, g, b, e byte) (float32, float32, float32) {
	if e == 0 {
		return 0, 0, 0
	}
	f := math32.Ldexp(1, int(e)-(128+8))
	return float32(r) * f, float32(g) * f, float32(b) * f
}
