package libimg

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"io"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

type Configuration struct {
	// FlipVertically mirrors the decoded rows top to bottom. The cube map
	// capture pass expects the equirectangular source flipped.
	FlipVertically bool
}

var Default Configuration

func (conf *Configuration) Load(r io.Reader) (*RgbaLdr, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return conf.LoadBytes(b)
}

func (conf *Configuration) LoadBytes(b []byte) (*RgbaLdr, error) {
	src, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)

	if conf.FlipVertically {
		flipRows(rgba.Pix, rgba.Stride, h)
	}

	return &RgbaLdr{
		Pix:    rgba.Pix,
		Stride: rgba.Stride,
		Rect:   rgba.Rect,
	}, nil
}

func flipRows(pix []uint8, stride, rows int) {
	tmp := make([]uint8, stride)
	for y := 0; y < rows/2; y++ {
		top := pix[y*stride : (y+1)*stride]
		bot := pix[(rows-1-y)*stride : (rows-y)*stride]
		copy(tmp, top)
		copy(top, bot)
		copy(bot, tmp)
	}
}

func Load(r io.Reader) (*RgbaLdr, error) {
	return Default.Load(r)
}

func LoadBytes(b []byte) (*RgbaLdr, error) {
	return Default.LoadBytes(b)
}

func LoadHdr(r io.Reader) (*RgbaHdr, error) {
	return Default.LoadHdr(r)
}

func LoadHdrBytes(b []byte) (*RgbaHdr, error) {
	return Default.LoadHdrBytes(b)
}
