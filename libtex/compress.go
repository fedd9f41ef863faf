package libtex

import (
	"encoding/binary"
	"fmt"
	"io"

	"texc/libbc"
	"texc/libdds"
)

// MipCompressor drives the block codec across a mip chain and writes the
// container. 2D chains are built by box-filter downsampling; cube chains
// arrive pre-rendered at each target resolution and are only consumed.
type MipCompressor struct {
	w      *libdds.Writer
	format Format
	width  int
	height int
	mips   int

	// Progress reports completed levels out of the container total.
	Progress func(done, total int)
}

// NewMipCompressor2D writes a 2D container header sized for the full chain
// of the given surface dimensions.
func NewMipCompressor2D(dst io.Writer, errh func(error), w, h int, format Format) (*MipCompressor, error) {
	return newMipCompressor(dst, errh, w, h, CountMips2D(w, h), format, false)
}

// NewMipCompressorCube writes a cube container header with an explicit mip
// count (the irradiance container stores a single level).
func NewMipCompressorCube(dst io.Writer, errh func(error), size, mips int, format Format) (*MipCompressor, error) {
	return newMipCompressor(dst, errh, size, size, mips, format, true)
}

func newMipCompressor(dst io.Writer, errh func(error), w, h, mips int, format Format, cube bool) (*MipCompressor, error) {
	writer := libdds.NewWriter(dst, errh)
	err := writer.Header(libdds.Desc{
		Width:      w,
		Height:     h,
		MipLevels:  mips,
		DXGIFormat: format.DXGI(),
		Cube:       cube,
	})
	if err != nil {
		return nil, err
	}
	return &MipCompressor{
		w:      writer,
		format: format,
		width:  w,
		height: h,
		mips:   mips,
	}, nil
}

func (mc *MipCompressor) Mips() int { return mc.mips }

// WriteSurface compresses one (face, mip) level and appends it.
func (mc *MipCompressor) WriteSurface(face, mip int, s *Surface) error {
	if want := MipSize(mc.width, mip); s.Width != want {
		return fmt.Errorf("face %d mip %d: surface width %d, want %d", face, mip, s.Width, want)
	}
	if want := MipSize(mc.height, mip); s.Height != want {
		return fmt.Errorf("face %d mip %d: surface height %d, want %d", face, mip, s.Height, want)
	}

	data := encodeSurface(s, mc.format)
	if err := mc.w.Append(face, mip, data); err != nil {
		return err
	}
	if mc.Progress != nil {
		mc.Progress(face*mc.mips+mip+1, 6*mc.mips)
	}
	return nil
}

// Compress2D writes the full chain of a standalone surface, downsampling in
// place between levels. Any failure aborts the asset; there is no
// skip-and-continue for broken mip builds.
func (mc *MipCompressor) Compress2D(s *Surface) error {
	for mip := 0; mip < mc.mips; mip++ {
		data := encodeSurface(s, mc.format)
		if err := mc.w.Append(0, mip, data); err != nil {
			return err
		}
		if mc.Progress != nil {
			mc.Progress(mip+1, mc.mips)
		}
		if mip+1 < mc.mips {
			s.BuildNextMip()
		}
	}
	return mc.w.Complete()
}

// Complete verifies every declared level was written.
func (mc *MipCompressor) Complete() error {
	return mc.w.Complete()
}

func encodeSurface(s *Surface, format Format) []byte {
	w, h := s.Width, s.Height
	switch format {
	case FormatBC7:
		return libbc.EncodeBC7(s.Chans[0], s.Chans[1], s.Chans[2], s.Chans[3], w, h)
	case FormatBC3:
		return libbc.EncodeBC3(s.Chans[0], s.Chans[1], s.Chans[2], s.Chans[3], w, h)
	case FormatBC4:
		return libbc.EncodeBC4(s.Chans[0], w, h)
	case FormatBC6H:
		return libbc.EncodeBC6H(s.Chans[0], s.Chans[1], s.Chans[2], w, h)
	case FormatRawRGBA8:
		out := make([]byte, w*h*4)
		for i := 0; i < w*h; i++ {
			for c := 0; c < 4; c++ {
				out[i*4+c] = unitByte(s.Chans[c][i])
			}
		}
		return out
	case FormatRawR8:
		out := make([]byte, w*h)
		for i := 0; i < w*h; i++ {
			out[i] = unitByte(s.Chans[0][i])
		}
		return out
	case FormatRawRGBA16F:
		out := make([]byte, w*h*8)
		for i := 0; i < w*h; i++ {
			for c := 0; c < 4; c++ {
				binary.LittleEndian.PutUint16(out[i*8+c*2:], libbc.Float32ToHalf(s.Chans[c][i]))
			}
		}
		return out
	}
	return nil
}

func unitByte(v float32) byte {
	i := int(v*255 + 0.5)
	if i < 0 {
		i = 0
	}
	if i > 255 {
		i = 255
	}
	return byte(i)
}
