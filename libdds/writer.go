package libdds

import (
	"encoding/binary"
	"fmt"
	"io"

	"texc/libio"
)

// DDS header constants
const (
	ddsMagic      = 0x20534444 // "DDS "
	ddsHeaderSize = 124

	headerFlagsCaps        = 0x1
	headerFlagsHeight      = 0x2
	headerFlagsWidth       = 0x4
	headerFlagsPitch       = 0x8
	headerFlagsPixelFormat = 0x1000
	headerFlagsMipMapCount = 0x20000
	headerFlagsLinearSize  = 0x80000

	surfaceFlagsTexture = 0x1000
	surfaceFlagsMipMap  = 0x400000
	surfaceFlagsComplex = 0x8

	caps2Cubemap         = 0x200
	caps2CubemapAllFaces = 0xfc00

	pixelFormatSize   = 32
	pixelFormatFourCC = 0x4

	dx10FourCC = 0x30315844 // "DX10"

	resourceDimensionTexture2D = 3
	miscFlagTextureCube        = 0x4
)

// Desc describes one output container.
type Desc struct {
	Width      int
	Height     int
	MipLevels  int
	DXGIFormat uint32
	Cube       bool
}

// Writer emits a DDS10 container: header first, then every mip of every face
// in strictly increasing order. Failures are delivered to the injected error
// handler and latch the writer; once failed, every further call is rejected.
type Writer struct {
	bw   *libio.BinaryWriter
	errh func(error)

	desc     Desc
	faces    int
	nextFace int
	nextMip  int
	header   bool
	failed   bool
}

// NewWriter wraps dst. errh receives every error the writer encounters;
// a nil handler is allowed.
func NewWriter(dst io.Writer, errh func(error)) *Writer {
	if errh == nil {
		errh = func(error) {}
	}
	return &Writer{
		bw:   &libio.BinaryWriter{Dst: dst, Order: binary.LittleEndian},
		errh: errh,
	}
}

func (w *Writer) fail(err error) error {
	w.failed = true
	w.errh(err)
	return err
}

// Header writes the container header. Must be called exactly once, before any
// Append.
func (w *Writer) Header(desc Desc) error {
	if w.failed {
		return fmt.Errorf("dds writer already failed")
	}
	if w.header {
		return w.fail(fmt.Errorf("dds header already written"))
	}
	if desc.Width <= 0 || desc.Height <= 0 || desc.MipLevels <= 0 {
		return w.fail(fmt.Errorf("invalid dds description %dx%d mips %d", desc.Width, desc.Height, desc.MipLevels))
	}

	w.desc = desc
	w.faces = 1
	if desc.Cube {
		w.faces = 6
	}

	flags := uint32(headerFlagsCaps | headerFlagsHeight | headerFlagsWidth | headerFlagsPixelFormat)
	var pitchOrLinearSize uint32
	if Compressed(desc.DXGIFormat) {
		flags |= headerFlagsLinearSize
		pitchOrLinearSize = uint32(LevelSize(desc.DXGIFormat, desc.Width, desc.Height))
	} else {
		flags |= headerFlagsPitch
		pitchOrLinearSize = uint32(desc.Width * bytesPerPixel(desc.DXGIFormat))
	}
	if desc.MipLevels > 1 {
		flags |= headerFlagsMipMapCount
	}

	caps := uint32(surfaceFlagsTexture)
	if desc.MipLevels > 1 {
		caps |= surfaceFlagsMipMap | surfaceFlagsComplex
	}
	var caps2 uint32
	if desc.Cube {
		caps |= surfaceFlagsComplex
		caps2 = caps2Cubemap | caps2CubemapAllFaces
	}

	var miscFlag uint32
	if desc.Cube {
		miscFlag = miscFlagTextureCube
	}

	bw := w.bw
	bw.WriteUInt32(ddsMagic)
	bw.WriteUInt32(ddsHeaderSize)
	bw.WriteUInt32(flags)
	bw.WriteUInt32(uint32(desc.Height))
	bw.WriteUInt32(uint32(desc.Width))
	bw.WriteUInt32(pitchOrLinearSize)
	bw.WriteUInt32(0) // depth
	bw.WriteUInt32(uint32(desc.MipLevels))
	bw.WriteBytes(make([]byte, 44)) // reserved1
	bw.WriteUInt32(pixelFormatSize)
	bw.WriteUInt32(pixelFormatFourCC)
	bw.WriteUInt32(dx10FourCC)
	bw.WriteBytes(make([]byte, 20)) // bit counts and masks, zero for DX10
	bw.WriteUInt32(caps)
	bw.WriteUInt32(caps2)
	bw.WriteBytes(make([]byte, 12)) // caps3, caps4, reserved2
	// DX10 extension
	bw.WriteUInt32(desc.DXGIFormat)
	bw.WriteUInt32(resourceDimensionTexture2D)
	bw.WriteUInt32(miscFlag)
	bw.WriteUInt32(1) // arraySize
	bw.WriteUInt32(0) // miscFlags2

	if bw.Err != nil {
		return w.fail(fmt.Errorf("cannot write dds header: %w", bw.Err))
	}

	w.header = true
	return nil
}

// Append writes the payload of one (face, mip) level. Faces iterate in the
// outer position, mips in the inner, and every level must be present.
func (w *Writer) Append(face, mip int, data []byte) error {
	if w.failed {
		return fmt.Errorf("dds writer already failed")
	}
	if !w.header {
		return w.fail(fmt.Errorf("dds payload before header"))
	}
	if face != w.nextFace || mip != w.nextMip {
		return w.fail(fmt.Errorf("dds level out of order: got face %d mip %d, want face %d mip %d", face, mip, w.nextFace, w.nextMip))
	}

	mw := mipDim(w.desc.Width, mip)
	mh := mipDim(w.desc.Height, mip)
	if want := LevelSize(w.desc.DXGIFormat, mw, mh); len(data) != want {
		return w.fail(fmt.Errorf("dds level face %d mip %d: got %d bytes, want %d", face, mip, len(data), want))
	}

	if !w.bw.WriteBytes(data) {
		return w.fail(fmt.Errorf("cannot write dds level face %d mip %d: %w", face, mip, w.bw.Err))
	}

	w.nextMip++
	if w.nextMip == w.desc.MipLevels {
		w.nextMip = 0
		w.nextFace++
	}
	return nil
}

// Complete reports whether every declared level has been appended.
func (w *Writer) Complete() error {
	if w.failed {
		return fmt.Errorf("dds writer already failed")
	}
	if !w.header || w.nextFace != w.faces {
		return w.fail(fmt.Errorf("dds container incomplete: %d/%d faces written", w.nextFace, w.faces))
	}
	return nil
}

func mipDim(d, mip int) int {
	d >>= uint(mip)
	if d < 1 {
		return 1
	}
	return d
}
