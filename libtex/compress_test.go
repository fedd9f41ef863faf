package libtex_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"texc/libdds"
	"texc/libtex"
)

func TestCompress2DLossless(t *testing.T) {
	s := libtex.NewSurface(4, 4)
	for i := 0; i < 16; i++ {
		s.Chans[0][i] = 1
		s.Chans[3][i] = 1
	}

	var buf bytes.Buffer
	mc, err := libtex.NewMipCompressor2D(&buf, nil, 4, 4, libtex.FormatRawRGBA8)
	if err != nil {
		t.Fatal(err)
	}
	if mc.Mips() != 3 {
		t.Fatalf("4x4 chain should hold 3 mips but holds %d", mc.Mips())
	}

	if err := mc.Compress2D(s); err != nil {
		t.Fatal(err)
	}

	// header plus 4x4, 2x2 and 1x1 raw rgba levels
	b := buf.Bytes()
	want := 148 + 64 + 16 + 4
	if len(b) != want {
		t.Fatalf("container should be %d bytes but was %d", want, len(b))
	}
	if got := binary.LittleEndian.Uint32(b[28:]); got != 3 {
		t.Errorf("header should declare 3 mips but declared %d", got)
	}
	if got := binary.LittleEndian.Uint32(b[128:]); got != libdds.DXGIFormatRGBA8Unorm {
		t.Errorf("header should declare RGBA8 but declared %d", got)
	}

	// a constant red surface stays constant red through the chain
	for _, off := range []int{148, 148 + 64, 148 + 64 + 16} {
		if b[off] != 255 || b[off+1] != 0 || b[off+2] != 0 || b[off+3] != 255 {
			t.Errorf("level at %d should be opaque red but was % x", off, b[off:off+4])
		}
	}
}

func TestCompress2DBlockFormats(t *testing.T) {
	s := libtex.NewSurface(4, 4)
	for i := 0; i < 16; i++ {
		s.Chans[0][i] = 0.5
		s.Chans[3][i] = 1
	}

	cases := []struct {
		format libtex.Format
		// payload of the full 3 level chain, one block per level
		payload int
	}{
		{libtex.FormatBC7, 48},
		{libtex.FormatBC3, 48},
		{libtex.FormatBC4, 24},
		{libtex.FormatBC6H, 48},
	}

	for _, c := range cases {
		var buf bytes.Buffer
		mc, err := libtex.NewMipCompressor2D(&buf, nil, 4, 4, c.format)
		if err != nil {
			t.Fatal(err)
		}
		if err := mc.Compress2D(s.Clone()); err != nil {
			t.Fatal(err)
		}
		if got := buf.Len() - 148; got != c.payload {
			t.Errorf("%v payload should be %d bytes but was %d", c.format, c.payload, got)
		}
	}
}

func TestWriteSurfaceCube(t *testing.T) {
	var buf bytes.Buffer
	mc, err := libtex.NewMipCompressorCube(&buf, nil, 2, 2, libtex.FormatRawRGBA16F)
	if err != nil {
		t.Fatal(err)
	}

	for face := 0; face < 6; face++ {
		for mip := 0; mip < 2; mip++ {
			size := 2 >> mip
			if err := mc.WriteSurface(face, mip, libtex.NewSurface(size, size)); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := mc.Complete(); err != nil {
		t.Fatal(err)
	}

	// 6 faces of a 2x2 and a 1x1 RGBA16F level
	want := 148 + 6*(32+8)
	if buf.Len() != want {
		t.Errorf("container should be %d bytes but was %d", want, buf.Len())
	}
}

func TestWriteSurfaceRejectsWrongSize(t *testing.T) {
	var buf bytes.Buffer
	mc, err := libtex.NewMipCompressorCube(&buf, nil, 2, 2, libtex.FormatRawRGBA16F)
	if err != nil {
		t.Fatal(err)
	}
	if err := mc.WriteSurface(0, 0, libtex.NewSurface(4, 4)); err == nil {
		t.Errorf("surface sized unlike its level should be rejected")
	}
}
