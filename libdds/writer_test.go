package libdds_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"texc/libdds"
)

func u32(buf []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(buf[off:])
}

func TestHeaderLayout2D(t *testing.T) {
	var buf bytes.Buffer
	w := libdds.NewWriter(&buf, nil)

	err := w.Header(libdds.Desc{
		Width:      8,
		Height:     4,
		MipLevels:  4,
		DXGIFormat: libdds.DXGIFormatBC7Unorm,
	})
	if err != nil {
		t.Fatal(err)
	}

	b := buf.Bytes()
	if len(b) != 148 {
		t.Fatalf("header should be 148 bytes but was %d", len(b))
	}
	if got := u32(b, 0); got != 0x20534444 {
		t.Errorf("magic should be 'DDS ' but was 0x%08x", got)
	}
	if got := u32(b, 4); got != 124 {
		t.Errorf("header size should be 124 but was %d", got)
	}
	if got := u32(b, 12); got != 4 {
		t.Errorf("height should be 4 but was %d", got)
	}
	if got := u32(b, 16); got != 8 {
		t.Errorf("width should be 8 but was %d", got)
	}
	// linear size of the 8x4 BC7 base level: 2x1 blocks, 16 bytes each
	if got := u32(b, 20); got != 32 {
		t.Errorf("linear size should be 32 but was %d", got)
	}
	if got := u32(b, 28); got != 4 {
		t.Errorf("mip count should be 4 but was %d", got)
	}
	if got := u32(b, 84); got != 0x30315844 {
		t.Errorf("fourcc should be 'DX10' but was 0x%08x", got)
	}
	if got := u32(b, 128); got != libdds.DXGIFormatBC7Unorm {
		t.Errorf("dxgi format should be %d but was %d", libdds.DXGIFormatBC7Unorm, got)
	}
	if got := u32(b, 136); got != 0 {
		t.Errorf("misc flag should be 0 for a 2d texture but was 0x%x", got)
	}
	if got := u32(b, 140); got != 1 {
		t.Errorf("array size should be 1 but was %d", got)
	}
}

func TestHeaderLayoutCube(t *testing.T) {
	var buf bytes.Buffer
	w := libdds.NewWriter(&buf, nil)

	err := w.Header(libdds.Desc{
		Width:      32,
		Height:     32,
		MipLevels:  1,
		DXGIFormat: libdds.DXGIFormatRGBA16Float,
		Cube:       true,
	})
	if err != nil {
		t.Fatal(err)
	}

	b := buf.Bytes()
	if got := u32(b, 112); got != 0x200|0xfc00 {
		t.Errorf("caps2 should declare all cube faces but was 0x%x", got)
	}
	if got := u32(b, 136); got != 0x4 {
		t.Errorf("misc flag should mark a cube texture but was 0x%x", got)
	}
}

func TestAppendOrdering(t *testing.T) {
	var handled error
	var buf bytes.Buffer
	w := libdds.NewWriter(&buf, func(err error) { handled = err })

	err := w.Header(libdds.Desc{
		Width:      2,
		Height:     2,
		MipLevels:  2,
		DXGIFormat: libdds.DXGIFormatRGBA8Unorm,
		Cube:       true,
	})
	if err != nil {
		t.Fatal(err)
	}

	// mips iterate inner, faces outer; starting at mip 1 is out of order
	if err := w.Append(0, 1, make([]byte, 4)); err == nil {
		t.Fatal("out of order append should fail")
	}
	if handled == nil {
		t.Errorf("error handler should have been invoked")
	}
	if err := w.Append(0, 0, make([]byte, 16)); err == nil {
		t.Errorf("writer should stay failed after an ordering violation")
	}
}

func TestAppendPayloadSize(t *testing.T) {
	var buf bytes.Buffer
	w := libdds.NewWriter(&buf, nil)

	err := w.Header(libdds.Desc{
		Width:      4,
		Height:     4,
		MipLevels:  1,
		DXGIFormat: libdds.DXGIFormatBC4Unorm,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Append(0, 0, make([]byte, 16)); err == nil {
		t.Errorf("append should reject a payload sized for the wrong format")
	}
}

func TestCompleteFaceMajorLayout(t *testing.T) {
	var buf bytes.Buffer
	w := libdds.NewWriter(&buf, nil)

	err := w.Header(libdds.Desc{
		Width:      2,
		Height:     2,
		MipLevels:  2,
		DXGIFormat: libdds.DXGIFormatR8Unorm,
		Cube:       true,
	})
	if err != nil {
		t.Fatal(err)
	}

	for face := 0; face < 6; face++ {
		for mip := 0; mip < 2; mip++ {
			size := libdds.LevelSize(libdds.DXGIFormatR8Unorm, 2>>mip, 2>>mip)
			payload := bytes.Repeat([]byte{byte(face*10 + mip)}, size)
			if err := w.Append(face, mip, payload); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := w.Complete(); err != nil {
		t.Fatal(err)
	}

	// face f starts at 148 + f*(4+1); its mip 1 follows after 4 bytes
	b := buf.Bytes()
	for face := 0; face < 6; face++ {
		base := 148 + face*5
		if got := b[base]; got != byte(face*10) {
			t.Errorf("face %d mip 0 should hold %d but held %d", face, face*10, got)
		}
		if got := b[base+4]; got != byte(face*10+1) {
			t.Errorf("face %d mip 1 should hold %d but held %d", face, face*10+1, got)
		}
	}
}

func TestCompleteRejectsMissingLevels(t *testing.T) {
	var buf bytes.Buffer
	w := libdds.NewWriter(&buf, nil)

	err := w.Header(libdds.Desc{
		Width:      2,
		Height:     2,
		MipLevels:  2,
		DXGIFormat: libdds.DXGIFormatR8Unorm,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Append(0, 0, make([]byte, 4)); err != nil {
		t.Fatal(err)
	}
	if err := w.Complete(); err == nil {
		t.Errorf("incomplete container should be rejected")
	}
}

func TestLevelSize(t *testing.T) {
	cases := []struct {
		format uint32
		w, h   int
		want   int
	}{
		{libdds.DXGIFormatBC7Unorm, 4, 4, 16},
		{libdds.DXGIFormatBC7Unorm, 1, 1, 16},
		{libdds.DXGIFormatBC7Unorm, 8, 8, 64},
		{libdds.DXGIFormatBC4Unorm, 4, 4, 8},
		{libdds.DXGIFormatBC6HUF16, 5, 5, 64},
		{libdds.DXGIFormatRGBA8Unorm, 2, 2, 16},
		{libdds.DXGIFormatRGBA16Float, 2, 2, 32},
		{libdds.DXGIFormatR8Unorm, 4, 2, 8},
	}
	for _, c := range cases {
		if got := libdds.LevelSize(c.format, c.w, c.h); got != c.want {
			t.Errorf("LevelSize(%s, %d, %d) should be %d but was %d",
				libdds.FormatName(c.format), c.w, c.h, c.want, got)
		}
	}
}
