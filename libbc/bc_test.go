package libbc_test

import (
	"bytes"
	"testing"

	"texc/libbc"
)

func constPlane(n int, v float32) []float32 {
	p := make([]float32, n)
	for i := range p {
		p[i] = v
	}
	return p
}

func TestEncodedSizes(t *testing.T) {
	r := constPlane(8*8, 0.5)

	if got := len(libbc.EncodeBC4(r, 8, 8)); got != 4*8 {
		t.Errorf("8x8 BC4 should be %d bytes but was %d", 4*8, got)
	}
	if got := len(libbc.EncodeBC3(r, r, r, r, 8, 8)); got != 4*16 {
		t.Errorf("8x8 BC3 should be %d bytes but was %d", 4*16, got)
	}
	if got := len(libbc.EncodeBC7(r, r, r, r, 8, 8)); got != 4*16 {
		t.Errorf("8x8 BC7 should be %d bytes but was %d", 4*16, got)
	}
	if got := len(libbc.EncodeBC6H(r, r, r, 8, 8)); got != 4*16 {
		t.Errorf("8x8 BC6H should be %d bytes but was %d", 4*16, got)
	}

	// partial blocks round up
	p := constPlane(5*5, 0.5)
	if got := len(libbc.EncodeBC4(p, 5, 5)); got != 4*8 {
		t.Errorf("5x5 BC4 should pad to %d bytes but was %d", 4*8, got)
	}
}

func TestBC4ConstantBlock(t *testing.T) {
	out := libbc.EncodeBC4(constPlane(16, 0.5), 4, 4)

	want := []byte{128, 128, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(out, want) {
		t.Errorf("constant block should be % x but was % x", want, out)
	}
}

func TestBC4TwoValueBlock(t *testing.T) {
	plane := make([]float32, 16)
	for i := 0; i < 8; i++ {
		plane[i] = 1
	}

	out := libbc.EncodeBC4(plane, 4, 4)

	if out[0] != 255 || out[1] != 0 {
		t.Fatalf("endpoints should be 255/0 but were %d/%d", out[0], out[1])
	}

	var bits uint64
	for i := 0; i < 6; i++ {
		bits |= uint64(out[2+i]) << uint(8*i)
	}
	for i := 0; i < 16; i++ {
		idx := int(bits >> uint(3*i) & 7)
		want := 0
		if i >= 8 {
			want = 1
		}
		if idx != want {
			t.Errorf("texel %d index should be %d but was %d", i, want, idx)
		}
	}
}

func TestBC3ConstantBlock(t *testing.T) {
	r := constPlane(16, 1)
	g := constPlane(16, 0)
	b := constPlane(16, 0)
	a := constPlane(16, 1)

	out := libbc.EncodeBC3(r, g, b, a, 4, 4)
	if len(out) != 16 {
		t.Fatalf("block should be 16 bytes but was %d", len(out))
	}

	// alpha half: constant 255 endpoints, zero indices
	if out[0] != 255 || out[1] != 255 {
		t.Errorf("alpha endpoints should be 255/255 but were %d/%d", out[0], out[1])
	}
	for i := 2; i < 8; i++ {
		if out[i] != 0 {
			t.Errorf("alpha index byte %d should be 0 but was %d", i, out[i])
		}
	}

	// color half: both 565 endpoints encode pure red
	c0 := uint16(out[8]) | uint16(out[9])<<8
	c1 := uint16(out[10]) | uint16(out[11])<<8
	if c0 != 0xf800 || c1 != 0xf800 {
		t.Errorf("color endpoints should be 0xf800 but were 0x%04x/0x%04x", c0, c1)
	}
}

func TestBC7ConstantBlackBlock(t *testing.T) {
	z := constPlane(16, 0)
	out := libbc.EncodeBC7(z, z, z, z, 4, 4)

	// mode 6 bit, zero endpoints, zero p-bits, zero indices
	want := make([]byte, 16)
	want[0] = 0x40
	if !bytes.Equal(out, want) {
		t.Errorf("constant black block should be % x but was % x", want, out)
	}
}

func TestBC7ModeBit(t *testing.T) {
	r := constPlane(16, 0.8)
	g := constPlane(16, 0.3)
	b := constPlane(16, 0.1)
	a := constPlane(16, 1)

	out := libbc.EncodeBC7(r, g, b, a, 4, 4)
	if out[0]&0x7f != 0x40 {
		t.Errorf("block should select mode 6 but started with 0x%02x", out[0])
	}
}

func TestBC6HConstantBlackBlock(t *testing.T) {
	z := constPlane(16, 0)
	out := libbc.EncodeBC6H(z, z, z, 4, 4)

	want := make([]byte, 16)
	want[0] = 0x03
	if !bytes.Equal(out, want) {
		t.Errorf("constant black block should be % x but was % x", want, out)
	}
}

func TestBC6HModeBits(t *testing.T) {
	r := constPlane(16, 3.5)
	g := constPlane(16, 0.25)
	b := constPlane(16, 120)

	out := libbc.EncodeBC6H(r, g, b, 4, 4)
	if out[0]&0x1f != 0x03 {
		t.Errorf("block should select mode 11 but started with 0x%02x", out[0])
	}
}

func TestBC6HClampsNegative(t *testing.T) {
	neg := constPlane(16, -5)
	z := constPlane(16, 0)

	// negative input must encode like zero, the unsigned format cannot
	// represent it
	if !bytes.Equal(libbc.EncodeBC6H(neg, neg, neg, 4, 4), libbc.EncodeBC6H(z, z, z, 4, 4)) {
		t.Errorf("negative input should clamp to the zero block")
	}
}
