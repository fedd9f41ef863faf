package ibl_test

import (
	"bytes"
	"math/rand"
	"testing"

	"texc/ibl"
)

func TestRgbeChunkRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	data := make([]float32, 3*1000)
	for i := range data {
		data[i] = rng.Float32() * 100
	}

	buf := make([]byte, len(data)/3*4)
	n := ibl.EncodeRgbeChunk(3, data, buf)
	if n != len(buf) {
		t.Fatalf("encoding should produce %d bytes but produced %d", len(buf), n)
	}

	out := make([]float32, len(data))
	if n := ibl.DecodeRgbeChunk(3, buf, out); n != len(out) {
		t.Fatalf("decoding should produce %d floats but produced %d", len(out), n)
	}

	for i := range data {
		diff := data[i] - out[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > 0.5 {
			t.Fatalf("float %d should round trip within 0.5 but went %v -> %v", i, data[i], out[i])
		}
	}
}

func TestRgbeChunkZero(t *testing.T) {
	buf := make([]byte, 4)
	ibl.EncodeRgbeChunk(3, []float32{0, 0, 0}, buf)
	if buf[3] != 0 {
		t.Errorf("a black pixel should encode a zero exponent but was %d", buf[3])
	}

	out := make([]float32, 4)
	ibl.DecodeRgbeChunk(4, []byte{0, 0, 0, 0}, out)
	if out[0] != 0 || out[1] != 0 || out[2] != 0 || out[3] != 1 {
		t.Errorf("a zero exponent should decode to black, got %v", out)
	}
}

func TestRgbeStreamRoundTrip(t *testing.T) {
	// more than one 12 kib chunk
	rng := rand.New(rand.NewSource(7))
	data := make([]float32, 3*5000)
	for i := range data {
		data[i] = rng.Float32() * 100
	}

	w := &bytes.Buffer{}
	if err := ibl.EncodeRgbe(w, data, false); err != nil {
		t.Fatal(err)
	}
	if w.Len() != len(data)/3*4 {
		t.Fatalf("stream should hold %d bytes but held %d", len(data)/3*4, w.Len())
	}

	out, err := ibl.DecodeRgbe(bytes.NewReader(w.Bytes()), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(data) {
		t.Fatalf("stream should decode to %d floats but decoded to %d", len(data), len(out))
	}
	for i := range data {
		diff := data[i] - out[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > 0.5 {
			t.Fatalf("float %d should round trip within 0.5 but went %v -> %v", i, data[i], out[i])
		}
	}
}

func TestRgbeStreamRejectsPartialPixels(t *testing.T) {
	if err := ibl.EncodeRgbe(&bytes.Buffer{}, make([]float32, 5), false); err == nil {
		t.Error("a partial pixel should be rejected")
	}
}
