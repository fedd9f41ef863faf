package libtex_test

import (
	"image"
	"math"
	"testing"

	"texc/libimg"
	"texc/libtex"
)

func TestReconstructNormalZ(t *testing.T) {
	cases := []struct {
		r, g float32
		want float32
	}{
		// flat normal (0,0) packs to exactly 1.0
		{0.5, 0.5, 1.0},
		// d == 1 is already degenerate
		{1.0, 0.5, 0.5},
		{0.5, 1.0, 0.5},
		// d > 1 clamps to flat
		{1.0, 1.0, 0.5},
		{0.0, 0.0, 0.5},
	}

	for _, c := range cases {
		got := libtex.ReconstructNormalZ(c.r, c.g)
		if math.Abs(float64(got-c.want)) > 1e-6 {
			t.Errorf("z(%v, %v) should be %v but was %v", c.r, c.g, c.want, got)
		}
	}
}

func ldrImage(w, h int, pix []uint8) *libimg.RgbaLdr {
	return &libimg.RgbaLdr{
		Pix:    pix,
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}
}

func TestBuildSurfacesNormal(t *testing.T) {
	// both pixels carry metalness 51 and ao 102; the first is a broken
	// normal (x=y=1), the second is flat
	img := ldrImage(2, 1, []uint8{
		255, 255, 51, 102,
		128, 128, 51, 102,
	})

	surfaces, err := libtex.BuildSurfaces(img, libtex.ClassNormalMetalnessAO)
	if err != nil {
		t.Fatal(err)
	}
	if len(surfaces) != 2 {
		t.Fatalf("should build 2 surfaces but built %d", len(surfaces))
	}

	normal, metalAO := surfaces[0], surfaces[1]
	if !normal.NormalMap {
		t.Errorf("normal surface not tagged as vector map")
	}
	if metalAO.NormalMap {
		t.Errorf("metal/ao surface tagged as vector map")
	}

	if z := normal.Chans[2][0]; z != 0.5 {
		t.Errorf("broken normal should reconstruct z 0.5 but was %v", z)
	}
	for i := 0; i < 2; i++ {
		if a := normal.Chans[3][i]; a != 1 {
			t.Errorf("normal alpha %d should be 1 but was %v", i, a)
		}
	}

	if m := metalAO.Chans[2][0]; math.Abs(float64(m-51.0/255)) > 1e-6 {
		t.Errorf("metalness should be %v but was %v", 51.0/255, m)
	}
	if ao := metalAO.Chans[3][1]; math.Abs(float64(ao-102.0/255)) > 1e-6 {
		t.Errorf("ambient occlusion should be %v but was %v", 102.0/255, ao)
	}
}

func TestBuildSurfacesAlbedo(t *testing.T) {
	img := ldrImage(1, 1, []uint8{255, 0, 51, 204})

	surfaces, err := libtex.BuildSurfaces(img, libtex.ClassAlbedoRoughness)
	if err != nil {
		t.Fatal(err)
	}
	if len(surfaces) != 1 {
		t.Fatalf("should build 1 surface but built %d", len(surfaces))
	}

	s := surfaces[0]
	if !s.HasAlpha {
		t.Errorf("albedo surface should carry alpha")
	}
	want := []float32{1, 0, 51.0 / 255, 204.0 / 255}
	for c := 0; c < 4; c++ {
		if got := s.Chans[c][0]; math.Abs(float64(got-want[c])) > 1e-6 {
			t.Errorf("channel %d should be %v but was %v", c, want[c], got)
		}
	}
}

func TestBuildSurfacesRejectsNonPowerOfTwo(t *testing.T) {
	img := ldrImage(3, 4, make([]uint8, 3*4*4))
	if _, err := libtex.BuildSurfaces(img, libtex.ClassAlbedoRoughness); err == nil {
		t.Errorf("3x4 input should be rejected")
	}
}
