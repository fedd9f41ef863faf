package libtex_test

import (
	"math"
	"testing"

	"texc/libtex"
)

func TestCountMips(t *testing.T) {
	cases := []struct{ size, want int }{
		{1024, 11},
		{32, 6},
		{2, 2},
		{1, 1},
	}
	for _, c := range cases {
		if got := libtex.CountMips(c.size); got != c.want {
			t.Errorf("CountMips(%d) should be %d but was %d", c.size, c.want, got)
		}
	}

	if got := libtex.CountMips2D(8, 2); got != 4 {
		t.Errorf("CountMips2D(8, 2) should be 4 but was %d", got)
	}
}

func TestMipSize(t *testing.T) {
	if got := libtex.MipSize(8, 2); got != 2 {
		t.Errorf("MipSize(8, 2) should be 2 but was %d", got)
	}
	if got := libtex.MipSize(2, 4); got != 1 {
		t.Errorf("MipSize(2, 4) should clamp to 1 but was %d", got)
	}
}

func TestBuildNextMipBoxFilter(t *testing.T) {
	s := libtex.NewSurface(2, 2)
	s.Chans[0] = []float32{0, 1, 0, 1}
	s.Chans[1] = []float32{0, 0, 1, 1}

	s.BuildNextMip()

	if s.Width != 1 || s.Height != 1 {
		t.Fatalf("mip should be 1x1 but was %dx%d", s.Width, s.Height)
	}
	if got := s.Chans[0][0]; got != 0.5 {
		t.Errorf("channel 0 should average to 0.5 but was %v", got)
	}
	if got := s.Chans[1][0]; got != 0.5 {
		t.Errorf("channel 1 should average to 0.5 but was %v", got)
	}
}

func TestBuildNextMipNonSquare(t *testing.T) {
	s := libtex.NewSurface(4, 2)
	s.Chans[0] = []float32{
		0, 1, 2, 3,
		4, 5, 6, 7,
	}

	s.BuildNextMip()

	if s.Width != 2 || s.Height != 1 {
		t.Fatalf("mip should be 2x1 but was %dx%d", s.Width, s.Height)
	}
	want := []float32{(0 + 1 + 4 + 5) / 4.0, (2 + 3 + 6 + 7) / 4.0}
	for i, w := range want {
		if got := s.Chans[0][i]; got != w {
			t.Errorf("pixel %d should be %v but was %v", i, w, got)
		}
	}
}

func TestBuildNextMipRenormalizes(t *testing.T) {
	// two opposite x normals cancel out; the renormalized result must
	// fall back to the flat normal, not a zero vector
	s := libtex.NewSurface(2, 1)
	s.NormalMap = true
	s.Chans[0] = []float32{0, 1}
	s.Chans[1] = []float32{0.5, 0.5}
	s.Chans[2] = []float32{0.5, 0.5}
	s.Chans[3] = []float32{1, 1}

	s.BuildNextMip()

	if s.Width != 1 || s.Height != 1 {
		t.Fatalf("mip should be 1x1 but was %dx%d", s.Width, s.Height)
	}
	got := [3]float32{s.Chans[0][0], s.Chans[1][0], s.Chans[2][0]}
	want := [3]float32{0.5, 0.5, 1.0}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("renormalized channel %d should be %v but was %v", i, want[i], got[i])
		}
	}
}
