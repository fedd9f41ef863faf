package ibl_test

import (
	"testing"

	"texc/ibl"
)

func TestFaceViewsFlipSwapsVerticalFaces(t *testing.T) {
	plain := ibl.FaceViews(false)
	flipped := ibl.FaceViews(true)

	for face := ibl.CubeMapFace(0); face < 6; face++ {
		want := plain[face]
		switch face {
		case ibl.CubeMapPositiveY:
			want = plain[ibl.CubeMapNegativeY]
		case ibl.CubeMapNegativeY:
			want = plain[ibl.CubeMapPositiveY]
		}
		if flipped[face] != want {
			t.Errorf("face %d should only swap with its vertical partner under y flip", face)
		}
	}
}

func TestFaceViewsDistinct(t *testing.T) {
	views := ibl.FaceViews(false)
	for i := 0; i < 6; i++ {
		for j := i + 1; j < 6; j++ {
			if views[i] == views[j] {
				t.Errorf("faces %d and %d should not share a view matrix", i, j)
			}
		}
	}
}

func TestNewUnitCube(t *testing.T) {
	verts := ibl.NewUnitCube()
	if len(verts) != 36*3 {
		t.Fatalf("a unit cube should have 36 vertices but had %d", len(verts)/3)
	}
	for i, v := range verts {
		if v != 1 && v != -1 {
			t.Fatalf("vertex component %d should be on the unit cube but was %v", i, v)
		}
	}
}
