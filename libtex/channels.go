package libtex

import (
	"fmt"

	"github.com/chewxy/math32"

	"texc/libimg"
)

// BuildSurfaces runs the per-class channel codec: it turns a decoded RGBA
// image into the surface set that goes to compression.
func BuildSurfaces(img *libimg.RgbaLdr, class TextureClass) ([]*Surface, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if err := ValidateSize(w, h); err != nil {
		return nil, err
	}

	switch class {
	case ClassAlbedoRoughness:
		s := NewSurfaceFromBytes(w, h, img.Pix)
		s.HasAlpha = true
		return []*Surface{s}, nil

	case ClassNormalMetalnessAO:
		src := NewSurfaceFromBytes(w, h, img.Pix)

		normal := NewSurface(w, h)
		normal.NormalMap = true
		copy(normal.Chans[0], src.Chans[0])
		copy(normal.Chans[1], src.Chans[1])
		for i := range normal.Chans[2] {
			normal.Chans[2][i] = ReconstructNormalZ(src.Chans[0][i], src.Chans[1][i])
			normal.Chans[3][i] = 1
		}

		metalAO := NewSurface(w, h)
		copy(metalAO.Chans[2], src.Chans[2])
		copy(metalAO.Chans[3], src.Chans[3])

		return []*Surface{normal, metalAO}, nil

	case ClassParallax:
		// only the height channel is meaningful
		s := NewSurfaceFromBytes(w, h, img.Pix)
		return []*Surface{s}, nil
	}

	return nil, fmt.Errorf("class %v has no channel codec", class)
}

// ReconstructNormalZ derives the implicit z channel of a tangent-space
// normal map from its packed x and y channels. Pixels whose xy projection
// already exceeds unit length are broken normals and map to flat (0.5).
func ReconstructNormalZ(rn, gn float32) float32 {
	x := rn*2 - 1
	y := gn*2 - 1
	d := x*x + y*y
	if d < 1 {
		return math32.Sqrt(1-d)*0.5 + 0.5
	}
	return 0.5
}
