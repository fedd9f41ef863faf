package ibl

import "github.com/go-gl/mathgl/mgl32"

type CubeMapFace int

const (
	CubeMapPositiveX = CubeMapFace(iota)
	CubeMapNegativeX
	CubeMapPositiveY
	CubeMapNegativeY
	CubeMapPositiveZ
	CubeMapNegativeZ
)

const (
	CubeMapRight = CubeMapFace(iota)
	CubeMapLeft
	CubeMapTop
	CubeMapBottom
	CubeMapBack
	CubeMapFront
)

// FaceViews returns the six capture view matrices in face order. All
// passes share this one table; backends with a bottom-left screen space
// origin get the +Y/-Y rows swapped instead of a second table.
func FaceViews(yFlip bool) [6]mgl32.Mat4 {
	center := mgl32.Vec3{0.0, 0.0, 0.0}
	views := [6]mgl32.Mat4{
		mgl32.LookAtV(center, mgl32.Vec3{1.0, 0.0, 0.0}, mgl32.Vec3{0.0, -1.0, 0.0}),
		mgl32.LookAtV(center, mgl32.Vec3{-1.0, 0.0, 0.0}, mgl32.Vec3{0.0, -1.0, 0.0}),
		mgl32.LookAtV(center, mgl32.Vec3{0.0, -1.0, 0.0}, mgl32.Vec3{0.0, 0.0, -1.0}),
		mgl32.LookAtV(center, mgl32.Vec3{0.0, 1.0, 0.0}, mgl32.Vec3{0.0, 0.0, 1.0}),
		mgl32.LookAtV(center, mgl32.Vec3{0.0, 0.0, 1.0}, mgl32.Vec3{0.0, -1.0, 0.0}),
		mgl32.LookAtV(center, mgl32.Vec3{0.0, 0.0, -1.0}, mgl32.Vec3{0.0, -1.0, 0.0}),
	}
	if yFlip {
		views[CubeMapPositiveY], views[CubeMapNegativeY] = views[CubeMapNegativeY], views[CubeMapPositiveY]
	}
	return views
}

// FaceProjection is the shared 90 degree capture projection.
func FaceProjection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(90.0), 1.0, 0.1, 10.0)
}

// NewUnitCube returns the 36 positions of a unit cube rendered from the
// inside, three floats per vertex.
func NewUnitCube() []float32 {
	return []float32{
		-1, 1, -1, -1, -1, -1, 1, -1, -1,
		1, -1, -1, 1, 1, -1, -1, 1, -1,

		-1, -1, 1, -1, -1, -1, -1, 1, -1,
		-1, 1, -1, -1, 1, 1, -1, -1, 1,

		1, -1, -1, 1, -1, 1, 1, 1, 1,
		1, 1, 1, 1, 1, -1, 1, -1, -1,

		-1, -1, 1, -1, 1, 1, 1, 1, 1,
		1, 1, 1, 1, -1, 1, -1, -1, 1,

		-1, 1, -1, 1, 1, -1, 1, 1, 1,
		1, 1, 1, -1, 1, 1, -1, 1, -1,

		-1, -1, -1, -1, -1, 1, 1, -1, -1,
		1, -1, -1, -1, -1, 1, 1, -1, 1,
	}
}
