// Package ibl renders the image based lighting texture set on the GPU:
// an equirectangular HDR panorama is captured onto the six faces of a
// cube map, then convolved into a diffuse irradiance cube map and a
// roughness prefiltered specular cube map. All passes run against the
// narrow libgpu contract and read their results back per face and mip.
package ibl

import (
	_ "embed"
	"fmt"

	"texc/libgpu"
	"texc/libimg"
	"texc/libtex"
	"texc/libutil"

	"github.com/go-gl/mathgl/mgl32"
)

//go:embed capture.vert
var vertShaderSrc string

//go:embed capture.frag
var captureShaderSrc string

//go:embed irradiance.frag
var irradianceShaderSrc string

//go:embed prefilter.frag
var prefilterShaderSrc string

// MaxRoughnessMip caps the mip level that maps to full roughness. Mips
// below it spread the roughness range, deeper mips stay fully rough.
const MaxRoughnessMip = 4

type Pipeline struct {
	dev            libgpu.Device
	captureProg    libgpu.ProgramHandle
	irradianceProg libgpu.ProgramHandle
	prefilterProg  libgpu.ProgramHandle
	cubeVbo        libgpu.BufferHandle
	views          [6]mgl32.Mat4
	proj           mgl32.Mat4
}

func NewPipeline(dev libgpu.Device) (p *Pipeline, err error) {
	p = &Pipeline{
		dev:   dev,
		views: FaceViews(dev.Caps().YFlip),
		proj:  FaceProjection(),
	}
	defer func() {
		if err != nil {
			p.Release()
		}
	}()

	if p.captureProg, err = dev.CreateProgram(vertShaderSrc, captureShaderSrc); err != nil {
		return nil, fmt.Errorf("cannot create capture program: %w", err)
	}
	if p.irradianceProg, err = dev.CreateProgram(vertShaderSrc, irradianceShaderSrc); err != nil {
		return nil, fmt.Errorf("cannot create irradiance program: %w", err)
	}
	if p.prefilterProg, err = dev.CreateProgram(vertShaderSrc, prefilterShaderSrc); err != nil {
		return nil, fmt.Errorf("cannot create prefilter program: %w", err)
	}
	if p.cubeVbo, err = dev.CreateVertexBuffer(NewUnitCube(), 3*4); err != nil {
		return nil, fmt.Errorf("cannot create cube vertex buffer: %w", err)
	}
	return p, nil
}

func (p *Pipeline) Release() {
	if p.cubeVbo != 0 {
		p.dev.DestroyBuffer(p.cubeVbo)
	}
	if p.prefilterProg != 0 {
		p.dev.DestroyProgram(p.prefilterProg)
	}
	if p.irradianceProg != 0 {
		p.dev.DestroyProgram(p.irradianceProg)
	}
	if p.captureProg != 0 {
		p.dev.DestroyProgram(p.captureProg)
	}
	p.cubeVbo, p.prefilterProg, p.irradianceProg, p.captureProg = 0, 0, 0, 0
}

// Capture holds the cube map rendered from an equirectangular source,
// with every mip rendered at its own resolution.
type Capture struct {
	Cube libgpu.TextureHandle
	Size int
	Mips int

	p *Pipeline
}

// Capture projects the panorama onto all six faces at every mip size.
// Each mip is an independent render at its target resolution, not a
// downsample of the previous one, so filtering error never compounds
// across the chain.
func (p *Pipeline) Capture(va *libgpu.ViewAlloc, hdr *libimg.RgbaHdr, size int) (c *Capture, err error) {
	dev := p.dev

	hdrTex, err := dev.CreateTexture2D(hdr.Rect.Dx(), hdr.Rect.Dy(), libgpu.TexRGBA32F, 0, libutil.AsBytes(hdr.Pix))
	if err != nil {
		return nil, fmt.Errorf("cannot create %dx%d panorama texture: %w", hdr.Rect.Dx(), hdr.Rect.Dy(), err)
	}
	defer dev.DestroyTexture(hdrTex)

	mips := libtex.CountMips(size)
	cube, err := dev.CreateTextureCube(size, mips, libgpu.TexRGBA16F, libgpu.FlagBlitDst)
	if err != nil {
		return nil, fmt.Errorf("cannot create %d mip cube texture: %w", size, err)
	}
	c = &Capture{Cube: cube, Size: size, Mips: mips, p: p}
	defer func() {
		if err != nil {
			c.Release()
		}
	}()

	for mip := 0; mip < mips; mip++ {
		mipSize := libtex.MipSize(size, mip)
		for face := 0; face < 6; face++ {
			fb, err := dev.CreateFrameBuffer(mipSize, mipSize, libgpu.TexRGBA16F)
			if err != nil {
				return nil, fmt.Errorf("cannot create face %d mip %d render target: %w", face, mip, err)
			}

			view := va.Next()
			dev.SetViewFrameBuffer(view, fb)
			dev.SetViewRect(view, mipSize, mipSize)
			dev.SetViewClear(view, 0, 0, 0, 1)
			dev.SetViewTransform(view, p.views[face], p.proj)
			dev.SetTexture(0, hdrTex)
			dev.SetVertexBuffer(p.cubeVbo)
			dev.Submit(view, p.captureProg)

			dev.Blit(view, cube, face, mip, dev.FrameBufferTexture(fb), 0, 0)
			dev.DestroyFrameBuffer(fb)
		}
	}
	return c, nil
}

// ReadFace blocks until one face and mip of the captured cube is on the
// CPU, as packed RGBA16F pixels.
func (c *Capture) ReadFace(va *libgpu.ViewAlloc, face, mip int) ([]byte, error) {
	mipSize := libtex.MipSize(c.Size, mip)
	return libgpu.Readback(c.p.dev, va.Next(), c.Cube, face, mip, mipSize, mipSize)
}

func (c *Capture) Release() {
	if c.Cube != 0 {
		c.p.dev.DestroyTexture(c.Cube)
		c.Cube = 0
	}
}

// Irradiance convolves the captured cube into a single mip diffuse
// irradiance cube map, handing each face to emit right after its
// readback. One render target is alive at a time.
func (p *Pipeline) Irradiance(va *libgpu.ViewAlloc, c *Capture, size int, emit func(face int, data []byte) error) error {
	dev := p.dev
	for face := 0; face < 6; face++ {
		fb, err := dev.CreateFrameBuffer(size, size, libgpu.TexRGBA16F)
		if err != nil {
			return fmt.Errorf("cannot create irradiance face %d render target: %w", face, err)
		}

		view := va.Next()
		dev.SetViewFrameBuffer(view, fb)
		dev.SetViewRect(view, size, size)
		dev.SetViewClear(view, 0, 0, 0, 1)
		dev.SetViewTransform(view, p.views[face], p.proj)
		dev.SetTexture(0, c.Cube)
		dev.SetVertexBuffer(p.cubeVbo)
		dev.Submit(view, p.irradianceProg)

		data, err := libgpu.Readback(dev, va.Next(), dev.FrameBufferTexture(fb), 0, 0, size, size)
		dev.DestroyFrameBuffer(fb)
		if err != nil {
			return err
		}
		if err := emit(face, data); err != nil {
			return err
		}
	}
	return nil
}

// Prefilter renders the roughness prefiltered specular chain. Roughness
// grows with the mip level up to MaxRoughnessMip; the base capture
// resolution feeds the sample density correction in the shader. Render
// targets live per (face, mip) and are torn down after their readback.
func (p *Pipeline) Prefilter(va *libgpu.ViewAlloc, c *Capture, size int, emit func(face, mip, mipSize int, data []byte) error) error {
	dev := p.dev
	mips := libtex.CountMips(size)
	// face major, mip minor, matching the container layout so results can
	// stream straight into the writer
	for face := 0; face < 6; face++ {
		for mip := 0; mip < mips; mip++ {
			mipSize := libtex.MipSize(size, mip)
			roughness := float32(libutil.MinI(mip, MaxRoughnessMip)) / float32(MaxRoughnessMip)

			fb, err := dev.CreateFrameBuffer(mipSize, mipSize, libgpu.TexRGBA16F)
			if err != nil {
				return fmt.Errorf("cannot create prefilter face %d mip %d render target: %w", face, mip, err)
			}

			view := va.Next()
			dev.SetViewFrameBuffer(view, fb)
			dev.SetViewRect(view, mipSize, mipSize)
			dev.SetViewClear(view, 0, 0, 0, 1)
			dev.SetViewTransform(view, p.views[face], p.proj)
			dev.SetTexture(0, c.Cube)
			dev.SetVertexBuffer(p.cubeVbo)
			dev.SetUniform("u_settings", mgl32.Vec4{roughness, float32(c.Size), 0, 0})
			dev.Submit(view, p.prefilterProg)

			data, err := libgpu.Readback(dev, va.Next(), dev.FrameBufferTexture(fb), 0, 0, mipSize, mipSize)
			dev.DestroyFrameBuffer(fb)
			if err != nil {
				return err
			}
			if err := emit(face, mip, mipSize, data); err != nil {
				return err
			}
		}
	}
	return nil
}
