// Package gputest provides a deterministic in-memory implementation of
// libgpu.Device for tests. Submitted draws run a per-pixel shade func,
// readbacks complete only after a configurable number of frames, and the
// destination buffer stays poisoned until then, so any consumer that
// touches a result before observing its token produces visibly broken
// data instead of silently passing.
package gputest

import (
	"fmt"

	"texc/libbc"
	"texc/libgpu"
	"texc/libutil"

	"github.com/go-gl/mathgl/mgl32"
)

// PoisonByte fills every readback destination until its token completes.
const PoisonByte = 0xee

// View carries the per-view state visible to a ShadeFunc.
type View struct {
	FrameBuffer libgpu.FrameBufferHandle
	Width       int
	Height      int
	Clear       [4]float32
	HasClear    bool
	ViewMat     mgl32.Mat4
	ProjMat     mgl32.Mat4
}

// ShadeFunc produces the color of one pixel of a submitted draw.
type ShadeFunc func(view *View, uniforms map[string]mgl32.Vec4, x, y int) [4]float32

type texture struct {
	cube  bool
	size  int
	mips  int
	faces [][][]float32 // face, mip, rgba pixels
}

type frameBuffer struct {
	tex    libgpu.TextureHandle
	width  int
	height int
}

type pendingRead struct {
	pixels []float32
	dst    []byte
	token  libgpu.FrameToken
}

type Device struct {
	// Latency is the number of extra frames between submitting a read and
	// its completion. Zero completes reads on the next Frame call.
	Latency int
	// YFlip is reported through Caps.
	YFlip bool
	// OnProgram maps shader sources to a shade func at CreateProgram
	// time. When nil, draws write a constant quarter-gray.
	OnProgram func(vertSrc, fragSrc string) ShadeFunc

	// Events records every submit, blit, read and frame in order.
	Events []string

	textures     map[libgpu.TextureHandle]*texture
	frameBuffers map[libgpu.FrameBufferHandle]*frameBuffer
	programs     map[libgpu.ProgramHandle]ShadeFunc
	views        map[libgpu.ViewId]*View
	uniforms     map[string]mgl32.Vec4
	vertexBuf    libgpu.BufferHandle
	boundTex     map[int]libgpu.TextureHandle
	nextId       uint32

	pending []pendingRead
	frame   libgpu.FrameToken

	liveTextures int
	liveBuffers  int
	livePrograms int
}

func NewDevice() *Device {
	return &Device{
		textures:     map[libgpu.TextureHandle]*texture{},
		frameBuffers: map[libgpu.FrameBufferHandle]*frameBuffer{},
		programs:     map[libgpu.ProgramHandle]ShadeFunc{},
		views:        map[libgpu.ViewId]*View{},
		uniforms:     map[string]mgl32.Vec4{},
		boundTex:     map[int]libgpu.TextureHandle{},
		nextId:       1,
	}
}

func (dev *Device) Caps() libgpu.Caps {
	return libgpu.Caps{YFlip: dev.YFlip}
}

func (dev *Device) record(format string, args ...any) {
	dev.Events = append(dev.Events, fmt.Sprintf(format, args...))
}

// PendingReads reports scheduled readbacks whose token has not completed.
// A clean pipeline run leaves zero behind.
func (dev *Device) PendingReads() int {
	return len(dev.pending)
}

// LiveResources reports resources created but not destroyed.
func (dev *Device) LiveResources() int {
	return dev.liveTextures + dev.liveBuffers + dev.livePrograms
}

// Texture returns the rgba pixels of one face and mip for assertions.
func (dev *Device) Texture(tex libgpu.TextureHandle, face, mip int) []float32 {
	return dev.textures[tex].faces[face][mip]
}

func (dev *Device) CreateTexture2D(width, height int, format libgpu.TextureFormat, flags libgpu.TextureFlags, data []byte) (libgpu.TextureHandle, error) {
	t := &texture{
		size:  width,
		mips:  1,
		faces: [][][]float32{{make([]float32, width*height*4)}},
	}
	if data != nil {
		copy(t.faces[0][0], libutil.AsFloats(data))
	}
	handle := libgpu.TextureHandle(dev.nextId)
	dev.nextId++
	dev.textures[handle] = t
	dev.liveTextures++
	return handle, nil
}

func (dev *Device) CreateTextureCube(size, mips int, format libgpu.TextureFormat, flags libgpu.TextureFlags) (libgpu.TextureHandle, error) {
	t := &texture{
		cube: true,
		size: size,
		mips: mips,
	}
	t.faces = make([][][]float32, 6)
	for face := 0; face < 6; face++ {
		t.faces[face] = make([][]float32, mips)
		for mip := 0; mip < mips; mip++ {
			s := size >> mip
			if s < 1 {
				s = 1
			}
			t.faces[face][mip] = make([]float32, s*s*4)
		}
	}
	handle := libgpu.TextureHandle(dev.nextId)
	dev.nextId++
	dev.textures[handle] = t
	dev.liveTextures++
	return handle, nil
}

func (dev *Device) DestroyTexture(tex libgpu.TextureHandle) {
	if _, ok := dev.textures[tex]; ok {
		delete(dev.textures, tex)
		dev.liveTextures--
	}
}

func (dev *Device) CreateVertexBuffer(data []float32, stride int) (libgpu.BufferHandle, error) {
	handle := libgpu.BufferHandle(dev.nextId)
	dev.nextId++
	dev.liveBuffers++
	return handle, nil
}

func (dev *Device) DestroyBuffer(buf libgpu.BufferHandle) {
	dev.liveBuffers--
}

func (dev *Device) CreateProgram(vertSrc, fragSrc string) (libgpu.ProgramHandle, error) {
	shade := ShadeFunc(nil)
	if dev.OnProgram != nil {
		shade = dev.OnProgram(vertSrc, fragSrc)
	}
	if shade == nil {
		shade = func(view *View, uniforms map[string]mgl32.Vec4, x, y int) [4]float32 {
			return [4]float32{0.25, 0.25, 0.25, 1}
		}
	}
	handle := libgpu.ProgramHandle(dev.nextId)
	dev.nextId++
	dev.programs[handle] = shade
	dev.livePrograms++
	return handle, nil
}

func (dev *Device) DestroyProgram(prog libgpu.ProgramHandle) {
	if _, ok := dev.programs[prog]; ok {
		delete(dev.programs, prog)
		dev.livePrograms--
	}
}

func (dev *Device) CreateFrameBuffer(width, height int, format libgpu.TextureFormat) (libgpu.FrameBufferHandle, error) {
	tex, _ := dev.CreateTexture2D(width, height, format, libgpu.FlagRenderTarget, nil)
	handle := libgpu.FrameBufferHandle(dev.nextId)
	dev.nextId++
	dev.frameBuffers[handle] = &frameBuffer{tex: tex, width: width, height: height}
	return handle, nil
}

func (dev *Device) FrameBufferTexture(fb libgpu.FrameBufferHandle) libgpu.TextureHandle {
	return dev.frameBuffers[fb].tex
}

func (dev *Device) DestroyFrameBuffer(fb libgpu.FrameBufferHandle) {
	f, ok := dev.frameBuffers[fb]
	if !ok {
		return
	}
	dev.DestroyTexture(f.tex)
	delete(dev.frameBuffers, fb)
}

func (dev *Device) view(view libgpu.ViewId) *View {
	v, ok := dev.views[view]
	if !ok {
		v = &View{}
		dev.views[view] = v
	}
	return v
}

func (dev *Device) SetViewFrameBuffer(view libgpu.ViewId, fb libgpu.FrameBufferHandle) {
	dev.view(view).FrameBuffer = fb
}

func (dev *Device) SetViewRect(view libgpu.ViewId, width, height int) {
	v := dev.view(view)
	v.Width = width
	v.Height = height
}

func (dev *Device) SetViewClear(view libgpu.ViewId, r, g, b, a float32) {
	v := dev.view(view)
	v.Clear = [4]float32{r, g, b, a}
	v.HasClear = true
}

func (dev *Device) SetViewTransform(view libgpu.ViewId, viewMat, projMat mgl32.Mat4) {
	v := dev.view(view)
	v.ViewMat = viewMat
	v.ProjMat = projMat
}

func (dev *Device) SetVertexBuffer(buf libgpu.BufferHandle) {
	dev.vertexBuf = buf
}

func (dev *Device) SetTexture(unit int, tex libgpu.TextureHandle) {
	dev.boundTex[unit] = tex
}

func (dev *Device) SetUniform(name string, value mgl32.Vec4) {
	dev.uniforms[name] = value
}

func (dev *Device) Submit(view libgpu.ViewId, prog libgpu.ProgramHandle) {
	v := dev.view(view)
	shade := dev.programs[prog]
	target := dev.textures[dev.frameBuffers[v.FrameBuffer].tex]

	uniforms := map[string]mgl32.Vec4{}
	for name, value := range dev.uniforms {
		uniforms[name] = value
	}

	pix := target.faces[0][0]
	for y := 0; y < v.Height; y++ {
		for x := 0; x < v.Width; x++ {
			c := shade(v, uniforms, x, y)
			copy(pix[(y*v.Width+x)*4:], c[:])
		}
	}
	dev.record("submit view=%d prog=%d", view, prog)
}

func (dev *Device) Blit(view libgpu.ViewId, dst libgpu.TextureHandle, dstFace, dstMip int, src libgpu.TextureHandle, srcFace, srcMip int) {
	s := dev.textures[src]
	d := dev.textures[dst]
	copy(d.faces[faceOf(d, dstFace)][dstMip], s.faces[faceOf(s, srcFace)][srcMip])
	dev.record("blit view=%d dst=%d face=%d mip=%d src=%d", view, dst, dstFace, dstMip, src)
}

func faceOf(t *texture, face int) int {
	if t.cube {
		return face
	}
	return 0
}

func (dev *Device) ReadTexture(tex libgpu.TextureHandle, dst []byte) libgpu.FrameToken {
	for i := range dst {
		dst[i] = PoisonByte
	}
	t := dev.textures[tex]
	pixels := make([]float32, len(t.faces[0][0]))
	copy(pixels, t.faces[0][0])

	token := dev.frame + 1 + libgpu.FrameToken(dev.Latency)
	dev.pending = append(dev.pending, pendingRead{
		pixels: pixels,
		dst:    dst,
		token:  token,
	})
	dev.record("read tex=%d token=%d", tex, token)
	return token
}

func (dev *Device) Frame() libgpu.FrameToken {
	dev.frame++
	rest := dev.pending[:0]
	for _, r := range dev.pending {
		if r.token > dev.frame {
			rest = append(rest, r)
			continue
		}
		for i, v := range r.pixels {
			half := libbc.Float32ToHalf(v)
			r.dst[i*2] = byte(half)
			r.dst[i*2+1] = byte(half >> 8)
		}
	}
	dev.pending = rest
	dev.record("frame completed=%d", dev.frame)
	return dev.frame
}
