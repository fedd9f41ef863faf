// Package libgpu defines the narrow rendering contract the texture
// pipeline runs against. The contract is view based: per-view state is
// set up front, draws are submitted against a view id, and the only
// cross-device synchronization is the monotonically increasing frame
// token returned by ReadTexture and Frame.
package libgpu

import (
	"github.com/go-gl/mathgl/mgl32"
)

type TextureHandle uint32
type BufferHandle uint32
type ProgramHandle uint32
type FrameBufferHandle uint32
type ViewId uint16

// FrameToken orders readbacks against frame retirement. A result buffer
// handed to ReadTexture is valid only once a later Frame call returns a
// token >= the one ReadTexture returned.
type FrameToken uint64

type TextureFormat int

const (
	TexRGBA16F TextureFormat = iota
	TexRGBA32F
)

type TextureFlags uint32

const (
	FlagRenderTarget TextureFlags = 1 << iota
	FlagBlitDst
	FlagReadBack
)

type Caps struct {
	// YFlip is set when the backend's screen space origin is bottom-left.
	// Consumers with a fixed view table swap the +Y/-Y rows instead of
	// keeping a second table.
	YFlip bool
}

type Device interface {
	Caps() Caps

	CreateTexture2D(width, height int, format TextureFormat, flags TextureFlags, data []byte) (TextureHandle, error)
	CreateTextureCube(size, mips int, format TextureFormat, flags TextureFlags) (TextureHandle, error)
	DestroyTexture(tex TextureHandle)

	CreateVertexBuffer(data []float32, stride int) (BufferHandle, error)
	DestroyBuffer(buf BufferHandle)

	CreateProgram(vertSrc, fragSrc string) (ProgramHandle, error)
	DestroyProgram(prog ProgramHandle)

	CreateFrameBuffer(width, height int, format TextureFormat) (FrameBufferHandle, error)
	FrameBufferTexture(fb FrameBufferHandle) TextureHandle
	DestroyFrameBuffer(fb FrameBufferHandle)

	SetViewFrameBuffer(view ViewId, fb FrameBufferHandle)
	SetViewRect(view ViewId, width, height int)
	SetViewClear(view ViewId, r, g, b, a float32)
	SetViewTransform(view ViewId, viewMat, projMat mgl32.Mat4)

	SetVertexBuffer(buf BufferHandle)
	SetTexture(unit int, tex TextureHandle)
	SetUniform(name string, value mgl32.Vec4)
	Submit(view ViewId, prog ProgramHandle)

	// Blit copies the full mip level srcMip of src (face srcFace when src
	// is a cube texture, ignored otherwise) into mip dstMip of dst.
	Blit(view ViewId, dst TextureHandle, dstFace, dstMip int, src TextureHandle, srcFace, srcMip int)

	// ReadTexture schedules a copy of mip 0 of tex into dst. The copy is
	// retired by a later Frame; dst must not be touched before the
	// returned token is observed complete.
	ReadTexture(tex TextureHandle, dst []byte) FrameToken

	// Frame retires all submitted work and returns the last completed
	// frame token.
	Frame() FrameToken
}

// ViewAlloc hands out view ids in submission order. The allocator is
// threaded explicitly through the pipeline stages so the schedule can be
// read off the call sites.
type ViewAlloc struct {
	next ViewId
}

func (va *ViewAlloc) Next() ViewId {
	v := va.next
	va.next++
	return v
}

func (va *ViewAlloc) Count() int {
	return int(va.next)
}
