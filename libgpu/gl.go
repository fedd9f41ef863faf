package libgpu

import (
	"fmt"
	"strings"

	"texc/libutil"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// glDevice implements Device on an OpenGL 4.5 core context using DSA
// calls. Submission is eager: draw commands execute inside Submit, view
// state is applied from the view table at that point. Reads are retired
// in Frame behind a glFinish, so the completed token always equals the
// submitted one.
type glDevice struct {
	textures     map[TextureHandle]*glTexture
	buffers      map[BufferHandle]*glBuffer
	programs     map[ProgramHandle]uint32
	framebuffers map[FrameBufferHandle]*glFramebuffer
	views        map[ViewId]*glView
	nextId       uint32

	vertexBuf BufferHandle
	uniforms  map[string]mgl32.Vec4

	pending []glPendingRead
	frame   FrameToken
}

type glTexture struct {
	glId   uint32
	target uint32
	width  int
	height int
	format TextureFormat
}

type glBuffer struct {
	glId  uint32
	vaoId uint32
	count int32
}

type glFramebuffer struct {
	glId uint32
	tex  TextureHandle
}

type glView struct {
	fb       FrameBufferHandle
	width    int
	height   int
	clear    [4]float32
	hasClear bool
	viewMat  mgl32.Mat4
	projMat  mgl32.Mat4
}

// NewGlDevice wraps the current OpenGL context. gl.Init must have been
// called on the calling thread.
func NewGlDevice() Device {
	return &glDevice{
		textures:     map[TextureHandle]*glTexture{},
		buffers:      map[BufferHandle]*glBuffer{},
		programs:     map[ProgramHandle]uint32{},
		framebuffers: map[FrameBufferHandle]*glFramebuffer{},
		views:        map[ViewId]*glView{},
		nextId:       1,
		uniforms:     map[string]mgl32.Vec4{},
	}
}

func (dev *glDevice) Caps() Caps {
	// OpenGL's screen space origin is bottom-left.
	return Caps{YFlip: true}
}

func glInternalFormat(format TextureFormat) uint32 {
	if format == TexRGBA32F {
		return gl.RGBA32F
	}
	return gl.RGBA16F
}

func glPixelType(format TextureFormat) uint32 {
	if format == TexRGBA32F {
		return gl.FLOAT
	}
	return gl.HALF_FLOAT
}

func (dev *glDevice) CreateTexture2D(width, height int, format TextureFormat, flags TextureFlags, data []byte) (TextureHandle, error) {
	var id uint32
	gl.CreateTextures(gl.TEXTURE_2D, 1, &id)
	gl.TextureStorage2D(id, 1, glInternalFormat(format), int32(width), int32(height))
	if data != nil {
		gl.TextureSubImage2D(id, 0, 0, 0, int32(width), int32(height), gl.RGBA, gl.FLOAT, libutil.Pointer(data))
	}
	gl.TextureParameteri(id, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TextureParameteri(id, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TextureParameteri(id, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TextureParameteri(id, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	handle := TextureHandle(dev.nextId)
	dev.nextId++
	dev.textures[handle] = &glTexture{
		glId:   id,
		target: gl.TEXTURE_2D,
		width:  width,
		height: height,
		format: format,
	}
	return handle, nil
}

func (dev *glDevice) CreateTextureCube(size, mips int, format TextureFormat, flags TextureFlags) (TextureHandle, error) {
	var id uint32
	gl.CreateTextures(gl.TEXTURE_CUBE_MAP, 1, &id)
	gl.TextureStorage2D(id, int32(mips), glInternalFormat(format), int32(size), int32(size))
	gl.TextureParameteri(id, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TextureParameteri(id, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TextureParameteri(id, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	if mips > 1 {
		gl.TextureParameteri(id, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	} else {
		gl.TextureParameteri(id, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
	gl.TextureParameteri(id, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TextureParameteri(id, gl.TEXTURE_MAX_LEVEL, int32(mips-1))

	handle := TextureHandle(dev.nextId)
	dev.nextId++
	dev.textures[handle] = &glTexture{
		glId:   id,
		target: gl.TEXTURE_CUBE_MAP,
		width:  size,
		height: size,
		format: format,
	}
	return handle, nil
}

func (dev *glDevice) DestroyTexture(tex TextureHandle) {
	t, ok := dev.textures[tex]
	if !ok {
		return
	}
	gl.DeleteTextures(1, &t.glId)
	delete(dev.textures, tex)
}

func (dev *glDevice) CreateVertexBuffer(data []float32, stride int) (BufferHandle, error) {
	var vbo uint32
	gl.CreateBuffers(1, &vbo)
	gl.NamedBufferStorage(vbo, len(data)*4, libutil.Pointer(data), 0)

	var vao uint32
	gl.CreateVertexArrays(1, &vao)
	gl.EnableVertexArrayAttrib(vao, 0)
	gl.VertexArrayAttribFormat(vao, 0, 3, gl.FLOAT, false, 0)
	gl.VertexArrayAttribBinding(vao, 0, 0)
	gl.VertexArrayVertexBuffer(vao, 0, vbo, 0, int32(stride))

	handle := BufferHandle(dev.nextId)
	dev.nextId++
	dev.buffers[handle] = &glBuffer{
		glId:  vbo,
		vaoId: vao,
		count: int32(len(data) * 4 / stride),
	}
	return handle, nil
}

func (dev *glDevice) DestroyBuffer(buf BufferHandle) {
	b, ok := dev.buffers[buf]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &b.vaoId)
	gl.DeleteBuffers(1, &b.glId)
	delete(dev.buffers, buf)
}

func (dev *glDevice) CreateProgram(vertSrc, fragSrc string) (ProgramHandle, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vert)
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(frag)

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var length int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &length)
		log := strings.Repeat("\x00", int(length)+1)
		gl.GetProgramInfoLog(prog, length, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("cannot link program: %v", strings.TrimRight(log, "\x00"))
	}

	handle := ProgramHandle(dev.nextId)
	dev.nextId++
	dev.programs[handle] = prog
	return handle, nil
}

func compileShader(src string, stage uint32) (uint32, error) {
	id := gl.CreateShader(stage)
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(id, 1, csrc, nil)
	free()
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var length int32
		gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &length)
		log := strings.Repeat("\x00", int(length)+1)
		gl.GetShaderInfoLog(id, length, nil, gl.Str(log))
		gl.DeleteShader(id)
		return 0, fmt.Errorf("cannot compile shader: %v", strings.TrimRight(log, "\x00"))
	}
	return id, nil
}

func (dev *glDevice) DestroyProgram(prog ProgramHandle) {
	p, ok := dev.programs[prog]
	if !ok {
		return
	}
	gl.DeleteProgram(p)
	delete(dev.programs, prog)
}

func (dev *glDevice) CreateFrameBuffer(width, height int, format TextureFormat) (FrameBufferHandle, error) {
	tex, err := dev.CreateTexture2D(width, height, format, FlagRenderTarget, nil)
	if err != nil {
		return 0, err
	}

	var id uint32
	gl.CreateFramebuffers(1, &id)
	gl.NamedFramebufferTexture(id, gl.COLOR_ATTACHMENT0, dev.textures[tex].glId, 0)
	drawBuffer := uint32(gl.COLOR_ATTACHMENT0)
	gl.NamedFramebufferDrawBuffers(id, 1, &drawBuffer)

	if status := gl.CheckNamedFramebufferStatus(id, gl.DRAW_FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &id)
		dev.DestroyTexture(tex)
		return 0, fmt.Errorf("framebuffer incomplete: %X", status)
	}

	handle := FrameBufferHandle(dev.nextId)
	dev.nextId++
	dev.framebuffers[handle] = &glFramebuffer{glId: id, tex: tex}
	return handle, nil
}

func (dev *glDevice) FrameBufferTexture(fb FrameBufferHandle) TextureHandle {
	return dev.framebuffers[fb].tex
}

func (dev *glDevice) DestroyFrameBuffer(fb FrameBufferHandle) {
	f, ok := dev.framebuffers[fb]
	if !ok {
		return
	}
	gl.DeleteFramebuffers(1, &f.glId)
	dev.DestroyTexture(f.tex)
	delete(dev.framebuffers, fb)
}

func (dev *glDevice) view(view ViewId) *glView {
	v, ok := dev.views[view]
	if !ok {
		v = &glView{}
		dev.views[view] = v
	}
	return v
}

func (dev *glDevice) SetViewFrameBuffer(view ViewId, fb FrameBufferHandle) {
	dev.view(view).fb = fb
}

func (dev *glDevice) SetViewRect(view ViewId, width, height int) {
	v := dev.view(view)
	v.width = width
	v.height = height
}

func (dev *glDevice) SetViewClear(view ViewId, r, g, b, a float32) {
	v := dev.view(view)
	v.clear = [4]float32{r, g, b, a}
	v.hasClear = true
}

func (dev *glDevice) SetViewTransform(view ViewId, viewMat, projMat mgl32.Mat4) {
	v := dev.view(view)
	v.viewMat = viewMat
	v.projMat = projMat
}

func (dev *glDevice) SetVertexBuffer(buf BufferHandle) {
	dev.vertexBuf = buf
}

func (dev *glDevice) SetTexture(unit int, tex TextureHandle) {
	gl.BindTextureUnit(uint32(unit), dev.textures[tex].glId)
}

func (dev *glDevice) SetUniform(name string, value mgl32.Vec4) {
	dev.uniforms[name] = value
}

func (dev *glDevice) Submit(view ViewId, prog ProgramHandle) {
	v := dev.view(view)
	p := dev.programs[prog]
	fb := dev.framebuffers[v.fb]

	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fb.glId)
	gl.Viewport(0, 0, int32(v.width), int32(v.height))
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	if v.hasClear {
		gl.ClearNamedFramebufferfv(fb.glId, gl.COLOR, 0, &v.clear[0])
	}

	gl.UseProgram(p)
	setMat4(p, "u_view_mat", v.viewMat)
	setMat4(p, "u_projection_mat", v.projMat)
	for name, value := range dev.uniforms {
		if loc := uniformLocation(p, name); loc >= 0 {
			gl.ProgramUniform4fv(p, loc, 1, &value[0])
		}
	}

	buf := dev.buffers[dev.vertexBuf]
	gl.BindVertexArray(buf.vaoId)
	gl.DrawArrays(gl.TRIANGLES, 0, buf.count)
}

func setMat4(prog uint32, name string, m mgl32.Mat4) {
	if loc := uniformLocation(prog, name); loc >= 0 {
		gl.ProgramUniformMatrix4fv(prog, loc, 1, false, &m[0])
	}
}

func uniformLocation(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

func (dev *glDevice) Blit(view ViewId, dst TextureHandle, dstFace, dstMip int, src TextureHandle, srcFace, srcMip int) {
	d := dev.textures[dst]
	s := dev.textures[src]
	w := libutil.MaxI(s.width>>srcMip, 1)
	h := libutil.MaxI(s.height>>srcMip, 1)
	gl.CopyImageSubData(
		s.glId, s.target, int32(srcMip), 0, 0, int32(zOffset(s, srcFace)),
		d.glId, d.target, int32(dstMip), 0, 0, int32(zOffset(d, dstFace)),
		int32(w), int32(h), 1)
}

func zOffset(t *glTexture, face int) int {
	if t.target == gl.TEXTURE_CUBE_MAP {
		return face
	}
	return 0
}

func (dev *glDevice) ReadTexture(tex TextureHandle, dst []byte) FrameToken {
	dev.pending = append(dev.pending, glPendingRead{
		tex:   tex,
		dst:   dst,
		token: dev.frame + 1,
	})
	return dev.frame + 1
}

type glPendingRead struct {
	tex   TextureHandle
	dst   []byte
	token FrameToken
}

func (dev *glDevice) Frame() FrameToken {
	dev.frame++
	gl.Finish()
	for _, r := range dev.pending {
		t := dev.textures[r.tex]
		gl.GetTextureImage(t.glId, 0, gl.RGBA, glPixelType(t.format), int32(len(r.dst)), libutil.Pointer(r.dst))
	}
	dev.pending = dev.pending[:0]
	return dev.frame
}
