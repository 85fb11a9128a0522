// Package renderer issues the frame batch to OpenGL and reads the frame
// target back for export.
package renderer

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/VeggiesLabs/spinerender/internal/anim"
	"github.com/VeggiesLabs/spinerender/internal/engine/batch"
	"github.com/VeggiesLabs/spinerender/internal/engine/blend"
	"github.com/VeggiesLabs/spinerender/internal/engine/capture"
	"github.com/VeggiesLabs/spinerender/internal/engine/framebuffer"
	"github.com/VeggiesLabs/spinerender/internal/engine/shader"
	"github.com/VeggiesLabs/spinerender/internal/engine/texture"
	"github.com/VeggiesLabs/spinerender/internal/logger"
)

const (
	maxVertices = 1 << 16
	maxIndices  = 3 << 16
)

var vertexStride = int32(unsafe.Sizeof(batch.Vertex{}))

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	Clear  [4]float32
}

// Renderer owns the GL pipeline for skeletal mesh batches: one shader,
// one streaming vertex/index buffer pair, and the offscreen frame
// target. It also implements texture.Device so the texture cache can
// allocate and free page textures through it.
//
// Must be created after the GL context, on the context thread.
type Renderer struct {
	cfg Config

	program    uint32
	locWorld   int32
	locView    int32
	locTexture int32

	vao uint32
	vbo uint32
	ebo uint32

	fb     *framebuffer.Framebuffer
	binder *blend.Binder

	world mgl32.Mat4
	view  mgl32.Mat4
}

func New(cfg Config) (*Renderer, error) {
	r := &Renderer{cfg: cfg, world: mgl32.Ident4()}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	program, err := shader.CompileProgram(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	r.program = program
	r.locWorld = shader.GetUniform(program, "uWorld")
	r.locView = shader.GetUniform(program, "uView")
	r.locTexture = shader.GetUniform(program, "uTexture")

	fb, err := framebuffer.New(int32(cfg.Width), int32(cfg.Height))
	if err != nil {
		gl.DeleteProgram(program)
		return nil, err
	}
	r.fb = fb

	r.createBuffers()
	r.binder = blend.NewBinder(applyBlendState)

	// Paint order alone decides occlusion for 2D skeletal meshes.
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)

	w, h := float32(cfg.Width), float32(cfg.Height)
	r.view = mgl32.Ortho(-w*0.5, w*0.5, -h*0.5, h*0.5, -1, 1)

	return r, nil
}

func (r *Renderer) createBuffers() {
	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, maxVertices*int(vertexStride), nil, gl.STREAM_DRAW)

	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, maxIndices*2, nil, gl.STREAM_DRAW)

	// Interleaved layout: position, uv, color, dark color.
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, vertexStride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, vertexStride, 2*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 4, gl.FLOAT, false, vertexStride, 4*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(3, 4, gl.FLOAT, false, vertexStride, 8*4)
	gl.EnableVertexAttribArray(3)

	gl.BindVertexArray(0)
}

// SetCamera positions the character. The offset is expressed in
// pre-scale skeleton units: scale applies after the translation, so a
// (10,5) offset at scale 2 moves the rendered centroid by (20,10).
func (r *Renderer) SetCamera(x, y, scale float32) {
	r.world = mgl32.Scale3D(scale, scale, 1).Mul4(mgl32.Translate3D(x, y, 0))
}

// RenderFrame clears the frame target and draws the batch's calls in
// order. Blend state changes go through the binder, so a call sharing
// the previous call's state never rebinds.
func (r *Renderer) RenderFrame(b *batch.Batch) error {
	r.fb.Bind()
	r.fb.Clear(r.cfg.Clear[0], r.cfg.Clear[1], r.cfg.Clear[2], r.cfg.Clear[3])

	if len(b.Calls) == 0 {
		return nil
	}
	if len(b.Vertices) > maxVertices {
		return fmt.Errorf("batch exceeds vertex buffer: %d > %d", len(b.Vertices), maxVertices)
	}
	if len(b.Indices) > maxIndices {
		return fmt.Errorf("batch exceeds index buffer: %d > %d", len(b.Indices), maxIndices)
	}

	gl.UseProgram(r.program)
	gl.BindVertexArray(r.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(b.Vertices)*int(vertexStride), unsafe.Pointer(&b.Vertices[0]))
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	gl.BufferSubData(gl.ELEMENT_ARRAY_BUFFER, 0, len(b.Indices)*2, unsafe.Pointer(&b.Indices[0]))

	gl.UniformMatrix4fv(r.locWorld, 1, false, &r.world[0])
	gl.UniformMatrix4fv(r.locView, 1, false, &r.view[0])
	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(r.locTexture, 0)

	for _, call := range b.Calls {
		r.binder.Bind(blend.StateFor(call.Blend, call.Premultiplied))
		gl.BindTexture(gl.TEXTURE_2D, uint32(call.Texture))
		gl.DrawElementsWithOffset(gl.TRIANGLES, int32(call.IndexCount), gl.UNSIGNED_SHORT, uintptr(call.IndexOffset*2))
	}

	gl.BindVertexArray(0)
	return nil
}

// Capture flushes the pipeline and reads the frame target back as a
// top-down RGBA image. Only valid after RenderFrame for the terminal
// frame has returned.
func (r *Renderer) Capture() (*image.RGBA, error) {
	gl.Finish()
	w, h := r.fb.Size()
	return capture.FromPixels(r.fb.ReadPixels(), int(w), int(h))
}

// CreateTexture implements texture.Device.
func (r *Renderer) CreateTexture(page anim.Page, pixels []byte, w, h int) (texture.ID, error) {
	if len(pixels) < w*h*4 {
		return 0, fmt.Errorf("pixel data for page %q too short: %d bytes for %dx%d", page.ID, len(pixels), w, h)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(page.MinFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(page.MagFilter))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(page.UWrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(page.VWrap))
	return texture.ID(id), nil
}

// DeleteTexture implements texture.Device.
func (r *Renderer) DeleteTexture(id texture.ID) {
	u := uint32(id)
	gl.DeleteTextures(1, &u)
}

// Destroy releases all GL resources.
func (r *Renderer) Destroy() {
	if r.fb != nil {
		r.fb.Destroy()
		r.fb = nil
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
		r.ebo = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

func applyBlendState(s blend.State) {
	gl.BlendFuncSeparate(glBlendFactor(s.SrcRGB), glBlendFactor(s.DstRGB),
		glBlendFactor(s.SrcAlpha), glBlendFactor(s.DstAlpha))
}

func glBlendFactor(f blend.Factor) uint32 {
	switch f {
	case blend.SrcAlpha:
		return gl.SRC_ALPHA
	case blend.OneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case blend.OneMinusSrcColor:
		return gl.ONE_MINUS_SRC_COLOR
	case blend.DstColor:
		return gl.DST_COLOR
	default:
		return gl.ONE
	}
}

func glFilter(f anim.Filter) int32 {
	if f == anim.FilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func glWrap(w anim.Wrap) int32 {
	switch w {
	case anim.WrapRepeat:
		return gl.REPEAT
	case anim.WrapMirroredRepeat:
		return gl.MIRRORED_REPEAT
	default:
		return gl.CLAMP_TO_EDGE
	}
}
