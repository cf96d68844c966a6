// Package gpu implements the renderer's Device on OpenGL 4.1 core.
// All methods must be called on the thread that owns the GL context.
package gpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/warp-horizon/internal/engine/renderer"
	"github.com/Faultbox/warp-horizon/internal/engine/shader"
	"github.com/Faultbox/warp-horizon/internal/engine/texture"
	"github.com/Faultbox/warp-horizon/pkg/math"
)

var _ renderer.Device = (*Device)(nil)

// Device draws vertex batches and owns texture arrays.
type Device struct {
	log *zap.Logger

	program   uint32
	uViewProj int32
	uTextures []int32

	vao uint32
	vbo uint32
	// Allocated VBO size in bytes.
	capacity int
}

// New initializes OpenGL and creates the sprite pipeline.
// It must be called after the GL context is made current.
func New(log *zap.Logger) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	d := &Device{log: log}

	program, err := shader.CompileProgram(shader.SpriteVertex, shader.SpriteFragment)
	if err != nil {
		return nil, fmt.Errorf("sprite shader: %w", err)
	}
	d.program = program

	if d.uViewProj, err = shader.Uniform(program, "uViewProj"); err != nil {
		d.Close()
		return nil, err
	}
	d.uTextures = make([]int32, len(texture.BucketSizes))
	for i := range d.uTextures {
		if d.uTextures[i], err = shader.Uniform(program, fmt.Sprintf("uTextures[%d]", i)); err != nil {
			d.Close()
			return nil, err
		}
	}

	d.createBuffers()

	// Rectangles are emitted counter clockwise; cull the clockwise faces.
	gl.Enable(gl.CULL_FACE)
	gl.FrontFace(gl.CCW)
	gl.CullFace(gl.BACK)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)

	return d, nil
}

func (d *Device) createBuffers() {
	gl.GenVertexArrays(1, &d.vao)
	gl.GenBuffers(1, &d.vbo)

	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)

	stride := int32(renderer.VertexSize)
	// Position
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// UV
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)
	// Bucket
	gl.VertexAttribPointerWithOffset(2, 1, gl.FLOAT, false, stride, 4*4)
	gl.EnableVertexAttribArray(2)
	// Layer
	gl.VertexAttribPointerWithOffset(3, 1, gl.FLOAT, false, stride, 5*4)
	gl.EnableVertexAttribArray(3)

	gl.BindVertexArray(0)
}

// CreateArray uploads layers into a new immutable 2D texture array.
func (d *Device) CreateArray(size int, layers [][]byte) (texture.ArrayHandle, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, tex)

	gl.TexImage3D(gl.TEXTURE_2D_ARRAY, 0, gl.RGBA8,
		int32(size), int32(size), int32(len(layers)),
		0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	for i, pix := range layers {
		gl.TexSubImage3D(gl.TEXTURE_2D_ARRAY, 0,
			0, 0, int32(i),
			int32(size), int32(size), 1,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	}

	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex)
		return 0, fmt.Errorf("creating %dx%dx%d texture array: GL error 0x%x", size, size, len(layers), code)
	}

	d.log.Debug("texture array created",
		zap.Uint32("texture", tex),
		zap.Int("size", size),
		zap.Int("layers", len(layers)),
	)
	return texture.ArrayHandle(tex), nil
}

// DeleteArray releases a texture array.
func (d *Device) DeleteArray(h texture.ArrayHandle) {
	tex := uint32(h)
	if tex != 0 {
		gl.DeleteTextures(1, &tex)
	}
}

// Begin clears the backbuffer.
func (d *Device) Begin(clear [4]float32) {
	gl.ClearColor(clear[0], clear[1], clear[2], clear[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// Draw uploads the vertices and issues a single draw call.
func (d *Device) Draw(vertices []renderer.Vertex, samplers []texture.ArrayHandle, viewProjection math.Mat4) error {
	if len(samplers) != len(d.uTextures) {
		return fmt.Errorf("got %d samplers, pipeline has %d", len(samplers), len(d.uTextures))
	}

	gl.UseProgram(d.program)
	gl.UniformMatrix4fv(d.uViewProj, 1, false, viewProjection.Ptr())
	for i, s := range samplers {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D_ARRAY, uint32(s))
		gl.Uniform1i(d.uTextures[i], int32(i))
	}

	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)

	size := len(vertices) * renderer.VertexSize
	ptr := gl.Ptr(vertices)
	if size > d.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, ptr, gl.STREAM_DRAW)
		d.capacity = size
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, ptr)
	}

	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(vertices)))

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("draw of %d vertices: GL error 0x%x", len(vertices), code)
	}
	return nil
}

// End finishes the frame.
func (d *Device) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// ReadPixels reads the backbuffer, bottom row first.
func (d *Device) ReadPixels(width, height int) ([]byte, error) {
	pixels := make([]byte, width*height*4)
	gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	if code := gl.GetError(); code != gl.NO_ERROR {
		return nil, fmt.Errorf("reading %dx%d pixels: GL error 0x%x", width, height, code)
	}
	return pixels, nil
}

// Resize updates the viewport.
func (d *Device) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	d.log.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

// Close releases the pipeline objects.
func (d *Device) Close() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
	if d.vbo != 0 {
		gl.DeleteBuffers(1, &d.vbo)
		d.vbo = 0
	}
	if d.program != 0 {
		gl.DeleteProgram(d.program)
		d.program = 0
	}
}
