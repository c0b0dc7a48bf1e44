package velum

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

const vertexShaderSource = `#version 410 core
layout (location = 0) in vec2 position;
layout (location = 1) in vec2 uv;

uniform mat4 projection;

out vec2 vUV;

void main() {
    gl_Position = projection * vec4(position, 0.0, 1.0);
    vUV = uv;
}
` + "\x00"

const fragmentShaderSource = `#version 410 core
in vec2 vUV;

uniform vec4 color;
uniform bool useTexture;
uniform sampler2D glyphAtlas;

out vec4 fragColor;

void main() {
    if (useTexture) {
        float alpha = texture(glyphAtlas, vUV).r;
        fragColor = vec4(color.rgb, color.a * alpha);
    } else {
        fragColor = color;
    }
}
` + "\x00"

// Renderer paints the chrome strip: bar background, address field,
// text, and caret. It owns one shader program that draws either flat
// quads or atlas-sampled glyph quads depending on a uniform flag, a
// single streaming quad buffer, and the glyph atlas texture.
type Renderer struct {
	cfg   ChromeConfig
	atlas *GlyphAtlas

	program uint32
	vao     uint32
	vbo     uint32
	texture uint32

	uProjection int32
	uColor      int32
	uUseTexture int32
	uAtlas      int32
}

// NewRenderer compiles the chrome shader, sets up the quad buffer, and
// uploads the atlas as a single-channel R8 texture. A current OpenGL
// context is required; there is no graceful degradation if shader
// compilation or linking fails, the chrome simply cannot be drawn.
func NewRenderer(cfg ChromeConfig, atlas *GlyphAtlas) (*Renderer, error) {
	program, err := createProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		cfg:     cfg,
		atlas:   atlas,
		program: program,
	}
	r.uProjection = gl.GetUniformLocation(program, gl.Str("projection\x00"))
	r.uColor = gl.GetUniformLocation(program, gl.Str("color\x00"))
	r.uUseTexture = gl.GetUniformLocation(program, gl.Str("useTexture\x00"))
	r.uAtlas = gl.GetUniformLocation(program, gl.Str("glyphAtlas\x00"))

	// One buffer big enough for a single quad, re-filled per draw call.
	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, 6*4*4, nil, gl.DYNAMIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.BindVertexArray(0)

	gl.GenTextures(1, &r.texture)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	// Single-channel rows are not 4-byte aligned in general.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8,
		int32(atlas.Width), int32(atlas.Height), 0,
		gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(atlas.Pixels))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	logger().Debug("chrome renderer initialized",
		"atlasWidth", atlas.Width, "atlasHeight", atlas.Height)
	return r, nil
}

// Draw renders one frame of chrome into the top chromeHeight pixels of
// the window. cursorChars counts characters before the caret; a
// negative value draws no caret. Surrounding GL state (blend, depth
// test, scissor) is saved on entry and restored on exit so the content
// renderer below never notices the overlay pass.
func (r *Renderer) Draw(windowW, windowH int, text string, focused bool, cursorChars int) {
	prevBlend := gl.IsEnabled(gl.BLEND)
	prevDepth := gl.IsEnabled(gl.DEPTH_TEST)
	prevScissor := gl.IsEnabled(gl.SCISSOR_TEST)

	gl.Viewport(0, 0, int32(windowW), int32(windowH))
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.SCISSOR_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.UseProgram(r.program)
	proj := orthoMatrix(0, float32(windowW), float32(windowH), 0, -1, 1)
	gl.UniformMatrix4fv(r.uProjection, 1, false, &proj[0])
	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	chromeH := float32(r.cfg.Height)
	colors := r.cfg.Colors

	bg := colors.Background
	if focused {
		bg = colors.BackgroundFocused
	}
	r.drawRect(0, 0, float32(windowW), chromeH, bg)

	// Address field: border rectangle with a 1px inset fill.
	barX := r.cfg.BarMargin
	barY := r.cfg.BarMargin
	barW := float32(windowW) - 2*r.cfg.BarMargin
	barH := chromeH - 2*r.cfg.BarMargin
	r.drawRect(barX, barY, barW, barH, colors.BarBorder)
	r.drawRect(barX+1, barY+1, barW-2, barH-2, colors.BarBackground)

	textX := barX + r.cfg.BarHPad + r.cfg.TextLeftPad
	baseline := chromeH/2 + r.cfg.FontSize/3
	maxX := barX + barW - r.cfg.BarHPad

	quads, cursorX, cursorOK := layoutLine(r.atlas, text, textX, baseline, maxX, r.cfg.FontSize, cursorChars)

	if len(quads) > 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.texture)
		gl.Uniform1i(r.uAtlas, 0)
		gl.Uniform1i(r.uUseTexture, 1)
		gl.Uniform4f(r.uColor, colors.Text[0], colors.Text[1], colors.Text[2], colors.Text[3])
		for _, q := range quads {
			u0, v0, u1, v1 := atlasTexCoords(r.atlas, q.Glyph)
			r.uploadAndDraw(quadVertices(q.X, q.Y, q.W, q.H, u0, v0, u1, v1))
		}
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}

	if focused && cursorOK {
		caretH := r.cfg.FontSize + 4
		caretY := (chromeH - caretH) / 2
		r.drawRect(cursorX, caretY, 2, caretH, colors.Cursor)
	}

	gl.BindVertexArray(0)
	gl.UseProgram(0)

	if prevDepth {
		gl.Enable(gl.DEPTH_TEST)
	}
	if !prevBlend {
		gl.Disable(gl.BLEND)
	}
	if prevScissor {
		gl.Enable(gl.SCISSOR_TEST)
	}
}

func (r *Renderer) drawRect(x, y, w, h float32, c [4]float32) {
	gl.Uniform1i(r.uUseTexture, 0)
	gl.Uniform4f(r.uColor, c[0], c[1], c[2], c[3])
	r.uploadAndDraw(quadVertices(x, y, w, h, 0, 0, 0, 0))
}

func (r *Renderer) uploadAndDraw(verts []float32) {
	data := vertexBytes(verts)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data), gl.Ptr(data))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

// Destroy releases the renderer's GL objects. The context that created
// them must still be current.
func (r *Renderer) Destroy() {
	gl.DeleteVertexArrays(1, &r.vao)
	gl.DeleteBuffers(1, &r.vbo)
	gl.DeleteTextures(1, &r.texture)
	gl.DeleteProgram(r.program)
}

func createProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertex, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	fragment, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertex)
		return 0, fmt.Errorf("fragment shader: %w", err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)
	gl.DeleteShader(vertex)
	gl.DeleteShader(fragment)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile: %s", log)
	}
	return shader, nil
}
