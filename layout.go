package velum

import (
	"encoding/binary"
	"math"
)

// glyphQuad is one positioned glyph box: screen rectangle plus the atlas
// cell to sample. Everything here is plain arithmetic over a GlyphAtlas,
// kept free of GL calls so layout is testable headless.
type glyphQuad struct {
	X, Y, W, H float32
	Glyph      GlyphInfo
}

// layoutLine walks text left to right from penX along the given
// baseline, producing one quad per visible glyph. Characters missing
// from the atlas still advance the pen (space advance, or half the font
// size if even the space is missing) so the line never stalls or aborts.
// The walk stops once the pen passes maxX.
//
// cursorChars is a character count: 0 places the cursor before the first
// character, n after the n-th. A negative count means no cursor. cursorX
// is only valid when cursorOK is true; a cursor position beyond the
// truncation point is reported as not found.
func layoutLine(atlas *GlyphAtlas, text string, penX, baseline, maxX, fontSize float32, cursorChars int) (quads []glyphQuad, cursorX float32, cursorOK bool) {
	pen := penX
	if cursorChars == 0 {
		cursorX, cursorOK = pen, true
	}
	charIdx := 0
	for _, r := range text {
		if pen > maxX {
			break
		}
		if g, ok := atlas.Glyphs[r]; ok {
			if g.Width > 0 && g.Height > 0 {
				quads = append(quads, glyphQuad{
					X:     pen + g.OffsetX,
					Y:     baseline + g.OffsetY,
					W:     float32(g.Width),
					H:     float32(g.Height),
					Glyph: g,
				})
			}
			pen += g.Advance
		} else {
			pen += fallbackAdvance(atlas, fontSize)
		}
		charIdx++
		if cursorChars == charIdx {
			cursorX, cursorOK = pen, true
		}
	}
	return quads, cursorX, cursorOK
}

// fallbackAdvance is the pen movement for a character the atlas cannot
// draw: the space advance when available, otherwise half the font size.
func fallbackAdvance(atlas *GlyphAtlas, fontSize float32) float32 {
	if sp, ok := atlas.Glyphs[' ']; ok {
		return sp.Advance
	}
	return fontSize * 0.5
}

// atlasTexCoords maps a glyph's atlas cell to normalized [0,1] texture
// coordinates.
func atlasTexCoords(atlas *GlyphAtlas, g GlyphInfo) (u0, v0, u1, v1 float32) {
	aw := float32(atlas.Width)
	ah := float32(atlas.Height)
	u0 = float32(g.AtlasX) / aw
	v0 = float32(g.AtlasY) / ah
	u1 = float32(g.AtlasX+g.Width) / aw
	v1 = float32(g.AtlasY+g.Height) / ah
	return
}

// quadVertices builds the two-triangle strip-less vertex list for an
// axis-aligned rectangle, interleaved [x y u v] per vertex, 6 vertices.
func quadVertices(x, y, w, h, u0, v0, u1, v1 float32) []float32 {
	return []float32{
		x, y, u0, v0,
		x + w, y, u1, v0,
		x, y + h, u0, v1,

		x + w, y, u1, v0,
		x + w, y + h, u1, v1,
		x, y + h, u0, v1,
	}
}

// vertexBytes serializes float32 vertex data to little-endian bytes for
// buffer upload. Explicit encoding instead of reinterpreting the slice
// keeps the byte layout independent of the host representation.
func vertexBytes(verts []float32) []byte {
	buf := make([]byte, len(verts)*4)
	for i, v := range verts {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// orthoMatrix returns a column-major orthographic projection. Called
// with (0, w, h, 0, -1, 1) it yields a top-left-origin pixel space with
// Y growing downward.
func orthoMatrix(left, right, bottom, top, near, far float32) [16]float32 {
	var m [16]float32
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = -2 / (far - near)
	m[12] = -(right + left) / (right - left)
	m[13] = -(top + bottom) / (top - bottom)
	m[14] = -(far + near) / (far - near)
	m[15] = 1
	return m
}
