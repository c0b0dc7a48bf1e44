package velum

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	atlasWidth     = 512
	atlasMinHeight = 64

	asciiFirst = ' ' // 32
	asciiLast  = '~' // 126
)

// measuredGlyph carries the rasterizer metrics between the packing pass
// and the blit pass.
type measuredGlyph struct {
	r       rune
	bounds  image.Rectangle // relative to a (0,0) dot, Y-down
	advance fixed.Int26_6
}

// BuildGlyphAtlas rasterizes the printable ASCII range at sizePx pixels
// into a single coverage image. Glyph boxes are packed into rows left to
// right with a 1px gutter on each side; the atlas is a fixed 512 pixels
// wide and grows downward to the next power of two that fits (64
// minimum). The returned atlas is ready for upload as an R8 texture.
//
// Packing is first-fit, not optimal. That is fine at this scale: 95
// glyphs of a UI-sized face fit in a handful of rows.
func BuildGlyphAtlas(fontData []byte, sizePx float32) (*GlyphAtlas, error) {
	parsed, err := opentype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(sizePx),
		DPI:     72, // 72 dpi makes point size equal pixel size
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	defer face.Close()

	// Pass 1: measure everything, then assign atlas cells.
	measured := make([]measuredGlyph, 0, asciiLast-asciiFirst+1)
	for r := rune(asciiFirst); r <= asciiLast; r++ {
		bounds, _, _, advance, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			logger().Debug("font has no glyph", "rune", string(r))
			continue
		}
		measured = append(measured, measuredGlyph{r: r, bounds: bounds, advance: advance})
	}

	glyphs := make(map[rune]GlyphInfo, len(measured))
	x, y, rowHeight := 0, 0, 0
	for _, m := range measured {
		w := m.bounds.Dx()
		h := m.bounds.Dy()
		if x+w > atlasWidth {
			x = 0
			y += rowHeight + 1
			rowHeight = 0
		}
		glyphs[m.r] = GlyphInfo{
			AtlasX:  x,
			AtlasY:  y,
			Width:   w,
			Height:  h,
			Advance: float32(m.advance) / 64,
			OffsetX: float32(m.bounds.Min.X),
			OffsetY: float32(m.bounds.Min.Y),
		}
		if h > rowHeight {
			rowHeight = h
		}
		x += w + 1
	}

	height := nextPowerOfTwo(y + rowHeight + 1)
	if height < atlasMinHeight {
		height = atlasMinHeight
	}

	// Pass 2: blit each glyph into its cell. Positioning the dot so the
	// glyph box lands exactly on the assigned cell keeps the two passes
	// in agreement; integer dots mean hinting produces identical masks.
	img := image.NewAlpha(image.Rect(0, 0, atlasWidth, height))
	drawer := font.Drawer{Dst: img, Src: image.White, Face: face}
	for _, m := range measured {
		if m.bounds.Dx() == 0 || m.bounds.Dy() == 0 {
			continue // space and friends occupy no pixels
		}
		info := glyphs[m.r]
		drawer.Dot = fixed.P(info.AtlasX-m.bounds.Min.X, info.AtlasY-m.bounds.Min.Y)
		drawer.DrawString(string(m.r))
	}

	logger().Debug("glyph atlas built",
		"glyphs", len(glyphs), "width", atlasWidth, "height", height)

	return &GlyphAtlas{
		Width:  atlasWidth,
		Height: height,
		Glyphs: glyphs,
		Pixels: img.Pix,
	}, nil
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
