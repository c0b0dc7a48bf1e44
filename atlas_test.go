package velum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

func buildTestAtlas(t *testing.T) *GlyphAtlas {
	t.Helper()
	atlas, err := BuildGlyphAtlas(goregular.TTF, 16)
	require.NoError(t, err)
	return atlas
}

func TestBuildGlyphAtlasRejectsGarbage(t *testing.T) {
	_, err := BuildGlyphAtlas([]byte("not a font"), 16)
	require.Error(t, err)
}

func TestAtlasCoversPrintableASCII(t *testing.T) {
	atlas := buildTestAtlas(t)
	for r := rune(' '); r <= '~'; r++ {
		_, ok := atlas.Glyphs[r]
		assert.Truef(t, ok, "missing glyph for %q", r)
	}
	assert.Len(t, atlas.Glyphs, 95)
}

func TestAtlasDimensions(t *testing.T) {
	atlas := buildTestAtlas(t)
	assert.Equal(t, 512, atlas.Width)
	assert.GreaterOrEqual(t, atlas.Height, 64)
	assert.Zero(t, atlas.Height&(atlas.Height-1), "height must be a power of two")
	assert.Len(t, atlas.Pixels, atlas.Width*atlas.Height)
}

func TestAtlasAdvancesArePositive(t *testing.T) {
	atlas := buildTestAtlas(t)
	for r, g := range atlas.Glyphs {
		assert.Greaterf(t, g.Advance, float32(0), "glyph %q", r)
	}
}

func TestAtlasGlyphsStayInBounds(t *testing.T) {
	atlas := buildTestAtlas(t)
	for r, g := range atlas.Glyphs {
		assert.GreaterOrEqualf(t, g.AtlasX, 0, "glyph %q", r)
		assert.GreaterOrEqualf(t, g.AtlasY, 0, "glyph %q", r)
		assert.LessOrEqualf(t, g.AtlasX+g.Width, atlas.Width, "glyph %q", r)
		assert.LessOrEqualf(t, g.AtlasY+g.Height, atlas.Height, "glyph %q", r)
	}
}

func TestAtlasGlyphsDoNotOverlap(t *testing.T) {
	atlas := buildTestAtlas(t)

	type box struct {
		r              rune
		x0, y0, x1, y1 int
	}
	var boxes []box
	for r, g := range atlas.Glyphs {
		if g.Width == 0 || g.Height == 0 {
			continue
		}
		boxes = append(boxes, box{r, g.AtlasX, g.AtlasY, g.AtlasX + g.Width, g.AtlasY + g.Height})
	}

	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			a, b := boxes[i], boxes[j]
			overlaps := a.x0 < b.x1 && b.x0 < a.x1 && a.y0 < b.y1 && b.y0 < a.y1
			assert.Falsef(t, overlaps, "glyphs %q and %q overlap", a.r, b.r)
		}
	}
}

func TestAtlasSpaceGlyph(t *testing.T) {
	atlas := buildTestAtlas(t)
	sp, ok := atlas.Glyphs[' ']
	require.True(t, ok)
	assert.Zero(t, sp.Width)
	assert.Zero(t, sp.Height)
	assert.Greater(t, sp.Advance, float32(0))
}

func TestAtlasHasInk(t *testing.T) {
	atlas := buildTestAtlas(t)
	var nonZero int
	for _, p := range atlas.Pixels {
		if p != 0 {
			nonZero++
		}
	}
	assert.Greater(t, nonZero, 0, "atlas should contain rendered coverage")
}

func TestLoadUIFontAlwaysParses(t *testing.T) {
	data := LoadUIFont()
	require.NotEmpty(t, data)
	_, err := opentype.Parse(data)
	require.NoError(t, err)
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 63: 64, 64: 64, 65: 128, 200: 256}
	for in, want := range cases {
		assert.Equalf(t, want, nextPowerOfTwo(in), "nextPowerOfTwo(%d)", in)
	}
}
