package velum

// GlyphInfo describes one pre-rendered character inside a GlyphAtlas.
type GlyphInfo struct {
	AtlasX int // X position in the atlas, pixels
	AtlasY int // Y position in the atlas, pixels
	Width  int // glyph bitmap width, pixels, may be zero
	Height int // glyph bitmap height, pixels, may be zero

	// Advance is the horizontal pen movement after this character,
	// independent of the bitmap size. Always positive.
	Advance float32

	// OffsetX is the distance from the pen position to the left edge of
	// the drawn box. OffsetY is the distance from the baseline to the top
	// edge in a Y-down coordinate space, so it is negative for glyphs
	// that rise above the baseline.
	OffsetX float32
	OffsetY float32
}

// GlyphAtlas holds every supported character rasterized into a single
// 8-bit coverage image. The atlas is built once per font size, uploaded
// to the GPU as an R8 texture, and immutable after construction.
type GlyphAtlas struct {
	Width  int
	Height int
	Glyphs map[rune]GlyphInfo

	// Pixels is the single-channel coverage buffer, row-major,
	// len == Width*Height. Unused cells stay zero.
	Pixels []uint8
}

// FocusState is the address field's editing mode.
type FocusState int

const (
	// StateUnfocused: keyboard input bypasses the field.
	StateUnfocused FocusState = iota
	// StateFocused: the field just gained focus and the whole text is
	// conceptually selected. The next edit replaces all of it.
	StateFocused
	// StateEditing: normal per-character editing.
	StateEditing
)
