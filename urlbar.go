package velum

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

const defaultSearchURL = "https://duckduckgo.com/?q="

// URLBar is the address field's state: the editable text, a byte-offset
// cursor that always sits on a rune boundary, the last committed URL,
// and the search prefix used for non-URL input. It is a plain state
// machine with no rendering or input dependencies.
type URLBar struct {
	text       string
	cursor     int // byte offset into text, on a rune boundary
	focus      FocusState
	currentURL *url.URL
	searchURL  string
}

// NewURLBar creates an empty, unfocused bar. searchURL is the prefix
// the percent-encoded query is appended to; empty selects the default
// engine.
func NewURLBar(searchURL string) *URLBar {
	if searchURL == "" {
		searchURL = defaultSearchURL
	}
	return &URLBar{searchURL: searchURL}
}

// SetURL records u as the current location. The visible text only
// follows while the bar is unfocused; an in-progress edit is never
// clobbered by a navigation landing underneath it.
func (b *URLBar) SetURL(u *url.URL) {
	b.currentURL = u
	if b.focus == StateUnfocused && u != nil {
		b.text = normalizeForDisplay(u)
		b.cursor = len(b.text)
	}
}

// Focus puts the bar in the focused-selected state with the cursor at
// the end. The whole text is conceptually selected: the next typed
// character replaces it.
func (b *URLBar) Focus() {
	b.focus = StateFocused
	b.cursor = len(b.text)
}

// Unfocus abandons any edit and restores the display text from the
// current URL. Calling it repeatedly is harmless.
func (b *URLBar) Unfocus() {
	b.focus = StateUnfocused
	if b.currentURL != nil {
		b.text = normalizeForDisplay(b.currentURL)
		b.cursor = len(b.text)
	}
}

// SelectAll re-enters the focused-selected state, so the next edit
// replaces everything.
func (b *URLBar) SelectAll() {
	b.focus = StateFocused
	b.cursor = len(b.text)
}

// InsertChar inserts c at the cursor. In the focused-selected state the
// existing text is replaced first.
func (b *URLBar) InsertChar(c rune) {
	if b.focus == StateFocused {
		b.text = ""
		b.cursor = 0
		b.focus = StateEditing
	}
	s := string(c) // invalid runes become U+FFFD, same as Go string conversion
	b.text = b.text[:b.cursor] + s + b.text[b.cursor:]
	b.cursor += len(s)
}

// Backspace removes the rune before the cursor. In the focused-selected
// state it clears everything instead, acting on the selection.
func (b *URLBar) Backspace() {
	if b.focus == StateFocused {
		b.text = ""
		b.cursor = 0
		b.focus = StateEditing
		return
	}
	if b.cursor == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(b.text[:b.cursor])
	b.text = b.text[:b.cursor-size] + b.text[b.cursor:]
	b.cursor -= size
}

// Delete removes the rune after the cursor; in the focused-selected
// state it clears everything.
func (b *URLBar) Delete() {
	if b.focus == StateFocused {
		b.text = ""
		b.cursor = 0
		b.focus = StateEditing
		return
	}
	if b.cursor >= len(b.text) {
		return
	}
	_, size := utf8.DecodeRuneInString(b.text[b.cursor:])
	b.text = b.text[:b.cursor] + b.text[b.cursor+size:]
}

// MoveCursorLeft moves back one rune. Leaving the focused-selected
// state it collapses the selection to the start instead.
func (b *URLBar) MoveCursorLeft() {
	if b.focus == StateFocused {
		b.focus = StateEditing
		b.cursor = 0
		return
	}
	if b.cursor == 0 {
		return
	}
	_, size := utf8.DecodeLastRuneInString(b.text[:b.cursor])
	b.cursor -= size
}

// MoveCursorRight moves forward one rune. Leaving the focused-selected
// state it collapses the selection to the end, where the cursor already
// is.
func (b *URLBar) MoveCursorRight() {
	if b.focus == StateFocused {
		b.focus = StateEditing
		return
	}
	if b.cursor >= len(b.text) {
		return
	}
	_, size := utf8.DecodeRuneInString(b.text[b.cursor:])
	b.cursor += size
}

// Home moves the cursor to the start, collapsing any selection.
func (b *URLBar) Home() {
	if b.focus == StateFocused {
		b.focus = StateEditing
	}
	b.cursor = 0
}

// End moves the cursor past the last character, collapsing any
// selection.
func (b *URLBar) End() {
	if b.focus == StateFocused {
		b.focus = StateEditing
	}
	b.cursor = len(b.text)
}

// Submit resolves the current text into a navigation target and leaves
// the bar unfocused either way. Blank input means "nothing to do" and
// returns (nil, nil). A search template that cannot form a valid URL is
// an error.
func (b *URLBar) Submit() (*url.URL, error) {
	input := strings.TrimSpace(b.text)
	b.focus = StateUnfocused
	if input == "" {
		return nil, nil
	}
	u, err := resolveInput(input, b.searchURL)
	if err != nil {
		return nil, err
	}
	logger().Debug("address bar submit", "input", input, "resolved", u.String())
	return u, nil
}

// IsFocused reports whether the bar owns keyboard input, in either the
// focused-selected or editing state.
func (b *URLBar) IsFocused() bool {
	return b.focus != StateUnfocused
}

// DisplayText is the text the renderer should draw.
func (b *URLBar) DisplayText() string {
	return b.text
}

// CursorPos is the cursor's byte offset.
func (b *URLBar) CursorPos() int {
	return b.cursor
}

// CursorCharOffset is the cursor position counted in characters, the
// unit the renderer's caret placement works in. For multibyte text this
// differs from CursorPos.
func (b *URLBar) CursorCharOffset() int {
	return utf8.RuneCountInString(b.text[:b.cursor])
}

// resolveInput turns address-bar input into a URL: an explicit http(s)
// URL passes through, something that looks like a host (has a dot, no
// whitespace) gets https:// prepended, and everything else becomes a
// search query.
func resolveInput(input, searchURL string) (*url.URL, error) {
	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return u, nil
	}
	if strings.Contains(input, ".") && strings.IndexFunc(input, unicode.IsSpace) < 0 {
		if u, err := url.Parse("https://" + input); err == nil {
			return u, nil
		}
	}
	u, err := url.Parse(searchURL + url.QueryEscape(input))
	if err != nil {
		return nil, fmt.Errorf("search template %q unusable: %w", searchURL, err)
	}
	return u, nil
}

// invisibleRunes are characters that render as nothing but change what
// a URL means to a reader: zero-width spaces and joiners, word joiner,
// BOM, combining grapheme joiner, and the Unicode line separators.
var invisibleRunes = map[rune]bool{
	'\u200b': true, // zero width space
	'\u200c': true, // zero width non-joiner
	'\u200d': true, // zero width joiner
	'\u2060': true, // word joiner
	'\ufeff': true, // byte order mark
	'\u034f': true, // combining grapheme joiner
	'\u2028': true, // line separator
	'\u2029': true, // paragraph separator
}

// normalizeForDisplay renders a URL for the address bar with basic
// homograph defenses: punycode hosts are flagged loudly rather than
// shown bare, and invisible characters are stripped. The punycode check
// looks only at the host prefix, so a punycoded subdomain label deeper
// in the host is not flagged; that trade-off keeps the common attack
// (whole-host lookalikes) covered without an IDNA dependency.
func normalizeForDisplay(u *url.URL) string {
	if strings.HasPrefix(u.Hostname(), "xn--") {
		return "⚠️  " + u.String() + " (Punycode)"
	}
	return stripInvisible(u.String())
}

// stripInvisible drops the invisible runes from s.
func stripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		if invisibleRunes[r] {
			return -1
		}
		return r
	}, s)
}
