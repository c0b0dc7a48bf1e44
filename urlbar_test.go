package velum

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestFocusSelectsAll(t *testing.T) {
	bar := NewURLBar("")
	bar.SetURL(mustParse(t, "https://example.com"))
	require.Equal(t, "https://example.com", bar.DisplayText())

	bar.Focus()
	assert.True(t, bar.IsFocused())
	assert.Equal(t, len(bar.DisplayText()), bar.CursorPos())
}

func TestTypingReplacesSelection(t *testing.T) {
	bar := NewURLBar("")
	bar.SetURL(mustParse(t, "https://example.com"))
	bar.Focus()

	bar.InsertChar('g')
	assert.Equal(t, "g", bar.DisplayText())
	assert.Equal(t, 1, bar.CursorPos())

	bar.InsertChar('o')
	assert.Equal(t, "go", bar.DisplayText())
}

func TestBackspaceClearsSelection(t *testing.T) {
	bar := NewURLBar("")
	bar.SetURL(mustParse(t, "https://example.com"))
	bar.Focus()

	bar.Backspace()
	assert.Empty(t, bar.DisplayText())
	assert.True(t, bar.IsFocused(), "clearing the selection keeps the bar in edit mode")
}

func TestDeleteClearsSelection(t *testing.T) {
	bar := NewURLBar("")
	bar.SetURL(mustParse(t, "https://example.com"))
	bar.SelectAll()

	bar.Delete()
	assert.Empty(t, bar.DisplayText())
}

func TestArrowKeysCollapseSelection(t *testing.T) {
	bar := NewURLBar("")
	bar.SetURL(mustParse(t, "https://ab.example"))
	n := len(bar.DisplayText())

	bar.Focus()
	bar.MoveCursorLeft()
	assert.Equal(t, 0, bar.CursorPos(), "left collapses to the start")

	bar.Focus()
	bar.MoveCursorRight()
	assert.Equal(t, n, bar.CursorPos(), "right collapses to the end")
}

func TestUnfocusRestoresCurrentURL(t *testing.T) {
	bar := NewURLBar("")
	bar.SetURL(mustParse(t, "https://example.com"))

	bar.Focus()
	bar.InsertChar('x')
	bar.InsertChar('y')
	require.Equal(t, "xy", bar.DisplayText())

	bar.Unfocus()
	assert.False(t, bar.IsFocused())
	assert.Equal(t, "https://example.com", bar.DisplayText())
}

func TestUnfocusIsIdempotent(t *testing.T) {
	bar := NewURLBar("")
	bar.SetURL(mustParse(t, "https://example.com"))
	bar.Focus()
	bar.InsertChar('q')

	bar.Unfocus()
	first := bar.DisplayText()
	bar.Unfocus()
	assert.Equal(t, first, bar.DisplayText())
	assert.False(t, bar.IsFocused())
}

func TestSetURLDoesNotClobberEdit(t *testing.T) {
	bar := NewURLBar("")
	bar.Focus()
	bar.InsertChar('t')
	bar.InsertChar('y')

	bar.SetURL(mustParse(t, "https://landed.example"))
	assert.Equal(t, "ty", bar.DisplayText(), "navigation must not overwrite an edit in progress")

	bar.Unfocus()
	assert.Equal(t, "https://landed.example", bar.DisplayText())
}

func TestCursorOnMultibyteText(t *testing.T) {
	bar := NewURLBar("")
	bar.Focus()
	bar.InsertChar('é')
	bar.InsertChar('é')

	assert.Equal(t, 4, bar.CursorPos(), "byte offset counts UTF-8 bytes")
	assert.Equal(t, 2, bar.CursorCharOffset(), "char offset counts runes")

	bar.MoveCursorLeft()
	assert.Equal(t, 2, bar.CursorPos())
	assert.Equal(t, 1, bar.CursorCharOffset())

	bar.Backspace()
	assert.Equal(t, "é", bar.DisplayText())
	assert.Equal(t, 0, bar.CursorPos())
}

func TestHomeAndEnd(t *testing.T) {
	bar := NewURLBar("")
	bar.Focus()
	for _, c := range "abc" {
		bar.InsertChar(c)
	}

	bar.Home()
	assert.Equal(t, 0, bar.CursorPos())
	bar.End()
	assert.Equal(t, 3, bar.CursorPos())
}

func TestEditsBeforeFocusDoNotPanic(t *testing.T) {
	bar := NewURLBar("")
	bar.Backspace()
	bar.Delete()
	bar.MoveCursorLeft()
	bar.MoveCursorRight()
	bar.Home()
	bar.End()
	bar.InsertChar('a')
	assert.Equal(t, "a", bar.DisplayText())
}

func TestSubmitBlank(t *testing.T) {
	for _, text := range []string{"", "   "} {
		bar := NewURLBar("")
		bar.Focus()
		for _, c := range text {
			bar.InsertChar(c)
		}
		dest, err := bar.Submit()
		require.NoError(t, err)
		assert.Nil(t, dest)
		assert.False(t, bar.IsFocused())
	}
}

func TestSubmitExplicitURL(t *testing.T) {
	bar := NewURLBar("")
	bar.Focus()
	for _, c := range "http://example.org/path" {
		bar.InsertChar(c)
	}
	dest, err := bar.Submit()
	require.NoError(t, err)
	require.NotNil(t, dest)
	assert.Equal(t, "http", dest.Scheme)
	assert.Equal(t, "example.org", dest.Hostname())
	assert.False(t, bar.IsFocused())
}

func TestSubmitBareHostGetsHTTPS(t *testing.T) {
	bar := NewURLBar("")
	bar.Focus()
	for _, c := range "example.com" {
		bar.InsertChar(c)
	}
	dest, err := bar.Submit()
	require.NoError(t, err)
	require.NotNil(t, dest)
	assert.Equal(t, "https", dest.Scheme)
	assert.Equal(t, "example.com", dest.Hostname())
}

func TestSubmitSearchQuery(t *testing.T) {
	bar := NewURLBar("https://search.example/?q=")
	bar.Focus()
	for _, c := range "hello world" {
		bar.InsertChar(c)
	}
	dest, err := bar.Submit()
	require.NoError(t, err)
	require.NotNil(t, dest)
	assert.Equal(t, "search.example", dest.Hostname())
	assert.Equal(t, "hello world", dest.Query().Get("q"))
	assert.NotContains(t, dest.String(), " ", "query must be percent-encoded")
}

func TestSubmitDefaultSearchEngine(t *testing.T) {
	bar := NewURLBar("")
	bar.Focus()
	for _, c := range "cats" {
		bar.InsertChar(c)
	}
	dest, err := bar.Submit()
	require.NoError(t, err)
	require.NotNil(t, dest)
	assert.Equal(t, "duckduckgo.com", dest.Hostname())
	assert.Equal(t, "cats", dest.Query().Get("q"))
}

func TestSubmitBrokenSearchTemplate(t *testing.T) {
	bar := NewURLBar("https://bad\x00host/?q=")
	bar.Focus()
	for _, c := range "query" {
		bar.InsertChar(c)
	}
	dest, err := bar.Submit()
	require.Error(t, err)
	assert.Nil(t, dest)
	assert.False(t, bar.IsFocused())
}

func TestResolveInputDotWithSpacesIsSearch(t *testing.T) {
	u, err := resolveInput("what is example.com", defaultSearchURL)
	require.NoError(t, err)
	assert.Equal(t, "duckduckgo.com", u.Hostname())
}

func TestNormalizeFlagsPunycodeHost(t *testing.T) {
	u := mustParse(t, "https://xn--ggle-0nd.com/login")
	display := normalizeForDisplay(u)
	assert.True(t, strings.HasPrefix(display, "⚠️"))
	assert.Contains(t, display, "xn--ggle-0nd.com")
	assert.Contains(t, display, "(Punycode)")
}

func TestNormalizePlainURLUnchanged(t *testing.T) {
	u := mustParse(t, "https://example.com/a?b=c")
	assert.Equal(t, u.String(), normalizeForDisplay(u))
}

func TestStripInvisibleRunes(t *testing.T) {
	in := "https://exam\u200bple.com/a\u200d\ufeffb\u2060\u2028"
	assert.Equal(t, "https://example.com/ab", stripInvisible(in))
}

func TestSetURLWithPunycodeShowsWarning(t *testing.T) {
	bar := NewURLBar("")
	bar.SetURL(mustParse(t, "https://xn--e1awd7f.example/"))
	assert.Contains(t, bar.DisplayText(), "(Punycode)")
}
