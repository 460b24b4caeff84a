package web

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	short := "une note courte"
	assert.Equal(t, short, preview(short))

	long := strings.Repeat("a", 200)
	got := preview(long)
	assert.Equal(t, strings.Repeat("a", previewLimit)+"...", got)
}

func TestPreviewCountsRunesNotBytes(t *testing.T) {
	// 160 two-byte runes: must truncate at 150 runes, not mid-rune.
	long := strings.Repeat("é", 160)
	got := preview(long)
	assert.Equal(t, strings.Repeat("é", previewLimit)+"...", got)
}

func TestPreviewExactLimit(t *testing.T) {
	exact := strings.Repeat("x", previewLimit)
	assert.Equal(t, exact, preview(exact))
}

func TestTemplatesParse(t *testing.T) {
	// NewHandlers panics if any embedded template fails to parse; reaching
	// here through package init already proves most of it, but exercise the
	// parse explicitly so a broken template fails this test, not every test.
	h := NewHandlers(nil, nil, nil, nil)
	for _, name := range []string{"login.html", "notes.html", "note.html"} {
		assert.NotNil(t, h.tmpl.Lookup(name), name)
	}
}
