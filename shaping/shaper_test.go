package shaping

import (
	"math"
	"testing"

	"github.com/ByLCY/tategaki/layout"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	_, err := reg.Register("Go", "", goregular.TTF, false)
	require.NoError(t, err)
	_, err = reg.Register("Go", "Bold", gobold.TTF, false)
	require.NoError(t, err)
	_, err = reg.Register("Go Mono", "", gomono.TTF, true)
	require.NoError(t, err)
	return reg
}

func TestRegisterUsesNameTable(t *testing.T) {
	reg := NewRegistry()
	tf, err := reg.Register("", "", goregular.TTF, false)
	require.NoError(t, err)
	assert.Equal(t, "Go", tf.Family())
	assert.Equal(t, "Regular", tf.Style())
	assert.Same(t, tf, tf.Font().Handle)

	_, err = reg.Register("Broken", "", []byte("not a font"), false)
	assert.Error(t, err)
}

func TestLookupOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tategaki.shaping")
	defer teardown()

	reg := testRegistry(t)
	tf, ok := reg.Lookup("Go", "Bold")
	require.True(t, ok)
	assert.Equal(t, "Bold", tf.Style())

	tf, ok = reg.Lookup("Go", "")
	require.True(t, ok)
	assert.Equal(t, "Regular", tf.Style())

	tf, ok = reg.Lookup("Go", "Italic")
	require.True(t, ok)
	assert.Equal(t, "Regular", tf.Style(), "Regular is preferred within the family")

	_, err := reg.Register("Go", "Medium", gomedium.TTF, false)
	require.NoError(t, err)
	tf, _ = reg.Lookup("Go", "Italic")
	assert.Equal(t, "Regular", tf.Style())

	tf, ok = reg.Lookup("go mono", "Bold")
	require.True(t, ok)
	assert.Equal(t, "Go Mono", tf.Family(), "case-insensitive fallback family")

	tf, ok = reg.Lookup("Missing", "")
	require.True(t, ok)
	assert.Equal(t, "Go Mono", tf.Family(), "first fallback")

	_, ok = NewRegistry().Lookup("Go", "")
	assert.False(t, ok)
}

func TestStylePriority(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Register("Go", "Medium", gomedium.TTF, false)
	require.NoError(t, err)
	_, err = reg.Register("Go", "Bold", gobold.TTF, false)
	require.NoError(t, err)
	tf, ok := reg.Lookup("Go", "Light")
	require.True(t, ok)
	assert.Equal(t, "Medium", tf.Style())
}

func shape(t *testing.T, s *Shaper, run *layout.TextRun) ([]layout.Glyph, float64) {
	t.Helper()
	glyphs, width, err := s.Shape(run, false)
	require.NoError(t, err)
	return glyphs, width
}

func TestShapeSfnt(t *testing.T) {
	s := New(testRegistry(t), EngineSfnt)
	glyphs, width := shape(t, s, &layout.TextRun{Text: "AB", Family: "Go", FontSize: 12})
	require.Len(t, glyphs, 2)
	sum := 0.0
	for _, g := range glyphs {
		assert.NotZero(t, g.GlyphID)
		assert.Greater(t, g.Advance, 0.0)
		assert.Greater(t, g.Ascent, 0.0)
		assert.Greater(t, g.LineHeight, g.Ascent)
		assert.Equal(t, 12.0, g.FontSize)
		sum += g.Advance
	}
	assert.InDelta(t, sum, width, 1e-9)
	assert.InDelta(t, glyphs[0].Advance, glyphs[1].XPosition, 1e-9)
	assert.InDelta(t, glyphs[0].Advance, s.Advance(glyphs[0].Font, glyphs[0].GlyphID, 12), 1e-9)
}

func TestShapeLetterSpacing(t *testing.T) {
	s := New(testRegistry(t), EngineSfnt)
	plain, w0 := shape(t, s, &layout.TextRun{Text: "ABC", Family: "Go", FontSize: 10})
	spaced, w1 := shape(t, s, &layout.TextRun{Text: "ABC", Family: "Go", FontSize: 10, LetterSpacing: 2})
	assert.InDelta(t, w0+4, w1, 1e-9, "trailing spacing is not counted")
	assert.InDelta(t, plain[2].XPosition+4, spaced[2].XPosition, 1e-9)
	assert.Equal(t, 2.0, spaced[0].LetterSpacing)
}

func TestShapeControlCharacters(t *testing.T) {
	s := New(testRegistry(t), EngineSfnt)
	glyphs, _ := shape(t, s, &layout.TextRun{Text: "A\tB\nC", Family: "Go", FontSize: 10})
	require.Len(t, glyphs, 5)

	tab := glyphs[1]
	assert.Equal(t, '\t', tab.Rune)
	x := glyphs[0].Advance
	assert.InDelta(t, math.Ceil((x+1)/40)*40-x, tab.Advance, 1e-9)
	assert.InDelta(t, 40.0, glyphs[2].XPosition, 1e-9, "B starts at the first tab stop")

	nl := glyphs[3]
	assert.Equal(t, '\n', nl.Rune)
	assert.Zero(t, nl.Advance)
	assert.Greater(t, nl.LineHeight, 0.0)
}

func TestShapeDropsUncoveredRunes(t *testing.T) {
	s := New(testRegistry(t), EngineSfnt)
	glyphs, _ := shape(t, s, &layout.TextRun{Text: "A漢B", Family: "Go", FontSize: 10})
	require.Len(t, glyphs, 2)
	assert.Equal(t, 'A', glyphs[0].Rune)
	assert.Equal(t, 'B', glyphs[1].Rune)
}

func TestShapeNormalizesText(t *testing.T) {
	s := New(testRegistry(t), EngineSfnt)
	glyphs, _ := shape(t, s, &layout.TextRun{Text: "e\u0301", Family: "Go", FontSize: 10})
	require.Len(t, glyphs, 1)
	assert.Equal(t, 'é', glyphs[0].Rune)
}

func TestShapeUnknownFont(t *testing.T) {
	s := New(NewRegistry(), EngineSfnt)
	_, _, err := s.Shape(&layout.TextRun{Text: "A", Family: "Nope", FontSize: 10}, false)
	assert.Error(t, err)
	_, _, err = New(testRegistry(t), EngineSfnt).Shape(&layout.TextRun{Text: "A", Family: "Go"}, false)
	assert.Error(t, err, "zero font size")
}

func TestShapeHarfBuzzMatchesSfnt(t *testing.T) {
	reg := testRegistry(t)
	run := &layout.TextRun{Text: "0123", Family: "Go", FontSize: 12}
	plain, w0 := shape(t, New(reg, EngineSfnt), run)
	hb, w1 := shape(t, New(reg, EngineHarfBuzz), run)
	require.Len(t, hb, len(plain))
	for i := range hb {
		assert.Equal(t, plain[i].GlyphID, hb[i].GlyphID, "glyph %d", i)
		assert.Equal(t, plain[i].Rune, hb[i].Rune)
		assert.InDelta(t, plain[i].Advance, hb[i].Advance, 0.05)
	}
	assert.InDelta(t, w0, w1, 0.25)
}

func TestShapeHarfBuzzVertical(t *testing.T) {
	s := New(testRegistry(t), EngineHarfBuzz)
	glyphs, _, err := s.Shape(&layout.TextRun{Text: "AB", Family: "Go", FontSize: 10}, true)
	require.NoError(t, err)
	require.Len(t, glyphs, 2)
	for _, g := range glyphs {
		assert.Greater(t, g.VerticalAdvance, 0.0)
		assert.Greater(t, g.Advance, 0.0)
	}
}

func TestParseEngine(t *testing.T) {
	e, err := ParseEngine("HarfBuzz")
	require.NoError(t, err)
	assert.Equal(t, EngineHarfBuzz, e)
	e, err = ParseEngine("")
	require.NoError(t, err)
	assert.Equal(t, EngineSfnt, e)
	_, err = ParseEngine("coretext")
	assert.Error(t, err)

	assert.Equal(t, EngineHarfBuzz, New(NewRegistry(), EngineHarfBuzz).Engine())
	assert.Equal(t, "sfnt", New(NewRegistry(), EngineSfnt).Engine().String())
}

func TestAdvanceUnknownFont(t *testing.T) {
	s := New(NewRegistry(), EngineSfnt)
	assert.Equal(t, 10.0, s.Advance(nil, 1, 10))
}
