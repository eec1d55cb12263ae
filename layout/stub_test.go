package layout

import (
	"unicode/utf8"

	"github.com/ByLCY/tategaki/linebreak"
)

// stubShaper 给出固定的度量：普通字符前进量等于字号，空白为半个字号，
// 上升 0.8em（y 向上取负）、下降 0.2em、行高 1.2em。
type stubShaper struct {
	font *Font
}

func newStubShaper() *stubShaper {
	return &stubShaper{font: &Font{Family: "Stub", Style: "Regular"}}
}

func (s *stubShaper) advance(r rune, size float64) float64 {
	switch {
	case r == '\n':
		return 0
	case linebreak.IsWhitespace(r):
		return size / 2
	}
	return size
}

func (s *stubShaper) glyph(r rune, size float64) Glyph {
	return Glyph{
		GlyphID:    GlyphID(r),
		Rune:       r,
		Font:       s.font,
		Advance:    s.advance(r, size),
		Ascent:     -0.8 * size,
		Descent:    0.2 * size,
		LineHeight: 1.2 * size,
		FontSize:   size,
	}
}

func (s *stubShaper) Shape(run *TextRun, vertical bool) ([]Glyph, float64, error) {
	glyphs := make([]Glyph, 0, utf8.RuneCountInString(run.Text))
	x := 0.0
	for _, r := range run.Text {
		g := s.glyph(r, run.FontSize)
		g.LetterSpacing = run.LetterSpacing
		if r != '\n' {
			g.XPosition = x
			x += g.Advance + g.LetterSpacing
		}
		glyphs = append(glyphs, g)
	}
	if len(glyphs) > 0 {
		x -= run.LetterSpacing
	}
	return glyphs, x, nil
}

func (s *stubShaper) Advance(font *Font, gid GlyphID, size float64) float64 {
	return s.advance(rune(gid), size)
}

func (s *stubShaper) shapeText(text string, size float64) []Glyph {
	glyphs, _, _ := s.Shape(&TextRun{Text: text, FontSize: size}, false)
	return glyphs
}

func lineText(l *Line) string {
	var out []rune
	for i := range l.Glyphs {
		if r := l.Glyphs[i].Rune; r != '\n' {
			out = append(out, r)
		}
	}
	return string(out)
}

func columnText(c *Column) string {
	var out []rune
	for i := range c.Groups {
		if c.Groups[i].Kind == GroupNewline {
			continue
		}
		for _, g := range c.Groups[i].Glyphs {
			out = append(out, g.Rune)
		}
	}
	return string(out)
}
