package shaping

import (
	"bytes"
	"fmt"
	"math"

	"github.com/ByLCY/tategaki/layout"
	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	gotext "github.com/go-text/typesetting/shaping"
)

// hbFace 是 go-text 解析出的字体，只读，可并发共享。
type hbFace = *gtfont.Font

func (tf *Typeface) harfbuzzFont() (hbFace, error) {
	tf.once.Do(func() {
		face, err := gtfont.ParseTTF(bytes.NewReader(tf.font.Data))
		if err != nil {
			tf.hbErr = fmt.Errorf("go-text 解析字体 %s 失败: %w", tf.font, err)
			return
		}
		tf.hbFont = face.Font
	})
	return tf.hbFont, tf.hbErr
}

// scriptOf 取第一个非空白字符的书写系统。
func scriptOf(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '　' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func languageOf(script language.Script) language.Language {
	switch script {
	case language.Han, language.Hiragana, language.Katakana:
		return language.NewLanguage("ja")
	case language.Hangul:
		return language.NewLanguage("ko")
	}
	return language.NewLanguage("en")
}

// shapeHarfBuzz 用 HarfBuzz 整形一段同字体文本。竖排时按 TTB 方向整形以启用竖排替换字形，
// 竖向前进量记入 VerticalAdvance，横向前进量仍取 hmtx，供旋转排列使用。
func (s *Shaper) shapeHarfBuzz(seg segment, runes []rune, size float64, vertical bool) ([]layout.Glyph, error) {
	tf := seg.face
	f, err := tf.harfbuzzFont()
	if err != nil {
		return nil, err
	}
	script := scriptOf(runes[seg.start:seg.end])
	dir := di.DirectionLTR
	if vertical {
		dir = di.DirectionTTB
	}
	input := gotext.Input{
		Text:      runes,
		RunStart:  seg.start,
		RunEnd:    seg.end,
		Direction: dir,
		Face:      gtfont.NewFace(f),
		Size:      toFixed(size),
		Script:    script,
		Language:  languageOf(script),
	}
	hb := s.pool.Get().(*gotext.HarfbuzzShaper)
	output := hb.Shape(input)
	s.pool.Put(hb)

	m := faceMetrics(tf, size)
	out := make([]layout.Glyph, 0, len(output.Glyphs))
	for _, g := range output.Glyphs {
		idx := g.TextIndex()
		if idx < seg.start || idx >= seg.end {
			continue
		}
		gid := layout.GlyphID(g.GlyphID)
		glyph := layout.Glyph{
			GlyphID:    gid,
			Rune:       runes[idx],
			Font:       tf.font,
			Advance:    fromFixed(g.Advance),
			Ascent:     m.ascent,
			Descent:    m.descent,
			LineHeight: m.lineHeight,
			FontSize:   size,
			Cluster:    uint32(idx + 1),
			XOffset:    fromFixed(g.XOffset),
			YOffset:    fromFixed(g.YOffset),
		}
		if vertical {
			glyph.VerticalAdvance = math.Abs(fromFixed(g.Advance))
			glyph.Advance = s.Advance(tf.font, gid, size)
			glyph.XOffset, glyph.YOffset = 0, 0
		}
		out = append(out, glyph)
	}
	return out, nil
}
