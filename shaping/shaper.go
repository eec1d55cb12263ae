package shaping

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/ByLCY/tategaki/layout"
	gotext "github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"
)

// Engine 选择整形后端。
type Engine uint8

const (
	EngineSfnt     Engine = iota // 逐字符映射，不做 OpenType 替换
	EngineHarfBuzz               // go-text/typesetting 的 HarfBuzz 实现
)

func (e Engine) String() string {
	if e == EngineHarfBuzz {
		return "harfbuzz"
	}
	return "sfnt"
}

// ParseEngine 解析命令行中的后端名称。
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(name) {
	case "", "sfnt":
		return EngineSfnt, nil
	case "harfbuzz", "hb":
		return EngineHarfBuzz, nil
	}
	return EngineSfnt, fmt.Errorf("未知的整形后端 %q", name)
}

// Shaper 实现 layout.Shaper。
type Shaper struct {
	reg    *Registry
	engine Engine
	pool   sync.Pool
}

var _ layout.Shaper = (*Shaper)(nil)

// New 创建使用 reg 中字体的整形器。
func New(reg *Registry, engine Engine) *Shaper {
	return &Shaper{
		reg:    reg,
		engine: engine,
		pool: sync.Pool{
			New: func() any { return &gotext.HarfbuzzShaper{} },
		},
	}
}

// Engine 返回当前使用的后端。
func (s *Shaper) Engine() Engine { return s.engine }

// metrics 是某字号下的字体度量，单位 pt。
type metrics struct {
	ascent, descent, lineHeight float64
}

func faceMetrics(tf *Typeface, size float64) metrics {
	var buf sfnt.Buffer
	m, err := tf.sfnt.Metrics(&buf, toFixed(size), font.HintingNone)
	if err != nil {
		return metrics{ascent: 0.8 * size, descent: 0.2 * size, lineHeight: 1.2 * size}
	}
	out := metrics{ascent: fromFixed(m.Ascent), descent: fromFixed(m.Descent), lineHeight: fromFixed(m.Height)}
	if out.lineHeight <= 0 {
		out.lineHeight = out.ascent + out.descent
	}
	return out
}

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }

func fromFixed(v fixed.Int26_6) float64 { return float64(v) / 64 }

// segment 是使用同一字体的连续字符，下标指向 runes。
type segment struct {
	face       *Typeface
	start, end int
}

// Shape 整形一个 TextRun。文本先做 NFC 规范化；主字体缺字时按顺序使用回退字体，
// 所有字体都缺的字符被丢弃。返回的总宽度不含末尾字距。
func (s *Shaper) Shape(run *layout.TextRun, vertical bool) ([]layout.Glyph, float64, error) {
	if run == nil {
		return nil, 0, nil
	}
	primary, ok := s.reg.Lookup(run.Family, run.Style)
	if !ok {
		return nil, 0, fmt.Errorf("找不到字体 %s %s", run.Family, run.Style)
	}
	size := run.FontSize
	if size <= 0 {
		return nil, 0, fmt.Errorf("字号必须为正数，实际为 %v", size)
	}
	runes := []rune(norm.NFC.String(run.Text))
	segments := s.segment(primary, runes)

	var glyphs []layout.Glyph
	pm := faceMetrics(primary, size)
	pen := 0.0
	for _, seg := range segments {
		switch {
		case seg.face == nil:
			r := runes[seg.start]
			switch r {
			case '\n':
				glyphs = append(glyphs, controlGlyph(primary, r, 0, pm, size))
			case '\t':
				stop := 4 * size
				adv := math.Ceil((pen+1)/stop)*stop - pen
				g := controlGlyph(primary, r, adv, pm, size)
				g.XPosition = pen
				g.LetterSpacing = run.LetterSpacing
				glyphs = append(glyphs, g)
				pen += adv + run.LetterSpacing
			}
		default:
			var shaped []layout.Glyph
			var err error
			if s.engine == EngineHarfBuzz {
				shaped, err = s.shapeHarfBuzz(seg, runes, size, vertical)
			} else {
				shaped = shapeSfnt(seg, runes, size)
			}
			if err != nil {
				return nil, 0, err
			}
			for i := range shaped {
				shaped[i].XPosition = pen
				shaped[i].LetterSpacing = run.LetterSpacing
				pen += shaped[i].Advance + run.LetterSpacing
			}
			glyphs = append(glyphs, shaped...)
		}
	}
	width := pen
	if len(glyphs) > 0 && pen > 0 {
		width -= run.LetterSpacing
	}
	return glyphs, width, nil
}

// segment 按字体切分文本。换行与制表符单独成段（face 为 nil），
// 找不到任何字体的字符被跳过。
func (s *Shaper) segment(primary *Typeface, runes []rune) []segment {
	fallbacks := s.reg.Fallbacks()
	var out []segment
	for i, r := range runes {
		if r == '\n' || r == '\t' {
			out = append(out, segment{start: i, end: i + 1})
			continue
		}
		face := faceFor(primary, fallbacks, r)
		if face == nil {
			tracer().Infof("shaping: 所有字体都缺少 %q (U+%04X)，已丢弃", r, r)
			continue
		}
		if face != primary {
			tracer().Debugf("shaping: %q 使用回退字体 %s", r, face.font)
		}
		if n := len(out); n > 0 && out[n-1].face == face && out[n-1].end == i {
			out[n-1].end = i + 1
			continue
		}
		out = append(out, segment{face: face, start: i, end: i + 1})
	}
	return out
}

func controlGlyph(primary *Typeface, r rune, advance float64, m metrics, size float64) layout.Glyph {
	var gid sfnt.GlyphIndex
	if r == '\t' {
		var buf sfnt.Buffer
		gid, _ = primary.sfnt.GlyphIndex(&buf, ' ')
	}
	return layout.Glyph{
		GlyphID:    layout.GlyphID(gid),
		Rune:       r,
		Font:       primary.font,
		Advance:    advance,
		Ascent:     m.ascent,
		Descent:    m.descent,
		LineHeight: m.lineHeight,
		FontSize:   size,
	}
}

// shapeSfnt 逐字符取字形编号与前进量。
func shapeSfnt(seg segment, runes []rune, size float64) []layout.Glyph {
	tf := seg.face
	m := faceMetrics(tf, size)
	var buf sfnt.Buffer
	out := make([]layout.Glyph, 0, seg.end-seg.start)
	for i := seg.start; i < seg.end; i++ {
		r := runes[i]
		gid, _ := tf.sfnt.GlyphIndex(&buf, r)
		adv, err := tf.sfnt.GlyphAdvance(&buf, gid, toFixed(size), font.HintingNone)
		if err != nil {
			adv = toFixed(size)
		}
		out = append(out, layout.Glyph{
			GlyphID:    layout.GlyphID(gid),
			Rune:       r,
			Font:       tf.font,
			Advance:    fromFixed(adv),
			Ascent:     m.ascent,
			Descent:    m.descent,
			LineHeight: m.lineHeight,
			FontSize:   size,
			Cluster:    uint32(i + 1),
		})
	}
	return out
}

// Advance 返回字形在 size 下的横向前进量。未知字体按字号处理。
func (s *Shaper) Advance(f *layout.Font, gid layout.GlyphID, size float64) float64 {
	tf, ok := typefaceOf(f)
	if !ok {
		return size
	}
	var buf sfnt.Buffer
	adv, err := tf.sfnt.GlyphAdvance(&buf, sfnt.GlyphIndex(gid), toFixed(size), font.HintingNone)
	if err != nil {
		return size
	}
	return fromFixed(adv)
}
