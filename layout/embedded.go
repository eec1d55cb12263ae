package layout

import (
	"errors"
	"math"

	"github.com/tdewolff/canvas"
)

// ErrPartialEmbedding 表示同一文本框内既有嵌入字形又有普通文本。
var ErrPartialEmbedding = errors.New("layout: 文本框内不能混用嵌入字形与普通文本")

// checkEmbedding 报告文本框内的 TextRun 是否全部带有嵌入字形。部分嵌入返回 ErrPartialEmbedding。
func checkEmbedding(runs []*TextRun) (bool, error) {
	embedded := 0
	for _, run := range runs {
		if run != nil && run.Embedded != nil {
			embedded++
		}
	}
	switch embedded {
	case 0:
		return false, nil
	case len(runs):
		return true, nil
	}
	return false, ErrPartialEmbedding
}

// embeddedGlyphs 原样转发嵌入字形的坐标，不做整形与断行。坐标已是 TextRun 内的相对坐标。
func embeddedGlyphs(runs []*TextRun, shaper Shaper) []TextRunGlyphs {
	out := make([]TextRunGlyphs, 0, len(runs))
	for _, run := range runs {
		e := run.Embedded
		if len(e.Glyphs) == 0 {
			continue
		}
		out = append(out, TextRunGlyphs{Run: run, Runs: []GlyphRun{embeddedRun(run, shaper)}})
	}
	return out
}

func embeddedRun(run *TextRun, shaper Shaper) GlyphRun {
	e := run.Embedded
	size := e.FontSize
	if size <= 0 {
		size = run.FontSize
	}
	n := len(e.Glyphs)
	gr := GlyphRun{Font: e.Font, FontSize: size, Glyphs: append([]GlyphID(nil), e.Glyphs...)}
	if len(e.Runes) == n {
		gr.Runes = append([]rune(nil), e.Runes...)
	}
	advance := func(i int) float64 { return shaper.Advance(e.Font, e.Glyphs[i], size) }

	switch {
	case len(e.Scales) > 0 || len(e.Rotations) > 0 || len(e.Skews) > 0:
		gr.Matrices = make([]canvas.Matrix, n)
		pen := e.X
		for i := 0; i < n; i++ {
			var px, py float64
			switch {
			case i < len(e.Positions):
				px, py = e.X+e.Positions[i].X, e.Y+e.Positions[i].Y
				if i < len(e.XOffsets) {
					px += e.XOffsets[i]
				}
			case i < len(e.XOffsets):
				px, py = e.X+e.XOffsets[i], e.Y
			default:
				px, py = pen, e.Y
				pen += advance(i)
			}
			gr.Matrices[i] = glyphTransform(e, i, advance(i), px, py)
		}
	case len(e.Positions) >= n:
		gr.Positions = make([]Point, n)
		for i := 0; i < n; i++ {
			p := Point{X: e.X + e.Positions[i].X, Y: e.Y + e.Positions[i].Y}
			if i < len(e.XOffsets) {
				p.X += e.XOffsets[i]
			}
			gr.Positions[i] = p
		}
	case len(e.XOffsets) >= n:
		gr.Positions = make([]Point, n)
		for i := 0; i < n; i++ {
			gr.Positions[i] = Point{X: e.X + e.XOffsets[i], Y: e.Y}
		}
	default:
		gr.Positions = make([]Point, n)
		pen := e.X
		for i := 0; i < n; i++ {
			gr.Positions[i] = Point{X: pen, Y: e.Y}
			pen += advance(i)
		}
	}
	return gr
}

// glyphTransform 组合单个字形的变换。作用到字形上的顺序是：平移到锚点、缩放、斜切、旋转、
// 平移回锚点、平移到字形位置。canvas.Matrix 的链式调用是右乘，所以这里按相反顺序书写。
// 默认锚点是 (前进量/2, 0)，Anchors 给出相对偏移。
func glyphTransform(e *EmbeddedGlyphRun, i int, advance, px, py float64) canvas.Matrix {
	sx, sy := 1.0, 1.0
	if i < len(e.Scales) {
		sx, sy = e.Scales[i].X, e.Scales[i].Y
	}
	ax, ay := advance*0.5, 0.0
	if i < len(e.Anchors) {
		ax += e.Anchors[i].X
		ay += e.Anchors[i].Y
	}
	m := canvas.Identity.Translate(px, py).Translate(ax, ay)
	if i < len(e.Rotations) && e.Rotations[i] != 0 {
		m = m.Rotate(e.Rotations[i])
	}
	if i < len(e.Skews) && e.Skews[i] != 0 {
		m = m.Mul(canvas.Matrix{{1, -math.Tan(e.Skews[i] * math.Pi / 180), 0}, {0, 1, 0}})
	}
	if sx != 1 || sy != 1 {
		m = m.Scale(sx, sy)
	}
	return m.Translate(-ax, -ay)
}
