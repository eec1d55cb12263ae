package layout

import (
	"errors"
	"fmt"
)

var errNoShaper = errors.New("layout: 缺少整形后端 Shaper")

// Typeset 对一个文本框排版：整形、断行（或分列）、定位，并按 TextRun 输出字形分组。
// 全部 TextRun 都带嵌入字形时跳过整形与断行；部分嵌入返回 ErrPartialEmbedding。
func Typeset(box Box, runs []*TextRun, shaper Shaper) (*BoxLayout, error) {
	if shaper == nil {
		return nil, errNoShaper
	}
	out := &BoxLayout{Box: &box}
	embedded, err := checkEmbedding(runs)
	if err != nil {
		return nil, err
	}
	if embedded {
		out.Glyphs = embeddedGlyphs(runs, shaper)
		return out, nil
	}

	vertical := box.WritingMode == Vertical
	glyphs, err := shapeRuns(runs, shaper, vertical)
	if err != nil {
		return nil, err
	}
	if vertical {
		out.Columns = LayoutColumns(glyphs, box)
		out.Glyphs = buildGlyphRuns(positionColumns(out.Columns, box))
	} else {
		out.Lines = LayoutLines(glyphs, box)
		out.Glyphs = buildGlyphRuns(positionLines(out.Lines, box))
	}
	return out, nil
}

// shapeRuns 逐段整形并拼接成一条字形流，每段的 x 偏移为之前各段的总宽度，
// 使多样式文字作为同一段落断行与对齐。
func shapeRuns(runs []*TextRun, shaper Shaper, vertical bool) ([]Glyph, error) {
	var all []Glyph
	totalWidth := 0.0
	for i, run := range runs {
		if run == nil {
			continue
		}
		glyphs, width, err := shaper.Shape(run, vertical)
		if err != nil {
			return nil, fmt.Errorf("整形第 %d 段文本失败: %w", i+1, err)
		}
		for j := range glyphs {
			glyphs[j].Run = run
			if glyphs[j].Rune != '\n' {
				glyphs[j].XPosition += totalWidth
			}
		}
		all = append(all, glyphs...)
		totalWidth += width
	}
	return all, nil
}

// PlaceText 排版一段不在文本框内的文字。Position 是锚点，anchor 决定每行相对锚点的对齐。
// 单行时锚点在基线上；多行时第一行顶部对齐锚点，行距为 1.2 倍字号。
func PlaceText(run *TextRun, anchor TextAlign, shaper Shaper) (*BoxLayout, error) {
	if shaper == nil {
		return nil, errNoShaper
	}
	out := &BoxLayout{Anchor: anchor}
	if run == nil {
		return out, nil
	}
	if run.Embedded != nil {
		out.Glyphs = embeddedGlyphs([]*TextRun{run}, shaper)
		return out, nil
	}
	glyphs, err := shapeRuns([]*TextRun{run}, shaper, false)
	if err != nil {
		return nil, err
	}
	lines := LayoutLines(glyphs, Box{})
	out.Lines = lines

	baseline := run.Position.Y
	pitch := 1.2 * run.FontSize
	if len(lines) > 1 {
		baseline += lines[0].MaxAscent
	}
	var placed []PositionedGlyph
	for i := range lines {
		l := &lines[i]
		if !l.Empty() {
			xOffset := run.Position.X + inlineOffset(anchor, 0, l.Width)
			for j := range l.Glyphs {
				g := &l.Glyphs[j]
				if g.Rune == '\n' || g.Rune == '\t' {
					continue
				}
				placed = append(placed, PositionedGlyph{
					GlyphID:  g.GlyphID,
					Rune:     g.Rune,
					Font:     g.Font,
					FontSize: g.FontSize,
					X:        g.XPosition + xOffset + g.XOffset,
					Y:        baseline - g.YOffset,
					Run:      g.Run,
				})
			}
		}
		baseline += pitch
	}
	out.Glyphs = buildGlyphRuns(placed)
	return out, nil
}
