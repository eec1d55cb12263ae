package layout

import (
	"math"

	"github.com/ByLCY/tategaki/vertical"
	"github.com/tdewolff/canvas"
)

// blockOffset 返回整段文字在块方向上的起始偏移。height 为 0 时位置是锚点。
func blockOffset(align VerticalAlign, height, total float64) float64 {
	switch align {
	case VAlignCenter:
		if height > 0 {
			return (height - total) / 2
		}
		return -total / 2
	case VAlignBottom:
		if height > 0 {
			return height - total
		}
		return -total
	}
	return 0
}

// inlineOffset 返回一行（一列）在行内方向上的对齐偏移。
func inlineOffset(align TextAlign, extent, size float64) float64 {
	switch align {
	case AlignCenter:
		if extent > 0 {
			return (extent - size) / 2
		}
		return -size / 2
	case AlignEnd:
		if extent > 0 {
			return extent - size
		}
		return -size
	}
	return 0
}

// lineBaselines 计算每行相对于文字块顶部的基线位置。
func lineBaselines(lines []Line, box Box, total float64) []float64 {
	rel := make([]float64, len(lines))

	// 居中/底对齐时从最后一行往上推，使末行贴住底边
	var pre []float64
	if (box.VerticalAlign == VAlignCenter || box.VerticalAlign == VAlignBottom) && len(lines) > 1 {
		pre = make([]float64, len(lines))
		last := len(lines) - 1
		l := &lines[last]
		if l.Empty() {
			pre[last] = total * l.RoundingRatio
		} else {
			halfLeading := (l.Height - l.MetricsHeight) / 2
			pre[last] = (total - l.Height + halfLeading + l.MaxAscent) * l.RoundingRatio
		}
		for i := last - 1; i >= 0; i-- {
			pre[i] = pre[i+1] - lines[i+1].Height
		}
	}

	top := 0.0
	hasPrev := false
	for i := range lines {
		l := &lines[i]
		switch {
		case l.Empty():
			rel[i] = (top + l.Height) * l.RoundingRatio
		case pre != nil:
			rel[i] = pre[i]
		case hasPrev && box.LineHeight > 0:
			// 固定行高时，后续行基线等距排列
			rel[i] = rel[i-1] + lines[i-1].Height
		default:
			halfLeading := (l.Height - l.MetricsHeight) / 2
			rel[i] = (top + halfLeading + l.MaxAscent) * l.RoundingRatio
		}
		hasPrev = !l.Empty()
		top += l.Height
	}
	return rel
}

// positionLines 把横排的行解析为最终坐标。
func positionLines(lines []Line, box Box) []PositionedGlyph {
	if len(lines) == 0 {
		return nil
	}
	total := 0.0
	for i := range lines {
		total += lines[i].Height
	}
	rel := lineBaselines(lines, box, total)
	yOffset := blockOffset(box.VerticalAlign, box.Height, total)
	if box.VerticalAlign == VAlignBaseline {
		yOffset = -rel[0]
	}

	var out []PositionedGlyph
	boxBottom := box.Position.Y + box.Height
	for i := range lines {
		l := &lines[i]
		baselineY := box.Position.Y + math.Round(rel[i]+yOffset)
		if box.Overflow == OverflowHidden && box.Height > 0 && i > 0 && baselineY+l.MaxDescent > boxBottom {
			tracer().Debugf("layout: 第 %d 行超出文本框底边，之后的 %d 行不输出", i, len(lines)-i)
			break
		}

		width := l.Width
		var xs []float64
		if box.Squash && !l.Empty() {
			xs, width = squashedPositions(l, LineSquash(l))
		}
		xOffset := box.Position.X + inlineOffset(box.TextAlign, box.Width, width)

		for j := range l.Glyphs {
			g := &l.Glyphs[j]
			if g.Rune == '\n' || g.Rune == '\t' {
				continue
			}
			x := g.XPosition
			if xs != nil {
				x = xs[j]
			}
			out = append(out, PositionedGlyph{
				GlyphID:  g.GlyphID,
				Rune:     g.Rune,
				Font:     g.Font,
				FontSize: g.FontSize,
				X:        x + xOffset + g.XOffset,
				Y:        baselineY - g.YOffset,
				Run:      g.Run,
			})
		}
	}
	return out
}

// columnStart 返回第一列右边缘的 x。竖排列从右向左推进。
func columnStart(box Box, total float64) float64 {
	x := box.Position.X
	switch box.VerticalAlign {
	case VAlignCenter:
		if box.Width > 0 {
			return x + (box.Width+total)/2
		}
		return x + total/2
	case VAlignBottom:
		return x + total
	}
	if box.Width > 0 {
		return x + box.Width
	}
	return x + total
}

// rotated90 返回顺时针旋转 90° 后平移到 (tx, ty) 的变换。
func rotated90(tx, ty float64) *canvas.Matrix {
	return &canvas.Matrix{{0, -1, tx}, {1, 0, ty}}
}

// positionColumns 把竖排的列解析为最终坐标。
func positionColumns(cols []Column, box Box) []PositionedGlyph {
	if len(cols) == 0 {
		return nil
	}
	total := 0.0
	for i := range cols {
		total += cols[i].Width
	}

	var out []PositionedGlyph
	columnX := columnStart(box, total)
	for i := range cols {
		col := &cols[i]
		columnX -= col.Width
		if box.Overflow == OverflowHidden && box.Width > 0 && i > 0 && columnX < box.Position.X {
			tracer().Debugf("layout: 第 %d 列超出文本框左边，之后的 %d 列不输出", i, len(cols)-i)
			break
		}
		centerX := columnX + col.Width/2

		height := col.Height
		var sq []Squash
		if box.Squash {
			sq = ColumnSquash(col)
			height = 0
			for k := range col.Groups {
				height += col.Groups[k].Height - sq[k].Leading - sq[k].Trailing
			}
		}
		y := box.Position.Y + inlineOffset(box.TextAlign, box.Height, height)

		for k := range col.Groups {
			grp := &col.Groups[k]
			lead, groupHeight := 0.0, grp.Height
			if sq != nil {
				lead = sq[k].Leading
				groupHeight -= sq[k].Leading + sq[k].Trailing
			}
			first := grp.first()
			switch {
			case grp.Kind == GroupNewline:
				continue
			case first.Rune == '\t':
			case grp.Rotated:
				localX := 0.0
				for n := range grp.Glyphs {
					g := &grp.Glyphs[n]
					tx := centerX - (g.absAscent()-g.Descent)/2
					ty := y - lead + localX
					localX += g.Advance
					out = append(out, PositionedGlyph{
						GlyphID:  g.GlyphID,
						Rune:     g.Rune,
						Font:     g.Font,
						FontSize: g.FontSize,
						X:        tx,
						Y:        ty,
						Matrix:   rotated90(tx, ty),
						Run:      g.Run,
					})
				}
			default:
				gx := centerX - first.Advance/2
				gy := y - lead + first.absAscent()
				if vertical.NeedsPunctuationOffset(first.Rune) {
					dx, dy := vertical.PunctuationOffset(first.FontSize)
					gx += dx
					gy += dy
				}
				out = append(out, PositionedGlyph{
					GlyphID:  first.GlyphID,
					Rune:     first.Rune,
					Font:     first.Font,
					FontSize: first.FontSize,
					X:        gx,
					Y:        gy,
					Run:      first.Run,
				})
			}
			y += groupHeight
		}
	}
	return out
}
