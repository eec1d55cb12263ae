package layout

import (
	"math"

	"github.com/ByLCY/tategaki/linebreak"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("tategaki.layout")
}

// hasContent 报告字形序列中是否有换行标记以外的字形。
func hasContent(glyphs []Glyph) bool {
	for i := range glyphs {
		if glyphs[i].Rune != '\n' {
			return true
		}
	}
	return false
}

// sameCluster 报告两个相邻字形是否属于同一个整形簇（簇号全为 0 视为未知）。
func sameCluster(a, b *Glyph) bool {
	return (a.Cluster != 0 || b.Cluster != 0) && a.Cluster == b.Cluster
}

// LayoutLines 对字形流做横排断行：单遍贪心，遇到溢出时回退到最近一次允许断行的位置。
// 空输入返回空切片。
func LayoutLines(glyphs []Glyph, box Box) []Line {
	if len(glyphs) == 0 {
		return nil
	}
	var lines []Line
	var cur []Glyph
	x := 0.0
	lastBreak := -1
	doWrap := box.WordWrap && box.Width > 0

	for i := range glyphs {
		g := glyphs[i]
		if g.Rune == '\n' {
			lines = append(lines, finishLine(cur, box.LineHeight, g.LineHeight))
			// 换行符留在新行开头，只为新行贡献字体度量
			g.XPosition = 0
			g.Advance = 0
			cur = []Glyph{g}
			x = 0
			lastBreak = -1
			continue
		}

		if doWrap && hasContent(cur) && x+g.Advance > box.Width && !linebreak.IsWhitespace(g.Rune) {
			var head []Glyph
			if lastBreak >= 0 {
				head = trimTrailingWhitespace(cur[:lastBreak+1])
			}
			// 断点之前只有行首空白时不能在那里断开，否则会留下空行
			if hasContent(head) {
				tail := skipLeadingWhitespace(cur[lastBreak+1:])
				lines = append(lines, finishLine(head, box.LineHeight, 0))
				cur, x = reposition(tail)
			} else {
				tracer().Debugf("layout: 行内无断点，在 %q 前强制断行", g.Rune)
				lines = append(lines, finishLine(cur, box.LineHeight, 0))
				cur, x = nil, 0
			}
			lastBreak = -1
		}

		g.XPosition = x
		cur = append(cur, g)
		x += g.Advance + g.LetterSpacing

		if i+1 < len(glyphs) {
			next := &glyphs[i+1]
			if next.Rune != '\n' && !sameCluster(&g, next) && linebreak.CanBreakBetween(g.Rune, next.Rune) {
				lastBreak = len(cur) - 1
			}
		}
	}
	if len(cur) > 0 {
		lines = append(lines, finishLine(cur, box.LineHeight, 0))
	}
	return lines
}

func trimTrailingWhitespace(glyphs []Glyph) []Glyph {
	for len(glyphs) > 0 && linebreak.IsWhitespace(glyphs[len(glyphs)-1].Rune) {
		glyphs = glyphs[:len(glyphs)-1]
	}
	return glyphs
}

func skipLeadingWhitespace(glyphs []Glyph) []Glyph {
	for len(glyphs) > 0 && linebreak.IsWhitespace(glyphs[0].Rune) {
		glyphs = glyphs[1:]
	}
	return glyphs
}

// reposition 把溢出到新行的字形复制出来并从 x=0 重新排列，返回新的行与行宽。
func reposition(glyphs []Glyph) ([]Glyph, float64) {
	out := make([]Glyph, len(glyphs))
	x := 0.0
	for i := range glyphs {
		out[i] = glyphs[i]
		out[i].XPosition = x
		x += glyphs[i].Advance + glyphs[i].LetterSpacing
	}
	return out, x
}

// finishLine 计算行的宽度、度量与最终行高。
// nlLineHeight 是触发收尾的换行符所在字体的行高，只在空行时使用。
func finishLine(glyphs []Glyph, fixed, nlLineHeight float64) Line {
	line := Line{Glyphs: glyphs, RoundingRatio: 1}
	if !hasContent(glyphs) {
		// 空行：高度取换行符字体的行高；行首若留有换行标记，以它为准
		for i := range glyphs {
			if glyphs[i].LineHeight > 0 {
				nlLineHeight = glyphs[i].LineHeight
				break
			}
		}
		line.MetricsHeight = nlLineHeight
		if fixed > 0 {
			line.Height = fixed
		} else if nlLineHeight > 0 {
			line.Height = math.Round(nlLineHeight)
			line.RoundingRatio = line.Height / nlLineHeight
		}
		tracer().Debugf("layout: 空行，高度 %.2f", line.Height)
		return line
	}

	last := &glyphs[len(glyphs)-1]
	line.Width = last.XPosition + last.Advance
	for i := range glyphs {
		g := &glyphs[i]
		line.MaxAscent = math.Max(line.MaxAscent, g.absAscent())
		line.MaxDescent = math.Max(line.MaxDescent, g.Descent)
		line.MetricsHeight = math.Max(line.MetricsHeight, g.LineHeight)
	}
	if fixed > 0 {
		line.Height = fixed
	} else if line.MetricsHeight > 0 {
		line.Height = math.Round(line.MetricsHeight)
		line.RoundingRatio = line.Height / line.MetricsHeight
	}
	tracer().Debugf("layout: 行完成，%d 个字形，宽 %.2f 高 %.2f", len(glyphs), line.Width, line.Height)
	return line
}
