package layout

import (
	"math"

	"github.com/ByLCY/tategaki/linebreak"
	"github.com/ByLCY/tategaki/vertical"
)

// buildGroups 把字形流切成竖排单元：单字、旋转组（连续拉丁字母数字）或换行标记。
func buildGroups(glyphs []Glyph) []Group {
	groups := make([]Group, 0, len(glyphs))
	for i := 0; i < len(glyphs); {
		g := glyphs[i]
		if g.Rune == '\n' {
			groups = append(groups, Group{Kind: GroupNewline, Glyphs: []Glyph{g}})
			i++
			continue
		}

		j := i + 1
		rotated := vertical.OrientationOf(g.Rune) == vertical.Rotated
		if rotated && vertical.IsRotatedGroupChar(g.Rune) {
			for j < len(glyphs) && vertical.IsRotatedGroupChar(glyphs[j].Rune) {
				j++
			}
		}

		grp := Group{Kind: GroupSingle, Glyphs: glyphs[i:j:j], Rotated: rotated}
		if j-i > 1 {
			grp.Kind = GroupRotated
			for k := i; k < j; k++ {
				grp.Height += glyphs[k].Advance
				grp.Width = math.Max(grp.Width, glyphs[k].FontSize)
			}
			grp.Height += glyphs[j-1].LetterSpacing
		} else {
			if rotated {
				grp.Height = g.Advance + g.LetterSpacing
			} else {
				grp.Height = g.verticalAdvance() + g.LetterSpacing
			}
			grp.Width = g.FontSize
		}

		if i > 0 {
			prev := &glyphs[i-1]
			grp.CanBreakBefore = prev.Rune != '\n' && !sameCluster(prev, &glyphs[i]) &&
				linebreak.CanBreakBetween(prev.Rune, g.Rune)
		}
		groups = append(groups, grp)
		i = j
	}
	return groups
}

func (grp *Group) first() *Glyph { return &grp.Glyphs[0] }

func (grp *Group) spacing() float64 {
	if grp.Kind == GroupNewline {
		return 0
	}
	return grp.Glyphs[len(grp.Glyphs)-1].LetterSpacing
}

func isWhitespaceGroup(grp *Group) bool {
	return grp.Kind == GroupSingle && linebreak.IsWhitespace(grp.first().Rune)
}

func groupsHaveContent(groups []Group) bool {
	for i := range groups {
		if groups[i].Kind != GroupNewline {
			return true
		}
	}
	return false
}

// LayoutColumns 对字形流做竖排分列。列高受 Box.Height 约束，分列只发生在单元之间。
func LayoutColumns(glyphs []Glyph, box Box) []Column {
	groups := buildGroups(glyphs)
	if len(groups) == 0 {
		return nil
	}
	var cols []Column
	var cur []Group
	h := 0.0
	lastBreak := 0 // 0 表示当前列没有可用断点
	doWrap := box.WordWrap && box.Height > 0

	for _, vg := range groups {
		if vg.Kind == GroupNewline {
			cols = append(cols, finishColumn(closeColumn(trimTrailingWhitespaceGroups(cur)), box.LineHeight, vg.first().LineHeight))
			cur = []Group{vg}
			h = 0
			lastBreak = 0
			continue
		}
		if vg.CanBreakBefore {
			lastBreak = len(cur)
		}

		if doWrap && groupsHaveContent(cur) && h+vg.Height > box.Height {
			var head []Group
			if lastBreak > 0 {
				head = trimTrailingWhitespaceGroups(cur[:lastBreak])
			}
			if groupsHaveContent(head) {
				tail := append([]Group(nil), skipLeadingWhitespaceGroups(cur[lastBreak:])...)
				cols = append(cols, finishColumn(closeColumn(head), box.LineHeight, 0))
				if len(tail) > 0 {
					tail[0].CanBreakBefore = false
				}
				cur = tail
				h = 0
				for i := range tail {
					h += tail[i].Height
				}
			} else {
				tracer().Debugf("layout: 列内无断点，在 %q 前强制分列", vg.first().Rune)
				cols = append(cols, finishColumn(closeColumn(cur), box.LineHeight, 0))
				cur = nil
				h = 0
			}
			lastBreak = 0
		}
		if len(cur) == 0 {
			vg.CanBreakBefore = false
		}
		cur = append(cur, vg)
		h += vg.Height
	}
	if len(cur) > 0 {
		cols = append(cols, finishColumn(closeColumn(cur), box.LineHeight, 0))
	}
	return cols
}

// closeColumn 去掉列末单元的字距。
func closeColumn(groups []Group) []Group {
	if n := len(groups); n > 0 {
		groups[n-1].Height -= groups[n-1].spacing()
	}
	return groups
}

func trimTrailingWhitespaceGroups(groups []Group) []Group {
	for len(groups) > 0 && isWhitespaceGroup(&groups[len(groups)-1]) {
		groups = groups[:len(groups)-1]
	}
	return groups
}

func skipLeadingWhitespaceGroups(groups []Group) []Group {
	for len(groups) > 0 && isWhitespaceGroup(&groups[0]) {
		groups = groups[1:]
	}
	return groups
}

// finishColumn 计算列高与列宽。列宽按字体度量高度取整，与横排的自动行高一致。
func finishColumn(groups []Group, fixed, nlLineHeight float64) Column {
	col := Column{Groups: groups}
	maxLineHeight := 0.0
	for i := range groups {
		col.Height += groups[i].Height
		maxLineHeight = math.Max(maxLineHeight, groups[i].first().LineHeight)
	}
	if len(groups) == 0 {
		maxLineHeight = nlLineHeight
	}
	if fixed > 0 {
		col.Width = fixed
	} else {
		col.Width = math.Round(maxLineHeight)
	}
	tracer().Debugf("layout: 列完成，%d 个单元，高 %.2f 宽 %.2f", len(groups), col.Height, col.Width)
	return col
}
