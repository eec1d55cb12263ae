package layout

import (
	"math"

	"github.com/ByLCY/tategaki/linebreak"
	"github.com/ByLCY/tategaki/squash"
)

// Squash 是一个字形（竖排时是一个单元）首尾可以挤掉的量，单位与前进量相同。
type Squash struct {
	Leading  float64 `json:"leading"`
	Trailing float64 `json:"trailing"`
}

func skipForSquash(r rune) bool {
	return r == '\n' || linebreak.IsWhitespace(r)
}

// LineSquash 计算一行中每个字形的标点挤压量，不修改行本身。
func LineSquash(line *Line) []Squash {
	n := len(line.Glyphs)
	sq := make([]Squash, n)
	for i := 0; i < n; i++ {
		g := &line.Glyphs[i]
		if skipForSquash(g.Rune) {
			continue
		}
		sq[i].Leading = g.Advance * squash.LineStart(g.Rune)
		break
	}
	for i := n - 1; i >= 0; i-- {
		g := &line.Glyphs[i]
		if skipForSquash(g.Rune) {
			continue
		}
		sq[i].Trailing = g.Advance * squash.LineEnd(g.Rune)
		break
	}
	for i := 0; i+1 < n; i++ {
		prev, next := &line.Glyphs[i], &line.Glyphs[i+1]
		trail, lead := squash.Adjacent(prev.Rune, next.Rune)
		sq[i].Trailing = math.Max(sq[i].Trailing, prev.Advance*trail)
		sq[i+1].Leading = math.Max(sq[i+1].Leading, next.Advance*lead)
	}
	return sq
}

// squashedPositions 按挤压量重排一行，返回每个字形的 x 与挤压后的行宽。
func squashedPositions(line *Line, sq []Squash) ([]float64, float64) {
	xs := make([]float64, len(line.Glyphs))
	pen, width := 0.0, 0.0
	for i := range line.Glyphs {
		g := &line.Glyphs[i]
		xs[i] = pen - sq[i].Leading
		effective := g.Advance - sq[i].Leading - sq[i].Trailing
		width = pen + effective
		pen += effective + g.LetterSpacing
	}
	return xs, width
}

func squashableGroup(grp *Group) bool {
	return grp.Kind == GroupSingle && !grp.Rotated
}

// ColumnSquash 计算一列中每个单元的标点挤压量，只作用于直立的单字。
// 列首与列尾的挤压遇到旋转单元即停止。
func ColumnSquash(col *Column) []Squash {
	n := len(col.Groups)
	sq := make([]Squash, n)
	for i := 0; i < n; i++ {
		grp := &col.Groups[i]
		if grp.Kind == GroupNewline || isWhitespaceGroup(grp) {
			continue
		}
		if squashableGroup(grp) {
			sq[i].Leading = grp.Height * squash.LineStart(grp.first().Rune)
		}
		break
	}
	for i := n - 1; i >= 0; i-- {
		grp := &col.Groups[i]
		if grp.Kind == GroupNewline || isWhitespaceGroup(grp) {
			continue
		}
		if squashableGroup(grp) {
			sq[i].Trailing = grp.Height * squash.LineEnd(grp.first().Rune)
		}
		break
	}
	for i := 0; i+1 < n; i++ {
		prev, next := &col.Groups[i], &col.Groups[i+1]
		if !squashableGroup(prev) || !squashableGroup(next) {
			continue
		}
		trail, lead := squash.Adjacent(prev.first().Rune, next.first().Rune)
		sq[i].Trailing = math.Max(sq[i].Trailing, prev.Height*trail)
		sq[i+1].Leading = math.Max(sq[i+1].Leading, next.Height*lead)
	}
	return sq
}
