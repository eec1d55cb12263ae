package layout

// buildGlyphRuns 把定位后的字形按 TextRun 归组（顺序为各 TextRun 首次出现的顺序），
// 每组内再按字体与定位方式切成连续的 GlyphRun。坐标减去 TextRun 的 Position，
// 渲染端在 TextRun 的位置上绘制即可还原绝对坐标。
func buildGlyphRuns(glyphs []PositionedGlyph) []TextRunGlyphs {
	var order []*TextRun
	byRun := make(map[*TextRun][]PositionedGlyph)
	for _, pg := range glyphs {
		if _, ok := byRun[pg.Run]; !ok {
			order = append(order, pg.Run)
		}
		byRun[pg.Run] = append(byRun[pg.Run], pg)
	}

	out := make([]TextRunGlyphs, 0, len(order))
	for _, run := range order {
		var origin Point
		if run != nil {
			origin = run.Position
		}
		out = append(out, TextRunGlyphs{Run: run, Runs: splitGlyphRuns(byRun[run], origin)})
	}
	return out
}

func splitGlyphRuns(glyphs []PositionedGlyph, origin Point) []GlyphRun {
	var runs []GlyphRun
	for start := 0; start < len(glyphs); {
		head := &glyphs[start]
		end := start + 1
		for end < len(glyphs) && sameBatch(head, &glyphs[end]) {
			end++
		}

		gr := GlyphRun{Font: head.Font, FontSize: head.FontSize}
		for i := start; i < end; i++ {
			pg := &glyphs[i]
			gr.Glyphs = append(gr.Glyphs, pg.GlyphID)
			gr.Runes = append(gr.Runes, pg.Rune)
			if pg.Matrix != nil {
				m := *pg.Matrix
				m[0][2] -= origin.X
				m[1][2] -= origin.Y
				gr.Matrices = append(gr.Matrices, m)
			} else {
				gr.Positions = append(gr.Positions, Point{X: pg.X - origin.X, Y: pg.Y - origin.Y})
			}
		}
		runs = append(runs, gr)
		start = end
	}
	return runs
}

func sameBatch(a, b *PositionedGlyph) bool {
	return a.Font == b.Font && a.FontSize == b.FontSize && (a.Matrix == nil) == (b.Matrix == nil)
}
