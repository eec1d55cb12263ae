package layout

// BuildOptions 配置排版阶段所需的依赖，例如整形后端。
type BuildOptions struct {
	Shaper Shaper
	Debug  DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	Glyphs bool // 在调试 JSON 中保留每行/每列的字形明细
}

// Shaper 负责把文本段落转换为字形序列（字形编号、前进量与字体度量）。
// 排版引擎只通过这个接口接触字体。
type Shaper interface {
	// Shape 整形一个 TextRun，返回字形与总宽度（已去掉末尾字距）。
	// vertical 为 true 时整形器可以启用竖排特性。
	Shape(run *TextRun, vertical bool) ([]Glyph, float64, error)
	// Advance 返回字形在给定字号下的横向前进量。
	Advance(font *Font, gid GlyphID, size float64) float64
}
