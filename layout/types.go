package layout

import "github.com/tdewolff/canvas"

// 该文件定义排版引擎的输入（字形、文本框）与输出（行、列、字形分组），
// 供排版计算、渲染与调试 JSON 共用。坐标单位统一为 pt，y 轴向下。

// Point 是二维坐标。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Color 采用 0-255 的 RGBA 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
	A int `json:"a"`
}

// GlyphID 是字体内部的字形编号。
type GlyphID uint16

// Font 是一份已加载的字体。排版只关心它的身份（指针相等），
// 字体数据与解析后的句柄由 shaping 包持有。
type Font struct {
	Family string `json:"family"`
	Style  string `json:"style"`
	Data   []byte `json:"-"`
	Handle any    `json:"-"` // shaping 包私有
}

func (f *Font) String() string {
	if f == nil {
		return "<nil>"
	}
	if f.Style == "" {
		return f.Family
	}
	return f.Family + " " + f.Style
}

// Glyph 是整形器产出的单个字形，一次排版过程中只读。
type Glyph struct {
	GlyphID         GlyphID  `json:"gid"`
	Rune            rune     `json:"rune"`
	Font            *Font    `json:"-"`
	Advance         float64  `json:"advance"`
	XPosition       float64  `json:"x"`       // 行内位置，由排版写入
	Ascent          float64  `json:"ascent"`  // 可能为负（y 向上的字体度量），使用时取绝对值
	Descent         float64  `json:"descent"` // 正值
	LineHeight      float64  `json:"lineHeight"`
	FontSize        float64  `json:"fontSize"`
	LetterSpacing   float64  `json:"letterSpacing,omitempty"`
	Cluster         uint32   `json:"cluster,omitempty"`
	XOffset         float64  `json:"xOffset,omitempty"`
	YOffset         float64  `json:"yOffset,omitempty"` // y 向上
	VerticalAdvance float64  `json:"verticalAdvance,omitempty"`
	Run             *TextRun `json:"-"`
}

func (g *Glyph) absAscent() float64 {
	if g.Ascent < 0 {
		return -g.Ascent
	}
	return g.Ascent
}

func (g *Glyph) verticalAdvance() float64 {
	if g.VerticalAdvance > 0 {
		return g.VerticalAdvance
	}
	return g.FontSize
}

// TextRun 是一段同一样式的文本。Embedded 非空时表示已经带有完整字形坐标的导入数据。
type TextRun struct {
	Text          string            `json:"text"`
	Family        string            `json:"family"`
	Style         string            `json:"style,omitempty"`
	FontSize      float64           `json:"fontSize"`
	LetterSpacing float64           `json:"letterSpacing,omitempty"`
	Color         Color             `json:"color"`
	Position      Point             `json:"position"`
	Embedded      *EmbeddedGlyphRun `json:"embedded,omitempty"`
}

// EmbeddedGlyphRun 描述预先排好的字形。各可选数组与 Glyphs 按下标对应，可以比 Glyphs 短。
type EmbeddedGlyphRun struct {
	Font      *Font     `json:"font"`
	FontSize  float64   `json:"fontSize"`
	Glyphs    []GlyphID `json:"glyphs"`
	Runes     []rune    `json:"runes,omitempty"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Positions []Point   `json:"positions,omitempty"`
	XOffsets  []float64 `json:"xOffsets,omitempty"`
	Anchors   []Point   `json:"anchors,omitempty"`
	Scales    []Point   `json:"scales,omitempty"`
	Rotations []float64 `json:"rotations,omitempty"` // 角度
	Skews     []float64 `json:"skews,omitempty"`     // 角度
}

// TextAlign 是行内方向的对齐方式。
type TextAlign uint8

const (
	AlignStart TextAlign = iota
	AlignCenter
	AlignEnd
	AlignJustify // 按 Start 处理，不做词间拉伸
)

// VerticalAlign 是块方向的对齐方式。
type VerticalAlign uint8

const (
	VAlignBaseline VerticalAlign = iota
	VAlignTop
	VAlignCenter
	VAlignBottom
)

// WritingMode 是书写方向。
type WritingMode uint8

const (
	Horizontal WritingMode = iota
	Vertical               // 自上而下，列从右向左
)

// Overflow 是溢出策略。
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowHidden
)

// Box 是文本框配置。Width/Height 为 0 表示该方向不受限，此时 Position 是锚点。
type Box struct {
	Position      Point         `json:"position"`
	Width         float64       `json:"width"`
	Height        float64       `json:"height"`
	WordWrap      bool          `json:"wordWrap"`
	TextAlign     TextAlign     `json:"textAlign"`
	VerticalAlign VerticalAlign `json:"verticalAlign"`
	WritingMode   WritingMode   `json:"writingMode"`
	Overflow      Overflow      `json:"overflow"`
	LineHeight    float64       `json:"lineHeight,omitempty"` // 0 表示按字体度量
	Squash        bool          `json:"squash,omitempty"`
}

// Line 是横排的一行。
type Line struct {
	Glyphs        []Glyph `json:"glyphs"`
	Width         float64 `json:"width"`
	MaxAscent     float64 `json:"maxAscent"`
	MaxDescent    float64 `json:"maxDescent"`
	MetricsHeight float64 `json:"metricsHeight"`
	Height        float64 `json:"height"`
	RoundingRatio float64 `json:"roundingRatio"`
}

// Empty 报告该行是否只由换行标记组成。
func (l *Line) Empty() bool { return !hasContent(l.Glyphs) }

// GroupKind 区分竖排的排版单元。
type GroupKind uint8

const (
	GroupSingle  GroupKind = iota // 单个字形，直立或旋转
	GroupRotated                  // 连续拉丁字母数字，整体横排后旋转
	GroupNewline                  // 换行标记，高度为 0
)

func (k GroupKind) String() string {
	switch k {
	case GroupRotated:
		return "rotated"
	case GroupNewline:
		return "newline"
	}
	return "single"
}

// Group 是竖排中不可再分的单元。
type Group struct {
	Kind           GroupKind `json:"kind"`
	Glyphs         []Glyph   `json:"glyphs"`
	Height         float64   `json:"height"`
	Width          float64   `json:"width"`
	CanBreakBefore bool      `json:"canBreakBefore"`
	Rotated        bool      `json:"rotated"` // 绘制时是否旋转 90°
}

// Column 是竖排的一列。
type Column struct {
	Groups []Group `json:"groups"`
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
}

// Empty 报告该列是否只由换行标记组成。
func (c *Column) Empty() bool {
	for i := range c.Groups {
		if c.Groups[i].Kind != GroupNewline {
			return false
		}
	}
	return true
}

// PositionedGlyph 是定位完成的字形。Matrix 非空时使用仿射变换（旋转或嵌入变换），否则使用 X/Y。
type PositionedGlyph struct {
	GlyphID  GlyphID        `json:"gid"`
	Rune     rune           `json:"rune"`
	Font     *Font          `json:"-"`
	FontSize float64        `json:"fontSize"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Matrix   *canvas.Matrix `json:"matrix,omitempty"`
	Run      *TextRun       `json:"-"`
}

// GlyphRun 是同一字体、同一定位方式的连续字形，对应渲染端的一次绘制调用。
// 坐标相对于所属 TextRun 的 Position。
type GlyphRun struct {
	Font      *Font           `json:"font"`
	FontSize  float64         `json:"fontSize"`
	Glyphs    []GlyphID       `json:"glyphs"`
	Runes     []rune          `json:"runes,omitempty"`
	Positions []Point         `json:"positions,omitempty"`
	Matrices  []canvas.Matrix `json:"matrices,omitempty"`
}

// IsMatrix 报告该分组是否使用仿射变换定位。
func (r *GlyphRun) IsMatrix() bool { return len(r.Matrices) > 0 }

// TextRunGlyphs 汇总一个 TextRun 的全部输出分组。
type TextRunGlyphs struct {
	Run  *TextRun   `json:"run"`
	Runs []GlyphRun `json:"runs"`
}

// BoxLayout 是一个文本框的排版结果。Box 为空表示无框文本（PlaceText）。
type BoxLayout struct {
	Box     *Box            `json:"box,omitempty"`
	Anchor  TextAlign       `json:"anchor,omitempty"`
	Lines   []Line          `json:"lines,omitempty"`
	Columns []Column        `json:"columns,omitempty"`
	Glyphs  []TextRunGlyphs `json:"glyphs"`
}

// Result 是一个场景的完整排版结果。
type Result struct {
	Name       string       `json:"name"`
	Width      float64      `json:"width"`
	Height     float64      `json:"height"`
	Background *Color       `json:"background,omitempty"`
	Meta       SceneMeta    `json:"meta"`
	Boxes      []*BoxLayout `json:"boxes"`
}

// SceneMeta 对应场景文件的 meta 段。
type SceneMeta struct {
	Title    string   `json:"title,omitempty"`
	Author   string   `json:"author,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Creator  string   `json:"creator,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}
