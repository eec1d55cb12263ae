package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/tategaki/binding"
	"github.com/ByLCY/tategaki/dsl"
	"github.com/npillmayer/schuko/tracing"
)

func sceneTracer() tracing.Trace {
	return tracing.Select("tategaki.scene")
}

const defaultFontSize = 16.0

var defaultTextColor = Color{R: 30, G: 30, B: 30, A: 255}

// FontResource 描述场景中声明的字体，src 可以是文件路径或 builtin:* 形式。
type FontResource struct {
	Name     string `json:"name"`
	Src      string `json:"src"`
	Family   string `json:"family"`
	Style    string `json:"style"`
	Fallback bool   `json:"fallback"` // 参与缺字回退
}

// ResourceSet 记录解析出的字体与颜色定义。Order 保持字体的声明顺序（即回退顺序）。
type ResourceSet struct {
	Fonts  map[string]FontResource `json:"fonts"`
	Order  []string                `json:"order"`
	Colors map[string]Color        `json:"colors"`
}

// Build 根据场景 AST 生成排版结果。字体需要事先按 CollectResources 的结果注册到 Shaper。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("场景为空")
	}
	if opts.Shaper == nil {
		return nil, errNoShaper
	}
	res, err := CollectResources(doc)
	if err != nil {
		return nil, err
	}
	section := doc.Canvas()
	if section == nil {
		return nil, fmt.Errorf("场景中缺少 canvas 段落")
	}

	result := &Result{Name: doc.Name, Meta: collectMeta(doc)}
	if err := resolveCanvas(section, res, result); err != nil {
		return nil, err
	}
	sb := &sceneBuilder{res: res, data: data, opts: opts, result: result}
	if err := sb.processBlock(section.Block); err != nil {
		return nil, err
	}
	if !opts.Debug.Glyphs {
		for _, bl := range result.Boxes {
			stripGlyphDetail(bl)
		}
	}
	sceneTracer().Infof("scene %s: %d 个文本块", result.Name, len(result.Boxes))
	return result, nil
}

type sceneBuilder struct {
	res    ResourceSet
	data   any
	opts   BuildOptions
	result *Result
}

// processBlock 依次处理 canvas 内的命令，支持 box 与 text。
func (sb *sceneBuilder) processBlock(block *dsl.Block) error {
	for _, cmd := range block.Commands() {
		switch cmd.Name {
		case "box":
			if err := sb.handleBox(cmd); err != nil {
				return err
			}
		case "text":
			if err := sb.handlePlacedText(cmd); err != nil {
				return err
			}
		default:
			return fmt.Errorf("canvas 中不支持的命令 %q（%s）", cmd.Name, cmd.Position())
		}
	}
	return nil
}

func (sb *sceneBuilder) handleBox(cmd *dsl.Command) error {
	box, lineHeight, err := parseBox(cmd.Args)
	if err != nil {
		return fmt.Errorf("box（%s）: %w", cmd.Position(), err)
	}
	var runs []*TextRun
	for _, child := range cmd.Block.Commands() {
		var run *TextRun
		switch child.Name {
		case "text":
			run, err = sb.textRun(child)
		case "glyphs":
			run, err = sb.embeddedRun(child)
		default:
			err = fmt.Errorf("box 中不支持的命令 %q", child.Name)
		}
		if err != nil {
			return fmt.Errorf("box（%s）: %w", child.Position(), err)
		}
		if run.Position == (Point{}) {
			run.Position = box.Position
		}
		runs = append(runs, run)
	}
	if len(runs) > 0 {
		box.LineHeight = lineHeight.Resolve(runs[0].FontSize)
	}

	bl, err := Typeset(box, runs, sb.opts.Shaper)
	if err != nil {
		return fmt.Errorf("box（%s）: %w", cmd.Position(), err)
	}
	sb.result.Boxes = append(sb.result.Boxes, bl)
	return nil
}

func (sb *sceneBuilder) handlePlacedText(cmd *dsl.Command) error {
	run, err := sb.textRun(cmd)
	if err != nil {
		return fmt.Errorf("text（%s）: %w", cmd.Position(), err)
	}
	anchor := AlignStart
	for i, arg := range cmd.Args {
		if arg.Value == "anchor" && i+1 < len(cmd.Args) {
			anchor = parseTextAlign(cmd.Args[i+1].Value)
		}
	}
	bl, err := PlaceText(run, anchor, sb.opts.Shaper)
	if err != nil {
		return fmt.Errorf("text（%s）: %w", cmd.Position(), err)
	}
	sb.result.Boxes = append(sb.result.Boxes, bl)
	return nil
}

// textRun 解析 `text <font> size 18 color #333 spacing 1 at 10 20 { "..." }`。
func (sb *sceneBuilder) textRun(cmd *dsl.Command) (*TextRun, error) {
	if len(cmd.Args) == 0 {
		return nil, fmt.Errorf("%s 缺少字体名", cmd.Name)
	}
	font, ok := sb.res.Fonts[cmd.Args[0].Value]
	if !ok {
		return nil, fmt.Errorf("未声明的字体 %q", cmd.Args[0].Value)
	}
	run := &TextRun{
		Family:   font.Family,
		Style:    font.Style,
		FontSize: defaultFontSize,
		Color:    defaultTextColor,
	}
	args := newArgReader(cmd.Args[1:])
	for args.more() {
		switch key := args.next(); key {
		case "size":
			run.FontSize = args.length(defaultFontSize)
		case "spacing":
			run.LetterSpacing = args.length(run.FontSize)
		case "color":
			run.Color = sb.resolveColor(args.next())
		case "at":
			run.Position.X = args.length(run.FontSize)
			run.Position.Y = args.length(run.FontSize)
		case "anchor":
			args.next()
		default:
			return nil, fmt.Errorf("%s 不支持的参数 %q", cmd.Name, key)
		}
	}
	if args.err != nil {
		return nil, args.err
	}
	if cmd.Name == "text" {
		run.Text = binding.Interpolate(cmd.Block.Text(), sb.data)
	}
	return run, nil
}

// embeddedRun 解析预先排好的字形：
//
//	glyphs <font> size 12 { text: "ABC"; positions: [[0, 0], [12, 0], [24, 0]]; rotations: [0, 15, 0] }
//
// 文本先经 Shaper 取得字形编号，坐标与变换原样保存。
func (sb *sceneBuilder) embeddedRun(cmd *dsl.Command) (*TextRun, error) {
	run, err := sb.textRun(cmd)
	if err != nil {
		return nil, err
	}
	attrs := cmd.Block.Assignments()
	text, _ := attrs["text"].Scalar()
	run.Text = binding.Interpolate(text, sb.data)

	shaped, _, err := sb.opts.Shaper.Shape(run, false)
	if err != nil {
		return nil, err
	}
	e := &EmbeddedGlyphRun{FontSize: run.FontSize}
	for i := range shaped {
		g := &shaped[i]
		if g.Rune == '\n' || g.Rune == '\t' {
			continue
		}
		if e.Font == nil {
			e.Font = g.Font
		}
		e.Glyphs = append(e.Glyphs, g.GlyphID)
		e.Runes = append(e.Runes, g.Rune)
	}
	if e.Positions, err = valueToPoints(attrs["positions"]); err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	if e.Anchors, err = valueToPoints(attrs["anchors"]); err != nil {
		return nil, fmt.Errorf("anchors: %w", err)
	}
	if e.Scales, err = valueToPoints(attrs["scales"]); err != nil {
		return nil, fmt.Errorf("scales: %w", err)
	}
	if e.XOffsets, err = valueToFloats(attrs["x-offsets"]); err != nil {
		return nil, fmt.Errorf("x-offsets: %w", err)
	}
	if e.Rotations, err = valueToFloats(attrs["rotations"]); err != nil {
		return nil, fmt.Errorf("rotations: %w", err)
	}
	if e.Skews, err = valueToFloats(attrs["skews"]); err != nil {
		return nil, fmt.Errorf("skews: %w", err)
	}
	run.Embedded = e
	return run, nil
}

// parseBox 解析 `box at X Y size W H vertical nowrap align center valign top overflow hidden line-height 1.5x squash`。
func parseBox(args []*dsl.Lexeme) (Box, LineHeightSpec, error) {
	box := Box{WordWrap: true, VerticalAlign: VAlignTop}
	var lh LineHeightSpec
	r := newArgReader(args)
	for r.more() {
		switch key := r.next(); key {
		case "at":
			box.Position.X = r.length(defaultFontSize)
			box.Position.Y = r.length(defaultFontSize)
		case "size":
			box.Width = r.length(defaultFontSize)
			box.Height = r.length(defaultFontSize)
		case "wrap":
			box.WordWrap = true
		case "nowrap":
			box.WordWrap = false
		case "horizontal":
			box.WritingMode = Horizontal
		case "vertical":
			box.WritingMode = Vertical
		case "align":
			box.TextAlign = parseTextAlign(r.next())
		case "valign":
			box.VerticalAlign = parseVerticalAlign(r.next())
		case "overflow":
			if r.next() == "hidden" {
				box.Overflow = OverflowHidden
			}
		case "line-height":
			l, ok := ParseLength(r.number())
			if !ok {
				return box, lh, fmt.Errorf("无效的行高")
			}
			lh.Len = l
		case "squash":
			box.Squash = true
		default:
			return box, lh, fmt.Errorf("不支持的参数 %q", key)
		}
	}
	return box, lh, r.err
}

func parseTextAlign(v string) TextAlign {
	switch strings.ToLower(v) {
	case "center", "middle":
		return AlignCenter
	case "end", "right":
		return AlignEnd
	case "justify":
		return AlignJustify
	}
	return AlignStart
}

func parseVerticalAlign(v string) VerticalAlign {
	switch strings.ToLower(v) {
	case "baseline":
		return VAlignBaseline
	case "center", "middle":
		return VAlignCenter
	case "bottom":
		return VAlignBottom
	}
	return VAlignTop
}

// argReader 顺序读取命令参数，负数由 '-' 与数字两个记号拼成。
type argReader struct {
	args []*dsl.Lexeme
	pos  int
	err  error
}

func newArgReader(args []*dsl.Lexeme) *argReader { return &argReader{args: args} }

func (r *argReader) more() bool { return r.err == nil && r.pos < len(r.args) }

func (r *argReader) next() string {
	if r.pos >= len(r.args) {
		if r.err == nil {
			r.err = fmt.Errorf("参数不完整")
		}
		return ""
	}
	v := r.args[r.pos].Value
	r.pos++
	return v
}

func (r *argReader) number() string {
	if r.pos < len(r.args) && (r.args[r.pos].IsSymbol("-") || r.args[r.pos].IsSymbol("+")) {
		sign := r.next()
		return sign + r.next()
	}
	return r.next()
}

// length 读取一个长度并换算为 pt，em 相对于 fontSize。
func (r *argReader) length(fontSize float64) float64 {
	raw := r.number()
	l, ok := ParseLength(raw)
	if !ok {
		if r.err == nil {
			r.err = fmt.Errorf("无效的长度 %q", raw)
		}
		return 0
	}
	return l.ToPT(fontSize)
}

// resolveCanvas 解析 `canvas 400 600 background #fff` 中的尺寸与背景色。
func resolveCanvas(section *dsl.CanvasSection, res ResourceSet, result *Result) error {
	r := newArgReader(section.Params)
	result.Width = r.length(defaultFontSize)
	result.Height = r.length(defaultFontSize)
	for r.more() {
		switch key := r.next(); key {
		case "background":
			c := resolveColor(r.next(), res)
			result.Background = &c
		default:
			return fmt.Errorf("canvas 不支持的参数 %q", key)
		}
	}
	if r.err != nil {
		return fmt.Errorf("canvas 尺寸: %w", r.err)
	}
	if result.Width <= 0 || result.Height <= 0 {
		return fmt.Errorf("canvas 尺寸必须为正数")
	}
	return nil
}

// CollectResources 收集所有 resources 段中声明的字体与颜色。没有声明字体时使用内置 Go 字体。
func CollectResources(doc *dsl.Document) (ResourceSet, error) {
	res := ResourceSet{
		Fonts:  map[string]FontResource{},
		Colors: map[string]Color{},
	}
	for _, block := range doc.Resources() {
		for _, cmd := range block.Commands() {
			switch cmd.Name {
			case "font":
				font, err := parseFontResource(cmd)
				if err != nil {
					return res, err
				}
				if _, dup := res.Fonts[font.Name]; !dup {
					res.Order = append(res.Order, font.Name)
				}
				res.Fonts[font.Name] = font
			case "color":
				name, value := parseColorResource(cmd)
				if name == "" || value == "" {
					continue
				}
				c, err := parseColor(value)
				if err != nil {
					return res, fmt.Errorf("颜色 %s: %w", name, err)
				}
				res.Colors[name] = c
			default:
				return res, fmt.Errorf("resources 中不支持的声明 %q（%s）", cmd.Name, cmd.Position())
			}
		}
	}
	if len(res.Fonts) == 0 {
		res.Fonts["Body"] = FontResource{Name: "Body", Src: "builtin:goregular", Family: "Go", Style: "Regular"}
		res.Order = []string{"Body"}
	}
	return res, nil
}

func parseFontResource(cmd *dsl.Command) (FontResource, error) {
	if len(cmd.Args) == 0 {
		return FontResource{}, fmt.Errorf("font 声明缺少名称（%s）", cmd.Position())
	}
	font := FontResource{
		Name:   cmd.Args[0].Value,
		Family: cmd.Args[0].Value,
		Style:  "Regular",
	}
	if len(cmd.Args) > 1 {
		font.Src = cmd.Args[1].Value
	}
	for key, val := range cmd.Block.Assignments() {
		s, _ := val.Scalar()
		switch key {
		case "src":
			font.Src = s
		case "family":
			font.Family = s
		case "style":
			font.Style = s
		case "fallback":
			font.Fallback = s == "true" || s == "yes"
		}
	}
	if font.Src == "" {
		return font, fmt.Errorf("字体 %s 缺少 src", font.Name)
	}
	return font, nil
}

func parseColorResource(cmd *dsl.Command) (string, string) {
	if len(cmd.Args) == 0 {
		return "", ""
	}
	name := cmd.Args[0].Value
	value := ""
	if len(cmd.Args) > 1 {
		value = cmd.Args[len(cmd.Args)-1].Value
	}
	return name, value
}

func collectMeta(doc *dsl.Document) SceneMeta {
	meta := SceneMeta{Creator: "tategaki"}
	block := doc.Meta()
	if block == nil {
		return meta
	}
	for key, val := range block.Assignments() {
		s, _ := val.Scalar()
		switch strings.ToLower(key) {
		case "title":
			meta.Title = s
		case "author":
			meta.Author = s
		case "subject":
			meta.Subject = s
		case "creator":
			meta.Creator = s
		case "keywords":
			meta.Keywords = valueToStrings(val)
		}
	}
	return meta
}

func (sb *sceneBuilder) resolveColor(value string) Color {
	return resolveColor(value, sb.res)
}

func resolveColor(value string, res ResourceSet) Color {
	if c, ok := res.Colors[value]; ok {
		return c
	}
	if strings.HasPrefix(value, "#") {
		if c, err := parseColor(value); err == nil {
			return c
		}
	}
	sceneTracer().Infof("未知颜色 %q，使用默认文字颜色", value)
	return defaultTextColor
}

// parseColor 支持 #rgb、#rrggbb 与 #rrggbbaa。
func parseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) == 3 {
		hex = strings.Repeat(hex[0:1], 2) + strings.Repeat(hex[1:2], 2) + strings.Repeat(hex[2:3], 2)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return Color{}, fmt.Errorf("无效的颜色 %q", value)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("无效的颜色 %q", value)
	}
	return Color{R: int(v >> 24 & 0xff), G: int(v >> 16 & 0xff), B: int(v >> 8 & 0xff), A: int(v & 0xff)}, nil
}

func valueToStrings(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array == nil {
		if s, ok := val.Scalar(); ok && s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, len(val.Array.Values))
	for _, item := range val.Array.Values {
		if s, ok := item.Scalar(); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func valueToFloats(val *dsl.Value) ([]float64, error) {
	if val == nil {
		return nil, nil
	}
	if val.Array == nil {
		return nil, fmt.Errorf("需要数组")
	}
	out := make([]float64, 0, len(val.Array.Values))
	for _, item := range val.Array.Values {
		s, _ := item.Scalar()
		l, ok := ParseLength(s)
		if !ok {
			return nil, fmt.Errorf("无效的数字 %q", s)
		}
		out = append(out, l.Value)
	}
	return out, nil
}

func valueToPoints(val *dsl.Value) ([]Point, error) {
	if val == nil {
		return nil, nil
	}
	if val.Array == nil {
		return nil, fmt.Errorf("需要数组")
	}
	out := make([]Point, 0, len(val.Array.Values))
	for _, item := range val.Array.Values {
		xy, err := valueToFloats(item)
		if err != nil {
			return nil, err
		}
		if len(xy) != 2 {
			return nil, fmt.Errorf("坐标需要两个数字，实际 %d 个", len(xy))
		}
		out = append(out, Point{X: xy[0], Y: xy[1]})
	}
	return out, nil
}

// stripGlyphDetail 去掉行与列里的字形明细，只保留度量，调试 JSON 因此更短。
func stripGlyphDetail(bl *BoxLayout) {
	for i := range bl.Lines {
		bl.Lines[i].Glyphs = nil
	}
	for i := range bl.Columns {
		for k := range bl.Columns[i].Groups {
			bl.Columns[i].Groups[k].Glyphs = nil
		}
	}
}
