package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/tategaki/fonts"
	"github.com/ByLCY/tategaki/layout"
	"github.com/ByLCY/tategaki/renderer"
)

func tracer() tracing.Trace {
	return tracing.Select("tategaki.render")
}

const outlineWidth = 0.2 // mm

// Renderer draws layout results via github.com/tdewolff/canvas.
// 字形按码点逐字绘制而不是按 glyph ID：整形得到的竖排替换字形与连字不会出现在 PDF 中。
// 排版坐标为 pt、y 轴向下；canvas 使用 mm，绘制时统一换算。
type Renderer struct {
	outlines bool

	fontMu         sync.Mutex
	fontFamilies   map[*layout.Font]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	Outlines bool // 为每个文本框描边，便于核对排版区域
}

// NewRenderer creates a canvas-based PDF renderer.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with the given options.
func NewRendererWithOptions(opts Options) *Renderer {
	return &Renderer{
		outlines:     opts.Outlines,
		fontFamilies: map[*layout.Font]*fontFamilyEntry{},
	}
}

// Render renders the result into a PDF byte slice.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if result.Width <= 0 || result.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %vx%v", result.Width, result.Height)
	}
	width, height := toMm(result.Width), toMm(result.Height)

	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	applyMeta(writer, result.Meta)

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	if result.Background != nil {
		ctx.SetFillColor(colorFromLayout(*result.Background))
		ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
		ctx.DrawPath(0, 0, canvas.Rectangle(width, height))
	}
	for i, bl := range result.Boxes {
		if err := r.drawBox(ctx, bl); err != nil {
			return nil, fmt.Errorf("绘制第 %d 个文本块失败: %w", i+1, err)
		}
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	tracer().Infof("render: %s，%d 个文本块", result.Name, len(result.Boxes))
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta layout.SceneMeta) {
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (r *Renderer) drawBox(ctx *canvas.Context, bl *layout.BoxLayout) error {
	if bl == nil {
		return nil
	}
	if r.outlines && bl.Box != nil && bl.Box.Width > 0 && bl.Box.Height > 0 {
		b := bl.Box
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		ctx.SetStrokeColor(color.RGBA{0xd0, 0x30, 0x30, 0xff})
		ctx.SetStrokeWidth(outlineWidth)
		ctx.DrawPath(toMm(b.Position.X), toMm(b.Position.Y), canvas.Rectangle(toMm(b.Width), toMm(b.Height)))
	}
	for _, trg := range bl.Glyphs {
		var origin layout.Point
		col := layout.Color{R: 30, G: 30, B: 30, A: 255}
		if trg.Run != nil {
			origin = trg.Run.Position
			col = trg.Run.Color
		}
		for k := range trg.Runs {
			if err := r.drawGlyphRun(ctx, &trg.Runs[k], origin, col); err != nil {
				return err
			}
		}
	}
	return nil
}

// drawGlyphRun 按码点逐字绘制一个 GlyphRun，Glyphs 中的编号只用于核对数量。canvas 只能按文字绘制，没有码点的字形（嵌入数据未给出 runes）会被跳过。
func (r *Renderer) drawGlyphRun(ctx *canvas.Context, gr *layout.GlyphRun, origin layout.Point, col layout.Color) error {
	if len(gr.Runes) != len(gr.Glyphs) {
		tracer().Infof("render: %d 个字形缺少码点，无法绘制", len(gr.Glyphs))
		return nil
	}
	face, err := r.fontFace(gr.Font, gr.FontSize, col)
	if err != nil {
		return err
	}
	for i, ch := range gr.Runes {
		line := canvas.NewTextLine(face, string(ch), canvas.Left)
		if gr.IsMatrix() {
			m := gr.Matrices[i]
			view := canvas.Matrix{
				{m[0][0], m[0][1], toMm(origin.X + m[0][2])},
				{m[1][0], m[1][1], toMm(origin.Y + m[1][2])},
			}
			ctx.Push()
			ctx.ComposeView(view)
			ctx.DrawText(0, 0, line)
			ctx.Pop()
			continue
		}
		p := gr.Positions[i]
		ctx.DrawText(toMm(origin.X+p.X), toMm(origin.Y+p.Y), line)
	}
	return nil
}

func (r *Renderer) fontFace(font *layout.Font, sizePt float64, col layout.Color) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, colorFromLayout(col), style, canvas.FontNormal), nil
}

// ensureFontFamily 为排版使用的字体建立 canvas 字体族并缓存。字体数据无法加载时退回内置 Go 字体。
func (r *Renderer) ensureFontFamily(font *layout.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[font]; ok {
		return entry.family, entry.style, nil
	}
	if font == nil || len(font.Data) == 0 {
		return r.fallback()
	}

	style := parseFontStyle(font.Style)
	family := canvas.NewFontFamily(font.Family)
	if err := family.LoadFont(font.Data, 0, style); err != nil {
		tracer().Infof("render: 加载字体 %s 失败（%v），改用内置字体", font, err)
		fallback, fbStyle, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, fmt.Errorf("加载字体 %s 失败: %w", font, err)
		}
		r.fontFamilies[font] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}
	r.fontFamilies[font] = &fontFamilyEntry{family: family, style: style}
	return family, style, nil
}

// fallback 需在持有 fontMu 时调用。
func (r *Renderer) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	data, err := fonts.Load("builtin:goregular", "")
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("tategaki-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func colorFromLayout(c layout.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, float64(c.A)/255.0)
}

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
