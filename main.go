package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"

	"github.com/ByLCY/tategaki/dsl"
	"github.com/ByLCY/tategaki/fonts"
	"github.com/ByLCY/tategaki/layout"
	"github.com/ByLCY/tategaki/renderer"
	canvasrenderer "github.com/ByLCY/tategaki/renderer/canvas"
	"github.com/ByLCY/tategaki/shaping"
)

var traceKeys = []string{"tategaki.layout", "tategaki.shaping", "tategaki.render", "tategaki.scene"}

func main() {
	input := flag.String("in", "examples/demo.tate", "DSL 文件路径")
	output := flag.String("out", "output/demo.pdf", "PDF 输出路径")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	debugGlyphs := flag.Bool("debug-glyphs", false, "在调试 JSON 中保留行/列的字形明细")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	engine := flag.String("shaper", "sfnt", "整形后端 [sfnt|harfbuzz]")
	outlines := flag.Bool("outlines", false, "为文本框描边")
	tlevel := flag.String("trace", "Error", "日志级别 [Debug|Info|Error]")
	flag.Parse()

	if err := setupTracing(*tlevel); err != nil {
		log.Fatalf("配置日志失败: %v", err)
	}

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}
	eng, err := shaping.ParseEngine(*engine)
	if err != nil {
		log.Fatalf("%v", err)
	}

	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Outlines: *outlines})
	opts := runOptions{
		input:       *input,
		output:      *output,
		debugPath:   *debug,
		debugGlyphs: *debugGlyphs,
		engine:      eng,
		data:        inputData,
	}
	if err := run(opts, r); err != nil {
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s\n", *output)
}

func setupTracing(level string) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{"tracing.adapter": "go"}
	for _, key := range traceKeys {
		conf["trace."+key] = level
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	l := tracing.LevelError
	switch level {
	case "Debug":
		l = tracing.LevelDebug
	case "Info":
		l = tracing.LevelInfo
	case "Error":
	default:
		return fmt.Errorf("无效的日志级别 %q", level)
	}
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
	return nil
}

type runOptions struct {
	input, output string
	debugPath     string
	debugGlyphs   bool
	engine        shaping.Engine
	data          any
}

// run 串联解析、字体登记、排版与渲染。
func run(opts runOptions, r renderer.Renderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	doc, err := dsl.ParseFile(opts.input)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	res, err := layout.CollectResources(doc)
	if err != nil {
		return fmt.Errorf("读取资源失败: %w", err)
	}
	reg := shaping.NewRegistry()
	if err := fonts.Install(reg, res, filepath.Dir(opts.input)); err != nil {
		return fmt.Errorf("加载字体失败: %w", err)
	}

	shaper := shaping.New(reg, opts.engine)
	tracing.Select("tategaki.scene").Infof("场景 %s：使用 %s 整形后端", doc.Name, shaper.Engine())
	result, err := layout.Build(doc, opts.data, layout.BuildOptions{
		Shaper: shaper,
		Debug:  layout.DebugOptions{Glyphs: opts.debugGlyphs},
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if opts.debugPath != "" {
		if err := writeDebug(result, opts.debugPath); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	pdfBytes, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if err := os.WriteFile(opts.output, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
