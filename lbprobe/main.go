// lbprobe 是一个交互式小工具：输入一行文本，逐字显示断行类别、断行机会、
// 竖排方向与标点挤压类别，用于核对排版规则表。
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"

	"github.com/ByLCY/tategaki/linebreak"
	"github.com/ByLCY/tategaki/squash"
	"github.com/ByLCY/tategaki/vertical"
)

func tracer() tracing.Trace {
	return tracing.Select("tategaki.probe")
}

func main() {
	initDisplay()

	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":      "go",
		"trace.tategaki.probe": "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	prompt := flag.String("prompt", "lb > ", "提示符")
	flag.Parse()

	// 命令行直接给出文本时只输出一次
	if flag.NArg() > 0 {
		printRows(analyze(strings.Join(flag.Args(), " ")))
		return
	}

	repl, err := readline.New(*prompt)
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	pterm.Info.Println("输入文本查看断行分析；:pair AB 查询两字符间的断行规则；<ctrl>D 退出")
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if quit := execute(line); quit {
			break
		}
	}
	pterm.Info.Println("再见")
}

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// execute 处理一行输入，返回是否退出。
func execute(line string) bool {
	switch {
	case line == ":quit" || line == ":q":
		return true
	case strings.HasPrefix(line, ":pair"):
		pair := []rune(strings.TrimSpace(strings.TrimPrefix(line, ":pair")))
		if len(pair) != 2 {
			pterm.Error.Println(":pair 需要恰好两个字符")
			return false
		}
		pterm.Println(describePair(pair[0], pair[1]))
	default:
		printRows(analyze(line))
	}
	return false
}

// probeRow 是单个字符的分析结果。
type probeRow struct {
	Rune        rune
	Class       linebreak.Class
	BreakBefore bool
	Orientation vertical.Orientation
	Transform   vertical.Transform
	Squash      squash.Category
	RotateGroup bool
}

func analyze(text string) []probeRow {
	runes := []rune(text)
	rows := make([]probeRow, len(runes))
	for i, r := range runes {
		rows[i] = probeRow{
			Rune:        r,
			Class:       linebreak.Classify(r),
			Orientation: vertical.OrientationOf(r),
			Transform:   vertical.PunctuationTransform(r),
			Squash:      squash.CategoryOf(r),
			RotateGroup: vertical.IsRotatedGroupChar(r),
		}
		if i > 0 {
			rows[i].BreakBefore = linebreak.CanBreakBetween(runes[i-1], r)
		}
	}
	return rows
}

func describePair(a, b rune) string {
	ca, cb := linebreak.Classify(a), linebreak.Classify(b)
	prevTrail, nextLead := squash.Adjacent(a, b)
	return fmt.Sprintf("%q(%v) × %q(%v) → %v，可断行=%v，挤压 %.2f/%.2f",
		a, ca, b, cb, linebreak.Lookup(ca, cb), linebreak.CanBreakBetween(a, b), prevTrail, nextLead)
}

func printRows(rows []probeRow) {
	data := pterm.TableData{{"#", "字符", "码点", "类别", "可在前断行", "竖排", "变换", "挤压", "横排组"}}
	for i, row := range rows {
		data = append(data, []string{
			fmt.Sprint(i),
			displayRune(row.Rune),
			fmt.Sprintf("U+%04X", row.Rune),
			row.Class.String(),
			mark(row.BreakBefore),
			row.Orientation.String(),
			row.Transform.String(),
			row.Squash.String(),
			mark(row.RotateGroup),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		tracer().Errorf(err.Error())
	}
}

func displayRune(r rune) string {
	switch r {
	case ' ':
		return "␠"
	case '\t':
		return "␉"
	}
	return string(r)
}

func mark(b bool) string {
	if b {
		return "✓"
	}
	return ""
}
