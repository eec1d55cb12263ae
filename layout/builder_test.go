package layout

import (
	"strings"
	"testing"

	"github.com/ByLCY/tategaki/dsl"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sceneDSL = `
scene Greeting v1 {
  meta {
    title: "挨拶"
    keywords: ["demo", "cjk"]
  }

  resources {
    font Body "builtin:goregular"
    font Mincho {
      src: "fonts/mincho.ttf"
      style: "Bold"
      fallback: true
    }
    color Ink = #112233
  }

  canvas 200 100 background #ffffff {
    box at 10 20 size 100 50 align center {
      text Body size 10 color Ink {
        "AB CD"
      }
    }
    text Body size 10 at 5 90 anchor center { "${name}" }
  }
}
`

func buildScene(t *testing.T, src string, data any, opts BuildOptions) (*Result, error) {
	t.Helper()
	doc, err := dsl.Parse(strings.NewReader(src))
	require.NoError(t, err, "解析场景失败")
	if opts.Shaper == nil {
		opts.Shaper = newStubShaper()
	}
	return Build(doc, data, opts)
}

func TestBuildScene(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tategaki.scene")
	defer teardown()

	res, err := buildScene(t, sceneDSL, map[string]any{"name": "AB"}, BuildOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Greeting", res.Name)
	assert.Equal(t, 200.0, res.Width)
	assert.Equal(t, 100.0, res.Height)
	require.NotNil(t, res.Background)
	assert.Equal(t, Color{R: 255, G: 255, B: 255, A: 255}, *res.Background)
	assert.Equal(t, "挨拶", res.Meta.Title)
	assert.Equal(t, []string{"demo", "cjk"}, res.Meta.Keywords)

	require.Len(t, res.Boxes, 2)
	box := res.Boxes[0]
	require.NotNil(t, box.Box)
	assert.Equal(t, Point{X: 10, Y: 20}, box.Box.Position)
	assert.Equal(t, AlignCenter, box.Box.TextAlign)
	assert.True(t, box.Box.WordWrap)
	require.Len(t, box.Glyphs, 1)

	run := box.Glyphs[0].Run
	assert.Equal(t, "AB CD", run.Text)
	assert.Equal(t, Color{R: 0x11, G: 0x22, B: 0x33, A: 255}, run.Color)
	assert.Equal(t, box.Box.Position, run.Position, "box text inherits the box position")
	pos := box.Glyphs[0].Runs[0].Positions
	require.Len(t, pos, 5)
	assert.InDelta(t, 27.5, pos[0].X, 1e-9)
	assert.InDelta(t, 8.0, pos[0].Y, 1e-9)

	placed := res.Boxes[1]
	assert.Nil(t, placed.Box)
	assert.Equal(t, AlignCenter, placed.Anchor)
	assert.Equal(t, "AB", placed.Glyphs[0].Run.Text)
	assert.Equal(t, []Point{{X: -10}, {X: 0}}, placed.Glyphs[0].Runs[0].Positions)

	for _, l := range box.Lines {
		assert.Nil(t, l.Glyphs, "glyph detail is stripped without debug")
	}
}

func TestBuildKeepsGlyphDetailInDebug(t *testing.T) {
	res, err := buildScene(t, sceneDSL, nil, BuildOptions{Debug: DebugOptions{Glyphs: true}})
	require.NoError(t, err)
	require.NotEmpty(t, res.Boxes[0].Lines)
	assert.NotEmpty(t, res.Boxes[0].Lines[0].Glyphs)
	assert.Equal(t, "${name}", res.Boxes[1].Glyphs[0].Run.Text, "unbound placeholder is kept")
}

func TestCollectResources(t *testing.T) {
	doc, err := dsl.ParseString(sceneDSL)
	require.NoError(t, err)
	res, err := CollectResources(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"Body", "Mincho"}, res.Order)
	assert.Equal(t, "builtin:goregular", res.Fonts["Body"].Src)
	mincho := res.Fonts["Mincho"]
	assert.Equal(t, "fonts/mincho.ttf", mincho.Src)
	assert.Equal(t, "Bold", mincho.Style)
	assert.True(t, mincho.Fallback)
	assert.Equal(t, Color{R: 0x11, G: 0x22, B: 0x33, A: 255}, res.Colors["Ink"])
}

func TestBuildVerticalBoxWithLineHeight(t *testing.T) {
	src := `scene V {
  canvas 100mm 50mm {
    box at 0 0 size 60 100 vertical line-height 2x squash {
      text Body size 10 { "2024年" }
    }
  }
}`
	res, err := buildScene(t, src, nil, BuildOptions{Debug: DebugOptions{Glyphs: true}})
	require.NoError(t, err)
	assert.InDelta(t, 100*MmToPt, res.Width, 1e-9)

	bl := res.Boxes[0]
	assert.Equal(t, Vertical, bl.Box.WritingMode)
	assert.True(t, bl.Box.Squash)
	assert.Equal(t, 20.0, bl.Box.LineHeight, "2x of the first run's font size")
	require.Len(t, bl.Columns, 1)
	assert.Equal(t, 20.0, bl.Columns[0].Width)
	assert.Equal(t, GroupRotated, bl.Columns[0].Groups[0].Kind)
}

func TestBuildEmbeddedGlyphs(t *testing.T) {
	src := `scene E {
  canvas 100 100 {
    box at 10 10 {
      glyphs Body size 12 {
        text: "AB"
        positions: [[0, 0], [20, -5]]
      }
    }
  }
}`
	res, err := buildScene(t, src, nil, BuildOptions{})
	require.NoError(t, err)
	gr := res.Boxes[0].Glyphs[0].Runs[0]
	assert.Equal(t, []GlyphID{'A', 'B'}, gr.Glyphs)
	assert.Equal(t, []Point{{X: 0, Y: 0}, {X: 20, Y: -5}}, gr.Positions)
}

func TestBuildErrors(t *testing.T) {
	cases := map[string]string{
		"missing canvas": `scene A { meta { title: "x" } }`,
		"unknown font":   `scene A { canvas 10 10 { text Nope { "x" } } }`,
		"bad command":    `scene A { canvas 10 10 { circle 1 2 } }`,
		"bad size":       `scene A { canvas 0 10 { } }`,
		"mixed embedding": `scene A { canvas 10 10 { box {
			glyphs Body { text: "A" }
			text Body { "B" }
		} } }`,
	}
	for name, src := range cases {
		_, err := buildScene(t, src, nil, BuildOptions{})
		assert.Error(t, err, name)
	}
}

func TestParseColor(t *testing.T) {
	c, err := parseColor("#abc")
	require.NoError(t, err)
	assert.Equal(t, Color{R: 0xaa, G: 0xbb, B: 0xcc, A: 255}, c)
	c, err = parseColor("#01020380")
	require.NoError(t, err)
	assert.Equal(t, Color{R: 1, G: 2, B: 3, A: 0x80}, c)
	_, err = parseColor("#12")
	assert.Error(t, err)
}
