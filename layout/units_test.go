package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		back := pt * PtToMm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt back=%g diff=%g", pt, back, diff)
		}
	}
}

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"12", 12},
		{"12pt", 12},
		{"16px", 12},
		{"1in", 72},
		{"2.54cm", 72},
		{"-4", -4},
		{".5em", 6},
		{"1.5x", 18},
	}
	for _, c := range cases {
		l, ok := ParseLength(c.in)
		if !ok {
			t.Fatalf("ParseLength(%q) 失败", c.in)
		}
		if got := l.ToPT(12); math.Abs(got-c.want) > 1e-6 {
			t.Fatalf("%q 换算为 pt 期望 %g，实际 %g", c.in, c.want, got)
		}
	}
	if _, ok := ParseLength("abc"); ok {
		t.Fatalf("非法长度应当解析失败")
	}
	if _, ok := ParseLength(""); ok {
		t.Fatalf("空字符串应当解析失败")
	}
}

// TestLineHeightResolve 验证行高解析：倍数与绝对值两种写法。
func TestLineHeightResolve(t *testing.T) {
	factor := LineHeightSpec{Len: Length{Value: 1.5, Unit: UnitFactor}}
	if got := factor.Resolve(16); got != 24 {
		t.Fatalf("1.5x@16pt 期望 24，实际 %g", got)
	}
	abs := LineHeightSpec{Len: Length{Value: 10, Unit: UnitMM}}
	if got := abs.Resolve(16); math.Abs(got-10*MmToPt) > 1e-9 {
		t.Fatalf("10mm 行高期望 %g，实际 %g", 10*MmToPt, got)
	}
	if got := (LineHeightSpec{}).Resolve(16); got != 0 {
		t.Fatalf("未指定行高应为 0，实际 %g", got)
	}
	if UnitMM.String() != "mm" || UnitNone.String() != "" {
		t.Fatalf("Unit.String 输出错误")
	}
}
