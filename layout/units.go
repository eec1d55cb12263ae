package layout

import (
	"strconv"
	"strings"
)

// 场景文件中的长度都会换算为 pt；排版与渲染内部只使用 pt。

// Unit represents the original unit of a length value as specified in the scene file.
type Unit int

const (
	UnitNone Unit = iota // 无单位数字，按 pt 处理
	UnitPT
	UnitPX
	UnitMM
	UnitCM
	UnitIN
	UnitEM     // 相对字号
	UnitFactor // 1.5x 形式的倍数（行高）
)

// Conversion constants between pt and other absolute units.
const (
	PtToMm = 25.4 / 72
	MmToPt = 1.0 / PtToMm
	PxToPt = 0.75
)

var unitSuffixes = []struct {
	s string
	u Unit
}{{"pt", UnitPT}, {"px", UnitPX}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"em", UnitEM}, {"x", UnitFactor}}

func (u Unit) String() string {
	for _, suf := range unitSuffixes {
		if suf.u == u {
			return suf.s
		}
	}
	return ""
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToPT 换算为 pt。em 与倍数相对于 fontSize（pt）。
func (l Length) ToPT(fontSize float64) float64 {
	switch l.Unit {
	case UnitPX:
		return l.Value * PxToPt
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * 72
	case UnitEM, UnitFactor:
		return l.Value * fontSize
	}
	return l.Value
}

// ParseLength parses a length string such as "12pt", "3.5mm" or "-4".
func ParseLength(value string) (Length, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, false
	}
	unit := UnitNone
	num := v
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}

// LineHeightSpec 保留作者的写法：倍数（1.5x、1.2em）或绝对长度（24pt）。
type LineHeightSpec struct {
	Len Length `json:"len"`
}

// Resolve 按首段文字的字号换算出绝对行高（pt）。0 表示按字体度量。
func (s LineHeightSpec) Resolve(fontSize float64) float64 {
	if s.Len.IsZero() {
		return 0
	}
	return s.Len.ToPT(fontSize)
}
