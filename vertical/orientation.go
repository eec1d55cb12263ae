// Package vertical 描述竖排时每个字符的朝向（UTR#50 简化版）以及标点的竖排变换。
package vertical

import (
	"fmt"
	"sort"
)

// Orientation 是竖排时字符的摆放方式。
type Orientation uint8

const (
	Upright Orientation = iota // 直立，竖向逐字前进
	Rotated                    // 顺时针旋转 90°，按横排前进量排列
)

func (o Orientation) String() string {
	if o == Upright {
		return "Upright"
	}
	return "Rotated"
}

// Transform 是竖排标点需要的变换。
type Transform uint8

const (
	TransformNone Transform = iota
	TransformRotate90
	TransformOffset // 平移到右上象限，不旋转
)

func (t Transform) String() string {
	switch t {
	case TransformRotate90:
		return "Rotate90"
	case TransformOffset:
		return "Offset"
	}
	return "None"
}

type span struct{ start, end rune }

// uprightSpans 列出竖排直立的区间，其余码点一律旋转。
// 括号、破折号、波浪线、长音符等在 CJK 区块内被刻意挖空。
var uprightSpans = []span{
	{0x00A7, 0x00A7},
	{0x00A9, 0x00A9},
	{0x00AE, 0x00AE},
	{0x00B1, 0x00B1},
	{0x00BC, 0x00BE},
	{0x00D7, 0x00D7},
	{0x00F7, 0x00F7},
	{0x02EA, 0x02EB},
	{0x1100, 0x11FF},
	{0x1401, 0x167F},
	{0x18B0, 0x18FF},
	{0x2016, 0x2016},
	{0x2020, 0x2021},
	{0x2030, 0x2031},
	{0x203B, 0x203C},
	{0x2042, 0x2042},
	{0x2047, 0x2049},
	{0x2051, 0x2051},
	{0x20DD, 0x20E0},
	{0x20E2, 0x20E4},
	{0x2100, 0x2101},
	{0x2103, 0x2109},
	{0x210F, 0x210F},
	{0x2113, 0x2114},
	{0x2116, 0x2117},
	{0x211E, 0x2123},
	{0x2125, 0x2125},
	{0x2127, 0x2127},
	{0x2129, 0x2129},
	{0x212E, 0x212E},
	{0x2135, 0x213F},
	{0x2145, 0x214A},
	{0x214C, 0x214D},
	{0x214F, 0x2189},
	{0x218C, 0x218F},
	{0x221E, 0x221E},
	{0x2234, 0x2235},
	{0x2300, 0x2307},
	{0x230C, 0x231F},
	{0x2324, 0x2328},
	{0x232B, 0x232B},
	{0x237D, 0x239A},
	{0x23BE, 0x23CD},
	{0x23CF, 0x23CF},
	{0x23D1, 0x23DB},
	{0x23E2, 0x2422},
	{0x2424, 0x24FF},
	{0x25A0, 0x2619},
	{0x2620, 0x2767},
	{0x2776, 0x2793},
	{0x2B12, 0x2B2F},
	{0x2B50, 0x2B59},
	{0x2BB8, 0x2BFF},
	{0x2E80, 0x3007},
	{0x3012, 0x3013},
	{0x3020, 0x302F},
	{0x3031, 0x309F},
	{0x30A1, 0x30FB},
	{0x30FD, 0xA4CF},
	{0xA960, 0xA97F},
	{0xAC00, 0xD7FF},
	{0xE000, 0xFAFF},
	{0xFE10, 0xFE1F},
	{0xFE30, 0xFE48},
	{0xFE50, 0xFE57},
	{0xFE5F, 0xFE62},
	{0xFE67, 0xFE6F},
	{0xFF01, 0xFF07},
	{0xFF0A, 0xFF0C},
	{0xFF0E, 0xFF19},
	{0xFF1F, 0xFF3A},
	{0xFF3C, 0xFF3C},
	{0xFF3E, 0xFF3E},
	{0xFF40, 0xFF5A},
	{0xFFE0, 0xFFE2},
	{0xFFE4, 0xFFE7},
	{0x1F000, 0x1FAFF},
	{0x20000, 0x3FFFD},
}

func init() {
	for i, s := range uprightSpans {
		if s.start > s.end || (i > 0 && uprightSpans[i-1].end >= s.start) {
			panic(fmt.Sprintf("vertical: uprightSpans[%d] 未排序或区间重叠 %#x", i, s.start))
		}
	}
}

// OrientationOf 返回码点的竖排朝向，未收录的码点为 Rotated。
func OrientationOf(r rune) Orientation {
	i := sort.Search(len(uprightSpans), func(i int) bool { return uprightSpans[i].end >= r })
	if i < len(uprightSpans) && uprightSpans[i].start <= r {
		return Upright
	}
	return Rotated
}

// NeedsPunctuationOffset 对句读点（、。，．）返回 true。
func NeedsPunctuationOffset(r rune) bool {
	switch r {
	case 0x3001, 0x3002, 0xFF0C, 0xFF0E:
		return true
	}
	return false
}

// PunctuationTransform 返回竖排时该字符需要的变换。
func PunctuationTransform(r rune) Transform {
	if NeedsPunctuationOffset(r) {
		return TransformOffset
	}
	if OrientationOf(r) == Rotated {
		return TransformRotate90
	}
	return TransformNone
}

// PunctuationOffset 把句读点从横排的左下象限挪到竖排的右上象限。
// 这是与字号成比例的固定偏移，不测量字形墨迹。
func PunctuationOffset(fontSize float64) (dx, dy float64) {
	return 0.5 * fontSize, -0.5 * fontSize
}

// IsRotatedGroupChar 判断字符是否参与“整组旋转”（日期、缩写等连续拉丁字母数字）。
func IsRotatedGroupChar(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '-':
		return true
	}
	return false
}
