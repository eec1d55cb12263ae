// Package linebreak 实现简化版 UAX#14 断行分类与成对断行判定。
//
// 分类表只有 16 个类别，足以覆盖中日韩排版中的禁则处理（行首禁止、行尾禁止）
// 以及拉丁文字按空格断行的常见情形。所有查询都是纯函数，表在初始化后只读。
package linebreak

import (
	"fmt"
	"sort"
)

// Class 是简化后的断行类别。
type Class uint8

const (
	OP Class = iota // 开始标点：( [ 「
	CL              // 结束标点：) ] 」 、 。
	QU              // 引号
	NS              // 不可在行首出现的字符：々 ゝ 小写假名
	EX              // 感叹号、问号
	GL              // 不可断空格 NBSP
	BA              // 其后可断：连字符、制表符
	BB              // 其前可断
	IN              // 省略号，不可分离
	PR              // 前缀数字符号：$ ¥
	PO              // 后缀数字符号：% ℃
	NU              // 数字
	AL              // 字母（默认类别）
	ID              // 表意文字
	CM              // 组合附加符号
	SP              // 空格

	numClasses = int(SP) + 1
)

var classNames = [numClasses]string{
	"OP", "CL", "QU", "NS", "EX", "GL", "BA", "BB",
	"IN", "PR", "PO", "NU", "AL", "ID", "CM", "SP",
}

func (c Class) String() string {
	if int(c) < numClasses {
		return classNames[c]
	}
	return fmt.Sprintf("Class(%d)", c)
}

type classRange struct {
	start, end rune
	class      Class
}

// classTable 按 start 升序排列且互不重叠，未覆盖的码点归为 AL。
var classTable = []classRange{
	{0x0009, 0x0009, BA},
	{0x0020, 0x0020, SP},
	{0x0021, 0x0021, EX},
	{0x0022, 0x0022, QU},
	{0x0024, 0x0024, PR},
	{0x0025, 0x0025, PO},
	{0x0027, 0x0027, QU},
	{0x0028, 0x0028, OP},
	{0x0029, 0x0029, CL},
	{0x002B, 0x002B, PR},
	{0x002D, 0x002D, BA},
	{0x0030, 0x0039, NU},
	{0x003F, 0x003F, EX},
	{0x005B, 0x005B, OP},
	{0x005C, 0x005C, PR},
	{0x005D, 0x005D, CL},
	{0x007B, 0x007B, OP},
	{0x007C, 0x007C, BA},
	{0x007D, 0x007D, CL},
	{0x00A0, 0x00A0, GL},
	{0x00A1, 0x00A1, OP},
	{0x00A2, 0x00A2, PO},
	{0x00A3, 0x00A5, PR},
	{0x00AB, 0x00AB, QU},
	{0x00AD, 0x00AD, BA},
	{0x00B0, 0x00B0, PO},
	{0x00B1, 0x00B1, PR},
	{0x00B4, 0x00B4, BB},
	{0x00BB, 0x00BB, QU},
	{0x00BF, 0x00BF, OP},
	{0x0300, 0x036F, CM},
	{0x0483, 0x0489, CM},
	{0x0591, 0x05BD, CM},
	{0x0610, 0x061A, CM},
	{0x064B, 0x065F, CM},
	{0x1100, 0x115F, ID},
	{0x1AB0, 0x1AFF, CM},
	{0x1DC0, 0x1DFF, CM},
	{0x2000, 0x2006, BA},
	{0x2007, 0x2007, GL},
	{0x2008, 0x200B, BA},
	{0x200D, 0x200D, CM},
	{0x2010, 0x2010, BA},
	{0x2011, 0x2011, GL},
	{0x2012, 0x2014, BA},
	{0x2018, 0x2019, QU},
	{0x201A, 0x201A, OP},
	{0x201B, 0x201D, QU},
	{0x201E, 0x201E, OP},
	{0x201F, 0x201F, QU},
	{0x2024, 0x2026, IN},
	{0x2027, 0x2027, BA},
	{0x202F, 0x202F, GL},
	{0x2030, 0x2037, PO},
	{0x2039, 0x203A, QU},
	{0x203C, 0x203D, NS},
	{0x2045, 0x2045, OP},
	{0x2046, 0x2046, CL},
	{0x2047, 0x2049, NS},
	{0x2060, 0x2060, GL},
	{0x20A0, 0x20CF, PR},
	{0x20D0, 0x20FF, CM},
	{0x2103, 0x2103, PO},
	{0x2116, 0x2116, PR},
	{0x2E80, 0x2FFF, ID},
	{0x3000, 0x3000, BA},
	{0x3001, 0x3002, CL},
	{0x3003, 0x3004, ID},
	{0x3005, 0x3005, NS},
	{0x3006, 0x3007, ID},
	{0x3008, 0x3008, OP},
	{0x3009, 0x3009, CL},
	{0x300A, 0x300A, OP},
	{0x300B, 0x300B, CL},
	{0x300C, 0x300C, OP},
	{0x300D, 0x300D, CL},
	{0x300E, 0x300E, OP},
	{0x300F, 0x300F, CL},
	{0x3010, 0x3010, OP},
	{0x3011, 0x3011, CL},
	{0x3012, 0x3013, ID},
	{0x3014, 0x3014, OP},
	{0x3015, 0x3015, CL},
	{0x3016, 0x3016, OP},
	{0x3017, 0x3017, CL},
	{0x3018, 0x3018, OP},
	{0x3019, 0x3019, CL},
	{0x301A, 0x301A, OP},
	{0x301B, 0x301B, CL},
	{0x301C, 0x301C, NS},
	{0x301D, 0x301D, OP},
	{0x301E, 0x301F, CL},
	{0x3020, 0x3029, ID},
	{0x302A, 0x302F, CM},
	{0x3030, 0x303A, ID},
	{0x303B, 0x303C, NS},
	{0x303D, 0x303F, ID},
	// 平假名：小写假名按行首禁则处理
	{0x3041, 0x3041, NS},
	{0x3042, 0x3042, ID},
	{0x3043, 0x3043, NS},
	{0x3044, 0x3044, ID},
	{0x3045, 0x3045, NS},
	{0x3046, 0x3046, ID},
	{0x3047, 0x3047, NS},
	{0x3048, 0x3048, ID},
	{0x3049, 0x3049, NS},
	{0x304A, 0x3062, ID},
	{0x3063, 0x3063, NS},
	{0x3064, 0x3082, ID},
	{0x3083, 0x3083, NS},
	{0x3084, 0x3084, ID},
	{0x3085, 0x3085, NS},
	{0x3086, 0x3086, ID},
	{0x3087, 0x3087, NS},
	{0x3088, 0x308D, ID},
	{0x308E, 0x308E, NS},
	{0x308F, 0x3094, ID},
	{0x3095, 0x3096, NS},
	{0x3099, 0x309A, CM},
	{0x309B, 0x309E, NS},
	{0x309F, 0x309F, ID},
	// 片假名
	{0x30A0, 0x30A1, NS},
	{0x30A2, 0x30A2, ID},
	{0x30A3, 0x30A3, NS},
	{0x30A4, 0x30A4, ID},
	{0x30A5, 0x30A5, NS},
	{0x30A6, 0x30A6, ID},
	{0x30A7, 0x30A7, NS},
	{0x30A8, 0x30A8, ID},
	{0x30A9, 0x30A9, NS},
	{0x30AA, 0x30C2, ID},
	{0x30C3, 0x30C3, NS},
	{0x30C4, 0x30E2, ID},
	{0x30E3, 0x30E3, NS},
	{0x30E4, 0x30E4, ID},
	{0x30E5, 0x30E5, NS},
	{0x30E6, 0x30E6, ID},
	{0x30E7, 0x30E7, NS},
	{0x30E8, 0x30ED, ID},
	{0x30EE, 0x30EE, NS},
	{0x30EF, 0x30F4, ID},
	{0x30F5, 0x30F6, NS},
	{0x30F7, 0x30FA, ID},
	{0x30FB, 0x30FE, NS},
	{0x30FF, 0x30FF, ID},
	{0x3100, 0x31EF, ID},
	{0x31F0, 0x31FF, NS},
	{0x3200, 0x4DBF, ID},
	{0x4E00, 0x9FFF, ID},
	{0xA000, 0xA4CF, ID},
	{0xAC00, 0xD7A3, ID},
	{0xF900, 0xFAFF, ID},
	{0xFE00, 0xFE0F, CM},
	// 竖排标点兼容形式
	{0xFE11, 0xFE12, CL},
	{0xFE15, 0xFE16, EX},
	{0xFE17, 0xFE17, OP},
	{0xFE18, 0xFE18, CL},
	{0xFE19, 0xFE19, IN},
	{0xFE20, 0xFE2F, CM},
	{0xFE30, 0xFE34, ID},
	{0xFE35, 0xFE35, OP},
	{0xFE36, 0xFE36, CL},
	{0xFE37, 0xFE37, OP},
	{0xFE38, 0xFE38, CL},
	{0xFE39, 0xFE39, OP},
	{0xFE3A, 0xFE3A, CL},
	{0xFE3B, 0xFE3B, OP},
	{0xFE3C, 0xFE3C, CL},
	{0xFE3D, 0xFE3D, OP},
	{0xFE3E, 0xFE3E, CL},
	{0xFE3F, 0xFE3F, OP},
	{0xFE40, 0xFE40, CL},
	{0xFE41, 0xFE41, OP},
	{0xFE42, 0xFE42, CL},
	{0xFE43, 0xFE43, OP},
	{0xFE44, 0xFE44, CL},
	{0xFE45, 0xFE46, ID},
	{0xFE47, 0xFE47, OP},
	{0xFE48, 0xFE48, CL},
	{0xFE49, 0xFE4F, ID},
	{0xFE50, 0xFE50, CL},
	{0xFE51, 0xFE51, ID},
	{0xFE52, 0xFE52, CL},
	{0xFE54, 0xFE55, NS},
	{0xFE56, 0xFE57, EX},
	{0xFE58, 0xFE58, ID},
	{0xFE59, 0xFE59, OP},
	{0xFE5A, 0xFE5A, CL},
	{0xFE5B, 0xFE5B, OP},
	{0xFE5C, 0xFE5C, CL},
	{0xFE5D, 0xFE5D, OP},
	{0xFE5E, 0xFE5E, CL},
	{0xFE5F, 0xFE68, ID},
	{0xFE69, 0xFE69, PR},
	{0xFE6A, 0xFE6A, PO},
	{0xFE6B, 0xFE6B, ID},
	// 全角与半角形式
	{0xFF01, 0xFF01, EX},
	{0xFF02, 0xFF03, ID},
	{0xFF04, 0xFF04, PR},
	{0xFF05, 0xFF05, PO},
	{0xFF06, 0xFF07, ID},
	{0xFF08, 0xFF08, OP},
	{0xFF09, 0xFF09, CL},
	{0xFF0A, 0xFF0B, ID},
	{0xFF0C, 0xFF0C, CL},
	{0xFF0D, 0xFF0D, ID},
	{0xFF0E, 0xFF0E, CL},
	{0xFF0F, 0xFF19, ID},
	{0xFF1A, 0xFF1B, NS},
	{0xFF1C, 0xFF1E, ID},
	{0xFF1F, 0xFF1F, EX},
	{0xFF20, 0xFF3A, ID},
	{0xFF3B, 0xFF3B, OP},
	{0xFF3C, 0xFF3C, ID},
	{0xFF3D, 0xFF3D, CL},
	{0xFF3E, 0xFF5A, ID},
	{0xFF5B, 0xFF5B, OP},
	{0xFF5C, 0xFF5C, ID},
	{0xFF5D, 0xFF5D, CL},
	{0xFF5E, 0xFF5E, ID},
	{0xFF5F, 0xFF5F, OP},
	{0xFF60, 0xFF61, CL},
	{0xFF62, 0xFF62, OP},
	{0xFF63, 0xFF64, CL},
	{0xFF65, 0xFF65, NS},
	{0xFF66, 0xFF66, ID},
	{0xFF67, 0xFF70, NS},
	{0xFF71, 0xFF9D, ID},
	{0xFF9E, 0xFF9F, NS},
	{0xFFA0, 0xFFDC, ID},
	{0xFFE0, 0xFFE0, PO},
	{0xFFE1, 0xFFE1, PR},
	{0xFFE2, 0xFFE4, ID},
	{0xFFE5, 0xFFE6, PR},
	{0x1F000, 0x1FAFF, ID},
	{0x20000, 0x2FFFD, ID},
	{0x30000, 0x3FFFD, ID},
}

// cjkRanges 比 ID 类更宽：包含带 OP/CL/NS 类别的 CJK 标点区块。
var cjkRanges = []classRange{
	{0x1100, 0x11FF, ID},
	{0x2E80, 0x2FFF, ID},
	{0x3000, 0x303F, ID},
	{0x3040, 0x30FF, ID},
	{0x3100, 0x31FF, ID},
	{0x3200, 0x4DBF, ID},
	{0x4E00, 0x9FFF, ID},
	{0xA000, 0xA4CF, ID},
	{0xAC00, 0xD7AF, ID},
	{0xF900, 0xFAFF, ID},
	{0xFE10, 0xFE1F, ID},
	{0xFE30, 0xFE4F, ID},
	{0xFF00, 0xFFEF, ID},
	{0x20000, 0x3FFFD, ID},
}

func init() {
	mustBeSorted("classTable", classTable)
	mustBeSorted("cjkRanges", cjkRanges)
}

func mustBeSorted(name string, table []classRange) {
	for i, r := range table {
		if r.start > r.end {
			panic(fmt.Sprintf("linebreak: %s[%d] 区间无效 %#x-%#x", name, i, r.start, r.end))
		}
		if i > 0 && table[i-1].end >= r.start {
			panic(fmt.Sprintf("linebreak: %s[%d] 未排序或区间重叠 %#x", name, i, r.start))
		}
	}
}

func lookup(table []classRange, r rune) (classRange, bool) {
	i := sort.Search(len(table), func(i int) bool { return table[i].end >= r })
	if i < len(table) && table[i].start <= r {
		return table[i], true
	}
	return classRange{}, false
}

// Classify 返回码点的断行类别，未收录的码点为 AL。
func Classify(r rune) Class {
	if e, ok := lookup(classTable, r); ok {
		return e.class
	}
	return AL
}

// IsCJK 判断码点是否属于 CJK 文字或 CJK 标点区块。
func IsCJK(r rune) bool {
	_, ok := lookup(cjkRanges, r)
	return ok
}

// IsWhitespace 仅识别断行时需要裁剪的空白：空格、制表符、NBSP、全角空格。
func IsWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', 0x00A0, 0x3000:
		return true
	}
	return false
}
