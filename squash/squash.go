// Package squash 实现 CJK 标点挤压（約物の詰め）。
//
// 所有数值都是“前进量的比例”，由调用方乘以字形前进量得到实际挤压量。
package squash

import "github.com/ByLCY/tategaki/linebreak"

// Category 是参与挤压的标点类别。
type Category uint8

const (
	None Category = iota
	Opening
	Closing
	MiddleDot
)

func (c Category) String() string {
	switch c {
	case Opening:
		return "Opening"
	case Closing:
		return "Closing"
	case MiddleDot:
		return "MiddleDot"
	}
	return "None"
}

// CategoryOf 返回码点的挤压类别。只有全角（CJK）标点参与挤压，ASCII 一律为 None。
func CategoryOf(r rune) Category {
	switch r {
	case 0x2018, 0x201C:
		return Opening
	case 0x2019, 0x201D:
		return Closing
	case 0xFF1A, 0xFF1B:
		return Closing
	case 0x30FB, 0xFF65:
		return MiddleDot
	}
	if r < 0x80 || !linebreak.IsCJK(r) {
		return None
	}
	switch linebreak.Classify(r) {
	case linebreak.OP:
		return Opening
	case linebreak.CL:
		return Closing
	}
	return None
}

type pair struct{ prev, next float64 }

// adjacent[prev][next]，None 行列全为 0。
var adjacent = [4][4]pair{
	Opening: {
		Opening:   {0.5, 0},
		Closing:   {0, 0},
		MiddleDot: {0, 0.25},
	},
	Closing: {
		Opening:   {0.5, 0.5},
		Closing:   {0.5, 0},
		MiddleDot: {0.5, 0.25},
	},
	MiddleDot: {
		Opening:   {0.25, 0.5},
		Closing:   {0.25, 0},
		MiddleDot: {0.25, 0.25},
	},
}

// Adjacent 返回相邻两个标点各自应被挤掉的比例：prevTrailing 作用于 prev 的尾部，
// nextLeading 作用于 next 的头部。
func Adjacent(prev, next rune) (prevTrailing, nextLeading float64) {
	p := adjacent[CategoryOf(prev)][CategoryOf(next)]
	return p.prev, p.next
}

// LineStart 返回行首字符头部的挤压比例。
func LineStart(r rune) float64 {
	if CategoryOf(r) == Opening {
		return 0.5
	}
	return 0
}

// LineEnd 返回行尾字符尾部的挤压比例。
func LineEnd(r rune) float64 {
	if CategoryOf(r) == Closing {
		return 0.5
	}
	return 0
}
