package linebreak

// Action 是成对断行表中的取值。
type Action uint8

const (
	Direct   Action = iota // 两字符之间可直接断行
	Indirect               // 仅当中间隔有空格时可断
	Prohibit               // 禁止断行
)

func (a Action) String() string {
	switch a {
	case Direct:
		return "Direct"
	case Indirect:
		return "Indirect"
	case Prohibit:
		return "Prohibit"
	}
	return "Action(?)"
}

// 表格里的简写
const (
	dir = Direct
	ind = Indirect
	pro = Prohibit
)

// pairTable[prev][next]，行列顺序与 Class 常量一致。
var pairTable = [numClasses][numClasses]Action{
	//   OP   CL   QU   NS   EX   GL   BA   BB   IN   PR   PO   NU   AL   ID   CM   SP
	OP: {pro, pro, pro, pro, pro, pro, pro, pro, pro, pro, pro, pro, pro, pro, pro, pro},
	CL: {dir, pro, ind, pro, pro, ind, ind, dir, dir, ind, ind, dir, dir, dir, pro, pro},
	QU: {pro, pro, ind, ind, pro, ind, ind, ind, ind, ind, ind, ind, ind, ind, pro, pro},
	NS: {dir, pro, ind, ind, pro, ind, ind, dir, dir, dir, dir, dir, dir, dir, pro, pro},
	EX: {dir, pro, ind, ind, pro, ind, ind, dir, dir, dir, dir, dir, dir, dir, pro, pro},
	GL: {ind, pro, ind, ind, pro, ind, ind, ind, ind, ind, ind, ind, ind, ind, pro, pro},
	BA: {dir, pro, ind, ind, pro, dir, ind, dir, dir, dir, dir, dir, dir, dir, pro, pro},
	BB: {ind, pro, ind, ind, pro, ind, ind, ind, ind, ind, ind, ind, ind, ind, pro, pro},
	IN: {dir, pro, ind, ind, pro, ind, ind, dir, ind, dir, dir, dir, dir, dir, pro, pro},
	PR: {ind, pro, ind, ind, pro, ind, ind, dir, dir, dir, dir, ind, ind, ind, pro, pro},
	PO: {ind, pro, ind, ind, pro, ind, ind, dir, dir, dir, dir, ind, ind, dir, pro, pro},
	NU: {ind, pro, ind, ind, pro, ind, ind, dir, ind, ind, ind, ind, ind, dir, pro, pro},
	AL: {ind, pro, ind, ind, pro, ind, ind, dir, ind, dir, dir, ind, ind, dir, pro, pro},
	ID: {dir, pro, ind, ind, pro, ind, ind, dir, ind, dir, ind, dir, dir, dir, pro, pro},
	CM: {ind, pro, ind, ind, pro, ind, ind, dir, ind, dir, dir, ind, ind, dir, pro, pro},
	SP: {ind, pro, ind, ind, pro, ind, ind, ind, ind, ind, ind, ind, ind, ind, pro, pro},
}

// Lookup 返回两个类别之间的断行动作。
func Lookup(prev, next Class) Action {
	return pairTable[prev][next]
}

// CanBreakBetween 判断 prev 与 next 两个相邻码点之间是否允许断行。
// 0 表示“没有字符”；换行符由排版引擎单独处理，这里一律返回 false。
func CanBreakBetween(prev, next rune) bool {
	if prev == 0 || next == 0 || prev == '\n' || next == '\n' {
		return false
	}
	pc, nc := Classify(prev), Classify(next)
	if pc == CM {
		// 组合符号已附着在前一个基字上，按字母处理。
		pc = AL
	}
	if nc == CM {
		return false
	}
	switch pairTable[pc][nc] {
	case Direct:
		return true
	case Indirect:
		return pc == SP
	default:
		return false
	}
}
