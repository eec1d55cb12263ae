package dsl

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// 规则顺序有意义：Color 必须先于 HashComment，Number 必须先于 Symbol 中的 '.'。
var sceneLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
	{Name: "Newline", Pattern: `\n+`},
	{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
	{Name: "LineComment", Pattern: `//[^\n]*`},
	{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})\b`},
	{Name: "HashComment", Pattern: `#[^\n]*`},
	{Name: "Number", Pattern: `(?:\d+\.\d+|\d+|\.\d+)(?:pt|px|mm|cm|in|em|deg|x)?`},
	{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
	{Name: "Symbol", Pattern: `[][(),.=+\-*/%<>!?;:|]`},
	{Name: "LBrace", Pattern: `{`},
	{Name: "RBrace", Pattern: `}`},
})

// Kind 是参数记号的类别。
type Kind uint8

const (
	KindIdent Kind = iota
	KindNumber
	KindString
	KindColor
	KindSymbol
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindColor:
		return "Color"
	case KindSymbol:
		return "Symbol"
	}
	return "Ident"
}

// tokenTable 把 participle 分配的记号编号映射回规则。
type tokenTable struct {
	newline, lbrace, rbrace, symbol, str lexer.TokenType
	kinds                                map[lexer.TokenType]Kind
}

var tokens = newTokenTable(sceneLexer.Symbols())

func newTokenTable(symbols map[string]lexer.TokenType) tokenTable {
	lookup := func(name string) lexer.TokenType {
		tt, ok := symbols[name]
		if !ok {
			panic(fmt.Sprintf("dsl: 词法规则 %s 未定义", name))
		}
		return tt
	}
	return tokenTable{
		newline: lookup("Newline"),
		lbrace:  lookup("LBrace"),
		rbrace:  lookup("RBrace"),
		symbol:  lookup("Symbol"),
		str:     lookup("String"),
		kinds: map[lexer.TokenType]Kind{
			lookup("Ident"):  KindIdent,
			lookup("Number"): KindNumber,
			lookup("String"): KindString,
			lookup("Color"):  KindColor,
			lookup("Symbol"): KindSymbol,
		},
	}
}

// Lexeme 是命令参数或表达式中的一个记号。字符串记号的 Value 已去掉引号。
type Lexeme struct {
	Kind  Kind           `json:"kind"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// IsSymbol 报告记号是否为给定的符号。
func (l *Lexeme) IsSymbol(sym string) bool {
	return l != nil && l.Kind == KindSymbol && l.Value == sym
}

// Parse 让 Lexeme 作为语法原子使用：遇到换行、花括号或分号时停止。
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if tok.EOF() || endsArgs(tok) {
		return participle.NextMatch
	}
	lexeme, err := toLexeme(lex.Next())
	if err != nil {
		return err
	}
	*l = lexeme
	return nil
}

func endsArgs(tok *lexer.Token) bool {
	switch tok.Type {
	case tokens.newline, tokens.lbrace, tokens.rbrace:
		return true
	case tokens.symbol:
		return tok.Value == ";"
	}
	return false
}

func toLexeme(tok *lexer.Token) (Lexeme, error) {
	l := Lexeme{Kind: tokens.kinds[tok.Type], Value: tok.Value, Raw: tok.Value, Pos: tok.Pos}
	if tok.Type == tokens.str {
		s, err := strconv.Unquote(tok.Value)
		if err != nil {
			return Lexeme{}, fmt.Errorf("%s: 字符串字面量无效: %w", tok.Pos, err)
		}
		l.Value = s
	}
	return l, nil
}

// Expression 原样保存表达式记号，留给绑定阶段求值。
type Expression struct {
	Parts []*Lexeme
}

// Parse 读取到同层的换行、花括号、分号或逗号为止；未闭合的 '[' 内的 ']' 属于表达式本身。
func (e *Expression) Parse(lex *lexer.PeekingLexer) error {
	var open []string // 尚未闭合的括号
	for {
		tok := lex.Peek()
		if tok.EOF() || endsExpression(tok, open) {
			break
		}
		l, err := toLexeme(lex.Next())
		if err != nil {
			return err
		}
		if l.Kind == KindSymbol {
			switch l.Value {
			case "(", "[":
				open = append(open, l.Value)
			case ")", "]":
				if n := len(open); n > 0 {
					open = open[:n-1]
				}
			}
		}
		e.Parts = append(e.Parts, &l)
	}
	if len(e.Parts) == 0 {
		return participle.NextMatch
	}
	return nil
}

func endsExpression(tok *lexer.Token, open []string) bool {
	nested := len(open) > 0
	switch tok.Type {
	case tokens.newline, tokens.lbrace, tokens.rbrace:
		return !nested
	case tokens.symbol:
		switch tok.Value {
		case ";", ",":
			return !nested
		case "]":
			return !nested || open[len(open)-1] != "["
		}
	}
	return false
}

// StringLiteral 在捕获时按 Go 语法去掉引号。
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("字符串字面量为空")
	}
	v, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(v)
	return nil
}
