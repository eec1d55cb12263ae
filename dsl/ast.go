package dsl

import (
	"fmt"
	"strings"
)

// Canvas returns the first canvas section, or nil.
func (d *Document) Canvas() *CanvasSection {
	for _, s := range d.Sections {
		if s.Canvas != nil {
			return s.Canvas
		}
	}
	return nil
}

// Meta returns the meta block, or nil.
func (d *Document) Meta() *Block {
	for _, s := range d.Sections {
		if s.Meta != nil {
			return s.Meta.Block
		}
	}
	return nil
}

// Resources returns every resources block in document order.
func (d *Document) Resources() []*Block {
	var out []*Block
	for _, s := range d.Sections {
		if s.Resources != nil && s.Resources.Block != nil {
			out = append(out, s.Resources.Block)
		}
	}
	return out
}

// Commands returns the commands of a block, skipping assignments and literals.
func (b *Block) Commands() []*Command {
	if b == nil {
		return nil
	}
	var out []*Command
	for _, st := range b.Statements {
		if st.Command != nil {
			out = append(out, st.Command)
		}
	}
	return out
}

// Assignments collects `key: value` statements; later keys win.
func (b *Block) Assignments() map[string]*Value {
	out := map[string]*Value{}
	if b == nil {
		return out
	}
	for _, st := range b.Statements {
		if st.Assignment != nil {
			out[st.Assignment.Key] = st.Assignment.Value
		}
	}
	return out
}

// Text concatenates the string literals of a block.
func (b *Block) Text() string {
	if b == nil {
		return ""
	}
	var sb strings.Builder
	for _, st := range b.Statements {
		if st.Text != nil {
			sb.WriteString(string(st.Text.Value))
		}
	}
	return sb.String()
}

// Scalar returns the textual form of a scalar value. Negative numbers arrive
// as an expression of '-' followed by a number and are joined back together.
func (v *Value) Scalar() (string, bool) {
	switch {
	case v == nil:
		return "", false
	case v.String != nil:
		return string(*v.String), true
	case v.Number != nil:
		return *v.Number, true
	case v.Color != nil:
		return *v.Color, true
	case v.Expr != nil:
		return v.Expr.String(), true
	}
	return "", false
}

// String joins the expression tokens without separators.
func (e *Expression) String() string {
	var sb strings.Builder
	for _, p := range e.Parts {
		sb.WriteString(p.Value)
	}
	return sb.String()
}

// Position reports the source position of a command for error messages.
func (c *Command) Position() string {
	return fmt.Sprintf("%d:%d", c.Pos.Line, c.Pos.Column)
}
