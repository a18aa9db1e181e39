package ast

import "github.com/ptml-lang/ptml/internal/lexer"

// Node represents any template AST node with an associated source span.
//
// The node set is closed: only the types in this package satisfy Node, so a
// type switch over the concrete kinds is exhaustive. Consumers treat parsed
// trees as immutable.
type Node interface {
	Span() lexer.Span
	templateNode()
}

// AttrValue represents the value of one element attribute. The sum is closed
// over StringValue, BoolValue and ExprValue.
type AttrValue interface {
	attrValue()
}

// StringValue is a static attribute value from a quoted literal.
type StringValue struct {
	Value string
}

// BoolValue marks a bare attribute name with no value.
type BoolValue struct{}

// ExprValue is a dynamic attribute value holding host-language source text.
type ExprValue struct {
	Text string
}

func (StringValue) attrValue() {}
func (BoolValue) attrValue()   {}
func (ExprValue) attrValue()   {}

// Element represents a markup element with attributes and children.
type Element struct {
	Tag      string
	Attrs    map[string]AttrValue
	Spreads  []string // spread expressions in source order
	Children []Node
	span     lexer.Span
}

// Span returns the span from the opening tag through the closing tag.
func (e *Element) Span() lexer.Span { return e.span }

// NewElement constructs an element node.
func NewElement(tag string, attrs map[string]AttrValue, spreads []string, children []Node, span lexer.Span) *Element {
	return &Element{
		Tag:      tag,
		Attrs:    attrs,
		Spreads:  spreads,
		Children: children,
		span:     span,
	}
}

// SetSpan updates the element span.
func (e *Element) SetSpan(span lexer.Span) {
	e.span = span
}

func (*Element) templateNode() {}

// Fragment represents a <>...</> grouping with no element of its own.
type Fragment struct {
	Children []Node
	span     lexer.Span
}

// Span returns the span from <> through </>.
func (f *Fragment) Span() lexer.Span { return f.span }

// NewFragment constructs a fragment node.
func NewFragment(children []Node, span lexer.Span) *Fragment {
	return &Fragment{
		Children: children,
		span:     span,
	}
}

// SetSpan updates the fragment span.
func (f *Fragment) SetSpan(span lexer.Span) {
	f.span = span
}

func (*Fragment) templateNode() {}

// Text represents a run of literal template text.
type Text struct {
	Value string
	span  lexer.Span
}

// Span returns the text span.
func (t *Text) Span() lexer.Span { return t.span }

// NewText constructs a text node.
func NewText(value string, span lexer.Span) *Text {
	return &Text{
		Value: value,
		span:  span,
	}
}

// SetSpan updates the text span.
func (t *Text) SetSpan(span lexer.Span) {
	t.span = span
}

func (*Text) templateNode() {}

// Expression represents an interpolated host-language expression. The text is
// carried verbatim and never evaluated here.
type Expression struct {
	Text string
	span lexer.Span
}

// Span returns the span including the surrounding braces.
func (e *Expression) Span() lexer.Span { return e.span }

// NewExpression constructs an expression node.
func NewExpression(text string, span lexer.Span) *Expression {
	return &Expression{
		Text: text,
		span: span,
	}
}

// SetSpan updates the expression span.
func (e *Expression) SetSpan(span lexer.Span) {
	e.span = span
}

func (*Expression) templateNode() {}

// ElifBranch is one @elif arm of a conditional. It is not a Node of its own;
// its position is recoverable from its children.
type ElifBranch struct {
	Cond     string
	Children []Node
}

// If represents an @if directive with optional @elif and @else arms.
type If struct {
	Cond     string
	Children []Node
	Elifs    []ElifBranch
	Else     []Node // nil when no @else arm is present
	span     lexer.Span
}

// Span returns the span of the whole conditional chain.
func (i *If) Span() lexer.Span { return i.span }

// NewIf constructs a conditional node.
func NewIf(cond string, children []Node, span lexer.Span) *If {
	return &If{
		Cond:     cond,
		Children: children,
		span:     span,
	}
}

// SetSpan updates the conditional span.
func (i *If) SetSpan(span lexer.Span) {
	i.span = span
}

func (*If) templateNode() {}

// ForEach represents an @foreach loop.
//
// KeyExpr and FallbackExpr are empty when the modifier is absent.
// FallbackChildren distinguishes absent (nil) from present but empty
// (non-nil, zero length).
type ForEach struct {
	Item             string
	ListExpr         string
	KeyExpr          string
	FallbackExpr     string
	Children         []Node
	FallbackChildren []Node
	span             lexer.Span
}

// Span returns the span of the loop including any fallback block.
func (f *ForEach) Span() lexer.Span { return f.span }

// NewForEach constructs a loop node.
func NewForEach(item, listExpr string, children []Node, span lexer.Span) *ForEach {
	return &ForEach{
		Item:     item,
		ListExpr: listExpr,
		Children: children,
		span:     span,
	}
}

// SetSpan updates the loop span.
func (f *ForEach) SetSpan(span lexer.Span) {
	f.span = span
}

func (*ForEach) templateNode() {}

// Switch represents an @switch directive. Subject is empty for the bare form
// whose arms carry full boolean conditions. Children holds the block body as
// parsed, in source order; non-match children survive untouched.
type Switch struct {
	Subject  string
	Children []Node
	span     lexer.Span
}

// Span returns the span of the switch including its block.
func (s *Switch) Span() lexer.Span { return s.span }

// NewSwitch constructs a switch node.
func NewSwitch(subject string, children []Node, span lexer.Span) *Switch {
	return &Switch{
		Subject:  subject,
		Children: children,
		span:     span,
	}
}

// SetSpan updates the switch span.
func (s *Switch) SetSpan(span lexer.Span) {
	s.span = span
}

func (*Switch) templateNode() {}

// Match represents an @match directive, whether inside a switch block or
// standing alone.
type Match struct {
	Subject  string
	Children []Node
	span     lexer.Span
}

// Span returns the arm span.
func (m *Match) Span() lexer.Span { return m.span }

// NewMatch constructs a match arm node.
func NewMatch(subject string, children []Node, span lexer.Span) *Match {
	return &Match{
		Subject:  subject,
		Children: children,
		span:     span,
	}
}

// SetSpan updates the arm span.
func (m *Match) SetSpan(span lexer.Span) {
	m.span = span
}

func (*Match) templateNode() {}
