package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ptml-lang/ptml/internal/ast"
	"github.com/ptml-lang/ptml/internal/diag"
	"github.com/ptml-lang/ptml/internal/lexer"
)

func TestParseIf_FullChain(t *testing.T) {
	src := `@if user.admin { <b>admin</b> } @elif user.active { active } @elif user.guest { guest } @else { nobody }`
	nodes := mustParse(t, src)

	cond, ok := nodes[0].(*ast.If)
	if !ok {
		t.Fatalf("first node is %T, want *ast.If", nodes[0])
	}
	if cond.Cond != "user.admin" {
		t.Fatalf("cond = %q", cond.Cond)
	}
	if len(cond.Elifs) != 2 {
		t.Fatalf("elif count = %d, want 2", len(cond.Elifs))
	}
	if cond.Elifs[0].Cond != "user.active" || cond.Elifs[1].Cond != "user.guest" {
		t.Fatalf("elif conds = %q, %q", cond.Elifs[0].Cond, cond.Elifs[1].Cond)
	}
	if cond.Else == nil {
		t.Fatal("else arm missing")
	}
}

func TestParseIf_NoElse(t *testing.T) {
	nodes := mustParse(t, `@if ok { x } trailing`)

	cond := nodes[0].(*ast.If)
	if cond.Else != nil {
		t.Fatalf("else = %v, want nil for absent arm", cond.Else)
	}
	// Whitespace between the block and the trailing text must survive.
	if txt, ok := nodes[1].(*ast.Text); !ok || txt.Value != " trailing" {
		t.Fatalf("trailing node = %#v", nodes[1])
	}
}

func TestParseIf_EmptyElseIsPresent(t *testing.T) {
	nodes := mustParse(t, `@if ok { x } @else {}`)

	cond := nodes[0].(*ast.If)
	if cond.Else == nil {
		t.Fatal("empty @else arm must be non-nil")
	}
	if len(cond.Else) != 0 {
		t.Fatalf("empty @else arm has %d children", len(cond.Else))
	}
}

func TestParseIf_ElifAfterElse(t *testing.T) {
	pe := parseErr(t, `@if a { x } @else { y } @elif b { z }`)

	if pe.Code != diag.CodeInvalidDirectiveSequence {
		t.Fatalf("code = %s, want %s", pe.Code, diag.CodeInvalidDirectiveSequence)
	}
}

func TestParseIf_DuplicateElse(t *testing.T) {
	pe := parseErr(t, `@if a { x } @else { y } @else { z }`)

	if pe.Code != diag.CodeInvalidDirectiveSequence {
		t.Fatalf("code = %s, want %s", pe.Code, diag.CodeInvalidDirectiveSequence)
	}
}

func TestParseIf_StrayArms(t *testing.T) {
	for _, src := range []string{
		`@else { x }`,
		`@elif a { x }`,
		`@fallback { x }`,
	} {
		pe := parseErr(t, src)
		if pe.Code != diag.CodeInvalidDirectiveSequence {
			t.Fatalf("Parse(%q) code = %s, want %s", src, pe.Code, diag.CodeInvalidDirectiveSequence)
		}
	}
}

func TestParseIf_MissingCondition(t *testing.T) {
	pe := parseErr(t, `@if { x }`)

	if pe.Code != diag.CodeUnexpectedToken || pe.Expected != lexer.EXPR_BODY {
		t.Fatalf("error = %+v, want missing EXPR_BODY", pe)
	}
}

func TestParseForEach_Modifiers(t *testing.T) {
	srcs := []string{
		`@foreach u in users key u.id fallback "none" { <li/> }`,
		`@foreach u in users fallback "none" key u.id { <li/> }`,
	}

	var prints []string
	for _, src := range srcs {
		nodes := mustParse(t, src)
		loop := nodes[0].(*ast.ForEach)
		if loop.Item != "u" || loop.ListExpr != "users" {
			t.Fatalf("Parse(%q) header = %q in %q", src, loop.Item, loop.ListExpr)
		}
		if loop.KeyExpr != "u.id" || loop.FallbackExpr != `"none"` {
			t.Fatalf("Parse(%q) modifiers = key %q fallback %q", src, loop.KeyExpr, loop.FallbackExpr)
		}
		prints = append(prints, ast.Sprint(nodes))
	}

	// Modifier order is surface syntax only; both spellings produce the
	// same tree.
	if diff := cmp.Diff(prints[0], prints[1]); diff != "" {
		t.Fatalf("modifier order changed the tree (-first +second):\n%s", diff)
	}
}

func TestParseForEach_ArrowFallbackBlock(t *testing.T) {
	nodes := mustParse(t, `@foreach u in users { <li/> } -> @fallback { <p>empty</p> }`)

	loop := nodes[0].(*ast.ForEach)
	if loop.FallbackChildren == nil {
		t.Fatal("fallback block missing")
	}
	if len(loop.FallbackChildren) != 3 { // text, element, text
		t.Fatalf("fallback block has %d children\n%s", len(loop.FallbackChildren), ast.Sprint(nodes))
	}
}

func TestParseForEach_EmptyFallbackBlockIsPresent(t *testing.T) {
	nodes := mustParse(t, `@foreach u in users { x } -> @fallback {}`)

	loop := nodes[0].(*ast.ForEach)
	if loop.FallbackChildren == nil || len(loop.FallbackChildren) != 0 {
		t.Fatalf("empty fallback block = %#v, want present and empty", loop.FallbackChildren)
	}
}

func TestParseForEach_AbsentFallbackIsNil(t *testing.T) {
	nodes := mustParse(t, `@foreach u in users { x }`)

	loop := nodes[0].(*ast.ForEach)
	if loop.FallbackChildren != nil {
		t.Fatalf("fallback block = %#v, want nil for absent", loop.FallbackChildren)
	}
	if loop.KeyExpr != "" || loop.FallbackExpr != "" {
		t.Fatalf("modifiers = %q/%q, want empty", loop.KeyExpr, loop.FallbackExpr)
	}
}

func TestParseForEach_ArrowWithoutFallback(t *testing.T) {
	pe := parseErr(t, `@foreach u in users { x } -> @if y { z }`)

	if pe.Code != diag.CodeUnexpectedToken {
		t.Fatalf("code = %s, want %s", pe.Code, diag.CodeUnexpectedToken)
	}
	if pe.Expected != lexer.DIRECTIVE_FALLBACK {
		t.Fatalf("expected token = %s, want DIRECTIVE_FALLBACK", pe.Expected)
	}
}

func TestParseForEach_ArrowThenText(t *testing.T) {
	// After a loop an arrow always announces a fallback block; anything
	// else behind it is an error.
	pe := parseErr(t, `@foreach u in users { x } -> next`)

	if pe.Expected != lexer.DIRECTIVE_FALLBACK {
		t.Fatalf("expected token = %s, want DIRECTIVE_FALLBACK", pe.Expected)
	}
}

func TestParseForEach_MissingIn(t *testing.T) {
	pe := parseErr(t, `@foreach users { x }`)

	if pe.Code != diag.CodeUnexpectedToken || pe.Expected != lexer.KEYWORD_IN {
		t.Fatalf("error = %+v, want missing KEYWORD_IN", pe)
	}
}

// matchArms extracts the @match children of a switch, skipping layout text
// and anything else the block carries.
func matchArms(sw *ast.Switch) []*ast.Match {
	var arms []*ast.Match
	for _, child := range sw.Children {
		if m, ok := child.(*ast.Match); ok {
			arms = append(arms, m)
		}
	}
	return arms
}

func TestParseSwitch_MatchArms(t *testing.T) {
	src := `@switch status {
		@match "active" { <p>on</p> }
		@match "disabled" { <p>off</p> }
	}`
	nodes := mustParse(t, src)

	sw := nodes[0].(*ast.Switch)
	if sw.Subject != "status" {
		t.Fatalf("subject = %q", sw.Subject)
	}
	arms := matchArms(sw)
	if len(arms) != 2 {
		t.Fatalf("arm count = %d, want 2\n%s", len(arms), ast.Sprint(nodes))
	}
	if arms[0].Subject != `"active"` || arms[1].Subject != `"disabled"` {
		t.Fatalf("arm subjects = %q, %q", arms[0].Subject, arms[1].Subject)
	}
}

func TestParseSwitch_BareForm(t *testing.T) {
	nodes := mustParse(t, `@switch { @match count > 10 { many } @match count > 0 { some } }`)

	sw := nodes[0].(*ast.Switch)
	if sw.Subject != "" {
		t.Fatalf("bare switch subject = %q, want empty", sw.Subject)
	}
	if len(matchArms(sw)) != 2 {
		t.Fatalf("arm count = %d, want 2", len(matchArms(sw)))
	}
}

func TestParseSwitch_PreservesLooseContent(t *testing.T) {
	// The block body is ordinary content; text and elements between arms
	// are kept in source order for later stages to deal with.
	nodes := mustParse(t, `@switch s { <p>a</p> @match "x" { y } }`)

	sw := nodes[0].(*ast.Switch)
	var el *ast.Element
	ast.WalkAll(sw.Children, func(n ast.Node) bool {
		if e, ok := n.(*ast.Element); ok && el == nil {
			el = e
		}
		return true
	})
	if el == nil || el.Tag != "p" {
		t.Fatalf("loose element lost:\n%s", ast.Sprint(nodes))
	}
	if len(matchArms(sw)) != 1 {
		t.Fatalf("arm count = %d, want 1\n%s", len(matchArms(sw)), ast.Sprint(nodes))
	}
}

func TestParseMatch_Standalone(t *testing.T) {
	nodes := mustParse(t, `@match status { <p>on</p> }`)

	m, ok := nodes[0].(*ast.Match)
	if !ok {
		t.Fatalf("node = %#v, want *ast.Match", nodes[0])
	}
	if m.Subject != "status" {
		t.Fatalf("subject = %q, want %q", m.Subject, "status")
	}
	if len(m.Children) != 3 { // text, element, text
		t.Fatalf("child count = %d\n%s", len(m.Children), ast.Sprint(nodes))
	}
}

func TestParseSwitch_StrayFallbackArm(t *testing.T) {
	pe := parseErr(t, `@switch s { @fallback { a } }`)

	if pe.Code != diag.CodeInvalidDirectiveSequence {
		t.Fatalf("code = %s, want %s", pe.Code, diag.CodeInvalidDirectiveSequence)
	}
}

func TestParseSwitch_UnclosedAtEOF(t *testing.T) {
	pe := parseErr(t, `@switch s { @match "a" { x }`)

	if pe.Code != diag.CodeUnexpectedToken || pe.Expected != lexer.BLOCK_CLOSE {
		t.Fatalf("error = %+v, want missing BLOCK_CLOSE", pe)
	}
}

func TestParseDirectives_Nested(t *testing.T) {
	src := `@if show {
		@foreach u in users {
			@if u.admin { <b>{u.name}</b> } @else { {u.name} }
		}
	}`
	nodes := mustParse(t, src)

	outer := nodes[0].(*ast.If)

	var loops, conds int
	ast.WalkAll(nodes, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.ForEach:
			loops++
		case *ast.If:
			conds++
		}
		return true
	})
	if loops != 1 || conds != 2 {
		t.Fatalf("found %d loops and %d conditionals, want 1 and 2\n%s", loops, conds, ast.Sprint(nodes))
	}
	_ = outer
}

func TestParseDirectives_Spans(t *testing.T) {
	src := "intro\n@if ok { x }"
	nodes := mustParse(t, src)

	cond := nodes[1].(*ast.If)
	span := cond.Span()
	if span.Line != 2 || span.Column != 1 {
		t.Fatalf("if span starts at %d:%d, want 2:1", span.Line, span.Column)
	}
	if span.Start != 6 || span.End != len(src) {
		t.Fatalf("if span offsets = [%d,%d), want [6,%d)", span.Start, span.End, len(src))
	}
}
