package ast

import (
	"strings"
	"testing"

	"github.com/ptml-lang/ptml/internal/lexer"
)

func sampleTree() []Node {
	var span lexer.Span

	loop := NewForEach("u", "users", []Node{
		NewElement("li", map[string]AttrValue{"id": ExprValue{Text: "u.id"}}, nil, []Node{
			NewExpression("u.name", span),
		}, span),
	}, span)
	loop.FallbackChildren = []Node{NewText("none", span)}

	cond := NewIf("user.admin", []Node{NewText("admin", span)}, span)
	cond.Elifs = append(cond.Elifs, ElifBranch{Cond: "user.active", Children: []Node{NewText("ok", span)}})
	cond.Else = []Node{NewText("no", span)}

	return []Node{
		NewElement("div", map[string]AttrValue{
			"class":    StringValue{Value: "wrap"},
			"hidden":   BoolValue{},
			"on:click": ExprValue{Text: "toggle"},
		}, []string{"props"}, []Node{cond, loop}, span),
	}
}

func TestWalk_VisitsInSourceOrder(t *testing.T) {
	var got []string
	WalkAll(sampleTree(), func(n Node) bool {
		switch n := n.(type) {
		case *Element:
			got = append(got, "<"+n.Tag+">")
		case *Text:
			got = append(got, n.Value)
		case *Expression:
			got = append(got, "{"+n.Text+"}")
		case *If:
			got = append(got, "@if")
		case *ForEach:
			got = append(got, "@foreach")
		}
		return true
	})

	want := []string{"<div>", "@if", "admin", "ok", "no", "@foreach", "<li>", "{u.name}", "none"}
	if len(got) != len(want) {
		t.Fatalf("visited %d nodes, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("visit[%d] = %q, want %q (full order %v)", i, got[i], want[i], got)
		}
	}
}

func TestWalk_FalseStopsDescent(t *testing.T) {
	count := 0
	WalkAll(sampleTree(), func(n Node) bool {
		count++
		_, isElement := n.(*Element)
		return !isElement
	})

	// Only the root element is visited; nothing below it.
	if count != 1 {
		t.Fatalf("visited %d nodes, want 1", count)
	}
}

func TestSprint_SortsAttributes(t *testing.T) {
	out := Sprint(sampleTree())

	if !strings.Contains(out, `element <div class="wrap" hidden on:click={toggle} @{props}>`) {
		t.Fatalf("element header not normalized:\n%s", out)
	}
}

func TestSprint_Deterministic(t *testing.T) {
	first := Sprint(sampleTree())
	for i := 0; i < 10; i++ {
		if next := Sprint(sampleTree()); next != first {
			t.Fatalf("output varies between runs:\n%s\n----\n%s", first, next)
		}
	}
}

func TestSprint_ForeachFallbackSections(t *testing.T) {
	out := Sprint(sampleTree())

	if !strings.Contains(out, "foreach {u} in {users}\n") {
		t.Fatalf("loop header missing:\n%s", out)
	}
	if !strings.Contains(out, "foreach-fallback\n") {
		t.Fatalf("fallback section missing:\n%s", out)
	}
}
