package ast

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Fprint writes a deterministic structural dump of the node list to w.
// Attributes are sorted by name and spans are omitted, so two trees print
// identically exactly when they have the same shape and payloads.
func Fprint(w io.Writer, nodes []Node) error {
	p := printer{w: w}
	p.nodes(nodes, 0)
	return p.err
}

// Sprint returns the structural dump of the node list as a string.
func Sprint(nodes []Node) string {
	var sb strings.Builder
	Fprint(&sb, nodes)
	return sb.String()
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(indent int, format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", indent), fmt.Sprintf(format, args...))
}

func (p *printer) nodes(nodes []Node, indent int) {
	for _, n := range nodes {
		p.node(n, indent)
	}
}

func (p *printer) node(node Node, indent int) {
	switch n := node.(type) {
	case *Text:
		p.line(indent, "text %q", n.Value)

	case *Expression:
		p.line(indent, "expr {%s}", n.Text)

	case *Element:
		p.line(indent, "element <%s%s>", n.Tag, formatAttrs(n.Attrs, n.Spreads))
		p.nodes(n.Children, indent+1)

	case *Fragment:
		p.line(indent, "fragment")
		p.nodes(n.Children, indent+1)

	case *If:
		p.line(indent, "if {%s}", n.Cond)
		p.nodes(n.Children, indent+1)
		for _, elif := range n.Elifs {
			p.line(indent, "elif {%s}", elif.Cond)
			p.nodes(elif.Children, indent+1)
		}
		if n.Else != nil {
			p.line(indent, "else")
			p.nodes(n.Else, indent+1)
		}

	case *ForEach:
		header := fmt.Sprintf("foreach {%s} in {%s}", n.Item, n.ListExpr)
		if n.KeyExpr != "" {
			header += fmt.Sprintf(" key {%s}", n.KeyExpr)
		}
		if n.FallbackExpr != "" {
			header += fmt.Sprintf(" fallback {%s}", n.FallbackExpr)
		}
		p.line(indent, "%s", header)
		p.nodes(n.Children, indent+1)
		if n.FallbackChildren != nil {
			p.line(indent, "foreach-fallback")
			p.nodes(n.FallbackChildren, indent+1)
		}

	case *Switch:
		if n.Subject == "" {
			p.line(indent, "switch")
		} else {
			p.line(indent, "switch {%s}", n.Subject)
		}
		p.nodes(n.Children, indent+1)

	case *Match:
		p.line(indent, "match {%s}", n.Subject)
		p.nodes(n.Children, indent+1)
	}
}

func formatAttrs(attrs map[string]AttrValue, spreads []string) string {
	var sb strings.Builder

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sb.WriteByte(' ')
		switch v := attrs[name].(type) {
		case StringValue:
			fmt.Fprintf(&sb, "%s=%q", name, v.Value)
		case BoolValue:
			sb.WriteString(name)
		case ExprValue:
			fmt.Fprintf(&sb, "%s={%s}", name, v.Text)
		}
	}

	for _, spread := range spreads {
		fmt.Fprintf(&sb, " @{%s}", spread)
	}

	return sb.String()
}
