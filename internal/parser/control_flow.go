package parser

import (
	"github.com/ptml-lang/ptml/internal/ast"
	"github.com/ptml-lang/ptml/internal/lexer"
)

func (p *Parser) parseIf() ast.Node {
	ifTok := p.expect(lexer.DIRECTIVE_IF)
	cond := p.expect(lexer.EXPR_BODY)
	children := p.parseBlock()
	if p.err != nil {
		return nil
	}

	node := ast.NewIf(cond.Literal, children, joinSpans(ifTok.Span, p.prevSpan()))

	seenElse := false
	for p.err == nil {
		save := p.pos
		p.skipInsignificantText()

		switch tok := p.current(); tok.Type {
		case lexer.DIRECTIVE_ELIF:
			if seenElse {
				p.fail(invalidDirectiveSequence(tok.Span, "@elif after @else"))
				return nil
			}
			p.advance()
			elifCond := p.expect(lexer.EXPR_BODY)
			body := p.parseBlock()
			if p.err != nil {
				return nil
			}
			node.Elifs = append(node.Elifs, ast.ElifBranch{Cond: elifCond.Literal, Children: body})

		case lexer.DIRECTIVE_ELSE:
			if seenElse {
				p.fail(invalidDirectiveSequence(tok.Span, "duplicate @else"))
				return nil
			}
			p.advance()
			body := p.parseBlock()
			if p.err != nil {
				return nil
			}
			if body == nil {
				body = []ast.Node{}
			}
			node.Else = body
			seenElse = true

		default:
			// The skipped whitespace belongs to the surrounding content.
			p.pos = save
			node.SetSpan(joinSpans(ifTok.Span, p.prevSpan()))
			return node
		}
	}
	return nil
}

func (p *Parser) parseForEach() ast.Node {
	feTok := p.expect(lexer.DIRECTIVE_FOREACH)
	item := p.expect(lexer.EXPR_BODY)
	p.expect(lexer.KEYWORD_IN)
	list := p.expect(lexer.EXPR_BODY)
	if p.err != nil {
		return nil
	}

	node := ast.NewForEach(item.Literal, list.Literal, nil, feTok.Span)

	// key and fallback modifiers in either order; a repeat overwrites.
modifiers:
	for p.err == nil {
		switch p.current().Type {
		case lexer.KEYWORD_KEY:
			p.advance()
			node.KeyExpr = p.expect(lexer.EXPR_BODY).Literal
		case lexer.KEYWORD_FALLBACK:
			p.advance()
			node.FallbackExpr = p.expect(lexer.EXPR_BODY).Literal
		default:
			break modifiers
		}
	}

	node.Children = p.parseBlock()
	if p.err != nil {
		return nil
	}

	// Optional `-> @fallback { ... }` block after the loop body.
	save := p.pos
	p.skipInsignificantText()
	if p.current().Type == lexer.ARROW {
		p.advance()
		p.skipInsignificantText()
		p.expect(lexer.DIRECTIVE_FALLBACK)
		body := p.parseBlock()
		if p.err != nil {
			return nil
		}
		if body == nil {
			body = []ast.Node{}
		}
		node.FallbackChildren = body
	} else {
		p.pos = save
	}

	node.SetSpan(joinSpans(feTok.Span, p.prevSpan()))
	return node
}

// parseSwitch parses @switch with an optional subject expression. The block
// body is parsed like any other content and handed over unchanged; later
// stages decide what to do with non-@match children.
func (p *Parser) parseSwitch() ast.Node {
	swTok := p.expect(lexer.DIRECTIVE_SWITCH)

	subject := ""
	if p.current().Type == lexer.EXPR_BODY {
		subject = p.advance().Literal
	}

	children := p.parseBlock()
	if p.err != nil {
		return nil
	}
	return ast.NewSwitch(subject, children, joinSpans(swTok.Span, p.prevSpan()))
}

func (p *Parser) parseMatch() ast.Node {
	matchTok := p.expect(lexer.DIRECTIVE_MATCH)
	subject := p.expect(lexer.EXPR_BODY)
	children := p.parseBlock()
	if p.err != nil {
		return nil
	}
	return ast.NewMatch(subject.Literal, children, joinSpans(matchTok.Span, p.prevSpan()))
}
