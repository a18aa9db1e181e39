package parser

import (
	"github.com/ptml-lang/ptml/internal/ast"
	"github.com/ptml-lang/ptml/internal/lexer"
)

// voidTags are elements that never take children or a closing tag, per the
// HTML void element list.
var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true,
	"embed": true, "hr": true, "img": true, "input": true,
	"link": true, "meta": true, "source": true, "track": true,
	"wbr": true,
}

func (p *Parser) parseElement() ast.Node {
	open := p.expect(lexer.TAG_OPEN_START)
	name := p.expect(lexer.TAG_NAME)

	attrs := make(map[string]ast.AttrValue)
	var spreads []string

attrLoop:
	for p.err == nil {
		switch p.current().Type {
		case lexer.ATTR_NAME:
			p.parseAttribute(attrs)
		case lexer.ATTR_SPREAD:
			spreads = append(spreads, p.advance().Literal)
		case lexer.TAG_OPEN_END, lexer.TAG_SELF_CLOSE:
			break attrLoop
		default:
			p.fail(unexpectedToken(lexer.TAG_OPEN_END, p.current()))
			return nil
		}
	}
	if p.err != nil {
		return nil
	}

	if p.current().Type == lexer.TAG_SELF_CLOSE {
		end := p.advance()
		return ast.NewElement(name.Literal, attrs, spreads, nil, joinSpans(open.Span, end.Span))
	}

	gt := p.expect(lexer.TAG_OPEN_END)
	if p.err != nil {
		return nil
	}

	// Void elements take no children and no closing tag even when written
	// with a plain '>'.
	if voidTags[name.Literal] {
		return ast.NewElement(name.Literal, attrs, spreads, nil, joinSpans(open.Span, gt.Span))
	}

	children := p.parseChildren()

	p.expect(lexer.TAG_CLOSE_START)
	closeName := p.expect(lexer.TAG_NAME)
	if p.err != nil {
		return nil
	}
	if closeName.Literal != name.Literal {
		p.fail(mismatchedCloseTag(name.Literal, closeName))
		return nil
	}
	end := p.expect(lexer.TAG_OPEN_END)
	if p.err != nil {
		return nil
	}

	return ast.NewElement(name.Literal, attrs, spreads, children, joinSpans(open.Span, end.Span))
}

// parseAttribute parses one attribute and stores it in attrs. A repeated
// name overwrites the earlier value.
func (p *Parser) parseAttribute(attrs map[string]ast.AttrValue) {
	name := p.expect(lexer.ATTR_NAME)

	switch p.current().Type {
	case lexer.ATTR_EQ:
		p.advance()
		switch p.current().Type {
		case lexer.ATTR_VALUE:
			attrs[name.Literal] = ast.StringValue{Value: p.advance().Literal}
		case lexer.EXPR_START:
			p.advance()
			body := p.expect(lexer.EXPR_BODY)
			p.expect(lexer.EXPR_END)
			if p.err == nil {
				attrs[name.Literal] = ast.ExprValue{Text: body.Literal}
			}
		default:
			p.fail(unexpectedToken(lexer.ATTR_VALUE, p.current()))
		}

	case lexer.ATTR_EXPR_EQ:
		p.advance()
		value := p.expect(lexer.ATTR_EXPR_VALUE)
		if p.err == nil {
			attrs[name.Literal] = ast.ExprValue{Text: value.Literal}
		}

	default:
		attrs[name.Literal] = ast.BoolValue{}
	}
}

func (p *Parser) parseFragment() ast.Node {
	open := p.expect(lexer.FRAGMENT_OPEN)
	children := p.parseChildren()
	end := p.expect(lexer.FRAGMENT_CLOSE)
	if p.err != nil {
		return nil
	}
	return ast.NewFragment(children, joinSpans(open.Span, end.Span))
}
