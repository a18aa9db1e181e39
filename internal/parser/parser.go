// Package parser builds template ASTs from the lexer's token stream.
//
// The parser is single-pass recursive descent with one token of lookahead.
// It stops at the first syntax error and returns it as a *ParseError; a
// parsed tree is only returned when the whole input is well formed.
package parser

import (
	"strings"

	"github.com/ptml-lang/ptml/internal/ast"
	"github.com/ptml-lang/ptml/internal/guard"
	"github.com/ptml-lang/ptml/internal/lexer"
)

// Parser consumes a token stream produced by lexer.Tokenize. A Parser is
// single-use and not safe for concurrent use; independent goroutines parse
// concurrently by creating independent instances.
type Parser struct {
	tokens []lexer.Token
	pos    int
	policy *guard.Policy
	err    *ParseError
}

// Option configures a Parser.
type Option func(*Parser)

// WithGuard replaces the default host-statement policy. A nil policy
// disables the guard entirely.
func WithGuard(policy *guard.Policy) Option {
	return func(p *Parser) { p.policy = policy }
}

// New creates a parser over the given token stream.
func New(tokens []lexer.Token, opts ...Option) *Parser {
	p := &Parser{
		tokens: tokens,
		policy: guard.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse tokenizes and parses src in one call.
func Parse(src, filename string, opts ...Option) ([]ast.Node, error) {
	l := lexer.New(src)
	l.SetFilename(filename)
	return New(l.Tokenize(), opts...).ParseTemplate()
}

// ParseTemplate parses the whole stream and returns the top-level node list.
// On a syntax error it returns a nil tree and the *ParseError describing the
// first problem found.
func (p *Parser) ParseTemplate() ([]ast.Node, error) {
	var nodes []ast.Node
	for p.err == nil && p.current().Type != lexer.EOF {
		if n := p.parseNode(); n != nil {
			nodes = append(nodes, n)
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return nodes, nil
}

// current returns the token under the cursor. The stream always ends with an
// EOF token, so current is defined at every position.
func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// prevSpan is the span of the last consumed token, used to close out the
// span of a multi-token construct.
func (p *Parser) prevSpan() lexer.Span {
	if p.pos == 0 {
		return p.current().Span
	}
	return p.tokens[p.pos-1].Span
}

// expect consumes a token of the given type or records the first error.
// After an error all productions fall through without consuming input.
func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	tok := p.current()
	if tok.Type != tt {
		p.fail(unexpectedToken(tt, tok))
		return tok
	}
	return p.advance()
}

// fail records err unless an earlier error already won.
func (p *Parser) fail(err *ParseError) {
	if p.err == nil {
		p.err = err
	}
}

// skipInsignificantText advances past whitespace-only text tokens. Used at
// positions where layout whitespace separates structural tokens, such as
// between an @if block and its @else.
func (p *Parser) skipInsignificantText() {
	for {
		tok := p.current()
		if tok.Type != lexer.TEXT || strings.TrimSpace(tok.Literal) != "" {
			return
		}
		p.advance()
	}
}

// parseNode parses a single node at text position.
func (p *Parser) parseNode() ast.Node {
	if p.err != nil {
		return nil
	}

	tok := p.current()
	switch tok.Type {
	case lexer.TEXT:
		return p.parseText()

	case lexer.EXPR_START:
		return p.parseExpression()

	case lexer.TAG_OPEN_START:
		return p.parseElement()

	case lexer.FRAGMENT_OPEN:
		return p.parseFragment()

	case lexer.DIRECTIVE_IF:
		return p.parseIf()

	case lexer.DIRECTIVE_FOREACH:
		return p.parseForEach()

	case lexer.DIRECTIVE_SWITCH:
		return p.parseSwitch()

	case lexer.DIRECTIVE_MATCH:
		return p.parseMatch()

	case lexer.DIRECTIVE_ELIF, lexer.DIRECTIVE_ELSE:
		p.fail(invalidDirectiveSequence(tok.Span, "%s without a preceding @if block", tok.Literal))
		return nil

	case lexer.DIRECTIVE_FALLBACK:
		p.fail(invalidDirectiveSequence(tok.Span, "@fallback without a preceding @foreach loop"))
		return nil

	case lexer.ARROW, lexer.BLOCK_OPEN:
		// Structural punctuation outside its structural context is plain
		// text.
		p.advance()
		return ast.NewText(tok.Literal, tok.Span)

	default:
		p.fail(unexpectedToken(lexer.TEXT, tok))
		return nil
	}
}

func (p *Parser) parseText() ast.Node {
	tok := p.advance()
	if p.policy != nil {
		if kw, ok := p.policy.Match(tok.Literal); ok {
			p.fail(forbiddenHostStatement(kw, tok))
			return nil
		}
	}
	return ast.NewText(tok.Literal, tok.Span)
}

func (p *Parser) parseExpression() ast.Node {
	start := p.expect(lexer.EXPR_START)
	body := p.expect(lexer.EXPR_BODY)
	end := p.expect(lexer.EXPR_END)
	if p.err != nil {
		return nil
	}
	return ast.NewExpression(body.Literal, joinSpans(start.Span, end.Span))
}

// parseChildren parses nodes until a closing token for the enclosing
// construct. The caller consumes its own closer.
func (p *Parser) parseChildren() []ast.Node {
	var nodes []ast.Node
	for p.err == nil {
		switch p.current().Type {
		case lexer.EOF, lexer.TAG_CLOSE_START, lexer.FRAGMENT_CLOSE, lexer.BLOCK_CLOSE:
			return nodes
		}
		if n := p.parseNode(); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// parseBlock parses { children } for a directive.
func (p *Parser) parseBlock() []ast.Node {
	p.expect(lexer.BLOCK_OPEN)
	children := p.parseChildren()
	p.expect(lexer.BLOCK_CLOSE)
	if p.err != nil {
		return nil
	}
	return children
}

func joinSpans(start, end lexer.Span) lexer.Span {
	return lexer.Span{
		Filename: start.Filename,
		Line:     start.Line,
		Column:   start.Column,
		Start:    start.Start,
		End:      end.End,
	}
}
