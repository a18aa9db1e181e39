package parser

import (
	"fmt"

	"github.com/ptml-lang/ptml/internal/diag"
	"github.com/ptml-lang/ptml/internal/lexer"
)

// ParseError is the typed error returned for the first syntax problem found.
// Code discriminates the kind; the kind-specific fields carry the payload a
// caller needs to build its own message.
type ParseError struct {
	Code    diag.Code
	Message string
	Span    lexer.Span

	// CodeUnexpectedToken
	Expected lexer.TokenType
	Actual   lexer.TokenType

	// CodeMismatchedCloseTag
	OpenTag  string
	CloseTag string

	// CodeForbiddenHostStatement
	Keyword string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Span.Line > 0 {
		return fmt.Sprintf("%s: %s", e.Span, e.Message)
	}
	return e.Message
}

// ToDiagnostic converts the error into a renderable diagnostic.
func (e *ParseError) ToDiagnostic() diag.Diagnostic {
	d := diag.New(diag.StageParser, e.Code, diag.Span{
		Filename: e.Span.Filename,
		Line:     e.Span.Line,
		Column:   e.Span.Column,
		Start:    e.Span.Start,
		End:      e.Span.End,
	}, "%s", e.Message)

	switch e.Code {
	case diag.CodeMismatchedCloseTag:
		d = d.WithSuggestion(fmt.Sprintf("close <%s> before </%s>", e.OpenTag, e.CloseTag))
	case diag.CodeForbiddenHostStatement:
		d.Stage = diag.StageGuard
		d = d.WithSuggestion("use a {...} expression or a directive such as @if or @foreach").
			WithNote(fmt.Sprintf("statement keyword: %s", e.Keyword))
	}
	return d
}

func unexpectedToken(expected lexer.TokenType, actual lexer.Token) *ParseError {
	found := string(actual.Type)
	if actual.Literal != "" {
		found = fmt.Sprintf("%s (%q)", actual.Type, actual.Literal)
	}
	return &ParseError{
		Code:     diag.CodeUnexpectedToken,
		Message:  fmt.Sprintf("unexpected token: expected %s, found %s", expected, found),
		Span:     actual.Span,
		Expected: expected,
		Actual:   actual.Type,
	}
}

func mismatchedCloseTag(openTag string, closeName lexer.Token) *ParseError {
	return &ParseError{
		Code:     diag.CodeMismatchedCloseTag,
		Message:  fmt.Sprintf("mismatched closing tag: expected </%s>, found </%s>", openTag, closeName.Literal),
		Span:     closeName.Span,
		OpenTag:  openTag,
		CloseTag: closeName.Literal,
	}
}

func invalidDirectiveSequence(span lexer.Span, format string, args ...any) *ParseError {
	return &ParseError{
		Code:    diag.CodeInvalidDirectiveSequence,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	}
}

func forbiddenHostStatement(keyword string, tok lexer.Token) *ParseError {
	return &ParseError{
		Code:    diag.CodeForbiddenHostStatement,
		Message: fmt.Sprintf("raw %q statement in template text", keyword),
		Span:    tok.Span,
		Keyword: keyword,
	}
}
