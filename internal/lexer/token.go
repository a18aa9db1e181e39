package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // index in []rune of the source
	End      int    // exclusive end index
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string // token text; for EXPR_BODY and ATTR_SPREAD this is the trimmed body
	Span    Span   // source location information
}

// Token type constants
const (
	// Tag structure
	TAG_OPEN_START  TokenType = "TAG_OPEN_START"  // <
	TAG_OPEN_END    TokenType = "TAG_OPEN_END"    // >
	TAG_CLOSE_START TokenType = "TAG_CLOSE_START" // </
	TAG_SELF_CLOSE  TokenType = "TAG_SELF_CLOSE"  // />
	TAG_NAME        TokenType = "TAG_NAME"        // div

	// Attributes
	ATTR_NAME       TokenType = "ATTR_NAME"       // class
	ATTR_EQ         TokenType = "ATTR_EQ"         // =
	ATTR_VALUE      TokenType = "ATTR_VALUE"      // quoted literal, without quotes
	ATTR_EXPR_EQ    TokenType = "ATTR_EXPR_EQ"    // :=
	ATTR_EXPR_VALUE TokenType = "ATTR_EXPR_VALUE" // expression after :=
	ATTR_SPREAD     TokenType = "ATTR_SPREAD"     // @{...} inside a tag

	// Content
	TEXT       TokenType = "TEXT"
	EXPR_START TokenType = "EXPR_START" // {
	EXPR_BODY  TokenType = "EXPR_BODY" // content inside { }, or a directive header expression
	EXPR_END   TokenType = "EXPR_END"  // }

	// Directive blocks
	BLOCK_OPEN  TokenType = "BLOCK_OPEN"  // { after a directive header
	BLOCK_CLOSE TokenType = "BLOCK_CLOSE" // } closing a directive block

	// Directives
	DIRECTIVE_IF       TokenType = "DIRECTIVE_IF"       // @if
	DIRECTIVE_ELIF     TokenType = "DIRECTIVE_ELIF"     // @elif
	DIRECTIVE_ELSE     TokenType = "DIRECTIVE_ELSE"     // @else
	DIRECTIVE_FOREACH  TokenType = "DIRECTIVE_FOREACH"  // @foreach
	DIRECTIVE_SWITCH   TokenType = "DIRECTIVE_SWITCH"   // @switch
	DIRECTIVE_MATCH    TokenType = "DIRECTIVE_MATCH"    // @match
	DIRECTIVE_FALLBACK TokenType = "DIRECTIVE_FALLBACK" // @fallback

	// Directive modifier keywords
	KEYWORD_IN       TokenType = "KEYWORD_IN"       // in
	KEYWORD_KEY      TokenType = "KEYWORD_KEY"      // key
	KEYWORD_FALLBACK TokenType = "KEYWORD_FALLBACK" // fallback

	ARROW TokenType = "ARROW" // ->

	// Fragments
	FRAGMENT_OPEN  TokenType = "FRAGMENT_OPEN"  // <>
	FRAGMENT_CLOSE TokenType = "FRAGMENT_CLOSE" // </>

	EOF TokenType = "EOF"
)

var directives = map[string]TokenType{
	"if":       DIRECTIVE_IF,
	"elif":     DIRECTIVE_ELIF,
	"else":     DIRECTIVE_ELSE,
	"foreach":  DIRECTIVE_FOREACH,
	"switch":   DIRECTIVE_SWITCH,
	"match":    DIRECTIVE_MATCH,
	"fallback": DIRECTIVE_FALLBACK,
}

// LookupDirective reports whether word names a directive and returns its token type.
func LookupDirective(word string) (TokenType, bool) {
	tt, ok := directives[word]
	return tt, ok
}

// String returns a human readable position for the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}
