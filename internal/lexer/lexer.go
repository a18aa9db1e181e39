package lexer

import (
	"strings"
	"unicode"
)

// scanMode is the lexical mode carried through the scan loop. The same
// characters mean different things in text position and inside an open tag.
type scanMode int

const (
	modeText scanMode = iota
	modeTag
)

// Lexer scans one PTML source unit into a flat token stream.
//
// The lexer never fails: unterminated or unrecognized input degrades to TEXT
// tokens and the scan always makes forward progress. A Lexer is single-use;
// create a fresh one per source unit and call Tokenize exactly once.
type Lexer struct {
	input    []rune
	pos      int  // index of the current rune
	ch       rune // current rune (0 = EOF)
	line     int  // current line number (1-based)
	column   int  // current column number (1-based)
	filename string

	mode        scanMode
	expectBlock bool // a directive header just ended; the next '{' opens its block
	blockDepth  int  // number of currently open directive blocks
	tokens      []Token
}

// New creates a new lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{
		input:  []rune(input),
		pos:    -1, // start before first rune
		line:   1,
		column: 0, // becomes 1 after the first read()
	}
	l.read()
	return l
}

// SetFilename attributes all emitted spans to the provided filename.
func (l *Lexer) SetFilename(name string) {
	l.filename = name
}

// Tokenize scans the whole input and returns the ordered token stream,
// terminated by exactly one EOF token.
func (l *Lexer) Tokenize() []Token {
	for l.ch != 0 {
		switch l.mode {
		case modeTag:
			l.scanTag()
		default:
			l.scanText()
		}
	}

	line, column, pos := l.line, l.column, l.pos
	if column == 0 {
		column = 1
	}
	l.emit(l.makeToken(EOF, line, column, pos, pos, ""))
	return l.tokens
}

// read advances the lexer to the next rune, tracking line and column.
func (l *Lexer) read() {
	l.pos++
	prevPos := l.pos - 1
	inputLen := len(l.input)

	if l.pos >= inputLen {
		if prevPos >= 0 && prevPos < inputLen {
			if l.input[prevPos] == '\n' {
				l.line++
				l.column = 1
			} else {
				l.column++
			}
		} else if prevPos < 0 {
			l.column = 1
		}
		l.ch = 0
		return
	}

	l.ch = l.input[l.pos]

	if prevPos >= 0 && l.input[prevPos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// peek returns the next rune without advancing.
func (l *Lexer) peek() rune {
	return l.peekAt(1)
}

func (l *Lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.input) || l.pos+offset < 0 {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) makeToken(tt TokenType, startLine, startColumn, startPos, endPos int, literal string) Token {
	return Token{
		Type:    tt,
		Literal: literal,
		Span: Span{
			Filename: l.filename,
			Line:     startLine,
			Column:   startColumn,
			Start:    startPos,
			End:      endPos,
		},
	}
}

func (l *Lexer) emit(tok Token) {
	// A pending directive block survives insignificant whitespace only; any
	// other token between the header and its '{' cancels it.
	if l.expectBlock && !(tok.Type == TEXT && strings.TrimSpace(tok.Literal) == "") {
		l.expectBlock = false
	}
	l.tokens = append(l.tokens, tok)
}

// mark captures the position of the rune about to be scanned.
func (l *Lexer) mark() (line, column, pos int) {
	return l.line, l.column, l.pos
}

// scanText handles one dispatch step in text mode.
func (l *Lexer) scanText() {
	switch {
	case l.ch == '<':
		l.scanAngle()
	case l.ch == '{':
		l.scanBrace()
	case l.ch == '}':
		l.scanCloseBrace()
	case l.ch == '@':
		l.scanAt()
	case l.ch == '#':
		l.skipHashComment()
	case l.ch == '/' && l.peek() == '*':
		l.skipBlockComment()
	case l.ch == '-' && l.peek() == '>':
		line, column, pos := l.mark()
		l.read()
		l.read()
		l.emit(l.makeToken(ARROW, line, column, pos, l.pos, "->"))
	default:
		l.readText()
	}
}

// readText accumulates literal text until the next marker character.
func (l *Lexer) readText() {
	line, column, pos := l.mark()
	for l.ch != 0 {
		if l.ch == '<' || l.ch == '{' || l.ch == '}' || l.ch == '@' || l.ch == '#' {
			break
		}
		if l.ch == '-' && l.peek() == '>' {
			break
		}
		if l.ch == '/' && l.peek() == '*' {
			break
		}
		l.read()
	}
	if l.pos > pos {
		l.emit(l.makeToken(TEXT, line, column, pos, l.pos, string(l.input[pos:l.pos])))
	}
}

// scanAngle disambiguates tag-open, close-tag and fragment markers.
func (l *Lexer) scanAngle() {
	line, column, pos := l.mark()

	switch {
	case l.peek() == '!' && l.peekAt(2) == '-' && l.peekAt(3) == '-':
		l.skipHTMLComment()

	case l.peek() == '/' && l.peekAt(2) == '>':
		l.read()
		l.read()
		l.read()
		l.emit(l.makeToken(FRAGMENT_CLOSE, line, column, pos, l.pos, "</>"))

	case l.peek() == '/':
		l.read()
		l.read()
		l.emit(l.makeToken(TAG_CLOSE_START, line, column, pos, l.pos, "</"))
		l.skipWhitespace()
		l.scanName(TAG_NAME)
		l.skipWhitespace()
		if l.ch == '>' {
			gtLine, gtColumn, gtPos := l.mark()
			l.read()
			l.emit(l.makeToken(TAG_OPEN_END, gtLine, gtColumn, gtPos, l.pos, ">"))
		}

	case l.peek() == '>':
		l.read()
		l.read()
		l.emit(l.makeToken(FRAGMENT_OPEN, line, column, pos, l.pos, "<>"))

	case isNameStart(l.peek()):
		l.read()
		l.emit(l.makeToken(TAG_OPEN_START, line, column, pos, l.pos, "<"))
		l.scanName(TAG_NAME)
		l.mode = modeTag

	default:
		// A lone '<' (comparison sign, prose) stays literal text.
		l.read()
		l.emit(l.makeToken(TEXT, line, column, pos, l.pos, "<"))
	}
}

// scanBrace emits a block opener when a directive header just ended,
// otherwise an interpolated expression. An unbalanced '{' degrades to text.
func (l *Lexer) scanBrace() {
	line, column, pos := l.mark()

	if l.expectBlock {
		l.read()
		l.blockDepth++
		l.emit(l.makeToken(BLOCK_OPEN, line, column, pos, l.pos, "{"))
		l.expectBlock = false
		return
	}

	if _, ok := l.findBalancedClose(pos); !ok {
		l.read()
		l.emit(l.makeToken(TEXT, line, column, pos, l.pos, "{"))
		return
	}

	l.scanExpression()
}

func (l *Lexer) scanCloseBrace() {
	line, column, pos := l.mark()
	l.read()
	if l.blockDepth > 0 {
		l.blockDepth--
		l.emit(l.makeToken(BLOCK_CLOSE, line, column, pos, l.pos, "}"))
		return
	}
	// '}' with no open directive block stays literal text.
	l.emit(l.makeToken(TEXT, line, column, pos, l.pos, "}"))
}

// findBalancedClose returns the index of the '}' matching the '{' at open,
// tracking nested braces and quoted strings inside the body.
func (l *Lexer) findBalancedClose(open int) (int, bool) {
	depth := 0
	inString := false
	var quote rune

	for i := open; i < len(l.input); i++ {
		ch := l.input[i]
		if inString {
			if ch == quote && l.input[i-1] != '\\' {
				inString = false
			}
			continue
		}
		switch ch {
		case '"', '\'':
			inString = true
			quote = ch
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// scanExpression scans '{' body '}' and emits the start/body/end triple.
// The caller has verified the closing brace exists.
func (l *Lexer) scanExpression() {
	line, column, pos := l.mark()
	end, _ := l.findBalancedClose(pos)

	l.read() // consume '{'
	l.emit(l.makeToken(EXPR_START, line, column, pos, pos+1, "{"))

	bodyLine, bodyColumn, bodyPos := l.mark()
	for l.pos < end {
		l.read()
	}
	body := strings.TrimSpace(string(l.input[bodyPos:end]))
	l.emit(l.makeToken(EXPR_BODY, bodyLine, bodyColumn, bodyPos, end, body))

	endLine, endColumn, endPos := l.mark()
	l.read() // consume '}'
	l.emit(l.makeToken(EXPR_END, endLine, endColumn, endPos, l.pos, "}"))
}

// scanAt reads the identifier after '@' and emits a directive header, or
// degrades to literal text for anything that is not a reserved directive.
func (l *Lexer) scanAt() {
	line, column, pos := l.mark()
	l.read() // consume '@'

	wordStart := l.pos
	for l.ch != 0 && unicode.IsLetter(l.ch) {
		l.read()
	}
	word := string(l.input[wordStart:l.pos])

	tt, ok := LookupDirective(word)
	if !ok {
		l.emit(l.makeToken(TEXT, line, column, pos, l.pos, "@"+word))
		return
	}

	l.emit(l.makeToken(tt, line, column, pos, l.pos, "@"+word))

	switch tt {
	case DIRECTIVE_IF, DIRECTIVE_ELIF, DIRECTIVE_SWITCH, DIRECTIVE_MATCH:
		l.scanDirectiveExpr()
	case DIRECTIVE_FOREACH:
		l.scanForeachHeader()
	case DIRECTIVE_ELSE, DIRECTIVE_FALLBACK:
		// No header expression; eat the gap so the block opener follows.
		l.skipWhitespace()
	}

	l.expectBlock = true
}

// scanDirectiveExpr reads a directive condition or subject up to the block
// opener, respecting quoted strings. An empty header emits nothing, which is
// how a bare @switch is represented.
func (l *Lexer) scanDirectiveExpr() {
	l.skipWhitespace()
	line, column, pos := l.mark()

	inString := false
	var quote rune
	for l.ch != 0 {
		if inString {
			if l.ch == quote && l.peekAt(-1) != '\\' {
				inString = false
			}
			l.read()
			continue
		}
		if l.ch == '"' || l.ch == '\'' {
			inString = true
			quote = l.ch
			l.read()
			continue
		}
		if l.ch == '{' {
			break
		}
		l.read()
	}

	body := strings.TrimSpace(string(l.input[pos:l.pos]))
	if body != "" {
		l.emit(l.makeToken(EXPR_BODY, line, column, pos, l.pos, body))
	}
}

// scanForeachHeader reads `item in iterable [key expr] [fallback expr]` up to
// the block opener and emits the binding, keyword and expression tokens.
// Splitting respects parenthes/bracket nesting and quoted strings, so an
// iterable like sorted(xs, key=f) stays one expression.
func (l *Lexer) scanForeachHeader() {
	l.skipWhitespace()
	headerLine, headerColumn, headerStart := l.mark()

	depth := 0
	inString := false
	var quote rune
	for l.ch != 0 {
		if inString {
			if l.ch == quote && l.peekAt(-1) != '\\' {
				inString = false
			}
			l.read()
			continue
		}
		switch l.ch {
		case '"', '\'':
			inString = true
			quote = l.ch
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '{':
			if depth <= 0 {
				goto scanned
			}
		}
		l.read()
	}
scanned:
	headerEnd := l.pos

	inIdx, ok := l.findHeaderWord(headerStart, headerEnd, headerStart, "in")
	if !ok {
		// No `in` binding: hand the raw header to the parser, which will
		// report the missing keyword with a useful span.
		if body := strings.TrimSpace(string(l.input[headerStart:headerEnd])); body != "" {
			l.emit(l.makeToken(EXPR_BODY, headerLine, headerColumn, headerStart, headerEnd, body))
		}
		return
	}

	anchor := headerAnchor{pos: headerStart, line: headerLine, column: headerColumn}

	l.emitHeaderExpr(anchor, headerStart, inIdx)
	l.emitHeaderToken(KEYWORD_IN, anchor, inIdx, inIdx+len("in"), "in")

	// The remainder is the iterable followed by key/fallback modifiers in
	// either order.
	segStart := inIdx + len("in")
	rest := segStart
	for {
		kwIdx, kw, found := l.findModifierWord(rest, headerEnd)
		if !found {
			l.emitHeaderExpr(anchor, segStart, headerEnd)
			return
		}

		l.emitHeaderExpr(anchor, segStart, kwIdx)
		word := "key"
		if kw == KEYWORD_FALLBACK {
			word = "fallback"
		}
		l.emitHeaderToken(kw, anchor, kwIdx, kwIdx+len(word), word)
		segStart = kwIdx + len(word)
		rest = segStart
	}
}

type headerAnchor struct {
	pos, line, column int
}

// emitHeaderExpr emits the trimmed slice [lo,hi) as an EXPR_BODY token.
func (l *Lexer) emitHeaderExpr(anchor headerAnchor, lo, hi int) {
	for lo < hi && unicode.IsSpace(l.input[lo]) {
		lo++
	}
	for hi > lo && unicode.IsSpace(l.input[hi-1]) {
		hi--
	}
	if lo >= hi {
		return
	}
	l.emitHeaderToken(EXPR_BODY, anchor, lo, hi, string(l.input[lo:hi]))
}

func (l *Lexer) emitHeaderToken(tt TokenType, anchor headerAnchor, lo, hi int, literal string) {
	line, column := anchor.line, anchor.column
	for i := anchor.pos; i < lo && i < len(l.input); i++ {
		if l.input[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	l.emit(l.makeToken(tt, line, column, lo, hi, literal))
}

// findHeaderWord locates the first occurrence of word inside [from,end) that
// sits at nesting depth zero, outside strings, bounded by whitespace.
func (l *Lexer) findHeaderWord(from, end, boundary int, word string) (int, bool) {
	depth := 0
	inString := false
	var quote rune
	runes := []rune(word)

	for i := from; i < end; i++ {
		ch := l.input[i]
		if inString {
			if ch == quote && l.input[i-1] != '\\' {
				inString = false
			}
			continue
		}
		switch ch {
		case '"', '\'':
			inString = true
			quote = ch
			continue
		case '(', '[', '{':
			depth++
			continue
		case ')', ']', '}':
			depth--
			continue
		}
		if depth != 0 || ch != runes[0] {
			continue
		}
		if i == boundary || !unicode.IsSpace(l.input[i-1]) {
			continue
		}
		if i+len(runes) > end {
			continue
		}
		match := true
		for j, r := range runes {
			if l.input[i+j] != r {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		after := i + len(runes)
		if after < end && !unicode.IsSpace(l.input[after]) {
			continue
		}
		return i, true
	}
	return 0, false
}

// findModifierWord locates the next top-level `key` or `fallback` modifier.
func (l *Lexer) findModifierWord(from, end int) (int, TokenType, bool) {
	keyIdx, keyOK := l.findHeaderWord(from, end, from, "key")
	fbIdx, fbOK := l.findHeaderWord(from, end, from, "fallback")

	switch {
	case keyOK && (!fbOK || keyIdx < fbIdx):
		return keyIdx, KEYWORD_KEY, true
	case fbOK:
		return fbIdx, KEYWORD_FALLBACK, true
	default:
		return 0, "", false
	}
}

// scanTag handles one step inside an open tag: the tag end markers, a spread
// attribute, or one named attribute.
func (l *Lexer) scanTag() {
	l.skipWhitespace()

	switch {
	case l.ch == 0:
		// Unterminated tag: degrade, the parser reports the missing '>'.
		l.mode = modeText

	case l.ch == '>':
		line, column, pos := l.mark()
		l.read()
		l.emit(l.makeToken(TAG_OPEN_END, line, column, pos, l.pos, ">"))
		l.mode = modeText

	case l.ch == '/' && l.peek() == '>':
		line, column, pos := l.mark()
		l.read()
		l.read()
		l.emit(l.makeToken(TAG_SELF_CLOSE, line, column, pos, l.pos, "/>"))
		l.mode = modeText

	case l.ch == '@' && l.peek() == '{':
		l.scanSpread()

	case isNameStart(l.ch):
		l.scanAttr()

	default:
		// Junk inside a tag is folded into a text span; the parser's
		// attribute loop stops there and reports it.
		line, column, pos := l.mark()
		for l.ch != 0 && !unicode.IsSpace(l.ch) && l.ch != '>' && l.ch != '/' && !isNameStart(l.ch) && l.ch != '@' {
			l.read()
		}
		if l.pos == pos {
			l.read()
		}
		l.emit(l.makeToken(TEXT, line, column, pos, l.pos, string(l.input[pos:l.pos])))
	}
}

// scanSpread reads a @{...} spread attribute inside a tag.
func (l *Lexer) scanSpread() {
	line, column, pos := l.mark()
	l.read() // consume '@'

	if end, ok := l.findBalancedClose(l.pos); ok {
		l.read() // consume '{'
		bodyStart := l.pos
		for l.pos < end {
			l.read()
		}
		body := strings.TrimSpace(string(l.input[bodyStart:end]))
		l.read() // consume '}'
		l.emit(l.makeToken(ATTR_SPREAD, line, column, pos, l.pos, body))
		return
	}

	// Unterminated spread: take the rest of the input as the body.
	l.read() // consume '{'
	bodyStart := l.pos
	for l.ch != 0 {
		l.read()
	}
	body := strings.TrimSpace(string(l.input[bodyStart:l.pos]))
	l.emit(l.makeToken(ATTR_SPREAD, line, column, pos, l.pos, body))
}

// scanAttr reads one attribute: a bare boolean name, name="value",
// name={expr}, or the name:=expr shorthand.
func (l *Lexer) scanAttr() {
	l.scanName(ATTR_NAME)
	l.skipWhitespace()

	switch {
	case l.ch == ':' && l.peek() == '=':
		line, column, pos := l.mark()
		l.read()
		l.read()
		l.emit(l.makeToken(ATTR_EXPR_EQ, line, column, pos, l.pos, ":="))
		l.skipWhitespace()
		l.scanAttrExprValue()

	case l.ch == '=':
		line, column, pos := l.mark()
		l.read()
		l.emit(l.makeToken(ATTR_EQ, line, column, pos, l.pos, "="))
		l.skipWhitespace()
		l.scanAttrValue()
	}
	// Anything else is a boolean attribute; the tag loop picks up from here.
}

// scanAttrValue reads the value after '=': a quoted literal or a brace
// expression. An unquoted run degrades to a literal value.
func (l *Lexer) scanAttrValue() {
	switch {
	case l.ch == '"' || l.ch == '\'':
		quote := l.ch
		line, column, pos := l.mark()
		l.read() // consume opening quote
		valStart := l.pos
		for l.ch != 0 && l.ch != quote {
			l.read()
		}
		value := string(l.input[valStart:l.pos])
		if l.ch == quote {
			l.read() // consume closing quote
		}
		l.emit(l.makeToken(ATTR_VALUE, line, column, pos, l.pos, value))

	case l.ch == '{':
		if _, ok := l.findBalancedClose(l.pos); ok {
			l.scanExpression()
			return
		}
		line, column, pos := l.mark()
		l.read()
		l.emit(l.makeToken(TEXT, line, column, pos, l.pos, "{"))

	default:
		line, column, pos := l.mark()
		for l.ch != 0 && !unicode.IsSpace(l.ch) && l.ch != '>' && !(l.ch == '/' && l.peek() == '>') {
			l.read()
		}
		if l.pos > pos {
			l.emit(l.makeToken(ATTR_VALUE, line, column, pos, l.pos, string(l.input[pos:l.pos])))
		}
	}
}

// scanAttrExprValue reads the bare expression after ':=' up to whitespace or
// the tag end, respecting quoted strings.
func (l *Lexer) scanAttrExprValue() {
	line, column, pos := l.mark()

	inString := false
	var quote rune
	for l.ch != 0 {
		if inString {
			if l.ch == quote && l.peekAt(-1) != '\\' {
				inString = false
			}
			l.read()
			continue
		}
		if l.ch == '"' || l.ch == '\'' {
			inString = true
			quote = l.ch
			l.read()
			continue
		}
		if unicode.IsSpace(l.ch) || l.ch == '>' || (l.ch == '/' && l.peek() == '>') {
			break
		}
		l.read()
	}

	if l.pos > pos {
		l.emit(l.makeToken(ATTR_EXPR_VALUE, line, column, pos, l.pos, string(l.input[pos:l.pos])))
	}
}

// scanName reads a tag or attribute name. Names may contain letters, digits,
// '-', '_' and ':', but stop before the ':=' shorthand.
func (l *Lexer) scanName(tt TokenType) {
	line, column, pos := l.mark()
	for l.ch != 0 {
		if !isNameRune(l.ch) {
			break
		}
		if l.ch == ':' && l.peek() == '=' {
			break
		}
		l.read()
	}
	l.emit(l.makeToken(tt, line, column, pos, l.pos, string(l.input[pos:l.pos])))
}

func (l *Lexer) skipWhitespace() {
	for l.ch != 0 && unicode.IsSpace(l.ch) {
		l.read()
	}
}

func (l *Lexer) skipHashComment() {
	l.read() // consume '#'
	for l.ch != 0 {
		if l.ch == '\n' {
			l.read()
			return
		}
		l.read()
	}
}

func (l *Lexer) skipBlockComment() {
	l.read() // consume '/'
	l.read() // consume '*'
	for l.ch != 0 {
		if l.ch == '*' && l.peek() == '/' {
			l.read()
			l.read()
			return
		}
		l.read()
	}
}

func (l *Lexer) skipHTMLComment() {
	for i := 0; i < 4; i++ { // consume '<!--'
		l.read()
	}
	for l.ch != 0 {
		if l.ch == '-' && l.peek() == '-' && l.peekAt(2) == '>' {
			l.read()
			l.read()
			l.read()
			return
		}
		l.read()
	}
}

func isNameStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isNameRune(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '-' || ch == '_' || ch == ':'
}
