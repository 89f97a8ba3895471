// Package lexer turns OCTAVE source bytes into a token stream plus a
// warnings list, per spec.md §4.1. The lexer never discards input
// silently: every repair it performs is surfaced as an ast.AuditRecord
// returned alongside the tokens.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/elevanaltd/octave/ast"
	"github.com/elevanaltd/octave/token"
)

// Result is the output of Tokenize: the token stream and its diagnostics.
// Dropping Diagnostics is a bug — callers must propagate both (spec.md §4.1).
type Result struct {
	Tokens      []token.Token
	Diagnostics ast.Diagnostics
}

// Lexer scans a single OCTAVE document.
type Lexer struct {
	src    []byte
	runes    []rune
	offs     []int // byte offset of each rune in src, parallel to runes
	pos      int   // index into runes
	line     int
	col      int
	brackets []token.Position
	tokens   []token.Token
	diags    ast.Diagnostics
}

// Tokenize scans src and returns its tokens and diagnostics. The whole of
// src is checked for valid UTF-8 before scanning starts: an invalid byte
// anywhere, inside a fenced literal zone included, makes Tokenize return
// an E_ENCODING error and no tokens at all (a malformed byte stream cannot
// be meaningfully recovered from, unlike the lenient recoverable errors
// the parser handles).
func Tokenize(src []byte) (Result, error) {
	if !utf8.Valid(src) {
		return Result{}, fmt.Errorf("E_ENCODING: invalid UTF-8 byte sequence")
	}

	l := &Lexer{src: src, line: 1, col: 1}
	l.runes = make([]rune, 0, len(src))
	l.offs = make([]int, 0, len(src))
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		l.runes = append(l.runes, r)
		l.offs = append(l.offs, i)
		i += size
	}

	l.run()

	return Result{Tokens: l.tokens, Diagnostics: l.diags}, nil
}

func (l *Lexer) run() {
	for !l.atEnd() {
		l.scanOne()
	}

	if len(l.brackets) > 0 {
		first := l.brackets[0]
		l.error(ast.CodeEUnbalancedBracket, first, "unclosed '['").
			withHint("add a matching ']'")
	}

	l.emit(token.EOF, "", l.here())
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.runes) }

func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	return l.runes[l.pos]
}

func (l *Lexer) peekAt(off int) rune {
	if l.pos+off >= len(l.runes) || l.pos+off < 0 {
		return 0
	}
	return l.runes[l.pos+off]
}

func (l *Lexer) here() token.Position {
	offset := len(l.src)
	if l.pos < len(l.offs) {
		offset = l.offs[l.pos]
	}
	return token.Position{Line: l.line, Column: l.col, Offset: offset}
}

// advance consumes and returns the current rune, tracking line/column.
// Embedded newlines inside multi-line tokens are counted the same way
// here, so diagnostics stay accurate (spec.md §4.1).
func (l *Lexer) advance() rune {
	r := l.runes[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) byteOffset() int {
	if l.pos < len(l.offs) {
		return l.offs[l.pos]
	}
	return len(l.src)
}

func (l *Lexer) emit(kind token.Kind, raw string, start token.Position) token.Token {
	tok := token.Token{
		Kind: kind,
		Raw:  raw,
		Pos:  start,
		Span: token.Span{Start: start, End: l.here()},
	}
	l.tokens = append(l.tokens, tok)
	return tok
}

func (l *Lexer) emitTok(tok token.Token) {
	l.tokens = append(l.tokens, tok)
}

func (l *Lexer) warn(code ast.Code, pos token.Position, msg string) {
	l.diags = append(l.diags, ast.NewWarning(code, pos, msg))
}

type errBuilder struct {
	l   *Lexer
	idx int
}

func (l *Lexer) error(code ast.Code, pos token.Position, msg string) errBuilder {
	l.diags = append(l.diags, ast.NewError(code, pos, msg))
	return errBuilder{l: l, idx: len(l.diags) - 1}
}

func (e errBuilder) withHint(hint string) errBuilder {
	e.l.diags[e.idx].Hint = hint
	return e
}

func (e errBuilder) withExpectedGot(expected, got string) errBuilder {
	e.l.diags[e.idx].Expected = expected
	e.l.diags[e.idx].Got = got
	return e
}

// scanOne scans exactly one token (or comment/whitespace) starting at the
// lexer's current cursor.
func (l *Lexer) scanOne() {
	l.scanIndentTabs()

	if l.atEnd() {
		return
	}

	r := l.peek()

	switch {
	case r == '\n':
		start := l.here()
		l.advance()
		l.emit(token.NEWLINE, "\n", start)
		return
	case r == ' ' || r == '\t' || r == '\r':
		l.advance()
		return
	case r == '=' && l.peekAt(1) == '=' && l.peekAt(2) == '=':
		l.scanEnvelopeDelimiter()
		return
	case r == '#' || (r == '/' && l.peekAt(1) == '/'):
		l.scanCommentOrSection()
		return
	case r == '"':
		l.scanString()
		return
	case r == '$':
		l.scanVariable()
		return
	case r == '§':
		start := l.here()
		l.advance()
		l.emit(token.SECTION, "§", start)
		return
	case r == ':':
		l.scanColonOrAssign()
		return
	case r == ',':
		start := l.here()
		l.advance()
		l.emit(token.COMMA, ",", start)
		return
	case r == '[':
		start := l.here()
		l.advance()
		l.brackets = append(l.brackets, start)
		l.emit(token.LBRACKET, "[", start)
		return
	case r == ']':
		start := l.here()
		l.advance()
		if len(l.brackets) == 0 {
			l.error(ast.CodeEUnexpectedBracket, start, "unexpected ']' with no matching '['")
		} else {
			l.brackets = l.brackets[:len(l.brackets)-1]
		}
		l.emit(token.RBRACKET, "]", start)
		return
	case isOperatorStart(r):
		if l.scanOperator() {
			return
		}
	}

	switch {
	case ast.IsIdentifierStart(r) || unicodeDigit(r):
		l.scanWordLike()
		return
	default:
		start := l.here()
		l.advance()
		l.error(ast.CodeETokenize, start, fmt.Sprintf("unexpected character %q", r))
	}
}

// scanIndentTabs detects a tab in the leading whitespace of a line,
// outside literal zones (spec.md §4.1, E005). It does not consume the
// tab — that happens in the normal whitespace-skip path — it only
// reports it once per occurrence.
func (l *Lexer) scanIndentTabs() {
	if l.col != 1 {
		return
	}
	// Only flag a tab if it appears before any non-whitespace content on
	// the line (i.e. it is indentation, not a stray tab mid-value).
	i := l.pos
	for i < len(l.runes) {
		r := l.runes[i]
		if r == '\t' {
			pos := token.Position{Line: l.line, Column: i - l.pos + 1, Offset: l.offs[i]}
			l.error(ast.CodeE005, pos, "tabs are not allowed in indentation").
				withHint("use exactly two spaces per indentation depth")
			return
		}
		if r != ' ' {
			return
		}
		i++
	}
}

func unicodeDigit(r rune) bool { return r >= '0' && r <= '9' }

func (l *Lexer) scanEnvelopeDelimiter() {
	start := l.here()
	l.advance()
	l.advance()
	l.advance() // consume ===

	var nameRunes []rune
	var badChar rune
	ok := true
	for !l.atEnd() && !(l.peek() == '=' && l.peekAt(1) == '=' && l.peekAt(2) == '=') {
		r := l.peek()
		if r == '\n' {
			break
		}
		first := len(nameRunes) == 0
		if !ast.IsEnvelopeIdentChar(r, first) {
			if ok {
				badChar = r
				ok = false
			}
		}
		nameRunes = append(nameRunes, r)
		l.advance()
	}

	name := string(nameRunes)

	if !l.atEnd() && l.peek() == '=' && l.peekAt(1) == '=' && l.peekAt(2) == '=' {
		l.advance()
		l.advance()
		l.advance()
	}

	if !ok {
		l.error(ast.CodeEInvalidEnvelopeID, start,
			fmt.Sprintf("invalid envelope identifier %q", name)).
			withExpectedGot("[A-Za-z_][A-Za-z0-9_]*", name).
			withHint(fmt.Sprintf("remove or replace %s", describeRune(badChar)))
		l.emit(token.ENVELOPE_START, name, start)
		return
	}

	canonical := toUpperSnake(name)
	if canonical != name {
		l.warn(ast.CodeWEnvelopeCase, start, fmt.Sprintf("envelope %q normalized to %q", name, canonical))
	}

	if strings.EqualFold(name, "END") {
		l.emitTok(token.Token{Kind: token.ENVELOPE_END, Raw: name, Normalized: canonical, Pos: start, Span: token.Span{Start: start, End: l.here()}})
		return
	}

	l.emitTok(token.Token{Kind: token.ENVELOPE_START, Raw: name, Normalized: canonical, Pos: start, Span: token.Span{Start: start, End: l.here()}})
}

func describeRune(r rune) string {
	switch r {
	case '-':
		return "hyphen '-'"
	case ' ':
		return "space"
	default:
		return strconv.QuoteRune(r)
	}
}

// toUpperSnake canonicalizes a lenient envelope identifier (lowercase or
// CamelCase) into UPPER_SNAKE form, per spec.md §3/§6.
func toUpperSnake(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	for i, r := range runes {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := runes[i-1]
			if (prev >= 'a' && prev <= 'z') || (prev >= '0' && prev <= '9') {
				sb.WriteByte('_')
			}
		}
		sb.WriteRune(r)
	}
	return strings.ToUpper(sb.String())
}

// scanCommentOrSection disambiguates '#' as a line comment (followed by
// whitespace or end-of-line) from '#' as the ASCII alias for the SECTION
// operator §, and handles '//' line comments outright.
func (l *Lexer) scanCommentOrSection() {
	start := l.here()

	if l.peek() == '/' {
		l.advance()
		l.advance()
		text := l.scanToEOL()
		l.emitTok(token.Token{Kind: token.COMMENT, Pos: start, Payload: &token.CommentPayload{Text: strings.TrimSpace(text)}})
		return
	}

	next := l.peekAt(1)
	if next == 0 || next == ' ' || next == '\t' || next == '\n' {
		l.advance()
		text := l.scanToEOL()
		l.emitTok(token.Token{Kind: token.COMMENT, Pos: start, Payload: &token.CommentPayload{Text: strings.TrimSpace(text)}})
		return
	}

	l.advance()
	l.emit(token.SECTION, "#", start)
}

func (l *Lexer) scanToEOL() string {
	var sb strings.Builder
	for !l.atEnd() && l.peek() != '\n' {
		sb.WriteRune(l.advance())
	}
	return sb.String()
}

func (l *Lexer) scanColonOrAssign() {
	start := l.here()
	l.advance()
	if l.peek() == ':' {
		l.advance()
		l.emit(token.ASSIGN, "::", start)
		return
	}
	l.emit(token.COLON, ":", start)

	l.tryScanLiteralZone()
}

func (l *Lexer) scanVariable() {
	start := l.here()
	l.advance() // $

	var name strings.Builder
	for !l.atEnd() && (ast.IsIdentifierContinue(l.peek())) {
		name.WriteRune(l.advance())
	}

	role := ""
	if l.peek() == ':' {
		l.advance()
		var roleB strings.Builder
		for !l.atEnd() && ast.IsIdentifierContinue(l.peek()) {
			roleB.WriteRune(l.advance())
		}
		role = roleB.String()
	}

	raw := "$" + name.String()
	if role != "" {
		raw += ":" + role
	}

	l.emit(token.VARIABLE, raw, start)
}

func (l *Lexer) scanString() {
	start := l.here()

	if l.peek() == '"' && l.peekAt(1) == '"' && l.peekAt(2) == '"' {
		l.advance()
		l.advance()
		l.advance()
		var sb strings.Builder
		for !l.atEnd() && !(l.peek() == '"' && l.peekAt(1) == '"' && l.peekAt(2) == '"') {
			sb.WriteRune(l.advance())
		}
		if l.atEnd() {
			l.error(ast.CodeETokenize, start, "unterminated triple-quoted string")
		} else {
			l.advance()
			l.advance()
			l.advance()
		}
		tok := token.Token{
			Kind:    token.STRING,
			Raw:     sb.String(),
			Pos:     start,
			Span:    token.Span{Start: start, End: l.here()},
			Payload: &token.StringPayload{Triple: true},
		}
		l.emitTok(tok)
		return
	}

	l.advance() // opening quote
	var sb strings.Builder
	for !l.atEnd() && l.peek() != '"' {
		r := l.advance()
		if r == '\\' && !l.atEnd() {
			sb.WriteRune(r)
			sb.WriteRune(l.advance())
			continue
		}
		sb.WriteRune(r)
	}
	if l.atEnd() {
		l.error(ast.CodeETokenize, start, "unterminated string literal")
	} else {
		l.advance() // closing quote
	}

	l.emit(token.STRING, sb.String(), start)
}

// scanWordLike scans an identifier, keyword literal (true/false/null),
// number, version, or the bareword forms of operators ("vs"), starting at
// an identifier-start or digit rune.
func (l *Lexer) scanWordLike() {
	start := l.here()
	startOffset := l.byteOffset()

	if unicodeDigit(l.peek()) || (l.peek() == '-' && unicodeDigit(l.peekAt(1))) {
		l.scanNumberOrVersion(start)
		return
	}

	var sb strings.Builder
	for !l.atEnd() && ast.IsIdentifierContinue(l.peek()) {
		sb.WriteRune(l.advance())
	}
	endOffset := l.byteOffset()
	word := sb.String()
	normalized := normalizeNFC(word)

	switch {
	case normalized == "true" || normalized == "false":
		l.emitTok(token.Token{Kind: token.BOOLEAN, Raw: word, Normalized: normalized, Pos: start, Span: token.Span{Start: start, End: l.here()}})
		return
	case strings.EqualFold(normalized, "true") || strings.EqualFold(normalized, "false"):
		l.warn(ast.CodeW001, start, fmt.Sprintf("boolean %q normalized to lowercase", word))
		l.emitTok(token.Token{Kind: token.BOOLEAN, Raw: word, Normalized: strings.ToLower(normalized), Pos: start, Span: token.Span{Start: start, End: l.here()}})
		return
	case normalized == "null":
		l.emitTok(token.Token{Kind: token.NULL, Raw: word, Normalized: normalized, Pos: start, Span: token.Span{Start: start, End: l.here()}})
		return
	case strings.EqualFold(normalized, "null"):
		l.warn(ast.CodeW001, start, fmt.Sprintf("null %q normalized to lowercase", word))
		l.emitTok(token.Token{Kind: token.NULL, Raw: word, Normalized: "null", Pos: start, Span: token.Span{Start: start, End: l.here()}})
		return
	case normalized == "vs":
		if isStandaloneWord(l.src, startOffset, endOffset) {
			l.warn(ast.CodeW002, start, "ASCII alias 'vs' normalized to ⇌")
			l.emitTok(token.Token{Kind: token.TENSION, Raw: word, Normalized: ast.GlyphTension, Pos: start, Span: token.Span{Start: start, End: l.here()}})
			return
		}
	}

	l.emitTok(token.Token{Kind: token.IDENT, Raw: word, Normalized: normalized, Pos: start, Span: token.Span{Start: start, End: l.here()}})
}

func (l *Lexer) scanNumberOrVersion(start token.Position) {
	var sb strings.Builder
	if l.peek() == '-' {
		sb.WriteRune(l.advance())
	}
	for !l.atEnd() && unicodeDigit(l.peek()) {
		sb.WriteRune(l.advance())
	}

	dotGroups := 0
	for l.peek() == '.' && unicodeDigit(l.peekAt(1)) {
		dotGroups++
		sb.WriteRune(l.advance())
		for !l.atEnd() && unicodeDigit(l.peek()) {
			sb.WriteRune(l.advance())
		}
		if dotGroups >= 2 {
			break
		}
	}

	if dotGroups == 2 {
		raw := sb.String()
		parts := strings.Split(raw, ".")
		maj, _ := strconv.Atoi(parts[0])
		min, _ := strconv.Atoi(parts[1])
		pat, _ := strconv.Atoi(parts[2])
		l.emitTok(token.Token{
			Kind: token.VERSION, Raw: raw, Pos: start, Span: token.Span{Start: start, End: l.here()},
			Payload: versionPayload{maj, min, pat},
		})
		return
	}

	if (l.peek() == 'e' || l.peek() == 'E') && (unicodeDigit(l.peekAt(1)) || ((l.peekAt(1) == '+' || l.peekAt(1) == '-') && unicodeDigit(l.peekAt(2)))) {
		sb.WriteRune(l.advance())
		if l.peek() == '+' || l.peek() == '-' {
			sb.WriteRune(l.advance())
		}
		for !l.atEnd() && unicodeDigit(l.peek()) {
			sb.WriteRune(l.advance())
		}
	}

	raw := sb.String()
	value, _ := strconv.ParseFloat(raw, 64)
	isInt := dotGroups == 0 && !strings.ContainsAny(raw, "eE")

	l.emitTok(token.Token{
		Kind: token.NUMBER, Raw: raw, Pos: start, Span: token.Span{Start: start, End: l.here()},
		Payload: numberPayload{value, isInt},
	})
}

type versionPayload struct{ Major, Minor, Patch int }
type numberPayload struct {
	Value float64
	IsInt bool
}
