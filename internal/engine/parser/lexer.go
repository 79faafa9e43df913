package parser

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokUpperIdent
	tokAtom
	tokKeywordKey // name followed by ": " in keyword position
	tokInt
	tokString
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
	tokDot
	tokDefault // the \\ default-argument separator
	tokOp      // any other operator run, kept opaque
)

type token struct {
	kind   tokenKind
	lexeme string
	line   int
	col    int
	offset int
	end    int
}

type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		c := l.peekByte()
		switch {
		case c == '#':
			for l.pos < len(l.src) && l.peekByte() != '\n' {
				l.advance()
			}
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || unicode.IsLower(rune(c))
}

func isIdentPart(c byte) bool {
	return c == '_' || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c))
}

// next returns the next token. Identifier tokens immediately followed by a
// colon are emitted as keyword keys; that is a lexical property in this
// source format, not a parser decision.
func (l *lexer) next() token {
	l.skipSpaceAndComments()
	start := l.pos
	line, col := l.line, l.col
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, line: line, col: col, offset: start, end: start}
	}

	mk := func(kind tokenKind) token {
		return token{kind: kind, lexeme: l.src[start:l.pos], line: line, col: col, offset: start, end: l.pos}
	}

	c := l.peekByte()
	switch {
	case c == '(':
		l.advance()
		return mk(tokLParen)
	case c == ')':
		l.advance()
		return mk(tokRParen)
	case c == '[':
		l.advance()
		return mk(tokLBracket)
	case c == ']':
		l.advance()
		return mk(tokRBracket)
	case c == ',':
		l.advance()
		return mk(tokComma)
	case c == '.':
		l.advance()
		return mk(tokDot)
	case c == '\\' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '\\':
		l.advance()
		l.advance()
		return mk(tokDefault)
	case c == '"':
		l.advance()
		for l.pos < len(l.src) && l.peekByte() != '"' {
			if l.peekByte() == '\\' && l.pos+1 < len(l.src) {
				l.advance()
			}
			l.advance()
		}
		if l.pos < len(l.src) {
			l.advance()
		}
		return mk(tokString)
	case c == ':' && l.pos+1 < len(l.src) && isIdentPart(l.src[l.pos+1]):
		l.advance()
		for l.pos < len(l.src) && (isIdentPart(l.peekByte()) || l.peekByte() == '?' || l.peekByte() == '!') {
			l.advance()
		}
		return mk(tokAtom)
	case unicode.IsDigit(rune(c)):
		for l.pos < len(l.src) && (unicode.IsDigit(rune(l.peekByte())) || l.peekByte() == '_') {
			l.advance()
		}
		return mk(tokInt)
	case unicode.IsUpper(rune(c)):
		for l.pos < len(l.src) && isIdentPart(l.peekByte()) {
			l.advance()
		}
		return mk(tokUpperIdent)
	case isIdentStart(c):
		for l.pos < len(l.src) && isIdentPart(l.peekByte()) {
			l.advance()
		}
		for l.pos < len(l.src) && (l.peekByte() == '?' || l.peekByte() == '!') {
			l.advance()
		}
		if l.peekByte() == ':' && !strings.HasPrefix(l.src[l.pos:], "::") {
			l.advance()
			return mk(tokKeywordKey)
		}
		return mk(tokIdent)
	default:
		for l.pos < len(l.src) && strings.IndexByte("+-*/<>=|&!^~@%", l.peekByte()) >= 0 {
			l.advance()
		}
		if l.pos == start {
			l.advance()
		}
		return mk(tokOp)
	}
}
