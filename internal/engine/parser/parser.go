package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"inscope/internal/shared/observability"
	"inscope/internal/syntax"
)

// ContainerKind distinguishes the definition forms an import target can
// resolve to.
type ContainerKind string

const (
	KindModule   ContainerKind = "module"
	KindProtocol ContainerKind = "protocol"
	KindImpl     ContainerKind = "impl"
)

// Clause is one call-definition head of a container, with the inclusive
// arity range its default-valued parameters allow.
type Clause struct {
	Name     string
	MinArity int
	MaxArity int
	Macro    bool
	Private  bool
	Pos      syntax.Location
}

// Signature returns the clause's (name, arity range) when available.
// Heads still being edited may have no decodable signature.
func (c Clause) Signature() (string, int, int, bool) {
	if c.Name == "" || c.MinArity < 0 || c.MaxArity < c.MinArity {
		return "", 0, 0, false
	}
	return c.Name, c.MinArity, c.MaxArity, true
}

// AliasDecl binds a short name to a dotted target path within a container.
type AliasDecl struct {
	Name   string
	Target []string
	Pos    syntax.Location
}

// Container is a module, protocol, or protocol implementation definition.
type Container struct {
	Kind    ContainerKind
	Name    string
	Aliases []AliasDecl
	Clauses []Clause
	Pos     syntax.Location
}

// Directive is an import call together with the lexical scope it occurs in.
type Directive struct {
	Call  *syntax.Call
	Scope string
}

// ParseError is a positional, non-fatal reader error.
type ParseError struct {
	Loc syntax.Location
	Msg string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Loc.File, e.Loc.Line, e.Loc.Column, e.Msg)
}

// File is the parse result for one source file.
type File struct {
	Path       string
	Containers []Container
	Directives []Directive
	Errors     []ParseError
}

type parser struct {
	src  string
	path string
	toks []token
	i    int
	file *File
}

// Parse reads one source file into containers, clauses, aliases and import
// directives. It never fails outright; malformed regions produce positional
// errors and are skipped.
func Parse(path string, content []byte) *File {
	start := time.Now()
	defer func() {
		observability.ParseDuration.Observe(time.Since(start).Seconds())
	}()

	src := string(content)
	lx := newLexer(src)
	var toks []token
	for {
		t := lx.next()
		toks = append(toks, t)
		if t.kind == tokEOF {
			break
		}
	}

	p := &parser{src: src, path: path, toks: toks, file: &File{Path: path}}
	p.parseTopLevel()
	return p.file
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) at(n int) token {
	if p.i+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+n]
}

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) loc(t token) syntax.Location {
	return syntax.Location{File: p.path, Line: t.line, Column: t.col}
}

func (p *parser) span(from, to token) syntax.Span {
	end := to.end
	if end > len(p.src) {
		end = len(p.src)
	}
	return syntax.Span{Loc: p.loc(from), Source: p.src[from.offset:end]}
}

func (p *parser) errorf(t token, format string, args ...interface{}) {
	p.file.Errors = append(p.file.Errors, ParseError{Loc: p.loc(t), Msg: fmt.Sprintf(format, args...)})
}

func isIdent(t token, name string) bool {
	return t.kind == tokIdent && t.lexeme == name
}

func (p *parser) parseTopLevel() {
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			return
		case isIdent(t, "defmodule"):
			p.parseContainer("", KindModule)
		case isIdent(t, "defprotocol"):
			p.parseContainer("", KindProtocol)
		case isIdent(t, "defimpl"):
			p.parseContainer("", KindImpl)
		case isIdent(t, "import"):
			p.parseImport("")
		case isIdent(t, "do") || isIdent(t, "fn"):
			p.next()
			p.skipBlock()
		default:
			p.next()
		}
	}
}

// skipBlock consumes tokens until the do/fn block that just opened closes.
func (p *parser) skipBlock() {
	depth := 1
	for depth > 0 {
		t := p.next()
		switch {
		case t.kind == tokEOF:
			return
		case isIdent(t, "do") || isIdent(t, "fn"):
			depth++
		case isIdent(t, "end"):
			depth--
		}
	}
}

func (p *parser) parseContainer(scope string, kind ContainerKind) {
	kw := p.next()

	pathParts, ok := p.parseAliasPath()
	if !ok {
		p.errorf(kw, "%s without a module name", kw.lexeme)
		return
	}
	name := strings.Join(pathParts, ".")

	if kind == KindImpl {
		// defimpl Proto, for: Type names the container Proto.Type.
		if p.peek().kind == tokComma && p.at(1).kind == tokKeywordKey && strings.TrimSuffix(p.at(1).lexeme, ":") == "for" {
			p.next()
			p.next()
			forParts, ok := p.parseAliasPath()
			if !ok {
				p.errorf(kw, "defimpl for: without a type")
				return
			}
			name = name + "." + strings.Join(forParts, ".")
		}
	}

	if scope != "" {
		name = scope + "." + name
	}

	if !isIdent(p.peek(), "do") {
		p.errorf(p.peek(), "expected do after %s %s", kw.lexeme, name)
		return
	}
	p.next()

	p.file.Containers = append(p.file.Containers, Container{
		Kind: kind,
		Name: name,
		Pos:  p.loc(kw),
	})
	p.parseContainerBody(len(p.file.Containers)-1, name)
}

func (p *parser) parseContainerBody(container int, scope string) {
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			return
		case isIdent(t, "end"):
			p.next()
			return
		case isIdent(t, "defmodule"):
			p.parseContainer(scope, KindModule)
		case isIdent(t, "defprotocol"):
			p.parseContainer(scope, KindProtocol)
		case isIdent(t, "defimpl"):
			p.parseContainer(scope, KindImpl)
		case isIdent(t, "def") || isIdent(t, "defp") || isIdent(t, "defmacro") || isIdent(t, "defmacrop"):
			cl := p.parseClauseHead()
			p.file.Containers[container].Clauses = append(p.file.Containers[container].Clauses, cl)
		case isIdent(t, "alias"):
			if al, ok := p.parseAliasDecl(); ok {
				p.file.Containers[container].Aliases = append(p.file.Containers[container].Aliases, al)
			}
		case isIdent(t, "import"):
			p.parseImport(scope)
		case isIdent(t, "do") || isIdent(t, "fn"):
			p.next()
			p.skipBlock()
		default:
			p.next()
		}
	}
}

func (p *parser) parseClauseHead() Clause {
	kw := p.next()
	macro := strings.HasPrefix(kw.lexeme, "defmacro")
	private := kw.lexeme == "defp" || kw.lexeme == "defmacrop"

	nameTok := p.peek()
	if nameTok.kind != tokIdent || nameTok.lexeme == "end" || nameTok.lexeme == "do" {
		// Head under edit, or a dynamic name; signature unavailable.
		p.errorf(nameTok, "%s without a clause name", kw.lexeme)
		return Clause{MinArity: -1, Macro: macro, Private: private, Pos: p.loc(kw)}
	}
	p.next()

	total, optional := 0, 0
	if p.peek().kind == tokLParen {
		p.next()
		total, optional = p.scanParams()
	}

	return Clause{
		Name:     nameTok.lexeme,
		MinArity: total - optional,
		MaxArity: total,
		Macro:    macro,
		Private:  private,
		Pos:      p.loc(kw),
	}
}

// scanParams counts parameters and how many carry a default, consuming up
// to and including the closing parenthesis.
func (p *parser) scanParams() (total, optional int) {
	depth := 1
	sawAny := false
	hasDefault := false
	for {
		t := p.next()
		switch t.kind {
		case tokEOF:
			return total, optional
		case tokLParen, tokLBracket:
			depth++
			sawAny = true
		case tokRParen, tokRBracket:
			depth--
			if depth == 0 {
				if sawAny {
					total++
					if hasDefault {
						optional++
					}
				}
				return total, optional
			}
		case tokComma:
			if depth == 1 {
				total++
				if hasDefault {
					optional++
				}
				hasDefault = false
				sawAny = false
			} else {
				sawAny = true
			}
		case tokDefault:
			if depth == 1 {
				hasDefault = true
			}
			sawAny = true
		default:
			sawAny = true
		}
	}
}

func (p *parser) parseAliasDecl() (AliasDecl, bool) {
	kw := p.next()
	target, ok := p.parseAliasPath()
	if !ok {
		p.errorf(kw, "alias without a target")
		return AliasDecl{}, false
	}

	name := target[len(target)-1]
	if p.peek().kind == tokComma && p.at(1).kind == tokKeywordKey && strings.TrimSuffix(p.at(1).lexeme, ":") == "as" {
		p.next()
		p.next()
		asParts, ok := p.parseAliasPath()
		if !ok || len(asParts) != 1 {
			p.errorf(kw, "alias as: expects a single name")
			return AliasDecl{}, false
		}
		name = asParts[0]
	}

	return AliasDecl{Name: name, Target: target, Pos: p.loc(kw)}, true
}

func (p *parser) parseAliasPath() ([]string, bool) {
	if p.peek().kind != tokUpperIdent {
		return nil, false
	}
	parts := []string{p.next().lexeme}
	for p.peek().kind == tokDot && p.at(1).kind == tokUpperIdent {
		p.next()
		parts = append(parts, p.next().lexeme)
	}
	return parts, true
}

func (p *parser) parseImport(scope string) {
	nameTok := p.next()
	args, last := p.parseArgs(nameTok)
	call := &syntax.Call{
		Span: p.span(nameTok, last),
		Name: nameTok.lexeme,
		Args: args,
	}
	p.file.Directives = append(p.file.Directives, Directive{Call: call, Scope: scope})
}

func (p *parser) parseArgs(callTok token) ([]syntax.Node, token) {
	last := callTok
	parens := false
	if p.peek().kind == tokLParen {
		parens = true
		p.next()
	}

	var args []syntax.Node
	for {
		t := p.peek()
		if t.kind == tokEOF {
			return args, last
		}
		if parens && t.kind == tokRParen {
			return args, p.next()
		}
		if t.kind == tokKeywordKey {
			kwNode, end := p.parseKeywordTail()
			args = append(args, kwNode)
			if parens && p.peek().kind == tokRParen {
				return args, p.next()
			}
			return args, end
		}

		node, end := p.parseExpr()
		if node == nil {
			return args, last
		}
		args = append(args, node)
		last = end

		if p.peek().kind == tokComma {
			p.next()
			continue
		}
		if parens && p.peek().kind == tokRParen {
			return args, p.next()
		}
		return args, last
	}
}

// parseKeywordTail reads key: value pairs in source order until the tail
// ends. Duplicate and contradictory keys are kept exactly as written.
func (p *parser) parseKeywordTail() (syntax.Node, token) {
	first := p.peek()
	kw := &syntax.KeywordTail{}
	last := first
	for p.peek().kind == tokKeywordKey {
		keyTok := p.next()
		key := &syntax.Atom{
			Span: p.span(keyTok, keyTok),
			Name: strings.TrimSuffix(keyTok.lexeme, ":"),
		}
		val, end := p.parseExpr()
		if val == nil {
			break
		}
		kw.Pairs = append(kw.Pairs, syntax.Pair{Key: key, Value: val})
		last = end
		if p.peek().kind == tokComma && p.at(1).kind == tokKeywordKey {
			p.next()
			continue
		}
		break
	}
	kw.Span = p.span(first, last)
	return kw, last
}

// parseExpr reads a single literal-level expression: alias paths, atoms,
// integers, lists, groups, bare identifiers. Unknown tokens are consumed as
// opaque identifiers so the reader keeps moving over edited source.
func (p *parser) parseExpr() (syntax.Node, token) {
	t := p.peek()
	switch t.kind {
	case tokUpperIdent:
		first := t
		parts, _ := p.parseAliasPath()
		last := p.toks[p.i-1]
		return &syntax.AliasExpr{Span: p.span(first, last), Parts: parts}, last
	case tokAtom:
		p.next()
		return &syntax.Atom{Span: p.span(t, t), Name: strings.TrimPrefix(t.lexeme, ":")}, t
	case tokInt:
		p.next()
		digits := strings.ReplaceAll(t.lexeme, "_", "")
		v, err := strconv.ParseInt(digits, 10, 64)
		return &syntax.Int{Span: p.span(t, t), Value: v, Overflow: err != nil}, t
	case tokLBracket:
		return p.parseList()
	case tokLParen:
		open := p.next()
		inner, _ := p.parseExpr()
		closeTok := open
		if p.peek().kind == tokRParen {
			closeTok = p.next()
		}
		return &syntax.Paren{Span: p.span(open, closeTok), Inner: inner}, closeTok
	case tokIdent:
		p.next()
		return &syntax.Ident{Span: p.span(t, t), Name: t.lexeme}, t
	case tokEOF, tokRParen, tokRBracket, tokComma:
		return nil, t
	default:
		p.next()
		return &syntax.Ident{Span: p.span(t, t), Name: t.lexeme}, t
	}
}

func (p *parser) parseList() (syntax.Node, token) {
	open := p.next()
	list := &syntax.List{}
	for {
		t := p.peek()
		switch {
		case t.kind == tokEOF:
			list.Span = p.span(open, t)
			return list, t
		case t.kind == tokRBracket:
			end := p.next()
			list.Span = p.span(open, end)
			return list, end
		case t.kind == tokKeywordKey:
			kwNode, _ := p.parseKeywordTail()
			list.Items = append(list.Items, kwNode)
			if p.peek().kind == tokRBracket {
				end := p.next()
				list.Span = p.span(open, end)
				return list, end
			}
			// Tolerate trailing junk inside an edited list.
			p.next()
		default:
			node, _ := p.parseExpr()
			if node == nil {
				p.next()
				continue
			}
			list.Items = append(list.Items, node)
			if p.peek().kind == tokComma {
				p.next()
			}
		}
	}
}
