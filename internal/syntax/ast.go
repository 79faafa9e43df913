package syntax

import "strings"

// Location is a 1-based position inside a source file.
type Location struct {
	File   string
	Line   int
	Column int
}

// Span ties a node back to the source text it was read from.
type Span struct {
	Loc    Location
	Source string
}

func (s Span) Pos() Location { return s.Loc }
func (s Span) Text() string  { return s.Source }

// Node is any piece of parsed source. Nodes are immutable after parsing;
// consumers borrow them and never mutate.
type Node interface {
	Pos() Location
	Text() string
}

// Atom is a literal atom such as :only or the bare key of a keyword pair.
type Atom struct {
	Span
	Name string
}

// Int is an integer literal. Overflow marks literals that do not fit the
// widest native integer; their textual form is still available via Text.
type Int struct {
	Span
	Value    int64
	Overflow bool
}

// Ident is a bare lowercase identifier in expression position.
type Ident struct {
	Span
	Name string
}

// AliasExpr is a dotted constant path such as Foo.Bar.
type AliasExpr struct {
	Span
	Parts []string
}

func (a *AliasExpr) Join() string { return strings.Join(a.Parts, ".") }

// List is a bracketed list. By source convention a trailing keyword segment
// is parsed into a single KeywordTail as the last item.
type List struct {
	Span
	Items []Node
}

// KeywordTail is the ordered keyword segment of a list or argument tail.
type KeywordTail struct {
	Span
	Pairs []Pair
}

// Pair is one key/value entry of a keyword segment. Key is an Atom for
// well-formed input but may be any node while a file is being edited.
type Pair struct {
	Key   Node
	Value Node
}

// Paren wraps a parenthesized or otherwise grouped expression.
type Paren struct {
	Span
	Inner Node
}

// Call is a function or macro call. Qualifier is the textual callee module
// ("" for unqualified calls, which resolve against Kernel). Args are the
// final arguments with any argument-list grouping already flattened.
type Call struct {
	Span
	Qualifier string
	Name      string
	Args      []Node
	HasBlock  bool
}

// FinalArguments returns the call's resolved final argument list.
func (c *Call) FinalArguments() []Node {
	if c == nil {
		return nil
	}
	return c.Args
}

// IsCallTo reports whether node is a call to the given originating module
// and function. Unqualified calls belong to Kernel.
func IsCallTo(node Node, module, name string) bool {
	call, ok := node.(*Call)
	if !ok || call == nil {
		return false
	}
	if call.Name != name {
		return false
	}
	if call.Qualifier == "" {
		return module == "Kernel"
	}
	return call.Qualifier == module
}

// Unwrap strips grouping wrappers until a non-wrapper node remains.
func Unwrap(node Node) Node {
	for {
		p, ok := node.(*Paren)
		if !ok || p.Inner == nil {
			return node
		}
		node = p.Inner
	}
}

// ListItems returns the children of node when it is list-shaped, after
// unwrapping grouping. Non-list nodes yield nil.
func ListItems(node Node) []Node {
	if node == nil {
		return nil
	}
	l, ok := Unwrap(node).(*List)
	if !ok {
		return nil
	}
	return l.Items
}
