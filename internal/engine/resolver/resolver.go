// Package resolver answers, for one import directive, which callable
// clauses of the target container the directive brings into scope.
package resolver

import (
	"errors"
	"strings"

	"inscope/internal/diag"
	"inscope/internal/engine/index"
	"inscope/internal/engine/parser"
	"inscope/internal/shared/observability"
	"inscope/internal/syntax"
)

// DefaultMaxAliasDepth bounds recursive alias expansion. Real alias chains
// are short; the bound exists so cyclic or self-referential aliases fail
// deterministically instead of faulting the stack.
const DefaultMaxAliasDepth = 64

var errDepthExceeded = errors.New("alias resolution depth exceeded")

type Resolver struct {
	idx      *index.Index
	maxDepth int
	sink     diag.Sink
}

func New(idx *index.Index, maxDepth int, sink diag.Sink) *Resolver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxAliasDepth
	}
	if sink == nil {
		sink = diag.Discard
	}
	return &Resolver{idx: idx, maxDepth: maxDepth, sink: sink}
}

// ResolveTarget resolves the directive's first argument to a concrete
// container. A dangling alias is the common case (external or compiled-only
// modules) and yields a silent not-found; only a chain that exhausts the
// depth limit is reported.
func (r *Resolver) ResolveTarget(d parser.Directive) (*index.Container, bool) {
	if d.Call == nil {
		return nil, false
	}
	args := d.Call.FinalArguments()
	if len(args) == 0 {
		return nil, false
	}
	alias, ok := syntax.Unwrap(args[0]).(*syntax.AliasExpr)
	if !ok || len(alias.Parts) == 0 {
		return nil, false
	}

	target, err := r.resolve(d.Scope, alias.Parts, 0)
	if err != nil {
		observability.AliasDepthExceededTotal.Inc()
		r.sink.InternalError("alias resolution depth limit", d.Call)
		return nil, false
	}
	return target, target != nil
}

// resolve expands the leading path segment through alias bindings until it
// no longer names an alias, then looks the full dotted name up.
func (r *Resolver) resolve(scope string, parts []string, depth int) (*index.Container, error) {
	if depth > r.maxDepth {
		return nil, errDepthExceeded
	}
	if len(parts) == 0 {
		return nil, nil
	}

	if target, ok := r.idx.AliasTarget(scope, parts[0]); ok {
		expanded := append(append([]string(nil), target...), parts[1:]...)
		return r.resolve(scope, expanded, depth+1)
	}

	c, ok := r.idx.Lookup(strings.Join(parts, "."))
	if !ok {
		return nil, nil
	}
	return c, nil
}
