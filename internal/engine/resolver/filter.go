package resolver

import (
	"inscope/internal/engine/parser"
	"inscope/internal/syntax"
)

// ClauseFilter is a pure predicate over candidate clauses. Filters are
// built once per directive evaluation and hold no shared mutable state.
type ClauseFilter func(parser.Clause) bool

// PassAll accepts every candidate clause.
func PassAll(parser.Clause) bool { return true }

// BuildOnlyFilter builds the inclusion predicate for an `only:` value. A
// candidate passes when any declared arity for its name falls inside the
// candidate's own inclusive arity range. Clauses without a decodable
// signature never pass.
func (r *Resolver) BuildOnlyFilter(names syntax.Node) ClauseFilter {
	arities := r.ReadArityMap(names)
	return func(cl parser.Clause) bool {
		name, minArity, maxArity, ok := cl.Signature()
		if !ok {
			return false
		}
		set, ok := arities[name]
		if !ok {
			return false
		}
		for arity := range set {
			if arity >= minArity && arity <= maxArity {
				return true
			}
		}
		return false
	}
}

// BuildExceptFilter is the exact negation of BuildOnlyFilter over the same
// input.
func (r *Resolver) BuildExceptFilter(names syntax.Node) ClauseFilter {
	only := r.BuildOnlyFilter(names)
	return func(cl parser.Clause) bool {
		return !only(cl)
	}
}

// BuildOptionsFilter folds over the option pairs in source order, replacing
// the running filter on each only/except key. Listing both is invalid in
// the source language, but edits pass through such states; the later key
// wins. Unrecognized keys leave the filter untouched.
func (r *Resolver) BuildOptionsFilter(options syntax.Node) ClauseFilter {
	filter := ClauseFilter(PassAll)
	for _, pair := range syntax.KeywordPairs(options) {
		switch {
		case syntax.KeyEquals(pair, "except"):
			filter = r.BuildExceptFilter(pair.Value)
		case syntax.KeyEquals(pair, "only"):
			filter = r.BuildOnlyFilter(pair.Value)
		}
	}
	return filter
}

// BuildDirectiveFilter derives the clause filter for a whole directive:
// without an options argument every clause passes.
func (r *Resolver) BuildDirectiveFilter(d parser.Directive) ClauseFilter {
	if d.Call == nil {
		return PassAll
	}
	args := d.Call.FinalArguments()
	if len(args) < 2 {
		return PassAll
	}
	return r.BuildOptionsFilter(args[1])
}
