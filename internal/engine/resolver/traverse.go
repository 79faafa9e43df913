package resolver

import "inscope/internal/engine/parser"

// ForEachImportedClause resolves the directive's target and walks its
// exposed clauses in definition order, consulting the directive's filter
// before each visit. The walk stops the first time visit returns false.
// An unresolvable target visits nothing; that is not an error.
func (r *Resolver) ForEachImportedClause(d parser.Directive, visit func(parser.Clause) bool) {
	target, ok := r.ResolveTarget(d)
	if !ok {
		return
	}

	filter := r.BuildDirectiveFilter(d)
	target.EachClause(func(cl parser.Clause) bool {
		if !filter(cl) {
			// Rejected clauses neither visit nor stop the walk.
			return true
		}
		return visit(cl)
	})
}

// ImportedClauses collects the visited clauses of a directive. Convenience
// for reporting; the callback form above is the primitive.
func (r *Resolver) ImportedClauses(d parser.Directive) []parser.Clause {
	var out []parser.Clause
	r.ForEachImportedClause(d, func(cl parser.Clause) bool {
		out = append(out, cl)
		return true
	})
	return out
}
