package resolver

import (
	"math"

	"inscope/internal/syntax"
)

// Clause arities are 32-bit in the host representation regardless of the
// platform int width.
const maxArity = math.MaxInt32

// AritySet is the set of arities declared for one name in an only/except
// list.
type AritySet map[int]bool

// decodeName evaluates a keyword key to its name.
func decodeName(node syntax.Node) (string, bool) {
	return syntax.AtomValue(node)
}

// decodeArity evaluates an integer literal to an arity. Integer literals
// outside the representable range are reported and dropped; non-integer
// values fail silently.
func (r *Resolver) decodeArity(node syntax.Node) (int, bool) {
	v, ok := syntax.IntValue(node)
	if !ok {
		if syntax.IsIntLiteral(node) {
			r.sink.InternalError("arity literal out of range", node)
		}
		return 0, false
	}
	if v < 0 || v > maxArity {
		r.sink.InternalError("arity literal out of range", node)
		return 0, false
	}
	return int(v), true
}

// ReadArityMap reads a `[name: arity]` / `[name: [arities...]]` list into a
// name -> arity-set mapping. Repeated keys accumulate. Anything that is not
// list-shaped yields an empty map, and pairs whose name or arity cannot be
// decoded are skipped.
func (r *Resolver) ReadArityMap(node syntax.Node) map[string]AritySet {
	out := make(map[string]AritySet)
	if node == nil {
		return out
	}

	items := syntax.ListItems(node)
	if len(items) == 0 {
		return out
	}

	// Only the trailing keyword segment of the list carries pairs; leading
	// positional items are not arity specifications.
	for _, pair := range syntax.KeywordPairs(items[len(items)-1]) {
		name, ok := decodeName(pair.Key)
		if !ok {
			continue
		}

		value := syntax.Unwrap(pair.Value)
		if _, isList := value.(*syntax.List); isList {
			for _, item := range syntax.ListItems(value) {
				if arity, ok := r.decodeArity(item); ok {
					r.accumulate(out, name, arity)
				}
			}
			continue
		}

		if arity, ok := r.decodeArity(value); ok {
			r.accumulate(out, name, arity)
		}
	}
	return out
}

func (r *Resolver) accumulate(m map[string]AritySet, name string, arity int) {
	set, ok := m[name]
	if !ok {
		set = make(AritySet)
		m[name] = set
	}
	set[arity] = true
}
