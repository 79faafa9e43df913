package syntax

// KeywordPairs returns the key/value pairs of node in source order when node
// is keyword-list shaped, after unwrapping grouping. Anything else yields
// nil, including lists that merely end in a keyword tail.
func KeywordPairs(node Node) []Pair {
	if node == nil {
		return nil
	}
	kw, ok := Unwrap(node).(*KeywordTail)
	if !ok {
		return nil
	}
	return kw.Pairs
}

// KeyEquals reports whether the pair's key is an atom whose text equals name.
// Comparison is literal; no normalization is applied.
func KeyEquals(p Pair, name string) bool {
	atom, ok := p.Key.(*Atom)
	if !ok || atom == nil {
		return false
	}
	return atom.Name == name
}
