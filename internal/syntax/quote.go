package syntax

// AtomValue evaluates node to its atom text when it is statically an atom
// literal.
func AtomValue(node Node) (string, bool) {
	if node == nil {
		return "", false
	}
	atom, ok := Unwrap(node).(*Atom)
	if !ok || atom == nil {
		return "", false
	}
	return atom.Name, true
}

// IntValue evaluates node to its integer value when it is statically an
// integer literal that fits the native width. Overflowing literals fail
// here; use IsIntLiteral to tell them apart from non-integers.
func IntValue(node Node) (int64, bool) {
	i, ok := intLiteral(node)
	if !ok || i.Overflow {
		return 0, false
	}
	return i.Value, true
}

// IsIntLiteral reports whether node is an integer literal at all, overflowed
// or not.
func IsIntLiteral(node Node) bool {
	_, ok := intLiteral(node)
	return ok
}

func intLiteral(node Node) (*Int, bool) {
	if node == nil {
		return nil, false
	}
	i, ok := Unwrap(node).(*Int)
	if !ok || i == nil {
		return nil, false
	}
	return i, true
}
