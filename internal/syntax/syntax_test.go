package syntax

import "testing"

func atom(name string) *Atom { return &Atom{Name: name} }

func TestIsCallTo(t *testing.T) {
	tests := []struct {
		name   string
		node   Node
		module string
		fn     string
		want   bool
	}{
		{"unqualified import is Kernel", &Call{Name: "import"}, "Kernel", "import", true},
		{"qualified Kernel import", &Call{Qualifier: "Kernel", Name: "import"}, "Kernel", "import", true},
		{"other qualifier", &Call{Qualifier: "Foo", Name: "import"}, "Kernel", "import", false},
		{"other function", &Call{Name: "require"}, "Kernel", "import", false},
		{"non-call node", atom("import"), "Kernel", "import", false},
	}

	for _, tt := range tests {
		if got := IsCallTo(tt.node, tt.module, tt.fn); got != tt.want {
			t.Errorf("%s: IsCallTo = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestUnwrapStripsNestedGrouping(t *testing.T) {
	inner := atom("only")
	node := &Paren{Inner: &Paren{Inner: inner}}

	if got := Unwrap(node); got != inner {
		t.Fatalf("Unwrap = %#v, want inner atom", got)
	}
	if got := Unwrap(inner); got != inner {
		t.Fatalf("Unwrap of plain node should be identity")
	}
}

func TestListItems(t *testing.T) {
	list := &List{Items: []Node{atom("a"), atom("b")}}

	if got := ListItems(&Paren{Inner: list}); len(got) != 2 {
		t.Fatalf("ListItems through grouping = %d items, want 2", len(got))
	}
	if got := ListItems(atom("a")); got != nil {
		t.Fatalf("ListItems of non-list = %#v, want nil", got)
	}
	if got := ListItems(nil); got != nil {
		t.Fatalf("ListItems(nil) = %#v, want nil", got)
	}
}

func TestKeywordPairs(t *testing.T) {
	kw := &KeywordTail{Pairs: []Pair{
		{Key: atom("only"), Value: &List{}},
		{Key: atom("except"), Value: &List{}},
	}}

	pairs := KeywordPairs(kw)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if !KeyEquals(pairs[0], "only") || !KeyEquals(pairs[1], "except") {
		t.Fatalf("pairs out of source order: %#v", pairs)
	}

	// A list ending in a keyword tail is not itself keyword-list shaped.
	list := &List{Items: []Node{kw}}
	if got := KeywordPairs(list); got != nil {
		t.Fatalf("KeywordPairs of list = %#v, want nil", got)
	}
}

func TestKeyEqualsNonAtomKey(t *testing.T) {
	p := Pair{Key: &Int{Value: 1}, Value: atom("x")}
	if KeyEquals(p, "1") {
		t.Fatal("integer key must not compare equal to any name")
	}
}

func TestAtomValue(t *testing.T) {
	if v, ok := AtomValue(&Paren{Inner: atom("foo")}); !ok || v != "foo" {
		t.Fatalf("AtomValue = %q, %v", v, ok)
	}
	if _, ok := AtomValue(&Int{Value: 3}); ok {
		t.Fatal("AtomValue of int should fail")
	}
	if _, ok := AtomValue(nil); ok {
		t.Fatal("AtomValue of nil should fail")
	}
}

func TestIntValue(t *testing.T) {
	if v, ok := IntValue(&Int{Value: 42}); !ok || v != 42 {
		t.Fatalf("IntValue = %d, %v", v, ok)
	}
	if _, ok := IntValue(&Int{Overflow: true}); ok {
		t.Fatal("overflowed literal must not evaluate")
	}
	if !IsIntLiteral(&Int{Overflow: true}) {
		t.Fatal("overflowed literal is still an integer literal")
	}
	if IsIntLiteral(atom("x")) {
		t.Fatal("atom is not an integer literal")
	}
}
