package resolver

import (
	"reflect"
	"testing"

	"inscope/internal/engine/index"
	"inscope/internal/syntax"
)

type recordingSink struct {
	labels []string
}

func (s *recordingSink) InternalError(label string, _ syntax.Node) {
	s.labels = append(s.labels, label)
}

func TestReadArityMapSingleAndListValues(t *testing.T) {
	r := newTestResolver()
	got := r.ReadArityMap(kwList(
		pair("foo", intNode(1)),
		pair("bar", &syntax.List{Items: []syntax.Node{intNode(2), intNode(3)}}),
	))

	want := map[string]AritySet{
		"foo": {1: true},
		"bar": {2: true, 3: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadArityMap = %v, want %v", got, want)
	}
}

func TestReadArityMapRepeatedKeysAccumulate(t *testing.T) {
	r := newTestResolver()
	got := r.ReadArityMap(kwList(
		pair("f", intNode(1)),
		pair("f", intNode(2)),
	))

	if !reflect.DeepEqual(got["f"], AritySet{1: true, 2: true}) {
		t.Errorf("repeated keys must union arities, got %v", got["f"])
	}

	reversed := r.ReadArityMap(kwList(
		pair("f", intNode(2)),
		pair("f", intNode(1)),
	))
	if !reflect.DeepEqual(got, reversed) {
		t.Errorf("key order changed the result: %v vs %v", got, reversed)
	}
}

func TestReadArityMapDropsOutOfRangeArities(t *testing.T) {
	sink := &recordingSink{}
	r := New(index.New(), 0, sink)

	got := r.ReadArityMap(kwList(
		pair("ok", intNode(1)),
		pair("huge", intNode(1<<40)),
		pair("neg", intNode(-1)),
		pair("wide", &syntax.Int{Overflow: true}),
	))

	want := map[string]AritySet{"ok": {1: true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("out-of-range arities must be dropped, got %v", got)
	}
	if len(sink.labels) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d (%v)", len(sink.labels), sink.labels)
	}
	for _, label := range sink.labels {
		if label != "arity literal out of range" {
			t.Errorf("unexpected diagnostic label %q", label)
		}
	}
}

func TestReadArityMapSkipsNonIntegerValuesSilently(t *testing.T) {
	sink := &recordingSink{}
	r := New(index.New(), 0, sink)

	got := r.ReadArityMap(kwList(
		pair("a", atomNode("not_an_arity")),
		pair("b", intNode(2)),
	))

	if !reflect.DeepEqual(got, map[string]AritySet{"b": {2: true}}) {
		t.Errorf("non-integer values must be skipped, got %v", got)
	}
	if len(sink.labels) != 0 {
		t.Errorf("non-integer values must not be reported, got %v", sink.labels)
	}
}

func TestReadArityMapIgnoresLeadingPositionalItems(t *testing.T) {
	r := newTestResolver()
	node := &syntax.List{Items: []syntax.Node{
		atomNode("stray"),
		&syntax.KeywordTail{Pairs: []syntax.Pair{pair("f", intNode(0))}},
	}}

	got := r.ReadArityMap(node)
	if !reflect.DeepEqual(got, map[string]AritySet{"f": {0: true}}) {
		t.Errorf("only the trailing keyword segment carries pairs, got %v", got)
	}
}

func TestReadArityMapNonListShapes(t *testing.T) {
	r := newTestResolver()
	for _, node := range []syntax.Node{nil, atomNode("only"), intNode(1)} {
		if got := r.ReadArityMap(node); len(got) != 0 {
			t.Errorf("ReadArityMap(%#v) = %v, want empty", node, got)
		}
	}
}
