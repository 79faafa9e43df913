package resolver

import (
	"testing"

	"inscope/internal/engine/index"
	"inscope/internal/engine/parser"
)

func parseInto(t *testing.T, ix *index.Index, path, src string) *parser.File {
	t.Helper()
	f := parser.Parse(path, []byte(src))
	if len(f.Errors) > 0 {
		t.Fatalf("parse %s: %v", path, f.Errors[0])
	}
	ix.AddFile(f)
	return f
}

func firstDirective(t *testing.T, f *parser.File) parser.Directive {
	t.Helper()
	if len(f.Directives) == 0 {
		t.Fatalf("no directives in %s", f.Path)
	}
	return f.Directives[0]
}

func TestResolveTargetDirect(t *testing.T) {
	ix := index.New()
	parseInto(t, ix, "lib/foo.ex", `
defmodule Foo do
  def f(x), do: x
end
`)
	f := parseInto(t, ix, "lib/client.ex", `
defmodule Client do
  import Foo
end
`)

	r := New(ix, 0, nil)
	target, ok := r.ResolveTarget(firstDirective(t, f))
	if !ok || target.Name != "Foo" {
		t.Fatalf("ResolveTarget = %v, %v; want Foo", target, ok)
	}
}

func TestResolveTargetThroughAlias(t *testing.T) {
	ix := index.New()
	parseInto(t, ix, "lib/a_b.ex", `
defmodule A.B do
  def f(x), do: x
end
`)
	f := parseInto(t, ix, "lib/client.ex", `
defmodule Client do
  alias A.B
  import B
end
`)

	r := New(ix, 0, nil)
	target, ok := r.ResolveTarget(firstDirective(t, f))
	if !ok || target.Name != "A.B" {
		t.Fatalf("ResolveTarget = %v, %v; want A.B", target, ok)
	}
}

func TestResolveTargetAliasAs(t *testing.T) {
	ix := index.New()
	parseInto(t, ix, "lib/a_b.ex", `
defmodule A.B do
  def f(x), do: x
end
`)
	f := parseInto(t, ix, "lib/client.ex", `
defmodule Client do
  alias A.B, as: X
  import X
end
`)

	r := New(ix, 0, nil)
	target, ok := r.ResolveTarget(firstDirective(t, f))
	if !ok || target.Name != "A.B" {
		t.Fatalf("ResolveTarget = %v, %v; want A.B", target, ok)
	}
}

func TestResolveTargetAliasChain(t *testing.T) {
	ix := index.New()
	parseInto(t, ix, "lib/a_b_c.ex", `
defmodule A.B.C do
  def g, do: :ok
end
`)
	f := parseInto(t, ix, "lib/client.ex", `
defmodule Client do
  alias A.B
  alias B.C
  import C
end
`)

	r := New(ix, 0, nil)
	target, ok := r.ResolveTarget(firstDirective(t, f))
	if !ok || target.Name != "A.B.C" {
		t.Fatalf("ResolveTarget = %v, %v; want A.B.C", target, ok)
	}
}

func TestResolveTargetAliasWithSuffix(t *testing.T) {
	ix := index.New()
	parseInto(t, ix, "lib/a_b_c.ex", `
defmodule A.B.C do
  def g, do: :ok
end
`)
	f := parseInto(t, ix, "lib/client.ex", `
defmodule Client do
  alias A.B
  import B.C
end
`)

	r := New(ix, 0, nil)
	target, ok := r.ResolveTarget(firstDirective(t, f))
	if !ok || target.Name != "A.B.C" {
		t.Fatalf("ResolveTarget = %v, %v; want A.B.C", target, ok)
	}
}

func TestResolveTargetNestedScopeSeesOuterAliases(t *testing.T) {
	ix := index.New()
	parseInto(t, ix, "lib/a_b.ex", `
defmodule A.B do
  def f(x), do: x
end
`)
	f := parseInto(t, ix, "lib/outer.ex", `
defmodule Outer do
  alias A.B

  defmodule Inner do
    import B
  end
end
`)

	r := New(ix, 0, nil)
	d := firstDirective(t, f)
	if d.Scope != "Outer.Inner" {
		t.Fatalf("directive scope = %q, want Outer.Inner", d.Scope)
	}
	target, ok := r.ResolveTarget(d)
	if !ok || target.Name != "A.B" {
		t.Fatalf("ResolveTarget = %v, %v; want A.B", target, ok)
	}
}

func TestResolveTargetDanglingAliasIsSilent(t *testing.T) {
	ix := index.New()
	f := parseInto(t, ix, "lib/client.ex", `
defmodule Client do
  import Missing.Dep
end
`)

	sink := &recordingSink{}
	r := New(ix, 0, sink)
	if _, ok := r.ResolveTarget(firstDirective(t, f)); ok {
		t.Fatal("undefined target must not resolve")
	}
	if len(sink.labels) != 0 {
		t.Errorf("dangling aliases must not be reported, got %v", sink.labels)
	}
}

func TestResolveTargetCyclicAliasHitsDepthLimit(t *testing.T) {
	ix := index.New()
	f := parseInto(t, ix, "lib/client.ex", `
defmodule Client do
  alias Loop
  import Loop
end
`)

	sink := &recordingSink{}
	r := New(ix, 8, sink)
	if _, ok := r.ResolveTarget(firstDirective(t, f)); ok {
		t.Fatal("a cyclic alias must resolve to nothing")
	}
	if len(sink.labels) != 1 || sink.labels[0] != "alias resolution depth limit" {
		t.Errorf("expected one depth-limit diagnostic, got %v", sink.labels)
	}
}

func TestResolveTargetDepthIsConfigurable(t *testing.T) {
	ix := index.New()
	parseInto(t, ix, "lib/a_b_c.ex", `
defmodule A.B.C do
  def g, do: :ok
end
`)
	f := parseInto(t, ix, "lib/client.ex", `
defmodule Client do
  alias A.B
  alias B.C
  import C
end
`)
	d := firstDirective(t, f)

	if _, ok := New(ix, 1, nil).ResolveTarget(d); ok {
		t.Error("a two-step chain must fail under a depth limit of 1")
	}
	if _, ok := New(ix, 2, nil).ResolveTarget(d); !ok {
		t.Error("a two-step chain must succeed under a depth limit of 2")
	}
}

func TestResolveTargetRejectsNonAliasArguments(t *testing.T) {
	r := newTestResolver()

	for _, d := range []parser.Directive{
		{},
		directiveWith(),
		directiveWith(atomNode("foo")),
		directiveWith(intNode(1)),
	} {
		if _, ok := r.ResolveTarget(d); ok {
			t.Errorf("directive %v must not resolve", d)
		}
	}
}
