package resolver

import (
	"testing"

	"inscope/internal/engine/parser"
	"inscope/internal/syntax"
)

func TestIsDirective(t *testing.T) {
	foo := aliasExpr("Foo")
	opts := options(pair("only", kwList(pair("f", intNode(1)))))

	tests := []struct {
		name string
		node syntax.Node
		want bool
	}{
		{"nil", nil, false},
		{"not a call", atomNode("import"), false},
		{"unqualified single arg", &syntax.Call{Name: "import", Args: []syntax.Node{foo}}, true},
		{"unqualified with options", &syntax.Call{Name: "import", Args: []syntax.Node{foo, opts}}, true},
		{"kernel qualified", &syntax.Call{Qualifier: "Kernel", Name: "import", Args: []syntax.Node{foo}}, true},
		{"other qualifier", &syntax.Call{Qualifier: "Foo", Name: "import", Args: []syntax.Node{foo}}, false},
		{"wrong name", &syntax.Call{Name: "require", Args: []syntax.Node{foo}}, false},
		{"zero args", &syntax.Call{Name: "import"}, false},
		{"three args", &syntax.Call{Name: "import", Args: []syntax.Node{foo, opts, opts}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDirective(tt.node); got != tt.want {
				t.Errorf("IsDirective = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	call := &syntax.Call{
		Span: syntax.Span{Source: "import Foo, only: [f: 1]"},
		Name: "import",
		Args: []syntax.Node{aliasExpr("Foo"), options(pair("only", kwList(pair("f", intNode(1)))))},
	}
	d := parser.Directive{Call: call}

	if got, ok := Describe(d, DescribeType); !ok || got != "import" {
		t.Errorf("Describe(type) = %q, %v", got, ok)
	}
	if got, ok := Describe(d, DescribeNodeText); !ok || got != "import Foo, only: [f: 1]" {
		t.Errorf("Describe(node text) = %q, %v", got, ok)
	}
	if _, ok := Describe(d, DescribeKind(99)); ok {
		t.Error("unknown describe kinds must yield no description")
	}
	if _, ok := Describe(parser.Directive{}, DescribeType); ok {
		t.Error("a non-directive must yield no description")
	}
}
