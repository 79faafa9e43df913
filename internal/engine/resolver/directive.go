package resolver

import (
	"inscope/internal/engine/parser"
	"inscope/internal/syntax"
)

// The directive's fixed callee identity. Unqualified calls resolve against
// Kernel, so both `import Foo` and `Kernel.import Foo` match.
const (
	directiveModule = "Kernel"
	directiveName   = "import"
)

// IsDirective reports whether node is an import directive: a call to
// Kernel.import whose final argument count is exactly 1 or 2. Malformed
// nodes are never an error, just not a directive.
func IsDirective(node syntax.Node) bool {
	if node == nil || !syntax.IsCallTo(node, directiveModule, directiveName) {
		return false
	}
	n := len(node.(*syntax.Call).FinalArguments())
	return n == 1 || n == 2
}

// DescribeKind selects which description of a directive is wanted.
type DescribeKind int

const (
	// DescribeType labels what the construct is.
	DescribeType DescribeKind = iota
	// DescribeNodeText reproduces the directive's literal source text.
	DescribeNodeText
)

// Describe renders a usage-view description for the directive. Unknown
// kinds yield no description.
func Describe(d parser.Directive, kind DescribeKind) (string, bool) {
	if !IsDirective(d.Call) {
		return "", false
	}
	switch kind {
	case DescribeType:
		return "import", true
	case DescribeNodeText:
		return d.Call.Text(), true
	default:
		return "", false
	}
}
