package app

import (
	"context"
	"fmt"
	"time"

	"inscope/internal/engine/parser"
	"inscope/internal/engine/resolver"
	"inscope/internal/shared/observability"
)

// ImportReport is the usage view of one import directive: what it says,
// where it points, and which clauses it brings into scope.
type ImportReport struct {
	File     string
	Line     int
	Text     string
	Target   string
	Resolved bool
	Clauses  []string
}

// Reports evaluates every indexed directive. Unresolved targets still get a
// row; an empty clause list with Resolved=false marks them.
func (s *Service) Reports(ctx context.Context) ([]ImportReport, error) {
	ctx, span := observability.Tracer.Start(ctx, "Service.Reports")
	defer span.End()

	start := time.Now()
	defer func() {
		observability.AnalysisDuration.WithLabelValues("reports").Observe(time.Since(start).Seconds())
	}()

	var out []ImportReport
	for _, d := range s.Index.Directives() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !resolver.IsDirective(d.Call) {
			continue
		}
		out = append(out, s.report(d))
	}
	return out, nil
}

func (s *Service) report(d parser.Directive) ImportReport {
	rep := ImportReport{
		File: d.Call.Pos().File,
		Line: d.Call.Pos().Line,
	}
	if text, ok := resolver.Describe(d, resolver.DescribeNodeText); ok {
		rep.Text = text
	}

	target, ok := s.Resolver.ResolveTarget(d)
	if !ok {
		return rep
	}
	rep.Resolved = true
	rep.Target = target.Name

	for _, cl := range s.Resolver.ImportedClauses(d) {
		name, minArity, maxArity, ok := cl.Signature()
		if !ok {
			continue
		}
		if minArity == maxArity {
			rep.Clauses = append(rep.Clauses, fmt.Sprintf("%s/%d", name, maxArity))
		} else {
			rep.Clauses = append(rep.Clauses, fmt.Sprintf("%s/%d..%d", name, minArity, maxArity))
		}
	}
	return rep
}

// Unresolved filters Reports down to directives whose target could not be
// found.
func (s *Service) Unresolved(ctx context.Context) ([]ImportReport, error) {
	reports, err := s.Reports(ctx)
	if err != nil {
		return nil, err
	}
	var out []ImportReport
	for _, rep := range reports {
		if !rep.Resolved {
			out = append(out, rep)
		}
	}
	return out, nil
}
