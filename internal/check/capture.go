package check

import (
	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/token"
)

// freeIdentRefs collects every identifier read inside e that is not
// bound by some construct within e itself (lambda params, let/for/match
// bindings), recording the span of its first occurrence. It underlies
// lambda capture analysis (§4.5) and deliberately does not reuse
// inferPattern/inferExpr, which also perform type unification.
func freeIdentRefs(e ast.Expr, bound map[string]bool, out map[string]token.Span) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Literal:
	case *ast.IdentExpr:
		recordFreeIdent(n.Name.Name, n.Span(), bound, out)
	case *ast.ModulePathExpr:
		if len(n.Segments) > 0 {
			recordFreeIdent(n.Segments[0].Name, n.Span(), bound, out)
		}
	case *ast.RecExpr:
		recordFreeIdent(n.Name.Name, n.Span(), bound, out)
	case *ast.CallExpr:
		freeIdentRefs(n.Callee, bound, out)
		for _, a := range n.Args {
			freeIdentRefs(a, bound, out)
		}
	case *ast.PerformExpr:
		for _, a := range n.Args {
			freeIdentRefs(a, bound, out)
		}
	case *ast.FieldExpr:
		freeIdentRefs(n.Target, bound, out)
	case *ast.TupleAccessExpr:
		freeIdentRefs(n.Target, bound, out)
	case *ast.IndexExpr:
		freeIdentRefs(n.Target, bound, out)
		freeIdentRefs(n.Index, bound, out)
	case *ast.LambdaExpr:
		inner := cloneBoundSet(bound)
		for _, p := range n.Params {
			inner[p.Name.Name] = true
		}
		freeIdentRefs(n.Body, inner, out)
	case *ast.PipeExpr:
		freeIdentRefs(n.Left, bound, out)
		freeIdentRefs(n.Right, bound, out)
	case *ast.BinaryExpr:
		freeIdentRefs(n.Left, bound, out)
		freeIdentRefs(n.Right, bound, out)
	case *ast.UnaryExpr:
		freeIdentRefs(n.Operand, bound, out)
	case *ast.PropagateExpr:
		freeIdentRefs(n.Operand, bound, out)
	case *ast.RangeExpr:
		freeIdentRefs(n.Low, bound, out)
		freeIdentRefs(n.High, bound, out)
	case *ast.IfExpr:
		freeIdentRefs(n.Cond, bound, out)
		freeIdentRefs(n.Then, bound, out)
		if n.Else != nil {
			freeIdentRefs(n.Else, bound, out)
		}
	case *ast.MatchExpr:
		freeIdentRefs(n.Scrutinee, bound, out)
		for _, arm := range n.Arms {
			inner := cloneBoundSet(bound)
			bindPatternNames(arm.Pattern, inner)
			freeIdentRefs(arm.Body, inner, out)
		}
	case *ast.WhileExpr:
		freeIdentRefs(n.Cond, bound, out)
		freeIdentRefs(n.Body, bound, out)
	case *ast.ForExpr:
		freeIdentRefs(n.Iter, bound, out)
		inner := cloneBoundSet(bound)
		bindPatternNames(n.Pattern, inner)
		freeIdentRefs(n.Body, inner, out)
	case *ast.LoopExpr:
		freeIdentRefs(n.Body, bound, out)
	case *ast.HandleExpr:
		freeIdentRefs(n.Body, bound, out)
		freeIdentRefs(n.Handler, bound, out)
	case *ast.BlockExpr:
		inner := cloneBoundSet(bound)
		for _, s := range n.Stmts {
			freeIdentRefsStmt(s, inner, out)
		}
		if n.Tail != nil {
			freeIdentRefs(n.Tail, inner, out)
		}
	case *ast.UnsafeExpr:
		freeIdentRefs(n.Body, bound, out)
	case *ast.DeferExpr:
		freeIdentRefs(n.Operand, bound, out)
	case *ast.EffectBlockExpr:
		freeIdentRefs(n.Body, bound, out)
	case *ast.AsyncExpr:
		freeIdentRefs(n.Body, bound, out)
	case *ast.AwaitExpr:
		freeIdentRefs(n.Operand, bound, out)
	case *ast.BreakExpr:
		if n.Value != nil {
			freeIdentRefs(n.Value, bound, out)
		}
	case *ast.ReturnExpr:
		if n.Value != nil {
			freeIdentRefs(n.Value, bound, out)
		}
	case *ast.AssignExpr:
		freeIdentRefs(n.Target, bound, out)
		freeIdentRefs(n.Value, bound, out)
	case *ast.InlineAsmExpr:
		for _, e2 := range n.Inputs {
			freeIdentRefs(e2, bound, out)
		}
		for _, e2 := range n.Outputs {
			freeIdentRefs(e2, bound, out)
		}
	}
}

func freeIdentRefsStmt(s ast.Stmt, bound map[string]bool, out map[string]token.Span) {
	switch st := s.(type) {
	case *ast.DeclStmt:
		switch d := st.Decl.(type) {
		case *ast.LetDecl:
			freeIdentRefs(d.Value, bound, out)
			bound[d.Name.Name] = true
		case *ast.VarDecl:
			freeIdentRefs(d.Value, bound, out)
			bound[d.Name.Name] = true
		case *ast.ConstDecl:
			freeIdentRefs(d.Value, bound, out)
			bound[d.Name.Name] = true
		}
	case *ast.ExprStmt:
		freeIdentRefs(st.Expr, bound, out)
	case *ast.AssignStmt:
		freeIdentRefs(st.Target, bound, out)
		freeIdentRefs(st.Value, bound, out)
	case *ast.DeferStmt:
		freeIdentRefs(st.Expr, bound, out)
	}
}

func cloneBoundSet(bound map[string]bool) map[string]bool {
	out := make(map[string]bool, len(bound))
	for k, v := range bound {
		out[k] = v
	}
	return out
}

func recordFreeIdent(name string, span token.Span, bound map[string]bool, out map[string]token.Span) {
	if bound[name] {
		return
	}
	if _, ok := out[name]; !ok {
		out[name] = span
	}
}

// bindPatternNames collects every name a pattern would bind, for the
// free-variable walk above. It mirrors inferPattern's binding shape
// without performing any unification.
func bindPatternNames(pat ast.Pattern, bound map[string]bool) {
	switch p := pat.(type) {
	case *ast.PatternVar:
		bound[p.Name.Name] = true
	case *ast.PatternTuple:
		for _, sub := range p.Elems {
			bindPatternNames(sub, bound)
		}
	case *ast.PatternRecord:
		for _, f := range p.Fields {
			if f.Pattern == nil {
				bound[f.Name.Name] = true
				continue
			}
			bindPatternNames(f.Pattern, bound)
		}
	case *ast.PatternConstructor:
		for _, sub := range p.Payload {
			bindPatternNames(sub, bound)
		}
	case *ast.PatternBinding:
		bindPatternNames(p.Sub, bound)
		bound[p.Name.Name] = true
	case *ast.PatternOr:
		for _, alt := range p.Alts {
			bindPatternNames(alt, bound)
		}
	case *ast.PatternSlice:
		for _, sub := range p.Elems {
			bindPatternNames(sub, bound)
		}
		if p.RestName != nil {
			bound[p.RestName.Name] = true
		}
	case *ast.PatternActive:
		for _, sub := range p.Args {
			bindPatternNames(sub, bound)
		}
	case *ast.PatternGuard:
		bindPatternNames(p.Sub, bound)
	}
}
