package mir

import (
	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/check"
	"github.com/sigil-lang/sigil/internal/types"
)

// Lowerer turns a checked module into its flat MIR view. It reads
// resolved types from the Checker's ExprTypes/Global/Solver state
// rather than re-inferring anything; §4.6 assumes typecheck has already
// run to completion (Checker.Check) before Lower is called.
type Lowerer struct {
	checker *check.Checker
}

// NewLowerer returns a lowerer reading from an already-checked c.
func NewLowerer(c *check.Checker) *Lowerer { return &Lowerer{checker: c} }

// Lower produces a Module: one Function per top-level fn declaration
// and the resolved qualified-call table for every Trait::method(...)
// call site found anywhere in the module.
func (l *Lowerer) Lower(mod *ast.Module) *Module {
	out := &Module{}
	for _, fn := range mod.Functions {
		out.Functions = append(out.Functions, l.lowerFunction(fn))
	}
	out.Calls = l.resolveQualifiedCalls(mod)
	return out
}

func (l *Lowerer) lowerFunction(fn *ast.FnDecl) *Function {
	f := &Function{Name: fn.Name.Name, Source: fn.Body, BodyTypes: map[ast.Expr]Label{}}

	var arrow *types.Arrow
	if scheme, ok := l.checker.Global.Lookup(fn.Name.Name); ok {
		inst, _ := types.Instantiate(l.checker.Gen, scheme)
		arrow, _ = inst.(*types.Arrow)
	}
	for i, p := range fn.Params {
		lbl := Label(types.TUnknown.String())
		if arrow != nil && i < len(arrow.Params) {
			lbl = Label(l.checker.Solver.Apply(arrow.Params[i]).String())
		}
		f.Params = append(f.Params, Param{Name: p.Name.Name, Type: lbl})
	}
	if arrow != nil {
		f.ReturnType = Label(l.checker.Solver.Apply(arrow.Ret).String())
	}

	if fn.Body == nil {
		return f
	}
	ast.Walk(fn.Body, func(n ast.Node) bool {
		if e, ok := n.(ast.Expr); ok {
			if t, ok := l.checker.ExprTypes[e]; ok {
				f.BodyTypes[e] = Label(l.checker.Solver.Apply(t).String())
			}
		}
		return true
	})
	return f
}

// resolveQualifiedCalls scans the whole module for CallExpr sites whose
// callee is a two-segment module path (`Trait::method`), treating the
// first segment as the trait name and the call's first argument as the
// receiver whose resolved type label drives impl-registry lookup.
func (l *Lowerer) resolveQualifiedCalls(mod *ast.Module) []*QualifiedCall {
	var calls []*QualifiedCall
	ast.Walk(mod, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		path, ok := call.Callee.(*ast.ModulePathExpr)
		if !ok || len(path.Segments) != 2 {
			return true
		}
		traitName := path.Segments[0].Name
		method := path.Segments[1].Name

		target := Label(types.TUnknown.String())
		if len(call.Args) > 0 {
			if t, ok := l.checker.ExprTypes[call.Args[0]]; ok {
				target = Label(l.checker.Solver.Apply(t).String())
			}
		}

		qc := &QualifiedCall{Site: call, TraitName: traitName, Method: method, Target: target}
		for _, entry := range l.checker.Solver.Impls.Candidates(traitName, string(target)) {
			qc.Candidates = append(qc.Candidates, entry.ID)
		}
		if len(qc.Candidates) == 1 {
			qc.ImplID = qc.Candidates[0]
		}
		calls = append(calls, qc)
		return true
	})
	return calls
}
