package check

import (
	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/types"
)

// tvarScope maps an in-scope lowercase type-variable name (bound by a
// function's TypeParams, a ForallType, or an ExistentialType) to the
// types.Var it resolves to for the duration of one signature.
type tvarScope map[string]*types.Var

var builtinTypeNames = map[string]types.BuiltinKind{
	"Int":   types.Int,
	"UInt":  types.UInt,
	"Float": types.Float,
	"Bool":  types.Bool,
	"Char":  types.Char,
	"Str":   types.Str,
	"Bytes": types.Bytes,
	"Unit":  types.Unit,
}

func builtinFor(kind types.BuiltinKind) types.Type { return &types.Builtin{Kind: kind} }

// resolveType turns a syntactic type annotation into a types.Type
// (§4.3). Unresolved identifiers (neither a builtin, a bound type
// variable, nor a registered type declaration) report
// type.ident.unresolved and resolve to Unknown, §4.4's silent-recovery
// sentinel, so the rest of inference can proceed.
func (c *Checker) resolveType(te ast.TypeExpr, tv tvarScope) types.Type {
	switch t := te.(type) {
	case *ast.NamedType:
		return c.resolveNamed(t, tv)
	case *ast.GenericType:
		args := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = c.resolveType(a, tv)
		}
		name := qualifiedName(t.Base.Path)
		if decl, ok := c.Global.LookupType(name); ok && len(decl.Params) == len(args) {
			return &types.App{Ctor: name, Args: args}
		}
		return &types.App{Ctor: name, Args: args}
	case *ast.FunctionType:
		params := make([]types.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = c.resolveType(p, tv)
		}
		ret := c.resolveType(t.Return, tv)
		return &types.Arrow{Params: params, Ret: ret}
	case *ast.SliceType:
		return &types.Slice{Elem: c.resolveType(t.Elem, tv)}
	case *ast.ArrayType:
		// Fixed-length arrays share the slice representation (§3's
		// closed type set has no separate fixed-size variant); the
		// length expression is checked separately where it appears.
		return &types.Slice{Elem: c.resolveType(t.Elem, tv)}
	case *ast.TupleType:
		args := make([]types.Type, len(t.Elems))
		for i, e := range t.Elems {
			args[i] = c.resolveType(e, tv)
		}
		return &types.App{Ctor: "Tuple", Args: args}
	case *ast.ReferenceType:
		return &types.Ref{Mutable: t.Mutable, Elem: c.resolveType(t.Target, tv)}
	case *ast.TypeVarRef:
		if v, ok := tv[t.Name.Name]; ok {
			return v
		}
		v := c.Gen.Fresh()
		tv[t.Name.Name] = v
		return v
	case *ast.ForallType:
		child := extendTVars(tv)
		for _, p := range t.Params {
			child[p.Name.Name] = c.Gen.Fresh()
		}
		return c.resolveType(t.Body, child)
	case *ast.ExistentialType:
		child := extendTVars(tv)
		for _, p := range t.Params {
			child[p.Name.Name] = c.Gen.Fresh()
		}
		return c.resolveType(t.Body, child)
	case *ast.ProjectedType:
		base := c.resolveType(t.Base, tv)
		return &types.App{Ctor: typeLabel(base) + "::" + t.Assoc.Name}
	case *ast.EffectRowType:
		return c.resolveType(t.Base, tv)
	default:
		return types.TUnknown
	}
}

func extendTVars(parent tvarScope) tvarScope {
	child := make(tvarScope, len(parent))
	for k, v := range parent {
		child[k] = v
	}
	return child
}

func (c *Checker) resolveNamed(t *ast.NamedType, tv tvarScope) types.Type {
	if len(t.Path) == 1 {
		name := t.Path[0].Name
		if kind, ok := builtinTypeNames[name]; ok {
			return builtinFor(kind)
		}
		if v, ok := tv[name]; ok {
			return v
		}
	}
	name := qualifiedName(t.Path)
	if decl, ok := c.Global.LookupType(name); ok {
		args := make([]types.Type, len(decl.Params))
		for i := range decl.Params {
			args[i] = c.Gen.Fresh()
		}
		return &types.App{Ctor: name, Args: args}
	}
	c.Diags.Add(diag.Diagnostic{
		Severity:       diag.SeverityError,
		Domain:         diag.DomainType,
		Code:           diag.CodeTypeUnresolvedIdent,
		Message:        "unresolved type name " + name,
		PrimarySpan:    t.Span(),
		Recoverability: diag.Recoverable,
	})
	return types.TUnknown
}

// effectsOf extracts the declared effect row from a return-type
// annotation, e.g. the `{IO, State}` in `Int ! {IO, State}`.
func effectsOf(te ast.TypeExpr) []string {
	row, ok := te.(*ast.EffectRowType)
	if !ok {
		return nil
	}
	out := make([]string, len(row.Effects))
	for i, e := range row.Effects {
		out[i] = e.Name
	}
	return out
}
