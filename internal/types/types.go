// Package types holds the closed type representation the checker
// unifies over: builtins, type variables, generic applications, arrow
// types, slices, and references (§3/§4.3).
package types

import (
	"strconv"
	"strings"
)

// Type is implemented by every variant in the closed set. IsType is a
// marker method only; dispatch is by type switch.
type Type interface {
	String() string
	IsType()
}

// BuiltinKind enumerates the primitive, non-structural types.
type BuiltinKind string

const (
	Int     BuiltinKind = "Int"
	UInt    BuiltinKind = "UInt"
	Float   BuiltinKind = "Float"
	Bool    BuiltinKind = "Bool"
	Char    BuiltinKind = "Char"
	Str     BuiltinKind = "Str"
	Bytes   BuiltinKind = "Bytes"
	Unit    BuiltinKind = "Unit"
	Unknown BuiltinKind = "Unknown"
)

// Builtin is one of the fixed, structure-less primitive kinds.
type Builtin struct{ Kind BuiltinKind }

func (b *Builtin) String() string { return string(b.Kind) }
func (b *Builtin) IsType()        {}

// Singleton instances for the builtin kinds; unification and
// resolution compare these by value, not identity, so callers may
// also construct fresh &Builtin{Kind: ...} values freely.
var (
	TInt     = &Builtin{Kind: Int}
	TUInt    = &Builtin{Kind: UInt}
	TFloat   = &Builtin{Kind: Float}
	TBool    = &Builtin{Kind: Bool}
	TChar    = &Builtin{Kind: Char}
	TStr     = &Builtin{Kind: Str}
	TBytes   = &Builtin{Kind: Bytes}
	TUnit    = &Builtin{Kind: Unit}
	TUnknown = &Builtin{Kind: Unknown}
)

// Var is an unresolved type variable. Ids are handed out by a VarGen
// and never reused; substitution never maps a variable to itself
// (I-VAR-MONO, §3).
type Var struct{ ID int }

func (v *Var) String() string { return "t" + strconv.Itoa(v.ID) }
func (v *Var) IsType()        {}

// App is a generic application `Ctor<Args...>`, e.g. `List<Int>`.
type App struct {
	Ctor string
	Args []Type
}

func (a *App) String() string {
	if len(a.Args) == 0 {
		return a.Ctor
	}
	args := make([]string, len(a.Args))
	for i, arg := range a.Args {
		args[i] = arg.String()
	}
	return a.Ctor + "<" + strings.Join(args, ", ") + ">"
}
func (a *App) IsType() {}

// Arrow is a function type `(Params) -> Ret`.
type Arrow struct {
	Params []Type
	Ret    Type
}

func (f *Arrow) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	ret := "Unit"
	if f.Ret != nil {
		ret = f.Ret.String()
	}
	return "(" + strings.Join(params, ", ") + ") -> " + ret
}
func (f *Arrow) IsType() {}

// Slice is `[T]`.
type Slice struct{ Elem Type }

func (s *Slice) String() string { return "[" + s.Elem.String() + "]" }
func (s *Slice) IsType()        {}

// Ref is `&T` or `&mut T`.
type Ref struct {
	Mutable bool
	Elem    Type
}

func (r *Ref) String() string {
	if r.Mutable {
		return "&mut " + r.Elem.String()
	}
	return "&" + r.Elem.String()
}
func (r *Ref) IsType() {}

// VarGen hands out fresh type-variable ids, monotonically increasing
// for the lifetime of a single checker run.
type VarGen struct{ next int }

func (g *VarGen) Fresh() *Var {
	g.next++
	return &Var{ID: g.next}
}
