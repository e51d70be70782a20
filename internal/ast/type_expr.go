package ast

import "github.com/sigil-lang/sigil/internal/token"

// NamedType is a bare or qualified type name, e.g. `Int`, `String`,
// `Core.Option`.
type NamedType struct {
	Path []*Ident
	span token.Span
}

func NewNamedType(path []*Ident, span token.Span) *NamedType { return &NamedType{Path: path, span: span} }
func (t *NamedType) Span() token.Span                         { return t.span }
func (*NamedType) typeExprNode()                              {}

// GenericType applies type arguments to a base type, e.g.
// `List<Int>`, `Map<String, Int>`.
type GenericType struct {
	Base *NamedType
	Args []TypeExpr
	span token.Span
}

func NewGenericType(base *NamedType, args []TypeExpr, span token.Span) *GenericType {
	return &GenericType{Base: base, Args: args, span: span}
}
func (t *GenericType) Span() token.Span { return t.span }
func (*GenericType) typeExprNode()      {}

// FunctionType is an arrow type `(Params) -> Return`, optionally
// annotated with an effect row `(Params) ->{E1, E2} Return`.
type FunctionType struct {
	Params  []TypeExpr
	Effects []*Ident
	Return  TypeExpr
	span    token.Span
}

func NewFunctionType(params []TypeExpr, effects []*Ident, ret TypeExpr, span token.Span) *FunctionType {
	return &FunctionType{Params: params, Effects: effects, Return: ret, span: span}
}
func (t *FunctionType) Span() token.Span { return t.span }
func (*FunctionType) typeExprNode()      {}

// SliceType is `[]Elem`.
type SliceType struct {
	Elem TypeExpr
	span token.Span
}

func NewSliceType(elem TypeExpr, span token.Span) *SliceType { return &SliceType{Elem: elem, span: span} }
func (t *SliceType) Span() token.Span                         { return t.span }
func (*SliceType) typeExprNode()                              {}

// ArrayType is a fixed-length array type `[N]Elem`.
type ArrayType struct {
	Len  Expr
	Elem TypeExpr
	span token.Span
}

func NewArrayType(length Expr, elem TypeExpr, span token.Span) *ArrayType {
	return &ArrayType{Len: length, Elem: elem, span: span}
}
func (t *ArrayType) Span() token.Span { return t.span }
func (*ArrayType) typeExprNode()      {}

// TupleType is `(T1, T2, ...)` with arity >= 2.
type TupleType struct {
	Elems []TypeExpr
	span  token.Span
}

func NewTupleType(elems []TypeExpr, span token.Span) *TupleType { return &TupleType{Elems: elems, span: span} }
func (t *TupleType) Span() token.Span                            { return t.span }
func (*TupleType) typeExprNode()                                 {}

// ReferenceType is `&T` or `&mut T`.
type ReferenceType struct {
	Mutable bool
	Target  TypeExpr
	span    token.Span
}

func NewReferenceType(mutable bool, target TypeExpr, span token.Span) *ReferenceType {
	return &ReferenceType{Mutable: mutable, Target: target, span: span}
}
func (t *ReferenceType) Span() token.Span { return t.span }
func (*ReferenceType) typeExprNode()      {}

// TypeVarRef is an explicit lowercase type-variable reference in a
// signature, e.g. the `a` in `fn id<a>(x: a) -> a`.
type TypeVarRef struct {
	Name *Ident
	span token.Span
}

func NewTypeVarRef(name *Ident, span token.Span) *TypeVarRef { return &TypeVarRef{Name: name, span: span} }
func (t *TypeVarRef) Span() token.Span                        { return t.span }
func (*TypeVarRef) typeExprNode()                             {}

// ForallType is an explicit rank-2-style universally quantified type,
// e.g. `forall a. (a) -> a`.
type ForallType struct {
	Params []*TypeParam
	Body   TypeExpr
	span   token.Span
}

func NewForallType(params []*TypeParam, body TypeExpr, span token.Span) *ForallType {
	return &ForallType{Params: params, Body: body, span: span}
}
func (t *ForallType) Span() token.Span { return t.span }
func (*ForallType) typeExprNode()      {}

// ExistentialType is `exists a. Bound<a>`, used for opaque
// trait-object-like positions.
type ExistentialType struct {
	Params []*TypeParam
	Body   TypeExpr
	span   token.Span
}

func NewExistentialType(params []*TypeParam, body TypeExpr, span token.Span) *ExistentialType {
	return &ExistentialType{Params: params, Body: body, span: span}
}
func (t *ExistentialType) Span() token.Span { return t.span }
func (*ExistentialType) typeExprNode()      {}

// ProjectedType is an associated-type projection `Base::Assoc`, e.g.
// `T::Item`.
type ProjectedType struct {
	Base  TypeExpr
	Assoc *Ident
	span  token.Span
}

func NewProjectedType(base TypeExpr, assoc *Ident, span token.Span) *ProjectedType {
	return &ProjectedType{Base: base, Assoc: assoc, span: span}
}
func (t *ProjectedType) Span() token.Span { return t.span }
func (*ProjectedType) typeExprNode()      {}

// EffectRowType annotates a computation type with the capability set
// it requires, e.g. `Int ! {IO, State}` in a signature's return
// position.
type EffectRowType struct {
	Base    TypeExpr
	Effects []*Ident
	span    token.Span
}

func NewEffectRowType(base TypeExpr, effects []*Ident, span token.Span) *EffectRowType {
	return &EffectRowType{Base: base, Effects: effects, span: span}
}
func (t *EffectRowType) Span() token.Span { return t.span }
func (*EffectRowType) typeExprNode()      {}
