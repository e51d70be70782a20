package ast

import "github.com/sigil-lang/sigil/internal/token"

// TypeParam is a generic type parameter with optional trait bounds.
type TypeParam struct {
	Name   *Ident
	Bounds []TypeExpr
	span   token.Span
}

func NewTypeParam(name *Ident, bounds []TypeExpr, span token.Span) *TypeParam {
	return &TypeParam{Name: name, Bounds: bounds, span: span}
}
func (p *TypeParam) Span() token.Span { return p.span }

// LetDecl is `let name[: Type] = value`. Always generalized (no value
// restriction applies to `let`, only to `var`).
type LetDecl struct {
	Name    *Ident
	Type    TypeExpr // optional
	Value   Expr
	Mutable bool
	span    token.Span
}

func NewLetDecl(name *Ident, typ TypeExpr, value Expr, mutable bool, span token.Span) *LetDecl {
	return &LetDecl{Name: name, Type: typ, Value: value, Mutable: mutable, span: span}
}
func (d *LetDecl) Span() token.Span { return d.span }
func (*LetDecl) declNode()          {}

// VarDecl is `var name[: Type] = value`. Subject to the value
// restriction (§4.5) when Type is nil.
type VarDecl struct {
	Name  *Ident
	Type  TypeExpr // optional
	Value Expr
	span  token.Span
}

func NewVarDecl(name *Ident, typ TypeExpr, value Expr, span token.Span) *VarDecl {
	return &VarDecl{Name: name, Type: typ, Value: value, span: span}
}
func (d *VarDecl) Span() token.Span { return d.span }
func (*VarDecl) declNode()          {}

// ConstDecl is `const NAME: Type = value`.
type ConstDecl struct {
	Name  *Ident
	Type  TypeExpr
	Value Expr
	span  token.Span
}

func NewConstDecl(name *Ident, typ TypeExpr, value Expr, span token.Span) *ConstDecl {
	return &ConstDecl{Name: name, Type: typ, Value: value, span: span}
}
func (d *ConstDecl) Span() token.Span { return d.span }
func (*ConstDecl) declNode()          {}

// FnDecl is a function declaration/definition: signature plus optional
// body (a signature-only FnDecl, Body == nil, declares an extern or
// trait-method prototype).
type FnDecl struct {
	Public     bool
	Name       *Ident
	TypeParams []*TypeParam
	Params     []*Param
	Return     TypeExpr // optional
	Where      []TypeExpr
	Attrs      []*Attr
	Body       Expr // optional; nil for signature-only declarations
	span       token.Span
}

func NewFnDecl(name *Ident, params []*Param, ret TypeExpr, body Expr, span token.Span) *FnDecl {
	return &FnDecl{Name: name, Params: params, Return: ret, Body: body, span: span}
}
func (d *FnDecl) Span() token.Span { return d.span }
func (*FnDecl) declNode()          {}

// HasAttr reports whether the function carries the named attribute.
func (d *FnDecl) HasAttr(name string) bool {
	for _, a := range d.Attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// FindAttr returns the first attribute with the given name, or nil.
func (d *FnDecl) FindAttr(name string) *Attr {
	for _, a := range d.Attrs {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// TypeDecl is `type Name[<params>] = Type` (an alias, possibly a
// newtype when the RHS is a single-field wrapper struct).
type TypeDecl struct {
	Name       *Ident
	TypeParams []*TypeParam
	Body       TypeExpr
	span       token.Span
}

func NewTypeDecl(name *Ident, params []*TypeParam, body TypeExpr, span token.Span) *TypeDecl {
	return &TypeDecl{Name: name, TypeParams: params, Body: body, span: span}
}
func (d *TypeDecl) Span() token.Span { return d.span }
func (*TypeDecl) declNode()          {}

// StructField is one `name: Type` field in a struct declaration.
type StructField struct {
	Name *Ident
	Type TypeExpr
	span token.Span
}

func NewStructField(name *Ident, typ TypeExpr, span token.Span) *StructField {
	return &StructField{Name: name, Type: typ, span: span}
}
func (f *StructField) Span() token.Span { return f.span }

// StructDecl is `struct Name[<params>] { fields... }`.
type StructDecl struct {
	Public     bool
	Name       *Ident
	TypeParams []*TypeParam
	Fields     []*StructField
	span       token.Span
}

func NewStructDecl(name *Ident, params []*TypeParam, fields []*StructField, span token.Span) *StructDecl {
	return &StructDecl{Name: name, TypeParams: params, Fields: fields, span: span}
}
func (d *StructDecl) Span() token.Span { return d.span }
func (*StructDecl) declNode()          {}

// EnumVariant is one sum-type constructor, with zero or more payload
// types (empty for a unit variant).
type EnumVariant struct {
	Name    *Ident
	Payload []TypeExpr
	span    token.Span
}

func NewEnumVariant(name *Ident, payload []TypeExpr, span token.Span) *EnumVariant {
	return &EnumVariant{Name: name, Payload: payload, span: span}
}
func (v *EnumVariant) Span() token.Span { return v.span }

// EnumDecl is `enum Name[<params>] { variants... }`.
type EnumDecl struct {
	Public     bool
	Name       *Ident
	TypeParams []*TypeParam
	Variants   []*EnumVariant
	span       token.Span
}

func NewEnumDecl(name *Ident, params []*TypeParam, variants []*EnumVariant, span token.Span) *EnumDecl {
	return &EnumDecl{Name: name, TypeParams: params, Variants: variants, span: span}
}
func (d *EnumDecl) Span() token.Span { return d.span }
func (*EnumDecl) declNode()          {}

// AssociatedTypeDecl declares an associated type member of a trait,
// e.g. `type Item;` inside `trait Iterator`.
type AssociatedTypeDecl struct {
	Name   *Ident
	Bounds []TypeExpr
	span   token.Span
}

func NewAssociatedTypeDecl(name *Ident, bounds []TypeExpr, span token.Span) *AssociatedTypeDecl {
	return &AssociatedTypeDecl{Name: name, Bounds: bounds, span: span}
}
func (d *AssociatedTypeDecl) Span() token.Span { return d.span }

// TraitDecl is `trait Name[<params>] { methods...; assoc types... }`.
type TraitDecl struct {
	Name            *Ident
	TypeParams      []*TypeParam
	Methods         []*FnDecl
	AssociatedTypes []*AssociatedTypeDecl
	span            token.Span
}

func NewTraitDecl(name *Ident, params []*TypeParam, methods []*FnDecl, assoc []*AssociatedTypeDecl, span token.Span) *TraitDecl {
	return &TraitDecl{Name: name, TypeParams: params, Methods: methods, AssociatedTypes: assoc, span: span}
}
func (d *TraitDecl) Span() token.Span { return d.span }
func (*TraitDecl) declNode()          {}

// ImplDecl is `impl [Trait for] Target { methods... }`. Trait is nil
// for an inherent impl block.
type ImplDecl struct {
	Trait      *Ident // optional
	TypeParams []*TypeParam
	Target     TypeExpr
	Methods    []*FnDecl
	AssocTypes map[string]TypeExpr
	span       token.Span
}

func NewImplDecl(trait *Ident, target TypeExpr, methods []*FnDecl, span token.Span) *ImplDecl {
	return &ImplDecl{Trait: trait, Target: target, Methods: methods, span: span}
}
func (d *ImplDecl) Span() token.Span { return d.span }
func (*ImplDecl) declNode()          {}

// ExternDecl is `extern "abi" { fn-signatures... }`.
type ExternDecl struct {
	ABI   string
	Decls []*FnDecl
	span  token.Span
}

func NewExternDecl(abi string, decls []*FnDecl, span token.Span) *ExternDecl {
	return &ExternDecl{ABI: abi, Decls: decls, span: span}
}
func (d *ExternDecl) Span() token.Span { return d.span }
func (*ExternDecl) declNode()          {}

// EffectOp is one operation signature declared inside an `effect`
// block, e.g. `fn get() -> Int` inside `effect State`.
type EffectOp struct {
	Name   *Ident
	Params []*Param
	Return TypeExpr
	span   token.Span
}

func NewEffectOp(name *Ident, params []*Param, ret TypeExpr, span token.Span) *EffectOp {
	return &EffectOp{Name: name, Params: params, Return: ret, span: span}
}
func (o *EffectOp) Span() token.Span { return o.span }

// EffectDecl is `effect Name { ops... }`.
type EffectDecl struct {
	Name *Ident
	Ops  []*EffectOp
	span token.Span
}

func NewEffectDecl(name *Ident, ops []*EffectOp, span token.Span) *EffectDecl {
	return &EffectDecl{Name: name, Ops: ops, span: span}
}
func (d *EffectDecl) Span() token.Span { return d.span }
func (*EffectDecl) declNode()          {}

// HandlerClause implements one operation of an effect inside a
// `handler` declaration: the operation name, its parameters, and the
// clause body.
type HandlerClause struct {
	Op     *Ident
	Params []*Param
	Body   Expr
	span   token.Span
}

func NewHandlerClause(op *Ident, params []*Param, body Expr, span token.Span) *HandlerClause {
	return &HandlerClause{Op: op, Params: params, Body: body, span: span}
}
func (c *HandlerClause) Span() token.Span { return c.span }

// HandlerDecl is `handler Name for Effect { clauses... }`.
type HandlerDecl struct {
	Name    *Ident
	Effect  *Ident
	Clauses []*HandlerClause
	span    token.Span
}

func NewHandlerDecl(name, effect *Ident, clauses []*HandlerClause, span token.Span) *HandlerDecl {
	return &HandlerDecl{Name: name, Effect: effect, Clauses: clauses, span: span}
}
func (d *HandlerDecl) Span() token.Span { return d.span }
func (*HandlerDecl) declNode()          {}

// NestedModuleDecl is a `module name { ... }` block nested inside
// another module (as opposed to the file-level ModuleHeader prefix).
type NestedModuleDecl struct {
	Public bool
	Name   *Ident
	Body   *Module
	span   token.Span
}

func NewNestedModuleDecl(name *Ident, body *Module, span token.Span) *NestedModuleDecl {
	return &NestedModuleDecl{Name: name, Body: body, span: span}
}
func (d *NestedModuleDecl) Span() token.Span { return d.span }
func (*NestedModuleDecl) declNode()          {}

// MacroDecl recognizes a macro definition syntactically; macro
// expansion semantics are out of scope (§1 Non-goals) — only shape is
// validated.
type MacroDecl struct {
	Name *Ident
	Body *BlockExpr
	span token.Span
}

func NewMacroDecl(name *Ident, body *BlockExpr, span token.Span) *MacroDecl {
	return &MacroDecl{Name: name, Body: body, span: span}
}
func (d *MacroDecl) Span() token.Span { return d.span }
func (*MacroDecl) declNode()          {}

// ActorHandler is one `on Message(params) { body }` clause inside an
// actor spec.
type ActorHandler struct {
	Message *Ident
	Params  []*Param
	Body    *BlockExpr
	span    token.Span
}

func NewActorHandler(message *Ident, params []*Param, body *BlockExpr, span token.Span) *ActorHandler {
	return &ActorHandler{Message: message, Params: params, Body: body, span: span}
}
func (h *ActorHandler) Span() token.Span { return h.span }

// ActorDecl is `actor Name { state...; on Message { ... } }`.
type ActorDecl struct {
	Name     *Ident
	State    []*StructField
	Handlers []*ActorHandler
	span     token.Span
}

func NewActorDecl(name *Ident, state []*StructField, handlers []*ActorHandler, span token.Span) *ActorDecl {
	return &ActorDecl{Name: name, State: state, Handlers: handlers, span: span}
}
func (d *ActorDecl) Span() token.Span { return d.span }
func (*ActorDecl) declNode()          {}

// ConductorStage is one `|> stage(args...)` tail in a pipeline
// expression.
type ConductorStage struct {
	Name *Ident
	Args []Expr
	span token.Span
}

func NewConductorStage(name *Ident, args []Expr, span token.Span) *ConductorStage {
	return &ConductorStage{Name: name, Args: args, span: span}
}
func (s *ConductorStage) Span() token.Span { return s.span }

// ConductorChannel is one `a ~> b: PayloadType;` route inside a
// `channels { }` block.
type ConductorChannel struct {
	From, To *Ident
	Payload  TypeExpr
	span     token.Span
}

func NewConductorChannel(from, to *Ident, payload TypeExpr, span token.Span) *ConductorChannel {
	return &ConductorChannel{From: from, To: to, Payload: payload, span: span}
}
func (c *ConductorChannel) Span() token.Span { return c.span }

// ConductorDecl is the pipeline DSL block (§4.8):
//   conductor { dsl_id: target = pipeline |> stage(args) ... channels { ... } execution { ... } monitoring { ... } }
type ConductorDecl struct {
	DslID      *Ident
	Target     *Ident
	Pipeline   Expr
	Stages     []*ConductorStage
	Channels   []*ConductorChannel
	Execution  *BlockExpr // optional
	Monitoring *BlockExpr // optional
	span       token.Span
}

func NewConductorDecl(dslID, target *Ident, pipeline Expr, stages []*ConductorStage, span token.Span) *ConductorDecl {
	return &ConductorDecl{DslID: dslID, Target: target, Pipeline: pipeline, Stages: stages, span: span}
}
func (d *ConductorDecl) Span() token.Span { return d.span }
func (*ConductorDecl) declNode()          {}

// ActivePatternDecl declares a named pattern-macro function, total or
// partial (§4.5.2). It shares the function-declaration shape because
// active patterns share a namespace with functions.
type ActivePatternDecl struct {
	Name    *Ident
	Partial bool
	Params  []*Param
	Body    Expr
	span    token.Span
}

func NewActivePatternDecl(name *Ident, partial bool, params []*Param, body Expr, span token.Span) *ActivePatternDecl {
	return &ActivePatternDecl{Name: name, Partial: partial, Params: params, Body: body, span: span}
}
func (d *ActivePatternDecl) Span() token.Span { return d.span }
func (*ActivePatternDecl) declNode()          {}
