package ast

import "github.com/sigil-lang/sigil/internal/token"

// LiteralKind distinguishes the primitive literal forms.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitChar
	LitBool
	LitNil
)

// Literal is an int/float/string/char/bool/nil literal expression.
type Literal struct {
	Kind LiteralKind
	Text string // raw lexeme, e.g. "42", base recorded separately for ints
	Base int    // numeric base for LitInt (default 10)
	span token.Span
}

func NewLiteral(kind LiteralKind, text string, base int, span token.Span) *Literal {
	if base == 0 {
		base = 10
	}
	return &Literal{Kind: kind, Text: text, Base: base, span: span}
}
func (l *Literal) Span() token.Span { return l.span }
func (*Literal) exprNode()          {}

// IdentExpr is a bare identifier used as a value.
type IdentExpr struct {
	Name *Ident
	span token.Span
}

func NewIdentExpr(name *Ident, span token.Span) *IdentExpr { return &IdentExpr{Name: name, span: span} }
func (e *IdentExpr) Span() token.Span                       { return e.span }
func (*IdentExpr) exprNode()                                {}

// ModulePathExpr is a `a::b::c` qualified path used as a value.
type ModulePathExpr struct {
	Segments []*Ident
	span     token.Span
}

func NewModulePathExpr(segs []*Ident, span token.Span) *ModulePathExpr {
	return &ModulePathExpr{Segments: segs, span: span}
}
func (e *ModulePathExpr) Span() token.Span { return e.span }
func (*ModulePathExpr) exprNode()          {}

// CallExpr is a direct function call `f(args...)`.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	span   token.Span
}

func NewCallExpr(callee Expr, args []Expr, span token.Span) *CallExpr {
	return &CallExpr{Callee: callee, Args: args, span: span}
}
func (e *CallExpr) Span() token.Span { return e.span }
func (*CallExpr) exprNode()          {}

// PerformExpr is `perform E(args...)`, invoking an effect operation.
type PerformExpr struct {
	Effect *Ident
	Args   []Expr
	span   token.Span
}

func NewPerformExpr(effect *Ident, args []Expr, span token.Span) *PerformExpr {
	return &PerformExpr{Effect: effect, Args: args, span: span}
}
func (e *PerformExpr) Span() token.Span { return e.span }
func (*PerformExpr) exprNode()          {}

// FieldExpr is `target.field`.
type FieldExpr struct {
	Target Expr
	Field  *Ident
	span   token.Span
}

func NewFieldExpr(target Expr, field *Ident, span token.Span) *FieldExpr {
	return &FieldExpr{Target: target, Field: field, span: span}
}
func (e *FieldExpr) Span() token.Span { return e.span }
func (*FieldExpr) exprNode()          {}

// TupleAccessExpr is `target.0`.
type TupleAccessExpr struct {
	Target Expr
	Index  int
	span   token.Span
}

func NewTupleAccessExpr(target Expr, index int, span token.Span) *TupleAccessExpr {
	return &TupleAccessExpr{Target: target, Index: index, span: span}
}
func (e *TupleAccessExpr) Span() token.Span { return e.span }
func (*TupleAccessExpr) exprNode()          {}

// IndexExpr is `target[index]`.
type IndexExpr struct {
	Target Expr
	Index  Expr
	span   token.Span
}

func NewIndexExpr(target, index Expr, span token.Span) *IndexExpr {
	return &IndexExpr{Target: target, Index: index, span: span}
}
func (e *IndexExpr) Span() token.Span { return e.span }
func (*IndexExpr) exprNode()          {}

// Param is a lambda/function parameter.
type Param struct {
	Name *Ident
	Type TypeExpr // optional
	span token.Span
}

func NewParam(name *Ident, typ TypeExpr, span token.Span) *Param {
	return &Param{Name: name, Type: typ, span: span}
}
func (p *Param) Span() token.Span { return p.span }

// LambdaExpr is an anonymous function literal `|params| body` or
// `fn(params) => body`.
type LambdaExpr struct {
	Params []*Param
	Body   Expr
	span   token.Span
}

func NewLambdaExpr(params []*Param, body Expr, span token.Span) *LambdaExpr {
	return &LambdaExpr{Params: params, Body: body, span: span}
}
func (e *LambdaExpr) Span() token.Span { return e.span }
func (*LambdaExpr) exprNode()          {}

// PipeExpr is `lhs |> rhs`, desugaring to a call of rhs with lhs
// prepended as its first argument at typecheck time.
type PipeExpr struct {
	Left  Expr
	Right Expr
	span  token.Span
}

func NewPipeExpr(left, right Expr, span token.Span) *PipeExpr {
	return &PipeExpr{Left: left, Right: right, span: span}
}
func (e *PipeExpr) Span() token.Span { return e.span }
func (*PipeExpr) exprNode()          {}

// BinaryOp enumerates infix operators.
type BinaryOp string

const (
	OpAdd  BinaryOp = "+"
	OpSub  BinaryOp = "-"
	OpMul  BinaryOp = "*"
	OpDiv  BinaryOp = "/"
	OpMod  BinaryOp = "%"
	OpPow  BinaryOp = "^"
	OpAnd  BinaryOp = "&&"
	OpOr   BinaryOp = "||"
	OpEq   BinaryOp = "=="
	OpNe   BinaryOp = "!="
	OpLt   BinaryOp = "<"
	OpLe   BinaryOp = "<="
	OpGt   BinaryOp = ">"
	OpGe   BinaryOp = ">="
)

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
	span  token.Span
}

func NewBinaryExpr(op BinaryOp, left, right Expr, span token.Span) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right, span: span}
}
func (e *BinaryExpr) Span() token.Span { return e.span }
func (*BinaryExpr) exprNode()          {}

// UnaryOp enumerates prefix operators.
type UnaryOp string

const (
	OpNeg UnaryOp = "-"
	OpNot UnaryOp = "!"
)

// UnaryExpr is a prefix operator application.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
	span    token.Span
}

func NewUnaryExpr(op UnaryOp, operand Expr, span token.Span) *UnaryExpr {
	return &UnaryExpr{Op: op, Operand: operand, span: span}
}
func (e *UnaryExpr) Span() token.Span { return e.span }
func (*UnaryExpr) exprNode()          {}

// RecExpr is `rec ident`, a self-reference to an enclosing binding used
// to build recursive values.
type RecExpr struct {
	Name *Ident
	span token.Span
}

func NewRecExpr(name *Ident, span token.Span) *RecExpr { return &RecExpr{Name: name, span: span} }
func (e *RecExpr) Span() token.Span                    { return e.span }
func (*RecExpr) exprNode()                             {}

// PropagateExpr is `expr?`, short-circuiting Result/Option failures.
type PropagateExpr struct {
	Operand Expr
	span    token.Span
}

func NewPropagateExpr(operand Expr, span token.Span) *PropagateExpr {
	return &PropagateExpr{Operand: operand, span: span}
}
func (e *PropagateExpr) Span() token.Span { return e.span }
func (*PropagateExpr) exprNode()          {}

// RangeExpr is `low..high` or `low..=high` used as a value (e.g. the
// iterable in `for x in 0..10`). Range patterns use PatternRange
// instead (ast/pattern.go).
type RangeExpr struct {
	Low, High Expr
	Inclusive bool
	span      token.Span
}

func NewRangeExpr(low, high Expr, inclusive bool, span token.Span) *RangeExpr {
	return &RangeExpr{Low: low, High: high, Inclusive: inclusive, span: span}
}
func (e *RangeExpr) Span() token.Span { return e.span }
func (*RangeExpr) exprNode()          {}

// IfExpr is `if cond { then } else { else }`; Else may be nil.
type IfExpr struct {
	Cond Expr
	Then *BlockExpr
	Else Expr // *BlockExpr or nested *IfExpr, or nil
	span token.Span
}

func NewIfExpr(cond Expr, then *BlockExpr, els Expr, span token.Span) *IfExpr {
	return &IfExpr{Cond: cond, Then: then, Else: els, span: span}
}
func (e *IfExpr) Span() token.Span { return e.span }
func (*IfExpr) exprNode()          {}

// MatchArm is one `pattern [when guard] => body` arm. A guard is
// represented as a PatternGuard wrapping Pattern, not as a separate
// field, so that `p1 | p2 when guard` keeps the guard scoped to the
// whole alternation.
type MatchArm struct {
	Pattern Pattern
	Body    Expr
	span    token.Span
}

func NewMatchArm(pattern Pattern, body Expr, span token.Span) *MatchArm {
	return &MatchArm{Pattern: pattern, Body: body, span: span}
}
func (a *MatchArm) Span() token.Span { return a.span }

// MatchExpr is `match scrutinee { arms... }`.
type MatchExpr struct {
	Scrutinee Expr
	Arms      []*MatchArm
	span      token.Span
}

func NewMatchExpr(scrutinee Expr, arms []*MatchArm, span token.Span) *MatchExpr {
	return &MatchExpr{Scrutinee: scrutinee, Arms: arms, span: span}
}
func (e *MatchExpr) Span() token.Span { return e.span }
func (*MatchExpr) exprNode()          {}

// WhileExpr is `while cond { body }`.
type WhileExpr struct {
	Cond Expr
	Body *BlockExpr
	span token.Span
}

func NewWhileExpr(cond Expr, body *BlockExpr, span token.Span) *WhileExpr {
	return &WhileExpr{Cond: cond, Body: body, span: span}
}
func (e *WhileExpr) Span() token.Span { return e.span }
func (*WhileExpr) exprNode()          {}

// ForExpr is `for pat in iter { body }`.
type ForExpr struct {
	Pattern Pattern
	Iter    Expr
	Body    *BlockExpr
	span    token.Span
}

func NewForExpr(pattern Pattern, iter Expr, body *BlockExpr, span token.Span) *ForExpr {
	return &ForExpr{Pattern: pattern, Iter: iter, Body: body, span: span}
}
func (e *ForExpr) Span() token.Span { return e.span }
func (*ForExpr) exprNode()          {}

// LoopExpr is `loop { body }`, an unconditional loop exited via break.
type LoopExpr struct {
	Body *BlockExpr
	span token.Span
}

func NewLoopExpr(body *BlockExpr, span token.Span) *LoopExpr { return &LoopExpr{Body: body, span: span} }
func (e *LoopExpr) Span() token.Span                         { return e.span }
func (*LoopExpr) exprNode()                                  {}

// HandleExpr is `handle expr with handler`.
type HandleExpr struct {
	Body    Expr
	Handler Expr
	span    token.Span
}

func NewHandleExpr(body, handler Expr, span token.Span) *HandleExpr {
	return &HandleExpr{Body: body, Handler: handler, span: span}
}
func (e *HandleExpr) Span() token.Span { return e.span }
func (*HandleExpr) exprNode()          {}

// BlockExpr is `{ stmts... [tail] }`, optionally carrying attributes
// and defers accumulated from DeferStmt statements within it.
type BlockExpr struct {
	Attrs []*Attr
	Stmts []Stmt
	Tail  Expr // optional trailing expression
	span  token.Span
}

func NewBlockExpr(attrs []*Attr, stmts []Stmt, span token.Span) *BlockExpr {
	return &BlockExpr{Attrs: attrs, Stmts: stmts, span: span}
}
func (e *BlockExpr) Span() token.Span        { return e.span }
func (e *BlockExpr) SetSpan(span token.Span) { e.span = span }
func (*BlockExpr) exprNode()                 {}

// UnsafeExpr is `unsafe { body }`.
type UnsafeExpr struct {
	Body *BlockExpr
	span token.Span
}

func NewUnsafeExpr(body *BlockExpr, span token.Span) *UnsafeExpr { return &UnsafeExpr{Body: body, span: span} }
func (e *UnsafeExpr) Span() token.Span                           { return e.span }
func (*UnsafeExpr) exprNode()                                    {}

// DeferExpr is the expression form of `defer expr` used as a statement
// tail; see DeferStmt for the statement form.
type DeferExpr struct {
	Operand Expr
	span    token.Span
}

func NewDeferExpr(operand Expr, span token.Span) *DeferExpr { return &DeferExpr{Operand: operand, span: span} }
func (e *DeferExpr) Span() token.Span                        { return e.span }
func (*DeferExpr) exprNode()                                 {}

// EffectBlockExpr is `effect { body }`, scoping a region where a set of
// effects is expected to be discharged.
type EffectBlockExpr struct {
	Effects []*Ident
	Body    *BlockExpr
	span    token.Span
}

func NewEffectBlockExpr(effects []*Ident, body *BlockExpr, span token.Span) *EffectBlockExpr {
	return &EffectBlockExpr{Effects: effects, Body: body, span: span}
}
func (e *EffectBlockExpr) Span() token.Span { return e.span }
func (*EffectBlockExpr) exprNode()          {}

// AsyncExpr is `async { body }`.
type AsyncExpr struct {
	Body *BlockExpr
	span token.Span
}

func NewAsyncExpr(body *BlockExpr, span token.Span) *AsyncExpr { return &AsyncExpr{Body: body, span: span} }
func (e *AsyncExpr) Span() token.Span                          { return e.span }
func (*AsyncExpr) exprNode()                                   {}

// AwaitExpr is `await expr`.
type AwaitExpr struct {
	Operand Expr
	span    token.Span
}

func NewAwaitExpr(operand Expr, span token.Span) *AwaitExpr { return &AwaitExpr{Operand: operand, span: span} }
func (e *AwaitExpr) Span() token.Span                        { return e.span }
func (*AwaitExpr) exprNode()                                 {}

// BreakExpr is `break [value]`.
type BreakExpr struct {
	Value Expr // optional
	span  token.Span
}

func NewBreakExpr(value Expr, span token.Span) *BreakExpr { return &BreakExpr{Value: value, span: span} }
func (e *BreakExpr) Span() token.Span                      { return e.span }
func (*BreakExpr) exprNode()                               {}

// ContinueExpr is `continue`.
type ContinueExpr struct{ span token.Span }

func NewContinueExpr(span token.Span) *ContinueExpr { return &ContinueExpr{span: span} }
func (e *ContinueExpr) Span() token.Span            { return e.span }
func (*ContinueExpr) exprNode()                     {}

// ReturnExpr is `return [value]`.
type ReturnExpr struct {
	Value Expr // optional
	span  token.Span
}

func NewReturnExpr(value Expr, span token.Span) *ReturnExpr { return &ReturnExpr{Value: value, span: span} }
func (e *ReturnExpr) Span() token.Span                       { return e.span }
func (*ReturnExpr) exprNode()                                {}

// AssignExpr is `target = value`.
type AssignExpr struct {
	Target Expr
	Value  Expr
	span   token.Span
}

func NewAssignExpr(target, value Expr, span token.Span) *AssignExpr {
	return &AssignExpr{Target: target, Value: value, span: span}
}
func (e *AssignExpr) Span() token.Span { return e.span }
func (*AssignExpr) exprNode()          {}

// InlineAsmExpr is `inline_asm(template, ins..., outs...)`, restricted
// to native-ABI-safe types per §4.5.
type InlineAsmExpr struct {
	Template string
	Inputs   []Expr
	Outputs  []Expr
	span     token.Span
}

func NewInlineAsmExpr(template string, ins, outs []Expr, span token.Span) *InlineAsmExpr {
	return &InlineAsmExpr{Template: template, Inputs: ins, Outputs: outs, span: span}
}
func (e *InlineAsmExpr) Span() token.Span { return e.span }
func (*InlineAsmExpr) exprNode()          {}

// LLVMIRExpr is `llvm_ir!(text)`.
type LLVMIRExpr struct {
	Text string
	span token.Span
}

func NewLLVMIRExpr(text string, span token.Span) *LLVMIRExpr { return &LLVMIRExpr{Text: text, span: span} }
func (e *LLVMIRExpr) Span() token.Span                        { return e.span }
func (*LLVMIRExpr) exprNode()                                 {}
