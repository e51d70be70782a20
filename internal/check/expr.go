package check

import (
	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/token"
	"github.com/sigil-lang/sigil/internal/types"
)

// localEnv threads a lexically-scoped TypeEnv plus the enclosing
// loop-result type (for `break value`) through one inference walk.
type localEnv struct {
	env        *types.TypeEnv
	loopResult *types.Type // shared slot unified against every `break value` in the nearest loop
}

func newLocalEnv(parent *types.TypeEnv) *localEnv {
	return &localEnv{env: parent.EnterScope()}
}

func (l *localEnv) child() *localEnv {
	return &localEnv{env: l.env.EnterScope(), loopResult: l.loopResult}
}

// checkBodies is pass 2 (§4.5): infer every function, active pattern,
// impl method, actor handler, conductor, and top-level expression.
func (c *Checker) checkBodies(mod *ast.Module) {
	for _, fn := range mod.Functions {
		c.checkFunction(fn)
	}
	for _, ap := range mod.ActivePatterns {
		c.checkActivePattern(ap)
	}
	for _, d := range mod.Decls {
		switch decl := d.(type) {
		case *ast.ImplDecl:
			for _, m := range decl.Methods {
				c.checkMethod(m)
			}
		case *ast.TraitDecl:
			for _, m := range decl.Methods {
				if m.Body != nil {
					c.checkFunction(m)
				}
			}
		case *ast.HandlerDecl:
			c.checkHandler(decl)
		case *ast.ActorDecl:
			c.checkActor(decl)
		case *ast.ConductorDecl:
			c.checkConductor(decl)
		}
	}
	for _, expr := range mod.TopLevelExprs {
		le := newLocalEnv(c.Global)
		c.inferExpr(le, expr)
	}
}

func (c *Checker) checkFunction(fn *ast.FnDecl) {
	if fn.Body == nil {
		return // signature-only prototype (extern / trait method)
	}
	scheme, ok := c.Global.Lookup(fn.Name.Name)
	if !ok {
		return
	}
	fnType, _ := types.Instantiate(c.Gen, scheme)
	arrow, ok := fnType.(*types.Arrow)
	if !ok {
		return
	}
	c.checkFunctionBody(fn, arrow)
}

// checkMethod typechecks an impl method body against a freshly built
// signature rather than one looked up in Global: two impls for
// different target types may legitimately declare a method with the
// same name, so impl methods never enter the flat function namespace
// registerFunction populates (§4.5).
func (c *Checker) checkMethod(fn *ast.FnDecl) {
	if fn.Body == nil {
		return
	}
	arrow, _ := c.buildSignature(fn)
	c.checkFunctionBody(fn, arrow)
}

func (c *Checker) checkFunctionBody(fn *ast.FnDecl, arrow *types.Arrow) {
	le := newLocalEnv(c.Global)
	for i, p := range fn.Params {
		if i < len(arrow.Params) {
			le.env.Bind(p.Name.Name, types.MonoScheme(arrow.Params[i]))
		}
	}
	pure := fn.HasAttr("pure")
	c.pushPurity(pure)
	c.currentNative = fn.HasAttr("native")
	c.currentCfgTarget = fn.HasAttr("cfg")
	if fn.HasAttr("intrinsic") {
		c.checkIntrinsic(fn)
	}
	bodyType := c.inferExpr(le, fn.Body)
	c.popPurity()
	c.currentNative, c.currentCfgTarget = false, false
	c.unify(bodyType, arrow.Ret, fn.Body.Span())
}

// checkIntrinsic enforces §4.5's @intrinsic restriction: the function
// must also carry the @native attribute and its signature may only use
// Int/Bool/Unit or tuples of those. A function declaration has no
// effect row, so a `!{native}` effect is not what is checked.
func (c *Checker) checkIntrinsic(fn *ast.FnDecl) {
	if !fn.HasAttr("native") {
		c.Diags.Add(diag.Diagnostic{
			Severity: diag.SeverityError, Domain: diag.DomainEffects,
			Code: diag.CodeEffectsIntrinsicMissing, Message: "@intrinsic function must declare !{native}",
			PrimarySpan: fn.Span(), Recoverability: diag.Recoverable,
		})
	}
	for _, p := range fn.Params {
		if p.Type != nil && !nativeSafe(c.resolveType(p.Type, tvarScope{})) {
			c.Diags.Add(diag.Diagnostic{
				Severity: diag.SeverityError, Domain: diag.DomainEffects,
				Code: diag.CodeEffectsNativeInvalidType, Message: "@intrinsic parameter type is not native-ABI-safe",
				PrimarySpan: p.Span(), Recoverability: diag.Recoverable,
			})
		}
	}
	if fn.Return != nil && !nativeSafe(c.resolveType(fn.Return, tvarScope{})) {
		c.Diags.Add(diag.Diagnostic{
			Severity: diag.SeverityError, Domain: diag.DomainEffects,
			Code: diag.CodeEffectsNativeInvalidType, Message: "@intrinsic return type is not native-ABI-safe",
			PrimarySpan: fn.Return.Span(), Recoverability: diag.Recoverable,
		})
	}
}

func nativeSafe(t types.Type) bool {
	switch tt := t.(type) {
	case *types.Builtin:
		return tt.Kind == types.Int || tt.Kind == types.Bool || tt.Kind == types.Unit
	case *types.App:
		if tt.Ctor != "Tuple" {
			return false
		}
		for _, a := range tt.Args {
			if !nativeSafe(a) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// nativeIOSafe is the wider native-ABI-safe rule for inline_asm/llvm_ir!
// operand types (§4.5): Int/UInt/Float/Bool/Char/Unit, `&T` references,
// Ptr/MutPtr/ConstPtr/NonNullPtr, and tuples of those. It is deliberately
// separate from nativeSafe, which stays narrower for @intrinsic
// signatures.
func nativeIOSafe(t types.Type) bool {
	switch tt := t.(type) {
	case *types.Builtin:
		switch tt.Kind {
		case types.Int, types.UInt, types.Float, types.Bool, types.Char, types.Unit, types.Unknown:
			return true
		default:
			return false
		}
	case *types.Var:
		return true
	case *types.Ref:
		return nativeIOSafe(tt.Elem)
	case *types.App:
		switch tt.Ctor {
		case "Ptr", "MutPtr", "ConstPtr", "NonNullPtr":
			for _, a := range tt.Args {
				if !nativeIOSafe(a) {
					return false
				}
			}
			return true
		case "Tuple":
			for _, a := range tt.Args {
				if !nativeIOSafe(a) {
					return false
				}
			}
			return true
		default:
			return false
		}
	default:
		return false
	}
}

// checkNativeIOType restricts one inline_asm/llvm_ir! operand to
// nativeIOSafe, reporting native.inline.invalid_type otherwise.
func (c *Checker) checkNativeIOType(t types.Type, span token.Span) {
	if !nativeIOSafe(c.resolve(t)) {
		c.Diags.Add(diag.Diagnostic{
			Severity: diag.SeverityError, Domain: diag.DomainEffects,
			Code: diag.CodeEffectsNativeInvalidType, Message: "inline native operand type is not native-ABI-safe",
			PrimarySpan: span, Recoverability: diag.Recoverable,
		})
	}
}

// inferExpr is the structural walk generating fresh type variables,
// unifying eagerly through the solver, and recording each expression's
// resolved type in c.ExprTypes.
func (c *Checker) inferExpr(le *localEnv, e ast.Expr) types.Type {
	t := c.inferExprInner(le, e)
	c.ExprTypes[e] = t
	return t
}

func (c *Checker) inferExprInner(le *localEnv, e ast.Expr) types.Type {
	switch n := e.(type) {
	case *ast.Literal:
		return literalType(n)
	case *ast.IdentExpr:
		return c.lookupValue(le, n.Name.Name, n.Span())
	case *ast.ModulePathExpr:
		return c.lookupValue(le, qualifiedName(n.Segments), n.Span())
	case *ast.CallExpr:
		return c.inferCall(le, n)
	case *ast.PerformExpr:
		return c.inferPerform(le, n)
	case *ast.FieldExpr:
		c.inferExpr(le, n.Target)
		return c.fresh() // field types are not resolved; the access gets a fresh variable
	case *ast.TupleAccessExpr:
		tt := c.inferExpr(le, n.Target)
		if app, ok := c.resolve(tt).(*types.App); ok && app.Ctor == "Tuple" && n.Index < len(app.Args) {
			return app.Args[n.Index]
		}
		return c.fresh()
	case *ast.IndexExpr:
		target := c.inferExpr(le, n.Target)
		elem := c.fresh()
		c.unify(target, &types.Slice{Elem: elem}, n.Span())
		c.inferExpr(le, n.Index)
		return elem
	case *ast.LambdaExpr:
		return c.inferLambda(le, n)
	case *ast.PipeExpr:
		left := c.inferExpr(le, n.Left)
		call, ok := n.Right.(*ast.CallExpr)
		if !ok {
			c.inferExpr(le, n.Right)
			return c.fresh()
		}
		args := append([]types.Type{left}, c.inferArgs(le, call.Args)...)
		return c.applyCallee(le, call.Callee, args, n.Span())
	case *ast.BinaryExpr:
		return c.inferBinary(le, n)
	case *ast.UnaryExpr:
		operand := c.inferExpr(le, n.Operand)
		if n.Op == ast.OpNot {
			c.unify(operand, types.TBool, n.Span())
			return types.TBool
		}
		return operand
	case *ast.RecExpr:
		if _, ok := le.env.Lookup(n.Name.Name); !ok {
			c.Diags.Add(diag.Diagnostic{
				Severity: diag.SeverityError, Domain: diag.DomainType,
				Code: diag.CodeTypeUnresolvedIdent, Message: "rec refers to unresolved identifier " + n.Name.Name,
				PrimarySpan: n.Span(), Recoverability: diag.Recoverable,
			})
			return types.TUnknown
		}
		return c.lookupValue(le, n.Name.Name, n.Span())
	case *ast.PropagateExpr:
		inner := c.inferExpr(le, n.Operand)
		ok := c.fresh()
		errT := c.fresh()
		c.unify(inner, &types.App{Ctor: "Result", Args: []types.Type{ok, errT}}, n.Span())
		return ok
	case *ast.RangeExpr:
		c.unify(c.inferExpr(le, n.Low), types.TInt, n.Span())
		c.unify(c.inferExpr(le, n.High), types.TInt, n.Span())
		return &types.App{Ctor: "Range", Args: []types.Type{types.TInt}}
	case *ast.IfExpr:
		return c.inferIf(le, n)
	case *ast.MatchExpr:
		return c.inferMatch(le, n)
	case *ast.WhileExpr:
		c.checkConditionIsBool(c.inferExpr(le, n.Cond), n.Cond.Span())
		c.inferBlock(le.child(), n.Body)
		return types.TUnit
	case *ast.ForExpr:
		iter := c.inferExpr(le, n.Iter)
		elem := c.fresh()
		c.unify(iter, &types.Slice{Elem: elem}, n.Span())
		body := le.child()
		c.inferPattern(body, n.Pattern, elem)
		c.inferBlock(body, n.Body)
		return types.TUnit
	case *ast.LoopExpr:
		result := c.fresh()
		body := le.child()
		body.loopResult = &result
		c.inferBlock(body, n.Body)
		return result
	case *ast.HandleExpr:
		bodyT := c.inferExpr(le, n.Body)
		c.inferExpr(le, n.Handler)
		return bodyT
	case *ast.BlockExpr:
		return c.inferBlock(le.child(), n)
	case *ast.UnsafeExpr:
		return c.inferBlock(le.child(), n.Body)
	case *ast.DeferExpr:
		c.inferExpr(le, n.Operand)
		return types.TUnit
	case *ast.EffectBlockExpr:
		return c.inferBlock(le.child(), n.Body)
	case *ast.AsyncExpr:
		inner := c.inferBlock(le.child(), n.Body)
		return &types.App{Ctor: "Future", Args: []types.Type{inner}}
	case *ast.AwaitExpr:
		inner := c.inferExpr(le, n.Operand)
		elem := c.fresh()
		c.unify(inner, &types.App{Ctor: "Future", Args: []types.Type{elem}}, n.Span())
		c.requireCapability(le, "async.await", n.Span())
		return elem
	case *ast.BreakExpr:
		if n.Value != nil {
			v := c.inferExpr(le, n.Value)
			if le.loopResult != nil {
				c.unify(v, *le.loopResult, n.Span())
			}
		}
		return c.fresh()
	case *ast.ContinueExpr:
		return c.fresh()
	case *ast.ReturnExpr:
		if n.Value != nil {
			c.inferExpr(le, n.Value)
		}
		return c.fresh()
	case *ast.AssignExpr:
		c.checkCapturedMutation(n.Target)
		target := c.inferExpr(le, n.Target)
		value := c.inferExpr(le, n.Value)
		c.unify(target, value, n.Span())
		return types.TUnit
	case *ast.InlineAsmExpr:
		c.checkNativeExpr(n.Span())
		for _, in := range n.Inputs {
			c.checkNativeIOType(c.inferExpr(le, in), in.Span())
		}
		for _, out := range n.Outputs {
			c.checkNativeIOType(c.inferExpr(le, out), out.Span())
		}
		return types.TUnit
	case *ast.LLVMIRExpr:
		c.checkNativeExpr(n.Span())
		return c.fresh()
	default:
		return types.TUnknown
	}
}

// checkNativeExpr enforces §4.5's inline_asm/llvm_ir! requirement: the
// enclosing function must declare !{native} and carry an @cfg(target_
// ...) guard.
func (c *Checker) checkNativeExpr(span token.Span) {
	if !c.currentNative {
		c.Diags.Add(diag.Diagnostic{
			Severity: diag.SeverityError, Domain: diag.DomainEffects,
			Code: diag.CodeEffectsNativeMissingFx, Message: "inline native code requires an enclosing !{native} function",
			PrimarySpan: span, Recoverability: diag.Recoverable,
		})
	}
	if !c.currentCfgTarget {
		c.Diags.Add(diag.Diagnostic{
			Severity: diag.SeverityError, Domain: diag.DomainEffects,
			Code: diag.CodeEffectsNativeMissingCfg, Message: "inline native code requires an @cfg(target_...) guard",
			PrimarySpan: span, Recoverability: diag.Recoverable,
		})
	}
}

func literalType(l *ast.Literal) types.Type {
	switch l.Kind {
	case ast.LitInt:
		return types.TInt
	case ast.LitFloat:
		return types.TFloat
	case ast.LitString:
		return types.TStr
	case ast.LitChar:
		return types.TChar
	case ast.LitBool:
		return types.TBool
	case ast.LitNil:
		return &types.App{Ctor: "Option", Args: []types.Type{types.TUnknown}}
	default:
		return types.TUnknown
	}
}

func (c *Checker) lookupValue(le *localEnv, name string, span token.Span) types.Type {
	scheme, ok := le.env.Lookup(name)
	if !ok {
		c.Diags.Add(diag.Diagnostic{
			Severity: diag.SeverityError, Domain: diag.DomainType,
			Code: diag.CodeTypeUnresolvedIdent, Message: "unresolved identifier " + name,
			PrimarySpan: span, Recoverability: diag.Recoverable,
		})
		return types.TUnknown
	}
	t, constraints := types.Instantiate(c.Gen, scheme)
	for _, cn := range constraints {
		c.Solver.Add(cn, span)
	}
	return t
}
