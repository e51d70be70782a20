package ast

// Walk traverses the AST starting from node, calling fn for each node.
// If fn returns false, Walk stops descending into that node's children
// (but traversal of siblings continues).
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Module:
		if n.Header != nil {
			Walk(n.Header, fn)
		}
		for _, u := range n.Uses {
			Walk(u, fn)
		}
		for _, e := range n.Effects {
			Walk(e, fn)
		}
		for _, f := range n.Functions {
			Walk(f, fn)
		}
		for _, p := range n.ActivePatterns {
			Walk(p, fn)
		}
		for _, d := range n.Decls {
			Walk(d, fn)
		}
		for _, e := range n.TopLevelExprs {
			Walk(e, fn)
		}

	case *ModuleHeader:
		for _, id := range n.Path {
			Walk(id, fn)
		}

	case *UseDecl:
		for _, id := range n.Path {
			Walk(id, fn)
		}
		if n.Alias != nil {
			Walk(n.Alias, fn)
		}

	case *Attr:
		for _, a := range n.Args {
			Walk(a, fn)
		}

	// --- declarations ---

	case *LetDecl:
		Walk(n.Name, fn)
		if n.Type != nil {
			Walk(n.Type, fn)
		}
		Walk(n.Value, fn)

	case *VarDecl:
		Walk(n.Name, fn)
		if n.Type != nil {
			Walk(n.Type, fn)
		}
		Walk(n.Value, fn)

	case *ConstDecl:
		Walk(n.Name, fn)
		if n.Type != nil {
			Walk(n.Type, fn)
		}
		Walk(n.Value, fn)

	case *FnDecl:
		Walk(n.Name, fn)
		for _, p := range n.Params {
			Walk(p, fn)
		}
		if n.Return != nil {
			Walk(n.Return, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *TypeDecl:
		Walk(n.Name, fn)
		Walk(n.Body, fn)

	case *StructDecl:
		Walk(n.Name, fn)
		for _, f := range n.Fields {
			Walk(f, fn)
		}

	case *StructField:
		Walk(n.Name, fn)
		Walk(n.Type, fn)

	case *EnumDecl:
		Walk(n.Name, fn)
		for _, v := range n.Variants {
			Walk(v, fn)
		}

	case *EnumVariant:
		Walk(n.Name, fn)
		for _, t := range n.Payload {
			Walk(t, fn)
		}

	case *TraitDecl:
		Walk(n.Name, fn)
		for _, m := range n.Methods {
			Walk(m, fn)
		}
		for _, a := range n.AssociatedTypes {
			Walk(a, fn)
		}

	case *AssociatedTypeDecl:
		Walk(n.Name, fn)
		for _, b := range n.Bounds {
			Walk(b, fn)
		}

	case *ImplDecl:
		if n.Trait != nil {
			Walk(n.Trait, fn)
		}
		Walk(n.Target, fn)
		for _, m := range n.Methods {
			Walk(m, fn)
		}

	case *ExternDecl:
		for _, d := range n.Decls {
			Walk(d, fn)
		}

	case *EffectDecl:
		Walk(n.Name, fn)
		for _, o := range n.Ops {
			Walk(o, fn)
		}

	case *EffectOp:
		Walk(n.Name, fn)
		for _, p := range n.Params {
			Walk(p, fn)
		}
		if n.Return != nil {
			Walk(n.Return, fn)
		}

	case *HandlerDecl:
		Walk(n.Name, fn)
		Walk(n.Effect, fn)
		for _, c := range n.Clauses {
			Walk(c, fn)
		}

	case *HandlerClause:
		Walk(n.Op, fn)
		for _, p := range n.Params {
			Walk(p, fn)
		}
		Walk(n.Body, fn)

	case *NestedModuleDecl:
		Walk(n.Name, fn)
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *MacroDecl:
		Walk(n.Name, fn)
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *ActorDecl:
		Walk(n.Name, fn)
		for _, s := range n.State {
			Walk(s, fn)
		}
		for _, h := range n.Handlers {
			Walk(h, fn)
		}

	case *ActorHandler:
		Walk(n.Message, fn)
		for _, p := range n.Params {
			Walk(p, fn)
		}
		if n.Body != nil {
			Walk(n.Body, fn)
		}

	case *ConductorDecl:
		Walk(n.DslID, fn)
		Walk(n.Target, fn)
		Walk(n.Pipeline, fn)
		for _, s := range n.Stages {
			Walk(s, fn)
		}
		for _, c := range n.Channels {
			Walk(c, fn)
		}
		if n.Execution != nil {
			Walk(n.Execution, fn)
		}
		if n.Monitoring != nil {
			Walk(n.Monitoring, fn)
		}

	case *ConductorStage:
		Walk(n.Name, fn)
		for _, a := range n.Args {
			Walk(a, fn)
		}

	case *ConductorChannel:
		Walk(n.From, fn)
		Walk(n.To, fn)
		if n.Payload != nil {
			Walk(n.Payload, fn)
		}

	case *ActivePatternDecl:
		Walk(n.Name, fn)
		for _, p := range n.Params {
			Walk(p, fn)
		}
		Walk(n.Body, fn)

	// --- statements ---

	case *DeclStmt:
		Walk(n.Decl, fn)

	case *ExprStmt:
		Walk(n.Expr, fn)

	case *AssignStmt:
		Walk(n.Target, fn)
		Walk(n.Value, fn)

	case *DeferStmt:
		Walk(n.Expr, fn)

	// --- expressions ---

	case *Literal:
		// leaf

	case *IdentExpr:
		// leaf

	case *ModulePathExpr:
		for _, id := range n.Segments {
			Walk(id, fn)
		}

	case *CallExpr:
		Walk(n.Callee, fn)
		for _, a := range n.Args {
			Walk(a, fn)
		}

	case *PerformExpr:
		Walk(n.Effect, fn)
		for _, a := range n.Args {
			Walk(a, fn)
		}

	case *FieldExpr:
		Walk(n.Target, fn)
		Walk(n.Field, fn)

	case *TupleAccessExpr:
		Walk(n.Target, fn)

	case *IndexExpr:
		Walk(n.Target, fn)
		Walk(n.Index, fn)

	case *Param:
		Walk(n.Name, fn)
		if n.Type != nil {
			Walk(n.Type, fn)
		}

	case *LambdaExpr:
		for _, p := range n.Params {
			Walk(p, fn)
		}
		Walk(n.Body, fn)

	case *PipeExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)

	case *UnaryExpr:
		Walk(n.Operand, fn)

	case *RecExpr:
		Walk(n.Name, fn)

	case *PropagateExpr:
		Walk(n.Operand, fn)

	case *RangeExpr:
		Walk(n.Low, fn)
		Walk(n.High, fn)

	case *IfExpr:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		if n.Else != nil {
			Walk(n.Else, fn)
		}

	case *MatchExpr:
		Walk(n.Scrutinee, fn)
		for _, a := range n.Arms {
			Walk(a, fn)
		}

	case *MatchArm:
		Walk(n.Pattern, fn)
		Walk(n.Body, fn)

	case *WhileExpr:
		Walk(n.Cond, fn)
		Walk(n.Body, fn)

	case *ForExpr:
		Walk(n.Pattern, fn)
		Walk(n.Iter, fn)
		Walk(n.Body, fn)

	case *LoopExpr:
		Walk(n.Body, fn)

	case *HandleExpr:
		Walk(n.Body, fn)
		Walk(n.Handler, fn)

	case *BlockExpr:
		for _, a := range n.Attrs {
			Walk(a, fn)
		}
		for _, s := range n.Stmts {
			Walk(s, fn)
		}
		if n.Tail != nil {
			Walk(n.Tail, fn)
		}

	case *UnsafeExpr:
		Walk(n.Body, fn)

	case *DeferExpr:
		Walk(n.Operand, fn)

	case *EffectBlockExpr:
		for _, e := range n.Effects {
			Walk(e, fn)
		}
		Walk(n.Body, fn)

	case *AsyncExpr:
		Walk(n.Body, fn)

	case *AwaitExpr:
		Walk(n.Operand, fn)

	case *BreakExpr:
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *ContinueExpr:
		// leaf

	case *ReturnExpr:
		if n.Value != nil {
			Walk(n.Value, fn)
		}

	case *AssignExpr:
		Walk(n.Target, fn)
		Walk(n.Value, fn)

	case *InlineAsmExpr:
		for _, e := range n.Inputs {
			Walk(e, fn)
		}
		for _, e := range n.Outputs {
			Walk(e, fn)
		}

	case *LLVMIRExpr:
		// leaf

	// --- patterns ---

	case *PatternWild:
		// leaf

	case *PatternVar:
		Walk(n.Name, fn)

	case *PatternLiteral:
		Walk(n.Lit, fn)

	case *PatternTuple:
		for _, p := range n.Elems {
			Walk(p, fn)
		}

	case *RecordFieldPattern:
		Walk(n.Name, fn)
		if n.Pattern != nil {
			Walk(n.Pattern, fn)
		}

	case *PatternRecord:
		if n.Type != nil {
			Walk(n.Type, fn)
		}
		for _, f := range n.Fields {
			Walk(f, fn)
		}

	case *PatternConstructor:
		Walk(n.Name, fn)
		for _, p := range n.Payload {
			Walk(p, fn)
		}

	case *PatternBinding:
		Walk(n.Name, fn)
		Walk(n.Sub, fn)

	case *PatternOr:
		for _, p := range n.Alts {
			Walk(p, fn)
		}

	case *PatternSlice:
		for _, p := range n.Elems {
			Walk(p, fn)
		}
		if n.RestName != nil {
			Walk(n.RestName, fn)
		}

	case *PatternRange:
		Walk(n.Low, fn)
		Walk(n.High, fn)

	case *PatternRegex:
		// leaf

	case *PatternActive:
		Walk(n.Name, fn)
		for _, p := range n.Args {
			Walk(p, fn)
		}

	case *PatternGuard:
		Walk(n.Sub, fn)
		Walk(n.Guard, fn)

	// --- type expressions ---

	case *NamedType:
		for _, id := range n.Path {
			Walk(id, fn)
		}

	case *GenericType:
		Walk(n.Base, fn)
		for _, a := range n.Args {
			Walk(a, fn)
		}

	case *FunctionType:
		for _, p := range n.Params {
			Walk(p, fn)
		}
		for _, e := range n.Effects {
			Walk(e, fn)
		}
		Walk(n.Return, fn)

	case *SliceType:
		Walk(n.Elem, fn)

	case *ArrayType:
		Walk(n.Len, fn)
		Walk(n.Elem, fn)

	case *TupleType:
		for _, t := range n.Elems {
			Walk(t, fn)
		}

	case *ReferenceType:
		Walk(n.Target, fn)

	case *TypeVarRef:
		Walk(n.Name, fn)

	case *ForallType:
		Walk(n.Body, fn)

	case *ExistentialType:
		Walk(n.Body, fn)

	case *ProjectedType:
		Walk(n.Base, fn)
		Walk(n.Assoc, fn)

	case *EffectRowType:
		Walk(n.Base, fn)
		for _, e := range n.Effects {
			Walk(e, fn)
		}

	case *Ident:
		// leaf
	}
}
