package types

// TypeEnv is a lexically scoped mapping from binding key to Scheme
// (§4.3). It generalizes the teacher's parent-pointer Scope (see
// internal/types/scope.go in the reference compiler) from untyped
// Symbol lookup to Scheme lookup plus a parallel type-declaration
// table.
type TypeEnv struct {
	parent   *TypeEnv
	bindings map[string]*Scheme
	types    map[string]*TypeDeclBinding
}

// NewTypeEnv creates a root environment with no parent.
func NewTypeEnv() *TypeEnv {
	return &TypeEnv{bindings: map[string]*Scheme{}, types: map[string]*TypeDeclBinding{}}
}

// EnterScope returns a child view. Bindings inserted into the child
// are invisible to the parent; lookups miss in the child before
// falling through to it.
func (e *TypeEnv) EnterScope() *TypeEnv {
	return &TypeEnv{parent: e, bindings: map[string]*Scheme{}, types: map[string]*TypeDeclBinding{}}
}

// Bind introduces or shadows a value binding in this scope.
func (e *TypeEnv) Bind(name string, s *Scheme) { e.bindings[name] = s }

// Lookup searches this scope and its ancestors.
func (e *TypeEnv) Lookup(name string) (*Scheme, bool) {
	for env := e; env != nil; env = env.parent {
		if s, ok := env.bindings[name]; ok {
			return s, true
		}
	}
	return nil, false
}

// LookupBelow searches this scope and its ancestors up to but
// excluding root, reporting whether name resolves to a binding
// introduced strictly between e and root rather than in root itself.
// This is how lambda capture analysis (§4.5) distinguishes a
// function-local binding from a reference to a top-level symbol
// registered directly on the global environment.
func (e *TypeEnv) LookupBelow(name string, root *TypeEnv) (*Scheme, bool) {
	for env := e; env != nil && env != root; env = env.parent {
		if s, ok := env.bindings[name]; ok {
			return s, true
		}
	}
	return nil, false
}

// BindType registers a type declaration (a prelude type or a
// user-defined sum type) in this scope.
func (e *TypeEnv) BindType(name string, b *TypeDeclBinding) { e.types[name] = b }

// LookupType searches this scope and its ancestors for a type
// declaration.
func (e *TypeEnv) LookupType(name string) (*TypeDeclBinding, bool) {
	for env := e; env != nil; env = env.parent {
		if b, ok := env.types[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// FreeVars is the set of type-variable ids free anywhere in the
// environment chain. A binding's own quantifiers are excluded since
// they are locally bound to that scheme, not free in the environment
// around it — this is exactly the set `generalize` must subtract out.
func (e *TypeEnv) FreeVars() map[int]bool {
	out := map[int]bool{}
	for env := e; env != nil; env = env.parent {
		for _, s := range env.bindings {
			free := FreeVars(s.Type)
			for _, q := range s.Quantifiers {
				delete(free, q)
			}
			for id := range free {
				out[id] = true
			}
		}
	}
	return out
}

// TypeDeclBinding is a registered type declaration: a prelude type or
// a user sum type, together with its own quantified parameters and,
// for sum types, its constructor set.
type TypeDeclBinding struct {
	Name         string
	Params       []int
	Constructors []*TypeConstructorBinding
}

// TypeConstructorBinding is one variant of a sum type, registered so
// the constructor name resolves both as a pattern tag and as a
// callable value of type `(payload...) -> Parent<args>` (§4.3).
type TypeConstructorBinding struct {
	Name    string
	Parent  *TypeDeclBinding
	Payload []Type
	Scheme  *Scheme
}

// RegisterSumType builds a TypeDeclBinding for a user sum type and one
// TypeConstructorBinding per variant, binding the constructor name in
// env both as a type-level constructor and as a value-level function
// scheme. params are the declaration's own quantified type-variable
// ids; variants maps each constructor name to its payload types.
func RegisterSumType(env *TypeEnv, name string, params []int, variants []struct {
	Name    string
	Payload []Type
}) *TypeDeclBinding {
	args := make([]Type, len(params))
	for i, id := range params {
		args[i] = &Var{ID: id}
	}
	parentType := Type(&App{Ctor: name, Args: args})

	decl := &TypeDeclBinding{Name: name, Params: params}
	for _, v := range variants {
		ctor := &TypeConstructorBinding{Name: v.Name, Parent: decl, Payload: v.Payload}
		ctor.Scheme = &Scheme{
			Quantifiers: params,
			Type:        &Arrow{Params: v.Payload, Ret: parentType},
		}
		decl.Constructors = append(decl.Constructors, ctor)
		env.Bind(v.Name, ctor.Scheme)
	}
	env.BindType(name, decl)
	return decl
}
