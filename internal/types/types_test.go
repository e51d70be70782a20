package types

import (
	"strconv"
	"testing"
)

func TestBuiltinString(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"int", TInt, "Int"},
		{"unit", TUnit, "Unit"},
		{"unknown", TUnknown, "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVarGenMonotonic(t *testing.T) {
	var gen VarGen
	a := gen.Fresh()
	b := gen.Fresh()
	if a.ID >= b.ID {
		t.Fatalf("Fresh() ids not monotonically increasing: %d then %d", a.ID, b.ID)
	}
}

func TestAppAndArrowString(t *testing.T) {
	list := &App{Ctor: "List", Args: []Type{TInt}}
	if got, want := list.String(), "List<Int>"; got != want {
		t.Errorf("List<Int>.String() = %q, want %q", got, want)
	}

	fn := &Arrow{Params: []Type{TInt, TBool}, Ret: TStr}
	if got, want := fn.String(), "(Int, Bool) -> Str"; got != want {
		t.Errorf("Arrow.String() = %q, want %q", got, want)
	}
}

func TestReferenceString(t *testing.T) {
	r := &Ref{Mutable: true, Elem: TInt}
	if got, want := r.String(), "&mut Int"; got != want {
		t.Errorf("Ref.String() = %q, want %q", got, want)
	}
	r2 := &Ref{Elem: TInt}
	if got, want := r2.String(), "&Int"; got != want {
		t.Errorf("Ref.String() = %q, want %q", got, want)
	}
}

func TestSubstitutionApplyRecursesThroughStructure(t *testing.T) {
	var gen VarGen
	v1 := gen.Fresh()
	v2 := gen.Fresh()

	sub := Substitution{v1.ID: TInt, v2.ID: &Slice{Elem: TBool}}
	in := &Arrow{Params: []Type{v1, &Ref{Elem: v2}}, Ret: v1}

	out := sub.Apply(in).(*Arrow)
	if out.Params[0].String() != "Int" {
		t.Errorf("Params[0] = %s, want Int", out.Params[0])
	}
	if out.Params[1].String() != "&[Bool]" {
		t.Errorf("Params[1] = %s, want &[Bool]", out.Params[1])
	}
	if out.Ret.String() != "Int" {
		t.Errorf("Ret = %s, want Int", out.Ret)
	}
}

func TestSubstitutionApplyChainsThroughBoundVariables(t *testing.T) {
	var gen VarGen
	v1 := gen.Fresh()
	v2 := gen.Fresh()

	// v1 -> v2 -> Int: applying the substitution to v1 must follow the
	// whole chain down to the concrete type, not stop at v2.
	sub := Substitution{v1.ID: v2, v2.ID: TInt}
	if got := sub.Apply(v1).String(); got != "Int" {
		t.Errorf("Apply(v1) = %s, want Int", got)
	}
}

func TestFreeVars(t *testing.T) {
	var gen VarGen
	v1 := gen.Fresh()
	v2 := gen.Fresh()

	typ := &Arrow{Params: []Type{v1, TInt}, Ret: &Slice{Elem: v2}}
	free := FreeVars(typ)
	if len(free) != 2 || !free[v1.ID] || !free[v2.ID] {
		t.Errorf("FreeVars = %v, want {%d, %d}", free, v1.ID, v2.ID)
	}
}

func TestGeneralizeExcludesVarsFreeInEnv(t *testing.T) {
	var gen VarGen
	bound := gen.Fresh()  // free in env: x : bound
	local := gen.Fresh()  // free only in the inferred type

	env := NewTypeEnv()
	env.Bind("x", MonoScheme(bound))

	inferred := &Arrow{Params: []Type{bound}, Ret: local}
	scheme := Generalize(env, inferred, nil)

	if len(scheme.Quantifiers) != 1 || scheme.Quantifiers[0] != local.ID {
		t.Errorf("Quantifiers = %v, want [%d]", scheme.Quantifiers, local.ID)
	}
}

func TestInstantiateProducesFreshVariablesEachCall(t *testing.T) {
	var gen VarGen
	q := gen.Fresh()
	scheme := &Scheme{Quantifiers: []int{q.ID}, Type: &Slice{Elem: q}}

	t1, _ := Instantiate(&gen, scheme)
	t2, _ := Instantiate(&gen, scheme)

	if t1.String() == t2.String() {
		t.Errorf("two instantiations produced the same type %s; want fresh variables", t1)
	}
}

func TestInstantiateMonoSchemeIsNoop(t *testing.T) {
	var gen VarGen
	scheme := MonoScheme(TInt)
	out, cs := Instantiate(&gen, scheme)
	if out != TInt {
		t.Errorf("Instantiate(mono) = %v, want the same TInt value", out)
	}
	if cs != nil {
		t.Errorf("Instantiate(mono) constraints = %v, want nil", cs)
	}
}

func TestTypeEnvEnterScopeIsolatesChildFromParent(t *testing.T) {
	root := NewTypeEnv()
	root.Bind("x", MonoScheme(TInt))

	child := root.EnterScope()
	child.Bind("y", MonoScheme(TBool))

	if _, ok := root.Lookup("y"); ok {
		t.Errorf("child binding %q leaked into parent", "y")
	}
	if s, ok := child.Lookup("x"); !ok || s.Type != TInt {
		t.Errorf("child lookup of parent binding %q failed", "x")
	}
}

func TestTypeEnvChildShadowsParent(t *testing.T) {
	root := NewTypeEnv()
	root.Bind("x", MonoScheme(TInt))

	child := root.EnterScope()
	child.Bind("x", MonoScheme(TBool))

	if s, _ := child.Lookup("x"); s.Type != TBool {
		t.Errorf("child lookup of shadowed %q = %v, want Bool", "x", s.Type)
	}
	if s, _ := root.Lookup("x"); s.Type != TInt {
		t.Errorf("parent binding of %q was mutated by child shadow", "x")
	}
}

func TestRegisterPreludeBindsKnownConstructors(t *testing.T) {
	env := NewTypeEnv()
	RegisterPrelude(env)

	for _, name := range []string{"Option", "Result", "List", "Iter", "Vec", "Map", "Set", "String", "Future", "Range"} {
		if _, ok := env.LookupType(name); !ok {
			t.Errorf("prelude type %q not registered", name)
		}
	}
	opt, _ := env.LookupType("Option")
	if len(opt.Params) != 1 {
		t.Errorf("Option arity = %d, want 1", len(opt.Params))
	}
	str, _ := env.LookupType("String")
	if len(str.Params) != 0 {
		t.Errorf("String arity = %d, want 0", len(str.Params))
	}
}

func TestRegisterSumTypeBindsConstructorAsCallableScheme(t *testing.T) {
	env := NewTypeEnv()
	var gen VarGen
	tv := gen.Fresh()

	decl := RegisterSumType(env, "Option", []int{tv.ID}, []struct {
		Name    string
		Payload []Type
	}{
		{Name: "Some", Payload: []Type{tv}},
		{Name: "None", Payload: nil},
	})

	if len(decl.Constructors) != 2 {
		t.Fatalf("Constructors = %d, want 2", len(decl.Constructors))
	}

	scheme, ok := env.Lookup("Some")
	if !ok {
		t.Fatal("constructor `Some` not bound as a value")
	}
	if len(scheme.Quantifiers) != 1 {
		t.Errorf("Some scheme quantifiers = %v, want 1 entry", scheme.Quantifiers)
	}
	arrow, ok := scheme.Type.(*Arrow)
	if !ok {
		t.Fatalf("Some scheme type = %T, want *Arrow", scheme.Type)
	}
	if len(arrow.Params) != 1 {
		t.Errorf("Some arrow params = %v, want 1 payload type", arrow.Params)
	}
	if got, want := arrow.Ret.String(), "Option<t"+strconv.Itoa(tv.ID)+">"; got != want {
		t.Errorf("Some arrow return = %q, want %q", got, want)
	}

	if typ, ok := env.LookupType("Option"); !ok || typ != decl {
		t.Errorf("type-level binding for Option missing or mismatched")
	}
}
