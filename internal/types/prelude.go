package types

// preludeCtor is one entry of the fixed prelude type-constructor table
// (§4.3): name plus arity (how many type arguments it takes).
type preludeCtor struct {
	name  string
	arity int
}

var preludeCtors = []preludeCtor{
	{"Option", 1},
	{"Result", 2},
	{"List", 1},
	{"Iter", 1},
	{"Vec", 1},
	{"Map", 2},
	{"Set", 1},
	{"String", 0},
	{"Future", 1},
	{"Range", 1},
}

// RegisterPrelude pre-registers the builtin generic type constructors
// every module sees without an explicit `use`: Option, Result, List,
// Iter, Vec, Map, Set, String, Future<T>, Range<T> (§4.3). It binds
// only the type-level declarations; internal/check binds the value
// constructors Some/None and Ok/Err when a Checker is created, and no
// other prelude values are registered.
func RegisterPrelude(env *TypeEnv) {
	for _, c := range preludeCtors {
		// Negative ids for declaration-owned parameters keep them out
		// of the positive range VarGen hands out for inference
		// variables, so the two id spaces never collide.
		params := make([]int, c.arity)
		for i := range params {
			params[i] = -(i + 1)
		}
		env.BindType(c.name, &TypeDeclBinding{Name: c.name, Params: params})
	}
}
