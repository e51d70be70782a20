// Package capability implements the capability/stage discipline that
// governs which built-in effects a running program may perform at a
// given phase of its lifecycle (§4.7): a CapabilityDescriptor per
// built-in effect, the Stage/StageRequirement model, and the
// compressed residual-leak diagnostic.
package capability

// Stage is a coarse phase of the runtime a capability may be
// restricted to, e.g. Stage0 = compile-time, Stage1 = boot, Stage2 =
// serving (glossary). Higher stages are strictly later in the
// program's lifecycle; ordering is by integer value.
type Stage int

const (
	Stage0 Stage = iota // compile-time
	Stage1              // boot
	Stage2              // serving
	Stage3              // teardown
)

func (s Stage) String() string {
	switch s {
	case Stage0:
		return "Stage0"
	case Stage1:
		return "Stage1"
	case Stage2:
		return "Stage2"
	case Stage3:
		return "Stage3"
	default:
		return "StageN"
	}
}

// RequirementKind distinguishes an open lower bound from a pinned
// exact stage.
type RequirementKind int

const (
	AtLeast RequirementKind = iota
	Exact
)

// StageRequirement is `AtLeast(Stage)` or `Exact(Stage)` (§4.7).
type StageRequirement struct {
	Kind  RequirementKind
	Stage Stage
}

// Satisfies reports whether a runtime-provided stage meets this
// requirement.
func (r StageRequirement) Satisfies(runtime Stage) bool {
	switch r.Kind {
	case Exact:
		return runtime == r.Stage
	default:
		return runtime >= r.Stage
	}
}

// Merge combines two requirements into the stricter of the two. Two
// AtLeast requirements combine to AtLeast(the higher stage); an Exact
// requirement is stricter than any AtLeast one; combining two Exact
// requirements at different stages is a contradiction no program can
// satisfy, so the higher stage is kept as the reported (still
// diagnosable) requirement rather than the solver rejecting the merge
// outright — §4.4's "a mismatch does not abort" principle applied
// here.
func Merge(a, b StageRequirement) StageRequirement {
	switch {
	case a.Kind == Exact && b.Kind == Exact:
		if a.Stage >= b.Stage {
			return a
		}
		return b
	case a.Kind == Exact:
		return a
	case b.Kind == Exact:
		return b
	default:
		if a.Stage >= b.Stage {
			return a
		}
		return b
	}
}

// CapabilityDescriptor fixes the required stage for one built-in
// effect's capability id (glossary: "io.print", "state.get", …).
type CapabilityDescriptor struct {
	ID       string
	Required StageRequirement
}

// builtinDescriptors is the fixed table of descriptors for effects the
// language ships (as opposed to user-defined effects, which bypass
// this check entirely per §4.7).
var builtinDescriptors = map[string]CapabilityDescriptor{
	"io.print":  {ID: "io.print", Required: StageRequirement{Kind: AtLeast, Stage: Stage1}},
	"io.read":   {ID: "io.read", Required: StageRequirement{Kind: AtLeast, Stage: Stage1}},
	"io.file":   {ID: "io.file", Required: StageRequirement{Kind: AtLeast, Stage: Stage2}},
	"state.get": {ID: "state.get", Required: StageRequirement{Kind: AtLeast, Stage: Stage0}},
	"state.set": {ID: "state.set", Required: StageRequirement{Kind: AtLeast, Stage: Stage0}},
	"async.await": {ID: "async.await", Required: StageRequirement{Kind: AtLeast, Stage: Stage2}},
	"net.connect": {ID: "net.connect", Required: StageRequirement{Kind: Exact, Stage: Stage2}},
}

// Lookup returns the descriptor for a built-in capability id. ok is
// false for user-defined effect names, which the caller must treat as
// exempt from stage checking (§4.7).
func Lookup(id string) (CapabilityDescriptor, bool) {
	d, ok := builtinDescriptors[id]
	return d, ok
}
