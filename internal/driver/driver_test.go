package driver_test

import (
	"testing"

	"github.com/sigil-lang/sigil/internal/capability"
	"github.com/sigil-lang/sigil/internal/diag"
	"github.com/sigil-lang/sigil/internal/driver"
)

func newRuntime(stage capability.Stage, caps ...string) capability.Runtime {
	set := map[string]bool{}
	for _, c := range caps {
		set[c] = true
	}
	return capability.Runtime{Stage: stage, CapabilitySet: set}
}

func TestDecodeRunConfigRoundTrips(t *testing.T) {
	const doc = `
packrat: true
trace: true
merge_warnings: false
allow_top_level_expr: true
filename: app.sg
extensions:
  target:
    profile_id: wasm32
`
	cfg, err := driver.DecodeRunConfig([]byte(doc))
	if err != nil {
		t.Fatalf("DecodeRunConfig: %v", err)
	}
	if !cfg.Packrat || !cfg.Trace || !cfg.AllowTopLevelExpr {
		t.Fatalf("expected packrat/trace/allow_top_level_expr to decode true, got %+v", cfg)
	}
	if cfg.MergeWarnings {
		t.Fatalf("expected merge_warnings false, got true")
	}
	if cfg.TargetProfile() != "wasm32" {
		t.Fatalf("expected target profile wasm32, got %q", cfg.TargetProfile())
	}
}

func TestParseReturnsMetricsAndTrace(t *testing.T) {
	const src = `
module app;

fn main() {
	1
}
`
	res := driver.Parse(src, driver.RunConfig{Packrat: true, Trace: true, AllowTopLevelExpr: true})
	if res.Module == nil {
		t.Fatalf("expected a non-nil module")
	}
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if res.Trace == nil {
		t.Fatalf("expected trace events with WithTrace enabled")
	}
}

func TestRunTypechecksAWellFormedModule(t *testing.T) {
	const src = `
module app;

fn add(a: Int, b: Int) -> Int {
	a + b
}
`
	pr, tr := driver.Run(src, driver.RunConfig{}, newRuntime(capability.Stage2))
	if len(pr.Diagnostics) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", pr.Diagnostics)
	}
	if tr == nil {
		t.Fatalf("expected a typecheck report")
	}
	for _, d := range tr.Diagnostics {
		t.Errorf("unexpected typecheck diagnostic: %s: %s", d.Code, d.Message)
	}
	if tr.Mir == nil || len(tr.Mir.Functions) != 1 {
		t.Fatalf("expected one lowered function, got %+v", tr.Mir)
	}
}

func TestRunShortCircuitsOnUnparsableInput(t *testing.T) {
	pr, tr := driver.Run("@@@ not sigil source @@@", driver.RunConfig{}, newRuntime(capability.Stage2))
	if len(pr.Diagnostics) == 0 {
		t.Fatalf("expected the malformed input to raise parse diagnostics")
	}
	if tr == nil {
		t.Fatalf("expected a short-circuit typecheck report")
	}
	if len(tr.Diagnostics) != 1 || tr.Diagnostics[0].Code != diag.CodeParserASTUnavailable {
		t.Fatalf("expected a single ast_unavailable diagnostic, got %v", tr.Diagnostics)
	}
}
