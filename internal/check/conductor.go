package check

import (
	"github.com/sigil-lang/sigil/internal/ast"
	"github.com/sigil-lang/sigil/internal/types"
)

// checkConductor typechecks the pipeline DSL block (§4.8): the
// pipeline expression, each channel's payload type against the global
// environment, and the optional execution/monitoring blocks, which run
// in a scope seeded with the pipeline's result so they can refer to it.
func (c *Checker) checkConductor(decl *ast.ConductorDecl) {
	le := newLocalEnv(c.Global)
	pipelineT := c.inferExpr(le, decl.Pipeline)
	for _, stage := range decl.Stages {
		for _, arg := range stage.Args {
			c.inferExpr(le, arg)
		}
	}
	for _, ch := range decl.Channels {
		c.resolveType(ch.Payload, tvarScope{})
	}
	block := le.child()
	block.env.Bind("pipeline", types.MonoScheme(pipelineT))
	if decl.Execution != nil {
		c.inferBlock(block, decl.Execution)
	}
	if decl.Monitoring != nil {
		c.inferBlock(block, decl.Monitoring)
	}
}
