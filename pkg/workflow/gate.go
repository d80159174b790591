// This file defines the gate model: what a gate is, which detectors it
// runs, and which external tool can deepen it.
//
// # Gates
//
// A gate is a named list of detector functions plus an optional external
// tool. Detectors are plain typed functions, not a class hierarchy; each
// inspects one aspect of a document and returns raw findings. Suppression
// filtering happens later in the aggregator, so detectors never consult
// the suppression index.
//
// The five gates run in a canonical order for reporting purposes even
// though they execute concurrently:
//
//	syntax, reference-pinning, permissions, secret-hygiene, antipattern
//
// Quick mode keeps only syntax and reference-pinning.
//
// # When to Add a Detector
//
// Add a detector here only when the rule needs position-aware access to
// the parse tree. Rules expressible as JSON schema shapes belong in the
// embedded schema; rules an external tool already covers should come from
// the tool so built-in work stays small.

package workflow

import (
	"runtime"
	"time"

	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/envutil"
	"github.com/wfgate/gh-wfgate/pkg/logger"
)

var gateLog = logger.New("workflow:gate")

// Detector inspects one aspect of a document and returns raw findings.
// Detectors must be pure: no I/O, no shared mutable state, safe to run
// concurrently with other detectors over the same document.
type Detector func(env *RunEnv, doc *Document) []Finding

// Gate groups the detectors and the optional external tool for one
// validation concern
type Gate struct {
	ID        constants.GateID
	Detectors []Detector
	// Tool deepens the gate with an external analyzer when available.
	// Nil for gates that are purely built-in.
	Tool Tool
}

// runDetectors executes every detector and concatenates their findings
func (g *Gate) runDetectors(env *RunEnv, doc *Document) []Finding {
	var findings []Finding
	for _, detect := range g.Detectors {
		findings = append(findings, detect(env, doc)...)
	}
	return findings
}

// RunEnv carries the per-run configuration shared by every gate
type RunEnv struct {
	// Conventions is the repository tuning, nil for built-in defaults
	Conventions *Conventions
	// Quick restricts the run to the syntax and reference-pinning gates
	Quick bool
	// Strict promotes warnings to failures for exit purposes
	Strict bool
	// NoTools disables external tool integration entirely
	NoTools bool
	// ToolTimeout bounds each external tool invocation
	ToolTimeout time.Duration
	// MaxParallel bounds how many documents validate concurrently
	MaxParallel int
	// Progress, when set, is called after each document finishes with
	// the completed count and the total. Calls arrive from pool
	// goroutines; the callback must be safe for concurrent use.
	Progress func(done, total int)
}

// NewRunEnv returns a RunEnv with defaults applied: tool timeout from
// the environment or 10s, parallelism matching the host CPU count.
func NewRunEnv() *RunEnv {
	timeoutSecs := envutil.GetIntFromEnv(constants.EnvToolTimeout,
		int(constants.DefaultToolTimeout/time.Second), 1, 600, gateLog)
	return &RunEnv{
		ToolTimeout: time.Duration(timeoutSecs) * time.Second,
		MaxParallel: runtime.NumCPU(),
	}
}

// normalize fills zero values with defaults so a hand-built RunEnv
// behaves like one from NewRunEnv
func (env *RunEnv) normalize() {
	if env.ToolTimeout <= 0 {
		env.ToolTimeout = constants.DefaultToolTimeout
	}
	if env.MaxParallel <= 0 {
		env.MaxParallel = runtime.NumCPU()
	}
}

// buildGates constructs the gate set for a run. Quick mode keeps only
// the gates named in the quick set; tools attach unless disabled.
func buildGates(env *RunEnv) []*Gate {
	all := []*Gate{
		syntaxGate(),
		referencePinningGate(),
		permissionsGate(),
		secretHygieneGate(),
		antipatternGate(),
	}

	if !env.NoTools {
		for _, g := range all {
			switch g.ID {
			case constants.GateSyntax:
				g.Tool = newActionlintTool()
			case constants.GateAntipattern:
				g.Tool = newZizmorTool()
			}
		}
	}

	if !env.Quick {
		return all
	}

	quick := make([]*Gate, 0, len(constants.QuickModeGates))
	for _, g := range all {
		for _, id := range constants.QuickModeGates {
			if g.ID == id {
				quick = append(quick, g)
				break
			}
		}
	}
	gateLog.Printf("Quick mode: running %d of %d gates", len(quick), len(all))
	return quick
}
