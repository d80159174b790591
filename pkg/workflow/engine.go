// This file implements the validation engine: the concurrency
// orchestration that runs every gate over every document.
//
// # Engine
//
// Documents validate in parallel through a bounded worker pool; within
// one document the gates run concurrently, each writing its own
// pre-allocated slot. Nothing mutates shared state, so the only
// synchronization is the pool and wait group themselves.
//
// External tools are probed exactly once, when the engine is built.
// Gates whose tool failed its probe get an unavailable stub so the hot
// path never branches on availability.
//
// Cancellation is cooperative: documents not yet started are skipped,
// in-flight tool subprocesses are killed by their context, and the
// suite folds to a partial status.

package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"

	"github.com/wfgate/gh-wfgate/pkg/constants"
	"github.com/wfgate/gh-wfgate/pkg/logger"
)

var engineLog = logger.New("workflow:engine")

// gateRun is the raw outcome of one gate over one document, before
// suppression filtering
type gateRun struct {
	gate     *Gate
	findings []Finding
	toolUsed string
	duration time.Duration
}

// Engine runs the configured gates over documents
type Engine struct {
	env    *RunEnv
	gates  []*Gate
	probes map[constants.GateID]ToolProbe
}

// NewEngine builds an engine for one run: gate set per mode, tools
// probed once, stubs swapped in for missing binaries.
func NewEngine(ctx context.Context, env *RunEnv) *Engine {
	if env == nil {
		env = NewRunEnv()
	}
	env.normalize()

	e := &Engine{
		env:    env,
		gates:  buildGates(env),
		probes: make(map[constants.GateID]ToolProbe),
	}
	for _, g := range e.gates {
		if g.Tool == nil {
			continue
		}
		probe := g.Tool.Probe(ctx)
		e.probes[g.ID] = probe
		if !probe.Available {
			engineLog.Printf("Gate %s: tool %s unavailable, built-in checks only", g.ID, g.Tool.Name())
			g.Tool = newUnavailableTool(g.Tool.Name())
		}
	}
	return e
}

// ToolProbes returns the probe results keyed by gate, for report notes
// that distinguish "no issues" from "degraded run".
func (e *Engine) ToolProbes() map[constants.GateID]ToolProbe {
	probes := make(map[constants.GateID]ToolProbe, len(e.probes))
	for id, probe := range e.probes {
		probes[id] = probe
	}
	return probes
}

// Env returns the run configuration the engine was built with
func (e *Engine) Env() *RunEnv {
	return e.env
}

// ValidateDirectory validates every workflow document under root.
// The returned error is fatal: the root exists but cannot be read.
func (e *Engine) ValidateDirectory(ctx context.Context, root string) (*SuiteResult, error) {
	docs, err := LoadDocuments(root)
	if err != nil {
		return nil, err
	}
	return e.ValidateDocuments(ctx, docs), nil
}

// ValidateFiles validates an explicit list of workflow files
func (e *Engine) ValidateFiles(ctx context.Context, paths []string) *SuiteResult {
	return e.ValidateDocuments(ctx, LoadFiles(paths))
}

// ValidateDocuments runs the gate set over every document through a
// bounded pool and folds the outcomes into an immutable SuiteResult.
func (e *Engine) ValidateDocuments(ctx context.Context, docs []*Document) *SuiteResult {
	if len(docs) == 0 {
		return &SuiteResult{
			Status:    SuiteNoDocuments,
			Documents: []DocumentResult{},
			ExitCode:  ExitOK,
		}
	}

	engineLog.Printf("Validating %d documents with %d gates, parallelism %d",
		len(docs), len(e.gates), e.env.MaxParallel)

	var completed atomic.Int64
	results := make([]*DocumentResult, len(docs))
	p := pool.New().WithMaxGoroutines(e.env.MaxParallel)
	for i, doc := range docs {
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			dr := e.validateDocument(ctx, doc)
			results[i] = &dr
			if e.env.Progress != nil {
				e.env.Progress(int(completed.Add(1)), len(docs))
			}
		})
	}
	p.Wait()

	return e.foldSuite(ctx, results)
}

// validateDocument runs every gate concurrently over one document, each
// gate writing its own slot.
func (e *Engine) validateDocument(ctx context.Context, doc *Document) DocumentResult {
	if doc.ReadError != nil {
		return e.unreadableDocumentResult(doc)
	}

	runs := make([]gateRun, len(e.gates))
	var wg conc.WaitGroup
	for i, g := range e.gates {
		wg.Go(func() {
			runs[i] = e.runGate(ctx, g, doc)
		})
	}
	wg.Wait()

	return e.aggregateDocument(doc, runs)
}

// runGate executes a gate's detectors and, when its tool survived the
// probe, merges the tool's findings on top. Tool failure never degrades
// below the built-in result.
func (e *Engine) runGate(ctx context.Context, g *Gate, doc *Document) gateRun {
	start := time.Now()
	findings := g.runDetectors(e.env, doc)
	toolUsed := string(constants.BuiltInToolName)

	if probe := e.probes[g.ID]; g.Tool != nil && probe.Available {
		toolCtx, cancel := context.WithTimeout(ctx, e.env.ToolTimeout)
		toolFindings, err := g.Tool.Run(toolCtx, doc)
		cancel()

		switch {
		case err == nil:
			findings = mergeToolFindings(findings, toolFindings)
			toolUsed = probe.Version
		case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
			engineLog.Printf("Gate %s: %s timed out on %s after %s",
				g.ID, g.Tool.Name(), doc.Path, e.env.ToolTimeout)
			findings = append(findings, Finding{
				Gate:     g.ID,
				RuleID:   constants.RuleExternalToolTimeout,
				Severity: SeverityInfo,
				Line:     0,
				Message: fmt.Sprintf("%s timed out after %s; this gate used built-in checks only",
					g.Tool.Name(), e.env.ToolTimeout),
				Tool: string(constants.BuiltInToolName),
			})
		default:
			engineLog.Printf("Gate %s: %s failed on %s: %v", g.ID, g.Tool.Name(), doc.Path, err)
		}
	}

	return gateRun{
		gate:     g,
		findings: findings,
		toolUsed: toolUsed,
		duration: time.Since(start),
	}
}

// unreadableDocumentResult reports a document whose bytes never loaded:
// the syntax gate carries the read error, every other gate skips.
func (e *Engine) unreadableDocumentResult(doc *Document) DocumentResult {
	gates := make([]GateResult, 0, len(e.gates))
	for _, g := range e.gates {
		gr := GateResult{
			Gate:     g.ID,
			Status:   GateSkipped,
			ToolUsed: string(constants.BuiltInToolName),
			Findings: []Finding{},
		}
		if g.ID == constants.GateSyntax {
			gr.Status = GateFailed
			gr.Findings = []Finding{{
				Gate:        constants.GateSyntax,
				RuleID:      constants.RuleUnreadableFile,
				Severity:    SeverityError,
				Line:        0,
				Message:     fmt.Sprintf("cannot read workflow file: %v", doc.ReadError),
				Remediation: "Check the file's permissions and encoding",
				Tool:        string(constants.BuiltInToolName),
			}}
		}
		gates = append(gates, gr)
	}
	return DocumentResult{Path: doc.Path, Gates: gates}
}
