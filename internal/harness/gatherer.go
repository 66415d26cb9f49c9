package harness

import "github.com/coderzclub/harness/api"

// RunResGatherer receives streaming progress while a run is in flight. The
// harness calls it from a single goroutine, in event order.
type RunResGatherer interface {
	StartRun(problemId string, mode Mode, totalCases int)

	StartCase(visibility api.CaseVisibility, index int)
	FinishCase(visibility api.CaseVisibility, index int, outcome *api.CaseOutcome)

	RateLimited(decision *api.RateLimitDecision)

	FinishWithError(msg string)
	FinishRunAll(result *api.RunAllResult)
	FinishSubmit(verdict *api.Verdict)
}

// Mode names the two orchestration modes.
type Mode string

const (
	ModeRun    Mode = "run"
	ModeSubmit Mode = "submit"
)

// guardedGatherer forwards events only while its invocation is still the
// newest one in its supersession scope, so late results from superseded runs
// never reach the UI.
type guardedGatherer struct {
	inner    RunResGatherer
	sessions *Registry
	key      string
	runId    uint64
}

func (g *guardedGatherer) live() bool {
	return g.sessions.Current(g.key, g.runId)
}

func (g *guardedGatherer) StartRun(problemId string, mode Mode, totalCases int) {
	if g.live() {
		g.inner.StartRun(problemId, mode, totalCases)
	}
}

func (g *guardedGatherer) StartCase(visibility api.CaseVisibility, index int) {
	if g.live() {
		g.inner.StartCase(visibility, index)
	}
}

func (g *guardedGatherer) FinishCase(visibility api.CaseVisibility, index int, outcome *api.CaseOutcome) {
	if g.live() {
		g.inner.FinishCase(visibility, index, outcome)
	}
}

func (g *guardedGatherer) RateLimited(decision *api.RateLimitDecision) {
	if g.live() {
		g.inner.RateLimited(decision)
	}
}

func (g *guardedGatherer) FinishWithError(msg string) {
	if g.live() {
		g.inner.FinishWithError(msg)
	}
}

func (g *guardedGatherer) FinishRunAll(result *api.RunAllResult) {
	if g.live() {
		g.inner.FinishRunAll(result)
	}
}

func (g *guardedGatherer) FinishSubmit(verdict *api.Verdict) {
	if g.live() {
		g.inner.FinishSubmit(verdict)
	}
}
