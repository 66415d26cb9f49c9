package harness

import (
	"context"

	"github.com/coderzclub/harness/api"
	"github.com/coderzclub/harness/internal/classify"
	"github.com/coderzclub/harness/internal/judge"
	"github.com/coderzclub/harness/internal/stdinadapt"
)

// caseRef locates one test case within a run: its visibility class and its
// 0-based index inside that class.
type caseRef struct {
	tc         api.TestCase
	visibility api.CaseVisibility
	index      int
}

func collectCases(req *api.RunReq, includeHidden bool) []caseRef {
	refs := make([]caseRef, 0, len(req.TestCases)+len(req.HiddenTestCases))
	for i, tc := range req.TestCases {
		refs = append(refs, caseRef{tc: tc, visibility: api.CasePublic, index: i})
	}
	if includeHidden {
		for i, tc := range req.HiddenTestCases {
			refs = append(refs, caseRef{tc: tc, visibility: api.CaseHidden, index: i})
		}
	}
	return refs
}

// caseRunner is the single sequence both modes pull from: run mode drains it
// exhaustively, submit mode short-circuits on the first failure. Cases are
// judged strictly one at a time with the fixed pacing delay between
// consecutive calls.
type caseRunner struct {
	h      *Harness
	req    *api.RunReq
	source string
	cases  []caseRef
	pos    int

	observed       bool
	maxTimeMs      int64
	maxMemoryBytes int64
	minTimeMs      int64
	minMemoryBytes int64
	lastStatus     judge.Status
}

func newCaseRunner(h *Harness, req *api.RunReq, source string, includeHidden bool) *caseRunner {
	return &caseRunner{
		h:      h,
		req:    req,
		source: source,
		cases:  collectCases(req, includeHidden),
	}
}

func (cr *caseRunner) total() int { return len(cr.cases) }

func (cr *caseRunner) more() bool { return cr.pos < len(cr.cases) }

// next judges the next case in order, emitting StartCase/FinishCase on the
// gatherer. A judge transport error aborts the sequence and is not attributed
// to the case.
func (cr *caseRunner) next(ctx context.Context, gath RunResGatherer) (caseRef, *api.CaseOutcome, error) {
	ref := cr.cases[cr.pos]

	if cr.pos > 0 {
		if err := cr.h.sleep(ctx, cr.h.pacing); err != nil {
			return ref, nil, err
		}
	}
	cr.pos++

	gath.StartCase(ref.visibility, ref.index)

	stdin := stdinadapt.Adapt(ref.tc.Input, cr.req.Parameters)
	res, err := cr.h.judge.Execute(ctx, judge.ExecutionRequest{
		LanguageId: cr.req.LanguageId,
		SourceCode: cr.source,
		Stdin:      stdin,
	})
	if err != nil {
		return ref, nil, err
	}

	cr.observe(res)
	outcome := classify.Outcome(ref.tc, stdin, res)

	streamed := outcome
	if ref.visibility == api.CaseHidden {
		streamed = redact(outcome)
	}
	gath.FinishCase(ref.visibility, ref.index, &streamed)

	return ref, &outcome, nil
}

func (cr *caseRunner) observe(res *judge.ExecutionResult) {
	cr.lastStatus = res.StatusId
	if !cr.observed {
		cr.observed = true
		cr.minTimeMs, cr.maxTimeMs = res.TimeMs, res.TimeMs
		cr.minMemoryBytes, cr.maxMemoryBytes = res.MemoryBytes, res.MemoryBytes
		return
	}
	if res.TimeMs > cr.maxTimeMs {
		cr.maxTimeMs = res.TimeMs
	}
	if res.TimeMs < cr.minTimeMs {
		cr.minTimeMs = res.TimeMs
	}
	if res.MemoryBytes > cr.maxMemoryBytes {
		cr.maxMemoryBytes = res.MemoryBytes
	}
	if res.MemoryBytes < cr.minMemoryBytes {
		cr.minMemoryBytes = res.MemoryBytes
	}
}

func (cr *caseRunner) aggregates() api.CaseAggregates {
	return api.CaseAggregates{
		MinRuntimeMs:   cr.minTimeMs,
		MaxRuntimeMs:   cr.maxTimeMs,
		MinMemoryBytes: cr.minMemoryBytes,
		MaxMemoryBytes: cr.maxMemoryBytes,
	}
}

// redact strips hidden-case detail the end user must not see, keeping only
// the pass/fail signal, resource usage and the user's own error output.
func redact(outcome api.CaseOutcome) api.CaseOutcome {
	outcome.Input = ""
	outcome.Expected = ""
	outcome.Actual = ""
	outcome.Explanation = ""
	return outcome
}
