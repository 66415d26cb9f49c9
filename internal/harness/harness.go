// Package harness drives the remote judge across the test cases of one
// problem, strictly one call at a time, reconciles results against expected
// outputs and produces a deterministic verdict.
package harness

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/coderzclub/harness/api"
	"github.com/coderzclub/harness/internal/backend"
	"github.com/coderzclub/harness/internal/classify"
	"github.com/coderzclub/harness/internal/judge"
	"github.com/coderzclub/harness/internal/langs"
	"github.com/coderzclub/harness/internal/wrap"
)

// casePacing is the fixed delay between consecutive judge calls. It keeps the
// steady-state call rate below the judge's per-key rate limit, independent of
// the client's own backoff.
const casePacing = 600 * time.Millisecond

type Harness struct {
	judge    *judge.Client
	backend  *backend.Client
	sessions *Registry
	scopeKey func(req *api.RunReq) string

	pacing time.Duration
	sleep  func(ctx context.Context, d time.Duration) error
}

// New creates a harness. backendClient may be nil, in which case submit-mode
// runs skip the rate-limit gate and verdict persistence.
func New(judgeClient *judge.Client, backendClient *backend.Client) *Harness {
	return &Harness{
		judge:    judgeClient,
		backend:  backendClient,
		sessions: NewRegistry(),
		scopeKey: func(req *api.RunReq) string { return req.ProblemId },
		pacing:   casePacing,
		sleep:    sleepCtx,
	}
}

// ScopeSessionsByRun keys supersession by run id instead of problem id, so
// concurrent runs for the same problem never silence one another. Queue
// workers serving many users need this; the per-problem default matches a
// single user's editor session.
func (h *Harness) ScopeSessionsByRun() {
	h.scopeKey = func(req *api.RunReq) string { return req.RunUuid }
}

// RunAll executes every public test case in order, regardless of individual
// outcomes, and returns one CaseOutcome per case plus timing/memory
// aggregates.
func (h *Harness) RunAll(ctx context.Context, gath RunResGatherer, req *api.RunReq) (*api.RunAllResult, error) {
	g := h.guard(gath, req)

	cr := newCaseRunner(h, req, prepareSource(req), false)
	g.StartRun(req.ProblemId, ModeRun, cr.total())

	outcomes := make([]api.CaseOutcome, 0, cr.total())
	for cr.more() {
		_, outcome, err := cr.next(ctx, g)
		if err != nil {
			g.FinishWithError(err.Error())
			return nil, err
		}
		outcomes = append(outcomes, *outcome)
	}

	result := &api.RunAllResult{Outcomes: outcomes, Aggregates: cr.aggregates()}
	g.FinishRunAll(result)
	return result, nil
}

// Submit gates on the rate governor, then executes public cases followed by
// hidden cases in order, stopping at the first failure. The terminal verdict
// is persisted to the submission store before being surfaced.
func (h *Harness) Submit(ctx context.Context, gath RunResGatherer, req *api.RunReq) (*api.Verdict, error) {
	g := h.guard(gath, req)

	cr := newCaseRunner(h, req, prepareSource(req), true)
	g.StartRun(req.ProblemId, ModeSubmit, cr.total())

	if decision := h.checkLimits(ctx, req.ProblemId); decision != nil {
		g.RateLimited(decision)
		return &api.Verdict{
			Status:        api.StatusRateLimited,
			TotalCount:    cr.total(),
			FailureReason: decision.Reason,
			RateLimit:     decision,
		}, nil
	}

	passed := 0
	for cr.more() {
		ref, outcome, err := cr.next(ctx, g)
		if err != nil {
			g.FinishWithError(err.Error())
			return nil, err
		}
		if outcome.Passed {
			passed++
			continue
		}

		failed := &api.FailedCase{CaseOutcome: *outcome, Type: ref.visibility, Index: ref.index}
		if ref.visibility == api.CaseHidden {
			failed.CaseOutcome = redact(*outcome)
		}
		verdict := &api.Verdict{
			Status:        api.StatusFailed,
			PassedCount:   passed,
			TotalCount:    cr.total(),
			FailedCase:    failed,
			FailureReason: fmt.Sprintf("Failed on %s test case %d", ref.visibility, ref.index+1),
		}
		h.report(ctx, req, verdict, cr, outcome)
		g.FinishSubmit(verdict)
		return verdict, nil
	}

	verdict := &api.Verdict{
		Status:      api.StatusAccepted,
		PassedCount: cr.total(),
		TotalCount:  cr.total(),
	}
	h.report(ctx, req, verdict, cr, nil)
	g.FinishSubmit(verdict)
	return verdict, nil
}

// RunCustom executes the submission once against caller-provided stdin, with
// no expected output to reconcile against.
func (h *Harness) RunCustom(ctx context.Context, req *api.RunReq, stdin string) (string, *api.ErrorDetail, error) {
	res, err := h.judge.Execute(ctx, judge.ExecutionRequest{
		LanguageId: req.LanguageId,
		SourceCode: prepareSource(req),
		Stdin:      stdin,
	})
	if err != nil {
		return "", nil, err
	}
	actual, errDetail := classify.Classify(res)
	return actual, errDetail, nil
}

func (h *Harness) guard(gath RunResGatherer, req *api.RunReq) RunResGatherer {
	key := h.scopeKey(req)
	runId := h.sessions.Begin(key)
	return &guardedGatherer{
		inner:    gath,
		sessions: h.sessions,
		key:      key,
		runId:    runId,
	}
}

// checkLimits consults the governor. The check is best-effort: an unreachable
// limits endpoint allows the submit rather than blocking the user.
func (h *Harness) checkLimits(ctx context.Context, problemId string) *api.RateLimitDecision {
	if h.backend == nil {
		return nil
	}
	state, err := h.backend.FetchLimits(ctx, problemId)
	if err != nil {
		slog.Warn("limits check unavailable, allowing submit", "error", err)
		return nil
	}

	switch {
	case !state.CanSubmitNow:
		return &api.RateLimitDecision{
			Reason:          "RATE_LIMIT_EXCEEDED",
			CooldownSeconds: state.CooldownSeconds,
		}
	case state.HasExceededDailyLimit:
		return &api.RateLimitDecision{
			Reason:         "DAILY_LIMIT_EXCEEDED",
			RemainingDaily: state.RemainingDaily,
			DailyLimit:     state.DailyLimit,
		}
	case state.HasExceededProblemLimit:
		return &api.RateLimitDecision{
			Reason:         "PROBLEM_LIMIT_EXCEEDED",
			RemainingProbl: state.RemainingProblem,
			ProblemLimit:   state.ProblemLimit,
		}
	}
	return nil
}

// report persists the terminal verdict. Persistence failures are logged and
// flagged on the verdict but never alter or suppress it.
func (h *Harness) report(ctx context.Context, req *api.RunReq, verdict *api.Verdict, cr *caseRunner, failing *api.CaseOutcome) {
	if h.backend == nil {
		return
	}

	rec := buildRecord(req, verdict, cr, failing)
	if err := h.backend.SaveSubmission(ctx, rec); err != nil {
		slog.Error("failed to persist submission record", "problem", req.ProblemId, "error", err)
		verdict.PersistFailed = true
	}
}

func buildRecord(req *api.RunReq, verdict *api.Verdict, cr *caseRunner, failing *api.CaseOutcome) *api.SubmissionRecord {
	result := "ACCEPTED"
	output := "All test cases passed"
	errorMessage := ""
	stderr := ""

	if verdict.Status == api.StatusFailed {
		result = "WRONG_ANSWER"
		output = verdict.FailureReason
		if failing != nil && failing.Error != nil {
			result = string(failing.Error.Kind)
			if failing.Error.Kind == api.RuntimeError && cr.lastStatus.IsRuntimeError() {
				// per-signal verdict, e.g. RUNTIME_ERROR_NZEC
				result = cr.lastStatus.Verdict()
			}
			errorMessage = failing.Error.Message
			stderr = failing.Error.Details
		}
	}

	details := map[string]any{
		"minRuntimeMs":   cr.minTimeMs,
		"maxRuntimeMs":   cr.maxTimeMs,
		"minMemoryBytes": cr.minMemoryBytes,
		"maxMemoryBytes": cr.maxMemoryBytes,
	}
	if verdict.FailedCase != nil {
		details["failedCaseType"] = string(verdict.FailedCase.Type)
		details["failedCaseIndex"] = verdict.FailedCase.Index
	}

	return &api.SubmissionRecord{
		ProblemId:        req.ProblemId,
		Code:             req.SourceCode,
		Language:         langs.Name(req.LanguageId),
		Result:           result,
		Output:           output,
		Runtime:          cr.maxTimeMs,
		Memory:           cr.maxMemoryBytes,
		StatusId:         int(cr.lastStatus),
		Stderr:           stderr,
		ErrorMessage:     errorMessage,
		PassedTestCases:  verdict.PassedCount,
		TotalTestCases:   verdict.TotalCount,
		ExecutionDetails: details,
	}
}

func prepareSource(req *api.RunReq) string {
	if req.ExecutionMode == api.ModeFunction {
		return wrap.ForFunctionCall(req.SourceCode, req.LanguageId, req.FunctionName, req.Parameters)
	}
	return wrap.Normalize(req.SourceCode, req.LanguageId)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
