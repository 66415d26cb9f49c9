package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderzclub/harness/api"
	"github.com/coderzclub/harness/internal/backend"
	"github.com/coderzclub/harness/internal/judge"
)

// recGatherer records every event it receives, in order.
type recGatherer struct {
	events   []string
	outcomes []api.CaseOutcome
	rate     *api.RateLimitDecision
	runAll   *api.RunAllResult
	verdict  *api.Verdict
	errMsg   string
}

func (r *recGatherer) StartRun(problemId string, mode Mode, totalCases int) {
	r.events = append(r.events, fmt.Sprintf("start_run %s %s %d", problemId, mode, totalCases))
}

func (r *recGatherer) StartCase(vis api.CaseVisibility, idx int) {
	r.events = append(r.events, fmt.Sprintf("case_start %s %d", vis, idx))
}

func (r *recGatherer) FinishCase(vis api.CaseVisibility, idx int, outcome *api.CaseOutcome) {
	r.events = append(r.events, fmt.Sprintf("case_finish %s %d passed=%v", vis, idx, outcome.Passed))
	r.outcomes = append(r.outcomes, *outcome)
}

func (r *recGatherer) RateLimited(decision *api.RateLimitDecision) {
	r.events = append(r.events, "rate_limited "+decision.Reason)
	r.rate = decision
}

func (r *recGatherer) FinishWithError(msg string) {
	r.events = append(r.events, "finish_error")
	r.errMsg = msg
}

func (r *recGatherer) FinishRunAll(result *api.RunAllResult) {
	r.events = append(r.events, "finish_run_all")
	r.runAll = result
}

func (r *recGatherer) FinishSubmit(verdict *api.Verdict) {
	r.events = append(r.events, "finish_submit "+string(verdict.Status))
	r.verdict = verdict
}

// judgeStub serves one canned response body per call, repeating the last one.
type judgeStub struct {
	srv       *httptest.Server
	calls     int
	requests  []judge.ExecutionRequest
	responses []string
}

func newJudgeStub(responses ...string) *judgeStub {
	stub := &judgeStub{responses: responses}
	stub.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req judge.ExecutionRequest
		json.NewDecoder(r.Body).Decode(&req)
		stub.requests = append(stub.requests, req)

		i := stub.calls
		stub.calls++
		if i >= len(stub.responses) {
			i = len(stub.responses) - 1
		}
		body := stub.responses[i]
		if body == "boom" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, body)
	}))
	return stub
}

func judgeBody(stdout string, statusId int, timeSec string, memKb int) string {
	b, _ := json.Marshal(map[string]any{
		"stdout":         stdout,
		"stderr":         nil,
		"compile_output": nil,
		"time":           timeSec,
		"memory":         memKb,
		"status":         map[string]any{"id": statusId, "description": "desc"},
	})
	return string(b)
}

func newTestHarness(js *judgeStub, bk *backend.Client) (*Harness, *[]time.Duration) {
	jc := judge.NewClient(js.srv.URL, "k", "h")
	jc.HttpClient = js.srv.Client()

	h := New(jc, bk)
	slept := &[]time.Duration{}
	h.sleep = func(ctx context.Context, d time.Duration) error {
		*slept = append(*slept, d)
		return nil
	}
	return h, slept
}

func publicReq(n int) *api.RunReq {
	req := &api.RunReq{
		RunUuid:       "run-1",
		ProblemId:     "two-sum",
		SourceCode:    "print('ok')",
		LanguageId:    71,
		ExecutionMode: api.ModeStdinStdout,
	}
	for i := 0; i < n; i++ {
		req.TestCases = append(req.TestCases, api.TestCase{
			Input:  fmt.Sprintf("in-%d", i),
			Output: "ok",
		})
	}
	return req
}

func TestRunAll_ExhaustiveWithAggregates(t *testing.T) {
	js := newJudgeStub(
		judgeBody("bad\n", 4, "0.010", 1024),
		judgeBody("ok\n", 3, "0.030", 4096),
		judgeBody("ok\n", 3, "0.020", 2048),
	)
	defer js.srv.Close()

	h, slept := newTestHarness(js, nil)
	gath := &recGatherer{}
	result, err := h.RunAll(context.Background(), gath, publicReq(3))
	require.NoError(t, err)

	require.Len(t, result.Outcomes, 3)
	assert.False(t, result.Outcomes[0].Passed)
	assert.True(t, result.Outcomes[1].Passed)
	assert.True(t, result.Outcomes[2].Passed)
	assert.Equal(t, 3, js.calls)

	assert.Equal(t, int64(10), result.Aggregates.MinRuntimeMs)
	assert.Equal(t, int64(30), result.Aggregates.MaxRuntimeMs)
	assert.Equal(t, int64(1024*1024), result.Aggregates.MinMemoryBytes)
	assert.Equal(t, int64(4096*1024), result.Aggregates.MaxMemoryBytes)

	// pacing sleeps happen between calls, never before the first
	require.Len(t, *slept, 2)
	assert.Equal(t, casePacing, (*slept)[0])

	assert.Equal(t, []string{
		"start_run two-sum run 3",
		"case_start public 0",
		"case_finish public 0 passed=false",
		"case_start public 1",
		"case_finish public 1 passed=true",
		"case_start public 2",
		"case_finish public 2 passed=true",
		"finish_run_all",
	}, gath.events)
}

func TestRunAll_JudgeFailureAbortsRun(t *testing.T) {
	js := newJudgeStub(judgeBody("ok\n", 3, "0.010", 1024), "boom")
	defer js.srv.Close()

	h, _ := newTestHarness(js, nil)
	gath := &recGatherer{}
	_, err := h.RunAll(context.Background(), gath, publicReq(3))
	require.Error(t, err)

	// the failure is not attributed to any case
	assert.Equal(t, 2, js.calls)
	assert.Equal(t, "finish_error", gath.events[len(gath.events)-1])
	assert.Len(t, gath.outcomes, 1)
}

func TestSubmit_StopsAtFirstFailure(t *testing.T) {
	var saved *api.SubmissionRecord
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/submissions/limits":
			fmt.Fprint(w, `{"canSubmitNow": true}`)
		case "/api/submissions":
			var rec api.SubmissionRecord
			require.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
			saved = &rec
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer backendSrv.Close()

	js := newJudgeStub(
		judgeBody("ok\n", 3, "0.010", 1024),
		judgeBody("bad\n", 4, "0.020", 1024),
	)
	defer js.srv.Close()

	req := publicReq(2)
	req.HiddenTestCases = []api.TestCase{
		{Input: "h0", Output: "ok"},
		{Input: "h1", Output: "ok"},
		{Input: "h2", Output: "ok"},
	}

	h, _ := newTestHarness(js, backend.NewClient(backendSrv.URL, ""))
	gath := &recGatherer{}
	verdict, err := h.Submit(context.Background(), gath, req)
	require.NoError(t, err)

	assert.Equal(t, api.StatusFailed, verdict.Status)
	assert.Equal(t, 1, verdict.PassedCount)
	assert.Equal(t, 5, verdict.TotalCount)
	require.NotNil(t, verdict.FailedCase)
	assert.Equal(t, api.CasePublic, verdict.FailedCase.Type)
	assert.Equal(t, 1, verdict.FailedCase.Index)
	assert.Equal(t, "Failed on public test case 2", verdict.FailureReason)

	// hidden cases were never executed
	assert.Equal(t, 2, js.calls)

	require.NotNil(t, saved)
	assert.Equal(t, "WRONG_ANSWER", saved.Result)
	assert.Equal(t, 1, saved.PassedTestCases)
	assert.Equal(t, 5, saved.TotalTestCases)
}

func TestSubmit_AllPassAccepted(t *testing.T) {
	var saved *api.SubmissionRecord
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/submissions/limits":
			fmt.Fprint(w, `{"canSubmitNow": true}`)
		case "/api/submissions":
			var rec api.SubmissionRecord
			json.NewDecoder(r.Body).Decode(&rec)
			saved = &rec
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer backendSrv.Close()

	js := newJudgeStub(judgeBody("ok\n", 3, "0.010", 1024))
	defer js.srv.Close()

	req := publicReq(2)
	req.HiddenTestCases = []api.TestCase{{Input: "h0", Output: "ok"}}

	h, _ := newTestHarness(js, backend.NewClient(backendSrv.URL, ""))
	gath := &recGatherer{}
	verdict, err := h.Submit(context.Background(), gath, req)
	require.NoError(t, err)

	assert.Equal(t, api.StatusAccepted, verdict.Status)
	assert.Equal(t, 3, verdict.PassedCount)
	assert.Equal(t, 3, verdict.TotalCount)
	assert.Nil(t, verdict.FailedCase)
	assert.False(t, verdict.PersistFailed)
	assert.Equal(t, 3, js.calls)

	require.NotNil(t, saved)
	assert.Equal(t, "ACCEPTED", saved.Result)
	assert.Equal(t, "Python", saved.Language)
}

func TestSubmit_HiddenFailureIsRedacted(t *testing.T) {
	js := newJudgeStub(
		judgeBody("ok\n", 3, "0.010", 1024),
		judgeBody("bad\n", 4, "0.020", 1024),
	)
	defer js.srv.Close()

	req := publicReq(1)
	req.HiddenTestCases = []api.TestCase{{Input: "secret-in", Output: "ok"}}

	h, _ := newTestHarness(js, nil)
	gath := &recGatherer{}
	verdict, err := h.Submit(context.Background(), gath, req)
	require.NoError(t, err)

	require.NotNil(t, verdict.FailedCase)
	assert.Equal(t, api.CaseHidden, verdict.FailedCase.Type)
	assert.Equal(t, 0, verdict.FailedCase.Index)
	assert.Empty(t, verdict.FailedCase.Input)
	assert.Empty(t, verdict.FailedCase.Expected)
	assert.Empty(t, verdict.FailedCase.Actual)

	// the streamed hidden outcome is redacted too
	last := gath.outcomes[len(gath.outcomes)-1]
	assert.Empty(t, last.Input)
	assert.Empty(t, last.Actual)
	assert.False(t, last.Passed)
}

func TestSubmit_RateLimitedMakesNoJudgeCalls(t *testing.T) {
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"canSubmitNow": false, "cooldownSeconds": 12}`)
	}))
	defer backendSrv.Close()

	js := newJudgeStub(judgeBody("ok\n", 3, "0.010", 1024))
	defer js.srv.Close()

	h, _ := newTestHarness(js, backend.NewClient(backendSrv.URL, ""))
	gath := &recGatherer{}
	verdict, err := h.Submit(context.Background(), gath, publicReq(2))
	require.NoError(t, err)

	assert.Equal(t, api.StatusRateLimited, verdict.Status)
	require.NotNil(t, verdict.RateLimit)
	assert.Equal(t, int64(12), verdict.RateLimit.CooldownSeconds)
	assert.Equal(t, 0, js.calls)

	require.NotNil(t, gath.rate)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", gath.rate.Reason)
	assert.Equal(t, int64(12), gath.rate.CooldownSeconds)
}

func TestSubmit_UnreachableGovernorAllowsSubmit(t *testing.T) {
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/submissions/limits":
			w.WriteHeader(http.StatusBadGateway)
		case "/api/submissions":
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer backendSrv.Close()

	js := newJudgeStub(judgeBody("ok\n", 3, "0.010", 1024))
	defer js.srv.Close()

	h, _ := newTestHarness(js, backend.NewClient(backendSrv.URL, ""))
	verdict, err := h.Submit(context.Background(), &recGatherer{}, publicReq(1))
	require.NoError(t, err)

	assert.Equal(t, api.StatusAccepted, verdict.Status)
	assert.Equal(t, 1, js.calls)
}

func TestSubmit_PersistFailureFlaggedButVerdictStands(t *testing.T) {
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/submissions/limits":
			fmt.Fprint(w, `{"canSubmitNow": true}`)
		case "/api/submissions":
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer backendSrv.Close()

	js := newJudgeStub(judgeBody("ok\n", 3, "0.010", 1024))
	defer js.srv.Close()

	h, _ := newTestHarness(js, backend.NewClient(backendSrv.URL, ""))
	verdict, err := h.Submit(context.Background(), &recGatherer{}, publicReq(1))
	require.NoError(t, err)

	assert.Equal(t, api.StatusAccepted, verdict.Status)
	assert.Equal(t, 1, verdict.PassedCount)
	assert.True(t, verdict.PersistFailed)
}

func TestSubmit_FunctionModeWrapsSource(t *testing.T) {
	js := newJudgeStub(judgeBody("ok\n", 3, "0.010", 1024))
	defer js.srv.Close()

	req := publicReq(1)
	req.ExecutionMode = api.ModeFunction
	req.FunctionName = "solve"
	req.SourceCode = "def solve(data):\n    return data"

	h, _ := newTestHarness(js, nil)
	_, err := h.Submit(context.Background(), &recGatherer{}, req)
	require.NoError(t, err)

	require.Len(t, js.requests, 1)
	assert.Contains(t, js.requests[0].SourceCode, "sys.stdin.read()")
	assert.Contains(t, js.requests[0].SourceCode, "print(solve(_data))")
}

func TestRunCustom(t *testing.T) {
	js := newJudgeStub(judgeBody("hello\n", 3, "0.010", 1024))
	defer js.srv.Close()

	h, _ := newTestHarness(js, nil)
	output, errDetail, err := h.RunCustom(context.Background(), publicReq(1), "custom input")
	require.NoError(t, err)

	assert.Equal(t, "hello\n", output)
	assert.Nil(t, errDetail)
	require.Len(t, js.requests, 1)
	assert.Equal(t, "custom input", js.requests[0].Stdin)
}

func TestSubmit_RuntimeErrorRecordsSignalVerdict(t *testing.T) {
	var saved *api.SubmissionRecord
	backendSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/submissions/limits":
			fmt.Fprint(w, `{"canSubmitNow": true}`)
		case "/api/submissions":
			var rec api.SubmissionRecord
			json.NewDecoder(r.Body).Decode(&rec)
			saved = &rec
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer backendSrv.Close()

	crash, _ := json.Marshal(map[string]any{
		"stdout":         nil,
		"stderr":         "Traceback (most recent call last):\n  ZeroDivisionError",
		"compile_output": nil,
		"time":           "0.015",
		"memory":         1024,
		"status":         map[string]any{"id": 11, "description": "Runtime Error (NZEC)"},
	})
	js := newJudgeStub(string(crash))
	defer js.srv.Close()

	h, _ := newTestHarness(js, backend.NewClient(backendSrv.URL, ""))
	verdict, err := h.Submit(context.Background(), &recGatherer{}, publicReq(1))
	require.NoError(t, err)

	assert.Equal(t, api.StatusFailed, verdict.Status)
	require.NotNil(t, saved)
	assert.Equal(t, "RUNTIME_ERROR_NZEC", saved.Result)
	assert.Contains(t, saved.Stderr, "ZeroDivisionError")
}

func TestRunAll_ZeroFirstObservationKept(t *testing.T) {
	js := newJudgeStub(
		judgeBody("ok\n", 3, "0", 0),
		judgeBody("ok\n", 3, "0.020", 2048),
	)
	defer js.srv.Close()

	h, _ := newTestHarness(js, nil)
	result, err := h.RunAll(context.Background(), &recGatherer{}, publicReq(2))
	require.NoError(t, err)

	// a genuine zero measurement is a real minimum, not an unset slot
	assert.Equal(t, int64(0), result.Aggregates.MinRuntimeMs)
	assert.Equal(t, int64(20), result.Aggregates.MaxRuntimeMs)
	assert.Equal(t, int64(0), result.Aggregates.MinMemoryBytes)
	assert.Equal(t, int64(2048*1024), result.Aggregates.MaxMemoryBytes)
}

func TestGuardedGatherer_SupersededRunIsSilenced(t *testing.T) {
	js := newJudgeStub(judgeBody("ok\n", 3, "0.010", 1024))
	defer js.srv.Close()
	h, _ := newTestHarness(js, nil)

	first := &recGatherer{}
	second := &recGatherer{}
	g1 := h.guard(first, publicReq(1))
	g2 := h.guard(second, publicReq(1))

	g1.StartRun("two-sum", ModeRun, 1)
	g1.FinishWithError("late event")
	g2.StartRun("two-sum", ModeRun, 1)

	assert.Empty(t, first.events)
	assert.Equal(t, []string{"start_run two-sum run 1"}, second.events)
}

func TestGuardedGatherer_RunScopedSessionsAreIndependent(t *testing.T) {
	js := newJudgeStub(judgeBody("ok\n", 3, "0.010", 1024))
	defer js.srv.Close()
	h, _ := newTestHarness(js, nil)
	h.ScopeSessionsByRun()

	req1 := publicReq(1)
	req2 := publicReq(1)
	req2.RunUuid = "run-2"

	first := &recGatherer{}
	second := &recGatherer{}
	g1 := h.guard(first, req1)
	g2 := h.guard(second, req2)

	// same problem, distinct runs: neither silences the other
	g2.StartRun("two-sum", ModeRun, 1)
	g1.StartRun("two-sum", ModeRun, 1)
	g1.FinishWithError("still live")

	assert.Equal(t, []string{"start_run two-sum run 1", "finish_error"}, first.events)
	assert.Equal(t, []string{"start_run two-sum run 1"}, second.events)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	a := r.Begin("p1")
	assert.True(t, r.Current("p1", a))

	b := r.Begin("p1")
	assert.False(t, r.Current("p1", a))
	assert.True(t, r.Current("p1", b))

	// other problems are independent
	c := r.Begin("p2")
	assert.True(t, r.Current("p1", b))
	assert.True(t, r.Current("p2", c))

	assert.False(t, r.Current("p3", 1))
}
