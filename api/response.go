package api

// Non-streaming result types surfaced to the caller after a run completes.

// ErrorKind is the failure taxonomy derived from one judge response.
type ErrorKind string

const (
	CompilationError    ErrorKind = "COMPILATION_ERROR"
	RuntimeError        ErrorKind = "RUNTIME_ERROR"
	TimeLimitExceeded   ErrorKind = "TIME_LIMIT_EXCEEDED"
	MemoryLimitExceeded ErrorKind = "MEMORY_LIMIT_EXCEEDED"
)

// ErrorDetail is at most one classified error per judge response.
type ErrorDetail struct {
	Kind    ErrorKind `json:"type"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// CaseOutcome is the reconciled result of one test case.
type CaseOutcome struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Passed   bool   `json:"passed"`

	RuntimeMs   *int64 `json:"runtime_ms,omitempty"`
	MemoryBytes *int64 `json:"memory_bytes,omitempty"`

	Error       *ErrorDetail `json:"error,omitempty"`
	Explanation string       `json:"explanation,omitempty"`
}

// CaseVisibility tells whether a case is shown to the end user.
type CaseVisibility string

const (
	CasePublic CaseVisibility = "public"
	CaseHidden CaseVisibility = "hidden"
)

// FailedCase references the first failing case of a submit-mode run. Index is
// the case's position within its visibility class. Hidden cases carry no
// input/output detail.
type FailedCase struct {
	CaseOutcome
	Type  CaseVisibility `json:"type"`
	Index int            `json:"index"`
}

// RunStatus discriminates the result object surfaced to the UI.
type RunStatus string

const (
	StatusAccepted    RunStatus = "accepted"
	StatusFailed      RunStatus = "failed"
	StatusRateLimited RunStatus = "rate_limited"
	StatusError       RunStatus = "error"
)

// Verdict is the terminal, immutable record of a submit-mode run.
type Verdict struct {
	Status RunStatus `json:"status"`

	PassedCount int `json:"passed_count"`
	TotalCount  int `json:"total_count"`

	FailedCase    *FailedCase `json:"failed_case,omitempty"`
	FailureReason string      `json:"failure_reason,omitempty"`

	// RateLimit is set only when Status is StatusRateLimited; no judge call
	// was made.
	RateLimit *RateLimitDecision `json:"rate_limit,omitempty"`

	// PersistFailed is set when the submission record could not be saved.
	// The verdict itself stands regardless.
	PersistFailed bool `json:"persist_failed,omitempty"`
}

// RateLimitDecision is returned when the governor rejects a submit before any
// judge call is made.
type RateLimitDecision struct {
	Reason          string `json:"reason"`
	CooldownSeconds int64  `json:"cooldown_seconds,omitempty"`
	RemainingDaily  int    `json:"remaining_daily,omitempty"`
	DailyLimit      int    `json:"daily_limit,omitempty"`
	RemainingProbl  int    `json:"remaining_problem,omitempty"`
	ProblemLimit    int    `json:"problem_limit,omitempty"`
}

// RunAllResult is the exhaustive run-mode output: one outcome per public case,
// in input order, plus timing/memory aggregates over cases that produced them.
type RunAllResult struct {
	Outcomes   []CaseOutcome  `json:"outcomes"`
	Aggregates CaseAggregates `json:"aggregates"`
}

type CaseAggregates struct {
	MinRuntimeMs   int64 `json:"min_runtime_ms"`
	MaxRuntimeMs   int64 `json:"max_runtime_ms"`
	MinMemoryBytes int64 `json:"min_memory_bytes"`
	MaxMemoryBytes int64 `json:"max_memory_bytes"`
}

// RateLimitState is the backend's read-only quota snapshot, fetched fresh
// before each submit attempt. Field names follow the limits endpoint.
type RateLimitState struct {
	CanSubmitNow    bool  `json:"canSubmitNow"`
	CooldownSeconds int64 `json:"cooldownSeconds"`

	DailyLimit            int  `json:"dailyLimit"`
	RemainingDaily        int  `json:"remainingDaily"`
	HasExceededDailyLimit bool `json:"hasExceededDailyLimit"`

	ProblemLimit            int  `json:"problemLimit"`
	RemainingProblem        int  `json:"remainingProblem"`
	HasExceededProblemLimit bool `json:"hasExceededProblemLimit"`
}

// SubmissionRecord is the body posted to the submission persistence endpoint
// once a submit-mode run reaches a terminal verdict.
type SubmissionRecord struct {
	ProblemId string `json:"problemId"`
	Code      string `json:"code"`
	Language  string `json:"language"`
	Result    string `json:"result"`
	Output    string `json:"output"`

	Runtime  int64 `json:"runtime"`
	Memory   int64 `json:"memory"`
	StatusId int   `json:"statusId"`

	Stderr       string `json:"stderr,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`

	PassedTestCases int `json:"passedTestCases"`
	TotalTestCases  int `json:"totalTestCases"`

	ExecutionDetails map[string]any `json:"executionDetails,omitempty"`
}
