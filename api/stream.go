package api

import "time"

// MsgType is a message type for streaming progress responses
type MsgType string

// Streaming message type constants
const (
	StartRunMsg    MsgType = "run_start"
	StartCaseMsg   MsgType = "case_start"
	FinishCaseMsg  MsgType = "case_finish"
	RateLimitedMsg MsgType = "rate_limited"
	FinishRunMsg   MsgType = "run_finish"
)

// Output size constraints for streamed case data
const (
	MaxCaseDataHeight = 40
	MaxCaseDataWidth  = 80
)

// Header is the common header for all streaming progress messages
type Header struct {
	RunUuid string  `json:"run_uuid"`
	MsgType MsgType `json:"msg_type"`
}

// StartRun message sent when a run or submit begins
type StartRun struct {
	Header
	ProblemId   string `json:"problem_id"`
	Mode        string `json:"mode"`
	TotalCases  int    `json:"total_cases"`
	StartedTime string `json:"started_time"`
}

// StartCase message sent when a test case is dispatched to the judge
type StartCase struct {
	Header
	Visibility CaseVisibility `json:"visibility"`
	Index      int            `json:"index"`
}

// FinishCase message sent when a test case's result has been classified
type FinishCase struct {
	Header
	Visibility CaseVisibility `json:"visibility"`
	Index      int            `json:"index"`
	Outcome    *CaseOutcome   `json:"outcome"`
}

// RateLimited message sent when the governor rejects a submit before any
// judge call
type RateLimited struct {
	Header
	Decision *RateLimitDecision `json:"decision"`
}

// FinishRun message sent when the run reaches a terminal state
type FinishRun struct {
	Header
	Verdict      *Verdict      `json:"verdict,omitempty"`
	Result       *RunAllResult `json:"result,omitempty"`
	ErrorMessage *string       `json:"error_message,omitempty"`
}

// NewHeader creates the common message header
func NewHeader(runUuid string, msgType MsgType) Header {
	return Header{
		RunUuid: runUuid,
		MsgType: msgType,
	}
}

func NewStartRun(runUuid, problemId, mode string, totalCases int) StartRun {
	return StartRun{
		Header:      NewHeader(runUuid, StartRunMsg),
		ProblemId:   problemId,
		Mode:        mode,
		TotalCases:  totalCases,
		StartedTime: time.Now().Format(time.RFC3339),
	}
}

func NewStartCase(runUuid string, visibility CaseVisibility, index int) StartCase {
	return StartCase{
		Header:     NewHeader(runUuid, StartCaseMsg),
		Visibility: visibility,
		Index:      index,
	}
}

func NewFinishCase(runUuid string, visibility CaseVisibility, index int, outcome *CaseOutcome) FinishCase {
	return FinishCase{
		Header:     NewHeader(runUuid, FinishCaseMsg),
		Visibility: visibility,
		Index:      index,
		Outcome:    outcome,
	}
}

func NewRateLimited(runUuid string, decision *RateLimitDecision) RateLimited {
	return RateLimited{
		Header:   NewHeader(runUuid, RateLimitedMsg),
		Decision: decision,
	}
}

func NewFinishRun(runUuid string, verdict *Verdict, result *RunAllResult, errorMessage *string) FinishRun {
	return FinishRun{
		Header:       NewHeader(runUuid, FinishRunMsg),
		Verdict:      verdict,
		Result:       result,
		ErrorMessage: errorMessage,
	}
}
