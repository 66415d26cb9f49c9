package natsgath

import (
	"github.com/nats-io/nats.go"

	"github.com/coderzclub/harness/api"
	"github.com/coderzclub/harness/internal/harness"
)

type natsGatherer struct {
	nc      *nats.Conn
	inbox   string
	runUuid string
}

// StartRun implements harness.RunResGatherer.
func (s *natsGatherer) StartRun(problemId string, mode harness.Mode, totalCases int) {
	s.send(api.NewStartRun(s.runUuid, problemId, string(mode), totalCases))
}

// StartCase implements harness.RunResGatherer.
func (s *natsGatherer) StartCase(visibility api.CaseVisibility, index int) {
	s.send(api.NewStartCase(s.runUuid, visibility, index))
}

// FinishCase implements harness.RunResGatherer.
func (s *natsGatherer) FinishCase(visibility api.CaseVisibility, index int, outcome *api.CaseOutcome) {
	s.send(api.NewFinishCase(s.runUuid, visibility, index,
		trimOutcomeStrings(outcome, api.MaxCaseDataHeight, api.MaxCaseDataWidth)))
}

// RateLimited implements harness.RunResGatherer.
func (s *natsGatherer) RateLimited(decision *api.RateLimitDecision) {
	s.send(api.NewRateLimited(s.runUuid, decision))
}

// FinishWithError implements harness.RunResGatherer.
func (s *natsGatherer) FinishWithError(msg string) {
	s.send(api.NewFinishRun(s.runUuid, nil, nil, &msg))
}

// FinishRunAll implements harness.RunResGatherer.
func (s *natsGatherer) FinishRunAll(result *api.RunAllResult) {
	trimmed := *result
	trimmed.Outcomes = make([]api.CaseOutcome, len(result.Outcomes))
	for i := range result.Outcomes {
		o := trimOutcomeStrings(&result.Outcomes[i], api.MaxCaseDataHeight, api.MaxCaseDataWidth)
		trimmed.Outcomes[i] = *o
	}
	s.send(api.NewFinishRun(s.runUuid, nil, &trimmed, nil))
}

// FinishSubmit implements harness.RunResGatherer.
func (s *natsGatherer) FinishSubmit(verdict *api.Verdict) {
	s.send(api.NewFinishRun(s.runUuid, verdict, nil, nil))
}

func trimOutcomeStrings(o *api.CaseOutcome, ioHeight int, ioWidth int) *api.CaseOutcome {
	if o == nil {
		return nil
	}
	trimmed := *o
	trimmed.Input = trimStrToRect(o.Input, ioHeight, ioWidth)
	trimmed.Expected = trimStrToRect(o.Expected, ioHeight, ioWidth)
	trimmed.Actual = trimStrToRect(o.Actual, ioHeight, ioWidth)
	if o.Error != nil {
		e := *o.Error
		e.Details = trimStrToRect(e.Details, ioHeight, ioWidth)
		trimmed.Error = &e
	}
	return &trimmed
}
