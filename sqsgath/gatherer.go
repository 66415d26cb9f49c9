package sqsgath

import (
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/coderzclub/harness/api"
	"github.com/coderzclub/harness/internal/harness"
)

type sqsResQueueGatherer struct {
	sqsClient *sqs.Client
	queueUrl  string
	runUuid   string
}

// StartRun implements harness.RunResGatherer.
func (s *sqsResQueueGatherer) StartRun(problemId string, mode harness.Mode, totalCases int) {
	s.send(api.NewStartRun(s.runUuid, problemId, string(mode), totalCases))
}

// StartCase implements harness.RunResGatherer.
func (s *sqsResQueueGatherer) StartCase(visibility api.CaseVisibility, index int) {
	s.send(api.NewStartCase(s.runUuid, visibility, index))
}

// FinishCase implements harness.RunResGatherer.
func (s *sqsResQueueGatherer) FinishCase(visibility api.CaseVisibility, index int, outcome *api.CaseOutcome) {
	s.send(api.NewFinishCase(s.runUuid, visibility, index,
		mapOutcome(outcome, api.MaxCaseDataHeight, api.MaxCaseDataWidth)))
}

// RateLimited implements harness.RunResGatherer.
func (s *sqsResQueueGatherer) RateLimited(decision *api.RateLimitDecision) {
	s.send(api.NewRateLimited(s.runUuid, decision))
}

// FinishWithError implements harness.RunResGatherer.
func (s *sqsResQueueGatherer) FinishWithError(msg string) {
	s.send(api.NewFinishRun(s.runUuid, nil, nil, &msg))
}

// FinishRunAll implements harness.RunResGatherer.
func (s *sqsResQueueGatherer) FinishRunAll(result *api.RunAllResult) {
	trimmed := *result
	trimmed.Outcomes = make([]api.CaseOutcome, len(result.Outcomes))
	for i := range result.Outcomes {
		o := mapOutcome(&result.Outcomes[i], api.MaxCaseDataHeight, api.MaxCaseDataWidth)
		trimmed.Outcomes[i] = *o
	}
	s.send(api.NewFinishRun(s.runUuid, nil, &trimmed, nil))
}

// FinishSubmit implements harness.RunResGatherer.
func (s *sqsResQueueGatherer) FinishSubmit(verdict *api.Verdict) {
	s.send(api.NewFinishRun(s.runUuid, verdict, nil, nil))
}

func mapOutcome(o *api.CaseOutcome, ioHeight int, ioWidth int) *api.CaseOutcome {
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
