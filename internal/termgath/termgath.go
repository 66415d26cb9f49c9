// Package termgath prints run progress to the terminal. It is the gatherer
// used by the CLI.
package termgath

import (
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/coderzclub/harness/api"
	"github.com/coderzclub/harness/internal/harness"
)

var (
	green  = color.New(color.FgGreen).SprintfFunc()
	red    = color.New(color.FgRed).SprintfFunc()
	yellow = color.New(color.FgYellow).SprintfFunc()
)

type TerminalGatherer struct {
	StartedAt time.Time
}

func New() *TerminalGatherer { return &TerminalGatherer{StartedAt: time.Now()} }

func (t *TerminalGatherer) StartRun(problemId string, mode harness.Mode, totalCases int) {
	fmt.Printf("== %s of %s started (%d cases) ==\n", mode, problemId, totalCases)
}

func (t *TerminalGatherer) StartCase(visibility api.CaseVisibility, index int) {
	fmt.Printf("-> %s case %d\n", visibility, index)
}

func (t *TerminalGatherer) FinishCase(visibility api.CaseVisibility, index int, outcome *api.CaseOutcome) {
	verdict := green("pass")
	if !outcome.Passed {
		verdict = red("fail")
	}
	fmt.Printf("<- %s case %d: %s", visibility, index, verdict)
	if outcome.RuntimeMs != nil {
		fmt.Printf(" (%dms", *outcome.RuntimeMs)
		if outcome.MemoryBytes != nil {
			fmt.Printf(", %dKiB", *outcome.MemoryBytes/1024)
		}
		fmt.Printf(")")
	}
	fmt.Println()
	if outcome.Error != nil {
		fmt.Printf("  %s: %s\n", red("%s", outcome.Error.Kind), outcome.Error.Message)
	}
	if !outcome.Passed && visibility == api.CasePublic {
		fmt.Printf("  expected: %q\n  actual:   %q\n", outcome.Expected, outcome.Actual)
	}
}

func (t *TerminalGatherer) RateLimited(decision *api.RateLimitDecision) {
	fmt.Printf("== %s ==\n", yellow("rate limited: %s", decision.Reason))
	if decision.CooldownSeconds > 0 {
		fmt.Printf("retry in %d seconds\n", decision.CooldownSeconds)
	}
}

func (t *TerminalGatherer) FinishWithError(msg string) {
	fmt.Printf("== %s ==\n", red("run failed: %s", msg))
}

func (t *TerminalGatherer) FinishRunAll(result *api.RunAllResult) {
	passed := 0
	for _, o := range result.Outcomes {
		if o.Passed {
			passed++
		}
	}
	dur := time.Since(t.StartedAt).Round(time.Millisecond)
	fmt.Printf("== %d/%d cases passed in %s ==\n", passed, len(result.Outcomes), dur)
}

func (t *TerminalGatherer) FinishSubmit(verdict *api.Verdict) {
	dur := time.Since(t.StartedAt).Round(time.Millisecond)
	switch verdict.Status {
	case api.StatusAccepted:
		fmt.Printf("== %s (%d/%d) in %s ==\n", green("accepted"), verdict.PassedCount, verdict.TotalCount, dur)
	default:
		fmt.Printf("== %s (%d/%d) in %s ==\n", red("%s", verdict.Status), verdict.PassedCount, verdict.TotalCount, dur)
		if verdict.FailureReason != "" {
			fmt.Printf("%s\n", verdict.FailureReason)
		}
	}
	if verdict.PersistFailed {
		fmt.Println(yellow("warning: submission record was not saved"))
	}
}
