package classify

import (
	"fmt"
	"strings"

	"github.com/coderzclub/harness/api"
	"github.com/coderzclub/harness/internal/judge"
)

// MemoryLimitBytes is the fixed threshold above which a run is classified as
// exceeding the memory limit.
const MemoryLimitBytes = 100 * 1024 * 1024

// NoOutput is surfaced when the judge returned no usable stream at all.
const NoOutput = "No Output"

// Classify turns one normalized judge result into the output shown to the
// user and at most one classified error. Pure function.
func Classify(res *judge.ExecutionResult) (string, *api.ErrorDetail) {
	actual := actualOutput(res)

	switch {
	case strings.TrimSpace(res.CompileOutput) != "" || res.StatusId == judge.StatusCompilationError:
		return actual, &api.ErrorDetail{
			Kind:    api.CompilationError,
			Message: "submission failed to compile",
			Details: firstNonEmpty(res.CompileOutput, res.Stderr),
		}
	case res.StatusId.IsRuntimeError():
		return actual, &api.ErrorDetail{
			Kind:    api.RuntimeError,
			Message: res.StatusDescription,
			Details: res.Stderr,
		}
	case res.StatusId == judge.StatusTimeLimitExceeded:
		return actual, &api.ErrorDetail{
			Kind:    api.TimeLimitExceeded,
			Message: "execution exceeded the time limit",
		}
	case res.MemoryBytes > MemoryLimitBytes:
		return actual, &api.ErrorDetail{
			Kind:    api.MemoryLimitExceeded,
			Message: fmt.Sprintf("memory usage %d bytes exceeded the %d byte limit", res.MemoryBytes, MemoryLimitBytes),
		}
	}
	return actual, nil
}

// Outcome reconciles one judge result against the expected output. A case
// with a classified error never passes, even on a textual match.
func Outcome(tc api.TestCase, stdin string, res *judge.ExecutionResult) api.CaseOutcome {
	actual, errDetail := Classify(res)
	passed := errDetail == nil &&
		strings.TrimSpace(actual) == strings.TrimSpace(tc.Output)

	runtimeMs := res.TimeMs
	memoryBytes := res.MemoryBytes
	return api.CaseOutcome{
		Input:       stdin,
		Expected:    tc.Output,
		Actual:      actual,
		Passed:      passed,
		RuntimeMs:   &runtimeMs,
		MemoryBytes: &memoryBytes,
		Error:       errDetail,
		Explanation: tc.Explanation,
	}
}

func actualOutput(res *judge.ExecutionResult) string {
	if strings.TrimSpace(res.Stdout) != "" {
		return res.Stdout
	}
	if strings.TrimSpace(res.Stderr) != "" {
		return res.Stderr
	}
	if strings.TrimSpace(res.CompileOutput) != "" {
		return res.CompileOutput
	}
	return NoOutput
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
