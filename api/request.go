package api

// RunReq is one harness invocation: the user's source code plus the problem
// definition supplied by the surrounding application.
type RunReq struct {
	RunUuid string `json:"run_uuid"`

	ProblemId  string `json:"problem_id"`
	SourceCode string `json:"source_code"`
	LanguageId int    `json:"language_id"`

	TestCases       []TestCase `json:"test_cases"`
	HiddenTestCases []TestCase `json:"hidden_test_cases"`

	ExecutionMode ExecutionMode   `json:"execution_mode"`
	FunctionName  string          `json:"function_name,omitempty"`
	Parameters    []ParameterSpec `json:"parameters,omitempty"`
}

// ExecutionMode selects how submitted code is turned into a runnable program.
type ExecutionMode string

const (
	// ModeStdinStdout runs the submission as-is; the program reads all input
	// from stdin and writes its answer to stdout.
	ModeStdinStdout ExecutionMode = "STDIN_STDOUT"
	// ModeFunction wraps a bare function body in a generated entry point
	// driven by the declared parameter specs.
	ModeFunction ExecutionMode = "FUNCTION"
)

// TestCase is immutable once loaded from the problem definition. Input is
// either a raw stdin string or a structured value that needs adaptation in
// ModeFunction.
type TestCase struct {
	Input       any    `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

// ParameterSpec describes one formal parameter of the problem's function
// signature, in declaration order. Used only in ModeFunction.
type ParameterSpec struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
