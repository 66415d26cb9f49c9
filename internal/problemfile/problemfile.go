// Package problemfile loads problem definitions from TOML files so the CLI
// can run the harness without the surrounding web application. Files with a
// .zst suffix are transparently decompressed.
package problemfile

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/pelletier/go-toml/v2"

	"github.com/coderzclub/harness/api"
)

// SpecCase is a single test case in a problem file. Input may be a raw stdin
// string or a structured TOML value.
type SpecCase struct {
	Input       any    `toml:"input"`
	Output      string `toml:"output"`
	Explanation string `toml:"explanation"`
}

// SpecParam mirrors one declared function parameter.
type SpecParam struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

// Problem is a problem definition as stored on disk.
type Problem struct {
	Id            string      `toml:"id"`
	Title         string      `toml:"title"`
	ExecutionMode string      `toml:"execution_mode"`
	FunctionName  string      `toml:"function_name"`
	Parameters    []SpecParam `toml:"parameters"`

	TestCases       []SpecCase `toml:"test_cases"`
	HiddenTestCases []SpecCase `toml:"hidden_test_cases"`
}

// Load reads and parses a problem definition file.
func Load(path string) (*Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open problem file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		d, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer d.Close()
		reader = d
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read problem file: %w", err)
	}

	var p Problem
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse problem TOML: %w", err)
	}

	if len(p.TestCases) == 0 {
		return nil, fmt.Errorf("problem file declares no test cases")
	}
	if p.ExecutionMode == "" {
		p.ExecutionMode = string(api.ModeStdinStdout)
	}
	if p.ExecutionMode == string(api.ModeFunction) && p.FunctionName == "" {
		return nil, fmt.Errorf("function execution mode requires function_name")
	}

	return &p, nil
}

// ToRunReq binds a problem definition to one submission, producing a run
// request with a fresh run id.
func (p *Problem) ToRunReq(sourceCode string, languageId int) *api.RunReq {
	return &api.RunReq{
		RunUuid:         uuid.NewString(),
		ProblemId:       p.Id,
		SourceCode:      sourceCode,
		LanguageId:      languageId,
		TestCases:       convertCases(p.TestCases),
		HiddenTestCases: convertCases(p.HiddenTestCases),
		ExecutionMode:   api.ExecutionMode(p.ExecutionMode),
		FunctionName:    p.FunctionName,
		Parameters:      convertParams(p.Parameters),
	}
}

func convertCases(cases []SpecCase) []api.TestCase {
	out := make([]api.TestCase, 0, len(cases))
	for _, c := range cases {
		out = append(out, api.TestCase{
			Input:       c.Input,
			Output:      c.Output,
			Explanation: c.Explanation,
		})
	}
	return out
}

func convertParams(params []SpecParam) []api.ParameterSpec {
	out := make([]api.ParameterSpec, 0, len(params))
	for _, p := range params {
		out = append(out, api.ParameterSpec{Name: p.Name, Type: p.Type})
	}
	return out
}
