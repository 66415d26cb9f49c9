package judge

import (
	"encoding/json"
	"math"
	"strconv"
)

// ExecutionRequest is one judge call, constructed per test case. Never
// persisted.
type ExecutionRequest struct {
	LanguageId int    `json:"language_id"`
	SourceCode string `json:"source_code"`
	Stdin      string `json:"stdin"`
}

// ExecutionResult is the judge's raw response normalized to consistent units
// (time in milliseconds, memory in bytes) immediately on receipt.
type ExecutionResult struct {
	Stdout        string
	Stderr        string
	CompileOutput string

	StatusId          Status
	StatusDescription string

	TimeMs      int64
	MemoryBytes int64
}

// wireResult mirrors the judge response before normalization. The judge
// reports time as seconds in a string and memory in kilobytes.
type wireResult struct {
	Stdout        *string      `json:"stdout"`
	Stderr        *string      `json:"stderr"`
	CompileOutput *string      `json:"compile_output"`
	Time          *string      `json:"time"`
	Memory        *json.Number `json:"memory"`
	Status        struct {
		Id          int    `json:"id"`
		Description string `json:"description"`
	} `json:"status"`
}

func (w *wireResult) normalize() *ExecutionResult {
	res := &ExecutionResult{
		StatusId:          Status(w.Status.Id),
		StatusDescription: w.Status.Description,
	}
	if w.Stdout != nil {
		res.Stdout = *w.Stdout
	}
	if w.Stderr != nil {
		res.Stderr = *w.Stderr
	}
	if w.CompileOutput != nil {
		res.CompileOutput = *w.CompileOutput
	}
	if w.Time != nil {
		if sec, err := strconv.ParseFloat(*w.Time, 64); err == nil {
			res.TimeMs = int64(math.Round(sec * 1000))
		}
	}
	if w.Memory != nil {
		if kb, err := w.Memory.Float64(); err == nil {
			res.MemoryBytes = int64(kb * 1024)
		}
	}
	return res
}
