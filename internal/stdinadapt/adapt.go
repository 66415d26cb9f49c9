package stdinadapt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coderzclub/harness/api"
)

// Adapt serializes a test case input into the literal string piped to the
// judged program as stdin. Raw strings pass through unchanged; an array input
// whose first declared parameter is an array-of-strings type is flattened one
// level and joined with single spaces; everything else is JSON-serialized,
// degrading to plain string coercion. Adapt is total and never fails.
func Adapt(input any, params []api.ParameterSpec) string {
	if s, ok := input.(string); ok {
		return s
	}

	if len(params) > 0 && isStringArrayType(params[0].Type) {
		if joined, ok := joinElements(input); ok {
			return joined
		}
	}

	if b, err := json.Marshal(input); err == nil {
		return string(b)
	}
	return fmt.Sprint(input)
}

// isStringArrayType recognizes the array-of-string spellings seen in problem
// definitions across languages.
func isStringArrayType(t string) bool {
	norm := strings.ToLower(strings.ReplaceAll(t, " ", ""))
	switch norm {
	case "string[]", "str[]", "[]string", "list<string>", "array<string>", "stringarray", "list[str]":
		return true
	}
	return false
}

func joinElements(input any) (string, bool) {
	elems, ok := input.([]any)
	if !ok {
		return "", false
	}

	// flatten one level of nesting
	flat := make([]any, 0, len(elems))
	for _, e := range elems {
		if inner, ok := e.([]any); ok {
			flat = append(flat, inner...)
			continue
		}
		flat = append(flat, e)
	}

	parts := make([]string, len(flat))
	for i, e := range flat {
		parts[i] = fmt.Sprint(e)
	}
	return strings.Join(parts, " "), true
}
