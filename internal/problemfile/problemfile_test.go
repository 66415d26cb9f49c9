package problemfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderzclub/harness/api"
	"github.com/coderzclub/harness/internal/problemfile"
)

const twoSumToml = `
id = "two-sum"
title = "Two Sum"

[[test_cases]]
input = "4\n2 7 11 15\n9"
output = "0 1"
explanation = "nums[0] + nums[1] == 9"

[[test_cases]]
input = "3\n3 2 4\n6"
output = "1 2"

[[hidden_test_cases]]
input = "2\n3 3\n6"
output = "0 1"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	p, err := problemfile.Load(writeFile(t, "two-sum.toml", twoSumToml))
	require.NoError(t, err)

	assert.Equal(t, "two-sum", p.Id)
	assert.Equal(t, string(api.ModeStdinStdout), p.ExecutionMode)
	require.Len(t, p.TestCases, 2)
	assert.Equal(t, "0 1", p.TestCases[0].Output)
	assert.Equal(t, "nums[0] + nums[1] == 9", p.TestCases[0].Explanation)
	require.Len(t, p.HiddenTestCases, 1)
}

func TestLoad_Zstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two-sum.toml.zst")
	f, err := os.Create(path)
	require.NoError(t, err)
	enc, err := zstd.NewWriter(f)
	require.NoError(t, err)
	_, err = enc.Write([]byte(twoSumToml))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	p, err := problemfile.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "two-sum", p.Id)
	assert.Len(t, p.TestCases, 2)
}

func TestLoad_FunctionModeRequiresName(t *testing.T) {
	content := `
id = "p"
execution_mode = "FUNCTION"

[[test_cases]]
input = "x"
output = "x"
`
	_, err := problemfile.Load(writeFile(t, "p.toml", content))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "function_name")
}

func TestLoad_NoTestCases(t *testing.T) {
	_, err := problemfile.Load(writeFile(t, "empty.toml", `id = "p"`))
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := problemfile.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestToRunReq(t *testing.T) {
	content := `
id = "sort-words"
execution_mode = "FUNCTION"
function_name = "sortWords"

[[parameters]]
name = "words"
type = "String[]"

[[test_cases]]
input = ["b", "a"]
output = "a b"
`
	p, err := problemfile.Load(writeFile(t, "sort.toml", content))
	require.NoError(t, err)

	req := p.ToRunReq("def sortWords(w): return w", 71)
	assert.NotEmpty(t, req.RunUuid)
	assert.Equal(t, "sort-words", req.ProblemId)
	assert.Equal(t, 71, req.LanguageId)
	assert.Equal(t, api.ModeFunction, req.ExecutionMode)
	assert.Equal(t, "sortWords", req.FunctionName)
	require.Len(t, req.Parameters, 1)
	assert.Equal(t, "String[]", req.Parameters[0].Type)
	require.Len(t, req.TestCases, 1)

	// array inputs survive as structured values
	arr, ok := req.TestCases[0].Input.([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"b", "a"}, arr)

	// each binding gets a distinct run id
	req2 := p.ToRunReq("x", 71)
	assert.NotEqual(t, req.RunUuid, req2.RunUuid)
}
