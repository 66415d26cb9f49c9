package backend_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderzclub/harness/api"
	"github.com/coderzclub/harness/internal/backend"
)

func TestFetchLimits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/submissions/limits", r.URL.Path)
		assert.Equal(t, "two-sum", r.URL.Query().Get("problemId"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{
			"canSubmitNow": false,
			"cooldownSeconds": 12,
			"dailyLimit": 50,
			"remainingDaily": 37,
			"hasExceededDailyLimit": false,
			"problemLimit": 10,
			"remainingProblem": 4,
			"hasExceededProblemLimit": false
		}`)
	}))
	defer srv.Close()

	c := backend.NewClient(srv.URL, "secret")
	state, err := c.FetchLimits(context.Background(), "two-sum")
	require.NoError(t, err)

	assert.False(t, state.CanSubmitNow)
	assert.Equal(t, int64(12), state.CooldownSeconds)
	assert.Equal(t, 50, state.DailyLimit)
	assert.Equal(t, 37, state.RemainingDaily)
	assert.Equal(t, 4, state.RemainingProblem)
}

func TestFetchLimits_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := backend.NewClient(srv.URL, "")
	_, err := c.FetchLimits(context.Background(), "two-sum")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSaveSubmission(t *testing.T) {
	var got api.SubmissionRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/submissions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := backend.NewClient(srv.URL, "")
	rec := &api.SubmissionRecord{
		ProblemId:       "two-sum",
		Language:        "Python",
		Result:          "ACCEPTED",
		PassedTestCases: 5,
		TotalTestCases:  5,
	}
	require.NoError(t, c.SaveSubmission(context.Background(), rec))

	assert.Equal(t, "two-sum", got.ProblemId)
	assert.Equal(t, "ACCEPTED", got.Result)
	assert.Equal(t, 5, got.PassedTestCases)
}

func TestSaveSubmission_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := backend.NewClient(srv.URL, "")
	err := c.SaveSubmission(context.Background(), &api.SubmissionRecord{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}
