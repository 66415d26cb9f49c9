package judge_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/coderzclub/harness/internal/judge"
)

func TestRetryPolicy_Delay(t *testing.T) {
	p := judge.DefaultRetryPolicy()

	assert.Equal(t, 800*time.Millisecond, p.Delay(0))
	assert.Equal(t, 1600*time.Millisecond, p.Delay(1))
	assert.Equal(t, 3200*time.Millisecond, p.Delay(2))
	assert.Equal(t, 6400*time.Millisecond, p.Delay(3))

	// doubling past the cap clamps
	assert.Equal(t, 10*time.Second, p.Delay(4))
	assert.Equal(t, 10*time.Second, p.Delay(10))
}

func TestStatus_RuntimeErrorBand(t *testing.T) {
	for s := judge.StatusSIGSEGV; s <= judge.StatusRuntimeErrorOther; s++ {
		assert.True(t, s.IsRuntimeError(), "status %d", s)
	}
	assert.False(t, judge.StatusAccepted.IsRuntimeError())
	assert.False(t, judge.StatusTimeLimitExceeded.IsRuntimeError())
	assert.False(t, judge.StatusCompilationError.IsRuntimeError())
	assert.False(t, judge.StatusInternalError.IsRuntimeError())
}

func TestStatus_Verdict(t *testing.T) {
	assert.Equal(t, "ACCEPTED", judge.StatusAccepted.Verdict())
	assert.Equal(t, "WRONG_ANSWER", judge.StatusWrongAnswer.Verdict())
	assert.Equal(t, "RUNTIME_ERROR_NZEC", judge.StatusNZEC.Verdict())
	assert.Equal(t, "UNKNOWN", judge.Status(99).Verdict())
}
