package judge

import mapset "github.com/deckarep/golang-set/v2"

// Status is the judge's submission status id.
type Status int

const (
	StatusInQueue           Status = 1
	StatusProcessing        Status = 2
	StatusAccepted          Status = 3
	StatusWrongAnswer       Status = 4
	StatusTimeLimitExceeded Status = 5
	StatusCompilationError  Status = 6
	StatusSIGSEGV           Status = 7
	StatusSIGXFSZ           Status = 8
	StatusSIGFPE            Status = 9
	StatusSIGABRT           Status = 10
	StatusNZEC              Status = 11
	StatusRuntimeErrorOther Status = 12
	StatusInternalError     Status = 13
	StatusExecFormatError   Status = 14
)

// runtimeErrorBand covers every signal- or exit-code-related failure the
// judge distinguishes.
var runtimeErrorBand = mapset.NewSet(
	StatusSIGSEGV,
	StatusSIGXFSZ,
	StatusSIGFPE,
	StatusSIGABRT,
	StatusNZEC,
	StatusRuntimeErrorOther,
)

// IsRuntimeError reports whether the status falls in the runtime-error band.
func (s Status) IsRuntimeError() bool {
	return runtimeErrorBand.Contains(s)
}

// Verdict maps a status id to the verdict string the submission store
// records.
func (s Status) Verdict() string {
	switch s {
	case StatusInQueue:
		return "IN_QUEUE"
	case StatusProcessing:
		return "PROCESSING"
	case StatusAccepted:
		return "ACCEPTED"
	case StatusWrongAnswer:
		return "WRONG_ANSWER"
	case StatusTimeLimitExceeded:
		return "TIME_LIMIT_EXCEEDED"
	case StatusCompilationError:
		return "COMPILATION_ERROR"
	case StatusSIGSEGV:
		return "RUNTIME_ERROR_SIGSEGV"
	case StatusSIGXFSZ:
		return "RUNTIME_ERROR_SIGXFSZ"
	case StatusSIGFPE:
		return "RUNTIME_ERROR_SIGFPE"
	case StatusSIGABRT:
		return "RUNTIME_ERROR_SIGABRT"
	case StatusNZEC:
		return "RUNTIME_ERROR_NZEC"
	case StatusRuntimeErrorOther:
		return "RUNTIME_ERROR_OTHER"
	case StatusInternalError:
		return "INTERNAL_ERROR"
	case StatusExecFormatError:
		return "EXEC_FORMAT_ERROR"
	}
	return "UNKNOWN"
}
