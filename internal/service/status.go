package service

import (
	"time"

	"github.com/DcZipPL/GodotManager/internal/acquire"
	apperrors "github.com/DcZipPL/GodotManager/internal/errors"
)

// Stage is the externally visible state of an acquisition request.
type Stage string

const (
	StagePending     Stage = "pending"
	StageDownloading Stage = "downloading"
	StageExtracting  Stage = "extracting"
	StageCompleted   Stage = "completed"
	StageFailed      Stage = "failed"
	StageCancelled   Stage = "cancelled"
)

// Terminal reports whether no further status follows s.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageFailed || s == StageCancelled
}

// Status is one event in the life of an acquisition request. Presentation
// layers render Message; the remaining fields carry detail for progress
// bars.
type Status struct {
	RequestID string
	Stage     Stage
	Message   string
	At        time.Time

	// BytesRead and BytesTotal track the download. BytesTotal is -1 when
	// unknown.
	BytesRead  int64
	BytesTotal int64
	// Files counts files written while extracting.
	Files int

	// Result is set on StageCompleted, Err on StageFailed and
	// StageCancelled.
	Result acquire.Result
	Err    error
}

// Fraction returns download completion in [0, 1], or -1 when the total
// size is unknown.
func (s Status) Fraction() float64 {
	if s.BytesTotal <= 0 {
		return -1
	}
	f := float64(s.BytesRead) / float64(s.BytesTotal)
	if f > 1 {
		return 1
	}
	return f
}

const (
	msgPending     = "Waiting…"
	msgDownloading = "Downloading…"
	msgVerifying   = "Verifying archive…"
	msgExtracting  = "Extracting…"
	msgDone        = "Done"
	msgCancelled   = "Cancelled"
)

// progressStatus maps a pipeline progress report onto a Status. The
// validation step is shown as the start of extraction.
func progressStatus(id string, p acquire.Progress, at time.Time) Status {
	st := Status{
		RequestID:  id,
		At:         at,
		BytesRead:  p.BytesRead,
		BytesTotal: p.BytesTotal,
		Files:      p.Files,
	}
	switch p.Stage {
	case acquire.StageDownloading:
		st.Stage, st.Message = StageDownloading, msgDownloading
	case acquire.StageValidating:
		st.Stage, st.Message = StageExtracting, msgVerifying
	default:
		st.Stage, st.Message = StageExtracting, msgExtracting
	}
	return st
}

// finalStatus builds the terminal status for an outcome.
func finalStatus(id string, result acquire.Result, err error, at time.Time) Status {
	switch {
	case err == nil:
		return Status{RequestID: id, Stage: StageCompleted, Message: msgDone, At: at, Files: result.Files, Result: result}
	case apperrors.IsCode(err, apperrors.CodeCancelled):
		return Status{RequestID: id, Stage: StageCancelled, Message: msgCancelled, At: at, Err: err}
	default:
		return Status{RequestID: id, Stage: StageFailed, Message: "Failed: " + apperrors.Reason(err), At: at, Err: err}
	}
}
