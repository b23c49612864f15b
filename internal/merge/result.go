package merge

import (
	"errors"
)

type Status int

const (
	StatusOK Status = iota
	StatusAlreadyMerged
	StatusNotPossible
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusAlreadyMerged:
		return "already merged"
	case StatusNotPossible:
		return "not possible"
	default:
		return "failed"
	}
}

// Result reports what happened to one video.
type Result struct {
	VideoPath  string
	Status     Status
	OutputPath string // sidecar path or the video itself
	UpperLabel string
	LowerLabel string
	Blocks     int
	Err        error
}

// classifies an error from MergeVideo
func statusFor(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrAlreadyMerged), errors.Is(err, ErrOutputExists):
		return StatusAlreadyMerged
	case errors.Is(err, ErrNoMatchingStream), errors.Is(err, ErrEmptyTrack):
		return StatusNotPossible
	default:
		return StatusFailed
	}
}
