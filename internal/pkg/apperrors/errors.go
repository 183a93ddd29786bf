package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so boundaries (HTTP handlers, the websocket loop)
// can decide status codes and redaction without string-matching.
type Kind string

const (
	KindUpstreamCall     Kind = "upstream_call_failure"
	KindTranscriptionJob Kind = "transcription_job_failure"
	KindStoreUnavailable Kind = "store_unavailable"
	KindIndexCreation    Kind = "index_creation_failure"
	KindSynthesis        Kind = "synthesis_failure"
	KindNotFound         Kind = "not_found"
)

// Error carries a machine-readable kind plus a detail string that is safe to
// show to the caller. The wrapped error keeps the full upstream context for
// logs.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func Wrap(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// KindOf returns the kind of err if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsNotFound reports whether err represents a missing delete/lookup target.
func IsNotFound(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindNotFound
}
