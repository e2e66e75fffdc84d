package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for propagation and HTTP mapping.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindStorage       Kind = "storage"
	KindNotFound      Kind = "not_found"
	KindTranscription Kind = "transcription"
	KindAnalysis      Kind = "analysis"
	KindAuth          Kind = "auth"
	KindSend          Kind = "send"
	KindNetwork       Kind = "network"
)

// Fault is a classified error. Fields carries field-level detail for
// validation failures only.
type Fault struct {
	Kind   Kind
	Msg    string
	Fields map[string]string
	Err    error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Msg, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Msg)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

func New(kind Kind, msg string) *Fault {
	return &Fault{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Fault {
	return &Fault{Kind: kind, Msg: msg, Err: err}
}

// Validation builds a validation fault with per-field messages.
func Validation(msg string, fields map[string]string) *Fault {
	return &Fault{Kind: KindValidation, Msg: msg, Fields: fields}
}

func NotFound(msg string) *Fault {
	return &Fault{Kind: KindNotFound, Msg: msg}
}

// KindOf returns the classification of err, or "" if err carries none.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func IsNotFound(err error) bool   { return IsKind(err, KindNotFound) }
func IsValidation(err error) bool { return IsKind(err, KindValidation) }
