package model

import "errors"

// ErrorKind classifies a pipeline failure.
type ErrorKind string

const (
	KindInvalidInput      ErrorKind = "INVALID_INPUT"
	KindTransportFailure  ErrorKind = "TRANSPORT_FAILURE"
	KindServiceFailure    ErrorKind = "SERVICE_FAILURE"
	KindMalformedResponse ErrorKind = "MALFORMED_RESPONSE"
)

// User-visible messages.
const (
	MsgInvalidTicker     = "Please provide a valid stock ticker."
	MsgPredictionFailed  = "Failed to fetch prediction."
	MsgMalformedResponse = "Received an invalid response from the prediction service."
)

// PipelineError is the single error type surfaced to the user. Message is
// what the error slot shows; Err keeps the underlying cause for logs.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *PipelineError) Unwrap() error { return e.Err }

// NewError builds a PipelineError.
func NewError(kind ErrorKind, msg string, cause error) *PipelineError {
	return &PipelineError{Kind: kind, Message: msg, Err: cause}
}

// KindOf returns the kind of err, or "" if err is not a PipelineError.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// UserMessage returns the message to display for err.
func UserMessage(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return MsgPredictionFailed
}
