package engine

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures into the closed set the HTTP layer maps to
// user-facing statuses. Every failure from the baseline provider, the inference
// client, or the response normalizer lands on exactly one kind.
type Kind string

const (
	// KindInvalidInput marks a request missing make/model. It is the only
	// non-terminal kind: the engine logs it and proceeds with a degraded
	// prompt instead of failing.
	KindInvalidInput Kind = "invalid_input"

	// KindStyleNotFound means the baseline catalog had no style for the
	// requested make/model/year. Only raised when a baseline was requested.
	KindStyleNotFound Kind = "style_not_found"

	// KindBaselineUnavailable covers transport and non-2xx failures from the
	// baseline appraisal service.
	KindBaselineUnavailable Kind = "baseline_unavailable"

	// KindInferenceUnavailable covers transport, auth and quota failures from
	// the text-generation service.
	KindInferenceUnavailable Kind = "inference_unavailable"

	// KindMalformedResponse means the reply was not parseable as JSON even
	// after fence stripping.
	KindMalformedResponse Kind = "malformed_response"

	// KindIncompleteStructure means the reply parsed but is missing or
	// mis-typing required keys for the active mode.
	KindIncompleteStructure Kind = "incomplete_structure"
)

// Error is the typed engine error. Message is safe to return to API callers;
// Detail and Raw carry the diagnostic context (offending key, raw reply) and
// are only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
	Raw     string
	Err     error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the engine error kind from err, or "" if err is not an
// engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
