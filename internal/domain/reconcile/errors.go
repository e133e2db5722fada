package reconcile

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable classification of a reconciliation failure.
type Kind string

const (
	// KindValidation covers bad input ids. Never retried; maps to 4xx.
	KindValidation Kind = "validation_error"
	// KindNotFound means the external reference id is unknown to the
	// provider. No local record is created; maps to 404.
	KindNotFound Kind = "not_found"
	// KindProviderUnavailable covers provider timeouts and 5xx responses.
	// Safe to retry; no local state changed; maps to 502/503.
	KindProviderUnavailable Kind = "provider_unavailable"
)

// Error carries a failure kind alongside the human-readable message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func notFoundError(externalRef string, err error) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf("external reference %s unknown to provider", externalRef), Err: err}
}

func providerUnavailableError(err error) *Error {
	return &Error{Kind: KindProviderUnavailable, Msg: "provider unavailable", Err: err}
}

// KindOf returns the failure kind of err, or the empty string when err is
// not a reconciliation error.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return ""
}
