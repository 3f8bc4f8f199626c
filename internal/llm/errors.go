package llm

import (
	"errors"
	"fmt"
)

var (
	ErrAPI           = errors.New("api error")
	ErrNetwork       = errors.New("network error")
	ErrOther         = errors.New("other error")
	ErrEmptyResponse = errors.New("empty response")
)

// Kind classifies a failed round trip.
type Kind int

const (
	// KindAPI: the service answered with an error body.
	KindAPI Kind = iota + 1
	// KindNetwork: no well-formed response was received.
	KindNetwork
	// KindOther: local failures, including bodies that match neither shape.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindAPI:
		return "api"
	case KindNetwork:
		return "network"
	case KindOther:
		return "other"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindAPI:
		return ErrAPI
	case KindNetwork:
		return ErrNetwork
	default:
		return ErrOther
	}
}

// Error is returned by every operation of this package. errors.Is matches it
// against ErrAPI, ErrNetwork or ErrOther according to Kind.
type Error struct {
	Kind    Kind
	Op      string
	Message string

	// StatusCode is the HTTP status when a response was read, for diagnostics only.
	StatusCode int

	// Detail is the remote error object, set for KindAPI.
	Detail *ErrorDetail

	Err error
}

func (e *Error) Error() string {
	if e.Kind == KindAPI {
		return e.Message
	}
	msg := e.Kind.sentinel().Error() + ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func newAPIError(detail ErrorDetail) *Error {
	return &Error{
		Kind:    KindAPI,
		Message: detail.Message,
		Detail:  &detail,
	}
}

func newNetworkError(msg string, err error) *Error {
	return &Error{Kind: KindNetwork, Message: msg, Err: err}
}

func newOtherError(msg string, err error) *Error {
	return &Error{Kind: KindOther, Message: msg, Err: err}
}

// KindOf reports the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
