package analyzer

import (
	"errors"
	"fmt"
)

// Kind classifies analysis failures so callers can map them to responses.
type Kind int

const (
	KindConfig       Kind = iota + 1 // credential missing or unusable, no request was sent
	KindInvalidInput                 // no image given
	KindUpstream                     // network failure or non-2xx from the model endpoint
	KindMalformed                    // reply received but no JSON object could be read from it
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindInvalidInput:
		return "invalid_input"
	case KindUpstream:
		return "upstream"
	case KindMalformed:
		return "malformed_response"
	}
	return "unknown"
}

type Error struct {
	Kind       Kind
	StatusCode int    // upstream HTTP status, 0 when no response arrived
	Message    string // upstream status text or error message
	Err        error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	ErrMissingAPIKey = errors.New("api key not configured")
	ErrNoImage       = errors.New("no image provided")
	ErrNoJSON        = errors.New("no JSON object in reply")
)

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
