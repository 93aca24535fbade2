package broker

import (
	"errors"
	"fmt"

	"github.com/roach88/interposition/request"
)

// ErrorKind categorizes broker-raised errors, distinguishable by identity
// via a closed set of string tags.
type ErrorKind string

const (
	// KindInteractionNotFound: replay called with a request whose
	// fingerprint has no cassette entry, in a mode where that is fatal.
	KindInteractionNotFound ErrorKind = "INTERACTION_NOT_FOUND"
	// KindLiveResponderRequired: broker construction with record/auto mode
	// and no live responder configured.
	KindLiveResponderRequired ErrorKind = "LIVE_RESPONDER_REQUIRED"
)

// Error is the broker's error type. It carries a Kind for identity checks
// (via errors.As, or the Is* helpers below) plus the offending request when
// relevant.
type Error struct {
	Kind    ErrorKind
	Request request.Request
	Mode    Mode
}

// Is reports whether target is an *Error with the same Kind, letting
// callers use errors.Is(err, broker.ErrInteractionNotFound) as an
// alternative to the Is* helpers below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Kind == t.Kind
}

// Sentinel *Error values usable with errors.Is. Only Kind is compared; the
// Request/Mode fields on these sentinels are never populated and must not
// be inspected.
var (
	ErrInteractionNotFound   = &Error{Kind: KindInteractionNotFound}
	ErrLiveResponderRequired = &Error{Kind: KindLiveResponderRequired}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindInteractionNotFound:
		return fmt.Sprintf("interposition: no interaction found for request (protocol=%s action=%s target=%s)",
			e.Request.Protocol, e.Request.Action, e.Request.Target)
	case KindLiveResponderRequired:
		return fmt.Sprintf("interposition: mode %q requires a live responder", e.Mode)
	default:
		return fmt.Sprintf("interposition: broker error (%s)", e.Kind)
	}
}

// IsInteractionNotFound reports whether err is (or wraps) an
// interaction-not-found broker error.
func IsInteractionNotFound(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == KindInteractionNotFound
}

// IsLiveResponderRequired reports whether err is (or wraps) a
// live-responder-required broker error.
func IsLiveResponderRequired(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == KindLiveResponderRequired
}
