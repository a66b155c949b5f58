package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Failure categories. Every error returned by a Client method wraps exactly
// one of these, so callers can branch on errors.Is without inspecting status
// codes. The *Error it wraps keeps the status and the backend message
// verbatim for the cases that need finer distinctions (insufficient balance
// vs unknown charity).
var (
	// ErrSessionInvalid covers missing, expired or rejected tokens. The
	// holder of the session store reacts by clearing it (fail-closed).
	ErrSessionInvalid = errors.New("session invalid")

	// ErrAuthorizationDenied covers a valid session with the wrong role.
	// The session itself stays intact.
	ErrAuthorizationDenied = errors.New("authorization denied")

	// ErrRejected covers backend-side validation failures: insufficient
	// balance, unknown charity, malformed input. No local state changes.
	ErrRejected = errors.New("request rejected")

	// ErrBackendUnavailable covers transport failures and 5xx responses.
	// Retryable; no local state changes.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Error is the concrete error for a failed API call.
type Error struct {
	Status    int    // HTTP status, 0 for transport failures
	Message   string // backend-supplied message, verbatim
	RequestID string
	cause     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api: %s: %v", e.Message, e.cause)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Unwrap maps the failure onto its taxonomy sentinel.
func (e *Error) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrSessionInvalid
	case e.Status == http.StatusForbidden:
		return ErrAuthorizationDenied
	case e.Status == 0 || e.Status >= 500:
		return ErrBackendUnavailable
	default:
		return ErrRejected
	}
}

// NotFound reports whether the backend answered 404, which on ledger
// operations means the referenced charity does not exist or is unavailable.
func (e *Error) NotFound() bool {
	return e.Status == http.StatusNotFound
}

func newStatusError(status int, body []byte, requestID string) *Error {
	var payload struct {
		Message string `json:"message"`
	}
	message := http.StatusText(status)
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		message = payload.Message
	}
	return &Error{Status: status, Message: message, RequestID: requestID}
}
