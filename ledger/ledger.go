// Package ledger performs the balance-changing operations for a donor
// account. The backend is the ledger authority: the local balance and
// histories are caches of confirmed state and are only ever replaced with
// values the backend supplied. There is no optimistic decrement anywhere —
// the non-negative balance invariant is the backend's to enforce and the
// client's to respect.
package ledger

import (
	"errors"
)

var (
	// ErrInvalidAmount occurs when an operation is attempted with a
	// non-positive credit amount. Caught client-side before any round trip.
	ErrInvalidAmount = errors.New("amount must be a positive number of credits")

	// ErrInsufficientCredits occurs when a donation exceeds the confirmed
	// balance. The backend rejects the operation and nothing changes
	// locally.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrCharityUnavailable occurs when the donation target does not exist
	// or is not accepting donations.
	ErrCharityUnavailable = errors.New("charity unavailable")
)

// DefaultRecurringFrequency is applied when a recurring donation does not
// specify one, matching the platform frontend.
const DefaultRecurringFrequency = "monthly"
