// Package charity covers the charity-facing side of the platform: the
// public directory, the tri-state application status, and the capabilities
// that status unlocks.
package charity

// SupportContact is the fixed address shown to rejected applicants.
const SupportContact = "support@tuinuewasichana.org"

// Status is the tri-state application status. The backend owns it; the
// client re-derives it on every fetch and keeps no other state.
type Status int

const (
	StatusPending Status = iota
	StatusApproved
	StatusRejected
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	}
	return "unknown"
}

// ParseStatus derives the tri-state from the backend's approved/rejected
// flags. Rejection wins over approval; neither flag means pending.
func ParseStatus(approved, rejected bool) Status {
	switch {
	case rejected:
		return StatusRejected
	case approved:
		return StatusApproved
	}
	return StatusPending
}

// CapabilitySet is what a charity identity may currently do.
type CapabilitySet struct {
	AuthorStories    bool
	PubliclyListed   bool
	ReceiveDonations bool
	SupportContact   string // set only for rejected applications
}

// Capabilities is a pure function of the status: pending and rejected
// charities can do nothing; approved ones get the full set.
func Capabilities(s Status) CapabilitySet {
	switch s {
	case StatusApproved:
		return CapabilitySet{AuthorStories: true, PubliclyListed: true, ReceiveDonations: true}
	case StatusRejected:
		return CapabilitySet{SupportContact: SupportContact}
	}
	return CapabilitySet{}
}
