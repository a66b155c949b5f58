// Package session holds the client's record of who is authenticated. A
// single Session is live per process; writers always supply a complete value
// and the store is the only state shared between components.
package session

import (
	"github.com/pkg/errors"
)

// Role is the closed set of account roles. String comparison against
// backend payloads happens once, in ParseRole; everything downstream
// switches on the typed value so unknown roles cannot fall through
// silently.
type Role string

const (
	RoleDonor   Role = "donor"
	RoleCharity Role = "charity"
	RoleAdmin   Role = "admin"
)

// ParseRole maps a wire role onto the closed set.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleDonor, RoleCharity, RoleAdmin:
		return Role(raw), nil
	}
	return "", errors.Errorf("[ParseRole] unknown role %q", raw)
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// ErrPartialSession is returned by Set when a session value has a token
// without an identity or an identity without a token.
var ErrPartialSession = errors.New("partial session")

// Session is the complete authentication record. The zero value is the
// logged-out state. Invariant: Token is empty exactly when Role, UserID and
// CharityID are all empty.
type Session struct {
	Token     string `json:"token,omitempty"`
	Role      Role   `json:"role,omitempty"`
	UserID    int64  `json:"user_id,omitempty"`
	CharityID int64  `json:"charity_id,omitempty"` // only for charity accounts
}

// IsZero reports whether this is the logged-out state.
func (s Session) IsZero() bool {
	return s == Session{}
}

// Authenticated reports whether a token is held.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Validate enforces the no-partial-session invariant.
func (s Session) Validate() error {
	if s.IsZero() {
		return nil
	}
	if s.Token == "" || !s.Role.Valid() || s.UserID == 0 {
		return errors.Wrapf(ErrPartialSession, "token=%t role=%q user=%d", s.Token != "", s.Role, s.UserID)
	}
	if s.CharityID != 0 && s.Role != RoleCharity {
		return errors.Wrapf(ErrPartialSession, "charity id on %s session", s.Role)
	}
	return nil
}

// Store is the process-wide session holder. Set replaces the whole session
// atomically and persists it; Clear is Set of the zero value. Subscribe
// registers a callback invoked after every replacement, for consumers that
// react to login/logout (navigation chrome, guards).
type Store interface {
	Get() Session
	Set(Session) error
	Clear() error
	Subscribe(func(Session)) (cancel func())
}
