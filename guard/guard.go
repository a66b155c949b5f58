// Package guard decides whether a protected view may proceed for the
// current session. It is the single authority for role redirects, and the
// only component that reacts to a rejected token by clearing the store.
package guard

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/tuinue-wasichana/go-client/session"
	"github.com/tuinue-wasichana/go-client/token"
)

// State is the outcome of one guard activation.
type State int

const (
	// StateValidating is the only state in which nothing protected may be
	// shown; an activation starts here and ends in one of the terminal
	// states below.
	StateValidating State = iota
	StateAllowed
	StateDeniedNoSession
	StateDeniedWrongRole
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateAllowed:
		return "allowed"
	case StateDeniedNoSession:
		return "denied_no_session"
	case StateDeniedWrongRole:
		return "denied_wrong_role"
	}
	return "unknown"
}

// maxRevalidations bounds the retry loop that re-runs validation when the
// session token changes underneath an in-flight check. Exceeding it fails
// closed.
const maxRevalidations = 3

// Validator is the token check the guard depends on, satisfied by
// *token.Validator.
type Validator interface {
	Validate(ctx context.Context, raw string) token.Result
}

// Guard evaluates protected-view activations against the session store.
type Guard struct {
	store     session.Store
	validator Validator
	log       zerolog.Logger
}

// Option configures a Guard.
type Option func(*Guard)

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Guard) {
		g.log = log
	}
}

// New creates a Guard over the given store and validator.
func New(store session.Store, validator Validator, options ...Option) (*Guard, error) {
	if store == nil {
		return nil, errors.New("[guard.New] session store is required")
	}
	if validator == nil {
		return nil, errors.New("[guard.New] validator is required")
	}
	g := &Guard{store: store, validator: validator, log: zerolog.Nop()}
	for _, opt := range options {
		opt(g)
	}
	return g, nil
}

// Activation is the resolved outcome for one protected-view entry. It is
// single use: a token change requires a fresh Activate call, and a previous
// Allowed must not be trusted across one.
type Activation struct {
	ID           string
	RequiredRole session.Role // zero means any authenticated role
	State        State
	Session      session.Session // snapshot the decision was made against
	Redirect     string          // where to send the user; empty when allowed
}

// Allowed reports whether the wrapped content may proceed.
func (a *Activation) Allowed() bool {
	return a.State == StateAllowed
}

// Activate runs the state machine to a terminal state. Validation for the
// snapshotted token completes before anything is decided; a result whose
// token no longer matches the live session is discarded and the machine
// re-runs against the current session.
func (g *Guard) Activate(ctx context.Context, required session.Role) *Activation {
	act := &Activation{
		ID:           uuid.NewString(),
		RequiredRole: required,
		State:        StateValidating,
	}

	for attempt := 0; attempt < maxRevalidations; attempt++ {
		snapshot := g.store.Get()
		act.Session = snapshot

		if !snapshot.Authenticated() {
			return g.deny(act, StateDeniedNoSession)
		}

		result := g.validator.Validate(ctx, snapshot.Token)

		current := g.store.Get()
		if current.Token != result.Token {
			// The session changed while the check was in flight. The
			// result belongs to a token nobody holds anymore; drop it.
			g.log.Debug().Str("activation", act.ID).Msg("discarding validation result for superseded token")
			continue
		}

		if !result.Valid {
			if err := g.store.Clear(); err != nil {
				g.log.Error().Err(err).Str("activation", act.ID).Msg("clearing session after rejected token")
			}
			return g.deny(act, StateDeniedNoSession)
		}

		if required != "" && snapshot.Role != required {
			return g.deny(act, StateDeniedWrongRole)
		}

		act.State = StateAllowed
		act.Redirect = ""
		return act
	}

	g.log.Warn().Str("activation", act.ID).Msg("session kept changing during validation, failing closed")
	act.Session = g.store.Get()
	return g.deny(act, StateDeniedNoSession)
}

// CheckSession re-validates any held token, clearing the store when the
// backend no longer accepts it, and reports whether a valid session
// remains. Run once at process start so a revoked persisted session
// cannot serve commands that read the store without activating the guard.
func (g *Guard) CheckSession(ctx context.Context) bool {
	if !g.store.Get().Authenticated() {
		return false
	}
	return g.Activate(ctx, "").Allowed()
}

func (g *Guard) deny(act *Activation, state State) *Activation {
	act.State = state
	act.Redirect = RedirectTarget(state, act.Session.Role)
	g.log.Info().
		Str("activation", act.ID).
		Stringer("state", state).
		Str("role", string(act.Session.Role)).
		Str("required", string(act.RequiredRole)).
		Str("redirect", act.Redirect).
		Msg("access denied")
	return act
}
