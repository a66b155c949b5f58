package guard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuinue-wasichana/go-client/guard"
	"github.com/tuinue-wasichana/go-client/session"
	fakesessionstore "github.com/tuinue-wasichana/go-client/session/repofakes"
	"github.com/tuinue-wasichana/go-client/token"
)

// scriptedValidator resolves each token per script and can mutate the store
// mid-validation to model a logout racing an in-flight check.
type scriptedValidator struct {
	valid      map[string]bool
	onValidate func(raw string)
	calls      []string
}

func (v *scriptedValidator) Validate(ctx context.Context, raw string) token.Result {
	v.calls = append(v.calls, raw)
	if v.onValidate != nil {
		v.onValidate(raw)
	}
	if v.valid[raw] {
		return token.Result{Token: raw, Valid: true}
	}
	return token.Result{Token: raw, Valid: false, Reason: errors.New("rejected")}
}

func donorSession() session.Session {
	return session.Session{Token: "tok-donor", Role: session.RoleDonor, UserID: 1}
}

func newGuard(t *testing.T, store session.Store, validator guard.Validator) *guard.Guard {
	t.Helper()
	g, err := guard.New(store, validator)
	require.NoError(t, err)
	return g
}

func TestGuard_Activate(t *testing.T) {
	t.Run("no session", func(t *testing.T) {
		store := fakesessionstore.NewFakeStore()
		g := newGuard(t, store, &scriptedValidator{})

		act := g.Activate(context.Background(), "")
		require.Equal(t, guard.StateDeniedNoSession, act.State)
		require.Equal(t, guard.PathAuth, act.Redirect)
	})

	t.Run("invalid token clears the session", func(t *testing.T) {
		store := fakesessionstore.NewFakeStore()
		require.NoError(t, store.Set(donorSession()))
		g := newGuard(t, store, &scriptedValidator{valid: map[string]bool{}})

		act := g.Activate(context.Background(), session.RoleDonor)
		require.Equal(t, guard.StateDeniedNoSession, act.State)
		require.Equal(t, guard.PathAuth, act.Redirect)
		require.True(t, store.Get().IsZero(), "rejected token must clear the store")
	})

	t.Run("wrong role redirects to own dashboard without touching the session", func(t *testing.T) {
		store := fakesessionstore.NewFakeStore()
		require.NoError(t, store.Set(donorSession()))
		g := newGuard(t, store, &scriptedValidator{valid: map[string]bool{"tok-donor": true}})

		act := g.Activate(context.Background(), session.RoleAdmin)
		require.Equal(t, guard.StateDeniedWrongRole, act.State)
		require.Equal(t, guard.PathDonorDashboard, act.Redirect)
		require.Equal(t, donorSession(), store.Get(), "session must be untouched")
	})

	t.Run("allowed for matching role", func(t *testing.T) {
		store := fakesessionstore.NewFakeStore()
		require.NoError(t, store.Set(donorSession()))
		g := newGuard(t, store, &scriptedValidator{valid: map[string]bool{"tok-donor": true}})

		act := g.Activate(context.Background(), session.RoleDonor)
		require.True(t, act.Allowed())
		require.Empty(t, act.Redirect)
	})

	t.Run("any authenticated role when no role required", func(t *testing.T) {
		store := fakesessionstore.NewFakeStore()
		require.NoError(t, store.Set(donorSession()))
		g := newGuard(t, store, &scriptedValidator{valid: map[string]bool{"tok-donor": true}})

		act := g.Activate(context.Background(), "")
		require.True(t, act.Allowed())
	})
}

func TestGuard_StaleValidationResults(t *testing.T) {
	t.Run("logout during validation is not resurrected by a valid result", func(t *testing.T) {
		store := fakesessionstore.NewFakeStore()
		require.NoError(t, store.Set(donorSession()))

		validator := &scriptedValidator{valid: map[string]bool{"tok-donor": true}}
		validator.onValidate = func(raw string) {
			// The user logs out while the check is in flight.
			require.NoError(t, store.Clear())
		}
		g := newGuard(t, store, validator)

		act := g.Activate(context.Background(), session.RoleDonor)
		require.Equal(t, guard.StateDeniedNoSession, act.State)
		require.True(t, store.Get().IsZero())
	})

	t.Run("token swap during validation discards the old result", func(t *testing.T) {
		store := fakesessionstore.NewFakeStore()
		require.NoError(t, store.Set(donorSession()))

		adminSess := session.Session{Token: "tok-admin", Role: session.RoleAdmin, UserID: 2}
		validator := &scriptedValidator{valid: map[string]bool{"tok-donor": true, "tok-admin": true}}
		swapped := false
		validator.onValidate = func(raw string) {
			if !swapped {
				swapped = true
				require.NoError(t, store.Set(adminSess))
			}
		}
		g := newGuard(t, store, validator)

		act := g.Activate(context.Background(), session.RoleAdmin)
		require.True(t, act.Allowed(), "re-run must evaluate the new session")
		require.Equal(t, []string{"tok-donor", "tok-admin"}, validator.calls)
		require.Equal(t, adminSess, act.Session)
	})

	t.Run("endlessly churning session fails closed", func(t *testing.T) {
		store := fakesessionstore.NewFakeStore()
		require.NoError(t, store.Set(donorSession()))

		validator := &scriptedValidator{valid: map[string]bool{}}
		validator.onValidate = func(raw string) {
			// Replace the token on every attempt so no result ever matches.
			require.NoError(t, store.Set(session.Session{
				Token: raw + "x", Role: session.RoleDonor, UserID: 1,
			}))
		}
		g := newGuard(t, store, validator)

		act := g.Activate(context.Background(), session.RoleDonor)
		require.Equal(t, guard.StateDeniedNoSession, act.State)
	})
}

func TestGuard_CheckSession(t *testing.T) {
	t.Run("revoked persisted token is cleared at startup", func(t *testing.T) {
		store := fakesessionstore.NewFakeStore()
		require.NoError(t, store.Set(donorSession()))
		validator := &scriptedValidator{valid: map[string]bool{}}
		g := newGuard(t, store, validator)

		require.False(t, g.CheckSession(context.Background()))
		require.True(t, store.Get().IsZero(), "rejected token must not survive the startup check")
		require.Equal(t, []string{"tok-donor"}, validator.calls)
	})

	t.Run("valid persisted token survives", func(t *testing.T) {
		store := fakesessionstore.NewFakeStore()
		require.NoError(t, store.Set(donorSession()))
		g := newGuard(t, store, &scriptedValidator{valid: map[string]bool{"tok-donor": true}})

		require.True(t, g.CheckSession(context.Background()))
		require.Equal(t, donorSession(), store.Get())
	})

	t.Run("no session skips validation entirely", func(t *testing.T) {
		store := fakesessionstore.NewFakeStore()
		validator := &scriptedValidator{}
		g := newGuard(t, store, validator)

		require.False(t, g.CheckSession(context.Background()))
		require.Empty(t, validator.calls)
	})
}

func TestRedirectTarget(t *testing.T) {
	require.Equal(t, guard.PathAuth, guard.RedirectTarget(guard.StateDeniedNoSession, session.RoleDonor))
	require.Equal(t, guard.PathDonorDashboard, guard.RedirectTarget(guard.StateDeniedWrongRole, session.RoleDonor))
	require.Equal(t, guard.PathCharityDashboard, guard.RedirectTarget(guard.StateDeniedWrongRole, session.RoleCharity))
	require.Equal(t, guard.PathAdminDashboard, guard.RedirectTarget(guard.StateDeniedWrongRole, session.RoleAdmin))
	require.Equal(t, guard.PathHome, guard.RedirectTarget(guard.StateDeniedWrongRole, session.Role("mystery")))
	require.Empty(t, guard.RedirectTarget(guard.StateAllowed, session.RoleDonor))
}
