package auth_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tuinue-wasichana/go-client/api"
	"github.com/tuinue-wasichana/go-client/auth"
	"github.com/tuinue-wasichana/go-client/internal/utils"
	"github.com/tuinue-wasichana/go-client/session"
	fakesessionstore "github.com/tuinue-wasichana/go-client/session/repofakes"
)

type fakeAuthBackend struct {
	loginResp    *api.AuthResponse
	loginErr     error
	registerResp *api.AuthResponse
	registerErr  error

	lastLoginEmail string
	lastRegister   api.RegisterRequest
}

func (f *fakeAuthBackend) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	f.lastLoginEmail = email
	return f.loginResp, f.loginErr
}

func (f *fakeAuthBackend) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	f.lastRegister = req
	return f.registerResp, f.registerErr
}

func (f *fakeAuthBackend) RequestPasswordReset(ctx context.Context, email string) (*api.MessageResponse, error) {
	return &api.MessageResponse{Message: "Reset link sent"}, nil
}

func (f *fakeAuthBackend) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) (*api.MessageResponse, error) {
	return &api.MessageResponse{Message: "Password updated"}, nil
}

func newService(t *testing.T, backend *fakeAuthBackend) (*auth.Service, *fakesessionstore.FakeStore) {
	t.Helper()
	store := fakesessionstore.NewFakeStore()
	service, err := auth.NewService(backend, store, zerolog.Nop())
	require.NoError(t, err)
	return service, store
}

func TestService_Login(t *testing.T) {
	t.Run("donor login writes a complete session", func(t *testing.T) {
		backend := &fakeAuthBackend{
			loginResp: &api.AuthResponse{UserID: 1, AccessToken: "tok-donor", Role: "donor"},
		}
		service, store := newService(t, backend)

		sess, err := service.Login(context.Background(), "amina@example.com", "secret")
		require.NoError(t, err)
		require.Equal(t, session.RoleDonor, sess.Role)
		require.Equal(t, sess, store.Get())
		require.True(t, store.Get().Authenticated())
	})

	t.Run("charity login carries the charity id", func(t *testing.T) {
		backend := &fakeAuthBackend{
			loginResp: &api.AuthResponse{
				UserID: 2, AccessToken: "tok-charity", Role: "charity", CharityID: utils.Ptr(int64(5)),
			},
		}
		service, store := newService(t, backend)

		sess, err := service.Login(context.Background(), "water@example.com", "secret")
		require.NoError(t, err)
		require.Equal(t, session.RoleCharity, sess.Role)
		require.Equal(t, int64(5), store.Get().CharityID)
	})

	t.Run("bad credentials leave no session", func(t *testing.T) {
		backend := &fakeAuthBackend{
			loginErr: &api.Error{Status: http.StatusUnauthorized, Message: "Invalid email or password"},
		}
		service, store := newService(t, backend)

		_, err := service.Login(context.Background(), "amina@example.com", "wrong")
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
		require.True(t, store.Get().IsZero())
		require.Zero(t, store.SetCalls)
	})

	t.Run("pending charity account is refused with a typed error", func(t *testing.T) {
		backend := &fakeAuthBackend{
			loginErr: &api.Error{Status: http.StatusForbidden, Message: "Your charity application is pending review"},
		}
		service, store := newService(t, backend)

		_, err := service.Login(context.Background(), "water@example.com", "secret")
		require.ErrorIs(t, err, auth.ErrCharityPending)
		require.True(t, store.Get().IsZero())
	})

	t.Run("rejected charity account is distinguishable from pending", func(t *testing.T) {
		backend := &fakeAuthBackend{
			loginErr: &api.Error{Status: http.StatusForbidden, Message: "Your charity application was not approved"},
		}
		service, _ := newService(t, backend)

		_, err := service.Login(context.Background(), "water@example.com", "secret")
		require.ErrorIs(t, err, auth.ErrCharityRejected)
	})

	t.Run("unknown role is refused before any session is written", func(t *testing.T) {
		backend := &fakeAuthBackend{
			loginResp: &api.AuthResponse{UserID: 9, AccessToken: "tok", Role: "superuser"},
		}
		service, store := newService(t, backend)

		_, err := service.Login(context.Background(), "x@example.com", "secret")
		require.ErrorIs(t, err, auth.ErrUnknownRole)
		require.True(t, store.Get().IsZero())
	})
}

func TestService_Register(t *testing.T) {
	t.Run("donor registration yields a live session", func(t *testing.T) {
		backend := &fakeAuthBackend{
			registerResp: &api.AuthResponse{
				Message: "Registration successful", UserID: 1, AccessToken: "tok-donor", Role: "donor",
			},
		}
		service, store := newService(t, backend)

		result, err := service.Register(context.Background(), api.RegisterRequest{
			Username: "amina", Email: "amina@example.com", Password: "secret", Role: "donor",
		})
		require.NoError(t, err)
		require.False(t, result.Pending)
		require.Equal(t, result.Session, store.Get())
	})

	t.Run("charity registration enters review and yields no session", func(t *testing.T) {
		backend := &fakeAuthBackend{
			registerResp: &api.AuthResponse{Message: "Application submitted for review", Pending: true},
		}
		service, store := newService(t, backend)

		result, err := service.Register(context.Background(), api.RegisterRequest{
			Username: "water", Email: "water@example.com", Password: "secret", Role: "charity",
			Charity: &api.CharityApplication{Name: "Clean Water Fund", Description: "Wells in Kisumu"},
		})
		require.NoError(t, err)
		require.True(t, result.Pending)
		require.True(t, result.Session.IsZero())
		require.True(t, store.Get().IsZero())
		require.Zero(t, store.SetCalls)
	})

	t.Run("missing token is treated as pending even without the flag", func(t *testing.T) {
		backend := &fakeAuthBackend{
			registerResp: &api.AuthResponse{Message: "Submitted"},
		}
		service, store := newService(t, backend)

		result, err := service.Register(context.Background(), api.RegisterRequest{Role: "charity"})
		require.NoError(t, err)
		require.True(t, result.Pending)
		require.True(t, store.Get().IsZero())
	})
}

func TestService_Logout(t *testing.T) {
	backend := &fakeAuthBackend{
		loginResp: &api.AuthResponse{UserID: 1, AccessToken: "tok-donor", Role: "donor"},
	}
	service, store := newService(t, backend)

	_, err := service.Login(context.Background(), "amina@example.com", "secret")
	require.NoError(t, err)
	require.False(t, store.Get().IsZero())

	require.NoError(t, service.Logout())
	require.True(t, store.Get().IsZero())
	require.Equal(t, 1, store.ClearCalls)
	require.Equal(t, 1, store.SetCalls, "clearing must not count as a set")
}

func TestService_PasswordReset(t *testing.T) {
	service, _ := newService(t, &fakeAuthBackend{})

	msg, err := service.RequestPasswordReset(context.Background(), "amina@example.com")
	require.NoError(t, err)
	require.Equal(t, "Reset link sent", msg)

	msg, err = service.ConfirmPasswordReset(context.Background(), "reset-tok", "newsecret")
	require.NoError(t, err)
	require.Equal(t, "Password updated", msg)
}
