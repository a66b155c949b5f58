// Package auth runs the flows that create and destroy the client session:
// login, registration, logout and password reset. It is the only writer of
// complete sessions; everything else either reads the store or clears it.
package auth

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/tuinue-wasichana/go-client/api"
	"github.com/tuinue-wasichana/go-client/session"
)

// Backend is the unauthenticated slice of the platform API, satisfied by
// *api.Client.
type Backend interface {
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	RequestPasswordReset(ctx context.Context, email string) (*api.MessageResponse, error)
	ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) (*api.MessageResponse, error)
}

// Service combines the API with the session store.
type Service struct {
	backend Backend
	store   session.Store
	log     zerolog.Logger
}

// NewService creates an auth Service.
func NewService(backend Backend, store session.Store, log zerolog.Logger) (*Service, error) {
	if backend == nil {
		return nil, errors.New("[auth.NewService] backend is required")
	}
	if store == nil {
		return nil, errors.New("[auth.NewService] session store is required")
	}
	return &Service{backend: backend, store: store, log: log}, nil
}

// Login authenticates and, on success, replaces the session atomically.
// Charity accounts whose application is still pending or was rejected come
// back as typed errors and no session is written.
func (s *Service) Login(ctx context.Context, email, password string) (session.Session, error) {
	resp, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return session.Session{}, classifyLoginError(err)
	}

	sess, err := sessionFromAuthResponse(resp)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "[Service.Login]")
	}
	if err := s.store.Set(sess); err != nil {
		return session.Session{}, errors.Wrap(err, "[Service.Login] store session")
	}
	s.log.Info().Str("role", string(sess.Role)).Int64("user_id", sess.UserID).Msg("logged in")
	return sess, nil
}

// RegisterResult reports what registration produced: an immediate session
// for donors and admins, or a pending acknowledgement for charities.
type RegisterResult struct {
	Message string
	Pending bool
	Session session.Session // zero when Pending
}

// Register creates an account. Donor and admin registrations yield a live
// session; charity registrations enter the review queue and yield none.
func (s *Service) Register(ctx context.Context, req api.RegisterRequest) (RegisterResult, error) {
	resp, err := s.backend.Register(ctx, req)
	if err != nil {
		return RegisterResult{}, errors.Wrap(err, "[Service.Register]")
	}

	if resp.Pending || resp.AccessToken == "" {
		return RegisterResult{Message: resp.Message, Pending: true}, nil
	}

	sess, err := sessionFromAuthResponse(resp)
	if err != nil {
		return RegisterResult{}, errors.Wrap(err, "[Service.Register]")
	}
	if err := s.store.Set(sess); err != nil {
		return RegisterResult{}, errors.Wrap(err, "[Service.Register] store session")
	}
	s.log.Info().Str("role", string(sess.Role)).Int64("user_id", sess.UserID).Msg("registered")
	return RegisterResult{Message: resp.Message, Session: sess}, nil
}

// Logout destroys the session.
func (s *Service) Logout() error {
	if err := s.store.Clear(); err != nil {
		return errors.Wrap(err, "[Service.Logout]")
	}
	s.log.Info().Msg("logged out")
	return nil
}

// RequestPasswordReset asks the backend to email a reset link.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	resp, err := s.backend.RequestPasswordReset(ctx, email)
	if err != nil {
		return "", errors.Wrap(err, "[Service.RequestPasswordReset]")
	}
	return resp.Message, nil
}

// ConfirmPasswordReset completes a reset using the emailed token.
func (s *Service) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) (string, error) {
	resp, err := s.backend.ConfirmPasswordReset(ctx, resetToken, newPassword)
	if err != nil {
		return "", errors.Wrap(err, "[Service.ConfirmPasswordReset]")
	}
	return resp.Message, nil
}

func sessionFromAuthResponse(resp *api.AuthResponse) (session.Session, error) {
	role, err := session.ParseRole(resp.Role)
	if err != nil {
		return session.Session{}, errors.Wrap(ErrUnknownRole, resp.Role)
	}
	sess := session.Session{
		Token:  resp.AccessToken,
		Role:   role,
		UserID: resp.UserID,
	}
	if role == session.RoleCharity && resp.CharityID != nil {
		sess.CharityID = *resp.CharityID
	}
	return sess, nil
}

// The backend answers 401 for bad credentials and 403 with a prose message
// for charity accounts still in (or out of) review. The message wording is
// the only discriminator the wire offers for the latter two.
func classifyLoginError(err error) error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return errors.Wrap(err, "[Service.Login]")
	}
	switch {
	case errors.Is(apiErr, api.ErrSessionInvalid):
		return errors.Wrap(ErrInvalidCredentials, apiErr.Message)
	case errors.Is(apiErr, api.ErrAuthorizationDenied):
		if strings.Contains(strings.ToLower(apiErr.Message), "pending") {
			return errors.Wrap(ErrCharityPending, apiErr.Message)
		}
		return errors.Wrap(ErrCharityRejected, apiErr.Message)
	}
	return errors.Wrap(err, "[Service.Login]")
}
