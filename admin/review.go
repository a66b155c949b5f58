// Package admin drives the charity application review workflow for admin
// accounts. The access guard is expected to have allowed the admin role
// before any of this runs.
package admin

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/tuinue-wasichana/go-client/api"
	"github.com/tuinue-wasichana/go-client/session"
)

// Backend is the admin slice of the platform API, satisfied by *api.Client.
type Backend interface {
	AdminCharities(ctx context.Context, token string) ([]api.Charity, error)
	ReviewCharity(ctx context.Context, token string, req api.ReviewRequest) (*api.MessageResponse, error)
}

// Service lists charity applications and records approval decisions.
type Service struct {
	backend Backend
	store   session.Store
	log     zerolog.Logger
}

// NewService creates an admin review service.
func NewService(backend Backend, store session.Store, log zerolog.Logger) (*Service, error) {
	if backend == nil {
		return nil, errors.New("[admin.NewService] backend is required")
	}
	if store == nil {
		return nil, errors.New("[admin.NewService] session store is required")
	}
	return &Service{backend: backend, store: store, log: log}, nil
}

// Applications lists every charity, including pending and rejected ones.
func (s *Service) Applications(ctx context.Context) ([]api.Charity, error) {
	charities, err := s.backend.AdminCharities(ctx, s.store.Get().Token)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.Applications]")
	}
	return charities, nil
}

// Approve marks the charity application approved.
func (s *Service) Approve(ctx context.Context, charityID int64) (*api.MessageResponse, error) {
	return s.review(ctx, api.ReviewRequest{CharityID: charityID, Approved: true})
}

// Reject marks the charity application rejected.
func (s *Service) Reject(ctx context.Context, charityID int64) (*api.MessageResponse, error) {
	return s.review(ctx, api.ReviewRequest{CharityID: charityID, Rejected: true})
}

func (s *Service) review(ctx context.Context, req api.ReviewRequest) (*api.MessageResponse, error) {
	resp, err := s.backend.ReviewCharity(ctx, s.store.Get().Token, req)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.review]")
	}
	s.log.Info().
		Int64("charity_id", req.CharityID).
		Bool("approved", req.Approved).
		Bool("rejected", req.Rejected).
		Msg("charity application reviewed")
	return resp, nil
}
