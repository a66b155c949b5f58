package charity

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/tuinue-wasichana/go-client/api"
	"github.com/tuinue-wasichana/go-client/session"
)

// ErrNotApproved is returned when an authoring action is attempted while
// the last fetched status does not allow it. The backend re-checks anyway;
// this keeps unapproved charities from even issuing the call.
var ErrNotApproved = errors.New("charity not approved")

// DashboardBackend is the charity-facing slice of the platform API,
// satisfied by *api.Client.
type DashboardBackend interface {
	CharityStatus(ctx context.Context, token string) (*api.CharityStatusResponse, error)
	CharityDonations(ctx context.Context, token string) (*api.CharityDonationsResponse, error)
	AddStory(ctx context.Context, token string, story api.StoryInput) (*api.MessageResponse, error)
	UpdateStory(ctx context.Context, token string, id int64, story api.StoryInput) (*api.MessageResponse, error)
}

// Dashboard drives the charity's own view: application status, received
// donations, and story authoring gated on approval. The status cache holds
// nothing beyond the last fetched value.
type Dashboard struct {
	backend DashboardBackend
	store   session.Store
	log     zerolog.Logger

	mu         sync.RWMutex
	lastStatus Status
	hasStatus  bool
}

// NewDashboard creates a Dashboard for the charity owning the session.
func NewDashboard(backend DashboardBackend, store session.Store, log zerolog.Logger) (*Dashboard, error) {
	if backend == nil {
		return nil, errors.New("[NewDashboard] backend is required")
	}
	if store == nil {
		return nil, errors.New("[NewDashboard] session store is required")
	}
	return &Dashboard{backend: backend, store: store, log: log}, nil
}

// RefreshStatus fetches the application status and re-derives the
// capability set.
func (d *Dashboard) RefreshStatus(ctx context.Context) (Status, CapabilitySet, error) {
	resp, err := d.backend.CharityStatus(ctx, d.store.Get().Token)
	if err != nil {
		return StatusPending, CapabilitySet{}, errors.Wrap(err, "[Dashboard.RefreshStatus]")
	}
	status := ParseStatus(resp.Approved, resp.Rejected)

	d.mu.Lock()
	d.lastStatus = status
	d.hasStatus = true
	d.mu.Unlock()

	d.log.Debug().Stringer("status", status).Msg("charity status refreshed")
	return status, Capabilities(status), nil
}

// Donations fetches the received donations and the running credit total.
func (d *Dashboard) Donations(ctx context.Context) (*api.CharityDonationsResponse, error) {
	resp, err := d.backend.CharityDonations(ctx, d.store.Get().Token)
	if err != nil {
		return nil, errors.Wrap(err, "[Dashboard.Donations]")
	}
	return resp, nil
}

// AddStory publishes a beneficiary story, refusing locally unless the last
// fetched status grants authoring.
func (d *Dashboard) AddStory(ctx context.Context, story api.StoryInput) (*api.MessageResponse, error) {
	if err := d.requireAuthoring(ctx); err != nil {
		return nil, err
	}
	resp, err := d.backend.AddStory(ctx, d.store.Get().Token, story)
	if err != nil {
		return nil, errors.Wrap(err, "[Dashboard.AddStory]")
	}
	return resp, nil
}

// UpdateStory replaces an existing story, under the same gating as AddStory.
func (d *Dashboard) UpdateStory(ctx context.Context, id int64, story api.StoryInput) (*api.MessageResponse, error) {
	if err := d.requireAuthoring(ctx); err != nil {
		return nil, err
	}
	resp, err := d.backend.UpdateStory(ctx, d.store.Get().Token, id, story)
	if err != nil {
		return nil, errors.Wrap(err, "[Dashboard.UpdateStory]")
	}
	return resp, nil
}

func (d *Dashboard) requireAuthoring(ctx context.Context) error {
	d.mu.RLock()
	status, known := d.lastStatus, d.hasStatus
	d.mu.RUnlock()

	if !known {
		fetched, _, err := d.RefreshStatus(ctx)
		if err != nil {
			return err
		}
		status = fetched
	}
	if !Capabilities(status).AuthorStories {
		return errors.Wrapf(ErrNotApproved, "status %s", status)
	}
	return nil
}
