package admin_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tuinue-wasichana/go-client/admin"
	"github.com/tuinue-wasichana/go-client/api"
	"github.com/tuinue-wasichana/go-client/session"
	fakesessionstore "github.com/tuinue-wasichana/go-client/session/repofakes"
)

type fakeAdminBackend struct {
	charities []api.Charity
	reviewErr error

	reviews   []api.ReviewRequest
	lastToken string
}

func (f *fakeAdminBackend) AdminCharities(ctx context.Context, token string) ([]api.Charity, error) {
	f.lastToken = token
	return f.charities, nil
}

func (f *fakeAdminBackend) ReviewCharity(ctx context.Context, token string, req api.ReviewRequest) (*api.MessageResponse, error) {
	f.lastToken = token
	if f.reviewErr != nil {
		return nil, f.reviewErr
	}
	f.reviews = append(f.reviews, req)
	return &api.MessageResponse{Message: "Review recorded"}, nil
}

func newAdminService(t *testing.T, backend *fakeAdminBackend) *admin.Service {
	t.Helper()
	store := fakesessionstore.NewFakeStore()
	require.NoError(t, store.Set(session.Session{Token: "tok-admin", Role: session.RoleAdmin, UserID: 3}))

	service, err := admin.NewService(backend, store, zerolog.Nop())
	require.NoError(t, err)
	return service
}

func TestService_Applications(t *testing.T) {
	backend := &fakeAdminBackend{
		charities: []api.Charity{
			{ID: 5, Name: "Clean Water Fund", Approved: true},
			{ID: 6, Name: "School Meals"},
			{ID: 7, Name: "Bright Futures", Rejected: true},
		},
	}
	service := newAdminService(t, backend)

	apps, err := service.Applications(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 3, "pending and rejected applications are listed too")
	require.Equal(t, "tok-admin", backend.lastToken)
}

func TestService_Review(t *testing.T) {
	t.Run("approve sets only the approved flag", func(t *testing.T) {
		backend := &fakeAdminBackend{}
		service := newAdminService(t, backend)

		resp, err := service.Approve(context.Background(), 6)
		require.NoError(t, err)
		require.Equal(t, "Review recorded", resp.Message)
		require.Equal(t, []api.ReviewRequest{{CharityID: 6, Approved: true}}, backend.reviews)
	})

	t.Run("reject sets only the rejected flag", func(t *testing.T) {
		backend := &fakeAdminBackend{}
		service := newAdminService(t, backend)

		_, err := service.Reject(context.Background(), 6)
		require.NoError(t, err)
		require.Equal(t, []api.ReviewRequest{{CharityID: 6, Rejected: true}}, backend.reviews)
	})

	t.Run("backend refusal passes through the taxonomy", func(t *testing.T) {
		backend := &fakeAdminBackend{
			reviewErr: &api.Error{Status: http.StatusForbidden, Message: "Admin access required"},
		}
		service := newAdminService(t, backend)

		_, err := service.Approve(context.Background(), 6)
		require.ErrorIs(t, err, api.ErrAuthorizationDenied)
		require.Empty(t, backend.reviews)
	})
}
