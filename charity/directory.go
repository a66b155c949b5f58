package charity

import (
	"context"

	"github.com/pkg/errors"

	"github.com/tuinue-wasichana/go-client/api"
)

// DirectoryBackend is the public slice of the platform API the directory
// reads, satisfied by *api.Client.
type DirectoryBackend interface {
	Charities(ctx context.Context) ([]api.Charity, error)
	Charity(ctx context.Context, id int64) (*api.Charity, error)
	Stories(ctx context.Context, charityID int64) ([]api.Story, error)
}

// Directory reads the public charity listing. No authentication involved.
type Directory struct {
	backend DirectoryBackend
}

// NewDirectory creates a Directory.
func NewDirectory(backend DirectoryBackend) (*Directory, error) {
	if backend == nil {
		return nil, errors.New("[NewDirectory] backend is required")
	}
	return &Directory{backend: backend}, nil
}

// List returns the publicly visible charities.
func (d *Directory) List(ctx context.Context) ([]api.Charity, error) {
	charities, err := d.backend.Charities(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Directory.List]")
	}
	return charities, nil
}

// Profile returns one charity with its published stories. Profiles fetched
// without nested stories are backfilled from the stories endpoint.
func (d *Directory) Profile(ctx context.Context, id int64) (*api.Charity, error) {
	profile, err := d.backend.Charity(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "[Directory.Profile]")
	}
	if profile.Stories == nil {
		stories, err := d.backend.Stories(ctx, id)
		if err != nil {
			return nil, errors.Wrap(err, "[Directory.Profile] stories")
		}
		profile.Stories = stories
	}
	return profile, nil
}
