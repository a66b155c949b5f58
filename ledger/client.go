package ledger

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/tuinue-wasichana/go-client/api"
	"github.com/tuinue-wasichana/go-client/session"
)

// Backend is the slice of the platform API the ledger depends on, satisfied
// by *api.Client.
type Backend interface {
	DonorCredits(ctx context.Context, token string) (*api.CreditsResponse, error)
	DonationHistory(ctx context.Context, token string) ([]api.Donation, error)
	CreditHistory(ctx context.Context, token string) ([]api.CreditTransaction, error)
	PurchaseCredits(ctx context.Context, token string, amount int64) (*api.PurchaseResponse, error)
	Donate(ctx context.Context, token string, req api.DonateRequest) (*api.DonateResponse, error)
	Charities(ctx context.Context) ([]api.Charity, error)
}

// Client caches backend-confirmed donor state and funnels every mutation
// through a confirmed round trip. Callers reach it only behind an Allowed
// guard activation for the donor role; the client attaches the session
// token but does not re-run authorization checks.
type Client struct {
	backend Backend
	store   session.Store
	log     zerolog.Logger
	nowTime func() time.Time // injectable for testing

	mu        sync.RWMutex
	balance   int64
	donations []api.Donation
	purchases []api.CreditTransaction
	charities []api.Charity
}

// Option configures a Client.
type Option func(*Client)

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) Option {
	return func(c *Client) {
		c.nowTime = nowFunc
	}
}

// NewClient creates a ledger client for the donor owning the session.
func NewClient(backend Backend, store session.Store, options ...Option) (*Client, error) {
	if backend == nil {
		return nil, errors.New("[ledger.NewClient] backend is required")
	}
	if store == nil {
		return nil, errors.New("[ledger.NewClient] session store is required")
	}
	c := &Client{
		backend: backend,
		store:   store,
		log:     zerolog.Nop(),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Balance returns the last backend-confirmed balance.
func (c *Client) Balance() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.balance
}

// Donations returns the cached donation history, oldest first.
func (c *Client) Donations() []api.Donation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]api.Donation, len(c.donations))
	copy(out, c.donations)
	return out
}

// CreditHistory returns the cached credit purchase history, oldest first.
func (c *Client) CreditHistory() []api.CreditTransaction {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]api.CreditTransaction, len(c.purchases))
	copy(out, c.purchases)
	return out
}

// Charities returns the cached charity list.
func (c *Client) Charities() []api.Charity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]api.Charity, len(c.charities))
	copy(out, c.charities)
	return out
}

// Purchase buys credits and applies the confirmed result. On any failure the
// cache is untouched.
func (c *Client) Purchase(ctx context.Context, amount int64) (*api.PurchaseResponse, error) {
	if amount <= 0 {
		return nil, errors.Wrapf(ErrInvalidAmount, "purchase of %d", amount)
	}

	resp, err := c.backend.PurchaseCredits(ctx, c.store.Get().Token, amount)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Purchase]")
	}

	record := api.CreditTransaction{Amount: amount, Date: api.Timestamp{Time: c.nowTime()}}
	if resp.Transaction != nil {
		// Prefer the backend's record over client-guessed fields.
		record = *resp.Transaction
	}

	c.mu.Lock()
	c.balance = resp.NewBalance
	c.purchases = append(c.purchases, record)
	c.mu.Unlock()

	c.log.Info().Int64("amount", amount).Int64("balance", resp.NewBalance).Msg("credits purchased")
	return resp, nil
}

// DonateInput captures a donation request.
type DonateInput struct {
	CharityID          int64
	Amount             int64
	IsAnonymous        bool
	IsRecurring        bool
	RecurringFrequency string // defaulted for recurring donations
}

// Donate transfers credits to a charity and applies the confirmed result.
// Failures are distinguishable: ErrInsufficientCredits, ErrCharityUnavailable,
// or the api taxonomy for session/authorization/transport problems. On any
// failure balance and history are untouched.
func (c *Client) Donate(ctx context.Context, input DonateInput) (*api.DonateResponse, error) {
	if input.Amount <= 0 {
		return nil, errors.Wrapf(ErrInvalidAmount, "donation of %d", input.Amount)
	}
	if input.CharityID <= 0 {
		return nil, errors.Wrapf(ErrCharityUnavailable, "charity id %d", input.CharityID)
	}

	req := api.DonateRequest{
		CharityID:   input.CharityID,
		Amount:      input.Amount,
		IsAnonymous: input.IsAnonymous,
		IsRecurring: input.IsRecurring,
	}
	if input.IsRecurring {
		freq := input.RecurringFrequency
		if freq == "" {
			freq = DefaultRecurringFrequency
		}
		req.RecurringFrequency = &freq
	}

	resp, err := c.backend.Donate(ctx, c.store.Get().Token, req)
	if err != nil {
		return nil, classifyDonateError(err)
	}

	record := api.Donation{
		CharityID:          input.CharityID,
		CharityName:        c.charityName(input.CharityID),
		Amount:             input.Amount,
		IsAnonymous:        input.IsAnonymous,
		IsRecurring:        input.IsRecurring,
		RecurringFrequency: req.RecurringFrequency,
		Date:               api.Timestamp{Time: c.nowTime()},
	}
	if resp.Donation != nil {
		record = *resp.Donation
		if record.CharityName == "" {
			record.CharityName = c.charityName(record.CharityID)
		}
	}

	c.mu.Lock()
	c.balance = resp.NewBalance
	c.donations = append(c.donations, record)
	c.mu.Unlock()

	c.log.Info().
		Int64("charity_id", input.CharityID).
		Int64("amount", input.Amount).
		Int64("balance", resp.NewBalance).
		Msg("donation confirmed")
	return resp, nil
}

// The donate endpoint answers 400 only for an insufficient balance and 404
// for an unknown or unlisted charity; everything else passes through the
// api taxonomy untouched.
func classifyDonateError(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.NotFound():
			return errors.Wrap(ErrCharityUnavailable, apiErr.Message)
		case apiErr.Status == http.StatusBadRequest:
			return errors.Wrap(ErrInsufficientCredits, apiErr.Message)
		}
	}
	return errors.Wrap(err, "[Client.Donate]")
}

func (c *Client) charityName(id int64) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ch := range c.charities {
		if ch.ID == id {
			return ch.Name
		}
	}
	return "Unknown"
}
