package ledger

import (
	"context"
	"sync"
)

// RefreshResult reports each dashboard fetch independently. A failed fetch
// leaves its slice of the cache untouched and never blocks the others from
// applying.
type RefreshResult struct {
	BalanceErr   error
	DonationsErr error
	PurchasesErr error
	CharitiesErr error
}

// OK reports whether every fetch applied.
func (r RefreshResult) OK() bool {
	return r.BalanceErr == nil && r.DonationsErr == nil && r.PurchasesErr == nil && r.CharitiesErr == nil
}

// Errs returns the failures, if any.
func (r RefreshResult) Errs() []error {
	var errs []error
	for _, err := range []error{r.BalanceErr, r.DonationsErr, r.PurchasesErr, r.CharitiesErr} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Refresh issues the four donor dashboard fetches concurrently. Each result
// mutates only its own piece of state under the cache lock.
func (c *Client) Refresh(ctx context.Context) RefreshResult {
	token := c.store.Get().Token

	var result RefreshResult
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		resp, err := c.backend.DonorCredits(ctx, token)
		if err != nil {
			result.BalanceErr = err
			return
		}
		c.mu.Lock()
		c.balance = resp.Credits
		c.mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		donations, err := c.backend.DonationHistory(ctx, token)
		if err != nil {
			result.DonationsErr = err
			return
		}
		c.mu.Lock()
		c.donations = donations
		c.mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		purchases, err := c.backend.CreditHistory(ctx, token)
		if err != nil {
			result.PurchasesErr = err
			return
		}
		c.mu.Lock()
		c.purchases = purchases
		c.mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		charities, err := c.backend.Charities(ctx)
		if err != nil {
			result.CharitiesErr = err
			return
		}
		c.mu.Lock()
		c.charities = charities
		c.mu.Unlock()
	}()

	wg.Wait()

	if !result.OK() {
		c.log.Warn().Errs("errors", result.Errs()).Msg("dashboard refresh partially failed")
	}
	return result
}
