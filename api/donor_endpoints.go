package api

import (
	"context"
)

// DonorCredits fetches the donor's current credit balance.
func (c *Client) DonorCredits(ctx context.Context, token string) (*CreditsResponse, error) {
	var out CreditsResponse
	if err := c.get(ctx, "/donor/credits", token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DonationHistory fetches the donor's confirmed donations.
func (c *Client) DonationHistory(ctx context.Context, token string) ([]Donation, error) {
	var out []Donation
	if err := c.get(ctx, "/donor/history", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreditHistory fetches the donor's confirmed credit purchases.
func (c *Client) CreditHistory(ctx context.Context, token string) ([]CreditTransaction, error) {
	var out []CreditTransaction
	if err := c.get(ctx, "/donor/credit-history", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PurchaseCredits buys credits. The returned NewBalance is authoritative.
func (c *Client) PurchaseCredits(ctx context.Context, token string, amount int64) (*PurchaseResponse, error) {
	var out PurchaseResponse
	if err := c.post(ctx, "/credits/purchase", token, PurchaseRequest{Amount: amount}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Donate sends credits to a charity. The backend enforces the non-negative
// balance invariant; a 400 means insufficient credits, a 404 an unknown or
// unavailable charity.
func (c *Client) Donate(ctx context.Context, token string, req DonateRequest) (*DonateResponse, error) {
	var out DonateResponse
	if err := c.post(ctx, "/donate", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
