package api

import (
	"context"
)

// AdminCharities lists every charity application, approved or not.
func (c *Client) AdminCharities(ctx context.Context, token string) ([]Charity, error) {
	var out []Charity
	if err := c.get(ctx, "/admin/charities", token, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReviewCharity records the admin decision for a charity application.
func (c *Client) ReviewCharity(ctx context.Context, token string, req ReviewRequest) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.post(ctx, "/admin/charities", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
