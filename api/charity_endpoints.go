package api

import (
	"context"
	"fmt"
)

// Charities lists the publicly visible (approved) charities.
func (c *Client) Charities(ctx context.Context) ([]Charity, error) {
	var out []Charity
	if err := c.get(ctx, "/charities", "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Charity fetches a single charity profile, stories included.
func (c *Client) Charity(ctx context.Context, id int64) (*Charity, error) {
	var out Charity
	if err := c.get(ctx, fmt.Sprintf("/charities/%d", id), "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stories lists the published stories for a charity.
func (c *Client) Stories(ctx context.Context, charityID int64) ([]Story, error) {
	var out []Story
	if err := c.get(ctx, fmt.Sprintf("/stories?charity_id=%d", charityID), "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CharityStatus fetches the application status for the authenticated charity.
func (c *Client) CharityStatus(ctx context.Context, token string) (*CharityStatusResponse, error) {
	var out CharityStatusResponse
	if err := c.get(ctx, "/charity/status", token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CharityDonations fetches the donations received by the authenticated
// charity together with the running credit total.
func (c *Client) CharityDonations(ctx context.Context, token string) (*CharityDonationsResponse, error) {
	var out CharityDonationsResponse
	if err := c.get(ctx, "/charity/donations", token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddStory publishes a beneficiary story. Only approved charities may
// publish; the backend re-checks regardless of client-side gating.
func (c *Client) AddStory(ctx context.Context, token string, story StoryInput) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.post(ctx, "/stories", token, story, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStory replaces an existing story's content.
func (c *Client) UpdateStory(ctx context.Context, token string, id int64, story StoryInput) (*MessageResponse, error) {
	var out MessageResponse
	if err := c.put(ctx, fmt.Sprintf("/stories/%d", id), token, story, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
