package api

import (
	"fmt"
	"strings"
	"time"
)

// Timestamp decodes the backend's timestamps, which arrive either as RFC3339
// or as a bare ISO-8601 value without a zone designator.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", raw)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + t.Format(time.RFC3339Nano) + `"`), nil
}

// AuthResponse is returned from /login and /register.
type AuthResponse struct {
	Message     string `json:"message,omitempty"`
	UserID      int64  `json:"user_id"`
	AccessToken string `json:"access_token,omitempty"`
	Role        string `json:"role"`
	CharityID   *int64 `json:"charity_id,omitempty"`
	Pending     bool   `json:"pending,omitempty"` // charity registrations await approval
}

// LoginRequest carries the /login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CharityApplication is the nested charity payload on a charity registration.
type CharityApplication struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	MissionStatement string `json:"mission_statement,omitempty"`
	Location         string `json:"location,omitempty"`
	FoundedYear      int    `json:"founded_year,omitempty"`
	ImpactMetrics    string `json:"impact_metrics,omitempty"`
	ContactPerson    string `json:"contact_person,omitempty"`
	ContactPhone     string `json:"contact_phone,omitempty"`
	Website          string `json:"website,omitempty"`
	PhotoURL         string `json:"photo_url,omitempty"`
}

// RegisterRequest carries the /register payload.
type RegisterRequest struct {
	Username string              `json:"username"`
	Email    string              `json:"email"`
	Password string              `json:"password"`
	Role     string              `json:"role"`
	Charity  *CharityApplication `json:"charity,omitempty"`
}

// VerifyTokenResponse is returned from /verify-token.
type VerifyTokenResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// Story is a beneficiary story published by a charity.
type Story struct {
	ID              int64     `json:"id"`
	CharityID       int64     `json:"charity_id,omitempty"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	ImageURL        string    `json:"image_url,omitempty"`
	BeneficiaryName string    `json:"beneficiary_name,omitempty"`
	BeneficiaryAge  int       `json:"beneficiary_age,omitempty"`
	Date            Timestamp `json:"date"`
}

// StoryInput is the payload for authoring or updating a story.
type StoryInput struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	ImageURL        string `json:"image_url,omitempty"`
	BeneficiaryName string `json:"beneficiary_name,omitempty"`
	BeneficiaryAge  int    `json:"beneficiary_age,omitempty"`
}

// Charity is a charity profile as listed by the backend.
type Charity struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	MissionStatement string  `json:"mission_statement,omitempty"`
	Location         string  `json:"location,omitempty"`
	FoundedYear      int     `json:"founded_year,omitempty"`
	ImpactMetrics    string  `json:"impact_metrics,omitempty"`
	ContactPerson    string  `json:"contact_person,omitempty"`
	ContactPhone     string  `json:"contact_phone,omitempty"`
	Website          *string `json:"website,omitempty"`
	PhotoURL         *string `json:"photo_url,omitempty"`
	Approved         bool    `json:"approved,omitempty"`
	Rejected         bool    `json:"rejected,omitempty"`
	Stories          []Story `json:"stories,omitempty"`
}

// Donation is a confirmed donation record.
type Donation struct {
	ID                 int64     `json:"id"`
	DonorID            int64     `json:"donor_id,omitempty"`
	CharityID          int64     `json:"charity_id,omitempty"`
	CharityName        string    `json:"charity_name,omitempty"`
	Amount             int64     `json:"amount"`
	IsAnonymous        bool      `json:"is_anonymous"`
	IsRecurring        bool      `json:"is_recurring"`
	RecurringFrequency *string   `json:"recurring_frequency,omitempty"`
	Date               Timestamp `json:"date"`
}

// CreditTransaction is a confirmed credit purchase record.
type CreditTransaction struct {
	ID     int64     `json:"id"`
	Amount int64     `json:"amount"`
	Date   Timestamp `json:"date"`
}

// CreditsResponse is returned from /donor/credits.
type CreditsResponse struct {
	Credits int64 `json:"credits"`
}

// PurchaseRequest carries the /credits/purchase payload.
type PurchaseRequest struct {
	Amount int64 `json:"amount"`
}

// PurchaseResponse is returned from /credits/purchase.
type PurchaseResponse struct {
	Message     string             `json:"message,omitempty"`
	NewBalance  int64              `json:"new_balance"`
	Transaction *CreditTransaction `json:"transaction,omitempty"`
}

// DonateRequest carries the /donate payload.
type DonateRequest struct {
	CharityID          int64   `json:"charity_id"`
	Amount             int64   `json:"amount"`
	IsAnonymous        bool    `json:"is_anonymous"`
	IsRecurring        bool    `json:"is_recurring"`
	RecurringFrequency *string `json:"recurring_frequency,omitempty"`
}

// DonateResponse is returned from /donate.
type DonateResponse struct {
	Message    string    `json:"message,omitempty"`
	NewBalance int64     `json:"new_balance"`
	Donation   *Donation `json:"donation,omitempty"`
}

// CharityStatusResponse is returned from /charity/status.
type CharityStatusResponse struct {
	Name     string `json:"name,omitempty"`
	Approved bool   `json:"approved"`
	Rejected bool   `json:"rejected"`
	Message  string `json:"message,omitempty"`
}

// CharityDonationsResponse is returned from /charity/donations.
type CharityDonationsResponse struct {
	TotalCredits int64      `json:"total_credits"`
	Donations    []Donation `json:"donations"`
}

// ReviewRequest carries the admin approval decision for a charity.
type ReviewRequest struct {
	CharityID int64 `json:"charity_id"`
	Approved  bool  `json:"approved"`
	Rejected  bool  `json:"rejected"`
}

// MessageResponse is the generic acknowledgement shape.
type MessageResponse struct {
	Message string `json:"message"`
}
