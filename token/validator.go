// Package token confirms that a held access token is still accepted by the
// backend. The check is fail-closed: any transport failure, HTTP error or
// explicit rejection counts as invalid.
package token

import (
	"context"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/tuinue-wasichana/go-client/api"
)

// Result is the outcome of validating one specific token value. Consumers
// key their reaction to Token so a result for a superseded token can be
// discarded instead of resurrecting or tearing down a newer session.
type Result struct {
	Token  string
	Valid  bool
	Reason error // populated when Valid is false
}

// Verifier is the backend call the validator depends on, satisfied by
// *api.Client.
type Verifier interface {
	VerifyToken(ctx context.Context, token string) (*api.VerifyTokenResponse, error)
}

// Validator checks tokens against the backend.
type Validator struct {
	verifier Verifier
	log      zerolog.Logger
	nowTime  func() time.Time // injectable for testing
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ValidatorOption {
	return func(v *Validator) {
		v.nowTime = nowFunc
	}
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) ValidatorOption {
	return func(v *Validator) {
		v.log = log
	}
}

// NewValidator creates a Validator backed by the given verifier.
func NewValidator(verifier Verifier, options ...ValidatorOption) (*Validator, error) {
	if verifier == nil {
		return nil, errors.New("[NewValidator] verifier is required")
	}
	v := &Validator{
		verifier: verifier,
		log:      zerolog.Nop(),
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(v)
	}
	return v, nil
}

// Validate resolves the validity of raw. An empty token is invalid without
// a round trip, as is a well-formed JWT whose exp is already in the past.
// Everything else is decided by the backend. The validator never mutates
// session state; that reaction belongs to the caller holding the store.
func (v *Validator) Validate(ctx context.Context, raw string) Result {
	if raw == "" {
		return Result{Token: raw, Valid: false, Reason: errors.New("empty token")}
	}

	if expired, err := v.locallyExpired(raw); err == nil && expired {
		v.log.Debug().Msg("token expired locally, skipping verification round trip")
		return Result{Token: raw, Valid: false, Reason: errors.New("token expired")}
	}

	resp, err := v.verifier.VerifyToken(ctx, raw)
	if err != nil {
		v.log.Warn().Err(err).Msg("token verification failed")
		return Result{Token: raw, Valid: false, Reason: errors.Wrap(err, "[Validator.Validate] verify-token")}
	}
	if !resp.Valid {
		reason := resp.Message
		if reason == "" {
			reason = "token rejected"
		}
		return Result{Token: raw, Valid: false, Reason: errors.New(reason)}
	}
	return Result{Token: raw, Valid: true}
}

// locallyExpired screens the token without verifying its signature. Only a
// definitive past exp is trusted; unparseable tokens and missing claims are
// left for the backend to judge.
func (v *Validator) locallyExpired(raw string) (bool, error) {
	parsed, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return false, err
	}
	expiry, err := parsed.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false, err
	}
	return expiry.Before(v.nowTime()), nil
}
