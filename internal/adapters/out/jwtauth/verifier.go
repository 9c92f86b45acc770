// Package jwtauth verifies and issues HS256 bearer tokens. The subject claim
// names the actor and the role claim carries its role.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/core/domain/model/identity"
	"storefront/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLeeway absorbs clock skew between the issuer and this service.
const DefaultLeeway = 30 * time.Second

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier validates tokens signed with a shared secret.
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifier creates a verifier. When issuer is non-empty the iss claim must match it.
func NewVerifier(secret, issuer string) (*Verifier, error) {
	if secret == "" {
		return nil, errs.NewValueIsRequiredError("jwt secret")
	}
	return &Verifier{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Verify parses token and returns the actor it names.
//
// Returns *errs.UnauthorizedError for a bad signature, an unexpected
// algorithm, a wrong issuer, an expired token, or a missing subject or role.
func (v *Verifier) Verify(_ context.Context, token string) (identity.Actor, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(DefaultLeeway),
		jwt.WithTimeFunc(v.now),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return identity.Actor{}, errs.NewUnauthorizedErrorWithCause("invalid token", err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return identity.Actor{}, errs.NewUnauthorizedError("invalid token claims")
	}

	role, err := identity.ParseRole(c.Role)
	if err != nil {
		return identity.Actor{}, errs.NewUnauthorizedErrorWithCause("invalid role claim", err)
	}

	actor, err := identity.NewActor(c.Subject, role)
	if err != nil {
		return identity.Actor{}, errs.NewUnauthorizedErrorWithCause("invalid subject claim", err)
	}
	return actor, nil
}

// Issuer signs tokens for local tooling and tests.
type Issuer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewIssuer creates an issuer sharing secret with a Verifier.
func NewIssuer(secret, issuer string) (*Issuer, error) {
	if secret == "" {
		return nil, errs.NewValueIsRequiredError("jwt secret")
	}
	return &Issuer{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Issue returns a signed token for actor valid for ttl.
func (i *Issuer) Issue(actor identity.Actor, ttl time.Duration) (string, error) {
	if err := actor.Validate(); err != nil {
		return "", err
	}
	if ttl <= 0 {
		return "", errors.New("token ttl must be positive")
	}

	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: actor.Role().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
