package ports

import (
	"context"

	"storefront/internal/core/domain/model/identity"
)

// TokenVerifier validates a bearer credential and extracts the subject.
// Implementations return *errs.UnauthorizedError for missing, malformed,
// expired or wrongly signed credentials.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (identity.Actor, error)
}
