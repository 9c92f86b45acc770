package http

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/core/domain/model/identity"
	"storefront/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const actorContextKey = "storefront.actor"

// Authenticator turns an Authorization header value into an actor.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (identity.Actor, error)
}

// publicPaths are served without a bearer token. Entries ending in a slash
// cover a subtree, the rest match exactly. The websocket route reads its
// credential itself because browsers cannot set headers on upgrade.
var publicPaths = []string{"/health", "/metrics", "/openapi.yml", "/swagger/", "/ws/"}

func isPublic(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
		if strings.HasSuffix(p, "/") && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// BearerAuth authenticates every non-public request and stores the actor
// on the echo context.
func BearerAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if isPublic(ctx.Request().URL.Path) {
				return next(ctx)
			}

			credential := ctx.Request().Header.Get(echo.HeaderAuthorization)
			actor, err := auth.Authenticate(ctx.Request().Context(), credential)
			if err != nil {
				ctx.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return writeError(ctx, http.StatusUnauthorized, "Invalid or missing bearer token")
			}

			ctx.Set(actorContextKey, actor)
			return next(ctx)
		}
	}
}

func actorFrom(ctx echo.Context) (identity.Actor, error) {
	actor, ok := ctx.Get(actorContextKey).(identity.Actor)
	if !ok {
		return identity.Actor{}, errs.NewUnauthorizedError("request is not authenticated")
	}
	return actor, nil
}
