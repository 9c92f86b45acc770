package http

import (
	"errors"
	"net/http"

	"storefront/internal/generated/servers"
	"storefront/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// errorResponse maps application errors onto the HTTP contract. Anything it
// does not recognise is logged and reported as a bare 500.
func (s *Server) errorResponse(ctx echo.Context, err error) error {
	var (
		transition *errs.InvalidTransitionError
		conflict   *errs.VersionConflictError
	)

	switch {
	case errors.As(err, &transition):
		return ctx.JSON(http.StatusBadRequest, servers.Error{
			Code:            http.StatusBadRequest,
			Message:         err.Error(),
			CurrentStatus:   &transition.Current,
			RequestedStatus: &transition.Requested,
		})
	case errors.As(err, &conflict):
		return ctx.JSON(http.StatusConflict, servers.Error{
			Code:            http.StatusConflict,
			Message:         err.Error(),
			ExpectedVersion: &conflict.Expected,
			ActualVersion:   &conflict.Actual,
		})
	case errors.Is(err, errs.ErrUnauthorized):
		return writeError(ctx, http.StatusUnauthorized, "Invalid or missing bearer token")
	case errors.Is(err, errs.ErrForbidden):
		return writeError(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrObjectNotFound):
		return writeError(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired):
		return writeError(ctx, http.StatusBadRequest, err.Error())
	}

	s.logger.ErrorContext(ctx.Request().Context(), "request failed",
		"method", ctx.Request().Method,
		"path", ctx.Path(),
		"error", err,
	)
	return writeError(ctx, http.StatusInternalServerError, "Internal server error")
}

func writeError(ctx echo.Context, status int, message string) error {
	return ctx.JSON(status, servers.Error{
		Code:    status,
		Message: message,
	})
}
