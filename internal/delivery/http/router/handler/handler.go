// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"slices"
	"strings"

	"spark/internal/delivery/http/middleware"
	"spark/internal/delivery/http/response"
	"spark/internal/delivery/http/validator"
	domainerrors "spark/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

// currentAccount returns the authenticated account. Routes using it are mounted
// behind AuthMiddleware.Authenticate.
func currentAccount(c echo.Context) (uuid.UUID, error) {
	id, ok := middleware.GetAccountID(c)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid account in token")
	}

	return id, nil
}

// pathID parses a uuid path parameter; a malformed id is reported as notFound.
func pathID(c echo.Context, name string, notFound *domainerrors.BaseError) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, notFound.WithDetails("malformed id " + c.Param(name))
	}

	return id, nil
}

// bindAndValidate decodes the request body into req and runs struct
// validation. Failures come back as domain errors.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed request body")
	}

	if err := c.Validate(req); err != nil {
		fields := validator.FieldErrors(err)
		if len(fields) == 0 {
			return errors.WithStack(err)
		}

		details := strings.Join(fields, "; ")
		if slices.ContainsFunc(fields, func(field string) bool { return strings.HasSuffix(field, ": required") }) {
			return domainerrors.ErrMissingField.WithDetails(details)
		}

		return domainerrors.ErrValidationFailed.WithDetails(details)
	}

	return nil
}
