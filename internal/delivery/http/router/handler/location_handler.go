package handler

import (
	"log/slog"
	"net/http"

	"spark/internal/delivery/http/response"
	domainerrors "spark/internal/domain/errors"
	"spark/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// LocationHandlerParams holds dependencies for LocationHandler, injected by Fx.
type LocationHandlerParams struct {
	fx.In

	LocationUC usecase.LocationUsecase
	Logger     *slog.Logger
}

// LocationHandler holds dependencies for location-related handlers
type LocationHandler struct {
	locationUC usecase.LocationUsecase
	logger     *slog.Logger
}

// NewLocationHandler is the constructor for LocationHandler
func NewLocationHandler(params LocationHandlerParams) *LocationHandler {
	return &LocationHandler{
		locationUC: params.LocationUC,
		logger:     params.Logger,
	}
}

// UpdateLocationRequest carries the free-text place to geocode. An empty
// place name is rejected by the use case after the interval gate.
type UpdateLocationRequest struct {
	PlaceName string `json:"placeName" validate:"max=255"`
}

// GetMe returns the caller's location.
func (h *LocationHandler) GetMe(c echo.Context) error {
	accountID, err := currentAccount(c)
	if err != nil {
		return err
	}

	location, err := h.locationUC.GetOwnLocation(c.Request().Context(), accountID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newLocationPayload(location))
}

// Update geocodes a new place name for the caller's location.
func (h *LocationHandler) Update(c echo.Context) error {
	accountID, err := currentAccount(c)
	if err != nil {
		return err
	}

	locationID, err := pathID(c, "id", domainerrors.ErrLocationNotFound)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req UpdateLocationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	location, err := h.locationUC.UpdateLocation(c.Request().Context(), accountID, locationID, req.PlaceName)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newLocationPayload(location))
}
