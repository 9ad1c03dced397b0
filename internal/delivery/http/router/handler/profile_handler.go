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

const noCandidatesDetail = "no users found in the closest area"

// ProfileHandlerParams holds dependencies for ProfileHandler, injected by Fx.
type ProfileHandlerParams struct {
	fx.In

	ProfileUC usecase.ProfileUsecase
	Logger    *slog.Logger
}

// ProfileHandler serves profile reads, updates and discovery.
type ProfileHandler struct {
	profileUC usecase.ProfileUsecase
	logger    *slog.Logger
}

// NewProfileHandler is the constructor for ProfileHandler.
func NewProfileHandler(params ProfileHandlerParams) *ProfileHandler {
	return &ProfileHandler{
		profileUC: params.ProfileUC,
		logger:    params.Logger,
	}
}

type UpdateProfileRequest struct {
	Bio *string `json:"bio" validate:"omitempty,max=1000"`
	VIP *bool   `json:"vip"`
}

// GetMe returns the caller's own profile.
func (h *ProfileHandler) GetMe(c echo.Context) error {
	accountID, err := currentAccount(c)
	if err != nil {
		return err
	}

	profile, err := h.profileUC.GetOwnProfile(c.Request().Context(), accountID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newProfilePayload(profile))
}

// Get returns a profile visible to the caller.
func (h *ProfileHandler) Get(c echo.Context) error {
	accountID, err := currentAccount(c)
	if err != nil {
		return err
	}

	targetID, err := pathID(c, "id", domainerrors.ErrProfileNotFound)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	profile, err := h.profileUC.ViewProfile(c.Request().Context(), accountID, targetID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newProfilePayload(profile))
}

// Update changes bio and vip on the caller's own profile.
func (h *ProfileHandler) Update(c echo.Context) error {
	accountID, err := currentAccount(c)
	if err != nil {
		return err
	}

	profileID, err := pathID(c, "id", domainerrors.ErrProfileNotFound)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	profile, err := h.profileUC.UpdateProfile(c.Request().Context(), accountID, profileID, &usecase.UpdateProfileInput{
		Bio: req.Bio,
		VIP: req.VIP,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, newProfilePayload(profile))
}

// Discover returns one random eligible candidate near the caller.
func (h *ProfileHandler) Discover(c echo.Context) error {
	accountID, err := currentAccount(c)
	if err != nil {
		return err
	}

	candidate, err := h.profileUC.Discover(c.Request().Context(), accountID)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	if candidate == nil {
		return response.Detail(c, noCandidatesDetail)
	}

	return response.Success(c, http.StatusOK, newProfilePayload(candidate))
}
