package handler

import (
	"log/slog"
	"net/http"

	"spark/internal/delivery/http/response"
	domainerrors "spark/internal/domain/errors"
	"spark/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const noMatchesDetail = "no matches yet"

// SwipeHandlerParams holds dependencies for SwipeHandler, injected by Fx.
type SwipeHandlerParams struct {
	fx.In

	SwipeUC usecase.SwipeUsecase
	Logger  *slog.Logger
}

// SwipeHandler serves swipe recording and match listing.
type SwipeHandler struct {
	swipeUC usecase.SwipeUsecase
	logger  *slog.Logger
}

// NewSwipeHandler is the constructor for SwipeHandler.
func NewSwipeHandler(params SwipeHandlerParams) *SwipeHandler {
	return &SwipeHandler{
		swipeUC: params.SwipeUC,
		logger:  params.Logger,
	}
}

// SwipeRequest is a like or dislike of another profile. Both fields are
// checked by the use case so that missing values are reported in ledger order.
type SwipeRequest struct {
	SwipedProfileID string `json:"swipedProfileId"`
	Liked           *bool  `json:"liked"`
}

// Create records a swipe and reports whether it completed a match.
func (h *SwipeHandler) Create(c echo.Context) error {
	accountID, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req SwipeRequest
	if err := c.Bind(&req); err != nil {
		return response.HandleAppError(c, domainerrors.ErrValidationFailed.WithDetails("malformed request body"))
	}

	swipedID := uuid.Nil
	if req.SwipedProfileID != "" {
		swipedID, err = uuid.Parse(req.SwipedProfileID)
		if err != nil {
			return response.HandleAppError(c, domainerrors.ErrInvalidTarget)
		}
	}

	output, err := h.swipeUC.RecordSwipe(c.Request().Context(), accountID, &usecase.RecordSwipeInput{
		SwipedID: swipedID,
		Liked:    req.Liked,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	payload := SwipeResultPayload{
		Matched: output.Matched,
		Swipe:   newSwipePayload(output.Swipe),
	}
	if output.Chat != nil {
		payload.ChatID = &output.Chat.ID
	}

	return response.Success(c, http.StatusCreated, payload)
}

// ListMatches returns the swipes of profiles that liked the caller back.
func (h *SwipeHandler) ListMatches(c echo.Context) error {
	accountID, err := currentAccount(c)
	if err != nil {
		return err
	}

	matches, err := h.swipeUC.ListMatches(c.Request().Context(), accountID)
	if err != nil {
		return response.HandleAppError(c, err)
	}
	if len(matches) == 0 {
		return response.Detail(c, noMatchesDetail)
	}

	return response.Success(c, http.StatusOK, mapSlice(matches, newSwipePayload))
}
