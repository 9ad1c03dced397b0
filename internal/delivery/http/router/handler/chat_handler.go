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

// ChatHandlerParams holds dependencies for ChatHandler, injected by Fx.
type ChatHandlerParams struct {
	fx.In

	ChatUC usecase.ChatUsecase
	Logger *slog.Logger
}

// ChatHandler serves chats and their messages.
type ChatHandler struct {
	chatUC usecase.ChatUsecase
	logger *slog.Logger
}

// NewChatHandler is the constructor for ChatHandler.
func NewChatHandler(params ChatHandlerParams) *ChatHandler {
	return &ChatHandler{
		chatUC: params.ChatUC,
		logger: params.Logger,
	}
}

type PostMessageRequest struct {
	ChatID string `json:"chatId" validate:"required"`
	Body   string `json:"body" validate:"required,max=4000"`
}

// List returns the chats the caller takes part in.
func (h *ChatHandler) List(c echo.Context) error {
	accountID, err := currentAccount(c)
	if err != nil {
		return err
	}

	chats, err := h.chatUC.ListChats(c.Request().Context(), accountID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, mapSlice(chats, newChatPayload))
}

// ListMessages returns a chat's messages, newest first.
func (h *ChatHandler) ListMessages(c echo.Context) error {
	accountID, err := currentAccount(c)
	if err != nil {
		return err
	}

	chatID, err := pathID(c, "id", domainerrors.ErrChatNotFound)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	messages, err := h.chatUC.ListMessages(c.Request().Context(), accountID, chatID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, mapSlice(messages, newMessagePayload))
}

// PostMessage appends a message to a chat the caller takes part in.
func (h *ChatHandler) PostMessage(c echo.Context) error {
	accountID, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req PostMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	chatID, err := uuid.Parse(req.ChatID)
	if err != nil {
		return response.HandleAppError(c, domainerrors.ErrValidationFailed.WithDetails("chatId: uuid"))
	}

	message, err := h.chatUC.PostMessage(c.Request().Context(), accountID, &usecase.PostMessageInput{
		ChatID: chatID,
		Body:   req.Body,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, newMessagePayload(message))
}
