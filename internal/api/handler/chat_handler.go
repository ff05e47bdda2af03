package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nightflow/nightflow-core/internal/core/domain"
	"github.com/nightflow/nightflow-core/internal/core/ports"
)

// ChatHandler exposes the upsell chat session.
type ChatHandler struct {
	chat ports.ChatService
}

func NewChatHandler(chat ports.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

type confirmSuggestionRequest struct {
	ItemName   string  `json:"item_name"   validate:"required"`
	TotalValue float64 `json:"total_value" validate:"required,gt=0"`
}

// Messages returns the conversation history in append order.
//
// @Summary      Chat history
// @Tags         chat
// @Produce      json
// @Success      200  {array}  domain.ChatMessage
// @Router       /chat/messages [get]
func (h *ChatHandler) Messages(c echo.Context) error {
	return c.JSON(http.StatusOK, h.chat.Messages())
}

// Send submits a user message and returns the assistant reply. A request
// already in flight yields 409; the caller retries after it settles.
//
// @Summary      Send a chat message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      sendMessageRequest  true  "Message text"
// @Success      200   {object}  domain.ChatMessage
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /chat/messages [post]
func (h *ChatHandler) Send(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	reply, err := h.chat.Send(c.Request().Context(), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reply)
}

// Confirm commits a suggested upsell as a sale.
//
// @Summary      Confirm an upsell suggestion
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      confirmSuggestionRequest  true  "Suggestion to confirm"
// @Success      200   {object}  domain.ChatMessage
// @Failure      400   {object}  map[string]string
// @Router       /chat/confirm [post]
func (h *ChatHandler) Confirm(c echo.Context) error {
	var req confirmSuggestionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	confirmation, err := h.chat.ConfirmSuggestion(c.Request().Context(), domain.UpsellSuggestion{
		Suggested:  true,
		ItemName:   req.ItemName,
		TotalValue: req.TotalValue,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, confirmation)
}
