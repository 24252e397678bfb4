package handlers

import (
	"errors"
	"log"
	"net/http"

	"crmhub/internal/chat"
	"crmhub/internal/common"
	"crmhub/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ChatHandlers handles chatbot session HTTP requests
type ChatHandlers struct {
	chatService services.ChatService
}

// NewChatHandlers creates a new chat handlers instance
func NewChatHandlers(chatService services.ChatService) *ChatHandlers {
	return &ChatHandlers{chatService: chatService}
}

// CreateChatSessionRequest optionally binds the session to a customer so
// replies can use that customer's billing context.
type CreateChatSessionRequest struct {
	CustomerID *string `json:"customer_id"`
}

// CreateChatSession handles opening a new chat session
func (h *ChatHandlers) CreateChatSession(c echo.Context) error {
	var req CreateChatSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	var customerID *uuid.UUID
	if req.CustomerID != nil && *req.CustomerID != "" {
		id, err := common.ValidateUUID(*req.CustomerID, "customer_id")
		if err != nil {
			return common.SendValidationError(c, "customer_id", err.Error())
		}
		customerID = &id
	}

	session, err := h.chatService.CreateSession(c.Request().Context(), customerID)
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			return common.SendNotFoundError(c, "Customer")
		}
		log.Printf("failed to create chat session: %v", err)
		return common.SendServerError(c, "Failed to create chat session")
	}

	return c.JSON(http.StatusCreated, session)
}

// GetChatSession handles getting a chat session with its message history
func (h *ChatHandlers) GetChatSession(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "session id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	session, err := h.chatService.GetSession(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			return common.SendNotFoundError(c, "Chat session")
		}
		log.Printf("failed to get chat session: %v", err)
		return common.SendServerError(c, "Failed to get chat session")
	}

	return c.JSON(http.StatusOK, session)
}

// DeleteChatSession handles closing and discarding a chat session
func (h *ChatHandlers) DeleteChatSession(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "session id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.chatService.DeleteSession(c.Request().Context(), id); err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			return common.SendNotFoundError(c, "Chat session")
		}
		log.Printf("failed to delete chat session: %v", err)
		return common.SendServerError(c, "Failed to delete chat session")
	}

	return c.NoContent(http.StatusNoContent)
}

// ListChatSessionsRequest represents query parameters for listing sessions
type ListChatSessionsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListChatSessions handles getting recent chat sessions, newest first
func (h *ChatHandlers) ListChatSessions(c echo.Context) error {
	var req ListChatSessionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	sessions := h.chatService.ListSessions(c.Request().Context(), limit, offset)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"limit":    limit,
		"offset":   offset,
	})
}

// SendChatMessageRequest carries a user message into a session
type SendChatMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// SendChatMessageResponse carries the reply and up to three follow-up
// suggestions.
type SendChatMessageResponse struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
}

// SendChatMessage relays a user message and returns the bot reply
func (h *ChatHandlers) SendChatMessage(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "session id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req SendChatMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Message is required")
	}

	reply, suggestions, err := h.chatService.SendMessage(c.Request().Context(), id, req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			return common.SendNotFoundError(c, "Chat session")
		}
		log.Printf("failed to process chat message: %v", err)
		return common.SendServerError(c, "Failed to process message")
	}

	return c.JSON(http.StatusOK, SendChatMessageResponse{
		Response:    reply,
		Suggestions: suggestions,
	})
}
