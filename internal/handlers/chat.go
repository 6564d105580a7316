package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sakhihealth/sakhi-backend/internal/modules/chat"
	"github.com/sakhihealth/sakhi-backend/internal/platform/logger"
)

type ChatHandler struct {
	log  *logger.Logger
	chat *chat.Service
}

func NewChatHandler(log *logger.Logger, svc *chat.Service) *ChatHandler {
	return &ChatHandler{
		log:  log.With("handler", "ChatHandler"),
		chat: svc,
	}
}

type chatRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

func (h *ChatHandler) Respond(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message required"})
		return
	}

	userID := uuid.Nil
	if req.UserID != "" {
		parsed, err := uuid.Parse(req.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}
		userID = parsed
	}

	reply := h.chat.Respond(c.Request.Context(), chat.Input{
		UserID:  userID,
		Message: req.Message,
	})
	c.JSON(http.StatusOK, reply)
}
