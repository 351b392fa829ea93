package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/domains/chatbot"
	"portfolio-backend/internal/shared/response"
)

type ChatbotHandler struct {
	service chatbot.Service
}

func NewChatbotHandler(service chatbot.Service) *ChatbotHandler {
	return &ChatbotHandler{service: service}
}

// Ask handles POST /api/chatbot/ {"query": "..."} → {"response": "..."}
func (h *ChatbotHandler) Ask(c *gin.Context) {
	var req chatbot.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid JSON body")
		return
	}

	text, err := h.service.Ask(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": text})
}

// Stream handles POST /api/chatbot/stream/ and relays the answer as
// server-sent events: start, chunk {"content"}, then end or error.
func (h *ChatbotHandler) Stream(c *gin.Context) {
	var req chatbot.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid JSON body")
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("start", gin.H{})
	c.Writer.Flush()

	ctx := c.Request.Context()
	err := h.service.Stream(ctx, req, func(chunk string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.SSEvent("chunk", gin.H{"content": chunk})
		c.Writer.Flush()
		return nil
	})

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.SSEvent("error", gin.H{"error": publicMessage(err)})
		c.Writer.Flush()
		return
	}

	c.SSEvent("end", gin.H{})
	c.Writer.Flush()
}

func (h *ChatbotHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chatbot.ErrQueryRequired):
		response.BadRequest(c, "Query is required")
	default:
		if !errors.Is(err, chatbot.ErrUpstream) {
			log.Error().Err(err).Str("path", c.FullPath()).Msg("chatbot request failed")
		}
		response.InternalServerError(c, publicMessage(err))
	}
}

func publicMessage(err error) string {
	if errors.Is(err, chatbot.ErrUpstream) {
		return chatbot.ErrUpstream.Error()
	}
	return "Internal server error"
}
