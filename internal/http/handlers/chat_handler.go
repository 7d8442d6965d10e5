// README: JSON chat API (transcript, turns, draft, ledger stats).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderlust/internal/modules/conversation"
	"wanderlust/internal/modules/usage"
	"wanderlust/internal/observability"
)

type ChatHandler struct {
	conv  *conversation.Service
	usage *usage.Service
}

// NewChatHandler builds the handler. usageSvc may be nil when no ledger is configured.
func NewChatHandler(conv *conversation.Service, usageSvc *usage.Service) *ChatHandler {
	return &ChatHandler{conv: conv, usage: usageSvc}
}

type transcriptResp struct {
	Messages []conversation.Message `json:"messages"`
	IsTyping bool                   `json:"isTyping"`
	Draft    string                 `json:"draft"`
}

type sendReq struct {
	Query string `json:"query"`
}

type sendResp struct {
	User    conversation.Message `json:"user"`
	Bot     conversation.Message `json:"bot"`
	Outcome conversation.Outcome `json:"outcome"`
}

type draftReq struct {
	Text string `json:"text"`
}

// Transcript handles GET /api/transcript.
func (h *ChatHandler) Transcript(c *gin.Context) {
	writeJSON(c, http.StatusOK, transcriptResp{
		Messages: h.conv.Messages(),
		IsTyping: h.conv.Typing(),
		Draft:    h.conv.Draft(),
	})
}

// Send handles POST /api/messages. It blocks until the turn resolves.
func (h *ChatHandler) Send(c *gin.Context) {
	var req sendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := h.conv.Submit(c.Request.Context(), req.Query)
	if err != nil {
		writeTurnError(c, err)
		return
	}

	writeJSON(c, http.StatusOK, sendResp{User: result.User, Bot: result.Bot, Outcome: result.Outcome})
}

// SetDraft handles PUT /api/draft.
func (h *ChatHandler) SetDraft(c *gin.Context) {
	var req draftReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	h.conv.SetDraft(req.Text)
	c.Status(http.StatusNoContent)
}

// Stats handles GET /api/stats.
func (h *ChatHandler) Stats(c *gin.Context) {
	if h.usage == nil {
		writeError(c, http.StatusServiceUnavailable, "turn ledger not configured")
		return
	}
	sum, err := h.usage.Summary(c.Request.Context())
	if err != nil {
		observability.LoggerFromContext(c.Request.Context()).Error("turn ledger summary failed", "error", err)
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, sum)
}
