// README: Server-rendered chat shell and its form submit.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderlust/internal/modules/conversation"
	"wanderlust/internal/observability"
	"wanderlust/internal/render"
)

type ShellHandler struct {
	conv *conversation.Service
}

func NewShellHandler(conv *conversation.Service) *ShellHandler {
	return &ShellHandler{conv: conv}
}

// Index handles GET /. The engine must carry render.Templates().
func (h *ShellHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "shell", render.NewShellView(h.conv.Messages(), h.conv.Typing(), h.conv.Draft()))
}

// Send handles POST /send. The turn runs in the background and the browser is
// sent back to the shell, which shows the typing indicator until it resolves.
func (h *ShellHandler) Send(c *gin.Context) {
	query := c.PostForm("query")
	if _, err := h.conv.Start(c.Request.Context(), query); err != nil {
		observability.LoggerFromContext(c.Request.Context()).Debug("submit ignored", "error", err)
	}
	c.Redirect(http.StatusSeeOther, "/#latest")
}
