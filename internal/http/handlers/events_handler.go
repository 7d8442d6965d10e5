// README: Websocket feed of transcript changes for live shells.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"wanderlust/internal/modules/feed"
	"wanderlust/internal/observability"
)

const writeWait = 10 * time.Second

type EventsHandler struct {
	broker         feed.Broker
	allowedOrigins map[string]bool
	upgrader       websocket.Upgrader
}

// NewEventsHandler builds the handler. An empty allowedOrigins list accepts any origin.
func NewEventsHandler(broker feed.Broker, allowedOrigins []string) *EventsHandler {
	origins := make(map[string]bool)
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	h := &EventsHandler{broker: broker, allowedOrigins: origins}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *EventsHandler) checkOrigin(r *http.Request) bool {
	if len(h.allowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // non-browser clients
	}
	return h.allowedOrigins[origin]
}

// Stream handles GET /api/events.
func (h *EventsHandler) Stream(c *gin.Context) {
	log := observability.LoggerFromContext(c.Request.Context())

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	changes, err := h.broker.Subscribe(ctx)
	if err != nil {
		log.Error("feed subscribe failed", "error", err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "feed unavailable"),
			time.Now().Add(writeWait))
		return
	}

	// The feed is one-way; reading only detects the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Debug("websocket closed unexpectedly", "error", err)
				}
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(change); err != nil {
				log.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}
