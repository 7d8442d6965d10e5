// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderlust/internal/http/handlers"
	"wanderlust/internal/http/middleware"
	"wanderlust/internal/render"
)

func NewRouter(deps ServerDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())
	r.SetHTMLTemplate(render.Templates())

	shellHandler := handlers.NewShellHandler(deps.Conversation)
	r.GET("/", shellHandler.Index)
	r.POST("/send", shellHandler.Send)

	chatHandler := handlers.NewChatHandler(deps.Conversation, deps.Usage)
	api := r.Group("/api")
	api.GET("/transcript", chatHandler.Transcript)
	api.POST("/messages", chatHandler.Send)
	api.PUT("/draft", chatHandler.SetDraft)
	api.GET("/stats", chatHandler.Stats)

	if deps.Broker != nil {
		eventsHandler := handlers.NewEventsHandler(deps.Broker, deps.AllowedOrigins)
		api.GET("/events", eventsHandler.Stream)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
