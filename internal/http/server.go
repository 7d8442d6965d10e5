// README: API gateway; holds the services the HTTP surface delegates to.
package http

import (
	"net/http"

	"wanderlust/internal/modules/conversation"
	"wanderlust/internal/modules/feed"
	"wanderlust/internal/modules/usage"
)

type ServerDeps struct {
	Conversation *conversation.Service
	Broker       feed.Broker
	// Usage is optional; /api/stats answers 503 without it.
	Usage          *usage.Service
	AllowedOrigins []string
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	return NewRouter(s.deps)
}
