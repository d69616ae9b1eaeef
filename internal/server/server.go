package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/scythe504/mafia-backend/internal/config"
	"github.com/scythe504/mafia-backend/internal/game"
)

type Server struct {
	port           int
	allowedOrigins []string
	publicURL      string

	coord *game.Coordinator
	hub   *game.Hub
}

func NewServer(cfg config.Config, coord *game.Coordinator, hub *game.Hub) *http.Server {
	s := &Server{
		port:           cfg.Port,
		allowedOrigins: cfg.AllowedOrigins,
		publicURL:      cfg.PublicURL,
		coord:          coord,
		hub:            hub,
	}

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.RegisterRoutes(),
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
