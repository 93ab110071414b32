package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/KirkDiggler/partysync/internal/services/channel"
	"github.com/KirkDiggler/partysync/internal/services/directory"
	"github.com/KirkDiggler/partysync/internal/services/presence"
	"github.com/gorilla/websocket"
)

// Server serves health, session lookup and the read-only watch bridge
type Server struct {
	config     *Config
	httpServer *http.Server
	upgrader   websocket.Upgrader
	listener   net.Listener
}

// Config holds the configuration for the server
type Config struct {
	// Addr to listen on, e.g. ":8080"
	Addr string

	// Service dependencies
	Directory directory.Service
	Channel   channel.Service
	Presence  presence.Service

	// WriteTimeout bounds one websocket write
	WriteTimeout time.Duration
}

// New creates a new server
func New(cfg *Config) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Directory == nil {
		return nil, errors.New("directory service cannot be nil")
	}

	if cfg.Channel == nil {
		return nil, errors.New("state channel cannot be nil")
	}

	if cfg.Presence == nil {
		return nil, errors.New("presence service cannot be nil")
	}

	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}

	s := &Server{
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Start begins listening in the background
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("HTTP server stopped: %v", err)
		}
	}()

	log.Printf("HTTP server listening on %s", listener.Addr())
	return nil
}

// Addr returns the bound address once started
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.config.Addr
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down, waiting for handlers until ctx is done
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
