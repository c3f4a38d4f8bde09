package ws

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Snapshot renders the message a subscriber receives right after connecting.
type Snapshot func(ctx context.Context) ([]byte, error)

// Server upgrades HTTP connections to run-list subscriptions.
type Server struct {
	manager      *Manager
	snapshot     Snapshot
	logger       *zap.Logger
	writeTimeout time.Duration
	pingInterval time.Duration
	upgrader     websocket.Upgrader
	nextID       atomic.Uint64
}

// NewServer builds ws server.
func NewServer(manager *Manager, snapshot Snapshot, writeTimeout, pingInterval time.Duration, logger *zap.Logger) *Server {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Server{
		manager:      manager,
		snapshot:     snapshot,
		logger:       logger,
		writeTimeout: writeTimeout,
		pingInterval: pingInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWS is HTTP handler for /ws/runs endpoint.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	// Build the snapshot before upgrading: r.Context() is not usable afterwards.
	var initial []byte
	if s.snapshot != nil {
		msg, err := s.snapshot(r.Context())
		if err != nil {
			s.logger.Error("failed to build run list snapshot", zap.Error(err))
		}
		initial = msg
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	id := s.nextID.Add(1)
	connection := NewConnection(id, conn, s.writeTimeout, s.pingInterval, s.logger, s.manager.Remove)
	s.manager.Add(connection)
	if initial != nil {
		connection.Send(initial)
	}

	go connection.Start()
	s.logger.Info("run list subscriber connected", zap.Uint64("conn_id", id), zap.String("remote_addr", r.RemoteAddr))
}
