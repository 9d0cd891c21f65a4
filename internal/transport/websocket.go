// Package transport accepts WebSocket clients and shuttles protocol
// messages between the sockets and the game handler. Each connection owns
// a buffered send queue drained by a writer goroutine, so the simulation
// never blocks on a slow socket.
package transport

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/shardmud/shard/internal/config"
	"github.com/shardmud/shard/internal/protocol"
)

// Handler receives connection lifecycle events and decoded messages.
// Calls arrive from per-connection reader goroutines.
type Handler interface {
	HandleConnect(conn protocol.Conn)
	HandleMessage(conn protocol.Conn, msg protocol.Message)
	HandleDisconnect(conn protocol.Conn)
}

// Server is the WebSocket acceptor.
type Server struct {
	cfg     config.ServerConfig
	logger  *zap.Logger
	handler Handler

	httpSrv  *http.Server
	upgrader websocket.Upgrader

	mu       sync.Mutex
	stopping bool
}

// NewServer creates a stopped Server.
//
// Precondition: logger and handler must be non-nil.
func NewServer(cfg config.ServerConfig, handler Handler, logger *zap.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		handler: handler,
		upgrader: websocket.Upgrader{
			// The game protocol carries its own authentication; origin
			// checking is left to a fronting proxy.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	s.httpSrv = &http.Server{Addr: cfg.Addr(), Handler: mux}
	return s
}

// Start listens and blocks until Stop. It satisfies the lifecycle
// Service contract.
func (s *Server) Start() error {
	s.logger.Info("websocket listener active", zap.String("addr", s.cfg.Addr()))
	err := s.httpSrv.ListenAndServe()
	s.mu.Lock()
	stopping := s.stopping
	s.mu.Unlock()
	if stopping || err == http.ErrServerClosed {
		return nil
	}
	return fmt.Errorf("transport: listener failed: %w", err)
}

// Stop closes the listener. Established connections are closed by their
// disconnect paths.
func (s *Server) Stop() {
	s.mu.Lock()
	s.stopping = true
	s.mu.Unlock()
	if err := s.httpSrv.Close(); err != nil {
		s.logger.Warn("closing listener", zap.Error(err))
	}
}

func (s *Server) serveWS(rw http.ResponseWriter, req *http.Request) {
	ws, err := s.upgrader.Upgrade(rw, req, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed",
			zap.String("remote", req.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	conn := newConn(ws, s.cfg, s.logger)
	s.logger.Info("client connected",
		zap.String("conn", conn.id),
		zap.String("remote", conn.RemoteAddr()),
	)
	s.handler.HandleConnect(conn)

	go conn.writeLoop()
	s.readLoop(conn)

	s.handler.HandleDisconnect(conn)
	conn.Disconnect()
	s.logger.Info("client disconnected", zap.String("conn", conn.id))
}

// readLoop decodes inbound frames until the socket dies. Malformed frames
// are logged and dropped; the connection survives them.
func (s *Server) readLoop(conn *wsConn) {
	for {
		_, raw, err := conn.ws.ReadMessage()
		if err != nil {
			return
		}
		msg, err := protocol.DecodeInbound(raw)
		if err != nil {
			s.logger.Warn("dropping malformed frame",
				zap.String("conn", conn.id),
				zap.Error(err),
			)
			continue
		}
		s.handler.HandleMessage(conn, msg)
	}
}
