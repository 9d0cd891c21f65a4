package transport

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/shardmud/shard/internal/config"
	"github.com/shardmud/shard/internal/protocol"
)

// wsConn is one client connection. Send enqueues onto the buffered queue;
// the writer goroutine owns all socket writes.
type wsConn struct {
	id     string
	ws     *websocket.Conn
	logger *zap.Logger

	writeTimeout time.Duration
	send         chan []byte

	closeOnce sync.Once
	closed    chan struct{}
}

func newConn(ws *websocket.Conn, cfg config.ServerConfig, logger *zap.Logger) *wsConn {
	return &wsConn{
		id:           uuid.NewString(),
		ws:           ws,
		logger:       logger,
		writeTimeout: cfg.WriteTimeout,
		send:         make(chan []byte, cfg.SendQueueSize),
		closed:       make(chan struct{}),
	}
}

// Send enqueues one outbound message. A full queue means the client has
// fallen too far behind the simulation; the connection is cut rather than
// letting the backlog grow.
func (c *wsConn) Send(msg protocol.Message) error {
	data, err := protocol.EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("transport: encoding %s: %w", msg.Kind(), err)
	}
	select {
	case <-c.closed:
		return fmt.Errorf("transport: connection %s closed", c.id)
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send queue overflow, disconnecting client",
			zap.String("conn", c.id),
		)
		c.Disconnect()
		return fmt.Errorf("transport: connection %s overflowed", c.id)
	}
}

// Disconnect closes the socket and stops the writer. Safe to call from
// any goroutine, any number of times.
func (c *wsConn) Disconnect() {
	c.closeOnce.Do(func() {
		close(c.closed)
		if err := c.ws.Close(); err != nil {
			c.logger.Debug("closing socket", zap.String("conn", c.id), zap.Error(err))
		}
	})
}

// RemoteAddr returns the peer address for logging.
func (c *wsConn) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

// writeLoop drains the send queue onto the socket.
func (c *wsConn) writeLoop() {
	for {
		select {
		case <-c.closed:
			return
		case data := <-c.send:
			if c.writeTimeout > 0 {
				_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.Disconnect()
				return
			}
		}
	}
}
