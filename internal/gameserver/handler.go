// Package gameserver binds the transport to the simulation: it tracks
// which connection belongs to which player and dispatches every decoded
// message to the world operation it requests.
package gameserver

import (
	"sync"

	"go.uber.org/zap"

	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/game/world"
	"github.com/shardmud/shard/internal/protocol"
)

// PacketHandler is the transport-facing message dispatcher.
type PacketHandler struct {
	world  *world.World
	logger *zap.Logger

	mu      sync.Mutex
	players map[protocol.Conn]*entity.Player
}

// NewPacketHandler creates a handler bound to the world.
//
// Precondition: w and logger must be non-nil.
func NewPacketHandler(w *world.World, logger *zap.Logger) *PacketHandler {
	return &PacketHandler{
		world:   w,
		logger:  logger,
		players: make(map[protocol.Conn]*entity.Player),
	}
}

// HandleConnect registers a fresh, not-yet-authenticated connection.
func (h *PacketHandler) HandleConnect(conn protocol.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.players[conn] = nil
}

// HandleDisconnect logs the player out when their connection drops.
func (h *PacketHandler) HandleDisconnect(conn protocol.Conn) {
	h.mu.Lock()
	p := h.players[conn]
	delete(h.players, conn)
	h.mu.Unlock()

	if p != nil {
		h.world.Logout(p)
	}
}

func (h *PacketHandler) player(conn protocol.Conn) *entity.Player {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.players[conn]
}

// HandleMessage dispatches one decoded message. Everything except login
// requires an authenticated player; messages from strangers are dropped.
func (h *PacketHandler) HandleMessage(conn protocol.Conn, msg protocol.Message) {
	if req, ok := msg.(*protocol.LoginRequest); ok {
		h.handleLogin(conn, req)
		return
	}

	p := h.player(conn)
	if p == nil {
		h.logger.Warn("message before login, disconnecting",
			zap.String("kind", msg.Kind()),
			zap.String("remote", conn.RemoteAddr()),
		)
		conn.Disconnect()
		return
	}

	switch req := msg.(type) {
	case *protocol.MoveRequest:
		h.world.Move(p, req)
	case *protocol.SingleClick:
		h.world.SingleClick(p, req.Serial)
	case *protocol.DoubleClick:
		h.world.DoubleClick(p, req.Serial)
	case *protocol.Attack:
		h.world.Attack(p, req.Serial)
	case *protocol.Speech:
		h.world.Speak(p, req)
	case *protocol.DragRequest:
		h.world.Drag(p, req)
	case *protocol.DropRequest:
		h.world.Drop(p, req)
	case *protocol.EquipRequest:
		h.world.Equip(p, req)
	case *protocol.StatusRequest:
		h.world.Status(p, req)
	case *protocol.Action:
		h.world.Action(p, req)
	case *protocol.ShopAction:
		h.world.Shop(p, req)
	default:
		h.logger.Warn("unhandled message kind", zap.String("kind", msg.Kind()))
	}
}

func (h *PacketHandler) handleLogin(conn protocol.Conn, req *protocol.LoginRequest) {
	h.mu.Lock()
	existing := h.players[conn]
	h.mu.Unlock()
	if existing != nil {
		// Already authenticated on this connection.
		return
	}

	p := h.world.Login(conn, req)
	if p == nil {
		// The world already sent a LoginError; the client may retry.
		return
	}
	h.mu.Lock()
	h.players[conn] = p
	h.mu.Unlock()
}
