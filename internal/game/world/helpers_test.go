package world_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/shardmud/shard/internal/game/content"
	"github.com/shardmud/shard/internal/game/dice"
	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/game/schedule"
	"github.com/shardmud/shard/internal/game/terrain"
	"github.com/shardmud/shard/internal/game/world"
	"github.com/shardmud/shard/internal/protocol"
)

// recordConn captures everything the world sends to one client.
type recordConn struct {
	sent         []protocol.Message
	disconnected bool
}

func (c *recordConn) Send(msg protocol.Message) error { c.sent = append(c.sent, msg); return nil }
func (c *recordConn) Disconnect()                     { c.disconnected = true }
func (c *recordConn) RemoteAddr() string              { return "192.0.2.1:49152" }

func (c *recordConn) reset() { c.sent = nil }

func (c *recordConn) ofKind(kind string) []protocol.Message {
	var res []protocol.Message
	for _, m := range c.sent {
		if m.Kind() == kind {
			res = append(res, m)
		}
	}
	return res
}

func (c *recordConn) sysmsgs() []string {
	var res []string
	for _, m := range c.sent {
		if t, ok := m.(*protocol.Text); ok && t.Mode == protocol.TextModeSysmsg {
			res = append(res, t.Text)
		}
	}
	return res
}

// fixedSource makes every roll deterministic: value 0 passes every
// positive-probability check, 999999 fails every check below certainty.
type fixedSource struct {
	value int
}

func (s fixedSource) Intn(n int) int { return s.value % n }

// worldOptions builds a standard test world: builtin content, a flat map,
// and an unstarted timer queue so scheduled callbacks stay pending.
func worldOptions(t *testing.T) world.Options {
	t.Helper()
	logger := zaptest.NewLogger(t)
	return world.Options{
		Logger:   logger,
		Defs:     content.NewTable(),
		Timers:   schedule.NewQueue(logger),
		Roller:   dice.NewRoller(dice.NewCryptoSource()),
		Terrain:  terrain.NewFlatMap(1024, 1024),
		SavePath: filepath.Join(t.TempDir(), "world.sav"),
	}
}

func newTestWorld(t *testing.T) *world.World {
	t.Helper()
	return world.New(worldOptions(t))
}

// createCharacter logs a fresh character into w and clears the login
// traffic so tests assert only what they trigger themselves.
func createCharacter(t *testing.T, w *world.World, name string) (*entity.Player, *recordConn) {
	t.Helper()
	conn := &recordConn{}
	p := w.Login(conn, &protocol.LoginRequest{
		Name:         name,
		Password:     "correct horse",
		Seed:         7,
		Graphic:      content.MobHumanMale,
		Strength:     30,
		Dexterity:    20,
		Intelligence: 10,
	})
	require.NotNil(t, p, "character creation failed for %q", name)
	conn.reset()
	return p, conn
}
