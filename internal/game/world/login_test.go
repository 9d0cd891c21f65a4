package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardmud/shard/internal/game/attr"
	"github.com/shardmud/shard/internal/game/content"
	"github.com/shardmud/shard/internal/game/magic"
	"github.com/shardmud/shard/internal/game/world"
	"github.com/shardmud/shard/internal/protocol"
)

func TestCreateCharacter(t *testing.T) {
	w := newTestWorld(t)
	conn := &recordConn{}

	p := w.Login(conn, &protocol.LoginRequest{
		Name:         "Finn",
		Password:     "correct horse",
		Seed:         42,
		Graphic:      content.MobHumanMale,
		Strength:     30,
		Dexterity:    20,
		Intelligence: 10,
	})
	require.NotNil(t, p)

	assert.True(t, p.Online())
	assert.Equal(t, "Finn", p.Name())
	assert.Equal(t, world.NewCharacterLocation, p.Location())
	assert.EqualValues(t, 30, p.Attribute(attr.Strength))
	assert.EqualValues(t, 1, p.Attribute(attr.Level))
	assert.EqualValues(t, 65, p.Attribute(attr.Hits), "hits start at the derived maximum")

	require.NotEmpty(t, conn.sent)
	ok, isOK := conn.sent[0].(*protocol.LoginOK)
	require.True(t, isOK, "the first message must confirm the login, got %q", conn.sent[0].Kind())
	assert.Equal(t, p.Serial(), ok.Serial)
	assert.EqualValues(t, 42, ok.Seed)
	assert.Equal(t, world.NewCharacterLocation, ok.Location)

	assert.Len(t, conn.ofKind("global_light"), 1)
	assert.NotEmpty(t, conn.ofKind("equip_update"))
	assert.NotEmpty(t, conn.ofKind("stats"))
	assert.NotEmpty(t, conn.ofKind("skills"))
}

func TestCreateCharacterOutfit(t *testing.T) {
	w := newTestWorld(t)
	p, _ := createCharacter(t, w, "Finn")
	mob := p.AsMobile()

	assert.NotNil(t, mob.EquipmentByLayer(content.LayerShirt))
	pants := mob.EquipmentByLayer(content.LayerPants)
	require.NotNil(t, pants)
	assert.Equal(t, content.GfxPants, pants.Graphic())
	assert.NotNil(t, mob.EquipmentByLayer(content.LayerHair))

	backpack := p.Backpack()
	require.NotNil(t, backpack)
	assert.NotNil(t, backpack.FindChildByType(content.GfxDagger))
	assert.Equal(t, 100, backpack.AmountByType(content.GfxGold))

	book := p.Spellbook()
	require.NotNil(t, book)
	assert.True(t, p.HasSpell(magic.Light))
	assert.False(t, p.HasSpell(magic.Fireball))
}

func TestCreateCharacterFemaleWardrobe(t *testing.T) {
	w := newTestWorld(t)
	conn := &recordConn{}
	p := w.Login(conn, &protocol.LoginRequest{
		Name:     "Lotte",
		Password: "pw",
		Graphic:  content.MobHumanFemale,
	})
	require.NotNil(t, p)

	pants := p.AsMobile().EquipmentByLayer(content.LayerPants)
	require.NotNil(t, pants)
	assert.Equal(t, content.GfxSkirt, pants.Graphic())
}

func TestCreateCharacterStatDefaults(t *testing.T) {
	cases := []struct {
		name          string
		str, dex, itl int64
	}{
		{"sum over cap", 50, 20, 20},
		{"zero stat", 0, 40, 40},
		{"negative stat", -5, 40, 40},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorld(t)
			p := w.Login(&recordConn{}, &protocol.LoginRequest{
				Name:         "Finn",
				Password:     "pw",
				Strength:     tc.str,
				Dexterity:    tc.dex,
				Intelligence: tc.itl,
			})
			require.NotNil(t, p)
			assert.EqualValues(t, 30, p.Attribute(attr.Strength))
			assert.EqualValues(t, 30, p.Attribute(attr.Dexterity))
			assert.EqualValues(t, 20, p.Attribute(attr.Intelligence))
		})
	}
}

func TestCreateCharacterNameTaken(t *testing.T) {
	w := newTestWorld(t)
	createCharacter(t, w, "Finn")

	conn := &recordConn{}
	p := w.Login(conn, &protocol.LoginRequest{Name: "Finn", Password: "other"})
	assert.Nil(t, p)
	require.Len(t, conn.sent, 1)
	assert.Equal(t, protocol.LoginNameTaken, conn.sent[0].(*protocol.LoginError).Reason)
}

func TestCreateCharacterEmptyName(t *testing.T) {
	w := newTestWorld(t)
	conn := &recordConn{}
	p := w.Login(conn, &protocol.LoginRequest{Name: "   ", Password: "pw"})
	assert.Nil(t, p)
	require.Len(t, conn.sent, 1)
	assert.Equal(t, protocol.LoginCharNotFound, conn.sent[0].(*protocol.LoginError).Reason)
}

func TestLoginUnknownSerial(t *testing.T) {
	w := newTestWorld(t)
	conn := &recordConn{}
	p := w.Login(conn, &protocol.LoginRequest{Serial: 99, Password: "pw"})
	assert.Nil(t, p)
	require.Len(t, conn.sent, 1)
	assert.Equal(t, protocol.LoginCharNotFound, conn.sent[0].(*protocol.LoginError).Reason)
}

func TestLoginBadPassword(t *testing.T) {
	w := newTestWorld(t)
	p, _ := createCharacter(t, w, "Finn")
	w.Logout(p)

	conn := &recordConn{}
	got := w.Login(conn, &protocol.LoginRequest{Serial: p.Serial(), Password: "wrong"})
	assert.Nil(t, got)
	require.Len(t, conn.sent, 1)
	assert.Equal(t, protocol.LoginBadPassword, conn.sent[0].(*protocol.LoginError).Reason)
}

func TestLoginAlreadyOnline(t *testing.T) {
	w := newTestWorld(t)
	p, _ := createCharacter(t, w, "Finn")

	conn := &recordConn{}
	got := w.Login(conn, &protocol.LoginRequest{Serial: p.Serial(), Password: "correct horse"})
	assert.Nil(t, got)
	require.Len(t, conn.sent, 1)
	assert.Equal(t, protocol.LoginAlreadyOnline, conn.sent[0].(*protocol.LoginError).Reason)
	assert.True(t, p.Online(), "the original session must survive")
}

func TestLogoutAndRelogin(t *testing.T) {
	w := newTestWorld(t)
	p, _ := createCharacter(t, w, "Finn")

	w.Logout(p)
	assert.False(t, p.Online())

	conn := &recordConn{}
	got := w.Login(conn, &protocol.LoginRequest{Serial: p.Serial(), Password: "correct horse"})
	require.Equal(t, p, got)
	assert.True(t, p.Online())
	require.NotEmpty(t, conn.sent)
	assert.Equal(t, "login_ok", conn.sent[0].Kind())
}

func TestLogoutOfflineIsNoop(t *testing.T) {
	w := newTestWorld(t)
	p, _ := createCharacter(t, w, "Finn")
	w.Logout(p)
	w.Logout(p)
	assert.False(t, p.Online())
}
