package world_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardmud/shard/internal/game/attr"
	"github.com/shardmud/shard/internal/game/content"
	"github.com/shardmud/shard/internal/game/dice"
	"github.com/shardmud/shard/internal/game/magic"
	"github.com/shardmud/shard/internal/game/world"
	"github.com/shardmud/shard/internal/protocol"
)

func TestOpenSpellbook(t *testing.T) {
	w := newTestWorld(t)
	p, conn := createCharacter(t, w, "Finn")
	book := p.Spellbook()
	require.NotNil(t, book)
	conn.reset()

	w.Action(p, &protocol.Action{Mode: protocol.ActionOpenSpellbook})

	dialogs := conn.ofKind("open_dialog")
	require.Len(t, dialogs, 1)
	assert.Equal(t, book.Serial(), dialogs[0].(*protocol.OpenDialog).Serial)
	assert.Equal(t, content.GumpSpellbook, dialogs[0].(*protocol.OpenDialog).Gump)

	listings := conn.ofKind("container_contents")
	require.Len(t, listings, 1)
	listing := listings[0].(*protocol.ContainerContents)
	require.Len(t, listing.Items, 1)
	assert.Equal(t, magic.Light.ScrollGraphic(), listing.Items[0].Graphic)
}

func TestOpenSpellbookWithoutBook(t *testing.T) {
	w := newTestWorld(t)
	p, conn := createCharacter(t, w, "Finn")
	p.Spellbook().Delete()
	conn.reset()

	w.Action(p, &protocol.Action{Mode: protocol.ActionOpenSpellbook})

	assert.Contains(t, conn.sysmsgs(), "You have no spellbook.")
	assert.Empty(t, conn.ofKind("open_dialog"))
}

func TestCastUnknownSpell(t *testing.T) {
	w := newTestWorld(t)
	p, conn := createCharacter(t, w, "Finn")
	conn.reset()

	w.Action(p, &protocol.Action{Mode: protocol.ActionCastSpell, Text: "meteor swarm"})

	assert.Contains(t, conn.sysmsgs(), "You mumble words without meaning.")
}

func TestCastUnlearnedSpell(t *testing.T) {
	w := newTestWorld(t)
	p, conn := createCharacter(t, w, "Finn")
	conn.reset()

	// A new spellbook only holds the light scroll.
	w.Action(p, &protocol.Action{Mode: protocol.ActionCastSpell, Text: magic.Fireball.String()})

	assert.Contains(t, conn.sysmsgs(), "You have not learned that spell.")
}

func TestCastWithoutMana(t *testing.T) {
	w := newTestWorld(t)
	p, conn := createCharacter(t, w, "Finn")
	require.NoError(t, p.AsMobile().SetAttribute(attr.Mana, 0))
	conn.reset()

	w.Action(p, &protocol.Action{Mode: protocol.ActionCastSpell, Text: magic.Light.String()})

	assert.Contains(t, conn.sysmsgs(), "You lack the mana.")
}

func TestCastFizzles(t *testing.T) {
	opts := worldOptions(t)
	opts.Roller = dice.NewRoller(fixedSource{value: 999_999})
	w := world.New(opts)
	p, conn := createCharacter(t, w, "Finn")
	manaBefore := p.Attribute(attr.Mana)
	conn.reset()

	w.Action(p, &protocol.Action{Mode: protocol.ActionCastSpell, Text: magic.Light.String()})

	assert.Contains(t, conn.sysmsgs(), "The spell fizzles.")
	assert.Equal(t, manaBefore-3, p.Attribute(attr.Mana), "mana burns even on a fizzle")
}

func TestCastLight(t *testing.T) {
	w := newTestWorld(t)
	p, conn := createCharacter(t, w, "Finn")
	// At the skill ceiling casting always succeeds.
	require.NoError(t, p.AsMobile().SetAttribute(attr.Magic, 800))
	conn.reset()

	w.Action(p, &protocol.Action{Mode: protocol.ActionCastSpell, Text: magic.Light.String()})

	lights := conn.ofKind("global_light")
	require.Len(t, lights, 1, "a successful cast brightens the caster's view")
	assert.Zero(t, lights[0].(*protocol.GlobalLight).Level)
}

func TestUseHealingScroll(t *testing.T) {
	w := newTestWorld(t)
	p, conn := createCharacter(t, w, "Finn")

	scroll, err := w.CreateItemIn(p.Backpack(), content.GfxScrollHealing, 1, "")
	require.NoError(t, err)
	p.AsMobile().DealDamage(20)
	hitsBefore := p.Attribute(attr.Hits)
	conn.reset()

	w.Action(p, &protocol.Action{
		Mode: protocol.ActionUseScroll,
		Text: strconv.FormatInt(scroll.Serial(), 10),
	})

	assert.True(t, scroll.Deleted(), "the scroll is consumed")
	assert.Contains(t, conn.sysmsgs(), "A warm glow washes over you.")
	assert.Greater(t, p.Attribute(attr.Hits), hitsBefore)
}

func TestUseCreateFoodScroll(t *testing.T) {
	w := newTestWorld(t)
	p, conn := createCharacter(t, w, "Finn")

	scroll, err := w.CreateItemIn(p.Backpack(), content.GfxScrollCreatefood, 1, "")
	require.NoError(t, err)
	conn.reset()

	w.Action(p, &protocol.Action{
		Mode: protocol.ActionUseScroll,
		Text: strconv.FormatInt(scroll.Serial(), 10),
	})

	assert.Contains(t, conn.sysmsgs(), "Food appears in your pack.")
	assert.Equal(t, 1, p.Backpack().AmountByType(content.GfxBread))
	assert.True(t, scroll.Deleted())
}

func TestUseScrollOutOfReach(t *testing.T) {
	w := newTestWorld(t)
	p, conn := createCharacter(t, w, "Finn")

	loc := p.Location()
	loc.X += 13
	scroll, err := w.CreateItemAt(loc, content.GfxScrollHealing, "")
	require.NoError(t, err)
	conn.reset()

	w.Action(p, &protocol.Action{
		Mode: protocol.ActionUseScroll,
		Text: strconv.FormatInt(scroll.Serial(), 10),
	})

	assert.False(t, scroll.Deleted())
	assert.NotEmpty(t, conn.sysmsgs())
}

func TestUseScrollGarbageSerial(t *testing.T) {
	w := newTestWorld(t)
	p, conn := createCharacter(t, w, "Finn")
	conn.reset()

	w.Action(p, &protocol.Action{Mode: protocol.ActionUseScroll, Text: "not a serial"})

	assert.Empty(t, conn.sent)
}
