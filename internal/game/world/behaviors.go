package world

import (
	"fmt"
	"time"

	"github.com/shardmud/shard/internal/game/attr"
	"github.com/shardmud/shard/internal/game/content"
	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/game/magic"
	"github.com/shardmud/shard/internal/protocol"
)

// Durations of the temporary spell effects.
const (
	lightSpellDuration  = time.Minute
	greatLightDuration  = 2 * time.Minute
	lightSourceDuration = 2 * time.Minute
)

// spellFunc adapts a plain function to scripting.SpellHandler.
type spellFunc struct {
	mana int64
	cast func(caster *entity.Player) error
}

func (s spellFunc) ManaCost() int64                  { return s.mana }
func (s spellFunc) Cast(caster *entity.Player) error { return s.cast(caster) }

// registerBuiltins installs the default behaviors and spell effects.
// Lua scripts loaded afterwards may override any of them by name.
func (w *World) registerBuiltins() {
	w.scripts.RegisterItemBehavior("scroll", scrollBehavior{w})
	w.scripts.RegisterMobileBehavior("shopkeeper", shopkeeperBehavior{})

	w.scripts.RegisterSpell(magic.Light, spellFunc{mana: 3, cast: func(p *entity.Player) error {
		w.temporaryLight(p, 8, lightSpellDuration)
		return nil
	}})
	w.scripts.RegisterSpell(magic.GreatLight, spellFunc{mana: 6, cast: func(p *entity.Player) error {
		w.temporaryLight(p, maxDarkness, greatLightDuration)
		return nil
	}})
	w.scripts.RegisterSpell(magic.LightSource, spellFunc{mana: 4, cast: func(p *entity.Player) error {
		return w.temporarySource(p, content.GfxLightsource)
	}})
	w.scripts.RegisterSpell(magic.DarkSource, spellFunc{mana: 4, cast: func(p *entity.Player) error {
		return w.temporarySource(p, content.GfxDarksource)
	}})
	w.scripts.RegisterSpell(magic.Healing, spellFunc{mana: 5, cast: func(p *entity.Player) error {
		if p.IsDead() {
			return nil
		}
		p.RewardAttribute(attr.Hits, int64(w.roller.Between(5, 15)))
		p.SendSysmsg("A warm glow washes over you.")
		return nil
	}})
	w.scripts.RegisterSpell(magic.Fireball, spellFunc{mana: 8, cast: func(p *entity.Player) error {
		p.SendSysmsg("Select a target.")
		p.SetObjectTarget(func(e entity.Entity) {
			w.fireballAt(p, e)
		})
		return nil
	}})
	w.scripts.RegisterSpell(magic.CreateFood, spellFunc{mana: 4, cast: func(p *entity.Player) error {
		backpack := p.Backpack()
		if backpack == nil {
			return fmt.Errorf("caster has no backpack")
		}
		_, err := w.createItemIn(backpack, content.GfxBread, 1, "")
		if err == nil {
			p.SendSysmsg("Food appears in your pack.")
		}
		return err
	}})
}

// temporaryLight brightens one player's view, reverting when the effect
// expires.
func (w *World) temporaryLight(p *entity.Player, amount int, d time.Duration) {
	level := w.lightLevel - amount
	if level < 0 {
		level = 0
	}
	p.Send(&protocol.GlobalLight{Level: level})
	w.timers.Schedule(d, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if p.Online() {
			p.Send(&protocol.GlobalLight{Level: w.lightLevel})
		}
	})
}

// temporarySource drops a light or dark emitter at the caster's feet and
// removes it when it burns out.
func (w *World) temporarySource(p *entity.Player, graphic int) error {
	it, err := w.createItemAt(p.Location(), graphic, "")
	if err != nil {
		return err
	}
	w.timers.Schedule(lightSourceDuration, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if !it.Deleted() {
			it.Delete()
		}
	})
	return nil
}

// fireballAt resolves a fireball against the targeted mobile.
func (w *World) fireballAt(caster *entity.Player, target entity.Entity) {
	m := asMobile(target)
	if m == nil || m.IsDead() || m.Serial() == caster.Serial() {
		caster.SendSysmsg("The fire dissipates harmlessly.")
		return
	}
	if !caster.InRange(m.Location().XY(), VisibleRange) {
		caster.SendSysmsg("Your target is too far away.")
		return
	}
	damage := int64(w.roller.Between(minDamage, maxDamage))
	if m.DealDamage(damage) {
		w.rewardExperience(caster.AsMobile(), killExperience(m))
	}
}

// scrollBehavior makes spell scrolls castable by double-click.
type scrollBehavior struct {
	w *World
}

func (b scrollBehavior) OnCreate(*entity.Item) error         { return nil }
func (b scrollBehavior) OnLoad(*entity.Item) error           { return nil }
func (b scrollBehavior) OnBehaviorChange(*entity.Item) error { return nil }

func (b scrollBehavior) OnUse(user *entity.Player, it *entity.Item) error {
	b.w.castScrollItem(user, it)
	return nil
}

// shopkeeperBehavior greets customers; the stock container on the shop
// layer does the actual selling.
type shopkeeperBehavior struct{}

func (shopkeeperBehavior) OnLoad(*entity.NPC) error { return nil }

func (shopkeeperBehavior) OnSpeech(*entity.NPC, *entity.Player, string) error { return nil }

func (shopkeeperBehavior) OnHello(n *entity.NPC, src *entity.Player) error {
	src.SendSysmsg(fmt.Sprintf("%s says: Welcome! Have a look at my wares.", n.Name()))
	return nil
}

func (shopkeeperBehavior) OnEnterArea(*entity.NPC, *entity.Player) error { return nil }

func (shopkeeperBehavior) OnDoubleClick(*entity.NPC, *entity.Player) (bool, error) {
	return true, nil
}
