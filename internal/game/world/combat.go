package world

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shardmud/shard/internal/game/attr"
	"github.com/shardmud/shard/internal/game/content"
	"github.com/shardmud/shard/internal/game/dice"
	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/game/schedule"
	"github.com/shardmud/shard/internal/protocol"
)

// Combat pacing and damage model.
const (
	// firstSwingDelay is the wind-up before the opening swing.
	firstSwingDelay = 200 * time.Millisecond
	// swingPeriod is the time between swings of an ongoing fight.
	swingPeriod = 1500 * time.Millisecond

	minDamage = 10
	maxDamage = 20

	// defendedDivisor reduces damage on a successful defense check.
	defendedDivisor = 3

	// fightSkillCeiling sits above the skill cap, so even a capped
	// fighter keeps a small miss chance.
	fightSkillCeiling = 1100

	// maxFightHeightDiff blocks melee across more than half a character
	// height of elevation.
	maxFightHeightDiff = content.CharacterHeight / 2
)

// Attack engages attacker against the mobile with the given serial.
func (w *World) Attack(attacker *entity.Player, serial int64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	target := w.reg.FindMobile(serial)
	if target == nil || target.Serial() == attacker.Serial() {
		return
	}
	if attacker.IsDead() {
		attacker.SendSysmsg("I am dead and cannot do that.")
		return
	}
	if target.IsDead() {
		attacker.SendSysmsg("They are already dead.")
		return
	}

	attacker.AsMobile().SetOpponent(target)
	// An unengaged victim turns to fight back.
	if target.Opponent() == nil {
		target.SetOpponent(attacker.AsMobile())
	}
}

// engage arms the swing loop for m: an opening swing after a short
// wind-up, then a steady period for as long as the fight lasts. Triggered
// by OpponentChanged on a fresh engagement.
func (w *World) engage(m *entity.Mobile) {
	var t *schedule.Timer
	t = schedule.NewTimer(swingPeriod, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.combatRound(m) {
			w.timers.Reschedule(t)
		}
	})
	w.timers.Schedule(firstSwingDelay, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.combatRound(m) {
			w.timers.Reschedule(t)
		}
	})
}

// combatRound performs one swing of m against its opponent. Reports
// whether the loop should continue.
func (w *World) combatRound(m *entity.Mobile) bool {
	opponent := m.Opponent()
	if opponent == nil {
		return false
	}
	if !m.CanFight() || m.IsDead() || !opponent.CanFight() || opponent.IsDead() {
		m.SetOpponent(nil)
		return false
	}
	if m.DistanceTo(opponent.Self()) > VisibleRange {
		m.SetOpponent(nil)
		if p, ok := m.Self().(*entity.Player); ok {
			p.SendSysmsg("Your opponent has fled.")
		}
		return false
	}

	// Out of reach or across a ledge: the fight is over for both sides.
	if m.DistanceTo(opponent.Self()) > MeleeRange || !withinFightHeight(m, opponent) {
		m.SetOpponent(nil)
		if opponent.Opponent() == m {
			opponent.SetOpponent(nil)
		}
		return false
	}

	m.LookAt(opponent.Self())
	w.swing(m, opponent)
	return !opponent.Deleted()
}

func withinFightHeight(a, b *entity.Mobile) bool {
	diff := a.Location().Z - b.Location().Z
	if diff < 0 {
		diff = -diff
	}
	return diff <= maxFightHeightDiff
}

// swing resolves a single melee exchange: the attacker trains melee, the
// defender rolls their defense to blunt the blow.
func (w *World) swing(attacker, defender *entity.Mobile) {
	msg := &protocol.Fight{AttackerSerial: attacker.Serial(), DefenderSerial: defender.Serial()}
	for _, p := range w.interestedPlayers(attacker.Self()) {
		p.Send(msg)
	}

	if !attacker.CheckSkill(w.roller, attr.Melee, 0, fightSkillCeiling) {
		w.playSoundOf(attacker, (*entity.Mobile).MissSound)
		return
	}

	damage := int64(w.roller.Between(minDamage, maxDamage))
	if defender.CheckSkill(w.roller, attr.BattleDefense, 0, fightSkillCeiling) {
		damage /= defendedDivisor
	}

	w.playSoundOf(attacker, (*entity.Mobile).HitSound)
	if defender.DealDamage(damage) {
		w.rewardExperience(attacker, killExperience(defender))
		return
	}
	w.playSoundOf(defender, (*entity.Mobile).PainSound)
}

// killExperience is the reward for downing a victim.
func killExperience(victim *entity.Mobile) int64 {
	return victim.Attribute(attr.Level)*5 + 10
}

// playSoundOf broadcasts one of m's sound-set entries to everyone nearby.
func (w *World) playSoundOf(m *entity.Mobile, pick func(*entity.Mobile, *dice.Roller) (int, bool)) {
	id, ok := pick(m, w.roller)
	if !ok {
		return
	}
	sound := &protocol.Sound{ID: id}
	for _, p := range w.interestedPlayers(m.Self()) {
		p.Send(sound)
	}
}

// handleDeath creates the corpse, moves the victim's carried loot into
// it, and notifies the scene. NPCs vanish with their corpse left behind;
// players linger as ghosts until resurrected.
func (w *World) handleDeath(m *entity.Mobile) {
	w.playSoundOf(m, (*entity.Mobile).DeathSound)

	corpse, err := w.createItemAt(m.Location(), m.CorpseGraphic(), "")
	if err != nil {
		w.logger.Error("creating corpse", zap.Int64("victim", m.Serial()), zap.Error(err))
	} else {
		corpse.SetName(fmt.Sprintf("a corpse of %s", m.Name()))
		// Everything worn goes into the corpse; hair stays with the
		// body. A carried backpack brings its contents along.
		for _, it := range m.EquippedItems() {
			if it.Layer() == content.LayerHair {
				continue
			}
			m.UnequipItem(it)
			corpse.AddChild(it, it.Location().XY())
		}
	}

	switch self := m.Self().(type) {
	case *entity.NPC:
		self.Delete()
	case *entity.Player:
		self.SetLocation(ResurrectLocation)
		self.Send(&protocol.Death{})
		self.SendSysmsg("You are dead.")
	}
}

// Resurrect returns a dead player to life at the resurrection point.
func (w *World) Resurrect(p *entity.Player) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !p.IsDead() {
		return
	}
	p.SetLocation(ResurrectLocation)
	p.RefreshStats()
	p.SendSysmsg("You feel life returning to your body.")
}
