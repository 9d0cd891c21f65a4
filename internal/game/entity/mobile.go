package entity

import (
	"fmt"

	"github.com/shardmud/shard/internal/game/attr"
	"github.com/shardmud/shard/internal/game/content"
	"github.com/shardmud/shard/internal/game/dice"
	"github.com/shardmud/shard/internal/game/geometry"
)

// fastGainThreshold is the skill value below which unconstrained checks
// gain at the fast early-learning rate.
const fastGainThreshold = 50

// minGainChance is the floor for the gain roll on checks that are already
// easy: rarer-but-nonzero gains.
const minGainChance = 0.025

// Mobile is an entity with attributes, equipment, a facing direction, and
// combat/regeneration eligibility.
type Mobile struct {
	Object

	defs *content.Table

	facing     geometry.Direction
	attributes map[attr.Attribute]int64
	hairStyle  int
	hairHue    int

	equipped []*Item
	opponent *Mobile

	refreshRunning bool
}

// NewMobile creates an unregistered mobile.
//
// Precondition: defs must be non-nil.
func NewMobile(serial int64, graphic int, defs *content.Table) *Mobile {
	m := &Mobile{defs: defs}
	m.initMobile(m, serial, graphic)
	return m
}

func (m *Mobile) initMobile(self Entity, serial int64, graphic int) {
	m.init(self, serial, graphic)
	m.defsApply()
	m.facing = geometry.SouthEast
	m.attributes = make(map[attr.Attribute]int64)
}

func (m *Mobile) defsApply() {
	if d := m.defs.Mobile(m.graphic); d != nil && m.name == "" {
		m.name = d.Name
	}
}

// AsMobile returns the embedded mobile; it lets items treat NPCs and
// players uniformly as wearers.
func (m *Mobile) AsMobile() *Mobile { return m }

// Self returns the outermost entity this mobile is embedded in, letting
// callers holding a *Mobile recover the *Player or *NPC.
func (m *Mobile) Self() Entity { return m.self }

// Delete removes all equipment, then the mobile itself.
func (m *Mobile) Delete() {
	for _, it := range m.EquippedItems() {
		it.Delete()
	}
	m.equipped = nil
	m.Object.Delete()
}

// Def returns the static definition for the mobile's graphic, or nil.
func (m *Mobile) Def() *content.MobileDef { return m.defs.Mobile(m.graphic) }

// Facing returns the current facing direction.
func (m *Mobile) Facing() geometry.Direction { return m.facing }

// SetFacing turns the mobile. A pure turn is published as a location
// change with an unchanged location.
func (m *Mobile) SetFacing(d geometry.Direction) {
	if m.facing == d {
		return
	}
	m.facing = d
	m.publish(func(obs Observer) { obs.LocationChanged(m.self, m.location) })
}

// LookAt turns the mobile towards other.
func (m *Mobile) LookAt(other Entity) {
	m.SetFacing(m.location.DirectionTo(other.Location().XY()))
}

func (m *Mobile) HairStyle() int { return m.hairStyle }

// SetHairStyle changes the hair appearance.
func (m *Mobile) SetHairStyle(style int) {
	m.hairStyle = style
	m.publish(func(obs Observer) { obs.ObjectUpdated(m.self) })
}

func (m *Mobile) HairHue() int { return m.hairHue }

// SetHairHue changes the hair color.
func (m *Mobile) SetHairHue(hue int) {
	m.hairHue = hue
	m.publish(func(obs Observer) { obs.ObjectUpdated(m.self) })
}

// Attribute returns the current value of a. Derived attributes are
// computed from base stats and never stored.
func (m *Mobile) Attribute(a attr.Attribute) int64 {
	switch a {
	case attr.MaxHits:
		return 50 + m.Attribute(attr.Strength)/2
	case attr.MaxFatigue:
		return m.Attribute(attr.Dexterity)
	case attr.MaxMana:
		return m.Attribute(attr.Intelligence)
	case attr.NextLevel:
		return m.Attribute(attr.Level) * 10
	default:
		return m.attributes[a]
	}
}

// SetAttribute writes a base attribute and publishes the change.
// Writing a derived attribute is a programming error and fails loudly.
// HITS, MANA, and FATIGUE are clamped to their computed maxima; this is
// deliberate game-balance behavior, not an error path.
func (m *Mobile) SetAttribute(a attr.Attribute, value int64) error {
	if a.IsDerived() {
		return fmt.Errorf("attribute %s is derived and not writable", a)
	}
	switch a {
	case attr.Hits:
		if mx := m.Attribute(attr.MaxHits); value > mx {
			value = mx
		}
	case attr.Mana:
		if mx := m.Attribute(attr.MaxMana); value > mx {
			value = mx
		}
	case attr.Fatigue:
		if mx := m.Attribute(attr.MaxFatigue); value > mx {
			value = mx
		}
	}
	m.attributes[a] = value
	m.publish(func(obs Observer) { obs.AttributeChanged(m, a) })
	return nil
}

// mustSet writes a known-writable attribute.
func (m *Mobile) mustSet(a attr.Attribute, value int64) {
	if err := m.SetAttribute(a, value); err != nil {
		panic("entity: mustSet on derived attribute " + a.String())
	}
}

// ConsumeAttribute subtracts amount if the full amount is available.
func (m *Mobile) ConsumeAttribute(a attr.Attribute, amount int64) bool {
	old := m.Attribute(a)
	if amount > old {
		return false
	}
	m.mustSet(a, old-amount)
	return true
}

// RewardAttribute adds a positive amount to a.
func (m *Mobile) RewardAttribute(a attr.Attribute, amount int64) {
	if amount > 0 {
		m.mustSet(a, m.Attribute(a)+amount)
	}
}

// RefreshStats fills hits, mana, and fatigue to their maxima.
func (m *Mobile) RefreshStats() {
	m.mustSet(attr.Hits, m.Attribute(attr.MaxHits))
	m.mustSet(attr.Mana, m.Attribute(attr.MaxMana))
	m.mustSet(attr.Fatigue, m.Attribute(attr.MaxFatigue))
}

// IsDead reports whether the mobile has no hit points left.
func (m *Mobile) IsDead() bool { return m.Attribute(attr.Hits) == 0 }

// EquipItem wears item and publishes ItemEquipped.
func (m *Mobile) EquipItem(item *Item) {
	item.SetParent(m.self)
	m.equipped = append(m.equipped, item)
	m.publish(func(obs Observer) { obs.ItemEquipped(item, m) })
}

// UnequipItem takes item off and clears its parent edge.
func (m *Mobile) UnequipItem(item *Item) {
	item.ClearParent()
	for i, it := range m.equipped {
		if it == item {
			m.equipped = append(m.equipped[:i], m.equipped[i+1:]...)
			break
		}
	}
}

// EquipmentByLayer returns the worn item on the given layer, or nil.
// One item per distinct layer is enforced by convention.
func (m *Mobile) EquipmentByLayer(layer int) *Item {
	for _, it := range m.equipped {
		if it.Layer() == layer {
			return it
		}
	}
	return nil
}

// Backpack returns the mobile's backpack container, or nil.
func (m *Mobile) Backpack() *Item {
	return m.EquipmentByLayer(content.LayerBackpack)
}

// EquippedItems returns a copy of the equipped set.
func (m *Mobile) EquippedItems() []*Item {
	res := make([]*Item, len(m.equipped))
	copy(res, m.equipped)
	return res
}

// Opponent returns the current combat opponent, or nil.
func (m *Mobile) Opponent() *Mobile { return m.opponent }

// SetOpponent changes the opponent relation and publishes it. Setting a
// non-nil opponent moves the mobile from idle to engaged; the observer
// schedules the combat rounds.
func (m *Mobile) SetOpponent(o *Mobile) {
	old := m.opponent
	m.opponent = o
	m.publish(func(obs Observer) { obs.OpponentChanged(m, o, old) })
}

// RefreshRunning reports whether a regen loop is active for this mobile.
func (m *Mobile) RefreshRunning() bool { return m.refreshRunning }

// SetRefreshRunning marks the regen loop state, preventing duplicates.
func (m *Mobile) SetRefreshRunning(running bool) { m.refreshRunning = running }

// NeedsRefresh reports whether any resource is below its maximum.
func (m *Mobile) NeedsRefresh() bool {
	return m.Attribute(attr.Hits) < m.Attribute(attr.MaxHits) ||
		m.Attribute(attr.Mana) < m.Attribute(attr.MaxMana) ||
		m.Attribute(attr.Fatigue) < m.Attribute(attr.MaxFatigue)
}

// CanRefresh reports whether the regen loop may keep running: the mobile
// exists, and a player must be online.
func (m *Mobile) CanRefresh() bool {
	if m.deleted {
		return false
	}
	if p, ok := m.self.(*Player); ok {
		return p.Online()
	}
	return true
}

// DoRefreshStep increments every below-max resource by one.
func (m *Mobile) DoRefreshStep() {
	if h := m.Attribute(attr.Hits); h < m.Attribute(attr.MaxHits) {
		m.mustSet(attr.Hits, h+1)
	}
	if mn := m.Attribute(attr.Mana); mn < m.Attribute(attr.MaxMana) {
		m.mustSet(attr.Mana, mn+1)
	}
	if f := m.Attribute(attr.Fatigue); f < m.Attribute(attr.MaxFatigue) {
		m.mustSet(attr.Fatigue, f+1)
	}
}

// CanFight reports whether the mobile may participate in a combat round:
// not deleted, and online for players.
func (m *Mobile) CanFight() bool {
	if m.deleted {
		return false
	}
	if p, ok := m.self.(*Player); ok {
		return p.Online()
	}
	return true
}

// CheckSkill performs the probabilistic skill check for the given skill.
// Below minRequired the check always fails with no gain; at or above
// maxUntilNoGain it always succeeds with no gain. In between, success is
// a linear interpolation against a uniform draw, and an independent gain
// roll may raise the skill by one, capped at the skill cap. The outcome
// roll and the learning roll are deliberately independent.
//
// Precondition: roller must be non-nil; minRequired < maxUntilNoGain.
func (m *Mobile) CheckSkill(roller *dice.Roller, skill attr.Attribute, minRequired, maxUntilNoGain int64) bool {
	value := m.Attribute(skill)
	if value < minRequired {
		return false
	}
	if value >= maxUntilNoGain {
		return true
	}

	successChance := float64(value-minRequired) / float64(maxUntilNoGain-minRequired)
	success := roller.Chance(successChance)

	var gainChance float64
	if value < fastGainThreshold && minRequired == 0 {
		gainChance = 0.5
	} else {
		gainChance = 1 - successChance
		if gainChance < minGainChance {
			gainChance = minGainChance
		}
	}
	if roller.Chance(gainChance) && m.Attribute(skill) < attr.SkillCap {
		m.mustSet(skill, value+1)
	}

	return success
}

// Kill zeroes the mobile's resources, clears its opponent, and publishes
// the death.
func (m *Mobile) Kill() {
	m.mustSet(attr.Hits, 0)
	m.mustSet(attr.Mana, 0)
	m.mustSet(attr.Fatigue, 0)
	m.SetOpponent(nil)
	m.publish(func(obs Observer) { obs.Died(m) })
}

// DealDamage subtracts damage from hit points, killing the mobile when
// they reach zero. Reports whether the mobile died.
func (m *Mobile) DealDamage(damage int64) bool {
	old := m.Attribute(attr.Hits)
	if damage >= old {
		m.Kill()
		return true
	}
	m.mustSet(attr.Hits, old-damage)
	return false
}

// CorpseGraphic returns the corpse item graphic for this mobile type.
func (m *Mobile) CorpseGraphic() int {
	if d := m.Def(); d != nil && d.CorpseGraphic != 0 {
		return d.CorpseGraphic
	}
	return content.GfxCorpseSkeleton
}

// LookingHeight returns the eye height used by line-of-sight checks.
func (m *Mobile) LookingHeight() int {
	if d := m.Def(); d != nil && d.LookingHeight != 0 {
		return d.LookingHeight
	}
	return 1
}

// HitSound picks a hit sound for this mobile type, ok=false when silent.
func (m *Mobile) HitSound(roller *dice.Roller) (int, bool) {
	return pickSound(roller, m.Def(), func(d *content.MobileDef) []int { return d.HitSounds })
}

// MissSound picks a miss sound.
func (m *Mobile) MissSound(roller *dice.Roller) (int, bool) {
	return pickSound(roller, m.Def(), func(d *content.MobileDef) []int { return d.MissSounds })
}

// PainSound picks a pain sound.
func (m *Mobile) PainSound(roller *dice.Roller) (int, bool) {
	return pickSound(roller, m.Def(), func(d *content.MobileDef) []int { return d.PainSounds })
}

// DeathSound picks a death sound.
func (m *Mobile) DeathSound(roller *dice.Roller) (int, bool) {
	return pickSound(roller, m.Def(), func(d *content.MobileDef) []int { return d.DeathSounds })
}

func pickSound(roller *dice.Roller, d *content.MobileDef, sel func(*content.MobileDef) []int) (int, bool) {
	if d == nil {
		return 0, false
	}
	sounds := sel(d)
	if len(sounds) == 0 {
		return 0, false
	}
	return roller.Pick(sounds), true
}

// FoundOrphan reattaches a worn item restored from a save.
func (m *Mobile) FoundOrphan(orphan *Item) {
	orphan.ClearParent()
	m.EquipItem(orphan)
}
