package world

import (
	"go.uber.org/zap"

	"github.com/shardmud/shard/internal/game/attr"
	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/game/geometry"
	"github.com/shardmud/shard/internal/protocol"
)

// The World is the single observer sink attached to every registered
// entity. Entities publish each mutation exactly once; these callbacks
// translate it into client messages for whoever can perceive it. They run
// synchronously inside the mutating call, with the world lock held.
var _ entity.Observer = (*World)(nil)

// interestedPlayers returns the online players whose view contains e: the
// perception anchor is e's root, since a contained or worn entity is
// where its root is. An entity that has left the registry has no
// audience; a hidden player is perceived by nobody but themselves.
func (w *World) interestedPlayers(e entity.Entity) []*entity.Player {
	if w.reg.FindObject(e.Serial()) == nil {
		return nil
	}
	if p, ok := e.(*entity.Player); ok && p.Hidden() {
		if p.Online() {
			return []*entity.Player{p}
		}
		return nil
	}
	return w.playersNear(e.Root().Location().XY(), VisibleRange)
}

// playersNear returns the online players within rng of loc.
func (w *World) playersNear(loc geometry.Point2D, rng int) []*entity.Player {
	var res []*entity.Player
	for _, p := range w.reg.AllPlayers() {
		if p.Online() && p.InRange(loc, rng) {
			res = append(res, p)
		}
	}
	return res
}

// viewers returns who sees inside a container: its owning player when it
// hangs off one, nobody at all when a non-player mobile carries it, and
// everyone nearby for a ground stack.
func (w *World) viewers(container *entity.Item) []*entity.Player {
	root := container.Root()
	if p, ok := root.(*entity.Player); ok {
		if p.Online() {
			return []*entity.Player{p}
		}
		return nil
	}
	if asMobile(root) != nil {
		return nil
	}
	return w.interestedPlayers(container)
}

// ObjectUpdated re-renders e for everyone who can perceive it.
func (w *World) ObjectUpdated(e entity.Entity) {
	if it, ok := e.(*entity.Item); ok {
		switch {
		case it.IsWorn():
			wearer := it.ParentMobile()
			for _, p := range w.interestedPlayers(it) {
				p.Send(buildEquipUpdate(it, wearer))
			}
			return
		case it.IsInContainer():
			container := it.ParentContainer()
			for _, p := range w.viewers(container) {
				p.Send(&protocol.ContainerContent{
					ContainerSerial: container.Serial(),
					Item:            buildContainerItem(it, false),
				})
			}
			return
		}
	}

	if e.Visible() {
		info := buildObjectInfo(e)
		for _, p := range w.interestedPlayers(e) {
			p.Send(info)
		}
		if it, ok := e.(*entity.Item); ok && it.LightLevel() > 0 {
			for _, p := range w.interestedPlayers(e) {
				p.Send(&protocol.ItemLight{Serial: it.Serial(), Level: it.LightLevel()})
			}
		}
		return
	}
	remove := &protocol.RemoveObject{Serial: e.Serial()}
	for _, p := range w.interestedPlayers(e) {
		if p.Serial() != e.Serial() {
			p.Send(remove)
		}
	}
}

// LocationChanged handles both steps and pure turns (old == new). A
// moving entity enters some views and leaves others; a moving player
// additionally has their whole view recomputed.
func (w *World) LocationChanged(e entity.Entity, old geometry.Point3D) {
	loc := e.Location()
	info := buildObjectInfo(e)
	remove := &protocol.RemoveObject{Serial: e.Serial()}

	for _, p := range w.reg.AllPlayers() {
		if !p.Online() || p.Serial() == e.Serial() {
			continue
		}
		sees := p.InRange(loc.XY(), VisibleRange) && e.Visible()
		saw := p.InRange(old.XY(), VisibleRange)
		switch {
		case sees:
			p.Send(info)
		case saw:
			p.Send(remove)
		}
	}

	if p, ok := e.(*entity.Player); ok && p.Online() {
		w.updatePlayerView(p, old)
	}
}

// updatePlayerView sends the mover everything entering their view, drops
// everything leaving it, and fires NPC enter-area reactions.
func (w *World) updatePlayerView(p *entity.Player, old geometry.Point3D) {
	loc := p.Location()
	for _, e := range w.reg.AllObjects() {
		if e.Serial() == p.Serial() {
			continue
		}
		entering := e.Visible() && e.InRange(loc.XY(), VisibleRange)
		leaving := e.InRange(old.XY(), VisibleRange)
		switch {
		case entering && !leaving:
			w.sendObject(p, e)
		case leaving && !entering:
			p.Send(&protocol.RemoveObject{Serial: e.Serial()})
		}

		if n, ok := e.(*entity.NPC); ok && n.BehaviorImpl() != nil {
			if n.InRange(loc.XY(), EnterAreaRange) && !n.InRange(old.XY(), EnterAreaRange) {
				if err := n.BehaviorImpl().OnEnterArea(n, p); err != nil {
					w.logger.Warn("enter-area hook failed",
						zap.Int64("npc", n.Serial()),
						zap.Error(err),
					)
				}
			}
		}
	}
}

// sendObject announces an entity to one player, including worn equipment
// for mobiles.
func (w *World) sendObject(p *entity.Player, e entity.Entity) {
	p.Send(buildObjectInfo(e))
	if m := asMobile(e); m != nil {
		for _, it := range m.EquippedItems() {
			if it.Layer() != 0 {
				p.Send(buildEquipUpdate(it, m))
			}
		}
	}
	if it, ok := e.(*entity.Item); ok && it.LightLevel() > 0 {
		p.Send(&protocol.ItemLight{Serial: it.Serial(), Level: it.LightLevel()})
	}
}

// ObjectDeleted removes e from every view and from the registry. Fired
// before the entity is marked deleted, so interest can still be computed.
func (w *World) ObjectDeleted(e entity.Entity) {
	remove := &protocol.RemoveObject{Serial: e.Serial()}
	for _, p := range w.interestedPlayers(e) {
		p.Send(remove)
	}
	w.unregister(e)
}

// ChildAdded shows the new child to everyone viewing the container.
func (w *World) ChildAdded(container *entity.Item, child *entity.Item) {
	for _, p := range w.viewers(container) {
		p.Send(&protocol.ContainerContent{
			ContainerSerial: container.Serial(),
			Item:            buildContainerItem(child, false),
		})
	}
}

// ChildRemoved drops the child from container views.
func (w *World) ChildRemoved(container *entity.Item, child *entity.Item) {
	remove := &protocol.RemoveObject{Serial: child.Serial()}
	for _, p := range w.viewers(container) {
		p.Send(remove)
	}
}

// ItemEquipped shows the worn item on its wearer.
func (w *World) ItemEquipped(item *entity.Item, wearer *entity.Mobile) {
	if item.Layer() == 0 {
		return
	}
	msg := buildEquipUpdate(item, wearer)
	for _, p := range w.interestedPlayers(wearer.Self()) {
		p.Send(msg)
	}
}

// ItemDragged hides an item that moved onto a cursor. The dragging client
// renders it there; everyone else loses sight of it.
func (w *World) ItemDragged(item *entity.Item, by *entity.Player) {
	if by == nil {
		return
	}
	remove := &protocol.RemoveObject{Serial: item.Serial()}
	for _, p := range w.interestedPlayers(item) {
		if p != by {
			p.Send(remove)
		}
	}
}

// AttributeChanged refreshes stat and skill windows and keeps the
// regeneration loop alive whenever a resource drops below its maximum.
func (w *World) AttributeChanged(m *entity.Mobile, a attr.Attribute) {
	if p, ok := m.Self().(*entity.Player); ok && p.Online() {
		if a.IsSkill() {
			p.Send(buildSkills(m, false))
		} else {
			p.Send(buildStats(m, true))
		}
	}
	if a == attr.Hits {
		ratio := buildStats(m, false)
		for _, p := range w.interestedPlayers(m.Self()) {
			if p.Serial() != m.Serial() {
				p.Send(ratio)
			}
		}
	}
	if !a.IsSkill() && m.NeedsRefresh() && !m.IsDead() {
		w.startRefresh(m)
	}
}

// OpponentChanged starts the combat loop on a fresh engagement.
func (w *World) OpponentChanged(m, opponent, old *entity.Mobile) {
	if opponent == nil || old == opponent {
		return
	}
	msg := &protocol.Fight{AttackerSerial: m.Serial(), DefenderSerial: opponent.Serial()}
	for _, p := range w.interestedPlayers(m.Self()) {
		p.Send(msg)
	}
	if old == nil {
		w.engage(m)
	}
}

// Died handles the aftermath of a kill: corpse, loot transfer, sounds,
// and the death notice.
func (w *World) Died(m *entity.Mobile) {
	w.handleDeath(m)
}
