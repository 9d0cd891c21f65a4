// Package entity implements the simulation object model: the shared
// Object base, Items with containment, Mobiles with attributes and
// equipment, and Players bound to live connections.
//
// Entities are not safe for concurrent use on their own; every mutation
// must happen under the world lock. Mutators first apply the change, then
// synchronously publish it to the attached Observer, so an observer
// reading the entity mid-callback always sees the new state.
package entity

import (
	"github.com/shardmud/shard/internal/game/attr"
	"github.com/shardmud/shard/internal/game/geometry"
)

// Observer receives every externally visible entity mutation, grouped by
// category. The world is the sole production implementation; it translates
// callbacks into per-player outbound messages. Entities stay ignorant of
// networking.
type Observer interface {
	// ObjectUpdated fires for generic appearance changes: graphic, hue,
	// amount, hair, visibility, online state.
	ObjectUpdated(e Entity)
	// LocationChanged fires after an entity moved; old is the previous
	// location.
	LocationChanged(e Entity, old geometry.Point3D)
	// ObjectDeleted fires at the start of deletion, before the deleted
	// flag is set, so the observer can clean up references.
	ObjectDeleted(e Entity)
	// ChildAdded fires after child was placed into container.
	ChildAdded(container, child *Item)
	// ChildRemoved fires after child left container.
	ChildRemoved(container, child *Item)
	// ItemEquipped fires after wearer put on item.
	ItemEquipped(item *Item, wearer *Mobile)
	// ItemDragged fires when a player picks up an item, before the item
	// leaves its parent.
	ItemDragged(item *Item, by *Player)
	// AttributeChanged fires after a mobile attribute write.
	AttributeChanged(m *Mobile, a attr.Attribute)
	// OpponentChanged fires after a mobile's opponent relation changed.
	OpponentChanged(m *Mobile, opponent, old *Mobile)
	// Died fires when a mobile's hit points reach zero.
	Died(m *Mobile)
}
