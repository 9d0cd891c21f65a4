package entity

import "github.com/shardmud/shard/internal/game/content"

// NPC is a non-player mobile whose reactions come from a script behavior.
type NPC struct {
	Mobile

	behavior string
	impl     MobileBehavior
}

// NewNPC creates an unregistered NPC.
//
// Precondition: defs must be non-nil.
func NewNPC(serial int64, graphic int, defs *content.Table) *NPC {
	n := &NPC{}
	n.defs = defs
	n.initMobile(n, serial, graphic)
	return n
}

// Behavior returns the script behavior tag.
func (n *NPC) Behavior() string { return n.behavior }

// SetBehavior assigns the behavior tag and its resolved implementation.
func (n *NPC) SetBehavior(name string, impl MobileBehavior) {
	n.behavior = name
	n.impl = impl
}

// BehaviorImpl returns the cached behavior implementation, or nil.
func (n *NPC) BehaviorImpl() MobileBehavior { return n.impl }

// DecoratedName is the name shown on a single click.
func (n *NPC) DecoratedName() string { return n.name }
