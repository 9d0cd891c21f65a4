package entity

// ItemBehavior is the capability set a behavior tag resolves to for items.
// Implementations come from the scripting layer and are resolved once at
// creation or load time, then cached on the item.
//
// Hook errors are caught by the caller, logged, and treated as no-ops;
// they must never crash the world.
type ItemBehavior interface {
	OnCreate(it *Item) error
	OnLoad(it *Item) error
	OnUse(user *Player, it *Item) error
	OnBehaviorChange(it *Item) error
}

// MobileBehavior is the capability set a behavior tag resolves to for
// non-player mobiles.
type MobileBehavior interface {
	OnLoad(n *NPC) error
	OnSpeech(n *NPC, src *Player, text string) error
	OnHello(n *NPC, src *Player) error
	OnEnterArea(n *NPC, who *Player) error
	// OnDoubleClick reports whether the default action (opening the
	// paperdoll) should proceed.
	OnDoubleClick(n *NPC, who *Player) (bool, error)
}
