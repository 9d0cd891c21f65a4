package entity

import (
	"github.com/shardmud/shard/internal/game/content"
	"github.com/shardmud/shard/internal/game/geometry"
	"github.com/shardmud/shard/internal/game/magic"
)

// defaultContainerOffset is where a child lands when the client supplies
// no in-container position.
var defaultContainerOffset = geometry.Point2D{X: 50, Y: 50}

// Item is an entity that may live on the ground, inside a container, or
// worn by a mobile.
//
// Invariant: exactly one of OnGround, IsWorn, IsInContainer holds at any
// time, determined by the parent edge's dynamic type.
type Item struct {
	Object

	defs *content.Table

	amount     int
	price      int
	weight     int
	height     int
	layer      int
	lightLevel int
	gump       int
	container  bool
	wearable   bool
	stackable  bool

	children  []*Item
	draggedBy *Player

	behavior string
	impl     ItemBehavior
}

// NewItem creates an unregistered item with static properties derived
// from the definition table.
//
// Precondition: defs must be non-nil.
func NewItem(serial int64, graphic int, defs *content.Table) *Item {
	it := &Item{defs: defs, amount: 1}
	it.init(it, serial, graphic)
	it.applyDef()
	return it
}

// applyDef re-derives the static tile properties from the current graphic.
func (it *Item) applyDef() {
	d := it.defs.Item(it.graphic)
	if d == nil {
		return
	}
	it.name = d.Name
	it.weight = d.Weight
	it.price = d.Price
	it.height = d.Height
	it.layer = d.Layer
	it.lightLevel = d.LightLevel
	it.gump = d.Gump
	it.container = d.Container
	it.wearable = d.Wearable
	it.stackable = d.Stackable
}

// SetGraphic changes the appearance and re-derives static properties.
func (it *Item) SetGraphic(graphic int) {
	it.Object.SetGraphic(graphic)
	it.applyDef()
}

// Visible additionally hides items mid-drag: the dragging player's client
// renders the item on the cursor instead.
func (it *Item) Visible() bool {
	return it.Object.Visible() && it.draggedBy == nil
}

// Delete removes all children first, detaches from the parent, then
// deletes the item itself.
func (it *Item) Delete() {
	for _, child := range it.Children() {
		child.Delete()
	}
	it.children = nil
	switch parent := it.parent.(type) {
	case *Item:
		parent.RemoveChild(it)
	case mobileEntity:
		parent.AsMobile().UnequipItem(it)
	}
	it.Object.Delete()
}

// OnGround reports whether the item lies in the world.
func (it *Item) OnGround() bool { return it.parent == nil && !it.deleted }

// IsWorn reports whether the item is equipped by a mobile.
func (it *Item) IsWorn() bool {
	_, ok := it.parent.(mobileEntity)
	return ok
}

// IsInContainer reports whether the item rests inside another item.
func (it *Item) IsInContainer() bool {
	_, ok := it.parent.(*Item)
	return ok
}

// mobileEntity matches both *Mobile-derived parents (NPCs and players).
type mobileEntity interface {
	Entity
	AsMobile() *Mobile
}

// ParentMobile returns the wearing mobile, or nil.
func (it *Item) ParentMobile() *Mobile {
	if m, ok := it.parent.(mobileEntity); ok {
		return m.AsMobile()
	}
	return nil
}

// ParentContainer returns the containing item, or nil.
func (it *Item) ParentContainer() *Item {
	c, _ := it.parent.(*Item)
	return c
}

func (it *Item) Amount() int { return it.amount }

// SetAmount changes the stack size and publishes an update.
//
// Precondition: amount >= 0.
func (it *Item) SetAmount(amount int) {
	it.amount = amount
	it.publish(func(obs Observer) { obs.ObjectUpdated(it) })
}

func (it *Item) Price() int      { return it.price }
func (it *Item) Weight() int     { return it.weight }
func (it *Item) Height() int     { return it.height }
func (it *Item) LightLevel() int { return it.lightLevel }

// SetLightLevel changes the emitted light and publishes an update.
func (it *Item) SetLightLevel(level int) {
	it.lightLevel = level
	it.publish(func(obs Observer) { obs.ObjectUpdated(it) })
}

// Layer returns the equip slot. Shop stock containers always map to the
// shop layer regardless of tile data.
func (it *Item) Layer() int {
	if it.graphic == content.GfxShopContainer {
		return content.LayerShop
	}
	return it.layer
}

func (it *Item) GumpID() int       { return it.gump }
func (it *Item) IsContainer() bool { return it.container }
func (it *Item) IsWearable() bool  { return it.wearable }
func (it *Item) IsStackable() bool { return it.stackable }

// Behavior returns the script behavior tag, empty for plain items.
func (it *Item) Behavior() string { return it.behavior }

// SetBehavior assigns the behavior tag and its resolved implementation.
// The implementation is cached so hooks never re-resolve by name.
func (it *Item) SetBehavior(name string, impl ItemBehavior) {
	it.behavior = name
	it.impl = impl
}

// BehaviorImpl returns the cached behavior implementation, or nil.
func (it *Item) BehaviorImpl() ItemBehavior { return it.impl }

// Children returns a copy of the child list; mutating it has no effect.
func (it *Item) Children() []*Item {
	res := make([]*Item, len(it.children))
	copy(res, it.children)
	return res
}

// AddChild places child into this container at the given 2D offset and
// publishes ChildAdded.
//
// Precondition: the caller has already detached child from any previous
// parent.
func (it *Item) AddChild(child *Item, at geometry.Point2D) {
	child.SetParent(it)
	if at.X == 0 && at.Y == 0 {
		at = defaultContainerOffset
	}
	// Spellbooks display scrolls by spell index, carried in the amount.
	if it.graphic == content.GfxSpellbook {
		if sp, ok := magic.FromScrollGraphic(child.Graphic()); ok {
			child.amount = int(sp)
		}
	}
	child.setLocationQuiet(geometry.Point3D{X: at.X, Y: at.Y})
	it.children = append(it.children, child)
	it.publish(func(obs Observer) { obs.ChildAdded(it, child) })
}

// RemoveChild detaches child from the container's list and publishes
// ChildRemoved. The child's parent edge is left for the caller, matching
// the drag protocol where the edge was snapshotted first.
func (it *Item) RemoveChild(child *Item) {
	for i, c := range it.children {
		if c == child {
			it.children = append(it.children[:i], it.children[i+1:]...)
			break
		}
	}
	it.publish(func(obs Observer) { obs.ChildRemoved(it, child) })
}

// ChildAt returns the child at the exact 2D offset, or nil.
func (it *Item) ChildAt(at geometry.Point2D) *Item {
	for _, c := range it.children {
		if c.location.X == at.X && c.location.Y == at.Y {
			return c
		}
	}
	return nil
}

// FindChildByType returns the first direct child with the given graphic.
func (it *Item) FindChildByType(graphic int) *Item {
	for _, c := range it.children {
		if c.graphic == graphic {
			return c
		}
	}
	return nil
}

// AmountByType sums the amounts of all children (recursively) with the
// given graphic.
func (it *Item) AmountByType(graphic int) int {
	total := 0
	for _, c := range it.children {
		if c.graphic == graphic {
			total += c.amount
		}
		if c.IsContainer() {
			total += c.AmountByType(graphic)
		}
	}
	return total
}

// Consume removes count units from the stack, deleting the item when the
// stack is exhausted.
//
/// Precondition: count <= Amount().
func (it *Item) Consume(count int) {
	switch {
	case it.amount > count:
		it.SetAmount(it.amount - count)
	case it.amount == count:
		it.Delete()
	}
}

// ConsumeByType removes count units of the given graphic from this
// container tree. Reports whether the full count was available.
func (it *Item) ConsumeByType(graphic, count int) bool {
	if it.AmountByType(graphic) < count {
		return false
	}
	for _, c := range it.Children() {
		if count == 0 {
			break
		}
		if c.graphic == graphic {
			n := c.amount
			if n > count {
				n = count
			}
			c.Consume(n)
			count -= n
			continue
		}
		if c.IsContainer() {
			av := c.AmountByType(graphic)
			if av > count {
				av = count
			}
			if av > 0 {
				c.ConsumeByType(graphic, av)
				count -= av
			}
		}
	}
	return count == 0
}

// AcceptsChild reports whether the container is willing to hold item.
// Spellbooks only accept spell scrolls.
func (it *Item) AcceptsChild(item *Item) bool {
	if it.graphic == content.GfxSpellbook {
		_, ok := magic.FromScrollGraphic(item.Graphic())
		return ok
	}
	return true
}

// SetDragged marks the item as picked up by who and publishes ItemDragged.
func (it *Item) SetDragged(who *Player) {
	it.draggedBy = who
	it.publish(func(obs Observer) { obs.ItemDragged(it, who) })
}

// DraggingPlayer returns the player currently dragging the item, or nil.
func (it *Item) DraggingPlayer() *Player { return it.draggedBy }

// Dropped clears the drag marker. The subsequent placement (ground,
// container, equip) publishes its own notification.
func (it *Item) Dropped() { it.draggedBy = nil }

// CreateCopy duplicates the item under a new serial: same graphic,
// appearance, amount, and behavior. Children are not copied.
func (it *Item) CreateCopy(serial int64) *Item {
	res := NewItem(serial, it.graphic, it.defs)
	res.weight = it.weight
	res.amount = it.amount
	res.hue = it.hue
	res.name = it.name
	res.location = it.location
	res.behavior = it.behavior
	res.impl = it.impl
	return res
}

// FoundOrphan reattaches a contained child restored from a save.
func (it *Item) FoundOrphan(orphan *Item) {
	orphan.ClearParent()
	it.AddChild(orphan, orphan.Location().XY())
}
