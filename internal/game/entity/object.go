package entity

import (
	"github.com/shardmud/shard/internal/game/geometry"
)

// maxParentDepth bounds the root-ancestor walk. Containment cannot form a
// cycle by construction, but a corrupted save must not hang the world.
const maxParentDepth = 64

// Entity is any uniquely identified simulated object: an Item, a Mobile,
// or a Player.
type Entity interface {
	Serial() int64
	Location() geometry.Point3D
	SetLocation(geometry.Point3D)
	Graphic() int
	Hue() int
	Name() string
	SetName(string)
	Deleted() bool
	Hidden() bool
	// Visible reports whether the entity can currently be perceived:
	// not deleted, not hidden, and for items not mid-drag, for players
	// online.
	Visible() bool
	Parent() Entity
	SetParent(Entity)
	ClearParent()
	RememberParent()
	RestoreParent()
	Root() Entity
	Distance(geometry.Point2D) int
	InRange(geometry.Point2D, int) bool
	// Delete notifies the observer, marks the entity deleted, and clears
	// ownership edges. In-flight handlers must check Deleted before
	// further mutation.
	Delete()
	// FoundOrphan reattaches a child restored from a save: container add
	// for items, equip for mobiles.
	FoundOrphan(orphan *Item)
	AttachObserver(Observer)
	DetachObserver()
}

// Object is the shared state of every entity. Concrete types embed it and
// set self so published callbacks carry the derived type.
type Object struct {
	serial   int64
	location geometry.Point3D
	graphic  int
	hue      int
	name     string
	hidden   bool
	deleted  bool

	parent       Entity
	backupParent Entity

	observer Observer
	self     Entity
}

func (o *Object) init(self Entity, serial int64, graphic int) {
	o.self = self
	o.serial = serial
	o.graphic = graphic
}

// publish invokes f against the attached observer, if any.
func (o *Object) publish(f func(Observer)) {
	if o.observer != nil {
		f(o.observer)
	}
}

// AttachObserver sets the observer sink receiving this entity's mutations.
// The world attaches itself to every entity at registration time.
func (o *Object) AttachObserver(obs Observer) { o.observer = obs }

// DetachObserver removes the observer sink.
func (o *Object) DetachObserver() { o.observer = nil }

// Serial returns the permanent unique identifier.
//
// Invariant: a serial never changes and is never reused while the entity
// is reachable from the registry.
func (o *Object) Serial() int64 { return o.serial }

func (o *Object) Graphic() int { return o.graphic }

// SetGraphic changes the appearance code. Concrete types shadow this when
// a graphic change also re-derives static properties.
func (o *Object) SetGraphic(graphic int) {
	o.graphic = graphic
	o.publish(func(obs Observer) { obs.ObjectUpdated(o.self) })
}

func (o *Object) Hue() int { return o.hue }

// SetHue changes the color tint.
func (o *Object) SetHue(hue int) {
	o.hue = hue
	o.publish(func(obs Observer) { obs.ObjectUpdated(o.self) })
}

func (o *Object) Name() string        { return o.name }
func (o *Object) SetName(name string) { o.name = name }

func (o *Object) Location() geometry.Point3D { return o.location }

// SetLocation moves the entity and publishes the old location.
func (o *Object) SetLocation(p geometry.Point3D) {
	old := o.location
	o.location = p
	o.publish(func(obs Observer) { obs.LocationChanged(o.self, old) })
}

// setLocationQuiet updates the location without notifying. Used for
// container offsets where the child never moves in world space.
func (o *Object) setLocationQuiet(p geometry.Point3D) { o.location = p }

func (o *Object) Deleted() bool { return o.deleted }
func (o *Object) Hidden() bool  { return o.hidden }

// Visible reports whether the entity is neither deleted nor hidden.
func (o *Object) Visible() bool { return !o.deleted && !o.hidden }

// SetHidden toggles the hidden flag. Hidden is distinct from deleted: a
// hidden entity still exists and can be revealed.
func (o *Object) SetHidden(hidden bool) {
	o.hidden = hidden
	o.publish(func(obs Observer) { obs.ObjectUpdated(o.self) })
}

// Delete notifies the observer first so it can clean up references, then
// marks the entity deleted and severs ownership edges.
func (o *Object) Delete() {
	o.publish(func(obs Observer) { obs.ObjectDeleted(o.self) })
	o.deleted = true
	o.parent = nil
	o.backupParent = nil
}

func (o *Object) Parent() Entity { return o.parent }

// SetParent rewires the ownership edge. Low-level: callers are responsible
// for the matching container/equipment bookkeeping.
func (o *Object) SetParent(p Entity) { o.parent = p }

func (o *Object) ClearParent() { o.parent = nil }

// RememberParent snapshots the current parent edge for a later
// RestoreParent, the transactional half of drag/cancel.
func (o *Object) RememberParent() { o.backupParent = o.parent }

// RestoreParent reinstates the snapshotted parent edge.
func (o *Object) RestoreParent() { o.parent = o.backupParent }

// Root returns the topmost entity reachable by following parent edges.
// The walk is depth-bounded; a cycle would indicate a corrupted graph and
// returns the last node reached.
func (o *Object) Root() Entity {
	var prev Entity = o.self
	iter := o.parent
	for depth := 0; iter != nil && depth < maxParentDepth; depth++ {
		prev = iter
		iter = iter.Parent()
	}
	return prev
}

// Distance returns the Chebyshev distance to p.
func (o *Object) Distance(p geometry.Point2D) int { return o.location.Distance(p) }

// InRange reports whether p is within rng of the entity's location.
func (o *Object) InRange(p geometry.Point2D, rng int) bool { return o.location.InRange(p, rng) }

// DistanceTo returns the Chebyshev distance to another entity.
func (o *Object) DistanceTo(other Entity) int {
	return o.location.Distance(other.Location().XY())
}
