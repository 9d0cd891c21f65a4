// Package registry indexes every live entity by serial and allocates new
// serials from the per-kind ranges.
package registry

import (
	"fmt"

	"github.com/shardmud/shard/internal/game/entity"
)

// Serial range boundaries. Mobiles count up from the bottom of the serial
// space, dynamic items occupy the middle band, and everything at or above
// the static base belongs to immutable world decoration.
const (
	FirstMobileSerial int64 = 0x00000001
	FirstItemSerial   int64 = 0x40000000
	LastItemSerial    int64 = 0x7FFFFFFF
	StaticSerialBase  int64 = 0x80000000
)

// Registry is the authoritative serial -> entity index. It is not
// internally synchronized; the world's lock covers all access.
type Registry struct {
	objects map[int64]entity.Entity
	statics map[int64]entity.Entity

	nextMobile int64
	nextItem   int64
}

// New creates an empty registry with serial counters at the range starts.
func New() *Registry {
	return &Registry{
		objects:    make(map[int64]entity.Entity),
		statics:    make(map[int64]entity.Entity),
		nextMobile: FirstMobileSerial,
		nextItem:   FirstItemSerial,
	}
}

// NextMobileSerial allocates a fresh mobile serial.
func (r *Registry) NextMobileSerial() int64 {
	s := r.nextMobile
	r.nextMobile++
	return s
}

// NextItemSerial allocates a fresh dynamic-item serial.
func (r *Registry) NextItemSerial() (int64, error) {
	if r.nextItem > LastItemSerial {
		return 0, fmt.Errorf("item serial space exhausted")
	}
	s := r.nextItem
	r.nextItem++
	return s, nil
}

// Register indexes e under its serial. Static serials land in the statics
// index instead of the dynamic one.
//
// Invariant: a serial maps to at most one entity.
func (r *Registry) Register(e entity.Entity) error {
	serial := e.Serial()
	if serial >= StaticSerialBase {
		r.statics[serial] = e
		return nil
	}
	if prev, ok := r.objects[serial]; ok && prev != e {
		return fmt.Errorf("serial %08X already registered", serial)
	}
	r.objects[serial] = e
	r.advancePast(serial)
	return nil
}

// advancePast bumps the allocation counters beyond a loaded serial so
// restored worlds never reissue an existing one.
func (r *Registry) advancePast(serial int64) {
	switch {
	case serial >= FirstItemSerial && serial <= LastItemSerial:
		if serial >= r.nextItem {
			r.nextItem = serial + 1
		}
	case serial >= FirstMobileSerial && serial < FirstItemSerial:
		if serial >= r.nextMobile {
			r.nextMobile = serial + 1
		}
	}
}

// Remove drops the entity from the index. Its serial is never reissued.
func (r *Registry) Remove(e entity.Entity) {
	serial := e.Serial()
	if serial >= StaticSerialBase {
		delete(r.statics, serial)
		return
	}
	delete(r.objects, serial)
}

// FindObject returns the dynamic or static entity with the serial, or nil.
func (r *Registry) FindObject(serial int64) entity.Entity {
	if serial >= StaticSerialBase {
		return r.statics[serial]
	}
	return r.objects[serial]
}

// FindItem returns the item with the serial, or nil when absent or not an
// item.
func (r *Registry) FindItem(serial int64) *entity.Item {
	it, _ := r.FindObject(serial).(*entity.Item)
	return it
}

// FindMobile returns the mobile with the serial, or nil. Both NPCs and
// players qualify.
func (r *Registry) FindMobile(serial int64) *entity.Mobile {
	switch m := r.FindObject(serial).(type) {
	case *entity.NPC:
		return m.AsMobile()
	case *entity.Player:
		return m.AsMobile()
	case *entity.Mobile:
		return m
	default:
		return nil
	}
}

// FindPlayer returns the player with the serial, or nil.
func (r *Registry) FindPlayer(serial int64) *entity.Player {
	p, _ := r.FindObject(serial).(*entity.Player)
	return p
}

// AllObjects returns a snapshot of every dynamic entity, in no particular
// order. Safe to iterate while mutating the registry.
func (r *Registry) AllObjects() []entity.Entity {
	res := make([]entity.Entity, 0, len(r.objects))
	for _, e := range r.objects {
		res = append(res, e)
	}
	return res
}

// AllPlayers returns every registered player, online or not.
func (r *Registry) AllPlayers() []*entity.Player {
	var res []*entity.Player
	for _, e := range r.objects {
		if p, ok := e.(*entity.Player); ok {
			res = append(res, p)
		}
	}
	return res
}

// Statics returns a snapshot of the static decoration index.
func (r *Registry) Statics() []entity.Entity {
	res := make([]entity.Entity, 0, len(r.statics))
	for _, e := range r.statics {
		res = append(res, e)
	}
	return res
}

// Size returns the number of dynamic entities.
func (r *Registry) Size() int { return len(r.objects) }
