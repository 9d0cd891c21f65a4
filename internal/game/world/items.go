package world

import (
	"go.uber.org/zap"

	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/protocol"
)

// dropRange is how far from themselves a player may drop onto the ground.
const dropRange = 3

// Drag picks up an item, or part of a stack, onto the player's cursor.
// The item's previous parent edge is snapshotted first so a failed drop
// can restore it exactly.
func (w *World) Drag(p *entity.Player, req *protocol.DragRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	it := w.reg.FindItem(req.Serial)
	if it == nil {
		p.Send(&protocol.CancelDrag{})
		return
	}
	if ok, refusal := p.TryAccess(it); !ok {
		p.SendSysmsg(refusal)
		p.Send(&protocol.CancelDrag{})
		return
	}
	if other := it.DraggingPlayer(); other != nil && other != p {
		p.SendSysmsg("Someone else is already moving that.")
		p.Send(&protocol.CancelDrag{})
		return
	}

	if it.IsStackable() && req.Amount > 0 && req.Amount < it.Amount() {
		if err := w.splitStack(it, req.Amount); err != nil {
			w.logger.Error("splitting stack", zap.Int64("item", it.Serial()), zap.Error(err))
			p.Send(&protocol.CancelDrag{})
			return
		}
	}

	it.RememberParent()
	if container := it.ParentContainer(); container != nil {
		container.RemoveChild(it)
	} else if wearer := it.ParentMobile(); wearer != nil {
		wearer.UnequipItem(it)
	}
	it.SetDragged(p)
	p.SetDragAmount(req.Amount)
}

// splitStack reduces it to the amount carried off on the cursor; the
// remainder becomes a fresh pile left where the stack was. The cursor
// keeps the original serial, and unit counts are conserved.
func (w *World) splitStack(it *entity.Item, amount int) error {
	serial, err := w.reg.NextItemSerial()
	if err != nil {
		return err
	}
	rest := it.CreateCopy(serial)
	if err := w.register(rest); err != nil {
		return err
	}
	if container := it.ParentContainer(); container != nil {
		container.AddChild(rest, it.Location().XY())
	} else {
		rest.SetLocation(it.Location())
	}
	rest.SetAmount(it.Amount() - amount)
	it.SetAmount(amount)
	return nil
}

// Drop releases the dragged item onto the ground or onto another item.
// Any rejected placement restores the snapshot taken at drag time.
func (w *World) Drop(p *entity.Player, req *protocol.DropRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	it := w.reg.FindItem(req.Serial)
	if it == nil || it.DraggingPlayer() != p {
		p.Send(&protocol.CancelDrag{})
		return
	}

	if req.Target == 0 {
		w.dropOnGround(p, it, req)
		return
	}
	w.dropOnItem(p, it, req)
}

func (w *World) dropOnGround(p *entity.Player, it *entity.Item, req *protocol.DropRequest) {
	loc := req.Location
	if !p.InRange(loc.XY(), dropRange) {
		w.cancelDrag(p, it)
		return
	}
	if z, ok := w.terrain.ElevationAt(loc.XY()); ok {
		loc.Z = z
	}
	it.Dropped()
	it.ClearParent()
	it.SetLocation(loc)
}

func (w *World) dropOnItem(p *entity.Player, it *entity.Item, req *protocol.DropRequest) {
	target := w.reg.FindItem(req.Target)
	if target == nil || target == it {
		w.cancelDrag(p, it)
		return
	}
	if ok, refusal := p.TryAccess(target); !ok {
		p.SendSysmsg(refusal)
		w.cancelDrag(p, it)
		return
	}

	// Dropping onto a matching stack merges, conserving units.
	if target.IsStackable() && target.Graphic() == it.Graphic() && target.Hue() == it.Hue() {
		target.SetAmount(target.Amount() + it.Amount())
		it.Dropped()
		it.ClearParent()
		it.Delete()
		return
	}

	if target.IsContainer() && target.AcceptsChild(it) {
		it.Dropped()
		it.ClearParent()
		target.AddChild(it, req.Location.XY())
		return
	}

	w.cancelDrag(p, it)
}

// Equip drops the dragged item onto a mobile's paperdoll.
func (w *World) Equip(p *entity.Player, req *protocol.EquipRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	it := w.reg.FindItem(req.ItemSerial)
	if it == nil || it.DraggingPlayer() != p {
		p.Send(&protocol.CancelDrag{})
		return
	}
	wearer := w.reg.FindMobile(req.MobileSerial)
	if wearer == nil || wearer.Serial() != p.Serial() || !it.IsWearable() {
		w.cancelDrag(p, it)
		return
	}
	if wearer.EquipmentByLayer(it.Layer()) != nil {
		p.SendSysmsg("You are already wearing something there.")
		w.cancelDrag(p, it)
		return
	}

	it.Dropped()
	it.ClearParent()
	wearer.EquipItem(it)
}

// cancelDrag aborts a drag: the snapshotted parent edge is restored, the
// item returns where it came from, and the client drops its cursor.
func (w *World) cancelDrag(p *entity.Player, it *entity.Item) {
	it.RestoreParent()
	it.Dropped()

	switch {
	case it.ParentContainer() != nil:
		container := it.ParentContainer()
		it.ClearParent()
		container.AddChild(it, it.Location().XY())
	case it.ParentMobile() != nil:
		wearer := it.ParentMobile()
		it.ClearParent()
		wearer.EquipItem(it)
	default:
		// Back onto the ground where it was.
		it.SetLocation(it.Location())
	}
	p.Send(&protocol.CancelDrag{})
	p.SetDragAmount(0)
}
