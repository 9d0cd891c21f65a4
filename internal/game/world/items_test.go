package world_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shardmud/shard/internal/game/content"
	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/game/geometry"
	"github.com/shardmud/shard/internal/protocol"
)

func TestDragDropOnGround(t *testing.T) {
	w := newTestWorld(t)
	p, conn := createCharacter(t, w, "Finn")

	gold, err := w.CreateItemAt(p.Location(), content.GfxGold, "")
	require.NoError(t, err)
	conn.reset()

	w.Drag(p, &protocol.DragRequest{Serial: gold.Serial()})
	assert.Equal(t, p, gold.DraggingPlayer())

	dest := p.Location()
	dest.X += 2
	w.Drop(p, &protocol.DropRequest{Serial: gold.Serial(), Location: dest})

	assert.Nil(t, gold.DraggingPlayer())
	assert.Nil(t, gold.Parent())
	assert.Equal(t, dest, gold.Location())
	assert.Empty(t, conn.ofKind("cancel_drag"))
}

func TestDragHidesItemFromBystanders(t *testing.T) {
	w := newTestWorld(t)
	p, _ := createCharacter(t, w, "Finn")
	_, otherConn := createCharacter(t, w, "Lotte")

	gold, err := w.CreateItemAt(p.Location(), content.GfxGold, "")
	require.NoError(t, err)
	otherConn.reset()

	w.Drag(p, &protocol.DragRequest{Serial: gold.Serial()})

	removes := otherConn.ofKind("remove_object")
	require.NotEmpty(t, removes)
	assert.Equal(t, gold.Serial(), removes[0].(*protocol.RemoveObject).Serial)
}

func TestDragUnknownItem(t *testing.T) {
	w := newTestWorld(t)
	p, conn := createCharacter(t, w, "Finn")

	w.Drag(p, &protocol.DragRequest{Serial: 0x40FFFFFF})

	assert.Len(t, conn.ofKind("cancel_drag"), 1)
}

func TestDragOutOfReach(t *testing.T) {
	w := newTestWorld(t)
	p, conn := createCharacter(t, w, "Finn")

	loc := p.Location()
	loc.X += 13
	gold, err := w.CreateItemAt(loc, content.GfxGold, "")
	require.NoError(t, err)
	conn.reset()

	w.Drag(p, &protocol.DragRequest{Serial: gold.Serial()})

	assert.Nil(t, gold.DraggingPlayer())
	assert.Len(t, conn.ofKind("cancel_drag"), 1)
	assert.NotEmpty(t, conn.sysmsgs())
}

func TestDragContested(t *testing.T) {
	w := newTestWorld(t)
	p1, _ := createCharacter(t, w, "Finn")
	p2, conn2 := createCharacter(t, w, "Lotte")

	gold, err := w.CreateItemAt(p1.Location(), content.GfxGold, "")
	require.NoError(t, err)
	w.Drag(p1, &protocol.DragRequest{Serial: gold.Serial()})
	conn2.reset()

	w.Drag(p2, &protocol.DragRequest{Serial: gold.Serial()})

	assert.Equal(t, p1, gold.DraggingPlayer(), "the first drag must win")
	assert.Len(t, conn2.ofKind("cancel_drag"), 1)
	assert.Contains(t, conn2.sysmsgs(), "Someone else is already moving that.")
}

func TestDragSplitsStack(t *testing.T) {
	w := newTestWorld(t)
	p, conn := createCharacter(t, w, "Finn")

	gold, err := w.CreateItemAt(p.Location(), content.GfxGold, "")
	require.NoError(t, err)
	gold.SetAmount(100)
	conn.reset()

	w.Drag(p, &protocol.DragRequest{Serial: gold.Serial(), Amount: 30})

	// The cursor carries the original serial; the remainder is a fresh
	// pile left where the stack was, announcing itself on the ground.
	assert.Equal(t, p, gold.DraggingPlayer())
	assert.Equal(t, 30, gold.Amount())

	var restSerial int64
	for _, m := range conn.ofKind("object_info") {
		if info := m.(*protocol.ObjectInfo); info.Serial != gold.Serial() {
			restSerial = info.Serial
		}
	}
	require.NotZero(t, restSerial)

	rest := w.FindObject(restSerial).(*entity.Item)
	assert.Equal(t, 70, rest.Amount())
	assert.Nil(t, rest.Parent())
	assert.Nil(t, rest.DraggingPlayer(), "the remainder stays put")

	backpack := p.Backpack()
	w.Drop(p, &protocol.DropRequest{Serial: gold.Serial(), Target: backpack.Serial()})

	assert.Equal(t, backpack, gold.ParentContainer())
	assert.Equal(t, rest.Amount()+backpack.AmountByType(content.GfxGold), 200,
		"splitting must conserve units")
}

func TestDropTooFarRestoresDrag(t *testing.T) {
	w := newTestWorld(t)
	p, conn := createCharacter(t, w, "Finn")
	backpack := p.Backpack()
	dagger := backpack.FindChildByType(content.GfxDagger)
	require.NotNil(t, dagger)

	w.Drag(p, &protocol.DragRequest{Serial: dagger.Serial()})
	conn.reset()

	dest := p.Location()
	dest.X += 4
	w.Drop(p, &protocol.DropRequest{Serial: dagger.Serial(), Location: dest})

	assert.Len(t, conn.ofKind("cancel_drag"), 1)
	assert.Equal(t, backpack, dagger.ParentContainer(), "the dagger must return to the backpack")
	assert.Nil(t, dagger.DraggingPlayer())
}

func TestDropMergesStacks(t *testing.T) {
	w := newTestWorld(t)
	p, _ := createCharacter(t, w, "Finn")
	backpack := p.Backpack()
	pocketGold := backpack.FindChildByType(content.GfxGold)
	require.NotNil(t, pocketGold)

	loose, err := w.CreateItemAt(p.Location(), content.GfxGold, "")
	require.NoError(t, err)
	loose.SetAmount(25)

	w.Drag(p, &protocol.DragRequest{Serial: loose.Serial()})
	w.Drop(p, &protocol.DropRequest{Serial: loose.Serial(), Target: pocketGold.Serial()})

	assert.Equal(t, 125, pocketGold.Amount())
	assert.True(t, loose.Deleted())
	assert.Nil(t, w.FindObject(loose.Serial()))
}

func TestDropIntoContainer(t *testing.T) {
	w := newTestWorld(t)
	p, _ := createCharacter(t, w, "Finn")
	backpack := p.Backpack()

	bread, err := w.CreateItemAt(p.Location(), content.GfxBread, "")
	require.NoError(t, err)

	w.Drag(p, &protocol.DragRequest{Serial: bread.Serial()})
	w.Drop(p, &protocol.DropRequest{Serial: bread.Serial(), Target: backpack.Serial()})

	assert.Equal(t, backpack, bread.ParentContainer())
	assert.Nil(t, bread.DraggingPlayer())
}

func TestDropRequiresOwnDrag(t *testing.T) {
	w := newTestWorld(t)
	p1, _ := createCharacter(t, w, "Finn")
	p2, conn2 := createCharacter(t, w, "Lotte")

	gold, err := w.CreateItemAt(p1.Location(), content.GfxGold, "")
	require.NoError(t, err)
	w.Drag(p1, &protocol.DragRequest{Serial: gold.Serial()})
	conn2.reset()

	w.Drop(p2, &protocol.DropRequest{Serial: gold.Serial(), Location: p2.Location()})

	assert.Equal(t, p1, gold.DraggingPlayer(), "a foreign drop must not steal the drag")
	assert.Len(t, conn2.ofKind("cancel_drag"), 1)
}

func TestEquipFromBackpack(t *testing.T) {
	w := newTestWorld(t)
	p, _ := createCharacter(t, w, "Finn")
	dagger := p.Backpack().FindChildByType(content.GfxDagger)
	require.NotNil(t, dagger)

	w.Drag(p, &protocol.DragRequest{Serial: dagger.Serial()})
	w.Equip(p, &protocol.EquipRequest{ItemSerial: dagger.Serial(), MobileSerial: p.Serial()})

	assert.Equal(t, dagger, p.AsMobile().EquipmentByLayer(content.LayerWeapon))
	assert.Nil(t, dagger.ParentContainer())
}

func TestEquipLayerConflict(t *testing.T) {
	w := newTestWorld(t)
	p, conn := createCharacter(t, w, "Finn")
	backpack := p.Backpack()
	worn := p.AsMobile().EquipmentByLayer(content.LayerShirt)
	require.NotNil(t, worn)

	spare, err := w.CreateItemIn(backpack, content.GfxTunic, 1, "")
	require.NoError(t, err)

	w.Drag(p, &protocol.DragRequest{Serial: spare.Serial()})
	conn.reset()
	w.Equip(p, &protocol.EquipRequest{ItemSerial: spare.Serial(), MobileSerial: p.Serial()})

	assert.Contains(t, conn.sysmsgs(), "You are already wearing something there.")
	assert.Len(t, conn.ofKind("cancel_drag"), 1)
	assert.Equal(t, worn, p.AsMobile().EquipmentByLayer(content.LayerShirt))
	assert.Equal(t, backpack, spare.ParentContainer(), "the spare tunic must return to the backpack")
}

func TestEquipOnForeignMobile(t *testing.T) {
	w := newTestWorld(t)
	p, conn := createCharacter(t, w, "Finn")
	other, _ := createCharacter(t, w, "Lotte")
	dagger := p.Backpack().FindChildByType(content.GfxDagger)
	require.NotNil(t, dagger)

	w.Drag(p, &protocol.DragRequest{Serial: dagger.Serial()})
	conn.reset()
	w.Equip(p, &protocol.EquipRequest{ItemSerial: dagger.Serial(), MobileSerial: other.Serial()})

	assert.Len(t, conn.ofKind("cancel_drag"), 1)
	assert.Nil(t, other.AsMobile().EquipmentByLayer(content.LayerWeapon))
	assert.Equal(t, p.Backpack(), dagger.ParentContainer())
}

func TestDropOnGroundSnapsToTerrain(t *testing.T) {
	w := newTestWorld(t)
	p, _ := createCharacter(t, w, "Finn")

	bread, err := w.CreateItemAt(p.Location(), content.GfxBread, "")
	require.NoError(t, err)

	w.Drag(p, &protocol.DragRequest{Serial: bread.Serial()})
	dest := geometry.Point3D{X: p.Location().X + 1, Y: p.Location().Y, Z: 40}
	w.Drop(p, &protocol.DropRequest{Serial: bread.Serial(), Location: dest})

	assert.Zero(t, bread.Location().Z, "a flat map pins dropped items to elevation zero")
}
