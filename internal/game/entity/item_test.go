package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/shardmud/shard/internal/game/content"
	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/game/geometry"
	"github.com/shardmud/shard/internal/game/magic"
)

var testDefs = content.NewTable()

func newGold(serial int64, amount int) *entity.Item {
	it := entity.NewItem(serial, content.GfxGold, testDefs)
	it.SetAmount(amount)
	return it
}

func TestItemAppliesDefinition(t *testing.T) {
	it := entity.NewItem(1, content.GfxBackpack, testDefs)
	assert.Equal(t, "backpack", it.Name())
	assert.True(t, it.IsContainer())
	assert.True(t, it.IsWearable())
	assert.Equal(t, content.LayerBackpack, it.Layer())

	gold := newGold(2, 5)
	assert.True(t, gold.IsStackable())
	assert.Equal(t, 5, gold.Amount())
}

func TestItemGroundAndContainment(t *testing.T) {
	pack := entity.NewItem(1, content.GfxBackpack, testDefs)
	dagger := entity.NewItem(2, content.GfxDagger, testDefs)

	assert.True(t, dagger.OnGround())
	pack.AddChild(dagger, geometry.Point2D{X: 3, Y: 4})

	assert.False(t, dagger.OnGround())
	assert.True(t, dagger.IsInContainer())
	assert.Equal(t, pack, dagger.ParentContainer())
	assert.Equal(t, dagger, pack.ChildAt(geometry.Point2D{X: 3, Y: 4}))
	assert.Equal(t, dagger, pack.FindChildByType(content.GfxDagger))

	pack.RemoveChild(dagger)
	dagger.ClearParent()
	assert.True(t, dagger.OnGround())
	assert.Nil(t, pack.FindChildByType(content.GfxDagger))
}

func TestAmountByTypeRecursive(t *testing.T) {
	pack := entity.NewItem(1, content.GfxBackpack, testDefs)
	pouch := entity.NewItem(2, content.GfxBackpack, testDefs)

	pack.AddChild(newGold(3, 40), geometry.Point2D{X: 1, Y: 1})
	pouch.AddChild(newGold(4, 60), geometry.Point2D{X: 1, Y: 1})
	pack.AddChild(pouch, geometry.Point2D{X: 2, Y: 2})

	assert.Equal(t, 100, pack.AmountByType(content.GfxGold))
	assert.Equal(t, 0, pack.AmountByType(content.GfxDagger))
}

func TestConsume(t *testing.T) {
	gold := newGold(1, 10)
	gold.Consume(4)
	assert.Equal(t, 6, gold.Amount())
	assert.False(t, gold.Deleted())

	gold.Consume(6)
	assert.True(t, gold.Deleted())
}

func TestConsumeByTypeAcrossContainers(t *testing.T) {
	pack := entity.NewItem(1, content.GfxBackpack, testDefs)
	pouch := entity.NewItem(2, content.GfxBackpack, testDefs)
	outer := newGold(3, 30)
	inner := newGold(4, 50)

	pack.AddChild(outer, geometry.Point2D{X: 1, Y: 1})
	pouch.AddChild(inner, geometry.Point2D{X: 1, Y: 1})
	pack.AddChild(pouch, geometry.Point2D{X: 2, Y: 2})

	// More than the tree holds: nothing is consumed.
	assert.False(t, pack.ConsumeByType(content.GfxGold, 81))
	assert.Equal(t, 80, pack.AmountByType(content.GfxGold))

	// Spans both stacks.
	assert.True(t, pack.ConsumeByType(content.GfxGold, 45))
	assert.Equal(t, 35, pack.AmountByType(content.GfxGold))
	assert.True(t, outer.Deleted())
}

func TestSpellbookAcceptsOnlyScrolls(t *testing.T) {
	book := entity.NewItem(1, content.GfxSpellbook, testDefs)
	scroll := entity.NewItem(2, content.GfxScrollLight, testDefs)
	dagger := entity.NewItem(3, content.GfxDagger, testDefs)

	assert.True(t, book.AcceptsChild(scroll))
	assert.False(t, book.AcceptsChild(dagger))

	// A scroll filed into a spellbook carries its spell index as amount.
	book.AddChild(scroll, geometry.Point2D{})
	assert.Equal(t, int(magic.Light), scroll.Amount())
}

func TestCreateCopy(t *testing.T) {
	src := newGold(1, 25)
	src.SetHue(0x33)
	src.SetName("tribute")

	cp := src.CreateCopy(99)
	assert.Equal(t, int64(99), cp.Serial())
	assert.Equal(t, src.Graphic(), cp.Graphic())
	assert.Equal(t, 25, cp.Amount())
	assert.Equal(t, 0x33, cp.Hue())
	assert.Equal(t, "tribute", cp.Name())
	assert.Empty(t, cp.Children())
}

func TestFoundOrphan(t *testing.T) {
	pack := entity.NewItem(1, content.GfxBackpack, testDefs)
	stray := entity.NewItem(2, content.GfxDagger, testDefs)
	stray.SetLocation(geometry.Point3D{X: 4, Y: 5})

	pack.FoundOrphan(stray)
	assert.Equal(t, pack, stray.ParentContainer())
	assert.Equal(t, stray, pack.ChildAt(geometry.Point2D{X: 4, Y: 5}))
}

func TestRememberRestoreParent(t *testing.T) {
	pack := entity.NewItem(1, content.GfxBackpack, testDefs)
	dagger := entity.NewItem(2, content.GfxDagger, testDefs)
	pack.AddChild(dagger, geometry.Point2D{X: 1, Y: 1})

	dagger.RememberParent()
	pack.RemoveChild(dagger)
	dagger.ClearParent()
	require.Nil(t, dagger.Parent())

	dagger.RestoreParent()
	assert.Equal(t, entity.Entity(pack), dagger.Parent())
}

func TestRootBoundedOnCycle(t *testing.T) {
	a := entity.NewItem(1, content.GfxBackpack, testDefs)
	b := entity.NewItem(2, content.GfxBackpack, testDefs)
	a.SetParent(b)
	b.SetParent(a)

	// A corrupted cycle must not hang the walk.
	assert.NotNil(t, a.Root())
}

func TestVisibility(t *testing.T) {
	it := entity.NewItem(1, content.GfxDagger, testDefs)
	assert.True(t, it.Visible())

	it.SetHidden(true)
	assert.False(t, it.Visible())
	it.SetHidden(false)
	assert.True(t, it.Visible())

	it.Delete()
	assert.False(t, it.Visible())
}

func TestPropertyStackSplitConservation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(2, 10_000).Draw(t, "total")
		take := rapid.IntRange(1, total-1).Draw(t, "take")

		stack := newGold(1, total)
		stack.SetAmount(stack.Amount() - take)
		half := stack.CreateCopy(2)
		half.SetAmount(take)

		if got := stack.Amount() + half.Amount(); got != total {
			t.Fatalf("split lost gold: %d + %d != %d", stack.Amount(), half.Amount(), total)
		}
	})
}
