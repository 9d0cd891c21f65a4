package scripting_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/shardmud/shard/internal/game/content"
	"github.com/shardmud/shard/internal/game/dice"
	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/game/geometry"
	"github.com/shardmud/shard/internal/game/magic"
	"github.com/shardmud/shard/internal/scripting"
)

var testDefs = content.NewTable()

// fakeAPI records script-driven world calls.
type fakeAPI struct {
	created    []int
	items      []*entity.Item
	spoken     []string
	sysmsgs    []string
	scheduled  []func()
	nextSerial int64
}

func (a *fakeAPI) CreateItemAt(loc geometry.Point3D, graphic int) (*entity.Item, error) {
	a.created = append(a.created, graphic)
	a.nextSerial++
	it := entity.NewItem(0x40000000+a.nextSerial, graphic, testDefs)
	it.SetLocation(loc)
	a.items = append(a.items, it)
	return it, nil
}

func (a *fakeAPI) CreateItemIn(container *entity.Item, graphic, amount int) (*entity.Item, error) {
	a.created = append(a.created, graphic)
	a.nextSerial++
	it := entity.NewItem(0x40000000+a.nextSerial, graphic, testDefs)
	if amount > 1 {
		it.SetAmount(amount)
	}
	container.AddChild(it, geometry.Point2D{X: 1, Y: 1})
	return it, nil
}

func (a *fakeAPI) Speak(src entity.Entity, text string)  { a.spoken = append(a.spoken, text) }
func (a *fakeAPI) Sysmsg(p *entity.Player, text string)  { a.sysmsgs = append(a.sysmsgs, text) }
func (a *fakeAPI) Schedule(d time.Duration, fn func())   { a.scheduled = append(a.scheduled, fn) }
func (a *fakeAPI) FindObject(serial int64) entity.Entity { return nil }
func (a *fakeAPI) Roller() *dice.Roller                  { return dice.NewRoller(dice.NewCryptoSource()) }

func newTestManager(t *testing.T) (*scripting.Manager, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{}
	m := scripting.NewManager(api, 0, zaptest.NewLogger(t))
	t.Cleanup(m.Close)
	return m, api
}

func loadScript(t *testing.T, m *scripting.Manager, body string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.lua"), []byte(body), 0644))
	require.NoError(t, m.LoadDir(dir))
}

func TestResolveEmptyBehavior(t *testing.T) {
	m, _ := newTestManager(t)

	b, err := m.ResolveItemBehavior("")
	require.NoError(t, err)
	assert.Nil(t, b)

	mb, err := m.ResolveMobileBehavior("")
	require.NoError(t, err)
	assert.Nil(t, mb)
}

func TestResolveUnknownBehavior(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.ResolveItemBehavior("teleporter")
	assert.Error(t, err)
	_, err = m.ResolveMobileBehavior("dragon")
	assert.Error(t, err)
}

func TestLuaItemBehaviorHooks(t *testing.T) {
	m, api := newTestManager(t)
	loadScript(t, m, `
shard.item_behavior{
	name = "campfire",
	on_create = function(item)
		item:set_name("a campfire")
	end,
	on_use = function(user, item)
		user:sysmsg("The fire is warm.")
	end,
}
`)

	b, err := m.ResolveItemBehavior("campfire")
	require.NoError(t, err)
	require.NotNil(t, b)

	it := entity.NewItem(1, content.GfxLightsource, testDefs)
	require.NoError(t, b.OnCreate(it))
	assert.Equal(t, "a campfire", it.Name())

	p := entity.NewPlayer(2, content.MobHumanMale, testDefs)
	require.NoError(t, b.OnUse(p, it))
	assert.Equal(t, []string{"The fire is warm."}, api.sysmsgs)

	// Hooks the script leaves out are silent no-ops.
	require.NoError(t, b.OnLoad(it))
	require.NoError(t, b.OnBehaviorChange(it))
}

func TestLuaMobileBehaviorHooks(t *testing.T) {
	m, api := newTestManager(t)
	loadScript(t, m, `
shard.mobile_behavior{
	name = "guard",
	on_hello = function(npc, who)
		npc:say("Greetings, citizen.")
	end,
	on_double_click = function(npc, who)
		return false
	end,
}
`)

	b, err := m.ResolveMobileBehavior("guard")
	require.NoError(t, err)

	npc := entity.NewNPC(1, content.MobHumanMale, testDefs)
	p := entity.NewPlayer(2, content.MobHumanMale, testDefs)

	require.NoError(t, b.OnHello(npc, p))
	assert.Equal(t, []string{"Greetings, citizen."}, api.spoken)

	proceed, err := b.OnDoubleClick(npc, p)
	require.NoError(t, err)
	assert.False(t, proceed)
}

func TestLuaSpellRegistration(t *testing.T) {
	m, api := newTestManager(t)
	loadScript(t, m, `
shard.spell{
	id = `+strconv.Itoa(int(magic.CreateFood))+`,
	mana = 4,
	on_cast = function(caster)
		caster:sysmsg("Food appears.")
	end,
}
`)

	h := m.Spell(magic.CreateFood)
	require.NotNil(t, h)
	assert.Equal(t, int64(4), h.ManaCost())

	p := entity.NewPlayer(1, content.MobHumanMale, testDefs)
	require.NoError(t, h.Cast(p))
	assert.Equal(t, []string{"Food appears."}, api.sysmsgs)
}

func TestLuaCreateItemReentry(t *testing.T) {
	// A hook that itself spawns items exercises nested script invocation.
	m, api := newTestManager(t)
	loadScript(t, m, `
shard.item_behavior{
	name = "chest_of_coins",
	on_use = function(user, item)
		shard.create_item_at(0x01F8, item:location())
	end,
}
`)

	b, err := m.ResolveItemBehavior("chest_of_coins")
	require.NoError(t, err)

	it := entity.NewItem(1, content.GfxBackpack, testDefs)
	p := entity.NewPlayer(2, content.MobHumanMale, testDefs)
	require.NoError(t, b.OnUse(p, it))
	assert.Equal(t, []int{content.GfxGold}, api.created)

	// The state survives for subsequent invocations.
	require.NoError(t, b.OnUse(p, it))
	assert.Len(t, api.created, 2)

	// The spawned pile lands where the chest sits.
	require.NotEmpty(t, api.items)
	assert.Equal(t, it.Location(), api.items[0].Location())
}

func TestLuaCreateItemAtAmount(t *testing.T) {
	m, api := newTestManager(t)
	loadScript(t, m, `
shard.item_behavior{
	name = "hoard",
	on_use = function(user, item)
		shard.create_item_at(0x01F8, 10, 20, 0, 500)
	end,
}
`)

	b, err := m.ResolveItemBehavior("hoard")
	require.NoError(t, err)

	it := entity.NewItem(1, content.GfxBackpack, testDefs)
	p := entity.NewPlayer(2, content.MobHumanMale, testDefs)
	require.NoError(t, b.OnUse(p, it))

	require.Len(t, api.items, 1)
	assert.Equal(t, 500, api.items[0].Amount())
}

func TestLuaScheduleHook(t *testing.T) {
	m, api := newTestManager(t)
	loadScript(t, m, `
shard.item_behavior{
	name = "fuse",
	on_use = function(user, item)
		shard.schedule(1000, function()
			user:sysmsg("Boom.")
		end)
	end,
}
`)

	b, err := m.ResolveItemBehavior("fuse")
	require.NoError(t, err)

	it := entity.NewItem(1, content.GfxDagger, testDefs)
	p := entity.NewPlayer(2, content.MobHumanMale, testDefs)
	require.NoError(t, b.OnUse(p, it))
	require.Len(t, api.scheduled, 1)

	api.scheduled[0]()
	assert.Equal(t, []string{"Boom."}, api.sysmsgs)
}

func TestHookErrorsAreReturned(t *testing.T) {
	m, _ := newTestManager(t)
	loadScript(t, m, `
shard.item_behavior{
	name = "cursed",
	on_use = function(user, item)
		error("the curse strikes")
	end,
}
`)

	b, err := m.ResolveItemBehavior("cursed")
	require.NoError(t, err)

	it := entity.NewItem(1, content.GfxDagger, testDefs)
	p := entity.NewPlayer(2, content.MobHumanMale, testDefs)
	err = b.OnUse(p, it)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "the curse strikes")
}

func TestInstructionLimitStopsRunawayScripts(t *testing.T) {
	api := &fakeAPI{}
	m := scripting.NewManager(api, 1000, zaptest.NewLogger(t))
	t.Cleanup(m.Close)
	loadScript(t, m, `
shard.item_behavior{
	name = "infinite",
	on_use = function(user, item)
		while true do end
	end,
}
`)

	b, err := m.ResolveItemBehavior("infinite")
	require.NoError(t, err)

	it := entity.NewItem(1, content.GfxDagger, testDefs)
	p := entity.NewPlayer(2, content.MobHumanMale, testDefs)
	assert.Error(t, b.OnUse(p, it))
}

func TestSandboxStripsUnsafeGlobals(t *testing.T) {
	m, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "io.lua"), []byte(`
if io ~= nil or os ~= nil or dofile ~= nil or loadfile ~= nil then
	error("sandbox leak")
end
`), 0644))
	assert.NoError(t, m.LoadDir(dir))
}

func TestGoNativeBehaviorOverridesScript(t *testing.T) {
	m, _ := newTestManager(t)
	loadScript(t, m, `
shard.item_behavior{ name = "scroll" }
`)

	native := nativeItemBehavior{}
	m.RegisterItemBehavior("scroll", native)

	b, err := m.ResolveItemBehavior("scroll")
	require.NoError(t, err)
	assert.Equal(t, native, b)
}

func TestLoadDirMissing(t *testing.T) {
	m, _ := newTestManager(t)
	assert.Error(t, m.LoadDir("/nonexistent/scripts"))
}

func TestLoadDirBrokenScript(t *testing.T) {
	m, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.lua"), []byte("this is not lua ("), 0644))
	assert.Error(t, m.LoadDir(dir))
}

type nativeItemBehavior struct{}

func (nativeItemBehavior) OnCreate(*entity.Item) error              { return nil }
func (nativeItemBehavior) OnLoad(*entity.Item) error                { return nil }
func (nativeItemBehavior) OnUse(*entity.Player, *entity.Item) error { return nil }
func (nativeItemBehavior) OnBehaviorChange(*entity.Item) error      { return nil }
