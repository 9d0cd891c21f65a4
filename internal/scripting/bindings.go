package scripting

import (
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/shardmud/shard/internal/game/attr"
	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/game/geometry"
	"github.com/shardmud/shard/internal/game/magic"
)

const (
	itemTypeName   = "shard.item"
	mobileTypeName = "shard.mobile"
	playerTypeName = "shard.player"
)

// registerModule installs the shard table and the userdata metatables into
// the VM.
func (m *Manager) registerModule(L *lua.LState) {
	registerItemType(L)
	m.registerMobileType(L)
	m.registerPlayerType(L)

	shard := L.NewTable()
	L.SetGlobal("shard", shard)
	L.SetFuncs(shard, map[string]lua.LGFunction{
		"item_behavior":   m.luaRegisterItemBehavior,
		"mobile_behavior": m.luaRegisterMobileBehavior,
		"spell":           m.luaRegisterSpell,
		"create_item_at":  m.luaCreateItemAt,
		"create_item_in":  m.luaCreateItemIn,
		"schedule":        m.luaSchedule,
		"random":          m.luaRandom,
		"find":            m.luaFind,
	})
}

// wrapItem boxes an item as userdata with the item metatable.
func wrapItem(L *lua.LState, it *entity.Item) lua.LValue {
	if it == nil {
		return lua.LNil
	}
	ud := L.NewUserData()
	ud.Value = it
	L.SetMetatable(ud, L.GetTypeMetatable(itemTypeName))
	return ud
}

func wrapNPC(L *lua.LState, n *entity.NPC) lua.LValue {
	if n == nil {
		return lua.LNil
	}
	ud := L.NewUserData()
	ud.Value = n
	L.SetMetatable(ud, L.GetTypeMetatable(mobileTypeName))
	return ud
}

func wrapPlayer(L *lua.LState, p *entity.Player) lua.LValue {
	if p == nil {
		return lua.LNil
	}
	ud := L.NewUserData()
	ud.Value = p
	L.SetMetatable(ud, L.GetTypeMetatable(playerTypeName))
	return ud
}

func checkItem(L *lua.LState, n int) *entity.Item {
	ud := L.CheckUserData(n)
	if it, ok := ud.Value.(*entity.Item); ok {
		return it
	}
	L.ArgError(n, "item expected")
	return nil
}

func checkNPC(L *lua.LState, n int) *entity.NPC {
	ud := L.CheckUserData(n)
	if npc, ok := ud.Value.(*entity.NPC); ok {
		return npc
	}
	L.ArgError(n, "mobile expected")
	return nil
}

func checkPlayer(L *lua.LState, n int) *entity.Player {
	ud := L.CheckUserData(n)
	if p, ok := ud.Value.(*entity.Player); ok {
		return p
	}
	L.ArgError(n, "player expected")
	return nil
}

func registerItemType(L *lua.LState) {
	mt := L.NewTypeMetatable(itemTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"serial": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkItem(L, 1).Serial()))
			return 1
		},
		"graphic": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkItem(L, 1).Graphic()))
			return 1
		},
		"set_graphic": func(L *lua.LState) int {
			checkItem(L, 1).SetGraphic(int(L.CheckInt64(2)))
			return 0
		},
		"name": func(L *lua.LState) int {
			L.Push(lua.LString(checkItem(L, 1).Name()))
			return 1
		},
		"set_name": func(L *lua.LState) int {
			checkItem(L, 1).SetName(L.CheckString(2))
			return 0
		},
		"hue": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkItem(L, 1).Hue()))
			return 1
		},
		"set_hue": func(L *lua.LState) int {
			checkItem(L, 1).SetHue(int(L.CheckInt64(2)))
			return 0
		},
		"amount": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkItem(L, 1).Amount()))
			return 1
		},
		"set_amount": func(L *lua.LState) int {
			checkItem(L, 1).SetAmount(int(L.CheckInt64(2)))
			return 0
		},
		"light": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkItem(L, 1).LightLevel()))
			return 1
		},
		"set_light": func(L *lua.LState) int {
			checkItem(L, 1).SetLightLevel(int(L.CheckInt64(2)))
			return 0
		},
		"location": func(L *lua.LState) int {
			loc := checkItem(L, 1).Location()
			L.Push(lua.LNumber(loc.X))
			L.Push(lua.LNumber(loc.Y))
			L.Push(lua.LNumber(loc.Z))
			return 3
		},
		"delete": func(L *lua.LState) int {
			checkItem(L, 1).Delete()
			return 0
		},
	}))
}

func (m *Manager) registerMobileType(L *lua.LState) {
	mt := L.NewTypeMetatable(mobileTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"serial": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkNPC(L, 1).Serial()))
			return 1
		},
		"say": func(L *lua.LState) int {
			m.api.Speak(checkNPC(L, 1), L.CheckString(2))
			return 0
		},
		"name": func(L *lua.LState) int {
			L.Push(lua.LString(checkNPC(L, 1).Name()))
			return 1
		},
		"set_name": func(L *lua.LState) int {
			checkNPC(L, 1).SetName(L.CheckString(2))
			return 0
		},
		"attribute": func(L *lua.LState) int {
			n := checkNPC(L, 1)
			a, ok := attr.ByName(L.CheckString(2))
			if !ok {
				L.ArgError(2, "unknown attribute")
			}
			L.Push(lua.LNumber(n.Attribute(a)))
			return 1
		},
		"set_attribute": func(L *lua.LState) int {
			n := checkNPC(L, 1)
			a, ok := attr.ByName(L.CheckString(2))
			if !ok {
				L.ArgError(2, "unknown attribute")
			}
			if err := n.SetAttribute(a, L.CheckInt64(3)); err != nil {
				L.RaiseError("%v", err)
			}
			return 0
		},
		"location": func(L *lua.LState) int {
			loc := checkNPC(L, 1).Location()
			L.Push(lua.LNumber(loc.X))
			L.Push(lua.LNumber(loc.Y))
			L.Push(lua.LNumber(loc.Z))
			return 3
		},
	}))
}

func (m *Manager) registerPlayerType(L *lua.LState) {
	mt := L.NewTypeMetatable(playerTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"serial": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkPlayer(L, 1).Serial()))
			return 1
		},
		"say": func(L *lua.LState) int {
			m.api.Speak(checkPlayer(L, 1), L.CheckString(2))
			return 0
		},
		"name": func(L *lua.LState) int {
			L.Push(lua.LString(checkPlayer(L, 1).Name()))
			return 1
		},
		"sysmsg": func(L *lua.LState) int {
			m.api.Sysmsg(checkPlayer(L, 1), L.CheckString(2))
			return 0
		},
		"attribute": func(L *lua.LState) int {
			p := checkPlayer(L, 1)
			a, ok := attr.ByName(L.CheckString(2))
			if !ok {
				L.ArgError(2, "unknown attribute")
			}
			L.Push(lua.LNumber(p.Attribute(a)))
			return 1
		},
		"consume": func(L *lua.LState) int {
			p := checkPlayer(L, 1)
			a, ok := attr.ByName(L.CheckString(2))
			if !ok {
				L.ArgError(2, "unknown attribute")
			}
			L.Push(lua.LBool(p.ConsumeAttribute(a, L.CheckInt64(3))))
			return 1
		},
		"reward": func(L *lua.LState) int {
			p := checkPlayer(L, 1)
			a, ok := attr.ByName(L.CheckString(2))
			if !ok {
				L.ArgError(2, "unknown attribute")
			}
			p.RewardAttribute(a, L.CheckInt64(3))
			return 0
		},
		"backpack": func(L *lua.LState) int {
			L.Push(wrapItem(L, checkPlayer(L, 1).Backpack()))
			return 1
		},
		"location": func(L *lua.LState) int {
			loc := checkPlayer(L, 1).Location()
			L.Push(lua.LNumber(loc.X))
			L.Push(lua.LNumber(loc.Y))
			L.Push(lua.LNumber(loc.Z))
			return 3
		},
	}))
}

// luaItemBehavior adapts a Lua registration table to entity.ItemBehavior.
type luaItemBehavior struct {
	m    *Manager
	name string

	onCreate *lua.LFunction
	onLoad   *lua.LFunction
	onUse    *lua.LFunction
	onChange *lua.LFunction
}

func (b *luaItemBehavior) OnCreate(it *entity.Item) error {
	return b.m.call(b.onCreate, wrapItem(b.m.state, it))
}

func (b *luaItemBehavior) OnLoad(it *entity.Item) error {
	return b.m.call(b.onLoad, wrapItem(b.m.state, it))
}

func (b *luaItemBehavior) OnUse(user *entity.Player, it *entity.Item) error {
	return b.m.call(b.onUse, wrapPlayer(b.m.state, user), wrapItem(b.m.state, it))
}

func (b *luaItemBehavior) OnBehaviorChange(it *entity.Item) error {
	return b.m.call(b.onChange, wrapItem(b.m.state, it))
}

// luaMobileBehavior adapts a Lua registration table to
// entity.MobileBehavior.
type luaMobileBehavior struct {
	m    *Manager
	name string

	onLoad        *lua.LFunction
	onSpeech      *lua.LFunction
	onHello       *lua.LFunction
	onEnterArea   *lua.LFunction
	onDoubleClick *lua.LFunction
}

func (b *luaMobileBehavior) OnLoad(n *entity.NPC) error {
	return b.m.call(b.onLoad, wrapNPC(b.m.state, n))
}

func (b *luaMobileBehavior) OnSpeech(n *entity.NPC, src *entity.Player, text string) error {
	return b.m.call(b.onSpeech, wrapNPC(b.m.state, n), wrapPlayer(b.m.state, src), lua.LString(text))
}

func (b *luaMobileBehavior) OnHello(n *entity.NPC, src *entity.Player) error {
	return b.m.call(b.onHello, wrapNPC(b.m.state, n), wrapPlayer(b.m.state, src))
}

func (b *luaMobileBehavior) OnEnterArea(n *entity.NPC, who *entity.Player) error {
	return b.m.call(b.onEnterArea, wrapNPC(b.m.state, n), wrapPlayer(b.m.state, who))
}

func (b *luaMobileBehavior) OnDoubleClick(n *entity.NPC, who *entity.Player) (bool, error) {
	if b.onDoubleClick == nil {
		return true, nil
	}
	ret, err := b.m.callRet(b.onDoubleClick, 1, wrapNPC(b.m.state, n), wrapPlayer(b.m.state, who))
	if err != nil {
		return false, err
	}
	return lua.LVAsBool(ret), nil
}

// luaSpell adapts a Lua spell registration to SpellHandler.
type luaSpell struct {
	m      *Manager
	spell  magic.Spell
	mana   int64
	onCast *lua.LFunction
}

func (s *luaSpell) ManaCost() int64 { return s.mana }

func (s *luaSpell) Cast(caster *entity.Player) error {
	return s.m.call(s.onCast, wrapPlayer(s.m.state, caster))
}

func fieldFunc(L *lua.LState, tbl *lua.LTable, name string) *lua.LFunction {
	v := L.GetField(tbl, name)
	fn, _ := v.(*lua.LFunction)
	return fn
}

// luaRegisterItemBehavior implements shard.item_behavior{...}.
func (m *Manager) luaRegisterItemBehavior(L *lua.LState) int {
	tbl := L.CheckTable(1)
	name := lua.LVAsString(L.GetField(tbl, "name"))
	if name == "" {
		L.ArgError(1, "item_behavior requires a name")
	}
	m.itemBehaviors[name] = &luaItemBehavior{
		m:        m,
		name:     name,
		onCreate: fieldFunc(L, tbl, "on_create"),
		onLoad:   fieldFunc(L, tbl, "on_load"),
		onUse:    fieldFunc(L, tbl, "on_use"),
		onChange: fieldFunc(L, tbl, "on_behavior_change"),
	}
	return 0
}

// luaRegisterMobileBehavior implements shard.mobile_behavior{...}.
func (m *Manager) luaRegisterMobileBehavior(L *lua.LState) int {
	tbl := L.CheckTable(1)
	name := lua.LVAsString(L.GetField(tbl, "name"))
	if name == "" {
		L.ArgError(1, "mobile_behavior requires a name")
	}
	m.mobileBehaviors[name] = &luaMobileBehavior{
		m:             m,
		name:          name,
		onLoad:        fieldFunc(L, tbl, "on_load"),
		onSpeech:      fieldFunc(L, tbl, "on_speech"),
		onHello:       fieldFunc(L, tbl, "on_hello"),
		onEnterArea:   fieldFunc(L, tbl, "on_enter_area"),
		onDoubleClick: fieldFunc(L, tbl, "on_double_click"),
	}
	return 0
}

// luaRegisterSpell implements shard.spell{...}.
func (m *Manager) luaRegisterSpell(L *lua.LState) int {
	tbl := L.CheckTable(1)
	id := int(lua.LVAsNumber(L.GetField(tbl, "id")))
	sp := magic.Spell(id)
	if !sp.Valid() {
		L.ArgError(1, "spell requires a valid id")
	}
	m.spells[sp] = &luaSpell{
		m:      m,
		spell:  sp,
		mana:   int64(lua.LVAsNumber(L.GetField(tbl, "mana"))),
		onCast: fieldFunc(L, tbl, "on_cast"),
	}
	return 0
}

// luaCreateItemAt implements shard.create_item_at(graphic, x, y[, z[, amount]]).
// The graphic comes first so a trailing location() triple expands in place.
func (m *Manager) luaCreateItemAt(L *lua.LState) int {
	top := L.GetTop()
	graphic := int(L.CheckInt64(1))
	loc := geometry.Point3D{
		X: int(L.CheckInt64(2)),
		Y: int(L.CheckInt64(3)),
	}
	if top >= 4 {
		loc.Z = int(L.CheckInt64(4))
	}
	it, err := m.api.CreateItemAt(loc, graphic)
	if err != nil {
		L.RaiseError("%v", err)
	}
	if top >= 5 {
		it.SetAmount(int(L.CheckInt64(5)))
	}
	L.Push(wrapItem(L, it))
	return 1
}

// luaCreateItemIn implements shard.create_item_in(container, graphic, amount).
func (m *Manager) luaCreateItemIn(L *lua.LState) int {
	container := checkItem(L, 1)
	graphic := int(L.CheckInt64(2))
	amount := 1
	if L.GetTop() >= 3 {
		amount = int(L.CheckInt64(3))
	}
	it, err := m.api.CreateItemIn(container, graphic, amount)
	if err != nil {
		L.RaiseError("%v", err)
	}
	L.Push(wrapItem(L, it))
	return 1
}

// luaSchedule implements shard.schedule(millis, fn). The callback runs on
// the timer driver, which re-enters the world through the API.
func (m *Manager) luaSchedule(L *lua.LState) int {
	millis := L.CheckInt64(1)
	fn := L.CheckFunction(2)
	m.api.Schedule(time.Duration(millis)*time.Millisecond, func() {
		if err := m.call(fn); err != nil {
			m.logger.Warn("scheduled script callback failed", zap.Error(err))
		}
	})
	return 0
}

// luaRandom implements shard.random(lo, hi).
func (m *Manager) luaRandom(L *lua.LState) int {
	lo := int(L.CheckInt64(1))
	hi := int(L.CheckInt64(2))
	L.Push(lua.LNumber(m.api.Roller().Between(lo, hi)))
	return 1
}

// luaFind implements shard.find(serial); returns an item, mobile, or
// player userdata, or nil.
func (m *Manager) luaFind(L *lua.LState) int {
	switch e := m.api.FindObject(L.CheckInt64(1)).(type) {
	case *entity.Item:
		L.Push(wrapItem(L, e))
	case *entity.NPC:
		L.Push(wrapNPC(L, e))
	case *entity.Player:
		L.Push(wrapPlayer(L, e))
	default:
		L.Push(lua.LNil)
	}
	return 1
}
