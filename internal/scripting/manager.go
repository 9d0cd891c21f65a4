package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/shardmud/shard/internal/game/dice"
	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/game/geometry"
	"github.com/shardmud/shard/internal/game/magic"
)

// API is the slice of the simulation that scripts may drive. The world
// implements it; hooks run under the world lock, so implementations must
// not re-lock.
type API interface {
	CreateItemAt(loc geometry.Point3D, graphic int) (*entity.Item, error)
	CreateItemIn(container *entity.Item, graphic, amount int) (*entity.Item, error)
	Speak(src entity.Entity, text string)
	Sysmsg(p *entity.Player, text string)
	Schedule(delay time.Duration, fn func())
	FindObject(serial int64) entity.Entity
	Roller() *dice.Roller
}

// SpellHandler is the resolved implementation of one spell.
type SpellHandler interface {
	ManaCost() int64
	// Cast runs the spell effect. The caller has already verified the
	// spellbook scroll and consumed mana.
	Cast(caster *entity.Player) error
}

// Manager owns a single sandboxed LState holding every registered
// behavior. One VM is enough: hooks are invoked under the world lock, and
// the mutex covers direct callers such as tests.
type Manager struct {
	mu        sync.Mutex
	state     *lua.LState
	cancel    func()
	instLimit int
	logger    *zap.Logger
	api       API

	itemBehaviors   map[string]entity.ItemBehavior
	mobileBehaviors map[string]entity.MobileBehavior
	spells          map[magic.Spell]SpellHandler
}

// NewManager creates a Manager with an empty registry.
//
// Precondition: logger and api must be non-nil.
func NewManager(api API, instLimit int, logger *zap.Logger) *Manager {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	m := &Manager{
		instLimit:       instLimit,
		logger:          logger,
		api:             api,
		itemBehaviors:   make(map[string]entity.ItemBehavior),
		mobileBehaviors: make(map[string]entity.MobileBehavior),
		spells:          make(map[magic.Spell]SpellHandler),
	}
	m.state, m.cancel = newSandboxedState(instLimit)
	m.registerModule(m.state)
	return m
}

// Close tears down the VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
	m.state.Close()
}

// LoadDir executes every *.lua file in dir in lexicographic order. Each
// script registers its behaviors through the shard module.
func (m *Manager) LoadDir(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	for _, path := range files {
		if err := m.state.DoFile(path); err != nil {
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}
	m.logger.Info("behavior scripts loaded",
		zap.String("dir", dir),
		zap.Int("files", len(files)),
		zap.Int("item_behaviors", len(m.itemBehaviors)),
		zap.Int("mobile_behaviors", len(m.mobileBehaviors)),
		zap.Int("spells", len(m.spells)),
	)
	return nil
}

// RegisterItemBehavior adds a Go-native item behavior. Later registrations
// under the same name win, letting scripts override builtins.
func (m *Manager) RegisterItemBehavior(name string, b entity.ItemBehavior) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.itemBehaviors[name] = b
}

// RegisterMobileBehavior adds a Go-native mobile behavior.
func (m *Manager) RegisterMobileBehavior(name string, b entity.MobileBehavior) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mobileBehaviors[name] = b
}

// RegisterSpell adds a Go-native spell handler.
func (m *Manager) RegisterSpell(sp magic.Spell, h SpellHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spells[sp] = h
}

// ResolveItemBehavior looks up a behavior tag. The empty tag resolves to
// nil without error.
func (m *Manager) ResolveItemBehavior(name string) (entity.ItemBehavior, error) {
	if name == "" {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.itemBehaviors[name]
	if !ok {
		return nil, fmt.Errorf("scripting: unknown item behavior %q", name)
	}
	return b, nil
}

// ResolveMobileBehavior looks up a mobile behavior tag.
func (m *Manager) ResolveMobileBehavior(name string) (entity.MobileBehavior, error) {
	if name == "" {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.mobileBehaviors[name]
	if !ok {
		return nil, fmt.Errorf("scripting: unknown mobile behavior %q", name)
	}
	return b, nil
}

// Spell returns the handler for sp, or nil when the spell has no
// implementation.
func (m *Manager) Spell(sp magic.Spell) SpellHandler {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.spells[sp]
}

// call invokes a Lua function under a fresh instruction budget. Lua
// runtime errors are returned for the hook caller to log and discard.
//
// call takes no lock: hook execution is serialized by the world lock, and
// hooks may re-enter the VM through the shard module (an item created by
// a script fires its own OnCreate). The previous instruction budget is
// restored on return so a nested call does not kill its parent.
func (m *Manager) call(fn *lua.LFunction, args ...lua.LValue) error {
	_, err := m.callRet(fn, 0, args...)
	return err
}

func (m *Manager) callRet(fn *lua.LFunction, nret int, args ...lua.LValue) (lua.LValue, error) {
	if fn == nil {
		return lua.LNil, nil
	}
	prev := m.state.Context()
	ctx, cancel := newCountingContext(m.instLimit)
	m.state.SetContext(ctx)
	defer func() {
		cancel()
		m.state.SetContext(prev)
	}()

	err := m.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    nret,
		Protect: true,
	}, args...)
	if err != nil || nret == 0 {
		return lua.LNil, err
	}
	ret := m.state.Get(-1)
	m.state.Pop(1)
	return ret, nil
}
