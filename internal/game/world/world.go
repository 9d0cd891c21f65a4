// Package world is the authoritative simulation core: one World owns
// every entity, applies all mutations under a single lock, and publishes
// the results to interested clients.
//
// The lock is deliberately coarse. Entity graphs are small and handler
// bodies short; one mutex over the whole world makes every handler and
// timer callback a serializable transaction, which is what the game rules
// assume. Finer locking bought nothing and cost deadlock analysis on
// every new interaction between entities.
package world

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shardmud/shard/internal/game/attr"
	"github.com/shardmud/shard/internal/game/content"
	"github.com/shardmud/shard/internal/game/dice"
	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/game/geometry"
	"github.com/shardmud/shard/internal/game/registry"
	"github.com/shardmud/shard/internal/game/schedule"
	"github.com/shardmud/shard/internal/game/terrain"
	"github.com/shardmud/shard/internal/scripting"
)

// Perception and interaction ranges, in tiles.
const (
	// VisibleRange bounds what any mobile can perceive.
	VisibleRange = 15
	// SpeechRange bounds who hears spoken text.
	SpeechRange = 10
	// EnterAreaRange triggers NPC enter-area reactions.
	EnterAreaRange = 5
	// MeleeRange is the maximum distance of a melee swing.
	MeleeRange = 1
)

// statRefreshDelay is the period of the per-mobile regeneration loop.
const statRefreshDelay = 1200 * time.Millisecond

// Spawn points.
var (
	// NewCharacterLocation is where freshly created characters appear.
	NewCharacterLocation = geometry.Point3D{X: 553, Y: 575}
	// ResurrectLocation is where the dead return to life.
	ResurrectLocation = geometry.Point3D{X: 507, Y: 584}
)

// World is the simulation core. All exported methods acquire the world
// lock; unexported ones assume it is held.
type World struct {
	mu sync.Mutex

	logger  *zap.Logger
	defs    *content.Table
	reg     *registry.Registry
	timers  *schedule.Queue
	roller  *dice.Roller
	scripts *scripting.Manager
	terrain terrain.Map

	savePath string

	hour       int
	lightLevel int
	cycleTimer *schedule.Timer
}

// Options carries the collaborators a World needs.
type Options struct {
	Logger   *zap.Logger
	Defs     *content.Table
	Timers   *schedule.Queue
	Roller   *dice.Roller
	Terrain  terrain.Map
	SavePath string

	// ScriptInstructionLimit bounds each behavior hook invocation;
	// zero uses the scripting default.
	ScriptInstructionLimit int
}

// New creates a World with an empty registry and its own behavior
// registry.
//
// Precondition: Logger, Defs, Timers, Roller, and Terrain must be set.
func New(opts Options) *World {
	w := &World{
		logger:   opts.Logger,
		defs:     opts.Defs,
		reg:      registry.New(),
		timers:   opts.Timers,
		roller:   opts.Roller,
		terrain:  opts.Terrain,
		savePath: opts.SavePath,
		hour:     NoonHour,
	}
	w.scripts = scripting.NewManager(scriptAPI{w}, opts.ScriptInstructionLimit, opts.Logger)
	w.registerBuiltins()
	return w
}

// Scripts exposes the behavior registry for script loading and test
// registration.
func (w *World) Scripts() *scripting.Manager { return w.scripts }

// Defs exposes the content table.
func (w *World) Defs() *content.Table { return w.defs }

// Init starts the recurring world processes: the day/night cycle and, for
// restored mobiles, their regeneration loops. Call once after New and any
// Load, before serving clients.
func (w *World) Init() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.lightLevel = lightLevelAt(w.hour)
	w.cycleTimer = schedule.NewTimer(hourLength, w.advanceHour)
	w.timers.Reschedule(w.cycleTimer)

	for _, e := range w.reg.AllObjects() {
		if m := asMobile(e); m != nil {
			w.startRefresh(m)
		}
	}
	w.startAutosave()
}

// asMobile unwraps e's mobile core, nil for items.
func asMobile(e entity.Entity) *entity.Mobile {
	if me, ok := e.(interface{ AsMobile() *entity.Mobile }); ok {
		return me.AsMobile()
	}
	return nil
}

// register indexes e and attaches the world as its observer sink.
func (w *World) register(e entity.Entity) error {
	if err := w.reg.Register(e); err != nil {
		return err
	}
	e.AttachObserver(w)
	return nil
}

// unregister detaches and drops e.
func (w *World) unregister(e entity.Entity) {
	e.DetachObserver()
	w.reg.Remove(e)
}

// FindObject returns the entity with the serial, or nil.
func (w *World) FindObject(serial int64) entity.Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reg.FindObject(serial)
}

// FindPlayerByName returns the registered player with the name, or nil.
func (w *World) FindPlayerByName(name string) *entity.Player {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.findPlayerByName(name)
}

func (w *World) findPlayerByName(name string) *entity.Player {
	for _, p := range w.reg.AllPlayers() {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// createItem builds and registers an item without placing it.
func (w *World) createItem(graphic int, behavior string) (*entity.Item, error) {
	serial, err := w.reg.NextItemSerial()
	if err != nil {
		return nil, err
	}
	it := entity.NewItem(serial, graphic, w.defs)
	if behavior != "" {
		impl, err := w.scripts.ResolveItemBehavior(behavior)
		if err != nil {
			return nil, err
		}
		it.SetBehavior(behavior, impl)
	}
	if err := w.register(it); err != nil {
		return nil, err
	}
	return it, nil
}

// fireOnCreate runs the item's creation hook; a failing hook removes the
// half-made item rather than leaking it.
func (w *World) fireOnCreate(it *entity.Item) {
	impl := it.BehaviorImpl()
	if impl == nil {
		return
	}
	if err := impl.OnCreate(it); err != nil {
		w.logger.Warn("item creation hook failed, deleting item",
			zap.Int64("serial", it.Serial()),
			zap.String("behavior", it.Behavior()),
			zap.Error(err),
		)
		it.Delete()
	}
}

func (w *World) createItemAt(loc geometry.Point3D, graphic int, behavior string) (*entity.Item, error) {
	it, err := w.createItem(graphic, behavior)
	if err != nil {
		return nil, err
	}
	it.SetLocation(loc)
	w.fireOnCreate(it)
	return it, nil
}

func (w *World) createItemIn(container *entity.Item, graphic, amount int, behavior string) (*entity.Item, error) {
	it, err := w.createItem(graphic, behavior)
	if err != nil {
		return nil, err
	}
	if amount > 1 {
		it.SetAmount(amount)
	}
	container.AddChild(it, geometry.Point2D{})
	w.fireOnCreate(it)
	return it, nil
}

func (w *World) createItemEquipped(wearer *entity.Mobile, graphic, hue int, behavior string) (*entity.Item, error) {
	it, err := w.createItem(graphic, behavior)
	if err != nil {
		return nil, err
	}
	if hue != 0 {
		it.SetHue(hue)
	}
	wearer.EquipItem(it)
	w.fireOnCreate(it)
	return it, nil
}

// CreateItemAt spawns an item on the ground.
func (w *World) CreateItemAt(loc geometry.Point3D, graphic int, behavior string) (*entity.Item, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.createItemAt(loc, graphic, behavior)
}

// CreateItemIn spawns a stack inside a container.
func (w *World) CreateItemIn(container *entity.Item, graphic, amount int, behavior string) (*entity.Item, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.createItemIn(container, graphic, amount, behavior)
}

// CreateNPC spawns a scripted mobile.
func (w *World) CreateNPC(loc geometry.Point3D, graphic int, behavior string) (*entity.NPC, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.createNPC(loc, graphic, behavior)
}

func (w *World) createNPC(loc geometry.Point3D, graphic int, behavior string) (*entity.NPC, error) {
	n := entity.NewNPC(w.reg.NextMobileSerial(), graphic, w.defs)
	// Baseline vitals so a fresh spawn is alive; load hooks may overwrite.
	for a, v := range map[attr.Attribute]int64{
		attr.Strength:     20,
		attr.Dexterity:    20,
		attr.Intelligence: 10,
		attr.Level:        1,
	} {
		if err := n.SetAttribute(a, v); err != nil {
			return nil, err
		}
	}
	n.RefreshStats()
	if behavior != "" {
		impl, err := w.scripts.ResolveMobileBehavior(behavior)
		if err != nil {
			return nil, err
		}
		n.SetBehavior(behavior, impl)
	}
	if err := w.register(n); err != nil {
		return nil, err
	}
	n.SetLocation(loc)
	if impl := n.BehaviorImpl(); impl != nil {
		if err := impl.OnLoad(n); err != nil {
			w.logger.Warn("npc load hook failed",
				zap.Int64("serial", n.Serial()),
				zap.String("behavior", behavior),
				zap.Error(err),
			)
		}
	}
	return n, nil
}

// scriptAPI adapts the world for behavior scripts. Hooks run with the
// world lock already held, so these call the unlocked internals.
type scriptAPI struct {
	w *World
}

func (s scriptAPI) CreateItemAt(loc geometry.Point3D, graphic int) (*entity.Item, error) {
	return s.w.createItemAt(loc, graphic, "")
}

func (s scriptAPI) CreateItemIn(container *entity.Item, graphic, amount int) (*entity.Item, error) {
	return s.w.createItemIn(container, graphic, amount, "")
}

func (s scriptAPI) Speak(src entity.Entity, text string) {
	s.w.speakAs(src, text)
}

func (s scriptAPI) Sysmsg(p *entity.Player, text string) {
	p.SendSysmsg(text)
}

// Schedule arms a timer whose callback re-enters the world through the
// lock, same as any other timer.
func (s scriptAPI) Schedule(delay time.Duration, fn func()) {
	w := s.w
	w.timers.Schedule(delay, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		fn()
	})
}

func (s scriptAPI) FindObject(serial int64) entity.Entity {
	return s.w.reg.FindObject(serial)
}

func (s scriptAPI) Roller() *dice.Roller { return s.w.roller }

// gold shorthand for the shop and command handlers.
func goldAmount(p *entity.Player) int {
	bp := p.Backpack()
	if bp == nil {
		return 0
	}
	return bp.AmountByType(content.GfxGold)
}

// rewardExperience grants experience and handles level-ups.
func (w *World) rewardExperience(m *entity.Mobile, amount int64) {
	m.RewardAttribute(attr.Experience, amount)
	for m.Attribute(attr.Experience) >= m.Attribute(attr.NextLevel) {
		exp := m.Attribute(attr.Experience) - m.Attribute(attr.NextLevel)
		m.RewardAttribute(attr.Level, 1)
		if err := m.SetAttribute(attr.Experience, exp); err != nil {
			w.logger.Error("resetting experience", zap.Error(err))
			return
		}
		if p, ok := m.Self().(*entity.Player); ok {
			p.SendSysmsg(fmt.Sprintf("You have reached level %d!", m.Attribute(attr.Level)))
		}
	}
}
