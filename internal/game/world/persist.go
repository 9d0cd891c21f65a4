package world

import (
	"encoding/gob"
	"fmt"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/shardmud/shard/internal/game/attr"
	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/game/geometry"
	"github.com/shardmud/shard/internal/game/schedule"
)

// autosaveInterval is how often the world snapshots itself to disk.
const autosaveInterval = 10 * time.Minute

// itemRecord is the persisted form of one item. ParentSerial zero means
// the item lies on the ground.
type itemRecord struct {
	Serial       int64
	ParentSerial int64
	Graphic      int
	Hue          int
	Amount       int
	Name         string
	Location     geometry.Point3D
	LightLevel   int
	Behavior     string
}

// npcRecord is the persisted form of one scripted mobile.
type npcRecord struct {
	Serial     int64
	Graphic    int
	Hue        int
	Name       string
	Facing     uint8
	Location   geometry.Point3D
	HairStyle  int
	HairHue    int
	Attributes map[attr.Attribute]int64
	Behavior   string
}

// playerRecord is the persisted form of one player character.
type playerRecord struct {
	Serial       int64
	Graphic      int
	Hue          int
	Name         string
	Facing       uint8
	Location     geometry.Point3D
	HairStyle    int
	HairHue      int
	Attributes   map[attr.Attribute]int64
	PasswordHash []byte
	CommandLevel int
	Email        string
	RealName     string
}

// saveFile is the full snapshot.
type saveFile struct {
	Hour    int
	Items   []itemRecord
	NPCs    []npcRecord
	Players []playerRecord
}

// Save snapshots the world to the configured save path.
func (w *World) Save() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.save()
}

func (w *World) save() error {
	if w.savePath == "" {
		return fmt.Errorf("world: no save path configured")
	}

	snap := saveFile{Hour: w.hour}
	for _, e := range w.reg.AllObjects() {
		switch t := e.(type) {
		case *entity.Item:
			snap.Items = append(snap.Items, snapshotItem(t))
		case *entity.NPC:
			snap.NPCs = append(snap.NPCs, snapshotNPC(t))
		case *entity.Player:
			snap.Players = append(snap.Players, snapshotPlayer(t))
		}
	}

	tmp := w.savePath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("world: creating save file: %w", err)
	}
	zw := gzip.NewWriter(f)
	if err := gob.NewEncoder(zw).Encode(&snap); err != nil {
		f.Close()
		return fmt.Errorf("world: encoding save: %w", err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("world: flushing save: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("world: closing save: %w", err)
	}
	if err := os.Rename(tmp, w.savePath); err != nil {
		return fmt.Errorf("world: committing save: %w", err)
	}

	w.logger.Info("world saved",
		zap.String("path", w.savePath),
		zap.Int("items", len(snap.Items)),
		zap.Int("npcs", len(snap.NPCs)),
		zap.Int("players", len(snap.Players)),
	)
	return nil
}

func snapshotItem(it *entity.Item) itemRecord {
	rec := itemRecord{
		Serial:     it.Serial(),
		Graphic:    it.Graphic(),
		Hue:        it.Hue(),
		Amount:     it.Amount(),
		Name:       it.Name(),
		Location:   it.Location(),
		LightLevel: it.LightLevel(),
		Behavior:   it.Behavior(),
	}
	if parent := it.Parent(); parent != nil {
		rec.ParentSerial = parent.Serial()
	}
	return rec
}

func snapshotAttributes(m *entity.Mobile) map[attr.Attribute]int64 {
	res := make(map[attr.Attribute]int64)
	for a := attr.Strength; a <= attr.Stealing; a++ {
		if a.IsDerived() {
			continue
		}
		if v := m.Attribute(a); v != 0 {
			res[a] = v
		}
	}
	return res
}

func snapshotNPC(n *entity.NPC) npcRecord {
	return npcRecord{
		Serial:     n.Serial(),
		Graphic:    n.Graphic(),
		Hue:        n.Hue(),
		Name:       n.Name(),
		Facing:     uint8(n.Facing()),
		Location:   n.Location(),
		HairStyle:  n.HairStyle(),
		HairHue:    n.HairHue(),
		Attributes: snapshotAttributes(n.AsMobile()),
		Behavior:   n.Behavior(),
	}
}

func snapshotPlayer(p *entity.Player) playerRecord {
	return playerRecord{
		Serial:       p.Serial(),
		Graphic:      p.Graphic(),
		Hue:          p.Hue(),
		Name:         p.Name(),
		Facing:       uint8(p.AsMobile().Facing()),
		Location:     p.Location(),
		HairStyle:    p.HairStyle(),
		HairHue:      p.HairHue(),
		Attributes:   snapshotAttributes(p.AsMobile()),
		PasswordHash: p.PasswordHash(),
		CommandLevel: p.CommandLevel(),
		Email:        p.Email(),
		RealName:     p.RealName(),
	}
}

// Load restores a snapshot. Pass one recreates every entity; pass two
// reattaches children to their remembered parents, dropping on the ground
// anything whose parent did not survive. Call before Init.
func (w *World) Load() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.Open(w.savePath)
	if err != nil {
		return fmt.Errorf("world: opening save: %w", err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("world: reading save: %w", err)
	}
	defer zr.Close()

	var snap saveFile
	if err := gob.NewDecoder(zr).Decode(&snap); err != nil {
		return fmt.Errorf("world: decoding save: %w", err)
	}

	w.hour = snap.Hour

	items := make(map[int64]*entity.Item, len(snap.Items))
	for _, rec := range snap.Items {
		it, err := w.restoreItem(rec)
		if err != nil {
			w.logger.Error("restoring item", zap.Int64("serial", rec.Serial), zap.Error(err))
			continue
		}
		items[rec.Serial] = it
	}
	for _, rec := range snap.NPCs {
		if err := w.restoreNPC(rec); err != nil {
			w.logger.Error("restoring npc", zap.Int64("serial", rec.Serial), zap.Error(err))
		}
	}
	for _, rec := range snap.Players {
		if err := w.restorePlayer(rec); err != nil {
			w.logger.Error("restoring player", zap.Int64("serial", rec.Serial), zap.Error(err))
		}
	}

	// Reattachment pass: every contained or worn item finds its parent
	// again. An item whose parent did not survive the restore is deleted
	// with it.
	for _, rec := range snap.Items {
		it := items[rec.Serial]
		if it == nil || rec.ParentSerial == 0 {
			continue
		}
		parent := w.reg.FindObject(rec.ParentSerial)
		if parent == nil {
			w.logger.Warn("deleting orphaned item, parent missing",
				zap.Int64("serial", rec.Serial),
				zap.Int64("parent", rec.ParentSerial),
			)
			it.ClearParent()
			it.Delete()
			continue
		}
		parent.FoundOrphan(it)
	}

	// Behavior hooks fire only once the graph is whole.
	for _, it := range items {
		if it.Deleted() {
			continue
		}
		if impl := it.BehaviorImpl(); impl != nil {
			if err := impl.OnLoad(it); err != nil {
				w.logger.Warn("item load hook failed",
					zap.Int64("serial", it.Serial()),
					zap.Error(err),
				)
			}
		}
	}

	w.logger.Info("world loaded",
		zap.String("path", w.savePath),
		zap.Int("items", len(snap.Items)),
		zap.Int("npcs", len(snap.NPCs)),
		zap.Int("players", len(snap.Players)),
	)
	return nil
}

func (w *World) restoreItem(rec itemRecord) (*entity.Item, error) {
	it := entity.NewItem(rec.Serial, rec.Graphic, w.defs)
	it.SetName(rec.Name)
	if rec.Hue != 0 {
		it.SetHue(rec.Hue)
	}
	if rec.Amount > 1 {
		it.SetAmount(rec.Amount)
	}
	if rec.LightLevel != it.LightLevel() {
		it.SetLightLevel(rec.LightLevel)
	}
	if rec.Behavior != "" {
		impl, err := w.scripts.ResolveItemBehavior(rec.Behavior)
		if err != nil {
			return nil, err
		}
		it.SetBehavior(rec.Behavior, impl)
	}
	if err := w.register(it); err != nil {
		return nil, err
	}
	it.SetLocation(rec.Location)
	return it, nil
}

// restoreAttributes writes stats before resources so the clamps see the
// right maxima.
func restoreAttributes(m *entity.Mobile, values map[attr.Attribute]int64) error {
	resources := []attr.Attribute{attr.Hits, attr.Mana, attr.Fatigue}
	for a, v := range values {
		if a == attr.Hits || a == attr.Mana || a == attr.Fatigue {
			continue
		}
		if err := m.SetAttribute(a, v); err != nil {
			return err
		}
	}
	for _, a := range resources {
		if err := m.SetAttribute(a, values[a]); err != nil {
			return err
		}
	}
	return nil
}

func (w *World) restoreNPC(rec npcRecord) error {
	n := entity.NewNPC(rec.Serial, rec.Graphic, w.defs)
	n.SetName(rec.Name)
	if rec.Hue != 0 {
		n.SetHue(rec.Hue)
	}
	n.SetHairStyle(rec.HairStyle)
	n.SetHairHue(rec.HairHue)
	n.SetFacing(geometry.Direction(rec.Facing))
	if err := restoreAttributes(n.AsMobile(), rec.Attributes); err != nil {
		return err
	}
	if rec.Behavior != "" {
		impl, err := w.scripts.ResolveMobileBehavior(rec.Behavior)
		if err != nil {
			return err
		}
		n.SetBehavior(rec.Behavior, impl)
	}
	if err := w.register(n); err != nil {
		return err
	}
	n.SetLocation(rec.Location)
	if impl := n.BehaviorImpl(); impl != nil {
		if err := impl.OnLoad(n); err != nil {
			w.logger.Warn("npc load hook failed",
				zap.Int64("serial", n.Serial()),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (w *World) restorePlayer(rec playerRecord) error {
	p := entity.NewPlayer(rec.Serial, rec.Graphic, w.defs)
	p.SetName(rec.Name)
	if rec.Hue != 0 {
		p.SetHue(rec.Hue)
	}
	p.SetHairStyle(rec.HairStyle)
	p.SetHairHue(rec.HairHue)
	p.AsMobile().SetFacing(geometry.Direction(rec.Facing))
	p.RestorePasswordHash(rec.PasswordHash)
	p.SetCommandLevel(rec.CommandLevel)
	p.SetEmail(rec.Email)
	p.SetRealName(rec.RealName)
	if err := restoreAttributes(p.AsMobile(), rec.Attributes); err != nil {
		return err
	}
	if err := w.register(p); err != nil {
		return err
	}
	p.SetLocation(rec.Location)
	return nil
}

// startAutosave arms the periodic snapshot loop.
func (w *World) startAutosave() {
	if w.savePath == "" {
		return
	}
	var t *schedule.Timer
	t = schedule.NewTimer(autosaveInterval, func() {
		if err := w.Save(); err != nil {
			w.logger.Error("autosave failed", zap.Error(err))
		}
		w.timers.Reschedule(t)
	})
	w.timers.Reschedule(t)
}
