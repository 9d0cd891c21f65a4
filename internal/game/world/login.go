package world

import (
	"strings"

	"go.uber.org/zap"

	"github.com/shardmud/shard/internal/game/attr"
	"github.com/shardmud/shard/internal/game/content"
	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/game/magic"
	"github.com/shardmud/shard/internal/protocol"
)

// Default stats for character creation requests that fail validation.
const (
	defaultStrength     = 30
	defaultDexterity    = 30
	defaultIntelligence = 20
	maxCreationStatSum  = 80
	newbieGold          = 100
)

// Login authenticates a client against an existing character, or creates
// one when the request carries serial zero. On success the player is
// returned online; on failure the reason has been sent and nil returned.
func (w *World) Login(conn protocol.Conn, req *protocol.LoginRequest) *entity.Player {
	w.mu.Lock()
	defer w.mu.Unlock()

	if req.Serial == 0 {
		return w.createCharacter(conn, req)
	}

	p := w.reg.FindPlayer(req.Serial)
	if p == nil {
		_ = conn.Send(&protocol.LoginError{Reason: protocol.LoginCharNotFound})
		return nil
	}
	if !p.CheckPassword(req.Password) {
		w.logger.Info("rejected login",
			zap.Int64("serial", req.Serial),
			zap.String("remote", conn.RemoteAddr()),
			zap.String("reason", protocol.LoginBadPassword),
		)
		_ = conn.Send(&protocol.LoginError{Reason: protocol.LoginBadPassword})
		return nil
	}
	if p.Online() {
		_ = conn.Send(&protocol.LoginError{Reason: protocol.LoginAlreadyOnline})
		return nil
	}

	p.SetSeed(req.Seed)
	w.enterWorld(p, conn)
	return p
}

// createCharacter builds a fresh player with newbie equipment and brings
// them into the world.
func (w *World) createCharacter(conn protocol.Conn, req *protocol.LoginRequest) *entity.Player {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		_ = conn.Send(&protocol.LoginError{Reason: protocol.LoginCharNotFound})
		return nil
	}
	if w.findPlayerByName(name) != nil {
		_ = conn.Send(&protocol.LoginError{Reason: protocol.LoginNameTaken})
		return nil
	}

	graphic := req.Graphic
	if graphic != content.MobHumanMale && graphic != content.MobHumanFemale {
		graphic = content.MobHumanMale
	}

	p := entity.NewPlayer(w.reg.NextMobileSerial(), graphic, w.defs)
	p.SetName(name)
	p.SetSeed(req.Seed)
	p.SetEmail(req.Email)
	p.SetRealName(req.RealName)
	if err := p.SetPassword(req.Password); err != nil {
		w.logger.Error("hashing password", zap.Error(err))
		_ = conn.Send(&protocol.LoginError{Reason: protocol.LoginCharNotFound})
		return nil
	}

	str, dex, intel := req.Strength, req.Dexterity, req.Intelligence
	if str <= 0 || dex <= 0 || intel <= 0 || str+dex+intel > maxCreationStatSum {
		str, dex, intel = defaultStrength, defaultDexterity, defaultIntelligence
	}
	mob := p.AsMobile()
	for a, v := range map[attr.Attribute]int64{
		attr.Strength:     str,
		attr.Dexterity:    dex,
		attr.Intelligence: intel,
		attr.Level:        1,
	} {
		if err := mob.SetAttribute(a, v); err != nil {
			w.logger.Error("setting creation attribute", zap.Error(err))
		}
	}
	mob.RefreshStats()

	if req.SkinHue != 0 {
		p.SetHue(req.SkinHue)
	}

	if err := w.register(p); err != nil {
		w.logger.Error("registering new character", zap.Error(err))
		_ = conn.Send(&protocol.LoginError{Reason: protocol.LoginCharNotFound})
		return nil
	}
	p.SetLocation(NewCharacterLocation)
	w.outfitNewCharacter(p, req)

	w.logger.Info("character created",
		zap.Int64("serial", p.Serial()),
		zap.String("name", name),
		zap.String("remote", conn.RemoteAddr()),
	)
	w.enterWorld(p, conn)
	return p
}

// outfitNewCharacter grants the starting equipment: clothes, hair, a
// backpack with a dagger, gold, and a spellbook holding a light scroll.
func (w *World) outfitNewCharacter(p *entity.Player, req *protocol.LoginRequest) {
	mob := p.AsMobile()

	if req.HairStyle >= 0 && content.GfxHairStart+req.HairStyle <= content.GfxHairEnd {
		if hair, err := w.createItemEquipped(mob, content.GfxHairStart+req.HairStyle, req.HairHue, ""); err != nil {
			w.logger.Warn("creating hair", zap.Error(err))
		} else {
			p.SetHairStyle(hair.Graphic())
			p.SetHairHue(req.HairHue)
		}
	}

	wardrobe := []int{content.GfxTunic, content.GfxPants}
	if p.Graphic() == content.MobHumanFemale {
		wardrobe[1] = content.GfxSkirt
	}
	for _, g := range wardrobe {
		if _, err := w.createItemEquipped(mob, g, 0, ""); err != nil {
			w.logger.Warn("creating starting clothes", zap.Error(err))
		}
	}

	backpack, err := w.createItemEquipped(mob, content.GfxBackpack, 0, "")
	if err != nil {
		w.logger.Error("creating starting backpack", zap.Error(err))
		return
	}
	if _, err := w.createItemIn(backpack, content.GfxDagger, 1, ""); err != nil {
		w.logger.Warn("creating starting dagger", zap.Error(err))
	}
	if _, err := w.createItemIn(backpack, content.GfxGold, newbieGold, ""); err != nil {
		w.logger.Warn("creating starting gold", zap.Error(err))
	}
	book, err := w.createItemIn(backpack, content.GfxSpellbook, 1, "")
	if err != nil {
		w.logger.Warn("creating starting spellbook", zap.Error(err))
		return
	}
	if _, err := w.createItemIn(book, magic.Light.ScrollGraphic(), 1, ""); err != nil {
		w.logger.Warn("creating starting scroll", zap.Error(err))
	}
}

// enterWorld attaches the connection and runs the init sequence: the
// client learns who it is, what the world looks like, and its own status.
func (w *World) enterWorld(p *entity.Player, conn protocol.Conn) {
	p.SetConn(conn)

	p.Send(&protocol.LoginOK{
		Serial:   p.Serial(),
		Seed:     p.Seed(),
		Graphic:  p.Graphic(),
		Hue:      p.Hue(),
		Name:     p.Name(),
		Location: p.Location(),
		Facing:   p.Facing().String(),
	})
	p.Send(&protocol.GlobalLight{Level: w.lightLevel})

	mob := p.AsMobile()
	for _, it := range mob.EquippedItems() {
		if it.Layer() != 0 {
			p.Send(buildEquipUpdate(it, mob))
		}
	}
	p.Send(buildStats(mob, true))
	p.Send(buildSkills(mob, false))

	w.sendSurroundings(p)
	p.AnnouncePresence()
	w.startRefresh(mob)

	w.logger.Info("player entered world",
		zap.Int64("serial", p.Serial()),
		zap.String("name", p.Name()),
		zap.String("remote", conn.RemoteAddr()),
	)
}

// sendSurroundings announces everything visible around p.
func (w *World) sendSurroundings(p *entity.Player) {
	loc := p.Location().XY()
	for _, e := range w.reg.AllObjects() {
		if e.Serial() == p.Serial() || !e.Visible() {
			continue
		}
		if e.InRange(loc, VisibleRange) {
			w.sendObject(p, e)
		}
	}
	for _, e := range w.reg.Statics() {
		if e.Visible() && e.InRange(loc, VisibleRange) {
			p.Send(buildObjectInfo(e))
		}
	}
}

// Logout detaches the player's connection. The player stays registered
// and persists; the visibility change removes them from nearby views.
func (w *World) Logout(p *entity.Player) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !p.Online() {
		return
	}
	w.logger.Info("player left world",
		zap.Int64("serial", p.Serial()),
		zap.String("name", p.Name()),
	)
	p.SetConn(nil)
	p.AnnouncePresence()
}
