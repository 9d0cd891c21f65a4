package world

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/shardmud/shard/internal/game/attr"
	"github.com/shardmud/shard/internal/game/content"
	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/game/magic"
	"github.com/shardmud/shard/internal/protocol"
)

// castSkillCeiling is the magic skill value beyond which casting always
// succeeds (and teaches nothing).
const castSkillCeiling = 800

// Action handles spellbook and spellcasting requests.
func (w *World) Action(p *entity.Player, req *protocol.Action) {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch req.Mode {
	case protocol.ActionOpenSpellbook:
		w.openSpellbook(p)
	case protocol.ActionCastSpell:
		w.castByName(p, req.Text)
	case protocol.ActionUseScroll:
		w.castFromScroll(p, req.Text)
	}
}

func (w *World) openSpellbook(p *entity.Player) {
	book := p.Spellbook()
	if book == nil {
		p.SendSysmsg("You have no spellbook.")
		return
	}
	p.Send(&protocol.OpenDialog{Serial: book.Serial(), Gump: content.GumpSpellbook})
	p.Send(buildContainerContents(book.Serial(), book.Children(), false))
}

// castByName casts a memorized spell: the spellbook must hold its scroll,
// mana is consumed up front, and the magic skill decides success.
func (w *World) castByName(p *entity.Player, name string) {
	sp, ok := magic.ByName(strings.ToLower(strings.TrimSpace(name)))
	if !ok {
		p.SendSysmsg("You mumble words without meaning.")
		return
	}
	if !p.HasSpell(sp) {
		p.SendSysmsg("You have not learned that spell.")
		return
	}
	w.cast(p, sp, true)
}

// castFromScroll casts directly off a scroll, consuming it. The scroll
// carries the magic; no spellbook or mana is needed.
func (w *World) castFromScroll(p *entity.Player, serialText string) {
	serial, err := strconv.ParseInt(strings.TrimSpace(serialText), 10, 64)
	if err != nil {
		return
	}
	scroll := w.reg.FindItem(serial)
	if scroll == nil {
		return
	}
	w.castScrollItem(p, scroll)
}

// castScrollItem consumes one scroll and fires its spell.
func (w *World) castScrollItem(p *entity.Player, scroll *entity.Item) {
	sp, ok := magic.FromScrollGraphic(scroll.Graphic())
	if !ok {
		return
	}
	if ok, refusal := p.TryAccess(scroll); !ok {
		p.SendSysmsg(refusal)
		return
	}
	scroll.Consume(1)
	w.invokeSpell(p, sp)
}

// cast runs the common casting sequence: mana, skill check, effect.
func (w *World) cast(p *entity.Player, sp magic.Spell, useMana bool) {
	handler := w.scripts.Spell(sp)
	if handler == nil {
		p.SendSysmsg("Nothing happens.")
		return
	}
	if useMana && !p.ConsumeAttribute(attr.Mana, handler.ManaCost()) {
		p.SendSysmsg("You lack the mana.")
		return
	}
	if !p.AsMobile().CheckSkill(w.roller, attr.Magic, 0, castSkillCeiling) {
		p.SendSysmsg("The spell fizzles.")
		return
	}
	if err := handler.Cast(p); err != nil {
		w.logger.Warn("spell effect failed",
			zap.Int64("caster", p.Serial()),
			zap.String("spell", sp.String()),
			zap.Error(err),
		)
	}
}

// invokeSpell fires the effect without mana or skill gates, the scroll
// path.
func (w *World) invokeSpell(p *entity.Player, sp magic.Spell) {
	handler := w.scripts.Spell(sp)
	if handler == nil {
		p.SendSysmsg("Nothing happens.")
		return
	}
	if err := handler.Cast(p); err != nil {
		w.logger.Warn("spell effect failed",
			zap.Int64("caster", p.Serial()),
			zap.String("spell", sp.String()),
			zap.Error(err),
		)
	}
}
