package world

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/shardmud/shard/internal/game/content"
	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/protocol"
)

// Move handles one movement request. A request towards a new facing is a
// pure turn; a request along the current facing is a step validated
// against the terrain. The sequence number is echoed either way so the
// client can reconcile its prediction.
func (w *World) Move(p *entity.Player, req *protocol.MoveRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !req.Direction.Valid() {
		w.denyMove(p, req.Sequence)
		return
	}
	mob := p.AsMobile()

	if mob.Facing() != req.Direction {
		mob.SetFacing(req.Direction)
		p.Send(&protocol.MoveAck{Sequence: req.Sequence})
		return
	}

	dest, ok := w.terrain.Step(p.Location(), req.Direction)
	if !ok {
		w.denyMove(p, req.Sequence)
		return
	}
	p.SetWalking(!p.Walking())
	p.SetLocation(dest)
	p.Send(&protocol.MoveAck{Sequence: req.Sequence})
}

func (w *World) denyMove(p *entity.Player, sequence int) {
	p.Send(&protocol.MoveDeny{
		Sequence: sequence,
		Location: p.Location(),
		Facing:   p.AsMobile().Facing().String(),
	})
}

// SingleClick shows the clicked object's name.
func (w *World) SingleClick(p *entity.Player, serial int64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	e := w.reg.FindObject(serial)
	if e == nil {
		return
	}
	if p.OnTargetObject(e) {
		return
	}

	switch t := e.(type) {
	case *entity.Item:
		name := t.Name()
		if t.IsStackable() && t.Amount() > 1 {
			name = fmt.Sprintf("%d %ss", t.Amount(), name)
		}
		p.Send(&protocol.Text{
			SourceSerial: serial,
			Mode:         protocol.TextModeSee,
			Color:        protocol.ColorSystem,
			Text:         name,
		})
	case *entity.NPC:
		p.Send(&protocol.Text{
			SourceSerial: serial,
			Mode:         protocol.TextModeSee,
			Color:        protocol.ColorSeeNPC,
			Text:         t.DecoratedName(),
		})
	case *entity.Player:
		p.Send(&protocol.Text{
			SourceSerial: serial,
			Mode:         protocol.TextModeSee,
			Color:        protocol.ColorSeePlayer,
			Text:         t.Name(),
		})
	}
}

// DoubleClick uses an object: items run their behavior or default action,
// NPCs consult their script, mobiles open the paperdoll.
func (w *World) DoubleClick(p *entity.Player, serial int64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	e := w.reg.FindObject(serial)
	if e == nil {
		return
	}
	if p.OnTargetObject(e) {
		return
	}

	switch t := e.(type) {
	case *entity.Item:
		w.useItem(p, t)
	case *entity.NPC:
		proceed := true
		if impl := t.BehaviorImpl(); impl != nil {
			var err error
			proceed, err = impl.OnDoubleClick(t, p)
			if err != nil {
				w.logger.Warn("double-click hook failed",
					zap.Int64("npc", t.Serial()),
					zap.Error(err),
				)
				proceed = false
			}
		}
		if proceed {
			if stock := t.EquipmentByLayer(content.LayerShop); stock != nil {
				w.openShop(p, stock)
			} else {
				p.Send(&protocol.OpenDialog{Serial: serial, Gump: content.GumpPaperdoll})
			}
		}
	case *entity.Player:
		p.Send(&protocol.OpenDialog{Serial: serial, Gump: content.GumpPaperdoll})
	}
}

// useItem applies an item's behavior hook, falling back to the default
// action for its kind.
func (w *World) useItem(p *entity.Player, it *entity.Item) {
	if ok, refusal := p.TryAccess(it); !ok {
		p.SendSysmsg(refusal)
		return
	}

	if impl := it.BehaviorImpl(); impl != nil {
		if err := impl.OnUse(p, it); err != nil {
			w.logger.Warn("item use hook failed",
				zap.Int64("item", it.Serial()),
				zap.String("behavior", it.Behavior()),
				zap.Error(err),
			)
		}
		return
	}

	if it.IsContainer() {
		w.openContainer(p, it)
	}
}

// openContainer sends the container dialog and its full listing.
func (w *World) openContainer(p *entity.Player, it *entity.Item) {
	gump := it.GumpID()
	if gump == 0 {
		gump = content.GumpBackpack
	}
	p.Send(&protocol.OpenDialog{Serial: it.Serial(), Gump: gump})
	p.Send(buildContainerContents(it.Serial(), it.Children(), false))
}

// Speak handles spoken text. A leading '#' marks a text command; anything
// else is said aloud to everyone within speech range, and nearby NPCs get
// a chance to react.
func (w *World) Speak(p *entity.Player, req *protocol.Speech) {
	w.mu.Lock()
	defer w.mu.Unlock()

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return
	}
	if strings.HasPrefix(text, "#") {
		w.runTextCommand(p, strings.TrimPrefix(text, "#"))
		return
	}

	color := req.Color
	if color == 0 {
		color = protocol.ColorSay
	}
	w.broadcastSpeech(p, text, color)

	lower := strings.ToLower(text)
	for _, e := range w.reg.AllObjects() {
		n, ok := e.(*entity.NPC)
		if !ok || n.BehaviorImpl() == nil || !n.InRange(p.Location().XY(), SpeechRange) {
			continue
		}
		var err error
		if strings.Contains(lower, "hello") || strings.Contains(lower, "hail") {
			err = n.BehaviorImpl().OnHello(n, p)
		} else {
			err = n.BehaviorImpl().OnSpeech(n, p, text)
		}
		if err != nil {
			w.logger.Warn("speech hook failed",
				zap.Int64("npc", n.Serial()),
				zap.Error(err),
			)
		}
	}
}

// broadcastSpeech delivers spoken text to everyone in speech range,
// including the speaker.
func (w *World) broadcastSpeech(src entity.Entity, text string, color int) {
	msg := &protocol.Text{
		SourceSerial: src.Serial(),
		Mode:         protocol.TextModeSay,
		Color:        color,
		Text:         text,
	}
	for _, p := range w.playersNear(src.Location().XY(), SpeechRange) {
		p.Send(msg)
	}
}

// speakAs voices an entity, used by NPC scripts.
func (w *World) speakAs(src entity.Entity, text string) {
	w.broadcastSpeech(src, text, protocol.ColorSay)
}

// Status answers a stats or skills request. Full stats are private; a
// foreign mobile discloses only name and hit points.
func (w *World) Status(p *entity.Player, req *protocol.StatusRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	target := w.reg.FindMobile(req.Serial)
	if target == nil {
		return
	}
	switch req.Mode {
	case protocol.RequestSkills:
		if target.Serial() == p.Serial() {
			p.Send(buildSkills(target, true))
		}
	default:
		p.Send(buildStats(target, target.Serial() == p.Serial()))
	}
}
