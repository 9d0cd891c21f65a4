package world

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/game/geometry"
	"github.com/shardmud/shard/internal/protocol"
)

// runTextCommand dispatches a '#'-prefixed chat command. Unprivileged
// players get the information commands; everything that mutates the world
// needs a command level.
func (w *World) runTextCommand(p *entity.Player, cmd string) {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "where":
		p.SendSysmsg(fmt.Sprintf("You are at %s.", p.Location()))
	case "time":
		p.SendSysmsg(fmt.Sprintf("It is %d o'clock.", w.hour))
	case "resurrect":
		if p.IsDead() {
			p.SetLocation(ResurrectLocation)
			p.RefreshStats()
			p.SendSysmsg("You feel life returning to your body.")
		}
	default:
		if p.CommandLevel() < 1 {
			p.SendSysmsg("Unknown command.")
			return
		}
		w.runAdminCommand(p, fields)
	}
}

func (w *World) runAdminCommand(p *entity.Player, fields []string) {
	switch fields[0] {
	case "go":
		if len(fields) < 3 {
			p.SendSysmsg("Usage: #go <x> <y>")
			return
		}
		x, errX := strconv.Atoi(fields[1])
		y, errY := strconv.Atoi(fields[2])
		if errX != nil || errY != nil {
			p.SendSysmsg("Usage: #go <x> <y>")
			return
		}
		loc := geometry.Point3D{X: x, Y: y}
		if z, ok := w.terrain.ElevationAt(loc.XY()); ok {
			loc.Z = z
		}
		p.SetLocation(loc)

	case "create":
		if len(fields) < 2 {
			p.SendSysmsg("Usage: #create <graphic> [behavior]")
			return
		}
		graphic, err := parseGraphic(fields[1])
		if err != nil {
			p.SendSysmsg("Bad graphic.")
			return
		}
		behavior := ""
		if len(fields) > 2 {
			behavior = fields[2]
		}
		if _, err := w.createItemAt(p.Location(), graphic, behavior); err != nil {
			p.SendSysmsg(fmt.Sprintf("Create failed: %v", err))
		}

	case "npc":
		if len(fields) < 2 {
			p.SendSysmsg("Usage: #npc <graphic> [behavior]")
			return
		}
		graphic, err := parseGraphic(fields[1])
		if err != nil {
			p.SendSysmsg("Bad graphic.")
			return
		}
		behavior := ""
		if len(fields) > 2 {
			behavior = fields[2]
		}
		if _, err := w.createNPC(p.Location(), graphic, behavior); err != nil {
			p.SendSysmsg(fmt.Sprintf("Spawn failed: %v", err))
		}

	case "save":
		if err := w.save(); err != nil {
			w.logger.Error("manual save failed", zap.Error(err))
			p.SendSysmsg(fmt.Sprintf("Save failed: %v", err))
			return
		}
		p.SendSysmsg("World saved.")

	case "broadcast":
		if len(fields) < 2 {
			return
		}
		text := strings.Join(fields[1:], " ")
		for _, other := range w.reg.AllPlayers() {
			if other.Online() {
				other.SendSysmsg(text)
			}
		}

	case "light":
		if len(fields) < 2 {
			return
		}
		level, err := strconv.Atoi(fields[1])
		if err != nil {
			return
		}
		w.lightLevel = level
		for _, other := range w.reg.AllPlayers() {
			if other.Online() {
				other.Send(&protocol.GlobalLight{Level: level})
			}
		}

	default:
		p.SendSysmsg("Unknown command.")
	}
}

// parseGraphic accepts decimal or 0x-prefixed hex graphics.
func parseGraphic(s string) (int, error) {
	v, err := strconv.ParseInt(s, 0, 32)
	return int(v), err
}
