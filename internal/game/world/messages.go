package world

import (
	"github.com/shardmud/shard/internal/game/attr"
	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/protocol"
)

// buildObjectInfo renders an entity for the client's world view.
func buildObjectInfo(e entity.Entity) *protocol.ObjectInfo {
	info := &protocol.ObjectInfo{
		Serial:   e.Serial(),
		Graphic:  e.Graphic(),
		Hue:      e.Hue(),
		Name:     e.Name(),
		Location: e.Location(),
	}
	if it, ok := e.(*entity.Item); ok && it.IsStackable() {
		info.Amount = it.Amount()
	}
	if m := asMobile(e); m != nil {
		info.Facing = m.Facing().String()
	}
	return info
}

// buildStats renders the stat window. Own stats disclose everything;
// foreign mobiles only name and hit points.
func buildStats(m *entity.Mobile, own bool) *protocol.Stats {
	s := &protocol.Stats{
		Serial:  m.Serial(),
		Name:    m.Name(),
		Hits:    m.Attribute(attr.Hits),
		MaxHits: m.Attribute(attr.MaxHits),
	}
	if own {
		s.Mana = m.Attribute(attr.Mana)
		s.MaxMana = m.Attribute(attr.MaxMana)
		s.Fatigue = m.Attribute(attr.Fatigue)
		s.MaxFatigue = m.Attribute(attr.MaxFatigue)
		s.Strength = m.Attribute(attr.Strength)
		s.Dexterity = m.Attribute(attr.Dexterity)
		s.Intellect = m.Attribute(attr.Intelligence)
		s.Level = m.Attribute(attr.Level)
		s.Experience = m.Attribute(attr.Experience)
		s.NextLevel = m.Attribute(attr.NextLevel)
	}
	return s
}

// buildSkills renders every skill the mobile has a value for.
func buildSkills(m *entity.Mobile, openWindow bool) *protocol.Skills {
	values := make(map[string]int64)
	for _, a := range attr.Skills() {
		values[a.String()] = m.Attribute(a)
	}
	return &protocol.Skills{Values: values, OpenWindow: openWindow}
}

// buildContainerItem renders one container entry. Shop listings carry the
// unit price and name.
func buildContainerItem(it *entity.Item, withPrice bool) protocol.ContainerItem {
	entry := protocol.ContainerItem{
		Serial:  it.Serial(),
		Graphic: it.Graphic(),
		Hue:     it.Hue(),
		Amount:  it.Amount(),
		Offset:  it.Location().XY(),
	}
	if withPrice {
		entry.Price = it.Price()
		entry.Name = it.Name()
	}
	return entry
}

// buildContainerContents renders a full container listing.
func buildContainerContents(serial int64, items []*entity.Item, withPrice bool) *protocol.ContainerContents {
	msg := &protocol.ContainerContents{ContainerSerial: serial}
	for _, c := range items {
		msg.Items = append(msg.Items, buildContainerItem(c, withPrice))
	}
	return msg
}

// buildEquipUpdate renders a worn item.
func buildEquipUpdate(it *entity.Item, wearer *entity.Mobile) *protocol.EquipUpdate {
	return &protocol.EquipUpdate{
		WearerSerial: wearer.Serial(),
		ItemSerial:   it.Serial(),
		Graphic:      it.Graphic(),
		Hue:          it.Hue(),
		Layer:        it.Layer(),
	}
}
