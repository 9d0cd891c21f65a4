// Package magic defines the spell enumeration and its mapping to scroll
// item graphics.
package magic

import (
	"fmt"

	"github.com/shardmud/shard/internal/game/content"
)

// Spell identifies one castable spell.
type Spell int

const (
	Light Spell = iota + 1
	GreatLight
	LightSource
	DarkSource
	Healing
	Fireball
	CreateFood
)

var spellNames = map[Spell]string{
	Light:       "light",
	GreatLight:  "great light",
	LightSource: "lightsource",
	DarkSource:  "darksource",
	Healing:     "healing",
	Fireball:    "fireball",
	CreateFood:  "create food",
}

func (s Spell) String() string {
	if n, ok := spellNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Spell(%d)", int(s))
}

// Valid reports whether s is a defined spell.
func (s Spell) Valid() bool {
	_, ok := spellNames[s]
	return ok
}

// ByName resolves a spell from its spoken name.
func ByName(name string) (Spell, bool) {
	for s, n := range spellNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

var scrollGraphics = map[Spell]int{
	Light:       content.GfxScrollLight,
	GreatLight:  content.GfxScrollGreatlight,
	LightSource: content.GfxScrollLightsource,
	DarkSource:  content.GfxScrollDarksource,
	Healing:     content.GfxScrollHealing,
	Fireball:    content.GfxScrollFireball,
	CreateFood:  content.GfxScrollCreatefood,
}

// ScrollGraphic returns the item graphic of the scroll that teaches or
// casts s, or 0 if s is unknown.
func (s Spell) ScrollGraphic() int {
	return scrollGraphics[s]
}

// FromScrollGraphic resolves the spell taught by a scroll graphic.
//
// Postcondition: ok is false iff graphic is not a spell scroll.
func FromScrollGraphic(graphic int) (Spell, bool) {
	for s, g := range scrollGraphics {
		if g == graphic {
			return s, true
		}
	}
	return 0, false
}

// All returns every defined spell.
func All() []Spell {
	return []Spell{Light, GreatLight, LightSource, DarkSource, Healing, Fireball, CreateFood}
}
