// Package attr defines the named attributes of a mobile: base stats,
// resources, derived values, and skills.
package attr

import "fmt"

// Attribute identifies a single named value on a mobile.
type Attribute int

const (
	Strength Attribute = iota
	Dexterity
	Intelligence
	Hits
	Mana
	Fatigue
	Level
	Experience

	// Derived attributes are computed from base stats and can never be
	// written directly.
	MaxHits
	MaxMana
	MaxFatigue
	NextLevel

	// Skills.
	Melee
	BattleDefense
	Magic
	Parrying
	Healing
	Detection
	Hiding
	Stealing
)

// SkillCap is the highest value any skill can reach through gains.
const SkillCap = 1000

var names = map[Attribute]string{
	Strength:      "strength",
	Dexterity:     "dexterity",
	Intelligence:  "intelligence",
	Hits:          "hits",
	Mana:          "mana",
	Fatigue:       "fatigue",
	Level:         "level",
	Experience:    "experience",
	MaxHits:       "max_hits",
	MaxMana:       "max_mana",
	MaxFatigue:    "max_fatigue",
	NextLevel:     "next_level",
	Melee:         "melee",
	BattleDefense: "battle_defense",
	Magic:         "magic",
	Parrying:      "parrying",
	Healing:       "healing",
	Detection:     "detection",
	Hiding:        "hiding",
	Stealing:      "stealing",
}

// String returns the snake_case attribute name.
func (a Attribute) String() string {
	if n, ok := names[a]; ok {
		return n
	}
	return fmt.Sprintf("Attribute(%d)", int(a))
}

// ByName resolves an attribute from its snake_case name.
//
// Postcondition: ok is false iff name is unknown.
func ByName(name string) (Attribute, bool) {
	for a, n := range names {
		if n == name {
			return a, true
		}
	}
	return 0, false
}

// Skills lists every trainable skill.
func Skills() []Attribute {
	res := make([]Attribute, 0, int(Stealing-Melee)+1)
	for a := Melee; a <= Stealing; a++ {
		res = append(res, a)
	}
	return res
}

// IsSkill reports whether a is a trainable skill.
func (a Attribute) IsSkill() bool {
	return a >= Melee && a <= Stealing
}

// IsStat reports whether a is a base stat or resource shown in the status
// window.
func (a Attribute) IsStat() bool {
	return a >= Strength && a <= Experience
}

// IsDerived reports whether a is computed from other attributes.
// Derived attributes are rejected by setters.
func (a Attribute) IsDerived() bool {
	return a >= MaxHits && a <= NextLevel
}
