package attr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shardmud/shard/internal/game/attr"
)

func TestStringNames(t *testing.T) {
	assert.Equal(t, "strength", attr.Strength.String())
	assert.Equal(t, "battle_defense", attr.BattleDefense.String())
	assert.Equal(t, "next_level", attr.NextLevel.String())
}

func TestByNameRoundTrip(t *testing.T) {
	all := append([]attr.Attribute{
		attr.Strength, attr.Dexterity, attr.Intelligence,
		attr.Hits, attr.Mana, attr.Fatigue,
		attr.Level, attr.Experience,
		attr.MaxHits, attr.MaxMana, attr.MaxFatigue, attr.NextLevel,
	}, attr.Skills()...)
	for _, a := range all {
		got, ok := attr.ByName(a.String())
		assert.True(t, ok, "ByName(%q)", a.String())
		assert.Equal(t, a, got)
	}
}

func TestByNameUnknown(t *testing.T) {
	_, ok := attr.ByName("charisma")
	assert.False(t, ok)
}

func TestSkillsClassification(t *testing.T) {
	skills := attr.Skills()
	assert.Len(t, skills, 8)
	for _, s := range skills {
		assert.True(t, s.IsSkill(), "%v", s)
		assert.False(t, s.IsStat(), "%v", s)
		assert.False(t, s.IsDerived(), "%v", s)
	}
}

func TestStatClassification(t *testing.T) {
	for _, s := range []attr.Attribute{attr.Strength, attr.Dexterity, attr.Intelligence} {
		assert.True(t, s.IsStat(), "%v", s)
		assert.False(t, s.IsSkill(), "%v", s)
	}
}

func TestDerivedClassification(t *testing.T) {
	for _, d := range []attr.Attribute{attr.MaxHits, attr.MaxMana, attr.MaxFatigue, attr.NextLevel} {
		assert.True(t, d.IsDerived(), "%v", d)
		assert.False(t, d.IsSkill(), "%v", d)
		assert.False(t, d.IsStat(), "%v", d)
	}
}
