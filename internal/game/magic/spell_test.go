package magic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shardmud/shard/internal/game/magic"
)

func TestByNameRoundTrip(t *testing.T) {
	for _, sp := range magic.All() {
		got, ok := magic.ByName(sp.String())
		assert.True(t, ok, "ByName(%q)", sp.String())
		assert.Equal(t, sp, got)
	}
}

func TestByNameUnknown(t *testing.T) {
	_, ok := magic.ByName("meteor swarm")
	assert.False(t, ok)
}

func TestValid(t *testing.T) {
	for _, sp := range magic.All() {
		assert.True(t, sp.Valid(), "%v", sp)
	}
	assert.False(t, magic.Spell(0).Valid())
	assert.False(t, magic.Spell(99).Valid())
}

func TestScrollGraphicRoundTrip(t *testing.T) {
	for _, sp := range magic.All() {
		graphic := sp.ScrollGraphic()
		assert.NotZero(t, graphic, "%v has no scroll graphic", sp)
		got, ok := magic.FromScrollGraphic(graphic)
		assert.True(t, ok)
		assert.Equal(t, sp, got)
	}
}

func TestFromScrollGraphicUnknown(t *testing.T) {
	_, ok := magic.FromScrollGraphic(0x0001)
	assert.False(t, ok)
}
