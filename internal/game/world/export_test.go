package world

import "github.com/shardmud/shard/internal/game/entity"

// SwingOnce runs a single combat round for m, exactly as the swing timer
// does when it fires.
func (w *World) SwingOnce(m *entity.Mobile) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.combatRound(m)
}

// Audience reports which online players currently perceive e.
func (w *World) Audience(e entity.Entity) []*entity.Player {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.interestedPlayers(e)
}
