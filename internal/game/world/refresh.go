package world

import (
	"github.com/shardmud/shard/internal/game/entity"
	"github.com/shardmud/shard/internal/game/schedule"
)

// startRefresh arms the regeneration loop for m unless one is already
// running or there is nothing to regenerate. The loop is a timer that
// re-submits itself after every step and lets go as soon as the mobile is
// full, dead, or gone; the running flag guarantees at most one loop per
// mobile.
func (w *World) startRefresh(m *entity.Mobile) {
	if m.RefreshRunning() || m.IsDead() || !m.NeedsRefresh() {
		return
	}
	m.SetRefreshRunning(true)

	var t *schedule.Timer
	t = schedule.NewTimer(statRefreshDelay, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.refreshStep(m) {
			w.timers.Reschedule(t)
		}
	})
	w.timers.Reschedule(t)
}

// refreshStep performs one regeneration tick. Reports whether the loop
// should continue.
func (w *World) refreshStep(m *entity.Mobile) bool {
	if !m.CanRefresh() || m.IsDead() {
		m.SetRefreshRunning(false)
		return false
	}
	m.DoRefreshStep()
	if !m.NeedsRefresh() {
		m.SetRefreshRunning(false)
		return false
	}
	return true
}
