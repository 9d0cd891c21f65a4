package world

import (
	"fmt"
	"time"

	"github.com/shardmud/shard/internal/protocol"
)

// The in-game clock: one in-game hour passes per hourLength of real time.
const (
	hourLength  = 120 * time.Second
	hoursPerDay = 24
	NoonHour    = 12
	maxDarkness = 31
)

// phaseNames announces the notable hours of the day.
var phaseNames = map[int]string{
	6:  "dawn",
	10: "morning",
	12: "noon",
	14: "afternoon",
	17: "evening",
	22: "night",
}

// lightLevelAt maps an hour to global darkness: zero at noon, rising
// linearly towards midnight.
func lightLevelAt(hour int) int {
	diff := hour - NoonHour
	if diff < 0 {
		diff = -diff
	}
	return diff * maxDarkness / NoonHour
}

// advanceHour is the self-resubmitting day/night timer callback.
func (w *World) advanceHour() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.hour = (w.hour + 1) % hoursPerDay
	level := lightLevelAt(w.hour)
	changed := level != w.lightLevel
	w.lightLevel = level

	phase := phaseNames[w.hour]
	for _, p := range w.reg.AllPlayers() {
		if !p.Online() {
			continue
		}
		if changed {
			p.Send(&protocol.GlobalLight{Level: level})
		}
		if phase != "" {
			p.SendSysmsg(fmt.Sprintf("It is now %s.", phase))
		}
	}

	w.timers.Reschedule(w.cycleTimer)
}

// Hour returns the current in-game hour.
func (w *World) Hour() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hour
}

// LightLevel returns the current global darkness level.
func (w *World) LightLevel() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lightLevel
}
