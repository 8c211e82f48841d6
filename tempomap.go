package main

import (
	"fmt"
	"sort"
)

const defaultTempoMicros = 500000 // 120 BPM

// TempoChange is a set-tempo event at an absolute tick.
type TempoChange struct {
	Tick        int
	MicrosPerQN int
	seconds     float64 // start time of this segment
}

// TempoMap converts ticks to seconds over a piecewise-constant sequence
// of tempo segments. A map always starts with the default 120 BPM at
// tick 0; adding a change at tick 0 replaces it.
type TempoMap struct {
	ppq     int
	changes []TempoChange
}

func NewTempoMap(ppq int) *TempoMap {
	return &TempoMap{
		ppq: ppq,
		changes: []TempoChange{
			{Tick: 0, MicrosPerQN: defaultTempoMicros},
		},
	}
}

func (tm *TempoMap) String() string {
	return fmt.Sprintf("TempoMap(ppq=%d changes=%d)", tm.ppq, len(tm.changes))
}

// Add records a tempo change. Changes must be added in tick order;
// a change at an already-known tick overrides the earlier value.
func (tm *TempoMap) Add(tick, microsPerQN int) {
	if microsPerQN <= 0 {
		return
	}
	last := &tm.changes[len(tm.changes)-1]
	if tick <= last.Tick {
		last.MicrosPerQN = microsPerQN
		return
	}
	tm.changes = append(tm.changes, TempoChange{
		Tick:        tick,
		MicrosPerQN: microsPerQN,
		seconds:     last.seconds + tm.segmentSeconds(last, tick),
	})
}

func (tm *TempoMap) segmentSeconds(c *TempoChange, untilTick int) float64 {
	ticks := untilTick - c.Tick
	return float64(ticks) / float64(tm.ppq) * float64(c.MicrosPerQN) / 1e6
}

// TimeAt converts an absolute tick to seconds.
func (tm *TempoMap) TimeAt(tick int) float64 {
	if tick <= 0 {
		return 0
	}
	i := sort.Search(len(tm.changes), func(i int) bool {
		return tm.changes[i].Tick > tick
	}) - 1
	c := &tm.changes[i]
	return c.seconds + tm.segmentSeconds(c, tick)
}

// DurationOf returns the length of a tick span in seconds.
func (tm *TempoMap) DurationOf(fromTick, toTick int) float64 {
	d := tm.TimeAt(toTick) - tm.TimeAt(fromTick)
	if d < 0 {
		return 0
	}
	return d
}

// TempoAt returns the microseconds per quarter note in effect at tick.
func (tm *TempoMap) TempoAt(tick int) int {
	i := sort.Search(len(tm.changes), func(i int) bool {
		return tm.changes[i].Tick > tick
	}) - 1
	return tm.changes[i].MicrosPerQN
}

// FromSMF builds the tempo map of a parsed file. Tempo events from all
// tracks are merged, matching how format 1 files keep them on the
// conductor track but format 0 files inline them.
func TempoMapFromSMF(f *SMFile) *TempoMap {
	type change struct{ tick, micros int }
	var all []change
	for _, track := range f.Tracks {
		for _, ev := range track.Events {
			if ev.Kind == EventTempo {
				all = append(all, change{ev.Tick, ev.TempoMicros()})
			}
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].tick < all[j].tick })
	tm := NewTempoMap(f.Division)
	for _, c := range all {
		tm.Add(c.tick, c.micros)
	}
	return tm
}
