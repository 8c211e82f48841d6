package main

import (
	"fmt"
	"sort"
)

const percussionChannel = 9

// Note is a timed note with wall-clock start and duration derived from
// the tempo map.
type Note struct {
	Start    float64
	Duration float64
	Key      int
	Velocity int
	Channel  int
	Track    int
}

func (n Note) End() float64 {
	return n.Start + n.Duration
}

// Song is a flat, time-ordered view of a parsed MIDI file, ready for
// playback or offline rendering.
type Song struct {
	Title    string
	Notes    []Note
	Duration float64
}

func (s *Song) String() string {
	return fmt.Sprintf("Song(%q notes=%d duration=%.2fs)", s.Title, len(s.Notes), s.Duration)
}

type SongOptions struct {
	// IncludePercussion keeps channel 10 notes; off by default since
	// the wavetable voices make poor drums.
	IncludePercussion bool
}

// BuildSong merges all tracks of a parsed file into one time-ordered
// note list. Note on/off events are paired per (channel, key); notes
// left hanging at the end of a track are closed at the track's final
// tick.
func BuildSong(f *SMFile, opts SongOptions) *Song {
	tm := TempoMapFromSMF(f)
	song := &Song{}
	for ti, track := range f.Tracks {
		if song.Title == "" {
			song.Title = track.Name
		}
		type openNote struct {
			tick     int
			velocity int
		}
		open := make(map[[2]int]openNote)
		lastTick := 0
		for _, ev := range track.Events {
			if ev.Tick > lastTick {
				lastTick = ev.Tick
			}
			switch ev.Kind {
			case EventNoteOn:
				if !opts.IncludePercussion && ev.Channel == percussionChannel {
					continue
				}
				key := [2]int{ev.Channel, ev.Data1}
				if on, ok := open[key]; ok {
					// Retrigger without a note off: close the
					// previous instance first.
					song.appendNote(tm, ti, ev.Channel, ev.Data1, on.velocity, on.tick, ev.Tick)
				}
				open[key] = openNote{tick: ev.Tick, velocity: ev.Data2}
			case EventNoteOff:
				key := [2]int{ev.Channel, ev.Data1}
				if on, ok := open[key]; ok {
					song.appendNote(tm, ti, ev.Channel, ev.Data1, on.velocity, on.tick, ev.Tick)
					delete(open, key)
				}
			}
		}
		for key, on := range open {
			song.appendNote(tm, ti, key[0], key[1], on.velocity, on.tick, lastTick)
		}
	}
	sort.SliceStable(song.Notes, func(i, j int) bool {
		a, b := song.Notes[i], song.Notes[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Track != b.Track {
			return a.Track < b.Track
		}
		return a.Key < b.Key
	})
	for _, n := range song.Notes {
		if end := n.End(); end > song.Duration {
			song.Duration = end
		}
	}
	return song
}

func (s *Song) appendNote(tm *TempoMap, track, channel, key, velocity, onTick, offTick int) {
	start := tm.TimeAt(onTick)
	end := tm.TimeAt(offTick)
	if end < start {
		end = start
	}
	s.Notes = append(s.Notes, Note{
		Start:    start,
		Duration: end - start,
		Key:      key,
		Velocity: velocity,
		Channel:  channel,
		Track:    track,
	})
}
