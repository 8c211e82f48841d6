package main

import (
	"fmt"
	"sort"
	"time"
)

const playerTickInterval = 5 * time.Millisecond

type PlayerState int

const (
	PlayerStopped PlayerState = iota
	PlayerPlaying
	PlayerPaused
)

func (s PlayerState) String() string {
	switch s {
	case PlayerStopped:
		return "stopped"
	case PlayerPlaying:
		return "playing"
	case PlayerPaused:
		return "paused"
	}
	return "unknown"
}

// noteEdge is one scheduled on or off transition.
type noteEdge struct {
	at       float64
	on       bool
	key      int
	velocity int
	channel  int
}

// Player replays a song's timed notes against the live synth. A player
// runs once: create, Start, then either wait on Done or Stop it.
//
// The visualization layer stays in sync for free: the player only
// drives the synth, and the curve mapper reads the synth's sounding
// set, so there is no second copy of playback state to drift.
type Player struct {
	song  *Song
	synth *Synth
	edges []noteEdge
	next  int

	state Box[PlayerState]
	pos   Box[float64]

	toggle  chan struct{}
	quit    chan struct{}
	done    chan struct{}
	started bool

	// now is replaceable for tests.
	now func() time.Time
}

func NewPlayer(song *Song, synth *Synth) *Player {
	p := &Player{
		song:   song,
		synth:  synth,
		edges:  buildEdges(song),
		toggle: make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
		now:    time.Now,
	}
	return p
}

// buildEdges expands notes into a time-ordered edge list. At equal
// times offs sort before ons so a retriggered key releases first.
func buildEdges(song *Song) []noteEdge {
	edges := make([]noteEdge, 0, len(song.Notes)*2)
	for _, n := range song.Notes {
		edges = append(edges,
			noteEdge{at: n.Start, on: true, key: n.Key, velocity: n.Velocity, channel: n.Channel},
			noteEdge{at: n.End(), on: false, key: n.Key, channel: n.Channel},
		)
	}
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].at != edges[j].at {
			return edges[i].at < edges[j].at
		}
		return !edges[i].on && edges[j].on
	})
	return edges
}

func (p *Player) Start() error {
	if p.started {
		return fmt.Errorf("player already started")
	}
	p.started = true
	p.state.Set(PlayerPlaying)
	go p.run()
	return nil
}

// Stop ends playback and releases anything still sounding. Safe to
// call more than once.
func (p *Player) Stop() {
	select {
	case <-p.quit:
	default:
		close(p.quit)
	}
	if p.started {
		<-p.done
	}
}

// TogglePause flips between playing and paused.
func (p *Player) TogglePause() {
	select {
	case p.toggle <- struct{}{}:
	default:
	}
}

func (p *Player) State() PlayerState {
	return p.state.Get()
}

// Position returns the playback position in seconds.
func (p *Player) Position() float64 {
	return p.pos.Get()
}

// Done is closed when playback finishes or is stopped.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

func (p *Player) run() {
	defer close(p.done)
	defer p.state.Set(PlayerStopped)
	defer p.synth.AllNotesOff()

	ticker := time.NewTicker(playerTickInterval)
	defer ticker.Stop()

	start := p.now()
	var pausedAt time.Time
	for {
		select {
		case <-p.quit:
			return
		case <-p.toggle:
			if p.state.Get() == PlayerPaused {
				start = start.Add(p.now().Sub(pausedAt))
				p.state.Set(PlayerPlaying)
				p.resumeHeldNotes(p.pos.Get())
			} else {
				pausedAt = p.now()
				p.state.Set(PlayerPaused)
				p.synth.AllNotesOff()
			}
		case t := <-ticker.C:
			if p.state.Get() != PlayerPlaying {
				continue
			}
			elapsed := t.Sub(start).Seconds()
			p.pos.Set(elapsed)
			if p.step(elapsed) {
				return
			}
		}
	}
}

// step dispatches every edge due at elapsed and reports whether the
// song has run out.
func (p *Player) step(elapsed float64) bool {
	for p.next < len(p.edges) && p.edges[p.next].at <= elapsed {
		e := p.edges[p.next]
		p.next++
		if e.on {
			p.synth.NoteOn(e.key, e.velocity, e.channel)
		} else {
			p.synth.NoteOff(e.key, e.channel)
		}
	}
	return p.next >= len(p.edges) && elapsed >= p.song.Duration
}

// resumeHeldNotes retriggers the notes whose span covers the resume
// position; their off edges are still pending, so they release on
// schedule.
func (p *Player) resumeHeldNotes(elapsed float64) {
	for _, n := range p.song.Notes {
		if n.Start <= elapsed && elapsed < n.End() {
			p.synth.NoteOn(n.Key, n.Velocity, n.Channel)
		}
	}
}
