package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// The computer keyboard doubles as a piano. The home row plays the
// white keys of one octave starting at C, the row above plays the
// black keys, mirroring the usual tracker layout.
var pianoKeyOffsets = map[glfw.Key]int{
	glfw.KeyA:         0,  // C
	glfw.KeyW:         1,  // C#
	glfw.KeyS:         2,  // D
	glfw.KeyE:         3,  // D#
	glfw.KeyD:         4,  // E
	glfw.KeyF:         5,  // F
	glfw.KeyT:         6,  // F#
	glfw.KeyG:         7,  // G
	glfw.KeyY:         8,  // G#
	glfw.KeyH:         9,  // A
	glfw.KeyU:         10, // A#
	glfw.KeyJ:         11, // B
	glfw.KeyK:         12, // C
	glfw.KeyO:         13, // C#
	glfw.KeyL:         14, // D
	glfw.KeyP:         15, // D#
	glfw.KeySemicolon: 16, // E
}

const (
	defaultPianoOctave = 4
	minPianoOctave     = 0
	maxPianoOctave     = 8
	pianoVelocity      = 100
	pianoChannel       = 0
)

// Piano converts key presses into note numbers, tracking which
// physical key holds which note so an octave change mid-press still
// releases the right pitch.
type Piano struct {
	octave  int
	pressed map[glfw.Key]int
}

func CreatePiano() *Piano {
	return &Piano{
		octave:  defaultPianoOctave,
		pressed: make(map[glfw.Key]int),
	}
}

func (p *Piano) Octave() int {
	return p.octave
}

func (p *Piano) ShiftOctave(delta int) {
	next := p.octave + delta
	if next < minPianoOctave {
		next = minPianoOctave
	}
	if next > maxPianoOctave {
		next = maxPianoOctave
	}
	p.octave = next
}

// noteForKey maps a physical key to a MIDI note in the current octave.
func (p *Piano) noteForKey(key glfw.Key) (int, bool) {
	offset, ok := pianoKeyOffsets[key]
	if !ok {
		return 0, false
	}
	note := (p.octave+1)*12 + offset
	if note > 127 {
		return 0, false
	}
	return note, true
}

// Press reports the note to start, or ok=false when the key is not a
// piano key or is already held.
func (p *Piano) Press(key glfw.Key) (note int, ok bool) {
	if _, held := p.pressed[key]; held {
		return 0, false
	}
	note, ok = p.noteForKey(key)
	if !ok {
		return 0, false
	}
	p.pressed[key] = note
	return note, true
}

// Release reports the note to stop for a key lifted earlier.
func (p *Piano) Release(key glfw.Key) (note int, ok bool) {
	note, ok = p.pressed[key]
	if !ok {
		return 0, false
	}
	delete(p.pressed, key)
	return note, true
}

// ReleaseAll empties the held set, reporting every sounding note.
func (p *Piano) ReleaseAll() []int {
	notes := make([]int, 0, len(p.pressed))
	for key, note := range p.pressed {
		notes = append(notes, note)
		delete(p.pressed, key)
	}
	return notes
}
