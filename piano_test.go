package main

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/require"
)

func TestPianoPressRelease(t *testing.T) {
	p := CreatePiano()
	note, ok := p.Press(glfw.KeyA)
	require.True(t, ok)
	require.Equal(t, 60, note) // middle C in the default octave

	// Holding a key does not retrigger.
	_, ok = p.Press(glfw.KeyA)
	require.False(t, ok)

	note, ok = p.Release(glfw.KeyA)
	require.True(t, ok)
	require.Equal(t, 60, note)

	_, ok = p.Release(glfw.KeyA)
	require.False(t, ok)
}

func TestPianoLayout(t *testing.T) {
	p := CreatePiano()
	cases := map[glfw.Key]int{
		glfw.KeyA: 60, // C4
		glfw.KeyW: 61, // C#4
		glfw.KeyS: 62, // D4
		glfw.KeyJ: 71, // B4
		glfw.KeyK: 72, // C5
	}
	for key, want := range cases {
		note, ok := p.Press(key)
		require.True(t, ok)
		require.Equal(t, want, note)
	}
}

func TestPianoNonPianoKey(t *testing.T) {
	p := CreatePiano()
	_, ok := p.Press(glfw.KeyZ)
	require.False(t, ok)
	_, ok = p.Release(glfw.KeyZ)
	require.False(t, ok)
}

func TestPianoOctaveShift(t *testing.T) {
	p := CreatePiano()
	p.ShiftOctave(1)
	require.Equal(t, 5, p.Octave())
	note, ok := p.Press(glfw.KeyA)
	require.True(t, ok)
	require.Equal(t, 72, note)

	// Shifting while the key is held still releases the original pitch.
	p.ShiftOctave(-2)
	note, ok = p.Release(glfw.KeyA)
	require.True(t, ok)
	require.Equal(t, 72, note)
}

func TestPianoOctaveClamped(t *testing.T) {
	p := CreatePiano()
	p.ShiftOctave(100)
	require.Equal(t, maxPianoOctave, p.Octave())
	p.ShiftOctave(-100)
	require.Equal(t, minPianoOctave, p.Octave())
}

func TestPianoReleaseAll(t *testing.T) {
	p := CreatePiano()
	p.Press(glfw.KeyA)
	p.Press(glfw.KeyS)
	p.Press(glfw.KeyD)
	notes := p.ReleaseAll()
	require.Len(t, notes, 3)
	require.ElementsMatch(t, []int{60, 62, 64}, notes)
	require.Empty(t, p.ReleaseAll())
}
