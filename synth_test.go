package main

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func renderBlocks(s *Synth, frames int) []float32 {
	out := make([]float32, frames*2)
	for off := 0; off < len(out); off += 512 {
		end := off + 512
		if end > len(out) {
			end = len(out)
		}
		s.RenderFrames(out[off:end])
	}
	return out
}

func peakAbs(samples []float32) float64 {
	peak := 0.0
	for _, smp := range samples {
		if a := math.Abs(float64(smp)); a > peak {
			peak = a
		}
	}
	return peak
}

func TestSynthNoteOnProducesSound(t *testing.T) {
	s := NewSynth(WaveSine)
	s.NoteOn(69, 100, 0)
	out := renderBlocks(s, 4800)
	require.Greater(t, peakAbs(out), 0.01)

	keys := s.SoundingKeys()
	require.Len(t, keys, 1)
	require.Equal(t, 69, keys[0].Key)
	require.Equal(t, 100, keys[0].Velocity)
	require.Greater(t, keys[0].Level, 0.0)
	require.Greater(t, keys[0].Age, 0.0)
}

func TestSynthNoteOffDecaysToSilence(t *testing.T) {
	s := NewSynth(WaveSine)
	s.NoteOn(60, 100, 0)
	renderBlocks(s, 4800)
	s.NoteOff(60, 0)
	// Half a second covers the release tail.
	renderBlocks(s, SampleRate()/2)
	out := renderBlocks(s, 480)
	require.Less(t, peakAbs(out), 1e-4)
	require.Empty(t, s.SoundingKeys())
}

func TestSynthIgnoresBogusNotes(t *testing.T) {
	s := NewSynth(WaveSine)
	s.NoteOn(-1, 100, 0)
	s.NoteOn(200, 100, 0)
	s.NoteOn(60, 0, 0)
	renderBlocks(s, 480)
	require.Empty(t, s.SoundingKeys())
}

func TestSynthVoiceStealing(t *testing.T) {
	s := NewSynth(WaveSine)
	for key := 20; key < 20+MaxVoices+8; key++ {
		s.NoteOn(key, 100, 0)
	}
	renderBlocks(s, 480)
	keys := s.SoundingKeys()
	require.Len(t, keys, MaxVoices)
	// The oldest notes were stolen.
	for _, k := range keys {
		require.GreaterOrEqual(t, k.Key, 28)
	}
}

func TestSynthAllNotesOff(t *testing.T) {
	s := NewSynth(WaveSine)
	for key := 60; key < 64; key++ {
		s.NoteOn(key, 100, 0)
	}
	renderBlocks(s, 480)
	require.Len(t, s.SoundingKeys(), 4)
	s.AllNotesOff()
	renderBlocks(s, SampleRate()/2)
	require.Empty(t, s.SoundingKeys())
}

func TestSynthPercussionExcludedFromSounding(t *testing.T) {
	s := NewSynth(WaveSine)
	s.NoteOn(36, 100, percussionChannel)
	out := renderBlocks(s, 480)
	require.Greater(t, peakAbs(out), 0.001)
	require.Empty(t, s.SoundingKeys())
}

func TestSynthOutputStaysBounded(t *testing.T) {
	s := NewSynth(WaveSquare)
	for key := 30; key < 30+MaxVoices; key++ {
		s.NoteOn(key, 127, 0)
	}
	out := renderBlocks(s, 4800)
	// The soft clipper caps the mix at 2/3.
	require.LessOrEqual(t, peakAbs(out), 2.0/3.0+1e-6)
}

func TestSynthRecorderTap(t *testing.T) {
	s := NewSynth(WaveSine)
	rec := NewRecorder()
	s.SetRecorder(rec)
	s.NoteOn(60, 100, 0)
	renderBlocks(s, 960)
	require.Equal(t, 960, rec.Frames())
	s.SetRecorder(nil)
	renderBlocks(s, 480)
	require.Equal(t, 960, rec.Frames())
}

func TestSynthRead(t *testing.T) {
	s := NewSynth(WaveSine)
	s.NoteOn(69, 100, 0)
	p := make([]byte, 4096)
	n, err := s.Read(p)
	require.NoError(t, err)
	require.Equal(t, len(p), n)
	nonzero := false
	for off := 0; off < n; off += 4 {
		smp := math.Float32frombits(binary.LittleEndian.Uint32(p[off:]))
		require.False(t, math.IsNaN(float64(smp)))
		require.LessOrEqual(t, math.Abs(float64(smp)), 1.0)
		if smp != 0 {
			nonzero = true
		}
	}
	require.True(t, nonzero)
}
