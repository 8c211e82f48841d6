package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTempoMapDefault(t *testing.T) {
	tm := NewTempoMap(480)
	require.Equal(t, 0.0, tm.TimeAt(0))
	require.InDelta(t, 0.5, tm.TimeAt(480), 1e-9)
	require.InDelta(t, 2.0, tm.TimeAt(4*480), 1e-9)
	require.Equal(t, defaultTempoMicros, tm.TempoAt(0))
}

func TestTempoMapChange(t *testing.T) {
	tm := NewTempoMap(480)
	// Double time from beat two.
	tm.Add(960, 250000)
	require.InDelta(t, 1.0, tm.TimeAt(960), 1e-9)
	require.InDelta(t, 1.25, tm.TimeAt(1440), 1e-9)
	require.InDelta(t, 1.5, tm.TimeAt(1920), 1e-9)
	require.Equal(t, defaultTempoMicros, tm.TempoAt(959))
	require.Equal(t, 250000, tm.TempoAt(960))
}

func TestTempoMapDurationOf(t *testing.T) {
	tm := NewTempoMap(480)
	tm.Add(960, 250000)
	require.InDelta(t, 0.75, tm.DurationOf(480, 1440), 1e-9)
	require.Equal(t, 0.0, tm.DurationOf(960, 480))
}

func TestTempoMapOverrideAtTickZero(t *testing.T) {
	tm := NewTempoMap(480)
	tm.Add(0, 1000000) // 60 BPM
	require.InDelta(t, 1.0, tm.TimeAt(480), 1e-9)
	require.Equal(t, 1000000, tm.TempoAt(0))
}

func TestTempoMapIgnoresBogusTempo(t *testing.T) {
	tm := NewTempoMap(480)
	tm.Add(480, 0)
	require.Equal(t, defaultTempoMicros, tm.TempoAt(960))
}

func TestTempoMapNegativeTick(t *testing.T) {
	tm := NewTempoMap(480)
	require.Equal(t, 0.0, tm.TimeAt(-5))
}

func TestTempoMapFromSMF(t *testing.T) {
	// Conductor-track layout: tempo changes on track 0, notes elsewhere.
	f := &SMFile{
		Format:   1,
		Division: 96,
		Tracks: []*SMFTrack{
			{Events: []SMFEvent{
				{Tick: 0, Kind: EventTempo, Meta: 0x51, MetaData: []byte{0x0f, 0x42, 0x40}},  // 1s per beat
				{Tick: 96, Kind: EventTempo, Meta: 0x51, MetaData: []byte{0x07, 0xa1, 0x20}}, // back to 120 BPM
			}},
			{Events: []SMFEvent{
				{Tick: 0, Kind: EventNoteOn, Data1: 60, Data2: 100},
				{Tick: 192, Kind: EventNoteOff, Data1: 60},
			}},
		},
	}
	tm := TempoMapFromSMF(f)
	require.InDelta(t, 1.0, tm.TimeAt(96), 1e-9)
	require.InDelta(t, 1.5, tm.TimeAt(192), 1e-9)
}
