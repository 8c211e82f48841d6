package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSinWaveSampleAt(t *testing.T) {
	wave := sinWave(DefaultWaveSize)
	require.InDelta(t, 0.0, float64(wave.sampleAt(0)), 1e-3)
	require.InDelta(t, 1.0, float64(wave.sampleAt(0.25)), 1e-3)
	require.InDelta(t, 0.0, float64(wave.sampleAt(0.5)), 1e-3)
	require.InDelta(t, -1.0, float64(wave.sampleAt(0.75)), 1e-3)
	// Phase wraps.
	require.InDelta(t, float64(wave.sampleAt(0.25)), float64(wave.sampleAt(1.25)), 1e-9)
}

func TestRemoveDC(t *testing.T) {
	wave := Wave{1, 2, 3, 4}
	wave.removeDCInPlace()
	sum := 0.0
	for _, v := range wave {
		sum += float64(v)
	}
	require.InDelta(t, 0.0, sum, 1e-9)
}

func TestBuildFFTLowpassHalvesSize(t *testing.T) {
	wave := sinWave(256)
	next := wave.buildFFTLowpass()
	require.Len(t, next, 128)
	// A pure fundamental survives the brickwall intact.
	require.InDelta(t, 1.0, float64(next.sampleAt(0.25)), 0.05)
}

func TestSelectMipLevelMonotonic(t *testing.T) {
	prev := -1
	for _, freq := range []float64{55, 110, 220, 440, 880, 1760, 3520, 7040} {
		lvl := selectMipLevel(freq, 48000, DefaultWaveSize)
		require.GreaterOrEqual(t, lvl, prev)
		prev = lvl
	}
	require.Equal(t, 0, selectMipLevel(0, 48000, DefaultWaveSize))
}

func TestWavetableSampleMip(t *testing.T) {
	wt := BuiltinWavetable(WaveSine)
	require.NotNil(t, wt)
	got := wt.SampleMip(0.25, 440, 48000)
	require.InDelta(t, 1.0, float64(got), 0.05)
	// High up the keyboard the sine still comes back near full scale.
	got = wt.SampleMip(0.25, 8000, 48000)
	require.InDelta(t, 1.0, float64(got), 0.2)
	require.False(t, math.IsNaN(float64(got)))
}

func TestNewWavetableRejectsEmptyWave(t *testing.T) {
	_, err := NewWavetable(nil)
	require.Error(t, err)
}

func TestResolveWaveform(t *testing.T) {
	for name, want := range map[string]Waveform{
		"sine":     WaveSine,
		"sin":      WaveSine,
		"triangle": WaveTriangle,
		"tri":      WaveTriangle,
		"saw":      WaveSaw,
		"square":   WaveSquare,
	} {
		got, err := ResolveWaveform(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ResolveWaveform("noise")
	require.Error(t, err)
}

func TestBuiltinWavetablesHaveNoDC(t *testing.T) {
	for _, w := range []Waveform{WaveSine, WaveTriangle, WaveSaw, WaveSquare} {
		wt := BuiltinWavetable(w)
		sum := 0.0
		for _, v := range wt.mips[0] {
			sum += float64(v)
		}
		require.InDelta(t, 0.0, sum/float64(len(wt.mips[0])), 1e-6, "waveform %v", w)
	}
}
