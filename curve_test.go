package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCurveTermsRestShape(t *testing.T) {
	terms := curveTerms(nil)
	require.Len(t, terms, 1)
	require.Equal(t, 1.0, terms[0].amp)

	// Silent voices contribute nothing, so the rest shape comes back.
	terms = curveTerms([]SoundingKey{{Key: 60, Velocity: 100, Level: 0}})
	require.Len(t, terms, 1)
	require.Equal(t, 1.0, terms[0].amp)
}

func TestCurveTermsNormalized(t *testing.T) {
	keys := []SoundingKey{
		{Key: 60, Velocity: 127, Level: 1},
		{Key: 64, Velocity: 127, Level: 1},
		{Key: 67, Velocity: 127, Level: 1},
	}
	terms := curveTerms(keys)
	require.Len(t, terms, 3)
	total := 0.0
	for _, term := range terms {
		total += term.amp
	}
	require.InDelta(t, 1.0, total, 1e-9)
}

func TestCurveTermsDifferOverPitch(t *testing.T) {
	a := curveTerms([]SoundingKey{{Key: 60, Velocity: 100, Level: 1}})
	b := curveTerms([]SoundingKey{{Key: 61, Velocity: 100, Level: 1}})
	require.NotEqual(t, a[0].fx, b[0].fx)
}

func TestCurveStateIsClosedAndBounded(t *testing.T) {
	cs := NewCurveState()
	cs.Advance([]SoundingKey{
		{Key: 48, Velocity: 100, Level: 0.9},
		{Key: 72, Velocity: 80, Level: 0.4},
	})
	points := cs.Points()
	require.Len(t, points, CurvePoints)

	first, last := points[0], points[len(points)-1]
	require.InDelta(t, float64(first.X()), float64(last.X()), 1e-4)
	require.InDelta(t, float64(first.Y()), float64(last.Y()), 1e-4)
	require.InDelta(t, float64(first.Z()), float64(last.Z()), 1e-4)

	for _, p := range points {
		require.LessOrEqual(t, float64(p.Len()), 1.75)
	}
}

func TestCurveStateEasesTowardTarget(t *testing.T) {
	cs := NewCurveState()
	cs.Advance(nil) // prime with the rest shape
	rest := append([]float32(nil), cs.Points()[10][:]...)

	keys := []SoundingKey{{Key: 60, Velocity: 127, Level: 1}}
	cs.Advance(keys)
	step1 := cs.Points()[10]
	moved := step1[0] != rest[0] || step1[1] != rest[1] || step1[2] != rest[2]
	require.True(t, moved)

	// Repeated advances converge.
	for i := 0; i < 200; i++ {
		cs.Advance(keys)
	}
	settled := cs.Points()[10]
	cs.Advance(keys)
	again := cs.Points()[10]
	require.InDelta(t, float64(settled[0]), float64(again[0]), 1e-4)
	require.InDelta(t, float64(settled[1]), float64(again[1]), 1e-4)
	require.InDelta(t, float64(settled[2]), float64(again[2]), 1e-4)
}
