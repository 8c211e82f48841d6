package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestADSRStages(t *testing.T) {
	env := NewADSR(0.01, 0.01, 0.5, 0.01)
	sr := SampleRate()
	frames := func(seconds float64) int { return int(seconds * float64(sr)) }

	require.True(t, env.Idle())
	env.Gate()
	require.False(t, env.Idle())

	var peak Smp
	for i := 0; i < frames(0.01); i++ {
		if l := env.Step(); l > peak {
			peak = l
		}
	}
	require.Greater(t, float64(peak), 0.95)

	for i := 0; i < frames(0.02); i++ {
		env.Step()
	}
	require.InDelta(t, 0.5, float64(env.Level()), 1e-6)

	env.Release()
	for i := 0; i < frames(0.02); i++ {
		env.Step()
	}
	require.True(t, env.Idle())
	require.Equal(t, 0.0, float64(env.Level()))
}

func TestADSRLevelIsMonotonicInAttack(t *testing.T) {
	env := NewADSR(0.01, 0.1, 0.7, 0.1)
	env.Gate()
	prev := Smp(-1)
	for i := 0; i < 400; i++ {
		l := env.Step()
		require.GreaterOrEqual(t, float64(l), float64(prev))
		prev = l
	}
}

func TestADSRReleaseBeforeSustain(t *testing.T) {
	// Releasing mid-attack must fall from the current level, not from 1.
	env := NewADSR(1.0, 0.1, 0.7, 0.01)
	env.Gate()
	for i := 0; i < 100; i++ {
		env.Step()
	}
	releasedAt := env.Level()
	require.Less(t, float64(releasedAt), 0.1)
	env.Release()
	for i := 0; i < 10; i++ {
		require.LessOrEqual(t, float64(env.Step()), float64(releasedAt))
	}
}

func TestADSRReleaseWhileIdle(t *testing.T) {
	env := NewADSR(0.01, 0.01, 0.5, 0.01)
	env.Release()
	require.True(t, env.Idle())
	require.Equal(t, 0.0, float64(env.Step()))
}
