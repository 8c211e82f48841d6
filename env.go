package main

import (
	"math"
)

type envStage int

const (
	envIdle envStage = iota
	envAttack
	envDecay
	envSustain
	envRelease
)

// ADSR is a per-voice envelope generator. Attack is linear; decay and
// release follow an exponential-ish curved segment so short settings
// still avoid clicks.
type ADSR struct {
	attackFrames  int
	decayFrames   int
	sustainLevel  Smp
	releaseFrames int

	stage    envStage
	frame    int
	level    Smp
	released Smp // level at the moment of release
}

// NewADSR builds an envelope with times in seconds at the engine rate.
func NewADSR(attack, decay, sustain, release float64) *ADSR {
	sr := float64(SampleRate())
	return &ADSR{
		attackFrames:  envFrames(attack, sr),
		decayFrames:   envFrames(decay, sr),
		sustainLevel:  Smp(clamp(sustain, 0, 1)),
		releaseFrames: envFrames(release, sr),
	}
}

func envFrames(seconds, sr float64) int {
	n := int(seconds * sr)
	if n < 1 {
		n = 1
	}
	return n
}

// curved maps x in [0,1] to a downward exponential-ish shape.
func curved(x float64) float64 {
	const k = -4.0
	return (math.Exp(k*x) - 1) / (math.Exp(k) - 1)
}

func (e *ADSR) Gate() {
	e.stage = envAttack
	e.frame = 0
}

func (e *ADSR) Release() {
	if e.stage == envIdle || e.stage == envRelease {
		return
	}
	e.released = e.level
	e.stage = envRelease
	e.frame = 0
}

func (e *ADSR) Idle() bool {
	return e.stage == envIdle
}

// Level returns the current envelope level without advancing it.
func (e *ADSR) Level() Smp {
	return e.level
}

// Step advances the envelope one frame and returns the new level.
func (e *ADSR) Step() Smp {
	switch e.stage {
	case envIdle:
		e.level = 0
	case envAttack:
		e.level = Smp(e.frame) / Smp(e.attackFrames)
		e.frame++
		if e.frame >= e.attackFrames {
			e.stage = envDecay
			e.frame = 0
		}
	case envDecay:
		x := float64(e.frame) / float64(e.decayFrames)
		e.level = 1 + (e.sustainLevel-1)*Smp(curved(x))
		e.frame++
		if e.frame >= e.decayFrames {
			e.stage = envSustain
			e.frame = 0
		}
	case envSustain:
		e.level = e.sustainLevel
	case envRelease:
		x := float64(e.frame) / float64(e.releaseFrames)
		e.level = e.released * (1 - Smp(curved(x)))
		e.frame++
		if e.frame >= e.releaseFrames {
			e.stage = envIdle
			e.level = 0
		}
	}
	return e.level
}
