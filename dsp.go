package main

import (
	"math"
)

// midiToFreq converts a MIDI key number to Hz; A4 (key 69) is 440 Hz.
func midiToFreq(key int) float64 {
	return 440.0 * math.Exp2(float64(key-69)/12.0)
}

// velocityToGain maps MIDI velocity 0..127 to a perceptual-ish gain.
func velocityToGain(velocity int) Smp {
	v := clamp(float64(velocity)/127.0, 0, 1)
	return Smp(v * v)
}

// equalPowerPan returns gains for left/right given pan in [-1,1].
func equalPowerPan(p float64) (Smp, Smp) {
	if p < -1 {
		p = -1
	}
	if p > 1 {
		p = 1
	}
	// map p=-1..1 -> theta in [0..pi/2]
	theta := (p + 1) * math.Pi / 4
	return Smp(math.Cos(theta)), Smp(math.Sin(theta))
}

// keyPan spreads the keyboard across the stereo field: low keys left,
// high keys right.
func keyPan(key int) (Smp, Smp) {
	return equalPowerPan(clamp(float64(key-64)/48.0, -1, 1))
}

// softClip is a cubic soft clipper keeping the mix inside [-2/3, 2/3].
func softClip(x Smp) Smp {
	if x < -1 {
		return -2.0 / 3.0
	}
	if x > 1 {
		return 2.0 / 3.0
	}
	return x - (x*x*x)/3.0
}

// xorshift32 is the deterministic noise source used by percussion
// voices. Seed 0 is mapped to 1 to avoid lockup.
type xorshift32 uint32

func newXorshift32(seed uint32) xorshift32 {
	if seed == 0 {
		seed = 1
	}
	return xorshift32(seed)
}

// next returns a noise sample in [-1,1].
func (s *xorshift32) next() Smp {
	state := uint32(*s)
	state ^= state << 13
	state ^= state >> 17
	state ^= state << 5
	*s = xorshift32(state)
	u := float64(state) / float64(^uint32(0))
	return Smp(2*u - 1)
}
