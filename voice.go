package main

import (
	"math"
)

// Voice is one slot of the synth's fixed pool: a phase-accumulating
// wavetable oscillator with an ADSR envelope, velocity gain and a pan
// position derived from the key. Percussion-channel voices swap the
// oscillator for a decaying noise burst.
type Voice struct {
	key      int
	velocity int
	channel  int

	table      *Wavetable
	freq       float64
	phase      Smp
	env        *ADSR
	gain       Smp
	panL, panR Smp
	noise      xorshift32
	percussive bool

	age        uint64 // allocation order, for stealing
	startFrame uint64 // engine frame count at note on
	active     bool
}

func (v *Voice) start(key, velocity, channel int, table *Wavetable, age uint64) {
	v.key = key
	v.velocity = velocity
	v.channel = channel
	v.table = table
	v.freq = midiToFreq(key)
	v.phase = 0
	v.gain = velocityToGain(velocity)
	v.panL, v.panR = keyPan(key)
	v.percussive = channel == percussionChannel
	if v.percussive {
		v.noise = newXorshift32(uint32(key)<<8 | uint32(age))
		v.env = NewADSR(0.001, 0.12, 0, 0.05)
	} else {
		v.env = NewADSR(0.005, 0.08, 0.7, 0.25)
	}
	v.env.Gate()
	v.age = age
	v.active = true
}

func (v *Voice) release() {
	if v.active {
		v.env.Release()
	}
}

// cut silences the voice immediately. Used when a voice is stolen.
func (v *Voice) cut() {
	v.active = false
}

// renderFrame produces one stereo frame and retires the voice once the
// envelope has run out.
func (v *Voice) renderFrame(sr float64) (Smp, Smp) {
	if !v.active {
		return 0, 0
	}
	level := v.env.Step()
	if v.env.Idle() {
		v.active = false
		return 0, 0
	}
	var smp Smp
	if v.percussive {
		smp = v.noise.next()
	} else {
		smp = v.table.SampleMip(float64(v.phase), v.freq, sr)
		v.phase = Smp(math.Mod(float64(v.phase)+v.freq/sr, 1.0))
	}
	smp *= v.gain * level
	return smp * v.panL, smp * v.panR
}
