package main

import "math"

// SVF is a stereo topology-preserving transform state-variable filter
// (Simper). The synth runs its lowpass output over the voice mix.
type SVF struct {
	ic1eq [2]Smp
	ic2eq [2]Smp
	g     Smp
	k     Smp
}

// svfCoefficient computes the one-pole SVF coefficient: tan(pi * min(0.499, f/sr)).
func svfCoefficient(cutoffHz Smp) Smp {
	sr := float64(SampleRate())
	ratio := float64(cutoffHz) / sr
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 0.499 {
		ratio = 0.499
	}
	return Smp(math.Tan(math.Pi * ratio))
}

func NewSVF(cutoffHz, resonance float64) *SVF {
	f := &SVF{}
	f.SetParams(cutoffHz, resonance)
	return f
}

func (f *SVF) SetParams(cutoffHz, resonance float64) {
	if resonance < 1e-6 {
		resonance = 1e-6
	}
	f.g = svfCoefficient(Smp(cutoffHz))
	f.k = 1 / Smp(resonance)
}

// Lowpass filters one stereo frame.
func (f *SVF) Lowpass(l, r Smp) (Smp, Smp) {
	denom := 1 + f.g*(f.g+f.k)
	if denom == 0 {
		denom = 1e-9
	}
	a0 := 1 / denom
	a1 := f.g * a0
	a2 := f.g * a1

	in := [2]Smp{l, r}
	var out [2]Smp
	for c := range in {
		// TPT SVF update (Simper):
		// v3 = x - ic2eq
		// v1 = a1*ic1eq + a2*v3
		// v2 = ic2eq + a2*ic1eq + a3*v3
		// ic1eq = 2*v1 - ic1eq
		// ic2eq = 2*v2 - ic2eq
		x := in[c]
		v3 := x - f.ic2eq[c]
		v1 := a0*f.ic1eq[c] + a1*v3
		v2 := f.ic2eq[c] + a1*f.ic1eq[c] + a2*v3
		f.ic1eq[c] = 2*v1 - f.ic1eq[c]
		f.ic2eq[c] = 2*v2 - f.ic2eq[c]
		out[c] = v2
	}
	return out[0], out[1]
}
