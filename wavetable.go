package main

import (
	"fmt"
	"math"
	"sync"
)

const MaxMipLevel = 8

// Wavetable holds a single-cycle wave and its mip levels. Level 0 is
// the base wave; each following level halves the size and the harmonic
// content, so a voice playing high up the keyboard reads from a table
// that cannot alias. Levels are built lazily on first use.
type Wavetable struct {
	mips []Wave
}

func NewWavetable(base Wave) (*Wavetable, error) {
	if len(base) == 0 {
		return nil, fmt.Errorf("wavetable: empty wave")
	}
	base.removeDCInPlace()
	wt := &Wavetable{}
	wt.mips = make([]Wave, 1, MaxMipLevel+1)
	wt.mips[0] = base
	return wt, nil
}

func (wt *Wavetable) String() string {
	size := 0
	if len(wt.mips) > 0 {
		size = len(wt.mips[0])
	}
	return fmt.Sprintf("Wavetable(size=%d levels=%d)", size, len(wt.mips))
}

// ensureLevel builds mip level l if not present, ensuring l-1 exists first.
func (wt *Wavetable) ensureLevel(l int) {
	if l <= 0 {
		return
	}
	if l >= len(wt.mips) {
		wt.ensureLevel(l - 1)
	}
	for len(wt.mips) <= l {
		wt.mips = append(wt.mips, nil)
	}
	if wt.mips[l] != nil {
		return
	}
	prev := wt.mips[l-1]
	if len(prev) <= 16 {
		wt.mips[l] = prev
		return
	}
	next := prev.buildFFTLowpass()
	next.removeDCInPlace()
	wt.mips[l] = next
}

// selectMipLevel chooses a mip level based on instantaneous frequency.
// sr: sample rate, freq: Hz, baseSize: samples of level 0.
func selectMipLevel(freq, sr float64, baseSize int) int {
	if freq <= 0 || baseSize <= 0 || sr <= 0 {
		return 0
	}
	// Highest harmonic that fits under Nyquist.
	H := (sr / 2.0) / freq
	if H <= 1 {
		return 0
	}
	return max(int(math.Log2(float64(baseSize)/H)), 0)
}

// SampleMip samples at phase using the mip level chosen from freq,
// crossfading between adjacent levels near the boundary.
func (wt *Wavetable) SampleMip(phase, freq, sr float64) Smp {
	if wt == nil || len(wt.mips) == 0 || len(wt.mips[0]) == 0 {
		return 0
	}
	baseSize := len(wt.mips[0])
	lvl := min(selectMipLevel(freq, sr, baseSize), MaxMipLevel)
	wt.ensureLevel(lvl)
	lvl2 := lvl
	fade := 0.0
	H := (sr / 2.0) / freq
	clvl := math.Log2(float64(baseSize) / H)
	if clvl > float64(lvl) {
		lvl2 = lvl + 1
		fade = clvl - float64(lvl)
		if fade > 1 {
			fade = 1
		}
	}
	if lvl2 > MaxMipLevel {
		lvl2 = MaxMipLevel
	}
	wt.ensureLevel(lvl2)
	s0 := wt.mips[lvl].sampleAt(phase)
	if lvl2 == lvl {
		return s0
	}
	s1 := wt.mips[lvl2].sampleAt(phase)
	return (1-fade)*s0 + fade*s1
}

// Waveform names the builtin single-cycle shapes.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSaw
	WaveSquare
)

func (w Waveform) String() string {
	switch w {
	case WaveSine:
		return "sine"
	case WaveTriangle:
		return "triangle"
	case WaveSaw:
		return "saw"
	case WaveSquare:
		return "square"
	}
	return "unknown"
}

func ResolveWaveform(name string) (Waveform, error) {
	switch name {
	case "sine", "sin":
		return WaveSine, nil
	case "triangle", "tri":
		return WaveTriangle, nil
	case "saw":
		return WaveSaw, nil
	case "square":
		return WaveSquare, nil
	}
	return 0, fmt.Errorf("invalid waveform: %s", name)
}

// BuiltinWavetable returns a shared, lazily-built wavetable for one of
// the builtin waveforms.
func BuiltinWavetable(w Waveform) *Wavetable {
	buildBuiltinTables.Do(initBuiltinTables)
	return builtinTables[w]
}

var (
	buildBuiltinTables sync.Once
	builtinTables      map[Waveform]*Wavetable
)

func initBuiltinTables() {
	builtinTables = map[Waveform]*Wavetable{}
	for w, build := range map[Waveform]func(int) Wave{
		WaveSine:     sinWave,
		WaveTriangle: triangleWave,
		WaveSaw:      sawWave,
		WaveSquare:   squareWave,
	} {
		wt, err := NewWavetable(build(DefaultWaveSize))
		if err != nil {
			panic(err)
		}
		builtinTables[w] = wt
	}
}
