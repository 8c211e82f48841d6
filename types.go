package main

import (
	"fmt"
	"image"
)

type Size = image.Point

// Smp is the sample type used throughout the engine.
type Smp = float64

const defaultSampleRate = 48000

var sampleRate = defaultSampleRate

func SampleRate() int {
	return sampleRate
}

// SetSampleRate must be called before the synth or any output is created.
func SetSampleRate(sr int) error {
	if sr < 8000 || sr > 192000 {
		return fmt.Errorf("invalid sample rate: %d", sr)
	}
	sampleRate = sr
	return nil
}
