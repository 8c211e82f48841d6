package main

import (
	"fmt"

	"github.com/dh1tw/gosamplerate"
)

const (
	resampleConverter = gosamplerate.SRC_SINC_FASTEST
	resampleMaxRatio  = 1.0 * 16
	resampleMinRatio  = 1.0 / 16
)

func isValidRatio(ratio float64) bool {
	if !gosamplerate.IsValidRatio(ratio) {
		return false
	}
	if ratio < resampleMinRatio || ratio > resampleMaxRatio {
		return false
	}
	return true
}

// resampleInterleaved converts a finished interleaved capture in one
// shot.
func resampleInterleaved(samples []float32, nchannels int, ratio float64) ([]float32, error) {
	if !isValidRatio(ratio) {
		return nil, fmt.Errorf("invalid resample ratio: %f", ratio)
	}
	if ratio == 1.0 {
		return samples, nil
	}
	return gosamplerate.Simple(samples, ratio, nchannels, resampleConverter)
}
