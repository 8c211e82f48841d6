package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mitchellh/go-homedir"
)

// Recorder is an output tap: while installed on the synth it captures
// every rendered stereo frame.
type Recorder struct {
	frames Box[[]float32]
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Append captures one block of interleaved stereo samples. Called from
// the audio thread.
func (r *Recorder) Append(block []float32) {
	r.frames.Update(func(frames []float32) []float32 {
		return append(frames, block...)
	})
}

// Frames returns the number of captured frames.
func (r *Recorder) Frames() int {
	return len(r.frames.Get()) / 2
}

// SaveWAV writes the capture as a 16-bit stereo WAV file. When
// fileRate differs from the engine rate the capture is resampled
// first.
func (r *Recorder) SaveWAV(path string, fileRate int) error {
	samples := r.frames.Get()
	if len(samples) == 0 {
		return fmt.Errorf("nothing recorded")
	}
	return writeWAV(path, samples, SampleRate(), fileRate)
}

func writeWAV(path string, samples []float32, engineRate, fileRate int) error {
	if fileRate <= 0 {
		fileRate = engineRate
	}
	if fileRate != engineRate {
		ratio := float64(fileRate) / float64(engineRate)
		resampled, err := resampleInterleaved(samples, 2, ratio)
		if err != nil {
			return fmt.Errorf("resample %d -> %d: %w", engineRate, fileRate, err)
		}
		samples = resampled
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := wav.NewEncoder(f, fileRate, 16, 2, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 2,
			SampleRate:  fileRate,
		},
		SourceBitDepth: 16,
		Data:           make([]int, len(samples)),
	}
	for i, smp := range samples {
		buf.Data[i] = int(clamp(float64(smp), -1, 1) * 32767)
	}
	if err := enc.Write(buf); err != nil {
		return err
	}
	return enc.Close()
}

// DefaultRecordingPath places recordings in the user's home directory
// with a timestamped name.
func DefaultRecordingPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("wave-gen-%s.wav", time.Now().Format("20060102-150405"))
	return filepath.Join(home, name), nil
}
