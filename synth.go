package main

import (
	"encoding/binary"
	"math"
)

const (
	// MaxVoices bounds polyphony; the oldest voice is stolen beyond it.
	MaxVoices = 32
	// voiceGain scales each voice so a full chord stays inside the
	// soft clipper's linear range.
	voiceGain = 0.2
)

type synthCmdKind int

const (
	cmdNoteOn synthCmdKind = iota
	cmdNoteOff
	cmdAllOff
	cmdWaveform
	cmdRecorder
)

type synthCmd struct {
	kind     synthCmdKind
	key      int
	velocity int
	channel  int
	waveform Waveform
	recorder *Recorder
}

// SoundingKey is a snapshot entry of one active voice, consumed by the
// curve mapper.
type SoundingKey struct {
	Key      int
	Velocity int
	Level    float64 // envelope level at the end of the last block
	Age      float64 // seconds since note on
}

// Synth is the real-time engine. Control methods enqueue commands; the
// audio thread drains the queue at block boundaries and renders the
// voice pool, so it never holds the user-facing lock mid-block.
type Synth struct {
	cmds     Box[[]synthCmd]
	sounding Box[[]SoundingKey]

	voices   [MaxVoices]Voice
	table    *Wavetable
	waveform Waveform
	filter   *SVF
	recorder *Recorder
	alloc    uint64
	frames   uint64 // total frames rendered

	scratch []float32
}

func NewSynth(waveform Waveform) *Synth {
	s := &Synth{
		waveform: waveform,
		table:    BuiltinWavetable(waveform),
		filter:   NewSVF(9000, 0.8),
	}
	return s
}

func (s *Synth) enqueue(cmd synthCmd) {
	s.cmds.Update(func(cmds []synthCmd) []synthCmd {
		return append(cmds, cmd)
	})
}

func (s *Synth) NoteOn(key, velocity, channel int) {
	if key < 0 || key > 127 || velocity <= 0 {
		return
	}
	s.enqueue(synthCmd{kind: cmdNoteOn, key: key, velocity: velocity, channel: channel})
}

func (s *Synth) NoteOff(key, channel int) {
	s.enqueue(synthCmd{kind: cmdNoteOff, key: key, channel: channel})
}

// AllNotesOff releases every active voice.
func (s *Synth) AllNotesOff() {
	s.enqueue(synthCmd{kind: cmdAllOff})
}

func (s *Synth) SetWaveform(w Waveform) {
	s.enqueue(synthCmd{kind: cmdWaveform, waveform: w})
}

// SetRecorder installs (or removes, with nil) the output tap.
func (s *Synth) SetRecorder(r *Recorder) {
	s.enqueue(synthCmd{kind: cmdRecorder, recorder: r})
}

// SoundingKeys returns the voice snapshot taken at the last block
// boundary.
func (s *Synth) SoundingKeys() []SoundingKey {
	return s.sounding.Get()
}

func (s *Synth) applyCmd(cmd synthCmd) {
	switch cmd.kind {
	case cmdNoteOn:
		s.alloc++
		v := s.allocVoice()
		v.start(cmd.key, cmd.velocity, cmd.channel, s.table, s.alloc)
		v.startFrame = s.frames
	case cmdNoteOff:
		for i := range s.voices {
			v := &s.voices[i]
			if v.active && v.key == cmd.key && v.channel == cmd.channel {
				v.release()
			}
		}
	case cmdAllOff:
		for i := range s.voices {
			s.voices[i].release()
		}
	case cmdWaveform:
		s.waveform = cmd.waveform
		s.table = BuiltinWavetable(cmd.waveform)
	case cmdRecorder:
		s.recorder = cmd.recorder
	}
}

// allocVoice returns a free voice, stealing the oldest one when the
// pool is exhausted.
func (s *Synth) allocVoice() *Voice {
	var oldest *Voice
	for i := range s.voices {
		v := &s.voices[i]
		if !v.active {
			return v
		}
		if oldest == nil || v.age < oldest.age {
			oldest = v
		}
	}
	oldest.cut()
	return oldest
}

// RenderFrames renders interleaved stereo float32 frames.
func (s *Synth) RenderFrames(out []float32) {
	pending := s.cmds.Swap(nil)
	for _, cmd := range pending {
		s.applyCmd(cmd)
	}

	sr := float64(SampleRate())
	nframes := len(out) / 2
	for i := 0; i < nframes; i++ {
		var l, r Smp
		for vi := range s.voices {
			vl, vr := s.voices[vi].renderFrame(sr)
			l += vl
			r += vr
		}
		l, r = s.filter.Lowpass(l*voiceGain, r*voiceGain)
		out[i*2] = float32(softClip(l))
		out[i*2+1] = float32(softClip(r))
	}
	s.frames += uint64(nframes)

	if s.recorder != nil {
		s.recorder.Append(out[:nframes*2])
	}
	s.snapshotSounding(sr)
}

func (s *Synth) snapshotSounding(sr float64) {
	var keys []SoundingKey
	for i := range s.voices {
		v := &s.voices[i]
		if !v.active || v.percussive {
			continue
		}
		keys = append(keys, SoundingKey{
			Key:      v.key,
			Velocity: v.velocity,
			Level:    float64(v.env.Level()),
			Age:      float64(s.frames-v.startFrame) / sr,
		})
	}
	s.sounding.Set(keys)
}

// Read implements io.Reader for the audio output: little-endian
// float32 interleaved stereo, as configured on the oto context.
func (s *Synth) Read(p []byte) (int, error) {
	nframes := len(p) / 8
	if nframes == 0 {
		return 0, nil
	}
	need := nframes * 2
	if cap(s.scratch) < need {
		s.scratch = make([]float32, need)
	}
	buf := s.scratch[:need]
	s.RenderFrames(buf)
	for i, smp := range buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(smp))
	}
	return nframes * 8, nil
}
