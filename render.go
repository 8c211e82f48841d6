package main

// Offline rendering drives the same synth as live playback, but with
// time advanced by the frame counter instead of a wall clock.

const (
	renderBlockFrames = 256
	// renderTailSeconds keeps rendering past the last note so releases
	// and the filter ring out.
	renderTailSeconds = 2.0
)

// RenderSong synthesizes a whole song in one pass and returns the
// interleaved stereo capture at the engine rate.
func RenderSong(song *Song, waveform Waveform) []float32 {
	synth := NewSynth(waveform)
	edges := buildEdges(song)
	sr := float64(SampleRate())
	totalFrames := int((song.Duration + renderTailSeconds) * sr)

	out := make([]float32, 0, totalFrames*2)
	block := make([]float32, renderBlockFrames*2)
	next := 0
	for frame := 0; frame < totalFrames; frame += renderBlockFrames {
		blockEnd := float64(frame+renderBlockFrames) / sr
		for next < len(edges) && edges[next].at < blockEnd {
			e := edges[next]
			next++
			if e.on {
				synth.NoteOn(e.key, e.velocity, e.channel)
			} else {
				synth.NoteOff(e.key, e.channel)
			}
		}
		n := renderBlockFrames
		if frame+n > totalFrames {
			n = totalFrames - frame
		}
		buf := block[:n*2]
		synth.RenderFrames(buf)
		out = append(out, buf...)
	}
	return out
}

// RenderSongToWAV renders a song offline and writes it as a WAV file.
func RenderSongToWAV(song *Song, waveform Waveform, path string, fileRate int) error {
	samples := RenderSong(song, waveform)
	return writeWAV(path, samples, SampleRate(), fileRate)
}
