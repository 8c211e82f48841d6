package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
)

func loadSong(path string, includePercussion bool) (*Song, error) {
	f, err := LoadSMF(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	song := BuildSong(f, SongOptions{IncludePercussion: includePercussion})
	if song.Title == "" {
		song.Title = filepath.Base(path)
	}
	logger.Info("song loaded",
		"path", path,
		"title", song.Title,
		"notes", len(song.Notes),
		"duration", song.Duration)
	return song, nil
}

func runGui(song *Song, waveform Waveform) error {
	synth := NewSynth(waveform)
	app := CreateApp(synth, song)
	title := "wave-gen"
	if song != nil {
		title = fmt.Sprintf("wave-gen : %s", song.Title)
	}
	return WithGL(title, app)
}

func run() error {
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	sampleRate := flag.Int("sr", defaultSampleRate, "engine sample rate")
	waveName := flag.String("wave", "sine", "waveform (sine, triangle, saw, square)")
	outPath := flag.String("o", "", "render the MIDI file to a WAV file instead of opening a window")
	percussion := flag.Bool("percussion", false, "include channel 10 percussion during playback")
	flag.Parse()

	if err := InitLogger(*logLevel); err != nil {
		return err
	}
	if err := SetSampleRate(*sampleRate); err != nil {
		return err
	}
	waveform, err := ResolveWaveform(*waveName)
	if err != nil {
		return err
	}

	var song *Song
	if flag.NArg() > 0 {
		song, err = loadSong(flag.Arg(0), *percussion)
		if err != nil {
			return err
		}
	}

	if *outPath != "" {
		if song == nil {
			return fmt.Errorf("-o needs a MIDI file argument")
		}
		if err := RenderSongToWAV(song, waveform, *outPath, SampleRate()); err != nil {
			return err
		}
		logger.Info("rendered", "path", *outPath)
		return nil
	}

	return runGui(song, waveform)
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("%v\n", err)
	}
}
