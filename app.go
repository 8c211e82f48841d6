package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Event is the type of callback functions sent to the app's events channel
type Event func()

type App struct {
	synth        *Synth
	oto          *OtoState
	piano        *Piano
	curve        *CurveState
	display      *CurveDisplay
	song         *Song
	player       *Player
	recorder     *Recorder
	globalKeyMap KeyMap
	events       chan Event
	shouldExit   bool
	lastError    error
}

func (app *App) SetLastError(err error) {
	app.lastError = err
	if err != nil {
		logger.Error("app error", "error", err)
	}
}

func (app *App) ClearLastError() {
	app.lastError = nil
}

func (app *App) postEvent(ev Event, dropIfFull bool) {
	if dropIfFull {
		select {
		case app.events <- ev:
		default:
		}
	} else {
		app.events <- ev
	}
}

func CreateApp(synth *Synth, song *Song) *App {
	return &App{
		synth: synth,
		song:  song,
		piano: CreatePiano(),
		curve: NewCurveState(),
	}
}

func (app *App) Init() error {
	// Event queue used by background goroutines to post updates to the main thread.
	if app.events == nil {
		app.events = make(chan Event, 1024)
	}
	oto, err := NewOtoState(SampleRate(), app.synth)
	if err != nil {
		return err
	}
	app.oto = oto

	display, err := CreateCurveDisplay()
	if err != nil {
		return err
	}
	app.display = display

	globalKeyMap := CreateKeyMap()
	globalKeyMap.Bind(glfw.KeyEscape, app.Quit)
	globalKeyMap.Bind(glfw.KeySpace, app.TogglePlayback)
	globalKeyMap.Bind(glfw.KeyF1, func() { app.synth.SetWaveform(WaveSine) })
	globalKeyMap.Bind(glfw.KeyF2, func() { app.synth.SetWaveform(WaveTriangle) })
	globalKeyMap.Bind(glfw.KeyF3, func() { app.synth.SetWaveform(WaveSaw) })
	globalKeyMap.Bind(glfw.KeyF4, func() { app.synth.SetWaveform(WaveSquare) })
	globalKeyMap.Bind(glfw.KeyF5, app.ToggleRecording)
	globalKeyMap.Bind(glfw.KeyUp, func() { app.piano.ShiftOctave(1) })
	globalKeyMap.Bind(glfw.KeyDown, func() { app.piano.ShiftOctave(-1) })
	app.globalKeyMap = globalKeyMap
	return nil
}

func (app *App) IsRunning() bool {
	return !app.shouldExit
}

func (app *App) Quit() {
	app.shouldExit = true
}

// TogglePlayback starts the loaded song, pauses it, or resumes it.
// After the song finishes another press starts it over.
func (app *App) TogglePlayback() {
	if app.song == nil {
		return
	}
	if app.player == nil || app.player.State() == PlayerStopped {
		player := NewPlayer(app.song, app.synth)
		if err := player.Start(); err != nil {
			app.SetLastError(err)
			return
		}
		app.player = player
		logger.Info("playback started", "title", app.song.Title, "duration", app.song.Duration)
		return
	}
	app.player.TogglePause()
}

// ToggleRecording starts a capture of the synth output, or stops the
// running one and saves it next to the user's home directory.
func (app *App) ToggleRecording() {
	if app.recorder == nil {
		app.recorder = NewRecorder()
		app.synth.SetRecorder(app.recorder)
		logger.Info("recording started")
		return
	}
	recorder := app.recorder
	app.recorder = nil
	app.synth.SetRecorder(nil)
	path, err := DefaultRecordingPath()
	if err != nil {
		app.SetLastError(err)
		return
	}
	// Saving can resample; keep it off the render thread.
	go func() {
		if err := recorder.SaveWAV(path, SampleRate()); err != nil {
			app.postEvent(func() { app.SetLastError(err) }, false)
			return
		}
		app.postEvent(func() {
			logger.Info("recording saved", "path", path, "frames", recorder.Frames())
		}, false)
	}()
}

func (app *App) OnKey(key glfw.Key, scancode int, action glfw.Action, modes glfw.ModifierKey) {
	switch action {
	case glfw.Press:
		if note, ok := app.piano.Press(key); ok {
			app.synth.NoteOn(note, pianoVelocity, pianoChannel)
			return
		}
		app.ClearLastError()
		app.globalKeyMap.HandleKey(key)
	case glfw.Release:
		if note, ok := app.piano.Release(key); ok {
			app.synth.NoteOff(note, pianoChannel)
		}
	}
}

func (app *App) OnChar(char rune) {
}

func (app *App) OnFramebufferSize(width, height int) {
	logger.Debug("OnFramebufferSize", "width", width, "height", height)
}

func (app *App) Render() error {
	app.curve.Advance(app.synth.SoundingKeys())
	app.display.Render(app.curve.Points(), GetTime())
	return nil
}

func (app *App) drainEvents() {
	for {
		select {
		case ev := <-app.events:
			ev()
		default:
			return // nothing queued right now
		}
	}
}

func (app *App) Update() error {
	app.drainEvents()
	return nil
}

func (app *App) Close() error {
	logger.Debug("Close")
	if app.player != nil {
		app.player.Stop()
	}
	for _, note := range app.piano.ReleaseAll() {
		app.synth.NoteOff(note, pianoChannel)
	}
	app.synth.AllNotesOff()
	if app.display != nil {
		app.display.Close()
	}
	if app.oto != nil {
		return app.oto.Close()
	}
	return nil
}
