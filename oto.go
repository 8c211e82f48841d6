package main

import (
	"io"

	"github.com/ebitengine/oto/v3"
)

// OtoState owns the audio device context and the single player that
// streams the synth output.
type OtoState struct {
	ctx    *oto.Context
	player *oto.Player
}

func NewOtoState(sampleRate int, src io.Reader) (*OtoState, error) {
	otoContextOptions := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0,
	}
	ctx, readyChan, err := oto.NewContext(otoContextOptions)
	if err != nil {
		return nil, err
	}
	<-readyChan
	player := ctx.NewPlayer(src)
	player.Play()
	return &OtoState{
		ctx:    ctx,
		player: player,
	}, nil
}

func (o *OtoState) Close() error {
	if o.player != nil {
		err := o.player.Close()
		o.player = nil
		return err
	}
	return nil
}
