package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// Standard MIDI File decoder.
//
// Supports format 0 and 1 files with metrical (ticks per quarter note)
// division. SMPTE division is rejected. Running status, note on/off,
// the remaining channel voice messages, meta events and sysex chunks
// are all handled; events the player has no use for are still decoded
// so that delta times stay consistent.

var (
	ErrNotSMF        = errors.New("not a standard MIDI file")
	ErrSMPTEDivision = errors.New("SMPTE division is not supported")
	ErrTruncated     = errors.New("unexpected end of data")
)

type EventKind int

const (
	EventNoteOff EventKind = iota
	EventNoteOn
	EventAftertouch
	EventControlChange
	EventProgramChange
	EventChannelPressure
	EventPitchBend
	EventTempo
	EventTrackName
	EventText
	EventTimeSignature
	EventKeySignature
	EventEndOfTrack
	EventMetaOther
	EventSysEx
)

func (k EventKind) String() string {
	switch k {
	case EventNoteOff:
		return "note-off"
	case EventNoteOn:
		return "note-on"
	case EventAftertouch:
		return "aftertouch"
	case EventControlChange:
		return "control-change"
	case EventProgramChange:
		return "program-change"
	case EventChannelPressure:
		return "channel-pressure"
	case EventPitchBend:
		return "pitch-bend"
	case EventTempo:
		return "tempo"
	case EventTrackName:
		return "track-name"
	case EventText:
		return "text"
	case EventTimeSignature:
		return "time-signature"
	case EventKeySignature:
		return "key-signature"
	case EventEndOfTrack:
		return "end-of-track"
	case EventMetaOther:
		return "meta"
	case EventSysEx:
		return "sysex"
	}
	return "unknown"
}

// SMFEvent is a single track event with its absolute tick position.
//
// For channel messages Data1/Data2 hold the message bytes (key and
// velocity for notes, controller and value for control changes, the
// 14-bit value split low/high for pitch bend). For meta events Meta
// holds the meta type byte and MetaData the payload.
type SMFEvent struct {
	Tick     int
	Kind     EventKind
	Channel  int
	Data1    int
	Data2    int
	Meta     byte
	MetaData []byte
}

func (e SMFEvent) String() string {
	switch e.Kind {
	case EventNoteOn, EventNoteOff:
		return fmt.Sprintf("%v ch=%d key=%d vel=%d @%d", e.Kind, e.Channel, e.Data1, e.Data2, e.Tick)
	case EventTempo:
		return fmt.Sprintf("tempo %dus/q @%d", e.TempoMicros(), e.Tick)
	default:
		return fmt.Sprintf("%v @%d", e.Kind, e.Tick)
	}
}

// TempoMicros returns the microseconds-per-quarter-note payload of a
// tempo event, or 0 for any other event.
func (e SMFEvent) TempoMicros() int {
	if e.Kind != EventTempo || len(e.MetaData) != 3 {
		return 0
	}
	return int(e.MetaData[0])<<16 | int(e.MetaData[1])<<8 | int(e.MetaData[2])
}

// PitchBendValue returns the centered 14-bit pitch bend value in
// [-8192, 8191].
func (e SMFEvent) PitchBendValue() int {
	return (e.Data2<<7 | e.Data1) - 0x2000
}

type SMFTrack struct {
	Name   string
	Events []SMFEvent
}

type SMFile struct {
	Format   int
	Division int // ticks per quarter note
	Tracks   []*SMFTrack
}

// smfReader walks a byte slice, keeping the read position.
type smfReader struct {
	data []byte
	pos  int
}

func (r *smfReader) remaining() int {
	return len(r.data) - r.pos
}

func (r *smfReader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, ErrTruncated
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *smfReader) readBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, ErrTruncated
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *smfReader) readUint16() (int, error) {
	b, err := r.readBytes(2)
	if err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint16(b)), nil
}

func (r *smfReader) readUint32() (int, error) {
	b, err := r.readBytes(4)
	if err != nil {
		return 0, err
	}
	return int(binary.BigEndian.Uint32(b)), nil
}

// readVLQ reads a variable-length quantity of at most four bytes.
func (r *smfReader) readVLQ() (int, error) {
	value := 0
	for i := 0; i < 4; i++ {
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		value = value<<7 | int(b&0x7f)
		if b&0x80 == 0 {
			return value, nil
		}
		if i == 3 {
			return 0, fmt.Errorf("invalid variable-length quantity: continuation bit set on byte 4")
		}
	}
	return value, nil
}

// LoadSMF reads and parses a standard MIDI file from disk.
func LoadSMF(path string) (*SMFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := ParseSMF(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ParseSMF parses a standard MIDI file from memory.
func ParseSMF(data []byte) (*SMFile, error) {
	r := &smfReader{data: data}
	sig, err := r.readBytes(4)
	if err != nil || string(sig) != "MThd" {
		return nil, ErrNotSMF
	}
	headerLen, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	if headerLen < 6 {
		return nil, fmt.Errorf("bad MThd length: %d", headerLen)
	}
	format, err := r.readUint16()
	if err != nil {
		return nil, err
	}
	ntracks, err := r.readUint16()
	if err != nil {
		return nil, err
	}
	division, err := r.readUint16()
	if err != nil {
		return nil, err
	}
	// Skip any header bytes beyond the standard six.
	if _, err := r.readBytes(headerLen - 6); err != nil {
		return nil, err
	}
	if format > 2 {
		return nil, fmt.Errorf("unknown SMF format: %d", format)
	}
	if division&0x8000 != 0 {
		return nil, ErrSMPTEDivision
	}
	if division == 0 {
		return nil, fmt.Errorf("division is zero")
	}
	f := &SMFile{
		Format:   format,
		Division: division,
	}
	for i := 0; i < ntracks; i++ {
		track, err := parseTrack(r)
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i, err)
		}
		f.Tracks = append(f.Tracks, track)
	}
	if len(f.Tracks) == 0 {
		return nil, fmt.Errorf("file contains no tracks")
	}
	return f, nil
}

func parseTrack(r *smfReader) (*SMFTrack, error) {
	sig, err := r.readBytes(4)
	if err != nil {
		return nil, err
	}
	if string(sig) != "MTrk" {
		return nil, fmt.Errorf("bad track signature: %q", sig)
	}
	trackLen, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	if trackLen > r.remaining() {
		return nil, fmt.Errorf("declared track length %d exceeds remaining data: %w", trackLen, ErrTruncated)
	}
	tr := &smfReader{data: r.data[r.pos : r.pos+trackLen]}
	r.pos += trackLen

	track := &SMFTrack{}
	tick := 0
	runningStatus := byte(0)
	for tr.remaining() > 0 {
		delta, err := tr.readVLQ()
		if err != nil {
			return nil, fmt.Errorf("delta time: %w", err)
		}
		tick += delta
		ev, done, err := parseEvent(tr, tick, &runningStatus)
		if err != nil {
			return nil, err
		}
		if ev.Kind == EventTrackName && track.Name == "" {
			track.Name = string(ev.MetaData)
		}
		track.Events = append(track.Events, ev)
		if done {
			// End of track terminates the chunk even if the declared
			// length claims more bytes.
			break
		}
	}
	return track, nil
}

func parseEvent(r *smfReader, tick int, runningStatus *byte) (SMFEvent, bool, error) {
	first, err := r.readByte()
	if err != nil {
		return SMFEvent{}, false, err
	}
	switch {
	case first == 0xff:
		*runningStatus = 0
		return parseMetaEvent(r, tick)
	case first == 0xf0 || first == 0xf7:
		*runningStatus = 0
		length, err := r.readVLQ()
		if err != nil {
			return SMFEvent{}, false, fmt.Errorf("sysex length: %w", err)
		}
		data, err := r.readBytes(length)
		if err != nil {
			return SMFEvent{}, false, fmt.Errorf("sysex data: %w", err)
		}
		return SMFEvent{Tick: tick, Kind: EventSysEx, MetaData: data}, false, nil
	case first&0xf0 == 0xf0:
		return SMFEvent{}, false, fmt.Errorf("unsupported status byte 0x%02x", first)
	}
	status := first
	dataStart := byte(0)
	haveData := false
	if first&0x80 == 0 {
		// Data byte: reuse the running status.
		if *runningStatus == 0 {
			return SMFEvent{}, false, fmt.Errorf("data byte 0x%02x without running status", first)
		}
		status = *runningStatus
		dataStart = first
		haveData = true
	} else {
		*runningStatus = status
	}
	readData := func() (byte, error) {
		if haveData {
			haveData = false
			return dataStart, nil
		}
		b, err := r.readByte()
		if err != nil {
			return 0, err
		}
		if b&0x80 != 0 {
			return 0, fmt.Errorf("status byte 0x%02x where data byte expected", b)
		}
		return b, nil
	}
	channel := int(status & 0x0f)
	ev := SMFEvent{Tick: tick, Channel: channel}
	switch status & 0xf0 {
	case 0x80, 0x90, 0xa0, 0xb0, 0xe0:
		d1, err := readData()
		if err != nil {
			return SMFEvent{}, false, err
		}
		d2, err := readData()
		if err != nil {
			return SMFEvent{}, false, err
		}
		ev.Data1 = int(d1)
		ev.Data2 = int(d2)
	case 0xc0, 0xd0:
		d1, err := readData()
		if err != nil {
			return SMFEvent{}, false, err
		}
		ev.Data1 = int(d1)
	}
	switch status & 0xf0 {
	case 0x80:
		ev.Kind = EventNoteOff
	case 0x90:
		if ev.Data2 == 0 {
			// Note on with zero velocity is a note off.
			ev.Kind = EventNoteOff
		} else {
			ev.Kind = EventNoteOn
		}
	case 0xa0:
		ev.Kind = EventAftertouch
	case 0xb0:
		ev.Kind = EventControlChange
	case 0xc0:
		ev.Kind = EventProgramChange
	case 0xd0:
		ev.Kind = EventChannelPressure
	case 0xe0:
		ev.Kind = EventPitchBend
	}
	return ev, false, nil
}

func parseMetaEvent(r *smfReader, tick int) (SMFEvent, bool, error) {
	metaType, err := r.readByte()
	if err != nil {
		return SMFEvent{}, false, fmt.Errorf("meta type: %w", err)
	}
	length, err := r.readVLQ()
	if err != nil {
		return SMFEvent{}, false, fmt.Errorf("meta length: %w", err)
	}
	data, err := r.readBytes(length)
	if err != nil {
		return SMFEvent{}, false, fmt.Errorf("meta data (type 0x%02x): %w", metaType, err)
	}
	ev := SMFEvent{Tick: tick, Meta: metaType, MetaData: data}
	switch metaType {
	case 0x2f:
		ev.Kind = EventEndOfTrack
		return ev, true, nil
	case 0x51:
		if length != 3 {
			return SMFEvent{}, false, fmt.Errorf("bad tempo event length: %d", length)
		}
		ev.Kind = EventTempo
	case 0x03:
		ev.Kind = EventTrackName
	case 0x01, 0x02, 0x04, 0x05, 0x06, 0x07:
		ev.Kind = EventText
	case 0x58:
		if length != 4 {
			return SMFEvent{}, false, fmt.Errorf("bad time signature length: %d", length)
		}
		ev.Kind = EventTimeSignature
	case 0x59:
		if length != 2 {
			return SMFEvent{}, false, fmt.Errorf("bad key signature length: %d", length)
		}
		ev.Kind = EventKeySignature
	default:
		ev.Kind = EventMetaOther
	}
	return ev, false, nil
}
