// Package audio produces the single tone a running sound timer makes,
// through SDL's queueing audio API. One frame's worth of square wave is
// queued per beeping frame.
package audio

import (
	"encoding/binary"

	"github.com/veandco/go-sdl2/sdl"
)

const (
	sampleRate = 48000
	toneHz     = 440
	volume     = 6000
	// samples per 60Hz frame
	frameSamples = sampleRate / 60
)

// Beeper queues square wave audio on demand.
type Beeper struct {
	device sdl.AudioDeviceID
	wave   []byte
	phase  int
}

// Open initialises SDL audio and opens the default output device.
func Open() (*Beeper, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, err
	}

	device, err := sdl.OpenAudioDevice("", false, &sdl.AudioSpec{
		Freq:     sampleRate,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  2048,
	}, nil, 0)
	if err != nil {
		return nil, err
	}
	sdl.PauseAudioDevice(device, false)

	return &Beeper{device: device, wave: make([]byte, frameSamples*2)}, nil
}

// Beep queues one frame of tone. Called once per frame in which the
// sound timer was running; the phase carries over so consecutive frames
// form a continuous wave.
func (b *Beeper) Beep() error {
	period := sampleRate / toneHz
	for i := 0; i < frameSamples; i++ {
		var sample int16 = volume
		if b.phase < period/2 {
			sample = -volume
		}
		binary.LittleEndian.PutUint16(b.wave[i*2:], uint16(sample))
		b.phase = (b.phase + 1) % period
	}
	return sdl.QueueAudio(b.device, b.wave)
}

// Close releases the audio device.
func (b *Beeper) Close() {
	sdl.CloseAudioDevice(b.device)
}
