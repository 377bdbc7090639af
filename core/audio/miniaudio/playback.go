package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-assist/core/audio"
)

type playbackClient struct {
	device *malgo.Device

	pending []byte
	marks   []playbackMark

	deviceMu sync.Mutex
	mu       sync.Mutex
}

type playbackMark struct {
	name     string
	position int
	callback func(string)
}

func (c *playbackClient) Init(audioContext *malgo.AllocatedContext) error {
	c.deviceMu.Lock()
	defer c.deviceMu.Unlock()

	sampleRate := uint32(audio.DefaultSampleRate)
	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.SampleRate = sampleRate
	config.Playback.Format = format
	config.Playback.Channels = uint32(channels)
	config.Alsa.NoMMap = 1
	config.PeriodSizeInFrames = sampleRate / 10 // ~100ms of audio
	config.Periods = 4

	var err error
	if c.device, err = malgo.InitDevice(
		audioContext.Context,
		config,
		malgo.DeviceCallbacks{Data: c.processAudio(bytesPerFrame)},
	); err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	return nil
}

func (c *playbackClient) Start() error {
	c.deviceMu.Lock()
	defer c.deviceMu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if err := c.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback device: %w", err)
	}

	return nil
}

func (c *playbackClient) SendAudio(audio []byte) error {
	c.deviceMu.Lock()
	started := c.device != nil && c.device.IsStarted()
	c.deviceMu.Unlock()
	if !started {
		return fmt.Errorf("playback device not started")
	}

	c.enqueue(audio)
	return nil
}

func (c *playbackClient) enqueue(audio []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = append(c.pending, audio...)
}

// ClearBuffer drops pending audio together with the marks placed in it.
// Dropped marks are never called.
func (c *playbackClient) ClearBuffer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
	c.marks = nil
}

// Mark calls callback once every byte queued before the mark was played.
func (c *playbackClient) Mark(name string, callback func(string)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.marks = append(c.marks, playbackMark{
		name:     name,
		position: len(c.pending),
		callback: callback,
	})
	return nil
}

func (c *playbackClient) Uninit() error {
	c.deviceMu.Lock()
	defer c.deviceMu.Unlock()

	if c.device == nil {
		return nil
	}

	c.device.Uninit()
	c.device = nil
	return nil
}

func (c *playbackClient) processAudio(bytesPerFrame int) malgo.DataProc {
	return func(pOutput, _ []byte, frameCount uint32) {
		need := int(frameCount) * bytesPerFrame
		passed := c.consume(pOutput, need)
		if len(passed) == 0 {
			return
		}
		go func() {
			for _, mark := range passed {
				mark.callback(mark.name)
			}
		}()
	}
}

// consume copies up to need bytes of pending audio into out and returns the
// marks that were passed.
func (c *playbackClient) consume(out []byte, need int) []playbackMark {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := min(need, len(c.pending), len(out))
	copy(out, c.pending[:n])
	clear(out[n:min(need, len(out))])
	c.pending = c.pending[n:]
	if len(c.pending) == 0 {
		c.pending = nil
	}

	passed := 0
	for i := range c.marks {
		if c.marks[i].position <= n {
			passed++
			continue
		}
		c.marks[i].position -= n
	}
	if passed == 0 {
		return nil
	}

	done := c.marks[:passed]
	c.marks = c.marks[passed:]
	return done
}
