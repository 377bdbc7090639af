package miniaudio

import (
	"context"
	"errors"
	"fmt"

	"github.com/gen2brain/malgo"
	"github.com/koscakluka/ema-assist/core/audio"
)

// Client owns one malgo context with a capture and a playback device, both
// mono at [audio.DefaultSampleRate]. It satisfies [audio.Source] and
// [audio.Sink].
type Client struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	playback     playbackClient
	capture      captureClient
}

func NewClient() (*Client, error) {
	audioCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	client := Client{audioContext: audioCtx}

	if err := client.playback.Init(audioCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize playback client: %w", err)
	}

	if err := client.playback.Start(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to start playback device: %w", err)
	}

	if err := client.capture.Init(audioCtx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize capture client: %w", err)
	}

	return &client, nil
}

func (c *Client) StartCapture(_ context.Context, onAudio func(audio []byte)) error {
	return c.capture.Start(onAudio)
}

func (c *Client) StopCapture() error {
	return c.capture.Stop()
}

func (c *Client) SendAudio(audio []byte) error {
	return c.playback.SendAudio(audio)
}

func (c *Client) ClearBuffer() {
	c.playback.ClearBuffer()
}

func (c *Client) Mark(name string, callback func(string)) error {
	return c.playback.Mark(name, callback)
}

func (c *Client) Close() error {
	var errs []error
	if err := c.capture.Uninit(); err != nil {
		errs = append(errs, err)
	}
	if err := c.playback.Uninit(); err != nil {
		errs = append(errs, err)
	}
	if c.audioContext != nil {
		if err := c.audioContext.Uninit(); err != nil {
			errs = append(errs, fmt.Errorf("failed to uninitialize audio context: %w", err))
		}
		c.audioContext.Free()
		c.audioContext = nil
	}
	return errors.Join(errs...)
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: audio.DefaultSampleRate,
		Format:     audio.EncodingLinear16,
	}
}
