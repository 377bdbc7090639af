package portaudio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/koscakluka/ema-assist/core/audio"
)

// Client is a duplex PortAudio stream. Playback through SendAudio blocks
// until the audio is written, so marks are called as soon as they are set.
type Client struct {
	frames int
	stream *portaudio.Stream

	in  []int16
	out []int16

	leftover []byte
	writeMu  sync.Mutex

	captureMu     sync.Mutex
	captureCancel context.CancelFunc
	captureDone   chan struct{}

	Logger *slog.Logger
}

// NewClient opens the default duplex stream with buffers of frames samples.
func NewClient(frames int) (*Client, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	in := make([]int16, frames)
	out := make([]int16, frames)
	stream, err := portaudio.OpenDefaultStream(1, 1, audio.DefaultSampleRate, frames, in, out)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to start portaudio stream: %w", err)
	}

	return &Client{
		frames: frames,
		stream: stream,
		in:     in,
		out:    out,
		Logger: slog.Default(),
	}, nil
}

func (c *Client) StartCapture(ctx context.Context, onAudio func(audio []byte)) error {
	c.captureMu.Lock()
	defer c.captureMu.Unlock()
	if c.captureCancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.captureCancel = cancel
	c.captureDone = done

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			if err := c.stream.Read(); err != nil {
				c.Logger.Warn("failed to read from portaudio stream", "error", err)
				continue
			}

			audioBuffer := bytes.Buffer{}
			_ = binary.Write(&audioBuffer, binary.LittleEndian, c.in)
			onAudio(audioBuffer.Bytes())
		}
	}()
	return nil
}

func (c *Client) StopCapture() error {
	c.captureMu.Lock()
	cancel, done := c.captureCancel, c.captureDone
	c.captureCancel, c.captureDone = nil, nil
	c.captureMu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

func (c *Client) SendAudio(audio []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	chunkSize := c.frames * 2
	audio = append(c.leftover, audio...)
	for len(audio) >= chunkSize {
		if err := binary.Read(bytes.NewReader(audio[:chunkSize]), binary.LittleEndian, c.out); err != nil {
			return fmt.Errorf("failed to decode audio chunk: %w", err)
		}
		if err := c.stream.Write(); err != nil {
			return fmt.Errorf("failed to write to portaudio stream: %w", err)
		}
		audio = audio[chunkSize:]
	}
	c.leftover = append([]byte(nil), audio...)
	return nil
}

func (c *Client) ClearBuffer() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.leftover = nil
}

// Mark flushes the partial chunk padded with silence and calls callback.
func (c *Client) Mark(name string, callback func(string)) error {
	c.writeMu.Lock()
	if len(c.leftover) > 0 {
		padded := make([]byte, c.frames*2)
		copy(padded, c.leftover)
		c.leftover = nil
		if err := binary.Read(bytes.NewReader(padded), binary.LittleEndian, c.out); err == nil {
			if err := c.stream.Write(); err != nil {
				c.Logger.Warn("failed to flush portaudio stream", "error", err)
			}
		}
	}
	c.writeMu.Unlock()

	callback(name)
	return nil
}

func (c *Client) Close() error {
	_ = c.StopCapture()
	if err := c.stream.Close(); err != nil {
		_ = portaudio.Terminate()
		return fmt.Errorf("failed to close portaudio stream: %w", err)
	}
	return portaudio.Terminate()
}

func (c *Client) EncodingInfo() audio.EncodingInfo {
	return audio.EncodingInfo{
		SampleRate: audio.DefaultSampleRate,
		Format:     audio.EncodingLinear16,
	}
}
