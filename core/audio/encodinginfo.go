package audio

import (
	"context"
	"fmt"
)

const (
	DefaultSampleRate = 16000
	DefaultFormat     = EncodingLinear16
)

func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Format: DefaultFormat}
}

type EncodingInfo struct {
	SampleRate int
	Format     Format
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

func (e EncodingInfo) SilenceValue() byte {
	switch e.Format {
	case EncodingALaw:
		return 0x55
	case EncodingMulaw:
		return 0xFF
	case EncodingLinear16:
		return 0
	}

	return 0
}

// BytesPerSecond returns the size of one second of mono audio.
func (e EncodingInfo) BytesPerSecond() int {
	size := e.Format.ByteSize()
	if size < 0 {
		return 0
	}
	return e.SampleRate * size
}

type Format string

func (f Format) Name() string {
	return string(f)
}

func (f Format) ByteSize() int {
	switch f {
	case EncodingMulaw, EncodingALaw:
		return 1
	case EncodingLinear16:
		return 2
	}
	return -1
}

const (
	EncodingMulaw    Format = "mulaw"
	EncodingALaw     Format = "alaw"
	EncodingLinear16 Format = "linear16"
)

// ParseFormat maps an encoding name to a known format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(name); f {
	case EncodingMulaw, EncodingALaw, EncodingLinear16:
		return f, nil
	}
	return "", fmt.Errorf("unknown audio format %q", name)
}

// Source delivers captured microphone audio.
type Source interface {
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
	EncodingInfo() EncodingInfo
}

// Sink plays audio. Mark registers a callback invoked once the audio sent
// before the mark has been played.
type Sink interface {
	SendAudio(audio []byte) error
	ClearBuffer()
	Mark(name string, callback func(string)) error
	EncodingInfo() EncodingInfo
}
