package deepgram

import (
	"fmt"
	"slices"

	"github.com/koscakluka/ema-assist/core/audio"
)

type encodingInfo struct {
	SampleRate int
	Encoding   string
}

func convertEncoding(encoding audio.EncodingInfo) (*encodingInfo, error) {
	var rates []int
	switch encoding.Format {
	case audio.EncodingLinear16:
		rates = []int{8000, 16000, 24000, 32000, 48000}
	case audio.EncodingMulaw, audio.EncodingALaw:
		rates = []int{8000, 16000}
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding.Format.Name())
	}

	if !slices.Contains(rates, encoding.SampleRate) {
		return nil, fmt.Errorf("unsupported sample rate %d for %s encoding", encoding.SampleRate, encoding.Format.Name())
	}

	return &encodingInfo{SampleRate: encoding.SampleRate, Encoding: encoding.Format.Name()}, nil
}
