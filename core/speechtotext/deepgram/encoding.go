package deepgram

import (
	"errors"
	"fmt"
	"slices"

	"github.com/koscakluka/ema-assist/core/audio"
)

// ErrUnsupportedEncoding is returned when the audio source produces a format
// live transcription does not accept.
var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// liveEncoding is the encoding and sample_rate pair of a live request.
type liveEncoding struct {
	Name       string
	SampleRate int
}

// Companded formats are accepted at telephony rates only.
var liveSampleRates = map[audio.Format][]int{
	audio.EncodingLinear16: {8000, 16000, 24000, 32000, 48000},
	audio.EncodingALaw:     {8000},
	audio.EncodingMulaw:    {8000},
}

func convertEncoding(info audio.EncodingInfo) (liveEncoding, error) {
	rates, ok := liveSampleRates[info.Format]
	if !ok {
		return liveEncoding{}, fmt.Errorf("%w: format %q", ErrUnsupportedEncoding, info.Format.Name())
	}
	if !slices.Contains(rates, info.SampleRate) {
		return liveEncoding{}, fmt.Errorf("%w: %s at %d Hz", ErrUnsupportedEncoding, info.Format.Name(), info.SampleRate)
	}
	return liveEncoding{Name: info.Format.Name(), SampleRate: info.SampleRate}, nil
}
