package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/koscakluka/ema-assist/core/audio"
	"github.com/koscakluka/ema-assist/core/audio/miniaudio"
	"github.com/koscakluka/ema-assist/core/audio/portaudio"
	sttdeepgram "github.com/koscakluka/ema-assist/core/speechtotext/deepgram"
	ttsdeepgram "github.com/koscakluka/ema-assist/core/texttospeech/deepgram"
)

const portaudioFrames = 1024

// audioDevice captures the microphone and plays synthesized speech.
type audioDevice interface {
	audio.Source
	audio.Sink
	Close() error
}

func openAudio(backend string) (audioDevice, error) {
	switch backend {
	case "miniaudio":
		client, err := miniaudio.NewClient()
		if err != nil {
			return nil, err
		}
		return client, nil
	case "portaudio":
		client, err := portaudio.NewClient(portaudioFrames)
		if err != nil {
			return nil, err
		}
		client.Logger = slog.Default().With("backend", "portaudio")
		return client, nil
	}
	return nil, fmt.Errorf("unknown audio backend %q", backend)
}

// newSpeechBackends wires Deepgram recognition and synthesis to device. The
// voice list is loaded in the background.
func newSpeechBackends(ctx context.Context, device audioDevice) (*sttdeepgram.Recognizer, *ttsdeepgram.Synthesizer) {
	recognizer := sttdeepgram.NewRecognizer(device)
	synthesizer := ttsdeepgram.NewSynthesizer(device)
	synthesizer.LoadVoices(ctx)
	return recognizer, synthesizer
}
