package orchestration

import (
	"context"
	"errors"

	"github.com/koscakluka/ema-assist/core/speechtotext"
	"github.com/koscakluka/ema-assist/core/texttospeech"
)

// ErrUnsupportedCapability is reported when a session is asked to use a
// recognition or synthesis capability it was not configured with.
var ErrUnsupportedCapability = errors.New("capability not supported")

// SpeechRecognizer is a continuous recognition capability. Start must return
// promptly and report the rest of the session through the callbacks passed
// as options. Stop ends the session without further callbacks.
type SpeechRecognizer interface {
	Start(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	Stop() error
}

// SpeechSynthesizer is a playback capability. Speak must return promptly and
// report playback through the callbacks passed as options, never from within
// the Speak call itself. Cancel silences the current utterance without further
// callbacks for it.
type SpeechSynthesizer interface {
	Speak(ctx context.Context, text string, opts ...texttospeech.SpeechOption) error
	Cancel() error
	Voices() []texttospeech.Voice
}

// VoiceListNotifier is implemented by synthesizers that list their voices
// asynchronously.
type VoiceListNotifier interface {
	SetVoicesChangedCallback(callback func())
}
