package events

const (
	// KindPlaybackStarted identifies an utterance becoming audible.
	KindPlaybackStarted Kind = "speech_output.playback_started"
	// KindPlaybackCancelled identifies cancellation of an in-flight utterance.
	KindPlaybackCancelled Kind = "speech_output.playback_cancelled"
	// KindPlaybackEnded identifies the natural end of an utterance.
	KindPlaybackEnded Kind = "speech_output.playback_ended"
	// KindPlaybackFailed identifies a synthesis error.
	KindPlaybackFailed Kind = "speech_output.playback_failed"
	// KindVoiceSelected identifies the choice of a synthesis voice.
	KindVoiceSelected Kind = "speech_output.voice_selected"
)

// PlaybackStarted marks an utterance becoming audible.
type PlaybackStarted struct {
	Base
	UtteranceID string
	Text        string
}

// NewPlaybackStarted creates a playback started event.
func NewPlaybackStarted(utteranceID, text string) PlaybackStarted {
	return PlaybackStarted{Base: NewBase(KindPlaybackStarted), UtteranceID: utteranceID, Text: text}
}

// PlaybackCancelled marks cancellation of an in-flight utterance.
type PlaybackCancelled struct {
	Base
	UtteranceID string
}

// NewPlaybackCancelled creates a playback cancelled event.
func NewPlaybackCancelled(utteranceID string) PlaybackCancelled {
	return PlaybackCancelled{Base: NewBase(KindPlaybackCancelled), UtteranceID: utteranceID}
}

// PlaybackEnded marks the natural end of an utterance.
type PlaybackEnded struct {
	Base
	UtteranceID string
}

// NewPlaybackEnded creates a playback ended event.
func NewPlaybackEnded(utteranceID string) PlaybackEnded {
	return PlaybackEnded{Base: NewBase(KindPlaybackEnded), UtteranceID: utteranceID}
}

// PlaybackFailed carries the synthesis error of an utterance.
type PlaybackFailed struct {
	Base
	UtteranceID string
	Err         error
}

// NewPlaybackFailed creates a playback failed event.
func NewPlaybackFailed(utteranceID string, err error) PlaybackFailed {
	return PlaybackFailed{Base: NewBase(KindPlaybackFailed), UtteranceID: utteranceID, Err: err}
}

// VoiceSelected carries the voice chosen for a locale. VoiceID is empty when
// no voice is available yet.
type VoiceSelected struct {
	Base
	Locale  string
	VoiceID string
}

// NewVoiceSelected creates a voice selected event.
func NewVoiceSelected(locale, voiceID string) VoiceSelected {
	return VoiceSelected{Base: NewBase(KindVoiceSelected), Locale: locale, VoiceID: voiceID}
}
