package texttospeech

// Voice is a synthesis voice offered by a capability.
type Voice struct {
	ID   string
	Name string
	// Languages lists BCP-47 tags, most specific first, e.g. "en-US", "en".
	Languages []string
}

type SpeechOptions struct {
	// Voice is the ID of the voice to speak with; capabilities fall back to
	// their default voice when it is empty.
	Voice string

	// StartedCallback is called once the first audio of the utterance is
	// playing.
	StartedCallback func()
	// EndedCallback is called once every audio of the utterance was played.
	EndedCallback func()
	// ErrorCallback is called when synthesis failed. It is never called for
	// a cancelled utterance.
	ErrorCallback func(error)
}

type SpeechOption func(*SpeechOptions)

func WithVoice(id string) SpeechOption {
	return func(o *SpeechOptions) { o.Voice = id }
}

func WithStartedCallback(callback func()) SpeechOption {
	return func(o *SpeechOptions) { o.StartedCallback = callback }
}

func WithEndedCallback(callback func()) SpeechOption {
	return func(o *SpeechOptions) { o.EndedCallback = callback }
}

func WithErrorCallback(callback func(error)) SpeechOption {
	return func(o *SpeechOptions) { o.ErrorCallback = callback }
}

// NewOptions applies opts over no-op callbacks.
func NewOptions(opts ...SpeechOption) SpeechOptions {
	options := SpeechOptions{
		StartedCallback: func() {},
		EndedCallback:   func() {},
		ErrorCallback:   func(error) {},
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
