package speechtotext

import "github.com/koscakluka/ema-assist/core/audio"

// TranscriptionOptions configures one continuous recognition session.
//
// Transcripts passed to the callbacks cover everything hypothesized since the
// session started or since the last final transcript, segments joined by a
// single space.
type TranscriptionOptions struct {
	// Language is the BCP-47 recognition language tag, e.g. "hi-IN".
	Language string

	InterimTranscriptionCallback func(transcript string)
	TranscriptionCallback        func(transcript string)

	// CaptureEndedCallback is called when the capability ended capture
	// without being asked to stop.
	CaptureEndedCallback func()
	// ErrorCallback is called when capture failed. No further callbacks are
	// made for the session.
	ErrorCallback func(error)

	EncodingInfo audio.EncodingInfo
}

type TranscriptionOption func(*TranscriptionOptions)

func WithLanguage(tag string) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.Language = tag
	}
}

func WithInterimTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.InterimTranscriptionCallback = callback
	}
}

func WithTranscriptionCallback(callback func(transcript string)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.TranscriptionCallback = callback
	}
}

func WithCaptureEndedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.CaptureEndedCallback = callback
	}
}

func WithErrorCallback(callback func(error)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.ErrorCallback = callback
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		if encodingInfo.IsZero() {
			return
		}
		o.EncodingInfo = encodingInfo
	}
}

// NewOptions applies opts over the defaults.
func NewOptions(opts ...TranscriptionOption) TranscriptionOptions {
	options := TranscriptionOptions{EncodingInfo: audio.GetDefaultEncodingInfo()}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
