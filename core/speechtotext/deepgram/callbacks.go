package deepgram

import "github.com/koscakluka/ema-assist/core/speechtotext"

type callbackConfig struct {
	interimTranscriptionCallback func(string)
	transcriptionCallback        func(string)
	captureEndedCallback         func()
	errorCallback                func(error)
}

type websocketConfig struct {
	shouldRequestInterimResults bool
	shouldDetectUtteranceEnd    bool
}

func newCallbackConfig(options speechtotext.TranscriptionOptions) (callbackConfig, websocketConfig) {
	callbacks := callbackConfig{
		interimTranscriptionCallback: func(string) {},
		transcriptionCallback:        func(string) {},
		captureEndedCallback:         func() {},
		errorCallback:                func(error) {},
	}
	wsConfig := websocketConfig{}

	if options.InterimTranscriptionCallback != nil {
		callbacks.interimTranscriptionCallback = options.InterimTranscriptionCallback
		wsConfig.shouldRequestInterimResults = true
	}
	if options.TranscriptionCallback != nil {
		callbacks.transcriptionCallback = options.TranscriptionCallback
		wsConfig.shouldDetectUtteranceEnd = true
	}
	if options.CaptureEndedCallback != nil {
		callbacks.captureEndedCallback = options.CaptureEndedCallback
	}
	if options.ErrorCallback != nil {
		callbacks.errorCallback = options.ErrorCallback
	}

	return callbacks, wsConfig
}
