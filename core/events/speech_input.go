package events

const (
	// KindListeningStarted identifies a user-initiated capture start.
	KindListeningStarted Kind = "speech_input.listening_started"
	// KindListeningStopped identifies the end of listening.
	KindListeningStopped Kind = "speech_input.listening_stopped"
	// KindCaptureRestarting identifies an unsolicited end of capture.
	KindCaptureRestarting Kind = "speech_input.capture_restarting"
	// KindCaptureRestarted identifies an automatic capture restart.
	KindCaptureRestarted Kind = "speech_input.capture_restarted"
	// KindTranscriptUpdated identifies interim transcript snapshots.
	KindTranscriptUpdated Kind = "speech_input.transcript_updated"
	// KindTranscriptFinal identifies the terminal transcript of an utterance.
	KindTranscriptFinal Kind = "speech_input.transcript_final"
	// KindCaptureFailed identifies a capture error.
	KindCaptureFailed Kind = "speech_input.capture_failed"
)

// ListeningStarted marks a user-initiated capture start.
type ListeningStarted struct {
	Base
	Locale string
}

// NewListeningStarted creates a listening started event.
func NewListeningStarted(locale string) ListeningStarted {
	return ListeningStarted{Base: NewBase(KindListeningStarted), Locale: locale}
}

// ListeningStopped marks the end of listening.
type ListeningStopped struct{ Base }

// NewListeningStopped creates a listening stopped event.
func NewListeningStopped() ListeningStopped {
	return ListeningStopped{Base: NewBase(KindListeningStopped)}
}

// CaptureRestarting marks an unsolicited end of capture while listening.
type CaptureRestarting struct{ Base }

// NewCaptureRestarting creates a capture restarting event.
func NewCaptureRestarting() CaptureRestarting {
	return CaptureRestarting{Base: NewBase(KindCaptureRestarting)}
}

// CaptureRestarted marks an automatic capture restart.
type CaptureRestarted struct {
	Base
	Locale string
}

// NewCaptureRestarted creates a capture restarted event.
func NewCaptureRestarted(locale string) CaptureRestarted {
	return CaptureRestarted{Base: NewBase(KindCaptureRestarted), Locale: locale}
}

// TranscriptUpdated carries the interim transcript snapshot.
type TranscriptUpdated struct {
	Base
	Transcript string
}

// NewTranscriptUpdated creates a transcript updated event.
func NewTranscriptUpdated(transcript string) TranscriptUpdated {
	return TranscriptUpdated{Base: NewBase(KindTranscriptUpdated), Transcript: transcript}
}

// TranscriptFinal carries the terminal transcript of an utterance.
type TranscriptFinal struct {
	Base
	Transcript string
}

// NewTranscriptFinal creates a transcript final event.
func NewTranscriptFinal(transcript string) TranscriptFinal {
	return TranscriptFinal{Base: NewBase(KindTranscriptFinal), Transcript: transcript}
}

// CaptureFailed carries the capture error.
type CaptureFailed struct {
	Base
	Err error
}

// NewCaptureFailed creates a capture failed event.
func NewCaptureFailed(err error) CaptureFailed {
	return CaptureFailed{Base: NewBase(KindCaptureFailed), Err: err}
}
