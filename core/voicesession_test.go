package orchestration

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/koscakluka/ema-assist/core/events"
	"github.com/koscakluka/ema-assist/core/intents"
	"github.com/koscakluka/ema-assist/core/locales"
	"github.com/koscakluka/ema-assist/core/texttospeech"
)

type voiceSessionFixture struct {
	session     *VoiceSession
	recognizer  *fakeRecognizer
	synthesizer *fakeSynthesizer
	scheduler   *fakeScheduler
	recorder    *eventRecorder
}

func newVoiceSessionFixture(opts ...Option) voiceSessionFixture {
	f := voiceSessionFixture{
		recognizer:  &fakeRecognizer{},
		synthesizer: &fakeSynthesizer{voices: []texttospeech.Voice{englishVoice, hindiVoice}},
		scheduler:   &fakeScheduler{},
		recorder:    &eventRecorder{},
	}
	opts = append([]Option{
		WithRecognizer(f.recognizer),
		WithSynthesizer(f.synthesizer),
		WithScheduler(f.scheduler),
		WithEventHandler(f.recorder.handle),
	}, opts...)
	f.session = NewVoiceSession(opts...)
	return f
}

func TestVoiceSessionAnswersHindiBakeryQuestion(t *testing.T) {
	f := newVoiceSessionFixture()

	if got := f.session.ToggleLocale(); got != locales.Secondary {
		t.Fatalf("expected secondary locale after toggle, got %s", got)
	}
	f.session.Start(context.Background())
	if got := f.recognizer.last().Language; got != "hi-IN" {
		t.Fatalf("expected hi-IN recognition, got %q", got)
	}

	f.recognizer.last().TranscriptionCallback("बेकरी कहां है")

	expected := "बेकरी सेक्शन प्रवेश द्वार के पास गलियारा 1 में है।"
	if got := f.synthesizer.speakCount(); got != 1 {
		t.Fatalf("expected exactly one speak call, got %d", got)
	}
	utterance := f.synthesizer.utterance(0)
	if utterance.text != expected {
		t.Fatalf("expected %q, got %q", expected, utterance.text)
	}
	if utterance.options.Voice != hindiVoice.ID {
		t.Fatalf("expected hindi voice, got %q", utterance.options.Voice)
	}

	state := f.session.State()
	if state.Response != expected || state.Transcript != "बेकरी कहां है" {
		t.Fatalf("unexpected state %+v", state)
	}
	if !state.Listening {
		t.Fatalf("expected listening to continue after the answer")
	}
	f.session.Close()
}

func TestVoiceSessionFallback(t *testing.T) {
	f := newVoiceSessionFixture()
	f.session.Start(context.Background())

	f.recognizer.last().TranscriptionCallback("tell me a joke")

	if got, expected := f.synthesizer.utterance(0).text, intents.VoiceCatalog().Fallback[locales.Primary]; got != expected {
		t.Fatalf("expected fallback %q, got %q", expected, got)
	}
	if got := f.recorder.count(events.KindResponseResolved); got != 1 {
		t.Fatalf("expected one response resolved event, got %d", got)
	}
	f.session.Close()
}

func TestVoiceSessionInterimUpdatesTranscriptOnly(t *testing.T) {
	f := newVoiceSessionFixture()
	f.session.Start(context.Background())

	f.recognizer.last().InterimTranscriptionCallback("where is the")

	if got := f.session.State().Transcript; got != "where is the" {
		t.Fatalf("expected interim transcript, got %q", got)
	}
	if got := f.synthesizer.speakCount(); got != 0 {
		t.Fatalf("expected no speech for an interim transcript, got %d", got)
	}
	f.session.Close()
}

func TestVoiceSessionToggleLocale(t *testing.T) {
	f := newVoiceSessionFixture()

	f.session.Start(context.Background())
	f.session.ToggleLocale()

	if got := f.session.State().Voice; got != hindiVoice.ID {
		t.Fatalf("expected voice to switch at once, got %q", got)
	}
	if got := f.recognizer.last().Language; got != "en-US" {
		t.Fatalf("expected running capture to keep en-US, got %q", got)
	}

	f.session.Stop()
	f.session.Start(context.Background())
	if got := f.recognizer.last().Language; got != "hi-IN" {
		t.Fatalf("expected next capture in hi-IN, got %q", got)
	}

	if got := f.session.ToggleLocale(); got != locales.Primary {
		t.Fatalf("expected toggle back to primary, got %s", got)
	}
	if got := f.recorder.count(events.KindLocaleChanged); got != 2 {
		t.Fatalf("expected two locale changed events, got %d", got)
	}
	f.session.Close()
}

func TestVoiceSessionSpeakDirectiveBypassesEngine(t *testing.T) {
	f := newVoiceSessionFixture()

	f.session.Speak("Welcome to FreshMart")
	f.session.Speak("Aisle 1 is on your left")

	if got := f.synthesizer.speakCount(); got != 2 {
		t.Fatalf("expected two speak calls, got %d", got)
	}
	if got := f.synthesizer.cancelCount(); got != 1 {
		t.Fatalf("expected the first directive to be cancelled, got %d", got)
	}
	if got := f.synthesizer.utterance(1).text; got != "Aisle 1 is on your left" {
		t.Fatalf("expected text to be spoken verbatim, got %q", got)
	}
	if got := f.session.State().Response; got != "" {
		t.Fatalf("expected directive not to change the response, got %q", got)
	}
	if got := f.recorder.count(events.KindResponseResolved); got != 0 {
		t.Fatalf("expected no response resolved event, got %d", got)
	}
	f.session.Close()
}

func TestVoiceSessionCloseReleasesCaptureAndPlayback(t *testing.T) {
	f := newVoiceSessionFixture()
	f.session.Start(context.Background())
	f.session.Speak("hello")
	f.synthesizer.utterance(0).options.StartedCallback()
	stale := f.recognizer.last()

	f.session.Close()

	state := f.session.State()
	if state.Listening || state.Speaking {
		t.Fatalf("expected nothing active after close, got %+v", state)
	}
	if f.recognizer.stopCount() == 0 || f.synthesizer.cancelCount() == 0 {
		t.Fatalf("expected capture stopped and playback cancelled")
	}

	stale.TranscriptionCallback("where is the bakery")
	f.session.Start(context.Background())
	f.session.Speak("ignored")
	if got := f.synthesizer.speakCount(); got != 1 {
		t.Fatalf("expected no speech after close, got %d", got)
	}
	if got := f.recognizer.starts(); got != 1 {
		t.Fatalf("expected no capture after close, got %d", got)
	}
}

func TestVoiceSessionRestartKeepsListening(t *testing.T) {
	f := newVoiceSessionFixture()
	f.session.Start(context.Background())

	f.recognizer.last().CaptureEndedCallback()
	if !f.session.State().Listening {
		t.Fatalf("expected listening during restart")
	}
	f.scheduler.fireAll()

	expected := []events.Kind{
		events.KindVoiceSelected,
		events.KindListeningStarted,
		events.KindCaptureRestarting,
		events.KindCaptureRestarted,
	}
	if diff := cmp.Diff(expected, f.recorder.kinds()); diff != "" {
		t.Fatalf("unexpected events (-want +got):\n%s", diff)
	}
	f.session.Close()
}
