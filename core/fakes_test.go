package orchestration

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/koscakluka/ema-assist/core/events"
	"github.com/koscakluka/ema-assist/core/speechtotext"
	"github.com/koscakluka/ema-assist/core/texttospeech"
)

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	scheduler *fakeScheduler
	delay     time.Duration
	f         func()
	done      bool
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer := &fakeTimer{scheduler: s, delay: d, f: f}
	s.timers = append(s.timers, timer)
	return timer
}

func (t *fakeTimer) Stop() bool {
	t.scheduler.mu.Lock()
	defer t.scheduler.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// fire runs the i-th scheduled call unless it was stopped or already ran.
func (s *fakeScheduler) fire(i int) bool {
	s.mu.Lock()
	if i >= len(s.timers) || s.timers[i].done {
		s.mu.Unlock()
		return false
	}
	timer := s.timers[i]
	timer.done = true
	s.mu.Unlock()

	timer.f()
	return true
}

// fireAll runs every pending call, including ones scheduled while firing.
func (s *fakeScheduler) fireAll() {
	for i := 0; ; i++ {
		s.mu.Lock()
		n := len(s.timers)
		s.mu.Unlock()
		if i >= n {
			return
		}
		s.fire(i)
	}
}

func (s *fakeScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, timer := range s.timers {
		if !timer.done {
			count++
		}
	}
	return count
}

func (s *fakeScheduler) delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	delays := make([]time.Duration, 0, len(s.timers))
	for _, timer := range s.timers {
		delays = append(delays, timer.delay)
	}
	return delays
}

type fakeRecognizer struct {
	mu       sync.Mutex
	sessions []speechtotext.TranscriptionOptions
	stops    int
	startErr error
}

func (r *fakeRecognizer) Start(_ context.Context, opts ...speechtotext.TranscriptionOption) error {
	options := speechtotext.NewOptions(opts...)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.startErr != nil {
		return r.startErr
	}
	r.sessions = append(r.sessions, options)
	return nil
}

func (r *fakeRecognizer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stops++
	return nil
}

func (r *fakeRecognizer) session(i int) speechtotext.TranscriptionOptions {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[i]
}

func (r *fakeRecognizer) last() speechtotext.TranscriptionOptions {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[len(r.sessions)-1]
}

func (r *fakeRecognizer) starts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *fakeRecognizer) stopCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stops
}

type fakeUtterance struct {
	text    string
	options texttospeech.SpeechOptions
}

type fakeSynthesizer struct {
	mu            sync.Mutex
	voices        []texttospeech.Voice
	voicesChanged func()
	utterances    []fakeUtterance
	cancels       int
	speakErr      error
}

func (s *fakeSynthesizer) Speak(_ context.Context, text string, opts ...texttospeech.SpeechOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.speakErr != nil {
		return s.speakErr
	}
	s.utterances = append(s.utterances, fakeUtterance{text: text, options: texttospeech.NewOptions(opts...)})
	return nil
}

func (s *fakeSynthesizer) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels++
	return nil
}

func (s *fakeSynthesizer) Voices() []texttospeech.Voice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.voices)
}

func (s *fakeSynthesizer) SetVoicesChangedCallback(callback func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voicesChanged = callback
}

func (s *fakeSynthesizer) setVoices(voices ...texttospeech.Voice) {
	s.mu.Lock()
	s.voices = voices
	callback := s.voicesChanged
	s.mu.Unlock()
	if callback != nil {
		callback()
	}
}

func (s *fakeSynthesizer) utterance(i int) fakeUtterance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.utterances[i]
}

func (s *fakeSynthesizer) speakCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.utterances)
}

func (s *fakeSynthesizer) cancelCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancels
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) handle(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) kinds() []events.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]events.Kind, 0, len(r.events))
	for _, event := range r.events {
		kinds = append(kinds, event.Kind())
	}
	return kinds
}

func (r *eventRecorder) count(kind events.Kind) int {
	count := 0
	for _, k := range r.kinds() {
		if k == kind {
			count++
		}
	}
	return count
}

func (r *eventRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

var (
	englishVoice = texttospeech.Voice{ID: "voice-en", Name: "English", Languages: []string{"en-US"}}
	hindiVoice   = texttospeech.Voice{ID: "voice-hi", Name: "Hindi", Languages: []string{"hi-IN"}}
	tamilVoice   = texttospeech.Voice{ID: "voice-ta", Name: "Tamil", Languages: []string{"ta-IN"}}
	spanishVoice = texttospeech.Voice{ID: "voice-es", Name: "Spanish", Languages: []string{"es-ES"}}
)
