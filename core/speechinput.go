package orchestration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/koscakluka/ema-assist/core/events"
	"github.com/koscakluka/ema-assist/core/speechtotext"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type InputState int

const (
	InputIdle InputState = iota
	InputListening
	// InputRestarting means the recognizer ended capture on its own and a
	// restart is scheduled. Listening is still reported as true.
	InputRestarting
)

func (s InputState) String() string {
	switch s {
	case InputListening:
		return "listening"
	case InputRestarting:
		return "restarting"
	default:
		return "idle"
	}
}

// SpeechInput keeps continuous recognition alive until it is stopped. Capture
// that ends without Stop is restarted with the same language; errors are
// not retried.
type SpeechInput struct {
	recognizer   SpeechRecognizer
	emitEvent    eventEmitter
	scheduler    Scheduler
	restartDelay time.Duration
	onTranscript func(TranscriptBuffer)

	unsupportedOnce sync.Once
	restarts        metric.Int64Counter

	mu           sync.Mutex
	state        InputState
	generation   uint64
	lastStop     uint64
	nextTag      string
	activeTag    string
	carried      string
	buffer       TranscriptBuffer
	restartTimer Timer
	ctx          context.Context
}

func NewSpeechInput(opts ...Option) *SpeechInput {
	return newSpeechInput(newOptions(opts), nil)
}

func newSpeechInput(o options, onTranscript func(TranscriptBuffer)) *SpeechInput {
	if onTranscript == nil {
		onTranscript = func(TranscriptBuffer) {}
	}
	s := &SpeechInput{
		recognizer:   o.recognizer,
		emitEvent:    o.emitEvent,
		scheduler:    o.scheduler,
		restartDelay: o.restartDelay,
		onTranscript: onTranscript,
		nextTag:      o.localeTable.Tag(o.locale),
		ctx:          context.Background(),
	}

	counter, err := meter.Int64Counter("speech_input.restarts",
		metric.WithDescription("Captures restarted after the recognizer ended them"))
	if err != nil {
		logger.Warn("failed to create restart counter", "error", err)
	}
	s.restarts = counter
	return s
}

func (s *SpeechInput) isConfigured() bool { return s != nil && s.recognizer != nil }

func (s *SpeechInput) reportUnsupported() {
	s.unsupportedOnce.Do(func() {
		logger.Warn("speech recognition unavailable", "error", ErrUnsupportedCapability)
	})
	s.emitEvent(events.NewCaptureFailed(ErrUnsupportedCapability))
}

// Start begins listening with the language set by [SpeechInput.SetLocale].
// It does nothing unless the controller is idle.
func (s *SpeechInput) Start(ctx context.Context) {
	if !s.isConfigured() {
		s.reportUnsupported()
		return
	}

	s.mu.Lock()
	if s.state != InputIdle {
		s.mu.Unlock()
		return
	}
	s.state = InputListening
	s.generation++
	generation := s.generation
	s.buffer = TranscriptBuffer{}
	s.carried = ""
	s.activeTag = s.nextTag
	s.ctx = ctx
	tag := s.activeTag
	s.mu.Unlock()

	s.emitEvent(events.NewListeningStarted(tag))
	s.startCapture(ctx, generation, tag)
}

func (s *SpeechInput) startCapture(ctx context.Context, generation uint64, tag string) {
	err := s.recognizer.Start(ctx,
		speechtotext.WithLanguage(tag),
		speechtotext.WithInterimTranscriptionCallback(func(transcript string) {
			s.observe(generation, transcript, false)
		}),
		speechtotext.WithTranscriptionCallback(func(transcript string) {
			s.observe(generation, transcript, true)
		}),
		speechtotext.WithCaptureEndedCallback(func() { s.captureEnded(generation) }),
		speechtotext.WithErrorCallback(func(err error) { s.fail(generation, err) }),
	)
	if err != nil {
		s.fail(generation, fmt.Errorf("failed to start recognition: %w", err))
		return
	}

	// Stop may have raced the recognizer start; do not leave capture running.
	s.mu.Lock()
	stale := s.lastStop > generation
	s.mu.Unlock()
	if stale {
		s.stopRecognizer()
	}
}

func (s *SpeechInput) observe(generation uint64, transcript string, final bool) {
	s.mu.Lock()
	if generation != s.generation || s.state != InputListening {
		s.mu.Unlock()
		return
	}
	buffer := TranscriptBuffer{Text: joinSegments(s.carried, transcript), Final: final}
	if final {
		s.carried = ""
		s.buffer = TranscriptBuffer{}
	} else {
		s.buffer = buffer
	}
	s.mu.Unlock()

	if final {
		s.emitEvent(events.NewTranscriptFinal(buffer.Text))
	} else {
		s.emitEvent(events.NewTranscriptUpdated(buffer.Text))
	}
	s.onTranscript(buffer)
}

func (s *SpeechInput) captureEnded(generation uint64) {
	s.mu.Lock()
	if generation != s.generation || s.state != InputListening {
		s.mu.Unlock()
		return
	}
	s.state = InputRestarting
	s.generation++
	generation = s.generation
	s.carried = s.buffer.Text
	delay := s.restartDelay
	s.mu.Unlock()

	s.emitEvent(events.NewCaptureRestarting())
	timer := s.scheduler.AfterFunc(delay, func() { s.restart(generation) })

	s.mu.Lock()
	if s.generation == generation && s.state == InputRestarting {
		s.restartTimer = timer
	}
	s.mu.Unlock()
}

func (s *SpeechInput) restart(generation uint64) {
	s.mu.Lock()
	if generation != s.generation || s.state != InputRestarting {
		s.mu.Unlock()
		return
	}
	s.state = InputListening
	s.restartTimer = nil
	tag := s.activeTag
	ctx := s.ctx
	s.mu.Unlock()

	if s.restarts != nil {
		s.restarts.Add(ctx, 1, metric.WithAttributes(attribute.String("language", tag)))
	}
	s.emitEvent(events.NewCaptureRestarted(tag))
	s.startCapture(ctx, generation, tag)
}

func (s *SpeechInput) fail(generation uint64, err error) {
	s.mu.Lock()
	if generation != s.generation || s.state == InputIdle {
		s.mu.Unlock()
		return
	}
	timer := s.toIdle()
	s.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	logger.Error("speech recognition failed", "error", err)
	s.emitEvent(events.NewCaptureFailed(err))
	s.emitEvent(events.NewListeningStopped())
	s.stopRecognizer()
}

// toIdle must be called with s.mu held.
func (s *SpeechInput) toIdle() Timer {
	s.state = InputIdle
	s.generation++
	s.lastStop = s.generation
	s.carried = ""
	timer := s.restartTimer
	s.restartTimer = nil
	return timer
}

// Stop ends listening. A scheduled restart is cancelled.
func (s *SpeechInput) Stop() {
	if !s.isConfigured() {
		return
	}

	s.mu.Lock()
	if s.state == InputIdle {
		s.mu.Unlock()
		return
	}
	timer := s.toIdle()
	s.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	s.stopRecognizer()
	s.emitEvent(events.NewListeningStopped())
}

func (s *SpeechInput) stopRecognizer() {
	if err := s.recognizer.Stop(); err != nil {
		logger.Warn("failed to stop speech recognition", "error", err)
	}
}

// SetLocale sets the recognition language tag used by the next Start. A
// running capture keeps its language, including across restarts.
func (s *SpeechInput) SetLocale(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTag = tag
}

func (s *SpeechInput) State() InputState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Listening stays true while a restart is pending.
func (s *SpeechInput) Listening() bool {
	return s.State() != InputIdle
}

func (s *SpeechInput) Transcript() TranscriptBuffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer
}

func (s *SpeechInput) Close() { s.Stop() }
