package orchestration

import (
	"context"
	"sync"

	"github.com/koscakluka/ema-assist/core/events"
	"github.com/koscakluka/ema-assist/core/intents"
	"github.com/koscakluka/ema-assist/core/locales"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// VoiceState is a snapshot of a voice session for a presentation layer.
type VoiceState struct {
	Listening  bool
	Speaking   bool
	Voice      string
	Transcript string
	Response   string
	Locale     locales.Locale
}

// VoiceSession answers final transcripts with the voice catalog and speaks
// the answer. Listening is left as it was after each answer.
type VoiceSession struct {
	input     *SpeechInput
	output    *SpeechOutput
	engine    *intents.Engine
	table     locales.Table
	emitEvent eventEmitter

	mu         sync.Mutex
	ctx        context.Context
	locale     locales.Locale
	transcript string
	response   string
	closed     bool
}

func NewVoiceSession(opts ...Option) *VoiceSession {
	o := newOptions(opts)
	s := &VoiceSession{
		engine:    intents.NewEngine(o.catalogOr(intents.VoiceCatalog), intents.WithRandom(o.intn)),
		table:     o.localeTable,
		emitEvent: o.emitEvent,
		ctx:       context.Background(),
		locale:    o.locale,
	}
	s.input = newSpeechInput(o, s.onTranscript)
	s.output = newSpeechOutput(o)
	return s
}

// Start begins listening in the current locale.
func (s *VoiceSession) Start(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.ctx = ctx
	s.mu.Unlock()

	s.input.Start(ctx)
}

// Stop ends listening. Playback is left alone.
func (s *VoiceSession) Stop() {
	s.input.Stop()
}

func (s *VoiceSession) onTranscript(buffer TranscriptBuffer) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.transcript = buffer.Text
	locale := s.locale
	ctx := s.ctx
	s.mu.Unlock()

	if !buffer.Final {
		return
	}

	ctx, span := tracer.Start(ctx, "resolve voice response", trace.WithAttributes(
		attribute.String("locale", locale.String()),
	))
	defer span.End()

	resolution := s.engine.MatchContext(ctx, buffer.Text, locale)
	span.SetAttributes(
		attribute.String("intents.outcome", string(resolution.Outcome)),
		attribute.String("intents.rule", resolution.Rule),
	)

	s.mu.Lock()
	s.response = resolution.Response
	s.mu.Unlock()

	s.emitEvent(events.NewResponseResolved(buffer.Text, resolution.Response, resolution.Rule))
	s.output.Speak(ctx, resolution.Response, locale)
}

// Speak reads text aloud in the current locale without consulting the
// engine, replacing whatever is playing.
func (s *VoiceSession) Speak(text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	locale := s.locale
	ctx := s.ctx
	s.mu.Unlock()

	s.output.Speak(ctx, text, locale)
}

// ToggleLocale switches between the primary and secondary locale. The new
// language applies to the next capture start; the voice is re-selected at
// once.
func (s *VoiceSession) ToggleLocale() locales.Locale {
	s.mu.Lock()
	s.locale = s.locale.Toggle()
	locale := s.locale
	s.mu.Unlock()

	tag := s.table.Tag(locale)
	s.input.SetLocale(tag)
	s.output.SelectVoice(locale)
	s.emitEvent(events.NewLocaleChanged(locale.String(), tag))
	return locale
}

func (s *VoiceSession) Locale() locales.Locale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locale
}

func (s *VoiceSession) State() VoiceState {
	s.mu.Lock()
	state := VoiceState{
		Transcript: s.transcript,
		Response:   s.response,
		Locale:     s.locale,
	}
	s.mu.Unlock()

	state.Listening = s.input.Listening()
	state.Speaking = s.output.Speaking()
	state.Voice = s.output.Voice().ID
	return state
}

// Close cancels playback and terminates capture. The session ignores calls
// after Close.
func (s *VoiceSession) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.output.Stop()
	s.input.Stop()
}
