package orchestration

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/koscakluka/ema-assist/core/events"
	"github.com/koscakluka/ema-assist/core/locales"
	"github.com/koscakluka/ema-assist/core/texttospeech"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpeechOutput plays at most one utterance at a time. Speaking over an
// utterance cancels it first; nothing is queued.
type SpeechOutput struct {
	synthesizer SpeechSynthesizer
	emitEvent   eventEmitter
	table       locales.Table

	unsupportedOnce sync.Once
	// callMu orders cancel and speak calls to the synthesizer.
	callMu sync.Mutex

	mu       sync.Mutex
	locale   locales.Locale
	voice    texttospeech.Voice
	current  string
	speaking bool
}

func NewSpeechOutput(opts ...Option) *SpeechOutput {
	return newSpeechOutput(newOptions(opts))
}

func newSpeechOutput(o options) *SpeechOutput {
	s := &SpeechOutput{
		synthesizer: o.synthesizer,
		emitEvent:   o.emitEvent,
		table:       o.localeTable,
		locale:      o.locale,
	}
	if !s.isConfigured() {
		return s
	}

	if notifier, ok := s.synthesizer.(VoiceListNotifier); ok {
		notifier.SetVoicesChangedCallback(s.voicesChanged)
	}
	s.SelectVoice(o.locale)
	return s
}

func (s *SpeechOutput) isConfigured() bool { return s != nil && s.synthesizer != nil }

func (s *SpeechOutput) reportUnsupported() {
	s.unsupportedOnce.Do(func() {
		logger.Warn("speech synthesis unavailable", "error", ErrUnsupportedCapability)
	})
	s.emitEvent(events.NewPlaybackFailed("", ErrUnsupportedCapability))
}

// SelectVoice picks the voice for locale from the synthesizer's current list.
// With an empty list the voice stays unset until the list changes.
func (s *SpeechOutput) SelectVoice(locale locales.Locale) {
	if !s.isConfigured() {
		return
	}

	voice, ok := chooseVoice(s.synthesizer.Voices(), s.table.VoicePreferences(locale))

	s.mu.Lock()
	s.locale = locale
	s.voice = voice
	s.mu.Unlock()

	if ok {
		s.emitEvent(events.NewVoiceSelected(locale.String(), voice.ID))
	}
}

func (s *SpeechOutput) voicesChanged() {
	s.mu.Lock()
	locale := s.locale
	s.mu.Unlock()
	s.SelectVoice(locale)
}

// chooseVoice walks preferences in order and returns the first voice any
// matcher accepts, or the first voice when none does.
func chooseVoice(voices []texttospeech.Voice, preferences []locales.VoiceMatcher) (texttospeech.Voice, bool) {
	if len(voices) == 0 {
		return texttospeech.Voice{}, false
	}
	for _, matches := range preferences {
		for _, voice := range voices {
			for _, language := range voice.Languages {
				if matches(language) {
					return voice, true
				}
			}
		}
	}
	return voices[0], true
}

// Speak cancels any in-flight utterance and speaks text in locale. Empty
// text is ignored.
func (s *SpeechOutput) Speak(ctx context.Context, text string, locale locales.Locale) {
	if !s.isConfigured() {
		s.reportUnsupported()
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	s.mu.Lock()
	reselect := locale != s.locale || s.voice.ID == ""
	s.mu.Unlock()
	if reselect {
		s.SelectVoice(locale)
	}

	previous, id, err := s.startUtterance(ctx, text, locale)
	if previous != "" {
		s.emitEvent(events.NewPlaybackCancelled(previous))
	}
	if err != nil {
		s.failed(id, err)
	}
}

// startUtterance cancels the previous utterance and hands text to the
// synthesizer. It emits nothing; events are emitted once callMu is released.
func (s *SpeechOutput) startUtterance(ctx context.Context, text string, locale locales.Locale) (previous, id string, err error) {
	s.callMu.Lock()
	defer s.callMu.Unlock()

	s.mu.Lock()
	previous = s.current
	id = uuid.NewString()
	s.current = id
	s.speaking = false
	voice := s.voice
	s.mu.Unlock()

	if previous != "" {
		s.cancelSynthesizer()
	}

	ctx, span := tracer.Start(ctx, "speak", trace.WithAttributes(
		attribute.String("utterance.id", id),
		attribute.String("locale", locale.String()),
		attribute.String("voice", voice.ID),
		attribute.Bool("replaced", previous != ""),
	))
	defer span.End()

	err = s.synthesizer.Speak(ctx, text,
		texttospeech.WithVoice(voice.ID),
		texttospeech.WithStartedCallback(func() { s.started(id, text) }),
		texttospeech.WithEndedCallback(func() { s.ended(id) }),
		texttospeech.WithErrorCallback(func(err error) { s.failed(id, err) }),
	)
	if err != nil {
		err = fmt.Errorf("failed to start speech: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "speak failed")
	}
	return previous, id, err
}

func (s *SpeechOutput) started(id, text string) {
	s.mu.Lock()
	if id != s.current {
		s.mu.Unlock()
		return
	}
	s.speaking = true
	s.mu.Unlock()
	s.emitEvent(events.NewPlaybackStarted(id, text))
}

func (s *SpeechOutput) ended(id string) {
	s.mu.Lock()
	if id != s.current {
		s.mu.Unlock()
		return
	}
	s.current = ""
	s.speaking = false
	s.mu.Unlock()
	s.emitEvent(events.NewPlaybackEnded(id))
}

func (s *SpeechOutput) failed(id string, err error) {
	s.mu.Lock()
	if id != s.current {
		s.mu.Unlock()
		return
	}
	s.current = ""
	s.speaking = false
	s.mu.Unlock()

	logger.Error("speech synthesis failed", "error", err, "utterance", id)
	s.emitEvent(events.NewPlaybackFailed(id, err))
}

// Stop silences the current utterance, if any.
func (s *SpeechOutput) Stop() {
	if !s.isConfigured() {
		return
	}

	if id := s.cancelUtterance(); id != "" {
		s.emitEvent(events.NewPlaybackCancelled(id))
	}
}

func (s *SpeechOutput) cancelUtterance() string {
	s.callMu.Lock()
	defer s.callMu.Unlock()

	s.mu.Lock()
	id := s.current
	s.current = ""
	s.speaking = false
	s.mu.Unlock()

	if id != "" {
		s.cancelSynthesizer()
	}
	return id
}

func (s *SpeechOutput) cancelSynthesizer() {
	if err := s.synthesizer.Cancel(); err != nil {
		logger.Warn("failed to cancel speech", "error", err)
	}
}

func (s *SpeechOutput) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// Voice returns the selected voice; its ID is empty while none is available.
func (s *SpeechOutput) Voice() texttospeech.Voice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voice
}

func (s *SpeechOutput) Close() { s.Stop() }
