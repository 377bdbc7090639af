package orchestration

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/koscakluka/ema-assist/core/events"
	"github.com/koscakluka/ema-assist/core/intents"
	"github.com/koscakluka/ema-assist/core/locales"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DialogueSession is the chat channel: an ordered history seeded with a
// greeting, a composing indicator and the engine that answers submissions.
//
// Every reply is appended after its own composing delay, so overlapping
// submissions may be answered in the order their delays expire rather than
// the order they were submitted.
type DialogueSession struct {
	engine         *intents.Engine
	emitEvent      eventEmitter
	scheduler      Scheduler
	composingDelay func() time.Duration

	mu        sync.Mutex
	locale    locales.Locale
	history   turns
	composing int
	pending   map[*pendingReply]Timer
	closed    bool
}

type pendingReply struct {
	text string
}

func NewDialogueSession(opts ...Option) *DialogueSession {
	o := newOptions(opts)
	s := &DialogueSession{
		engine:         intents.NewEngine(o.catalogOr(intents.ChatCatalog), intents.WithRandom(o.intn)),
		emitEvent:      o.emitEvent,
		scheduler:      o.scheduler,
		composingDelay: o.composingDelay,
		locale:         o.locale,
		pending:        map[*pendingReply]Timer{},
	}
	s.history.push(SpeakerAssistant, intents.ChatGreeting)
	return s
}

// Submit appends text as a user turn and schedules the assistant reply.
// Whitespace-only text is ignored.
func (s *DialogueSession) Submit(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	turn := s.history.push(SpeakerUser, text)
	s.composing++
	startedComposing := s.composing == 1
	reply := &pendingReply{text: text}
	s.pending[reply] = nil
	s.mu.Unlock()

	s.emitEvent(events.NewTurnAppended(turn.ID, turn.Index, string(turn.Speaker), turn.Text))
	if startedComposing {
		s.emitEvent(events.NewComposingChanged(true))
	}

	timer := s.scheduler.AfterFunc(s.composingDelay(), func() { s.reply(reply) })

	s.mu.Lock()
	if _, ok := s.pending[reply]; ok {
		s.pending[reply] = timer
	}
	s.mu.Unlock()
}

// Suggest submits the i-th entry of [Suggestions].
func (s *DialogueSession) Suggest(i int) error {
	if i < 0 || i >= len(Suggestions) {
		return fmt.Errorf("suggestion %d out of range [0, %d)", i, len(Suggestions))
	}
	s.Submit(Suggestions[i])
	return nil
}

func (s *DialogueSession) reply(reply *pendingReply) {
	s.mu.Lock()
	if _, ok := s.pending[reply]; !ok || s.closed {
		s.mu.Unlock()
		return
	}
	locale := s.locale
	s.mu.Unlock()

	ctx, span := tracer.Start(context.Background(), "resolve chat reply", trace.WithAttributes(
		attribute.String("locale", locale.String()),
	))
	resolution := s.engine.MatchContext(ctx, reply.text, locale)
	span.SetAttributes(
		attribute.String("intents.outcome", string(resolution.Outcome)),
		attribute.String("intents.rule", resolution.Rule),
	)
	span.End()

	s.mu.Lock()
	if _, ok := s.pending[reply]; !ok || s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.pending, reply)
	turn := s.history.push(SpeakerAssistant, resolution.Response)
	s.composing--
	stoppedComposing := s.composing == 0
	s.mu.Unlock()

	s.emitEvent(events.NewTurnAppended(turn.ID, turn.Index, string(turn.Speaker), turn.Text))
	if stoppedComposing {
		s.emitEvent(events.NewComposingChanged(false))
	}
}

// History returns a copy of the turns in order.
func (s *DialogueSession) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.snapshot()
}

// Composing reports whether any reply is still pending.
func (s *DialogueSession) Composing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composing > 0
}

// ClearHistory removes every turn. Pending replies are still appended once
// their delay expires.
func (s *DialogueSession) ClearHistory() {
	s.mu.Lock()
	s.history.clear()
	s.mu.Unlock()
	s.emitEvent(events.NewHistoryCleared())
}

// SetLocale changes the locale of replies resolved from now on.
func (s *DialogueSession) SetLocale(locale locales.Locale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locale = locale
}

func (s *DialogueSession) Locale() locales.Locale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locale
}

// Close drops pending replies. Submissions after Close are ignored.
func (s *DialogueSession) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	timers := make([]Timer, 0, len(s.pending))
	for _, timer := range s.pending {
		if timer != nil {
			timers = append(timers, timer)
		}
	}
	s.pending = map[*pendingReply]Timer{}
	wasComposing := s.composing > 0
	s.composing = 0
	s.mu.Unlock()

	for _, timer := range timers {
		timer.Stop()
	}
	if wasComposing {
		s.emitEvent(events.NewComposingChanged(false))
	}
}
