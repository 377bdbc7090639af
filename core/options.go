package orchestration

import (
	"math/rand/v2"
	"time"

	"github.com/koscakluka/ema-assist/core/intents"
	"github.com/koscakluka/ema-assist/core/locales"
)

const (
	minComposingDelay    = 1000 * time.Millisecond
	composingDelayJitter = 1000 // milliseconds

	defaultRestartDelay = 100 * time.Millisecond
)

// Option configures any of the sessions and controllers in this package.
// Options that do not apply to a component are ignored by it.
type Option func(*options)

type options struct {
	recognizer  SpeechRecognizer
	synthesizer SpeechSynthesizer
	emitEvent   eventEmitter

	locale      locales.Locale
	localeTable locales.Table
	catalog     *intents.Catalog

	composingDelay func() time.Duration
	restartDelay   time.Duration
	scheduler      Scheduler
	intn           func(n int) int
}

func newOptions(opts []Option) options {
	o := options{
		emitEvent:    noopEventEmitter,
		locale:       locales.Primary,
		localeTable:  locales.DefaultTable(),
		restartDelay: defaultRestartDelay,
		scheduler:    timeScheduler{},
		intn:         rand.IntN,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.composingDelay == nil {
		intn := o.intn
		o.composingDelay = func() time.Duration {
			return minComposingDelay + time.Duration(intn(composingDelayJitter))*time.Millisecond
		}
	}
	return o
}

func (o options) catalogOr(fallback func() intents.Catalog) intents.Catalog {
	if o.catalog != nil {
		return *o.catalog
	}
	return fallback()
}

// WithRecognizer sets the continuous recognition capability.
func WithRecognizer(recognizer SpeechRecognizer) Option {
	return func(o *options) { o.recognizer = recognizer }
}

// WithSynthesizer sets the playback capability.
func WithSynthesizer(synthesizer SpeechSynthesizer) Option {
	return func(o *options) { o.synthesizer = synthesizer }
}

func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		if handler == nil {
			o.emitEvent = noopEventEmitter
			return
		}
		o.emitEvent = eventEmitter(handler)
	}
}

// WithLocale sets the initial locale.
func WithLocale(locale locales.Locale) Option {
	return func(o *options) { o.locale = locale }
}

// WithLocaleTable replaces the language tags and voice preferences.
func WithLocaleTable(table locales.Table) Option {
	return func(o *options) {
		if table != nil {
			o.localeTable = table
		}
	}
}

// WithCatalog replaces the built-in catalog of the session's channel.
func WithCatalog(catalog intents.Catalog) Option {
	return func(o *options) { o.catalog = &catalog }
}

// WithComposingDelay replaces the random delay before a chat reply.
func WithComposingDelay(delay func() time.Duration) Option {
	return func(o *options) { o.composingDelay = delay }
}

// WithRestartDelay sets how long capture waits before restarting after the
// recognizer ended it on its own.
func WithRestartDelay(delay time.Duration) Option {
	return func(o *options) {
		if delay >= 0 {
			o.restartDelay = delay
		}
	}
}

func WithScheduler(scheduler Scheduler) Option {
	return func(o *options) {
		if scheduler != nil {
			o.scheduler = scheduler
		}
	}
}

// WithRandom replaces the random source for generic replies and the
// composing delay. intn must return a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(o *options) {
		if intn != nil {
			o.intn = intn
		}
	}
}
