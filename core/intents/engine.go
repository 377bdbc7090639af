package intents

import (
	"context"
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"github.com/koscakluka/ema-assist/core/locales"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Outcome tells which path of the engine produced a response.
type Outcome string

const (
	// OutcomeMatched means a catalog rule matched.
	OutcomeMatched Outcome = "matched"
	// OutcomeGeneric means the chat gate passed but no rule matched.
	OutcomeGeneric Outcome = "generic"
	// OutcomeNotUnderstood means the chat gate rejected the utterance.
	OutcomeNotUnderstood Outcome = "not_understood"
	// OutcomeFallback means no voice rule matched.
	OutcomeFallback Outcome = "fallback"
)

// Resolution is the engine's answer to one utterance.
type Resolution struct {
	Response string
	Outcome  Outcome
	// Rule is the matched rule name, empty unless Outcome is OutcomeMatched.
	Rule string
}

// Engine resolves utterances against a single catalog. It is safe for
// concurrent use.
type Engine struct {
	catalog Catalog
	intn    func(n int) int

	resolutions metric.Int64Counter
}

type EngineOption func(*Engine)

// WithRandom replaces the source used to pick a generic chat response.
// intn must return a value in [0, n).
func WithRandom(intn func(n int) int) EngineOption {
	return func(e *Engine) {
		if intn != nil {
			e.intn = intn
		}
	}
}

// NewEngine builds an engine over a normalized copy of catalog. Later
// changes to catalog do not affect the engine.
func NewEngine(catalog Catalog, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog: normalizeCatalog(catalog),
		intn:    rand.IntN,
	}
	for _, opt := range opts {
		opt(e)
	}

	counter, err := meter.Int64Counter("intents.resolutions",
		metric.WithDescription("Utterances resolved by outcome"))
	if err != nil {
		logger.Warn("failed to create resolution counter", "error", err)
	}
	e.resolutions = counter

	return e
}

// Channel returns the channel of the underlying catalog.
func (e *Engine) Channel() Channel { return e.catalog.Channel }

// Resolve maps an utterance to a response in the given locale. It never
// fails.
func (e *Engine) Resolve(utterance string, locale locales.Locale) string {
	return e.Match(utterance, locale).Response
}

// Match is Resolve that also reports how the response was chosen.
func (e *Engine) Match(utterance string, locale locales.Locale) Resolution {
	return e.MatchContext(context.Background(), utterance, locale)
}

// MatchContext is Match recorded as a child span of ctx.
func (e *Engine) MatchContext(ctx context.Context, utterance string, locale locales.Locale) Resolution {
	ctx, span := tracer.Start(ctx, "match utterance", trace.WithAttributes(
		attribute.String("intents.channel", string(e.catalog.Channel)),
		attribute.String("locale", locale.String()),
	))
	defer span.End()

	resolution := e.match(normalize(utterance), locale)
	attributes := []attribute.KeyValue{
		attribute.String("intents.channel", string(e.catalog.Channel)),
		attribute.String("intents.outcome", string(resolution.Outcome)),
		attribute.String("intents.rule", resolution.Rule),
	}
	span.SetAttributes(attributes[1:]...)
	if e.resolutions != nil {
		e.resolutions.Add(ctx, 1, metric.WithAttributes(attributes...))
	}
	return resolution
}

func (e *Engine) match(normalized string, locale locales.Locale) Resolution {
	for _, rule := range e.catalog.Rules {
		if matchesAllGroups(normalized, rule.KeywordGroups) {
			return Resolution{
				Response: e.localized(rule.Templates, locale),
				Outcome:  OutcomeMatched,
				Rule:     rule.Name,
			}
		}
	}

	if e.catalog.Channel != ChannelChat {
		return Resolution{
			Response: e.localized(e.catalog.Fallback, locale),
			Outcome:  OutcomeFallback,
		}
	}

	if utf8.RuneCountInString(normalized) < e.catalog.MinInputLength ||
		!containsAny(normalized, e.catalog.MeaningfulKeywords) {
		return Resolution{
			Response: e.localized(e.catalog.NotUnderstood, locale),
			Outcome:  OutcomeNotUnderstood,
		}
	}

	generic := e.catalog.GenericResponses[locale]
	if len(generic) == 0 {
		generic = e.catalog.GenericResponses[e.catalog.DefaultLocale]
	}
	if len(generic) == 0 {
		return Resolution{
			Response: e.localized(e.catalog.NotUnderstood, locale),
			Outcome:  OutcomeNotUnderstood,
		}
	}

	return Resolution{
		Response: generic[e.intn(len(generic))],
		Outcome:  OutcomeGeneric,
	}
}

// GenericResponses returns the generic acknowledgement set used for locale.
func (e *Engine) GenericResponses(locale locales.Locale) []string {
	generic := e.catalog.GenericResponses[locale]
	if len(generic) == 0 {
		generic = e.catalog.GenericResponses[e.catalog.DefaultLocale]
	}
	return append([]string(nil), generic...)
}

func (e *Engine) localized(templates map[locales.Locale]string, locale locales.Locale) string {
	if template, ok := templates[locale]; ok && template != "" {
		return template
	}
	return templates[e.catalog.DefaultLocale]
}

func normalize(utterance string) string {
	return strings.ToLower(strings.TrimSpace(utterance))
}

func matchesAllGroups(normalized string, groups [][]string) bool {
	if len(groups) == 0 {
		return false
	}
	for _, group := range groups {
		if !containsAny(normalized, group) {
			return false
		}
	}
	return true
}

func containsAny(normalized string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}
	return false
}

func normalizeCatalog(catalog Catalog) Catalog {
	out := catalog
	if out.MinInputLength <= 0 {
		out.MinInputLength = DefaultMinInputLength
	}

	out.Rules = make([]Rule, 0, len(catalog.Rules))
	for _, rule := range catalog.Rules {
		groups := make([][]string, 0, len(rule.KeywordGroups))
		for _, group := range rule.KeywordGroups {
			groups = append(groups, normalizeKeywords(group))
		}
		templates := make(map[locales.Locale]string, len(rule.Templates))
		for locale, template := range rule.Templates {
			templates[locale] = template
		}
		out.Rules = append(out.Rules, Rule{Name: rule.Name, KeywordGroups: groups, Templates: templates})
	}

	out.MeaningfulKeywords = normalizeKeywords(catalog.MeaningfulKeywords)
	out.NotUnderstood = copyTemplates(catalog.NotUnderstood)
	out.Fallback = copyTemplates(catalog.Fallback)
	out.GenericResponses = make(map[locales.Locale][]string, len(catalog.GenericResponses))
	for locale, responses := range catalog.GenericResponses {
		out.GenericResponses[locale] = nonEmpty(responses)
	}

	return out
}

// normalizeKeywords lowercases keywords and drops empty ones.
func normalizeKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		if strings.TrimSpace(keyword) == "" {
			continue
		}
		out = append(out, strings.ToLower(keyword))
	}
	return out
}

func copyTemplates(templates map[locales.Locale]string) map[locales.Locale]string {
	out := make(map[locales.Locale]string, len(templates))
	for locale, template := range templates {
		out[locale] = template
	}
	return out
}
