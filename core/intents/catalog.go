// Package intents holds the ordered keyword rules a storefront assistant
// uses to answer free-form utterances, and the engine that walks them.
//
// Resolution is deterministic apart from the chat channel's generic
// acknowledgements: rules are tested in catalog order and the first rule
// whose every keyword group is satisfied wins. There is no scoring, so more
// specific rules must be placed before broader ones.
package intents

import (
	"errors"
	"fmt"
	"strings"

	"github.com/koscakluka/ema-assist/core/locales"
)

// ErrInvalidCatalog is wrapped by every catalog validation failure.
var ErrInvalidCatalog = errors.New("invalid intent catalog")

// DefaultMinInputLength is the shortest normalized chat utterance, in
// characters, that can pass the meaningful-input gate.
const DefaultMinInputLength = 3

// Channel is the modality a catalog is written for.
type Channel string

const (
	ChannelChat  Channel = "chat"
	ChannelVoice Channel = "voice"
)

// Rule is a single catalog entry. Its priority is its position in
// [Catalog.Rules].
type Rule struct {
	// Name identifies the intent, e.g. "bakery_location".
	Name string
	// KeywordGroups must each contribute at least one keyword contained in
	// the normalized utterance for the rule to match.
	KeywordGroups [][]string
	// Templates holds the response per locale. A missing locale falls back
	// to the catalog's default locale.
	Templates map[locales.Locale]string
}

// Catalog is the ordered rule set of one channel together with its
// fallback responses.
type Catalog struct {
	Channel       Channel
	DefaultLocale locales.Locale
	Rules         []Rule

	// MeaningfulKeywords, MinInputLength, NotUnderstood and GenericResponses
	// are only used by the chat channel.
	MeaningfulKeywords []string
	MinInputLength     int
	NotUnderstood      map[locales.Locale]string
	GenericResponses   map[locales.Locale][]string

	// Fallback is the voice channel's response when no rule matches.
	Fallback map[locales.Locale]string
}

// Validate reports every structural problem of the catalog at once.
func (c Catalog) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidCatalog, fmt.Sprintf(format, args...)))
	}

	switch c.Channel {
	case ChannelChat, ChannelVoice:
	default:
		invalid("unknown channel %q", c.Channel)
	}

	if len(c.Rules) == 0 {
		invalid("no rules")
	}

	names := map[string]struct{}{}
	for i, rule := range c.Rules {
		if rule.Name == "" {
			invalid("rule %d has no name", i)
		} else if _, ok := names[rule.Name]; ok {
			invalid("rule %q is defined more than once", rule.Name)
		}
		names[rule.Name] = struct{}{}

		if len(rule.KeywordGroups) == 0 {
			invalid("rule %q has no keyword groups", rule.Name)
		}
		for j, group := range rule.KeywordGroups {
			if len(nonEmpty(group)) == 0 {
				invalid("rule %q keyword group %d is empty", rule.Name, j)
			}
		}
		if strings.TrimSpace(rule.Templates[c.DefaultLocale]) == "" {
			invalid("rule %q has no %s template", rule.Name, c.DefaultLocale)
		}
	}

	switch c.Channel {
	case ChannelChat:
		if strings.TrimSpace(c.NotUnderstood[c.DefaultLocale]) == "" {
			invalid("chat catalog has no %s not-understood response", c.DefaultLocale)
		}
		if len(nonEmpty(c.GenericResponses[c.DefaultLocale])) == 0 {
			invalid("chat catalog has no %s generic responses", c.DefaultLocale)
		}
		if len(nonEmpty(c.MeaningfulKeywords)) == 0 {
			invalid("chat catalog has no meaningful keywords")
		}
	case ChannelVoice:
		if strings.TrimSpace(c.Fallback[c.DefaultLocale]) == "" {
			invalid("voice catalog has no %s fallback response", c.DefaultLocale)
		}
	}

	return errors.Join(errs...)
}

func nonEmpty(values []string) []string {
	var out []string
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			out = append(out, value)
		}
	}
	return out
}
