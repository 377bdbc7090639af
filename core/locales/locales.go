// Package locales describes the two languages a storefront assistant session
// can switch between and how each one maps to recognition and synthesis.
package locales

import "strings"

// Locale selects the active template set, recognition language and
// synthesis voice of a session.
type Locale int

const (
	Primary Locale = iota
	Secondary
)

func (l Locale) String() string {
	switch l {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	}
	return "unknown"
}

// Toggle flips between the primary and secondary locale.
func (l Locale) Toggle() Locale {
	if l == Secondary {
		return Primary
	}
	return Secondary
}

// Parse maps "primary"/"secondary" (case insensitive) to a Locale.
func Parse(name string) (Locale, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "primary":
		return Primary, true
	case "secondary":
		return Secondary, true
	}
	return Primary, false
}

// VoiceMatcher reports whether a voice language tag is acceptable.
type VoiceMatcher func(tag string) bool

// LanguagePrefix matches tags whose language subtag equals lang, so
// LanguagePrefix("hi") accepts "hi", "hi-IN" and "HI_in".
func LanguagePrefix(lang string) VoiceMatcher {
	lang = strings.ToLower(lang)
	return func(tag string) bool {
		language, _ := splitTag(tag)
		return language == lang
	}
}

// Region matches tags whose region subtag equals region, e.g. Region("IN")
// accepts "en-IN" and "ta-IN".
func Region(region string) VoiceMatcher {
	region = strings.ToLower(region)
	return func(tag string) bool {
		_, r := splitTag(tag)
		return r == region
	}
}

// AnyVoice accepts every voice.
func AnyVoice() VoiceMatcher {
	return func(string) bool { return true }
}

func splitTag(tag string) (language, region string) {
	tag = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(tag), "_", "-"))
	parts := strings.Split(tag, "-")
	language = parts[0]
	if len(parts) > 1 {
		region = parts[len(parts)-1]
	}
	return language, region
}

// Settings holds everything a single locale needs outside of the intent
// catalog.
type Settings struct {
	// Tag is the BCP-47 tag passed to recognition and synthesis, e.g. "hi-IN".
	Tag string
	// VoicePreferences is walked in order; the first matcher that accepts
	// any available voice picks the voice. The first available voice is used
	// when nothing matches.
	VoicePreferences []VoiceMatcher
}

// Table maps both locales to their settings.
type Table map[Locale]Settings

// DefaultTable is English (United States) as primary and Hindi (India) as
// secondary.
func DefaultTable() Table {
	return Table{
		Primary: {
			Tag:              "en-US",
			VoicePreferences: []VoiceMatcher{LanguagePrefix("en")},
		},
		Secondary: {
			Tag:              "hi-IN",
			VoicePreferences: []VoiceMatcher{LanguagePrefix("hi"), Region("IN")},
		},
	}
}

// Tag returns the language tag configured for l, falling back to the default
// table when l is missing.
func (t Table) Tag(l Locale) string {
	if settings, ok := t[l]; ok && settings.Tag != "" {
		return settings.Tag
	}
	return DefaultTable()[l].Tag
}

// VoicePreferences returns the ordered voice matchers for l.
func (t Table) VoicePreferences(l Locale) []VoiceMatcher {
	if settings, ok := t[l]; ok && len(settings.VoicePreferences) > 0 {
		return settings.VoicePreferences
	}
	return DefaultTable()[l].VoicePreferences
}
