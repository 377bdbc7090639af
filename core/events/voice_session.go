package events

const (
	// KindLocaleChanged identifies a session locale toggle.
	KindLocaleChanged Kind = "voice_session.locale_changed"
	// KindResponseResolved identifies a transcript resolved into a response.
	KindResponseResolved Kind = "voice_session.response_resolved"
)

// LocaleChanged carries the new session locale.
type LocaleChanged struct {
	Base
	Locale string
	Tag    string
}

// NewLocaleChanged creates a locale changed event.
func NewLocaleChanged(locale, tag string) LocaleChanged {
	return LocaleChanged{Base: NewBase(KindLocaleChanged), Locale: locale, Tag: tag}
}

// ResponseResolved carries a transcript and the response it resolved to.
type ResponseResolved struct {
	Base
	Transcript string
	Response   string
	Rule       string
}

// NewResponseResolved creates a response resolved event.
func NewResponseResolved(transcript, response, rule string) ResponseResolved {
	return ResponseResolved{Base: NewBase(KindResponseResolved), Transcript: transcript, Response: response, Rule: rule}
}
