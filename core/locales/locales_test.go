package locales

import "testing"

func TestToggleFlipsBetweenLocales(t *testing.T) {
	if got := Primary.Toggle(); got != Secondary {
		t.Fatalf("expected primary to toggle to secondary, got %v", got)
	}
	if got := Secondary.Toggle(); got != Primary {
		t.Fatalf("expected secondary to toggle to primary, got %v", got)
	}
}

func TestVoiceMatchers(t *testing.T) {
	cases := []struct {
		name    string
		matcher VoiceMatcher
		tag     string
		want    bool
	}{
		{"language exact", LanguagePrefix("hi"), "hi-IN", true},
		{"language underscore", LanguagePrefix("hi"), "HI_in", true},
		{"language bare", LanguagePrefix("en"), "en", true},
		{"language mismatch", LanguagePrefix("hi"), "en-IN", false},
		{"language is not a substring match", LanguagePrefix("e"), "en-US", false},
		{"region match", Region("IN"), "en-IN", true},
		{"region mismatch", Region("IN"), "en-US", false},
		{"region missing", Region("IN"), "en", false},
		{"any", AnyVoice(), "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.matcher(tc.tag); got != tc.want {
				t.Fatalf("expected %v for %q, got %v", tc.want, tc.tag, got)
			}
		})
	}
}

func TestTableFallsBackToDefaults(t *testing.T) {
	table := Table{Primary: {Tag: "en-GB"}}

	if got := table.Tag(Primary); got != "en-GB" {
		t.Fatalf("expected configured primary tag, got %q", got)
	}
	if got := table.Tag(Secondary); got != "hi-IN" {
		t.Fatalf("expected default secondary tag, got %q", got)
	}
	if got := len(table.VoicePreferences(Secondary)); got != 2 {
		t.Fatalf("expected two default secondary voice preferences, got %d", got)
	}
}

func TestParse(t *testing.T) {
	if l, ok := Parse(" Secondary "); !ok || l != Secondary {
		t.Fatalf("expected secondary, got %v (ok=%v)", l, ok)
	}
	if _, ok := Parse("tertiary"); ok {
		t.Fatalf("expected unknown locale name to be rejected")
	}
}
