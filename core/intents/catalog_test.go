package intents

import (
	"errors"
	"testing"

	"github.com/koscakluka/ema-assist/core/locales"
)

func TestBuiltInCatalogsAreValid(t *testing.T) {
	if err := ChatCatalog().Validate(); err != nil {
		t.Fatalf("expected chat catalog to be valid, got %v", err)
	}
	if err := VoiceCatalog().Validate(); err != nil {
		t.Fatalf("expected voice catalog to be valid, got %v", err)
	}
}

func TestVoiceCatalogHasBothLocales(t *testing.T) {
	for _, rule := range VoiceCatalog().Rules {
		if rule.Templates[locales.Primary] == "" || rule.Templates[locales.Secondary] == "" {
			t.Fatalf("expected rule %q to have templates for both locales", rule.Name)
		}
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	catalog := Catalog{
		Channel: ChannelChat,
		Rules: []Rule{
			{Name: "dup", KeywordGroups: [][]string{{"a"}}, Templates: primary("a")},
			{Name: "dup", KeywordGroups: [][]string{{" "}}},
			{KeywordGroups: nil, Templates: primary("c")},
		},
	}

	err := catalog.Validate()
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}

	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected a joined error, got %T", err)
	}
	// duplicate name, empty group, missing template, missing name, no groups,
	// no not-understood, no generic responses, no meaningful keywords
	if got := len(joined.Unwrap()); got != 8 {
		t.Fatalf("expected 8 problems, got %d: %v", got, err)
	}
}

func TestValidateRejectsUnknownChannel(t *testing.T) {
	catalog := VoiceCatalog()
	catalog.Channel = "fax"

	if err := catalog.Validate(); !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog for unknown channel, got %v", err)
	}
}

func TestValidateJoinsProblemsFlat(t *testing.T) {
	catalog := ChatCatalog()
	catalog.NotUnderstood = nil
	catalog.GenericResponses = nil
	catalog.MeaningfulKeywords = nil
	catalog.Rules[0].Name = ""

	joined, ok := catalog.Validate().(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected a joined error")
	}
	errs := joined.Unwrap()
	if len(errs) != 4 {
		t.Fatalf("expected 4 problems at the top level, got %d", len(errs))
	}
	for _, err := range errs {
		if !errors.Is(err, ErrInvalidCatalog) {
			t.Fatalf("expected every problem to wrap ErrInvalidCatalog, got %v", err)
		}
	}
}
