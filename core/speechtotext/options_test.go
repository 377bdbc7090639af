package speechtotext

import (
	"testing"

	"github.com/koscakluka/ema-assist/core/audio"
)

func TestNewOptionsDefaultsEncoding(t *testing.T) {
	options := NewOptions()
	if options.EncodingInfo != audio.GetDefaultEncodingInfo() {
		t.Fatalf("expected default encoding, got %+v", options.EncodingInfo)
	}
}

func TestWithEncodingInfoIgnoresZeroValue(t *testing.T) {
	options := NewOptions(WithEncodingInfo(audio.EncodingInfo{}))
	if options.EncodingInfo.IsZero() {
		t.Fatalf("expected zero encoding info to be ignored")
	}
}

func TestOptionsApplyLanguageAndCallbacks(t *testing.T) {
	ended := false
	options := NewOptions(
		WithLanguage("hi-IN"),
		WithCaptureEndedCallback(func() { ended = true }),
	)

	if options.Language != "hi-IN" {
		t.Fatalf("expected language hi-IN, got %q", options.Language)
	}
	options.CaptureEndedCallback()
	if !ended {
		t.Fatalf("expected capture ended callback to be kept")
	}
}
