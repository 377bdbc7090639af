package deepgram

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/koscakluka/ema-assist/core/audio"
	"github.com/koscakluka/ema-assist/core/texttospeech"
)

type stubSink struct {
	mu      sync.Mutex
	audio   []byte
	clears  int
	marks   []string
	encInfo audio.EncodingInfo
}

func (s *stubSink) SendAudio(audio []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audio = append(s.audio, audio...)
	return nil
}

func (s *stubSink) ClearBuffer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	s.audio = nil
}

func (s *stubSink) Mark(name string, callback func(string)) error {
	s.mu.Lock()
	s.marks = append(s.marks, name)
	s.mu.Unlock()
	go callback(name)
	return nil
}

func (s *stubSink) EncodingInfo() audio.EncodingInfo {
	if s.encInfo.IsZero() {
		return audio.GetDefaultEncodingInfo()
	}
	return s.encInfo
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestSpeakStreamsAudioAndEndsAtMark(t *testing.T) {
	var gotQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/speak" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		gotQuery.Store(r.URL.Query())
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"text":"Bakery is in aisle 3"}` {
			http.Error(w, "unexpected body "+string(body), http.StatusBadRequest)
			return
		}
		_, _ = w.Write(make([]byte, 6400))
	}))
	defer server.Close()

	sink := &stubSink{}
	s := NewSynthesizer(sink, WithAPIKey("key"), WithBaseURL(server.URL))

	started := make(chan struct{})
	ended := make(chan struct{})
	if err := s.Speak(context.Background(), "Bakery is in aisle 3",
		texttospeech.WithVoice("aura-2-thalia-en"),
		texttospeech.WithStartedCallback(func() { close(started) }),
		texttospeech.WithEndedCallback(func() { close(ended) }),
		texttospeech.WithErrorCallback(func(err error) { t.Errorf("unexpected error: %v", err) }),
	); err != nil {
		t.Fatalf("unexpected speak error: %v", err)
	}

	waitFor(t, started, "playback start")
	waitFor(t, ended, "playback end")

	query := gotQuery.Load().(url.Values)
	if got := query.Get("model"); got != "aura-2-thalia-en" {
		t.Fatalf("expected model query, got %q", got)
	}
	if got := query.Get("encoding"); got != "linear16" {
		t.Fatalf("expected linear16 encoding, got %q", got)
	}

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.audio) != 6400 {
		t.Fatalf("expected 6400 bytes of audio, got %d", len(sink.audio))
	}
	if len(sink.marks) != 1 {
		t.Fatalf("expected one end mark, got %d", len(sink.marks))
	}
}

func TestCancelSuppressesCallbacksAndClearsSink(t *testing.T) {
	requested := make(chan struct{})
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(requested)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	sink := &stubSink{}
	s := NewSynthesizer(sink, WithAPIKey("key"), WithBaseURL(server.URL))

	calls := atomic.Int32{}
	if err := s.Speak(context.Background(), "hello",
		texttospeech.WithEndedCallback(func() { calls.Add(1) }),
		texttospeech.WithErrorCallback(func(error) { calls.Add(1) }),
	); err != nil {
		t.Fatalf("unexpected speak error: %v", err)
	}

	waitFor(t, requested, "speak request")
	if err := s.Cancel(); err != nil {
		t.Fatalf("unexpected cancel error: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Fatalf("expected no callbacks after cancel, got %d", got)
	}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.clears != 1 {
		t.Fatalf("expected sink to be cleared once, got %d", sink.clears)
	}
}

func TestSpeakReportsNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad voice", http.StatusBadRequest)
	}))
	defer server.Close()

	s := NewSynthesizer(&stubSink{}, WithAPIKey("key"), WithBaseURL(server.URL))

	failed := make(chan struct{})
	if err := s.Speak(context.Background(), "hello",
		texttospeech.WithErrorCallback(func(error) { close(failed) }),
	); err != nil {
		t.Fatalf("unexpected speak error: %v", err)
	}
	waitFor(t, failed, "error callback")
}

func TestSpeakWithoutAPIKeyFails(t *testing.T) {
	s := NewSynthesizer(&stubSink{}, WithAPIKey(""))
	if err := s.Speak(context.Background(), "hello"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestLoadVoicesParsesModelsAndNotifies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"stt":[],"tts":[
			{"name":"thalia","canonical_name":"aura-2-thalia-en","languages":["en","en-US"]},
			{"name":"celeste","canonical_name":"aura-2-celeste-es","languages":["es","es-CO"]}
		]}`))
	}))
	defer server.Close()

	s := NewSynthesizer(&stubSink{}, WithAPIKey("key"), WithBaseURL(server.URL))
	changed := make(chan struct{})
	s.SetVoicesChangedCallback(func() { close(changed) })
	s.LoadVoices(context.Background())
	waitFor(t, changed, "voices changed")

	voices := s.Voices()
	if len(voices) != 2 || voices[0].ID != "aura-2-thalia-en" || voices[1].Languages[1] != "es-CO" {
		t.Fatalf("unexpected voices: %+v", voices)
	}
}

func TestLoadVoicesFallsBackToKnownVoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	s := NewSynthesizer(&stubSink{}, WithAPIKey("key"), WithBaseURL(server.URL))
	changed := make(chan struct{})
	s.SetVoicesChangedCallback(func() { close(changed) })
	s.LoadVoices(context.Background())
	waitFor(t, changed, "voices changed")

	if got := len(s.Voices()); got != len(knownVoices) {
		t.Fatalf("expected %d known voices, got %d", len(knownVoices), got)
	}
}

func TestConvertEncoding(t *testing.T) {
	testCases := []struct {
		name    string
		info    audio.EncodingInfo
		wantErr bool
	}{
		{name: "linear16 48k", info: audio.EncodingInfo{SampleRate: 48000, Format: audio.EncodingLinear16}},
		{name: "mulaw 8k", info: audio.EncodingInfo{SampleRate: 8000, Format: audio.EncodingMulaw}},
		{name: "mulaw 48k", info: audio.EncodingInfo{SampleRate: 48000, Format: audio.EncodingMulaw}, wantErr: true},
		{name: "unknown", info: audio.EncodingInfo{SampleRate: 16000, Format: "opus"}, wantErr: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := convertEncoding(testCase.info)
			if (err != nil) != testCase.wantErr {
				t.Fatalf("expected error %v, got %v", testCase.wantErr, err)
			}
		})
	}
}

// orderedSink records sink calls in order and lets a test hold a send in
// flight.
type orderedSink struct {
	stubSink
	held    atomic.Bool
	sending chan struct{}
	proceed chan struct{}

	callsMu sync.Mutex
	calls   []string
}

func (s *orderedSink) record(call string) {
	s.callsMu.Lock()
	defer s.callsMu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *orderedSink) SendAudio(audio []byte) error {
	if s.held.CompareAndSwap(false, true) {
		s.sending <- struct{}{}
		<-s.proceed
	}
	s.record("send")
	return s.stubSink.SendAudio(audio)
}

func (s *orderedSink) ClearBuffer() {
	s.record("clear")
	s.stubSink.ClearBuffer()
}

func TestCancelDuringSendLeavesNoAudioAfterClear(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for range 5 {
			_, _ = w.Write(make([]byte, 3200))
			flusher.Flush()
			time.Sleep(5 * time.Millisecond)
		}
	}))
	defer server.Close()

	sink := &orderedSink{sending: make(chan struct{}, 1), proceed: make(chan struct{})}
	s := NewSynthesizer(sink, WithAPIKey("key"), WithBaseURL(server.URL))

	if err := s.Speak(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected speak error: %v", err)
	}

	select {
	case <-sink.sending:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for the first send")
	}

	cancelled := make(chan struct{})
	go func() {
		defer close(cancelled)
		_ = s.Cancel()
	}()

	select {
	case <-cancelled:
		t.Fatalf("expected cancel to wait for the send in flight")
	case <-time.After(50 * time.Millisecond):
	}
	close(sink.proceed)
	waitFor(t, cancelled, "cancel")
	time.Sleep(100 * time.Millisecond)

	sink.callsMu.Lock()
	defer sink.callsMu.Unlock()
	if len(sink.calls) == 0 || sink.calls[len(sink.calls)-1] != "clear" {
		t.Fatalf("expected clear to be the last sink call, got %v", sink.calls)
	}
}
