// Package deepgram implements speech synthesis with the Deepgram REST speak
// endpoint, playing the audio through an [audio.Sink].
package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/koscakluka/ema-assist/core/audio"
	"github.com/koscakluka/ema-assist/core/texttospeech"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultBaseURL = "https://api.deepgram.com"

var ErrMissingAPIKey = errors.New("deepgram api key not found")

// Synthesizer speaks one utterance at a time; a new Speak replaces the
// previous utterance.
type Synthesizer struct {
	sink    audio.Sink
	apiKey  string
	baseURL string
	client  *http.Client

	mu            sync.Mutex
	voices        []texttospeech.Voice
	voicesChanged func()
	current       *utterance

	// sinkMu makes "still current, then send" atomic with "cancel, then
	// clear", so no chunk of a cancelled utterance lands after the clear.
	sinkMu sync.Mutex
}

type utterance struct {
	id        string
	cancel    context.CancelFunc
	cancelled atomic.Bool
}

func (u *utterance) stop() {
	u.cancelled.Store(true)
	u.cancel()
}

type SynthesizerOption func(*Synthesizer)

func WithAPIKey(apiKey string) SynthesizerOption {
	return func(s *Synthesizer) { s.apiKey = apiKey }
}

// WithBaseURL overrides the Deepgram API origin.
func WithBaseURL(baseURL string) SynthesizerOption {
	return func(s *Synthesizer) { s.baseURL = baseURL }
}

func WithHTTPClient(client *http.Client) SynthesizerOption {
	return func(s *Synthesizer) { s.client = client }
}

// NewSynthesizer reads DEEPGRAM_API_KEY unless [WithAPIKey] is given. The
// voice list is empty until [Synthesizer.LoadVoices] completes.
func NewSynthesizer(sink audio.Sink, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{
		sink:    sink,
		apiKey:  os.Getenv("DEEPGRAM_API_KEY"),
		baseURL: defaultBaseURL,
		client: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		)},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Synthesizer) Voices() []texttospeech.Voice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.voices)
}

func (s *Synthesizer) SetVoicesChangedCallback(callback func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.voicesChanged = callback
}

func (s *Synthesizer) setVoices(voices []texttospeech.Voice) {
	s.mu.Lock()
	s.voices = slices.Clone(voices)
	callback := s.voicesChanged
	s.mu.Unlock()

	if callback != nil {
		callback()
	}
}

// Speak cancels any in-flight utterance and starts synthesizing text. It
// returns once the request is scheduled.
func (s *Synthesizer) Speak(ctx context.Context, text string, opts ...texttospeech.SpeechOption) error {
	if s.apiKey == "" {
		return ErrMissingAPIKey
	}

	options := texttospeech.NewOptions(opts...)
	voice := options.Voice
	if voice == "" {
		voice = defaultVoice
	}
	encoding, err := convertEncoding(s.sink.EncodingInfo())
	if err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}

	u := &utterance{id: uuid.NewString()}
	ctx, u.cancel = context.WithCancel(ctx)

	s.mu.Lock()
	previous := s.current
	s.current = u
	s.mu.Unlock()

	if previous != nil {
		s.discard(previous)
	}

	go s.speak(ctx, u, text, voice, *encoding, options)
	return nil
}

// Cancel stops the in-flight utterance and drops its queued audio.
func (s *Synthesizer) Cancel() error {
	s.mu.Lock()
	u := s.current
	s.current = nil
	s.mu.Unlock()

	if u == nil {
		return nil
	}
	s.discard(u)
	return nil
}

func (s *Synthesizer) discard(u *utterance) {
	s.sinkMu.Lock()
	defer s.sinkMu.Unlock()
	u.stop()
	s.sink.ClearBuffer()
}

// send queues audio unless u was cancelled. It reports whether u is still
// live.
func (s *Synthesizer) send(u *utterance, audio []byte) (bool, error) {
	s.sinkMu.Lock()
	defer s.sinkMu.Unlock()
	if u.cancelled.Load() {
		return false, nil
	}
	return true, s.sink.SendAudio(audio)
}

func (s *Synthesizer) release(u *utterance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == u {
		s.current = nil
	}
	u.cancel()
}

func (s *Synthesizer) speak(ctx context.Context, u *utterance, text, voice string, encoding encodingInfo, options texttospeech.SpeechOptions) {
	ctx, span := tracer.Start(ctx, "synthesize speech", trace.WithAttributes(
		attribute.String("utterance.id", u.id),
		attribute.String("voice", voice),
		attribute.Int("text.length", len(text)),
	))
	defer span.End()

	fail := func(err error) {
		if u.cancelled.Load() {
			span.AddEvent("cancelled")
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "synthesis failed")
		s.release(u)
		options.ErrorCallback(err)
	}

	resp, err := s.request(ctx, text, voice, encoding)
	if err != nil {
		fail(err)
		return
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		if errorBody, err := io.ReadAll(resp.Body); err == nil {
			span.SetAttributes(attribute.String("response.error", string(errorBody)))
		}
		fail(fmt.Errorf("non-OK HTTP status: %s", resp.Status))
		return
	}

	// ~100ms of audio per chunk
	chunk := make([]byte, max(encoding.SampleRate/10*2, 512))
	started := false
	for {
		n, readErr := resp.Body.Read(chunk)
		if n > 0 {
			live, err := s.send(u, bytes.Clone(chunk[:n]))
			if !live {
				return
			}
			if err != nil {
				fail(fmt.Errorf("failed to play audio: %w", err))
				return
			}
			if !started {
				started = true
				span.AddEvent("playback started")
				options.StartedCallback()
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		} else if readErr != nil {
			fail(fmt.Errorf("failed to read audio: %w", readErr))
			return
		}
	}

	if u.cancelled.Load() {
		return
	}
	if !started {
		options.StartedCallback()
	}
	if err := s.sink.Mark(u.id, func(string) {
		if u.cancelled.Load() {
			return
		}
		s.release(u)
		options.EndedCallback()
	}); err != nil {
		fail(fmt.Errorf("failed to mark end of speech: %w", err))
	}
}

func (s *Synthesizer) request(ctx context.Context, text, voice string, encoding encodingInfo) (*http.Response, error) {
	query := url.Values{}
	query.Set("model", voice)
	query.Set("encoding", encoding.Encoding)
	query.Set("sample_rate", strconv.Itoa(encoding.SampleRate))
	query.Set("container", "none")

	body, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return nil, fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/speak?"+query.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	return resp, nil
}
