// Package deepgram implements continuous speech recognition over the Deepgram
// live transcription websocket.
package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-assist/core/audio"
	"github.com/koscakluka/ema-assist/core/speechtotext"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultListenURL = "wss://api.deepgram.com/v1/listen"
	defaultModel     = "nova-3"

	keepAliveInterval = 5 * time.Second
)

var ErrMissingAPIKey = errors.New("deepgram api key not found")

// Recognizer streams audio from an [audio.Source] to Deepgram. Only one
// recognition session runs at a time.
type Recognizer struct {
	source    audio.Source
	apiKey    string
	model     string
	listenURL string
	dialer    *websocket.Dialer

	mu      sync.Mutex
	current *session
}

type RecognizerOption func(*Recognizer)

func WithAPIKey(apiKey string) RecognizerOption {
	return func(r *Recognizer) { r.apiKey = apiKey }
}

func WithModel(model string) RecognizerOption {
	return func(r *Recognizer) { r.model = model }
}

// WithListenURL overrides the live transcription endpoint.
func WithListenURL(listenURL string) RecognizerOption {
	return func(r *Recognizer) { r.listenURL = listenURL }
}

// NewRecognizer reads DEEPGRAM_API_KEY unless [WithAPIKey] is given.
func NewRecognizer(source audio.Source, opts ...RecognizerOption) *Recognizer {
	r := &Recognizer{
		source:    source,
		apiKey:    os.Getenv("DEEPGRAM_API_KEY"),
		model:     defaultModel,
		listenURL: defaultListenURL,
		dialer:    websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start opens a recognition session and returns immediately; connection and
// capture failures are reported through the error callback.
func (r *Recognizer) Start(ctx context.Context, opts ...speechtotext.TranscriptionOption) error {
	if r.apiKey == "" {
		return ErrMissingAPIKey
	}

	options := speechtotext.NewOptions(append(
		[]speechtotext.TranscriptionOption{speechtotext.WithEncodingInfo(r.source.EncodingInfo())},
		opts...)...)
	encoding, err := convertEncoding(options.EncodingInfo)
	if err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}

	callbacks, wsConfig := newCallbackConfig(options)
	s := &session{
		recognizer: r,
		callbacks:  callbacks,
	}
	endpoint, err := r.endpoint(options.Language, encoding, wsConfig)
	if err != nil {
		return err
	}

	ctx, s.cancel = context.WithCancel(ctx)

	r.mu.Lock()
	if r.current != nil {
		r.mu.Unlock()
		s.cancel()
		return fmt.Errorf("recognition already started")
	}
	r.current = s
	r.mu.Unlock()

	go s.run(ctx, endpoint)
	return nil
}

// Stop ends the current session without calling any further callbacks.
func (r *Recognizer) Stop() error {
	r.mu.Lock()
	s := r.current
	r.current = nil
	r.mu.Unlock()

	if s == nil {
		return nil
	}
	err := s.stop()
	if captureErr := r.source.StopCapture(); captureErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to stop audio capture: %w", captureErr))
	}
	return err
}

func (r *Recognizer) release(s *session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == s {
		r.current = nil
	}
}

func (r *Recognizer) endpoint(language string, encoding liveEncoding, config websocketConfig) (string, error) {
	listenURL, err := url.Parse(r.listenURL)
	if err != nil {
		return "", fmt.Errorf("invalid listen url: %w", err)
	}

	queryParams := listenURL.Query()
	queryParams.Set("encoding", encoding.Name)
	queryParams.Set("sample_rate", strconv.Itoa(encoding.SampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", r.model)
	if language != "" {
		queryParams.Set("language", language)
	}
	queryParams.Set("smart_format", "true")
	queryParams.Set("endpointing", "300")
	if config.shouldDetectUtteranceEnd {
		queryParams.Set("utterance_end_ms", "1000")
		queryParams.Set("interim_results", "true")
		queryParams.Set("vad_events", "true")
	} else if config.shouldRequestInterimResults {
		queryParams.Set("interim_results", "true")
	}
	listenURL.RawQuery = queryParams.Encode()

	return listenURL.String(), nil
}

type session struct {
	recognizer *Recognizer
	callbacks  callbackConfig

	conn   *websocket.Conn
	connMu sync.Mutex

	stopped   atomic.Bool
	lastAudio atomic.Int64

	// accumulated holds the final segments of the current utterance; it is
	// only touched by the read loop.
	accumulated []string

	cancel context.CancelFunc
}

func (s *session) run(ctx context.Context, endpoint string) {
	notify := s.serve(ctx, endpoint)
	s.recognizer.release(s)
	if !s.stopped.Load() {
		notify()
	}
	s.cancel()
}

// serve runs the session until the socket closes and returns the callback
// describing how it ended, to be called once the session is released.
func (s *session) serve(ctx context.Context, endpoint string) func() {
	ctx, span := tracer.Start(ctx, "recognize speech")
	defer span.End()

	conn, _, err := s.recognizer.dialer.DialContext(ctx, endpoint,
		http.Header{"Authorization": {"Token " + s.recognizer.apiKey}})
	if err != nil {
		return s.fail(span, fmt.Errorf("failed to open socket connection to deepgram: %w", err))
	}
	defer conn.Close()

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()
	if s.stopped.Load() {
		return func() {}
	}

	if err := s.recognizer.source.StartCapture(ctx, s.sendAudio); err != nil {
		return s.fail(span, fmt.Errorf("failed to start audio capture: %w", err))
	}
	defer func() {
		if s.stopped.Load() {
			// Stop already terminated capture, unless it raced StartCapture
			return
		}
		if err := s.recognizer.source.StopCapture(); err != nil {
			logger.Warn("failed to stop audio capture", "error", err)
		}
	}()
	if s.stopped.Load() {
		_ = s.recognizer.source.StopCapture()
		return func() {}
	}

	loopDone := make(chan struct{})
	defer close(loopDone)
	go s.keepAlive(ctx, loopDone)

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			switch {
			case s.stopped.Load():
				span.AddEvent("stopped")
				return func() {}
			case ctx.Err() != nil:
				return s.fail(span, fmt.Errorf("recognition cancelled: %w", context.Cause(ctx)))
			case isServerClose(err):
				span.AddEvent("capture ended", trace.WithAttributes(attribute.String("reason", err.Error())))
				return s.callbacks.captureEndedCallback
			default:
				return s.fail(span, fmt.Errorf("failed to read deepgram websocket message: %w", err))
			}
		}
		if msgType != websocket.BinaryMessage {
			s.processMessage(msg)
		}
	}
}

func isServerClose(err error) bool {
	var closeErr *websocket.CloseError
	return errors.As(err, &closeErr)
}

func (s *session) fail(span trace.Span, err error) func() {
	if s.stopped.Load() {
		return func() {}
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, "recognition failed")
	return func() { s.callbacks.errorCallback(err) }
}

func (s *session) stop() error {
	if !s.stopped.CompareAndSwap(false, true) {
		return nil
	}

	var errs []error
	s.connMu.Lock()
	if s.conn != nil {
		if err := s.conn.WriteJSON(struct {
			Type string `json:"type"`
		}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
			errs = append(errs, fmt.Errorf("failed to close deepgram stream: %w", err))
		}
		if err := s.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close deepgram websocket: %w", err))
		}
	}
	s.connMu.Unlock()

	s.cancel()
	return errors.Join(errs...)
}

func (s *session) sendAudio(audio []byte) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	if s.conn == nil || s.stopped.Load() {
		return
	}

	s.lastAudio.Store(time.Now().UnixNano())
	if err := s.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		logger.Debug("failed to write audio to deepgram", "error", err)
	}
}

// keepAlive keeps the stream open while the source is quiet. Cancelling ctx
// closes the socket, which the read loop reports as an error.
func (s *session) keepAlive(ctx context.Context, loopDone <-chan struct{}) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-loopDone:
			return
		case <-ctx.Done():
			s.connMu.Lock()
			if s.conn != nil {
				_ = s.conn.Close()
			}
			s.connMu.Unlock()
			return
		case <-ticker.C:
			if time.Since(time.Unix(0, s.lastAudio.Load())) < keepAliveInterval {
				continue
			}
			s.connMu.Lock()
			if s.conn != nil && !s.stopped.Load() {
				if err := s.conn.WriteJSON(struct {
					Type string `json:"type"`
				}{Type: "KeepAlive"}); err != nil {
					logger.Debug("failed to send deepgram keep alive", "error", err)
				}
			}
			s.connMu.Unlock()
		}
	}
}

func (s *session) processMessage(msg []byte) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		logger.Warn("failed to unmarshal deepgram message", "error", err)
		return
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			logger.Warn("failed to unmarshal deepgram results", "error", err)
			return
		}

		transcript := ""
		if len(msgResp.Channel.Alternatives) > 0 {
			transcript = strings.TrimSpace(msgResp.Channel.Alternatives[0].Transcript)
		}

		if !msgResp.IsFinal {
			if transcript != "" {
				s.callbacks.interimTranscriptionCallback(joinSegments(append(s.accumulated, transcript)...))
			}
			return
		}

		if transcript != "" {
			s.accumulated = append(s.accumulated, transcript)
			s.callbacks.interimTranscriptionCallback(joinSegments(s.accumulated...))
		}
		if msgResp.SpeechFinal {
			s.endUtterance()
		}

	case api.TypeUtteranceEndResponse:
		s.endUtterance()
	}
}

func (s *session) endUtterance() {
	transcript := joinSegments(s.accumulated...)
	s.accumulated = nil
	if transcript != "" {
		s.callbacks.transcriptionCallback(transcript)
	}
}

func joinSegments(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment = strings.TrimSpace(segment); segment != "" {
			parts = append(parts, segment)
		}
	}
	return strings.Join(parts, " ")
}
