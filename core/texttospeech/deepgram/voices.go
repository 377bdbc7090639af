package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/koscakluka/ema-assist/core/texttospeech"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const defaultVoice = "aura-2-thalia-en"

// knownVoices is used when the model list cannot be fetched.
var knownVoices = []texttospeech.Voice{
	{ID: "aura-2-thalia-en", Name: "Thalia", Languages: []string{"en-US", "en"}},
	{ID: "aura-2-andromeda-en", Name: "Andromeda", Languages: []string{"en-US", "en"}},
	{ID: "aura-2-helena-en", Name: "Helena", Languages: []string{"en-US", "en"}},
	{ID: "aura-2-apollo-en", Name: "Apollo", Languages: []string{"en-US", "en"}},
	{ID: "aura-2-pandora-en", Name: "Pandora", Languages: []string{"en-GB", "en"}},
	{ID: "aura-2-celeste-es", Name: "Celeste", Languages: []string{"es-CO", "es"}},
}

type modelsResponse struct {
	TTS []struct {
		Name          string   `json:"name"`
		CanonicalName string   `json:"canonical_name"`
		Languages     []string `json:"languages"`
	} `json:"tts"`
}

// LoadVoices fetches the voice list in the background and reports it through
// the voices changed callback. The built-in list is used if fetching fails.
func (s *Synthesizer) LoadVoices(ctx context.Context) {
	go func() {
		voices, err := s.fetchVoices(ctx)
		if err != nil {
			logger.Warn("failed to list deepgram voices, using built-in list", "error", err)
			voices = knownVoices
		}
		s.setVoices(voices)
	}()
}

func (s *Synthesizer) fetchVoices(ctx context.Context) ([]texttospeech.Voice, error) {
	ctx, span := tracer.Start(ctx, "list voices")
	defer span.End()

	if s.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/models", nil)
	if err != nil {
		return nil, fmt.Errorf("error creating HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		err = fmt.Errorf("error sending request: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		err := fmt.Errorf("non-OK HTTP status: %s", resp.Status)
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, err
	}

	var models modelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&models); err != nil {
		err = fmt.Errorf("error decoding models: %w", err)
		span.RecordError(err)
		return nil, err
	}

	voices := make([]texttospeech.Voice, 0, len(models.TTS))
	for _, model := range models.TTS {
		if model.CanonicalName == "" {
			continue
		}
		voices = append(voices, texttospeech.Voice{
			ID:        model.CanonicalName,
			Name:      model.Name,
			Languages: model.Languages,
		})
	}
	span.SetAttributes(attribute.Int("voices.count", len(voices)))
	return voices, nil
}
