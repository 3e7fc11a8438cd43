// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/pdiddy/material-logger/internal/logger"
	"github.com/pdiddy/material-logger/pkg/types"
)

// OpenAIConfig holds the settings for the OpenAI transcription backend.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string // empty uses the public API
	Model      string
	Language   string
	Timeout    time.Duration
	MaxRetries int
}

// OpenAITranscriber calls the audio transcription endpoint of the OpenAI API
// or any server that implements it.
type OpenAITranscriber struct {
	client   openai.Client
	model    openai.AudioModel
	language string
}

// NewOpenAITranscriber returns a backend for cfg. An API key is required.
func NewOpenAITranscriber(cfg OpenAIConfig) (*OpenAITranscriber, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai backend requires an API key (transcription.openai_api_key or .secrets/openai-api-key)")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	model := openai.AudioModelWhisper1
	if cfg.Model != "" {
		model = openai.AudioModel(cfg.Model)
	}

	return &OpenAITranscriber{
		client:   openai.NewClient(opts...),
		model:    model,
		language: cfg.Language,
	}, nil
}

func (o *OpenAITranscriber) Name() string { return types.BackendOpenAI }

// Transcribe uploads audioPath and returns the transcription text.
func (o *OpenAITranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("opening audio: %w", err)
	}
	defer f.Close()

	params := openai.AudioTranscriptionNewParams{
		Model: o.model,
		File:  f,
	}
	if o.language != "" {
		params.Language = openai.String(o.language)
	}

	logger.Debug("openai transcription request", "model", o.model, "file", audioPath)

	res, err := o.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &BackendError{Backend: o.Name(), Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	return cleanTranscript(o.Name(), res.Text)
}
