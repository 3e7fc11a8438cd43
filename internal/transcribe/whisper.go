// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/material-logger/internal/httputil"
	"github.com/pdiddy/material-logger/internal/logger"
	"github.com/pdiddy/material-logger/pkg/types"
)

// WhisperServer transcribes through the HTTP API of a whisper.cpp server
// (POST {url}/inference, multipart form with the audio under "file").
type WhisperServer struct {
	baseURL    string
	language   string
	maxRetries int
	client     *http.Client
}

// WhisperOption configures a WhisperServer.
type WhisperOption func(*WhisperServer)

// WithWhisperLanguage sets the spoken language hint (default "en").
func WithWhisperLanguage(lang string) WhisperOption {
	return func(w *WhisperServer) { w.language = lang }
}

// WithWhisperHTTPClient replaces the HTTP client.
func WithWhisperHTTPClient(c *http.Client) WhisperOption {
	return func(w *WhisperServer) { w.client = c }
}

// WithWhisperRetries sets how often 429/503 answers are retried.
func WithWhisperRetries(n int) WhisperOption {
	return func(w *WhisperServer) { w.maxRetries = n }
}

// NewWhisperServer returns a backend for the server at baseURL.
func NewWhisperServer(baseURL string, timeout time.Duration, opts ...WhisperOption) *WhisperServer {
	w := &WhisperServer{
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: "en",
		client:   &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *WhisperServer) Name() string { return types.BackendWhisper }

type whisperResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

// Transcribe uploads the audio file and returns the server's text.
func (w *WhisperServer) Transcribe(ctx context.Context, audioPath string) (string, error) {
	body, contentType, err := w.form(audioPath)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/inference", body)
	if err != nil {
		return "", fmt.Errorf("creating whisper request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	logger.Debug("whisper request", "url", req.URL.Redacted(), "file", filepath.Base(audioPath))

	resp, err := httputil.DoWithRetry(ctx, w.client, req, w.maxRetries)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &BackendError{Backend: w.Name(), Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &BackendError{Backend: w.Name(), Err: fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &BackendError{Backend: w.Name(), Err: fmt.Errorf("%w: HTTP %d: %s",
			ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(raw)))}
	}

	var parsed whisperResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &BackendError{Backend: w.Name(), Err: fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)}
	}
	if parsed.Error != "" {
		return "", &BackendError{Backend: w.Name(), Err: fmt.Errorf("%w: %s", ErrUnavailable, parsed.Error)}
	}
	return cleanTranscript(w.Name(), parsed.Text)
}

// form builds the multipart body the inference endpoint expects.
func (w *WhisperServer) form(audioPath string) (io.Reader, string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("opening audio: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", fmt.Errorf("building form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("reading audio: %w", err)
	}

	fields := map[string]string{
		"response_format": "json",
		"temperature":     "0.0",
	}
	if w.language != "" {
		fields["language"] = w.language
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("building form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("building form: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}
