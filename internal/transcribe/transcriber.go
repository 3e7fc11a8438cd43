// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transcribe converts recorded dictation into text through pluggable
// speech-to-text backends: a whisper.cpp server, the OpenAI audio API, or a
// whisper container run locally. Backends can be chained with Fallback.
package transcribe

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

// Transcriber turns one audio file into text.
type Transcriber interface {
	// Name identifies the backend in logs and status lines.
	Name() string

	// Transcribe returns the recognized text. Failures wrap ErrUnintelligible
	// or ErrUnavailable.
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

var (
	// ErrUnintelligible means the backend answered but recognized no speech.
	ErrUnintelligible = errors.New("speech not recognized")

	// ErrUnavailable means the backend could not be reached or failed.
	ErrUnavailable = errors.New("speech recognition service unavailable")
)

// Operator-facing texts for transcription failures.
const (
	PlaceholderUnintelligible = "Could not understand the audio."
	PlaceholderUnavailable    = "Could not reach the speech recognition service."
)

// Placeholder maps a transcription error to the text shown to the operator
// in place of a transcript. It returns "" for a nil error.
func Placeholder(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnintelligible):
		return PlaceholderUnintelligible
	default:
		return PlaceholderUnavailable
	}
}

var supportedExts = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".ogg":  true,
}

// SupportedFormat reports whether path has an audio extension the backends
// accept.
func SupportedFormat(path string) bool {
	return supportedExts[strings.ToLower(filepath.Ext(path))]
}

// cleanTranscript trims the text and maps an empty result to
// ErrUnintelligible.
func cleanTranscript(backend, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &BackendError{Backend: backend, Err: ErrUnintelligible}
	}
	return text, nil
}

// BackendError attributes a failure to a backend.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return e.Backend + ": " + e.Err.Error()
}

func (e *BackendError) Unwrap() error { return e.Err }
