// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transcribe

import (
	"context"
	"errors"
	"strings"

	"github.com/pdiddy/material-logger/internal/logger"
)

// Fallback tries its backends in order and returns the first transcript.
type Fallback struct {
	backends []Transcriber
}

// NewFallback chains backends. With a single backend it behaves like that
// backend.
func NewFallback(backends ...Transcriber) *Fallback {
	return &Fallback{backends: backends}
}

func (f *Fallback) Name() string {
	names := make([]string, len(f.backends))
	for i, b := range f.backends {
		names[i] = b.Name()
	}
	return strings.Join(names, ",")
}

// Transcribe returns the first successful transcript. When every backend
// fails the errors are joined, so errors.Is matches ErrUnintelligible if any
// backend heard the audio but recognized nothing.
func (f *Fallback) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if len(f.backends) == 0 {
		return "", ErrUnavailable
	}

	var errs []error
	for i, b := range f.backends {
		text, err := b.Transcribe(ctx, audioPath)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		errs = append(errs, err)
		if i < len(f.backends)-1 {
			logger.Warn("transcription backend failed, trying next",
				"backend", b.Name(), "next", f.backends[i+1].Name(), "error", err)
		}
	}
	return "", errors.Join(errs...)
}
