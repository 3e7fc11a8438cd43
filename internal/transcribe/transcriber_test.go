// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeTranscriber returns canned text or an error and counts calls.
type fakeTranscriber struct {
	name  string
	text  string
	err   error
	calls atomic.Int32
}

func (f *fakeTranscriber) Name() string {
	if f.name == "" {
		return "fake"
	}
	return f.name
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// writeAudio creates a small file standing in for a recording.
func writeAudio(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("RIFF fake wav"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unintelligible", ErrUnintelligible, PlaceholderUnintelligible},
		{"wrapped unintelligible", &BackendError{Backend: "whisper", Err: ErrUnintelligible}, PlaceholderUnintelligible},
		{"unavailable", fmt.Errorf("%w: connection refused", ErrUnavailable), PlaceholderUnavailable},
		{"unclassified", errors.New("disk full"), PlaceholderUnavailable},
		{"joined prefers unintelligible", errors.Join(ErrUnavailable, ErrUnintelligible), PlaceholderUnintelligible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Placeholder(tt.err))
		})
	}
}

func TestSupportedFormat(t *testing.T) {
	for _, p := range []string{"a.wav", "b.MP3", "dir/c.flac", "d.m4a", "e.ogg"} {
		if !SupportedFormat(p) {
			t.Errorf("SupportedFormat(%q) = false, want true", p)
		}
	}
	for _, p := range []string{"a.txt", "b", "c.wav.bak", "d.aac"} {
		if SupportedFormat(p) {
			t.Errorf("SupportedFormat(%q) = true, want false", p)
		}
	}
}

func TestCleanTranscript(t *testing.T) {
	got, err := cleanTranscript("whisper", "  5 bags cement \n")
	assert.NoError(t, err)
	assert.Equal(t, "5 bags cement", got)

	_, err = cleanTranscript("whisper", " \n\t")
	assert.ErrorIs(t, err, ErrUnintelligible)
	assert.Contains(t, err.Error(), "whisper")
}

func TestFallback(t *testing.T) {
	t.Run("first success wins", func(t *testing.T) {
		a := &fakeTranscriber{name: "a", text: "from a"}
		b := &fakeTranscriber{name: "b", text: "from b"}
		got, err := NewFallback(a, b).Transcribe(context.Background(), "x.wav")
		assert.NoError(t, err)
		assert.Equal(t, "from a", got)
		assert.Equal(t, int32(0), b.calls.Load())
	})

	t.Run("falls through to next", func(t *testing.T) {
		a := &fakeTranscriber{name: "a", err: ErrUnavailable}
		b := &fakeTranscriber{name: "b", text: "from b"}
		got, err := NewFallback(a, b).Transcribe(context.Background(), "x.wav")
		assert.NoError(t, err)
		assert.Equal(t, "from b", got)
	})

	t.Run("all fail", func(t *testing.T) {
		a := &fakeTranscriber{name: "a", err: ErrUnavailable}
		b := &fakeTranscriber{name: "b", err: ErrUnintelligible}
		_, err := NewFallback(a, b).Transcribe(context.Background(), "x.wav")
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.ErrorIs(t, err, ErrUnintelligible)
		assert.Equal(t, PlaceholderUnintelligible, Placeholder(err))
	})

	t.Run("no backends", func(t *testing.T) {
		_, err := NewFallback().Transcribe(context.Background(), "x.wav")
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("cancelled context stops the chain", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		a := &fakeTranscriber{name: "a", err: ErrUnavailable}
		b := &fakeTranscriber{name: "b", text: "from b"}
		_, err := NewFallback(a, b).Transcribe(ctx, "x.wav")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, int32(0), b.calls.Load())
	})

	t.Run("name lists backends", func(t *testing.T) {
		f := NewFallback(&fakeTranscriber{name: "whisper"}, &fakeTranscriber{name: "openai"})
		assert.Equal(t, "whisper,openai", f.Name())
	})
}
