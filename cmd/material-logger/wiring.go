// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/material-logger/internal/container"
	"github.com/pdiddy/material-logger/internal/correct"
	"github.com/pdiddy/material-logger/internal/extract"
	"github.com/pdiddy/material-logger/internal/ledger"
	"github.com/pdiddy/material-logger/internal/logger"
	"github.com/pdiddy/material-logger/internal/pipeline"
	"github.com/pdiddy/material-logger/internal/sink"
	"github.com/pdiddy/material-logger/internal/transcribe"
	"github.com/pdiddy/material-logger/pkg/types"
)

// newTranscriber chains the configured backends in preference order. A
// backend that cannot be set up (missing key, no container runtime) is
// skipped with a warning as long as another one remains.
func newTranscriber(c types.TranscriptionConfig) (transcribe.Transcriber, error) {
	var (
		backends []transcribe.Transcriber
		errs     []error
	)
	for _, name := range c.Backends {
		t, err := newBackend(name, c)
		if err != nil {
			logger.Warn("transcription backend unavailable", "backend", name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		backends = append(backends, t)
	}
	switch len(backends) {
	case 0:
		return nil, fmt.Errorf("no usable transcription backend: %w", errors.Join(errs...))
	case 1:
		return backends[0], nil
	default:
		return transcribe.NewFallback(backends...), nil
	}
}

func newBackend(name string, c types.TranscriptionConfig) (transcribe.Transcriber, error) {
	switch name {
	case types.BackendWhisper:
		return transcribe.NewWhisperServer(c.WhisperURL, c.Timeout,
			transcribe.WithWhisperLanguage(c.Language),
			transcribe.WithWhisperRetries(c.MaxRetries),
		), nil
	case types.BackendOpenAI:
		return transcribe.NewOpenAITranscriber(transcribe.OpenAIConfig{
			APIKey:     c.OpenAIAPIKey,
			BaseURL:    c.OpenAIBaseURL,
			Model:      c.OpenAIModel,
			Language:   c.Language,
			Timeout:    c.Timeout,
			MaxRetries: c.MaxRetries,
		})
	case types.BackendContainer:
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return transcribe.NewContainerTranscriber(rt, c.ContainerImage, c.Language)
	default:
		return nil, fmt.Errorf("unknown transcription backend %q", name)
	}
}

// newExtractor builds the extractor over the configured vocabulary.
func newExtractor(c types.VocabularyConfig) (*extract.Extractor, error) {
	vocab, err := extract.VocabularyFromConfig(c)
	if err != nil {
		return nil, err
	}
	return extract.New(vocab), nil
}

// newCorrector returns nil when correction is disabled.
func newCorrector(c types.CorrectionConfig, vocab extract.Vocabulary) *correct.Corrector {
	if !c.Enabled {
		return nil
	}
	return correct.New(vocab, c)
}

// openLedger opens the configured ledger store.
func openLedger(c types.LedgerConfig) (*ledger.Store, error) {
	return ledger.NewStore(c)
}

// newSink assembles every configured destination. The returned cleanup
// closes what was opened.
func newSink(ctx context.Context, c types.Config) (sink.RecordSink, func(), error) {
	var (
		sinks   sink.Multi
		closers []func()
	)
	cleanup := func() {
		for _, fn := range closers {
			fn()
		}
	}

	if c.Ledger.Enabled {
		store, err := openLedger(c.Ledger)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() { store.Close() })
		sinks = append(sinks, store)
	}
	if c.CSV.Path != "" {
		sinks = append(sinks, sink.NewCSV(c.CSV.Path))
	}
	if c.Sheets.SpreadsheetURL != "" {
		sh, err := sink.NewSheets(ctx, c.Sheets)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		sinks = append(sinks, sh)
	}

	switch len(sinks) {
	case 0:
		logger.Warn("no record sink configured; records are only printed")
		return sink.Discard, cleanup, nil
	case 1:
		return sinks[0], cleanup, nil
	default:
		return sinks, cleanup, nil
	}
}

// newPipeline builds the pipeline for the loaded configuration. When
// withAudio is false no transcriber is set up; when dryRun is true nothing
// is persisted.
func newPipeline(ctx context.Context, c types.Config, withAudio, dryRun bool) (*pipeline.Pipeline, func(), error) {
	ex, err := newExtractor(c.Vocabulary)
	if err != nil {
		return nil, func() {}, err
	}
	p := &pipeline.Pipeline{
		Extractor: ex,
		Corrector: newCorrector(c.Correction, ex.Vocabulary()),
	}

	if withAudio {
		if p.Transcriber, err = newTranscriber(c.Transcription); err != nil {
			return nil, func() {}, err
		}
	}

	if dryRun {
		return p, func() {}, nil
	}
	s, cleanup, err := newSink(ctx, c)
	if err != nil {
		return nil, cleanup, err
	}
	p.Sink = s
	return p, cleanup, nil
}
