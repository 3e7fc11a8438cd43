// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline wires the stages of a dictation together: transcribe,
// optionally correct, extract, and append the records to a sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pdiddy/material-logger/internal/correct"
	"github.com/pdiddy/material-logger/internal/extract"
	"github.com/pdiddy/material-logger/internal/logger"
	"github.com/pdiddy/material-logger/internal/sink"
	"github.com/pdiddy/material-logger/internal/transcribe"
	"github.com/pdiddy/material-logger/pkg/types"
)

// Pipeline holds the collaborators of one run. Corrector and Sink are
// optional; Transcriber is only needed for audio input.
type Pipeline struct {
	Transcriber transcribe.Transcriber
	Corrector   *correct.Corrector
	Extractor   *extract.Extractor
	Sink        sink.RecordSink
}

// Result is the outcome of one dictation.
type Result struct {
	Source      string               `json:"source" yaml:"source"`
	Transcript  string               `json:"transcript" yaml:"transcript"`
	Records     []types.Record       `json:"records" yaml:"records"`
	Corrections []correct.Correction `json:"corrections,omitempty" yaml:"corrections,omitempty"`
}

// Batch returns the records as a sink batch.
func (r Result) Batch() types.Batch {
	return types.Batch{Source: r.Source, Records: r.Records}
}

// ProcessText corrects and extracts text, then appends the records to the
// sink. The result is returned even when the sink fails.
func (p *Pipeline) ProcessText(ctx context.Context, source, text string) (Result, error) {
	if p.Extractor == nil {
		return Result{}, errors.New("pipeline has no extractor")
	}

	res := Result{Source: source, Transcript: text}
	if p.Corrector != nil {
		text, res.Corrections = p.Corrector.Correct(text)
		for _, c := range res.Corrections {
			logger.Debug("corrected transcript word",
				"source", source, "from", c.Original, "to", c.Corrected,
				"method", c.Method, "confidence", c.Confidence)
		}
	}
	res.Records = p.Extractor.Extract(text)

	if p.Sink == nil {
		return res, nil
	}
	if err := p.Sink.Append(ctx, res.Batch()); err != nil {
		return res, fmt.Errorf("appending records from %s: %w", source, err)
	}
	return res, nil
}

// ProcessFile transcribes audioPath and processes the transcript. When
// transcription fails the result carries the operator placeholder as its
// transcript, nothing is written, and the error wraps the transcription
// failure.
func (p *Pipeline) ProcessFile(ctx context.Context, audioPath string) (Result, error) {
	if p.Transcriber == nil {
		return Result{}, errors.New("pipeline has no transcriber")
	}

	text, err := p.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return Result{
			Source:     audioPath,
			Transcript: transcribe.Placeholder(err),
			Records:    []types.Record{},
		}, fmt.Errorf("transcribing %s: %w", audioPath, err)
	}
	logger.Debug("transcribed", "file", audioPath, "backend", p.Transcriber.Name(), "chars", len(text))
	return p.ProcessText(ctx, audioPath, text)
}

// Summary holds the outcome of a batch run.
type Summary struct {
	Logged  int
	Failed  int
	Records int
}

// Total returns the number of files processed.
func (s Summary) Total() int {
	return s.Logged + s.Failed
}

// HasFailures reports whether any file failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// ProcessBatch processes audio files one after another so rows reach the
// sink in dictation order. Per-file status goes to w; a failed file does not
// stop the batch, a cancelled context does.
func (p *Pipeline) ProcessBatch(ctx context.Context, paths []string, w io.Writer) ([]Result, Summary) {
	var (
		results []Result
		summary Summary
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(path), err)
			summary.Failed++
			continue
		}

		res, err := p.ProcessFile(ctx, path)
		results = append(results, res)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", filepath.Base(path), err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "logged: %s (%d records)\n", filepath.Base(path), len(res.Records))
		summary.Logged++
		summary.Records += len(res.Records)
	}

	fmt.Fprintf(w, "\nBatch summary: %d logged, %d failed, %d records (total: %d)\n",
		summary.Logged, summary.Failed, summary.Records, summary.Total())
	return results, summary
}
