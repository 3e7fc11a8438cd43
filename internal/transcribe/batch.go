// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transcribe

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// FileStatus is the outcome of transcribing one file.
type FileStatus int

const (
	StatusTranscribed FileStatus = iota
	StatusSkipped
	StatusFailed
)

// BatchResult holds the outcome of a batch transcription run.
type BatchResult struct {
	Transcribed int
	Skipped     int
	Failed      int
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Transcribed + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// TranscriptPath returns where the transcript of audioPath is written in dir.
func TranscriptPath(dir, audioPath string) string {
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	return filepath.Join(dir, base+".txt")
}

// TranscribeFile transcribes one audio file into dir. An existing transcript
// is left alone and reported as skipped.
func TranscribeFile(ctx context.Context, t Transcriber, audioPath, dir string) (FileStatus, error) {
	txtPath := TranscriptPath(dir, audioPath)
	if _, err := os.Stat(txtPath); err == nil {
		return StatusSkipped, nil
	}
	if !SupportedFormat(audioPath) {
		return StatusFailed, fmt.Errorf("unsupported audio format %q", filepath.Ext(audioPath))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return StatusFailed, err
	}

	text, err := t.Transcribe(ctx, audioPath)
	if err != nil {
		return StatusFailed, err
	}
	if err := os.WriteFile(txtPath, []byte(text+"\n"), 0o644); err != nil {
		return StatusFailed, err
	}
	return StatusTranscribed, nil
}

// TranscribeBatch transcribes paths into dir with at most concurrency files
// in flight, printing per-file status to w and returning a summary. A failed
// file does not stop the batch; a cancelled context does.
func TranscribeBatch(ctx context.Context, t Transcriber, paths []string, dir string, concurrency int, w io.Writer) BatchResult {
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		mu     sync.Mutex
		result BatchResult
	)
	report := func(path string, status FileStatus, err error) {
		mu.Lock()
		defer mu.Unlock()
		name := filepath.Base(path)
		switch status {
		case StatusTranscribed:
			result.Transcribed++
			fmt.Fprintf(w, "transcribed: %s\n", name)
		case StatusSkipped:
			result.Skipped++
			fmt.Fprintf(w, "skipped: %s (already exists)\n", name)
		case StatusFailed:
			result.Failed++
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		}
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	for _, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				report(p, StatusFailed, err)
				return nil
			}
			status, err := TranscribeFile(ctx, t, p, dir)
			report(p, status, err)
			return nil
		})
	}
	_ = g.Wait()

	fmt.Fprintf(w, "\nBatch summary: %d transcribed, %d skipped, %d failed (total: %d)\n",
		result.Transcribed, result.Skipped, result.Failed, result.Total())
	return result
}
