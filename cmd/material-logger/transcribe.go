// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/material-logger/internal/transcribe"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [audio...]",
	Short: "Transcribe audio files to text without logging",
	Long: `Transcribe converts each audio file to <out-dir>/<name>.txt using the
configured backends. Existing transcripts are skipped, so an interrupted
batch can be resumed. Files are transcribed concurrently.

Supported formats: wav, mp3, flac, m4a, ogg.`,
	RunE: runTranscribe,
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.New("at least one audio file required")
	}

	t, err := newTranscriber(cfg.Transcription)
	if err != nil {
		return err
	}

	result := transcribe.TranscribeBatch(cmd.Context(), t, args,
		cfg.Transcription.TranscriptsDir, cfg.Transcription.Concurrency, cmd.OutOrStdout())
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed transcription", result.Failed)
	}
	return nil
}

func init() {
	transcribeCmd.Flags().String("out-dir", "transcripts", "directory for transcript files")
	transcribeCmd.Flags().Int("concurrency", 2, "files transcribed at once")
	transcribeCmd.Flags().StringSlice("backend", nil, "backends in preference order: whisper, openai, container")

	_ = viper.BindPFlag("transcription.transcripts_dir", transcribeCmd.Flags().Lookup("out-dir"))
	_ = viper.BindPFlag("transcription.concurrency", transcribeCmd.Flags().Lookup("concurrency"))
	_ = viper.BindPFlag("transcription.backends", transcribeCmd.Flags().Lookup("backend"))

	rootCmd.AddCommand(transcribeCmd)
}
