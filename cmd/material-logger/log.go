// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/material-logger/internal/pipeline"
)

var logCmd = &cobra.Command{
	Use:   "log [audio...]",
	Short: "Transcribe dictation, extract materials, and append the rows",
	Long: `Log runs the full pipeline on each audio file: transcription, optional
correction, extraction of (material, quantity) records, and appending the
numbered rows to every configured sink (ledger, CSV, Google Sheet).

Use --text to log a typed note instead of audio, and --dry-run to print
what would be logged without writing anything.`,
	Example: `  material-logger log site-a.wav site-b.mp3
  material-logger log --text "5 bags cement and 10 kg sand" --dry-run`,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if text == "" && len(args) == 0 {
		return errors.New("audio file or --text required")
	}
	if text != "" && len(args) > 0 {
		return errors.New("use either audio files or --text, not both")
	}

	ctx := cmd.Context()
	p, cleanup, err := newPipeline(ctx, cfg, text == "", dryRun)
	defer cleanup()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if text != "" {
		res, err := p.ProcessText(ctx, "text", text)
		if perr := printResults(out, []pipeline.Result{res}, jsonOutput); perr != nil {
			return perr
		}
		return err
	}

	results, summary := p.ProcessBatch(ctx, args, cmd.ErrOrStderr())
	if err := printResults(out, results, jsonOutput); err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed", summary.Failed)
	}
	return nil
}

func printResults(w io.Writer, results []pipeline.Result, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	for _, r := range results {
		fmt.Fprintf(w, "\n%s\n", r.Source)
		fmt.Fprintf(w, "Transcript: %s\n", r.Transcript)
		for _, c := range r.Corrections {
			fmt.Fprintf(w, "Corrected:  %s -> %s (%s, %.2f)\n", c.Original, c.Corrected, c.Method, c.Confidence)
		}
		if len(r.Records) == 0 {
			fmt.Fprintln(w, "No materials found.")
			continue
		}
		fmt.Fprintf(w, "%-4s  %-12s  %s\n", "S.No", "Material", "Quantity")
		fmt.Fprintln(w, strings.Repeat("-", 32))
		for i, rec := range r.Records {
			fmt.Fprintf(w, "%-4d  %-12s  %s\n", i+1, rec.Material, rec.Quantity)
		}
	}
	return nil
}

func init() {
	logCmd.Flags().String("text", "", "log this text instead of audio files")
	logCmd.Flags().Bool("dry-run", false, "print records without writing to any sink")
	logCmd.Flags().Bool("json", false, "print results as JSON")
	logCmd.Flags().String("csv", "", "append rows to this CSV file (overrides csv.path)")
	logCmd.Flags().String("sheet-url", "", "append rows to this Google Sheet (overrides sheets.spreadsheet_url)")
	logCmd.Flags().Bool("correct", false, "snap misheard material words onto the vocabulary (overrides correction.enabled)")

	_ = viper.BindPFlag("csv.path", logCmd.Flags().Lookup("csv"))
	_ = viper.BindPFlag("sheets.spreadsheet_url", logCmd.Flags().Lookup("sheet-url"))
	_ = viper.BindPFlag("correction.enabled", logCmd.Flags().Lookup("correct"))

	rootCmd.AddCommand(logCmd)
}
