// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/material-logger/internal/pipeline"
)

var extractCmd = &cobra.Command{
	Use:   "extract [text...]",
	Short: "Extract (material, quantity) records from text",
	Long: `Extract runs only the extraction stage. The text comes from the
arguments, from --file (a transcript), or from stdin. Nothing is written to
any sink.

Each material mention is paired with the nearest number before it, plus the
unit that directly follows that number.`,
	Example: `  material-logger extract "5 bags cement and 10 kg sand"
  material-logger extract --file transcripts/site-a.txt --json
  echo "3 tons gravel" | material-logger extract`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	source := "text"
	var text string
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading transcript: %w", err)
		}
		source, text = file, string(data)
	case len(args) > 0:
		text = strings.Join(args, " ")
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		source, text = "stdin", string(data)
	}

	c := cfg
	if cmd.Flags().Changed("correct") {
		c.Correction.Enabled, _ = cmd.Flags().GetBool("correct")
	}

	p, cleanup, err := newPipeline(cmd.Context(), c, false, true)
	defer cleanup()
	if err != nil {
		return err
	}

	res, err := p.ProcessText(cmd.Context(), source, text)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res.Records)
	}
	return printResults(cmd.OutOrStdout(), []pipeline.Result{res}, false)
}

func init() {
	extractCmd.Flags().String("file", "", "read text from this file")
	extractCmd.Flags().Bool("json", false, "print records as JSON")
	extractCmd.Flags().Bool("correct", false, "snap misheard material words onto the vocabulary")

	rootCmd.AddCommand(extractCmd)
}
