// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/material-logger/internal/extract"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Print the active material and unit vocabulary",
	RunE: func(cmd *cobra.Command, args []string) error {
		vocab, err := extract.VocabularyFromConfig(cfg.Vocabulary)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Materials (%d): %s\n", len(vocab.Materials()), strings.Join(vocab.Materials(), ", "))
		fmt.Fprintf(w, "Units (%d): %s\n", len(vocab.Units()), strings.Join(vocab.Units(), ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vocabCmd)
}
