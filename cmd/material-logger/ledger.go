// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/material-logger/internal/ledger"
	"github.com/pdiddy/material-logger/pkg/types"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Query the local ledger (list, totals, export)",
	Long: `Ledger reads the local SQLite ledger that records every logged batch
with its source and time. Use subcommands to list rows, total the
quantities per material, or export them.`,
}

// --- list subcommand ---

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged rows, oldest first",
	RunE:  runLedgerList,
}

func runLedgerList(cmd *cobra.Command, args []string) error {
	opts, err := ledgerQueryFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := openLedger(cfg.Ledger)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatLedgerList(cmd.OutOrStdout(), entries, jsonOutput)
}

func formatLedgerList(w io.Writer, entries []types.LedgerEntry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return nil
	}

	fmt.Fprintf(w, "%-16s  %-8s  %-4s  %-12s  %-12s  %s\n",
		"Logged", "Session", "S.No", "Material", "Quantity", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, e := range entries {
		fmt.Fprintf(w, "%-16s  %-8s  %-4d  %-12s  %-12s  %s\n",
			e.LoggedAt.Local().Format("2006-01-02 15:04"), shortID(e.SessionID),
			e.Seq, e.Material, e.Quantity, e.Source)
	}
	fmt.Fprintf(w, "\n%d entries\n", len(entries))
	return nil
}

// shortID returns the first eight characters of a session ID.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// --- totals subcommand ---

var ledgerTotalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Sum logged quantities per material and unit",
	RunE:  runLedgerTotals,
}

func runLedgerTotals(cmd *cobra.Command, args []string) error {
	opts, err := ledgerQueryFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := openLedger(cfg.Ledger)
	if err != nil {
		return err
	}
	defer store.Close()

	totals, err := store.Totals(cmd.Context(), opts)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(totals)
	}

	if len(totals) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return nil
	}
	fmt.Fprintf(w, "%-12s  %12s  %-8s  %s\n", "Material", "Amount", "Unit", "Mentions")
	fmt.Fprintln(w, strings.Repeat("-", 46))
	for _, t := range totals {
		fmt.Fprintf(w, "%-12s  %12g  %-8s  %d\n", t.Material, t.Amount, t.Unit, t.Mentions)
	}
	return nil
}

// --- export subcommand ---

var ledgerExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the ledger to YAML or JSON",
	Long: `Export writes the ledger (or a filtered subset) to export.yaml or
export.json in the ledger directory. Supports the same filter flags as
list.`,
	RunE: runLedgerExport,
}

func runLedgerExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	opts, err := ledgerQueryFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := openLedger(cfg.Ledger)
	if err != nil {
		return err
	}
	defer store.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func ledgerQueryFromFlags(cmd *cobra.Command) (ledger.QueryOptions, error) {
	material, _ := cmd.Flags().GetString("material")
	session, _ := cmd.Flags().GetString("session")
	since, _ := cmd.Flags().GetString("since")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := ledger.QueryOptions{
		Material:   material,
		SessionID:  session,
		MaxResults: limit,
	}
	if since != "" {
		t, err := parseSince(since, time.Now())
		if err != nil {
			return opts, err
		}
		opts.Since = t
	}
	return opts, nil
}

// parseSince accepts a date (2006-01-02), an RFC 3339 time, or a duration
// back from now (e.g. 24h).
func parseSince(s string, now time.Time) (time.Time, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --since %q: use a date, an RFC 3339 time, or a duration like 24h", s)
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	ledgerCmd.PersistentFlags().String("ledger-dir", "ledger", "directory holding ledger.db and exports")
	ledgerCmd.PersistentFlags().String("material", "", "filter by material")
	ledgerCmd.PersistentFlags().String("session", "", "filter by session ID")
	ledgerCmd.PersistentFlags().String("since", "", "only entries logged since a date, time, or duration ago")
	ledgerCmd.PersistentFlags().Bool("json", false, "output as JSON")

	_ = viper.BindPFlag("ledger.dir", ledgerCmd.PersistentFlags().Lookup("ledger-dir"))

	ledgerListCmd.Flags().Int("limit", 0, "maximum entries (0 = use ledger.max_results)")
	ledgerExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	// Wire subcommands.
	ledgerCmd.AddCommand(ledgerListCmd)
	ledgerCmd.AddCommand(ledgerTotalsCmd)
	ledgerCmd.AddCommand(ledgerExportCmd)

	rootCmd.AddCommand(ledgerCmd)
}
