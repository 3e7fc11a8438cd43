// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/material-logger/pkg/types"
)

// QueryOptions filters ledger listings. Zero fields do not filter.
type QueryOptions struct {
	// Material restricts to one material keyword.
	Material string

	// SessionID restricts to one logged batch.
	SessionID string

	// Since drops sessions logged before this instant.
	Since time.Time

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// where builds the shared WHERE clause for opts.
func (q QueryOptions) where() (string, []any) {
	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(` WHERE 1=1`)
	if q.Material != "" {
		qb.WriteString(` AND r.material = ?`)
		args = append(args, strings.ToLower(q.Material))
	}
	if q.SessionID != "" {
		qb.WriteString(` AND r.session_id = ?`)
		args = append(args, q.SessionID)
	}
	if !q.Since.IsZero() {
		qb.WriteString(` AND s.logged_at >= ?`)
		args = append(args, q.Since.UTC().Format(timeLayout))
	}
	return qb.String(), args
}

// List returns ledger entries ordered by log time, then row number.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]types.LedgerEntry, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	where, args := opts.where()
	query := `SELECT r.session_id, s.source, s.logged_at, r.seq, r.material, r.quantity
		FROM records r
		JOIN sessions s ON s.id = r.session_id` + where +
		` ORDER BY s.logged_at, r.session_id, r.seq LIMIT ?`
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	var entries []types.LedgerEntry
	for rows.Next() {
		var (
			e        types.LedgerEntry
			loggedAt string
		)
		if err := rows.Scan(&e.SessionID, &e.Source, &loggedAt, &e.Seq, &e.Material, &e.Quantity); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if e.LoggedAt, err = time.Parse(timeLayout, loggedAt); err != nil {
			return nil, fmt.Errorf("parsing logged_at %q: %w", loggedAt, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Total aggregates the quantities logged for one material in one unit.
type Total struct {
	Material string  `json:"material" yaml:"material"`
	Unit     string  `json:"unit" yaml:"unit"`
	Amount   float64 `json:"amount" yaml:"amount"`
	Mentions int     `json:"mentions" yaml:"mentions"`
}

// Totals sums the numeric part of logged quantities per material and unit.
// Quantities whose number cannot be parsed still count as mentions.
func (s *Store) Totals(ctx context.Context, opts QueryOptions) ([]Total, error) {
	where, args := opts.where()
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.material, r.quantity FROM records r
		JOIN sessions s ON s.id = r.session_id`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	type key struct{ material, unit string }
	sums := make(map[key]*Total)
	for rows.Next() {
		var material, quantity string
		if err := rows.Scan(&material, &quantity); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		amount, unit := ParseQuantity(quantity)
		k := key{material, unit}
		t, ok := sums[k]
		if !ok {
			t = &Total{Material: material, Unit: unit}
			sums[k] = t
		}
		t.Amount += amount
		t.Mentions++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totals := make([]Total, 0, len(sums))
	for _, t := range sums {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Material != totals[j].Material {
			return totals[i].Material < totals[j].Material
		}
		return totals[i].Unit < totals[j].Unit
	})
	return totals, nil
}

// ParseQuantity splits a logged quantity such as "5 bags", "2.5", "1,000 kg"
// or "5kg" into its amount and unit. The unit is whatever follows the first
// space, or the letters glued to the number ("5kg"). A number that does not
// parse, such as a range "3-4", yields amount 0.
func ParseQuantity(q string) (float64, string) {
	num, unit, _ := strings.Cut(strings.TrimSpace(q), " ")
	unit = strings.TrimSpace(unit)
	num = strings.ReplaceAll(num, ",", "")

	if amount, err := strconv.ParseFloat(num, 64); err == nil {
		return amount, unit
	}

	end := strings.IndexFunc(num, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	if end <= 0 || !isLetters(num[end:]) {
		return 0, unit
	}
	amount, err := strconv.ParseFloat(num[:end], 64)
	if err != nil {
		return 0, unit
	}
	if unit != "" {
		return amount, num[end:] + " " + unit
	}
	return amount, num[end:]
}

func isLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
