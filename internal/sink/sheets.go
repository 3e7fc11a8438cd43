// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sink

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/pdiddy/material-logger/internal/logger"
	"github.com/pdiddy/material-logger/pkg/types"
)

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// SpreadsheetID extracts the document ID from a Google Sheets URL. A bare ID
// is returned as is.
func SpreadsheetID(url string) (string, error) {
	url = strings.TrimSpace(url)
	if m := spreadsheetIDPattern.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	if url != "" && !strings.ContainsAny(url, "/:?") {
		return url, nil
	}
	return "", fmt.Errorf("no spreadsheet ID in %q", url)
}

// Sheets writes batches to one worksheet of a Google spreadsheet: the header
// at A1, then the rows appended below existing data in a single call.
type Sheets struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	sheet         string
}

// NewSheets connects to the spreadsheet named in cfg. Credentials come from
// cfg.CredentialsJSON or cfg.CredentialsFile; extra opts are appended and
// let tests point the client at a fake endpoint.
func NewSheets(ctx context.Context, cfg types.SheetsConfig, opts ...option.ClientOption) (*Sheets, error) {
	id, err := SpreadsheetID(cfg.SpreadsheetURL)
	if err != nil {
		return nil, err
	}

	var clientOpts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	case len(opts) == 0:
		return nil, errors.New("sheets sink requires service account credentials (sheets.credentials_file or .secrets/google-service-account)")
	}
	if len(clientOpts) > 0 {
		clientOpts = append(clientOpts, option.WithScopes(sheets.SpreadsheetsScope))
	}
	clientOpts = append(clientOpts, opts...)

	srv, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}
	return &Sheets{values: srv.Spreadsheets.Values, spreadsheetID: id, sheet: cfg.Sheet}, nil
}

func (s *Sheets) Name() string { return "sheets:" + s.spreadsheetID }

// a1 qualifies cell with the worksheet name. Without one the first sheet is
// addressed.
func (s *Sheets) a1(cell string) string {
	if s.sheet == "" {
		return cell
	}
	return "'" + strings.ReplaceAll(s.sheet, "'", "''") + "'!" + cell
}

// Append rewrites the header row and appends the batch. Values are sent
// RAW so quantities such as "3-4" or "5e3" are stored as typed.
func (s *Sheets) Append(ctx context.Context, batch types.Batch) error {
	header := make([]interface{}, len(types.SheetHeader))
	for i, h := range types.SheetHeader {
		header[i] = h
	}
	_, err := s.values.Update(s.spreadsheetID, s.a1("A1"), &sheets.ValueRange{
		Values: [][]interface{}{header},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing sheet header: %w", err)
	}

	rows := batch.Rows()
	if len(rows) == 0 {
		return nil
	}
	values := make([][]interface{}, len(rows))
	for i, r := range rows {
		values[i] = []interface{}{r.Seq, r.Material, r.Quantity}
	}

	resp, err := s.values.Append(s.spreadsheetID, s.a1("A:C"), &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending %d rows: %w", len(rows), err)
	}
	if resp.Updates != nil {
		logger.Debug("sheet rows appended", "range", resp.Updates.UpdatedRange, "rows", resp.Updates.UpdatedRows)
	}
	return nil
}
