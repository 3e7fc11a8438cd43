// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Record is one extracted (material, quantity) pair.
type Record struct {
	// Material is a member of the material vocabulary, lower-cased.
	Material string `json:"material" yaml:"material"`

	// Quantity is the numeric token, optionally followed by a space and a
	// unit (e.g. "5 bags", "10").
	Quantity string `json:"quantity" yaml:"quantity"`
}

// Batch is the unit handed to a record sink: the records extracted from one
// dictation plus the name of the recording or text they came from.
type Batch struct {
	// Source identifies the input (audio file path, "text", "stdin").
	Source string `json:"source" yaml:"source"`

	// Records are the extracted records in dictation order.
	Records []Record `json:"records" yaml:"records"`
}

// Len returns the number of records in the batch.
func (b Batch) Len() int {
	return len(b.Records)
}

// Row is a numbered record as persisted by a sink. Seq starts at 1 within
// each appended batch.
type Row struct {
	Seq      int    `json:"seq" yaml:"seq"`
	Material string `json:"material" yaml:"material"`
	Quantity string `json:"quantity" yaml:"quantity"`
}

// Rows numbers the batch's records from 1.
func (b Batch) Rows() []Row {
	rows := make([]Row, len(b.Records))
	for i, r := range b.Records {
		rows[i] = Row{Seq: i + 1, Material: r.Material, Quantity: r.Quantity}
	}
	return rows
}

// SheetHeader is the header row written by tabular sinks.
var SheetHeader = []string{"S.No", "Material", "Quantity"}

// LedgerEntry is a row of the local ledger with its session provenance.
type LedgerEntry struct {
	SessionID string    `json:"session_id" yaml:"session_id"`
	Source    string    `json:"source" yaml:"source"`
	LoggedAt  time.Time `json:"logged_at" yaml:"logged_at"`
	Seq       int       `json:"seq" yaml:"seq"`
	Material  string    `json:"material" yaml:"material"`
	Quantity  string    `json:"quantity" yaml:"quantity"`
}
