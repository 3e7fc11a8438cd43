// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns dictated text into (material, quantity) records.
//
// Each material keyword binds to the nearest numeric token before it, plus the
// unit that immediately follows that numeric token, if any. Tokens are never
// consumed: two materials after one number both bind to it.
package extract

import (
	"iter"
	"strings"

	"github.com/pdiddy/material-logger/pkg/types"
)

// Extractor finds material records in text. It holds only an immutable
// vocabulary and is safe for concurrent use.
type Extractor struct {
	vocab Vocabulary
}

// New returns an Extractor over the given vocabulary.
func New(vocab Vocabulary) *Extractor {
	return &Extractor{vocab: vocab}
}

// Vocabulary returns the extractor's vocabulary.
func (e *Extractor) Vocabulary() Vocabulary {
	return e.vocab
}

// Extract returns all records found in text, in the order their material
// tokens appear. It never fails; text without a quantified material yields
// an empty slice.
func (e *Extractor) Extract(text string) []types.Record {
	records := []types.Record{}
	for r := range e.Records(text) {
		records = append(records, r)
	}
	return records
}

// Records yields records lazily, in material-token order.
func (e *Extractor) Records(text string) iter.Seq[types.Record] {
	return func(yield func(types.Record) bool) {
		tokens := Tokenize(text)

		// lastNum is the highest index < i holding a numeric token, i.e. the
		// first hit of a backward scan from i-1.
		lastNum := -1
		for i, tok := range tokens {
			if e.vocab.IsMaterial(tok) && lastNum >= 0 {
				if !yield(types.Record{Material: tok, Quantity: e.quantity(tokens, lastNum)}) {
					return
				}
			}
			if isNumeric(tok) {
				lastNum = i
			}
		}
	}
}

// quantity renders the numeric token at j and the unit after it, if any.
// The unit check looks forward from j, not from the material.
func (e *Extractor) quantity(tokens []string, j int) string {
	q := tokens[j]
	if j+1 < len(tokens) && e.vocab.IsUnit(tokens[j+1]) {
		q += " " + tokens[j+1]
	}
	return strings.TrimSpace(q)
}
